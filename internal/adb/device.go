package adb

// ConnectionType indicates how a device is connected.
type ConnectionType string

const (
	USB  ConnectionType = "usb"
	WiFi ConnectionType = "wifi"
)

// StateReady is the state adb reports for an authorized, usable device.
const StateReady = "device"

// Device is one line of `adb devices -l`.
type Device struct {
	Serial      string
	State       string // "device", "offline", "unauthorized", etc.
	ConnType    ConnectionType
	Model       string
	Product     string
	TransportID string
}

// IsOnline returns true if the device is in "device" state (ready).
func (d Device) IsOnline() bool {
	return d.State == StateReady
}

// Ready returns the serials of online devices, in listing order.
func Ready(devices []Device) []string {
	var serials []string
	for _, d := range devices {
		if d.IsOnline() {
			serials = append(serials, d.Serial)
		}
	}
	return serials
}

// Unauthorized returns the serials of devices waiting for the USB debugging prompt.
func Unauthorized(devices []Device) []string {
	var serials []string
	for _, d := range devices {
		if d.State == "unauthorized" {
			serials = append(serials, d.Serial)
		}
	}
	return serials
}
