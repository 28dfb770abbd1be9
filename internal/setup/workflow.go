// Package setup switches a USB-attached device to wireless debugging.
package setup

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/FluidXR/adbwifi/internal/adb"
	"github.com/FluidXR/adbwifi/internal/ui"
)

// Bridge is the subset of the adb client the workflow drives.
type Bridge interface {
	Version(ctx context.Context) (string, error)
	Devices(ctx context.Context) ([]adb.Device, error)
	TCPIP(ctx context.Context, serial string, port int) error
	DeviceIP(ctx context.Context, serial string) (string, bool)
	Connect(ctx context.Context, ip string, port int) (string, error)
}

// Workflow runs the USB to WiFi switch step by step.
type Workflow struct {
	Bridge       Bridge
	Prompt       ui.Prompter
	Out          io.Writer
	Port         int
	ConnectDelay time.Duration

	// Sleep waits between unplug and connect. Nil uses a context-aware timer.
	Sleep func(ctx context.Context, d time.Duration) error
}

// Report describes what a run achieved, as far as it got.
type Report struct {
	Serial   string
	IP       string
	Endpoint string
	Wireless string
}

// Confirmed reports whether the resolved endpoint itself showed up after
// reconnecting, as opposed to some other wireless device.
func (r Report) Confirmed() bool {
	return r.Wireless != "" && r.Wireless == r.Endpoint
}

func (w *Workflow) printf(format string, args ...any) {
	fmt.Fprintf(w.Out, format, args...)
}

func (w *Workflow) println(s string) {
	fmt.Fprintln(w.Out, s)
}

// Run executes every step in order and stops at the first failure.
func (w *Workflow) Run(ctx context.Context) (Report, error) {
	var rep Report
	port := w.Port
	if port == 0 {
		port = adb.DefaultPort
	}

	w.println("🚀 Setting up wireless debugging...")

	version, err := w.Bridge.Version(ctx)
	if err != nil {
		w.println(ui.Fail("Error: ADB not found in PATH."))
		w.println(ui.Hint("Please install Android SDK Platform Tools."))
		return rep, fmt.Errorf("%w: %v", ErrToolNotFound, err)
	}
	w.println(ui.Hint(version))

	w.println("\n" + ui.Step("📱 Step 1: Checking connected devices..."))
	serial, err := w.selectDevice(ctx, port)
	if err != nil {
		return rep, err
	}
	rep.Serial = serial

	w.println("\n" + ui.Step(fmt.Sprintf("🔧 Step 2: Enabling TCP/IP mode on port %d...", port)))
	if err := w.Bridge.TCPIP(ctx, serial, port); err != nil {
		w.println(ui.Fail(fmt.Sprintf("Failed to enable TCP/IP mode: %v", err)))
		return rep, fmt.Errorf("%w: %v", ErrModeSwitch, err)
	}
	w.println(ui.OK("TCP/IP mode enabled"))

	w.println("\n" + ui.Step("🌐 Step 3: Getting device IP address..."))
	ip, ok := w.Bridge.DeviceIP(ctx, serial)
	if !ok {
		w.println(ui.Warn("Could not automatically detect IP."))
		ip, err = w.Prompt.AskIP()
		if err != nil {
			return rep, fmt.Errorf("%w: %v", ErrIPUnresolved, err)
		}
	}
	rep.IP = ip
	rep.Endpoint = adb.Endpoint(ip, port)
	w.printf("📍 Device IP: %s\n", ip)

	w.println("\n" + ui.Step("🔌 Step 4: Waiting for USB disconnect..."))
	if err := w.Prompt.WaitForUnplug(); err != nil {
		return rep, err
	}

	w.println("\n" + ui.Step("📶 Step 5: Connecting via WiFi..."))
	if err := w.sleep(ctx, w.ConnectDelay); err != nil {
		return rep, err
	}
	if out, err := w.Bridge.Connect(ctx, ip, port); err != nil {
		w.println(ui.Warn(fmt.Sprintf("Connection result: %s", firstNonEmpty(out, err.Error()))))
	} else {
		w.println(ui.OK("Connected successfully!"))
	}

	w.println("\n" + ui.Step("🔍 Step 6: Verifying connection..."))
	wireless, ok := w.verify(ctx, rep.Endpoint, port)
	if !ok {
		w.println(ui.Fail("Wireless connection not found"))
		return rep, fmt.Errorf("%w: %s", ErrVerify, rep.Endpoint)
	}
	rep.Wireless = wireless
	if !rep.Confirmed() {
		w.println(ui.Warn(fmt.Sprintf("%s did not appear; found wireless device %s instead.", rep.Endpoint, wireless)))
		w.println(ui.Hint(fmt.Sprintf("Check the IP address, then retry with: adb connect %s", rep.Endpoint)))
		return rep, nil
	}
	w.println(ui.OK(fmt.Sprintf("Wireless connection verified: %s", wireless)))

	w.println("\n🎉 Setup complete! The device is now reachable over WiFi.")
	w.println(fmt.Sprintf("\n💡 To reconnect later: adb connect %s", rep.Endpoint))
	w.println("💡 To disable wireless debugging: adb usb")
	return rep, nil
}

// selectDevice lists devices and picks the one to switch. Devices already
// connected over WiFi are not candidates; several USB devices are resolved by
// asking the operator.
func (w *Workflow) selectDevice(ctx context.Context, port int) (string, error) {
	// A failed listing reads as no devices.
	devices, _ := w.Bridge.Devices(ctx)
	ready := adb.Ready(devices)
	if len(ready) == 0 {
		w.println(ui.Fail("No devices connected via USB."))
		if pending := adb.Unauthorized(devices); len(pending) > 0 {
			w.println(ui.Hint(fmt.Sprintf("Unauthorized: %s. Accept the USB debugging prompt on the device.", strings.Join(pending, ", "))))
		} else {
			w.println(ui.Hint("Please connect your device and enable USB debugging."))
		}
		return "", ErrNoDevice
	}
	w.println(ui.OK(fmt.Sprintf("Found device(s): %s", strings.Join(ready, ", "))))

	var candidates []string
	for _, s := range ready {
		if !adb.IsWireless(s, port) {
			candidates = append(candidates, s)
		}
	}
	if len(candidates) == 0 {
		// Only wireless devices: tcpip on one of them still re-arms the port.
		candidates = ready
	}
	if len(candidates) == 1 {
		return candidates[0], nil
	}
	return w.Prompt.ChooseDevice(candidates)
}

// verify re-lists devices and looks for endpoint, falling back to any
// wireless form identifier.
func (w *Workflow) verify(ctx context.Context, endpoint string, port int) (string, bool) {
	devices, _ := w.Bridge.Devices(ctx)
	wireless := adb.WirelessOnly(adb.Ready(devices), port)
	for _, id := range wireless {
		if id == endpoint {
			return id, true
		}
	}
	if len(wireless) > 0 {
		return wireless[0], true
	}
	return "", false
}

func (w *Workflow) sleep(ctx context.Context, d time.Duration) error {
	if w.Sleep != nil {
		return w.Sleep(ctx, d)
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
