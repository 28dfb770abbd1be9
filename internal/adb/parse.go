package adb

import (
	"bufio"
	"net"
	"regexp"
	"strconv"
	"strings"
)

// WirelessInterface is the interface name filtered for in the route table.
const WirelessInterface = "wlan"

var routeSrcRe = regexp.MustCompile(`src (\d+\.\d+\.\d+\.\d+)`)

// parseDeviceList parses `adb devices -l` output.
func parseDeviceList(output string) []Device {
	var devices []Device
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if strings.HasPrefix(line, "List of") || strings.HasPrefix(line, "*") || strings.TrimSpace(line) == "" {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) < 2 {
			continue
		}
		d := Device{
			Serial:   fields[0],
			State:    fields[1],
			ConnType: connType(fields[0]),
		}
		for _, f := range fields[2:] {
			key, value, ok := strings.Cut(f, ":")
			if !ok {
				continue
			}
			switch key {
			case "model":
				d.Model = value
			case "product":
				d.Product = value
			case "transport_id":
				d.TransportID = value
			}
		}
		devices = append(devices, d)
	}
	return devices
}

func connType(serial string) ConnectionType {
	// adb-<id>._adb-tls-connect._tcp is the mDNS form of a paired wireless device.
	if strings.Contains(serial, ":") || strings.Contains(serial, "._adb-tls-") {
		return WiFi
	}
	return USB
}

// ParseRouteIP extracts the source address of the first wireless route from
// `ip route` output. Lines for other interfaces are ignored.
func ParseRouteIP(output string) (string, bool) {
	scanner := bufio.NewScanner(strings.NewReader(output))
	for scanner.Scan() {
		line := scanner.Text()
		if !strings.Contains(line, WirelessInterface) {
			continue
		}
		m := routeSrcRe.FindStringSubmatch(line)
		if m == nil || !ValidIPv4(m[1]) {
			continue
		}
		return m[1], true
	}
	return "", false
}

// ValidIPv4 reports whether s is a dotted-quad IPv4 address.
func ValidIPv4(s string) bool {
	if strings.Count(s, ".") != 3 || strings.Contains(s, ":") {
		return false
	}
	ip := net.ParseIP(s)
	return ip != nil && ip.To4() != nil
}

// Endpoint formats the wireless form identifier ip:port.
func Endpoint(ip string, port int) string {
	return net.JoinHostPort(ip, strconv.Itoa(port))
}

// IsWireless reports whether id has the wireless form <ipv4>:<port>.
func IsWireless(id string, port int) bool {
	host, p, err := net.SplitHostPort(id)
	if err != nil {
		return false
	}
	return p == strconv.Itoa(port) && ValidIPv4(host)
}

// WirelessOnly filters ids down to wireless form identifiers.
func WirelessOnly(ids []string, port int) []string {
	var out []string
	for _, id := range ids {
		if IsWireless(id, port) {
			out = append(out, id)
		}
	}
	return out
}
