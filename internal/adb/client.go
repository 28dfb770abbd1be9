package adb

import (
	"context"
	"fmt"
	"strconv"
	"strings"
)

// DefaultPort is the TCP port adb listens on in TCP/IP mode.
const DefaultPort = 5555

// Client wraps ADB command-line calls.
type Client struct {
	Path   string
	Runner Runner
}

// NewClient creates a new ADB client for the binary at path ("adb" if empty).
func NewClient(path string) *Client {
	if path == "" {
		path = "adb"
	}
	return &Client{Path: path, Runner: ExecRunner{}}
}

func (c *Client) run(ctx context.Context, args ...string) Result {
	return c.Runner.Run(ctx, c.Path, args...)
}

func serialArgs(serial string, args ...string) []string {
	if serial == "" {
		return args
	}
	return append([]string{"-s", serial}, args...)
}

// Version returns the first line of `adb version`.
func (c *Client) Version(ctx context.Context) (string, error) {
	res := c.run(ctx, "version")
	if !res.OK {
		return "", fmt.Errorf("adb version: %s", strings.TrimSpace(res.Stderr))
	}
	first, _, _ := strings.Cut(strings.TrimSpace(res.Stdout), "\n")
	return strings.TrimSpace(first), nil
}

// Devices returns all devices adb knows about, whatever their state.
func (c *Client) Devices(ctx context.Context) ([]Device, error) {
	res := c.run(ctx, "devices", "-l")
	if !res.OK {
		return nil, fmt.Errorf("adb devices: %s", strings.TrimSpace(res.Stderr))
	}
	return parseDeviceList(res.Stdout), nil
}

// TCPIP restarts adbd on the device listening on port.
func (c *Client) TCPIP(ctx context.Context, serial string, port int) error {
	res := c.run(ctx, serialArgs(serial, "tcpip", strconv.Itoa(port))...)
	if !res.OK {
		return fmt.Errorf("adb tcpip %d: %s", port, strings.TrimSpace(res.Stderr))
	}
	return nil
}

// DeviceIP reads the device's route table and returns the wireless source address.
func (c *Client) DeviceIP(ctx context.Context, serial string) (string, bool) {
	res := c.run(ctx, serialArgs(serial, "shell", "ip", "route")...)
	if !res.OK {
		return "", false
	}
	return ParseRouteIP(res.Stdout)
}

// Connect connects to a wireless ADB device and returns adb's output.
func (c *Client) Connect(ctx context.Context, ip string, port int) (string, error) {
	addr := Endpoint(ip, port)
	res := c.run(ctx, "connect", addr)
	output := strings.TrimSpace(res.Stdout)
	if !res.OK {
		return output, fmt.Errorf("adb connect %s: %s", addr, strings.TrimSpace(res.Stderr))
	}
	// adb exits 0 on "failed to connect" too; only the message tells.
	if strings.Contains(strings.ToLower(output), "connected") {
		return output, nil
	}
	return output, fmt.Errorf("adb connect %s: %s", addr, output)
}

// USB restarts adbd on the device in USB mode.
func (c *Client) USB(ctx context.Context, serial string) error {
	res := c.run(ctx, serialArgs(serial, "usb")...)
	if !res.OK {
		return fmt.Errorf("adb usb: %s", strings.TrimSpace(res.Stderr))
	}
	return nil
}
