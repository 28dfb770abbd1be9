package adb

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeRunner struct {
	results map[string]Result
	calls   []string
}

func (f *fakeRunner) Run(_ context.Context, name string, args ...string) Result {
	key := strings.Join(args, " ")
	f.calls = append(f.calls, name+" "+key)
	if r, ok := f.results[key]; ok {
		return r
	}
	return Result{Stderr: "unexpected command: " + key}
}

func newFakeClient(results map[string]Result) (*Client, *fakeRunner) {
	fr := &fakeRunner{results: results}
	return &Client{Path: "adb", Runner: fr}, fr
}

const devicesOutput = "List of devices attached\n" +
	"abcd1234\tdevice usb:1-1 product:hollywood model:Quest_2 device:hollywood transport_id:3\n" +
	"ffff0000\tunauthorized usb:1-2 transport_id:4\n" +
	"192.168.1.42:5555\tdevice product:panther model:Pixel_7 transport_id:5\n" +
	"0123dead\toffline transport_id:6\n" +
	"\n"

func TestParseDeviceList(t *testing.T) {
	devices := parseDeviceList(devicesOutput)
	require.Len(t, devices, 4)

	assert.Equal(t, "abcd1234", devices[0].Serial)
	assert.Equal(t, "device", devices[0].State)
	assert.Equal(t, USB, devices[0].ConnType)
	assert.Equal(t, "Quest_2", devices[0].Model)
	assert.Equal(t, "hollywood", devices[0].Product)
	assert.Equal(t, "3", devices[0].TransportID)

	assert.Equal(t, WiFi, devices[2].ConnType)
	assert.False(t, devices[1].IsOnline())
	assert.False(t, devices[3].IsOnline())
}

func TestParseDeviceListSkipsDaemonNotices(t *testing.T) {
	out := "* daemon not running; starting now at tcp:5037\n* daemon started successfully\nList of devices attached\n"
	assert.Empty(t, parseDeviceList(out))
}

func TestReadyKeepsOrderAndState(t *testing.T) {
	tests := []struct {
		name   string
		output string
		want   []string
	}{
		{"header only", "List of devices attached\n", nil},
		{"mixed", devicesOutput, []string{"abcd1234", "192.168.1.42:5555"}},
		{"plain listing", "List of devices attached\nA\tdevice\nB\tdevice\nC\tunauthorized\nD\tdevice\n", []string{"A", "B", "D"}},
		{"crlf", "List of devices attached\r\nA\tdevice\r\n", []string{"A"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Ready(parseDeviceList(tt.output)))
		})
	}
}

func TestUnauthorized(t *testing.T) {
	assert.Equal(t, []string{"ffff0000"}, Unauthorized(parseDeviceList(devicesOutput)))
}

func TestReadyFromListingIsStable(t *testing.T) {
	c, fr := newFakeClient(map[string]Result{
		"devices -l": {OK: true, Stdout: devicesOutput},
	})
	ctx := context.Background()

	first, err := c.Devices(ctx)
	require.NoError(t, err)
	second, err := c.Devices(ctx)
	require.NoError(t, err)

	assert.Equal(t, Ready(first), Ready(second))
	assert.Equal(t, []string{"abcd1234", "192.168.1.42:5555"}, Ready(second))
	assert.Len(t, fr.calls, 2)
}

func TestDevicesOnFailure(t *testing.T) {
	c, _ := newFakeClient(nil)
	devices, err := c.Devices(context.Background())
	assert.Error(t, err)
	assert.Empty(t, Ready(devices))
}

func TestParseRouteIP(t *testing.T) {
	tests := []struct {
		name   string
		output string
		ip     string
		ok     bool
	}{
		{
			name:   "wlan route",
			output: "192.168.1.0/24 dev wlan0 proto kernel scope link src 192.168.1.42\n",
			ip:     "192.168.1.42",
			ok:     true,
		},
		{
			name: "skips other interfaces",
			output: "10.1.0.0/16 dev rmnet_data0 proto kernel scope link src 10.1.2.3\n" +
				"10.0.0.0/24 dev wlan0 proto kernel scope link src 10.0.0.5\n",
			ip: "10.0.0.5",
			ok: true,
		},
		{
			name:   "no src field",
			output: "default via 192.168.1.1 dev wlan0\n",
		},
		{
			name: "empty",
		},
		{
			name:   "invalid address",
			output: "192.168.1.0/24 dev wlan0 src 300.1.1.1\n",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ip, ok := ParseRouteIP(tt.output)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.ip, ip)
		})
	}
}

func TestValidIPv4(t *testing.T) {
	assert.True(t, ValidIPv4("192.168.1.42"))
	assert.True(t, ValidIPv4("10.0.0.5"))
	assert.False(t, ValidIPv4(""))
	assert.False(t, ValidIPv4("192.168.1"))
	assert.False(t, ValidIPv4("256.1.1.1"))
	assert.False(t, ValidIPv4("::ffff:10.0.0.5"))
	assert.False(t, ValidIPv4("fe80::1"))
	assert.False(t, ValidIPv4("phone.local"))
}

func TestIsWireless(t *testing.T) {
	ids := []string{"192.168.1.42:5555", "abcd1234\tdevice"}
	assert.Equal(t, []string{"192.168.1.42:5555"}, WirelessOnly(ids, DefaultPort))

	assert.False(t, IsWireless("192.168.1.42:5556", DefaultPort))
	assert.False(t, IsWireless("abcd1234", DefaultPort))
	assert.False(t, IsWireless("emulator-5554", DefaultPort))
	assert.True(t, IsWireless("10.0.0.5:4444", 4444))
	assert.Equal(t, "10.0.0.5:5555", Endpoint("10.0.0.5", DefaultPort))
}

func TestClientCommands(t *testing.T) {
	c, fr := newFakeClient(map[string]Result{
		"version":                    {OK: true, Stdout: "Android Debug Bridge version 1.0.41\nVersion 35.0.1\n"},
		"-s abcd1234 tcpip 5555":     {OK: true, Stdout: "restarting in TCP mode port: 5555\n"},
		"-s abcd1234 shell ip route": {OK: true, Stdout: "10.0.0.0/24 dev wlan0 proto kernel scope link src 10.0.0.5\n"},
		"connect 10.0.0.5:5555":      {OK: true, Stdout: "connected to 10.0.0.5:5555\n"},
		"connect 10.0.0.9:5555":      {OK: true, Stdout: "failed to connect to '10.0.0.9:5555': Connection refused\n"},
		"usb":                        {OK: true, Stdout: "restarting in USB mode\n"},
		"-s ffff0000 tcpip 5555":     {Stderr: "error: device unauthorized."},
		"-s ffff0000 shell ip route": {Stderr: "error: device unauthorized."},
	})
	ctx := context.Background()

	v, err := c.Version(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Android Debug Bridge version 1.0.41", v)

	require.NoError(t, c.TCPIP(ctx, "abcd1234", DefaultPort))
	err = c.TCPIP(ctx, "ffff0000", DefaultPort)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unauthorized")

	ip, ok := c.DeviceIP(ctx, "abcd1234")
	assert.True(t, ok)
	assert.Equal(t, "10.0.0.5", ip)
	_, ok = c.DeviceIP(ctx, "ffff0000")
	assert.False(t, ok)

	out, err := c.Connect(ctx, "10.0.0.5", DefaultPort)
	require.NoError(t, err)
	assert.Equal(t, "connected to 10.0.0.5:5555", out)

	_, err = c.Connect(ctx, "10.0.0.9", DefaultPort)
	assert.Error(t, err)

	require.NoError(t, c.USB(ctx, ""))

	assert.Equal(t, "adb version", fr.calls[0])
}

func TestVersionMissingBinary(t *testing.T) {
	c := NewClient("adbwifi-test-no-such-binary")
	_, err := c.Version(context.Background())
	assert.Error(t, err)
}

func TestExecRunner(t *testing.T) {
	res := ExecRunner{}.Run(context.Background(), "adbwifi-test-no-such-binary")
	assert.False(t, res.OK)
	assert.NotEmpty(t, res.Stderr)
}
