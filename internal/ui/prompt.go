package ui

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/huh"
	"github.com/mattn/go-isatty"

	"github.com/FluidXR/adbwifi/internal/adb"
)

// ErrAborted is returned when the operator declines to continue.
var ErrAborted = errors.New("aborted by user")

// IsTerminal reports whether f is attached to a terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Prompter collects the operator's answers during setup.
type Prompter interface {
	ChooseDevice(serials []string) (string, error)
	AskIP() (string, error)
	WaitForUnplug() error
}

// NewPrompter returns a form-based prompter on a terminal and a
// line-based one otherwise.
func NewPrompter(in *os.File, out io.Writer) Prompter {
	if IsTerminal(in) {
		return &FormPrompter{}
	}
	return NewLinePrompter(in, out)
}

func validateIP(s string) error {
	if !adb.ValidIPv4(strings.TrimSpace(s)) {
		return fmt.Errorf("%q is not an IPv4 address", s)
	}
	return nil
}

// FormPrompter asks through huh forms.
type FormPrompter struct{}

// ChooseDevice asks which of several attached devices to switch.
func (p *FormPrompter) ChooseDevice(serials []string) (string, error) {
	var serial string
	err := huh.NewSelect[string]().
		Title("Several devices are attached. Which one?").
		Options(huh.NewOptions(serials...)...).
		Value(&serial).
		Run()
	return serial, err
}

// AskIP asks for the device address when it cannot be detected.
func (p *FormPrompter) AskIP() (string, error) {
	var ip string
	err := huh.NewInput().
		Title("Enter your device IP address").
		Description("Settings > About phone > Status > IP address").
		Validate(validateIP).
		Value(&ip).
		Run()
	return strings.TrimSpace(ip), err
}

// WaitForUnplug blocks until the operator confirms the cable is out.
func (p *FormPrompter) WaitForUnplug() error {
	ready := true
	err := huh.NewConfirm().
		Title("You can now disconnect the USB cable.").
		Affirmative("Continue").
		Negative("Abort").
		Value(&ready).
		Run()
	if err != nil {
		return err
	}
	if !ready {
		return ErrAborted
	}
	return nil
}

// LinePrompter reads answers one line at a time.
type LinePrompter struct {
	in  *bufio.Reader
	out io.Writer
}

// NewLinePrompter creates a prompter reading from in and writing to out.
func NewLinePrompter(in io.Reader, out io.Writer) *LinePrompter {
	return &LinePrompter{in: bufio.NewReader(in), out: out}
}

func (p *LinePrompter) readLine() (string, error) {
	line, err := p.in.ReadString('\n')
	if err != nil && !(errors.Is(err, io.EOF) && line != "") {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// ChooseDevice lists serials and reads a 1-based choice.
func (p *LinePrompter) ChooseDevice(serials []string) (string, error) {
	fmt.Fprintln(p.out, "   Several devices are attached:")
	for i, s := range serials {
		fmt.Fprintf(p.out, "   %d) %s\n", i+1, s)
	}
	for {
		fmt.Fprintf(p.out, "   Choose a device [1-%d]: ", len(serials))
		answer, err := p.readLine()
		if err != nil {
			return "", fmt.Errorf("read choice: %w", err)
		}
		n, err := strconv.Atoi(answer)
		if err == nil && n >= 1 && n <= len(serials) {
			return serials[n-1], nil
		}
		fmt.Fprintf(p.out, "   %q is not a valid choice.\n", answer)
	}
}

// AskIP reads an address, asking again until it is a valid IPv4 address.
func (p *LinePrompter) AskIP() (string, error) {
	fmt.Fprintln(p.out, "   Go to Settings > About Phone > Status > IP Address")
	for {
		fmt.Fprint(p.out, "   Enter your device IP address: ")
		ip, err := p.readLine()
		if err != nil {
			return "", fmt.Errorf("read ip: %w", err)
		}
		if err := validateIP(ip); err != nil {
			fmt.Fprintf(p.out, "   %v\n", err)
			continue
		}
		return ip, nil
	}
}

// WaitForUnplug waits for Enter.
func (p *LinePrompter) WaitForUnplug() error {
	fmt.Fprintln(p.out, "   You can now disconnect the USB cable.")
	fmt.Fprint(p.out, "   Press Enter when ready to continue...")
	if _, err := p.readLine(); err != nil {
		return fmt.Errorf("wait for unplug: %w", err)
	}
	return nil
}

// PauseOnExit keeps a console window open until Enter is pressed.
// It does nothing unless in is a terminal.
func PauseOnExit(in *os.File, out io.Writer) {
	if !IsTerminal(in) {
		return
	}
	fmt.Fprint(out, "\nPress Enter to exit...")
	bufio.NewReader(in).ReadString('\n')
}
