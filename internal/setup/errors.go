package setup

import "errors"

var (
	ErrToolNotFound = errors.New("adb not found")
	ErrNoDevice     = errors.New("no device attached")
	ErrModeSwitch   = errors.New("failed to enable TCP/IP mode")
	ErrIPUnresolved = errors.New("device IP unresolved")
	ErrVerify       = errors.New("wireless connection not found")
)

// Outcome names the category of a workflow result for the history log.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, ErrToolNotFound):
		return "tool-not-found"
	case errors.Is(err, ErrNoDevice):
		return "no-device"
	case errors.Is(err, ErrModeSwitch):
		return "mode-switch-failed"
	case errors.Is(err, ErrIPUnresolved):
		return "ip-unresolved"
	case errors.Is(err, ErrVerify):
		return "verify-failed"
	default:
		return "error"
	}
}

// OutcomeOtherDevice marks a run whose verification only found a wireless
// device other than the resolved endpoint.
const OutcomeOtherDevice = "verified-other"

// ReportOutcome is Outcome, refined by what verification actually found.
func ReportOutcome(rep Report, err error) string {
	if err == nil && !rep.Confirmed() {
		return OutcomeOtherDevice
	}
	return Outcome(err)
}
