package core

import "errors"

var (
	// ErrInsufficientPopulation is returned when more distinct URLs are
	// requested than the candidate set holds. No partial result is returned.
	ErrInsufficientPopulation = errors.New("insufficient population")
	// ErrInvalidInput covers malformed counts, orderings, dates and requests.
	ErrInvalidInput  = errors.New("invalid input")
	ErrInvalidWeight = errors.New("invalid weight")
	ErrZeroWeight    = errors.New("weights sum to zero")
	// ErrLaunchFailed marks a browser process or tab that could not be started.
	ErrLaunchFailed = errors.New("browser launch failed")
	// ErrRunActive is returned when a batch is started while another is running.
	ErrRunActive = errors.New("a batch run is already active")
	// ErrVPNDisconnected marks an item skipped because the VPN was down.
	ErrVPNDisconnected = errors.New("vpn disconnected")
)
