package core

import "time"

// Item outcomes used in run reports, progress events and metrics labels.
const (
	OutcomeOpened          = "opened"
	OutcomeVPNDisconnected = "vpn_disconnected"
	OutcomeLaunchFailed    = "launch_failed"
)

// Run status values used in metrics labels.
const (
	RunStatusCompleted = "completed"
	RunStatusCancelled = "cancelled"
)

// Defaults for the open workflow.
const (
	DefaultCount      = 20
	DefaultMinSeconds = 20
	DefaultMaxSeconds = 60
	// MaxPauseSeconds caps either pacing bound at one day.
	MaxPauseSeconds = 86400
)

// probabilityTolerance bounds how far normalized sampling probabilities may
// drift from 1.
const probabilityTolerance = 1e-9

// DefaultExportFile is used when an export is requested without a file name.
const DefaultExportFile = "urls.csv"

// chromeLaunchTimeout bounds opening a single tab in a chromedp session.
const chromeLaunchTimeout = 15 * time.Second

// DefaultHistoryMinOpens hides URLs opened only once from the history report.
const DefaultHistoryMinOpens = 2

// DateLayout is the format accepted for --since and ?since=.
const DateLayout = "2006-01-02"
