package db

// DefaultWeight is applied when a URL is stored without an explicit weight.
const DefaultWeight = 1

// Launcher kinds a browser profile can use.
const (
	LauncherExec     = "exec"
	LauncherChromedp = "chromedp"
)

type URLRecord struct {
	ID     int64
	URL    string
	Domain string
	Weight int
	// Page is the grouping key the history report orders by.
	Page int
	// CreatedAt is stored in the DB as RFC3339 text.
	CreatedAt string
}

type Browser struct {
	ID       int64
	Name     string
	VPNCode  string
	Command  string
	Launcher string
}

type Domain struct {
	Name      string
	IsDefault bool
}

type HistoryEntry struct {
	ID        int64
	URLID     int64
	BrowserID int64
	// OpenedAt is stored in the DB as RFC3339 text (UTC).
	OpenedAt string
}

// OpenCount is one row of the open-history report.
type OpenCount struct {
	URL   string
	Page  int
	Opens int
}

// ImportResult summarizes a bulk URL import.
type ImportResult struct {
	Inserted   int
	Duplicates int
	Invalid    []string
}
