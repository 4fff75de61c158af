/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/seckatie/urlrota/internal/core"
	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/spf13/cobra"
)

// minURLColumn is the narrowest the URL column of the history table gets.
const minURLColumn = 70

// historyCmd reports how often URLs were opened.
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show how often URLs were opened",
	Long: `Show how often URLs were opened, grouped by page and most opened first.

By default only URLs opened at least twice are listed; use --min-opens 1 to
include everything. With --url ID every open of that URL is listed instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		f := cmd.Flags()
		domain, _ := f.GetString("domain")
		sinceStr, _ := f.GetString("since")
		limit, _ := f.GetInt("limit")
		minOpens, _ := f.GetInt("min-opens")
		urlID, _ := f.GetInt64("url")

		since, err := core.ParseSince(sinceStr)
		if err != nil {
			return err
		}
		if f.Changed("url") && urlID <= 0 {
			return fmt.Errorf("%w: --url must be a positive id, got %d", core.ErrInvalidInput, urlID)
		}
		if limit < 0 {
			return fmt.Errorf("%w: --limit must not be negative, got %d", core.ErrInvalidInput, limit)
		}

		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if urlID > 0 {
			entries, err := a.db.ListHistory(urlID)
			if err != nil {
				return err
			}
			browsers, err := a.db.ListBrowsers()
			if err != nil {
				return err
			}
			return formatOpenLog(cmd.OutOrStdout(), entries, browsers)
		}

		rows, err := a.db.OpenHistorySummary(domain, since, limit, minOpens)
		if err != nil {
			return err
		}
		return formatHistoryTable(cmd.OutOrStdout(), rows)
	},
}

// formatHistoryTable writes rows as a fixed-width URL/Count table.
func formatHistoryTable(w io.Writer, rows []db.OpenCount) error {
	if len(rows) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}

	width := minURLColumn
	for _, r := range rows {
		width = max(width, len(r.URL))
	}

	var b strings.Builder
	fmt.Fprintf(&b, "%-*s  Count\n", width, "URL")
	fmt.Fprintf(&b, "%s  %s\n", strings.Repeat("-", width), strings.Repeat("-", 5))
	for _, r := range rows {
		fmt.Fprintf(&b, "%-*s  %5d\n", width, r.URL, r.Opens)
	}
	_, err := io.WriteString(w, b.String())
	return err
}

// formatOpenLog writes one line per open: timestamp and browser name.
func formatOpenLog(w io.Writer, entries []db.HistoryEntry, browsers []db.Browser) error {
	if len(entries) == 0 {
		_, err := fmt.Fprintln(w, "No results found.")
		return err
	}
	names := make(map[int64]string, len(browsers))
	for _, b := range browsers {
		names[b.ID] = b.Name
	}

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "OPENED AT\tBROWSER")
	for _, e := range entries {
		name, ok := names[e.BrowserID]
		if !ok {
			name = fmt.Sprintf("#%d", e.BrowserID)
		}
		fmt.Fprintf(tw, "%s\t%s\n", e.OpenedAt, name)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().String("domain", "", "Only count URLs of this domain (default: all domains)")
	historyCmd.Flags().String("since", "", "Only count opens on or after this date (YYYY-MM-DD)")
	historyCmd.Flags().Int("limit", 0, "Maximum number of rows (0 for no limit)")
	historyCmd.Flags().Int64("url", 0, "List every open of this URL id instead of the summary")
	historyCmd.Flags().Int("min-opens", core.DefaultHistoryMinOpens, "Only list URLs opened at least this many times")
}
