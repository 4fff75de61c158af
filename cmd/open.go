/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/

// The open command samples URLs from a domain and opens them in a browser.
//
// Features:
//   - Weighted sampling without replacement (--count URLs from --domain).
//   - Ordering: id (default), sampled, newest or oldest.
//   - Random pause between launches (--min-sleep/--max-sleep seconds).
//   - Optional VPN connect with the browser's server code before the batch.
//   - Optional CSV export of the batch, and a dry run that opens nothing.
//
// Example usage:
//
//	urlrota open --domain news --count 10 --browser firefox --order newest
//	urlrota open -b chrome -n 5 --min-sleep 5 --max-sleep 15 --rotate-vpn
//	urlrota open -b firefox --dry-run --export batch
package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/seckatie/urlrota/internal/core"
	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/seckatie/urlrota/internal/core/vpn"
	"github.com/seckatie/urlrota/internal/logger"
	"github.com/spf13/cobra"
)

// openCmd represents the open command
var openCmd = &cobra.Command{
	Use:   "open",
	Short: "Sample URLs by weight and open them in a browser",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runOpen(cmd)
	},
}

type openOptions struct {
	domain    string
	count     int
	order     string
	browser   string
	pacing    core.Pacing
	rotateVPN bool
	export    string
	dryRun    bool
}

// readOpenOptions reads the flags, falling back to the configuration for
// anything not given on the command line.
func readOpenOptions(cmd *cobra.Command, a *app) (openOptions, error) {
	f := cmd.Flags()
	o := openOptions{
		domain:  a.cfg.Defaults.Domain,
		count:   a.cfg.Defaults.Count,
		order:   a.cfg.Defaults.Order,
		browser: a.cfg.Defaults.Browser,
		pacing: core.Pacing{
			MinSeconds: a.cfg.Pacing.MinSeconds,
			MaxSeconds: a.cfg.Pacing.MaxSeconds,
		},
	}

	if f.Changed("domain") {
		o.domain, _ = f.GetString("domain")
	}
	if f.Changed("count") {
		o.count, _ = f.GetInt("count")
		if o.count <= 0 {
			return o, fmt.Errorf("%w: --count must be positive, got %d", core.ErrInvalidInput, o.count)
		}
	}
	if f.Changed("order") {
		o.order, _ = f.GetString("order")
	}
	if f.Changed("browser") {
		o.browser, _ = f.GetString("browser")
	}
	if f.Changed("min-sleep") {
		o.pacing.MinSeconds, _ = f.GetInt("min-sleep")
	}
	if f.Changed("max-sleep") {
		o.pacing.MaxSeconds, _ = f.GetInt("max-sleep")
	}
	o.rotateVPN, _ = f.GetBool("rotate-vpn")
	o.export, _ = f.GetString("export")
	o.dryRun, _ = f.GetBool("dry-run")

	if err := o.pacing.Validate(); err != nil {
		return o, err
	}
	if o.browser == "" && !o.dryRun {
		return o, fmt.Errorf("%w: no browser given (use --browser or defaults.browser)", core.ErrInvalidInput)
	}
	return o, nil
}

// runOpen is the main function for the open command.
func runOpen(cmd *cobra.Command) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	opts, err := readOpenOptions(cmd, a)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()

	if opts.domain == "" {
		_, def, err := a.db.ListDomains()
		if err != nil {
			return err
		}
		opts.domain = def
	}

	candidates, err := a.db.ListCandidates(opts.domain)
	if err != nil {
		return fmt.Errorf("failed to fetch candidates: %w", err)
	}
	sampled, err := core.NewSampler(nil).Sample(candidates, opts.count)
	if err != nil {
		return err
	}
	batch, mode, err := core.PrepareBatch(sampled, opts.order)
	if err != nil {
		return err
	}
	ordered := core.ApplyOrdering(batch, mode)

	var browser db.Browser
	if !opts.dryRun {
		if browser, err = a.db.GetBrowserByName(opts.browser); err != nil {
			return err
		}
	}

	if opts.export != "" {
		urls := make([]string, 0, len(ordered))
		for _, it := range ordered {
			urls = append(urls, it.URL)
		}
		path, err := core.ExportCSV(opts.export, urls)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "Exported %d URL(s) to %s\n", len(urls), path)
	}

	if opts.dryRun {
		for i, it := range ordered {
			fmt.Fprintf(out, "%3d. [%d] %s\n", i+1, it.ID, it.URL)
		}
		return nil
	}

	ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gate := newGate(a.cfg, a.log)
	if opts.rotateVPN && a.cfg.VPN.Enabled {
		fmt.Fprintf(out, "Connecting VPN (%s)...\n", browser.VPNCode)
		if err := connectVPN(ctx, gate, browser.VPNCode, a.log); err != nil {
			return err
		}
	}

	pool := core.NewLauncherPool(a.log)
	defer func() {
		if err := pool.Close(); err != nil {
			a.log.Warn("failed to close browser sessions", logger.Error(err))
		}
	}()

	runs := core.NewRunManager(core.NewOpener(gate, a.db, pool, a.log), a.log)
	run, err := runs.Start(ctx, core.OpenRequest{
		Batch:    batch,
		Ordering: mode,
		Browser:  browser,
		Pacing:   opts.pacing,
	}, printProgress(out))
	if err != nil {
		return err
	}

	report := run.Wait()
	fmt.Fprintln(out, report.Summary())

	if browser.Launcher == db.LauncherChromedp && report.Succeeded > 0 && ctx.Err() == nil {
		fmt.Fprintln(out, "Browser session is open; press Ctrl-C to close it.")
		<-ctx.Done()
	}
	return nil
}

// connectVPN connects gate to profile. When that fails it disconnects,
// best-effort, so no half-established tunnel is left behind.
func connectVPN(ctx context.Context, gate vpn.Gate, profile string, log logger.Logger) error {
	err := gate.Connect(ctx, profile)
	if err == nil {
		return nil
	}
	if dErr := gate.Disconnect(context.WithoutCancel(ctx)); dErr != nil {
		log.Warn("failed to disconnect vpn after failed connect", logger.Error(dErr))
	}
	return err
}

// printProgress writes one line per finished item.
func printProgress(out io.Writer) core.ProgressFunc {
	return func(ev core.RunEvent) {
		if ev.Kind != core.EventItemFinished || ev.Result == nil {
			return
		}
		line := fmt.Sprintf("[%d/%d] %-16s %s", ev.Index+1, ev.Total, ev.Result.Outcome, ev.Item.URL)
		if ev.Result.Error != "" {
			line += " (" + ev.Result.Error + ")"
		}
		fmt.Fprintln(out, line)
	}
}

func init() {
	rootCmd.AddCommand(openCmd)

	openCmd.Flags().String("domain", "", "Domain to sample from (default: defaults.domain, then the default domain)")
	openCmd.Flags().IntP("count", "n", core.DefaultCount, "Number of URLs to open (default: defaults.count)")
	openCmd.Flags().String("order", "id", "Launch order: id, sampled, newest or oldest (default: defaults.order)")
	openCmd.Flags().StringP("browser", "b", "", "Browser profile to open URLs with (default: defaults.browser)")
	openCmd.Flags().Int("min-sleep", core.DefaultMinSeconds, "Minimum pause between launches in seconds (default: pacing.min_seconds)")
	openCmd.Flags().Int("max-sleep", core.DefaultMaxSeconds, "Maximum pause between launches in seconds (default: pacing.max_seconds)")
	openCmd.Flags().Bool("rotate-vpn", false, "Connect the VPN with the browser's server code before opening")
	openCmd.Flags().String("export", "", "Also write the batch to this CSV file (.csv is appended)")
	openCmd.Flags().Bool("dry-run", false, "Print the sampled batch without opening anything")
}
