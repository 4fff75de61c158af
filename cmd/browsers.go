/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/spf13/cobra"
)

var browsersCmd = &cobra.Command{
	Use:   "browsers",
	Short: "List and configure browser profiles",
}

var browsersListCmd = &cobra.Command{
	Use:   "list",
	Short: "List browser profiles",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		browsers, err := a.db.ListBrowsers()
		if err != nil {
			return err
		}
		return writeBrowsers(cmd.OutOrStdout(), browsers)
	},
}

var browsersAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add or update a browser profile",
	Long: `Add or update a browser profile.

The exec launcher starts --command with the URL as its last argument, for
example "firefox -P work --new-tab". The chromedp launcher drives a Chrome
window over the DevTools protocol; --command then optionally names the
Chrome binary.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		b := db.Browser{Name: args[0]}
		b.Command, _ = cmd.Flags().GetString("command")
		b.VPNCode, _ = cmd.Flags().GetString("vpn")
		b.Launcher, _ = cmd.Flags().GetString("launcher")

		id, err := a.db.UpsertBrowser(b)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Saved browser %q [%d]\n", b.Name, id)
		return nil
	},
}

func writeBrowsers(w io.Writer, browsers []db.Browser) error {
	if len(browsers) == 0 {
		_, err := fmt.Fprintln(w, "No browsers configured.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNAME\tLAUNCHER\tVPN\tCOMMAND")
	for _, b := range browsers {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n", b.ID, b.Name, b.Launcher, b.VPNCode, b.Command)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(browsersCmd)
	browsersCmd.AddCommand(browsersListCmd, browsersAddCmd)

	browsersAddCmd.Flags().String("command", "", "Command line used to open a URL (required for the exec launcher)")
	browsersAddCmd.Flags().String("vpn", "", "VPN server code to connect with before a batch")
	browsersAddCmd.Flags().String("launcher", db.LauncherExec, "Launcher: exec or chromedp")
}
