/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/seckatie/urlrota/internal/core"
	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/spf13/cobra"
)

// urlsCmd groups the URL management subcommands.
var urlsCmd = &cobra.Command{
	Use:   "urls",
	Short: "Add, import, list, export and edit saved URLs",
}

var urlsAddCmd = &cobra.Command{
	Use:   "add URL [URL...]",
	Short: "Save one or more URLs under a domain",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		domain, weight, err := domainAndWeight(cmd, a)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		for _, raw := range args {
			id, created, err := a.db.AddURL(raw, domain, weight)
			if err != nil {
				return err
			}
			if created {
				fmt.Fprintf(out, "Added [%d] %s\n", id, raw)
			} else {
				fmt.Fprintf(out, "Already saved [%d] %s\n", id, raw)
			}
		}
		return nil
	},
}

var urlsImportCmd = &cobra.Command{
	Use:   "import FILE",
	Short: "Import URLs from a text file (one per line) or a bookmarks HTML export",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		domain, weight, err := domainAndWeight(cmd, a)
		if err != nil {
			return err
		}
		urls, err := core.ReadURLFile(args[0])
		if err != nil {
			return err
		}
		res, err := a.db.ImportURLs(urls, domain, weight)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintf(out, "Imported %d URL(s) into %q: %d already saved, %d invalid\n",
			res.Inserted, domain, res.Duplicates, len(res.Invalid))
		for _, bad := range res.Invalid {
			fmt.Fprintf(out, "  invalid: %s\n", bad)
		}
		return nil
	},
}

var urlsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved URLs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		domain, _ := cmd.Flags().GetString("domain")
		urls, err := a.db.ListCandidates(domain)
		if err != nil {
			return err
		}
		return writeURLTable(cmd.OutOrStdout(), urls)
	},
}

var urlsExportCmd = &cobra.Command{
	Use:   "export [FILE]",
	Short: "Write saved URLs to a CSV file (default urls.csv)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		name := ""
		if len(args) == 1 {
			name = args[0]
		}
		domain, _ := cmd.Flags().GetString("domain")
		records, err := a.db.ListCandidates(domain)
		if err != nil {
			return err
		}
		urls := make([]string, 0, len(records))
		for _, r := range records {
			urls = append(urls, r.URL)
		}
		path, err := core.ExportCSV(name, urls)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Exported %d URL(s) to %s\n", len(urls), path)
		return nil
	},
}

var urlsClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Delete every saved URL (open history is kept)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if yes, _ := cmd.Flags().GetBool("yes"); !yes {
			return errors.New("refusing to delete all URLs without --yes")
		}
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		n, err := a.db.ClearURLs()
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted %d URL(s)\n", n)
		return nil
	},
}

var urlsWeightCmd = &cobra.Command{
	Use:   "weight ID WEIGHT",
	Short: "Set the sampling weight of a URL",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateURL(cmd, args, "weight", (*db.DB).SetWeight)
	},
}

var urlsPageCmd = &cobra.Command{
	Use:   "page ID PAGE",
	Short: "Set the page a URL is grouped under in the history report",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return updateURL(cmd, args, "page", (*db.DB).SetPage)
	},
}

var urlsDeleteCmd = &cobra.Command{
	Use:   "delete ID",
	Short: "Delete a saved URL",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id, err := parseID(args[0])
		if err != nil {
			return err
		}
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		if err := a.db.DeleteURL(id); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted URL %d\n", id)
		return nil
	},
}

// domainAndWeight resolves --domain (falling back to the default domain)
// and --weight.
func domainAndWeight(cmd *cobra.Command, a *app) (string, int, error) {
	domain, _ := cmd.Flags().GetString("domain")
	weight, _ := cmd.Flags().GetInt("weight")
	if weight <= 0 {
		return "", 0, fmt.Errorf("%w: --weight must be positive, got %d", db.ErrInvalidWeight, weight)
	}
	if domain == "" {
		domain = a.cfg.Defaults.Domain
	}
	if domain == "" {
		_, def, err := a.db.ListDomains()
		if err != nil {
			return "", 0, err
		}
		domain = def
	}
	if domain == "" {
		return "", 0, fmt.Errorf("%w: no domain given and no default domain set", core.ErrInvalidInput)
	}
	return domain, weight, nil
}

func updateURL(cmd *cobra.Command, args []string, what string, set func(*db.DB, int64, int) error) error {
	id, err := parseID(args[0])
	if err != nil {
		return err
	}
	var v int
	if what == "weight" {
		w, err := core.ParsePositive(what, args[1])
		if err != nil {
			return err
		}
		v = int(w)
	} else if v, err = strconv.Atoi(args[1]); err != nil {
		return fmt.Errorf("%w: %s must be an integer, got %q", core.ErrInvalidInput, what, args[1])
	}
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if err := set(a.db, id, v); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Set %s of URL %d to %d\n", what, id, v)
	return nil
}

func parseID(s string) (int64, error) {
	return core.ParsePositive("id", s)
}

func writeURLTable(w io.Writer, urls []db.URLRecord) error {
	if len(urls) == 0 {
		_, err := fmt.Fprintln(w, "No URLs saved.")
		return err
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tDOMAIN\tWEIGHT\tPAGE\tURL")
	for _, u := range urls {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%d\t%s\n", u.ID, u.Domain, u.Weight, u.Page, u.URL)
	}
	return tw.Flush()
}

func init() {
	rootCmd.AddCommand(urlsCmd)
	urlsCmd.AddCommand(urlsAddCmd, urlsImportCmd, urlsListCmd, urlsExportCmd,
		urlsClearCmd, urlsWeightCmd, urlsPageCmd, urlsDeleteCmd)

	for _, c := range []*cobra.Command{urlsAddCmd, urlsImportCmd} {
		c.Flags().String("domain", "", "Domain to file URLs under (default: defaults.domain, then the default domain)")
		c.Flags().Int("weight", 1, "Sampling weight for new URLs")
	}
	urlsListCmd.Flags().String("domain", "", "Only list URLs of this domain")
	urlsExportCmd.Flags().String("domain", "", "Only export URLs of this domain")
	urlsClearCmd.Flags().Bool("yes", false, "Confirm deleting every saved URL")
}
