/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"
)

var domainsCmd = &cobra.Command{
	Use:   "domains",
	Short: "List and add URL domains",
}

var domainsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List known domains; the default is marked with *",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		names, def, err := a.db.ListDomains()
		if err != nil {
			return err
		}
		return writeDomains(cmd.OutOrStdout(), names, def)
	},
}

var domainsAddCmd = &cobra.Command{
	Use:   "add NAME",
	Short: "Add a domain",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		isDefault, _ := cmd.Flags().GetBool("default")
		if err := a.db.AddDomain(args[0], isDefault); err != nil {
			return err
		}
		if isDefault {
			fmt.Fprintf(cmd.OutOrStdout(), "Added domain %q (default)\n", args[0])
		} else {
			fmt.Fprintf(cmd.OutOrStdout(), "Added domain %q\n", args[0])
		}
		return nil
	},
}

func writeDomains(w io.Writer, names []string, def string) error {
	if len(names) == 0 {
		_, err := fmt.Fprintln(w, "No domains.")
		return err
	}
	for _, n := range names {
		mark := " "
		if n == def {
			mark = "*"
		}
		if _, err := fmt.Fprintf(w, "%s %s\n", mark, n); err != nil {
			return err
		}
	}
	return nil
}

func init() {
	rootCmd.AddCommand(domainsCmd)
	domainsCmd.AddCommand(domainsListCmd, domainsAddCmd)

	domainsAddCmd.Flags().Bool("default", false, "Make this the default domain")
}
