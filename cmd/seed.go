/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"fmt"

	"github.com/seckatie/urlrota/internal/core"
	"github.com/spf13/cobra"
)

// seedCmd loads domains, browsers and URLs from a YAML file.
var seedCmd = &cobra.Command{
	Use:   "seed FILE",
	Short: "Load domains, browsers and URLs from a YAML seed file",
	Long: `Load domains, browsers and URLs from a YAML seed file.

Example:

  domains:
    - name: news
      default: true
  browsers:
    - name: firefox
      command: firefox --new-tab
      vpn_code: us
  urls:
    - url: https://example.com
      domain: news
      weight: 3`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := core.LoadSeed(args[0])
		if err != nil {
			return err
		}
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		res, err := core.ApplySeed(a.db, s)
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Seeded %d domain(s), %d browser(s), %d URL(s) (%d already saved)\n",
			res.Domains, res.Browsers, res.URLs, res.Duplicates)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
}
