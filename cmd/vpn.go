/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"errors"
	"fmt"

	"github.com/seckatie/urlrota/internal/core/vpn"
	"github.com/spf13/cobra"
)

var vpnCmd = &cobra.Command{
	Use:   "vpn",
	Short: "Check and control the VPN connection",
}

var vpnStatusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the VPN status",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGate(cmd, func(g vpn.Gate) error {
			st, err := g.Status(commandContext(cmd))
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), st.String())
			return nil
		})
	},
}

var vpnConnectCmd = &cobra.Command{
	Use:   "connect [SERVER]",
	Short: "Connect the VPN, optionally to a server code or country",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		profile := ""
		if len(args) == 1 {
			profile = args[0]
		}
		return withGate(cmd, func(g vpn.Gate) error {
			if err := g.Connect(commandContext(cmd), profile); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "VPN connected")
			return nil
		})
	},
}

var vpnDisconnectCmd = &cobra.Command{
	Use:   "disconnect",
	Short: "Disconnect the VPN",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return withGate(cmd, func(g vpn.Gate) error {
			if err := g.Disconnect(commandContext(cmd)); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "VPN disconnected")
			return nil
		})
	},
}

func withGate(cmd *cobra.Command, fn func(vpn.Gate) error) error {
	a, err := setup(cmd)
	if err != nil {
		return err
	}
	defer a.Close()

	if !a.cfg.VPN.Enabled {
		return errors.New("VPN support is disabled (set vpn.enabled or URLROTA_VPN__ENABLED=true)")
	}
	return fn(newGate(a.cfg, a.log))
}

func init() {
	rootCmd.AddCommand(vpnCmd)
	vpnCmd.AddCommand(vpnStatusCmd, vpnConnectCmd, vpnDisconnectCmd)
}
