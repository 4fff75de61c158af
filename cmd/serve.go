/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"net"
	"os"
	"os/signal"
	"strconv"
	"syscall"

	"github.com/seckatie/urlrota/internal/core"
	"github.com/seckatie/urlrota/internal/core/web"
	"github.com/seckatie/urlrota/internal/logger"
	"github.com/spf13/cobra"
)

// serveCmd starts the HTTP API.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve the JSON API for listing URLs and driving batch runs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := setup(cmd)
		if err != nil {
			return err
		}
		defer a.Close()

		host := a.cfg.Server.Host
		port := a.cfg.Server.Port
		if cmd.Flags().Changed("host") {
			host, _ = cmd.Flags().GetString("host")
		}
		if cmd.Flags().Changed("port") {
			port, _ = cmd.Flags().GetInt("port")
		}

		ctx, stop := signal.NotifyContext(commandContext(cmd), os.Interrupt, syscall.SIGTERM)
		defer stop()

		gate := newGate(a.cfg, a.log)
		pool := core.NewLauncherPool(a.log)
		defer func() {
			if err := pool.Close(); err != nil {
				a.log.Warn("failed to close browser sessions", logger.Error(err))
			}
		}()
		runs := core.NewRunManager(core.NewOpener(gate, a.db, pool, a.log), a.log)

		srv := web.NewServer(web.Options{
			DB:   a.db,
			Runs: runs,
			VPN:  gate,
			Log:  a.log,
			Pacing: core.Pacing{
				MinSeconds: a.cfg.Pacing.MinSeconds,
				MaxSeconds: a.cfg.Pacing.MaxSeconds,
			},
			DefaultOrder: a.cfg.Defaults.Order,
		})
		return srv.Start(ctx, net.JoinHostPort(host, strconv.Itoa(port)))
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().String("host", "localhost", "Address to listen on (default: server.host)")
	serveCmd.Flags().IntP("port", "p", 8080, "Port to listen on (default: server.port)")
}
