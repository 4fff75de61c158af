/*
Copyright © 2025 Katie Mulliken <katie@mulliken.net>
*/
package cmd

import (
	"context"
	"fmt"
	"os"

	"github.com/seckatie/urlrota/internal/config"
	"github.com/seckatie/urlrota/internal/core"
	"github.com/seckatie/urlrota/internal/core/db"
	"github.com/seckatie/urlrota/internal/core/vpn"
	"github.com/seckatie/urlrota/internal/logger"
	"github.com/spf13/cobra"
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "urlrota",
	Short: "Open a weighted random selection of saved URLs in a browser",
	Long: `urlrota keeps a list of URLs grouped by domain in a SQLite database.

It samples a batch of them by weight, opens each one in a configured browser
with a random pause in between, and records every open. An optional VPN check
skips URLs while the VPN is down.

Configuration is read from urlrota.yml (or --config) and URLROTA_* environment
variables; flags override both.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringP("config", "c", "", "Path to a YAML config file (default: ./urlrota.yml if present)")
	rootCmd.PersistentFlags().StringP("db", "d", "", "Path to the SQLite database file (overrides database.path)")
	rootCmd.PersistentFlags().String("log-level", "", "Log level: debug, info, warn or error (overrides logging.level)")
}

// app bundles what every command needs: the loaded configuration, the
// logger and an open, migrated database.
type app struct {
	cfg *config.Config
	log logger.Logger
	db  *db.DB
}

// setup loads configuration, applies the persistent flag overrides, builds
// the logger and opens the database.
func setup(cmd *cobra.Command) (*app, error) {
	cfgPath, err := cmd.Flags().GetString("config")
	if err != nil {
		return nil, fmt.Errorf("failed to read --config: %w", err)
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		return nil, err
	}

	if dbPath, _ := cmd.Flags().GetString("db"); dbPath != "" {
		cfg.Database.Path = dbPath
	}
	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		cfg.Logging.Level = level
		if err := cfg.Validate(); err != nil {
			return nil, err
		}
	}

	log, err := logger.New(cfg.Logging.Level, cfg.Logging.Pretty)
	if err != nil {
		return nil, fmt.Errorf("failed to build logger: %w", err)
	}

	database, err := initDB(cfg.Database.Path, log)
	if err != nil {
		_ = log.Sync()
		return nil, err
	}
	return &app{cfg: cfg, log: log, db: database}, nil
}

func (a *app) Close() {
	if err := a.db.Close(); err != nil {
		a.log.Warn("failed to close database", logger.Error(err))
	}
	_ = a.log.Sync()
}

func initDB(path string, log logger.Logger) (*db.DB, error) {
	database, err := db.NewSQLiteDB(path, log)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := database.Migrate(); err != nil {
		database.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	core.WatchStore(database, log)
	log.Debug("database ready", logger.String("path", path))
	return database, nil
}

// newGate returns the configured VPN gate.
func newGate(cfg *config.Config, log logger.Logger) vpn.Gate {
	if !cfg.VPN.Enabled {
		return vpn.AlwaysConnected{}
	}
	return vpn.NewCLIGate(vpn.Options{
		Binary:         cfg.VPN.Binary,
		Retries:        cfg.VPN.Retries,
		RetryDelay:     cfg.VPN.RetryDelay,
		CommandTimeout: cfg.VPN.CommandTimeout,
	}, vpn.ExecRunner{}, log)
}

// commandContext returns the command's context, falling back to Background
// when the command runs outside Execute (tests).
func commandContext(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}
