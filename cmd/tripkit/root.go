package main

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/tripwell/tripkit/internal/cli"
	"github.com/tripwell/tripkit/internal/config"
	"github.com/tripwell/tripkit/internal/logging"
)

var rootCmd = &cobra.Command{
	Use:   "tripkit",
	Short: "Tripkit is a command line client for the TripWell tours API",
	Long:  `Tripkit manages your TripWell session and lets you browse tours, make bookings and pay, all from the terminal.`,
}

// Execute adds all child commands to the root command and sets flags appropriately.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func init() {
	// Persistent flags (available to all commands)
	rootCmd.PersistentFlags().String("base-url", "", "Backend base URL (overrides config)")
	rootCmd.PersistentFlags().String("config", "", "Path to the config file")
	rootCmd.PersistentFlags().String("store", "", "Credential store: file, memory or redis")
	rootCmd.PersistentFlags().Bool("debug", false, "Enable debug logging")
}

// buildApp resolves config (file, env, then flags) and wires the SDK.
func buildApp(cmd *cobra.Command) (*cli.App, error) {
	path, _ := cmd.Flags().GetString("config")
	explicit := cmd.Flags().Changed("config")
	if path == "" {
		if p, err := config.DefaultPath(); err == nil {
			path = p
		}
	}

	cfg, err := config.Load(path, explicit)
	if err != nil {
		return nil, err
	}

	if cmd.Flags().Changed("base-url") {
		cfg.BaseURL, _ = cmd.Flags().GetString("base-url")
	}
	if cmd.Flags().Changed("store") {
		cfg.Store, _ = cmd.Flags().GetString("store")
	}
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		cfg.Debug = true
	}

	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}

	return cli.NewApp(cfg, logging.New(level))
}

// mustApp is buildApp for commands that cannot proceed without it.
func mustApp(cmd *cobra.Command) *cli.App {
	app, err := buildApp(cmd)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	return app
}

func fail(format string, args ...any) {
	fmt.Printf("Error: "+format+"\n", args...)
	os.Exit(1)
}
