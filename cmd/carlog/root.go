// ABOUTME: Root Cobra command and global flags
// ABOUTME: Loads config, builds the logger and opens the configured storage backend and store

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/harper/carlog/internal/config"
	"github.com/harper/carlog/internal/logging"
	"github.com/harper/carlog/internal/storage"
	"github.com/harper/carlog/internal/store"
	"github.com/spf13/cobra"
)

// skipStoreAnnotation marks commands that run without opening storage.
const skipStoreAnnotation = "carlog/skip-store"

var (
	cfg     *config.Config
	logger  *log.Logger
	backend storage.Backend
	st      *store.Store

	flagBackend  string
	flagDataDir  string
	flagLogLevel string
)

// now is the clock used by commands; tests replace it.
var now = time.Now

var rootCmd = &cobra.Command{
	Use:   "carlog",
	Short: "Personal vehicle maintenance log",
	Long: `
 ██████╗ █████╗ ██████╗ ██╗      ██████╗  ██████╗
██╔════╝██╔══██╗██╔══██╗██║     ██╔═══██╗██╔════╝
██║     ███████║██████╔╝██║     ██║   ██║██║  ███╗
██║     ██╔══██║██╔══██╗██║     ██║   ██║██║   ██║
╚██████╗██║  ██║██║  ██║███████╗╚██████╔╝╚██████╔╝
 ╚═════╝╚═╝  ╚═╝╚═╝  ╚═╝╚══════╝ ╚═════╝  ╚═════╝

     Maintenance, fuel, reminders and spare parts for one car

Examples:
  carlog record add --mileage 12000 --item "Engine/Oil:300:260"
  carlog fuel add --mileage 12500 --liters 40 --cost 300 --full
  carlog reminder add "Oil change" --due 2025-01-01 --due-mileage 15000 --type both
  carlog stats`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := setup(cmd); err != nil {
			return err
		}
		if cmd.Annotations[skipStoreAnnotation] == "true" {
			return nil
		}
		return openStore()
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return closeStore()
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagBackend, "backend", "", "storage backend for this run (sqlite, file, badger, charm, memory)")
	rootCmd.PersistentFlags().StringVar(&flagDataDir, "data-dir", "", "data directory for this run")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "log level (debug, info, warn, error)")
}

// setup loads .env and config, applies flag overrides and builds the logger.
func setup(cmd *cobra.Command) error {
	if err := config.LoadDotEnv(); err != nil {
		return err
	}
	loaded, err := config.Load()
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	if flagBackend != "" {
		loaded.Backend = flagBackend
	}
	if flagDataDir != "" {
		loaded.DataDir = config.ExpandPath(flagDataDir)
	}
	if flagLogLevel != "" {
		loaded.LogLevel = flagLogLevel
	}
	if err := loaded.Validate(); err != nil {
		return fmt.Errorf("invalid config (%s): %w", config.GetConfigPath(), err)
	}
	cfg = loaded

	logger, err = logging.New(cmd.ErrOrStderr(), cfg.GetLogLevel())
	if err != nil {
		return err
	}
	logger.Debug("config loaded", "backend", cfg.GetBackend(), "data_dir", cfg.GetDataDir())
	return nil
}

func openStore() error {
	b, err := cfg.OpenBackend()
	if err != nil {
		return err
	}
	s, err := store.Open(b, store.WithLogger(logger))
	if err != nil {
		_ = b.Close()
		return fmt.Errorf("open vehicle log: %w", err)
	}
	backend, st = b, s
	return nil
}

func closeStore() error {
	if backend == nil {
		return nil
	}
	err := backend.Close()
	backend, st = nil, nil
	return err
}

// runCLI executes the root command and closes the backend even when the
// command fails, where cobra skips PersistentPostRunE.
func runCLI() error {
	err := rootCmd.Execute()
	if cerr := closeStore(); cerr != nil {
		fmt.Fprintln(rootCmd.ErrOrStderr(), "Error: close storage:", cerr)
		if err == nil {
			err = cerr
		}
	}
	return err
}

func main() {
	if err := runCLI(); err != nil {
		os.Exit(1)
	}
}
