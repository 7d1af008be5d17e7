// ABOUTME: Migration command for copying the log between storage backends
// ABOUTME: Copies every slot from the current backend into another one with safety checks

package main

import (
	"fmt"
	"slices"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harper/carlog/internal/config"
	"github.com/harper/carlog/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate data between storage backends",
	Long: `Copy the whole vehicle log from the currently configured backend to another one.

Every stored slot is copied as-is, so reminders, inventory, categories, the
password and anything not yet understood by this version all move together.
Does NOT update the config file; verify the migration was successful then
update config.json manually.

Examples:
  carlog migrate --to badger
  carlog migrate --to sqlite --data-dir ~/carlog-sqlite
  carlog migrate --to file --force`,
	Args: cobra.NoArgs,
	RunE: runMigrate,
}

var (
	migrateTo      string
	migrateDataDir string
	migrateForce   bool
)

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "", "target backend (sqlite, file, badger or charm)")
	migrateCmd.Flags().StringVar(&migrateDataDir, "data-dir", "", "target data directory (defaults to current config data_dir)")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "allow writing into a backend that already holds data")
	_ = migrateCmd.MarkFlagRequired("to")

	rootCmd.AddCommand(migrateCmd)
}

func runMigrate(cmd *cobra.Command, args []string) error {
	sourceBackend := cfg.GetBackend()
	targetBackend := migrateTo

	if !slices.Contains(config.Backends, targetBackend) || targetBackend == config.BackendMemory {
		return fmt.Errorf("invalid target backend %q: must be sqlite, file, badger or charm", targetBackend)
	}

	target := *cfg
	target.Backend = targetBackend
	if migrateDataDir != "" {
		target.DataDir = config.ExpandPath(migrateDataDir)
	}
	sourceLocation := cfg.BackendLocation(sourceBackend)
	targetLocation := target.BackendLocation(targetBackend)
	if targetBackend == sourceBackend && targetLocation == sourceLocation {
		return fmt.Errorf("target %s (%s) is the current backend", targetBackend, targetLocation)
	}

	dst, err := target.OpenBackend()
	if err != nil {
		return fmt.Errorf("open target storage (%s): %w", targetBackend, err)
	}
	defer func() {
		if cerr := dst.Close(); cerr != nil {
			_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "warning: closing target storage: %v\n", cerr)
		}
	}()

	existing, err := dst.Slots()
	if err != nil {
		return fmt.Errorf("check target storage: %w", err)
	}
	if len(existing) > 0 && !migrateForce {
		return fmt.Errorf("target %q already holds %d slot(s); use --force to overwrite", targetLocation, len(existing))
	}

	out := cmd.OutOrStdout()
	color.New(color.FgYellow).Fprintln(out, "Migrating vehicle log:")
	fmt.Fprintf(out, "  Source:  %s (%s)\n", sourceBackend, sourceLocation)
	fmt.Fprintf(out, "  Target:  %s (%s)\n", targetBackend, targetLocation)
	fmt.Fprintln(out)

	summary, err := storage.MigrateData(backend, dst)
	if err != nil {
		return fmt.Errorf("migration failed: %w", err)
	}
	logger.Info("migration complete", "to", targetBackend, "slots", summary.Slots, "bytes", summary.Bytes)

	fmt.Fprintln(out, color.GreenString("Migration complete!"))
	fmt.Fprintf(out, "  Slots: %d\n", summary.Slots)
	fmt.Fprintf(out, "  Bytes: %d\n", summary.Bytes)
	fmt.Fprintln(out)
	color.New(color.FgYellow).Fprintln(out, "Note: config.json was NOT updated. To switch to the new backend, edit:")
	fmt.Fprintf(out, "  %s\n", config.GetConfigPath())
	fmt.Fprintf(out, "  Set \"backend\": %q", targetBackend)
	if migrateDataDir != "" {
		fmt.Fprintf(out, " and \"data_dir\": %q", target.DataDir)
	}
	fmt.Fprintln(out)
	return nil
}
