// Command arisanctl is the operator tool for an arisan database: it applies
// migrations, reconciles payments, draws winners and edits monthly settings
// without going through the RPC server.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mmynk/arisan/internal/config"
	"github.com/mmynk/arisan/internal/storage/sqlite"
	"github.com/mmynk/arisan/pkg/logging"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

// app carries what every subcommand needs once the root command has run.
type app struct {
	cfg    config.Config
	dbPath string
	store  *sqlite.SQLiteStore
}

func newRootCmd() *cobra.Command {
	a := &app{}

	root := &cobra.Command{
		Use:           "arisanctl",
		Short:         "Operate an arisan database",
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load()
			if err != nil {
				return err
			}
			a.cfg = cfg
			if a.dbPath == "" {
				a.dbPath = cfg.Database.Path
			}
			logging.Setup(cfg.Log.Level)

			// Opening the store applies pending migrations.
			store, err := sqlite.New(a.dbPath)
			if err != nil {
				return fmt.Errorf("open %s: %w", a.dbPath, err)
			}
			a.store = store
			return nil
		},
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			if a.store == nil {
				return nil
			}
			return a.store.Close()
		},
	}
	root.PersistentFlags().StringVar(&a.dbPath, "db", "", "database path (default from config)")

	root.AddCommand(
		newMigrateCmd(a),
		newReconcileCmd(a),
		newDrawCmd(a),
		newSettingsCmd(a),
	)
	return root
}
