package main

import (
	"github.com/pkg/errors"
	"github.com/solosphere/marketplace/internal/config"
	"github.com/solosphere/marketplace/internal/store"
	"github.com/solosphere/marketplace/pkg/log"
	"github.com/solosphere/marketplace/pkg/migrations"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var rootCmd = &cobra.Command{
	Use:          "marketplace-api",
	Short:        "Job marketplace api",
	SilenceUsage: true,
}

func init() {
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(migrateCmd)
	rootCmd.AddCommand(reconcileCmd)
}

// setup loads the configuration and installs the global logger. The returned func restores it.
func setup() (*config.Config, func(), error) {
	cfg, err := config.New()
	if err != nil {
		return nil, nil, errors.Wrap(err, "reading configuration")
	}

	logger := log.InitLog(log.ParseLevel(cfg.Service.LogLevel), cfg.IsProduction())
	undo := zap.ReplaceGlobals(logger)

	return cfg, func() {
		_ = logger.Sync()
		undo()
	}, nil
}

func openStore(cfg *config.Config) (store.Store, *gorm.DB, error) {
	zap.S().Info("Initializing data store")
	db, err := store.InitDB(cfg)
	if err != nil {
		return nil, nil, errors.Wrap(err, "initializing data store")
	}
	return store.NewStore(db), db, nil
}

// migrate runs the sql migrations when a folder is configured and falls back to the model schema otherwise.
func migrate(cfg *config.Config, s store.Store, db *gorm.DB) error {
	if cfg.Service.MigrationFolder == "" {
		return errors.Wrap(s.InitialMigration(), "running initial migration")
	}
	return errors.Wrap(migrations.MigrateStore(db, cfg), "running sql migrations")
}
