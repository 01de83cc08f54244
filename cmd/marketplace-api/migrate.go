package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Migrate the db",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, teardown, err := setup()
		if err != nil {
			return err
		}
		defer teardown()

		s, db, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		if err := migrate(cfg, s, db); err != nil {
			return err
		}

		zap.S().Info("Db migrated")
		return nil
	},
}
