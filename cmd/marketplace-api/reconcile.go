package main

import (
	"github.com/pkg/errors"
	"github.com/solosphere/marketplace/internal/service"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var reconcileCmd = &cobra.Command{
	Use:   "reconcile",
	Short: "Recompute job bid counts from the stored bids once",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, teardown, err := setup()
		if err != nil {
			return err
		}
		defer teardown()

		s, _, err := openStore(cfg)
		if err != nil {
			return err
		}
		defer s.Close()

		report, err := service.NewReconciler(s).Reconcile(cmd.Context())
		if err != nil {
			return errors.Wrap(err, "reconciling bid counts")
		}

		zap.S().Infow("bid counts reconciled", "checked", report.Checked, "corrected", report.Corrected)
		return nil
	},
}
