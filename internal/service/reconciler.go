package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/lthibault/jitterbug/v2"
	"github.com/solosphere/marketplace/internal/events"
	"github.com/solosphere/marketplace/internal/store"
	"github.com/solosphere/marketplace/pkg/metrics"
	"go.uber.org/zap"
)

type ReconcileReport struct {
	Checked   int
	Corrected int
}

// Reconciler recomputes job bid counts from the bids table. Running it any
// number of times converges to the same counts.
type Reconciler struct {
	store  store.Store
	events EventWriter
}

type ReconcilerOption func(r *Reconciler)

func WithReconcilerEventWriter(w EventWriter) ReconcilerOption {
	return func(r *Reconciler) {
		r.events = w
	}
}

func NewReconciler(store store.Store, opts ...ReconcilerOption) *Reconciler {
	r := &Reconciler{store: store}
	for _, o := range opts {
		o(r)
	}
	return r
}

func (r *Reconciler) Reconcile(ctx context.Context) (ReconcileReport, error) {
	logger := zap.S().Named("reconciler")

	jobs, err := r.store.Job().List(ctx, store.NewJobQueryFilter(), nil)
	if err != nil {
		metrics.IncreaseReconcileRunsTotalMetric("failed")
		return ReconcileReport{}, fmt.Errorf("listing jobs: %w", err)
	}

	counts, err := r.store.Bid().CountByJob(ctx)
	if err != nil {
		metrics.IncreaseReconcileRunsTotalMetric("failed")
		return ReconcileReport{}, err
	}

	report := ReconcileReport{Checked: len(jobs)}
	for _, job := range jobs {
		actual := counts[job.ID]
		if int64(job.BidCount) == actual {
			continue
		}

		// recount in the store rather than writing `actual`, a bid may have landed since
		if err := r.store.Job().RecountBids(ctx, job.ID); err != nil {
			if errors.Is(err, store.ErrRecordNotFound) {
				continue
			}
			metrics.IncreaseReconcileRunsTotalMetric("failed")
			return report, err
		}

		logger.Infow("bid count corrected", "job_id", job.ID, "cached", job.BidCount, "actual", actual)
		report.Corrected++

		if r.events != nil {
			_ = r.events.WriteJSON(ctx, events.BidCountCorrectedMessageKind, events.BidCountCorrectedEvent{
				JobID:  job.ID.String(),
				Cached: job.BidCount,
				Actual: actual,
			})
		}
	}

	metrics.IncreaseBidCountCorrectionsMetric(report.Corrected)
	metrics.IncreaseReconcileRunsTotalMetric("succeeded")

	return report, nil
}

// Run reconciles every interval until the context is done.
func (r *Reconciler) Run(ctx context.Context, interval time.Duration) {
	logger := zap.S().Named("reconciler")
	logger.Infof("reconciling bid counts every %s", interval)

	ticker := jitterbug.New(interval, &jitterbug.Norm{Stdev: interval / 10, Mean: 0})
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logger.Info("reconciler stopped")
			return
		case <-ticker.C:
		}

		report, err := r.Reconcile(ctx)
		if err != nil {
			logger.Errorw("reconciliation failed", "error", err)
			continue
		}
		if report.Corrected > 0 {
			logger.Infow("reconciliation done", "checked", report.Checked, "corrected", report.Corrected)
		}
	}
}
