package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"github.com/solosphere/marketplace/internal/config"
	"github.com/solosphere/marketplace/internal/events"
	"github.com/solosphere/marketplace/internal/service"
	"github.com/solosphere/marketplace/internal/service/mappers"
	"github.com/solosphere/marketplace/internal/store"
	"github.com/solosphere/marketplace/internal/store/model"
	"gorm.io/gorm"
)

const (
	insertJobStm = "INSERT INTO jobs (id, created_at, title, buyer_email, category, deadline, bid_count) VALUES ('%s', CURRENT_TIMESTAMP, 'landing page', 'buyer@example.com', 'Web Development', '2030-01-01 00:00:00', %d);"
	insertBidStm = "INSERT INTO bids (id, created_at, job_id, worker_email, buyer_email, price, status) VALUES ('%s', CURRENT_TIMESTAMP, '%s', '%s', 'buyer@example.com', 100, '%s');"
)

func bidForm(jobID uuid.UUID, worker string) mappers.BidCreateForm {
	deadline := time.Now().Add(24 * time.Hour)
	return mappers.BidCreateForm{
		JobID:       jobID,
		WorkerEmail: worker,
		BuyerEmail:  "buyer@example.com",
		Price:       150,
		Comment:     "I can do it",
		Deadline:    &deadline,
		Title:       "landing page",
		Category:    string(model.CategoryWebDevelopment),
	}
}

var _ = Describe("bid service", Ordered, func() {
	var (
		s      store.Store
		gormdb *gorm.DB
		ctx    = context.TODO()
		jobID  uuid.UUID
	)

	bidCount := func(id uuid.UUID) int {
		job, err := s.Job().Get(ctx, id)
		Expect(err).To(BeNil())
		return job.BidCount
	}

	bidRows := func(id uuid.UUID) int64 {
		var count int64
		tx := gormdb.Model(&model.Bid{}).Where("job_id = ?", id).Count(&count)
		Expect(tx.Error).To(BeNil())
		return count
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())

		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		jobID = uuid.New()
		tx := gormdb.Exec(fmt.Sprintf(insertJobStm, jobID, 0))
		Expect(tx.Error).To(BeNil())
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM bids;")
		gormdb.Exec("DELETE FROM jobs;")
	})

	Context("place bid", func() {
		It("places a bid and increments the bid count by one", func() {
			srv := service.NewBidService(s)

			bid, err := srv.PlaceBid(ctx, bidForm(jobID, "w1@example.com"))
			Expect(err).To(BeNil())
			Expect(bid.Status).To(Equal(model.BidStatusPending))
			Expect(bid.JobID).To(Equal(jobID))

			Expect(bidCount(jobID)).To(Equal(1))
			Expect(bidRows(jobID)).To(BeNumerically("==", 1))
		})

		It("rejects a second bid of the same worker and keeps the count", func() {
			srv := service.NewBidService(s)

			_, err := srv.PlaceBid(ctx, bidForm(jobID, "w1@example.com"))
			Expect(err).To(BeNil())

			_, err = srv.PlaceBid(ctx, bidForm(jobID, "w1@example.com"))
			Expect(err).NotTo(BeNil())

			var duplicate *service.ErrDuplicateBid
			Expect(errors.As(err, &duplicate)).To(BeTrue())
			Expect(err.Error()).To(Equal(service.DuplicateBidMessage))

			Expect(bidCount(jobID)).To(Equal(1))
			Expect(bidRows(jobID)).To(BeNumerically("==", 1))
		})

		It("counts bids of different workers", func() {
			srv := service.NewBidService(s)

			for _, worker := range []string{"w1@example.com", "w2@example.com", "w3@example.com"} {
				_, err := srv.PlaceBid(ctx, bidForm(jobID, worker))
				Expect(err).To(BeNil())
			}

			Expect(bidCount(jobID)).To(Equal(3))
		})

		It("keeps one bid when the same worker bids concurrently", func() {
			srv := service.NewBidService(s)

			const attempts = 10
			var (
				wg        sync.WaitGroup
				lock      sync.Mutex
				succeeded int
				failures  []error
			)

			for i := 0; i < attempts; i++ {
				wg.Add(1)
				go func() {
					defer GinkgoRecover()
					defer wg.Done()

					_, err := srv.PlaceBid(ctx, bidForm(jobID, "w1@example.com"))

					lock.Lock()
					defer lock.Unlock()
					if err == nil {
						succeeded++
						return
					}
					failures = append(failures, err)
				}()
			}
			wg.Wait()

			Expect(succeeded).To(Equal(1))
			Expect(failures).To(HaveLen(attempts - 1))
			for _, err := range failures {
				var duplicate *service.ErrDuplicateBid
				Expect(errors.As(err, &duplicate)).To(BeTrue(), err.Error())
			}

			Expect(bidRows(jobID)).To(BeNumerically("==", 1))
			Expect(bidCount(jobID)).To(Equal(1))
		})

		It("fails on an unknown job", func() {
			srv := service.NewBidService(s)

			_, err := srv.PlaceBid(ctx, bidForm(uuid.New(), "w1@example.com"))
			Expect(err).NotTo(BeNil())

			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})

		It("rejects a duplicate through the unique index when the lookup misses it", func() {
			srv := service.NewBidService(&blindStore{Store: s})

			_, err := srv.PlaceBid(ctx, bidForm(jobID, "w1@example.com"))
			Expect(err).To(BeNil())

			_, err = srv.PlaceBid(ctx, bidForm(jobID, "w1@example.com"))
			Expect(err).NotTo(BeNil())

			var duplicate *service.ErrDuplicateBid
			Expect(errors.As(err, &duplicate)).To(BeTrue(), err.Error())
			Expect(err.Error()).To(Equal(service.DuplicateBidMessage))

			Expect(bidRows(jobID)).To(BeNumerically("==", 1))
			Expect(bidCount(jobID)).To(Equal(1))
		})

		It("reports drift when the bid count cannot be incremented", func() {
			srv := service.NewBidService(&driftingStore{Store: s})

			_, err := srv.PlaceBid(ctx, bidForm(jobID, "w1@example.com"))
			Expect(err).NotTo(BeNil())

			var drift *service.ErrBidCountDrift
			Expect(errors.As(err, &drift)).To(BeTrue())
			Expect(drift.JobID).To(Equal(jobID))

			// the bid stays, the counter lags behind
			Expect(bidRows(jobID)).To(BeNumerically("==", 1))
			Expect(bidCount(jobID)).To(Equal(0))
		})

		It("publishes a placed event", func() {
			w := &recordingWriter{}
			srv := service.NewBidService(s, service.WithEventWriter(w))

			_, err := srv.PlaceBid(ctx, bidForm(jobID, "w1@example.com"))
			Expect(err).To(BeNil())

			_, _ = srv.PlaceBid(ctx, bidForm(jobID, "w1@example.com"))

			Expect(w.Kinds()).To(Equal([]string{events.BidPlacedMessageKind}))
		})
	})

	Context("update bid status", func() {
		It("is a no-op for an unknown bid", func() {
			srv := service.NewBidService(s)

			bidID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertBidStm, bidID, jobID, "w1@example.com", model.BidStatusPending))
			Expect(tx.Error).To(BeNil())

			matched, err := srv.UpdateBidStatus(ctx, uuid.New(), model.BidStatusCompleted)
			Expect(err).To(BeNil())
			Expect(matched).To(BeNumerically("==", 0))

			bid, err := srv.GetBid(ctx, bidID)
			Expect(err).To(BeNil())
			Expect(bid.Status).To(Equal(model.BidStatusPending))
		})

		It("moves a pending bid straight to completed", func() {
			srv := service.NewBidService(s)

			bidID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertBidStm, bidID, jobID, "w1@example.com", model.BidStatusPending))
			Expect(tx.Error).To(BeNil())

			matched, err := srv.UpdateBidStatus(ctx, bidID, model.BidStatusCompleted)
			Expect(err).To(BeNil())
			Expect(matched).To(BeNumerically("==", 1))

			bid, err := srv.GetBid(ctx, bidID)
			Expect(err).To(BeNil())
			Expect(bid.Status).To(Equal(model.BidStatusCompleted))
		})

		It("overwrites a rejected bid back to pending", func() {
			srv := service.NewBidService(s)

			bidID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertBidStm, bidID, jobID, "w1@example.com", model.BidStatusRejected))
			Expect(tx.Error).To(BeNil())

			matched, err := srv.UpdateBidStatus(ctx, bidID, model.BidStatusPending)
			Expect(err).To(BeNil())
			Expect(matched).To(BeNumerically("==", 1))
		})

		It("publishes a status event only when a bid matched", func() {
			w := &recordingWriter{}
			srv := service.NewBidService(s, service.WithEventWriter(w))

			bidID := uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertBidStm, bidID, jobID, "w1@example.com", model.BidStatusPending))
			Expect(tx.Error).To(BeNil())

			_, err := srv.UpdateBidStatus(ctx, uuid.New(), model.BidStatusInProgress)
			Expect(err).To(BeNil())
			_, err = srv.UpdateBidStatus(ctx, bidID, model.BidStatusInProgress)
			Expect(err).To(BeNil())

			Expect(w.Kinds()).To(Equal([]string{events.BidStatusMessageKind}))
		})

		It("fails to get an unknown bid", func() {
			srv := service.NewBidService(s)

			_, err := srv.GetBid(ctx, uuid.New())
			var notFound *service.ErrResourceNotFound
			Expect(errors.As(err, &notFound)).To(BeTrue())
		})
	})

	Context("update bid status with strict transitions", func() {
		var (
			srv   *service.BidService
			bidID uuid.UUID
		)

		BeforeEach(func() {
			srv = service.NewBidService(s, service.WithStrictTransitions(true))
			bidID = uuid.New()
			tx := gormdb.Exec(fmt.Sprintf(insertBidStm, bidID, jobID, "w1@example.com", model.BidStatusPending))
			Expect(tx.Error).To(BeNil())
		})

		It("follows the allowed path", func() {
			matched, err := srv.UpdateBidStatus(ctx, bidID, model.BidStatusInProgress)
			Expect(err).To(BeNil())
			Expect(matched).To(BeNumerically("==", 1))

			matched, err = srv.UpdateBidStatus(ctx, bidID, model.BidStatusCompleted)
			Expect(err).To(BeNil())
			Expect(matched).To(BeNumerically("==", 1))
		})

		It("refuses to skip a step", func() {
			matched, err := srv.UpdateBidStatus(ctx, bidID, model.BidStatusCompleted)
			Expect(matched).To(BeNumerically("==", 0))

			var invalid *service.ErrInvalidTransition
			Expect(errors.As(err, &invalid)).To(BeTrue())

			bid, err := srv.GetBid(ctx, bidID)
			Expect(err).To(BeNil())
			Expect(bid.Status).To(Equal(model.BidStatusPending))
		})

		It("refuses to move back to pending", func() {
			_, err := srv.UpdateBidStatus(ctx, bidID, model.BidStatusPending)
			var invalid *service.ErrInvalidTransition
			Expect(errors.As(err, &invalid)).To(BeTrue())
		})

		It("is still a no-op for an unknown bid", func() {
			matched, err := srv.UpdateBidStatus(ctx, uuid.New(), model.BidStatusInProgress)
			Expect(err).To(BeNil())
			Expect(matched).To(BeNumerically("==", 0))
		})
	})

	Context("list bids", func() {
		It("lists the bids of a worker", func() {
			srv := service.NewBidService(s)

			_, err := srv.PlaceBid(ctx, bidForm(jobID, "w1@example.com"))
			Expect(err).To(BeNil())
			_, err = srv.PlaceBid(ctx, bidForm(jobID, "w2@example.com"))
			Expect(err).To(BeNil())

			bids, err := srv.ListBids(ctx, store.NewBidQueryFilter().ByWorkerEmail("w1@example.com"))
			Expect(err).To(BeNil())
			Expect(bids).To(HaveLen(1))
			Expect(bids[0].WorkerEmail).To(Equal("w1@example.com"))
		})
	})
})
