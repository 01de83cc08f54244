package v1alpha1_test

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	api "github.com/solosphere/marketplace/api/v1alpha1"
	"github.com/solosphere/marketplace/internal/auth"
	"github.com/solosphere/marketplace/internal/config"
	"github.com/solosphere/marketplace/internal/service"
	"github.com/solosphere/marketplace/internal/store"
	"gorm.io/gorm"
)

func newBid(jobID, worker string) api.BidCreate {
	return api.BidCreate{
		JobId:    jobID,
		Email:    worker,
		Buyer:    "buyer@example.com",
		Price:    150,
		Comment:  "I can do it",
		Title:    "landing page",
		Category: "Web Development",
	}
}

var _ = Describe("bid handler", Ordered, func() {
	var (
		s             store.Store
		gormdb        *gorm.DB
		router        chi.Router
		authenticator *auth.CookieAuthenticator
		jobID         string
	)

	tokenCookie := func(email string) *http.Cookie {
		token, err := authenticator.IssueToken(email)
		Expect(err).To(BeNil())
		return &http.Cookie{Name: authenticator.CookieName(), Value: token}
	}

	placeBid := func(bid api.BidCreate) string {
		rec := do(router, http.MethodPost, "/add-bid", bid)
		Expect(rec.Code).To(Equal(http.StatusOK), rec.Body.String())
		return decode[api.InsertAck](rec).InsertedId
	}

	bidCount := func() int {
		return decode[api.Job](do(router, http.MethodGet, "/job/"+jobID, nil)).BidCount
	}

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())
		s = store.NewStore(db)
		gormdb = db
		Expect(s.InitialMigration()).To(Succeed())

		router, authenticator = newRouter(s)
	})

	AfterAll(func() {
		s.Close()
	})

	BeforeEach(func() {
		rec := do(router, http.MethodPost, "/add-job", newJob("landing page", "buyer@example.com", "Web Development", time.Now().UTC()))
		Expect(rec.Code).To(Equal(http.StatusOK))
		jobID = decode[api.InsertAck](rec).InsertedId
	})

	AfterEach(func() {
		gormdb.Exec("DELETE FROM bids;")
		gormdb.Exec("DELETE FROM jobs;")
	})

	Context("add bid", func() {
		It("places a bid and increments the job bid count", func() {
			rec := do(router, http.MethodPost, "/add-bid", newBid(jobID, "w1@example.com"))
			Expect(rec.Code).To(Equal(http.StatusOK))

			ack := decode[api.InsertAck](rec)
			Expect(ack.Acknowledged).To(BeTrue())
			_, err := uuid.Parse(ack.InsertedId)
			Expect(err).To(BeNil())

			Expect(bidCount()).To(Equal(1))
		})

		It("rejects a second bid with the plain text message", func() {
			placeBid(newBid(jobID, "w1@example.com"))

			rec := do(router, http.MethodPost, "/add-bid", newBid(jobID, "w1@example.com"))
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
			Expect(rec.Header().Get("Content-Type")).To(HavePrefix("text/plain"))
			Expect(rec.Body.String()).To(Equal("You have already placed a bid on this job"))

			Expect(bidCount()).To(Equal(1))
		})

		It("returns 404 on an unknown job", func() {
			rec := do(router, http.MethodPost, "/add-bid", newBid(uuid.NewString(), "w1@example.com"))
			Expect(rec.Code).To(Equal(http.StatusNotFound))
		})

		It("ignores the status sent by the client", func() {
			bid := newBid(jobID, "w1@example.com")
			bid.Status = "Completed"
			placeBid(bid)

			bids := decode[api.BidList](do(router, http.MethodGet, "/bids/w1@example.com", nil, tokenCookie("w1@example.com")))
			Expect(bids).To(HaveLen(1))
			Expect(bids[0].Status).To(Equal("Pending"))
		})

		DescribeTable("rejects invalid bids",
			func(mutate func(b *api.BidCreate)) {
				bid := newBid(jobID, "w1@example.com")
				mutate(&bid)

				rec := do(router, http.MethodPost, "/add-bid", bid)
				Expect(rec.Code).To(Equal(http.StatusBadRequest))
				Expect(bidCount()).To(Equal(0))
			},
			Entry("job id is not a uuid", func(b *api.BidCreate) { b.JobId = "123" }),
			Entry("worker email is missing", func(b *api.BidCreate) { b.Email = "" }),
			Entry("buyer email is malformed", func(b *api.BidCreate) { b.Buyer = "buyer" }),
			Entry("price is negative", func(b *api.BidCreate) { b.Price = -1 }),
		)
	})

	Context("list bids", func() {
		BeforeEach(func() {
			placeBid(newBid(jobID, "w1@example.com"))
			placeBid(newBid(jobID, "w2@example.com"))
		})

		It("requires a token", func() {
			rec := do(router, http.MethodGet, "/bids/w1@example.com", nil)
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("rejects an invalid token", func() {
			rec := do(router, http.MethodGet, "/bids/w1@example.com", nil, &http.Cookie{Name: "token", Value: "garbage"})
			Expect(rec.Code).To(Equal(http.StatusUnauthorized))
		})

		It("lists the bids placed by the worker", func() {
			rec := do(router, http.MethodGet, "/bids/w1@example.com", nil, tokenCookie("w1@example.com"))
			Expect(rec.Code).To(Equal(http.StatusOK))

			bids := decode[api.BidList](rec)
			Expect(bids).To(HaveLen(1))
			Expect(bids[0].Email).To(Equal("w1@example.com"))
			Expect(bids[0].JobId).To(Equal(jobID))
		})

		It("lists the bids received by the buyer", func() {
			rec := do(router, http.MethodGet, "/bids/buyer@example.com?buyer=true", nil, tokenCookie("buyer@example.com"))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode[api.BidList](rec)).To(HaveLen(2))
		})

		It("returns nothing for the buyer without the buyer flag", func() {
			rec := do(router, http.MethodGet, "/bids/buyer@example.com", nil, tokenCookie("buyer@example.com"))
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(rec.Body.String()).To(MatchJSON("[]"))
		})

		It("forbids reading the bids of another worker", func() {
			rec := do(router, http.MethodGet, "/bids/w2@example.com", nil, tokenCookie("w1@example.com"))
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})

		It("forbids reading the bids received by another buyer", func() {
			rec := do(router, http.MethodGet, "/bids/buyer@example.com?buyer=true", nil, tokenCookie("w1@example.com"))
			Expect(rec.Code).To(Equal(http.StatusForbidden))
		})
	})

	Context("update bid status", func() {
		It("updates the status", func() {
			id := placeBid(newBid(jobID, "w1@example.com"))

			rec := do(router, http.MethodPatch, "/bid-status-updated/"+id, api.BidStatusUpdate{Status: "In Progress"})
			Expect(rec.Code).To(Equal(http.StatusOK))

			ack := decode[api.UpdateAck](rec)
			Expect(ack.Acknowledged).To(BeTrue())
			Expect(ack.MatchedCount).To(BeNumerically("==", 1))

			bids := decode[api.BidList](do(router, http.MethodGet, "/bids/w1@example.com", nil, tokenCookie("w1@example.com")))
			Expect(bids[0].Status).To(Equal("In Progress"))
		})

		It("matches nothing for an unknown bid", func() {
			rec := do(router, http.MethodPatch, "/bid-status-updated/"+uuid.NewString(), api.BidStatusUpdate{Status: "Completed"})
			Expect(rec.Code).To(Equal(http.StatusOK))
			Expect(decode[api.UpdateAck](rec).MatchedCount).To(BeNumerically("==", 0))
		})

		It("rejects an unknown status", func() {
			id := placeBid(newBid(jobID, "w1@example.com"))

			rec := do(router, http.MethodPatch, "/bid-status-updated/"+id, api.BidStatusUpdate{Status: "Done"})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))
		})

		It("rejects a skipped step with strict transitions", func() {
			strict, _ := newRouter(s, service.WithStrictTransitions(true))
			id := placeBid(newBid(jobID, "w1@example.com"))

			rec := do(strict, http.MethodPatch, "/bid-status-updated/"+id, api.BidStatusUpdate{Status: "Completed"})
			Expect(rec.Code).To(Equal(http.StatusBadRequest))

			rec = do(strict, http.MethodPatch, "/bid-status-updated/"+id, api.BidStatusUpdate{Status: "In Progress"})
			Expect(rec.Code).To(Equal(http.StatusOK))
		})
	})
})

var _ = Describe("auth handler", Ordered, func() {
	var (
		s      store.Store
		router chi.Router
	)

	BeforeAll(func() {
		db, err := store.InitDB(config.NewDefault())
		Expect(err).To(BeNil())
		s = store.NewStore(db)
		Expect(s.InitialMigration()).To(Succeed())

		router, _ = newRouter(s)
	})

	AfterAll(func() {
		s.Close()
	})

	It("issues a token cookie that unlocks the bids of its owner", func() {
		rec := do(router, http.MethodPost, "/jwt", api.TokenRequest{Email: "w1@example.com"})
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode[api.Success](rec).Success).To(BeTrue())

		cookies := rec.Result().Cookies()
		Expect(cookies).To(HaveLen(1))
		Expect(cookies[0].Name).To(Equal("token"))
		Expect(cookies[0].HttpOnly).To(BeTrue())

		Expect(do(router, http.MethodGet, "/bids/w1@example.com", nil, cookies[0]).Code).To(Equal(http.StatusOK))
		Expect(do(router, http.MethodGet, "/bids/w2@example.com", nil, cookies[0]).Code).To(Equal(http.StatusForbidden))
	})

	It("refuses to issue a token without email", func() {
		rec := do(router, http.MethodPost, "/jwt", api.TokenRequest{})
		Expect(rec.Code).To(Equal(http.StatusBadRequest))
		Expect(rec.Result().Cookies()).To(BeEmpty())
	})

	It("clears the cookie on logout", func() {
		rec := do(router, http.MethodGet, "/logout", nil)
		Expect(rec.Code).To(Equal(http.StatusOK))
		Expect(decode[api.Success](rec).Success).To(BeTrue())

		cookies := rec.Result().Cookies()
		Expect(cookies).To(HaveLen(1))
		Expect(cookies[0].MaxAge).To(Equal(-1))
	})
})
