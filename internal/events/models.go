package events

import (
	"time"
)

type BidPlacedEvent struct {
	BidID       string    `json:"bid_id"`
	JobID       string    `json:"job_id"`
	WorkerEmail string    `json:"worker_email"`
	BuyerEmail  string    `json:"buyer_email"`
	Price       float64   `json:"price"`
	PlacedAt    time.Time `json:"placed_at"`
}

type BidStatusEvent struct {
	BidID  string `json:"bid_id"`
	Status string `json:"status"`
}

type BidCountCorrectedEvent struct {
	JobID  string `json:"job_id"`
	Cached int    `json:"cached"`
	Actual int64  `json:"actual"`
}
