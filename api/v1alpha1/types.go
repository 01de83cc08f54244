package v1alpha1

import (
	"net/http"
	"time"
)

type Buyer struct {
	Email string `json:"email" validate:"required,email"`
	Name  string `json:"name,omitempty"`
	Photo string `json:"photo,omitempty"`
}

type Job struct {
	Id          string    `json:"_id"`
	Title       string    `json:"title"`
	Buyer       Buyer     `json:"buyer"`
	Category    string    `json:"category"`
	Deadline    time.Time `json:"deadline"`
	MinPrice    float64   `json:"min_price"`
	MaxPrice    float64   `json:"max_price"`
	Description string    `json:"description"`
	BidCount    int       `json:"bid_count"`
	CreatedAt   time.Time `json:"created_at"`
}

type JobList []Job

// JobCreate is the body of both job creation and job update.
// bid_count is accepted for compatibility with older clients and ignored.
type JobCreate struct {
	Title       string    `json:"title" validate:"required"`
	Buyer       Buyer     `json:"buyer"`
	Category    string    `json:"category" validate:"required,job_category"`
	Deadline    time.Time `json:"deadline"`
	MinPrice    float64   `json:"min_price" validate:"gte=0"`
	MaxPrice    float64   `json:"max_price" validate:"gte=0"`
	Description string    `json:"description"`
	BidCount    *int      `json:"bid_count,omitempty"`
}

type Bid struct {
	Id        string     `json:"_id"`
	JobId     string     `json:"jobId"`
	Email     string     `json:"email"`
	Buyer     string     `json:"buyer"`
	Price     float64    `json:"price"`
	Status    string     `json:"status"`
	Comment   string     `json:"comment,omitempty"`
	Deadline  *time.Time `json:"deadline,omitempty"`
	Title     string     `json:"title,omitempty"`
	Category  string     `json:"category,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
}

type BidList []Bid

// BidCreate carries the worker's offer. Any status sent by the client is ignored.
type BidCreate struct {
	JobId    string     `json:"jobId" validate:"required,uuid"`
	Email    string     `json:"email" validate:"required,email"`
	Buyer    string     `json:"buyer" validate:"required,email"`
	Price    float64    `json:"price" validate:"gte=0"`
	Comment  string     `json:"comment,omitempty"`
	Deadline *time.Time `json:"deadline,omitempty"`
	Title    string     `json:"title,omitempty"`
	Category string     `json:"category,omitempty"`
	Status   string     `json:"status,omitempty"`
}

type BidStatusUpdate struct {
	Status string `json:"status" validate:"required,bid_status"`
}

type TokenRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type InsertAck struct {
	Acknowledged bool   `json:"acknowledged"`
	InsertedId   string `json:"insertedId"`
}

type UpdateAck struct {
	Acknowledged  bool    `json:"acknowledged"`
	MatchedCount  int64   `json:"matchedCount"`
	ModifiedCount int64   `json:"modifiedCount"`
	UpsertedCount int64   `json:"upsertedCount"`
	UpsertedId    *string `json:"upsertedId"`
}

type DeleteAck struct {
	Acknowledged bool  `json:"acknowledged"`
	DeletedCount int64 `json:"deletedCount"`
}

type Success struct {
	Success bool `json:"success"`
}

type Error struct {
	Message string `json:"message"`
}

func (a InsertAck) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (a UpdateAck) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (a DeleteAck) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (s Success) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (e Error) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}

func (j Job) Render(w http.ResponseWriter, r *http.Request) error {
	return nil
}
