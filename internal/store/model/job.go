package model

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
)

type JobCategory string

const (
	CategoryWebDevelopment   JobCategory = "Web Development"
	CategoryGraphicsDesign   JobCategory = "Graphics Design"
	CategoryDigitalMarketing JobCategory = "Digital Marketing"
)

func (c JobCategory) IsValid() bool {
	switch c {
	case CategoryWebDevelopment, CategoryGraphicsDesign, CategoryDigitalMarketing:
		return true
	default:
		return false
	}
}

type Buyer struct {
	Email string `gorm:"column:buyer_email;type:VARCHAR(255);not null;index:jobs_buyer_email_idx"`
	Name  string `gorm:"column:buyer_name;type:VARCHAR(255)"`
	Photo string `gorm:"column:buyer_photo;type:TEXT"`
}

type Job struct {
	ID          uuid.UUID `gorm:"primaryKey;column:id;type:VARCHAR(255);"`
	CreatedAt   time.Time `gorm:"not null"`
	UpdatedAt   *time.Time
	Title       string      `gorm:"not null;type:VARCHAR(255)"`
	Buyer       Buyer       `gorm:"embedded"`
	Category    JobCategory `gorm:"type:VARCHAR(100);index:jobs_category_idx"`
	Deadline    time.Time
	MinPrice    float64
	MaxPrice    float64
	Description string `gorm:"type:TEXT"`
	BidCount    int    `gorm:"not null;default:0"`
}

type JobList []Job

func NewJobFromID(id uuid.UUID) *Job {
	return &Job{ID: id}
}

func (j Job) String() string {
	val, _ := json.Marshal(j)
	return string(val)
}
