package store

import (
	"github.com/solosphere/marketplace/internal/store/model"
	"gorm.io/gorm"
)

type Store interface {
	Job() Job
	Bid() Bid
	InitialMigration() error
	Close() error
}

type DataStore struct {
	db  *gorm.DB
	job Job
	bid Bid
}

func NewStore(db *gorm.DB) Store {
	return &DataStore{
		job: NewJobStore(db),
		bid: NewBidStore(db),
		db:  db,
	}
}

func (s *DataStore) Job() Job {
	return s.job
}

func (s *DataStore) Bid() Bid {
	return s.bid
}

// InitialMigration creates the tables and indexes from the models, including
// the (worker_email, job_id) unique index on bids.
func (s *DataStore) InitialMigration() error {
	return s.db.AutoMigrate(&model.Job{}, &model.Bid{})
}

func (s *DataStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
