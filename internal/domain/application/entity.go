package application

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending   Status = "pending"
	StatusApproved  Status = "approved"
	StatusRejected  Status = "rejected"
	StatusInterview Status = "interview"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected, StatusInterview:
		return true
	}
	return false
}

var ErrNotFound = errors.New("application not found")

// Application links a seeker to a job. At most one exists per
// (seeker, job) pair; the storage layer enforces that with a unique
// constraint so concurrent applies cannot both land.
type Application struct {
	ID          int64
	CoverLetter string
	ResumeURL   string
	Status      Status
	UserID      int64
	JobID       int64
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
