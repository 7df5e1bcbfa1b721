package job

import (
	"errors"
	"time"
)

type Status string

const (
	StatusPending  Status = "pending"
	StatusApproved Status = "approved"
	StatusRejected Status = "rejected"
)

func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

type EmploymentType string

const (
	TypeFullTime  EmploymentType = "full-time"
	TypePartTime  EmploymentType = "part-time"
	TypeContract  EmploymentType = "contract"
	TypeFreelance EmploymentType = "freelance"
)

func (t EmploymentType) Valid() bool {
	switch t {
	case TypeFullTime, TypePartTime, TypeContract, TypeFreelance:
		return true
	}
	return false
}

type ExperienceLevel string

const (
	LevelEntry  ExperienceLevel = "entry"
	LevelMid    ExperienceLevel = "mid"
	LevelSenior ExperienceLevel = "senior"
	LevelLead   ExperienceLevel = "lead"
)

func (l ExperienceLevel) Valid() bool {
	switch l {
	case LevelEntry, LevelMid, LevelSenior, LevelLead:
		return true
	}
	return false
}

var ErrNotFound = errors.New("job not found")

// Job is an employer's posting. Company is copied from the owning
// employer at creation time; later profile edits do not rewrite it.
type Job struct {
	ID              int64
	Title           string
	Description     string
	Requirements    string
	Benefits        string
	Location        string
	SalaryMin       *int
	SalaryMax       *int
	Skills          []string
	Type            EmploymentType
	ExperienceLevel ExperienceLevel
	Remote          bool
	Status          Status
	Company         string
	EmployerID      int64
	CreatedAt       time.Time
	UpdatedAt       time.Time

	// ApplicationCount is derived on reads, never stored.
	ApplicationCount int64
}

// Decided reports whether an admin has already ruled on the posting.
// Any employer edit to a decided job sends it back to pending.
func (j Job) Decided() bool {
	return j.Status == StatusApproved || j.Status == StatusRejected
}
