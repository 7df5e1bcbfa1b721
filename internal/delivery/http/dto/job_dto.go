package dto

import (
	"devjobs/internal/domain/job"
	"devjobs/internal/pkg/pagination"
)

type CreateJobRequest struct {
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Requirements    string   `json:"requirements"`
	Benefits        string   `json:"benefits"`
	Location        string   `json:"location"`
	SalaryMin       *int     `json:"salaryMin"`
	SalaryMax       *int     `json:"salaryMax"`
	Skills          []string `json:"skills"`
	Type            string   `json:"type"`
	ExperienceLevel string   `json:"experienceLevel"`
	Remote          bool     `json:"remote"`
}

type UpdateJobRequest struct {
	Title           *string  `json:"title"`
	Description     *string  `json:"description"`
	Requirements    *string  `json:"requirements"`
	Benefits        *string  `json:"benefits"`
	Location        *string  `json:"location"`
	SalaryMin       *int     `json:"salaryMin"`
	SalaryMax       *int     `json:"salaryMax"`
	Skills          []string `json:"skills"`
	Type            *string  `json:"type"`
	ExperienceLevel *string  `json:"experienceLevel"`
	Remote          *bool    `json:"remote"`
}

type JobResponse struct {
	ID              int64    `json:"id"`
	Title           string   `json:"title"`
	Description     string   `json:"description"`
	Requirements    string   `json:"requirements"`
	Benefits        string   `json:"benefits,omitempty"`
	Location        string   `json:"location"`
	SalaryMin       *int     `json:"salaryMin"`
	SalaryMax       *int     `json:"salaryMax"`
	Skills          []string `json:"skills"`
	Type            string   `json:"type"`
	ExperienceLevel string   `json:"experienceLevel"`
	Remote          bool     `json:"remote"`
	Status          string   `json:"status"`
	Company         string   `json:"company"`
	EmployerID      int64    `json:"employerId"`
	CreatedAt       *string  `json:"createdAt"`
	UpdatedAt       *string  `json:"updatedAt"`

	// Exactly one of these is present depending on the caller: owners
	// and admins get the applications, everyone else gets the count.
	ApplicationCount *int64                `json:"applicationCount,omitempty"`
	Applications     []ApplicationResponse `json:"applications,omitempty"`
}

type JobListResponse struct {
	Jobs       []JobResponse `json:"jobs"`
	Total      int64         `json:"total"`
	Page       int           `json:"page"`
	TotalPages int           `json:"totalPages"`
	HasNext    bool          `json:"hasNext"`
	HasPrev    bool          `json:"hasPrev"`
}

func NewJobResponse(j job.Job) JobResponse {
	skills := j.Skills
	if skills == nil {
		skills = []string{}
	}
	count := j.ApplicationCount
	return JobResponse{
		ID:               j.ID,
		Title:            j.Title,
		Description:      j.Description,
		Requirements:     j.Requirements,
		Benefits:         j.Benefits,
		Location:         j.Location,
		SalaryMin:        j.SalaryMin,
		SalaryMax:        j.SalaryMax,
		Skills:           skills,
		Type:             string(j.Type),
		ExperienceLevel:  string(j.ExperienceLevel),
		Remote:           j.Remote,
		Status:           string(j.Status),
		Company:          j.Company,
		EmployerID:       j.EmployerID,
		CreatedAt:        formatTime(j.CreatedAt),
		UpdatedAt:        formatTime(j.UpdatedAt),
		ApplicationCount: &count,
	}
}

func NewJobListResponse(jobs []job.Job, meta pagination.Meta) JobListResponse {
	out := make([]JobResponse, 0, len(jobs))
	for _, j := range jobs {
		out = append(out, NewJobResponse(j))
	}
	return JobListResponse{
		Jobs:       out,
		Total:      meta.Total,
		Page:       meta.Page,
		TotalPages: meta.TotalPages,
		HasNext:    meta.HasNext,
		HasPrev:    meta.HasPrev,
	}
}
