package dto

import (
	"devjobs/internal/domain/application"
	"devjobs/internal/repository"
)

type ApplyRequest struct {
	CoverLetter string `json:"coverLetter"`
	ResumeURL   string `json:"resumeUrl"`
}

type UpdateApplicationStatusRequest struct {
	Status string `json:"status"`
}

type ApplicationResponse struct {
	ID          int64   `json:"id"`
	CoverLetter string  `json:"coverLetter"`
	ResumeURL   string  `json:"resumeUrl"`
	Status      string  `json:"status"`
	UserID      int64   `json:"userId"`
	JobID       int64   `json:"jobId"`
	CreatedAt   *string `json:"createdAt"`
	UpdatedAt   *string `json:"updatedAt"`

	Job       *JobResponse  `json:"job,omitempty"`
	Applicant *UserResponse `json:"applicant,omitempty"`
}

func NewApplicationResponse(a application.Application) ApplicationResponse {
	return ApplicationResponse{
		ID:          a.ID,
		CoverLetter: a.CoverLetter,
		ResumeURL:   a.ResumeURL,
		Status:      string(a.Status),
		UserID:      a.UserID,
		JobID:       a.JobID,
		CreatedAt:   formatTime(a.CreatedAt),
		UpdatedAt:   formatTime(a.UpdatedAt),
	}
}

func NewApplicationWithJobResponses(items []repository.ApplicationWithJob) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, it := range items {
		resp := NewApplicationResponse(it.Application)
		jobResp := NewJobResponse(it.Job)
		resp.Job = &jobResp
		out = append(out, resp)
	}
	return out
}

func NewApplicationWithUserResponses(items []repository.ApplicationWithUser) []ApplicationResponse {
	out := make([]ApplicationResponse, 0, len(items))
	for _, it := range items {
		resp := NewApplicationResponse(it.Application)
		userResp := NewUserResponse(it.Applicant)
		resp.Applicant = &userResp
		out = append(out, resp)
	}
	return out
}
