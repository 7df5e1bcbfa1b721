package handler

import (
	"errors"
	"strconv"

	"devjobs/internal/delivery/http/dto"
	"devjobs/internal/delivery/http/middleware"
	"devjobs/internal/domain/policy"
	"devjobs/internal/pkg/response"
	ucapps "devjobs/internal/usecase/applications"
	ucjobs "devjobs/internal/usecase/jobs"

	"github.com/gofiber/fiber/v3"
)

type JobsHandler struct {
	jobs *ucjobs.Service
	apps *ucapps.Service
	auth *middleware.AuthMiddleware
}

func NewJobsHandler(jobs *ucjobs.Service, apps *ucapps.Service, auth *middleware.AuthMiddleware) *JobsHandler {
	return &JobsHandler{jobs: jobs, apps: apps, auth: auth}
}

func (h *JobsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/", h.List)
	r.Post("/", h.Create, h.auth.Middleware())
	r.Get("/:id", h.Get, h.auth.OptionalMiddleware())
	r.Put("/:id", h.Update, h.auth.Middleware())
	r.Delete("/:id", h.Delete, h.auth.Middleware())
	r.Post("/:id/apply", h.Apply, h.auth.Middleware())
}

func (h *JobsHandler) List(c fiber.Ctx) error {
	params := ucjobs.ListParams{
		Search:   c.Query("search"),
		Location: c.Query("location"),
		Page:     queryInt(c, "page", 0),
		PageSize: queryInt(c, "pageSize", 0),
	}

	jobs, meta, err := h.jobs.List(c.Context(), params)
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewJobListResponse(jobs, meta))
}

func (h *JobsHandler) Get(c fiber.Ctx) error {
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var actorID *int64
	if id, ok := middleware.UserID(c); ok {
		actorID = &id
	}

	detail, err := h.jobs.Get(c.Context(), actorID, jobID)
	if err != nil {
		return mapJobUsecaseError(err)
	}

	data := dto.NewJobResponse(detail.Job)
	if detail.IncludeApplications {
		data.ApplicationCount = nil
		data.Applications = make([]dto.ApplicationResponse, 0, len(detail.Applications))
		for _, a := range detail.Applications {
			data.Applications = append(data.Applications, dto.NewApplicationResponse(a))
		}
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *JobsHandler) Create(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	var req dto.CreateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.jobs.Create(c.Context(), actorID, ucjobs.CreateInput{
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    req.Requirements,
		Benefits:        req.Benefits,
		Location:        req.Location,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		Skills:          req.Skills,
		Type:            req.Type,
		ExperienceLevel: req.ExperienceLevel,
		Remote:          req.Remote,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Job submitted for review", dto.NewJobResponse(created))
}

func (h *JobsHandler) Update(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.jobs.Update(c.Context(), actorID, jobID, ucjobs.UpdateInput{
		Title:           req.Title,
		Description:     req.Description,
		Requirements:    req.Requirements,
		Benefits:        req.Benefits,
		Location:        req.Location,
		SalaryMin:       req.SalaryMin,
		SalaryMax:       req.SalaryMax,
		Skills:          req.Skills,
		Type:            req.Type,
		ExperienceLevel: req.ExperienceLevel,
		Remote:          req.Remote,
	})
	if err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job updated successfully", dto.NewJobResponse(updated))
}

func (h *JobsHandler) Delete(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.jobs.Delete(c.Context(), actorID, jobID); err != nil {
		return mapJobUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job deleted successfully", nil)
}

func (h *JobsHandler) Apply(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.ApplyRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	created, err := h.apps.Apply(c.Context(), actorID, ucapps.ApplyInput{
		JobID:       jobID,
		CoverLetter: req.CoverLetter,
		ResumeURL:   req.ResumeURL,
	})
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusCreated, "Application submitted successfully", dto.NewApplicationResponse(created))
}

func queryInt(c fiber.Ctx, key string, defaultVal int) int {
	s := c.Query(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

// pathID parses a positive int64 path parameter.
func pathID(c fiber.Ctx, name string) (int64, error) {
	raw := c.Params(name)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		return 0, middleware.NewAppError(fiber.StatusBadRequest, "Invalid id", nil, err)
	}
	return id, nil
}

// mapForbidden converts a policy denial into a 403 with its reason.
func mapForbidden(err error) (error, bool) {
	var fe *policy.ForbiddenError
	if errors.As(err, &fe) {
		return middleware.NewAppError(fiber.StatusForbidden, fe.Reason, nil, err), true
	}
	return nil, false
}

func mapJobUsecaseError(err error) error {
	if err == nil {
		return nil
	}
	if mapped, ok := mapForbidden(err); ok {
		return mapped
	}

	switch {
	case errors.Is(err, ucjobs.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, ucjobs.ErrMissingFields),
		errors.Is(err, ucjobs.ErrNoSkills),
		errors.Is(err, ucjobs.ErrInvalidType),
		errors.Is(err, ucjobs.ErrInvalidLevel),
		errors.Is(err, ucjobs.ErrSalaryRange):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, ucjobs.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
