package handler

import (
	"errors"

	"devjobs/internal/delivery/http/dto"
	"devjobs/internal/delivery/http/middleware"
	"devjobs/internal/pkg/response"
	ucapps "devjobs/internal/usecase/applications"

	"github.com/gofiber/fiber/v3"
)

type ApplicationsHandler struct {
	uc   *ucapps.Service
	auth *middleware.AuthMiddleware
}

func NewApplicationsHandler(uc *ucapps.Service, auth *middleware.AuthMiddleware) *ApplicationsHandler {
	return &ApplicationsHandler{uc: uc, auth: auth}
}

func (h *ApplicationsHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Get("/user", h.ListOwn, h.auth.Middleware())
	r.Get("/job/:id", h.ListForJob, h.auth.Middleware())
	r.Get("/:id", h.Get, h.auth.Middleware())
	r.Put("/:id/status", h.UpdateStatus, h.auth.Middleware())
}

// ListOwn returns the caller's own applications, newest first, each
// with its job embedded.
func (h *ApplicationsHandler) ListOwn(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.ListOwn(c.Context(), actorID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationWithJobResponses(items))
}

func (h *ApplicationsHandler) ListForJob(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	items, err := h.uc.ListForJob(c.Context(), actorID, jobID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewApplicationWithUserResponses(items))
}

func (h *ApplicationsHandler) Get(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	appID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	detail, err := h.uc.Get(c.Context(), actorID, appID)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}

	data := dto.NewApplicationResponse(detail.Application)
	if detail.Job != nil {
		jobResp := dto.NewJobResponse(*detail.Job)
		data.Job = &jobResp
	}
	if detail.Applicant != nil {
		userResp := dto.NewUserResponse(*detail.Applicant)
		data.Applicant = &userResp
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *ApplicationsHandler) UpdateStatus(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	appID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.UpdateApplicationStatusRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.UpdateStatus(c.Context(), actorID, appID, req.Status)
	if err != nil {
		return mapApplicationUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Application status updated", dto.NewApplicationResponse(updated))
}

func mapApplicationUsecaseError(err error) error {
	if err == nil {
		return nil
	}
	if mapped, ok := mapForbidden(err); ok {
		return mapped
	}

	switch {
	case errors.Is(err, ucapps.ErrNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Application not found", nil, err)
	case errors.Is(err, ucapps.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, ucapps.ErrAlreadyApplied):
		return middleware.NewAppError(fiber.StatusConflict, "You have already applied to this job", nil, err)
	case errors.Is(err, ucapps.ErrJobNotOpen):
		return middleware.NewAppError(fiber.StatusConflict, "This job is not accepting applications", nil, err)
	case errors.Is(err, ucapps.ErrMissingFields),
		errors.Is(err, ucapps.ErrInvalidStatus):
		return middleware.NewAppError(fiber.StatusBadRequest, err.Error(), nil, err)
	case errors.Is(err, ucapps.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
