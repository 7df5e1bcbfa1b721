package handler

import (
	"errors"

	"devjobs/internal/delivery/http/dto"
	"devjobs/internal/delivery/http/middleware"
	"devjobs/internal/pkg/response"
	ucadmin "devjobs/internal/usecase/admin"

	"github.com/gofiber/fiber/v3"
)

type AdminHandler struct {
	uc   *ucadmin.Service
	auth *middleware.AuthMiddleware
}

func NewAdminHandler(uc *ucadmin.Service, auth *middleware.AuthMiddleware) *AdminHandler {
	return &AdminHandler{uc: uc, auth: auth}
}

func (h *AdminHandler) RegisterRoutes(r fiber.Router) {
	if r == nil {
		return
	}

	r.Use(h.auth.Middleware())

	r.Get("/jobs/pending", h.PendingJobs)
	r.Put("/jobs/:id/approve", h.ApproveJob)
	r.Put("/jobs/:id/reject", h.RejectJob)
	r.Get("/stats", h.Stats)
	r.Get("/users", h.Users)
	r.Delete("/users/:id", h.DeleteUser)
}

func (h *AdminHandler) PendingJobs(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	items, err := h.uc.PendingJobs(c.Context(), actorID)
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewPendingJobResponses(items))
}

func (h *AdminHandler) ApproveJob(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	updated, err := h.uc.ApproveJob(c.Context(), actorID, jobID)
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job approved", dto.NewJobResponse(updated))
}

func (h *AdminHandler) RejectJob(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	jobID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	var req dto.RejectJobRequest
	if err := c.Bind().Body(&req); err != nil {
		return middleware.NewAppError(fiber.StatusBadRequest, "Bad request", nil, err)
	}

	updated, err := h.uc.RejectJob(c.Context(), actorID, jobID, req.Reason)
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "Job rejected", dto.NewJobResponse(updated))
}

func (h *AdminHandler) Stats(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	st, err := h.uc.Stats(c.Context(), actorID)
	if err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, dto.NewStatsResponse(st))
}

func (h *AdminHandler) Users(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}

	page := queryInt(c, "page", 0)
	pageSize := queryInt(c, "pageSize", 0)

	users, meta, err := h.uc.Users(c.Context(), actorID, page, pageSize)
	if err != nil {
		return mapAdminUsecaseError(err)
	}

	data := dto.UserListResponse{
		Users:      dto.NewUserResponses(users),
		Total:      meta.Total,
		Page:       meta.Page,
		TotalPages: meta.TotalPages,
		HasNext:    meta.HasNext,
		HasPrev:    meta.HasPrev,
	}
	return response.Success(c, fiber.StatusOK, response.MessageOK, data)
}

func (h *AdminHandler) DeleteUser(c fiber.Ctx) error {
	actorID, ok := middleware.UserID(c)
	if !ok {
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, nil)
	}
	userID, err := pathID(c, "id")
	if err != nil {
		return err
	}

	if err := h.uc.DeleteUser(c.Context(), actorID, userID); err != nil {
		return mapAdminUsecaseError(err)
	}
	return response.Success(c, fiber.StatusOK, "User deleted successfully", nil)
}

func mapAdminUsecaseError(err error) error {
	if err == nil {
		return nil
	}
	if mapped, ok := mapForbidden(err); ok {
		return mapped
	}

	switch {
	case errors.Is(err, ucadmin.ErrJobNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "Job not found", nil, err)
	case errors.Is(err, ucadmin.ErrUserNotFound):
		return middleware.NewAppError(fiber.StatusNotFound, "User not found", nil, err)
	case errors.Is(err, ucadmin.ErrInvalidTransition):
		return middleware.NewAppError(fiber.StatusBadRequest, "Job has already been moderated", nil, err)
	case errors.Is(err, ucadmin.ErrSelfDelete):
		return middleware.NewAppError(fiber.StatusBadRequest, "Admins cannot delete their own account", nil, err)
	case errors.Is(err, ucadmin.ErrUnauthorized):
		return middleware.NewAppError(fiber.StatusUnauthorized, "Unauthorized", nil, err)
	default:
		return middleware.NewAppError(fiber.StatusInternalServerError, response.MessageInternalServerError, nil, err)
	}
}
