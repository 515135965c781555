package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-service/internal/api/dto"
	"github.com/spec-kit/shift-service/internal/auth"
	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/service"
	apperrors "github.com/spec-kit/shift-service/pkg/util/errorutil"
)

// AvailabilityHandler manages availability intake and preview.
type AvailabilityHandler struct {
	service *service.AvailabilityService
}

// NewAvailabilityHandler constructs handler.
func NewAvailabilityHandler(availabilityService *service.AvailabilityService) *AvailabilityHandler {
	return &AvailabilityHandler{service: availabilityService}
}

// Submit PUT /schedules/:id/availability.
func (h *AvailabilityHandler) Submit(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.SubmitAvailabilityRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	var days domain.WeekAvailability
	for i, day := range req.Days {
		entry := domain.DayAvailability{Type: day.Type}
		if day.Start != nil {
			start, err := domain.ParseTimeOfDay(*day.Start)
			if err != nil {
				return apperrors.NewValidationError(err.Error(), nil)
			}
			entry.Start = &start
		}
		if day.End != nil {
			end, err := domain.ParseTimeOfDay(*day.End)
			if err != nil {
				return apperrors.NewValidationError(err.Error(), nil)
			}
			entry.End = &end
		}
		days[i] = entry
	}

	entry, err := h.service.Submit(c.Context(), principal.Employee, c.Params("id"), days)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewAvailabilityEntryResponse(entry)})
}

// List GET /schedules/:id/availability.
func (h *AvailabilityHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	entries, err := h.service.ListForSchedule(c.Context(), c.Params("id"), service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	items := make([]dto.AvailabilityEntryResponse, 0, len(entries))
	for i := range entries {
		items = append(items, dto.NewAvailabilityEntryResponse(&entries[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
