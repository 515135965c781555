package handlers

import (
	"net/http"
	"time"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-service/internal/api/dto"
	"github.com/spec-kit/shift-service/internal/auth"
	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/service"
	apperrors "github.com/spec-kit/shift-service/pkg/util/errorutil"
)

// SchedulesHandler manages the period lifecycle and the engine runs.
type SchedulesHandler struct {
	schedules   *service.ScheduleService
	assignments *service.AssignmentService
}

// NewSchedulesHandler constructs handler.
func NewSchedulesHandler(schedules *service.ScheduleService, assignments *service.AssignmentService) *SchedulesHandler {
	return &SchedulesHandler{schedules: schedules, assignments: assignments}
}

// Create POST /schedules.
func (h *SchedulesHandler) Create(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.CreateScheduleRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if req.StoreID == "" || req.WeekStart == "" {
		return apperrors.NewValidationError("store_id and week_start required", nil)
	}
	weekStart, err := time.Parse("2006-01-02", req.WeekStart)
	if err != nil {
		return apperrors.NewValidationError("week_start must be YYYY-MM-DD", nil)
	}

	period, err := h.schedules.OpenPeriod(c.Context(), req.StoreID, weekStart, service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(fiber.Map{"data": dto.NewScheduleResponse(period)})
}

// Get GET /schedules/:id.
func (h *SchedulesHandler) Get(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	period, err := h.schedules.GetPeriod(c.Context(), c.Params("id"), service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewScheduleResponse(period)})
}

// List GET /stores/:storeID/schedules.
func (h *SchedulesHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	limit := c.QueryInt("limit", 20)
	offset := c.QueryInt("offset", 0)
	periods, err := h.schedules.ListPeriods(c.Context(), c.Params("storeID"), limit, offset, service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	items := make([]dto.ScheduleResponse, 0, len(periods))
	for i := range periods {
		items = append(items, dto.NewScheduleResponse(&periods[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}

// AutoAssign POST /schedules/:id/auto-assign.
func (h *SchedulesHandler) AutoAssign(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	result, err := h.assignments.AutoAssign(c.Context(), principal.Employee, c.Params("id"), service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": result})
}

// Finalize POST /schedules/:id/finalize.
func (h *SchedulesHandler) Finalize(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.FinalizeRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}
	if len(req.Employees) == 0 {
		return apperrors.NewValidationError("employees required", nil)
	}

	input := service.FinalizeInput{}
	for employeeID, days := range req.Employees {
		var overrides [7]service.DayOverride
		for i, day := range days {
			override := service.DayOverride{
				Type:      day.Type,
				WorkArea:  day.WorkArea,
				SectionID: day.SectionID,
			}
			if day.Start != nil {
				start, err := domain.ParseTimeOfDay(*day.Start)
				if err != nil {
					return apperrors.NewValidationError(err.Error(), nil)
				}
				override.Start = &start
			}
			if day.End != nil {
				end, err := domain.ParseTimeOfDay(*day.End)
				if err != nil {
					return apperrors.NewValidationError(err.Error(), nil)
				}
				override.End = &end
			}
			overrides[i] = override
		}
		input[employeeID] = overrides
	}

	period, err := h.assignments.Finalize(c.Context(), principal.Employee, c.Params("id"), input, service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewScheduleResponse(period)})
}

// Close POST /schedules/:id/close.
func (h *SchedulesHandler) Close(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	period, err := h.schedules.ClosePeriod(c.Context(), principal.Employee, c.Params("id"), service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewScheduleResponse(period)})
}

// Delete DELETE /schedules/:id.
func (h *SchedulesHandler) Delete(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	if err := h.schedules.DeletePeriod(c.Context(), c.Params("id"), service.ScopeForEmployee(principal.Employee)); err != nil {
		return err
	}
	return c.SendStatus(http.StatusNoContent)
}

// ListAssignments GET /schedules/:id/assignments.
func (h *SchedulesHandler) ListAssignments(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	result, err := h.assignments.ListForSchedule(c.Context(), c.Params("id"), service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewScheduleAssignmentsResponse(result)})
}
