package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-service/internal/api/dto"
	"github.com/spec-kit/shift-service/internal/auth"
	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/service"
	apperrors "github.com/spec-kit/shift-service/pkg/util/errorutil"
)

// StaffingHandler manages staffing policy rows.
type StaffingHandler struct {
	service *service.StaffingService
}

// NewStaffingHandler constructs handler.
func NewStaffingHandler(staffingService *service.StaffingService) *StaffingHandler {
	return &StaffingHandler{service: staffingService}
}

// Upsert PUT /stores/:storeID/staffing-policies/:dayType.
func (h *StaffingHandler) Upsert(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	var req dto.UpsertStaffingPolicyRequest
	if err := c.BodyParser(&req); err != nil {
		return apperrors.NewValidationError("invalid payload", nil)
	}

	policy := &domain.StaffingPolicy{
		StoreID:         c.Params("storeID"),
		DayType:         domain.DayType(strings.ToUpper(c.Params("dayType"))),
		LunchHeadcount:  req.LunchHeadcount,
		DinnerHeadcount: req.DinnerHeadcount,
	}
	var err error
	if policy.OpenTime, err = domain.ParseTimeOfDay(req.OpenTime); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if policy.CloseTime, err = domain.ParseTimeOfDay(req.CloseTime); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if policy.BreakStart, err = domain.ParseTimeOfDay(req.BreakStart); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}
	if policy.BreakEnd, err = domain.ParseTimeOfDay(req.BreakEnd); err != nil {
		return apperrors.NewValidationError(err.Error(), nil)
	}

	policy, err = h.service.UpsertPolicy(c.Context(), policy, service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": dto.NewStaffingPolicyResponse(policy)})
}

// List GET /stores/:storeID/staffing-policies.
func (h *StaffingHandler) List(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	policies, err := h.service.ListPolicies(c.Context(), c.Params("storeID"), service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	items := make([]dto.StaffingPolicyResponse, 0, len(policies))
	for i := range policies {
		items = append(items, dto.NewStaffingPolicyResponse(&policies[i]))
	}
	return c.JSON(fiber.Map{"data": items})
}
