package handlers

import (
	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/shift-service/internal/auth"
	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/service"
	apperrors "github.com/spec-kit/shift-service/pkg/util/errorutil"
)

// PayrollHandler exposes the payroll roll-ups.
type PayrollHandler struct {
	service *service.PayrollService
}

// NewPayrollHandler constructs handler.
func NewPayrollHandler(payrollService *service.PayrollService) *PayrollHandler {
	return &PayrollHandler{service: payrollService}
}

// Employee GET /payroll/employees/:id?month=YYYY-MM.
// Staff may read their own payroll; managers and admins anyone in
// their scope.
func (h *PayrollHandler) Employee(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	employeeID := c.Params("id")
	if principal.Employee.Role == domain.EmployeeRoleStaff && principal.Employee.ID != employeeID {
		return apperrors.NewForbidden("staff may only read their own payroll")
	}
	month := c.Query("month")
	if month == "" {
		return apperrors.NewValidationError("month query parameter required", nil)
	}

	payroll, err := h.service.ComputeForEmployee(c.Context(), employeeID, month, service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": payroll})
}

// Store GET /payroll/stores/:id?month=YYYY-MM.
func (h *PayrollHandler) Store(c *fiber.Ctx) error {
	principal, ok := auth.PrincipalFromContext(c)
	if !ok {
		return apperrors.NewUnauthorized("authentication required")
	}
	month := c.Query("month")
	if month == "" {
		return apperrors.NewValidationError("month query parameter required", nil)
	}

	payroll, err := h.service.ComputeForStore(c.Context(), c.Params("id"), month, service.ScopeForEmployee(principal.Employee))
	if err != nil {
		return err
	}
	return c.JSON(fiber.Map{"data": payroll})
}
