package service

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/spec-kit/shift-service/internal/domain"
	"github.com/spec-kit/shift-service/internal/repository"
	apperrors "github.com/spec-kit/shift-service/pkg/util/errorutil"
)

// StaffingService manages per-store staffing policy rows. The engine
// only ever reads them; mutation is an administrator surface.
type StaffingService struct {
	policies repository.StaffingPolicyRepository
	stores   repository.StoreRepository
}

// NewStaffingService creates the service.
func NewStaffingService(policies repository.StaffingPolicyRepository, stores repository.StoreRepository) *StaffingService {
	return &StaffingService{policies: policies, stores: stores}
}

// UpsertPolicy writes the staffing target for one store/day-type.
func (s *StaffingService) UpsertPolicy(ctx context.Context, policy *domain.StaffingPolicy, scope StoreScope) (*domain.StaffingPolicy, error) {
	if !scope.Allows(policy.StoreID) {
		return nil, apperrors.NewForbidden("store outside caller scope")
	}
	switch policy.DayType {
	case domain.DayTypeWeekday, domain.DayTypeWeekend, domain.DayTypeHoliday:
	default:
		return nil, apperrors.NewValidationError("unknown day type", map[string]any{"day_type": policy.DayType})
	}
	if !policy.OpenTime.Before(policy.CloseTime) {
		return nil, apperrors.NewValidationError("open time must be before close time", nil)
	}
	if policy.LunchHeadcount < 0 || policy.DinnerHeadcount < 0 {
		return nil, apperrors.NewValidationError("headcount must not be negative", nil)
	}
	if _, err := s.stores.GetByID(ctx, policy.StoreID); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("store", map[string]any{"store_id": policy.StoreID})
		}
		return nil, apperrors.MapError(err)
	}
	if err := s.policies.Upsert(ctx, policy); err != nil {
		return nil, apperrors.MapError(err)
	}
	return policy, nil
}

// ListPolicies lists a store's staffing rows.
func (s *StaffingService) ListPolicies(ctx context.Context, storeID string, scope StoreScope) ([]domain.StaffingPolicy, error) {
	if !scope.Allows(storeID) {
		return nil, apperrors.NewForbidden("store outside caller scope")
	}
	policies, err := s.policies.ListByStore(ctx, storeID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return policies, nil
}
