package service

import "github.com/spec-kit/shift-service/internal/domain"

// StoreScope is the set of stores a caller may act on. It is derived
// from the caller's token by the transport layer and passed explicitly
// into every scoped operation; services never read ambient session
// state.
type StoreScope struct {
	All      bool
	StoreIDs []string
}

// ScopeForEmployee derives the scope implied by an employee's role:
// admins act on every store, everyone else on their home store.
func ScopeForEmployee(employee *domain.Employee) StoreScope {
	if employee.Role == domain.EmployeeRoleAdmin {
		return StoreScope{All: true}
	}
	return StoreScope{StoreIDs: []string{employee.StoreID}}
}

// Allows reports whether storeID falls inside the scope.
func (s StoreScope) Allows(storeID string) bool {
	if s.All {
		return true
	}
	for _, id := range s.StoreIDs {
		if id == storeID {
			return true
		}
	}
	return false
}
