// Package authz holds the single declarative policy table consulted by every
// request: resource-action x role x ownership. Handlers and services ask it
// questions instead of branching on roles inline.
package authz

import (
	"fmt"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
)

// Action identifies an operation class on a resource.
type Action string

const (
	BooksRead    Action = "books:read"
	BooksManage  Action = "books:manage"
	LoansRead    Action = "loans:read"
	LoansCreate  Action = "loans:create"
	LoansReturn  Action = "loans:return"
	LoansDelete  Action = "loans:delete"
	FinesRead    Action = "fines:read"
	FinesManage  Action = "fines:manage"
	LedgerRead   Action = "ledger:read"
	LedgerManage Action = "ledger:manage"
	UsersRead    Action = "users:read"
	UsersManage  Action = "users:manage"
)

// rule describes who may perform an action. OwnOnly restricts USER access to
// resources they own; admins are never ownership-scoped.
type rule struct {
	Admin   bool
	User    bool
	OwnOnly bool
}

var policy = map[Action]rule{
	BooksRead:   {Admin: true, User: true},
	BooksManage: {Admin: true},

	// Loan creation is deliberately borrower-only: admins manage the catalog,
	// borrowers check books out for themselves.
	LoansCreate: {User: true, OwnOnly: true},
	LoansRead:   {Admin: true, User: true, OwnOnly: true},
	LoansReturn: {Admin: true, User: true, OwnOnly: true},
	LoansDelete: {Admin: true, User: true, OwnOnly: true},

	FinesRead:   {Admin: true, User: true, OwnOnly: true},
	FinesManage: {Admin: true},

	LedgerRead:   {Admin: true, User: true},
	LedgerManage: {Admin: true},

	UsersRead:   {Admin: true, User: true, OwnOnly: true},
	UsersManage: {Admin: true},
}

// Allows reports whether the role may perform the action at all,
// ignoring ownership.
func Allows(role domain.UserRole, action Action) bool {
	r, ok := policy[action]
	if !ok {
		return false
	}
	switch role {
	case domain.RoleAdmin:
		return r.Admin
	case domain.RoleUser:
		return r.User
	default:
		return false
	}
}

// OwnerScoped reports whether the role's access to the action is restricted
// to resources it owns.
func OwnerScoped(role domain.UserRole, action Action) bool {
	if role == domain.RoleAdmin {
		return false
	}
	r, ok := policy[action]
	return ok && r.OwnOnly
}

// Authorize performs the full check for a single resource: role permission
// plus ownership when the policy scopes the role to its own resources.
func Authorize(role domain.UserRole, action Action, actorID, ownerID string) error {
	if !Allows(role, action) {
		return fmt.Errorf("%w: role %s may not perform %s", apperrors.ErrForbidden, role, action)
	}
	if OwnerScoped(role, action) && actorID != ownerID {
		return fmt.Errorf("%w: not the owner of the resource", apperrors.ErrForbidden)
	}
	return nil
}
