package authz_test

import (
	"errors"
	"testing"

	"github.com/ricerca-labs/biblioteca_backend/internal/apperrors"
	"github.com/ricerca-labs/biblioteca_backend/internal/authz"
	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/stretchr/testify/assert"
)

func TestAllows(t *testing.T) {
	testCases := []struct {
		name   string
		role   domain.UserRole
		action authz.Action
		want   bool
	}{
		{"admin manages books", domain.RoleAdmin, authz.BooksManage, true},
		{"user cannot manage books", domain.RoleUser, authz.BooksManage, false},
		{"user reads books", domain.RoleUser, authz.BooksRead, true},
		{"admin cannot create loans", domain.RoleAdmin, authz.LoansCreate, false},
		{"user creates loans", domain.RoleUser, authz.LoansCreate, true},
		{"user cannot manage fines", domain.RoleUser, authz.FinesManage, false},
		{"user reads ledger", domain.RoleUser, authz.LedgerRead, true},
		{"user cannot manage ledger", domain.RoleUser, authz.LedgerManage, false},
		{"user cannot manage users", domain.RoleUser, authz.UsersManage, false},
		{"unknown role denied", domain.UserRole("GUEST"), authz.BooksRead, false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, authz.Allows(tc.role, tc.action))
		})
	}
}

func TestOwnerScoped(t *testing.T) {
	assert.True(t, authz.OwnerScoped(domain.RoleUser, authz.LoansRead))
	assert.False(t, authz.OwnerScoped(domain.RoleAdmin, authz.LoansRead), "admins are never ownership-scoped")
	assert.False(t, authz.OwnerScoped(domain.RoleUser, authz.BooksRead))
}

func TestAuthorize(t *testing.T) {
	t.Run("owner may return own loan", func(t *testing.T) {
		err := authz.Authorize(domain.RoleUser, authz.LoansReturn, "u1", "u1")
		assert.NoError(t, err)
	})

	t.Run("non-owner is forbidden", func(t *testing.T) {
		err := authz.Authorize(domain.RoleUser, authz.LoansReturn, "u1", "u2")
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})

	t.Run("admin bypasses ownership", func(t *testing.T) {
		err := authz.Authorize(domain.RoleAdmin, authz.LoansReturn, "admin", "u2")
		assert.NoError(t, err)
	})

	t.Run("role without permission is forbidden regardless of ownership", func(t *testing.T) {
		err := authz.Authorize(domain.RoleUser, authz.FinesManage, "u1", "u1")
		assert.True(t, errors.Is(err, apperrors.ErrForbidden))
	})
}
