package mapping

import (
	"database/sql"

	"github.com/ricerca-labs/biblioteca_backend/internal/core/domain"
	"github.com/ricerca-labs/biblioteca_backend/internal/models"
)

// ToModelUser converts a domain User to a model User
func ToModelUser(d domain.User) models.User {
	m := models.User{
		UserID:      d.UserID,
		Email:       d.Email,
		Name:        d.Name,
		Role:        string(d.Role),
		AuditFields: ToModelAuditFields(d.AuditFields),
		DeletedAt:   d.DeletedAt,
	}
	m.AvatarURL = toNullString(d.AvatarURL)
	m.PasswordHash = toNullString(d.PasswordHash)
	m.AuthProvider = toNullString(d.AuthProvider)
	m.ProviderUserID = toNullString(d.ProviderUserID)
	m.RefreshTokenHash = toNullString(d.RefreshTokenHash)
	if d.RefreshTokenExpiryTime != nil {
		m.RefreshTokenExpiryTime = sql.NullTime{Time: *d.RefreshTokenExpiryTime, Valid: true}
	}
	return m
}

// ToDomainUser converts a model User to a domain User
func ToDomainUser(m models.User) domain.User {
	d := domain.User{
		UserID:         m.UserID,
		Email:          m.Email,
		Name:           m.Name,
		Role:           domain.UserRole(m.Role),
		AvatarURL:      m.AvatarURL.String,
		PasswordHash:   m.PasswordHash.String,
		AuthProvider:   m.AuthProvider.String,
		ProviderUserID: m.ProviderUserID.String,
		AuditFields:    ToDomainAuditFields(m.AuditFields),
		DeletedAt:      m.DeletedAt,
	}
	d.RefreshTokenHash = m.RefreshTokenHash.String
	if m.RefreshTokenExpiryTime.Valid {
		t := m.RefreshTokenExpiryTime.Time
		d.RefreshTokenExpiryTime = &t
	}
	return d
}

// ToDomainUserSlice converts a slice of model Users to a slice of domain Users
func ToDomainUserSlice(ms []models.User) []domain.User {
	ds := make([]domain.User, len(ms))
	for i, m := range ms {
		ds[i] = ToDomainUser(m)
	}
	return ds
}

func toNullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}
