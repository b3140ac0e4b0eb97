package specification

import (
	"campus-finance-be/internal/entity"

	"gorm.io/gorm"
)

type ByIdentifier struct {
	Identifier string
}

func (s ByIdentifier) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("identifier = ?", s.Identifier)
}

type ByRole struct {
	Role entity.UserRole
}

func (s ByRole) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("role = ?", string(s.Role))
}

type ActiveUsers struct{}

func (s ActiveUsers) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("is_active = ?", true)
}

// UserInScope restricts users to a (prodi, angkatan) pair. An empty scope is a no-op.
type UserInScope struct {
	Scope entity.Scope
}

func (s UserInScope) Apply(db *gorm.DB) *gorm.DB {
	if s.Scope.Prodi != "" {
		db = db.Where("prodi = ?", s.Scope.Prodi)
	}
	if s.Scope.Angkatan != "" {
		db = db.Where("angkatan = ?", s.Scope.Angkatan)
	}
	return db
}

// HasScope keeps users with both prodi and angkatan set.
type HasScope struct{}

func (s HasScope) Apply(db *gorm.DB) *gorm.DB {
	return db.Where("prodi IS NOT NULL AND angkatan IS NOT NULL")
}
