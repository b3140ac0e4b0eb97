package specification

import (
	"campus-finance-be/internal/entity"

	"gorm.io/gorm"
)

// TagihanInScope restricts tagihan to a target scope. An empty scope is a no-op.
type TagihanInScope struct {
	Scope entity.Scope
}

func (s TagihanInScope) Apply(db *gorm.DB) *gorm.DB {
	if s.Scope.Prodi != "" {
		db = db.Where("prodi_target = ?", s.Scope.Prodi)
	}
	if s.Scope.Angkatan != "" {
		db = db.Where("angkatan_target = ?", s.Scope.Angkatan)
	}
	return db
}
