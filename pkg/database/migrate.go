package database

import (
	"fmt"

	"campus-finance-be/internal/model"

	"gorm.io/gorm"
)

// Models lists every table owned by the service.
func Models() []interface{} {
	return []interface{}{
		&model.User{},
		&model.Balance{},
		&model.Tagihan{},
		&model.Pembayaran{},
		&model.AuditLog{},
	}
}

var setupSQL = []string{
	`CREATE EXTENSION IF NOT EXISTS pgcrypto;`,
}

// postMigrationSQL holds what AutoMigrate cannot express. The partial index
// keeps one active operator per (prodi, angkatan); soft-deleted or deactivated
// operators free the scope.
var postMigrationSQL = []string{
	fmt.Sprintf(`CREATE UNIQUE INDEX IF NOT EXISTS %s ON users (prodi, angkatan)
		WHERE role = 'OPERATOR' AND deleted_at IS NULL AND is_active;`, model.OperatorScopeIndexName),
}

// Migrate is idempotent and safe to run on every start.
func Migrate(db *gorm.DB) error {
	for _, sql := range setupSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("setup sql: %w", err)
		}
	}

	if err := db.AutoMigrate(Models()...); err != nil {
		return fmt.Errorf("auto migrate: %w", err)
	}

	for _, sql := range postMigrationSQL {
		if err := db.Exec(sql).Error; err != nil {
			return fmt.Errorf("post migration sql: %w", err)
		}
	}
	return nil
}
