package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type User struct {
	Id                 uuid.UUID      `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Identifier         string         `gorm:"type:varchar(50);uniqueIndex:ux_users_identifier;not null"`
	Name               string         `gorm:"type:varchar(255);not null;index"`
	Role               string         `gorm:"type:varchar(20);not null;default:'USER';index"`
	Prodi              *string        `gorm:"type:varchar(20);index:idx_users_scope"`
	Angkatan           *string        `gorm:"type:varchar(10);index:idx_users_scope"`
	PasswordHash       string         `gorm:"type:varchar(255);not null"`
	IsActive           bool           `gorm:"not null;default:true"`
	MustChangePassword bool           `gorm:"not null;default:false"`
	Balance            *Balance       `gorm:"foreignKey:UserId"`
	CreatedAt          time.Time      `gorm:"autoCreateTime"`
	UpdatedAt          time.Time      `gorm:"autoUpdateTime"`
	DeletedAt          gorm.DeletedAt `gorm:"index"`
}

func (User) TableName() string {
	return "users"
}

type Balance struct {
	UserId    uuid.UUID `gorm:"type:uuid;primaryKey"`
	Amount    int64     `gorm:"not null;default:0"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

func (Balance) TableName() string {
	return "balances"
}

// OperatorScopeIndexName is the partial unique index that enforces one active
// operator per (prodi, angkatan).
const OperatorScopeIndexName = "ux_users_operator_scope"

// IdentifierIndexName is the unique index on users.identifier.
const IdentifierIndexName = "ux_users_identifier"
