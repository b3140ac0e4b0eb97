package model

import (
	"time"

	"github.com/google/uuid"
)

type Tagihan struct {
	Id                  uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	Title               string    `gorm:"type:varchar(200);not null"`
	Description         string    `gorm:"type:text"`
	Jenis               string    `gorm:"type:varchar(50);not null"`
	ProdiTarget         string    `gorm:"type:varchar(20);not null;index:idx_tagihan_scope"`
	AngkatanTarget      string    `gorm:"type:varchar(10);not null;index:idx_tagihan_scope"`
	Nominal             int64     `gorm:"not null"`
	Deadline            time.Time `gorm:"not null"`
	IsActive            bool      `gorm:"not null;default:true"`
	CreatedByOperatorId uuid.UUID `gorm:"type:uuid;not null;index"`
	CreatedBy           *User     `gorm:"foreignKey:CreatedByOperatorId"`
	CreatedAt           time.Time `gorm:"autoCreateTime;index"`
}

func (Tagihan) TableName() string {
	return "tagihan"
}

type Pembayaran struct {
	Id        uuid.UUID `gorm:"type:uuid;primaryKey;default:gen_random_uuid()"`
	TagihanId uuid.UUID `gorm:"type:uuid;not null;index"`
	UserId    uuid.UUID `gorm:"type:uuid;not null;index:idx_pembayaran_user_status"`
	Amount    int64     `gorm:"not null;default:0"`
	Status    string    `gorm:"type:varchar(20);not null;index:idx_pembayaran_user_status"`
	CreatedAt time.Time `gorm:"autoCreateTime;index"`
}

func (Pembayaran) TableName() string {
	return "pembayaran"
}
