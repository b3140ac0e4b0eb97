package entity

import (
	"time"

	"github.com/google/uuid"
)

type AuditAction string

const (
	AuditOperatorCreated AuditAction = "OPERATOR_CREATED"
	AuditTagihanCreated  AuditAction = "TAGIHAN_CREATED"
	AuditPasswordChanged AuditAction = "PASSWORD_CHANGED"
)

type AuditLog struct {
	Id        uuid.UUID
	UserId    uuid.UUID
	Action    AuditAction
	Payload   map[string]interface{}
	CreatedAt time.Time
}
