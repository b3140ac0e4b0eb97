package entity

import (
	"time"

	"github.com/google/uuid"
)

// Session is the verified content of an access token.
type Session struct {
	TokenID   string
	UserId    uuid.UUID
	Role      UserRole
	ExpiresAt time.Time
}
