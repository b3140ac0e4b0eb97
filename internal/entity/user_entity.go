package entity

import (
	"strings"
	"time"

	"github.com/google/uuid"
)

type UserRole string

const (
	UserRoleAdmin    UserRole = "ADMIN"
	UserRoleOperator UserRole = "OPERATOR"
	UserRoleUser     UserRole = "USER"
)

type User struct {
	Id                 uuid.UUID
	Identifier         string
	Name               string
	Role               UserRole
	Prodi              *string
	Angkatan           *string
	PasswordHash       string
	IsActive           bool
	MustChangePassword bool
	CreatedAt          time.Time
	UpdatedAt          time.Time
	DeletedAt          *time.Time
}

// Scope returns the (prodi, angkatan) pair stored on the user, empty parts
// included.
func (u *User) Scope() Scope {
	s := Scope{}
	if u.Prodi != nil {
		s.Prodi = strings.TrimSpace(*u.Prodi)
	}
	if u.Angkatan != nil {
		s.Angkatan = strings.TrimSpace(*u.Angkatan)
	}
	return s
}

// Usable is false for soft-deleted or deactivated accounts.
func (u *User) Usable() bool {
	return u.IsActive && u.DeletedAt == nil
}

// Scope is the (prodi, angkatan) tenant boundary. The zero value means "all".
type Scope struct {
	Prodi    string `json:"prodi"`
	Angkatan string `json:"angkatan"`
}

func (s Scope) IsAll() bool {
	return s.Prodi == "" && s.Angkatan == ""
}

func (s Scope) Complete() bool {
	return s.Prodi != "" && s.Angkatan != ""
}

// StudentSummary is one roster row: a USER with its current balance.
type StudentSummary struct {
	User    *User
	Balance int64
}
