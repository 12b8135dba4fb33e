package users

import (
	"time"

	"github.com/google/uuid"
)

type Role string

const (
	RoleStudent           Role = "STUDENT"
	RoleOrganizer         Role = "ORGANIZER"
	RoleAuditoriumManager Role = "AUDITORIUM_MANAGER"
	RoleAdmin             Role = "ADMIN"
)

type User struct {
	ID         uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName  string    `json:"first_name" gorm:"not null"`
	LastName   string    `json:"last_name" gorm:"not null"`
	Password   string    `json:"-" gorm:"not null"` // hide in json
	Role       Role      `json:"role" gorm:"not null;default:'STUDENT'"`
	Department string    `json:"department" gorm:"size:100"`
	Email      string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleStudent), string(RoleOrganizer), string(RoleAuditoriumManager), string(RoleAdmin):
		return true
	default:
		return false
	}
}

// IsPrivileged reports whether the role may act on other users' resources
func (r Role) IsPrivileged() bool {
	return r == RoleAdmin
}

// CanReviewBookings reports whether the role sits on the approval side of
// auditorium requests
func (r Role) CanReviewBookings() bool {
	return r == RoleOrganizer || r == RoleAuditoriumManager || r == RoleAdmin
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
