package users

import (
	"time"

	"github.com/google/uuid"
)

// Role is a staff account role
type Role string

const (
	RoleAdmin Role = "ADMIN"
	RoleStaff Role = "STAFF"
)

// User is a staff account of the box office (admins and counter staff)
type User struct {
	ID        uuid.UUID `json:"id" gorm:"primaryKey;type:uuid;default:uuid_generate_v4()"`
	FirstName string    `json:"first_name" gorm:"not null"`
	LastName  string    `json:"last_name" gorm:"not null"`
	Password  string    `json:"-" gorm:"not null"` // hide in json
	Role      Role      `json:"role" gorm:"not null;default:'STAFF'"`
	Email     string    `json:"email" gorm:"uniqueIndex;not null"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func IsValidRole(role string) bool {
	switch role {
	case string(RoleAdmin), string(RoleStaff):
		return true
	default:
		return false
	}
}

// TableName sets the table name for User
func (User) TableName() string {
	return "users"
}

// FullName returns the display name used on tickets and logs
func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}
