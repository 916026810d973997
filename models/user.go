package models

import (
	"time"

	"gorm.io/gorm"
)

// UserRole defines allowed roles in the system
type UserRole string

const (
	RoleCustomer   UserRole = "customer"
	RoleRestaurant UserRole = "restaurant"
	RoleAdmin      UserRole = "admin"
)

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	switch r {
	case RoleCustomer, RoleRestaurant, RoleAdmin:
		return true
	}
	return false
}

type User struct {
	ID           string    `json:"id" gorm:"primaryKey" bson:"_id"`
	Name         string    `json:"name" gorm:"not null" bson:"name" validate:"required"`
	Email        string    `json:"email" gorm:"uniqueIndex;not null" bson:"email" validate:"required,email"`
	PasswordHash string    `json:"-" gorm:"not null" bson:"password_hash" validate:"required"`
	Role         UserRole  `json:"role" gorm:"not null;default:'customer'" bson:"role"`
	Phone        string    `json:"phone" bson:"phone"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// Prepare assigns an id and default role, then validates.
func (u *User) Prepare() error {
	if u.ID == "" {
		u.ID = newID()
	}
	if u.Role == "" {
		u.Role = RoleCustomer
	}
	return check(u)
}

func (u *User) BeforeSave(*gorm.DB) error { return u.Prepare() }
