package models

import (
	"time"

	"gorm.io/gorm"
)

type AddressType string

const (
	AddressHome  AddressType = "Home"
	AddressWork  AddressType = "Work"
	AddressOther AddressType = "Other"
)

type Address struct {
	ID        string      `json:"id" gorm:"primaryKey" bson:"_id"`
	UserID    string      `json:"user_id" gorm:"not null;index" bson:"user_id" validate:"required"`
	Type      AddressType `json:"type" gorm:"not null;default:'Home'" bson:"type" validate:"oneof=Home Work Other"`
	Street    string      `json:"street" gorm:"not null" bson:"street" validate:"required"`
	City      string      `json:"city" gorm:"not null" bson:"city" validate:"required"`
	State     string      `json:"state" gorm:"not null" bson:"state" validate:"required"`
	ZipCode   string      `json:"zip_code" gorm:"not null" bson:"zip_code" validate:"required"`
	Country   string      `json:"country" gorm:"not null" bson:"country" validate:"required"`
	IsDefault bool        `json:"is_default" gorm:"default:false" bson:"is_default"`
	CreatedAt time.Time   `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time   `json:"updated_at" bson:"updated_at"`
}

func (a *Address) Prepare() error {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.Type == "" {
		a.Type = AddressHome
	}
	return check(a)
}

func (a *Address) BeforeSave(*gorm.DB) error { return a.Prepare() }
