package models

import (
	"fmt"
	"math"
	"time"

	"food-ordering-api/dberr"

	"gorm.io/gorm"
)

type Restaurant struct {
	ID          string    `json:"id" gorm:"primaryKey" bson:"_id"`
	OwnerID     string    `json:"owner_id" gorm:"not null;uniqueIndex" bson:"owner_id" validate:"required"`
	Name        string    `json:"name" gorm:"not null" bson:"name" validate:"required"`
	Cuisine     string    `json:"cuisine" bson:"cuisine"`
	Address     string    `json:"address" bson:"address"`
	Description string    `json:"description" bson:"description"`
	IsOpen      bool      `json:"is_open" gorm:"default:true" bson:"is_open"`
	CreatedAt   time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt   time.Time `json:"updated_at" bson:"updated_at"`
}

func (r *Restaurant) Prepare() error {
	if r.ID == "" {
		r.ID = newID()
	}
	return check(r)
}

func (r *Restaurant) BeforeSave(*gorm.DB) error { return r.Prepare() }

// MenuItem is a dish on offer. Image holds the name the upload store assigned
// to the picture; it is served under /images/<name>.
type MenuItem struct {
	ID           string    `json:"id" gorm:"primaryKey" bson:"_id"`
	RestaurantID string    `json:"restaurant_id,omitempty" gorm:"index" bson:"restaurant_id,omitempty"`
	Name         string    `json:"name" gorm:"not null" bson:"name" validate:"required"`
	Description  string    `json:"description" bson:"description"`
	Price        float64   `json:"price" gorm:"not null" bson:"price" validate:"gte=0"`
	Image        string    `json:"image" gorm:"not null" bson:"image" validate:"required"`
	Category     string    `json:"category" gorm:"index" bson:"category"`
	IsVeg        bool      `json:"is_veg" gorm:"default:false" bson:"is_veg"`
	IsAvailable  bool      `json:"is_available" gorm:"default:true" bson:"is_available"`
	CreatedAt    time.Time `json:"created_at" bson:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" bson:"updated_at"`
}

// NewMenuItem returns an item with the schema defaults applied.
func NewMenuItem() *MenuItem {
	return &MenuItem{IsAvailable: true}
}

func (m *MenuItem) Prepare() error {
	if m.ID == "" {
		m.ID = newID()
	}
	// gte=0 lets +Inf through, and non-finite prices cannot be encoded as JSON
	if math.IsInf(m.Price, 0) || math.IsNaN(m.Price) {
		return fmt.Errorf("%w: price %v is not a finite number", dberr.ErrValidation, m.Price)
	}
	return check(m)
}

func (m *MenuItem) BeforeSave(*gorm.DB) error { return m.Prepare() }
