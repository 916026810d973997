package models

import (
	"time"

	"gorm.io/gorm"
)

// WishlistItem links a user to a menu item they saved for later.
type WishlistItem struct {
	ID        string    `json:"id" gorm:"primaryKey" bson:"_id"`
	UserID    string    `json:"user_id" gorm:"not null;index" bson:"user_id" validate:"required"`
	ItemID    string    `json:"item_id" gorm:"not null;index" bson:"item_id" validate:"required"`
	CreatedAt time.Time `json:"created_at" bson:"created_at"`
}

func (w *WishlistItem) Prepare() error {
	if w.ID == "" {
		w.ID = newID()
	}
	return check(w)
}

func (w *WishlistItem) BeforeSave(*gorm.DB) error { return w.Prepare() }
