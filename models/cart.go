package models

import (
	"time"

	"gorm.io/gorm"
)

// CartLine is one entry of a cart. Lines keep the order they were added in.
type CartLine struct {
	MenuItemID string `json:"menu_item_id" bson:"menu_item_id" validate:"required"`
	Quantity   int    `json:"quantity" bson:"quantity" validate:"min=1"`
}

// Cart holds a user's pending selection. There is at most one cart per user;
// the store enforces that with a unique index on UserID. Version counts saves
// and lets the store refuse a save made from a stale read.
type Cart struct {
	ID        string     `json:"id" gorm:"primaryKey" bson:"_id"`
	UserID    string     `json:"user_id" gorm:"uniqueIndex;not null" bson:"user_id" validate:"required"`
	Items     []CartLine `json:"items" gorm:"serializer:json;type:text" bson:"items" validate:"dive"`
	Version   int        `json:"version" gorm:"not null;default:0" bson:"version"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

func (c *Cart) Prepare() error {
	if c.ID == "" {
		c.ID = newID()
	}
	if c.Items == nil {
		c.Items = []CartLine{}
	}
	return check(c)
}

func (c *Cart) BeforeSave(*gorm.DB) error { return c.Prepare() }

func (c *Cart) index(menuItemID string) int {
	for i, line := range c.Items {
		if line.MenuItemID == menuItemID {
			return i
		}
	}
	return -1
}

// Add increases the quantity of the line for menuItemID, appending a new
// line when the item is not in the cart yet.
func (c *Cart) Add(menuItemID string, qty int) {
	if qty < 1 {
		qty = 1
	}
	if i := c.index(menuItemID); i >= 0 {
		c.Items[i].Quantity += qty
		return
	}
	c.Items = append(c.Items, CartLine{MenuItemID: menuItemID, Quantity: qty})
}

// Decrement lowers the line quantity by one and drops the line at zero.
// It reports whether the item was in the cart.
func (c *Cart) Decrement(menuItemID string) bool {
	i := c.index(menuItemID)
	if i < 0 {
		return false
	}
	if c.Items[i].Quantity > 1 {
		c.Items[i].Quantity--
		return true
	}
	c.Items = append(c.Items[:i], c.Items[i+1:]...)
	return true
}

// SetQuantity overwrites the line quantity; zero or less removes the line.
func (c *Cart) SetQuantity(menuItemID string, qty int) bool {
	i := c.index(menuItemID)
	if i < 0 {
		return false
	}
	if qty <= 0 {
		c.Items = append(c.Items[:i], c.Items[i+1:]...)
		return true
	}
	c.Items[i].Quantity = qty
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []CartLine{}
}
