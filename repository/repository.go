// Package repository is the data access layer. Each entity has a store
// interface with a gorm backend and a mongo backend; both are wrapped by the
// reference checks in integrity.go. Every returned error is tagged with a
// dberr sentinel.
package repository

import (
	"context"

	"food-ordering-api/models"
)

//go:generate mockgen -source=repository.go -destination=mocks/mock_repository.go -package=mocks

// MenuFilter narrows menu listings. Zero values mean "any".
type MenuFilter struct {
	RestaurantID  string
	Category      string
	VegOnly       bool
	AvailableOnly bool
}

type Users interface {
	Create(ctx context.Context, u *models.User) error
	Get(ctx context.Context, id string) (*models.User, error)
	GetByEmail(ctx context.Context, email string) (*models.User, error)
}

type Restaurants interface {
	Create(ctx context.Context, r *models.Restaurant) error
	Get(ctx context.Context, id string) (*models.Restaurant, error)
	GetByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error)
	List(ctx context.Context) ([]models.Restaurant, error)
	Update(ctx context.Context, r *models.Restaurant) error
}

type MenuItems interface {
	Create(ctx context.Context, item *models.MenuItem) error
	Get(ctx context.Context, id string) (*models.MenuItem, error)
	List(ctx context.Context, f MenuFilter) ([]models.MenuItem, error)
	Update(ctx context.Context, item *models.MenuItem) error
	Delete(ctx context.Context, id string) error
}

type Carts interface {
	// Create inserts a new cart and fails with dberr.ErrConflict when the
	// user already owns one.
	Create(ctx context.Context, c *models.Cart) error
	GetByUser(ctx context.Context, userID string) (*models.Cart, error)
	// Save writes c if nobody saved the cart since c was read and bumps
	// c.Version. A stale c fails with dberr.ErrConflict and is left unchanged.
	Save(ctx context.Context, c *models.Cart) error
}

type Addresses interface {
	Create(ctx context.Context, a *models.Address) error
	Get(ctx context.Context, id string) (*models.Address, error)
	ListByUser(ctx context.Context, userID string) ([]models.Address, error)
	Update(ctx context.Context, a *models.Address) error
	Delete(ctx context.Context, id string) error
	// SetDefault marks one address as the user's default and clears the flag
	// on all their other addresses.
	SetDefault(ctx context.Context, userID, id string) error
}

type Wishlist interface {
	Add(ctx context.Context, w *models.WishlistItem) error
	Find(ctx context.Context, userID, itemID string) (*models.WishlistItem, error)
	ListByUser(ctx context.Context, userID string) ([]models.WishlistItem, error)
	Remove(ctx context.Context, userID, itemID string) error
}

// Store groups the entity stores of one backend.
type Store struct {
	Users       Users
	Restaurants Restaurants
	MenuItems   MenuItems
	Carts       Carts
	Addresses   Addresses
	Wishlist    Wishlist

	close func(context.Context) error
}

// Close releases the backend connection.
func (s *Store) Close(ctx context.Context) error {
	if s.close == nil {
		return nil
	}
	return s.close(ctx)
}

func newStore(users Users, restaurants Restaurants, items MenuItems, carts Carts,
	addresses Addresses, wishlist Wishlist, closeFn func(context.Context) error) *Store {
	return &Store{
		Users:       users,
		Restaurants: restaurants,
		MenuItems:   checkedMenuItems{MenuItems: items, restaurants: restaurants},
		Carts:       checkedCarts{Carts: carts, users: users, items: items},
		Addresses:   checkedAddresses{Addresses: addresses, users: users},
		Wishlist:    checkedWishlist{Wishlist: wishlist, users: users, items: items},
		close:       closeFn,
	}
}
