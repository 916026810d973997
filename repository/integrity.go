package repository

import (
	"context"
	"errors"
	"fmt"

	"food-ordering-api/dberr"
	"food-ordering-api/models"
)

// exists turns a not-found lookup into a reference error and passes any
// other failure through.
func exists(entity, id string, err error) error {
	if err == nil {
		return nil
	}
	if errors.Is(err, dberr.ErrNotFound) {
		return dberr.Reference(entity, id)
	}
	return err
}

// staleCart is the error for a cart save made from an outdated read.
func staleCart(id string) error {
	return fmt.Errorf("%w: cart %s was saved by another request", dberr.ErrConflict, id)
}

type checkedMenuItems struct {
	MenuItems
	restaurants Restaurants
}

func (s checkedMenuItems) checkRefs(ctx context.Context, item *models.MenuItem) error {
	if item.RestaurantID == "" {
		return nil
	}
	_, err := s.restaurants.Get(ctx, item.RestaurantID)
	return exists("restaurant", item.RestaurantID, err)
}

func (s checkedMenuItems) Create(ctx context.Context, item *models.MenuItem) error {
	if err := s.checkRefs(ctx, item); err != nil {
		return err
	}
	return s.MenuItems.Create(ctx, item)
}

func (s checkedMenuItems) Update(ctx context.Context, item *models.MenuItem) error {
	if err := s.checkRefs(ctx, item); err != nil {
		return err
	}
	return s.MenuItems.Update(ctx, item)
}

type checkedCarts struct {
	Carts
	users Users
	items MenuItems
}

func (s checkedCarts) checkRefs(ctx context.Context, c *models.Cart) error {
	if _, err := s.users.Get(ctx, c.UserID); err != nil {
		return exists("user", c.UserID, err)
	}
	for _, line := range c.Items {
		if _, err := s.items.Get(ctx, line.MenuItemID); err != nil {
			return exists("menu item", line.MenuItemID, err)
		}
	}
	return nil
}

func (s checkedCarts) Create(ctx context.Context, c *models.Cart) error {
	if err := s.checkRefs(ctx, c); err != nil {
		return err
	}
	return s.Carts.Create(ctx, c)
}

func (s checkedCarts) Save(ctx context.Context, c *models.Cart) error {
	if err := s.checkRefs(ctx, c); err != nil {
		return err
	}
	return s.Carts.Save(ctx, c)
}

type checkedAddresses struct {
	Addresses
	users Users
}

func (s checkedAddresses) Create(ctx context.Context, a *models.Address) error {
	if _, err := s.users.Get(ctx, a.UserID); err != nil {
		return exists("user", a.UserID, err)
	}
	return s.Addresses.Create(ctx, a)
}

type checkedWishlist struct {
	Wishlist
	users Users
	items MenuItems
}

func (s checkedWishlist) Add(ctx context.Context, w *models.WishlistItem) error {
	if _, err := s.users.Get(ctx, w.UserID); err != nil {
		return exists("user", w.UserID, err)
	}
	if _, err := s.items.Get(ctx, w.ItemID); err != nil {
		return exists("menu item", w.ItemID, err)
	}
	return s.Wishlist.Add(ctx, w)
}

// CartForUser returns the user's cart, creating it on first use. When two
// requests race to create it, the loser of the unique index re-reads the
// winner's cart.
func CartForUser(ctx context.Context, carts Carts, userID string) (*models.Cart, error) {
	c, err := carts.GetByUser(ctx, userID)
	if err == nil {
		return c, nil
	}
	if !errors.Is(err, dberr.ErrNotFound) {
		return nil, err
	}

	c = &models.Cart{UserID: userID}
	err = carts.Create(ctx, c)
	if errors.Is(err, dberr.ErrConflict) {
		return carts.GetByUser(ctx, userID)
	}
	if err != nil {
		return nil, err
	}
	return c, nil
}
