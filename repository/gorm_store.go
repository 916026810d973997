package repository

import (
	"context"

	"food-ordering-api/dberr"
	"food-ordering-api/models"

	"gorm.io/gorm"
)

// NewGormStore builds a Store on a migrated gorm connection.
func NewGormStore(db *gorm.DB) *Store {
	closeFn := func(context.Context) error {
		sqlDB, err := db.DB()
		if err != nil {
			return err
		}
		return sqlDB.Close()
	}
	return newStore(
		gormUsers{db},
		gormRestaurants{db},
		gormMenuItems{db},
		gormCarts{db},
		gormAddresses{db},
		gormWishlist{db},
		closeFn,
	)
}

// first loads one row matching query into dest.
func first(ctx context.Context, db *gorm.DB, dest any, query string, args ...any) error {
	return dberr.Wrap(db.WithContext(ctx).Where(query, args...).First(dest).Error)
}

// deleteWhere removes matching rows and reports ErrNotFound when none matched.
func deleteWhere(ctx context.Context, db *gorm.DB, model any, query string, args ...any) error {
	res := db.WithContext(ctx).Where(query, args...).Delete(model)
	if res.Error != nil {
		return dberr.Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// mustExist fails with ErrNotFound when no row of model has the given id.
func mustExist(ctx context.Context, db *gorm.DB, model any, id string) error {
	var n int64
	if err := db.WithContext(ctx).Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return dberr.Wrap(err)
	}
	if n == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// ── Users ───────────────────────────────────────────────────────────────────

type gormUsers struct{ db *gorm.DB }

func (s gormUsers) Create(ctx context.Context, u *models.User) error {
	return dberr.Wrap(s.db.WithContext(ctx).Create(u).Error)
}

func (s gormUsers) Get(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := first(ctx, s.db, &u, "id = ?", id); err != nil {
		return nil, err
	}
	return &u, nil
}

func (s gormUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	var u models.User
	if err := first(ctx, s.db, &u, "email = ?", email); err != nil {
		return nil, err
	}
	return &u, nil
}

// ── Restaurants ─────────────────────────────────────────────────────────────

type gormRestaurants struct{ db *gorm.DB }

func (s gormRestaurants) Create(ctx context.Context, r *models.Restaurant) error {
	return dberr.Wrap(s.db.WithContext(ctx).Create(r).Error)
}

func (s gormRestaurants) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := first(ctx, s.db, &r, "id = ?", id); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s gormRestaurants) GetByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	var r models.Restaurant
	if err := first(ctx, s.db, &r, "owner_id = ?", ownerID); err != nil {
		return nil, err
	}
	return &r, nil
}

func (s gormRestaurants) Update(ctx context.Context, r *models.Restaurant) error {
	if err := mustExist(ctx, s.db, &models.Restaurant{}, r.ID); err != nil {
		return err
	}
	return dberr.Wrap(s.db.WithContext(ctx).Save(r).Error)
}

func (s gormRestaurants) List(ctx context.Context) ([]models.Restaurant, error) {
	var out []models.Restaurant
	err := s.db.WithContext(ctx).Order("created_at asc").Find(&out).Error
	return out, dberr.Wrap(err)
}

// ── Menu items ──────────────────────────────────────────────────────────────

type gormMenuItems struct{ db *gorm.DB }

func (s gormMenuItems) Create(ctx context.Context, item *models.MenuItem) error {
	return dberr.Wrap(s.db.WithContext(ctx).Create(item).Error)
}

func (s gormMenuItems) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	var item models.MenuItem
	if err := first(ctx, s.db, &item, "id = ?", id); err != nil {
		return nil, err
	}
	return &item, nil
}

func (s gormMenuItems) List(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	query := s.db.WithContext(ctx)
	if f.RestaurantID != "" {
		query = query.Where("restaurant_id = ?", f.RestaurantID)
	}
	if f.Category != "" {
		query = query.Where("category = ?", f.Category)
	}
	if f.VegOnly {
		query = query.Where("is_veg = ?", true)
	}
	if f.AvailableOnly {
		query = query.Where("is_available = ?", true)
	}

	var items []models.MenuItem
	err := query.Order("created_at asc").Find(&items).Error
	return items, dberr.Wrap(err)
}

func (s gormMenuItems) Update(ctx context.Context, item *models.MenuItem) error {
	if err := mustExist(ctx, s.db, &models.MenuItem{}, item.ID); err != nil {
		return err
	}
	return dberr.Wrap(s.db.WithContext(ctx).Save(item).Error)
}

func (s gormMenuItems) Delete(ctx context.Context, id string) error {
	return deleteWhere(ctx, s.db, &models.MenuItem{}, "id = ?", id)
}

// ── Carts ───────────────────────────────────────────────────────────────────

type gormCarts struct{ db *gorm.DB }

func (s gormCarts) Create(ctx context.Context, c *models.Cart) error {
	return dberr.Wrap(s.db.WithContext(ctx).Create(c).Error)
}

func (s gormCarts) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	var c models.Cart
	if err := first(ctx, s.db, &c, "user_id = ?", userID); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s gormCarts) Save(ctx context.Context, c *models.Cart) error {
	read := c.Version
	c.Version = read + 1
	res := s.db.WithContext(ctx).
		Model(c).
		Where("version = ?", read).
		Select("*").Omit("created_at").
		Updates(c)
	if res.Error != nil {
		c.Version = read
		return dberr.Wrap(res.Error)
	}
	if res.RowsAffected == 0 {
		c.Version = read
		if err := mustExist(ctx, s.db, &models.Cart{}, c.ID); err != nil {
			return err
		}
		return staleCart(c.ID)
	}
	return nil
}

// ── Addresses ───────────────────────────────────────────────────────────────

type gormAddresses struct{ db *gorm.DB }

// clearDefaults unsets is_default on every address of the user except keepID.
func clearDefaults(tx *gorm.DB, userID, keepID string) error {
	return tx.Session(&gorm.Session{SkipHooks: true}).
		Model(&models.Address{}).
		Where("user_id = ? AND id <> ?", userID, keepID).
		Update("is_default", false).Error
}

func (s gormAddresses) Create(ctx context.Context, a *models.Address) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(a).Error; err != nil {
			return err
		}
		if a.IsDefault {
			return clearDefaults(tx, a.UserID, a.ID)
		}
		return nil
	})
	return dberr.Wrap(err)
}

func (s gormAddresses) Get(ctx context.Context, id string) (*models.Address, error) {
	var a models.Address
	if err := first(ctx, s.db, &a, "id = ?", id); err != nil {
		return nil, err
	}
	return &a, nil
}

func (s gormAddresses) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	var out []models.Address
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("is_default desc, created_at asc").
		Find(&out).Error
	return out, dberr.Wrap(err)
}

func (s gormAddresses) Update(ctx context.Context, a *models.Address) error {
	if err := mustExist(ctx, s.db, &models.Address{}, a.ID); err != nil {
		return err
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(a).Error; err != nil {
			return err
		}
		if a.IsDefault {
			return clearDefaults(tx, a.UserID, a.ID)
		}
		return nil
	})
	return dberr.Wrap(err)
}

func (s gormAddresses) Delete(ctx context.Context, id string) error {
	return deleteWhere(ctx, s.db, &models.Address{}, "id = ?", id)
}

func (s gormAddresses) SetDefault(ctx context.Context, userID, id string) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Session(&gorm.Session{SkipHooks: true}).
			Model(&models.Address{}).
			Where("id = ? AND user_id = ?", id, userID).
			Update("is_default", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return dberr.ErrNotFound
		}
		return clearDefaults(tx, userID, id)
	})
	return dberr.Wrap(err)
}

// ── Wishlist ────────────────────────────────────────────────────────────────

type gormWishlist struct{ db *gorm.DB }

func (s gormWishlist) Add(ctx context.Context, w *models.WishlistItem) error {
	existing, err := s.Find(ctx, w.UserID, w.ItemID)
	if err == nil {
		*w = *existing
		return nil
	}
	return dberr.Wrap(s.db.WithContext(ctx).Create(w).Error)
}

func (s gormWishlist) Find(ctx context.Context, userID, itemID string) (*models.WishlistItem, error) {
	var w models.WishlistItem
	if err := first(ctx, s.db, &w, "user_id = ? AND item_id = ?", userID, itemID); err != nil {
		return nil, err
	}
	return &w, nil
}

func (s gormWishlist) ListByUser(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	var out []models.WishlistItem
	err := s.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc").Find(&out).Error
	return out, dberr.Wrap(err)
}

func (s gormWishlist) Remove(ctx context.Context, userID, itemID string) error {
	return deleteWhere(ctx, s.db, &models.WishlistItem{}, "user_id = ? AND item_id = ?", userID, itemID)
}
