package repository

import (
	"context"
	"time"

	"food-ordering-api/dberr"
	"food-ordering-api/models"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

const (
	usersCollection       = "users"
	restaurantsCollection = "restaurants"
	menuItemsCollection   = "menu_items"
	cartsCollection       = "carts"
	addressesCollection   = "addresses"
	wishlistCollection    = "wishlist_items"
)

// NewMongoStore builds a Store on a mongo database and makes sure the
// indexes it relies on exist, including the unique index on carts.user_id.
func NewMongoStore(ctx context.Context, client *mongo.Client, database string) (*Store, error) {
	db := client.Database(database)
	if err := ensureIndexes(ctx, db); err != nil {
		return nil, dberr.Wrap(err)
	}
	return newStore(
		mongoUsers{db.Collection(usersCollection)},
		mongoRestaurants{db.Collection(restaurantsCollection)},
		mongoMenuItems{db.Collection(menuItemsCollection)},
		mongoCarts{db.Collection(cartsCollection)},
		mongoAddresses{db.Collection(addressesCollection)},
		mongoWishlist{db.Collection(wishlistCollection)},
		client.Disconnect,
	), nil
}

func ensureIndexes(ctx context.Context, db *mongo.Database) error {
	indexes := map[string][]mongo.IndexModel{
		usersCollection: {{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		restaurantsCollection: {{
			Keys:    bson.D{{Key: "owner_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		menuItemsCollection: {
			{Keys: bson.D{{Key: "restaurant_id", Value: 1}}},
			{Keys: bson.D{{Key: "category", Value: 1}}},
		},
		cartsCollection: {{
			Keys:    bson.D{{Key: "user_id", Value: 1}},
			Options: options.Index().SetUnique(true),
		}},
		addressesCollection: {{Keys: bson.D{{Key: "user_id", Value: 1}}}},
		wishlistCollection:  {{Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "item_id", Value: 1}}}},
	}
	for name, idx := range indexes {
		if _, err := db.Collection(name).Indexes().CreateMany(ctx, idx); err != nil {
			return err
		}
	}
	return nil
}

var byCreated = options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}})

func findOne[T any](ctx context.Context, coll *mongo.Collection, filter bson.M) (*T, error) {
	var out T
	if err := coll.FindOne(ctx, filter).Decode(&out); err != nil {
		return nil, dberr.Wrap(err)
	}
	return &out, nil
}

func findAll[T any](ctx context.Context, coll *mongo.Collection, filter bson.M, opts ...*options.FindOptions) ([]T, error) {
	cur, err := coll.Find(ctx, filter, opts...)
	if err != nil {
		return nil, dberr.Wrap(err)
	}
	out := []T{}
	if err := cur.All(ctx, &out); err != nil {
		return nil, dberr.Wrap(err)
	}
	return out, nil
}

func insert(ctx context.Context, coll *mongo.Collection, doc any) error {
	_, err := coll.InsertOne(ctx, doc)
	return dberr.Wrap(err)
}

func replace(ctx context.Context, coll *mongo.Collection, id string, doc any) error {
	res, err := coll.ReplaceOne(ctx, bson.M{"_id": id}, doc)
	if err != nil {
		return dberr.Wrap(err)
	}
	if res.MatchedCount == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

func remove(ctx context.Context, coll *mongo.Collection, filter bson.M) error {
	res, err := coll.DeleteOne(ctx, filter)
	if err != nil {
		return dberr.Wrap(err)
	}
	if res.DeletedCount == 0 {
		return dberr.ErrNotFound
	}
	return nil
}

// ── Users ───────────────────────────────────────────────────────────────────

type mongoUsers struct{ coll *mongo.Collection }

func (s mongoUsers) Create(ctx context.Context, u *models.User) error {
	if err := u.Prepare(); err != nil {
		return err
	}
	u.CreatedAt = time.Now()
	u.UpdatedAt = u.CreatedAt
	return insert(ctx, s.coll, u)
}

func (s mongoUsers) Get(ctx context.Context, id string) (*models.User, error) {
	return findOne[models.User](ctx, s.coll, bson.M{"_id": id})
}

func (s mongoUsers) GetByEmail(ctx context.Context, email string) (*models.User, error) {
	return findOne[models.User](ctx, s.coll, bson.M{"email": email})
}

// ── Restaurants ─────────────────────────────────────────────────────────────

type mongoRestaurants struct{ coll *mongo.Collection }

func (s mongoRestaurants) Create(ctx context.Context, r *models.Restaurant) error {
	if err := r.Prepare(); err != nil {
		return err
	}
	r.CreatedAt = time.Now()
	r.UpdatedAt = r.CreatedAt
	return insert(ctx, s.coll, r)
}

func (s mongoRestaurants) Get(ctx context.Context, id string) (*models.Restaurant, error) {
	return findOne[models.Restaurant](ctx, s.coll, bson.M{"_id": id})
}

func (s mongoRestaurants) GetByOwner(ctx context.Context, ownerID string) (*models.Restaurant, error) {
	return findOne[models.Restaurant](ctx, s.coll, bson.M{"owner_id": ownerID})
}

func (s mongoRestaurants) Update(ctx context.Context, r *models.Restaurant) error {
	if err := r.Prepare(); err != nil {
		return err
	}
	r.UpdatedAt = time.Now()
	return replace(ctx, s.coll, r.ID, r)
}

func (s mongoRestaurants) List(ctx context.Context) ([]models.Restaurant, error) {
	return findAll[models.Restaurant](ctx, s.coll, bson.M{}, byCreated)
}

// ── Menu items ──────────────────────────────────────────────────────────────

type mongoMenuItems struct{ coll *mongo.Collection }

func (s mongoMenuItems) Create(ctx context.Context, item *models.MenuItem) error {
	if err := item.Prepare(); err != nil {
		return err
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	return insert(ctx, s.coll, item)
}

func (s mongoMenuItems) Get(ctx context.Context, id string) (*models.MenuItem, error) {
	return findOne[models.MenuItem](ctx, s.coll, bson.M{"_id": id})
}

func (s mongoMenuItems) List(ctx context.Context, f MenuFilter) ([]models.MenuItem, error) {
	filter := bson.M{}
	if f.RestaurantID != "" {
		filter["restaurant_id"] = f.RestaurantID
	}
	if f.Category != "" {
		filter["category"] = f.Category
	}
	if f.VegOnly {
		filter["is_veg"] = true
	}
	if f.AvailableOnly {
		filter["is_available"] = true
	}
	return findAll[models.MenuItem](ctx, s.coll, filter, byCreated)
}

func (s mongoMenuItems) Update(ctx context.Context, item *models.MenuItem) error {
	if err := item.Prepare(); err != nil {
		return err
	}
	item.UpdatedAt = time.Now()
	return replace(ctx, s.coll, item.ID, item)
}

func (s mongoMenuItems) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.coll, bson.M{"_id": id})
}

// ── Carts ───────────────────────────────────────────────────────────────────

type mongoCarts struct{ coll *mongo.Collection }

func (s mongoCarts) Create(ctx context.Context, c *models.Cart) error {
	if err := c.Prepare(); err != nil {
		return err
	}
	c.CreatedAt = time.Now()
	c.UpdatedAt = c.CreatedAt
	return insert(ctx, s.coll, c)
}

func (s mongoCarts) GetByUser(ctx context.Context, userID string) (*models.Cart, error) {
	return findOne[models.Cart](ctx, s.coll, bson.M{"user_id": userID})
}

func (s mongoCarts) Save(ctx context.Context, c *models.Cart) error {
	if err := c.Prepare(); err != nil {
		return err
	}
	read, updated := c.Version, c.UpdatedAt
	filter := bson.M{"_id": c.ID, "version": read}
	if read == 0 {
		// carts written before versioning have no version field
		filter["version"] = bson.M{"$in": bson.A{0, nil}}
	}
	c.Version = read + 1
	c.UpdatedAt = time.Now()

	res, err := s.coll.ReplaceOne(ctx, filter, c)
	if err == nil && res.MatchedCount == 1 {
		return nil
	}
	c.Version, c.UpdatedAt = read, updated
	if err != nil {
		return dberr.Wrap(err)
	}
	n, err := s.coll.CountDocuments(ctx, bson.M{"_id": c.ID})
	if err != nil {
		return dberr.Wrap(err)
	}
	if n == 0 {
		return dberr.ErrNotFound
	}
	return staleCart(c.ID)
}

// ── Addresses ───────────────────────────────────────────────────────────────

// Without a replica set mongo has no multi-document transactions, so the
// default flag is cleared with a second write after the first succeeds.
type mongoAddresses struct{ coll *mongo.Collection }

func (s mongoAddresses) clearDefaults(ctx context.Context, userID, keepID string) error {
	_, err := s.coll.UpdateMany(ctx,
		bson.M{"user_id": userID, "_id": bson.M{"$ne": keepID}},
		bson.M{"$set": bson.M{"is_default": false}},
	)
	return dberr.Wrap(err)
}

func (s mongoAddresses) Create(ctx context.Context, a *models.Address) error {
	if err := a.Prepare(); err != nil {
		return err
	}
	a.CreatedAt = time.Now()
	a.UpdatedAt = a.CreatedAt
	if err := insert(ctx, s.coll, a); err != nil {
		return err
	}
	if a.IsDefault {
		return s.clearDefaults(ctx, a.UserID, a.ID)
	}
	return nil
}

func (s mongoAddresses) Get(ctx context.Context, id string) (*models.Address, error) {
	return findOne[models.Address](ctx, s.coll, bson.M{"_id": id})
}

func (s mongoAddresses) ListByUser(ctx context.Context, userID string) ([]models.Address, error) {
	opts := options.Find().SetSort(bson.D{{Key: "is_default", Value: -1}, {Key: "created_at", Value: 1}})
	return findAll[models.Address](ctx, s.coll, bson.M{"user_id": userID}, opts)
}

func (s mongoAddresses) Update(ctx context.Context, a *models.Address) error {
	if err := a.Prepare(); err != nil {
		return err
	}
	a.UpdatedAt = time.Now()
	if err := replace(ctx, s.coll, a.ID, a); err != nil {
		return err
	}
	if a.IsDefault {
		return s.clearDefaults(ctx, a.UserID, a.ID)
	}
	return nil
}

func (s mongoAddresses) Delete(ctx context.Context, id string) error {
	return remove(ctx, s.coll, bson.M{"_id": id})
}

func (s mongoAddresses) SetDefault(ctx context.Context, userID, id string) error {
	res, err := s.coll.UpdateOne(ctx,
		bson.M{"_id": id, "user_id": userID},
		bson.M{"$set": bson.M{"is_default": true, "updated_at": time.Now()}},
	)
	if err != nil {
		return dberr.Wrap(err)
	}
	if res.MatchedCount == 0 {
		return dberr.ErrNotFound
	}
	return s.clearDefaults(ctx, userID, id)
}

// ── Wishlist ────────────────────────────────────────────────────────────────

type mongoWishlist struct{ coll *mongo.Collection }

func (s mongoWishlist) Add(ctx context.Context, w *models.WishlistItem) error {
	if existing, err := s.Find(ctx, w.UserID, w.ItemID); err == nil {
		*w = *existing
		return nil
	}
	if err := w.Prepare(); err != nil {
		return err
	}
	w.CreatedAt = time.Now()
	return insert(ctx, s.coll, w)
}

func (s mongoWishlist) Find(ctx context.Context, userID, itemID string) (*models.WishlistItem, error) {
	return findOne[models.WishlistItem](ctx, s.coll, bson.M{"user_id": userID, "item_id": itemID})
}

func (s mongoWishlist) ListByUser(ctx context.Context, userID string) ([]models.WishlistItem, error) {
	return findAll[models.WishlistItem](ctx, s.coll, bson.M{"user_id": userID}, byCreated)
}

func (s mongoWishlist) Remove(ctx context.Context, userID, itemID string) error {
	return remove(ctx, s.coll, bson.M{"user_id": userID, "item_id": itemID})
}
