package models

import (
	"food-ordering-api/dberr"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

var validate = validator.New()

func newID() string {
	return uuid.NewString()
}

func check(v any) error {
	return dberr.Validation(validate.Struct(v))
}

// All lists every persisted model, in migration order.
func All() []any {
	return []any{
		&User{},
		&Restaurant{},
		&MenuItem{},
		&Cart{},
		&Address{},
		&WishlistItem{},
	}
}
