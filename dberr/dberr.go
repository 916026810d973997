// Package dberr classifies store errors so handlers can log and count them
// by kind while still answering callers with a generic message.
package dberr

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"go.mongodb.org/mongo-driver/mongo"
	"gorm.io/gorm"
)

// Kind names a class of persistence failure.
type Kind string

const (
	KindValidation  Kind = "validation"
	KindNotFound    Kind = "not_found"
	KindConflict    Kind = "conflict"
	KindReference   Kind = "reference"
	KindUnavailable Kind = "unavailable"
	KindUnknown     Kind = "unknown"
)

var (
	ErrValidation  = errors.New("validation failed")
	ErrNotFound    = errors.New("record not found")
	ErrConflict    = errors.New("uniqueness violation")
	ErrReference   = errors.New("dangling reference")
	ErrUnavailable = errors.New("store unavailable")
)

var sentinels = map[Kind]error{
	KindValidation:  ErrValidation,
	KindNotFound:    ErrNotFound,
	KindConflict:    ErrConflict,
	KindReference:   ErrReference,
	KindUnavailable: ErrUnavailable,
}

// Classify reports the kind of err. A nil error has an empty kind.
func Classify(err error) Kind {
	if err == nil {
		return ""
	}
	for kind, sentinel := range sentinels {
		if errors.Is(err, sentinel) {
			return kind
		}
	}

	var verrs validator.ValidationErrors
	switch {
	case errors.As(err, &verrs):
		return KindValidation
	case errors.Is(err, gorm.ErrRecordNotFound), errors.Is(err, mongo.ErrNoDocuments):
		return KindNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey), mongo.IsDuplicateKeyError(err):
		return KindConflict
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return KindReference
	case errors.Is(err, context.DeadlineExceeded),
		errors.Is(err, sql.ErrConnDone),
		errors.Is(err, driver.ErrBadConn),
		errors.Is(err, mongo.ErrClientDisconnected),
		mongo.IsNetworkError(err),
		mongo.IsTimeout(err):
		return KindUnavailable
	}

	// sqlite drivers do not always translate constraint errors
	msg := err.Error()
	switch {
	case strings.Contains(msg, "UNIQUE constraint failed"):
		return KindConflict
	case strings.Contains(msg, "FOREIGN KEY constraint failed"):
		return KindReference
	case strings.Contains(msg, "NOT NULL constraint failed"), strings.Contains(msg, "CHECK constraint failed"):
		return KindValidation
	case strings.Contains(msg, "database is closed"),
		strings.Contains(msg, "database is locked"),
		strings.Contains(msg, "unable to open database"):
		return KindUnavailable
	}
	return KindUnknown
}

// Wrap tags a backend error with the sentinel for its kind so callers can
// use errors.Is without knowing which driver produced it.
func Wrap(err error) error {
	if err == nil {
		return nil
	}
	kind := Classify(err)
	sentinel, ok := sentinels[kind]
	if !ok || errors.Is(err, sentinel) {
		return err
	}
	return fmt.Errorf("%w: %w", sentinel, err)
}

// Reference builds the error returned when a write names an entity that does not exist.
func Reference(entity, id string) error {
	return fmt.Errorf("%w: %s %q does not exist", ErrReference, entity, id)
}

// Validation wraps a schema validation failure.
func Validation(err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%w: %w", ErrValidation, err)
}
