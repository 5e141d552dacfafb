package core

import (
	"errors"
	"fmt"
	"reflect"
)

var (
	// ErrMissingTableMetadata is returned when a type has no table designation.
	ErrMissingTableMetadata = errors.New("missing table metadata")

	// ErrNoPrimaryKey is returned when an operation needs a primary key and none is declared.
	ErrNoPrimaryKey = errors.New("no primary key defined")

	// ErrMissingKeyValue is returned when a key-bearing operation gets an unset key value.
	ErrMissingKeyValue = errors.New("primary key value is not set")

	// ErrInvalidAutoIncrement is returned when AUTOINCREMENT is declared on
	// anything but an INTEGER PRIMARY KEY.
	ErrInvalidAutoIncrement = errors.New("auto-increment requires INTEGER PRIMARY KEY")

	// ErrTypeCoercion is returned when a stored value cannot be converted to
	// the declared type of its target field.
	ErrTypeCoercion = errors.New("type coercion failed")

	// ErrInvalidTag is returned for malformed db/fk struct tags.
	ErrInvalidTag = errors.New("invalid column tag")

	// ErrUnknownColumn is returned when a filter names a column the entity does not map.
	ErrUnknownColumn = errors.New("unknown column")

	// ErrNoUpdatableColumns is returned when an entity has no non-key column to SET.
	ErrNoUpdatableColumns = errors.New("no updatable columns")

	// ErrNilValue is returned when an operation that reads an instance gets a nil pointer.
	ErrNilValue = errors.New("nil entity value")
)

// AutoIncrementError reports the field carrying an invalid auto-increment declaration.
type AutoIncrementError struct {
	Entity      string
	Field       string
	StorageType string
	PrimaryKey  bool
}

func (e *AutoIncrementError) Error() string {
	return fmt.Sprintf("AUTOINCREMENT requires INTEGER PRIMARY KEY on %s.%s (type %q, primary key %t)",
		e.Entity, e.Field, e.StorageType, e.PrimaryKey)
}

// Unwrap returns ErrInvalidAutoIncrement.
func (e *AutoIncrementError) Unwrap() error {
	return ErrInvalidAutoIncrement
}

// CoercionError reports a stored value that could not be converted into a field.
type CoercionError struct {
	Field  string
	Value  any
	Target reflect.Type
	Err    error
}

func (e *CoercionError) Error() string {
	msg := fmt.Sprintf("cannot convert %T(%v) into field %s of type %s", e.Value, e.Value, e.Field, e.Target)
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	return msg
}

// Unwrap returns the underlying cause, if any.
func (e *CoercionError) Unwrap() error {
	return e.Err
}

// Is matches ErrTypeCoercion.
func (e *CoercionError) Is(target error) bool {
	return target == ErrTypeCoercion
}
