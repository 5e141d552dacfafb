// Package codec converts between Go field values and values a SQL store
// can bind or return.
//
// Encode turns a field into a bind parameter: nil pointers and nil slices
// become NULL, pointers are dereferenced, and named basic types are widened
// to the driver's native int64/float64/string/bool/[]byte.
//
// Decode goes the other way through a small dispatch table keyed by the
// category of the target type. Unknown targets fail closed with a
// *core.CoercionError.
package codec

import (
	"database/sql/driver"
	"math"
	"reflect"
	"time"
)

var (
	valuerType = reflect.TypeOf((*driver.Valuer)(nil)).Elem()
	timeType   = reflect.TypeOf(time.Time{})
)

// Encode returns the store representation of v.
func Encode(v reflect.Value) any {
	if !v.IsValid() {
		return nil
	}

	switch v.Kind() {
	case reflect.Pointer, reflect.Interface:
		if v.IsNil() {
			return nil
		}
		if v.Type().Implements(valuerType) {
			return v.Interface()
		}
		return Encode(v.Elem())
	case reflect.Slice, reflect.Map:
		if v.IsNil() {
			return nil
		}
	}

	if v.Type().Implements(valuerType) {
		return v.Interface()
	}
	if v.CanAddr() && reflect.PointerTo(v.Type()).Implements(valuerType) {
		return v.Addr().Interface()
	}
	if v.Type() == timeType {
		return v.Interface()
	}

	switch v.Kind() {
	case reflect.Bool:
		return v.Bool()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return v.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if u := v.Uint(); u <= math.MaxInt64 {
			return int64(u)
		}
		return v.Uint()
	case reflect.Float32, reflect.Float64:
		return v.Float()
	case reflect.String:
		return v.String()
	case reflect.Slice:
		if v.Type().Elem().Kind() == reflect.Uint8 {
			return v.Bytes()
		}
	}
	return v.Interface()
}

// EncodeAny is Encode for an untyped value, used for caller-supplied
// keys and filter values.
func EncodeAny(v any) any {
	if v == nil {
		return nil
	}
	return Encode(reflect.ValueOf(v))
}
