package codec

import (
	"database/sql"
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"time"

	"github.com/code-vine/reflectivesql/pkg/core"
)

var scannerType = reflect.TypeOf((*sql.Scanner)(nil)).Elem()

var (
	errUnsupported = errors.New("unsupported conversion")
	errNotSettable = errors.New("field is not settable")
	errFraction    = errors.New("value has a fractional part")
	errOverflow    = errors.New("value out of range")
)

// category groups target types that share one coercion rule.
type category int

const (
	catUnknown category = iota
	catScanner
	catPointer
	catInterface
	catEnum
	catInt
	catUint
	catFloat
	catBool
	catString
	catBytes
	catTime
)

type decodeFunc func(dst reflect.Value, raw any) error

var decoders map[category]decodeFunc

func init() {
	decoders = map[category]decodeFunc{
		catScanner:   decodeScanner,
		catPointer:   decodePointer,
		catInterface: decodeInterface,
		catEnum:      decodeEnum,
		catInt:       decodeInt,
		catUint:      decodeUint,
		catFloat:     decodeFloat,
		catBool:      decodeBool,
		catString:    decodeString,
		catBytes:     decodeBytes,
		catTime:      decodeTime,
	}
}

func categorize(t reflect.Type) category {
	if reflect.PointerTo(t).Implements(scannerType) {
		return catScanner
	}
	if t == timeType {
		return catTime
	}

	switch t.Kind() {
	case reflect.Pointer:
		return catPointer
	case reflect.Interface:
		return catInterface
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		if IsEnum(t) {
			return catEnum
		}
		return catInt
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		if IsEnum(t) {
			return catEnum
		}
		return catUint
	case reflect.Float32, reflect.Float64:
		return catFloat
	case reflect.Bool:
		return catBool
	case reflect.String:
		return catString
	case reflect.Slice:
		if t.Elem().Kind() == reflect.Uint8 {
			return catBytes
		}
	}
	return catUnknown
}

// IsEnum reports whether t is an enumeration: a named integer type.
func IsEnum(t reflect.Type) bool {
	switch t.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64,
		reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		return t.PkgPath() != ""
	}
	return false
}

// Decode stores raw into dst, which must be settable. field names the
// destination in errors.
//
// A nil raw value clears nullable targets (pointers, slices, maps,
// interfaces, sql.Scanner) and leaves every other target untouched.
func Decode(field string, dst reflect.Value, raw any) error {
	if !dst.CanSet() {
		return &core.CoercionError{Field: field, Value: raw, Target: dst.Type(), Err: errNotSettable}
	}
	if err := decodeValue(dst, raw); err != nil {
		return &core.CoercionError{Field: field, Value: raw, Target: dst.Type(), Err: err}
	}
	return nil
}

func decodeValue(dst reflect.Value, raw any) error {
	cat := categorize(dst.Type())
	if raw == nil {
		return decodeNull(dst, cat)
	}

	fn, ok := decoders[cat]
	if !ok {
		return errUnsupported
	}
	return fn(dst, raw)
}

func decodeNull(dst reflect.Value, cat category) error {
	if cat == catScanner {
		return dst.Addr().Interface().(sql.Scanner).Scan(nil)
	}
	switch dst.Kind() {
	case reflect.Pointer, reflect.Interface, reflect.Slice, reflect.Map:
		dst.SetZero()
	}
	return nil
}

func decodeScanner(dst reflect.Value, raw any) error {
	return dst.Addr().Interface().(sql.Scanner).Scan(raw)
}

func decodePointer(dst reflect.Value, raw any) error {
	elem := reflect.New(dst.Type().Elem())
	if err := decodeValue(elem.Elem(), raw); err != nil {
		return err
	}
	dst.Set(elem)
	return nil
}

func decodeInterface(dst reflect.Value, raw any) error {
	v := reflect.ValueOf(raw)
	if !v.Type().AssignableTo(dst.Type()) {
		return errUnsupported
	}
	dst.Set(v)
	return nil
}

// decodeEnum reinterprets an integral value as the enum's underlying
// integer. No range validation is done and wider values are truncated.
func decodeEnum(dst reflect.Value, raw any) error {
	rv := reflect.ValueOf(raw)
	var n int64
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		n = rv.Int()
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		n = int64(rv.Uint())
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) {
			return errFraction
		}
		n = int64(f)
	default:
		return errUnsupported
	}

	if dst.Kind() >= reflect.Uint && dst.Kind() <= reflect.Uint64 {
		dst.SetUint(uint64(n))
	} else {
		dst.SetInt(n)
	}
	return nil
}

func decodeInt(dst reflect.Value, raw any) error {
	n, err := toInt64(raw)
	if err != nil {
		return err
	}
	if dst.OverflowInt(n) {
		return errOverflow
	}
	dst.SetInt(n)
	return nil
}

func decodeUint(dst reflect.Value, raw any) error {
	var u uint64
	if rv := reflect.ValueOf(raw); rv.Kind() >= reflect.Uint && rv.Kind() <= reflect.Uint64 {
		u = rv.Uint()
	} else {
		n, err := toInt64(raw)
		if err != nil {
			return err
		}
		if n < 0 {
			return errOverflow
		}
		u = uint64(n)
	}
	if dst.OverflowUint(u) {
		return errOverflow
	}
	dst.SetUint(u)
	return nil
}

func decodeFloat(dst reflect.Value, raw any) error {
	var f float64
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Float32, reflect.Float64:
		f = rv.Float()
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		f = float64(rv.Int())
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		f = float64(rv.Uint())
	case reflect.String:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(rv.String()), 64)
		if err != nil {
			return err
		}
		f = parsed
	default:
		b, ok := raw.([]byte)
		if !ok {
			return errUnsupported
		}
		parsed, err := strconv.ParseFloat(strings.TrimSpace(string(b)), 64)
		if err != nil {
			return err
		}
		f = parsed
	}
	if dst.OverflowFloat(f) {
		return errOverflow
	}
	dst.SetFloat(f)
	return nil
}

func decodeBool(dst reflect.Value, raw any) error {
	switch v := raw.(type) {
	case bool:
		dst.SetBool(v)
		return nil
	case string:
		b, err := strconv.ParseBool(strings.TrimSpace(v))
		if err != nil {
			return err
		}
		dst.SetBool(b)
		return nil
	case []byte:
		b, err := strconv.ParseBool(strings.TrimSpace(string(v)))
		if err != nil {
			return err
		}
		dst.SetBool(b)
		return nil
	}

	n, err := toInt64(raw)
	if err != nil {
		return err
	}
	dst.SetBool(n != 0)
	return nil
}

func decodeString(dst reflect.Value, raw any) error {
	switch v := raw.(type) {
	case string:
		dst.SetString(v)
	case []byte:
		dst.SetString(string(v))
	case bool:
		dst.SetString(strconv.FormatBool(v))
	case time.Time:
		dst.SetString(v.Format(time.RFC3339Nano))
	default:
		rv := reflect.ValueOf(raw)
		switch rv.Kind() {
		case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
			dst.SetString(strconv.FormatInt(rv.Int(), 10))
		case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
			dst.SetString(strconv.FormatUint(rv.Uint(), 10))
		case reflect.Float32, reflect.Float64:
			dst.SetString(strconv.FormatFloat(rv.Float(), 'g', -1, 64))
		case reflect.String:
			dst.SetString(rv.String())
		default:
			return errUnsupported
		}
	}
	return nil
}

func decodeBytes(dst reflect.Value, raw any) error {
	switch v := raw.(type) {
	case []byte:
		dst.SetBytes(append([]byte(nil), v...))
	case string:
		dst.SetBytes([]byte(v))
	default:
		return errUnsupported
	}
	return nil
}

// timeLayouts are tried in order when a time arrives as text.
var timeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999-07:00",
	"2006-01-02T15:04:05.999999999-07:00",
	"2006-01-02 15:04:05.999999999 -0700 MST",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

func decodeTime(dst reflect.Value, raw any) error {
	var t time.Time
	switch v := raw.(type) {
	case time.Time:
		t = v
	case string:
		parsed, err := parseTime(v)
		if err != nil {
			return err
		}
		t = parsed
	case []byte:
		parsed, err := parseTime(string(v))
		if err != nil {
			return err
		}
		t = parsed
	case int64:
		t = time.Unix(v, 0).UTC()
	default:
		return errUnsupported
	}
	dst.Set(reflect.ValueOf(t))
	return nil
}

func parseTime(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range timeLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("unrecognized time format %q", s)
}

func toInt64(raw any) (int64, error) {
	rv := reflect.ValueOf(raw)
	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return rv.Int(), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64:
		u := rv.Uint()
		if u > math.MaxInt64 {
			return 0, errOverflow
		}
		return int64(u), nil
	case reflect.Float32, reflect.Float64:
		f := rv.Float()
		if f != math.Trunc(f) {
			return 0, errFraction
		}
		if f < math.MinInt64 || f >= math.MaxInt64 {
			return 0, errOverflow
		}
		return int64(f), nil
	case reflect.Bool:
		if rv.Bool() {
			return 1, nil
		}
		return 0, nil
	case reflect.String:
		return strconv.ParseInt(strings.TrimSpace(rv.String()), 10, 64)
	}
	if b, ok := raw.([]byte); ok {
		return strconv.ParseInt(strings.TrimSpace(string(b)), 10, 64)
	}
	return 0, errUnsupported
}
