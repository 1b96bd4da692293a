// Package materialize turns raw JSON response bodies into typed records.
//
// Each function takes the shape the caller declares (a top-level object, an
// object under an envelope key, an array, or a cursor-paginated array) and
// either returns fully decoded records or a *neon.SchemaError. Unknown fields
// are ignored; type mismatches and missing identity fields are not.
package materialize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"maps"
	"reflect"
	"slices"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/neondatabase/neon-api-go/internal/constants"
	"github.com/neondatabase/neon-api-go/pkg/neon"
)

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
		if name == "-" {
			return ""
		}

		return name
	})

	return v
}

// Singleton decodes a top-level JSON object into T.
func Singleton[T any](raw json.RawMessage) (*T, error) {
	if err := requireBody[T](raw); err != nil {
		return nil, err
	}

	return decode[T](raw, "")
}

// SubKey decodes the object stored under key into T.
func SubKey[T any](raw json.RawMessage, key string) (*T, error) {
	value, err := envelopeValue[T](raw, key)
	if err != nil {
		return nil, err
	}

	return decode[T](value, key)
}

// Array decodes a JSON array into []T. With an empty key the body itself
// must be the array; otherwise the array is read from that envelope key.
func Array[T any](raw json.RawMessage, key string) ([]T, error) {
	value := raw

	if key == "" {
		if err := requireBody[T](raw); err != nil {
			return nil, err
		}
	} else {
		extracted, err := envelopeValue[T](raw, key)
		if err != nil {
			return nil, err
		}

		value = extracted
	}

	var items []T
	if err := json.Unmarshal(value, &items); err != nil {
		return nil, decodeError[T, []T](err, key, value)
	}

	if items == nil {
		items = []T{}
	}

	for i := range items {
		if err := check(&items[i], indexPrefix(key, i)); err != nil {
			return nil, err
		}
	}

	return items, nil
}

// Page decodes the array under key together with the pagination cursor.
// The returned pagination is nil when the body carries none.
func Page[T any](raw json.RawMessage, key string) ([]T, *neon.Pagination, error) {
	items, err := Array[T](raw, key)
	if err != nil {
		return nil, nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, nil, schemaError[T](err, "")
	}

	value, ok := envelope[constants.KeyPagination]
	if !ok || isNull(value) {
		return items, nil, nil
	}

	var pagination neon.Pagination
	if err := json.Unmarshal(value, &pagination); err != nil {
		return nil, nil, &neon.SchemaError{
			Record:   "Pagination",
			Field:    constants.KeyPagination + prefixed(".", fieldOf(err)),
			Expected: expectedOf(err),
			Got:      gotOf(err),
			Err:      err,
		}
	}

	return items, &pagination, nil
}

func decode[T any](raw json.RawMessage, prefix string) (*T, error) {
	var out T
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, decodeError[T, T](err, prefix, raw)
	}

	if err := check(&out, prefix); err != nil {
		return nil, err
	}

	return &out, nil
}

func envelopeValue[T any](raw json.RawMessage, key string) (json.RawMessage, error) {
	if err := requireBody[T](raw); err != nil {
		return nil, err
	}

	var envelope map[string]json.RawMessage
	if err := json.Unmarshal(raw, &envelope); err != nil {
		return nil, schemaError[T](err, "")
	}

	value, ok := envelope[key]
	if !ok {
		return nil, &neon.SchemaError{Record: recordName[T](), Field: key, Expected: "envelope key", Got: "missing"}
	}

	if isNull(value) {
		return nil, &neon.SchemaError{Record: recordName[T](), Field: key, Expected: kindOf[T](), Got: "null"}
	}

	return value, nil
}

func requireBody[T any](raw json.RawMessage) error {
	if len(bytes.TrimSpace(raw)) == 0 {
		return &neon.SchemaError{Record: recordName[T](), Expected: "JSON body", Got: "empty body"}
	}

	return nil
}

// check enforces the validate tags of struct records.
func check[T any](record *T, prefix string) error {
	if reflect.TypeFor[T]().Kind() != reflect.Struct {
		return nil
	}

	err := validate.Struct(record)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return &neon.SchemaError{Record: recordName[T](), Got: err.Error(), Err: err}
	}

	first := fieldErrs[0]

	// Namespace starts with the Go type name; the rest is the JSON path.
	_, path, _ := strings.Cut(first.Namespace(), ".")

	return &neon.SchemaError{
		Record:   recordName[T](),
		Field:    joinPath(prefix, path),
		Expected: first.Tag(),
		Got:      "missing",
		Err:      err,
	}
}

func schemaError[T any](err error, prefix string) *neon.SchemaError {
	return &neon.SchemaError{
		Record:   recordName[T](),
		Field:    joinPath(prefix, fieldOf(err)),
		Expected: expectedOf(err),
		Got:      gotOf(err),
		Err:      err,
	}
}

// decodeError is schemaError for a failed decode of raw into V. Fields with
// their own UnmarshalJSON (time.Time) fail without a field path, so the path
// is recovered by walking raw against V.
func decodeError[T, V any](err error, prefix string, raw json.RawMessage) *neon.SchemaError {
	var (
		typeErr   *json.UnmarshalTypeError
		syntaxErr *json.SyntaxError
	)

	if errors.As(err, &typeErr) || errors.As(err, &syntaxErr) {
		return schemaError[T](err, prefix)
	}

	found, ok := locate(reflect.TypeFor[V](), raw)
	if !ok {
		return schemaError[T](err, prefix)
	}

	return &neon.SchemaError{
		Record:   recordName[T](),
		Field:    joinPath(prefix, found.path),
		Expected: expectedName(found.typ),
		Got:      describe(found.value),
		Err:      err,
	}
}

// mismatch is the first value of a body that does not decode into its field.
type mismatch struct {
	path  string
	typ   reflect.Type
	value json.RawMessage
}

var unmarshalerType = reflect.TypeFor[json.Unmarshaler]()

func locate(t reflect.Type, raw json.RawMessage) (mismatch, bool) {
	if isNull(raw) {
		return mismatch{}, false
	}

	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	leaf := mismatch{typ: t, value: raw}

	if reflect.PointerTo(t).Implements(unmarshalerType) {
		return leaf, json.Unmarshal(raw, reflect.New(t).Interface()) != nil
	}

	switch t.Kind() {
	case reflect.Struct:
		var fields map[string]json.RawMessage
		if err := json.Unmarshal(raw, &fields); err != nil {
			return leaf, true
		}

		return locateFields(t, raw, fields)
	case reflect.Slice, reflect.Array:
		var elems []json.RawMessage
		if err := json.Unmarshal(raw, &elems); err != nil {
			return leaf, json.Unmarshal(raw, reflect.New(t).Interface()) != nil
		}

		for i, elem := range elems {
			if found, ok := locate(t.Elem(), elem); ok {
				found.path = joinPath(fmt.Sprintf("[%d]", i), found.path)

				return found, true
			}
		}
	case reflect.Map:
		var entries map[string]json.RawMessage
		if err := json.Unmarshal(raw, &entries); err != nil {
			return leaf, true
		}

		for _, key := range slices.Sorted(maps.Keys(entries)) {
			if found, ok := locate(t.Elem(), entries[key]); ok {
				found.path = joinPath(key, found.path)

				return found, true
			}
		}
	default:
		return leaf, json.Unmarshal(raw, reflect.New(t).Interface()) != nil
	}

	return mismatch{}, false
}

func locateFields(t reflect.Type, raw json.RawMessage, fields map[string]json.RawMessage) (mismatch, bool) {
	for i := range t.NumField() {
		field := t.Field(i)
		name, _, _ := strings.Cut(field.Tag.Get("json"), ",")

		if field.Anonymous && name == "" {
			if found, ok := locate(field.Type, raw); ok {
				return found, true
			}

			continue
		}

		if !field.IsExported() || name == "-" {
			continue
		}

		if name == "" {
			name = field.Name
		}

		value, ok := fields[name]
		if !ok {
			continue
		}

		if found, ok := locate(field.Type, value); ok {
			found.path = joinPath(name, found.path)

			return found, true
		}
	}

	return mismatch{}, false
}

func expectedName(t reflect.Type) string {
	if t == reflect.TypeFor[time.Time]() {
		return "RFC 3339 timestamp"
	}

	return kindName(t)
}

// describe names the JSON kind of raw, with the literal for scalars.
func describe(raw json.RawMessage) string {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return "empty"
	}

	switch raw[0] {
	case '{':
		return "object"
	case '[':
		return "array"
	case '"':
		return "string " + string(raw)
	case 't', 'f':
		return "bool"
	default:
		return "number " + string(raw)
	}
}

func fieldOf(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Field
	}

	return ""
}

func expectedOf(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return kindName(typeErr.Type)
	}

	return "valid JSON"
}

func gotOf(err error) string {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) {
		return typeErr.Value
	}

	var syntaxErr *json.SyntaxError
	if errors.As(err, &syntaxErr) {
		return fmt.Sprintf("invalid JSON at offset %d", syntaxErr.Offset)
	}

	return err.Error()
}

func kindName(t reflect.Type) string {
	if t == nil {
		return "value"
	}

	switch t.Kind() {
	case reflect.Struct, reflect.Map:
		return "object"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Pointer:
		return kindName(t.Elem())
	default:
		return t.String()
	}
}

func kindOf[T any]() string {
	return kindName(reflect.TypeFor[T]())
}

func recordName[T any]() string {
	t := reflect.TypeFor[T]()
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	if t.Name() != "" {
		return t.Name()
	}

	return t.String()
}

func isNull(raw json.RawMessage) bool {
	return bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}

func indexPrefix(key string, i int) string {
	return fmt.Sprintf("%s[%d]", key, i)
}

func joinPath(prefix, path string) string {
	switch {
	case prefix == "":
		return path
	case path == "":
		return prefix
	case strings.HasPrefix(path, "["):
		return prefix + path
	default:
		return prefix + "." + path
	}
}

func prefixed(sep, s string) string {
	if s == "" {
		return ""
	}

	return sep + s
}
