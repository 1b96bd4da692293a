package neon

import (
	"encoding/json"
	"iter"
	"reflect"
)

// Key declares one field a Collection can be searched by.
type Key[T any] struct {
	Name  string
	Value func(T) string
}

// Collection is a read-only, ordered page of records. It keeps the server
// order, the pagination cursor and the limit of the request that produced it.
type Collection[T any] struct {
	items      []T
	pagination *Pagination
	limit      int
	keys       []Key[T]
}

// NewCollection builds a Collection over a deep copy of items.
func NewCollection[T any](items []T, pagination *Pagination, limit int, keys ...Key[T]) *Collection[T] {
	owned := make([]T, len(items))
	for i, item := range items {
		owned[i] = deepCopy(item)
	}

	if pagination != nil {
		p := *pagination
		pagination = &p
	}

	return &Collection[T]{
		items:      owned,
		pagination: pagination,
		limit:      limit,
		keys:       keys,
	}
}

// Len returns the number of records.
func (c *Collection[T]) Len() int {
	return len(c.items)
}

// At returns a copy of the record at index i. It panics if i is out of range.
func (c *Collection[T]) At(i int) T {
	return deepCopy(c.items[i])
}

// Items returns a deep copy of the records.
func (c *Collection[T]) Items() []T {
	out := make([]T, len(c.items))
	for i, item := range c.items {
		out[i] = deepCopy(item)
	}

	return out
}

// All iterates the records in server order.
func (c *Collection[T]) All() iter.Seq2[int, T] {
	return func(yield func(int, T) bool) {
		for i, item := range c.items {
			if !yield(i, deepCopy(item)) {
				return
			}
		}
	}
}

// Lookup returns the first record whose key matches value. Keys are tried in
// declaration order and each key scans the whole collection before the next.
func (c *Collection[T]) Lookup(value string) (T, error) {
	for _, key := range c.keys {
		for _, item := range c.items {
			if key.Value(item) == value {
				return deepCopy(item), nil
			}
		}
	}

	names := make([]string, 0, len(c.keys))
	for _, key := range c.keys {
		names = append(names, key.Name)
	}

	var zero T

	return zero, &NotFoundError{Keys: names, Value: value}
}

// Pagination returns the page cursor, or nil when the response carried none.
func (c *Collection[T]) Pagination() *Pagination {
	if c.pagination == nil {
		return nil
	}

	p := *c.pagination

	return &p
}

// HasNext reports whether the response carried a cursor for a further page.
func (c *Collection[T]) HasNext() bool {
	return c.pagination != nil && c.pagination.Cursor != ""
}

// NextPage returns the options of the strictly-next page request: the same
// limit with the returned cursor. It never fetches anything itself.
func (c *Collection[T]) NextPage() (ListOptions, bool) {
	if !c.HasNext() {
		return ListOptions{}, false
	}

	return ListOptions{Cursor: c.pagination.Cursor, Limit: c.limit}, true
}

// MarshalJSON renders the records as a JSON array.
func (c *Collection[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(c.items)
}

// MarshalYAML renders the records as a YAML sequence.
func (c *Collection[T]) MarshalYAML() (interface{}, error) {
	return c.items, nil
}

// Item wraps a single record. Equality is defined on the record, not the wrapper.
type Item[T any] struct {
	record T
}

// NewItem wraps a deep copy of record.
func NewItem[T any](record *T) *Item[T] {
	return &Item[T]{record: deepCopy(*record)}
}

// Record returns a deep copy of the wrapped record.
func (i *Item[T]) Record() T {
	return deepCopy(i.record)
}

// Ptr returns a pointer to a deep copy of the wrapped record.
func (i *Item[T]) Ptr() *T {
	r := deepCopy(i.record)

	return &r
}

// Equal reports whether both items wrap equal records.
func (i *Item[T]) Equal(other *Item[T]) bool {
	if i == nil || other == nil {
		return i == other
	}

	return reflect.DeepEqual(i.record, other.record)
}

// MarshalJSON renders the wrapped record.
func (i *Item[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(i.record)
}

// MarshalYAML renders the wrapped record.
func (i *Item[T]) MarshalYAML() (interface{}, error) {
	return i.record, nil
}
