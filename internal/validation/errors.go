package validation

import (
	"encoding/json"
	"fmt"
	"slices"
)

// Bag collects field messages in the order they were first reported.
type Bag struct {
	keys []string
	msgs map[string][]string
}

func NewBag() *Bag {
	return &Bag{msgs: map[string][]string{}}
}

func (b *Bag) Add(field, msg string) {
	if _, ok := b.msgs[field]; !ok {
		b.keys = append(b.keys, field)
	}
	b.msgs[field] = append(b.msgs[field], msg)
}

func (b *Bag) Has(field string) bool {
	_, ok := b.msgs[field]
	return ok
}

func (b *Bag) Empty() bool { return len(b.keys) == 0 }

func (b *Bag) Len() int {
	n := 0
	for _, m := range b.msgs {
		n += len(m)
	}
	return n
}

// Merge appends messages for fields that have none yet.
func (b *Bag) Merge(other *Bag) {
	if other == nil {
		return
	}
	for _, k := range other.keys {
		if b.Has(k) {
			continue
		}
		for _, m := range other.msgs[k] {
			b.Add(k, m)
		}
	}
}

// orderBy moves the listed fields to the front in the given order.
func (b *Bag) orderBy(fields []string) {
	if len(fields) == 0 || len(b.keys) < 2 {
		return
	}
	keys := make([]string, 0, len(b.keys))
	for _, f := range fields {
		if b.Has(f) {
			keys = append(keys, f)
		}
	}
	for _, k := range b.keys {
		if !slices.Contains(keys, k) {
			keys = append(keys, k)
		}
	}
	b.keys = keys
}

// Err returns nil for an empty bag.
func (b *Bag) Err() error {
	if b.Empty() {
		return nil
	}
	errs := make(map[string][]string, len(b.msgs))
	for k, v := range b.msgs {
		errs[k] = append([]string(nil), v...)
	}
	return &Error{Message: b.summary(), Errors: errs}
}

func (b *Bag) summary() string {
	first := b.msgs[b.keys[0]][0]
	rest := b.Len() - 1
	switch rest {
	case 0:
		return first
	case 1:
		return fmt.Sprintf("%s (and 1 more error)", first)
	default:
		return fmt.Sprintf("%s (and %d more errors)", first, rest)
	}
}

// Error is the 422 body: a summary message plus every message per field.
type Error struct {
	Message string              `json:"message"`
	Errors  map[string][]string `json:"errors"`
}

func (e *Error) Error() string { return e.Message }

// MarshalJSON keeps the field map when the error travels inside an echo.HTTPError.
func (e *Error) MarshalJSON() ([]byte, error) {
	type body Error
	return json.Marshal((*body)(e))
}

func (e *Error) Field(name string) []string { return e.Errors[name] }

func FieldError(field, msg string) error {
	b := NewBag()
	b.Add(field, msg)
	return b.Err()
}
