package validation

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"
)

var ErrMalformedBody = errors.New("request body must be a JSON object")

// Fields is a decoded JSON object whose values are type-checked one field at a time,
// so a wrong type on one field does not hide problems on the others.
type Fields map[string]json.RawMessage

func DecodeFields(r io.Reader) (Fields, error) {
	body, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	if len(bytes.TrimSpace(body)) == 0 {
		return Fields{}, nil
	}
	var f Fields
	if err := json.Unmarshal(body, &f); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedBody, err)
	}
	if f == nil {
		f = Fields{}
	}
	return f, nil
}

func (f Fields) raw(name string) (json.RawMessage, bool) {
	v, ok := f[name]
	if !ok {
		return nil, false
	}
	if string(bytes.TrimSpace(v)) == "null" {
		return nil, false
	}
	return v, true
}

// String returns nil when the field is absent or null.
func (f Fields) String(name string, bag *Bag) *string {
	v, ok := f.raw(name)
	if !ok {
		return nil
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		bag.Add(name, fmt.Sprintf("The %s field must be a string.", Attribute(name)))
		return nil
	}
	return &s
}

// Integer accepts JSON numbers with no fractional part and strings holding a base-10 integer.
func (f Fields) Integer(name string, bag *Bag) *int64 {
	v, ok := f.raw(name)
	if !ok {
		return nil
	}
	n, ok := parseInteger(v)
	if !ok {
		bag.Add(name, fmt.Sprintf("The %s field must be an integer.", Attribute(name)))
		return nil
	}
	return &n
}

func parseInteger(v json.RawMessage) (int64, bool) {
	var num json.Number
	if err := json.Unmarshal(v, &num); err == nil {
		if n, err := num.Int64(); err == nil {
			return n, true
		}
		fl, err := num.Float64()
		if err != nil || fl != math.Trunc(fl) || math.Abs(fl) > math.MaxInt64 {
			return 0, false
		}
		return int64(fl), true
	}
	var s string
	if err := json.Unmarshal(v, &s); err != nil {
		return 0, false
	}
	n, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, false
	}
	return n, true
}

// Attribute turns a JSON field name into the human form used in messages.
func Attribute(field string) string {
	return strings.ReplaceAll(field, "_", " ")
}
