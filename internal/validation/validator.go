package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
)

// Validator runs struct-tag rules and reports failures as *Error.
// It satisfies echo.Validator.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		if name == "" {
			return fld.Name
		}
		return name
	})
	// present fails only for a nil pointer, leaving emptiness checks to later tags
	_ = v.RegisterValidation("present", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		return !(f.Kind() == reflect.Ptr && f.IsNil())
	}, true)
	// filled rejects empty and whitespace-only strings behind a pointer
	_ = v.RegisterValidation("filled", func(fl validator.FieldLevel) bool {
		f := fl.Field()
		if f.Kind() == reflect.String {
			return strings.TrimSpace(f.String()) != ""
		}
		return f.IsValid() && !f.IsZero()
	})
	return &Validator{validate: v}
}

func (v *Validator) Validate(i any) error {
	bag := NewBag()
	v.Collect(i, bag)
	return bag.Err()
}

// Collect adds rule failures to bag, skipping fields that already carry a message.
func (v *Validator) Collect(i any, bag *Bag) {
	defer bag.orderBy(fieldOrder(i))

	err := v.validate.Struct(i)
	if err == nil {
		return
	}
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		bag.Add("body", err.Error())
		return
	}
	rules := NewBag()
	for _, fe := range verrs {
		rules.Add(fe.Field(), message(fe))
	}
	bag.Merge(rules)
}

// fieldOrder lists the json names of a struct's fields in declaration order.
func fieldOrder(i any) []string {
	t := reflect.TypeOf(i)
	for t != nil && t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t == nil || t.Kind() != reflect.Struct {
		return nil
	}
	names := make([]string, 0, t.NumField())
	for n := 0; n < t.NumField(); n++ {
		f := t.Field(n)
		if !f.IsExported() {
			continue
		}
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "" || name == "-" {
			continue
		}
		names = append(names, name)
	}
	return names
}

func message(fe validator.FieldError) string {
	attr := Attribute(fe.Field())
	switch fe.Tag() {
	case "present", "required", "filled":
		return fmt.Sprintf("The %s field is required.", attr)
	case "min":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must be at least %s characters.", attr, fe.Param())
		}
		return fmt.Sprintf("The %s field must be at least %s.", attr, fe.Param())
	case "max":
		if fe.Kind() == reflect.String {
			return fmt.Sprintf("The %s field must not be greater than %s characters.", attr, fe.Param())
		}
		return fmt.Sprintf("The %s field must not be greater than %s.", attr, fe.Param())
	case "email":
		return fmt.Sprintf("The %s field must be a valid email address.", attr)
	default:
		return fmt.Sprintf("The %s field is invalid.", attr)
	}
}
