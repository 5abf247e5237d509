// Package validation wraps go-playground/validator and turns its field
// errors into the human readable messages the API returns.
//
// Messages come from struct tags: `msg_<rule>` for a specific failing rule,
// falling back to `msg` for any failure on the field.
package validation

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
)

// DateLayouts lists the accepted date formats, tried in order.
var DateLayouts = []string{"2006-01-02", time.RFC3339}

// Error is a client-fixable input error with one message per failed field,
// in field declaration order.
type Error struct {
	Messages []string
}

func NewError(messages ...string) *Error {
	return &Error{Messages: messages}
}

func (e *Error) Error() string {
	return "validation failed: " + strings.Join(e.Messages, "; ")
}

// Validator validates tagged input structs.
type Validator struct {
	validate *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := v.RegisterValidation("date", validateDate); err != nil {
		// only fails on an empty tag or nil func
		panic(err)
	}
	return &Validator{validate: v}
}

// Struct validates s, which must be a struct or a pointer to one. It returns
// *Error for failed rules and a plain error for misuse.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("validate: %w", err)
	}

	t := reflect.TypeOf(s)
	for t.Kind() == reflect.Pointer {
		t = t.Elem()
	}

	out := &Error{}
	seen := make(map[string]struct{}, len(fieldErrs))
	for _, fe := range fieldErrs {
		if _, dup := seen[fe.StructField()]; dup {
			continue
		}
		seen[fe.StructField()] = struct{}{}
		out.Messages = append(out.Messages, message(t, fe))
	}
	return out
}

// ParseDate parses a date in one of DateLayouts.
func ParseDate(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	for _, layout := range DateLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid date %q", value)
}

func validateDate(fl validator.FieldLevel) bool {
	_, err := ParseDate(fl.Field().String())
	return err == nil
}

func message(t reflect.Type, fe validator.FieldError) string {
	if field, ok := t.FieldByName(fe.StructField()); ok {
		if msg, ok := field.Tag.Lookup("msg_" + fe.Tag()); ok {
			return msg
		}
		if msg, ok := field.Tag.Lookup("msg"); ok {
			return msg
		}
	}
	return fmt.Sprintf("%s is invalid", fe.Field())
}
