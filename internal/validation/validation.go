package validation

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"sort"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrValidation = errors.New("validation failed")

// Messenger lets an input type supply human messages keyed "field.tag".
type Messenger interface {
	ValidationMessages() map[string]string
}

// Errors maps a field name (its json name) to a human message.
type Errors map[string]string

func (e Errors) Error() string {
	keys := make([]string, 0, len(e))
	for k := range e {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+e[k])
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

func (e Errors) Unwrap() error { return ErrValidation }

// Validator implements echo.Validator.
type Validator struct {
	v *validator.Validate
}

func New() *Validator {
	v := validator.New()
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return f.Name
		}
		return name
	})
	_ = v.RegisterValidation("finite", finite)
	return &Validator{v: v}
}

// finite rejects NaN and the infinities, which min/max comparisons let through.
func finite(fl validator.FieldLevel) bool {
	switch f := fl.Field(); f.Kind() {
	case reflect.Float32, reflect.Float64:
		x := f.Float()
		return !math.IsNaN(x) && !math.IsInf(x, 0)
	default:
		return true
	}
}

func (v *Validator) Validate(i any) error {
	err := v.v.Struct(i)
	if err == nil {
		return nil
	}
	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", ErrValidation, err)
	}

	var messages map[string]string
	if m, ok := i.(Messenger); ok {
		messages = m.ValidationMessages()
	}

	out := Errors{}
	for _, fe := range fieldErrs {
		key := fe.Field() + "." + fe.Tag()
		if msg, ok := messages[key]; ok {
			out[fe.Field()] = msg
			continue
		}
		out[fe.Field()] = fmt.Sprintf("failed on %s %s", fe.Tag(), fe.Param())
	}
	return out
}
