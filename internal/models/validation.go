package models

import (
	"errors"
	"fmt"
	"reflect"
	"sort"
	"strings"
	"sync"

	trlocale "github.com/go-playground/locales/tr"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	trtranslations "github.com/go-playground/validator/v10/translations/tr"
	"github.com/shopspring/decimal"
)

// ValidationError reports field-level problems found before a write.
// Keys are the JSON field names.
type ValidationError struct {
	Fields map[string]string
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// AsValidationError unwraps err into a *ValidationError when possible.
func AsValidationError(err error) (*ValidationError, bool) {
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve, true
	}
	return nil, false
}

var (
	validateOnce sync.Once
	validate     *validator.Validate
	translator   ut.Translator
)

func engine() (*validator.Validate, ut.Translator) {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())

		validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
			name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
			if name == "-" || name == "" {
				return fld.Name
			}
			return name
		})

		// Decimal amounts are validated as numbers so gt/gte/lte tags apply.
		validate.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
			if d, ok := field.Interface().(decimal.Decimal); ok {
				f, _ := d.Float64()
				return f
			}
			return nil
		}, decimal.Decimal{})

		tr := trlocale.New()
		uni := ut.New(tr, tr)
		translator, _ = uni.GetTranslator("tr")
		if err := trtranslations.RegisterDefaultTranslations(validate, translator); err != nil {
			translator = nil
		}
	})
	return validate, translator
}

// Validate checks the struct tags of v and returns a *ValidationError
// listing every failing field, or nil.
func Validate(v interface{}) error {
	val, trans := engine()

	err := val.Struct(v)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return err
	}

	out := &ValidationError{Fields: make(map[string]string, len(fieldErrs))}
	for _, fe := range fieldErrs {
		out.Fields[fe.Field()] = TranslateFieldError(fe, trans)
	}
	return out
}

// TranslateFieldError renders a validator error in Turkish.
func TranslateFieldError(fe validator.FieldError, trans ut.Translator) string {
	if trans != nil {
		if msg := fe.Translate(trans); msg != "" {
			return msg
		}
	}
	return fmt.Sprintf("%s alanı '%s' kuralını sağlamıyor", fe.Field(), fe.Tag())
}
