// Package validate holds the shared struct validator and its English
// error translations.
package validate

import (
	"errors"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
)

var (
	Validate   *validator.Validate
	Translator ut.Translator

	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "{0} cannot be blank"
	dayMonthTag  = "ddmmyyyy"
	dayMonthText = "{0} must be a date in DD/MM/YYYY format"
	isoDateTag   = "isodate"
	isoDateText  = "{0} must be a date in YYYY-MM-DD format"
)

// Date layouts accepted by the custom date tags.
const (
	DayMonthLayout = "02/01/2006"
	ISODateLayout  = "2006-01-02"
)

func init() {
	Validate = validator.New()

	_en := en.New()
	uni := ut.New(_en, _en)
	Translator, _ = uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(Validate, Translator)

	// Use JSON tag names for errors instead of Go struct names.
	Validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = Validate.RegisterValidation(notBlankTag, notBlankValidation)
	RegisterCustomTranslation(notBlankTag, notBlankText)
	_ = Validate.RegisterValidation(dayMonthTag, layoutValidation(DayMonthLayout))
	RegisterCustomTranslation(dayMonthTag, dayMonthText)
	_ = Validate.RegisterValidation(isoDateTag, layoutValidation(ISODateLayout))
	RegisterCustomTranslation(isoDateTag, isoDateText)
}

// RegisterCustomTranslation registers the message for a custom validation
// tag. {0} is replaced by the field name.
func RegisterCustomTranslation(tag, text string) {
	_ = Validate.RegisterTranslation(
		tag, Translator,
		func(t ut.Translator) error { return t.Add(tag, text, true) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// FieldError is a validation failure on a single field.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every field that failed validation.
type ValidationError struct {
	Fields []FieldError
}

func (e *ValidationError) Error() string {
	msgs := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		msgs = append(msgs, f.Message)
	}
	return "invalid input: " + strings.Join(msgs, "; ")
}

// NewValidationError builds a ValidationError for a single field.
func NewValidationError(field, message string) error {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// IsValidationError reports whether err is, or wraps, a *ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

// Struct validates s and converts validator errors into a *ValidationError.
func Struct(s any) error {
	return convert(Validate.Struct(s))
}

// Var validates a single value against tag, reporting failures under field.
func Var(field string, v any, tag string) error {
	err := Validate.Var(v, tag)
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) {
		out := &ValidationError{}
		for _, fe := range verrs {
			msg := strings.TrimSpace(field + fe.Translate(Translator))
			out.Fields = append(out.Fields, FieldError{Field: field, Message: msg})
		}
		return out
	}
	return err
}

func convert(err error) error {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return err
	}
	out := &ValidationError{}
	for _, fe := range verrs {
		out.Fields = append(out.Fields, FieldError{Field: fe.Field(), Message: fe.Translate(Translator)})
	}
	return out
}

// CleanString trims leading and trailing white space in s and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

func notBlankValidation(fl validator.FieldLevel) bool {
	if str, ok := fl.Field().Interface().(string); ok {
		return strings.TrimSpace(str) != ""
	}
	return false
}

func layoutValidation(layout string) validator.Func {
	return func(fl validator.FieldLevel) bool {
		_, err := time.Parse(layout, strings.TrimSpace(fl.Field().String()))
		return err == nil
	}
}
