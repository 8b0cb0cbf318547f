package server

import (
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"

	"github.com/gompdf/docexport/internal/render/ics"
)

var (
	// custom validation tags & texts
	notBlankTag  = "notblank"
	notBlankText = "{0} must not be blank"

	timestampTag  = "timestamp"
	timestampText = "{0} must be an ISO-8601 timestamp"

	requiredTag  = "required"
	requiredText = "this field is required"
)

// appValidator plugs go-playground/validator into echo
type appValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func (v *appValidator) Validate(i interface{}) error {
	return v.validate.Struct(i)
}

func newValidator() *appValidator {
	validate := validator.New()

	// Register the english error messages for validation errors.
	_en := en.New()
	uni := ut.New(_en, _en)
	translator, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(validate, translator)

	// Use JSON tag names for errors instead of Go struct names.
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	_ = validate.RegisterValidation(notBlankTag, notBlankValidation)
	_ = validate.RegisterValidation(timestampTag, timestampValidation)

	registerCustomTranslation(validate, translator, notBlankTag, notBlankText)
	registerCustomTranslation(validate, translator, timestampTag, timestampText)
	registerCustomTranslation(validate, translator, requiredTag, requiredText, true)

	return &appValidator{validate: validate, translator: translator}
}

// registerCustomTranslation registers a custom translation for the specified validation tag.
func registerCustomTranslation(validate *validator.Validate, translator ut.Translator, tag, text string, override ...bool) {
	var ovrd bool
	if len(override) > 0 {
		ovrd = override[0]
	}
	_ = validate.RegisterTranslation(
		tag, translator,
		func(t ut.Translator) error { return t.Add(tag, text, ovrd) },
		func(t ut.Translator, fe validator.FieldError) string {
			s, _ := t.T(tag, fe.Field())
			return s
		},
	)
}

// notBlankValidation rejects strings made only of whitespace
func notBlankValidation(fl validator.FieldLevel) bool {
	return strings.TrimSpace(fl.Field().String()) != ""
}

func timestampValidation(fl validator.FieldLevel) bool {
	_, err := ics.ParseTimestamp(fl.Field().String())
	return err == nil
}

// fieldKey drops the request struct name from a field namespace,
// e.g. "calendarRequest.events[1].start" becomes "events[1].start"
func fieldKey(fe validator.FieldError) string {
	ns := fe.Namespace()
	if _, rest, ok := strings.Cut(ns, "."); ok {
		return rest
	}
	return fe.Field()
}
