// Package validator wraps go-playground/validator with English messages.
package validator

import (
	"reflect"
	"strconv"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
	"github.com/pkg/errors"
)

// Validator validates structs by their `validate` tags.
// It satisfies echo.Validator as well.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New builds a Validator reporting fields by their json names.
func New() *Validator {
	validate := validator.New(validator.WithRequiredStructEnabled())
	validate.RegisterTagNameFunc(jsonFieldName)

	english := en.New()
	translator, _ := ut.New(english, english).GetTranslator("en")
	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		// Only fails on a broken translation table, which is a programming error.
		panic(err)
	}
	if err := registerMaxBytes(validate, translator); err != nil {
		panic(err)
	}

	return &Validator{
		validate:   validate,
		translator: translator,
	}
}

// Validate checks i and returns nil or an error listing each failed rule.
func (v *Validator) Validate(i any) error {
	err := v.validate.Struct(i)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return errors.WithStack(err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		messages = append(messages, fe.Translate(v.translator))
	}

	return errors.New(strings.Join(messages, "; "))
}

// registerMaxBytes adds the maxbytes tag, which limits a string by its
// encoded length rather than its rune count.
func registerMaxBytes(validate *validator.Validate, translator ut.Translator) error {
	if err := validate.RegisterValidation("maxbytes", maxBytes); err != nil {
		return errors.Wrap(err, "register maxbytes validation")
	}

	err := validate.RegisterTranslation("maxbytes", translator,
		func(trans ut.Translator) error {
			return trans.Add("maxbytes", "{0} must be at most {1} bytes long", true)
		},
		func(trans ut.Translator, fe validator.FieldError) string {
			msg, _ := trans.T("maxbytes", fe.Field(), fe.Param())

			return msg
		},
	)

	return errors.Wrap(err, "register maxbytes translation")
}

func maxBytes(fl validator.FieldLevel) bool {
	limit, err := strconv.Atoi(fl.Param())
	if err != nil {
		return false
	}

	return len(fl.Field().String()) <= limit
}

func jsonFieldName(field reflect.StructField) string {
	name, _, _ := strings.Cut(field.Tag.Get("json"), ",")
	if name == "" || name == "-" {
		return field.Name
	}

	return name
}
