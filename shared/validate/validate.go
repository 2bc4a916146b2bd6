package validate

import (
	"errors"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	entranslations "github.com/go-playground/validator/v10/translations/en"
)

// Validator wraps validator/v10 with an English translator so that the first
// violation can be rendered as a client-facing message.
type Validator struct {
	validate   *validator.Validate
	translator ut.Translator
}

// New creates a Validator with struct tag validation and en translations.
func New() (*Validator, error) {
	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)

	translator, found := uni.GetTranslator("en")
	if !found {
		return nil, errors.New("en translator not found")
	}

	validate := validator.New(validator.WithRequiredStructEnabled())
	if err := entranslations.RegisterDefaultTranslations(validate, translator); err != nil {
		return nil, err
	}

	return &Validator{validate: validate, translator: translator}, nil
}

// Struct validates s and returns the first violation translated to English,
// or nil when s is valid.
func (v *Validator) Struct(s any) error {
	err := v.validate.Struct(s)
	if err == nil {
		return nil
	}

	var validationErrors validator.ValidationErrors
	if errors.As(err, &validationErrors) && len(validationErrors) > 0 {
		return errors.New(validationErrors[0].Translate(v.translator))
	}

	return err
}
