package config

import (
	"fmt"
	"reflect"
	"regexp"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
)

var countryCodePattern = regexp.MustCompile(`^\+[1-9][0-9]{0,2}$`)

func newValidator() (*validator.Validate, ut.Translator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, nil, fmt.Errorf("failed to register default translations: %w", err)
	}

	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("mapstructure"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	if err := validate.RegisterValidation("countrycode", isCountryCode); err != nil {
		return nil, nil, fmt.Errorf("failed to register countrycode validation: %w", err)
	}
	if err := validate.RegisterTranslation("countrycode", trans, func(ut ut.Translator) error {
		return ut.Add("countrycode", "{0} must be a country calling code such as +91", true)
	}, func(ut ut.Translator, fe validator.FieldError) string {
		t, _ := ut.T("countrycode", strings.TrimPrefix(fe.Namespace(), "Config."))
		return t
	}); err != nil {
		return nil, nil, fmt.Errorf("failed to register countrycode translation: %w", err)
	}

	return validate, trans, nil
}

func isCountryCode(fl validator.FieldLevel) bool {
	return countryCodePattern.MatchString(fl.Field().String())
}
