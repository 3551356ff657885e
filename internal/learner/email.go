package learner

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
)

var ErrInvalidEmail = errors.New("invalid email address")

var emailValidator = validator.New()

// NormalizeEmail trims and lowercases raw and checks it is a single e-mail address.
func NormalizeEmail(raw string) (string, error) {
	email := strings.ToLower(strings.TrimSpace(raw))
	if err := emailValidator.Var(email, "required,email"); err != nil {
		return "", fmt.Errorf("%q: %w", raw, ErrInvalidEmail)
	}
	return email, nil
}
