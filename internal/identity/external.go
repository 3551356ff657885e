package identity

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-resty/resty/v2"
)

// ExternalUser is the part of the hosted auth service's user payload this service reads.
type ExternalUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
}

// ExternalVerifier validates session tokens issued by the hosted auth service.
type ExternalVerifier struct {
	client *resty.Client
	apiKey string
}

func NewExternalVerifier(baseURL, apiKey string) *ExternalVerifier {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(baseURL, "/")).
		SetHeader("Accept", "application/json")
	return &ExternalVerifier{client: client, apiKey: apiKey}
}

// Verify resolves the user behind token. An unknown or expired token yields ErrUnauthenticated.
func (v *ExternalVerifier) Verify(ctx context.Context, token string) (*ExternalUser, error) {
	var user ExternalUser
	res, err := v.client.R().
		SetContext(ctx).
		SetHeader("apikey", v.apiKey).
		SetAuthToken(token).
		SetResult(&user).
		Get("/auth/v1/user")
	if err != nil {
		return nil, fmt.Errorf("client.R.Get(/auth/v1/user) > %w", err)
	}
	switch {
	case res.StatusCode() == http.StatusUnauthorized || res.StatusCode() == http.StatusForbidden:
		return nil, fmt.Errorf("external session rejected: %w", ErrUnauthenticated)
	case res.StatusCode() != http.StatusOK:
		return nil, fmt.Errorf("status code: %d, body: %s", res.StatusCode(), string(res.Body()))
	}
	if user.Email == "" {
		return nil, fmt.Errorf("external user has no email: %w", ErrUnauthenticated)
	}
	return &user, nil
}
