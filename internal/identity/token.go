package identity

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

var errForeignToken = errors.New("token was not issued by this service")

type sessionClaims struct {
	jwt.RegisteredClaims
	Role Role `json:"role"`
}

// tokenIssuer signs and verifies HS256 session tokens.
type tokenIssuer struct {
	secret []byte
	issuer string
}

func (t tokenIssuer) issue(p Principal, now time.Time, ttl time.Duration) (token string, sessionID string, err error) {
	sessionID = uuid.NewString()
	claims := sessionClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Issuer:    t.issuer,
			Subject:   p.String(),
			ID:        sessionID,
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(ttl)),
		},
		Role: p.Role,
	}
	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(t.secret)
	if err != nil {
		return "", "", fmt.Errorf("token.SignedString() > %w", err)
	}
	return signed, sessionID, nil
}

// parse returns the session id of a token issued by this service.
// errForeignToken means the token may belong to the external auth service.
func (t tokenIssuer) parse(token string, now time.Time) (string, error) {
	var claims sessionClaims
	_, err := jwt.ParseWithClaims(token, &claims, func(token *jwt.Token) (any, error) {
		return t.secret, nil
	},
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(t.issuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(func() time.Time { return now }),
	)
	if err != nil {
		switch {
		case errors.Is(err, jwt.ErrTokenExpired):
			return "", fmt.Errorf("session expired: %w", ErrUnauthenticated)
		case errors.Is(err, jwt.ErrTokenMalformed),
			errors.Is(err, jwt.ErrTokenSignatureInvalid),
			errors.Is(err, jwt.ErrTokenUnverifiable),
			errors.Is(err, jwt.ErrTokenInvalidIssuer):
			return "", errForeignToken
		}
		return "", fmt.Errorf("jwt.ParseWithClaims() > %v: %w", err, ErrUnauthenticated)
	}
	if claims.ID == "" || !claims.Role.Valid() {
		return "", fmt.Errorf("token claims are incomplete: %w", ErrUnauthenticated)
	}
	return claims.ID, nil
}
