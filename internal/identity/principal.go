// Package identity resolves the acting principal (admin, super-admin or learner) from a session token.
package identity

import (
	"context"
	"errors"
	"fmt"
)

// Role discriminates the three kinds of principal.
type Role string

const (
	RoleAdmin      Role = "admin"
	RoleSuperAdmin Role = "superadmin"
	RoleLearner    Role = "learner"
)

func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleSuperAdmin, RoleLearner:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries admin authority. Super-admins are admins too.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// Principal is an authenticated actor.
type Principal struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email,omitempty"`
	Phone string `json:"phone,omitempty"`
	Role  Role   `json:"role"`
}

func (p Principal) String() string {
	return fmt.Sprintf("%s:%d", p.Role, p.ID)
}

var (
	ErrUnauthenticated    = errors.New("unauthenticated")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrAccountInactive    = errors.New("account is inactive")
	ErrSessionNotFound    = errors.New("session not found")
	// ErrForbidden is returned when an authenticated principal lacks the role for an operation.
	ErrForbidden = errors.New("permission denied")
)

type principalKey struct{}

// WithPrincipal returns a context carrying p as the current principal.
func WithPrincipal(ctx context.Context, p Principal) context.Context {
	return context.WithValue(ctx, principalKey{}, p)
}

// FromContext returns the current principal, if any.
func FromContext(ctx context.Context) (Principal, bool) {
	p, ok := ctx.Value(principalKey{}).(Principal)
	return p, ok
}
