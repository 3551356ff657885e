package server

import (
	"context"
	"strings"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/microcourse/internal/identity"
)

var publicProcedures = map[string]bool{
	LoginProcedure:              true,
	SubmitRegistrationProcedure: true,
}

// NewAuthInterceptor restores the principal behind the bearer token of every non-public call
// and stores it in the request context.
func NewAuthInterceptor(auth Authenticator) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			if publicProcedures[req.Spec().Procedure] {
				return next(ctx, req)
			}
			p, err := auth.Restore(ctx, bearerToken(req.Header().Get("Authorization")))
			if err != nil {
				return nil, toConnectError(ctx, err)
			}
			return next(identity.WithPrincipal(ctx, *p), req)
		}
	}
}

func bearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

func principalFrom(ctx context.Context) (identity.Principal, error) {
	p, ok := identity.FromContext(ctx)
	if !ok {
		return identity.Principal{}, connect.NewError(connect.CodeUnauthenticated, identity.ErrUnauthenticated)
	}
	return p, nil
}

func requireAdmin(ctx context.Context) (identity.Principal, error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return p, err
	}
	if !p.Role.IsAdmin() {
		return p, connect.NewError(connect.CodePermissionDenied, identity.ErrForbidden)
	}
	return p, nil
}
