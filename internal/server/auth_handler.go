package server

import (
	"context"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/microcourse/internal/identity"
)

type AuthHandler struct {
	auth     Authenticator
	validate *requestValidator
}

// Login starts a session for an admin (email and password) or a learner (phone and email).
func (h *AuthHandler) Login(
	ctx context.Context,
	req *connect.Request[LoginRequest],
) (*connect.Response[LoginResponse], error) {
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}
	session, err := h.auth.Login(ctx, identity.Credentials{
		Email:    req.Msg.Email,
		Password: req.Msg.Password,
		Phone:    req.Msg.Phone,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&LoginResponse{
		Token:     session.Token,
		ExpiresAt: session.ExpiresAt,
		Principal: session.Principal,
	}), nil
}

func (h *AuthHandler) Logout(
	ctx context.Context,
	req *connect.Request[LogoutRequest],
) (*connect.Response[LogoutResponse], error) {
	if err := h.auth.Logout(ctx, bearerToken(req.Header().Get("Authorization"))); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&LogoutResponse{}), nil
}

// Me returns the principal of the current session.
func (h *AuthHandler) Me(
	ctx context.Context,
	req *connect.Request[MeRequest],
) (*connect.Response[MeResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	return connect.NewResponse(&MeResponse{Principal: p}), nil
}
