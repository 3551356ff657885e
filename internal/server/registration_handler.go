package server

import (
	"context"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/microcourse/internal/registration"
)

type RegistrationHandler struct {
	registrations RegistrationService
	validate      *requestValidator
}

// SubmitRegistration is public: prospective admins have no session yet.
func (h *RegistrationHandler) SubmitRegistration(
	ctx context.Context,
	req *connect.Request[SubmitRegistrationRequest],
) (*connect.Response[RegistrationResponse], error) {
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}
	request, err := h.registrations.Submit(ctx, registration.SubmitInput{
		Name:         req.Msg.Name,
		Email:        req.Msg.Email,
		Phone:        req.Msg.Phone,
		Organization: req.Msg.Organization,
		Password:     req.Msg.Password,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&RegistrationResponse{Request: *request}), nil
}

func (h *RegistrationHandler) ListRegistrations(
	ctx context.Context,
	req *connect.Request[ListRegistrationsRequest],
) (*connect.Response[ListRegistrationsResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	requests, err := h.registrations.List(ctx, p, registration.Status(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	if requests == nil {
		requests = []registration.Request{}
	}
	return connect.NewResponse(&ListRegistrationsResponse{Requests: requests}), nil
}

func (h *RegistrationHandler) ApproveRegistration(
	ctx context.Context,
	req *connect.Request[ApproveRegistrationRequest],
) (*connect.Response[RegistrationResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	request, err := h.registrations.Approve(ctx, p, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&RegistrationResponse{Request: *request}), nil
}

func (h *RegistrationHandler) RejectRegistration(
	ctx context.Context,
	req *connect.Request[RejectRegistrationRequest],
) (*connect.Response[RegistrationResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	request, err := h.registrations.Reject(ctx, p, req.Msg.ID, req.Msg.Note)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&RegistrationResponse{Request: *request}), nil
}
