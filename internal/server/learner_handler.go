package server

import (
	"context"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/microcourse/internal/learner"
)

// LearnerHandler manages learners. Every call is admin only.
type LearnerHandler struct {
	learners LearnerService
	validate *requestValidator
}

func (h *LearnerHandler) CreateLearner(
	ctx context.Context,
	req *connect.Request[CreateLearnerRequest],
) (*connect.Response[LearnerResponse], error) {
	p, err := requireAdmin(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	createdBy := p.ID
	l, err := h.learners.Create(ctx, learner.CreateInput{
		Name:      req.Msg.Name,
		Email:     req.Msg.Email,
		Phone:     req.Msg.Phone,
		CreatedBy: &createdBy,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&LearnerResponse{Learner: newLearner(*l)}), nil
}

func (h *LearnerHandler) ListLearners(
	ctx context.Context,
	req *connect.Request[ListLearnersRequest],
) (*connect.Response[ListLearnersResponse], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	learners, err := h.learners.List(ctx, learner.Filter{
		Status: learner.Status(req.Msg.Status),
		Query:  req.Msg.Query,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	res := &ListLearnersResponse{Learners: make([]Learner, 0, len(learners))}
	for _, l := range learners {
		res.Learners = append(res.Learners, newLearner(l))
	}
	return connect.NewResponse(res), nil
}

func (h *LearnerHandler) SetLearnerStatus(
	ctx context.Context,
	req *connect.Request[SetLearnerStatusRequest],
) (*connect.Response[LearnerResponse], error) {
	if _, err := requireAdmin(ctx); err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	l, err := h.learners.SetStatus(ctx, req.Msg.ID, learner.Status(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&LearnerResponse{Learner: newLearner(*l)}), nil
}
