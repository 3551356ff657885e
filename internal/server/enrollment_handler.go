package server

import (
	"context"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/microcourse/internal/enrollment"
)

type EnrollmentHandler struct {
	enrollments EnrollmentService
	validate    *requestValidator
}

// CheckAssignment reports whether Assign needs confirm_record_id and, if so, the question to ask.
func (h *EnrollmentHandler) CheckAssignment(
	ctx context.Context,
	req *connect.Request[CheckAssignmentRequest],
) (*connect.Response[CheckAssignmentResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	plan, err := h.enrollments.CheckAssignment(ctx, p, req.Msg.LearnerID, req.Msg.CourseID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	res := &CheckAssignmentResponse{
		LearnerID:         plan.Learner.ID,
		CourseID:          plan.Course.ID,
		CourseName:        plan.Course.Name,
		Phone:             plan.Phone,
		NeedsConfirmation: plan.NeedsConfirmation(),
		Conflict:          plan.Conflict,
	}
	if plan.NeedsConfirmation() {
		confirmation := enrollment.ConfirmationRequiredError{Existing: *plan.Conflict, RequestedCourse: plan.Course.Name}
		res.Prompt = confirmation.Prompt()
	}
	return connect.NewResponse(res), nil
}

func (h *EnrollmentHandler) Assign(
	ctx context.Context,
	req *connect.Request[AssignRequest],
) (*connect.Response[AssignResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	result, err := h.enrollments.Assign(ctx, p, enrollment.AssignInput{
		LearnerID:       req.Msg.LearnerID,
		CourseID:        req.Msg.CourseID,
		ConfirmRecordID: req.Msg.ConfirmRecordID,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	suspended := result.Suspended
	if suspended == nil {
		suspended = []enrollment.Record{}
	}
	return connect.NewResponse(&AssignResponse{Record: result.Record, Suspended: suspended}), nil
}

func (h *EnrollmentHandler) UpdateProgress(
	ctx context.Context,
	req *connect.Request[UpdateProgressRequest],
) (*connect.Response[RecordResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	record, err := h.enrollments.UpdateProgress(ctx, p, req.Msg.ID, enrollment.ProgressInput{
		Status:     enrollment.Status(req.Msg.Status),
		Percent:    req.Msg.Percent,
		CurrentDay: req.Msg.CurrentDay,
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&RecordResponse{Record: *record}), nil
}

func (h *EnrollmentHandler) Suspend(
	ctx context.Context,
	req *connect.Request[RecordRequest],
) (*connect.Response[RecordResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	record, err := h.enrollments.Suspend(ctx, p, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&RecordResponse{Record: *record}), nil
}

func (h *EnrollmentHandler) Remove(
	ctx context.Context,
	req *connect.Request[RecordRequest],
) (*connect.Response[RemoveResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	if err := h.enrollments.Remove(ctx, p, req.Msg.ID); err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&RemoveResponse{}), nil
}

func (h *EnrollmentHandler) ListEnrollments(
	ctx context.Context,
	req *connect.Request[ListEnrollmentsRequest],
) (*connect.Response[ListEnrollmentsResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	records, err := h.enrollments.List(ctx, p, enrollment.Filter{
		LearnerID: req.Msg.LearnerID,
		CourseID:  req.Msg.CourseID,
		Status:    enrollment.Status(req.Msg.Status),
	})
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	if records == nil {
		records = []enrollment.Record{}
	}
	return connect.NewResponse(&ListEnrollmentsResponse{Records: records}), nil
}
