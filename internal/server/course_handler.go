package server

import (
	"context"

	"connectrpc.com/connect"

	"github.com/at-ishikawa/microcourse/internal/course"
)

type CourseHandler struct {
	catalog  CourseCatalog
	validate *requestValidator
}

func (h *CourseHandler) ListCourses(
	ctx context.Context,
	req *connect.Request[ListCoursesRequest],
) (*connect.Response[ListCoursesResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	filter := course.Filter{
		Visibility: course.Visibility(req.Msg.Visibility),
		Query:      req.Msg.Query,
	}
	for _, s := range req.Msg.Statuses {
		filter.Statuses = append(filter.Statuses, course.Status(s))
	}
	courses, err := h.catalog.ListCourses(ctx, p, filter)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	if courses == nil {
		courses = []course.Course{}
	}
	return connect.NewResponse(&ListCoursesResponse{Courses: courses}), nil
}

// GetCourse returns a course. Learners only see courses they could assign themselves.
func (h *CourseHandler) GetCourse(
	ctx context.Context,
	req *connect.Request[GetCourseRequest],
) (*connect.Response[CourseResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	c, err := h.catalog.GetCourse(ctx, req.Msg.ID)
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	if !p.Role.IsAdmin() && course.Eligible(c, true) != nil {
		return nil, connect.NewError(connect.CodeNotFound, course.ErrCourseNotFound)
	}
	return connect.NewResponse(&CourseResponse{Course: *c}), nil
}

func (h *CourseHandler) SetCourseStatus(
	ctx context.Context,
	req *connect.Request[SetCourseStatusRequest],
) (*connect.Response[CourseResponse], error) {
	p, err := principalFrom(ctx)
	if err != nil {
		return nil, err
	}
	if err := h.validate.check(req.Msg); err != nil {
		return nil, err
	}

	c, err := h.catalog.SetStatus(ctx, p, req.Msg.ID, course.Status(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(ctx, err)
	}
	return connect.NewResponse(&CourseResponse{Course: *c}), nil
}
