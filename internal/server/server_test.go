package server

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/microcourse/internal/course"
	"github.com/at-ishikawa/microcourse/internal/enrollment"
	"github.com/at-ishikawa/microcourse/internal/identity"
	"github.com/at-ishikawa/microcourse/internal/learner"
	"github.com/at-ishikawa/microcourse/internal/registration"
	mock_server "github.com/at-ishikawa/microcourse/internal/mocks/server"
)

var (
	adminPrincipal   = identity.Principal{ID: 4, Name: "Meera", Role: identity.RoleAdmin}
	learnerPrincipal = identity.Principal{ID: 7, Name: "Asha", Phone: "+911234567890", Role: identity.RoleLearner}
)

type testServer struct {
	auth          *mock_server.MockAuthenticator
	courses       *mock_server.MockCourseCatalog
	learners      *mock_server.MockLearnerService
	enrollments   *mock_server.MockEnrollmentService
	registrations *mock_server.MockRegistrationService
	server        *httptest.Server
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	ctrl := gomock.NewController(t)
	ts := &testServer{
		auth:          mock_server.NewMockAuthenticator(ctrl),
		courses:       mock_server.NewMockCourseCatalog(ctrl),
		learners:      mock_server.NewMockLearnerService(ctrl),
		enrollments:   mock_server.NewMockEnrollmentService(ctrl),
		registrations: mock_server.NewMockRegistrationService(ctrl),
	}
	handler, err := NewHandler(Services{
		Auth:          ts.auth,
		Courses:       ts.courses,
		Learners:      ts.learners,
		Enrollments:   ts.enrollments,
		Registrations: ts.registrations,
	})
	require.NoError(t, err)
	ts.server = httptest.NewServer(handler)
	t.Cleanup(ts.server.Close)
	return ts
}

// signIn makes the interceptor resolve token to p.
func (ts *testServer) signIn(token string, p identity.Principal) {
	ts.auth.EXPECT().Restore(gomock.Any(), token).Return(&p, nil)
}

func call[Req, Res any](t *testing.T, ts *testServer, procedure, token string, msg *Req) (*Res, error) {
	t.Helper()
	client := connect.NewClient[Req, Res](ts.server.Client(), ts.server.URL+procedure, connect.WithCodec(jsonCodec{}))
	req := connect.NewRequest(msg)
	if token != "" {
		req.Header().Set("Authorization", "Bearer "+token)
	}
	res, err := client.CallUnary(context.Background(), req)
	if err != nil {
		return nil, err
	}
	return res.Msg, nil
}

func TestLogin(t *testing.T) {
	t.Run("is public", func(t *testing.T) {
		ts := newTestServer(t)
		ts.auth.EXPECT().Login(gomock.Any(), identity.Credentials{Email: "meera@example.com", Password: "correct horse"}).
			Return(&identity.Session{Token: "tok", ExpiresAt: time.Now().Add(time.Hour), Principal: adminPrincipal}, nil)

		res, err := call[LoginRequest, LoginResponse](t, ts, LoginProcedure, "", &LoginRequest{Email: "meera@example.com", Password: "correct horse"})
		require.NoError(t, err)
		assert.Equal(t, "tok", res.Token)
		assert.Equal(t, adminPrincipal, res.Principal)
	})

	t.Run("invalid request carries field violations", func(t *testing.T) {
		ts := newTestServer(t)

		_, err := call[LoginRequest, LoginResponse](t, ts, LoginProcedure, "", &LoginRequest{Email: "not-an-email"})
		require.Error(t, err)
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))

		var connectErr *connect.Error
		require.ErrorAs(t, err, &connectErr)
		require.Len(t, connectErr.Details(), 1)
		value, err := connectErr.Details()[0].Value()
		require.NoError(t, err)
		badRequest, ok := value.(*errdetails.BadRequest)
		require.True(t, ok)
		var fields []string
		for _, v := range badRequest.GetFieldViolations() {
			fields = append(fields, v.GetField())
		}
		assert.ElementsMatch(t, []string{"email", "password"}, fields)
	})

	t.Run("wrong password", func(t *testing.T) {
		ts := newTestServer(t)
		ts.auth.EXPECT().Login(gomock.Any(), gomock.Any()).Return(nil, identity.ErrInvalidCredentials)

		_, err := call[LoginRequest, LoginResponse](t, ts, LoginProcedure, "", &LoginRequest{Email: "meera@example.com", Password: "nope"})
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})
}

func TestAuthInterceptor(t *testing.T) {
	t.Run("missing token", func(t *testing.T) {
		ts := newTestServer(t)
		ts.auth.EXPECT().Restore(gomock.Any(), "").Return(nil, identity.ErrUnauthenticated)

		_, err := call[MeRequest, MeResponse](t, ts, MeProcedure, "", &MeRequest{})
		assert.Equal(t, connect.CodeUnauthenticated, connect.CodeOf(err))
	})

	t.Run("principal reaches the handler", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", learnerPrincipal)

		res, err := call[MeRequest, MeResponse](t, ts, MeProcedure, "tok", &MeRequest{})
		require.NoError(t, err)
		assert.Equal(t, learnerPrincipal, res.Principal)
	})

	t.Run("logout passes the bearer token", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", adminPrincipal)
		ts.auth.EXPECT().Logout(gomock.Any(), "tok").Return(nil)

		_, err := call[LogoutRequest, LogoutResponse](t, ts, LogoutProcedure, "tok", &LogoutRequest{})
		require.NoError(t, err)
	})
}

func TestAssign(t *testing.T) {
	t.Run("overwrite needs confirmation", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", adminPrincipal)
		ts.enrollments.EXPECT().Assign(gomock.Any(), adminPrincipal, enrollment.AssignInput{LearnerID: 7, CourseID: 20}).
			Return(nil, &enrollment.ConfirmationRequiredError{
				Existing:        enrollment.Record{ID: 50, CourseName: "Course X", CurrentDay: 3, ProgressPercent: 50},
				RequestedCourse: "Course Y",
			})

		_, err := call[AssignRequest, AssignResponse](t, ts, AssignProcedure, "tok", &AssignRequest{LearnerID: 7, CourseID: 20})
		require.Error(t, err)
		assert.Equal(t, connect.CodeFailedPrecondition, connect.CodeOf(err))

		var connectErr *connect.Error
		require.ErrorAs(t, err, &connectErr)
		require.Len(t, connectErr.Details(), 1)
		value, err := connectErr.Details()[0].Value()
		require.NoError(t, err)
		failure, ok := value.(*errdetails.PreconditionFailure)
		require.True(t, ok)
		require.Len(t, failure.GetViolations(), 1)
		assert.Equal(t, overwriteViolationType, failure.GetViolations()[0].GetType())
		assert.Equal(t, "enrollment/50", failure.GetViolations()[0].GetSubject())
		assert.Equal(t, `"Course X" is currently in progress (day 3, 50%). Suspend it and assign "Course Y"?`, failure.GetViolations()[0].GetDescription())
	})

	t.Run("confirmed overwrite", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", adminPrincipal)
		ts.enrollments.EXPECT().Assign(gomock.Any(), adminPrincipal, enrollment.AssignInput{LearnerID: 7, CourseID: 20, ConfirmRecordID: 50}).
			Return(&enrollment.AssignResult{
				Record:    enrollment.Record{ID: 51, CourseID: 20, CourseName: "Course Y", Status: enrollment.StatusAssigned},
				Suspended: []enrollment.Record{{ID: 50, CourseName: "Course X", Status: enrollment.StatusSuspended}},
			}, nil)

		res, err := call[AssignRequest, AssignResponse](t, ts, AssignProcedure, "tok", &AssignRequest{LearnerID: 7, CourseID: 20, ConfirmRecordID: 50})
		require.NoError(t, err)
		assert.Equal(t, int64(51), res.Record.ID)
		require.Len(t, res.Suspended, 1)
		assert.Equal(t, enrollment.StatusSuspended, res.Suspended[0].Status)
	})

	t.Run("learner replacing an admin assignment", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", learnerPrincipal)
		ts.enrollments.EXPECT().Assign(gomock.Any(), learnerPrincipal, gomock.Any()).Return(nil, enrollment.ErrAdminAssigned)

		_, err := call[AssignRequest, AssignResponse](t, ts, AssignProcedure, "tok", &AssignRequest{LearnerID: 7, CourseID: 20})
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	})

	t.Run("missing ids never reach the service", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", adminPrincipal)

		_, err := call[AssignRequest, AssignResponse](t, ts, AssignProcedure, "tok", &AssignRequest{})
		assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
	})
}

func TestCheckAssignment(t *testing.T) {
	ts := newTestServer(t)
	ts.signIn("tok", adminPrincipal)
	conflict := enrollment.Record{ID: 50, CourseName: "Course X", CurrentDay: 3, ProgressPercent: 50, Status: enrollment.StatusInProgress}
	ts.enrollments.EXPECT().CheckAssignment(gomock.Any(), adminPrincipal, int64(7), int64(20)).Return(&enrollment.Plan{
		Learner:  learner.Learner{ID: 7, Name: "Asha"},
		Course:   course.Course{ID: 20, Name: "Course Y"},
		Phone:    "+911234567890",
		Active:   []enrollment.Record{conflict},
		Conflict: &conflict,
	}, nil)

	res, err := call[CheckAssignmentRequest, CheckAssignmentResponse](t, ts, CheckAssignmentProcedure, "tok", &CheckAssignmentRequest{LearnerID: 7, CourseID: 20})
	require.NoError(t, err)
	assert.True(t, res.NeedsConfirmation)
	assert.Equal(t, "Course Y", res.CourseName)
	assert.Contains(t, res.Prompt, `Suspend it and assign "Course Y"?`)
	require.NotNil(t, res.Conflict)
	assert.Equal(t, int64(50), res.Conflict.ID)
}

func TestUpdateProgress(t *testing.T) {
	ts := newTestServer(t)
	ts.signIn("tok", learnerPrincipal)
	percent := 100
	ts.enrollments.EXPECT().UpdateProgress(gomock.Any(), learnerPrincipal, int64(51), enrollment.ProgressInput{
		Status:  enrollment.StatusCompleted,
		Percent: &percent,
	}).Return(&enrollment.Record{ID: 51, Status: enrollment.StatusCompleted, ProgressPercent: 100}, nil)

	res, err := call[UpdateProgressRequest, RecordResponse](t, ts, UpdateProgressProcedure, "tok", &UpdateProgressRequest{ID: 51, Status: "completed", Percent: &percent})
	require.NoError(t, err)
	assert.Equal(t, enrollment.StatusCompleted, res.Record.Status)


	ts.signIn("tok", learnerPrincipal)
	_, err = call[UpdateProgressRequest, RecordResponse](t, ts, UpdateProgressProcedure, "tok", &UpdateProgressRequest{ID: 51, Status: "suspended"})
	assert.Equal(t, connect.CodeInvalidArgument, connect.CodeOf(err))
}

func TestLearnerHandler(t *testing.T) {
	t.Run("admin creates a learner", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", adminPrincipal)
		createdBy := adminPrincipal.ID
		ts.learners.EXPECT().Create(gomock.Any(), learner.CreateInput{Name: "Asha", Phone: "12345 67890", CreatedBy: &createdBy}).
			Return(&learner.Learner{ID: 7, Name: "Asha", Phone: "+911234567890", Status: learner.StatusActive}, nil)

		res, err := call[CreateLearnerRequest, LearnerResponse](t, ts, CreateLearnerProcedure, "tok", &CreateLearnerRequest{Name: "Asha", Phone: "12345 67890"})
		require.NoError(t, err)
		assert.Equal(t, "+911234567890", res.Learner.Phone)
		assert.Equal(t, "active", res.Learner.Status)
	})

	t.Run("duplicate phone", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", adminPrincipal)
		ts.learners.EXPECT().Create(gomock.Any(), gomock.Any()).Return(nil, learner.ErrDuplicatePhone)

		_, err := call[CreateLearnerRequest, LearnerResponse](t, ts, CreateLearnerProcedure, "tok", &CreateLearnerRequest{Name: "Asha", Phone: "12345 67890"})
		assert.Equal(t, connect.CodeAlreadyExists, connect.CodeOf(err))
	})

	t.Run("learners cannot manage learners", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", learnerPrincipal)

		_, err := call[ListLearnersRequest, ListLearnersResponse](t, ts, ListLearnersProcedure, "tok", &ListLearnersRequest{})
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	})
}

func TestGetCourse(t *testing.T) {
	private := &course.Course{ID: 10, Name: "Course X", Status: course.StatusApproved, Visibility: course.VisibilityPrivate}

	t.Run("admin sees private course", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", adminPrincipal)
		ts.courses.EXPECT().GetCourse(gomock.Any(), int64(10)).Return(private, nil)

		res, err := call[GetCourseRequest, CourseResponse](t, ts, GetCourseProcedure, "tok", &GetCourseRequest{ID: 10})
		require.NoError(t, err)
		assert.Equal(t, "Course X", res.Course.Name)
	})

	t.Run("learner does not", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", learnerPrincipal)
		ts.courses.EXPECT().GetCourse(gomock.Any(), int64(10)).Return(private, nil)

		_, err := call[GetCourseRequest, CourseResponse](t, ts, GetCourseProcedure, "tok", &GetCourseRequest{ID: 10})
		assert.Equal(t, connect.CodeNotFound, connect.CodeOf(err))
	})
}

func TestRegistrationHandler(t *testing.T) {
	t.Run("submission is public", func(t *testing.T) {
		ts := newTestServer(t)
		ts.registrations.EXPECT().Submit(gomock.Any(), registration.SubmitInput{Name: "Kiran", Email: "kiran@example.com", Password: "long enough"}).
			Return(&registration.Request{ID: 12, Name: "Kiran", Email: "kiran@example.com", Status: registration.StatusPending}, nil)

		res, err := call[SubmitRegistrationRequest, RegistrationResponse](t, ts, SubmitRegistrationProcedure, "", &SubmitRegistrationRequest{
			Name:     "Kiran",
			Email:    "kiran@example.com",
			Password: "long enough",
		})
		require.NoError(t, err)
		assert.Equal(t, registration.StatusPending, res.Request.Status)
	})

	t.Run("approval by an admin is denied", func(t *testing.T) {
		ts := newTestServer(t)
		ts.signIn("tok", adminPrincipal)
		ts.registrations.EXPECT().Approve(gomock.Any(), adminPrincipal, int64(12)).Return(nil, identity.ErrForbidden)

		_, err := call[ApproveRegistrationRequest, RegistrationResponse](t, ts, ApproveRegistrationProcedure, "tok", &ApproveRegistrationRequest{ID: 12})
		assert.Equal(t, connect.CodePermissionDenied, connect.CodeOf(err))
	})
}

func TestToConnectError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want connect.Code
	}{
		{name: "validation", err: enrollment.ErrValidation, want: connect.CodeInvalidArgument},
		{name: "invalid phone", err: learner.ErrInvalidPhone, want: connect.CodeInvalidArgument},
		{name: "already enrolled", err: enrollment.ErrAlreadyEnrolled, want: connect.CodeFailedPrecondition},
		{name: "not eligible", err: course.ErrCourseNotEligible, want: connect.CodeFailedPrecondition},
		{name: "admin assigned", err: enrollment.ErrAdminAssigned, want: connect.CodePermissionDenied},
		{name: "forbidden", err: identity.ErrForbidden, want: connect.CodePermissionDenied},
		{name: "unauthenticated", err: identity.ErrUnauthenticated, want: connect.CodeUnauthenticated},
		{name: "course not found", err: course.ErrCourseNotFound, want: connect.CodeNotFound},
		{name: "learner not found", err: learner.ErrLearnerNotFound, want: connect.CodeNotFound},
		{name: "record not found", err: enrollment.ErrRecordNotFound, want: connect.CodeNotFound},
		{name: "duplicate registration", err: registration.ErrDuplicate, want: connect.CodeAlreadyExists},
		{name: "confirmation", err: &enrollment.ConfirmationRequiredError{}, want: connect.CodeFailedPrecondition},
		{name: "backend failure", err: assert.AnError, want: connect.CodeInternal},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, connect.CodeOf(toConnectError(context.Background(), tt.err)))
		})
	}
}

func TestCORS(t *testing.T) {
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}), []string{"http://localhost:3000"})

	tests := []struct {
		name       string
		method     string
		origin     string
		wantStatus int
		wantOrigin string
	}{
		{name: "preflight", method: http.MethodOptions, origin: "http://localhost:3000", wantStatus: http.StatusNoContent, wantOrigin: "http://localhost:3000"},
		{name: "allowed origin", method: http.MethodPost, origin: "http://localhost:3000", wantStatus: http.StatusOK, wantOrigin: "http://localhost:3000"},
		{name: "unknown origin", method: http.MethodPost, origin: "http://evil.example.com", wantStatus: http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)
			assert.Equal(t, tt.wantStatus, rec.Code)
			assert.Equal(t, tt.wantOrigin, rec.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}

func TestBearerToken(t *testing.T) {
	assert.Equal(t, "abc", bearerToken("Bearer abc"))
	assert.Equal(t, "abc", bearerToken("bearer  abc "))
	assert.Equal(t, "", bearerToken("Basic abc"))
	assert.Equal(t, "", bearerToken(""))
}
