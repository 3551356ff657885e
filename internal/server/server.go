package server

import (
	"fmt"
	"net/http"

	"connectrpc.com/connect"
)

const (
	AuthServiceName         = "microcourse.v1.AuthService"
	CourseServiceName       = "microcourse.v1.CourseService"
	LearnerServiceName      = "microcourse.v1.LearnerService"
	EnrollmentServiceName   = "microcourse.v1.EnrollmentService"
	RegistrationServiceName = "microcourse.v1.RegistrationService"
)

const (
	LoginProcedure  = "/" + AuthServiceName + "/Login"
	LogoutProcedure = "/" + AuthServiceName + "/Logout"
	MeProcedure     = "/" + AuthServiceName + "/Me"

	ListCoursesProcedure     = "/" + CourseServiceName + "/ListCourses"
	GetCourseProcedure       = "/" + CourseServiceName + "/GetCourse"
	SetCourseStatusProcedure = "/" + CourseServiceName + "/SetCourseStatus"

	CreateLearnerProcedure    = "/" + LearnerServiceName + "/CreateLearner"
	ListLearnersProcedure     = "/" + LearnerServiceName + "/ListLearners"
	SetLearnerStatusProcedure = "/" + LearnerServiceName + "/SetLearnerStatus"

	CheckAssignmentProcedure = "/" + EnrollmentServiceName + "/CheckAssignment"
	AssignProcedure          = "/" + EnrollmentServiceName + "/Assign"
	UpdateProgressProcedure  = "/" + EnrollmentServiceName + "/UpdateProgress"
	SuspendProcedure         = "/" + EnrollmentServiceName + "/Suspend"
	RemoveProcedure          = "/" + EnrollmentServiceName + "/Remove"
	ListEnrollmentsProcedure = "/" + EnrollmentServiceName + "/ListEnrollments"

	SubmitRegistrationProcedure  = "/" + RegistrationServiceName + "/SubmitRegistration"
	ListRegistrationsProcedure   = "/" + RegistrationServiceName + "/ListRegistrations"
	ApproveRegistrationProcedure = "/" + RegistrationServiceName + "/ApproveRegistration"
	RejectRegistrationProcedure  = "/" + RegistrationServiceName + "/RejectRegistration"
)

// Services are the domain services behind the API.
type Services struct {
	Auth          Authenticator
	Courses       CourseCatalog
	Learners      LearnerService
	Enrollments   EnrollmentService
	Registrations RegistrationService
}

// NewHandler registers every procedure on a mux. All calls except Login and SubmitRegistration need a bearer token.
func NewHandler(services Services) (http.Handler, error) {
	validate, err := newRequestValidator()
	if err != nil {
		return nil, fmt.Errorf("newRequestValidator() > %w", err)
	}
	opts := []connect.HandlerOption{
		connect.WithCodec(jsonCodec{}),
		connect.WithInterceptors(NewAuthInterceptor(services.Auth)),
	}

	auth := &AuthHandler{auth: services.Auth, validate: validate}
	courses := &CourseHandler{catalog: services.Courses, validate: validate}
	learners := &LearnerHandler{learners: services.Learners, validate: validate}
	enrollments := &EnrollmentHandler{enrollments: services.Enrollments, validate: validate}
	registrations := &RegistrationHandler{registrations: services.Registrations, validate: validate}

	mux := http.NewServeMux()
	mux.Handle(LoginProcedure, connect.NewUnaryHandler(LoginProcedure, auth.Login, opts...))
	mux.Handle(LogoutProcedure, connect.NewUnaryHandler(LogoutProcedure, auth.Logout, opts...))
	mux.Handle(MeProcedure, connect.NewUnaryHandler(MeProcedure, auth.Me, opts...))

	mux.Handle(ListCoursesProcedure, connect.NewUnaryHandler(ListCoursesProcedure, courses.ListCourses, opts...))
	mux.Handle(GetCourseProcedure, connect.NewUnaryHandler(GetCourseProcedure, courses.GetCourse, opts...))
	mux.Handle(SetCourseStatusProcedure, connect.NewUnaryHandler(SetCourseStatusProcedure, courses.SetCourseStatus, opts...))

	mux.Handle(CreateLearnerProcedure, connect.NewUnaryHandler(CreateLearnerProcedure, learners.CreateLearner, opts...))
	mux.Handle(ListLearnersProcedure, connect.NewUnaryHandler(ListLearnersProcedure, learners.ListLearners, opts...))
	mux.Handle(SetLearnerStatusProcedure, connect.NewUnaryHandler(SetLearnerStatusProcedure, learners.SetLearnerStatus, opts...))

	mux.Handle(CheckAssignmentProcedure, connect.NewUnaryHandler(CheckAssignmentProcedure, enrollments.CheckAssignment, opts...))
	mux.Handle(AssignProcedure, connect.NewUnaryHandler(AssignProcedure, enrollments.Assign, opts...))
	mux.Handle(UpdateProgressProcedure, connect.NewUnaryHandler(UpdateProgressProcedure, enrollments.UpdateProgress, opts...))
	mux.Handle(SuspendProcedure, connect.NewUnaryHandler(SuspendProcedure, enrollments.Suspend, opts...))
	mux.Handle(RemoveProcedure, connect.NewUnaryHandler(RemoveProcedure, enrollments.Remove, opts...))
	mux.Handle(ListEnrollmentsProcedure, connect.NewUnaryHandler(ListEnrollmentsProcedure, enrollments.ListEnrollments, opts...))

	mux.Handle(SubmitRegistrationProcedure, connect.NewUnaryHandler(SubmitRegistrationProcedure, registrations.SubmitRegistration, opts...))
	mux.Handle(ListRegistrationsProcedure, connect.NewUnaryHandler(ListRegistrationsProcedure, registrations.ListRegistrations, opts...))
	mux.Handle(ApproveRegistrationProcedure, connect.NewUnaryHandler(ApproveRegistrationProcedure, registrations.ApproveRegistration, opts...))
	mux.Handle(RejectRegistrationProcedure, connect.NewUnaryHandler(RejectRegistrationProcedure, registrations.RejectRegistration, opts...))
	return mux, nil
}

// CORS allows browser dashboards served from allowedOrigins to call the API.
func CORS(next http.Handler, allowedOrigins []string) http.Handler {
	allowed := make(map[string]bool, len(allowedOrigins))
	for _, o := range allowedOrigins {
		allowed[o] = true
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		origin := r.Header.Get("Origin")
		if allowed[origin] {
			w.Header().Set("Access-Control-Allow-Origin", origin)
			w.Header().Add("Vary", "Origin")
		}
		w.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Authorization, Content-Type, Connect-Protocol-Version")
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}
