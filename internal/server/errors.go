package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"reflect"
	"strings"

	"connectrpc.com/connect"
	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	enTranslations "github.com/go-playground/validator/v10/translations/en"
	"google.golang.org/genproto/googleapis/rpc/errdetails"

	"github.com/at-ishikawa/microcourse/internal/course"
	"github.com/at-ishikawa/microcourse/internal/enrollment"
	"github.com/at-ishikawa/microcourse/internal/identity"
	"github.com/at-ishikawa/microcourse/internal/learner"
	"github.com/at-ishikawa/microcourse/internal/registration"
)

// overwriteViolationType marks the precondition a client satisfies by resending Assign with
// confirm_record_id set to the id in the violation subject.
const overwriteViolationType = "OVERWRITE_CONFIRMATION"

type requestValidator struct {
	validate   *validator.Validate
	translator ut.Translator
}

func newRequestValidator() (*requestValidator, error) {
	validate := validator.New()

	enLocale := en.New()
	uni := ut.New(enLocale, enLocale)
	trans, _ := uni.GetTranslator("en")
	if err := enTranslations.RegisterDefaultTranslations(validate, trans); err != nil {
		return nil, fmt.Errorf("failed to register default translations: %w", err)
	}
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return &requestValidator{validate: validate, translator: trans}, nil
}

// check validates msg and reports every violated field in an errdetails.BadRequest.
func (v *requestValidator) check(msg any) *connect.Error {
	err := v.validate.Struct(msg)
	if err == nil {
		return nil
	}
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return connect.NewError(connect.CodeInvalidArgument, err)
	}

	var fieldViolations []*errdetails.BadRequest_FieldViolation
	var messages []string
	for _, e := range validationErrors {
		description := e.Translate(v.translator)
		messages = append(messages, description)
		fieldViolations = append(fieldViolations, &errdetails.BadRequest_FieldViolation{
			Field:       e.Field(),
			Description: description,
		})
	}
	connectErr := connect.NewError(connect.CodeInvalidArgument, errors.New(strings.Join(messages, ", ")))
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: fieldViolations,
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}

// toConnectError maps domain errors to Connect codes. Unknown errors are logged and hidden.
func toConnectError(ctx context.Context, err error) error {
	var connectErr *connect.Error
	if errors.As(err, &connectErr) {
		return connectErr
	}

	var confirmation *enrollment.ConfirmationRequiredError
	if errors.As(err, &confirmation) {
		connectErr := connect.NewError(connect.CodeFailedPrecondition, err)
		if detail, detailErr := connect.NewErrorDetail(&errdetails.PreconditionFailure{
			Violations: []*errdetails.PreconditionFailure_Violation{{
				Type:        overwriteViolationType,
				Subject:     fmt.Sprintf("enrollment/%d", confirmation.Existing.ID),
				Description: confirmation.Prompt(),
			}},
		}); detailErr == nil {
			connectErr.AddDetail(detail)
		}
		return connectErr
	}

	switch {
	case errors.Is(err, identity.ErrUnauthenticated),
		errors.Is(err, identity.ErrInvalidCredentials):
		return connect.NewError(connect.CodeUnauthenticated, err)
	case errors.Is(err, identity.ErrForbidden),
		errors.Is(err, identity.ErrAccountInactive),
		errors.Is(err, enrollment.ErrAdminAssigned):
		return connect.NewError(connect.CodePermissionDenied, err)
	case errors.Is(err, course.ErrCourseNotFound),
		errors.Is(err, learner.ErrLearnerNotFound),
		errors.Is(err, enrollment.ErrRecordNotFound),
		errors.Is(err, registration.ErrRequestNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, learner.ErrDuplicatePhone),
		errors.Is(err, registration.ErrDuplicate):
		return connect.NewError(connect.CodeAlreadyExists, err)
	case errors.Is(err, enrollment.ErrAlreadyEnrolled),
		errors.Is(err, enrollment.ErrInvalidTransition),
		errors.Is(err, course.ErrCourseNotEligible),
		errors.Is(err, registration.ErrAlreadyReviewed):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, enrollment.ErrValidation),
		errors.Is(err, course.ErrInvalidStatus),
		errors.Is(err, learner.ErrInvalidPhone),
		errors.Is(err, learner.ErrInvalidLearner),
		errors.Is(err, registration.ErrInvalidRequest):
		return invalidArgument(err)
	}

	slog.Default().ErrorContext(ctx, "request failed", "error", err)
	return connect.NewError(connect.CodeInternal, errors.New("internal error"))
}

func invalidArgument(err error) *connect.Error {
	connectErr := connect.NewError(connect.CodeInvalidArgument, err)
	if detail, detailErr := connect.NewErrorDetail(&errdetails.BadRequest{
		FieldViolations: []*errdetails.BadRequest_FieldViolation{{Description: err.Error()}},
	}); detailErr == nil {
		connectErr.AddDetail(detail)
	}
	return connectErr
}
