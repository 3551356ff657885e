package registration

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/at-ishikawa/microcourse/internal/identity"
	"github.com/at-ishikawa/microcourse/internal/learner"
	"github.com/at-ishikawa/microcourse/internal/notification/sendgrid"
)

//go:generate mockgen -source=service.go -destination=../mocks/registration/mock_service.go -package=mock_registration

// Mailer sends review decisions to the applicant.
type Mailer interface {
	Send(ctx context.Context, msg sendgrid.Message) error
}

// AccountFinder checks whether an e-mail already belongs to an account.
type AccountFinder interface {
	FindByEmail(ctx context.Context, email string) (*identity.Account, error)
}

const minPasswordLength = 8

type SubmitInput struct {
	Name         string
	Email        string
	Phone        string
	Organization string
	Password     string
}

type Service struct {
	requests           Repository
	accounts           AccountFinder
	mailer             Mailer
	dashboardURL       string
	defaultCountryCode string
	now                func() time.Time
}

// NewService builds the review service. A nil mailer disables decision e-mails.
func NewService(requests Repository, accounts AccountFinder, mailer Mailer, dashboardURL, defaultCountryCode string) *Service {
	return &Service{
		requests:           requests,
		accounts:           accounts,
		mailer:             mailer,
		dashboardURL:       dashboardURL,
		defaultCountryCode: defaultCountryCode,
		now:                time.Now,
	}
}

// Submit records a pending registration. It needs no principal.
func (s *Service) Submit(ctx context.Context, in SubmitInput) (*Request, error) {
	req, password, err := s.parseSubmission(in)
	if err != nil {
		return nil, err
	}

	pending, err := s.requests.FindPendingByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if pending != nil {
		return nil, ErrDuplicate
	}
	account, err := s.accounts.FindByEmail(ctx, req.Email)
	if err != nil {
		return nil, err
	}
	if account != nil {
		return nil, ErrDuplicate
	}

	hash, err := identity.HashPassword(password)
	if err != nil {
		return nil, err
	}
	req.PasswordHash = hash
	if err := s.requests.Create(ctx, req); err != nil {
		return nil, err
	}
	slog.Default().InfoContext(ctx, "registration submitted", "id", req.ID, "email", req.Email)
	return req, nil
}

func (s *Service) parseSubmission(in SubmitInput) (*Request, string, error) {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, "", fmt.Errorf("name is required: %w", ErrInvalidRequest)
	}
	email, err := learner.NormalizeEmail(in.Email)
	if err != nil {
		return nil, "", fmt.Errorf("%w: %w", err, ErrInvalidRequest)
	}
	if len(in.Password) < minPasswordLength {
		return nil, "", fmt.Errorf("password must be at least %d characters: %w", minPasswordLength, ErrInvalidRequest)
	}
	var phone string
	if strings.TrimSpace(in.Phone) != "" {
		phone, err = learner.NormalizePhone(in.Phone, s.defaultCountryCode)
		if err != nil {
			return nil, "", fmt.Errorf("%v: %w", err, ErrInvalidRequest)
		}
	}
	return &Request{
		Name:         name,
		Email:        email,
		Phone:        phone,
		Organization: strings.TrimSpace(in.Organization),
		Status:       StatusPending,
	}, in.Password, nil
}

// List returns requests with status, pending by default. Super-admin only.
func (s *Service) List(ctx context.Context, actor identity.Principal, status Status) ([]Request, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	if status == "" {
		status = StatusPending
	}
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidRequest)
	}
	return s.requests.ListByStatus(ctx, status)
}

// Approve creates an active admin account for the request and notifies the applicant.
func (s *Service) Approve(ctx context.Context, actor identity.Principal, id int64) (*Request, error) {
	req, err := s.pendingRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	account := &identity.Account{
		Name:         req.Name,
		Email:        req.Email,
		Phone:        req.Phone,
		PasswordHash: req.PasswordHash,
		Role:         identity.RoleAdmin,
		Status:       "active",
	}
	accountID, err := s.requests.Approve(ctx, req.ID, actor.ID, now, account)
	if err != nil {
		return nil, err
	}
	req.Status = StatusApproved
	req.ReviewedBy = &actor.ID
	req.ReviewedAt = &now
	slog.Default().InfoContext(ctx, "registration approved", "id", req.ID, "account", accountID, "by", actor.String())

	body := fmt.Sprintf("Hello %s,\n\nYour registration was approved. You can now sign in with %s.", req.Name, req.Email)
	if s.dashboardURL != "" {
		body += "\n\n" + s.dashboardURL
	}
	s.notify(ctx, req, "Registration approved", body)
	return req, nil
}

// Reject stores the note on the request and notifies the applicant.
func (s *Service) Reject(ctx context.Context, actor identity.Principal, id int64, note string) (*Request, error) {
	req, err := s.pendingRequest(ctx, actor, id)
	if err != nil {
		return nil, err
	}

	now := s.now()
	note = strings.TrimSpace(note)
	if err := s.requests.Reject(ctx, req.ID, actor.ID, now, note); err != nil {
		return nil, err
	}
	req.Status = StatusRejected
	req.ReviewNote = note
	req.ReviewedBy = &actor.ID
	req.ReviewedAt = &now
	slog.Default().InfoContext(ctx, "registration rejected", "id", req.ID, "by", actor.String())

	body := fmt.Sprintf("Hello %s,\n\nYour registration was not approved.", req.Name)
	if note != "" {
		body += "\n\nReason: " + note
	}
	s.notify(ctx, req, "Registration rejected", body)
	return req, nil
}

func (s *Service) pendingRequest(ctx context.Context, actor identity.Principal, id int64) (*Request, error) {
	if err := requireSuperAdmin(actor); err != nil {
		return nil, err
	}
	req, err := s.requests.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req == nil {
		return nil, ErrRequestNotFound
	}
	if req.Status != StatusPending {
		return nil, ErrAlreadyReviewed
	}
	return req, nil
}

// notify is best effort: the decision is already stored.
func (s *Service) notify(ctx context.Context, req *Request, subject, body string) {
	if s.mailer == nil {
		return
	}
	err := s.mailer.Send(ctx, sendgrid.Message{
		ToName:  req.Name,
		ToEmail: req.Email,
		Subject: subject,
		Body:    body,
	})
	if err != nil {
		slog.Default().WarnContext(ctx, "registration email failed", "id", req.ID, "email", req.Email, "error", err)
	}
}

func requireSuperAdmin(actor identity.Principal) error {
	if !actor.Role.Valid() {
		return identity.ErrUnauthenticated
	}
	if actor.Role != identity.RoleSuperAdmin {
		return identity.ErrForbidden
	}
	return nil
}
