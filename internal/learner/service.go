package learner

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidLearner reports a learner that cannot be stored as given.
var ErrInvalidLearner = errors.New("invalid learner")

type CreateInput struct {
	Name      string
	Email     string
	Phone     string
	CreatedBy *int64
}

// Service manages single learners. Bulk loads go through Importer.
type Service struct {
	repo               Repository
	defaultCountryCode string
}

func NewService(repo Repository, defaultCountryCode string) *Service {
	return &Service{repo: repo, defaultCountryCode: defaultCountryCode}
}

// Create stores an active learner keyed by the normalized phone number.
func (s *Service) Create(ctx context.Context, in CreateInput) (*Learner, error) {
	phone, err := NormalizePhone(in.Phone, s.defaultCountryCode)
	if err != nil {
		return nil, err
	}
	var email string
	if strings.TrimSpace(in.Email) != "" {
		email, err = NormalizeEmail(in.Email)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", err, ErrInvalidLearner)
		}
	}
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return nil, fmt.Errorf("name is required: %w", ErrInvalidLearner)
	}

	existing, err := s.repo.FindByPhone(ctx, phone)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		return nil, fmt.Errorf("%s: %w", phone, ErrDuplicatePhone)
	}

	l := &Learner{
		Name:      name,
		Email:     email,
		Phone:     phone,
		Status:    StatusActive,
		CreatedBy: in.CreatedBy,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}
	return l, nil
}

func (s *Service) Get(ctx context.Context, id int64) (*Learner, error) {
	l, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if l == nil {
		return nil, ErrLearnerNotFound
	}
	return l, nil
}

func (s *Service) List(ctx context.Context, filter Filter) ([]Learner, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", filter.Status, ErrInvalidLearner)
	}
	return s.repo.FindAll(ctx, filter)
}

// SetStatus soft-activates or deactivates a learner. Learners are never deleted.
func (s *Service) SetStatus(ctx context.Context, id int64, status Status) (*Learner, error) {
	if !status.Valid() {
		return nil, fmt.Errorf("unknown status %q: %w", status, ErrInvalidLearner)
	}
	if err := s.repo.SetStatus(ctx, id, status); err != nil {
		return nil, err
	}
	return s.Get(ctx, id)
}
