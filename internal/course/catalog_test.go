package course_test

import (
	"bytes"
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/at-ishikawa/microcourse/internal/course"
	"github.com/at-ishikawa/microcourse/internal/identity"
	mock_course "github.com/at-ishikawa/microcourse/internal/mocks/course"
)

var (
	superAdmin = identity.Principal{ID: 1, Role: identity.RoleSuperAdmin}
	admin      = identity.Principal{ID: 2, Role: identity.RoleAdmin}
	learner    = identity.Principal{ID: 3, Role: identity.RoleLearner}
)

func savingsRows(status course.Status) []course.Row {
	return []course.Row{
		{ID: 11, RequestID: "req-1", CourseName: "Savings", Status: status, Visibility: course.VisibilityPublic, Day: 1},
		{ID: 12, RequestID: "req-1", CourseName: "Savings", Status: status, Visibility: course.VisibilityPublic, Day: 2},
	}
}

func TestCatalog_ListEligibleCourses(t *testing.T) {
	ctrl := gomock.NewController(t)
	repo := mock_course.NewMockRepository(ctrl)
	repo.EXPECT().FindRows(gomock.Any(), course.Filter{Statuses: course.EligibleStatuses}).
		Return(savingsRows(course.StatusActive), nil)

	got, err := course.NewCatalog(repo).ListEligibleCourses(context.Background(), course.Filter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(11), got[0].ID)
	assert.Len(t, got[0].Days, 2)
}

func TestCatalog_ListCourses(t *testing.T) {
	tests := []struct {
		name       string
		actor      identity.Principal
		filter     course.Filter
		wantFilter course.Filter
	}{
		{
			name:       "admin filter is passed through",
			actor:      admin,
			filter:     course.Filter{Statuses: []course.Status{course.StatusDraft}},
			wantFilter: course.Filter{Statuses: []course.Status{course.StatusDraft}},
		},
		{
			name:       "learner sees assignable public courses only",
			actor:      learner,
			filter:     course.Filter{Statuses: []course.Status{course.StatusDraft}, Query: "sav"},
			wantFilter: course.Filter{Statuses: course.EligibleStatuses, Visibility: course.VisibilityPublic, Query: "sav"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_course.NewMockRepository(ctrl)
			repo.EXPECT().FindRows(gomock.Any(), tt.wantFilter).Return(nil, nil)

			got, err := course.NewCatalog(repo).ListCourses(context.Background(), tt.actor, tt.filter)
			require.NoError(t, err)
			assert.Empty(t, got)
		})
	}
}

func TestCatalog_GetCourse(t *testing.T) {
	tests := []struct {
		name    string
		setup   func(repo *mock_course.MockRepository)
		wantID  int64
		wantErr error
	}{
		{
			name: "any row id resolves the whole course",
			setup: func(repo *mock_course.MockRepository) {
				repo.EXPECT().FindGroupRows(gomock.Any(), int64(12)).Return(savingsRows(course.StatusActive), nil)
			},
			wantID: 11,
		},
		{
			name: "not found",
			setup: func(repo *mock_course.MockRepository) {
				repo.EXPECT().FindGroupRows(gomock.Any(), int64(12)).Return(nil, nil)
			},
			wantErr: course.ErrCourseNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_course.NewMockRepository(ctrl)
			tt.setup(repo)

			got, err := course.NewCatalog(repo).GetCourse(context.Background(), 12)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantID, got.ID)
		})
	}
}

func TestCatalog_SetStatus(t *testing.T) {
	tests := []struct {
		name       string
		actor      identity.Principal
		status     course.Status
		setup      func(repo *mock_course.MockRepository)
		wantStatus course.Status
		wantErr    error
	}{
		{
			name:   "super-admin approves the whole course",
			actor:  superAdmin,
			status: course.StatusApproved,
			setup: func(repo *mock_course.MockRepository) {
				repo.EXPECT().FindGroupRows(gomock.Any(), int64(11)).Return(savingsRows(course.StatusDraft), nil)
				repo.EXPECT().UpdateGroupStatus(gomock.Any(), "req-1", "Savings", course.StatusApproved).Return(nil)
			},
			wantStatus: course.StatusApproved,
		},
		{
			name:   "unchanged status does not write",
			actor:  superAdmin,
			status: course.StatusActive,
			setup: func(repo *mock_course.MockRepository) {
				repo.EXPECT().FindGroupRows(gomock.Any(), int64(11)).Return(savingsRows(course.StatusActive), nil)
			},
			wantStatus: course.StatusActive,
		},
		{
			name:    "admin is forbidden",
			actor:   admin,
			status:  course.StatusApproved,
			setup:   func(repo *mock_course.MockRepository) {},
			wantErr: identity.ErrForbidden,
		},
		{
			name:    "unknown status",
			actor:   superAdmin,
			status:  "published",
			setup:   func(repo *mock_course.MockRepository) {},
			wantErr: course.ErrInvalidStatus,
		},
		{
			name:   "repository failure",
			actor:  superAdmin,
			status: course.StatusArchived,
			setup: func(repo *mock_course.MockRepository) {
				repo.EXPECT().FindGroupRows(gomock.Any(), int64(11)).Return(savingsRows(course.StatusActive), nil)
				repo.EXPECT().UpdateGroupStatus(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).Return(errors.New("deadlock"))
			},
			wantErr: errors.New("deadlock"),
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			repo := mock_course.NewMockRepository(ctrl)
			tt.setup(repo)

			got, err := course.NewCatalog(repo).SetStatus(context.Background(), tt.actor, 11, tt.status)
			if tt.wantErr != nil {
				if errors.Is(tt.wantErr, identity.ErrForbidden) || errors.Is(tt.wantErr, course.ErrInvalidStatus) {
					assert.ErrorIs(t, err, tt.wantErr)
				} else {
					assert.ErrorContains(t, err, tt.wantErr.Error())
				}
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantStatus, got.Status)
		})
	}
}

func TestCatalog_ImportDefinitions(t *testing.T) {
	creator := int64(1)
	defs := []course.Definition{
		{RequestID: "req-1", Name: "Savings", Days: []course.DefinitionDay{{Title: "a"}}},
		{Name: "Crops", Visibility: course.VisibilityPublic, Days: []course.DefinitionDay{{Title: "Soil"}, {Title: "Water"}}},
	}

	t.Run("existing courses are skipped", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_course.NewMockRepository(ctrl)
		repo.EXPECT().FindRows(gomock.Any(), course.Filter{}).Return(savingsRows(course.StatusActive), nil)
		repo.EXPECT().BatchCreate(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, rows []*course.Row) error {
				require.Len(t, rows, 2)
				assert.Equal(t, &course.Row{
					CourseName: "Crops",
					Status:     course.StatusDraft,
					Visibility: course.VisibilityPublic,
					Day:        2,
					Title:      "Water",
					CreatedBy:  &creator,
				}, rows[1])
				return nil
			})

		got, err := course.NewCatalog(repo).ImportDefinitions(context.Background(), defs, &creator, false, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, &course.ImportResult{CoursesNew: 1, CoursesSkipped: 1, DaysNew: 2}, got)
	})

	t.Run("dry run", func(t *testing.T) {
		ctrl := gomock.NewController(t)
		repo := mock_course.NewMockRepository(ctrl)
		repo.EXPECT().FindRows(gomock.Any(), course.Filter{}).Return(nil, nil)

		got, err := course.NewCatalog(repo).ImportDefinitions(context.Background(), defs, nil, true, &bytes.Buffer{})
		require.NoError(t, err)
		assert.Equal(t, &course.ImportResult{CoursesNew: 2, DaysNew: 3}, got)
	})
}
