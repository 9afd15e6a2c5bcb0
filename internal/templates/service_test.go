package templates

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/richxcame/restaurant-backoffice/pkg/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

// MockRepository implements RepositoryInterface for testing
type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) Create(ctx context.Context, t *NewTemplate) (*Template, error) {
	args := m.Called(ctx, t)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Template), args.Error(1)
}

func (m *MockRepository) Get(ctx context.Context, id int64) (*Template, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Template), args.Error(1)
}

func (m *MockRepository) Update(ctx context.Context, id int64, patch Patch) (*Template, error) {
	args := m.Called(ctx, id, patch)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*Template), args.Error(1)
}

func (m *MockRepository) List(ctx context.Context) ([]Template, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]Template), args.Error(1)
}

func appCode(t *testing.T, err error) int {
	t.Helper()
	appErr, ok := err.(*common.AppError)
	require.True(t, ok, "expected AppError, got %v", err)
	return appErr.Code
}

func TestCreateTemplate_DefaultsToActive(t *testing.T) {
	inactive := false

	tests := []struct {
		name           string
		isActive       *bool
		expectedActive bool
	}{
		{"omitted", nil, true},
		{"explicitly inactive", &inactive, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			svc := NewService(mockRepo)
			ctx := context.Background()

			mockRepo.On("Create", ctx, &NewTemplate{
				Name:     "Booking Confirmation",
				Category: CategoryBooking,
				Template: "Dear {customerName}",
				IsActive: tt.expectedActive,
			}).Return(&Template{ID: 1, IsActive: tt.expectedActive}, nil)

			tmpl, err := svc.CreateTemplate(ctx, &CreateTemplateRequest{
				Name:     " Booking Confirmation ",
				Category: "booking",
				Template: "Dear {customerName}",
				IsActive: tt.isActive,
			})

			require.NoError(t, err)
			assert.Equal(t, tt.expectedActive, tmpl.IsActive)
			mockRepo.AssertExpectations(t)
		})
	}
}

func TestCreateTemplate_Validation(t *testing.T) {
	tests := []struct {
		name string
		req  *CreateTemplateRequest
	}{
		{"bad category", &CreateTemplateRequest{Name: "A", Category: "marketing", Template: "x"}},
		{"blank name", &CreateTemplateRequest{Name: " ", Category: "review", Template: "x"}},
		{"blank template", &CreateTemplateRequest{Name: "A", Category: "review", Template: "  "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockRepo := new(MockRepository)
			_, err := NewService(mockRepo).CreateTemplate(context.Background(), tt.req)

			assert.Equal(t, http.StatusBadRequest, appCode(t, err))
			mockRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		})
	}
}

func TestListTemplates_FilterByCategory(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()

	mockRepo.On("List", ctx).Return([]Template{
		{ID: 1, Category: CategoryBooking},
		{ID: 2, Category: CategoryNoShow},
		{ID: 3, Category: CategoryBooking},
	}, nil)

	all, err := svc.ListTemplates(ctx, "")
	require.NoError(t, err)
	assert.Len(t, all, 3)

	booking, err := svc.ListTemplates(ctx, "booking")
	require.NoError(t, err)
	require.Len(t, booking, 2)
	assert.Equal(t, int64(3), booking[1].ID)

	_, err = svc.ListTemplates(ctx, "spam")
	assert.Equal(t, http.StatusBadRequest, appCode(t, err))
}

func TestUpdateTemplate(t *testing.T) {
	off := false
	review := "review"

	t.Run("applies patch", func(t *testing.T) {
		mockRepo := new(MockRepository)
		svc := NewService(mockRepo)
		ctx := context.Background()
		category := CategoryReview

		mockRepo.On("Update", ctx, int64(2), Patch{Category: &category, IsActive: &off}).
			Return(&Template{ID: 2, Category: CategoryReview}, nil)

		tmpl, err := svc.UpdateTemplate(ctx, 2, &UpdateTemplateRequest{Category: &review, IsActive: &off})

		require.NoError(t, err)
		assert.Equal(t, CategoryReview, tmpl.Category)
	})

	t.Run("empty request", func(t *testing.T) {
		_, err := NewService(new(MockRepository)).UpdateTemplate(context.Background(), 2, &UpdateTemplateRequest{})
		assert.Equal(t, http.StatusBadRequest, appCode(t, err))
	})

	t.Run("not found", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("Update", mock.Anything, int64(9), mock.Anything).Return(nil, common.ErrNotFound)

		_, err := NewService(mockRepo).UpdateTemplate(context.Background(), 9, &UpdateTemplateRequest{IsActive: &off})
		assert.Equal(t, http.StatusNotFound, appCode(t, err))
	})

	t.Run("repository failure", func(t *testing.T) {
		mockRepo := new(MockRepository)
		mockRepo.On("Update", mock.Anything, int64(1), mock.Anything).Return(nil, errors.New("db down"))

		_, err := NewService(mockRepo).UpdateTemplate(context.Background(), 1, &UpdateTemplateRequest{IsActive: &off})
		assert.Equal(t, http.StatusInternalServerError, appCode(t, err))
	})
}

func TestRenderTemplate(t *testing.T) {
	mockRepo := new(MockRepository)
	svc := NewService(mockRepo)
	ctx := context.Background()

	mockRepo.On("Get", ctx, int64(1)).Return(&Template{
		ID:       1,
		Template: "Dear {customerName}, your table for {partySize} on {date} is ready.",
	}, nil)

	rendered, err := svc.RenderTemplate(ctx, 1, map[string]string{"customerName": "Ana", "partySize": "2"})

	require.NoError(t, err)
	assert.Equal(t, "Dear Ana, your table for 2 on {date} is ready.", rendered.Text)
	assert.Equal(t, []string{"date"}, rendered.Missing)
}
