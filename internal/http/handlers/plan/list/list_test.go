package list

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/imobsites/platform/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListActivePlans(ctx context.Context) ([]*models.Plan, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.Plan), args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{}))

	tests := []struct {
		name           string
		setupMock      func(*MockService)
		expectedStatus int
		checkBody      func(t *testing.T, body string)
	}{
		{
			name: "returns active plans",
			setupMock: func(m *MockService) {
				m.On("ListActivePlans", mock.Anything).Return([]*models.Plan{
					{Code: "monthly", Name: "Plano Mensal", PricePerMonth: 129.90, Months: 1},
					{Code: "annual", Name: "Plano Anual", PricePerMonth: 99.90, Months: 12, IsFeatured: true},
				}, nil)
			},
			expectedStatus: http.StatusOK,
			checkBody: func(t *testing.T, body string) {
				assert.Contains(t, body, `"success":true`)
				assert.Contains(t, body, `"annual"`)
				assert.Contains(t, body, `"is_featured":true`)
			},
		},
		{
			name: "service error",
			setupMock: func(m *MockService) {
				m.On("ListActivePlans", mock.Anything).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			checkBody: func(t *testing.T, body string) {
				assert.JSONEq(t, `{"success":false,"error":"could not list plans"}`, body)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockService := new(MockService)
			tt.setupMock(mockService)

			handler := New(logger, mockService)

			req := httptest.NewRequest(http.MethodGet, "/api/plans", nil)
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "req-id"))

			w := httptest.NewRecorder()
			handler.ServeHTTP(w, req)

			assert.Equal(t, tt.expectedStatus, w.Code)
			tt.checkBody(t, w.Body.String())
			mockService.AssertExpectations(t)
		})
	}
}
