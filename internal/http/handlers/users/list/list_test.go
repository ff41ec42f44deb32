package list

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/syara/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) ListUsers(ctx context.Context, skip, limit int) ([]*models.User, error) {
	args := m.Called(ctx, skip, limit)
	if res := args.Get(0); res != nil {
		return res.([]*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestListHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	users := []*models.User{{ID: 1, Username: "a"}, {ID: 2, Username: "b"}}

	tests := []struct {
		name           string
		query          string
		setupMock      func(*MockService)
		expectedStatus int
		expectedCount  int
	}{
		{
			name:  "значения по умолчанию",
			query: "",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, 0, 100).Return(users, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  2,
		},
		{
			name:  "skip и limit",
			query: "?skip=1&limit=1",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, 1, 1).Return(users[1:], nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  1,
		},
		{
			name:  "limit ограничен сверху",
			query: "?limit=5000",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, 0, 1000).Return([]*models.User{}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedCount:  0,
		},
		{
			name:           "отрицательный skip",
			query:          "?skip=-1",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "нечисловой limit",
			query:          "?limit=ten",
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "ошибка сервиса",
			setupMock: func(m *MockService) {
				m.On("ListUsers", mock.Anything, 0, 100).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodGet, "/users/"+tt.query, nil)
			rr := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			if tt.expectedStatus == http.StatusOK {
				var body struct {
					Status string         `json:"status"`
					Data   []*models.User `json:"data"`
				}
				require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
				assert.Equal(t, "OK", body.Status)
				assert.Len(t, body.Data, tt.expectedCount)
			}
			svc.AssertExpectations(t)
		})
	}
}
