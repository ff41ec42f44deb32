package update

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi"
	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/syara/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) UpdateUser(ctx context.Context, id int64, in models.UserUpdate) (*models.User, error) {
	args := m.Called(ctx, id, in)
	if res := args.Get(0); res != nil {
		return res.(*models.User), args.Error(1)
	}
	return nil, args.Error(1)
}

func TestUpdateHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	tests := []struct {
		name           string
		id             string
		body           string
		setupMock      func(*MockService)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "меняется только email",
			id:   "1",
			body: `{"email":"new@example.com"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateUser", mock.Anything, int64(1), mock.MatchedBy(func(in models.UserUpdate) bool {
					return in.Email != nil && *in.Email == "new@example.com" &&
						in.Username == nil && in.Password == nil && in.IsActive == nil
				})).Return(&models.User{ID: 1, Username: "alice", Email: "new@example.com"}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"email":"new@example.com"`,
		},
		{
			name: "деактивация",
			id:   "1",
			body: `{"is_active":false}`,
			setupMock: func(m *MockService) {
				m.On("UpdateUser", mock.Anything, int64(1), mock.MatchedBy(func(in models.UserUpdate) bool {
					return in.IsActive != nil && !*in.IsActive
				})).Return(&models.User{ID: 1, IsActive: false}, nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"is_active":false`,
		},
		{
			name: "пользователь не найден",
			id:   "42",
			body: `{"username":"bob"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateUser", mock.Anything, int64(42), mock.Anything).Return(nil, nil)
			},
			expectedStatus: http.StatusNotFound,
			expectedBody:   `"error":"User not found"`,
		},
		{
			name: "конфликт уникальности",
			id:   "1",
			body: `{"username":"bob"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateUser", mock.Anything, int64(1), mock.Anything).
					Return(nil, &pgconn.PgError{Code: pgerrcode.UniqueViolation})
			},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"Username or email already in use"`,
		},
		{
			name:           "некорректный email",
			id:             "1",
			body:           `{"email":"nope"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `Email`,
		},
		{
			name:           "короткий пароль",
			id:             "1",
			body:           `{"password":"1"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `Password`,
		},
		{
			name:           "пароль длиннее 72 байт в кириллице",
			id:             "1",
			body:           `{"password":"` + strings.Repeat("ж", 40) + `"}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `field Password must be at most 72 bytes`,
		},
		{
			name:           "некорректный JSON",
			id:             "1",
			body:           `not json`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusBadRequest,
			expectedBody:   `"error":"invalid request body"`,
		},
		{
			name:           "некорректный id",
			id:             "x",
			body:           `{}`,
			setupMock:      func(_ *MockService) {},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "ошибка сервиса",
			id:   "1",
			body: `{"username":"bob"}`,
			setupMock: func(m *MockService) {
				m.On("UpdateUser", mock.Anything, int64(1), mock.Anything).Return(nil, errors.New("db error"))
			},
			expectedStatus: http.StatusInternalServerError,
			expectedBody:   `"error":"could not update user"`,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(MockService)
			tt.setupMock(svc)

			req := httptest.NewRequest(http.MethodPatch, "/users/"+tt.id, strings.NewReader(tt.body))
			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("id", tt.id)
			req = req.WithContext(context.WithValue(req.Context(), chi.RouteCtxKey, rctx))
			rr := httptest.NewRecorder()

			New(logger, svc).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
		})
	}
}
