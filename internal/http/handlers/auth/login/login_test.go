package login

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/syara/internal/lib/jwt"
	"github.com/magabrotheeeer/syara/internal/models"
	"github.com/magabrotheeeer/syara/internal/services/user"
)

type AuthServiceMock struct {
	mock.Mock
}

func (m *AuthServiceMock) Authenticate(ctx context.Context, username, password string) (*models.User, error) {
	args := m.Called(ctx, username, password)
	u, _ := args.Get(0).(*models.User)
	return u, args.Error(1)
}

type TokenMakerMock struct {
	mock.Mock
}

func (m *TokenMakerMock) GenerateToken(userID int64, username string) (string, error) {
	args := m.Called(userID, username)
	return args.String(0), args.Error(1)
}

func TestLoginHandler(t *testing.T) {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	alice := &models.User{ID: 7, Username: "alice", IsActive: true}

	tests := []struct {
		name           string
		body           any
		setup          func(*AuthServiceMock, *TokenMakerMock)
		expectedStatus int
		expectedBody   string
	}{
		{
			name: "успешный вход",
			body: models.Credentials{Username: "alice", Password: "secret1"},
			setup: func(s *AuthServiceMock, tm *TokenMakerMock) {
				s.On("Authenticate", mock.Anything, "alice", "secret1").Return(alice, nil)
				tm.On("GenerateToken", int64(7), "alice").Return("signed.jwt.token", nil)
			},
			expectedStatus: http.StatusOK,
			expectedBody:   `"token":"signed.jwt.token"`,
		},
		{
			name: "неверный пароль",
			body: models.Credentials{Username: "alice", Password: "wrong"},
			setup: func(s *AuthServiceMock, _ *TokenMakerMock) {
				s.On("Authenticate", mock.Anything, "alice", "wrong").Return(nil, user.ErrInvalidCredentials)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"invalid credentials"`,
		},
		{
			name: "неактивный пользователь",
			body: models.Credentials{Username: "alice", Password: "secret1"},
			setup: func(s *AuthServiceMock, _ *TokenMakerMock) {
				s.On("Authenticate", mock.Anything, "alice", "secret1").Return(nil, user.ErrInactiveUser)
			},
			expectedStatus: http.StatusUnauthorized,
			expectedBody:   `"error":"user is inactive"`,
		},
		{
			name:           "пустой пароль",
			body:           map[string]string{"username": "alice"},
			setup:          func(_ *AuthServiceMock, _ *TokenMakerMock) {},
			expectedStatus: http.StatusUnprocessableEntity,
			expectedBody:   `Password`,
		},
		{
			name:           "некорректный JSON",
			body:           "{bad",
			setup:          func(_ *AuthServiceMock, _ *TokenMakerMock) {},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "ошибка хранилища",
			body: models.Credentials{Username: "alice", Password: "secret1"},
			setup: func(s *AuthServiceMock, _ *TokenMakerMock) {
				s.On("Authenticate", mock.Anything, "alice", "secret1").Return(nil, errors.New("db down"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
		{
			name: "ошибка подписи токена",
			body: models.Credentials{Username: "alice", Password: "secret1"},
			setup: func(s *AuthServiceMock, tm *TokenMakerMock) {
				s.On("Authenticate", mock.Anything, "alice", "secret1").Return(alice, nil)
				tm.On("GenerateToken", int64(7), "alice").Return("", errors.New("sign failed"))
			},
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(AuthServiceMock)
			tokens := new(TokenMakerMock)
			tt.setup(svc, tokens)

			var body []byte
			if s, ok := tt.body.(string); ok {
				body = []byte(s)
			} else {
				var err error
				body, err = json.Marshal(tt.body)
				require.NoError(t, err)
			}

			req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
			rr := httptest.NewRecorder()

			New(logger, svc, tokens).ServeHTTP(rr, req)

			assert.Equal(t, tt.expectedStatus, rr.Code)
			assert.Contains(t, rr.Body.String(), tt.expectedBody)
			svc.AssertExpectations(t)
			tokens.AssertExpectations(t)
		})
	}
}

func TestLoginHandler_TokenParsesBack(t *testing.T) {
	maker, err := jwt.NewJWTMaker("test-secret", time.Minute)
	require.NoError(t, err)

	svc := new(AuthServiceMock)
	svc.On("Authenticate", mock.Anything, "alice", "secret1").
		Return(&models.User{ID: 7, Username: "alice", IsActive: true}, nil)

	req := httptest.NewRequest(http.MethodPost, "/auth/login",
		bytes.NewBufferString(`{"username":"alice","password":"secret1"}`))
	rr := httptest.NewRecorder()
	New(slog.New(slog.NewTextHandler(io.Discard, nil)), svc, maker).ServeHTTP(rr, req)
	require.Equal(t, http.StatusOK, rr.Code)

	var resp struct {
		Data struct {
			Token string `json:"token"`
		} `json:"data"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))

	claims, err := maker.ParseToken(resp.Data.Token)
	require.NoError(t, err)
	assert.Equal(t, int64(7), claims.UserID)
	assert.Equal(t, "alice", claims.Username)
}
