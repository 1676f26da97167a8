package register

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

	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-service/internal/models"
	userservice "github.com/magabrotheeeer/account-service/internal/services/user"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

// Мок сервиса с методом Create
type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) Create(ctx context.Context, username, email, rawPassword, role string) (*models.User, error) {
	args := m.Called(ctx, username, email, rawPassword, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestRegisterHandler_ServeHTTP(t *testing.T) {
	createdUser := &models.User{
		UID:      "new-uid",
		Username: "user1",
		Email:    "user1@example.com",
		Role:     models.RoleUser,
	}

	tests := []struct {
		name           string
		requestBody    interface{}
		mockUser       *models.User
		mockErr        error
		callsService   bool
		wantStatusCode int
		wantError      string
		wantStatus     string
	}{
		{
			name: "valid registration",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockUser:       createdUser,
			callsService:   true,
			wantStatusCode: http.StatusCreated,
			wantStatus:     "OK",
		},
		{
			name:           "invalid json body",
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
			wantStatus:     "Error",
		},
		{
			name: "validation error - missing password",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is a required field",
			wantStatus:     "Error",
		},
		{
			name: "validation error - username too short",
			requestBody: Request{
				Username: "ab",
				Email:    "user1@example.com",
				Password: "password123",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Username is shorter than 3 characters",
			wantStatus:     "Error",
		},
		{
			name: "validation error - password too short",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "12345",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is shorter than 6 characters",
			wantStatus:     "Error",
		},
		{
			name: "validation error - bad role",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
				Role:     "SUPERADMIN",
			},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Role must be one of: ADMIN USER MANAGER",
			wantStatus:     "Error",
		},
		{
			name: "duplicate email or username",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockErr:        repository.ErrUserExists,
			callsService:   true,
			wantStatusCode: http.StatusConflict,
			wantError:      "user with this email or username already exists",
			wantStatus:     "Error",
		},
		{
			name: "invalid role from service",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockErr:        userservice.ErrInvalidRole,
			callsService:   true,
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "invalid role",
			wantStatus:     "Error",
		},
		{
			name: "service error",
			requestBody: Request{
				Username: "user1",
				Email:    "user1@example.com",
				Password: "password123",
			},
			mockErr:        errors.New("db error"),
			callsService:   true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to register new user",
			wantStatus:     "Error",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(UserServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.callsService {
				serviceMock.On("Create", mock.Anything,
					"user1", "user1@example.com", "password123", mock.Anything,
				).Return(tt.mockUser, tt.mockErr).Once()
			}

			var bodyBytes []byte
			var err error
			switch v := tt.requestBody.(type) {
			case string:
				bodyBytes = []byte(v)
			default:
				bodyBytes, err = json.Marshal(tt.requestBody)
				if err != nil {
					t.Fatal(err)
				}
			}

			req := httptest.NewRequest(http.MethodPost, "/register", bytes.NewReader(bodyBytes))
			req = req.WithContext(context.WithValue(req.Context(), middleware.RequestIDKey, "reqid123"))

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			assert.Equal(t, tt.wantStatus, got["status"])

			if tt.wantError != "" {
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Nil(t, got["error"])
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "user1", data["username"])
				assert.Nil(t, data["password_hash"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
