package update

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

	"github.com/go-chi/chi"
	"github.com/go-chi/chi/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-service/internal/http/middlewarectx"
	"github.com/magabrotheeeer/account-service/internal/models"
	authservice "github.com/magabrotheeeer/account-service/internal/services/auth"
	"github.com/magabrotheeeer/account-service/internal/storage/repository"
)

const targetUID = "8f2cb7f9-6a3f-43e2-9f2a-111111111111"

// Мок сервиса с методом Update
type UserServiceMock struct {
	mock.Mock
}

func (m *UserServiceMock) Update(ctx context.Context, actor *models.User, targetUID string, data models.UpdateUserData) (*models.User, error) {
	args := m.Called(ctx, actor, targetUID, data)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func TestUpdateHandler_ServeHTTP(t *testing.T) {
	actor := &models.User{UID: targetUID, Username: "user1", Role: models.RoleUser}
	updatedUser := &models.User{
		UID:      targetUID,
		Username: "newname",
		Email:    "user1@example.com",
		Role:     models.RoleUser,
	}
	strPtr := func(s string) *string { return &s }

	tests := []struct {
		name           string
		uid            string
		ctxUser        *models.User
		requestBody    interface{}
		mockUser       *models.User
		mockErr        error
		callsService   bool
		wantStatusCode int
		wantError      string
	}{
		{
			name:           "successful update",
			uid:            targetUID,
			ctxUser:        actor,
			requestBody:    Request{Username: strPtr("newname")},
			mockUser:       updatedUser,
			callsService:   true,
			wantStatusCode: http.StatusOK,
		},
		{
			name:           "invalid uid",
			uid:            "not-a-uuid",
			ctxUser:        actor,
			requestBody:    Request{Username: strPtr("newname")},
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid user uid",
		},
		{
			name:           "invalid json body",
			uid:            targetUID,
			ctxUser:        actor,
			requestBody:    "not a json",
			wantStatusCode: http.StatusBadRequest,
			wantError:      "invalid request body",
		},
		{
			name:           "validation error - short password",
			uid:            targetUID,
			ctxUser:        actor,
			requestBody:    Request{Password: strPtr("12345")},
			wantStatusCode: http.StatusUnprocessableEntity,
			wantError:      "field Password is shorter than 6 characters",
		},
		{
			name:           "anonymous request",
			uid:            targetUID,
			ctxUser:        nil,
			requestBody:    Request{Username: strPtr("newname")},
			mockErr:        authservice.ErrUnauthenticated,
			callsService:   true,
			wantStatusCode: http.StatusUnauthorized,
			wantError:      "authentication required",
		},
		{
			name:           "foreign profile",
			uid:            targetUID,
			ctxUser:        &models.User{UID: "other-uid", Role: models.RoleUser},
			requestBody:    Request{Username: strPtr("newname")},
			mockErr:        authservice.ErrForbidden,
			callsService:   true,
			wantStatusCode: http.StatusForbidden,
			wantError:      "you can only update your own profile",
		},
		{
			name:           "target not found",
			uid:            targetUID,
			ctxUser:        actor,
			requestBody:    Request{Username: strPtr("newname")},
			mockErr:        repository.ErrUserNotFound,
			callsService:   true,
			wantStatusCode: http.StatusNotFound,
			wantError:      "user not found",
		},
		{
			name:           "conflicting username",
			uid:            targetUID,
			ctxUser:        actor,
			requestBody:    Request{Username: strPtr("newname")},
			mockErr:        repository.ErrUserExists,
			callsService:   true,
			wantStatusCode: http.StatusConflict,
			wantError:      "user with this email or username already exists",
		},
		{
			name:           "service error",
			uid:            targetUID,
			ctxUser:        actor,
			requestBody:    Request{Username: strPtr("newname")},
			mockErr:        errors.New("db error"),
			callsService:   true,
			wantStatusCode: http.StatusInternalServerError,
			wantError:      "failed to update user",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			serviceMock := new(UserServiceMock)
			handler := New(newNoopLogger(), serviceMock)

			if tt.callsService {
				serviceMock.On("Update", mock.Anything, tt.ctxUser, tt.uid, mock.Anything).
					Return(tt.mockUser, tt.mockErr).Once()
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

			req := httptest.NewRequest(http.MethodPut, "/users/"+tt.uid, bytes.NewReader(bodyBytes))

			rctx := chi.NewRouteContext()
			rctx.URLParams.Add("uid", tt.uid)
			ctx := context.WithValue(req.Context(), chi.RouteCtxKey, rctx)
			ctx = context.WithValue(ctx, middleware.RequestIDKey, "reqid123")
			if tt.ctxUser != nil {
				ctx = context.WithValue(ctx, middlewarectx.UserKey, tt.ctxUser)
			}
			req = req.WithContext(ctx)

			rec := httptest.NewRecorder()

			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatusCode, rec.Code)

			var got map[string]any
			err = json.NewDecoder(rec.Body).Decode(&got)
			assert.NoError(t, err)

			if tt.wantError != "" {
				assert.Equal(t, "Error", got["status"])
				errStr, ok := got["error"].(string)
				assert.True(t, ok)
				assert.Equal(t, tt.wantError, errStr)
			} else {
				assert.Equal(t, "OK", got["status"])
				data, ok := got["data"].(map[string]any)
				assert.True(t, ok)
				assert.Equal(t, "newname", data["username"])
			}

			serviceMock.AssertExpectations(t)
		})
	}
}
