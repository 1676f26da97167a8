package middlewarectx

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"github.com/magabrotheeeer/account-service/internal/models"
)

// Мок сервиса разрешения личности
type IdentityServiceMock struct {
	mock.Mock
}

func (m *IdentityServiceMock) ResolveIdentity(ctx context.Context, authHeader string) *models.User {
	args := m.Called(ctx, authHeader)
	if args.Get(0) == nil {
		return nil
	}
	return args.Get(0).(*models.User)
}

func TestIdentityMiddleware(t *testing.T) {
	resolvedUser := &models.User{UID: "user-uid", Username: "user1", Role: models.RoleUser}

	tests := []struct {
		name       string
		authHeader string
		resolved   *models.User
		wantUser   *models.User
	}{
		{
			name:       "resolved identity lands in context",
			authHeader: "Bearer valid-token",
			resolved:   resolvedUser,
			wantUser:   resolvedUser,
		},
		{
			name:       "anonymous request still passes through",
			authHeader: "",
			resolved:   nil,
			wantUser:   nil,
		},
		{
			name:       "broken token degrades to anonymous",
			authHeader: "Bearer garbage",
			resolved:   nil,
			wantUser:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc := new(IdentityServiceMock)
			svc.On("ResolveIdentity", mock.Anything, tt.authHeader).Return(tt.resolved).Once()

			var gotUser *models.User
			called := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				called = true
				gotUser = CurrentUser(r.Context())
				w.WriteHeader(http.StatusOK)
			})

			req := httptest.NewRequest(http.MethodGet, "/users/me", nil)
			if tt.authHeader != "" {
				req.Header.Set("Authorization", tt.authHeader)
			}
			rec := httptest.NewRecorder()

			IdentityMiddleware(svc)(next).ServeHTTP(rec, req)

			assert.True(t, called)
			assert.Equal(t, tt.wantUser, gotUser)
			svc.AssertExpectations(t)
		})
	}
}

func TestCurrentUser_EmptyContext(t *testing.T) {
	assert.Nil(t, CurrentUser(context.Background()))
}
