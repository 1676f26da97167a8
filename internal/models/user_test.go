package models_test

import (
	"testing"
	"time"

	"github.com/magabrotheeeer/account-service/internal/models"
	"github.com/stretchr/testify/assert"
)

func TestParseRole(t *testing.T) {
	tests := []struct {
		name     string
		role     string
		wantRole string
		wantOK   bool
	}{
		{name: "admin", role: "ADMIN", wantRole: models.RoleAdmin, wantOK: true},
		{name: "user", role: "USER", wantRole: models.RoleUser, wantOK: true},
		{name: "manager", role: "MANAGER", wantRole: models.RoleManager, wantOK: true},
		{name: "empty defaults to user", role: "", wantRole: models.DefaultRole, wantOK: true},
		{name: "unknown role", role: "SUPERADMIN", wantRole: "", wantOK: false},
		{name: "lowercase is invalid", role: "admin", wantRole: "", wantOK: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			role, ok := models.ParseRole(tt.role)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantRole, role)
		})
	}
}

func TestUser_Sanitize(t *testing.T) {
	user := &models.User{
		UID:          "some-uid",
		Username:     "testuser",
		Email:        "test@example.com",
		PasswordHash: "$2a$10$somehash",
		Role:         models.RoleUser,
	}

	sanitized := user.Sanitize()

	assert.Empty(t, sanitized.PasswordHash)
	assert.Equal(t, user.UID, sanitized.UID)
	assert.Equal(t, user.Username, sanitized.Username)
	// Исходная запись не затрагивается
	assert.Equal(t, "$2a$10$somehash", user.PasswordHash)
}

func TestUser_SanitizeNil(t *testing.T) {
	var user *models.User
	assert.Nil(t, user.Sanitize())
}

func TestUser_IsDeleted(t *testing.T) {
	now := time.Now()

	alive := &models.User{UID: "some-uid"}
	assert.False(t, alive.IsDeleted())

	deleted := &models.User{UID: "some-uid", DeletedAt: &now}
	assert.True(t, deleted.IsDeleted())
}
