package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclave/doclave-api/internal/models"
)

func newUserService(env *testEnv) *UserService {
	notificationSvc := NewNotificationService(env.repos.Notification, env.repos.User)
	emailSvc := NewEmailService(env.cfg, env.repos.User)
	return NewUserService(env.repos.User, env.worker, emailSvc, notificationSvc)
}

func TestUserService_Create(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := newUserService(env)

	user := &models.User{
		Email:    "New.Person@Doclave.Test",
		FullName: "New Person",
		Role:     models.RoleUser,
		Status:   models.StatusActive,
	}
	require.NoError(t, users.Create(ctx, user, "secret-password"))

	// Email is normalized and the password is stored hashed
	assert.Equal(t, "new.person@doclave.test", user.Email)
	assert.NotEqual(t, "secret-password", user.EncryptedPassword)
	assert.True(t, VerifyPassword("secret-password", user.EncryptedPassword))

	duplicate := &models.User{Email: "new.person@doclave.test", FullName: "Dup", Role: models.RoleUser, Status: models.StatusActive}
	assert.ErrorIs(t, users.Create(ctx, duplicate, "another-password"), ErrDuplicate)
}

func TestUserService_ToggleStatus(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := newUserService(env)
	user := env.createUser(t, "toggle@doclave.test", models.RoleUser)

	toggled, err := users.ToggleStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusDisabled, toggled.Status)

	toggled, err = users.ToggleStatus(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusActive, toggled.Status)

	_, err = users.ToggleStatus(ctx, 9999)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestUserService_ChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := newUserService(env)
	user := env.createUserWithPassword(t, "pw@doclave.test", "old-password")

	assert.ErrorIs(t, users.ChangePassword(ctx, user.ID, "wrong", "new-password"), ErrInvalidPassword)

	require.NoError(t, users.ChangePassword(ctx, user.ID, "old-password", "new-password"))
	reloaded, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, VerifyPassword("new-password", reloaded.EncryptedPassword))
}

func TestUserService_ForceChangePassword(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := newUserService(env)
	user := env.createUserWithPassword(t, "reset@doclave.test", "old-password")

	require.NoError(t, users.ForceChangePassword(ctx, user.ID, "admin-set"))
	reloaded, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.True(t, VerifyPassword("admin-set", reloaded.EncryptedPassword))
}

func TestUserService_DeleteAndRestore(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	users := newUserService(env)
	user := env.createUser(t, "gone@doclave.test", models.RoleUser)

	require.NoError(t, users.Delete(ctx, user.ID))
	_, err := users.FindByID(ctx, user.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	require.NoError(t, users.Restore(ctx, user.ID))
	restored, err := users.FindByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "gone@doclave.test", restored.Email)
}
