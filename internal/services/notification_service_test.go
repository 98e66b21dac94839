package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
)

func TestNotificationService_NotifyUser(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	notifications := NewNotificationService(env.repos.Notification, env.repos.User)
	user := env.createUser(t, "user@doclave.test", models.RoleUser)

	err := notifications.NotifyUser(ctx, user.ID, "Document approved", "Your policy went active", models.NotificationTypeDocumentApproved)
	require.NoError(t, err)

	list, total, err := notifications.FindByUser(ctx, user.ID, &repository.ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, list, 1)
	assert.Equal(t, "Document approved", list[0].Title)
	assert.Nil(t, list[0].ReadAt)
}

func TestNotificationService_NotifyOfficers(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	notifications := NewNotificationService(env.repos.Notification, env.repos.User)
	env.createUser(t, "user@doclave.test", models.RoleUser)
	officer := env.createUser(t, "officer@doclave.test", models.RoleComplianceOfficer)
	admin := env.createUser(t, "admin@doclave.test", models.RoleAdmin)

	err := notifications.NotifyOfficers(ctx, "Approval needed", "A document is pending review", models.NotificationTypeDocumentSubmitted)
	require.NoError(t, err)

	for _, elevated := range []uint{officer.ID, admin.ID} {
		_, total, err := notifications.FindByUser(ctx, elevated, &repository.ListQuery{Page: 1, PerPage: 10})
		require.NoError(t, err)
		assert.Equal(t, int64(1), total)
	}
}

func TestNotificationService_MarkAsRead(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	notifications := NewNotificationService(env.repos.Notification, env.repos.User)
	user := env.createUser(t, "user@doclave.test", models.RoleUser)

	require.NoError(t, notifications.NotifyUser(ctx, user.ID, "First", "msg", models.NotificationTypeDocumentApproved))
	require.NoError(t, notifications.NotifyUser(ctx, user.ID, "Second", "msg", models.NotificationTypeDocumentApproved))

	list, _, err := notifications.FindByUser(ctx, user.ID, &repository.ListQuery{Page: 1, PerPage: 10})
	require.NoError(t, err)
	require.Len(t, list, 2)

	require.NoError(t, notifications.MarkAsRead(ctx, list[0].ID))
	read, err := notifications.FindByID(ctx, list[0].ID)
	require.NoError(t, err)
	assert.NotNil(t, read.ReadAt)

	// Unread filter hides the read one
	unread, total, err := notifications.FindByUser(ctx, user.ID, &repository.ListQuery{
		Page: 1, PerPage: 10,
		Filters: map[string]string{"unread": "true"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, unread, 1)

	require.NoError(t, notifications.MarkAllAsRead(ctx, user.ID))
	_, total, err = notifications.FindByUser(ctx, user.ID, &repository.ListQuery{
		Page: 1, PerPage: 10,
		Filters: map[string]string{"unread": "true"},
	})
	require.NoError(t, err)
	assert.Zero(t, total)
}
