package services

import (
	"context"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/doclave/doclave-api/internal/config"
	"github.com/doclave/doclave-api/internal/database"
	"github.com/doclave/doclave-api/internal/jobs"
	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/internal/storage"
)

// testEnv wires the service layer against an in-memory sqlite database so
// transactional behavior (mutation + audit in one commit) is tested for real.
type testEnv struct {
	db     *gorm.DB
	repos  *repository.Repositories
	worker *jobs.Worker
	store  *storage.MemoryStorage
	cfg    *config.Config

	audits     *AuditService
	documents  *DocumentService
	signatures *SignatureService
	deadlines  *DeadlineService
	templates  *TemplateService
	userFiles  *UserFileService
	analytics  *AnalyticsService
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, database.Migrate(db))

	repos := repository.NewRepositories(db)
	worker := jobs.NewWorker(0)
	t.Cleanup(worker.Shutdown)

	cfg := &config.Config{
		AppURL:          "http://localhost:8080",
		FromEmail:       "noreply@doclave.test",
		MaxUploadSizeMB: 1,
	}

	store := storage.NewMemoryStorage()

	auditSvc := NewAuditService(repos.Audit)
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg, repos.User)

	return &testEnv{
		db:         db,
		repos:      repos,
		worker:     worker,
		store:      store,
		cfg:        cfg,
		audits:     auditSvc,
		documents:  NewDocumentService(db, repos.Document, repos.Template, auditSvc, notificationSvc, emailSvc, worker),
		signatures: NewSignatureService(db, repos.Signature, repos.Document, auditSvc, notificationSvc, worker),
		deadlines:  NewDeadlineService(db, repos.Deadline, repos.Document, auditSvc, notificationSvc, emailSvc, worker),
		templates:  NewTemplateService(db, repos.Template, auditSvc),
		userFiles:  NewUserFileService(repos.UserDocument, store, auditSvc, cfg),
		analytics:  NewAnalyticsService(repos.Analytics, repos.Document, repos.Signature, repos.Deadline, repos.Audit, repos.UserDocument),
	}
}

func (e *testEnv) createUser(t *testing.T, email, role string) *models.User {
	t.Helper()
	user := &models.User{
		Email:             email,
		EncryptedPassword: "x",
		FullName:          "Test User",
		Role:              role,
		Status:            models.StatusActive,
	}
	require.NoError(t, e.repos.User.Create(context.Background(), user))
	return user
}

func (e *testEnv) actor(user *models.User) ActionContext {
	return ActionContext{UserID: user.ID, IPAddress: "203.0.113.7", UserAgent: "test-agent"}
}

func (e *testEnv) auditCount(t *testing.T, documentID uint) int {
	t.Helper()
	entries, err := e.audits.ListForDocument(context.Background(), documentID)
	require.NoError(t, err)
	return len(entries)
}
