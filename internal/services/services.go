package services

import (
	"gorm.io/gorm"

	"github.com/doclave/doclave-api/internal/config"
	"github.com/doclave/doclave-api/internal/jobs"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/internal/storage"
)

// Services holds all service instances
type Services struct {
	Auth         *AuthService
	User         *UserService
	Document     *DocumentService
	Signature    *SignatureService
	Deadline     *DeadlineService
	Template     *TemplateService
	UserFile     *UserFileService
	Notification *NotificationService
	Report       *ReportService
	Audit        *AuditService
	Email        *EmailService
	Analytics    *AnalyticsService
	Export       *ExportService
	Job          *JobService
}

// NewServices creates all service instances
func NewServices(repos *repository.Repositories, worker *jobs.Worker, store storage.ObjectStorage, cfg *config.Config, db *gorm.DB) *Services {
	notificationSvc := NewNotificationService(repos.Notification, repos.User)
	emailSvc := NewEmailService(cfg, repos.User)
	auditSvc := NewAuditService(repos.Audit)

	analyticsSvc := NewAnalyticsService(repos.Analytics, repos.Document, repos.Signature, repos.Deadline, repos.Audit, repos.UserDocument)
	jobSvc := NewJobService(worker)

	return &Services{
		Auth:         NewAuthService(repos.User, repos.RefreshToken, auditSvc, cfg),
		User:         NewUserService(repos.User, worker, emailSvc, notificationSvc),
		Document:     NewDocumentService(db, repos.Document, repos.Template, auditSvc, notificationSvc, emailSvc, worker),
		Signature:    NewSignatureService(db, repos.Signature, repos.Document, auditSvc, notificationSvc, worker),
		Deadline:     NewDeadlineService(db, repos.Deadline, repos.Document, auditSvc, notificationSvc, emailSvc, worker),
		Template:     NewTemplateService(db, repos.Template, auditSvc),
		UserFile:     NewUserFileService(repos.UserDocument, store, auditSvc, cfg),
		Notification: notificationSvc,
		Report:       NewReportService(repos.Document, repos.Audit),
		Audit:        auditSvc,
		Email:        emailSvc,
		Analytics:    analyticsSvc,
		Export:       NewExportService(analyticsSvc),
		Job:          jobSvc,
	}
}
