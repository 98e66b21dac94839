package repository

import (
	"gorm.io/gorm"
)

// Repositories holds all repository instances
type Repositories struct {
	User         UserRepository
	Document     DocumentRepository
	Signature    SignatureRepository
	Audit        AuditRepository
	Deadline     DeadlineRepository
	Template     TemplateRepository
	UserDocument UserDocumentRepository
	Notification NotificationRepository
	RefreshToken RefreshTokenRepository
	Analytics    AnalyticsRepository
}

// NewRepositories creates all repository instances
func NewRepositories(db *gorm.DB) *Repositories {
	return &Repositories{
		User:         NewUserRepository(db),
		Document:     NewDocumentRepository(db),
		Signature:    NewSignatureRepository(db),
		Audit:        NewAuditRepository(db),
		Deadline:     NewDeadlineRepository(db),
		Template:     NewTemplateRepository(db),
		UserDocument: NewUserDocumentRepository(db),
		Notification: NewNotificationRepository(db),
		RefreshToken: NewRefreshTokenRepository(db),
		Analytics:    NewAnalyticsRepository(db),
	}
}
