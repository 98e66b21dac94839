package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/doclave/doclave-api/internal/jobs"
	"github.com/doclave/doclave-api/internal/models"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/pkg/logger"
)

// UserService handles user account management
type UserService struct {
	repo            repository.UserRepository
	worker          *jobs.Worker
	emailService    *EmailService
	notificationSvc *NotificationService
}

func NewUserService(repo repository.UserRepository, worker *jobs.Worker, emailService *EmailService, notificationSvc *NotificationService) *UserService {
	return &UserService{
		repo:            repo,
		worker:          worker,
		emailService:    emailService,
		notificationSvc: notificationSvc,
	}
}

func (s *UserService) FindByID(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserService) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	user, err := s.repo.FindByEmail(ctx, email)
	if err != nil {
		return nil, ErrNotFound
	}
	return user, nil
}

func (s *UserService) List(ctx context.Context, query *repository.ListQuery) ([]models.User, int64, error) {
	return s.repo.List(ctx, query)
}

func (s *UserService) Create(ctx context.Context, user *models.User, password string) error {
	user.Email = strings.ToLower(user.Email)
	if _, err := s.repo.FindByEmail(ctx, user.Email); err == nil {
		return ErrDuplicate
	}

	hashedPassword, err := HashPassword(password)
	if err != nil {
		return err
	}
	user.EncryptedPassword = hashedPassword
	if err := s.repo.Create(ctx, user); err != nil {
		return err
	}

	userID := user.ID
	email := user.Email
	fullName := user.FullName
	s.worker.EnqueueAsync(func(ctx context.Context) error {
		if err := s.notificationSvc.NotifyAdmins(ctx,
			"New user created",
			fmt.Sprintf("Account created for %s (%s)", fullName, email),
			models.NotificationTypeNewUser); err != nil {
			return err
		}
		if err := s.emailService.SendAccountCreated(ctx, userID); err != nil {
			logger.Warn("Failed to send welcome email", "user_id", userID, "error", err)
		}
		return nil
	})

	return nil
}

func (s *UserService) Update(ctx context.Context, user *models.User) error {
	return s.repo.Update(ctx, user)
}

func (s *UserService) Delete(ctx context.Context, id uint) error {
	if _, err := s.repo.FindByID(ctx, id); err != nil {
		return ErrNotFound
	}
	return s.repo.SoftDelete(ctx, id)
}

func (s *UserService) Restore(ctx context.Context, id uint) error {
	return s.repo.Restore(ctx, id)
}

// ToggleStatus flips a user between active and disabled
func (s *UserService) ToggleStatus(ctx context.Context, id uint) (*models.User, error) {
	user, err := s.repo.FindByID(ctx, id)
	if err != nil {
		return nil, ErrNotFound
	}
	if user.Status == models.StatusActive {
		user.Status = models.StatusDisabled
	} else {
		user.Status = models.StatusActive
	}
	if err := s.repo.Update(ctx, user); err != nil {
		return nil, err
	}
	return user, nil
}

func (s *UserService) ChangePassword(ctx context.Context, userID uint, currentPassword, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return ErrNotFound
	}
	if !VerifyPassword(currentPassword, user.EncryptedPassword) {
		return ErrInvalidPassword
	}
	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.EncryptedPassword = hashedPassword
	return s.repo.Update(ctx, user)
}

// ForceChangePassword resets a password without the current one. Admin only,
// enforced at the handler.
func (s *UserService) ForceChangePassword(ctx context.Context, userID uint, newPassword string) error {
	user, err := s.repo.FindByID(ctx, userID)
	if err != nil {
		return ErrNotFound
	}
	hashedPassword, err := HashPassword(newPassword)
	if err != nil {
		return err
	}
	user.EncryptedPassword = hashedPassword
	return s.repo.Update(ctx, user)
}
