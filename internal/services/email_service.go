package services

import (
	"bytes"
	"context"
	"embed"
	"fmt"
	"html/template"
	"time"

	"github.com/resend/resend-go/v2"

	"github.com/doclave/doclave-api/internal/config"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/pkg/logger"
)

//go:embed templates/email/*.html
var emailTemplates embed.FS

type EmailService struct {
	config       *config.Config
	userRepo     repository.UserRepository
	resendClient *resend.Client
}

func NewEmailService(cfg *config.Config, userRepo repository.UserRepository) *EmailService {
	client := resend.NewClient(cfg.ResendAPIKey)
	return &EmailService{
		config:       cfg,
		userRepo:     userRepo,
		resendClient: client,
	}
}

func (s *EmailService) SendAccountCreated(ctx context.Context, userID uint) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	data := struct {
		Name   string
		AppURL string
	}{
		Name:   user.FullName,
		AppURL: s.config.AppURL,
	}

	body, err := s.renderTemplate("account_created.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, "Welcome to Doclave", body)
}

func (s *EmailService) SendDocumentApproved(ctx context.Context, userID, documentID uint, title string) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	data := struct {
		Name        string
		Title       string
		DocumentURL string
		AppURL      string
	}{
		Name:        user.FullName,
		Title:       title,
		DocumentURL: fmt.Sprintf("%s/documents/%d", s.config.AppURL, documentID),
		AppURL:      s.config.AppURL,
	}

	body, err := s.renderTemplate("document_approved.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, fmt.Sprintf("Document approved: %s", title), body)
}

func (s *EmailService) SendDeadlineOverdue(ctx context.Context, userID uint, title string, due time.Time) error {
	user, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return err
	}

	data := struct {
		Name    string
		Title   string
		DueDate string
		AppURL  string
	}{
		Name:    user.FullName,
		Title:   title,
		DueDate: due.Format("January 2, 2006"),
		AppURL:  s.config.AppURL,
	}

	body, err := s.renderTemplate("deadline_overdue.html", data)
	if err != nil {
		return err
	}

	return s.send(user.Email, fmt.Sprintf("Overdue deadline: %s", title), body)
}

func (s *EmailService) send(to, subject, body string) error {
	params := &resend.SendEmailRequest{
		From:    s.config.FromEmail,
		To:      []string{to},
		Subject: subject,
		Html:    body,
	}
	_, err := s.resendClient.Emails.Send(params)
	if err != nil {
		logger.Error("Failed to send email", "to", to, "subject", subject, "error", err)
		return err
	}

	logger.Info("Email sent", "to", to, "subject", subject)
	return nil
}

func (s *EmailService) renderTemplate(name string, data interface{}) (string, error) {
	tmpl, err := template.ParseFS(emailTemplates, "templates/email/"+name)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}

	return buf.String(), nil
}
