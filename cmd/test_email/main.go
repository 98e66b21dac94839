package main

import (
	"context"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/doclave/doclave-api/internal/config"
	"github.com/doclave/doclave-api/internal/database"
	"github.com/doclave/doclave-api/internal/repository"
	"github.com/doclave/doclave-api/internal/services"
	"github.com/doclave/doclave-api/pkg/logger"
)

// Sends the transactional email templates to a real address so the Resend
// integration and rendered HTML can be checked end to end.
func main() {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	logger.Setup("development")

	if cfg.ResendAPIKey == "" {
		log.Fatal("RESEND_API_KEY is not set")
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}

	repos := repository.NewRepositories(db)
	emailService := services.NewEmailService(cfg, repos.User)

	toEmail := os.Getenv("TEST_EMAIL_TO")
	if toEmail == "" {
		log.Fatal("TEST_EMAIL_TO is not set")
	}

	ctx := context.Background()
	user, err := repos.User.FindByEmail(ctx, toEmail)
	if err != nil {
		log.Fatalf("No user found with email %s: %v", toEmail, err)
	}

	log.Printf("Sending Account Created email to %s...", toEmail)
	if err := emailService.SendAccountCreated(ctx, user.ID); err != nil {
		log.Fatalf("Failed to send Account Created email: %v", err)
	}
	log.Println("Account Created email sent successfully!")

	log.Printf("Sending Document Approved email to %s...", toEmail)
	if err := emailService.SendDocumentApproved(ctx, user.ID, 1, "Sample Compliance Policy"); err != nil {
		log.Fatalf("Failed to send Document Approved email: %v", err)
	}
	log.Println("Document Approved email sent successfully!")

	log.Printf("Sending Deadline Overdue email to %s...", toEmail)
	if err := emailService.SendDeadlineOverdue(ctx, user.ID, "Quarterly Risk Review", time.Now().AddDate(0, 0, -3)); err != nil {
		log.Fatalf("Failed to send Deadline Overdue email: %v", err)
	}
	log.Println("Deadline Overdue email sent successfully!")
}
