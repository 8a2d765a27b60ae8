package utils

import (
	"log"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"gopkg.in/gomail.v2"
)

// SendEmail delivers an HTML email through the SMTP relay configured in the
// environment. EMAIL_FROM overrides the From header; it defaults to the
// authenticating account.
func SendEmail(to, subject, body string) error {
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: Error loading .env file. Using environment variables directly.")
	}
	port, _ := strconv.Atoi(os.Getenv("SMTP_PORT"))

	from := os.Getenv("EMAIL_FROM")
	if from == "" {
		from = os.Getenv("EMAIL_USER")
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", subject)
	m.SetBody("text/html", body)

	d := gomail.NewDialer(
		os.Getenv("SMTP_HOST"),
		port,
		os.Getenv("EMAIL_USER"),
		os.Getenv("EMAIL_PASS"),
	)

	return d.DialAndSend(m)
}
