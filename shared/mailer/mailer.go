package mailer

import (
	"fmt"

	"github.com/caarlos0/env/v11"
	"github.com/rs/zerolog"
	"gopkg.in/gomail.v2"
)

// OTPSender delivers one-time codes to an email address. The auth core only
// depends on this capability, not on the SMTP implementation.
type OTPSender interface {
	SendOTPEmail(address, code string) error
}

// Mailer sends transactional email over SMTP.
type Mailer struct {
	config *mailerConfig
	dialer *gomail.Dialer
}

// NewMailer creates a new Mailer instance configured from the environment.
func NewMailer(logger *zerolog.Logger) *Mailer {
	cfg := newMailerConfig(logger)

	if err := cfg.validate(); err != nil {
		logger.Fatal().Err(err).Msg("failed to validate Mailer configuration")
	}

	dialer := gomail.NewDialer(
		cfg.Host,
		cfg.Port,
		cfg.Username,
		cfg.Password,
	)

	return &Mailer{
		config: cfg,
		dialer: dialer,
	}
}

// SendOTPEmail sends the verification code to address. The code appears in
// plaintext only inside the message body; it is never logged.
func (m *Mailer) SendOTPEmail(address, code string) error {
	if address == "" || code == "" {
		return fmt.Errorf("address and code are required")
	}

	htmlBody := fmt.Sprintf(`
		<div style="font-family: Arial, sans-serif; line-height: 1.4;">
			<h2>Email Verification</h2>
			<p>Your one-time password (OTP) is:</p>

			<h1 style="letter-spacing: 3px; font-size: 32px;">%s</h1>

			<p>This OTP will expire in %d minutes.</p>

			<p>If you did not request this, please ignore this email.</p>
		</div>
	`, code, m.config.OTPTTLMinutes)

	return m.sendHTML([]string{address}, m.config.OTPSubject, htmlBody)
}

// sendHTML sends a single HTML email.
func (m *Mailer) sendHTML(to []string, subject, htmlBody string) error {
	if len(to) == 0 {
		return fmt.Errorf("no recipients specified")
	}

	msg := gomail.NewMessage()
	msg.SetHeader("From", m.config.From)
	msg.SetHeader("To", to...)
	msg.SetHeader("Subject", subject)
	msg.SetBody("text/html", htmlBody)

	return m.dialer.DialAndSend(msg)
}

// mailerConfig holds SMTP configuration for sending emails.
type mailerConfig struct {
	Host          string `env:"SMTP_HOST"`
	Port          int    `env:"SMTP_PORT"`
	Username      string `env:"SMTP_USERNAME"`
	Password      string `env:"SMTP_PASSWORD"`
	From          string `env:"SMTP_FROM"`
	OTPSubject    string `env:"OTP_SUBJECT"     envDefault:"Your verification code"`
	OTPTTLMinutes int    `env:"OTP_TTL_MINUTES" envDefault:"10"`
}

// newMailerConfig creates a mailerConfig instance from environment variables.
func newMailerConfig(logger *zerolog.Logger) *mailerConfig {
	cfg, err := env.ParseAs[mailerConfig]()
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to parse environment variables")
	}

	return &cfg
}

// validate checks if the Mailer configuration is valid.
func (c *mailerConfig) validate() error {
	if c.Host == "" {
		return fmt.Errorf("missing SMTP_HOST environment variable")
	}
	if c.Port == 0 {
		return fmt.Errorf("missing SMTP_PORT environment variable")
	}
	if c.Username == "" {
		return fmt.Errorf("missing SMTP_USERNAME environment variable")
	}
	if c.Password == "" {
		return fmt.Errorf("missing SMTP_PASSWORD environment variable")
	}
	if c.From == "" {
		return fmt.Errorf("missing SMTP_FROM environment variable")
	}

	return nil
}
