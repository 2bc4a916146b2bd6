package usecase

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/storyweaver/story-weaver-api/internal/config"
	"github.com/storyweaver/story-weaver-api/internal/model"
	"github.com/storyweaver/story-weaver-api/internal/repository"
	"github.com/storyweaver/story-weaver-api/shared/mailer"
	"github.com/storyweaver/story-weaver-api/shared/security"
)

// OTPUsecase issues, verifies, and expires one-time codes keyed by email.
type OTPUsecase interface {
	// IssueOTP generates a fresh code for email, replacing any live entry,
	// and hands the plaintext code to the mailer. A mailer failure is
	// returned to the caller; the persisted entry stays in place.
	IssueOTP(ctx context.Context, email string) error

	// VerifyOTP checks code against the live entry for email. Success
	// consumes the entry.
	VerifyOTP(ctx context.Context, email, code string) error

	// VerifyOTPForReset is the password reset variant: success does not
	// consume the entry but marks it verified so a follow-up reset call can
	// redeem it within the reset window. An already-verified entry cannot
	// be verified again; the window is fixed at first verification.
	VerifyOTPForReset(ctx context.Context, email, code string) error
}

var (
	ErrOTPNotFound         = errors.New("otp not found")
	ErrOTPExpired          = errors.New("otp expired")
	ErrOTPAttemptsExceeded = errors.New("otp attempts exceeded")
	ErrOTPInvalid          = errors.New("invalid otp")
)

type otpUsecase struct {
	otpRepo      repository.OtpRepository
	sender       mailer.OTPSender
	ttl          time.Duration
	attemptLimit int
	resetWindow  time.Duration
	now          func() time.Time
}

// NewOTPUsecase creates a new instance of OTPUsecase.
func NewOTPUsecase(otpRepo repository.OtpRepository, sender mailer.OTPSender, cfg config.OTPConfig) OTPUsecase {
	return &otpUsecase{
		otpRepo:      otpRepo,
		sender:       sender,
		ttl:          cfg.TTL,
		attemptLimit: cfg.AttemptLimit,
		resetWindow:  cfg.ResetWindow,
		now:          time.Now,
	}
}

func (u *otpUsecase) IssueOTP(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	code, err := generateOTPCode()
	if err != nil {
		return fmt.Errorf("generate otp: %w", err)
	}

	otpHash, err := security.HashOTP(code)
	if err != nil {
		return fmt.Errorf("hash otp: %w", err)
	}

	entry := &model.OtpEntry{
		Email:     email,
		OtpHash:   otpHash,
		ExpiresAt: u.now().Add(u.ttl),
		Attempts:  0,
	}

	if err := u.otpRepo.UpsertByEmail(ctx, entry); err != nil {
		return fmt.Errorf("store otp: %w", err)
	}

	// The entry stays persisted on mailer failure; a resend overwrites it.
	if err := u.sender.SendOTPEmail(email, code); err != nil {
		return fmt.Errorf("send otp email: %w", err)
	}

	return nil
}

func (u *otpUsecase) VerifyOTP(ctx context.Context, email, code string) error {
	email = NormalizeEmail(email)

	if _, err := u.checkEntry(ctx, email, code); err != nil {
		return err
	}

	return u.otpRepo.DeleteByEmail(ctx, email)
}

func (u *otpUsecase) VerifyOTPForReset(ctx context.Context, email, code string) error {
	email = NormalizeEmail(email)

	entry, err := u.checkEntry(ctx, email, code)
	if err != nil {
		return err
	}

	// Re-submitting the code must not refresh the window.
	if entry.IsVerified {
		return ErrOTPNotFound
	}

	// Extending the expiry keeps the entry from being purged before the
	// consumption window closes.
	verifiedAt := u.now()
	return u.otpRepo.MarkVerified(ctx, email, verifiedAt, verifiedAt.Add(u.resetWindow))
}

// checkEntry runs the shared verification rules: presence, attempt limit,
// expiry, then the hash comparison. A failed comparison persists the attempt
// increment before returning.
func (u *otpUsecase) checkEntry(ctx context.Context, email, code string) (*model.OtpEntry, error) {
	entry, err := u.otpRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrOTPNotFound
		}
		return nil, err
	}

	if entry.Attempts >= u.attemptLimit {
		if err := u.otpRepo.DeleteByEmail(ctx, email); err != nil {
			return nil, err
		}
		return nil, ErrOTPAttemptsExceeded
	}

	// Strictly past the deadline counts as expired; a code presented at
	// exactly ExpiresAt is still valid.
	if u.now().After(entry.ExpiresAt) {
		if err := u.otpRepo.DeleteByEmail(ctx, email); err != nil {
			return nil, err
		}
		return nil, ErrOTPExpired
	}

	if !security.VerifyOTP(code, entry.OtpHash) {
		if err := u.otpRepo.IncrementAttempts(ctx, email); err != nil {
			return nil, err
		}
		return nil, ErrOTPInvalid
	}

	return entry, nil
}

// NormalizeEmail trims whitespace and lowercases so lookups never miss on
// casing.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// generateOTPCode draws a 6-digit code uniformly from [100000, 999999].
func generateOTPCode() (string, error) {
	n, err := rand.Int(rand.Reader, big.NewInt(900000))
	if err != nil {
		return "", err
	}

	return fmt.Sprintf("%06d", n.Int64()+100000), nil
}
