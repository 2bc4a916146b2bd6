package usecase

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/storyweaver/story-weaver-api/internal/model"
	"github.com/storyweaver/story-weaver-api/internal/repository"
	"github.com/storyweaver/story-weaver-api/shared/auth"
	"github.com/storyweaver/story-weaver-api/shared/provider"
)

// AuthUsecase sequences OTP verification with the underlying account action
// and federates Google sign-in.
type AuthUsecase interface {
	SendSignupOTP(ctx context.Context, email string) error
	VerifySignupOTP(ctx context.Context, otp string, params RegisterParams) (*model.User, error)

	SendLoginOTP(ctx context.Context, email string) error
	VerifyLoginOTP(ctx context.Context, email, password, otp string) (*model.User, *auth.TokenPair, error)

	SendPasswordResetOTP(ctx context.Context, email string) error
	VerifyPasswordResetOTP(ctx context.Context, email, otp string) error

	Login(ctx context.Context, email, password string) (*model.User, *auth.TokenPair, error)
	FederatedLogin(ctx context.Context, googleIDToken string) (*model.User, *auth.TokenPair, error)
}

var (
	ErrGoogleTokenInvalid = errors.New("google token invalid")
)

type authUsecase struct {
	userRepo repository.UserRepository
	otpUC    OTPUsecase
	userUC   UserUsecase
	tokenUC  TokenUsecase
	google   provider.GoogleVerifier
}

// NewAuthUsecase creates a new instance of AuthUsecase.
func NewAuthUsecase(
	userRepo repository.UserRepository,
	otpUC OTPUsecase,
	userUC UserUsecase,
	tokenUC TokenUsecase,
	google provider.GoogleVerifier,
) AuthUsecase {
	return &authUsecase{
		userRepo: userRepo,
		otpUC:    otpUC,
		userUC:   userUC,
		tokenUC:  tokenUC,
		google:   google,
	}
}

// SendSignupOTP refuses to issue a code for an email that already has an
// account.
func (u *authUsecase) SendSignupOTP(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	_, err := u.userRepo.GetUserByEmail(ctx, email)
	if err == nil {
		return ErrUserExists
	}
	if !errors.Is(err, mongo.ErrNoDocuments) {
		return err
	}

	return u.otpUC.IssueOTP(ctx, email)
}

func (u *authUsecase) VerifySignupOTP(ctx context.Context, otp string, params RegisterParams) (*model.User, error) {
	params.Email = NormalizeEmail(params.Email)

	if err := u.otpUC.VerifyOTP(ctx, params.Email, otp); err != nil {
		return nil, err
	}

	return u.userUC.Register(ctx, params)
}

func (u *authUsecase) SendLoginOTP(ctx context.Context, email string) error {
	return u.otpUC.IssueOTP(ctx, email)
}

func (u *authUsecase) VerifyLoginOTP(ctx context.Context, email, password, otp string) (*model.User, *auth.TokenPair, error) {
	email = NormalizeEmail(email)

	if err := u.otpUC.VerifyOTP(ctx, email, otp); err != nil {
		return nil, nil, err
	}

	return u.Login(ctx, email, password)
}

// SendPasswordResetOTP responds identically whether or not the account exists,
// to avoid email enumeration. No code is issued for unknown addresses.
func (u *authUsecase) SendPasswordResetOTP(ctx context.Context, email string) error {
	email = NormalizeEmail(email)

	_, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil
		}
		return err
	}

	return u.otpUC.IssueOTP(ctx, email)
}

func (u *authUsecase) VerifyPasswordResetOTP(ctx context.Context, email, otp string) error {
	return u.otpUC.VerifyOTPForReset(ctx, email, otp)
}

func (u *authUsecase) Login(ctx context.Context, email, password string) (*model.User, *auth.TokenPair, error) {
	user, err := u.userUC.Authenticate(ctx, email, password)
	if err != nil {
		return nil, nil, err
	}

	pair, err := u.tokenUC.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// FederatedLogin verifies a Google ID token against the configured audience
// and signs the holder in, creating a local account on first sight with a
// random unusable password.
func (u *authUsecase) FederatedLogin(ctx context.Context, googleIDToken string) (*model.User, *auth.TokenPair, error) {
	profile, err := u.google.VerifyIDToken(ctx, googleIDToken)
	if err != nil {
		return nil, nil, ErrGoogleTokenInvalid
	}

	email := NormalizeEmail(profile.Email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, err
		}

		placeholder, err := randomPassword()
		if err != nil {
			return nil, nil, err
		}

		username := profile.Name
		if username == "" {
			username = email
		}

		user, err = u.userUC.Register(ctx, RegisterParams{
			Username:       username,
			Email:          email,
			Password:       placeholder,
			ProfilePicture: profile.Picture,
		})
		if err != nil {
			return nil, nil, err
		}
	}

	pair, err := u.tokenUC.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// randomPassword produces an unguessable placeholder for federated accounts.
func randomPassword() (string, error) {
	bytes := make([]byte, 16)
	if _, err := rand.Read(bytes); err != nil {
		return "", fmt.Errorf("random password: %w", err)
	}

	return hex.EncodeToString(bytes), nil
}
