package usecase

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/storyweaver/story-weaver-api/internal/config"
	"github.com/storyweaver/story-weaver-api/internal/model"
	"github.com/storyweaver/story-weaver-api/internal/repository"
	"github.com/storyweaver/story-weaver-api/shared/security"
)

// UserUsecase owns user identity records and password verification.
type UserUsecase interface {
	Register(ctx context.Context, params RegisterParams) (*model.User, error)
	Authenticate(ctx context.Context, email, password string) (*model.User, error)
	ResetPassword(ctx context.Context, email, newPassword string) error
	UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, error)
	UpdateAPIKey(ctx context.Context, userID, apiKey string) error
}

// RegisterParams defines the parameters for creating a new account.
type RegisterParams struct {
	Username       string
	Email          string
	Password       string
	ProfilePicture string
}

// UpdateProfileParams defines optional profile mutations. Empty fields are
// left untouched; a non-empty NewPassword goes through HashIfChanged.
type UpdateProfileParams struct {
	NewUsername    string
	NewPassword    string
	ProfilePicture string
}

var (
	ErrMissingFields    = errors.New("required fields missing")
	ErrUserExists       = errors.New("user already exists with this email")
	ErrUserNotFound     = errors.New("user not found")
	ErrInvalidPassword  = errors.New("invalid password")
	ErrOTPNotVerified   = errors.New("otp verification required")
	ErrOTPWindowExpired = errors.New("otp verification window expired")
)

type userUsecase struct {
	userRepo    repository.UserRepository
	otpRepo     repository.OtpRepository
	resetWindow time.Duration
	now         func() time.Time
}

// NewUserUsecase creates a new instance of UserUsecase.
func NewUserUsecase(userRepo repository.UserRepository, otpRepo repository.OtpRepository, cfg config.OTPConfig) UserUsecase {
	return &userUsecase{
		userRepo:    userRepo,
		otpRepo:     otpRepo,
		resetWindow: cfg.ResetWindow,
		now:         time.Now,
	}
}

func (u *userUsecase) Register(ctx context.Context, params RegisterParams) (*model.User, error) {
	if params.Username == "" || params.Email == "" || params.Password == "" {
		return nil, ErrMissingFields
	}

	email := NormalizeEmail(params.Email)

	passwordHash, err := security.HashPassword(params.Password)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	picture := params.ProfilePicture
	if picture == "" {
		picture = model.DefaultProfilePicture
	}

	user, err := u.userRepo.CreateUser(ctx, &model.User{
		Username:          params.Username,
		Email:             email,
		PasswordHash:      passwordHash,
		ProfilePictureURL: picture,
	})
	if err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, ErrUserExists
		}
		return nil, err
	}

	return user, nil
}

func (u *userUsecase) Authenticate(ctx context.Context, email, password string) (*model.User, error) {
	email = NormalizeEmail(email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	ok, err := security.VerifyPassword(password, user.PasswordHash)
	if err != nil {
		return nil, fmt.Errorf("verify password: %w", err)
	}
	if !ok {
		return nil, ErrInvalidPassword
	}

	return user, nil
}

// ResetPassword redeems a verified OTP entry. The entry must have been marked
// verified within the reset window; redemption deletes it so the proof is
// single-use.
func (u *userUsecase) ResetPassword(ctx context.Context, email, newPassword string) error {
	if email == "" || newPassword == "" {
		return ErrMissingFields
	}

	email = NormalizeEmail(email)

	user, err := u.userRepo.GetUserByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	entry, err := u.otpRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrOTPNotVerified
		}
		return err
	}
	if !entry.IsVerified || entry.VerifiedAt == nil {
		return ErrOTPNotVerified
	}
	if u.now().Sub(*entry.VerifiedAt) > u.resetWindow {
		return ErrOTPWindowExpired
	}

	passwordHash, err := security.HashIfChanged(user.PasswordHash, newPassword)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}

	if _, err := u.userRepo.UpdateUser(ctx, user.ID.Hex(), repository.UpdateUserParams{
		PasswordHash: &passwordHash,
	}); err != nil {
		return err
	}

	return u.otpRepo.DeleteByEmail(ctx, email)
}

func (u *userUsecase) UpdateProfile(ctx context.Context, userID string, params UpdateProfileParams) (*model.User, error) {
	user, err := u.userRepo.GetUser(ctx, userID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUserNotFound
		}
		return nil, err
	}

	update := repository.UpdateUserParams{}
	if params.NewUsername != "" {
		update.Username = &params.NewUsername
	}
	if params.ProfilePicture != "" {
		update.ProfilePictureURL = &params.ProfilePicture
	}
	if params.NewPassword != "" {
		passwordHash, err := security.HashIfChanged(user.PasswordHash, params.NewPassword)
		if err != nil {
			return nil, fmt.Errorf("hash password: %w", err)
		}
		update.PasswordHash = &passwordHash
	}

	return u.userRepo.UpdateUser(ctx, userID, update)
}

func (u *userUsecase) UpdateAPIKey(ctx context.Context, userID, apiKey string) error {
	if apiKey == "" {
		return ErrMissingFields
	}

	apiKeyHash, err := security.HashPassword(apiKey)
	if err != nil {
		return fmt.Errorf("hash api key: %w", err)
	}

	if _, err := u.userRepo.UpdateUser(ctx, userID, repository.UpdateUserParams{
		ApiKeyHash: &apiKeyHash,
	}); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return ErrUserNotFound
		}
		return err
	}

	return nil
}
