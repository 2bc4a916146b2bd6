package handler

import (
	"context"
	"net/http"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/storyweaver/story-weaver-api/internal/config"
	"github.com/storyweaver/story-weaver-api/internal/middleware"
	"github.com/storyweaver/story-weaver-api/internal/model"
	"github.com/storyweaver/story-weaver-api/internal/repository"
	"github.com/storyweaver/story-weaver-api/internal/usecase"
	"github.com/storyweaver/story-weaver-api/shared/auth"
	"github.com/storyweaver/story-weaver-api/shared/provider"
	"github.com/storyweaver/story-weaver-api/shared/validate"
)

type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User
}

func newMemUserRepo() *memUserRepo {
	return &memUserRepo{users: map[string]*model.User{}}
}

func (r *memUserRepo) CreateUser(_ context.Context, user *model.User) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == user.Email {
			return nil, mongo.WriteException{WriteErrors: []mongo.WriteError{{Code: 11000}}}
		}
	}

	user.ID = bson.NewObjectID()
	clone := *user
	r.users[user.ID.Hex()] = &clone

	return user, nil
}

func (r *memUserRepo) GetUser(_ context.Context, id string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	clone := *user
	return &clone, nil
}

func (r *memUserRepo) GetUserByEmail(_ context.Context, email string) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Email == email {
			clone := *u
			return &clone, nil
		}
	}

	return nil, mongo.ErrNoDocuments
}

func (r *memUserRepo) UpdateUser(_ context.Context, id string, params repository.UpdateUserParams) (*model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	if params.Username != nil {
		user.Username = *params.Username
	}
	if params.PasswordHash != nil {
		user.PasswordHash = *params.PasswordHash
	}
	if params.ApiKeyHash != nil {
		user.ApiKeyHash = *params.ApiKeyHash
	}
	if params.ProfilePictureURL != nil {
		user.ProfilePictureURL = *params.ProfilePictureURL
	}

	clone := *user
	return &clone, nil
}

func (r *memUserRepo) UpdateTokens(_ context.Context, id string, accessToken, refreshToken string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	user, ok := r.users[id]
	if !ok {
		return mongo.ErrNoDocuments
	}

	user.AccessToken = accessToken
	user.RefreshToken = refreshToken

	return nil
}

type memOtpRepo struct {
	mu      sync.Mutex
	entries map[string]*model.OtpEntry
}

func newMemOtpRepo() *memOtpRepo {
	return &memOtpRepo{entries: map[string]*model.OtpEntry{}}
}

func (r *memOtpRepo) UpsertByEmail(_ context.Context, entry *model.OtpEntry) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clone := *entry
	r.entries[entry.Email] = &clone

	return nil
}

func (r *memOtpRepo) GetByEmail(_ context.Context, email string) (*model.OtpEntry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[email]
	if !ok {
		return nil, mongo.ErrNoDocuments
	}

	clone := *entry
	return &clone, nil
}

func (r *memOtpRepo) IncrementAttempts(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[email]
	if !ok {
		return mongo.ErrNoDocuments
	}

	entry.Attempts++

	return nil
}

func (r *memOtpRepo) MarkVerified(_ context.Context, email string, verifiedAt, expiresAt time.Time) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.entries[email]
	if !ok {
		return mongo.ErrNoDocuments
	}

	entry.IsVerified = true
	entry.VerifiedAt = &verifiedAt
	entry.ExpiresAt = expiresAt

	return nil
}

func (r *memOtpRepo) DeleteByEmail(_ context.Context, email string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.entries, email)

	return nil
}

type recordingSender struct {
	mu    sync.Mutex
	codes map[string]string // last code per address
}

func newRecordingSender() *recordingSender {
	return &recordingSender{codes: map[string]string{}}
}

func (s *recordingSender) SendOTPEmail(address, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.codes[address] = code

	return nil
}

func (s *recordingSender) codeFor(address string) string {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.codes[address]
}

type fakeGoogle struct {
	profile *provider.GoogleProfile
	err     error
}

func (g *fakeGoogle) VerifyIDToken(_ context.Context, _ string) (*provider.GoogleProfile, error) {
	if g.err != nil {
		return nil, g.err
	}

	return g.profile, nil
}

// fixture assembles the full HTTP surface over in-memory repositories.
type fixture struct {
	router   http.Handler
	userRepo *memUserRepo
	otpRepo  *memOtpRepo
	sender   *recordingSender
	google   *fakeGoogle
	jwtAuth  auth.JWTAuthenticator
	cfg      *config.Config
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	cfg := &config.Config{
		Environment: "test",
		Token: config.TokenConfig{
			Issuer:           "test",
			Audience:         "test",
			AccessSecret:     "access-secret",
			RefreshSecret:    "refresh-secret",
			AccessExpiresIn:  24 * time.Hour,
			RefreshExpiresIn: 720 * time.Hour,
		},
		OTP: config.OTPConfig{
			TTL:          10 * time.Minute,
			AttemptLimit: 5,
			ResetWindow:  10 * time.Minute,
		},
	}

	userRepo := newMemUserRepo()
	otpRepo := newMemOtpRepo()
	sender := newRecordingSender()
	google := &fakeGoogle{}
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Audience, cfg.Token.Issuer)

	otpUC := usecase.NewOTPUsecase(otpRepo, sender, cfg.OTP)
	userUC := usecase.NewUserUsecase(userRepo, otpRepo, cfg.OTP)
	tokenUC := usecase.NewTokenUsecase(userRepo, jwtAuth, cfg.Token)
	authUC := usecase.NewAuthUsecase(userRepo, otpUC, userUC, tokenUC, google)

	validator, err := validate.New()
	require.NoError(t, err)

	logger := zerolog.Nop()
	h := New(authUC, userUC, tokenUC, validator, cfg, &logger)
	guard := middleware.NewAuthGuard(jwtAuth, cfg.Token.AccessSecret, userRepo, &logger)

	return &fixture{
		router:   NewRouter(h, guard, &logger),
		userRepo: userRepo,
		otpRepo:  otpRepo,
		sender:   sender,
		google:   google,
		jwtAuth:  jwtAuth,
		cfg:      cfg,
	}
}
