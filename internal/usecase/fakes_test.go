package usecase

import (
	"context"
	"sync"
	"time"

	"go.mongodb.org/mongo-driver/v2/bson"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/storyweaver/story-weaver-api/internal/model"
	"github.com/storyweaver/story-weaver-api/internal/repository"
	"github.com/storyweaver/story-weaver-api/shared/provider"
)

// memUserRepo is an in-memory UserRepository used by usecase tests.
type memUserRepo struct {
	mu    sync.Mutex
	users map[string]*model.User // keyed by hex id
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
	now := time.Now()
	user.CreatedAt = now
	user.UpdatedAt = now
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
	user.UpdatedAt = time.Now()

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
	user.UpdatedAt = time.Now()

	return nil
}

// memOtpRepo is an in-memory OtpRepository used by usecase tests.
type memOtpRepo struct {
	mu      sync.Mutex
	entries map[string]*model.OtpEntry // keyed by email
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

// recordingSender captures OTP emails instead of sending them.
type recordingSender struct {
	mu    sync.Mutex
	sends []sentOTP
	err   error
}

type sentOTP struct {
	Address string
	Code    string
}

func (s *recordingSender) SendOTPEmail(address, code string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.err != nil {
		return s.err
	}

	s.sends = append(s.sends, sentOTP{Address: address, Code: code})

	return nil
}

func (s *recordingSender) last() sentOTP {
	s.mu.Lock()
	defer s.mu.Unlock()

	if len(s.sends) == 0 {
		return sentOTP{}
	}

	return s.sends[len(s.sends)-1]
}

// fakeGoogle returns a fixed profile or error.
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
