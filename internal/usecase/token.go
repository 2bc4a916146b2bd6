package usecase

import (
	"context"
	"errors"
	"fmt"

	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/storyweaver/story-weaver-api/internal/config"
	"github.com/storyweaver/story-weaver-api/internal/model"
	"github.com/storyweaver/story-weaver-api/internal/repository"
	"github.com/storyweaver/story-weaver-api/shared/auth"
)

// TokenUsecase mints access/refresh pairs and caches the latest pair on the
// user record. Issued tokens stay valid until their own expiry; issuing a new
// pair never revokes an old one.
type TokenUsecase interface {
	IssueTokens(ctx context.Context, user *model.User) (*auth.TokenPair, error)
	Refresh(ctx context.Context, refreshToken string) (*model.User, *auth.TokenPair, error)
	RevokeTokens(ctx context.Context, userID string) error
}

var (
	ErrInvalidRefreshToken = errors.New("invalid refresh token")
)

type tokenUsecase struct {
	userRepo repository.UserRepository
	jwtAuth  auth.JWTAuthenticator
	cfg      config.TokenConfig
}

// NewTokenUsecase creates a new instance of TokenUsecase.
func NewTokenUsecase(userRepo repository.UserRepository, jwtAuth auth.JWTAuthenticator, cfg config.TokenConfig) TokenUsecase {
	return &tokenUsecase{
		userRepo: userRepo,
		jwtAuth:  jwtAuth,
		cfg:      cfg,
	}
}

func (u *tokenUsecase) IssueTokens(ctx context.Context, user *model.User) (*auth.TokenPair, error) {
	userID := user.ID.Hex()

	accessToken, err := u.jwtAuth.GenerateAccessToken(
		userID,
		user.Email,
		user.Username,
		u.cfg.AccessSecret,
		u.cfg.AccessExpiresIn,
	)
	if err != nil {
		return nil, fmt.Errorf("sign access token: %w", err)
	}

	refreshToken, err := u.jwtAuth.GenerateRefreshToken(
		userID,
		u.cfg.RefreshSecret,
		u.cfg.RefreshExpiresIn,
	)
	if err != nil {
		return nil, fmt.Errorf("sign refresh token: %w", err)
	}

	if err := u.userRepo.UpdateTokens(ctx, userID, accessToken, refreshToken); err != nil {
		return nil, fmt.Errorf("cache tokens: %w", err)
	}

	return &auth.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
	}, nil
}

// Refresh validates refreshToken, requires it to match the pair last cached on
// the user, and issues a new pair.
func (u *tokenUsecase) Refresh(ctx context.Context, refreshToken string) (*model.User, *auth.TokenPair, error) {
	claims, err := u.jwtAuth.ValidateRefreshToken(refreshToken, u.cfg.RefreshSecret)
	if err != nil {
		return nil, nil, ErrInvalidRefreshToken
	}

	user, err := u.userRepo.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil, ErrInvalidRefreshToken
		}
		return nil, nil, err
	}

	if user.RefreshToken != refreshToken {
		return nil, nil, ErrInvalidRefreshToken
	}

	pair, err := u.IssueTokens(ctx, user)
	if err != nil {
		return nil, nil, err
	}

	return user, pair, nil
}

// RevokeTokens clears the cached pair on logout. Already-issued tokens remain
// valid until expiry; this only empties the cache so Refresh stops working.
func (u *tokenUsecase) RevokeTokens(ctx context.Context, userID string) error {
	return u.userRepo.UpdateTokens(ctx, userID, "", "")
}
