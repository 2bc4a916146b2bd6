package middleware

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"

	"github.com/storyweaver/story-weaver-api/internal/model"
	"github.com/storyweaver/story-weaver-api/internal/repository"
	"github.com/storyweaver/story-weaver-api/shared/auth"
	"github.com/storyweaver/story-weaver-api/shared/httputil"
)

// AccessTokenCookie is the cookie the guard and the transport layer agree on.
const AccessTokenCookie = "accessToken"

// CredentialSource records where a bearer token was found.
type CredentialSource int

const (
	SourceCookie CredentialSource = iota
	SourceHeader
)

// Credentials is the bearer token extracted once per request and passed
// explicitly into the guard.
type Credentials struct {
	Token  string
	Source CredentialSource
}

// ExtractCredentials pulls the access token from the request. The accessToken
// cookie takes precedence over the Authorization header.
func ExtractCredentials(r *http.Request) (Credentials, bool) {
	if cookie, err := r.Cookie(AccessTokenCookie); err == nil && cookie.Value != "" {
		return Credentials{Token: cookie.Value, Source: SourceCookie}, true
	}

	header := r.Header.Get("Authorization")
	if token, ok := strings.CutPrefix(header, "Bearer "); ok && token != "" {
		return Credentials{Token: token, Source: SourceHeader}, true
	}

	return Credentials{}, false
}

type userContextKey struct{}

// UserFromContext returns the user the guard attached to the request context.
func UserFromContext(ctx context.Context) (*model.User, bool) {
	user, ok := ctx.Value(userContextKey{}).(*model.User)
	return user, ok
}

// AuthGuard validates the request's access token and resolves it to a user.
// It is the only component on the hot path of every protected request.
type AuthGuard struct {
	jwtAuth      auth.JWTAuthenticator
	accessSecret string
	userRepo     repository.UserRepository
	logger       *zerolog.Logger
}

// NewAuthGuard creates a new AuthGuard instance.
func NewAuthGuard(jwtAuth auth.JWTAuthenticator, accessSecret string, userRepo repository.UserRepository, logger *zerolog.Logger) *AuthGuard {
	return &AuthGuard{
		jwtAuth:      jwtAuth,
		accessSecret: accessSecret,
		userRepo:     userRepo,
		logger:       logger,
	}
}

// RequireAuth rejects requests without a valid access token and attaches the
// resolved user to the context for downstream handlers.
func (g *AuthGuard) RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		creds, ok := ExtractCredentials(r)
		if !ok {
			httputil.RespondError(w, http.StatusUnauthorized, "token missing")
			return
		}

		user, err := g.Authenticate(r.Context(), creds)
		if err != nil {
			switch {
			case errors.Is(err, ErrInvalidToken):
				httputil.RespondError(w, http.StatusUnauthorized, "invalid or expired token")
			case errors.Is(err, ErrUnknownSubject):
				httputil.RespondError(w, http.StatusNotFound, "User not found")
			default:
				g.logger.Error().Err(err).Msg("auth guard failure")
				httputil.RespondError(w, http.StatusInternalServerError, "Something went wrong")
			}
			return
		}

		ctx := context.WithValue(r.Context(), userContextKey{}, user)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

var (
	ErrInvalidToken   = errors.New("invalid or expired token")
	ErrUnknownSubject = errors.New("token subject not found")
)

// Authenticate resolves creds to a user. Password and cached refresh token
// never leave this function on the returned projection.
func (g *AuthGuard) Authenticate(ctx context.Context, creds Credentials) (*model.User, error) {
	claims, err := g.jwtAuth.ValidateAccessToken(creds.Token, g.accessSecret)
	if err != nil {
		return nil, ErrInvalidToken
	}

	user, err := g.userRepo.GetUser(ctx, claims.UserID)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, ErrUnknownSubject
		}
		return nil, err
	}

	user.PasswordHash = ""
	user.RefreshToken = ""

	return user, nil
}
