package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// TokenPair carries a freshly issued access/refresh token pair. It is an
// explicit value handed from the issuer to the transport layer; the core never
// touches cookies or headers itself.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AccessClaims are embedded in access tokens.
type AccessClaims struct {
	UserID   string `json:"uid"`
	Email    string `json:"email"`
	Username string `json:"username"`
	jwt.RegisteredClaims
}

// RefreshClaims are embedded in refresh tokens. They identify the user and
// nothing else.
type RefreshClaims struct {
	UserID string `json:"uid"`
	jwt.RegisteredClaims
}

// JWTAuthenticator signs and validates HS256 tokens bound to a fixed
// audience and issuer.
type JWTAuthenticator struct {
	audience string
	issuer   string
}

// NewJWTAuthenticator creates a new JWTAuthenticator instance.
func NewJWTAuthenticator(audience, issuer string) JWTAuthenticator {
	return JWTAuthenticator{
		audience: audience,
		issuer:   issuer,
	}
}

// GenerateAccessToken signs an access token for the given user identity.
func (a *JWTAuthenticator) GenerateAccessToken(userID, email, username, secret string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := AccessClaims{
		UserID:           userID,
		Email:            email,
		Username:         username,
		RegisteredClaims: a.registeredClaims(userID, now, expiresIn),
	}

	return a.generateToken(claims, secret)
}

// GenerateRefreshToken signs a refresh token carrying only the user id.
func (a *JWTAuthenticator) GenerateRefreshToken(userID, secret string, expiresIn time.Duration) (string, error) {
	now := time.Now()
	claims := RefreshClaims{
		UserID:           userID,
		RegisteredClaims: a.registeredClaims(userID, now, expiresIn),
	}

	return a.generateToken(claims, secret)
}

// ValidateAccessToken validates tokenStr against secret and returns its claims.
func (a *JWTAuthenticator) ValidateAccessToken(tokenStr, secret string) (*AccessClaims, error) {
	claims := &AccessClaims{}
	if err := a.validateTokenWithClaims(tokenStr, secret, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

// ValidateRefreshToken validates tokenStr against secret and returns its claims.
func (a *JWTAuthenticator) ValidateRefreshToken(tokenStr, secret string) (*RefreshClaims, error) {
	claims := &RefreshClaims{}
	if err := a.validateTokenWithClaims(tokenStr, secret, claims); err != nil {
		return nil, err
	}

	return claims, nil
}

func (a *JWTAuthenticator) registeredClaims(subject string, now time.Time, expiresIn time.Duration) jwt.RegisteredClaims {
	return jwt.RegisteredClaims{
		Subject:   subject,
		Issuer:    a.issuer,
		Audience:  jwt.ClaimStrings{a.audience},
		IssuedAt:  jwt.NewNumericDate(now),
		NotBefore: jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(now.Add(expiresIn)),
		ID:        uuid.NewString(),
	}
}

func (a *JWTAuthenticator) generateToken(claims jwt.Claims, secret string) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)

	tokenStr, err := token.SignedString([]byte(secret))
	if err != nil {
		return "", err
	}

	return tokenStr, nil
}

func (a *JWTAuthenticator) validateTokenWithClaims(tokenStr, secret string, claims jwt.Claims) error {
	token, err := jwt.ParseWithClaims(tokenStr, claims, func(t *jwt.Token) (any, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("unexpected signing method: %v", t.Header["alg"])
		}

		return []byte(secret), nil
	},
		jwt.WithExpirationRequired(),
		jwt.WithAudience(a.audience),
		jwt.WithIssuer(a.issuer),
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Name}),
	)
	if err != nil {
		return err
	}

	if !token.Valid {
		return errors.New("invalid token")
	}

	return nil
}
