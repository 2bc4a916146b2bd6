package handler

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (f *fixture) loginCookies(t *testing.T, email, password string) []*http.Cookie {
	t.Helper()

	rec := f.do(t, http.MethodPost, "/user/login", map[string]string{
		"email":    email,
		"password": password,
	})
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	return rec.Result().Cookies()
}

func withCookies(cookies []*http.Cookie) func(*http.Request) {
	return func(r *http.Request) {
		for _, c := range cookies {
			r.AddCookie(c)
		}
	}
}

func TestGuard_MissingToken(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodPost, "/user/logout", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "token missing", decodeBody(t, rec)["message"])
}

func TestGuard_ExpiredToken(t *testing.T) {
	f := newFixture(t)
	f.mustRegister(t, "alice", "a@x.com", "secret1")

	user, err := f.userRepo.GetUserByEmail(t.Context(), "a@x.com")
	require.NoError(t, err)

	expired, err := f.jwtAuth.GenerateAccessToken(
		user.ID.Hex(), user.Email, user.Username,
		f.cfg.Token.AccessSecret, -time.Minute,
	)
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/user/logout", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+expired)
	})
	require.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, "invalid or expired token", decodeBody(t, rec)["message"])
}

func TestGuard_BearerHeader(t *testing.T) {
	f := newFixture(t)
	f.mustRegister(t, "alice", "a@x.com", "secret1")

	user, err := f.userRepo.GetUserByEmail(t.Context(), "a@x.com")
	require.NoError(t, err)

	token, err := f.jwtAuth.GenerateAccessToken(
		user.ID.Hex(), user.Email, user.Username,
		f.cfg.Token.AccessSecret, time.Minute,
	)
	require.NoError(t, err)

	rec := f.do(t, http.MethodPost, "/user/logout", nil, func(r *http.Request) {
		r.Header.Set("Authorization", "Bearer "+token)
	})
	assert.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
}

func TestLogout_ClearsCachedTokens(t *testing.T) {
	f := newFixture(t)
	f.mustRegister(t, "alice", "a@x.com", "secret1")
	cookies := f.loginCookies(t, "a@x.com", "secret1")

	rec := f.do(t, http.MethodPost, "/user/logout", nil, withCookies(cookies))
	require.Equal(t, http.StatusOK, rec.Code)

	user, err := f.userRepo.GetUserByEmail(t.Context(), "a@x.com")
	require.NoError(t, err)
	assert.Empty(t, user.RefreshToken)

	for _, c := range rec.Result().Cookies() {
		assert.Negative(t, c.MaxAge, "session cookies must be expired on logout")
	}
}

func TestRefreshToken(t *testing.T) {
	f := newFixture(t)
	f.mustRegister(t, "alice", "a@x.com", "secret1")
	cookies := f.loginCookies(t, "a@x.com", "secret1")

	rec := f.do(t, http.MethodGet, "/user/refresh-token", nil, withCookies(cookies))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.NotEmpty(t, data["accessToken"])
	assert.NotEmpty(t, data["refreshToken"])
}

func TestRefreshToken_Missing(t *testing.T) {
	f := newFixture(t)

	rec := f.do(t, http.MethodGet, "/user/refresh-token", nil)
	require.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestRefreshToken_Stale(t *testing.T) {
	f := newFixture(t)
	f.mustRegister(t, "alice", "a@x.com", "secret1")
	oldCookies := f.loginCookies(t, "a@x.com", "secret1")

	// A second login rotates the cached pair; the old refresh token is stale.
	f.loginCookies(t, "a@x.com", "secret1")

	rec := f.do(t, http.MethodGet, "/user/refresh-token", nil, withCookies(oldCookies))
	require.Equal(t, http.StatusForbidden, rec.Code)
}

func TestUpdateProfile(t *testing.T) {
	f := newFixture(t)
	f.mustRegister(t, "alice", "a@x.com", "secret1")
	cookies := f.loginCookies(t, "a@x.com", "secret1")

	rec := f.do(t, http.MethodPatch, "/user/update-profile", map[string]string{
		"newUsername": "alice2",
	}, withCookies(cookies))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	data := decodeBody(t, rec)["data"].(map[string]any)
	assert.Equal(t, "alice2", data["username"])
}

func TestUpdateAPIKey(t *testing.T) {
	f := newFixture(t)
	f.mustRegister(t, "alice", "a@x.com", "secret1")
	cookies := f.loginCookies(t, "a@x.com", "secret1")

	rec := f.do(t, http.MethodPatch, "/user/update-api-key", map[string]string{
		"apiKey": "sk-live-abc",
	}, withCookies(cookies))
	require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())

	user, err := f.userRepo.GetUserByEmail(t.Context(), "a@x.com")
	require.NoError(t, err)
	assert.NotEmpty(t, user.ApiKeyHash)
}
