package handler

import (
	"net/http"

	"github.com/storyweaver/story-weaver-api/internal/middleware"
	"github.com/storyweaver/story-weaver-api/internal/payload"
	"github.com/storyweaver/story-weaver-api/internal/usecase"
	"github.com/storyweaver/story-weaver-api/shared/httputil"
)

func (h *Handler) Register(w http.ResponseWriter, r *http.Request) {
	var req payload.RegisterRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.userUC.Register(r.Context(), usecase.RegisterParams{
		Username:       req.Username,
		Email:          req.Email,
		Password:       req.Password,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusCreated, user.Public(), "User registered successfully")
}

func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req payload.LoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.authUC.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.setSessionCookies(w, pair)
	httputil.RespondSuccess(w, http.StatusOK, payload.SessionResponse{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Login successful")
}

func (h *Handler) Logout(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "token missing")
		return
	}

	if err := h.tokenUC.RevokeTokens(r.Context(), user.ID.Hex()); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.clearSessionCookies(w)
	httputil.RespondSuccess(w, http.StatusOK, nil, "User logged out successfully")
}

func (h *Handler) GoogleLogin(w http.ResponseWriter, r *http.Request) {
	var req payload.GoogleLoginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.authUC.FederatedLogin(r.Context(), req.Token)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.setSessionCookies(w, pair)
	httputil.RespondSuccess(w, http.StatusOK, payload.SessionResponse{
		User:         user.Public(),
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "Google login successful")
}

// RefreshToken accepts the refresh token from the cookie, the Authorization
// header, or the request body, and rotates the cached pair.
func (h *Handler) RefreshToken(w http.ResponseWriter, r *http.Request) {
	token := refreshTokenFromRequest(r)
	if token == "" {
		httputil.RespondError(w, http.StatusUnauthorized, "token missing")
		return
	}

	_, pair, err := h.tokenUC.Refresh(r.Context(), token)
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	h.setSessionCookies(w, pair)
	httputil.RespondSuccess(w, http.StatusOK, payload.SessionResponse{
		AccessToken:  pair.AccessToken,
		RefreshToken: pair.RefreshToken,
	}, "New access token generated successfully")
}

func (h *Handler) UpdateProfile(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "token missing")
		return
	}

	var req payload.UpdateProfileRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	updated, err := h.userUC.UpdateProfile(r.Context(), user.ID.Hex(), usecase.UpdateProfileParams{
		NewUsername:    req.NewUsername,
		NewPassword:    req.NewPassword,
		ProfilePicture: req.ProfilePicture,
	})
	if err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, updated.Public(), "Profile updated successfully.")
}

func (h *Handler) UpdateAPIKey(w http.ResponseWriter, r *http.Request) {
	user, ok := middleware.UserFromContext(r.Context())
	if !ok {
		httputil.RespondError(w, http.StatusUnauthorized, "token missing")
		return
	}

	var req payload.UpdateAPIKeyRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.userUC.UpdateAPIKey(r.Context(), user.ID.Hex(), req.APIKey); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, nil, "API key updated successfully")
}

func refreshTokenFromRequest(r *http.Request) string {
	if cookie, err := r.Cookie("refreshToken"); err == nil && cookie.Value != "" {
		return cookie.Value
	}

	header := r.Header.Get("Authorization")
	if after, ok := cutBearer(header); ok {
		return after
	}

	var body payload.RefreshTokenRequest
	if err := httputil.DecodeJSON(r, &body); err == nil {
		return body.RefreshToken
	}

	return ""
}

func cutBearer(header string) (string, bool) {
	const prefix = "Bearer "
	if len(header) > len(prefix) && header[:len(prefix)] == prefix {
		return header[len(prefix):], true
	}

	return "", false
}
