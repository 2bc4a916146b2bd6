package handler

import (
	"errors"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/storyweaver/story-weaver-api/internal/config"
	"github.com/storyweaver/story-weaver-api/internal/usecase"
	"github.com/storyweaver/story-weaver-api/shared/auth"
	"github.com/storyweaver/story-weaver-api/shared/httputil"
	"github.com/storyweaver/story-weaver-api/shared/validate"
)

// Handler bundles the HTTP handlers for the auth and user surfaces.
type Handler struct {
	authUC    usecase.AuthUsecase
	userUC    usecase.UserUsecase
	tokenUC   usecase.TokenUsecase
	validator *validate.Validator
	cfg       *config.Config
	logger    *zerolog.Logger
}

// New creates a new Handler instance.
func New(
	authUC usecase.AuthUsecase,
	userUC usecase.UserUsecase,
	tokenUC usecase.TokenUsecase,
	validator *validate.Validator,
	cfg *config.Config,
	logger *zerolog.Logger,
) *Handler {
	return &Handler{
		authUC:    authUC,
		userUC:    userUC,
		tokenUC:   tokenUC,
		validator: validator,
		cfg:       cfg,
		logger:    logger,
	}
}

// decodeAndValidate parses the JSON body into dst and validates it. On failure
// it writes the 400 response itself and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httputil.DecodeJSON(r, dst); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, "invalid request body")
		return false
	}

	if err := h.validator.Struct(dst); err != nil {
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
		return false
	}

	return true
}

// respondUsecaseError maps usecase sentinels onto stable HTTP responses.
// Anything unrecognized is logged and hidden behind a generic 500.
func (h *Handler) respondUsecaseError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, usecase.ErrMissingFields):
		httputil.RespondError(w, http.StatusBadRequest, "Required fields are missing")
	case errors.Is(err, usecase.ErrUserExists):
		httputil.RespondError(w, http.StatusConflict, "User already exists with this email")
	case errors.Is(err, usecase.ErrUserNotFound):
		httputil.RespondError(w, http.StatusNotFound, "User not found with this email")
	case errors.Is(err, usecase.ErrInvalidPassword):
		httputil.RespondError(w, http.StatusUnauthorized, "Invalid password")
	case errors.Is(err, usecase.ErrOTPNotFound):
		httputil.RespondError(w, http.StatusBadRequest, "OTP not found or expired")
	case errors.Is(err, usecase.ErrOTPAttemptsExceeded):
		httputil.RespondError(w, http.StatusBadRequest, "Too many incorrect attempts. Please request a new OTP.")
	case errors.Is(err, usecase.ErrOTPExpired):
		httputil.RespondError(w, http.StatusBadRequest, "OTP expired")
	case errors.Is(err, usecase.ErrOTPInvalid):
		httputil.RespondError(w, http.StatusBadRequest, "Invalid OTP")
	case errors.Is(err, usecase.ErrOTPNotVerified):
		httputil.RespondError(w, http.StatusBadRequest, "OTP verification required to reset password")
	case errors.Is(err, usecase.ErrOTPWindowExpired):
		httputil.RespondError(w, http.StatusBadRequest, "OTP verification has expired. Please verify OTP again.")
	case errors.Is(err, usecase.ErrGoogleTokenInvalid):
		httputil.RespondError(w, http.StatusUnauthorized, "Google login failed")
	case errors.Is(err, usecase.ErrInvalidRefreshToken):
		httputil.RespondError(w, http.StatusForbidden, "Forbidden access, token is invalid")
	default:
		h.logger.Error().Err(err).Msg("unexpected failure")
		httputil.RespondError(w, http.StatusInternalServerError, "Something went wrong")
	}
}

// setSessionCookies transports a freshly issued pair as HTTP-only cookies.
func (h *Handler) setSessionCookies(w http.ResponseWriter, pair *auth.TokenPair) {
	http.SetCookie(w, &http.Cookie{
		Name:     "accessToken",
		Value:    pair.AccessToken,
		Path:     "/",
		MaxAge:   int(h.cfg.Token.AccessExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
	http.SetCookie(w, &http.Cookie{
		Name:     "refreshToken",
		Value:    pair.RefreshToken,
		Path:     "/",
		MaxAge:   int(h.cfg.Token.RefreshExpiresIn.Seconds()),
		HttpOnly: true,
		Secure:   h.cfg.IsProduction(),
		SameSite: http.SameSiteLaxMode,
	})
}

// clearSessionCookies expires both session cookies.
func (h *Handler) clearSessionCookies(w http.ResponseWriter) {
	for _, name := range []string{"accessToken", "refreshToken"} {
		http.SetCookie(w, &http.Cookie{
			Name:     name,
			Value:    "",
			Path:     "/",
			MaxAge:   -1,
			HttpOnly: true,
			Secure:   h.cfg.IsProduction(),
			SameSite: http.SameSiteLaxMode,
		})
	}
}
