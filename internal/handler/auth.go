package handler

import (
	"net/http"

	"github.com/storyweaver/story-weaver-api/internal/payload"
	"github.com/storyweaver/story-weaver-api/internal/usecase"
	"github.com/storyweaver/story-weaver-api/shared/httputil"
)

func (h *Handler) SendSignupOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.SendOTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authUC.SendSignupOTP(r.Context(), req.Email); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, nil, "Signup OTP sent successfully")
}

func (h *Handler) VerifySignupOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifySignupOTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, err := h.authUC.VerifySignupOTP(r.Context(), req.OTP, usecase.RegisterParams{
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

func (h *Handler) SendLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.SendOTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authUC.SendLoginOTP(r.Context(), req.Email); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, nil, "Login OTP sent successfully")
}

func (h *Handler) VerifyLoginOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyLoginOTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	user, pair, err := h.authUC.VerifyLoginOTP(r.Context(), req.Email, req.Password, req.OTP)
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

func (h *Handler) SendPasswordResetOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.SendOTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authUC.SendPasswordResetOTP(r.Context(), req.Email); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	// Same response whether or not the account exists.
	httputil.RespondSuccess(w, http.StatusOK, nil, "OTP has been sent")
}

func (h *Handler) VerifyPasswordResetOTP(w http.ResponseWriter, r *http.Request) {
	var req payload.VerifyResetOTPRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.authUC.VerifyPasswordResetOTP(r.Context(), req.Email, req.OTP); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, map[string]string{"email": usecase.NormalizeEmail(req.Email)}, "OTP verified successfully")
}

func (h *Handler) ResetPassword(w http.ResponseWriter, r *http.Request) {
	var req payload.ResetPasswordRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}

	if err := h.userUC.ResetPassword(r.Context(), req.Email, req.NewPassword); err != nil {
		h.respondUsecaseError(w, err)
		return
	}

	httputil.RespondSuccess(w, http.StatusOK, nil, "Password reset successfully")
}
