package handler

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"

	"github.com/storyweaver/story-weaver-api/internal/middleware"
	"github.com/storyweaver/story-weaver-api/shared/httputil"
)

// NewRouter wires the HTTP surface.
func NewRouter(h *Handler, guard *middleware.AuthGuard, logger *zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestLogger(logger))
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		httputil.RespondSuccess(w, http.StatusOK, nil, "ok")
	})

	r.Route("/auth", func(r chi.Router) {
		r.Post("/send-signup-otp", h.SendSignupOTP)
		r.Post("/verify-signup-otp", h.VerifySignupOTP)
		r.Post("/send-login-otp", h.SendLoginOTP)
		r.Post("/verify-login-otp", h.VerifyLoginOTP)
		r.Route("/forget-password", func(r chi.Router) {
			r.Post("/send-otp", h.SendPasswordResetOTP)
			r.Post("/verify-otp", h.VerifyPasswordResetOTP)
			r.Post("/reset-password", h.ResetPassword)
		})
	})

	r.Route("/user", func(r chi.Router) {
		r.Post("/register", h.Register)
		r.Post("/login", h.Login)
		r.Post("/google-login", h.GoogleLogin)
		r.Get("/refresh-token", h.RefreshToken)

		r.Group(func(r chi.Router) {
			r.Use(guard.RequireAuth)
			r.Post("/logout", h.Logout)
			r.Patch("/update-profile", h.UpdateProfile)
			r.Patch("/update-api-key", h.UpdateAPIKey)
		})
	})

	return r
}
