package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/storyweaver/story-weaver-api/internal/config"
	"github.com/storyweaver/story-weaver-api/internal/handler"
	"github.com/storyweaver/story-weaver-api/internal/middleware"
	"github.com/storyweaver/story-weaver-api/internal/repository"
	"github.com/storyweaver/story-weaver-api/internal/usecase"
	"github.com/storyweaver/story-weaver-api/shared/auth"
	"github.com/storyweaver/story-weaver-api/shared/logger"
	"github.com/storyweaver/story-weaver-api/shared/mailer"
	"github.com/storyweaver/story-weaver-api/shared/provider"
	"github.com/storyweaver/story-weaver-api/shared/validate"
)

func main() {
	log := logger.New("story-weaver-api", "development")
	cfg := config.New(&log)
	log = logger.New("story-weaver-api", cfg.Environment)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to MongoDB")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			log.Error().Err(err).Msg("failed to disconnect from MongoDB")
		}
	}()

	db := client.Database(cfg.MongoDatabase)

	userRepo := repository.NewUserMongoRepository(ctx, &log, db)
	otpRepo := repository.NewOtpMongoRepository(ctx, &log, db)

	smtpMailer := mailer.NewMailer(&log)
	googleVerifier := provider.NewGoogleOAuthProvider(cfg.GoogleClientID)
	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Audience, cfg.Token.Issuer)

	otpUC := usecase.NewOTPUsecase(otpRepo, smtpMailer, cfg.OTP)
	userUC := usecase.NewUserUsecase(userRepo, otpRepo, cfg.OTP)
	tokenUC := usecase.NewTokenUsecase(userRepo, jwtAuth, cfg.Token)
	authUC := usecase.NewAuthUsecase(userRepo, otpUC, userUC, tokenUC, googleVerifier)

	validator, err := validate.New()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to build validator")
	}

	h := handler.New(authUC, userUC, tokenUC, validator, cfg, &log)
	guard := middleware.NewAuthGuard(jwtAuth, cfg.Token.AccessSecret, userRepo, &log)

	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           handler.NewRouter(h, guard, &log),
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("http server listening")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal().Err(err).Msg("http server failed")
		}
	}()

	<-ctx.Done()
	log.Info().Msg("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error().Err(err).Msg("graceful shutdown failed")
	}
}
