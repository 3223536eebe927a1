package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"

	"github.com/perkhive/admin-management-api/services/admin-service/internal/config"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/handler"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/notification"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/repository"
	"github.com/perkhive/admin-management-api/services/admin-service/internal/usecase"
	"github.com/perkhive/admin-management-api/shared/auth"
	"github.com/perkhive/admin-management-api/shared/discovery"
	"github.com/perkhive/admin-management-api/shared/mailer"
	"github.com/perkhive/admin-management-api/shared/middleware"
	"github.com/perkhive/admin-management-api/shared/utilities"
)

func main() {
	logger := zerolog.New(os.Stderr).With().Timestamp().Str("service", "admin-service").Logger()

	cfg := config.New(&logger)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		logger.Fatal().Err(err).Msg("failed to connect to mongodb")
	}
	defer func() {
		if err := client.Disconnect(context.Background()); err != nil {
			logger.Error().Err(err).Msg("failed to disconnect from mongodb")
		}
	}()

	if err := client.Ping(ctx, nil); err != nil {
		logger.Fatal().Err(err).Msg("failed to ping mongodb")
	}

	db := client.Database(cfg.MongoDatabase)

	adminRepo := repository.NewAdminUserMongoRepository(ctx, &logger, db)
	codeRepo := repository.NewVerificationCodeMongoRepository(ctx, &logger, db)

	notifier := notification.NewEmailNotifier(mailer.NewMailer(&logger), &logger, cfg)

	verificationUsecase := usecase.NewEmailVerificationUsecase(codeRepo, adminRepo, &logger, cfg)
	adminUsecase := usecase.NewAdminUserUsecase(adminRepo, verificationUsecase, notifier, &logger, cfg)
	autofillUsecase := usecase.NewAutofillUsecase()

	jwtAuth := auth.NewJWTAuthenticator(cfg.Token.Issuer, cfg.Token.Issuer)

	router := chi.NewRouter()
	router.Use(chimiddleware.RequestID)
	router.Use(chimiddleware.Recoverer)
	router.Use(middleware.NewJWTMiddleware(jwtAuth, cfg.Token.Secret, []string{handler.ConfirmEmailPath}))

	adminHandler := handler.NewAdminHTTPHandler(adminUsecase, autofillUsecase, &logger)
	adminHandler.RegisterRoutes(router)

	go func() {
		if err := utilities.ServeHealth(cfg.HealthAddress); err != nil {
			logger.Fatal().Err(err).Msg("health server failed")
		}
	}()

	if cfg.ConsulAddress != "" {
		deregister, err := discovery.Register(cfg.ConsulAddress, discovery.Registration{
			ServiceName: cfg.ServiceName,
			Address:     cfg.HealthAddress,
		}, &logger)
		if err != nil {
			logger.Fatal().Err(err).Msg("failed to register with consul")
		}
		defer func() {
			if err := deregister(); err != nil {
				logger.Error().Err(err).Msg("failed to deregister from consul")
			}
		}()
	}

	server := &http.Server{
		Addr:    cfg.HTTPAddress,
		Handler: router,
	}

	go func() {
		logger.Info().Str("address", cfg.HTTPAddress).Msg("admin service listening")
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal().Err(err).Msg("http server failed")
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)
	<-stop

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error().Err(err).Msg("http server shutdown failed")
	}
}
