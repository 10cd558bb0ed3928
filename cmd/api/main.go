package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"zorgmatch/internal/app"
	"zorgmatch/internal/config"
	"zorgmatch/internal/database"
	httpapi "zorgmatch/internal/http"
	"zorgmatch/internal/http/handlers"
	"zorgmatch/internal/http/metrics"
	"zorgmatch/internal/http/middleware"
	"zorgmatch/internal/http/response"
	"zorgmatch/internal/integration/stripe"
	"zorgmatch/internal/observability"
	repo "zorgmatch/internal/repository/postgres"
	"zorgmatch/internal/security"
	"zorgmatch/internal/ws"
	"zorgmatch/migrations"
)

func main() {
	cfg := config.Load()

	logger := observability.NewLogger(cfg.LogLevel)
	middleware.SetLogger(logger)

	db := database.NewPostgres(database.PostgresConfig{
		DSN:             cfg.PostgresDSN,
		MaxOpenConns:    cfg.DBMaxOpenConns,
		MaxIdleConns:    cfg.DBMaxIdleConns,
		ConnMaxIdle:     cfg.DBConnMaxIdle,
		ConnMaxLifetime: cfg.DBConnMaxLife,
	})
	defer db.Close()

	migrateCtx, cancelMigrate := context.WithTimeout(context.Background(), 30*time.Second)
	if err := database.ApplyMigrations(migrateCtx, db, migrations.FS); err != nil {
		log.Fatalf("failed to apply migrations: %v", err)
	}
	cancelMigrate()

	userRepo := repo.NewUserRepository(db)
	profileRepo := repo.NewZzpProfileRepository(db)
	vacancyRepo := repo.NewVacancyRepository(db)
	applicationRepo := repo.NewApplicationRepository(db)
	messageRepo := repo.NewMessageRepository(db)
	refreshTokenRepo := repo.NewRefreshTokenRepository(db)
	transactionRepo := repo.NewTransactionRepository(db)

	jwtProvider := security.NewJWTProvider(cfg.JWTSecret)

	var limiter middleware.Limiter
	if cfg.RedisAddr != "" {
		limiter = middleware.NewRedisLimiter(redis.NewClient(&redis.Options{Addr: cfg.RedisAddr}))
	} else {
		limiter = middleware.NewRateLimiter()
	}

	var paymentClient app.PaymentClient
	if cfg.StripeSecretKey != "" {
		paymentClient = stripe.NewClient(cfg.StripeSecretKey, nil)
	} else {
		logger.Info("stripe secret key not configured, billing endpoints disabled")
	}

	hub := ws.NewHub(logger)

	authService := app.NewAuthService(userRepo, refreshTokenRepo, jwtProvider, logger, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	userService := app.NewUserService(userRepo)
	profileService := app.NewProfileService(profileRepo, userRepo)
	vacancyService := app.NewVacancyService(vacancyRepo, userRepo, logger)
	applicationService := app.NewApplicationService(applicationRepo, vacancyRepo, userRepo, messageRepo, logger)
	messageService := app.NewMessageService(messageRepo, userRepo, applicationService, hub, logger)
	ledgerService := app.NewLedgerService(userRepo, transactionRepo)
	billingService := app.NewBillingService(paymentClient, userRepo, ledgerService, logger)

	collector := metrics.NewCollector()
	response.SetErrorCollector(collector)

	router := httpapi.NewRouter(httpapi.RouterDependencies{
		AuthHandler:        handlers.NewAuthHandler(authService, limiter),
		UserHandler:        handlers.NewUserHandler(userService),
		ProfileHandler:     handlers.NewProfileHandler(profileService),
		VacancyHandler:     handlers.NewVacancyHandler(vacancyService),
		ApplicationHandler: handlers.NewApplicationHandler(applicationService),
		MessageHandler:     handlers.NewMessageHandler(messageService, limiter),
		BillingHandler:     handlers.NewBillingHandler(billingService, ledgerService),
		SocketHandler:      hub,
		AuthMiddleware:     middleware.NewAuthMiddleware(jwtProvider),
		Metrics:            collector,
		RequestTimeout:     cfg.RequestTimeout,
	})

	server := &http.Server{
		Addr:              ":" + cfg.HTTPPort,
		Handler:           router,
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		logger.Info("http server listening on :" + cfg.HTTPPort)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("http server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed: " + err.Error())
	}
}
