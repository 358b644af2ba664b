package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"

	"github.com/bookline/booking-api/config"
	"github.com/bookline/booking-api/internal/booking"
	"github.com/bookline/booking-api/internal/handler"
	appointmentHandler "github.com/bookline/booking-api/internal/handler/appointment"
	bookingHandler "github.com/bookline/booking-api/internal/handler/booking"
	businessHandler "github.com/bookline/booking-api/internal/handler/business"
	notificationHandler "github.com/bookline/booking-api/internal/handler/notification"
	profileHandler "github.com/bookline/booking-api/internal/handler/profile"
	"github.com/bookline/booking-api/internal/middleware"
	"github.com/bookline/booking-api/internal/repository/postgres"
	"github.com/bookline/booking-api/internal/router"
	"github.com/bookline/booking-api/internal/rpc"
	appointmentService "github.com/bookline/booking-api/internal/service/appointment"
	"github.com/bookline/booking-api/internal/service/directory"
	eventService "github.com/bookline/booking-api/internal/service/event"
	notificationService "github.com/bookline/booking-api/internal/service/notification"
	"github.com/bookline/booking-api/pkg/auth"
	"github.com/bookline/booking-api/pkg/logger"
	"github.com/bookline/booking-api/pkg/messaging/redis"
	"github.com/bookline/booking-api/pkg/metrics"
	"github.com/bookline/booking-api/pkg/worker"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load configuration")
	}

	appLogger := logger.NewLogger(nil)

	db, err := postgres.NewDB(cfg.Database)
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to database")
	}
	defer db.Close()

	base := postgres.NewBaseRepository(db)
	businessRepo := postgres.NewBusinessRepository(base)
	appointmentRepo := postgres.NewAppointmentRepository(base)
	notificationRepo := postgres.NewNotificationRepository(base)
	profileRepo := postgres.NewProfileRepository(base)
	outboxRepo := postgres.NewOutboxRepository(base)

	rpcClient := rpc.NewClient(db, appLogger)
	m := metrics.NewMetrics("booking_api")

	directorySvc := directory.NewService(businessRepo, rpcClient, cfg.Booking.DirectoryCacheTTL, appLogger)
	notificationSvc := notificationService.NewService(notificationRepo, appLogger)
	eventSvc := eventService.NewService(outboxRepo)
	appointmentSvc := appointmentService.NewService(
		appointmentRepo,
		businessRepo,
		rpcClient,
		notificationSvc,
		eventSvc,
		m,
		appLogger,
	)

	workflow := booking.NewWorkflow(rpcClient, appLogger)
	slotSvc := booking.NewSlotService(directorySvc, rpcClient, cfg.Booking.SlotInterval(), m, appLogger)

	tokens := auth.NewTokenService(cfg.JWT.Secret)
	authMiddleware := middleware.NewAuthMiddleware(tokens)

	h := handler.NewHandler(db)
	bizHandler := businessHandler.NewHandler(directorySvc)
	bkgHandler := bookingHandler.NewHandler(slotSvc, workflow, directorySvc, m)
	aptHandler := appointmentHandler.NewHandler(appointmentSvc)
	ntfHandler := notificationHandler.NewHandler(notificationSvc)
	prfHandler := profileHandler.NewHandler(profileRepo)

	r := router.NewRouter(
		authMiddleware,
		bizHandler,
		bkgHandler,
		aptHandler,
		ntfHandler,
		prfHandler,
		h,
		router.RouterConfig{
			RateLimit:     rateLimitFor(cfg.RateLimit),
			RateBurst:     cfg.RateLimit.Burst,
			CORSConfig:    corsFor(cfg.CORS),
			MetricsPrefix: "booking_api_http",
		},
	)
	r.Setup()

	srv := &http.Server{
		Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:        r.Engine(),
		ReadTimeout:    cfg.Server.ReadTimeout,
		WriteTimeout:   cfg.Server.WriteTimeout,
		MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
	}

	broker, err := redis.NewRedisBroker(cfg.Redis.ToBrokerConfig(), appLogger.Zerolog())
	if err != nil {
		log.Fatal().Err(err).Msg("failed to connect to Redis")
	}
	defer broker.Close()

	outboxProcessor := worker.NewOutboxProcessor(outboxRepo, broker, cfg.Outbox.ToWorkerConfig(), appLogger, m)
	processorCtx, stopProcessor := context.WithCancel(context.Background())
	defer stopProcessor()
	go outboxProcessor.Start(processorCtx)

	go func() {
		appLogger.Info("starting server", "port", cfg.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("failed to start server")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	appLogger.Info("shutting down server")

	stopProcessor()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal().Err(err).Msg("server forced to shutdown")
	}

	appLogger.Info("server exited properly")
}

func rateLimitFor(cfg config.RateLimitConfig) rate.Limit {
	if !cfg.Enabled {
		return rate.Inf
	}
	return rate.Limit(cfg.RequestsPerSecond)
}

func corsFor(cfg config.CORSConfig) middleware.CORSConfig {
	cors := middleware.DefaultCORSConfig()
	if len(cfg.AllowedOrigins) > 0 {
		cors.AllowOrigins = cfg.AllowedOrigins
	}
	if len(cfg.AllowedMethods) > 0 {
		cors.AllowMethods = cfg.AllowedMethods
	}
	if len(cfg.AllowedHeaders) > 0 {
		cors.AllowHeaders = cfg.AllowedHeaders
	}
	return cors
}
