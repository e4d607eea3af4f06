package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"

	"truckhub/internal/adapter/api"
	"truckhub/internal/adapter/api/handler"
	apimiddleware "truckhub/internal/adapter/api/middleware"
	"truckhub/internal/adapter/api/router"
	"truckhub/internal/adapter/repository"
	"truckhub/internal/domain/service"
	"truckhub/internal/infrastructure/firebase"
	"truckhub/internal/infrastructure/messaging"
	"truckhub/internal/infrastructure/metrics"
	"truckhub/internal/infrastructure/ratelimit"
	"truckhub/internal/infrastructure/storage"
	"truckhub/internal/infrastructure/websocket"
	"truckhub/internal/usecase"
	"truckhub/pkg/config"
	"truckhub/pkg/logger"
)

const checkoutSweepInterval = 5 * time.Minute

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	opt, err := firebase.CredentialsOption(cfg.FirebaseCredentialsJSON, cfg.FirebaseCredentialsPath)
	if err != nil {
		log.Fatalf("Failed to load Firebase credentials: %v", err)
	}

	firebaseClients, err := firebase.NewClients(ctx, cfg.FirebaseProject, opt)
	if err != nil {
		log.Fatalf("%v", err)
	}
	defer firebaseClients.Close()

	storageClient, err := storage.NewCloudStorageClient(ctx, cfg.StorageBucket, cfg.BaseURL, opt)
	if err != nil {
		log.Fatalf("Failed to initialize Cloud Storage: %v", err)
	}
	defer storageClient.Close()

	redisClient := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddress,
		Password: cfg.RedisPassword,
	})
	if err := redisClient.Ping(ctx).Err(); err != nil {
		log.Fatalf("Failed to connect to Redis at %s: %v", cfg.RedisAddress, err)
	}
	defer redisClient.Close()

	var publisher usecase.ListingEventPublisher
	if cfg.NATSURL != "" {
		natsPublisher, err := messaging.NewNATSPublisher(cfg.NATSURL)
		if err != nil {
			log.Fatalf("Failed to connect to NATS: %v", err)
		}
		defer natsPublisher.Close()
		publisher = natsPublisher
	} else {
		logger.Warn("NATS_URL not set, listing events will not be published")
	}

	var checkoutService service.CheckoutService
	if cfg.StripeSecretKey != "" {
		checkoutService = service.NewStripeCheckoutService(cfg.StripeSecretKey, cfg.StripeWebhookSecret)
	} else {
		if cfg.IsProduction() {
			log.Fatalf("STRIPE_SECRET_KEY is required in production")
		}
		logger.Warn("STRIPE_SECRET_KEY not set, using simulated checkout")
		checkoutService = service.NewSimplifiedCheckoutService(cfg.BaseURL)
	}

	var listingMetrics *metrics.ListingMetrics
	var metricsRecorder usecase.MetricsRecorder
	if cfg.MetricsEnabled {
		listingMetrics = metrics.NewListingMetrics()
		metricsRecorder = listingMetrics
	}

	listingRepo := repository.NewFirestoreListingRepository(firebaseClients.Firestore)
	mediaUploadRepo := repository.NewFirestoreMediaUploadRepository(firebaseClients.Firestore)
	snapshotStore := repository.NewRedisDraftSnapshotStore(redisClient, cfg.DraftSnapshotTTL)

	wsManager := websocket.NewManager()
	wsManager.Start(ctx)

	imageFilter := service.NewImageFilter(cfg.MaxUploadBytes, cfg.EnforceMinImageDimensions, cfg.MinImageWidth, cfg.MinImageHeight)

	wizardUseCase := usecase.NewListingWizardUseCase(
		listingRepo,
		snapshotStore,
		checkoutService,
		storageClient,
		imageFilter,
		publisher,
		wsManager,
		metricsRecorder,
		usecase.ListingWizardConfig{
			BaseURL:                     cfg.BaseURL,
			FeaturedPlacementPriceCents: cfg.FeaturedPlacementPriceCents,
			NotarizedReceiptPriceCents:  cfg.NotarizedReceiptPriceCents,
			CheckoutExpiry:              cfg.CheckoutExpiry,
			CheckoutGracePeriod:         cfg.CheckoutGracePeriod,
		},
	).WithMediaUploads(mediaUploadRepo)
	listingUseCase := usecase.NewListingUseCase(listingRepo)

	handler.Setup(wizardUseCase, listingUseCase, checkoutService, cfg.MaxUploadBytes)
	handler.SetupHealthHandler(map[string]handler.HealthCheck{
		"redis": func(ctx context.Context) error {
			return redisClient.Ping(ctx).Err()
		},
		"firestore": func(ctx context.Context) error {
			_, err := firebaseClients.Firestore.Collection("listings").Limit(1).Documents(ctx).GetAll()
			return err
		},
	})

	limiter := ratelimit.NewRateLimiter()
	limiter.StartCleanupRoutine(ctx.Done())

	wizardUseCase.StartCheckoutExpiryJob(ctx, checkoutSweepInterval)

	e := echo.New()
	e.HideBanner = true

	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins: []string{cfg.BaseURL},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
	}))
	if listingMetrics != nil {
		e.Use(listingMetrics.Middleware())
	}

	e.Validator = api.NewValidator()

	authMiddleware := apimiddleware.NewAuthMiddleware(firebase.NewFirebaseAuthClient(firebaseClients.Auth))
	wsHandler := handler.NewWebSocketHandler(wsManager, cfg.BaseURL)

	router.Setup(e, authMiddleware, limiter, wsHandler, listingMetrics)

	go func() {
		logger.Info("Starting server on port %s...", cfg.ServerPort)
		if err := e.Start(":" + cfg.ServerPort); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-ctx.Done()
	logger.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown error: %v", err)
	}
}
