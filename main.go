package main

import (
	"context"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Ryan-gomezzz/Hush-gentle/common/auth"
	apperrors "github.com/Ryan-gomezzz/Hush-gentle/common/errors"
	"github.com/Ryan-gomezzz/Hush-gentle/common/logger"
	commonmw "github.com/Ryan-gomezzz/Hush-gentle/common/middleware"
	"github.com/Ryan-gomezzz/Hush-gentle/controllers"
	"github.com/Ryan-gomezzz/Hush-gentle/database"
	"github.com/Ryan-gomezzz/Hush-gentle/kafka"
	awspkg "github.com/Ryan-gomezzz/Hush-gentle/pkg/aws"
	"github.com/Ryan-gomezzz/Hush-gentle/providers/chat"
	"github.com/Ryan-gomezzz/Hush-gentle/providers/payments"
	"github.com/Ryan-gomezzz/Hush-gentle/repository"
	"github.com/Ryan-gomezzz/Hush-gentle/routes"
	"github.com/Ryan-gomezzz/Hush-gentle/services"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

const (
	serviceName     = "hush-gentle"
	checkoutLockTTL = 30 * time.Second
)

func main() {
	cfg, err := LoadConfig()
	if err != nil {
		log.Fatalf("[HushGentle] failed to load config: %v", err)
	}

	awsCfg, err := awspkg.LoadAWSConfig(context.Background(), cfg.AWSRegion, cfg.AWSEndpoint)
	if err != nil {
		log.Fatalf("[HushGentle] failed to load AWS config: %v", err)
	}

	var sink io.Writer
	if cfg.CloudWatchEnabled {
		cwl, err := awspkg.NewCloudWatchLogsClient(context.Background(), awsCfg, cfg.LogGroup, serviceName)
		if err != nil {
			log.Printf("[HushGentle] CloudWatch Logs disabled: %v", err)
		} else {
			sink = cwl
		}
	}

	zapLogger, err := logger.New(cfg.AppEnv, sink)
	if err != nil {
		log.Fatalf("[HushGentle] failed to initialize logger: %v", err)
	}
	defer zapLogger.Sync()
	zap.ReplaceGlobals(zapLogger)

	db, err := database.Connect(database.PostgresConfig{
		User:     cfg.PostgresUser,
		Password: cfg.PostgresPassword,
		Name:     cfg.PostgresDB,
		Host:     cfg.PostgresHost,
		Port:     cfg.PostgresPort,
		SSLMode:  cfg.PostgresSSLMode,
		TimeZone: cfg.PostgresTimeZone,
	})
	if err != nil {
		zapLogger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()
	if err := database.Migrate(db); err != nil {
		zapLogger.Fatal("Migration failed", zap.Error(err))
	}

	// Redis only backs the checkout lock; without it the active-cart index still holds.
	var locker repository.CheckoutLocker
	if cfg.RedisAddr != "" {
		redisClient, err := database.NewRedisClient(context.Background(), cfg.RedisAddr, cfg.RedisPassword, cfg.RedisDB)
		if err != nil {
			zapLogger.Warn("Redis unavailable, checkout lock disabled", zap.Error(err))
		} else {
			defer redisClient.Close()
			locker = repository.NewRedisCheckoutLocker(redisClient, checkoutLockTTL)
		}
	}

	var publisher services.EventPublisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.AnalyticsKafkaTopic, zapLogger)
		defer producer.Close()
		publisher = producer
	}

	var snsPublisher awspkg.SNSPublisher
	if cfg.AnalyticsSNSTopicArn != "" {
		snsPublisher = awspkg.NewSNSClient(awsCfg)
	}

	metrics := awspkg.NewMetricsClient(awsCfg, "HushGentle", cfg.CloudWatchEnabled)

	// Repositories
	cartRepo := repository.NewGormCartRepository(db)
	orderRepo := repository.NewGormOrderRepository(db)
	paymentRepo := repository.NewGormPaymentRepo(db)
	analyticsRepo := repository.NewGormAnalyticsRepository(db)
	catalogRepo := repository.NewGormCatalogRepository(db)
	wishlistRepo := repository.NewGormWishlistRepository(db)
	chatRepo := repository.NewGormChatRepository(db)

	// Services
	analyticsSvc := services.NewAnalyticsService(analyticsRepo, publisher, snsPublisher, cfg.AnalyticsSNSTopicArn, metrics, zapLogger)
	paymentSvc := services.NewPaymentService(orderRepo, paymentRepo,
		payments.New(cfg.PaymentsProvider, cfg.StripeAPIKey), analyticsSvc, metrics, zapLogger)
	checkoutSvc := services.NewCheckoutService(cartRepo, orderRepo, paymentSvc, analyticsSvc, locker, metrics, zapLogger)
	cartSvc := services.NewCartService(cartRepo, catalogRepo, analyticsSvc, zapLogger)
	catalogSvc := services.NewCatalogService(catalogRepo, zapLogger)
	wishlistSvc := services.NewWishlistService(wishlistRepo, catalogRepo)
	orderSvc := services.NewOrderService(orderRepo, zapLogger)
	chatSvc := services.NewChatService(chatRepo, catalogRepo, chat.New(cfg.ChatbotProvider), zapLogger)
	adminSvc := services.NewAdminService(orderRepo, paymentRepo, catalogRepo, analyticsRepo, chatRepo, zapLogger)

	if err := controllers.RegisterValidators(); err != nil {
		zapLogger.Fatal("Failed to register validators", zap.Error(err))
	}

	if cfg.AppEnv == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestID())
	r.Use(commonmw.RequestLogger(zapLogger))
	r.Use(commonmw.MetricsMiddleware(metrics, serviceName))
	r.Use(commonmw.CORS(cfg.AllowedOrigins))
	r.Use(commonmw.SecurityHeaders())
	r.Use(commonmw.RateLimitMiddleware(300, 100))
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})
	r.Use(apperrors.ErrorMiddleware(zapLogger))

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	routes.RegisterRoutes(r, routes.Controllers{
		Catalog:   controllers.NewCatalogController(catalogSvc),
		Cart:      controllers.NewCartController(cartSvc),
		Wishlist:  controllers.NewWishlistController(wishlistSvc),
		Checkout:  controllers.NewCheckoutController(checkoutSvc),
		Orders:    controllers.NewOrderController(orderSvc),
		Payments:  controllers.NewPaymentController(paymentSvc),
		Analytics: controllers.NewAnalyticsController(analyticsSvc),
		Chat:      controllers.NewChatController(chatSvc, cfg.CookieSecure),
		Webhooks:  controllers.NewWebhookController(paymentSvc, cfg.StripeWebhookSecret, zapLogger),
		Admin:     controllers.NewAdminController(adminSvc, paymentSvc),
	}, routes.AuthOptions{
		Tokens:              auth.NewTokenManager(cfg.JWTSecret),
		AdminEmail:          cfg.AdminEmail,
		TrustGatewayHeaders: cfg.TrustGatewayHeaders,
		CookieSecure:        cfg.CookieSecure,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		zapLogger.Info("Hush Gentle service running",
			zap.String("port", cfg.Port),
			zap.String("payments_provider", cfg.PaymentsProvider),
			zap.Bool("checkout_lock", locker != nil),
		)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zapLogger.Fatal("Server failed", zap.Error(err))
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)
	<-stop

	zapLogger.Info("Shutting down gracefully...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zapLogger.Error("Shutdown error", zap.Error(err))
	}
	zapLogger.Info("Server shutdown complete")
}
