package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"storefront-backend/controllers"
	"storefront-backend/database"
	"storefront-backend/middleware"
	"storefront-backend/models"
	"storefront-backend/repository"
	"storefront-backend/routes"
	"storefront-backend/sender"
	"storefront-backend/services"
)

func main() {
	logger, err := zap.NewProduction()
	if err != nil {
		panic("failed to initialize logger: " + err.Error())
	}
	defer logger.Sync()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Fatal("Failed to load config", zap.Error(err))
	}

	if err := database.Connect(cfg.Postgres); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer database.Close()

	if err := database.DB.AutoMigrate(
		&models.User{},
		&models.Product{},
		&models.ProductVariant{},
		&models.Coupon{},
		&models.Order{},
		&models.OrderItem{},
		&models.Payment{},
		&models.Appointment{},
		&models.BlogPost{},
		&models.Banner{},
		&models.Review{},
		&models.NewsletterSubscriber{},
		&models.ContactMessage{},
	); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}

	redisClient, err := database.NewRedisClient(cfg.RedisURL)
	if err != nil {
		logger.Fatal("Failed to connect to redis", zap.Error(err))
	}
	defer redisClient.Close()

	// Repositories.
	userRepo := repository.NewGormUserRepository(database.DB)
	productRepo := repository.NewGormProductRepository(database.DB)
	couponRepo := repository.NewGormCouponRepository(database.DB)
	orderRepo := repository.NewGormOrderRepository(database.DB)
	paymentRepo := repository.NewGormPaymentRepository(database.DB)
	appointmentRepo := repository.NewGormAppointmentRepository(database.DB)
	contentRepo := repository.NewGormContentRepository(database.DB)
	cartRepo := repository.NewCartRepository(redisClient, cfg.CartTTL)

	// Email goes through SMTP when configured, the log sender otherwise.
	var mailer sender.Sender
	if cfg.SMTPHost != "" {
		smtpSender, err := sender.NewSMTPSender(cfg.SMTPHost, cfg.SMTPPort, cfg.SMTPUser, cfg.SMTPPass)
		if err != nil {
			logger.Fatal("Failed to configure SMTP sender", zap.Error(err))
		}
		mailer = smtpSender
	} else {
		logger.Warn("SMTP not configured, emails will only be logged")
		mailer = sender.NewLogSender(logger)
	}

	// Services.
	tokenService := services.NewTokenService(cfg.JWTSecret, cfg.JWTTTL)
	authService := services.NewAuthService(userRepo, tokenService, logger)
	productService := services.NewProductService(productRepo, logger)
	couponService := services.NewCouponService(couponRepo, logger)
	stripeService := services.NewStripeService(cfg.StripeSecretKey, cfg.StripeWebhookKey)
	cartService := services.NewCartService(cartRepo, productRepo, logger)
	orderService := services.NewOrderService(
		orderRepo, productRepo, paymentRepo, couponService, stripeService, cartRepo, mailer,
		services.PricingConfig{
			ShippingFlatFee: cfg.ShippingFlatFee,
			FreeShippingMin: cfg.FreeShippingMin,
			TaxRate:         cfg.TaxRate,
			Currency:        cfg.Currency,
		},
		logger,
	)
	appointmentService := services.NewAppointmentService(appointmentRepo, logger)
	reviewService := services.NewReviewService(contentRepo, productRepo, logger)
	contentService := services.NewContentService(contentRepo, mailer, cfg.AdminEmail, logger)
	analyticsService := services.NewAnalyticsService(orderRepo, productRepo, userRepo, logger)

	// HTTP layer.
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()
	router.Use(gin.Recovery(), middleware.RequestLogger(logger))
	router.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "Idempotency-Key"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	router.Use(middleware.RateLimit(cfg.RateLimitPerSecond, cfg.RateLimitBurst))

	routes.RegisterRoutes(router, routes.Controllers{
		Auth:         controllers.NewAuthController(authService, userRepo),
		Products:     controllers.NewProductController(productService, reviewService),
		Carts:        controllers.NewCartController(cartService),
		Coupons:      controllers.NewCouponController(couponService),
		Orders:       controllers.NewOrderController(orderService),
		Payments:     controllers.NewPaymentController(stripeService, paymentRepo, orderRepo, logger),
		Appointments: controllers.NewAppointmentController(appointmentService),
		Reviews:      controllers.NewReviewController(reviewService, userRepo),
		Content:      controllers.NewContentController(contentService),
		Analytics:    controllers.NewAnalyticsController(analyticsService),
	}, tokenService)

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		logger.Info("Storefront backend listening", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Fatal("Server failed", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	logger.Info("Shutting down")

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("Forced shutdown", zap.Error(err))
	}
	logger.Info("Server stopped")
}
