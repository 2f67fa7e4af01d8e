package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/XdebronneX/backend-TeamPOOR/controllers"
	"github.com/XdebronneX/backend-TeamPOOR/database"
	"github.com/XdebronneX/backend-TeamPOOR/logger"
	"github.com/XdebronneX/backend-TeamPOOR/middleware"
	"github.com/XdebronneX/backend-TeamPOOR/repository"
	"github.com/XdebronneX/backend-TeamPOOR/routes"
	"github.com/XdebronneX/backend-TeamPOOR/services"
)

func main() {
	// Load .env file (optional, falls back to system env)
	_ = godotenv.Load()

	cfg, err := LoadConfig()
	if err != nil {
		logger.Initialize("development")
		zap.L().Fatal("Failed to load configuration", zap.Error(err))
	}

	logger.Initialize(cfg.Env)
	defer logger.Log.Sync()

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// --- 1. Infrastructure ---

	if err := database.Connect(cfg.MongoURI, cfg.MongoDB); err != nil {
		zap.L().Fatal("Failed to connect to MongoDB", zap.Error(err))
	}
	defer func() {
		if err := database.Close(); err != nil {
			zap.L().Error("Failed to disconnect from MongoDB", zap.Error(err))
		}
	}()

	// Redis is optional: without it product listings simply skip the cache.
	var cache *services.CacheManager
	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		redisOpts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			zap.L().Warn("Failed to parse REDIS_URL, product cache disabled", zap.Error(err))
		} else {
			redisClient = redis.NewClient(redisOpts)
			cache = services.NewCacheManager(redisClient)
		}
	}

	storage, err := services.NewS3ImageStorage(context.Background())
	if err != nil {
		zap.L().Fatal("Failed to initialize image storage", zap.Error(err))
	}

	smtpSender, err := services.NewSMTPSender()
	if err != nil {
		zap.L().Fatal("Failed to initialize SMTP sender", zap.Error(err))
	}
	mailer := services.NewMailer(smtpSender, cfg.FrontendURL)

	issuer := services.NewTokenIssuer(cfg.JWTSecret, cfg.JWTExpires)
	checkout := services.NewPayMongoProvider(cfg.PayMongoKey)

	// --- 2. Dependency injection ---

	db := database.DB

	userRepo := repository.NewUserRepository(db)
	verificationTokens := repository.NewVerificationTokenRepository(db)
	paymentTokens := repository.NewPaymentTokenRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	productRepo := repository.NewProductRepository(db)
	brandRepo := repository.NewBrandRepository(db)
	categoryRepo := repository.NewCategoryRepository(db)
	priceHistoryRepo := repository.NewPriceHistoryRepository(db)
	supplierLogRepo := repository.NewSupplierLogRepository(db)
	serviceRepo := repository.NewServiceRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	orderItemRepo := repository.NewOrderItemRepository(db)
	addressRepo := repository.NewAddressRepository(db)
	motorcycleRepo := repository.NewMotorcycleRepository(db)
	fuelRepo := repository.NewFuelRepository(db)
	appointmentRepo := repository.NewAppointmentRepository(db)
	appointmentServiceRepo := repository.NewAppointmentServiceRepository(db)
	feedbackRepo := repository.NewFeedbackRepository(db)
	reportRepo := repository.NewReportRepository(db)

	if err := productRepo.EnsureIndexes(context.Background()); err != nil {
		zap.L().Warn("Failed to ensure product indexes", zap.Error(err))
	}
	if err := motorcycleRepo.EnsureIndexes(context.Background()); err != nil {
		zap.L().Warn("Failed to ensure motorcycle indexes", zap.Error(err))
	}

	userService := services.NewUserService(userRepo, verificationTokens, notificationRepo, issuer, mailer, storage, cfg.FrontendURL)
	productService := services.NewProductService(productRepo, brandRepo, categoryRepo, priceHistoryRepo, supplierLogRepo, storage, cache)
	catalogService := services.NewCatalogService(serviceRepo, storage)
	orderService := services.NewOrderService(orderRepo, orderItemRepo, productRepo, userRepo, brandRepo, paymentTokens, notificationRepo, checkout, mailer, cfg.FrontendURL)
	bookingService := services.NewBookingService(appointmentRepo, appointmentServiceRepo, serviceRepo, productRepo, brandRepo, userRepo, feedbackRepo, storage)
	reportService := services.NewReportService(reportRepo)
	garageService := services.NewGarageService(addressRepo, motorcycleRepo, fuelRepo, userRepo, notificationRepo, storage, mailer)

	auth := middleware.NewAuthenticator(cfg.JWTSecret, userRepo)

	ctrls := routes.Controllers{
		Users:    controllers.NewUserController(userService, cfg.CookieExpires, cfg.Env == "production"),
		Products: controllers.NewProductController(productService),
		Services: controllers.NewServiceController(catalogService),
		Orders:   controllers.NewOrderController(orderService),
		Bookings: controllers.NewBookingController(bookingService),
		Reports:  controllers.NewReportController(reportService),
		Garage:   controllers.NewGarageController(garageService),
	}

	// --- 3. HTTP server & middleware ---

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(logger.RequestLogger())
	r.Use(middleware.SecurityHeaders())
	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RateLimitMiddleware())

	// Request timeout middleware
	r.Use(func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 30*time.Second)
		defer cancel()
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	})

	routes.Register(r, auth, ctrls)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "OK"})
	})

	// --- 4. Graceful shutdown ---

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: r,
	}

	go func() {
		zap.L().Info("TeamPOOR API starting", zap.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			zap.L().Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	zap.L().Info("Shutting down TeamPOOR API...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		zap.L().Fatal("Server forced to shutdown", zap.Error(err))
	}

	if redisClient != nil {
		if err := redisClient.Close(); err != nil {
			zap.L().Error("Failed to close Redis", zap.Error(err))
		}
	}

	zap.L().Info("TeamPOOR API stopped gracefully")
}
