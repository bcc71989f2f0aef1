package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryecho "github.com/getsentry/sentry-go/echo"
	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo/v4"
	echomw "github.com/labstack/echo/v4/middleware"

	"github.com/coweringg/LawCaseAI/config"
	"github.com/coweringg/LawCaseAI/pkg/ai/llm"
	"github.com/coweringg/LawCaseAI/pkg/api/handlers"
	"github.com/coweringg/LawCaseAI/pkg/api/middleware"
	"github.com/coweringg/LawCaseAI/pkg/auth"
	"github.com/coweringg/LawCaseAI/pkg/billing"
	"github.com/coweringg/LawCaseAI/pkg/cache"
	"github.com/coweringg/LawCaseAI/pkg/cases"
	"github.com/coweringg/LawCaseAI/pkg/chat"
	"github.com/coweringg/LawCaseAI/pkg/database"
	"github.com/coweringg/LawCaseAI/pkg/email"
	"github.com/coweringg/LawCaseAI/pkg/export"
	"github.com/coweringg/LawCaseAI/pkg/files"
	"github.com/coweringg/LawCaseAI/pkg/jobs"
	"github.com/coweringg/LawCaseAI/pkg/logger"
	"github.com/coweringg/LawCaseAI/pkg/metrics"
	"github.com/coweringg/LawCaseAI/pkg/models"
	"github.com/coweringg/LawCaseAI/pkg/storage"
	"github.com/coweringg/LawCaseAI/pkg/users"
)

const version = "1.0.0"

// platformCounters adapts the case and file repositories to the admin
// stats endpoint.
type platformCounters struct {
	cases cases.Repository
	files *files.Service
}

func (p platformCounters) CountAllCases(ctx context.Context) (int64, error) {
	return p.cases.CountAll(ctx)
}

func (p platformCounters) CountAllFiles(ctx context.Context) (int64, error) {
	return p.files.CountAll(ctx)
}

func main() {
	log.Println("🚀 Starting LawCaseAI API...")

	cfg := config.Load()

	// Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      cfg.SentryEnvironment,
			TracesSampleRate: 0.1,
		}); err != nil {
			log.Printf("⚠️ Sentry initialization failed: %v", err)
		} else {
			log.Println("✅ Sentry initialized")
			defer sentry.Flush(2 * time.Second)
		}
	}

	// MongoDB
	db, err := database.NewClient(cfg.MongoURI, cfg.MongoDBName)
	if err != nil {
		log.Fatalf("❌ MongoDB connection failed: %v", err)
	}
	defer db.Close()

	{
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		if err := db.EnsureIndexes(ctx); err != nil {
			log.Fatalf("❌ Index creation failed: %v", err)
		}
		cancel()
		log.Println("✅ Indexes ensured")
	}

	// Redis
	redisClient, err := cache.NewClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("❌ Redis connection failed: %v", err)
	}
	defer redisClient.Close()

	blacklist := auth.NewTokenBlacklist(redisClient)

	// Object storage
	var objectStore storage.ObjectStore
	if cfg.R2AccessKeyID != "" {
		r2, err := storage.NewR2Store(context.Background(), storage.R2Config{
			AccessKeyID:     cfg.R2AccessKeyID,
			SecretAccessKey: cfg.R2SecretAccessKey,
			Bucket:          cfg.R2Bucket,
			Endpoint:        cfg.R2Endpoint,
			PublicURL:       cfg.R2PublicURL,
		})
		if err != nil {
			log.Fatalf("❌ R2 storage setup failed: %v", err)
		}
		objectStore = r2
	} else {
		log.Println("⚠️ R2 not configured; file uploads will fail")
	}

	// LLM
	var responder chat.Responder
	if cfg.LLMAPIKey != "" {
		responder = llm.NewClient(cfg.LLMAPIKey, cfg.LLMBaseURL, cfg.LLMModel)
		log.Println("✅ LLM client configured")
	} else {
		log.Println("⚠️ LLM not configured; chat replies will fall back")
	}

	// Email
	smtpPort, _ := strconv.Atoi(cfg.SMTPPort)
	mailer := email.NewService(email.Config{
		SendGridAPIKey: cfg.SendGridAPIKey,
		SMTPHost:       cfg.SMTPHost,
		SMTPPort:       smtpPort,
		SMTPUser:       cfg.SMTPUser,
		SMTPPassword:   cfg.SMTPPassword,
		FromAddress:    cfg.EmailFrom,
		FromName:       cfg.EmailFromName,
	})

	// Repositories
	userRepo := users.NewMongoRepository(db)
	caseRepo := cases.NewMongoRepository(db)
	fileRepo := files.NewMongoRepository(db)
	chatRepo := chat.NewMongoRepository(db)

	// Services
	userSvc := users.NewService(userRepo, mailer)
	fileSvc := files.NewService(fileRepo, caseRepo, objectStore)
	chatSvc := chat.NewService(chatRepo, caseRepo, responder)
	caseSvc := cases.NewService(caseRepo, userRepo, fileSvc, chatSvc)
	exportSvc := export.NewService(caseRepo)
	billingSvc := billing.NewService(billing.Config{
		SecretKey:         cfg.StripeSecretKey,
		WebhookSecret:     cfg.StripeWebhookSecret,
		PriceProfessional: cfg.StripePriceProfessional,
		PriceEnterprise:   cfg.StripePriceEnterprise,
		FrontendURL:       cfg.FrontendURL,
	}, userSvc, userRepo)

	// Cron jobs
	if cfg.QuotaReconcileEnabled {
		cron := jobs.NewCronManager(userRepo, caseRepo, logger.New(cfg.LogLevel))
		if err := cron.Start(); err != nil {
			log.Fatalf("❌ Cron setup failed: %v", err)
		}
		defer cron.Stop()
	}

	validate := validator.New()

	// Handlers
	authHandler := handlers.NewAuthHandler(userSvc, blacklist, validate, cfg.JWTSecret, cfg.JWTExpirationHours)
	userHandler := handlers.NewUserHandler(userSvc, validate)
	caseHandler := handlers.NewCaseHandler(caseSvc, validate)
	fileHandler := handlers.NewFileHandler(fileSvc)
	chatHandler := handlers.NewChatHandler(chatSvc, validate)
	adminHandler := handlers.NewAdminHandler(userSvc, userRepo, platformCounters{cases: caseRepo, files: fileSvc}, validate)
	billingHandler := handlers.NewBillingHandler(billingSvc, validate)
	exportHandler := handlers.NewExportHandler(exportSvc)
	healthHandler := handlers.NewHealthHandler(db, redisClient, version)

	// Echo
	e := echo.New()
	e.HideBanner = true

	e.Use(echomw.Recover())
	e.Use(echomw.Logger())
	e.Use(echomw.CORSWithConfig(echomw.CORSConfig{
		AllowOrigins: []string{cfg.FrontendURL},
		AllowMethods: []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAuthorization},
	}))
	e.Use(metrics.Middleware())
	if cfg.SentryDSN != "" {
		e.Use(sentryecho.New(sentryecho.Options{Repanic: true}))
	}

	// Rate limiters
	globalLimiter := middleware.NewRateLimiterWithBurst(cfg.RateLimitRequestsPerMinute, cfg.RateLimitBurst, time.Minute)
	loginLimiter := middleware.NewRateLimiter(5, time.Minute)
	registerLimiter := middleware.NewRateLimiter(3, time.Hour)
	e.Use(globalLimiter.Middleware())

	authenticate := middleware.Authenticate(cfg.JWTSecret, blacklist, userSvc.GetByHexID)
	optionalAuth := middleware.OptionalAuth(cfg.JWTSecret, blacklist, userSvc.GetByHexID)
	adminOnly := middleware.RequireRoles(models.RoleAdmin)

	// Routes
	e.GET("/health", healthHandler.Check)
	e.GET("/metrics", metrics.Handler())

	api := e.Group("/api")

	authGroup := api.Group("/auth")
	authGroup.POST("/register", authHandler.Register, registerLimiter.Middleware())
	authGroup.POST("/login", authHandler.Login, loginLimiter.Middleware())
	authGroup.POST("/refresh", authHandler.Refresh, authenticate)
	authGroup.POST("/logout", authHandler.Logout, authenticate)
	authGroup.GET("/me", authHandler.Me, authenticate)

	userGroup := api.Group("/user", authenticate)
	userGroup.GET("/profile", userHandler.Profile)
	userGroup.PUT("/profile", userHandler.UpdateProfile)
	userGroup.PUT("/password", userHandler.ChangePassword)
	userGroup.PUT("/notifications", userHandler.UpdateNotifications)

	caseGroup := api.Group("/cases", authenticate)
	caseGroup.GET("", caseHandler.List)
	caseGroup.POST("", caseHandler.Create)
	caseGroup.GET("/stats", caseHandler.Stats)
	caseGroup.GET("/export", exportHandler.Cases)
	caseGroup.GET("/:id", caseHandler.Get)
	caseGroup.PUT("/:id", caseHandler.Update)
	caseGroup.DELETE("/:id", caseHandler.Delete)

	fileGroup := api.Group("/files", authenticate)
	fileGroup.POST("/upload", fileHandler.Upload)
	fileGroup.GET("", fileHandler.ListMine)
	fileGroup.GET("/case/:caseId", fileHandler.ListByCase)
	fileGroup.GET("/:id", fileHandler.Get)
	fileGroup.DELETE("/:id", fileHandler.Delete)

	chatGroup := api.Group("/chat", authenticate)
	chatGroup.GET("/case/:caseId", chatHandler.Messages)
	chatGroup.POST("/case/:caseId", chatHandler.Send)
	chatGroup.DELETE("/case/:caseId", chatHandler.Clear)

	billingGroup := api.Group("/billing")
	billingGroup.GET("/pricing", billingHandler.Pricing, optionalAuth)
	billingGroup.POST("/checkout", billingHandler.Checkout, authenticate)
	billingGroup.POST("/webhook", billingHandler.Webhook)

	adminGroup := api.Group("/admin", authenticate, adminOnly)
	adminGroup.GET("/users", adminHandler.ListUsers)
	adminGroup.PUT("/users/:id/status", adminHandler.UpdateUserStatus)
	adminGroup.PUT("/users/:id/plan", adminHandler.UpdateUserPlan)
	adminGroup.GET("/stats", adminHandler.Stats)

	// Start
	addr := cfg.APIHost + ":" + cfg.APIPort
	go func() {
		log.Printf("🌐 Listening on %s", addr)
		if err := e.Start(addr); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("🛑 Shutting down...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := e.Shutdown(ctx); err != nil {
		log.Printf("⚠️ Shutdown error: %v", err)
	}
	log.Println("👋 Bye")
}
