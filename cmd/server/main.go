package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	basketapp "github.com/fruitflow/backend/internal/application/basket"
	billingapp "github.com/fruitflow/backend/internal/application/billing"
	exportapp "github.com/fruitflow/backend/internal/application/export"
	financeapp "github.com/fruitflow/backend/internal/application/finance"
	hrapp "github.com/fruitflow/backend/internal/application/hr"
	identityapp "github.com/fruitflow/backend/internal/application/identity"
	mailboxapp "github.com/fruitflow/backend/internal/application/mailbox"
	messagingapp "github.com/fruitflow/backend/internal/application/messaging"
	outboxapp "github.com/fruitflow/backend/internal/application/outbox"
	partnerapp "github.com/fruitflow/backend/internal/application/partner"
	"github.com/fruitflow/backend/internal/infrastructure/auth"
	"github.com/fruitflow/backend/internal/infrastructure/config"
	"github.com/fruitflow/backend/internal/infrastructure/event"
	"github.com/fruitflow/backend/internal/infrastructure/line"
	"github.com/fruitflow/backend/internal/infrastructure/logger"
	"github.com/fruitflow/backend/internal/infrastructure/persistence"
	"github.com/fruitflow/backend/internal/infrastructure/printing"
	"github.com/fruitflow/backend/internal/infrastructure/storage"
	"github.com/fruitflow/backend/internal/infrastructure/telemetry"
	"github.com/fruitflow/backend/internal/interfaces/http/handler"
	"github.com/fruitflow/backend/internal/interfaces/http/middleware"
	"github.com/fruitflow/backend/internal/interfaces/http/router"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log, err := logger.New(&logger.Config{
		Level:      cfg.Log.Level,
		Format:     cfg.Log.Format,
		Output:     cfg.Log.Output,
		TimeFormat: "2006-01-02T15:04:05.000Z07:00",
	})
	if err != nil {
		panic("Failed to initialize logger: " + err.Error())
	}
	defer func() {
		_ = logger.Sync(log)
	}()

	log.Info("Starting Fruit Flow backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
	)

	ctx := context.Background()

	tracerProvider, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level))
	db, err := persistence.NewDatabaseWithLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected")

	dbTracing := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfig{
		Enabled:         cfg.Telemetry.Enabled && cfg.Telemetry.DBTraceEnabled,
		SlowQueryThresh: cfg.Telemetry.DBSlowQueryThresh,
		DBSystem:        "postgresql",
	}, log)
	if err := dbTracing.Register(db.DB); err != nil {
		log.Fatal("Failed to register database tracing", zap.Error(err))
	}

	// Redis backs the token blacklist. The blacklist fails open, so a Redis
	// outage degrades revocation instead of taking auth down.
	redisClient := redis.NewClient(&redis.Options{
		Addr:     fmt.Sprintf("%s:%d", cfg.Redis.Host, cfg.Redis.Port),
		Password: cfg.Redis.Password,
		DB:       cfg.Redis.DB,
	})
	defer func() {
		_ = redisClient.Close()
	}()
	pingCtx, cancelPing := context.WithTimeout(ctx, 5*time.Second)
	if err := redisClient.Ping(pingCtx).Err(); err != nil {
		log.Warn("Redis unreachable at startup, token revocation degraded", zap.Error(err))
	}
	cancelPing()

	// Repositories
	userRepo := persistence.NewGormUserRepository(db.DB)
	billRepo := persistence.NewGormBillRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	basketRepo := persistence.NewGormBasketEntryRepository(db.DB)
	customerRepo := persistence.NewGormCustomerRepository(db.DB)
	employeeRepo := persistence.NewGormEmployeeRepository(db.DB)
	expenseRepo := persistence.NewGormExpenseRepository(db.DB)
	mailboxRepo := persistence.NewGormMailboxRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	outboxRepo := event.NewGormOutboxRepository(db.DB)

	// Auth infrastructure
	jwtService := auth.NewJWTService(cfg.JWT)
	blacklist := auth.NewRedisTokenBlacklist(redisClient)

	// Messaging infrastructure
	lineClient := line.NewClient(cfg.Line)
	objectStorage, err := storage.NewS3ObjectStorage(&cfg.Storage, log)
	if err != nil {
		log.Fatal("Failed to initialize object storage", zap.Error(err))
	}
	renderer := printing.NewChromedpRenderer(cfg.Printing, log)
	defer func() {
		_ = renderer.Close()
	}()

	// Application services
	authService := identityapp.NewAuthService(userRepo, jwtService, blacklist, log)
	userService := identityapp.NewUserService(userRepo, jwtService, blacklist, log)
	billService := billingapp.NewBillService(billRepo)
	scheduleService := billingapp.NewScheduleService(billRepo, scheduleRepo)
	basketService := basketapp.NewService(basketRepo)
	customerService := partnerapp.NewCustomerService(customerRepo)
	employeeService := hrapp.NewEmployeeService(employeeRepo)
	expenseService := financeapp.NewExpenseService(expenseRepo)
	mailboxService := mailboxapp.NewService(mailboxRepo, nil)
	webhookService := messagingapp.NewWebhookService(contactRepo, customerRepo, mailboxService, lineClient, log)
	contactService := messagingapp.NewContactService(contactRepo, customerRepo)
	imageService := messagingapp.NewImageService(contactRepo, objectStorage, lineClient, log)
	exportService := exportapp.NewExportService(billRepo)
	printService := exportapp.NewPrintService(billRepo, scheduleRepo, renderer)
	outboxAdminService := outboxapp.NewAdminService(outboxRepo, log)

	// Outbox delivery
	dispatcher := event.NewWebhookDispatcher(cfg.Webhook)
	processorConfig := event.DefaultOutboxProcessorConfig()
	if cfg.Event.BatchSize > 0 {
		processorConfig.BatchSize = cfg.Event.BatchSize
	}
	if cfg.Event.PollInterval > 0 {
		processorConfig.PollInterval = cfg.Event.PollInterval
	}
	if cfg.Event.MaxRetries > 0 {
		processorConfig.MaxRetries = cfg.Event.MaxRetries
	}
	processorConfig.CleanupEnabled = cfg.Event.CleanupEnabled
	if cfg.Event.CleanupRetention > 0 {
		processorConfig.CleanupRetention = cfg.Event.CleanupRetention
	}
	processor := event.NewOutboxProcessor(outboxRepo, dispatcher, processorConfig, log)
	if cfg.Event.ProcessorEnabled {
		if err := processor.Start(ctx); err != nil {
			log.Fatal("Failed to start outbox processor", zap.Error(err))
		}
		defer func() {
			stopCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
			defer cancel()
			if err := processor.Stop(stopCtx); err != nil {
				log.Error("Error stopping outbox processor", zap.Error(err))
			}
		}()
	}

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	billHandler := handler.NewBillHandler(billService)
	scheduleHandler := handler.NewScheduleHandler(scheduleService)
	basketHandler := handler.NewBasketHandler(basketService)
	customerHandler := handler.NewCustomerHandler(customerService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	mailboxHandler := handler.NewMailboxHandler(mailboxService)
	sseHandler := handler.NewMailboxSSEHandler(mailboxService, log)
	mailboxService.SetNotifier(sseHandler)
	webhookHandler := handler.NewWebhookHandler(webhookService, cfg.Line, log)
	contactHandler := handler.NewContactHandler(contactService, imageService)
	exportHandler := handler.NewExportHandler(exportService, printService)
	outboxHandler := handler.NewOutboxHandler(outboxAdminService)
	systemHandler := handler.NewSystemHandler(db.DB, redisClient)

	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	middleware.SetupValidator()

	engine := gin.New()

	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.Tracing(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Probes, outside API versioning
	engine.GET("/health", systemHandler.Health)
	engine.GET("/ready", systemHandler.Ready)

	// Public auth endpoints, with their own tighter rate limit
	authPublic := engine.Group("/api/v1/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authPublic.Use(middleware.RateLimit(authLimiter))
	}
	authPublic.POST("/signup", authHandler.Signup)
	authPublic.POST("/login", authHandler.Login)
	authPublic.POST("/refresh", authHandler.Refresh)

	// Provider webhook, verified by HMAC signature instead of a token
	engine.POST("/api/v1/webhooks/line", webhookHandler.HandleLine)

	// Authenticated API
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))
	r.Use(middleware.JWTAuthMiddleware(middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: blacklist,
		Logger:         log,
	}))

	// Session routes stay open to pending accounts so they can see their
	// approval status and log out
	sessionRoutes := router.NewDomainGroup("session", "/auth")
	sessionRoutes.POST("/logout", authHandler.Logout)
	sessionRoutes.GET("/me", authHandler.Me)
	sessionRoutes.POST("/change-password", authHandler.ChangePassword)

	approved := middleware.RequireApproved()

	billRoutes := router.NewDomainGroup("billing", "/bills")
	billRoutes.Use(approved)
	billRoutes.POST("", billHandler.Create)
	billRoutes.GET("", billHandler.List)
	billRoutes.GET("/customers", billHandler.CustomerNames)
	billRoutes.GET("/:id", billHandler.Get)
	billRoutes.PUT("/:id", billHandler.Update)
	billRoutes.DELETE("/:id", billHandler.Delete)
	billRoutes.GET("/:id/schedule", scheduleHandler.Load)
	billRoutes.PUT("/:id/schedule", scheduleHandler.Save)
	billRoutes.GET("/:id/print", exportHandler.BillPDF)
	billRoutes.GET("/:id/print/html", exportHandler.BillHTML)

	exportRoutes := router.NewDomainGroup("export", "/exports")
	exportRoutes.Use(approved)
	exportRoutes.GET("/bills/csv", exportHandler.BillsCSV)
	exportRoutes.GET("/bills/xlsx", exportHandler.BillsXLSX)

	basketRoutes := router.NewDomainGroup("basket", "/baskets")
	basketRoutes.Use(approved)
	basketRoutes.POST("", basketHandler.Create)
	basketRoutes.GET("", basketHandler.List)
	basketRoutes.GET("/balance", basketHandler.Balance)
	basketRoutes.GET("/customers", basketHandler.CustomerNames)
	basketRoutes.DELETE("/:id", basketHandler.Delete)

	customerRoutes := router.NewDomainGroup("partner", "/customers")
	customerRoutes.Use(approved)
	customerRoutes.POST("", customerHandler.Create)
	customerRoutes.GET("", customerHandler.List)
	customerRoutes.GET("/:id", customerHandler.Get)
	customerRoutes.PUT("/:id", customerHandler.Update)
	customerRoutes.DELETE("/:id", customerHandler.Delete)

	employeeRoutes := router.NewDomainGroup("hr", "/employees")
	employeeRoutes.Use(approved)
	employeeRoutes.POST("", employeeHandler.Create)
	employeeRoutes.GET("", employeeHandler.List)
	employeeRoutes.GET("/:id", employeeHandler.Get)
	employeeRoutes.PUT("/:id", employeeHandler.Update)
	employeeRoutes.DELETE("/:id", employeeHandler.Delete)
	employeeRoutes.POST("/:id/withdrawals", employeeHandler.AddWithdrawal)
	employeeRoutes.DELETE("/:id/withdrawals/:withdrawal_id", employeeHandler.RemoveWithdrawal)
	employeeRoutes.GET("/:id/payroll", employeeHandler.Payroll)

	expenseRoutes := router.NewDomainGroup("finance", "/expenses")
	expenseRoutes.Use(approved)
	expenseRoutes.POST("", expenseHandler.Create)
	expenseRoutes.GET("", expenseHandler.List)
	expenseRoutes.GET("/:id", expenseHandler.Get)
	expenseRoutes.PUT("/:id", expenseHandler.Update)
	expenseRoutes.DELETE("/:id", expenseHandler.Delete)

	mailboxRoutes := router.NewDomainGroup("mailbox", "/mailbox")
	mailboxRoutes.Use(approved)
	mailboxRoutes.GET("", mailboxHandler.List)
	mailboxRoutes.GET("/stream", sseHandler.Stream)
	mailboxRoutes.GET("/unread-count", mailboxHandler.UnreadCount)
	mailboxRoutes.POST("/read-all", mailboxHandler.MarkAllRead)
	mailboxRoutes.POST("/:id/read", mailboxHandler.MarkRead)
	mailboxRoutes.DELETE("/:id", mailboxHandler.Delete)

	contactRoutes := router.NewDomainGroup("messaging", "/contacts")
	contactRoutes.Use(approved)
	contactRoutes.GET("", contactHandler.List)
	contactRoutes.GET("/:id", contactHandler.Get)
	contactRoutes.POST("/:id/link", contactHandler.LinkCustomer)
	contactRoutes.DELETE("/:id/link", contactHandler.UnlinkCustomer)
	contactRoutes.POST("/:id/push-bill", contactHandler.PushBillImage)

	admin := middleware.RequireAdmin()

	userRoutes := router.NewDomainGroup("identity", "/users")
	userRoutes.Use(admin)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.POST("/:id/approve", userHandler.Approve)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/admin", userHandler.SetAdmin)

	outboxRoutes := router.NewDomainGroup("outbox", "/outbox")
	outboxRoutes.Use(admin)
	outboxRoutes.GET("/dead", outboxHandler.ListDead)
	outboxRoutes.GET("/stats", outboxHandler.Stats)
	outboxRoutes.POST("/:id/requeue", outboxHandler.Requeue)

	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.Info)

	r.Register(sessionRoutes).
		Register(billRoutes).
		Register(exportRoutes).
		Register(basketRoutes).
		Register(customerRoutes).
		Register(employeeRoutes).
		Register(expenseRoutes).
		Register(mailboxRoutes).
		Register(contactRoutes).
		Register(userRoutes).
		Register(outboxRoutes).
		Register(systemRoutes)
	r.Setup()

	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatal("Server forced to shutdown", zap.Error(err))
	}

	log.Info("Server exited gracefully")
}
