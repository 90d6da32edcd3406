package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assistantapp "github.com/bizhub/backend/internal/application/assistant"
	billingapp "github.com/bizhub/backend/internal/application/billing"
	crmapp "github.com/bizhub/backend/internal/application/crm"
	dashboardapp "github.com/bizhub/backend/internal/application/dashboard"
	identityapp "github.com/bizhub/backend/internal/application/identity"
	pipelineapp "github.com/bizhub/backend/internal/application/pipeline"
	projectapp "github.com/bizhub/backend/internal/application/project"
	settingsapp "github.com/bizhub/backend/internal/application/settings"
	"github.com/bizhub/backend/internal/domain/billing"
	"github.com/bizhub/backend/internal/domain/pipeline"
	assistantinfra "github.com/bizhub/backend/internal/infrastructure/assistant"
	"github.com/bizhub/backend/internal/infrastructure/auth"
	"github.com/bizhub/backend/internal/infrastructure/cache"
	"github.com/bizhub/backend/internal/infrastructure/config"
	"github.com/bizhub/backend/internal/infrastructure/event"
	"github.com/bizhub/backend/internal/infrastructure/logger"
	"github.com/bizhub/backend/internal/infrastructure/persistence"
	"github.com/bizhub/backend/internal/infrastructure/scheduler"
	"github.com/bizhub/backend/internal/infrastructure/telemetry"
	"github.com/bizhub/backend/internal/interfaces/http/handler"
	"github.com/bizhub/backend/internal/interfaces/http/middleware"
	"github.com/bizhub/backend/internal/interfaces/http/router"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// version is set at build time via -ldflags
var version = "dev"

func main() {
	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	// Initialize logger
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

	// Bridge logs to the OTLP collector when telemetry is enabled
	if cfg.Telemetry.Enabled {
		logsProvider, err := telemetry.NewLoggerProvider(context.Background(), telemetry.LogsConfig{
			Enabled:           cfg.Telemetry.Enabled,
			CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
			ServiceName:       cfg.Telemetry.ServiceName,
			Insecure:          cfg.Telemetry.Insecure,
		}, log)
		if err != nil {
			log.Warn("Failed to initialize OTLP log exporter", zap.Error(err))
		} else {
			bridged, err := telemetry.CreateBridgedLoggerFromConfig(&telemetry.BaseLoggerConfig{
				Level:      cfg.Log.Level,
				Format:     cfg.Log.Format,
				Output:     cfg.Log.Output,
				TimeFormat: "2006-01-02T15:04:05.000Z07:00",
			}, logsProvider, cfg.Telemetry.ServiceName)
			if err != nil {
				log.Warn("Failed to create bridged logger", zap.Error(err))
			} else {
				log = bridged
			}
			defer func() {
				if err := logsProvider.Shutdown(context.Background()); err != nil {
					log.Error("Error shutting down log provider", zap.Error(err))
				}
			}()
		}
	}

	log.Info("Starting bizhub Backend",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("version", version),
		zap.String("port", cfg.App.Port),
	)

	// Create GORM logger backed by zap
	gormLogLevel := logger.MapGormLogLevel(cfg.Log.Level)
	gormLog := logger.NewGormLogger(log, gormLogLevel)

	// Initialize database connection with custom logger
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	log.Info("Database connected successfully")

	// Initialize Redis (token blacklist + dashboard cache)
	redisClient, err := cache.NewRedisClient(cfg.Redis)
	if err != nil {
		log.Fatal("Failed to connect to Redis", zap.Error(err))
	}
	defer func() {
		if err := redisClient.Close(); err != nil {
			log.Error("Error closing Redis client", zap.Error(err))
		}
	}()
	tokenBlacklist := auth.NewRedisTokenBlacklist(redisClient)
	dashboardCache := cache.NewRedisCache(redisClient, "bizhub")
	log.Info("Redis connected successfully")

	// Initialize telemetry (tracing + metrics)
	ctx := context.Background()
	tracerProvider, err := telemetry.NewTracerProvider(ctx, telemetry.Config{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		SamplingRatio:     cfg.Telemetry.SamplingRatio,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize tracer provider", zap.Error(err))
	}
	defer func() {
		if err := tracerProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	meterProvider, err := telemetry.NewMeterProvider(ctx, telemetry.MetricsConfig{
		Enabled:           cfg.Telemetry.Enabled,
		CollectorEndpoint: cfg.Telemetry.CollectorEndpoint,
		ServiceName:       cfg.Telemetry.ServiceName,
		Insecure:          cfg.Telemetry.Insecure,
	}, log)
	if err != nil {
		log.Fatal("Failed to initialize meter provider", zap.Error(err))
	}
	defer func() {
		if err := meterProvider.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()

	// Database observability: query tracing and metrics plugins
	if cfg.Telemetry.Enabled {
		tracingCfg := telemetry.DefaultDBTracingConfig()
		tracingCfg.Enabled = true
		if err := telemetry.NewDBTracingPlugin(tracingCfg, log).RegisterOtelGorm(db.DB); err != nil {
			log.Warn("Failed to register database tracing", zap.Error(err))
		}

		dbMetrics, err := telemetry.NewDBMetrics(meterProvider.Meter("bizhub.db"), telemetry.DefaultDBMetricsConfig(), log)
		if err != nil {
			log.Warn("Failed to initialize database metrics", zap.Error(err))
		} else {
			if err := db.DB.Use(telemetry.NewDBMetricsPlugin(dbMetrics, log)); err != nil {
				log.Warn("Failed to register database metrics plugin", zap.Error(err))
			}
			if sqlDB, err := db.DB.DB(); err == nil {
				dbMetrics.SetSQLDB(sqlDB)
				dbMetrics.StartPoolStatsCollection(ctx)
				defer dbMetrics.Stop()
			}
		}
	}

	// Initialize repositories
	clientRepo := persistence.NewGormClientRepository(db.DB)
	contactRepo := persistence.NewGormContactRepository(db.DB)
	leadRepo := persistence.NewGormLeadRepository(db.DB)
	dealRepo := persistence.NewGormDealRepository(db.DB)
	optionRepo := persistence.NewGormOptionRepository(db.DB)
	projectRepo := persistence.NewGormProjectRepository(db.DB)
	estimateRepo := persistence.NewGormEstimateRepository(db.DB)
	invoiceRepo := persistence.NewGormInvoiceRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)
	roleRepo := persistence.NewGormRoleRepository(db.DB)
	departmentRepo := persistence.NewGormDepartmentRepository(db.DB)
	profileRepo := persistence.NewGormCompanyProfileRepository(db.DB)

	// Identity services (auth, users, roles, departments)
	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, roleRepo, jwtService, tokenBlacklist, log)
	userService := identityapp.NewUserService(userRepo, roleRepo, departmentRepo, jwtService, tokenBlacklist)
	roleService := identityapp.NewRoleService(roleRepo, userRepo)
	departmentService := identityapp.NewDepartmentService(departmentRepo, userRepo)

	// CRM services
	clientService := crmapp.NewClientService(clientRepo, contactRepo)
	contactService := crmapp.NewContactService(contactRepo, clientRepo)

	// Pipeline services
	optionService := pipelineapp.NewOptionService(optionRepo, leadRepo, dealRepo)
	leadService := pipelineapp.NewLeadService(leadRepo, dealRepo, optionRepo, clientRepo, contactRepo, userRepo)
	dealService := pipelineapp.NewDealService(dealRepo, optionRepo, clientRepo, contactRepo, userRepo)

	// Project and billing services
	projectService := projectapp.NewProjectService(projectRepo, clientRepo)
	estimateService := billingapp.NewEstimateService(estimateRepo, invoiceRepo, clientRepo, projectRepo)
	invoiceService := billingapp.NewInvoiceService(invoiceRepo, clientRepo, projectRepo)

	// Settings and dashboard services
	companyService := settingsapp.NewCompanyService(profileRepo)
	dashboardService := dashboardapp.NewDashboardService(
		clientRepo, projectRepo, leadRepo, dealRepo, optionRepo, invoiceRepo, profileRepo,
		dashboardCache, log,
	)
	dashboardService.SetCacheTTL(cfg.Dashboard.CacheTTL)

	// Assistant completion proxy
	assistantClient := assistantinfra.NewClient(cfg.Assistant)
	assistantService := assistantapp.NewAssistantService(assistantClient)

	// Business metrics: pipeline outcomes and billing activity
	if cfg.Telemetry.Enabled {
		businessMetrics, err := telemetry.NewBusinessMetrics(telemetry.BusinessMetricsConfig{
			Meter:  meterProvider.Meter("bizhub.business"),
			Logger: log,
			PipelineProvider: &pipelineMetricsProvider{
				dealRepo:    dealRepo,
				invoiceRepo: invoiceRepo,
			},
		})
		if err != nil {
			log.Warn("Failed to initialize business metrics", zap.Error(err))
		} else {
			dealService.SetBusinessMetrics(businessMetrics)
			invoiceService.SetBusinessMetrics(businessMetrics)
			businessMetrics.StartPeriodicCollection(ctx, 5*time.Minute)
			defer businessMetrics.Stop()
		}
	}

	// Initialize event bus and wire dashboard cache invalidation
	eventBus := event.NewInMemoryEventBus(log)
	invalidationHandler := dashboardapp.NewCacheInvalidationHandler(dashboardService, log)
	eventBus.Subscribe(invalidationHandler)
	log.Info("Event handlers registered",
		zap.Strings("dashboard_invalidation_events", invalidationHandler.EventTypes()),
	)

	if err := eventBus.Start(context.Background()); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	// Inject event bus into services that publish domain events
	userService.SetEventPublisher(eventBus)
	optionService.SetEventPublisher(eventBus)
	leadService.SetEventPublisher(eventBus)
	dealService.SetEventPublisher(eventBus)
	estimateService.SetEventPublisher(eventBus)
	invoiceService.SetEventPublisher(eventBus)

	// Daily maintenance scheduler: purge soft-deleted deals past retention
	// and expire stale estimates
	var maintenanceScheduler *scheduler.MaintenanceCronScheduler
	if cfg.Scheduler.Enabled {
		cronHour, cronMinute, err := scheduler.ParseCronSchedule(cfg.Scheduler.PurgeCronSchedule)
		if err != nil {
			log.Fatal("Invalid purge cron schedule", zap.Error(err))
		}
		schedulerConfig := scheduler.MaintenanceCronSchedulerConfig{
			Enabled:           cfg.Scheduler.Enabled,
			CronHour:          cronHour,
			CronMinute:        cronMinute,
			DailyCronSchedule: cfg.Scheduler.PurgeCronSchedule,
			JobTimeout:        cfg.Scheduler.JobTimeout,
			MaxConcurrentJobs: cfg.Scheduler.MaxConcurrentJobs,
			RetryAttempts:     cfg.Scheduler.RetryAttempts,
			RetryDelay:        cfg.Scheduler.RetryDelay,
		}
		executor := scheduler.NewTaskExecutor()
		jobRepo := scheduler.NewSchedulerJobRepository(db.DB)
		maintenanceScheduler = scheduler.NewMaintenanceCronScheduler(schedulerConfig, executor, jobRepo, log)

		maintenanceScheduler.RegisterTask(scheduler.TaskFunc{
			TaskName: "purge_expired_deals",
			Fn: func(ctx context.Context) error {
				purged, err := dealService.PurgeExpired(ctx)
				if err != nil {
					return err
				}
				log.Info("Purged deals past retention", zap.Int64("count", purged))
				return nil
			},
		})
		maintenanceScheduler.RegisterTask(scheduler.TaskFunc{
			TaskName: "expire_stale_estimates",
			Fn: func(ctx context.Context) error {
				expired, err := estimateService.ExpireStale(ctx)
				if err != nil {
					return err
				}
				log.Info("Expired stale estimates", zap.Int("count", expired))
				return nil
			},
		})

		if err := maintenanceScheduler.Start(context.Background()); err != nil {
			log.Fatal("Failed to start maintenance scheduler", zap.Error(err))
		}
		defer func() {
			if err := maintenanceScheduler.Stop(context.Background()); err != nil {
				log.Error("Error stopping maintenance scheduler", zap.Error(err))
			}
		}()
		log.Info("Maintenance scheduler started",
			zap.String("schedule", cfg.Scheduler.PurgeCronSchedule),
			zap.Duration("job_timeout", cfg.Scheduler.JobTimeout),
		)
	}

	// Initialize HTTP handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	departmentHandler := handler.NewDepartmentHandler(departmentService)
	clientHandler := handler.NewClientHandler(clientService)
	contactHandler := handler.NewContactHandler(contactService)
	optionHandler := handler.NewOptionHandler(optionService)
	leadHandler := handler.NewLeadHandler(leadService)
	dealHandler := handler.NewDealHandler(dealService)
	projectHandler := handler.NewProjectHandler(projectService)
	estimateHandler := handler.NewEstimateHandler(estimateService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	companyHandler := handler.NewCompanyHandler(companyService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	assistantHandler := handler.NewAssistantHandler(assistantService)
	systemHandler := handler.NewSystemHandler(version)

	// Set Gin mode based on environment
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	// Setup validation
	middleware.SetupValidator()

	// Initialize router with custom middleware
	engine := gin.New()

	// Configure trusted proxies
	if len(cfg.HTTP.TrustedProxies) > 0 {
		if err := engine.SetTrustedProxies(cfg.HTTP.TrustedProxies); err != nil {
			log.Warn("Failed to set trusted proxies", zap.Error(err))
		}
	}

	// Apply middleware stack in order:
	// 1. RequestID - Generate/propagate request ID
	// 2. Recovery - Catch panics
	// 3. Logger - Log requests
	// 4. Tracing/Metrics - OpenTelemetry instrumentation
	// 5. Security - Add security headers
	// 6. CORS - Handle cross-origin requests
	// 7. BodyLimit - Limit request body size
	// 8. RateLimit - Apply rate limiting (if enabled)
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.HTTPMetrics(middleware.HTTPMetricsConfig{
		MeterProvider: meterProvider,
		ServiceName:   cfg.Telemetry.ServiceName,
		Enabled:       cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.Secure())

	// Configure CORS from config
	corsConfig := middleware.CORSConfig{
		AllowOrigins:     cfg.HTTP.CORSAllowOrigins,
		AllowMethods:     cfg.HTTP.CORSAllowMethods,
		AllowHeaders:     cfg.HTTP.CORSAllowHeaders,
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Limit", "X-RateLimit-Remaining"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	engine.Use(middleware.CORSWithConfig(corsConfig))

	// Body size limit
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	// Rate limiting (if enabled)
	if cfg.HTTP.RateLimitEnabled {
		rateLimiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		engine.Use(middleware.RateLimit(rateLimiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Health check endpoint (outside API versioning)
	engine.GET("/health", healthHandler(db, log))

	// Setup API routes using router
	r := router.NewRouter(engine, router.WithAPIVersion("v1"))

	// Apply JWT authentication middleware to API routes
	jwtConfig := middleware.JWTMiddlewareConfig{
		JWTService:     jwtService,
		TokenBlacklist: tokenBlacklist,
		SkipPaths: []string{
			"/api/v1/auth/login",
			"/api/v1/auth/refresh",
			"/api/v1/ping",
			"/api/v1/system/ping",
			"/api/v1/system/info",
		},
		Logger: log,
	}
	r.Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig))

	// Auth domain - login and refresh are public, the rest require a token
	authRoutes := router.NewDomainGroup("auth", "/auth")
	if cfg.HTTP.AuthRateLimitEnabled {
		authLimiter := middleware.NewRateLimiter(cfg.HTTP.AuthRateLimitRequests, cfg.HTTP.AuthRateLimitWindow)
		authRoutes.Use(middleware.RateLimit(authLimiter))
		log.Info("Auth rate limiting enabled",
			zap.Int("requests", cfg.HTTP.AuthRateLimitRequests),
			zap.Duration("window", cfg.HTTP.AuthRateLimitWindow),
		)
	}
	authRoutes.POST("/login", authHandler.Login)
	authRoutes.POST("/refresh", authHandler.RefreshToken)
	authRoutes.POST("/logout", authHandler.Logout)
	authRoutes.GET("/me", authHandler.GetCurrentUser)
	authRoutes.PUT("/password", authHandler.ChangePassword)

	// Identity domain (users, roles, departments). Mutations are guarded by
	// resource:action permissions derived from the HTTP method.
	identityRoutes := router.NewDomainGroup("identity", "")

	userRoutes := identityRoutes.Group("users", "/users")
	userRoutes.Use(middleware.RequireResourceWithConfig("user", middleware.PermissionConfig{Logger: log}))
	userRoutes.POST("", userHandler.Create)
	userRoutes.GET("", userHandler.List)
	userRoutes.GET("/:id", userHandler.Get)
	userRoutes.PUT("/:id", userHandler.Update)
	userRoutes.DELETE("/:id", userHandler.Delete)
	userRoutes.POST("/:id/activate", userHandler.Activate)
	userRoutes.POST("/:id/deactivate", userHandler.Deactivate)
	userRoutes.POST("/:id/reset-password", userHandler.ResetPassword)

	roleRoutes := identityRoutes.Group("roles", "/roles")
	roleRoutes.Use(middleware.RequireResourceWithConfig("role", middleware.PermissionConfig{Logger: log}))
	roleRoutes.POST("", roleHandler.Create)
	roleRoutes.GET("", roleHandler.List)
	roleRoutes.GET("/:id", roleHandler.Get)
	roleRoutes.PUT("/:id", roleHandler.Update)
	roleRoutes.DELETE("/:id", roleHandler.Delete)

	departmentRoutes := identityRoutes.Group("departments", "/departments")
	departmentRoutes.Use(middleware.RequireResourceWithConfig("department", middleware.PermissionConfig{Logger: log}))
	departmentRoutes.POST("", departmentHandler.Create)
	departmentRoutes.GET("", departmentHandler.List)
	departmentRoutes.GET("/:id", departmentHandler.Get)
	departmentRoutes.PUT("/:id", departmentHandler.Update)
	departmentRoutes.DELETE("/:id", departmentHandler.Delete)

	// CRM domain (clients with nested contacts)
	crmRoutes := router.NewDomainGroup("crm", "")
	crmRoutes.POST("/clients", clientHandler.Create)
	crmRoutes.GET("/clients", clientHandler.List)
	crmRoutes.GET("/clients/:id", clientHandler.Get)
	crmRoutes.PUT("/clients/:id", clientHandler.Update)
	crmRoutes.DELETE("/clients/:id", clientHandler.Delete)
	crmRoutes.POST("/clients/:id/archive", clientHandler.Archive)
	crmRoutes.POST("/clients/:id/unarchive", clientHandler.Unarchive)
	crmRoutes.POST("/clients/:id/contacts", contactHandler.Create)
	crmRoutes.GET("/clients/:id/contacts", contactHandler.ListByClient)
	crmRoutes.GET("/contacts/:id", contactHandler.Get)
	crmRoutes.PUT("/contacts/:id", contactHandler.Update)
	crmRoutes.DELETE("/contacts/:id", contactHandler.Delete)

	// Pipeline domain (vocabulary options, leads, deals)
	pipelineRoutes := router.NewDomainGroup("pipeline", "/pipeline")
	pipelineRoutes.POST("/stages", optionHandler.Create(pipeline.OptionKindStage))
	pipelineRoutes.GET("/stages", optionHandler.List(pipeline.OptionKindStage))
	pipelineRoutes.POST("/labels", optionHandler.Create(pipeline.OptionKindLabel))
	pipelineRoutes.GET("/labels", optionHandler.List(pipeline.OptionKindLabel))
	pipelineRoutes.POST("/sources", optionHandler.Create(pipeline.OptionKindSource))
	pipelineRoutes.GET("/sources", optionHandler.List(pipeline.OptionKindSource))
	pipelineRoutes.GET("/options/:id", optionHandler.Get)
	pipelineRoutes.PUT("/options/:id", optionHandler.Update)
	pipelineRoutes.DELETE("/options/:id", optionHandler.Delete)

	dealflowRoutes := router.NewDomainGroup("dealflow", "")
	dealflowRoutes.POST("/leads", leadHandler.Create)
	dealflowRoutes.GET("/leads", leadHandler.List)
	dealflowRoutes.GET("/leads/:id", leadHandler.Get)
	dealflowRoutes.PUT("/leads/:id", leadHandler.Update)
	dealflowRoutes.DELETE("/leads/:id", leadHandler.Delete)
	dealflowRoutes.POST("/leads/:id/convert", leadHandler.Convert)

	dealflowRoutes.POST("/deals", dealHandler.Create)
	dealflowRoutes.GET("/deals", dealHandler.List)
	dealflowRoutes.GET("/deals/:id", dealHandler.Get)
	dealflowRoutes.PUT("/deals/:id", dealHandler.Update)
	dealflowRoutes.DELETE("/deals/:id", dealHandler.Delete)
	dealflowRoutes.POST("/deals/:id/win", dealHandler.Win)
	dealflowRoutes.POST("/deals/:id/lose", dealHandler.Lose)
	dealflowRoutes.POST("/deals/:id/reopen", dealHandler.Reopen)
	dealflowRoutes.POST("/deals/:id/restore", dealHandler.Restore)

	// Project domain
	projectRoutes := router.NewDomainGroup("project", "")
	projectRoutes.POST("/projects", projectHandler.Create)
	projectRoutes.GET("/projects", projectHandler.List)
	projectRoutes.GET("/projects/:id", projectHandler.Get)
	projectRoutes.PUT("/projects/:id", projectHandler.Update)
	projectRoutes.DELETE("/projects/:id", projectHandler.Delete)
	projectRoutes.POST("/projects/:id/transition", projectHandler.Transition)

	// Billing domain (estimates, invoices)
	billingRoutes := router.NewDomainGroup("billing", "")
	billingRoutes.POST("/estimates", estimateHandler.Create)
	billingRoutes.GET("/estimates", estimateHandler.List)
	billingRoutes.GET("/estimates/:id", estimateHandler.Get)
	billingRoutes.PUT("/estimates/:id", estimateHandler.Update)
	billingRoutes.DELETE("/estimates/:id", estimateHandler.Delete)
	billingRoutes.POST("/estimates/:id/send", estimateHandler.Send)
	billingRoutes.POST("/estimates/:id/accept", estimateHandler.Accept)
	billingRoutes.POST("/estimates/:id/decline", estimateHandler.Decline)

	billingRoutes.POST("/invoices", invoiceHandler.Create)
	billingRoutes.GET("/invoices", invoiceHandler.List)
	billingRoutes.GET("/invoices/:id", invoiceHandler.Get)
	billingRoutes.PUT("/invoices/:id", invoiceHandler.Update)
	billingRoutes.DELETE("/invoices/:id", invoiceHandler.Delete)
	billingRoutes.POST("/invoices/:id/send", invoiceHandler.Send)
	billingRoutes.POST("/invoices/:id/void", invoiceHandler.Void)
	billingRoutes.POST("/invoices/:id/payments", invoiceHandler.RecordPayment)

	// Settings domain (company profile singleton)
	settingsRoutes := router.NewDomainGroup("settings", "/settings")
	settingsRoutes.GET("/company", companyHandler.Get)
	settingsRoutes.PUT("/company", companyHandler.Update)

	// Dashboard domain (cached aggregates)
	dashboardRoutes := router.NewDomainGroup("dashboard", "/dashboard")
	dashboardRoutes.GET("/summary", dashboardHandler.Summary)
	dashboardRoutes.GET("/pipeline", dashboardHandler.Pipeline)
	dashboardRoutes.GET("/revenue", dashboardHandler.Revenue)

	// Assistant domain (AI completion proxy)
	assistantRoutes := router.NewDomainGroup("assistant", "/assistant")
	assistantRoutes.POST("/chat", assistantHandler.Chat)
	assistantRoutes.POST("/chat/stream", assistantHandler.ChatStream)

	// System routes
	systemRoutes := router.NewDomainGroup("system", "/system")
	systemRoutes.GET("/info", systemHandler.GetSystemInfo)
	systemRoutes.GET("/ping", systemHandler.Ping)

	// Register all domain groups
	r.Register(authRoutes).
		Register(identityRoutes).
		Register(crmRoutes).
		Register(pipelineRoutes).
		Register(dealflowRoutes).
		Register(projectRoutes).
		Register(billingRoutes).
		Register(settingsRoutes).
		Register(dashboardRoutes).
		Register(assistantRoutes).
		Register(systemRoutes)

	// Setup routes
	r.Setup()

	// Also keep a simple ping at root API level for basic health checks
	engine.GET("/api/v1/ping", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "pong"})
	})

	// Create HTTP server with config
	srv := &http.Server{
		Addr:           ":" + cfg.App.Port,
		Handler:        engine,
		ReadTimeout:    cfg.HTTP.ReadTimeout,
		WriteTimeout:   cfg.HTTP.WriteTimeout,
		IdleTimeout:    cfg.HTTP.IdleTimeout,
		MaxHeaderBytes: cfg.HTTP.MaxHeaderBytes,
	}

	// Start server in goroutine
	go func() {
		log.Info("Server starting", zap.String("addr", srv.Addr))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
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

// pipelineMetricsProvider adapts the repositories to the periodic metrics
// collection interface
type pipelineMetricsProvider struct {
	dealRepo    pipeline.DealRepository
	invoiceRepo billing.InvoiceRepository
}

func (p *pipelineMetricsProvider) CountOpenDeals(ctx context.Context) (int64, error) {
	return p.dealRepo.CountByStatus(ctx, pipeline.DealStatusOpen)
}

func (p *pipelineMetricsProvider) OutstandingInvoiceBalance(ctx context.Context) (decimal.Decimal, error) {
	sum, err := p.invoiceRepo.SumOutstanding(ctx)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromString(sum)
}

// healthHandler returns a handler for health check endpoints
func healthHandler(db *persistence.Database, _ *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		reqLog := logger.GetGinLogger(c)
		if err := db.Ping(); err != nil {
			reqLog.Warn("Health check failed", zap.Error(err))
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status":   "unhealthy",
				"time":     time.Now().Format(time.RFC3339),
				"database": "error",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status":   "healthy",
			"time":     time.Now().Format(time.RFC3339),
			"database": "ok",
		})
	}
}
