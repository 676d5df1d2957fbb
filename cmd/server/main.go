package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	assistantapp "github.com/erp/logistics/internal/application/assistant"
	equipmentapp "github.com/erp/logistics/internal/application/equipment"
	financeapp "github.com/erp/logistics/internal/application/finance"
	identityapp "github.com/erp/logistics/internal/application/identity"
	menuapp "github.com/erp/logistics/internal/application/menu"
	partnerapp "github.com/erp/logistics/internal/application/partner"
	purchasingapp "github.com/erp/logistics/internal/application/purchasing"
	salesapp "github.com/erp/logistics/internal/application/sales"
	scheduleapp "github.com/erp/logistics/internal/application/schedule"
	wmsapp "github.com/erp/logistics/internal/application/wms"
	"github.com/erp/logistics/internal/infrastructure/ai"
	"github.com/erp/logistics/internal/infrastructure/auth"
	"github.com/erp/logistics/internal/infrastructure/cache"
	"github.com/erp/logistics/internal/infrastructure/config"
	"github.com/erp/logistics/internal/infrastructure/event"
	"github.com/erp/logistics/internal/infrastructure/logger"
	"github.com/erp/logistics/internal/infrastructure/migration"
	"github.com/erp/logistics/internal/infrastructure/persistence"
	"github.com/erp/logistics/internal/infrastructure/scheduler"
	"github.com/erp/logistics/internal/infrastructure/storage"
	"github.com/erp/logistics/internal/infrastructure/telemetry"
	"github.com/erp/logistics/internal/interfaces/http/handler"
	"github.com/erp/logistics/internal/interfaces/http/middleware"
	"github.com/erp/logistics/internal/interfaces/http/router"
	"github.com/erp/logistics/migrations"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// version is overridden at build time with -ldflags "-X main.version=..."
var version = "dev"

func main() {
	cfg, err := config.Load()
	if err != nil {
		panic("Failed to load configuration: " + err.Error())
	}

	log := logger.New(cfg.Log, cfg.App.Env)
	defer func() { _ = log.Sync() }()

	log.Info("Starting ERP logistics API",
		zap.String("app", cfg.App.Name),
		zap.String("env", cfg.App.Env),
		zap.String("port", cfg.App.Port),
		zap.String("version", version),
	)

	ctx := context.Background()

	// Tracing
	tp, err := telemetry.NewTracerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize tracing", zap.Error(err))
	}
	defer func() {
		if err := tp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down tracer provider", zap.Error(err))
		}
	}()

	// Metrics and the zap to OTLP log bridge
	mp, err := telemetry.NewMeterProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize metrics", zap.Error(err))
	}
	defer func() {
		if err := mp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down meter provider", zap.Error(err))
		}
	}()
	lp, err := telemetry.NewLoggerProvider(ctx, cfg.Telemetry, log)
	if err != nil {
		log.Fatal("Failed to initialize log export", zap.Error(err))
	}
	defer func() {
		if err := lp.Shutdown(context.Background()); err != nil {
			log.Error("Error shutting down logger provider", zap.Error(err))
		}
	}()
	log = lp.Attach(log, logger.ParseLevel(cfg.Log.Level))

	// Database
	gormLog := logger.NewGormLogger(log, logger.MapGormLogLevel(cfg.Log.Level), cfg.Telemetry.DBSlowQueryThresh, cfg.Telemetry.DBLogFullSQL)
	db, err := persistence.NewDatabaseWithCustomLogger(&cfg.Database, gormLog)
	if err != nil {
		log.Fatal("Failed to connect to database", zap.Error(err))
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error("Error closing database", zap.Error(err))
		}
	}()
	if err := telemetry.NewDBTracingPlugin(telemetry.DBTracingConfigFrom(cfg.Telemetry), log).Register(db.DB); err != nil {
		log.Warn("Failed to register database tracing", zap.Error(err))
	}
	dbMetrics, err := telemetry.RegisterDBMetrics(db.DB, mp, cfg.Telemetry.DBSlowQueryThresh, log)
	if err != nil {
		log.Warn("Failed to register database metrics", zap.Error(err))
	}
	if dbMetrics != nil {
		defer dbMetrics.Stop()
	}
	log.Info("Database connected successfully")

	if cfg.Database.AutoMigrate {
		if err := runMigrations(db, log); err != nil {
			log.Fatal("Failed to apply migrations", zap.Error(err))
		}
	}

	// Redis backed idempotency keys, locks and token revocation, with an in-process fallback
	coord, err := cache.NewCoordination(ctx, cfg.Redis, cache.WithLogger(log))
	if err != nil {
		log.Fatal("Failed to initialize coordination stores", zap.Error(err))
	}
	defer func() {
		if err := coord.Close(); err != nil {
			log.Error("Error closing coordination stores", zap.Error(err))
		}
	}()
	var revocation auth.RevocationStore = auth.NewMemoryRevocationStore()
	if coord.Redis != nil {
		revocation = auth.NewRedisRevocationStore(coord.Redis)
	}

	// Attachment storage
	var objectStorage equipmentapp.ObjectStorage = storage.Disabled{}
	if cfg.Storage.Enabled {
		s3, err := storage.NewS3ObjectStorage(ctx, cfg.Storage, storage.WithLogger(log))
		if err != nil {
			log.Fatal("Failed to initialize object storage", zap.Error(err))
		}
		if err := s3.EnsureBucket(ctx); err != nil {
			log.Warn("Attachment bucket check failed", zap.String("bucket", s3.Bucket()), zap.Error(err))
		}
		objectStorage = s3
	} else {
		log.Info("Attachment storage disabled")
	}

	// Repositories
	menuRepo := persistence.NewGormMenuCodeRepository(db.DB)
	partnerRepo := persistence.NewGormPartnerRepository(db.DB)
	partRepo := persistence.NewGormPartMasterRepository(db.DB)
	rackRepo := persistence.NewGormRackMasterRepository(db.DB)
	locationRepo := persistence.NewGormWMSLocationRepository(db.DB)
	inventoryRepo := persistence.NewGormRackInventoryRepository(db.DB)
	prRepo := persistence.NewGormPurchaseRequestRepository(db.DB)
	poRepo := persistence.NewGormPurchaseOrderRepository(db.DB)
	salesRepo := persistence.NewGormSalesOrderRepository(db.DB)
	payableRepo := persistence.NewGormAccountPayableRepository(db.DB)
	receivableRepo := persistence.NewGormAccountReceivableRepository(db.DB)
	equipmentRepo := persistence.NewGormEquipmentRepository(db.DB)
	maintenanceRepo := persistence.NewGormMaintenanceRepository(db.DB)
	scheduleRepo := persistence.NewGormScheduleRepository(db.DB)
	userRepo := persistence.NewGormUserRepository(db.DB)

	// Application services
	menuService := menuapp.NewService(menuRepo)
	partnerService := partnerapp.NewService(partnerRepo)
	partService := wmsapp.NewPartService(partRepo)
	rackService := wmsapp.NewRackService(rackRepo, locationRepo)
	locationService := wmsapp.NewLocationService(locationRepo, rackRepo)
	inventoryService := wmsapp.NewInventoryService(inventoryRepo, partRepo)
	prService := purchasingapp.NewPurchaseRequestService(prRepo, poRepo, partnerRepo, partRepo)
	poService := purchasingapp.NewPurchaseOrderService(poRepo, partnerRepo, partRepo)
	salesService := salesapp.NewService(salesRepo, partnerRepo, partRepo)
	payableService := financeapp.NewPayableService(payableRepo, poRepo, partnerRepo, coord.Locker, coord.Idempotency)
	receivableService := financeapp.NewReceivableService(receivableRepo, salesRepo, partnerRepo, coord.Locker, coord.Idempotency)
	equipmentService := equipmentapp.NewEquipmentService(equipmentRepo, maintenanceRepo)
	maintenanceService := equipmentapp.NewMaintenanceService(maintenanceRepo, equipmentRepo, objectStorage)
	if cfg.Storage.PresignExpiry > 0 {
		attachCfg := equipmentapp.DefaultAttachmentConfig()
		attachCfg.UploadURLExpiry = cfg.Storage.PresignExpiry
		attachCfg.DownloadURLExpiry = cfg.Storage.PresignExpiry
		maintenanceService.SetConfig(attachCfg)
	}
	scheduleService := scheduleapp.NewService(scheduleRepo)
	assistantService := assistantapp.NewService(ai.NewClient(cfg.AI, log))

	jwtService := auth.NewJWTService(cfg.JWT)
	authService := identityapp.NewAuthService(userRepo, jwtService, revocation, log)
	userService := identityapp.NewUserService(userRepo, revocation, cfg.JWT.RefreshTokenExpiration, log)

	defaultTenant, err := uuid.Parse(cfg.App.DefaultTenantID)
	if err != nil {
		log.Fatal("Invalid default tenant ID", zap.String("tenant_id", cfg.App.DefaultTenantID), zap.Error(err))
	}
	if _, err := identityapp.BootstrapAdmin(ctx, userRepo, defaultTenant, cfg.Bootstrap.AdminUsername, cfg.Bootstrap.AdminPassword, log); err != nil {
		log.Fatal("Failed to bootstrap administrator", zap.Error(err))
	}

	// Event bus: received purchase orders open payables, shipped sales orders open receivables.
	// Handlers are wrapped so a redelivered event does not open a second document.
	eventBus := event.NewInMemoryEventBus(log)
	poReceived := event.NewIdempotentHandler(financeapp.NewPurchaseOrderReceivedHandler(payableService, log), coord.Idempotency, log)
	soShipped := event.NewIdempotentHandler(financeapp.NewSalesOrderShippedHandler(receivableService, log), coord.Idempotency, log)
	eventBus.Subscribe(poReceived)
	eventBus.Subscribe(soShipped)
	log.Info("Event handlers registered",
		zap.Strings("purchase_order_received_events", poReceived.EventTypes()),
		zap.Strings("sales_order_shipped_events", soShipped.EventTypes()),
	)
	businessMetrics, err := telemetry.NewBusinessMetrics(mp.Meter("erp.business"))
	if err != nil {
		log.Fatal("Failed to create business metrics", zap.Error(err))
	}
	eventBus.Subscribe(businessMetrics)
	if err := eventBus.Start(ctx); err != nil {
		log.Fatal("Failed to start event bus", zap.Error(err))
	}
	defer func() {
		if err := eventBus.Stop(context.Background()); err != nil {
			log.Error("Error stopping event bus", zap.Error(err))
		}
	}()

	prService.SetEventPublisher(eventBus)
	poService.SetEventPublisher(eventBus)
	salesService.SetEventPublisher(eventBus)
	payableService.SetEventPublisher(eventBus)
	receivableService.SetEventPublisher(eventBus)

	// Daily digest of overdue ledgers and equipment due for maintenance
	if cfg.Scheduler.Enabled {
		digest := scheduler.NewDigestExecutor(log)
		digest.Register(scheduler.JobOverduePayables, func(ctx context.Context, tenantID uuid.UUID, _ time.Time) (scheduler.Digest, error) {
			s, err := payableService.Summary(ctx, tenantID)
			if err != nil {
				return scheduler.Digest{}, err
			}
			return scheduler.Digest{Count: int(s.OverdueCount), Amount: s.OverdueAmount}, nil
		})
		digest.Register(scheduler.JobOverdueReceivables, func(ctx context.Context, tenantID uuid.UUID, _ time.Time) (scheduler.Digest, error) {
			s, err := receivableService.Summary(ctx, tenantID)
			if err != nil {
				return scheduler.Digest{}, err
			}
			return scheduler.Digest{Count: int(s.OverdueCount), Amount: s.OverdueAmount}, nil
		})
		digest.Register(scheduler.JobMaintenanceDue, func(ctx context.Context, tenantID uuid.UUID, asOf time.Time) (scheduler.Digest, error) {
			due, err := equipmentService.Due(ctx, tenantID, asOf)
			if err != nil {
				return scheduler.Digest{}, err
			}
			d := scheduler.Digest{Count: len(due)}
			for _, eq := range due {
				d.Refs = append(d.Refs, eq.EquipmentCode)
			}
			return d, nil
		})

		jobs := scheduler.NewScheduler(cfg.Scheduler, digest, log)
		if err := jobs.Start(ctx); err != nil {
			log.Fatal("Failed to start digest scheduler", zap.Error(err))
		}
		defer func() {
			if err := jobs.Stop(context.Background()); err != nil {
				log.Error("Error stopping digest scheduler", zap.Error(err))
			}
		}()

		trigger := scheduler.NewDailyTrigger(cfg.Scheduler, jobs, userRepo, digest.Kinds(), log)
		if err := trigger.Start(ctx); err != nil {
			log.Fatal("Failed to start daily digest trigger", zap.Error(err))
		}
		defer func() {
			if err := trigger.Stop(context.Background()); err != nil {
				log.Error("Error stopping daily digest trigger", zap.Error(err))
			}
		}()
	}

	// HTTP handlers
	handlers := &router.Handlers{
		System:      handler.NewSystemHandler(db, version),
		Auth:        handler.NewAuthHandler(authService),
		User:        handler.NewUserHandler(userService),
		Menu:        handler.NewMenuCodeHandler(menuService),
		Partner:     handler.NewPartnerHandler(partnerService),
		PR:          handler.NewPurchaseRequestHandler(prService),
		PO:          handler.NewPurchaseOrderHandler(poService),
		Payable:     handler.NewPayableHandler(payableService),
		Receivable:  handler.NewReceivableHandler(receivableService),
		Sales:       handler.NewSalesOrderHandler(salesService),
		Location:    handler.NewLocationHandler(locationService),
		Part:        handler.NewPartHandler(partService),
		Rack:        handler.NewRackHandler(rackService),
		Inventory:   handler.NewInventoryHandler(inventoryService),
		Equipment:   handler.NewEquipmentHandler(equipmentService),
		Maintenance: handler.NewMaintenanceHandler(maintenanceService),
		Schedule:    handler.NewScheduleHandler(scheduleService),
		Assistant:   handler.NewAssistantHandler(assistantService),
	}

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

	// Middleware order:
	// RequestID, Recovery, request log, tracing, metrics, security headers, CORS, body limit, rate limit
	engine.Use(middleware.RequestID())
	engine.Use(logger.Recovery(log))
	engine.Use(logger.GinMiddleware(log))
	engine.Use(middleware.TracingWithConfig(middleware.TracingConfig{
		ServiceName: cfg.Telemetry.ServiceName,
		Enabled:     cfg.Telemetry.Enabled,
	}))
	engine.Use(middleware.SpanErrorMarker())
	engine.Use(middleware.HTTPMetrics(mp))
	engine.Use(middleware.Secure())
	engine.Use(middleware.CORSWithConfig(middleware.CORSConfigFrom(
		cfg.HTTP.CORSAllowOrigins, cfg.HTTP.CORSAllowMethods, cfg.HTTP.CORSAllowHeaders)))
	engine.Use(middleware.BodyLimit(cfg.HTTP.MaxBodySize))

	if cfg.HTTP.RateLimitEnabled {
		limiter := middleware.NewRateLimiter(cfg.HTTP.RateLimitRequests, cfg.HTTP.RateLimitWindow)
		defer limiter.Stop()
		engine.Use(middleware.RateLimit(limiter))
		log.Info("Rate limiting enabled",
			zap.Int("requests", cfg.HTTP.RateLimitRequests),
			zap.Duration("window", cfg.HTTP.RateLimitWindow),
		)
	}

	// Public endpoints
	engine.GET("/health", handlers.System.Health)
	engine.GET("/api/health", handlers.System.Health)

	authLimiter := middleware.NewRateLimiter(10, time.Minute)
	defer authLimiter.Stop()
	tenant := middleware.TenantMiddlewareWithConfig(middleware.TenantMiddlewareConfig{
		DefaultTenantID: cfg.App.DefaultTenantID,
		Logger:          log,
	})
	public := engine.Group("/api/auth", middleware.AuthRateLimit(authLimiter), tenant)
	public.POST("/login", handlers.Auth.Login)
	public.POST("/refresh", handlers.Auth.Refresh)

	// Everything else under /api needs a bearer token
	jwtConfig := middleware.DefaultJWTConfig(jwtService)
	jwtConfig.Revocation = revocation
	jwtConfig.Logger = log
	router.NewRouter(engine).
		Use(middleware.JWTAuthMiddlewareWithConfig(jwtConfig), tenant, middleware.TracingAttributeInjector()).
		Register(router.DomainGroups(handlers)...).
		Setup()

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
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatal("Failed to start server", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Info("Shutting down server...")

	timeout := cfg.HTTP.ShutdownTimeout
	if timeout <= 0 {
		timeout = 30 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Error("Server forced to shutdown", zap.Error(err))
		return
	}
	log.Info("Server exited gracefully")
}

// runMigrations applies the embedded schema migrations
func runMigrations(db *persistence.Database, log *zap.Logger) error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	m, err := migration.NewFromFS(sqlDB, migrations.FS, log)
	if err != nil {
		return err
	}
	// Close would also close sqlDB through the postgres driver
	return m.Up()
}
