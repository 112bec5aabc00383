package app

import (
	"braingain_backend/internal/config"
	"braingain_backend/internal/controller"
	"braingain_backend/internal/middleware"
	"braingain_backend/internal/repository"
	"braingain_backend/internal/service"
	"braingain_backend/internal/util"
	"braingain_backend/pkg/configwatcher"
	"braingain_backend/pkg/database"
	"braingain_backend/pkg/logger"
	"braingain_backend/pkg/monitoring"
	"braingain_backend/pkg/security"
	"braingain_backend/pkg/tracing"
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	// ConfigFile 非空时监听该文件并热更新
	ConfigFile string

	services        *services
	adminAuth       *middleware.AdminAuth
	tracer          *sdktrace.TracerProvider
	cron            *cron.Cron
	configCallbacks []func(*config.Config)
}

type repositories struct {
	material *repository.MaterialRepository
	attempt  *repository.AttemptRepository
	reward   *repository.RewardRepository
}

type services struct {
	cooldown  *service.CooldownService
	reward    *service.RewardService
	quiz      *service.QuizService
	material  *service.MaterialService
	dashboard *service.DashboardService
	log       *service.LogService
	storage   *service.StorageService
	chat      service.ChatClient
}

type controllers struct {
	quiz      *controller.QuizController
	dashboard *controller.DashboardController
	admin     *controller.AdminController
	health    *controller.HealthController
}

// RegisterConfigCallback 注册配置热更新回调
func (a *App) RegisterConfigCallback(callback func(*config.Config)) {
	a.configCallbacks = append(a.configCallbacks, callback)
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		material: repository.NewMaterialRepository(db),
		attempt:  repository.NewAttemptRepository(db),
		reward:   repository.NewRewardRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	ctx := context.Background()

	chat, err := service.NewChatClient(ctx, cfg.AI)
	if err != nil {
		// 出题不可用时仍然启动，开始测验返回 503
		logger.Log.Error("Failed to initialize LLM client", zap.Error(err))
		chat = nil
	}
	generator := service.NewLLMQuizGenerator(chat, cfg.AI.DetectLanguage)

	cooldownService := service.NewCooldownService(repos.attempt)
	rewardService := service.NewRewardService(repos.reward)
	quizService := service.NewQuizService(
		repos.material,
		repos.attempt,
		cooldownService,
		rewardService,
		generator,
		time.Duration(cfg.AI.TimeoutSeconds)*time.Second,
	)

	storageService := service.NewStorageService(ctx, cfg)
	titles := service.NewVideoMetadataService(cfg.AI.OEmbedURL, 5*time.Second)
	materialService := service.NewMaterialService(
		repos.material,
		storageService,
		titles,
		service.PDFTextExtractor{},
		rdb,
		time.Duration(cfg.Cache.MaterialsTTLSeconds)*time.Second,
	)

	return &services{
		cooldown:  cooldownService,
		reward:    rewardService,
		quiz:      quizService,
		material:  materialService,
		dashboard: service.NewDashboardService(materialService, cooldownService, rewardService),
		log:       service.NewLogService(logger.FilePath, logger.Truncate),
		storage:   storageService,
		chat:      chat,
	}
}

func (a *App) initControllers(s *services, db *gorm.DB, rdb *redis.Client) *controllers {
	return &controllers{
		quiz:      controller.NewQuizController(s.quiz, s.cooldown),
		dashboard: controller.NewDashboardController(s.dashboard, s.reward),
		admin:     controller.NewAdminController(a.adminAuth, s.material, s.log),
		health:    controller.NewHealthController(db, rdb),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())
	router.Use(security.RateLimiter(security.ScopeGlobal, cfg.RateLimit.MaxRequests, time.Duration(cfg.RateLimit.WindowMinutes)*time.Minute))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func (a *App) startBackgroundTasks(s *services) {
	a.cron = cron.New()
	_, err := a.cron.AddFunc("@every 1m", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		s.reward.RefreshLedgerGauge(ctx)
	})
	if err != nil {
		logger.Log.Error("Failed to schedule ledger refresh", zap.Error(err))
		return
	}
	s.reward.RefreshLedgerGauge(context.Background())
	a.cron.Start()
}

func (a *App) registerConfigCallbacks() {
	a.RegisterConfigCallback(func(cfg *config.Config) {
		logger.SetMode(cfg.Server.Mode)
	})
	a.RegisterConfigCallback(func(cfg *config.Config) {
		if err := a.adminAuth.Update(cfg); err != nil {
			logger.Log.Error("Failed to apply admin secret", zap.Error(err))
			return
		}
		logger.Log.Info("Admin credentials reloaded", zap.Bool("enabled", a.adminAuth.Enabled()))
	})
}

func (a *App) applyConfig(cfg *config.Config) {
	for _, callback := range a.configCallbacks {
		callback(cfg)
	}
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.Server.Mode)
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
		log.Fatalf("Failed to initialize database: %v", err)
	}

	// release 模式默认不自动迁移，需要 -migrate 显式开启
	if cfg.ForceMigrate || cfg.Server.Mode != "release" {
		if err := database.Migrate(db); err != nil {
			logger.Log.Fatal("Failed to migrate database", zap.Error(err))
		}
	}

	app := &App{
		Config: cfg,
		DB:     db,
	}
	if cfg.MigrateOnly {
		return app
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// 缓存不可用时直接读库
		logger.Log.Warn("Redis unavailable, materials cache disabled", zap.Error(err))
		rdb = nil
	}
	app.Redis = rdb

	adminAuth, err := middleware.NewAdminAuth(cfg)
	if err != nil {
		logger.Log.Fatal("Failed to initialize admin auth", zap.Error(err))
	}
	if !adminAuth.Enabled() {
		logger.Log.Warn("ADMIN_SECRET not configured, admin endpoints are disabled")
	}
	app.adminAuth = adminAuth

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	app.services = services
	controllers := app.initControllers(services, db, rdb)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		tp, err := tracing.InitTracer("braingain", cfg.Tracing.CollectorEndpoint)
		if err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
		app.tracer = tp
	}

	app.registerRoutes(router, controllers, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	app.registerConfigCallbacks()
	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	watchCtx, stopWatch := context.WithCancel(context.Background())
	defer stopWatch()
	if a.ConfigFile != "" {
		go func() {
			if err := configwatcher.WatchConfig(watchCtx, a.ConfigFile, a.applyConfig); err != nil {
				logger.Log.Error("Config watcher stopped", zap.Error(err))
			}
		}()
	}

	// 启动服务器
	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	// 等待中断信号优雅地关闭服务器（设置5秒的超时时间）
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	stopWatch()
	if a.cron != nil {
		<-a.cron.Stop().Done()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	if a.services != nil {
		if closer, ok := a.services.chat.(interface{ Close() error }); ok {
			if err := closer.Close(); err != nil {
				logger.Log.Error("Failed to close LLM client", zap.Error(err))
			}
		}
	}
	if a.tracer != nil {
		if err := a.tracer.Shutdown(ctx); err != nil {
			logger.Log.Error("Failed to shutdown tracer provider", zap.Error(err))
		}
	}
	if a.Redis != nil {
		a.Redis.Close()
	}

	log.Println("Server exiting")
}
