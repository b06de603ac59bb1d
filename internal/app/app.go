package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"skill_assess_backend/internal/config"
	"skill_assess_backend/internal/controller"
	"skill_assess_backend/internal/repository"
	"skill_assess_backend/internal/service"
	"skill_assess_backend/pkg/configwatcher"
	"skill_assess_backend/pkg/database"
	"skill_assess_backend/pkg/logger"
	"skill_assess_backend/pkg/monitoring"
	"skill_assess_backend/pkg/security"
	"skill_assess_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
}

type repositories struct {
	user        *repository.UserRepository
	question    *repository.QuestionRepository
	session     *repository.SessionRepository
	weakTopic   *repository.WeakTopicRepository
	eligibility *repository.RetestEligibilityRepository
	progress    *repository.SkillProgressRepository
}

type services struct {
	auth        *service.AuthService
	question    *service.QuestionService
	progression *service.ProgressionService
	retest      *service.RetestService
	evaluation  *service.EvaluationService
	stats       *service.StatsService
}

type controllers struct {
	auth        *controller.AuthController
	evaluation  *controller.EvaluationController
	progression *controller.ProgressionController
	remediation *controller.RemediationController
	question    *controller.QuestionController
	stats       *controller.StatsController
	health      *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		user:        repository.NewUserRepository(db),
		question:    repository.NewQuestionRepository(db),
		session:     repository.NewSessionRepository(db),
		weakTopic:   repository.NewWeakTopicRepository(db),
		eligibility: repository.NewRetestEligibilityRepository(db),
		progress:    repository.NewSkillProgressRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, db *gorm.DB, rdb *redis.Client) *services {
	s := &services{}

	ladder := cfg.Assessment.LevelLadder()

	s.auth = service.NewAuthService(repos.user, cfg)
	s.question = service.NewQuestionService(repos.question, ladder)
	s.progression = service.NewProgressionService(repos.progress, ladder, db)
	s.retest = service.NewRetestService(repos.weakTopic, repos.eligibility, db)

	analyzer := service.NewWeakTopicAnalyzer(
		cfg.Assessment.TopicFallbackMatching,
		cfg.Assessment.TopicKeywords,
	)
	s.evaluation = service.NewEvaluationService(
		repos.session,
		repos.question,
		repos.weakTopic,
		repos.eligibility,
		s.progression,
		s.retest,
		analyzer,
		ladder,
		db,
		rdb,
	)
	s.stats = service.NewStatsService(db)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:        controller.NewAuthController(s.auth),
		evaluation:  controller.NewEvaluationController(s.evaluation, s.question),
		progression: controller.NewProgressionController(s.progression),
		remediation: controller.NewRemediationController(s.retest),
		question:    controller.NewQuestionController(s.question),
		stats:       controller.NewStatsController(s.stats),
		health:      controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	router.Use(security.RateLimiter(maxRequests, window))

	// 分布式追踪中间件
	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)
	defer logger.Log.Sync()

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database, cfg.ForceMigrate || cfg.Server.Mode != "release")
	if err != nil {
		logger.Log.Fatal("Failed to initialize database", zap.Error(err))
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		// Redis 只承担启动去重守卫，连不上时降级运行
		logger.Log.Warn("Failed to initialize redis, session start guard disabled", zap.Error(err))
		rdb = nil
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, db, rdb)
	controllers := app.initControllers(services, db)

	// 监控初始化
	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("skill-assess", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, cfg)

	// 配置热重载：目前只有薄弱主题兜底匹配是可在运行时安全变更的项
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		c, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		services.evaluation.Analyzer.SetFallback(
			c.Assessment.TopicFallbackMatching,
			c.Assessment.TopicKeywords,
		)
		logger.Log.Info("config reloaded",
			zap.Bool("topicFallbackMatching", c.Assessment.TopicFallbackMatching),
			zap.Int("topicKeywords", len(c.Assessment.TopicKeywords)))
	})

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
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

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
