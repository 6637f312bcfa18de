package app

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"drouple_backend/internal/config"
	"drouple_backend/internal/controller"
	"drouple_backend/internal/repository"
	"drouple_backend/internal/service"
	"drouple_backend/internal/util"
	"drouple_backend/pkg/configwatcher"
	"drouple_backend/pkg/database"
	"drouple_backend/pkg/logger"
	"drouple_backend/pkg/monitoring"
	"drouple_backend/pkg/security"
	"drouple_backend/pkg/tracing"

	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/robfig/cron/v3"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type App struct {
	Config *config.Config
	Router *gin.Engine
	DB     *gorm.DB
	Redis  *redis.Client
	cron   *cron.Cron
}

type repositories struct {
	church       *repository.ChurchRepository
	user         *repository.UserRepository
	pathway      *repository.PathwayRepository
	checkin      *repository.CheckinRepository
	group        *repository.GroupRepository
	event        *repository.EventRepository
	announcement *repository.AnnouncementRepository
}

type services struct {
	auth         *service.AuthService
	member       *service.MemberService
	pathway      *service.PathwayService
	pathwayAdmin *service.PathwayAdminService
	checkin      *service.CheckinService
	group        *service.GroupService
	event        *service.EventService
	notification *service.NotificationService
	announcement *service.AnnouncementService
	storage      *service.StorageService
	dashboard    *service.DashboardService
}

type controllers struct {
	auth         *controller.AuthController
	member       *controller.MemberController
	pathway      *controller.PathwayController
	checkin      *controller.CheckinController
	group        *controller.GroupController
	event        *controller.EventController
	announcement *controller.AnnouncementController
	dashboard    *controller.DashboardController
	health       *controller.HealthController
}

func (a *App) initRepositories(db *gorm.DB) *repositories {
	return &repositories{
		church:       repository.NewChurchRepository(db),
		user:         repository.NewUserRepository(db),
		pathway:      repository.NewPathwayRepository(db),
		checkin:      repository.NewCheckinRepository(db),
		group:        repository.NewGroupRepository(db),
		event:        repository.NewEventRepository(db),
		announcement: repository.NewAnnouncementRepository(db),
	}
}

func (a *App) initServices(repos *repositories, cfg *config.Config, rdb *redis.Client) *services {
	s := &services{}

	s.storage = service.NewStorageService(cfg)
	s.notification = service.NewNotificationService(cfg)
	s.auth = service.NewAuthService(repos.user, repos.church, cfg)
	s.member = service.NewMemberService(repos.user)
	s.pathway = service.NewPathwayService(repos.pathway, repos.user)
	s.pathwayAdmin = service.NewPathwayAdminService(repos.pathway)
	s.checkin = service.NewCheckinService(repos.checkin, repos.user, s.pathway)
	s.group = service.NewGroupService(repos.group)
	s.event = service.NewEventService(repos.event)
	s.announcement = service.NewAnnouncementService(repos.announcement, repos.user, s.notification, rdb)
	s.dashboard = service.NewDashboardService(repos.user, s.event, s.group, s.pathway, s.announcement, repos.pathway)

	return s
}

func (a *App) initControllers(s *services, db *gorm.DB) *controllers {
	return &controllers{
		auth:         controller.NewAuthController(s.auth),
		member:       controller.NewMemberController(s.member, s.storage),
		pathway:      controller.NewPathwayController(s.pathway, s.pathwayAdmin, s.member),
		checkin:      controller.NewCheckinController(s.checkin),
		group:        controller.NewGroupController(s.group),
		event:        controller.NewEventController(s.event),
		announcement: controller.NewAnnouncementController(s.announcement),
		dashboard:    controller.NewDashboardController(s.dashboard),
		health:       controller.NewHealthController(db),
	}
}

func (a *App) setupMiddlewares(router *gin.Engine, cfg *config.Config) {
	router.Use(security.CORS(cfg.CORS.AllowedOrigins))
	router.Use(security.Secure())

	window := time.Duration(cfg.RateLimit.WindowMinutes) * time.Minute
	if window <= 0 {
		window = time.Minute
	}
	maxRequests := cfg.RateLimit.MaxRequests
	if maxRequests <= 0 {
		maxRequests = 1000
	}
	router.Use(security.RateLimiter(maxRequests, window))

	if cfg.Tracing.Enabled {
		router.Use(tracing.GinMiddleware())
	}

	router.Use(monitoring.MetricsMiddleware())
}

// startBackgroundTasks schedules the announcement publisher. Announcements
// scheduled for the future go live within a minute of their due time.
func (a *App) startBackgroundTasks(s *services) {
	a.cron = cron.New()
	a.cron.AddFunc("* * * * *", func() {
		if err := s.announcement.ProcessScheduledPublishes(); err != nil {
			logger.Log.Error("scheduled publish error", zap.Error(err))
		}
	})
	a.cron.Start()
}

func NewApp(cfg *config.Config) *App {
	logger.InitLogger(cfg)

	logger.Log.Info("Logger initialized successfully")

	db, err := database.InitDB(&cfg.Database)
	if err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}

	if cfg.Server.Mode != "release" || cfg.ForceMigrate {
		if err := database.Migrate(db); err != nil {
			log.Fatalf("Failed to migrate database: %v", err)
		}
	}

	rdb, err := database.InitRedis(&cfg.Redis)
	if err != nil {
		log.Fatalf("Failed to initialize redis: %v", err)
	}

	app := &App{
		Config: cfg,
		DB:     db,
		Redis:  rdb,
	}

	if cfg.MigrateOnly {
		return app
	}

	repos := app.initRepositories(db)
	services := app.initServices(repos, cfg, rdb)
	controllers := app.initControllers(services, db)

	monitoring.Init()

	if cfg.Server.Mode == "release" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.Default()
	app.Router = router

	app.setupMiddlewares(router, cfg)

	if cfg.Tracing.Enabled {
		if _, err := tracing.InitTracer("drouple-backend", cfg.Tracing.CollectorEndpoint); err != nil {
			logger.Log.Fatal("Failed to initialize tracing", zap.Error(err))
		}
	}

	app.registerRoutes(router, controllers, repos, cfg)

	if cfg.Storage.Type == util.StorageLocal {
		router.Static("/uploads", cfg.Storage.LocalPath)
	}

	// Hot-reload selected config sections on file changes.
	go configwatcher.WatchConfig("configs/config.yaml", cfg, func(newCfg interface{}) {
		fresh, ok := newCfg.(*config.Config)
		if !ok {
			return
		}
		cfg.Mail = fresh.Mail
		cfg.CORS = fresh.CORS
		cfg.RateLimit = fresh.RateLimit
		logger.Log.Info("Config reloaded")
	})

	app.startBackgroundTasks(services)

	return app
}

func (a *App) Run() {
	srv := &http.Server{
		Addr:    ":" + a.Config.Server.Port,
		Handler: a.Router,
	}

	go func() {
		log.Printf("Server running on port %s", a.Config.Server.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %s\n", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	if a.cron != nil {
		a.cron.Stop()
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exiting")
}
