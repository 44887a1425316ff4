package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	goredis "github.com/redis/go-redis/v9"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/alumnet/alumnet-backend/internal/config"
	"github.com/alumnet/alumnet-backend/internal/handler"
	"github.com/alumnet/alumnet-backend/internal/middleware"
	"github.com/alumnet/alumnet-backend/internal/migration"
	"github.com/alumnet/alumnet-backend/internal/repository"
	"github.com/alumnet/alumnet-backend/internal/routes"
	"github.com/alumnet/alumnet-backend/internal/service"
	"github.com/alumnet/alumnet-backend/internal/session"
	"github.com/alumnet/alumnet-backend/internal/ws"
	pkgcache "github.com/alumnet/alumnet-backend/pkg/cache"
	"github.com/alumnet/alumnet-backend/pkg/database"
	"github.com/alumnet/alumnet-backend/pkg/jwt"
	pkglogger "github.com/alumnet/alumnet-backend/pkg/logger"
	pkgredis "github.com/alumnet/alumnet-backend/pkg/redis"
	"github.com/alumnet/alumnet-backend/pkg/storage"
)

// @title           AlumNet API
// @version         1.0
// @description     Alumni network: profiles, directory, connections, messaging and job board
//
// @BasePath        /api/v1
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Authorization header using the Bearer scheme. Example: "Bearer {token}"

func main() {
	dotenvFiles := config.LoadDotEnv()

	env := os.Getenv("APP_ENV")
	if env == "" {
		env = "local"
	}
	pkglogger.InitStructured(env)
	pkglogger.Info("APP_ENV=%s, loaded env files: %v", env, dotenvFiles)

	configPath := config.Path()
	cfg, err := config.Load(configPath)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Str("path", configPath).Msg("failed to load config")
	}
	config.LogResolved(cfg)

	if !cfg.IsDevelopment() {
		gin.SetMode(gin.ReleaseMode)
	}

	gormLevel := gormlogger.Warn
	if cfg.IsDevelopment() {
		gormLevel = gormlogger.Info
	}
	db, err := database.Open(cfg.Database, gormLevel)
	if err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Str("driver", cfg.Database.Driver).Msg("failed to connect to database")
	}
	if err := migration.Run(db); err != nil {
		pkglogger.GetLogger().Fatal().Err(err).Msg("migration failed")
	}

	// Redis is optional: sessions are not revocable, the directory is not cached,
	// rate limits are per process and realtime events stay on this instance.
	var redisClient *goredis.Client
	if cfg.Redis.Enabled {
		redisClient, err = pkgredis.NewClient(cfg.Redis.Host, cfg.Redis.Port, cfg.Redis.Password, cfg.Redis.DB, cfg.Redis.PoolSize)
		if err != nil {
			pkglogger.Warn("Redis unavailable: %v (continuing without Redis)", err)
			redisClient = nil
		} else {
			pkglogger.Info("Connected to Redis")
		}
	}
	cacheService := pkgcache.NewService(redisClient)

	// background loops stop with the server
	appCtx, stopApp := context.WithCancel(context.Background())
	defer stopApp()

	wsHub := ws.NewHub(redisClient)
	go wsHub.Run()

	jwtManager := jwt.NewManager(cfg.JWT.Secret, cfg.JWT.ExpiresIn, cfg.JWT.RefreshIn)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	profileRepo := repository.NewProfileRepository(db)
	connRepo := repository.NewConnectionRepository(db)
	messageRepo := repository.NewMessageRepository(db)
	jobRepo := repository.NewJobRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, profileRepo, jwtManager, cacheService)
	sessions := session.NewProvider(session.NewJWTBackend(jwtManager, authService, authService))
	connService := service.NewConnectionService(connRepo, profileRepo, wsHub)
	messageService := service.NewMessageService(messageRepo, connRepo, service.NewConnectionGate(connRepo), sessions, wsHub)
	profileService := service.NewProfileService(profileRepo, cacheService)
	directoryService := service.NewDirectoryService(profileRepo, cacheService)
	jobService := service.NewJobService(jobRepo)
	dashboardService := service.NewDashboardService(profileRepo, jobRepo, connRepo, messageRepo, cacheService)

	var photoHandler *handler.PhotoHandler
	if cfg.Storage.Enabled {
		photos, err := storage.NewS3Client(storage.S3Config{
			Endpoint:        cfg.Storage.Endpoint,
			Region:          cfg.Storage.Region,
			AccessKeyID:     cfg.Storage.AccessKeyID,
			SecretAccessKey: cfg.Storage.SecretAccessKey,
			Bucket:          cfg.Storage.Bucket,
			PublicURL:       cfg.Storage.PublicURL,
			BasePath:        cfg.Storage.BasePath,
			ForcePathStyle:  cfg.Storage.ForcePathStyle,
		})
		if err != nil {
			pkglogger.GetLogger().Fatal().Err(err).Msg("failed to configure photo storage")
		}
		photoHandler = handler.NewPhotoHandler(service.NewPhotoService(photos, profileRepo, cacheService))
	}

	cookies := middleware.CookieSettings{
		MaxAge: cfg.JWT.RefreshIn,
		Secure: !cfg.IsDevelopment(),
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(cors.New(corsConfig(cfg.CORS.AllowOrigins)))
	router.Use(middleware.SecurityHeaders())
	router.Use(middleware.Metrics())
	router.Use(middleware.RequestLogger())

	router.GET("/metrics", gin.WrapH(promhttp.Handler()))
	router.GET("/health", healthHandler(db, cacheService))
	if cfg.IsDevelopment() {
		routes.SetupDocs(router)
	}

	rateLimit := middleware.DefaultRateLimitConfig()
	rateLimit.RequestsPerMinute = cfg.RateLimit.RequestsPerMinute
	rateLimit.Burst = cfg.RateLimit.Burst

	routes.Setup(router, &routes.Handlers{
		Auth:       handler.NewAuthHandler(authService, cookies),
		Profile:    handler.NewProfileHandler(profileService),
		Photo:      photoHandler,
		Directory:  handler.NewDirectoryHandler(directoryService),
		Job:        handler.NewJobHandler(jobService),
		Connection: handler.NewConnectionHandler(connService),
		Message:    handler.NewMessageHandler(messageService),
		Dashboard:  handler.NewDashboardHandler(dashboardService),
		WS:         handler.NewWSHandler(wsHub, cfg.CORS.AllowOrigins),
	}, middleware.Session(sessions, cookies), middleware.RateLimit(appCtx, redisClient, rateLimit))

	router.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, gin.H{"success": false, "error": gin.H{"code": "NOT_FOUND", "message": "route not found"}})
	})

	srv := &http.Server{
		Addr:         fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		pkglogger.Info("Server listening on %s", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			pkglogger.GetLogger().Fatal().Err(err).Msg("server failed")
		}
	}()

	go reportPoolStats(db)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	pkglogger.Info("Shutting down...")

	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(cfg.Server.ShutdownTimeout)*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		pkglogger.Error("Forced shutdown: %v", err)
	}
	wsHub.Stop()
	stopApp()
	if redisClient != nil {
		redisClient.Close() //nolint:errcheck
	}
	if sqlDB, err := db.DB(); err == nil {
		sqlDB.Close() //nolint:errcheck
	}
	pkglogger.Info("Server stopped")
}

func corsConfig(allowOrigins string) cors.Config {
	origins := splitAndTrim(allowOrigins)
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	return cors.Config{
		AllowOrigins:     origins,
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", middleware.RefreshHeaderName, "X-Request-ID"},
		AllowCredentials: true,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		ExposeHeaders:    []string{"X-Request-ID", "X-RateLimit-Remaining", middleware.AccessHeaderName},
		MaxAge:           12 * time.Hour,
	}
}

func splitAndTrim(s string) []string {
	var parts []string
	for _, part := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return parts
}

func healthHandler(db *gorm.DB, cacheService pkgcache.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		ctx, cancel := context.WithTimeout(c.Request.Context(), 2*time.Second)
		defer cancel()

		status, code := "ok", http.StatusOK
		dbStatus := "up"
		if sqlDB, err := db.DB(); err != nil || sqlDB.PingContext(ctx) != nil {
			dbStatus = "down"
			status, code = "degraded", http.StatusServiceUnavailable
		}
		redisStatus := "disabled"
		if cacheService.IsAvailable() {
			redisStatus = "up"
			if err := cacheService.Ping(ctx); err != nil {
				redisStatus = "down"
			}
		}

		c.JSON(code, gin.H{
			"status":  status,
			"service": "alumnet-backend",
			"db":      dbStatus,
			"redis":   redisStatus,
			"time":    time.Now().Unix(),
		})
	}
}

func reportPoolStats(db *gorm.DB) {
	sqlDB, err := db.DB()
	if err != nil {
		return
	}
	ticker := time.NewTicker(15 * time.Second)
	defer ticker.Stop()
	for range ticker.C {
		middleware.SetDBConnectionsOpen(sqlDB.Stats().OpenConnections)
	}
}
