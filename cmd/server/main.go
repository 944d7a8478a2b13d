package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"

	"rentals/docs"
	"rentals/internal/auth"
	"rentals/internal/cache"
	"rentals/internal/config"
	"rentals/internal/db"
	"rentals/internal/handler"
	"rentals/internal/logging"
	"rentals/internal/media"
	"rentals/internal/repository"
	"rentals/internal/router"
	"rentals/internal/service"
)

const shutdownTimeout = 10 * time.Second

// @title Rental Places API
// @version 1.0
// @description Rental listings marketplace with JWT sessions and S3 image sideloading.
// @host localhost:8080
// @BasePath /
// @schemes http
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	// a missing .env is fine, the environment may already be populated
	_ = godotenv.Load()

	cfg := config.Load()
	log := logging.New(cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	gormDB, err := db.NewMySQL(cfg.MySQLDSN, db.PoolOptions{
		MaxOpenConns: cfg.DBMaxOpenConns,
		MaxIdleConns: cfg.DBMaxIdleConns,
	}, log.WithField("component", "gorm"))
	if err != nil {
		log.WithError(err).Fatal("database init")
	}

	if cfg.ResetDB {
		log.Warn("RESET_DB=true detected, dropping all tables")
		if err := db.Reset(gormDB); err != nil {
			log.WithError(err).Warn("failed to drop tables (may not exist)")
		}
	}
	if err := db.Migrate(gormDB); err != nil {
		log.WithError(err).Fatal("auto-migrate")
	}

	cacheClient := cache.New(cfg.RedisAddr, cfg.RedisPass, cfg.RedisDB)
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		log.WithError(err).Warn("redis unavailable, continuing without cache and revocation")
	}

	objectStore, err := media.NewS3Store(ctx, cfg.Storage)
	if err != nil {
		log.WithError(err).Fatal("object storage init")
	}
	sideloader := media.NewSideloader(objectStore, cfg.Storage.UploadTimeout, log.WithField("component", "media"))

	// Initialize repositories
	userRepo := repository.NewUserRepository(gormDB)
	placeRepo := repository.NewPlaceRepository(gormDB)

	// Initialize auth components
	jwtService := auth.NewJWTService(cfg.JWTSecret)
	tokenStore := auth.NewTokenStore(cacheClient)
	guard := auth.NewGuard(jwtService, tokenStore)

	// Initialize services
	authService := service.NewAuthService(userRepo, jwtService, tokenStore, log.WithField("component", "auth"))
	userService := service.NewUserService(userRepo)
	placeService := service.NewPlaceService(placeRepo, sideloader, cacheClient, log.WithField("component", "places"))

	e := echo.New()
	e.HideBanner = true
	router.Register(e, cfg, log, guard, router.Handlers{
		Auth:  handler.NewAuthHandler(authService),
		User:  handler.NewUserHandler(authService, userService),
		Place: handler.NewPlaceHandler(placeService),
	})

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = strings.TrimPrefix(strings.TrimPrefix(cfg.SwaggerHost, "http://"), "https://")
	}
	log.Infof("Swagger documentation available at: http://%s/swagger/index.html", docs.SwaggerInfo.Host)

	go func() {
		addr := ":" + cfg.ServerPort
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.WithError(err).Fatal("server start")
		}
	}()

	<-ctx.Done()
	log.Info("shutting down")

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := e.Shutdown(shutdownCtx); err != nil {
		log.WithError(err).Error("server shutdown")
	}
}
