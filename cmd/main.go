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

	"golang.org/x/sync/errgroup"

	"github.com/kidverse/jigcraft-backend/internal/clients/translate"
	"github.com/kidverse/jigcraft-backend/internal/data/db"
	assetrepos "github.com/kidverse/jigcraft-backend/internal/data/repos/assets"
	"github.com/kidverse/jigcraft-backend/internal/http/handlers"
	"github.com/kidverse/jigcraft-backend/internal/http/middleware"
	"github.com/kidverse/jigcraft-backend/internal/observability"
	"github.com/kidverse/jigcraft-backend/internal/platform/envutil"
	"github.com/kidverse/jigcraft-backend/internal/platform/logger"
	"github.com/kidverse/jigcraft-backend/internal/server"
	"github.com/kidverse/jigcraft-backend/internal/services"
)

func main() {
	// Logger
	logMode := envutil.String("LOG_MODE", "development")
	log, err := logger.New(logMode)
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Tracing
	shutdownOtel := observability.InitOTel(ctx, log, observability.OtelConfig{
		ServiceName: "jigcraft-backend",
		Environment: envutil.String("APP_ENV", "development"),
		Version:     envutil.String("APP_VERSION", "dev"),
	})

	// Env
	log.Info("Loading environment variables from main...")
	jwtSecretKey := envutil.String("JWT_SECRET_KEY", "defaultsecret")
	translateAPIKey := envutil.String("GOOGLE_TRANSLATE_API_KEY", "")
	port := envutil.String("PORT", "8080")
	allowOrigins := envutil.String("CORS_ALLOW_ORIGINS", "")

	// Postgres
	postgresService, err := db.NewPostgresService(log)
	if err != nil {
		log.Error("Postgres init failed", "error", err)
		os.Exit(1)
	}
	if envutil.Bool("AUTO_MIGRATE", true) {
		if err := postgresService.AutoMigrateAll(); err != nil {
			log.Warn("Postgres auto migration failed", "error", err)
		}
	}
	thePG := postgresService.DB()

	// Repos
	log.Info("Setting up repos from main...")
	assetRepo := assetrepos.NewAssetRepo(thePG, log)
	assetDataRepo := assetrepos.NewAssetDataRepo(thePG, log)
	moduleRepo := assetrepos.NewModuleRepo(thePG, log)

	// Clients
	translateClient := translate.New(translateAPIKey, log)

	// Services
	log.Info("Setting up services from main...")
	assetService := services.NewAssetService(thePG, log, assetRepo, assetDataRepo, moduleRepo, translateClient)
	moduleService := services.NewModuleService(thePG, log, assetRepo, moduleRepo)

	// Handlers
	log.Info("Setting up handlers from main...")
	healthHandler := handlers.NewHealthHandler()
	assetHandler := handlers.NewAssetHandler(log, assetService)
	moduleHandler := handlers.NewModuleHandler(log, moduleService)

	// Middleware
	authMiddleware := middleware.NewAuthMiddleware(log, jwtSecretKey)

	// Router
	log.Info("Setting up router from main...")
	var origins []string
	if allowOrigins != "" {
		origins = strings.Split(allowOrigins, ",")
	}
	router := server.NewRouter(server.RouterConfig{
		Log:            log,
		AuthMiddleware: authMiddleware,
		HealthHandler:  healthHandler,
		AssetHandler:   assetHandler,
		ModuleHandler:  moduleHandler,
		AllowOrigins:   origins,
	})

	srv := &http.Server{
		Addr:    ":" + port,
		Handler: router,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		log.Info("Server listening", "port", port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		log.Info("Shutting down server...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if shutdownOtel != nil {
			if err := shutdownOtel(shutdownCtx); err != nil {
				log.Warn("otel shutdown failed", "error", err)
			}
		}
		return srv.Shutdown(shutdownCtx)
	})

	if err := g.Wait(); err != nil {
		log.Error("Server failed", "error", err)
		os.Exit(1)
	}
}
