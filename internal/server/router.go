package server

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	httpH "github.com/kidverse/jigcraft-backend/internal/http/handlers"
	httpMW "github.com/kidverse/jigcraft-backend/internal/http/middleware"
	"github.com/kidverse/jigcraft-backend/internal/platform/logger"
)

type RouterConfig struct {
	Log            *logger.Logger
	AuthMiddleware *httpMW.AuthMiddleware

	HealthHandler *httpH.HealthHandler
	AssetHandler  *httpH.AssetHandler
	ModuleHandler *httpH.ModuleHandler

	AllowOrigins []string
}

func NewRouter(cfg RouterConfig) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(otelgin.Middleware("jigcraft-backend"))
	r.Use(httpMW.RequestLogger(cfg.Log))

	origins := cfg.AllowOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:3000", "http://localhost:5174"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "PATCH", "OPTIONS"},
		AllowHeaders:     []string{"Authorization", "Content-Type", "X-Requested-With"},
		AllowCredentials: true,
	}))

	// Health
	if cfg.HealthHandler != nil {
		r.GET("/healthcheck", cfg.HealthHandler.HealthCheck)
	}

	api := r.Group("/api")
	{
		// Public reads and play counting
		if cfg.AssetHandler != nil {
			api.GET("/assets", cfg.AssetHandler.List)
			api.GET("/assets/:id", cfg.AssetHandler.Get)
			api.POST("/assets/:id/play", cfg.AssetHandler.Play)
		}
		if cfg.ModuleHandler != nil {
			api.GET("/modules/:module_id", cfg.ModuleHandler.Get)
		}
	}

	protected := api.Group("/")
	{
		if cfg.AuthMiddleware != nil {
			protected.Use(cfg.AuthMiddleware.RequireAuth())
		}

		if cfg.AssetHandler != nil {
			protected.POST("/assets", cfg.AssetHandler.Create)
			protected.PATCH("/assets/:id/draft", cfg.AssetHandler.UpdateDraft)
			protected.POST("/assets/:id/resources", cfg.AssetHandler.AddDraftResource)
			protected.POST("/assets/:id/publish", cfg.AssetHandler.Publish)
			protected.POST("/assets/:id/clone", cfg.AssetHandler.Clone)
			protected.DELETE("/assets/:id", cfg.AssetHandler.Delete)
			protected.POST("/assets/:id/like", cfg.AssetHandler.Like)
			protected.DELETE("/assets/:id/like", cfg.AssetHandler.Unlike)
		}

		if cfg.ModuleHandler != nil {
			protected.POST("/assets/:id/modules", cfg.ModuleHandler.Create)
			protected.PATCH("/assets/:id/modules/:module_id", cfg.ModuleHandler.Update)
			protected.DELETE("/assets/:id/modules/:module_id", cfg.ModuleHandler.Delete)
		}
	}

	return r
}
