package httpapi

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/resourceboard/backend/internal/ai"
	"github.com/resourceboard/backend/internal/config"
	"github.com/resourceboard/backend/internal/db"
	"github.com/resourceboard/backend/internal/http/handlers"
	"github.com/resourceboard/backend/internal/http/middleware"
	"github.com/resourceboard/backend/internal/service"

	_ "github.com/resourceboard/backend/docs"
)

func Router(cfg config.Config, board *service.BoardService, source db.Source, summarizer ai.Summarizer, logger zerolog.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger(logger))

	corsCfg := cors.Config{
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Admin-Key", "X-Request-Id"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}
	if cfg.CORSAllowed == "*" {
		corsCfg.AllowAllOrigins = true
	} else {
		corsCfg.AllowOrigins = []string{cfg.CORSAllowed}
	}
	r.Use(cors.New(corsCfg))

	h := &handlers.Handler{
		Board:      board,
		Source:     source,
		Summarizer: summarizer,
		Validator:  validator.New(),
		Logger:     logger,
		AdminKey:   cfg.AdminKey,
	}

	r.GET("/healthz", h.Healthz)

	api := r.Group("/api")
	{
		api.GET("/board", h.BoardView)
		api.GET("/developers", h.DevelopersList)
		api.GET("/setup", h.Setup)
	}

	admin := api.Group("")
	admin.Use(middleware.AdminKey(cfg.AdminKey))
	{
		admin.POST("/refresh", h.Refresh)
		admin.POST("/availability", h.AddAvailability)
		admin.POST("/tickets/:key/move", h.MoveTicket)
		admin.POST("/analyze", h.Analyze)
		admin.POST("/warning/dismiss", h.DismissWarning)
	}

	r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	return r
}
