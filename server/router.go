package server

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"newsroom/infrastructure/configuration"
	"newsroom/infrastructure/realtime"
	httpHandler "newsroom/interfaces/http"
	"newsroom/interfaces/middleware"
)

type Handlers struct {
	Generate     httpHandler.IGenerateHandler
	Article      httpHandler.IArticleHandler
	Distribution httpHandler.IDistributionHandler
	Tools        httpHandler.IToolsHandler
	Platform     httpHandler.IPlatformHandler
	Health       httpHandler.IHealthHandler
}

func InitiateRouter(cfg configuration.App, h Handlers, hub *realtime.Hub) *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.RequestID())
	router.Use(middleware.Metrics())
	router.Use(cors.New(corsConfig(cfg.AllowedOrigins)))

	router.GET("/healthz", h.Health.Healthz)
	router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	auth := middleware.SharedSecret(cfg.Secrets)
	pipeline := middleware.Deadline(cfg.PipelineTimeout)

	api := router.Group("api")
	{
		api.POST("/generate/url", auth, pipeline, h.Generate.FromURL)
		api.POST("/generate/topic", auth, pipeline, h.Generate.FromTopic)
		api.POST("/scrape", auth, pipeline, h.Tools.Scrape)
		api.POST("/revalidate", auth, h.Tools.Revalidate)

		api.GET("/articles", h.Article.List)
		api.GET("/articles/slug/:slug", h.Article.GetBySlug)
		api.GET("/articles/:id", h.Article.Get)
		api.PATCH("/articles/:id", auth, h.Article.Update)
		api.DELETE("/articles/:id", auth, h.Article.Delete)
		api.POST("/articles/:id/publish", auth, pipeline, h.Article.Publish)
		api.POST("/articles/:id/distribute", auth, pipeline, h.Distribution.Distribute)
		api.GET("/articles/:id/social-posts", h.Distribution.ListPosts)
		api.GET("/articles/:id/social-stream", auth, hub.Serve)

		api.POST("/social-posts/:id/publish", auth, pipeline, h.Distribution.PublishPost)
		api.PUT("/platforms/:platform/token", auth, h.Platform.SetToken)
	}

	return router
}

func corsConfig(origins []string) cors.Config {
	c := cors.Config{
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "Accept", "Authorization", "X-Requested-With", middleware.RequestIDHeader},
		ExposeHeaders: []string{"Content-Length", middleware.RequestIDHeader},
		MaxAge:        12 * time.Hour,
	}
	if len(origins) == 0 {
		c.AllowAllOrigins = true
		return c
	}
	c.AllowOrigins = origins
	c.AllowCredentials = true
	return c
}
