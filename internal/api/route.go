package api

import (
	"Foryou/internal/api/config"
	"Foryou/internal/api/middleware"
	"Foryou/internal/pkg/logger"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

const forYouPath = "/api/feed/foryou"

func SetupRouter(group *HandlersGroup, db *gorm.DB, logCfg config.LogstashConfig) *gin.Engine {
	r := gin.New()
	_ = r.SetTrustedProxies([]string{"127.0.0.1", "::1"})

	// TraceId & Logger & CORS
	r.Use(middleware.TraceMiddleware())
	r.Use(middleware.AuditMiddleware(forYouPath))
	r.Use(middleware.CORSMiddleware())
	logger.SetupGin(r, logCfg.Token, logCfg.Index)

	apiGroup := r.Group("/api")
	{
		apiGroup.GET("/ping", func(c *gin.Context) {
			c.JSON(http.StatusOK, gin.H{"message": "pong"})
		})

		feedGroup := apiGroup.Group("/feed")
		feedGroup.Use(middleware.StoreRequired(db))
		{
			feedGroup.GET("/score/:videoId", group.FeedHandler.GetScore)

			authOptGroup := feedGroup.Group("")
			authOptGroup.Use(middleware.AuthOptionalMiddleware())
			{
				authOptGroup.GET("/foryou", group.FeedHandler.ForYou)
			}

			authGroup := feedGroup.Group("")
			authGroup.Use(middleware.AuthMiddleware())
			{
				authGroup.POST("/track-view", group.FeedHandler.TrackView)
				authGroup.POST("/track-interaction", group.FeedHandler.TrackInteraction)
			}
		}
	}

	return r
}
