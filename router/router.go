package router

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/aitoolhub/aitoolhub/common/config"
	"github.com/aitoolhub/aitoolhub/controller"
	"github.com/aitoolhub/aitoolhub/middleware"
)

// SetRouter wires middleware and API routes onto the engine.
func SetRouter(engine *gin.Engine) {
	if config.OpenTelemetryEnabled {
		engine.Use(otelgin.Middleware(config.OpenTelemetryServiceName))
	}
	engine.Use(middleware.RequestId())
	engine.Use(middleware.Logger())
	engine.Use(gzip.Gzip(gzip.DefaultCompression))
	engine.Use(cors.Default())

	engine.GET("/metrics", gin.WrapH(promhttp.Handler()))

	api := engine.Group("/api")
	api.Use(middleware.RateLimit(config.RateLimitRequests, config.RateLimitWindow))
	{
		api.GET("/search", controller.Search)
		api.GET("/categories", controller.ListCategories)

		api.GET("/tools", controller.ListTools)
		api.POST("/tools", controller.CreateTool)
		api.GET("/tools/:id", controller.GetTool)
		api.PUT("/tools/:id", controller.UpdateTool)
		api.DELETE("/tools/:id", controller.DeleteTool)

		api.GET("/tools/:id/reviews", controller.ListReviews)
		api.POST("/tools/:id/reviews", controller.CreateReview)
		api.DELETE("/reviews/:id", controller.DeleteReview)

		admin := api.Group("/admin")
		{
			admin.POST("/embeddings/backfill", controller.BackfillEmbeddings)
			admin.POST("/cache/sweep", controller.SweepSearchCache)
			admin.GET("/cache/stats", controller.SearchCacheStats)
		}
	}
}
