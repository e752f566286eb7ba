package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/archivar1/Hack-ITMO-2025/config"
	"github.com/archivar1/Hack-ITMO-2025/controllers"
	"github.com/archivar1/Hack-ITMO-2025/middlewares"
	"github.com/archivar1/Hack-ITMO-2025/services"
)

func SetupRouter(cfg config.Config, svc *services.TrackerService, nutrition services.NutritionAPI, hub *services.RealtimeHub) *gin.Engine {
	r := gin.Default()

	tracker := controllers.NewTrackerController(svc)
	food := controllers.NewFoodController(nutrition)
	auth := controllers.NewAuthController(cfg.Auth.BotSecret, cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	realtime := controllers.NewRealtimeController(hub)

	// Public routes
	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"message": "Nutrition tracker API is running!", "status": "healthy"})
	})
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	r.GET("/calories", food.GetCalories)
	r.POST("/calories", food.PostCalories)
	r.POST("/auth/token", auth.IssueToken)

	// Protected tracker routes
	api := r.Group("/api")
	api.Use(middlewares.AuthMiddleware(cfg.Auth.JWTSecret))
	{
		api.POST("/users", tracker.EnsureUser)
		api.GET("/user/product", tracker.CurrentProduct)
		api.PUT("/user/product", tracker.SetCurrentProduct)
		api.POST("/products", tracker.AddCustomProduct)
		api.GET("/user/estimate", tracker.Estimate)
		api.POST("/estimate/manual", tracker.ManualEstimate)
		api.GET("/user/alerts", tracker.RecentAlerts)
		api.GET("/ws", realtime.AlertsWS)
	}

	return r
}
