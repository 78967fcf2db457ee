package routes

import (
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"shootdispatch/handlers"
)

// RegisterAvailabilityRoutes registers declared availability endpoints.
func RegisterAvailabilityRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Availability == nil {
		return
	}
	api := r.Group("/api/availability")
	{
		api.GET("", hb.Availability.List)
		api.POST("", hb.Availability.Create)
		api.DELETE("/:id", hb.Availability.Delete)
	}
}

// RegisterShootRoutes registers shoot overview and assignment endpoints.
func RegisterShootRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Shoots == nil {
		return
	}
	api := r.Group("/api/shoots")
	{
		api.GET("/overview", hb.Shoots.Overview)
		api.POST("", hb.Shoots.Create)
		api.PATCH("/:id", hb.Shoots.Patch)
	}
}

// RegisterPhotographerRoutes registers roster endpoints.
func RegisterPhotographerRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	if hb.Photographers == nil {
		return
	}
	api := r.Group("/api/photographers")
	{
		api.GET("", hb.Photographers.List)
		api.POST("", hb.Photographers.Upsert)
	}
}

// RegisterDispatchRoutes sets up the endpoints for the assignment view.
func RegisterDispatchRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	dispatchGroup := r.Group("/api/dispatch")
	{
		dispatchGroup.POST("/session", hb.Dispatch.InitiateSession)
		dispatchGroup.PUT("/session/:sessionID/rank", hb.Dispatch.RankSession)
		dispatchGroup.PUT("/session/:sessionID/photographer", hb.Dispatch.OpenPhotographer)
		dispatchGroup.POST("/session/:sessionID/assign", hb.Dispatch.Assign)
		dispatchGroup.DELETE("/session/:sessionID", hb.Dispatch.CancelSession)

		dispatchGroup.GET("/timeline", hb.Dispatch.Timeline)
		dispatchGroup.GET("/next-available", hb.Dispatch.NextAvailable)
	}
}

// RegisterHealthRoute registers a health-check endpoint.
func RegisterHealthRoute(r *gin.Engine) {
	r.GET("/health", handlers.Health)
}

// RegisterRoutes centralizes registration of all endpoints and middleware.
func RegisterRoutes(r *gin.Engine, hb *handlers.HandlerBundle) {
	r.Use(cors.New(cors.Config{
		AllowOrigins:  []string{"*"},
		AllowMethods:  []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Authorization", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"Content-Length", "X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}))

	RegisterHealthRoute(r)
	RegisterAvailabilityRoutes(r, hb)
	RegisterShootRoutes(r, hb)
	RegisterPhotographerRoutes(r, hb)
	RegisterDispatchRoutes(r, hb)
}
