package auth

import (
	"ecovale-hr/internal/middleware"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler) {
	group := r.Group("/auth")
	{
		// Brute-force protection on the credential endpoints.
		group.POST("/login", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Login)
		group.POST("/register", middleware.RateLimitByIP(rate.Limit(1), 5), handler.Register)
		group.POST("/refresh", handler.Refresh)
		group.GET("/me", middleware.AuthMiddleware(), handler.Me)
	}
}
