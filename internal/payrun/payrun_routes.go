package payrun

import (
	"ecovale-hr/internal/middleware"
	"ecovale-hr/internal/rbac"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"golang.org/x/time/rate"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service, rdb *redis.Client) {
	payruns := r.Group("/payruns")
	payruns.Use(middleware.AuthMiddleware())
	{
		payruns.GET("", middleware.RBACAuthorize(rbacService, "payrun", "read"), handler.List)
		payruns.GET("/:month/:year", middleware.RBACAuthorize(rbacService, "payrun", "read"), handler.GetByPeriod)
		payruns.POST("/generate",
			middleware.RBACAuthorize(rbacService, "payrun", "generate"),
			middleware.RateLimitByUser(rate.Limit(1), 2),
			middleware.Idempotency(rdb),
			handler.Generate,
		)
		payruns.POST("/items/:itemId/payslip",
			middleware.RBACAuthorize(rbacService, "payrun", "read"),
			handler.RequestPayslip,
		)
	}
}
