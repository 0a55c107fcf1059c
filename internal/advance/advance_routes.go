package advance

import (
	"ecovale-hr/internal/middleware"
	"ecovale-hr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	advances := r.Group("/advances")
	advances.Use(middleware.AuthMiddleware())
	{
		advances.GET("", middleware.RBACAuthorize(rbacService, "advance", "read"), handler.GetAll)
		advances.GET("/:id", middleware.RBACAuthorize(rbacService, "advance", "read"), handler.GetById)
		advances.POST("", middleware.RBACAuthorize(rbacService, "advance", "manage"), handler.Create)
		advances.PUT("/:id", middleware.RBACAuthorize(rbacService, "advance", "manage"), handler.Update)
		advances.POST("/:id/settle", middleware.RBACAuthorize(rbacService, "advance", "manage"), handler.Settle)
		advances.DELETE("/:id", middleware.RBACAuthorize(rbacService, "advance", "manage"), handler.Delete)
	}
}
