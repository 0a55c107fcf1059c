package designation

import (
	"ecovale-hr/internal/middleware"
	"ecovale-hr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	designations := r.Group("/designations")
	designations.Use(middleware.AuthMiddleware())
	{
		designations.GET("", middleware.RBACAuthorize(rbacService, "designation", "read"), handler.GetAll)
		designations.GET("/:id", middleware.RBACAuthorize(rbacService, "designation", "read"), handler.GetById)
		designations.POST("", middleware.RBACAuthorize(rbacService, "designation", "manage"), handler.Create)
		designations.PUT("/:id", middleware.RBACAuthorize(rbacService, "designation", "manage"), handler.Update)
		designations.DELETE("/:id", middleware.RBACAuthorize(rbacService, "designation", "manage"), handler.Delete)
	}
}
