package loan

import (
	"ecovale-hr/internal/middleware"
	"ecovale-hr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	loans := r.Group("/loans")
	loans.Use(middleware.AuthMiddleware())
	{
		loans.GET("", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetAll)
		loans.GET("/:id", middleware.RBACAuthorize(rbacService, "loan", "read"), handler.GetById)
		loans.POST("", middleware.RBACAuthorize(rbacService, "loan", "manage"), handler.Create)
		loans.POST("/:id/emis/:emiId/pay", middleware.RBACAuthorize(rbacService, "loan", "manage"), handler.PayEMI)
		loans.POST("/:id/cancel", middleware.RBACAuthorize(rbacService, "loan", "manage"), handler.Cancel)
		loans.DELETE("/:id", middleware.RBACAuthorize(rbacService, "loan", "manage"), handler.Delete)
	}
}
