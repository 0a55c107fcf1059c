package attendance

import (
	"ecovale-hr/internal/middleware"
	"ecovale-hr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	attendance := r.Group("/attendance")
	attendance.Use(middleware.AuthMiddleware())
	{
		attendance.PUT("", middleware.RBACAuthorize(rbacService, "attendance", "manage"), handler.Upsert)
		attendance.GET("/period/:month/:year", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.ListByPeriod)
		attendance.GET("/employee/:employeeId", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.ListByEmployee)
		attendance.GET("/employee/:employeeId/:month/:year", middleware.RBACAuthorize(rbacService, "attendance", "read"), handler.GetForEmployee)
		attendance.DELETE("/:id", middleware.RBACAuthorize(rbacService, "attendance", "manage"), handler.Delete)
	}
}
