package document

import (
	"ecovale-hr/internal/middleware"
	"ecovale-hr/internal/rbac"

	"github.com/gin-gonic/gin"
)

func RegisterRoutes(r *gin.RouterGroup, handler *Handler, rbacService rbac.Service) {
	documents := r.Group("/documents")
	documents.Use(middleware.AuthMiddleware())
	{
		documents.GET("", middleware.RBACAuthorize(rbacService, "document", "read"), handler.List)
		documents.GET("/:id", middleware.RBACAuthorize(rbacService, "document", "read"), handler.GetById)
		documents.GET("/:id/download", middleware.RBACAuthorize(rbacService, "document", "read"), handler.Download)
		documents.POST("/letters", middleware.RBACAuthorize(rbacService, "document", "manage"), handler.GenerateLetter)
	}
}
