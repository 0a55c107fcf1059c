package app

import (
	"database/sql"
	"path/filepath"

	"ecovale-hr/internal/advance"
	"ecovale-hr/internal/attendance"
	"ecovale-hr/internal/auth"
	"ecovale-hr/internal/department"
	"ecovale-hr/internal/designation"
	"ecovale-hr/internal/document"
	"ecovale-hr/internal/employee"
	"ecovale-hr/internal/leave"
	"ecovale-hr/internal/loan"
	"ecovale-hr/internal/messaging/kafka"
	"ecovale-hr/internal/payrun"
	"ecovale-hr/internal/rbac"
	"ecovale-hr/internal/rbac/infra"
	"ecovale-hr/internal/shared/counter"
	"ecovale-hr/internal/user"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(router *gin.Engine, db *sql.DB, gormDB *gorm.DB, rdb *redis.Client) error {
	enforcer, err := infra.NewEnforcer(filepath.Join("internal", "rbac", "infra", "model.conf"))
	if err != nil {
		return err
	}

	counterRepo := counter.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)

	authRepo := auth.NewRepository(gormDB)
	userRepo := user.NewRepository(gormDB)
	rbacRepo := rbac.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	designationRepo := designation.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	attendanceRepo := attendance.NewRepository(gormDB)
	advanceRepo := advance.NewRepository(gormDB)
	loanRepo := loan.NewRepository(gormDB)
	leaveRepo := leave.NewRepository(gormDB)
	payrunRepo := payrun.NewRepository(gormDB)
	documentRepo := document.NewRepository(gormDB)

	rbacService := rbac.NewService(rbacRepo, enforcer)
	authService := auth.NewService(authRepo)
	userService := user.NewService(userRepo)
	departmentService := department.NewService(departmentRepo)
	designationService := designation.NewService(designationRepo)
	employeeService := employee.NewService(employeeRepo, counterRepo, rdb)
	attendanceService := attendance.NewService(attendanceRepo)
	advanceService := advance.NewService(advanceRepo)
	loanService := loan.NewService(loanRepo)
	leaveService := leave.NewService(leaveRepo)
	payrunService := payrun.NewService(db, payrunRepo, outboxRepo, payrun.LoadConfig(), rdb)
	documentService := document.NewService(documentRepo, counterRepo)

	api := router.Group("/api/v1")

	auth.RegisterRoutes(api, auth.NewHandler(authService))
	user.RegisterRoutes(api, user.NewHandler(userService), rbacService)
	rbac.RegisterRoutes(api, rbac.NewHandler(rbacService, rbacRepo), rbacService)
	department.RegisterRoutes(api, department.NewHandler(departmentService), rbacService)
	designation.RegisterRoutes(api, designation.NewHandler(designationService), rbacService)
	employee.RegisterRoutes(api, employee.NewHandler(employeeService), rbacService)
	attendance.RegisterRoutes(api, attendance.NewHandler(attendanceService), rbacService)
	advance.RegisterRoutes(api, advance.NewHandler(advanceService), rbacService)
	loan.RegisterRoutes(api, loan.NewHandler(loanService), rbacService)
	leave.RegisterRoutes(api, leave.NewHandler(leaveService), rbacService)
	payrun.RegisterRoutes(api, payrun.NewHandlerWithRedis(payrunService, rdb), rbacService, rdb)
	document.RegisterRoutes(api, document.NewHandler(documentService), rbacService)

	return nil
}
