package app

import (
	"os"

	"ecovale-hr/internal/advance"
	"ecovale-hr/internal/attendance"
	"ecovale-hr/internal/department"
	"ecovale-hr/internal/designation"
	"ecovale-hr/internal/document"
	"ecovale-hr/internal/employee"
	"ecovale-hr/internal/leave"
	"ecovale-hr/internal/loan"
	"ecovale-hr/internal/messaging/kafka"
	"ecovale-hr/internal/middleware"
	"ecovale-hr/internal/payrun"
	"ecovale-hr/internal/rbac"
	"ecovale-hr/internal/shared/connection"
	"ecovale-hr/internal/shared/counter"
	"ecovale-hr/internal/user"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func BuildApp(router *gin.Engine) error {
	gormDB, err := connection.ConnectGORMWithRetry(
		os.Getenv("DB_HOST"),
		os.Getenv("DB_USER"),
		os.Getenv("DB_PASSWORD"),
		os.Getenv("DB_NAME"),
		os.Getenv("DB_PORT"),
		os.Getenv("DB_SSLMODE"),
		5,
	)
	if err != nil {
		return err
	}

	if err := migrate(gormDB); err != nil {
		return err
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return err
	}

	redisClient, err := connection.ConnectRedisWithRetry(os.Getenv("REDIS_ADDR"), 5)
	if err != nil {
		return err
	}

	router.Use(middleware.RequestID())
	router.Use(middleware.ContextLogger(zap.L()))

	return registerModules(router, sqlDB, gormDB, redisClient)
}

func migrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&user.User{},
		&department.Department{},
		&designation.Designation{},
		&employee.Employee{},
		&attendance.Attendance{},
		&advance.Advance{},
		&loan.Loan{},
		&loan.LoanEMI{},
		&leave.LeaveRequest{},
		&payrun.PayRun{},
		&payrun.PayRunItem{},
		&payrun.PayRunFailure{},
		&document.GeneratedDocument{},
		&counter.Counter{},
		&kafka.OutboxRow{},
		&rbac.RoleRow{},
		&rbac.PermissionRow{},
		&rbac.UserRoleRow{},
		&rbac.RolePermissionRow{},
	)
}
