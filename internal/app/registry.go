package app

import (
	"context"
	"database/sql"
	"path/filepath"

	"go-welfare/internal/auth"
	"go-welfare/internal/benefit"
	"go-welfare/internal/department"
	"go-welfare/internal/employee"
	"go-welfare/internal/linking"
	"go-welfare/internal/messaging/kafka"
	"go-welfare/internal/notification"
	"go-welfare/internal/rbac"
	"go-welfare/internal/rbac/infra"
	"go-welfare/internal/shared/config"
	"go-welfare/internal/shared/counter"
	"go-welfare/internal/shared/storage"
	"go-welfare/internal/welfare"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

func registerModules(
	router *gin.Engine,
	db *sql.DB,
	gormDB *gorm.DB,
	rdb *redis.Client,
	files *storage.FileStorage,
	cfg *config.Config,
) error {
	// --- Repositories ---
	authRepo := auth.NewRepository(gormDB)
	benefitRepo := benefit.NewRepository(gormDB)
	counterRepo := counter.NewRepository(gormDB)
	departmentRepo := department.NewRepository(gormDB)
	employeeRepo := employee.NewRepository(gormDB)
	notificationRepo := notification.NewRepository(gormDB)
	outboxRepo := kafka.NewOutboxRepository(db)
	welfareRepo := welfare.NewRepository(gormDB)

	// --- RBAC Core ---
	enforcer, err := infra.NewEnforcer(
		filepath.Join("configs", "rbac_model.conf"),
		filepath.Join("configs", "rbac_policy.csv"),
	)
	if err != nil {
		return err
	}
	rbacService := rbac.NewService(enforcer)

	// --- Websocket hub ---
	hub := notification.NewHub()
	go hub.Run()
	go notification.RunBridge(context.Background(), rdb, hub)

	jwtSecret := []byte(cfg.JWT.Secret)

	// --- Services ---
	authService := auth.NewService(authRepo, rbacService, employeeRepo, jwtSecret)
	benefitService := benefit.NewService(benefitRepo)
	departmentService := department.NewService(db, departmentRepo)
	employeeService := employee.NewService(db, employeeRepo, counterRepo, outboxRepo, rdb)
	linkingService := linking.NewService(cfg.Line, jwtSecret, employeeRepo)
	welfareService := welfare.NewService(db, welfareRepo, benefitService, counterRepo, outboxRepo)

	// Dispatch runs in the consumer binary, so the API side never pushes
	// through the directory or LINE; it only serves the inbox.
	notificationService := notification.NewService(
		notificationRepo,
		notification.NewEmployeeDirectory(employeeRepo),
		hub,
		nil,
		rdb,
	)

	// --- Handlers ---
	authHandler := auth.NewHandler(authService)
	benefitHandler := benefit.NewHandler(benefitService)
	departmentHandler := department.NewHandler(departmentService)
	employeeHandler := employee.NewHandler(employeeService)
	linkingHandler := linking.NewHandler(linkingService)
	notificationHandler := notification.NewHandler(notificationService, hub, jwtSecret)
	rbacHandler := rbac.NewHandler(rbacService)
	welfareHandler := welfare.NewHandler(welfareService, files)

	// --- Routes Registration ---
	api := router.Group("/api/v1")
	{
		auth.RegisterRoutes(api, authHandler, jwtSecret)
		benefit.RegisterRoutes(api, benefitHandler, rbacService, jwtSecret)
		department.RegisterRoutes(api, departmentHandler, rbacService, jwtSecret)
		employee.RegisterRoutes(api, employeeHandler, rbacService, jwtSecret)
		linking.RegisterRoutes(api, linkingHandler, jwtSecret)
		notification.RegisterRoutes(api, notificationHandler, rbacService, jwtSecret)
		rbac.RegisterRoutes(api, rbacHandler, jwtSecret)
		welfare.RegisterRoutes(api, welfareHandler, rbacService, rdb, jwtSecret)
	}

	return nil
}
