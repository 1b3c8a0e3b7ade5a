package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	fiberlogger "github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"gorm.io/gorm"

	"go-bizman-ws/internal/handler"
	"go-bizman-ws/internal/middleware"
	"go-bizman-ws/internal/model"
	"go-bizman-ws/internal/repository"
	"go-bizman-ws/internal/service"
	"go-bizman-ws/internal/sheet"
	"go-bizman-ws/internal/ws"
	"go-bizman-ws/pkg/database"
	"go-bizman-ws/pkg/jwt"
	"go-bizman-ws/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		logger.Get().Warn(".env file not found")
	}
	log := logger.WithModule("main")

	db := database.ConnectDB()
	if err := db.AutoMigrate(
		&model.Product{}, &model.InventoryLog{},
		&model.Order{}, &model.OrderItem{},
		&model.Customer{}, &model.Coupon{}, &model.Affiliate{},
		&model.AuditLog{},
		&model.User{}, &model.Privilege{}, &model.Role{},
		&model.Shift{},
	); err != nil {
		log.WithError(err).Fatal("migration failed")
	}

	seedPrivilegesRolesAndAdmin(db)

	wsHub := ws.NewHub()
	go wsHub.Run()

	// Repositories
	productRepo := repository.NewProductRepo(db)
	logRepo := repository.NewInventoryLogRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	couponRepo := repository.NewCouponRepo(db)
	affiliateRepo := repository.NewAffiliateRepo(db)
	auditRepo := repository.NewAuditLogRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	shiftRepo := repository.NewShiftRepo(db)

	// Services
	orderService := service.NewOrderService(db, orderRepo, productRepo, logRepo, couponRepo, affiliateRepo, auditRepo, wsHub)
	stockService := service.NewStockService(db, productRepo, logRepo, auditRepo, wsHub)
	productService := service.NewProductService(db, productRepo, auditRepo, wsHub)
	customerService := service.NewCustomerService(customerRepo, wsHub)
	couponService := service.NewCouponService(db, couponRepo)
	affiliateService := service.NewAffiliateService(db, affiliateRepo, auditRepo)
	importService := service.NewImportService(db, productRepo, customerRepo, auditRepo, sheet.NewFetcher(), wsHub)
	dashboardService := service.NewDashboardService(productRepo, orderRepo, logRepo, auditRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	shiftService := service.NewShiftService(shiftRepo, userRepo, wsHub)

	// Handlers
	productHandler := handler.NewProductHandler(productService, stockService)
	orderHandler := handler.NewOrderHandler(orderService)
	customerHandler := handler.NewCustomerHandler(customerService)
	couponHandler := handler.NewCouponHandler(couponService)
	affiliateHandler := handler.NewAffiliateHandler(affiliateService)
	importHandler := handler.NewImportHandler(importService)
	dashboardHandler := handler.NewDashboardHandler(dashboardService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo, privilegeRepo)
	shiftHandler := handler.NewShiftHandler(shiftService)

	app := fiber.New(fiber.Config{
		AppName:   "BizMan API v1.0",
		BodyLimit: 25 * 1024 * 1024, // spreadsheet uploads
	})

	app.Use(fiberlogger.New())
	app.Use(recover.New())
	app.Use(cors.New())

	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/overview", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.Overview)
	protected.Get("/dashboard/activity", middleware.RequirePrivilege("dashboard:view"), dashboardHandler.RecentActivity)

	// Products and linking
	protected.Get("/products", productHandler.GetAll)
	protected.Get("/products/:id", productHandler.GetByID)
	protected.Get("/products/:id/master", productHandler.Master)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.Create)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.Update)
	protected.Delete("/products/:id", middleware.RequirePrivilege("product:delete"), productHandler.Delete)
	protected.Post("/products/:id/link", middleware.RequirePrivilege("product:update"), productHandler.Link)
	protected.Post("/products/:id/unlink", middleware.RequirePrivilege("product:update"), productHandler.Unlink)

	// Stock ledger
	protected.Post("/stock/init", middleware.RequirePrivilege("stock:adjust"), productHandler.InitStock)
	protected.Post("/stock/audit", middleware.RequirePrivilege("stock:adjust"), productHandler.AuditStock)
	protected.Post("/stock/transfer", middleware.RequirePrivilege("stock:adjust"), productHandler.TransferStock)
	protected.Get("/stock/history/:id", middleware.RequirePrivilege("stock:view"), productHandler.StockHistory)

	// Orders
	protected.Get("/orders", middleware.RequirePrivilege("order:view"), orderHandler.GetAll)
	protected.Get("/orders/:id", middleware.RequirePrivilege("order:view"), orderHandler.GetByID)
	protected.Post("/orders", middleware.RequirePrivilege("order:create"), orderHandler.Create)
	protected.Put("/orders/:id", middleware.RequirePrivilege("order:update"), orderHandler.Update)
	protected.Patch("/orders/:id/status", middleware.RequirePrivilege("order:update"), orderHandler.UpdateStatus)
	protected.Delete("/orders/:id", middleware.RequirePrivilege("order:delete"), orderHandler.Delete)

	// Customers
	protected.Get("/customers", middleware.RequirePrivilege("customer:view"), customerHandler.GetAll)
	protected.Get("/customers/:id", middleware.RequirePrivilege("customer:view"), customerHandler.GetByID)
	protected.Post("/customers", middleware.RequirePrivilege("customer:create"), customerHandler.Create)
	protected.Put("/customers/:id", middleware.RequirePrivilege("customer:update"), customerHandler.Update)
	protected.Delete("/customers/:id", middleware.RequirePrivilege("customer:delete"), customerHandler.Delete)

	// Coupons
	protected.Get("/coupons", middleware.RequirePrivilege("coupon:manage"), couponHandler.GetAll)
	protected.Get("/coupons/check", middleware.RequirePrivilege("order:create"), couponHandler.Check)
	protected.Post("/coupons", middleware.RequirePrivilege("coupon:manage"), couponHandler.Create)
	protected.Put("/coupons/:id", middleware.RequirePrivilege("coupon:manage"), couponHandler.Update)
	protected.Delete("/coupons/:id", middleware.RequirePrivilege("coupon:manage"), couponHandler.Delete)

	// Affiliates
	protected.Get("/affiliates", middleware.RequirePrivilege("affiliate:manage"), affiliateHandler.GetAll)
	protected.Get("/affiliates/:id", middleware.RequirePrivilege("affiliate:manage"), affiliateHandler.GetByID)
	protected.Post("/affiliates", middleware.RequirePrivilege("affiliate:manage"), affiliateHandler.Create)
	protected.Put("/affiliates/:id", middleware.RequirePrivilege("affiliate:manage"), affiliateHandler.Update)
	protected.Delete("/affiliates/:id", middleware.RequirePrivilege("affiliate:manage"), affiliateHandler.Delete)
	protected.Post("/affiliates/:id/settle", middleware.RequirePrivilege("affiliate:manage"), affiliateHandler.Settle)

	// Bulk import
	protected.Post("/import/preview/file", middleware.RequirePrivilege("import:run"), importHandler.PreviewFile)
	protected.Post("/import/preview/link", middleware.RequirePrivilege("import:run"), importHandler.PreviewLink)
	protected.Post("/import/commit", middleware.RequirePrivilege("import:run"), importHandler.Commit)

	// User management
	protected.Get("/users", userHandler.GetAll)
	protected.Get("/users/:id", userHandler.GetByID)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.Create)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.Update)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.Delete)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdatePrivileges)

	// Roles and privileges
	protected.Get("/roles", roleHandler.GetAll)
	protected.Get("/privileges", roleHandler.GetAllPrivileges)

	// Shifts
	protected.Get("/shifts", middleware.RequirePrivilege("shift:view"), shiftHandler.GetAll)
	protected.Get("/shifts/:id", middleware.RequirePrivilege("shift:view"), shiftHandler.GetByID)
	protected.Get("/shifts/user/:userId", middleware.RequirePrivilege("shift:view"), shiftHandler.GetByUser)
	protected.Post("/shifts", middleware.RequirePrivilege("shift:create"), shiftHandler.Create)
	protected.Put("/shifts/:id", middleware.RequirePrivilege("shift:update"), shiftHandler.Update)
	protected.Delete("/shifts/:id", middleware.RequirePrivilege("shift:delete"), shiftHandler.Delete)

	// WebSocket: ?token=<jwt> authenticates the connection and pins it to the
	// user's tenant room.
	app.Use("/ws", func(c *fiber.Ctx) error {
		if !websocket.IsWebSocketUpgrade(c) {
			return c.SendStatus(fiber.StatusUpgradeRequired)
		}
		claims, err := jwt.ValidateToken(c.Query("token"))
		if err != nil {
			return c.SendStatus(fiber.StatusUnauthorized)
		}
		c.Locals("ws_owner_id", claims.OwnerID)
		return c.Next()
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		ownerID, ok := c.Locals("ws_owner_id").(uuid.UUID)
		if !ok {
			c.Close()
			return
		}
		wsHub.Register <- ws.Session{Conn: c, OwnerID: ownerID}
		defer func() { wsHub.Unregister <- c }()

		for {
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.WithError(err).Fatal("server stopped")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down server")
	if err := app.Shutdown(); err != nil {
		log.WithError(err).Fatal("server forced to shutdown")
	}
	log.Info("server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles and the first
// tenant's owner account if they don't exist.
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	log := logger.WithModule("seed")

	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.WithError(err).Warn("failed to seed privileges")
	}
	if err := roleRepo.SeedDefaults(); err != nil {
		log.WithError(err).Warn("failed to seed roles")
	}

	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets every privilege.
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(masterRole).Association("Privileges").Replace(allPrivileges)
	}

	// ADMIN runs the business but not the accounts.
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		var adminPrivileges []model.Privilege
		for _, p := range allPrivileges {
			switch p.Code {
			case "user:create", "user:update", "user:delete", "user:update_privilege":
			default:
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(adminRole).Association("Privileges").Replace(adminPrivileges)
	}

	// STAFF handles day-to-day sales.
	staffRole, err := roleRepo.FindByCode(model.RoleStaff)
	if err == nil && len(staffRole.Privileges) == 0 {
		staffCodes := map[string]bool{
			"product:view": true, "stock:view": true,
			"order:view": true, "order:create": true, "order:update": true,
			"customer:view": true, "customer:create": true, "customer:update": true,
			"shift:view": true, "dashboard:view": true,
		}
		var staffPrivileges []model.Privilege
		for _, p := range allPrivileges {
			if staffCodes[p.Code] {
				staffPrivileges = append(staffPrivileges, p)
			}
		}
		db.Model(staffRole).Association("Privileges").Replace(staffPrivileges)
	}

	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:      "admin@example.com",
			FullName:   "Master Administrator",
			RoleID:     &masterRole.ID,
			IsActive:   true,
			Privileges: masterRole.Privileges,
		}
		// The owner account anchors a fresh tenant.
		admin.OwnerID = uuid.New()
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.WithError(err).Warn("failed to hash admin password")
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.WithError(err).Warn("failed to create admin user")
		} else {
			log.WithField("email", admin.Email).Info("default admin created")
		}
	}
}
