package router

import (
	"time"

	"retailpos/internal/config"
	"retailpos/internal/handler"
	"retailpos/internal/infra"
	"retailpos/internal/middleware"
	"retailpos/internal/model"
	"retailpos/internal/repository"
	"retailpos/internal/service"

	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"
)

// New wires all dependencies and returns a configured Gin engine.
// Dependency graph: Handler ← Service ← Repository ← DB/Redis
func New(cfg *config.Config, db *gorm.DB, rdb *redis.Client, images *infra.LocalImageStore) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware chain (order matters)
	r.Use(middleware.RequestID())
	r.Use(middleware.Logger())
	r.Use(middleware.Recovery())
	r.Use(middleware.CORS())
	r.Use(middleware.ErrorHandler())
	r.Use(middleware.RateLimiter(1000, time.Minute)) // 1000 req/min per IP

	// ── Infrastructure ───────────────────────────────────────────────────────
	receipts := &infra.PDFReceiptStore{StoragePath: cfg.ReceiptStoragePath}

	// ── Repositories ─────────────────────────────────────────────────────────
	userRepo := repository.NewUserRepository(db)
	productRepo := repository.NewProductRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	saleRepo := repository.NewSaleRepository(db)
	movementRepo := repository.NewStockMovementRepository(db)
	settingRepo := repository.NewSettingRepository(db)

	// ── Services ─────────────────────────────────────────────────────────────
	authSvc := service.NewAuthService(userRepo, cfg)
	userSvc := service.NewUserService(userRepo)
	productSvc := service.NewProductService(productRepo, movementRepo, images)
	customerSvc := service.NewCustomerService(customerRepo, saleRepo)
	salesSvc := service.NewSalesService(saleRepo, productRepo, customerRepo, movementRepo, receipts)
	settingSvc := service.NewSettingService(settingRepo, rdb)
	reportSvc := service.NewReportService(saleRepo, productRepo, customerRepo, rdb)

	// ── Handlers ─────────────────────────────────────────────────────────────
	authH := handler.NewAuthHandler(authSvc)
	usersH := handler.NewUsersHandler(userSvc)
	productsH := handler.NewProductsHandler(productSvc)
	customersH := handler.NewCustomersHandler(customerSvc)
	salesH := handler.NewSalesHandler(salesSvc)
	settingsH := handler.NewSettingsHandler(settingSvc)
	reportsH := handler.NewReportsHandler(reportSvc)

	// ── Routes ───────────────────────────────────────────────────────────────

	// Public
	r.GET("/health", handler.Health(db, rdb))
	r.Static("/uploads", cfg.UploadDir)

	// Auth (public)
	auth := r.Group("/api/auth")
	{
		auth.POST("/login", middleware.LoginRateLimiter(), authH.Login)
	}

	// Protected routes
	jwtMW := middleware.JWTAuth(cfg.JWTSecret)
	anyStaff := middleware.RequireRole(model.RoleAdmin, model.RoleManager, model.RoleCashier)
	managers := middleware.RequireRole(model.RoleAdmin, model.RoleManager)
	admins := middleware.RequireRole(model.RoleAdmin)

	api := r.Group("/api", jwtMW)
	{
		api.POST("/auth/change-password", anyStaff, authH.ChangePassword)
		api.GET("/auth/me", anyStaff, authH.Me)

		// Products — all staff can read, managers and admins can write
		api.GET("/products", anyStaff, productsH.List)
		api.GET("/products/search", anyStaff, productsH.Search)
		api.GET("/products/categories", anyStaff, productsH.Categories)
		api.GET("/products/low-stock", anyStaff, productsH.LowStock)
		api.GET("/products/:id", anyStaff, productsH.Get)
		api.GET("/products/:id/details", anyStaff, productsH.Details)
		products := api.Group("/products", managers)
		{
			products.POST("", productsH.Create)
			products.PUT("/:id", productsH.Update)
			products.DELETE("/:id", productsH.Delete)
			products.PATCH("/:id/stock", productsH.AdjustStock)
		}

		// Customers — all staff
		customers := api.Group("/customers", anyStaff)
		{
			customers.GET("", customersH.List)
			customers.GET("/frequent", customersH.Frequent)
			customers.GET("/:id", customersH.Get)
			customers.GET("/:id/history", customersH.History)
			customers.GET("/:id/sales", salesH.CustomerSales)
			customers.POST("", customersH.Create)
			customers.PUT("/:id", customersH.Update)
			customers.DELETE("/:id", customersH.Delete)
		}

		// Sales — all staff can sell and read
		sales := api.Group("/sales", anyStaff)
		{
			sales.POST("", salesH.Create)
			sales.GET("", salesH.List)
			sales.GET("/today", salesH.Today)
			sales.GET("/:id", salesH.Get)
			sales.GET("/:id/receipt", salesH.Receipt)
		}

		// Users — admin only
		users := api.Group("/users", admins)
		{
			users.GET("", usersH.List)
			users.GET("/:id", usersH.Get)
			users.POST("", usersH.Create)
			users.PUT("/:id", usersH.Update)
			users.DELETE("/:id", usersH.Delete)
			users.POST("/:id/reset-password", usersH.ResetPassword)
		}

		// Settings — read for staff, writes for admins
		api.GET("/settings", anyStaff, settingsH.List)
		api.GET("/settings/:key", anyStaff, settingsH.Get)
		api.PUT("/settings/:key", admins, settingsH.Update)

		// Reports — managers and admins
		reports := api.Group("/reports", managers)
		{
			reports.GET("/sales-summary", reportsH.Summary)
			reports.GET("/top-products", reportsH.TopProducts)
			reports.GET("/sales-by-period", reportsH.SalesByPeriod)
			reports.GET("/dashboard", reportsH.Dashboard)
		}
	}

	// Swagger UI — only enabled outside production
	if !cfg.IsProduction() {
		r.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
	}

	return r
}
