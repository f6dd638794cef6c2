package v1

import (
	"context"

	"github.com/gin-gonic/gin"

	"integratorpro/internal/core/numerator"
	"integratorpro/internal/domain/audit"
	"integratorpro/internal/domain/auth"
	"integratorpro/internal/domain/catalogs/customer"
	"integratorpro/internal/domain/catalogs/item"
	"integratorpro/internal/domain/catalogs/vehicle"
	"integratorpro/internal/domain/catalogs/vendor"
	"integratorpro/internal/domain/catalogs/warehouse"
	"integratorpro/internal/domain/documents/invoice"
	"integratorpro/internal/domain/documents/kitted_job"
	"integratorpro/internal/domain/documents/purchase_order"
	"integratorpro/internal/domain/ledger"
	"integratorpro/internal/infrastructure/http/v1/handlers"
	"integratorpro/internal/infrastructure/http/v1/middleware"
	"integratorpro/internal/infrastructure/storage/postgres"
	"integratorpro/internal/infrastructure/storage/postgres/catalog_repo"
	"integratorpro/internal/infrastructure/storage/postgres/document_repo"
	"integratorpro/internal/infrastructure/storage/postgres/ledger_repo"
	"integratorpro/pkg/logger"
)

// RouterConfig holds router configuration.
type RouterConfig struct {
	// Pool is the database connection pool (for health checks)
	Pool *postgres.Pool

	// TxManager runs domain operations in transactions
	TxManager *postgres.TxManager

	// Logger for request logging
	Logger *logger.Logger

	// JWTValidator for token validation
	JWTValidator middleware.JWTValidator

	// AuthService for authentication endpoints
	AuthService *auth.Service

	// Numerator for document number generation
	Numerator numerator.Generator
}

// NewRouter creates and configures the Gin router.
func NewRouter(cfg RouterConfig) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()

	// Global middleware (order matters!)
	router.Use(middleware.Recovery())
	router.Use(middleware.Trace())
	router.Use(middleware.Logger(cfg.Logger))
	router.Use(middleware.ErrorHandler())

	// Health endpoints (no auth required)
	healthHandler := handlers.NewHealthHandler(cfg.Pool)
	health := router.Group("/health")
	{
		health.GET("/live", healthHandler.Live)
		health.GET("/ready", healthHandler.Ready)
		health.GET("/info", healthHandler.Info)
	}

	// The ledger is shared: documents receive and allocate against the
	// same service the inventory endpoints use.
	ledgerService, err := newLedgerService(cfg)
	if err != nil {
		return nil, err
	}

	// API v1
	v1 := router.Group("/api/v1")
	{
		registerAuthRoutes(v1, cfg)

		protected := v1.Group("")
		protected.Use(middleware.Auth(cfg.JWTValidator))

		registerCatalogRoutes(protected, cfg)
		registerInventoryRoutes(protected, cfg, ledgerService)
		registerDocumentRoutes(protected, cfg, ledgerService)
	}

	return router, nil
}

// registerAuthRoutes registers authentication endpoints.
func registerAuthRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	if cfg.AuthService == nil {
		return
	}

	baseHandler := handlers.NewBaseHandler()
	authHandler := handlers.NewAuthHandler(baseHandler, cfg.AuthService)

	// Public auth endpoints (no JWT required)
	publicAuth := rg.Group("/auth")

	// Protected auth endpoints (JWT required)
	protectedAuth := rg.Group("/auth")
	protectedAuth.Use(middleware.Auth(cfg.JWTValidator))

	authHandler.RegisterRoutes(publicAuth, protectedAuth)
}

// registerCatalogRoutes registers catalog endpoints.
func registerCatalogRoutes(rg *gin.RouterGroup, cfg RouterConfig) {
	catalogs := rg.Group("/catalog")
	baseHandler := handlers.NewBaseHandler()

	// --- ITEMS ---
	{
		repo := catalog_repo.NewItemRepo(cfg.TxManager)
		service := item.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewItemHandler(baseHandler, service)

		items := catalogs.Group("/items")
		items.GET("/search", middleware.RequirePermission("catalog:item:read"), handler.Search)
		items.GET("/by-part-number/:partNumber", middleware.RequirePermission("catalog:item:read"), handler.GetByPartNumber)

		// Item deletion is admin only on top of the usual permission check.
		items.DELETE("/:id", middleware.RequireAdmin(), handler.Delete)
		items.GET("", middleware.RequirePermission("catalog:item:read"), handler.List)
		items.POST("", middleware.RequirePermission("catalog:item:create"), handler.Create)
		items.GET("/:id", middleware.RequirePermission("catalog:item:read"), handler.Get)
		items.PUT("/:id", middleware.RequirePermission("catalog:item:update"), handler.Update)
		items.POST("/:id/deletion-mark", middleware.RequireAdmin(), handler.SetDeletionMark)
		items.GET("/tree", middleware.RequirePermission("catalog:item:read"), handler.GetTree)
	}

	// --- WAREHOUSES ---
	{
		repo := catalog_repo.NewWarehouseRepo(cfg.TxManager)
		service := warehouse.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewWarehouseHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/warehouses"), handler, "catalog:warehouse")
	}

	// --- VENDORS ---
	{
		repo := catalog_repo.NewVendorRepo(cfg.TxManager)
		service := vendor.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewVendorHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/vendors"), handler, "catalog:vendor")
	}

	// --- CUSTOMERS ---
	{
		repo := catalog_repo.NewCustomerRepo(cfg.TxManager)
		service := customer.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewCustomerHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/customers"), handler, "catalog:customer")
	}

	// --- VEHICLES ---
	{
		repo := catalog_repo.NewVehicleRepo(cfg.TxManager)
		service := vehicle.NewService(repo, cfg.TxManager, cfg.Numerator)
		handler := handlers.NewVehicleHandler(baseHandler, service)
		RegisterCatalogRoutes(catalogs.Group("/vehicles"), handler, "catalog:vehicle")
	}
}

// registerInventoryRoutes registers stock ledger endpoints.
func registerInventoryRoutes(rg *gin.RouterGroup, cfg RouterConfig, ledgerService *ledger.Service) {
	inventory := rg.Group("/inventory")
	baseHandler := handlers.NewBaseHandler()

	handler := handlers.NewStockHandler(baseHandler, ledgerService)

	inventory.GET("/stock", middleware.RequirePermission("inventory:stock:read"), handler.List)
	inventory.GET("/stock/:partNumber", middleware.RequirePermission("inventory:stock:read"), handler.Get)
	inventory.GET("/stock/:partNumber/movements", middleware.RequirePermission("inventory:stock:read"), handler.GetMovements)
	inventory.POST("/move", middleware.RequirePermission("inventory:stock:move"), handler.Move)
	inventory.POST("/receive", middleware.RequirePermission("inventory:stock:receive"), handler.Receive)

	// Count adjustment is admin only. The service checks the role again,
	// so the gate holds even if the route wiring changes.
	inventory.POST("/adjust", middleware.RequireAdmin(), handler.Adjust)
}

// registerDocumentRoutes registers document endpoints.
func registerDocumentRoutes(rg *gin.RouterGroup, cfg RouterConfig, ledgerService *ledger.Service) {
	docsGroup := rg.Group("/document")
	baseHandler := handlers.NewBaseHandler()

	// --- PURCHASE ORDERS ---
	{
		repo := document_repo.NewPurchaseOrderRepo(cfg.TxManager)
		service := purchase_order.NewService(repo, ledgerService, cfg.Numerator, cfg.TxManager)

		service.Hooks().OnBeforeCreate(func(ctx context.Context, doc *purchase_order.PurchaseOrder) error {
			audit.EnrichCreatedByDirect(ctx, &doc.CreatedBy, &doc.UpdatedBy)
			return nil
		})
		service.Hooks().OnBeforeUpdate(func(ctx context.Context, doc *purchase_order.PurchaseOrder) error {
			audit.EnrichUpdatedByDirect(ctx, &doc.UpdatedBy)
			return nil
		})

		handler := handlers.NewPurchaseOrderHandler(baseHandler, service)
		group := docsGroup.Group("/purchase-orders")
		RegisterDocumentRoutes(group, handler, "document:purchase_order")
		handler.RegisterRoutes(group)
	}

	// --- INVOICES ---
	invoiceRepo := document_repo.NewInvoiceRepo(cfg.TxManager)
	invoiceService := invoice.NewService(invoiceRepo, cfg.Numerator, cfg.TxManager)
	{
		handler := handlers.NewInvoiceHandler(baseHandler, invoiceService)
		group := docsGroup.Group("/invoices")
		RegisterDerivedDocumentRoutes(group, handler, "document:invoice")
		handler.RegisterRoutes(group)
	}

	// --- KITTED JOBS ---
	{
		itemRepo := catalog_repo.NewItemRepo(cfg.TxManager)
		itemService := item.NewService(itemRepo, cfg.TxManager, cfg.Numerator)

		repo := document_repo.NewKittedJobRepo(cfg.TxManager)
		service := kitted_job.NewService(repo, ledgerService, itemService, invoiceService, cfg.Numerator, cfg.TxManager)

		handler := handlers.NewKittedJobHandler(baseHandler, service)
		group := docsGroup.Group("/jobs")
		RegisterDocumentRoutes(group, handler, "document:kitted_job")
		handler.RegisterRoutes(group)
	}
}

// newLedgerService wires the stock ledger with its item catalog and audit
// trail dependencies.
func newLedgerService(cfg RouterConfig) (*ledger.Service, error) {
	itemRepo := catalog_repo.NewItemRepo(cfg.TxManager)
	itemService := item.NewService(itemRepo, cfg.TxManager, cfg.Numerator)

	stockRepo := ledger_repo.NewStockRepo(cfg.TxManager)

	auditService, err := postgres.NewAuditService(cfg.TxManager)
	if err != nil {
		return nil, err
	}
	sink := ledger_repo.NewAuditSink(auditService)

	return ledger.NewService(stockRepo, itemService, sink, cfg.TxManager), nil
}
