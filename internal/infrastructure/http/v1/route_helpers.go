// Package v1 provides HTTP API version 1.
package v1

import (
	"github.com/gin-gonic/gin"

	"integratorpro/internal/infrastructure/http/v1/middleware"
)

// CatalogRouteHandler defines the interface for catalog handlers.
// All catalog handlers must implement these methods.
type CatalogRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Update(c *gin.Context)
	Delete(c *gin.Context)
	SetDeletionMark(c *gin.Context)
	GetTree(c *gin.Context)
}

// DocumentRouteHandler defines the interface for document handlers.
// Lifecycle transitions (send, cancel, receive) are registered by each
// document handler on top of these.
type DocumentRouteHandler interface {
	List(c *gin.Context)
	Create(c *gin.Context)
	Get(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterCatalogRoutes registers standard CRUD routes for a catalog.
// This eliminates the need to manually wire up routes for each catalog.
//
// Usage:
//
//	repo := catalog_repo.NewVendorRepo(cfg.TxManager)
//	service := vendor.NewService(repo, cfg.TxManager, cfg.Numerator)
//	handler := handlers.NewVendorHandler(baseHandler, service)
//	RegisterCatalogRoutes(catalogs.Group("/vendors"), handler, "catalog:vendor")
func RegisterCatalogRoutes(group *gin.RouterGroup, handler CatalogRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.PUT("/:id", middleware.RequirePermission(permission+":update"), handler.Update)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
	group.POST("/:id/deletion-mark", middleware.RequirePermission(permission+":delete"), handler.SetDeletionMark)
	group.GET("/tree", middleware.RequirePermission(permission+":read"), handler.GetTree)
}

// RegisterDocumentRoutes registers the shared CRUD routes for a document.
// Lifecycle routes are added by the document handler itself.
func RegisterDocumentRoutes(group *gin.RouterGroup, handler DocumentRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.POST("", middleware.RequirePermission(permission+":create"), handler.Create)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
}

// DerivedDocumentRouteHandler is a document created by the system rather
// than by a direct POST (invoices come from job quotes).
type DerivedDocumentRouteHandler interface {
	List(c *gin.Context)
	Get(c *gin.Context)
	Delete(c *gin.Context)
}

// RegisterDerivedDocumentRoutes registers the shared routes for a document
// without a direct create endpoint.
func RegisterDerivedDocumentRoutes(group *gin.RouterGroup, handler DerivedDocumentRouteHandler, permission string) {
	group.GET("", middleware.RequirePermission(permission+":read"), handler.List)
	group.GET("/:id", middleware.RequirePermission(permission+":read"), handler.Get)
	group.DELETE("/:id", middleware.RequirePermission(permission+":delete"), handler.Delete)
}
