package server

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v3/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/internal/autorespond"
	"storefront/internal/backupstore"
	"storefront/internal/db"
	"storefront/internal/handlers/api"
	"storefront/internal/middleware"
	"storefront/internal/models"
)

// RegisterRoutes registers all application routes. uploader may be nil.
func (s *Server) RegisterRoutes(ctx context.Context, database *db.DB, autoRespond *autorespond.Service, uploader backupstore.Uploader) error {
	// Initialize middleware
	authMiddleware := middleware.NewAuthMiddleware(database)
	requireAuth := authMiddleware.RequireAuth
	adminOnly := middleware.RequireRole(models.RoleAdmin)
	staff := middleware.RequireRole(models.RoleAdmin, models.RoleSales)
	salesReaders := middleware.RequireRole(models.RoleAdmin, models.RoleSales, models.RoleFinance)

	// Initialize handlers
	authHandler := api.NewAuthHandler(database)
	userHandler := api.NewUserHandler(database)
	productHandler := api.NewProductHandler(database)
	salesHandler := api.NewSalesHandler(database)
	queryHandler := api.NewQueryHandler(database, autoRespond)
	responseHandler := api.NewResponseHandler(database)
	cartHandler := api.NewCartHandler(database)
	backupHandler := api.NewBackupHandler(database, uploader)
	healthHandler := api.NewHealthHandler(database)

	// Ops
	s.App.Get("/healthz", healthHandler.Check)
	s.App.Get("/metrics", adaptor.HTTPHandler(promhttp.Handler()))

	// Password auth
	s.App.Post("/register", authMiddleware.OptionalAuth, authHandler.Register)
	s.App.Post("/login", authHandler.Login)
	s.App.Post("/logout", authHandler.Logout)

	// OIDC staff sign-in
	if s.Cfg.IsOIDCEnabled() {
		oidcHandler, err := api.NewOIDCHandler(ctx, s.Cfg, database)
		if err != nil {
			return err
		}
		s.App.Get("/auth/login", oidcHandler.Login)
		s.App.Get("/auth/callback", oidcHandler.Callback)
	} else {
		log.Println("OIDC not configured, staff sign in with passwords only")
	}

	apiGroup := s.App.Group("/api")

	apiGroup.Get("/me", requireAuth, authHandler.Me)

	// Users
	apiGroup.Get("/users", requireAuth, adminOnly, userHandler.List)
	apiGroup.Post("/users", requireAuth, adminOnly, userHandler.Create)
	apiGroup.Put("/users/:id", requireAuth, adminOnly, userHandler.Update)
	apiGroup.Delete("/users/:id", requireAuth, adminOnly, userHandler.Delete)

	// Products
	apiGroup.Get("/products", productHandler.List)
	apiGroup.Post("/products", requireAuth, staff, productHandler.Create)
	apiGroup.Put("/products/:id", requireAuth, staff, productHandler.Update)
	apiGroup.Delete("/products/:id", requireAuth, staff, productHandler.Delete)

	// Sales records
	apiGroup.Get("/sales", requireAuth, salesReaders, salesHandler.List)
	apiGroup.Post("/sales", requireAuth, staff, salesHandler.Create)
	apiGroup.Put("/sales/:id", requireAuth, staff, salesHandler.Update)
	apiGroup.Delete("/sales/:id", requireAuth, staff, salesHandler.Delete)

	// Customer queries
	apiGroup.Post("/queries", queryHandler.Submit)
	apiGroup.Get("/queries", requireAuth, staff, queryHandler.List)
	apiGroup.Post("/queries/preview", requireAuth, staff, queryHandler.Preview)
	apiGroup.Post("/queries/auto-respond-all-pending", requireAuth, staff, queryHandler.AutoRespondAllPending)
	apiGroup.Put("/queries/:id", requireAuth, staff, queryHandler.Update)
	apiGroup.Delete("/queries/:id", requireAuth, staff, queryHandler.Delete)
	apiGroup.Post("/queries/:id/resolve", requireAuth, staff, queryHandler.Resolve)
	apiGroup.Post("/queries/:id/auto-respond", requireAuth, staff, queryHandler.AutoRespond)

	// Automated responses
	apiGroup.Get("/responses", requireAuth, staff, responseHandler.List)
	apiGroup.Post("/responses", requireAuth, staff, responseHandler.Create)
	apiGroup.Put("/responses/:id", requireAuth, staff, responseHandler.Update)
	apiGroup.Delete("/responses/:id", requireAuth, staff, responseHandler.Delete)

	// Cart
	apiGroup.Post("/cart", requireAuth, cartHandler.Add)
	apiGroup.Post("/cart/sync", requireAuth, cartHandler.Sync)
	apiGroup.Get("/cart/:userId", requireAuth, cartHandler.List)
	apiGroup.Put("/cart/:id", requireAuth, cartHandler.Update)
	apiGroup.Delete("/cart/:id", requireAuth, cartHandler.Delete)
	apiGroup.Post("/checkout", requireAuth, cartHandler.Checkout)

	// Backups
	apiGroup.Post("/backup", requireAuth, adminOnly, backupHandler.Create)
	apiGroup.Get("/backups", requireAuth, adminOnly, backupHandler.List)
	apiGroup.Post("/restore/:id", requireAuth, adminOnly, backupHandler.Restore)

	return nil
}
