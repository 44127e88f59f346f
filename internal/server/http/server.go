// Package http exposes the application services over a JSON REST API.
package http

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/garagebuddy/garagebuddy/internal/service"
)

// Config holds HTTP server settings.
type Config struct {
	Addr        string
	ReleaseMode bool
}

// Server wires the services into a gin router.
type Server struct {
	cfg      Config
	log      *zap.Logger
	auth     service.AuthService
	sales    service.SaleService
	items    service.ItemService
	checkout service.CheckoutService
	reports  service.ReportService

	httpSrv *http.Server
}

// New constructs the server with all services attached.
func New(
	cfg Config,
	log *zap.Logger,
	auth service.AuthService,
	sales service.SaleService,
	items service.ItemService,
	checkout service.CheckoutService,
	reports service.ReportService,
) *Server {
	if log == nil {
		log = zap.NewNop()
	}
	return &Server{
		cfg: cfg, log: log,
		auth: auth, sales: sales, items: items,
		checkout: checkout, reports: reports,
	}
}

// Router builds the route tree. Split out of Run so handler tests can drive
// the router directly.
func (s *Server) Router() *gin.Engine {
	if s.cfg.ReleaseMode {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(gin.Recovery(), s.requestID(), s.requestLog())

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })

	r.POST("/api/register", s.handleRegister)
	r.POST("/api/login", s.handleLogin)

	api := r.Group("/api", s.requireAuth())
	{
		api.GET("/profile", s.handleGetProfile)
		api.PUT("/profile", s.handleUpdateProfile)
		api.DELETE("/profile", s.handleDeleteAccount)
		api.PUT("/users/:email/super", s.handleSetSuperUser)
		api.POST("/users/:email/unlock", s.handleUnlockProfile)

		api.POST("/sales", s.handleCreateSale)
		api.GET("/sales", s.handleListSales)
		api.GET("/sales/:id", s.handleGetSale)
		api.PUT("/sales/:id", s.handleUpdateSale)
		api.POST("/sales/:id/close", s.handleCloseSale)
		api.DELETE("/sales/:id", s.handleDeleteSale)
		api.PUT("/sales/:id/members", s.handleAssignRole)
		api.GET("/sales/:id/members", s.handleListMembers)
		api.GET("/sales/:id/roles", s.handleAssignableRoles)
		api.GET("/sales/:id/items", s.handleListSaleItems)
		api.GET("/sales/:id/tags", s.handleTags)
		api.GET("/sales/:id/transactions", s.handleListTransactions)
		api.GET("/sales/:id/reports/sellers", s.handleAllSellerReports)
		api.GET("/sales/:id/reports/sellers/:email", s.handleSellerReport)
		api.GET("/sales/:id/reports/stats", s.handleStats)

		api.POST("/items", s.handleCreateItem)
		api.GET("/items/:id", s.handleGetItem)
		api.PUT("/items/:id", s.handleUpdateItem)
		api.DELETE("/items/:id", s.handleDeleteItem)
		api.POST("/items/:id/sale", s.handleAddItemToSale)
		api.DELETE("/items/:id/sale", s.handleRemoveItemFromSale)
		api.POST("/items/:id/bids", s.handlePostBid)

		api.POST("/transactions", s.handleCreateTransaction)
		api.GET("/transactions/:id", s.handleGetTransaction)
		api.DELETE("/transactions/:id", s.handleDeleteTransaction)
		api.POST("/transactions/:id/items", s.handleSellItem)
		api.DELETE("/transactions/:id/items/:itemID", s.handleUnsellItem)
		api.POST("/transactions/:id/receipt", s.handleEmailReceipt)
	}

	return r
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.httpSrv = &http.Server{
		Addr:              s.cfg.Addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info("http server listening", zap.String("addr", s.cfg.Addr))
		if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return s.httpSrv.Shutdown(shutdownCtx)
	}
}
