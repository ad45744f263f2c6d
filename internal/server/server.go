package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/jielong/internal/actionlog"
	"github.com/smallbiznis/jielong/internal/backup"
	catalogdomain "github.com/smallbiznis/jielong/internal/catalog/domain"
	"github.com/smallbiznis/jielong/internal/config"
	directorydomain "github.com/smallbiznis/jielong/internal/directory/domain"
	ledgerdomain "github.com/smallbiznis/jielong/internal/ledger/domain"
	"github.com/smallbiznis/jielong/internal/reconcile"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

// NewEngine builds the gin engine with recovery, request logging, error
// mapping and the operational endpoints.
func NewEngine(log *zap.Logger, metrics *HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(RequestIDMiddleware())
	r.Use(RequestLogMiddleware(log))
	r.Use(MetricsMiddleware(metrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

type Server struct {
	engine       *gin.Engine
	cfg          config.Config
	log          *zap.Logger
	catalogSvc   catalogdomain.Service
	directorySvc directorydomain.Service
	ledgerSvc    ledgerdomain.Service
	reconciler   *reconcile.Service
	backupSvc    *backup.Service
	recorder     *actionlog.Recorder
}

type ServerParams struct {
	fx.In

	Gin          *gin.Engine
	Cfg          config.Config
	Log          *zap.Logger
	CatalogSvc   catalogdomain.Service
	DirectorySvc directorydomain.Service
	LedgerSvc    ledgerdomain.Service
	Reconciler   *reconcile.Service
	BackupSvc    *backup.Service
	Recorder     *actionlog.Recorder
}

func NewServer(p ServerParams) *Server {
	return &Server{
		engine:       p.Gin,
		cfg:          p.Cfg,
		log:          p.Log.Named("server"),
		catalogSvc:   p.CatalogSvc,
		directorySvc: p.DirectorySvc,
		ledgerSvc:    p.LedgerSvc,
		reconciler:   p.Reconciler,
		backupSvc:    p.BackupSvc,
		recorder:     p.Recorder,
	}
}

func (s *Server) RegisterAPIRoutes() {
	api := s.engine.Group("/api/v1")

	api.POST("/orders/reconcile", s.ReconcileOrder)
	api.GET("/orders", s.ListOrders)
	api.GET("/orders/:id", s.GetOrder)
	api.DELETE("/orders/:id", s.DeleteOrder)
	api.POST("/orders/:id/advance", s.AdvanceOrder)
	api.PUT("/orders/:id/status", s.OverrideOrderStatus)
	api.PUT("/orders/:id/items", s.UpdateOrderItems)

	api.GET("/products", s.ListProducts)
	api.POST("/products", s.CreateProduct)
	api.PUT("/products/:id", s.UpdateProduct)
	api.DELETE("/products/:id", s.DeleteProduct)

	api.GET("/customers", s.ListCustomers)
	api.POST("/customers", s.CreateCustomer)
	api.PUT("/customers/:id", s.UpdateCustomer)
	api.DELETE("/customers/:id", s.DeleteCustomer)

	api.GET("/logs", s.ListActionLogs)

	api.GET("/backup/export", s.ExportBackup)
	api.POST("/backup/import", s.ImportBackup)
}

// RunHTTP starts the HTTP listener under the fx lifecycle.
func RunHTTP(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server starting", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
