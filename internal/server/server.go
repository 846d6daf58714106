// Package server exposes the HTTP surface: the inventory-level webhook,
// the storefront submission endpoint, and the shop registry.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/smallbiznis/backinstock/internal/config"
	"github.com/smallbiznis/backinstock/internal/observability/logger"
	restockdomain "github.com/smallbiznis/backinstock/internal/restock/domain"
	tenantdomain "github.com/smallbiznis/backinstock/internal/tenant/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

var Module = fx.Module("server",
	fx.Provide(NewEngine),
	fx.Provide(NewServer),
	fx.Invoke(func(s *Server) { s.RegisterRoutes() }),
	fx.Invoke(RunHTTP),
)

type Params struct {
	fx.In

	Cfg     config.Config
	Log     *zap.Logger
	DB      *gorm.DB
	Tenants tenantdomain.Repository
	Restock restockdomain.Service
}

type Server struct {
	cfg     config.Config
	log     *zap.Logger
	engine  *gin.Engine
	db      *gorm.DB
	tenants tenantdomain.Repository
	restock restockdomain.Service

	submissionLimiter *rateLimiter
}

func NewEngine(cfg config.Config, log *zap.Logger) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	engine := gin.New()
	engine.Use(gin.Recovery())
	engine.Use(logger.GinMiddleware(logger.MiddlewareConfig{
		SkipPaths: []string{"/healthz"},
	}))
	return engine
}

func NewServer(p Params, engine *gin.Engine) *Server {
	return &Server{
		cfg:               p.Cfg,
		log:               p.Log.Named("server"),
		engine:            engine,
		db:                p.DB,
		tenants:           p.Tenants,
		restock:           p.Restock,
		submissionLimiter: newRateLimiter(30, time.Minute),
	}
}

func (s *Server) RegisterRoutes() {
	s.engine.GET("/healthz", s.Health)

	s.engine.POST("/webhooks/inventory-levels", s.InventoryLevelWebhook)

	apps := s.engine.Group("/apps/backinstock")
	apps.POST("/requests", s.CreateNotificationRequest)

	admin := s.engine.Group("/admin")
	admin.POST("/shops", s.RegisterShop)
	admin.GET("/shops/:domain", s.GetShop)
}

// Health godoc
// @Summary Liveness probe
// @Router /healthz [get]
func (s *Server) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

func RunHTTP(lc fx.Lifecycle, cfg config.Config, log *zap.Logger, engine *gin.Engine) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Error("http server stopped", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			return srv.Shutdown(ctx)
		},
	})
}
