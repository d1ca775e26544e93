package http

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"slices"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-contrib/pprof"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/turtacn/mrsa/internal/application/dto"
	"github.com/turtacn/mrsa/internal/config"
	"github.com/turtacn/mrsa/internal/interfaces/http/handlers"
	"github.com/turtacn/mrsa/internal/interfaces/http/middleware"
	"github.com/turtacn/mrsa/pkg/constants"
	mrsaerrors "github.com/turtacn/mrsa/pkg/errors"
	"github.com/turtacn/mrsa/pkg/logger"
)

// Router owns the gin engine and the HTTP server.
type Router struct {
	engine           *gin.Engine
	config           *config.Config
	logger           logger.Logger
	healthHandler    *handlers.HealthHandler
	keyHandler       *handlers.KeyHandler
	primalityHandler *handlers.PrimalityHandler
	httpMetrics      *middleware.HTTPMetrics
	gatherer         prometheus.Gatherer
	server           *http.Server
}

// NewRouter creates the router. httpMetrics and gatherer may be nil when
// metrics are disabled.
func NewRouter(
	cfg *config.Config,
	log logger.Logger,
	healthHandler *handlers.HealthHandler,
	keyHandler *handlers.KeyHandler,
	primalityHandler *handlers.PrimalityHandler,
	httpMetrics *middleware.HTTPMetrics,
	gatherer prometheus.Gatherer,
) *Router {
	if cfg.Server.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := &Router{
		engine:           gin.New(),
		config:           cfg,
		logger:           log,
		healthHandler:    healthHandler,
		keyHandler:       keyHandler,
		primalityHandler: primalityHandler,
		httpMetrics:      httpMetrics,
		gatherer:         gatherer,
	}
	r.setupRoutes()
	return r
}

// Engine exposes the gin engine, mainly for tests.
func (r *Router) Engine() *gin.Engine {
	return r.engine
}

func (r *Router) setupRoutes() {
	r.engine.Use(handlers.RecoveryMiddleware(r.logger))
	r.engine.Use(handlers.RequestIDMiddleware())
	r.engine.Use(handlers.LoggingMiddleware(r.logger))
	if r.httpMetrics != nil {
		r.engine.Use(middleware.ObservabilityMiddleware(r.httpMetrics))
	}

	corsConfig := cors.Config{
		AllowMethods:  []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowHeaders:  []string{"Origin", "Content-Type", "X-Request-ID"},
		ExposeHeaders: []string{"X-Request-ID"},
		MaxAge:        12 * time.Hour,
	}
	if origins := r.config.Server.AllowedOrigins; len(origins) == 0 || slices.Contains(origins, "*") {
		corsConfig.AllowAllOrigins = true
	} else {
		corsConfig.AllowOrigins = origins
	}
	r.engine.Use(cors.New(corsConfig))

	r.engine.GET("/health", r.healthHandler.HealthCheck)

	if r.config.Metrics.Enabled && r.gatherer != nil {
		r.engine.GET(r.config.Metrics.Path, gin.WrapH(promhttp.HandlerFor(r.gatherer, promhttp.HandlerOpts{})))
	}

	if r.config.Server.EnablePprof {
		pprof.Register(r.engine)
	}

	v1 := r.engine.Group("/v1")
	{
		keys := v1.Group("/keys")
		{
			keys.POST("", r.keyHandler.GenerateKey)
			keys.GET("", r.keyHandler.ListKeys)
			keys.GET("/:id", r.keyHandler.GetKey)
			keys.DELETE("/:id", r.keyHandler.RevokeKey)
			keys.GET("/:id/events", r.keyHandler.KeyEvents)
			keys.POST("/:id/encrypt", r.keyHandler.Encrypt)
			keys.POST("/:id/decrypt", r.keyHandler.Decrypt)
		}

		v1.GET("/primality/:n", r.primalityHandler.Check)
	}

	r.engine.NoRoute(func(c *gin.Context) {
		c.JSON(http.StatusNotFound, &dto.APIResponse{
			Error: &mrsaerrors.ErrorResponse{
				Error:            "not_found",
				ErrorDescription: "The requested resource was not found",
			},
			RequestID: c.GetString(string(constants.ContextKeyRequestID)),
			Timestamp: time.Now().Unix(),
		})
	})
}

// Start serves HTTP until ctx is canceled, then shuts down gracefully.
func (r *Router) Start(ctx context.Context) error {
	addr := fmt.Sprintf("%s:%d", r.config.Server.Host, r.config.Server.Port)
	r.server = &http.Server{
		Addr:              addr,
		Handler:           r.engine,
		ReadHeaderTimeout: 10 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info(ctx, "Starting HTTP server", logger.Fields{"address": addr})
		if err := r.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	r.logger.Info(ctx, "Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), 30*time.Second)
	defer cancel()
	return r.Stop(shutdownCtx)
}

// Stop shuts the HTTP server down.
func (r *Router) Stop(ctx context.Context) error {
	if r.server == nil {
		return nil
	}
	return r.server.Shutdown(ctx)
}
