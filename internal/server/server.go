// Package server exposes the invoicing services as a JSON REST API under /api.
package server

import (
	"context"
	"database/sql"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/jask/invoicedesk/internal/logger"
	"github.com/jask/invoicedesk/internal/service"
)

// Services are the collaborators the handlers call into.
type Services struct {
	DB       *sql.DB
	Presets  *service.PresetService
	Clients  *service.ClientService
	Products *service.ProductService
	Invoices *service.InvoiceService
	Mail     *service.MailService
}

// NewRouter builds the gin engine with every route registered.
func NewRouter(svcs Services, log *zap.Logger) *gin.Engine {
	if log == nil {
		log = zap.NewNop()
	}
	setupValidator()
	engine := gin.New()
	engine.Use(logger.GinMiddleware(log), logger.Recovery(log))

	base := BaseHandler{log: log}
	engine.GET("/healthz", healthHandler(svcs.DB))
	engine.NoRoute(func(c *gin.Context) { base.notFound(c) })

	api := engine.Group("/api")
	(&PresetHandler{BaseHandler: base, svc: svcs.Presets}).RegisterRoutes(api)
	(&SMTPHandler{BaseHandler: base, svc: svcs.Mail}).RegisterRoutes(api)
	(&ClientHandler{BaseHandler: base, svc: svcs.Clients}).RegisterRoutes(api)
	(&ProductHandler{BaseHandler: base, svc: svcs.Products}).RegisterRoutes(api)
	(&InvoiceHandler{BaseHandler: base, svc: svcs.Invoices, mail: svcs.Mail}).RegisterRoutes(api)
	return engine
}

// Run serves handler on addr until ctx is cancelled, then shuts down gracefully.
func Run(ctx context.Context, addr string, handler http.Handler, log *zap.Logger) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
		// mail delivery and chrome rendering can be slow
		WriteTimeout: 2 * time.Minute,
		IdleTimeout:  time.Minute,
	}

	errCh := make(chan error, 1)
	go func() {
		log.Info("Server starting", zap.String("addr", addr))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	log.Info("Shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	log.Info("Server exited gracefully")
	return nil
}

func healthHandler(db *sql.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if db != nil {
			if err := db.PingContext(c.Request.Context()); err != nil {
				logger.FromGin(c, zap.NewNop()).Warn("Health check failed", zap.Error(err))
				c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unhealthy", "database": "error"})
				return
			}
		}
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	}
}
