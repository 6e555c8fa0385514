package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/fitdesk/coachpay/docs"
	"github.com/fitdesk/coachpay/internal/app/api/handlers"
	"github.com/fitdesk/coachpay/internal/app/jobs"
	"github.com/fitdesk/coachpay/internal/app/service/audit"
	"github.com/fitdesk/coachpay/internal/app/service/billing"
	"github.com/fitdesk/coachpay/internal/app/service/catalog"
	"github.com/fitdesk/coachpay/internal/app/service/statement"
	cfgpkg "github.com/fitdesk/coachpay/pkg/config"

	mw "github.com/fitdesk/coachpay/internal/app/api/middleware"

	metrics "github.com/fitdesk/coachpay/pkg/metrics"

	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

func newEngine() *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	// Add request tracing middleware only; request logger & access log are attached per group in registerRoutes
	r.Use(mw.TraceMiddleware())
	return r
}

func registerRoutes(r *gin.Engine, log *zap.SugaredLogger, cfg *cfgpkg.Config,
	bill *billing.Service, cat *catalog.Service, stmt *statement.Service,
	rec *audit.Recorder, runner *jobs.Runner) {
	// Prometheus metrics
	if cfg != nil && cfg.MetricsAddr != "" {
		p := metrics.NewPrometheus(metrics.NewPrometheusOptions{
			ReqCntURLLabelMappingFn: func(c *gin.Context) string {
				if fp := c.FullPath(); fp != "" {
					return fp
				}
				return c.Request.URL.Path
			},
			Logger: log,
		})
		p.SetListenAddress(cfg.MetricsAddr)
		p.Use(r)

		log.Infow("metrics started", "addr", cfg.MetricsAddr)
	}
	// Public group: request logger + access log
	pub := r.Group("/")
	pub.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware())
	handlers.RegisterHealthRoutes(pub)
	// Swagger UI
	docs.SwaggerInfo.BasePath = "/"
	pub.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Admin surface: authenticated, every mutation attributed to the actor
	admin := r.Group("/api/v1/admin")
	admin.Use(mw.RequestLoggerMiddleware(log), mw.AccessLogMiddleware(), mw.AdminAuthMiddleware(cfg))

	handlers.RegisterAdminBillingRoutes(admin, bill, runner)
	handlers.RegisterAdminCatalogRoutes(admin, cat)
	handlers.RegisterAdminPayoutRoutes(admin, stmt, runner)
	handlers.RegisterAdminAuditRoutes(admin, rec)
}

func runServer(lc fx.Lifecycle, log *zap.SugaredLogger, cfg *cfgpkg.Config, r *gin.Engine) {
	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	srv := &http.Server{Addr: addr, Handler: r, ReadHeaderTimeout: 5 * time.Second}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Infow("starting HTTP server", "addr", addr)
			go func() {
				if err := srv.ListenAndServe(); err != nil {
					log.Errorf("server error: %v", err)
					panic(err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Infow("stopping HTTP server")
			shutdownCtx, cancel := context.WithTimeout(ctx, 120*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

var Module = fx.Options(
	fx.Provide(newEngine),
	fx.Invoke(registerRoutes),
	fx.Invoke(runServer),
)
