package server

import (
	"context"
	"net/http"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
	"github.com/mokaihq/essential-eight/internal/audit"
	auditdomain "github.com/mokaihq/essential-eight/internal/audit/domain"
	"github.com/mokaihq/essential-eight/internal/clock"
	"github.com/mokaihq/essential-eight/internal/compliance"
	compliancedomain "github.com/mokaihq/essential-eight/internal/compliance/domain"
	"github.com/mokaihq/essential-eight/internal/config"
	"github.com/mokaihq/essential-eight/internal/observability"
	obsmiddleware "github.com/mokaihq/essential-eight/internal/observability/logger"
	obsmetrics "github.com/mokaihq/essential-eight/internal/observability/metrics"
	obstracing "github.com/mokaihq/essential-eight/internal/observability/tracing"
	"github.com/mokaihq/essential-eight/internal/providers/pdf"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

var Module = fx.Module("http.server",
	audit.Module,
	compliance.Module,
	pdf.Module,
	fx.Provide(registerGin),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	return NewEngine(obsCfg, httpMetrics)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					panic(err)
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

type Server struct {
	engine        *gin.Engine
	cfg           config.Config
	genID         *snowflake.Node
	clock         clock.Clock
	auditSvc      auditdomain.Service
	complianceSvc compliancedomain.Service
	pdfProvider   pdf.Provider
}

type ServerParams struct {
	fx.In

	Gin           *gin.Engine
	Cfg           config.Config
	GenID         *snowflake.Node
	Clock         clock.Clock
	AuditSvc      auditdomain.Service
	ComplianceSvc compliancedomain.Service
	PDFProvider   pdf.Provider
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:        p.Gin,
		cfg:           p.Cfg,
		genID:         p.GenID,
		clock:         p.Clock,
		auditSvc:      p.AuditSvc,
		complianceSvc: p.ComplianceSvc,
		pdfProvider:   p.PDFProvider,
	}

	svc.registerAPIRoutes()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")

	// -------- Catalog --------
	api.GET("/catalog/controls", s.ListCatalogControls)
	api.GET("/catalog/maturity-levels", s.ListMaturityLevels)

	// -------- Organizations --------
	api.GET("/organizations", s.ListOrganizations)
	api.POST("/organizations", s.CreateOrganization)

	// -------- Controls --------
	api.GET("/controls", s.ListControls)
	api.PUT("/controls", s.UpdateControl)

	// -------- Audit trail --------
	api.GET("/audit-logs", s.ListAuditLogs)
	api.POST("/audit-logs", s.AppendAuditLog)

	// -------- Dashboard & reporting --------
	api.GET("/dashboard", s.GetDashboard)
	api.GET("/reports/executive", s.GetExecutiveReport)
	api.GET("/reports/executive/pdf", s.GetExecutiveReportPDF)
}
