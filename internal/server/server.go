package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/smallbiznis/fluxcrm/internal/analytics"
	analyticsdomain "github.com/smallbiznis/fluxcrm/internal/analytics/domain"
	"github.com/smallbiznis/fluxcrm/internal/auth"
	authdomain "github.com/smallbiznis/fluxcrm/internal/auth/domain"
	"github.com/smallbiznis/fluxcrm/internal/authorization"
	"github.com/smallbiznis/fluxcrm/internal/config"
	"github.com/smallbiznis/fluxcrm/internal/document"
	documentdomain "github.com/smallbiznis/fluxcrm/internal/document/domain"
	"github.com/smallbiznis/fluxcrm/internal/lead"
	leaddomain "github.com/smallbiznis/fluxcrm/internal/lead/domain"
	"github.com/smallbiznis/fluxcrm/internal/leadnote"
	leadnotedomain "github.com/smallbiznis/fluxcrm/internal/leadnote/domain"
	"github.com/smallbiznis/fluxcrm/internal/leadstage"
	leadstagedomain "github.com/smallbiznis/fluxcrm/internal/leadstage/domain"
	"github.com/smallbiznis/fluxcrm/internal/milestone"
	milestonedomain "github.com/smallbiznis/fluxcrm/internal/milestone/domain"
	"github.com/smallbiznis/fluxcrm/internal/observability"
	obsmiddleware "github.com/smallbiznis/fluxcrm/internal/observability/logger"
	obsmetrics "github.com/smallbiznis/fluxcrm/internal/observability/metrics"
	obstracing "github.com/smallbiznis/fluxcrm/internal/observability/tracing"
	"github.com/smallbiznis/fluxcrm/internal/organization"
	organizationdomain "github.com/smallbiznis/fluxcrm/internal/organization/domain"
	"github.com/smallbiznis/fluxcrm/internal/orgtype"
	orgtypedomain "github.com/smallbiznis/fluxcrm/internal/orgtype/domain"
	"github.com/smallbiznis/fluxcrm/internal/ratelimit"
	"github.com/smallbiznis/fluxcrm/internal/reference"
	referencedomain "github.com/smallbiznis/fluxcrm/internal/reference/domain"
	"github.com/smallbiznis/fluxcrm/internal/salesflow"
	salesflowdomain "github.com/smallbiznis/fluxcrm/internal/salesflow/domain"
	"github.com/smallbiznis/fluxcrm/internal/team"
	teamdomain "github.com/smallbiznis/fluxcrm/internal/team/domain"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(registerGin),
	authorization.Module,
	auth.Module,
	team.Module,
	orgtype.Module,
	leadstage.Module,
	organization.Module,
	lead.Module,
	milestone.Module,
	document.Module,
	leadnote.Module,
	salesflow.Module,
	analytics.Module,
	reference.Module,
	ratelimit.Module,
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, cfg config.Config) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(obsmiddleware.MiddlewareConfig{
		Debug:           obsCfg.Debug(),
		ErrorClassifier: classifyErrorForLog,
	}))
	r.Use(obstracing.GinMiddleware())
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(cors.New(corsConfig(cfg.CORSOrigins)))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))

	return r
}

func corsConfig(origins []string) cors.Config {
	cfg := cors.Config{
		AllowMethods:  []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete, http.MethodOptions},
		AllowHeaders:  []string{"Origin", "Content-Type", "Authorization", obsmiddleware.HeaderRequestID, obsmiddleware.HeaderCorrelationID},
		ExposeHeaders: []string{obsmiddleware.HeaderRequestID, obsmiddleware.HeaderCorrelationID, "Retry-After"},
		MaxAge:        12 * time.Hour,
	}
	for _, origin := range origins {
		if origin == "*" {
			cfg.AllowAllOrigins = true
			return cfg
		}
	}
	if len(origins) == 0 {
		cfg.AllowAllOrigins = true
		return cfg
	}
	cfg.AllowOrigins = origins
	return cfg
}

func registerGin(obsCfg observability.Config, httpMetrics *obsmetrics.HTTPMetrics, cfg config.Config) *gin.Engine {
	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}
	return NewEngine(obsCfg, httpMetrics, cfg)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:              cfg.HTTPAddr,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					log.Fatal("http server stopped", zap.Error(err))
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
	engine          *gin.Engine
	cfg             config.Config
	authsvc         authdomain.Service
	authzSvc        authorization.Service
	teamSvc         teamdomain.Service
	orgTypeSvc      orgtypedomain.Service
	leadStageSvc    leadstagedomain.Service
	organizationSvc organizationdomain.Service
	leadSvc         leaddomain.Service
	milestoneSvc    milestonedomain.Service
	documentSvc     documentdomain.Service
	leadNoteSvc     leadnotedomain.Service
	salesFlowSvc    salesflowdomain.Service
	analyticsSvc    analyticsdomain.Service
	refrepo         referencedomain.Repository
	loginLimiter    *ratelimit.LoginLimiter
}

type ServerParams struct {
	fx.In

	Gin             *gin.Engine
	Cfg             config.Config
	Authsvc         authdomain.Service
	AuthzSvc        authorization.Service
	TeamSvc         teamdomain.Service
	OrgTypeSvc      orgtypedomain.Service
	LeadStageSvc    leadstagedomain.Service
	OrganizationSvc organizationdomain.Service
	LeadSvc         leaddomain.Service
	MilestoneSvc    milestonedomain.Service
	DocumentSvc     documentdomain.Service
	LeadNoteSvc     leadnotedomain.Service
	SalesFlowSvc    salesflowdomain.Service
	AnalyticsSvc    analyticsdomain.Service
	Refrepo         referencedomain.Repository
	LoginLimiter    *ratelimit.LoginLimiter `optional:"true"`
}

func NewServer(p ServerParams) *Server {
	svc := &Server{
		engine:          p.Gin,
		cfg:             p.Cfg,
		authsvc:         p.Authsvc,
		authzSvc:        p.AuthzSvc,
		teamSvc:         p.TeamSvc,
		orgTypeSvc:      p.OrgTypeSvc,
		leadStageSvc:    p.LeadStageSvc,
		organizationSvc: p.OrganizationSvc,
		leadSvc:         p.LeadSvc,
		milestoneSvc:    p.MilestoneSvc,
		documentSvc:     p.DocumentSvc,
		leadNoteSvc:     p.LeadNoteSvc,
		salesFlowSvc:    p.SalesFlowSvc,
		analyticsSvc:    p.AnalyticsSvc,
		refrepo:         p.Refrepo,
		loginLimiter:    p.LoginLimiter,
	}

	svc.registerAuthRoutes()
	svc.registerAPIRoutes()
	svc.registerFallback()

	return svc
}

func (s *Server) Engine() *gin.Engine {
	return s.engine
}

func (s *Server) registerAuthRoutes() {
	auth := s.engine.Group("/api/auth")

	auth.POST("/register", s.Register)
	auth.POST("/login", s.LoginRateLimit(), s.Login)
	auth.GET("/me", s.AuthRequired(), s.Me)
}

func (s *Server) registerAPIRoutes() {
	api := s.engine.Group("/api")
	api.Use(s.AuthRequired())

	api.GET("/org-types", s.authorize(authorization.ObjectOrgType, authorization.ActionView), s.ListOrgTypes)
	api.POST("/org-types", s.authorize(authorization.ObjectOrgType, authorization.ActionCreate), s.CreateOrgType)
	api.DELETE("/org-types/:id", s.authorize(authorization.ObjectOrgType, authorization.ActionDelete), s.DeleteOrgType)

	api.GET("/organizations", s.authorize(authorization.ObjectOrganization, authorization.ActionView), s.ListOrganizations)
	api.POST("/organizations", s.authorize(authorization.ObjectOrganization, authorization.ActionCreate), s.CreateOrganization)
	api.GET("/organizations/:id", s.authorize(authorization.ObjectOrganization, authorization.ActionView), s.GetOrganizationByID)
	api.PUT("/organizations/:id", s.authorize(authorization.ObjectOrganization, authorization.ActionUpdate), s.UpdateOrganization)
	api.DELETE("/organizations/:id", s.authorize(authorization.ObjectOrganization, authorization.ActionDelete), s.DeleteOrganization)

	api.GET("/lead-stages", s.authorize(authorization.ObjectLeadStage, authorization.ActionView), s.ListLeadStages)
	api.POST("/lead-stages", s.authorize(authorization.ObjectLeadStage, authorization.ActionCreate), s.CreateLeadStage)
	api.DELETE("/lead-stages/:id", s.authorize(authorization.ObjectLeadStage, authorization.ActionDelete), s.DeleteLeadStage)

	api.GET("/leads", s.authorize(authorization.ObjectLead, authorization.ActionView), s.ListLeads)
	api.POST("/leads", s.authorize(authorization.ObjectLead, authorization.ActionCreate), s.CreateLead)
	api.GET("/leads/:id", s.authorize(authorization.ObjectLead, authorization.ActionView), s.GetLeadByID)
	api.PUT("/leads/:id", s.authorize(authorization.ObjectLead, authorization.ActionUpdate), s.UpdateLead)
	api.DELETE("/leads/:id", s.authorize(authorization.ObjectLead, authorization.ActionDelete), s.DeleteLead)

	api.GET("/milestones", s.authorize(authorization.ObjectMilestone, authorization.ActionView), s.ListMilestones)
	api.POST("/milestones", s.authorize(authorization.ObjectMilestone, authorization.ActionCreate), s.CreateMilestone)
	api.PUT("/milestones/:id", s.authorize(authorization.ObjectMilestone, authorization.ActionUpdate), s.UpdateMilestone)
	api.DELETE("/milestones/:id", s.authorize(authorization.ObjectMilestone, authorization.ActionDelete), s.DeleteMilestone)

	api.GET("/documents", s.authorize(authorization.ObjectDocument, authorization.ActionView), s.ListDocuments)
	api.POST("/documents", s.authorize(authorization.ObjectDocument, authorization.ActionCreate), s.CreateDocument)
	api.PUT("/documents/:id", s.authorize(authorization.ObjectDocument, authorization.ActionUpdate), s.UpdateDocument)
	api.DELETE("/documents/:id", s.authorize(authorization.ObjectDocument, authorization.ActionDelete), s.DeleteDocument)

	api.GET("/lead-notes", s.authorize(authorization.ObjectLeadNote, authorization.ActionView), s.ListLeadNotes)
	api.POST("/lead-notes", s.authorize(authorization.ObjectLeadNote, authorization.ActionCreate), s.CreateLeadNote)
	api.DELETE("/lead-notes/:id", s.authorize(authorization.ObjectLeadNote, authorization.ActionDelete), s.DeleteLeadNote)

	api.GET("/sales-flow", s.authorize(authorization.ObjectSalesFlow, authorization.ActionView), s.ListSalesFlow)
	api.POST("/sales-flow", s.authorize(authorization.ObjectSalesFlow, authorization.ActionCreate), s.CreateSalesFlowStep)
	api.PUT("/sales-flow/:id", s.authorize(authorization.ObjectSalesFlow, authorization.ActionUpdate), s.UpdateSalesFlowStep)
	api.DELETE("/sales-flow/:id", s.authorize(authorization.ObjectSalesFlow, authorization.ActionDelete), s.DeleteSalesFlowStep)

	api.GET("/team", s.authorize(authorization.ObjectTeam, authorization.ActionView), s.ListTeam)
	api.POST("/team/invite", s.authorize(authorization.ObjectTeam, authorization.ActionCreate), s.InviteTeamMember)
	api.PUT("/team/:id", s.authorize(authorization.ObjectTeam, authorization.ActionUpdate), s.UpdateTeamMember)
	api.DELETE("/team/:id", s.authorize(authorization.ObjectTeam, authorization.ActionDelete), s.DeleteTeamMember)

	api.GET("/analytics/dashboard", s.authorize(authorization.ObjectAnalytics, authorization.ActionView), s.GetDashboard)
	api.GET("/analytics/geography", s.authorize(authorization.ObjectAnalytics, authorization.ActionView), s.GetGeography)

	api.GET("/indian-states", s.authorize(authorization.ObjectReference, authorization.ActionView), s.ListIndianStates)
}

func (s *Server) registerFallback() {
	s.engine.NoRoute(func(c *gin.Context) {
		AbortWithError(c, ErrNotFound)
	})
}
