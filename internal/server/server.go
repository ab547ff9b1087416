package server

import (
	"context"
	"net/http"
	"net/url"
	"strings"
	"sync/atomic"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/shinyyama/social-inbox/internal/ai"
	"github.com/shinyyama/social-inbox/internal/cache"
	"github.com/shinyyama/social-inbox/internal/events"
	"github.com/shinyyama/social-inbox/internal/handler"
	"github.com/shinyyama/social-inbox/internal/metrics"
	appmw "github.com/shinyyama/social-inbox/internal/middleware"
	"github.com/shinyyama/social-inbox/internal/repository"
	"github.com/shinyyama/social-inbox/internal/service"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Options struct {
	Logger       *zap.Logger
	Registry     *prometheus.Registry
	Drafter      ai.DraftGenerator
	Publisher    events.Publisher
	Cache        cache.JSONCache
	AnalyticsTTL time.Duration
	// Auth verifies firebase tokens. When nil, callers identify themselves
	// with the X-User-ID header, which is only acceptable in development.
	Auth *appmw.AuthMiddleware
	// Identities fills the email of a profile that was never saved.
	Identities service.IdentityLookup
	GitSHA     string
	BuildAt    string
}

type Server struct {
	e         *echo.Echo
	messages  repository.MessageRepository
	accounts  repository.AccountRepository
	aiConfigs repository.AIConfigRepository
	analytics repository.AnalyticsRepository
	profiles  repository.ProfileRepository
	dbReady   atomic.Bool
}

// New builds the server without a database so it can start answering health
// checks immediately; SetDB wires the connection in once it is available.
func New(db *gorm.DB, opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}
	if opts.Registry == nil {
		opts.Registry = prometheus.NewRegistry()
	}

	e := echo.New()
	e.HideBanner = true
	e.Use(middleware.Recover())
	e.Use(appmw.RequestID())
	e.Use(middleware.Logger())
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete, http.MethodOptions},
		AllowHeaders:     []string{"Content-Type", "Authorization", appmw.UserIDHeader, echo.HeaderXRequestID},
		ExposeHeaders:    []string{echo.HeaderXRequestID},
		AllowCredentials: true,
		AllowOriginFunc:  allowOrigin,
	}))

	s := &Server{
		e:         e,
		messages:  repository.NewMessageRepository(db),
		accounts:  repository.NewAccountRepository(db),
		aiConfigs: repository.NewAIConfigRepository(db),
		analytics: repository.NewAnalyticsRepository(db),
		profiles:  repository.NewProfileRepository(db),
	}
	s.dbReady.Store(db != nil)

	inboxSvc := service.NewInboxService(service.InboxDeps{
		Messages:  s.messages,
		AIConfigs: s.aiConfigs,
		Drafter:   opts.Drafter,
		Publisher: opts.Publisher,
		Metrics:   metrics.NewInbox(opts.Registry),
		Logger:    opts.Logger.Named("inbox"),
	})
	inboxHandler := handler.NewInboxHandler(inboxSvc)
	accountHandler := handler.NewAccountHandler(service.NewAccountService(s.accounts))
	aiConfigHandler := handler.NewAIConfigHandler(service.NewAIConfigService(s.aiConfigs))
	analyticsHandler := handler.NewAnalyticsHandler(service.NewAnalyticsService(
		s.analytics, s.accounts, opts.Cache, opts.AnalyticsTTL, opts.Logger.Named("analytics"),
	))
	profileHandler := handler.NewProfileHandler(service.NewProfileService(
		s.profiles, opts.Identities, opts.Logger.Named("profile"),
	))

	e.GET("/healthz", func(c echo.Context) error {
		return c.JSON(http.StatusOK, map[string]interface{}{
			"ok":         true,
			"db_ready":   s.dbReady.Load(),
			"git_sha":    opts.GitSHA,
			"build_time": opts.BuildAt,
		})
	})
	e.GET("/metrics", echo.WrapHandler(metrics.Handler(opts.Registry)))

	var requireUser echo.MiddlewareFunc = appmw.DevUser
	if opts.Auth != nil {
		requireUser = opts.Auth.RequireAuth
	}
	api := e.Group("/api", requireUser)
	api.GET("/messages", inboxHandler.List)
	api.POST("/messages/reconcile", inboxHandler.Reconcile)
	api.POST("/messages/:id/select", inboxHandler.Select)
	api.GET("/messages/:id/replies", inboxHandler.ListReplies)
	api.POST("/messages/:id/replies", inboxHandler.Reply)
	api.POST("/messages/:id/draft", inboxHandler.Draft)
	api.GET("/accounts", accountHandler.List)
	api.POST("/accounts/sync", accountHandler.Sync)
	api.PATCH("/accounts/:id", accountHandler.Update)
	api.DELETE("/accounts/:id", accountHandler.Delete)
	api.GET("/ai-config", aiConfigHandler.Get)
	api.PUT("/ai-config", aiConfigHandler.Put)
	api.GET("/analytics", analyticsHandler.Summary)
	api.GET("/profile", profileHandler.Get)
	api.PUT("/profile", profileHandler.Put)

	return s
}

func allowOrigin(origin string) (bool, error) {
	low := strings.ToLower(origin)
	if strings.HasPrefix(low, "http://localhost:") || strings.HasPrefix(low, "http://127.0.0.1:") ||
		strings.HasPrefix(low, "https://localhost:") || strings.HasPrefix(low, "https://127.0.0.1:") {
		return true, nil
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false, nil
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return false, nil
	}
	if strings.HasSuffix(u.Hostname(), "vercel.app") {
		return true, nil
	}
	return false, nil
}

func (s *Server) Start(addr string) error {
	return s.e.Start(addr)
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}

func (s *Server) Handler() http.Handler {
	return s.e
}

func (s *Server) SetDB(db *gorm.DB) {
	s.messages.SetDB(db)
	s.accounts.SetDB(db)
	s.aiConfigs.SetDB(db)
	s.analytics.SetDB(db)
	s.profiles.SetDB(db)
	s.dbReady.Store(db != nil)
}
