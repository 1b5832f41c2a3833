// Package daemon is the HTTP host for the search components. It keeps the
// search tokens in a cookie session and forwards concept and document
// searches to the backend API.
//
//	@title						Components API
//	@version					1.0
//	@description				Session search tokens, concept autocomplete and document search
//	@BasePath					/
//	@schemes					http https
//	@securityDefinitions.apikey	BearerAuth
//	@in							header
//	@name						Authorization
package daemon

import (
	"context"
	"fmt"
	"net/http"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	_ "github.com/thand-io/components/docs" // Import generated swagger docs
	"github.com/thand-io/components/internal/api"
	"github.com/thand-io/components/internal/common"
	"github.com/thand-io/components/internal/config"
	sessionManager "github.com/thand-io/components/internal/sessions"
	"github.com/thand-io/components/internal/services"
)

const (
	apiBasePath = "/api/v1"
	appName     = "components"
)

// Server is the web service wrapping the token store and the search
// services.
type Server struct {
	Config    *config.Config
	Client    api.Client
	Tokens    sessionManager.TokenStore
	Concepts  *services.ConceptsService
	Documents *services.DocumentsService
	StartTime time.Time

	TotalRequests  int64
	SearchRequests int64

	failuresMu sync.Mutex
	failures   map[string]int64

	limiter *RateLimiter
	server  *http.Server
}

// NewServer wires the services to the given backend client. The client is
// built by the caller, usually with cfg.NewAPIClient.
func NewServer(cfg *config.Config, client api.Client) *Server {

	server := &Server{
		Config:    cfg,
		Client:    client,
		Tokens:    cfg.NewTokenStore(),
		Concepts:  services.NewConceptsService(client).WithLimits(cfg.Search.ConceptLimit, cfg.Search.MinQueryLength),
		Documents: services.NewDocumentsService(client).WithLimit(cfg.Search.DocumentLimit),
		StartTime: time.Now().UTC(),
		failures:  map[string]int64{},
	}

	if size := cfg.Search.ConceptCacheSize; size > 0 {
		cache, err := services.NewConceptCache(size)
		if err != nil {
			logrus.WithError(err).Warnln("Concept cache disabled")
		} else {
			server.Concepts.WithCache(cache)
		}
	}

	limits := cfg.Server.Limits
	if limits.RequestsPerMinute > 0 {
		server.limiter = NewRateLimiter(limits.RequestsPerMinute, limits.Burst)
	}

	return server
}

func (s *Server) GetVersion() string {
	return common.GetVersion()
}

// Router builds the gin engine with every middleware and route.
func (s *Server) Router() *gin.Engine {

	router := gin.New()

	router.Use(gin.CustomRecovery(func(c *gin.Context, recovered any) {
		err, ok := recovered.(error)
		if !ok {
			err = fmt.Errorf("%v", recovered)
		}
		s.writeError(c, http.StatusInternalServerError, "Internal Server Error", err)
	}))
	router.Use(CorrelationMiddleware())
	router.Use(s.requestCounterMiddleware())
	router.Use(RequestLoggerMiddleware())

	if corsMiddleware := s.corsMiddleware(); corsMiddleware != nil {
		router.Use(corsMiddleware)
	}

	s.setupRoutes(router)

	return router
}

// Start initializes and starts the web service
func (s *Server) Start() error {

	gin.SetMode(gin.ReleaseMode)

	addr := s.Config.Server.Address()

	server := &http.Server{
		Addr:         addr,
		Handler:      s.Router(),
		ReadTimeout:  s.Config.Server.Limits.ReadTimeout,
		WriteTimeout: s.Config.Server.Limits.WriteTimeout,
		IdleTimeout:  s.Config.Server.Limits.IdleTimeout,
	}

	s.server = server

	errChan := make(chan error, 1)

	go func() {
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- err
		}
	}()

	// Wait a moment to see if the listener fails
	select {
	case err := <-errChan:
		return fmt.Errorf("failed to start server: %w", err)
	case <-time.After(100 * time.Millisecond):
		logrus.WithFields(logrus.Fields{
			"address": addr,
			"backend": s.Client.BaseURL(),
		}).Infoln("Web service started")
		return nil
	}
}

func (s *Server) Stop() {

	if s.limiter != nil {
		s.limiter.Stop()
	}

	if s.server == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := s.server.Shutdown(ctx); err != nil {
		logrus.WithError(err).Errorln("Server shutdown failed")
		return
	}

	logrus.Infoln("Server exiting")
}

// requestCounterMiddleware increments the request counter
func (s *Server) requestCounterMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		atomic.AddInt64(&s.TotalRequests, 1)
		c.Next()
	}
}

func (s *Server) setupRoutes(router *gin.Engine) {

	health := s.Config.Server.Health
	if health.Enabled {
		router.GET(health.Path, s.healthHandler)
		router.GET(health.ReadyPath, s.readyHandler)
		router.GET("/metrics", s.metricsHandler)
	}

	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	v1 := router.Group(apiBasePath)
	{
		v1.Use(sessions.Sessions(s.Config.Session.CookieName, getSessionStore(s.Config)))

		if s.limiter != nil {
			v1.Use(s.limiter.Middleware())
		}

		v1.GET("/csrf", s.getCSRFToken)
		v1.GET("/logs", s.getLogs)

		tokens := v1.Group("/tokens")
		if s.Config.Session.CSRF {
			tokens.Use(CSRFMiddleware())
		}
		{
			tokens.GET("", s.getTokens)
			tokens.POST("", s.postToken)
			tokens.PUT("", s.putTokens)
			tokens.DELETE("", s.deleteTokens)
			tokens.DELETE("/:id", s.deleteToken)
			tokens.POST("/operators/:index/toggle", s.toggleOperator)
			tokens.POST("/concepts/:id", s.postConceptToken)
		}

		v1.GET("/concepts", s.getConcepts)
		v1.GET("/documents", s.getDocuments)
		v1.GET("/documents/export.csv", s.getDocumentsExport)
	}
}
