package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-pkgz/lgr"
	"github.com/go-pkgz/rest"
	"github.com/go-pkgz/rest/logger"
	"github.com/go-pkgz/routegroup"

	"github.com/umputun/newsbeat/pkg/scheduler"
)

//go:generate moq -out mocks/config.go -pkg mocks -skip-ensure -fmt goimports . ConfigProvider
//go:generate moq -out mocks/pinger.go -pkg mocks -skip-ensure -fmt goimports . Pinger
//go:generate moq -out mocks/scheduler.go -pkg mocks -skip-ensure -fmt goimports . Scheduler

// Server represents HTTP server instance
type Server struct {
	config    ConfigProvider
	db        Pinger
	cache     Pinger
	scheduler Scheduler
	version   string
	debug     bool

	lock       sync.Mutex
	httpServer *http.Server
	router     *routegroup.Bundle
}

// Pinger checks a dependency is reachable
type Pinger interface {
	Ping(ctx context.Context) error
}

// Scheduler reports ingestion progress
type Scheduler interface {
	Status() scheduler.Status
}

// ConfigProvider provides server configuration
type ConfigProvider interface {
	GetServerConfig() (listen string, timeout time.Duration)
}

// Params for server
type Params struct {
	Config    ConfigProvider
	DB        Pinger
	Cache     Pinger // optional, nil when cache invalidation is disabled
	Scheduler Scheduler
	Version   string
	Debug     bool
}

// status response of GET /api/v1/status
type status struct {
	Status  string           `json:"status"`
	Version string           `json:"version"`
	Time    time.Time        `json:"time"`
	DB      string           `json:"db"`
	Cache   string           `json:"cache"`
	Ingest  scheduler.Status `json:"ingest"`
}

// New initializes a new server instance
func New(params Params) *Server {
	s := &Server{
		config:    params.Config,
		db:        params.DB,
		cache:     params.Cache,
		scheduler: params.Scheduler,
		version:   params.Version,
		debug:     params.Debug,
		router:    routegroup.New(http.NewServeMux()),
	}

	s.setupMiddleware()
	s.setupRoutes()

	return s
}

// Run starts the HTTP server and handles graceful shutdown
func (s *Server) Run(ctx context.Context) error {
	listen, timeout := s.config.GetServerConfig()
	log.Printf("[INFO] starting server on %s", listen)

	s.lock.Lock()
	s.httpServer = &http.Server{
		Addr:              listen,
		Handler:           s.router,
		ReadHeaderTimeout: timeout,
		ReadTimeout:       timeout,
		WriteTimeout:      timeout,
	}
	s.lock.Unlock()

	go func() {
		<-ctx.Done()
		log.Printf("[INFO] shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			log.Printf("[WARN] server shutdown error: %v", err)
		}
	}()

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server error: %w", err)
	}

	return nil
}

// setupMiddleware configures standard middleware for the server
func (s *Server) setupMiddleware() {
	s.router.Use(rest.AppInfo("newsbeat", "umputun", s.version))
	s.router.Use(rest.Ping)

	if s.debug {
		s.router.Use(logger.New(logger.Log(lgr.Default()), logger.Prefix("[DEBUG]")).Handler)
	}

	s.router.Use(rest.Recoverer(lgr.Default()))
	s.router.Use(rest.Throttle(100))
	s.router.Use(rest.SizeLimit(64 * 1024))
}

// setupRoutes configures application routes
func (s *Server) setupRoutes() {
	s.router.Mount("/api/v1").Route(func(r *routegroup.Bundle) {
		r.HandleFunc("GET /status", s.statusHandler)
	})
}

// statusHandler returns last ingestion results and health of dependencies.
// Responds with 503 when the database is not reachable.
func (s *Server) statusHandler(w http.ResponseWriter, r *http.Request) {
	ctx, cancel := context.WithTimeout(r.Context(), 2*time.Second)
	defer cancel()

	resp := status{Status: "ok", Version: s.version, Time: time.Now().UTC(), DB: "ok", Cache: "disabled"}
	code := http.StatusOK

	if err := s.db.Ping(ctx); err != nil {
		lgr.Printf("[WARN] status, database ping failed: %v", err)
		resp.Status, resp.DB, code = "error", "error", http.StatusServiceUnavailable
	}
	if s.cache != nil {
		resp.Cache = "ok"
		if err := s.cache.Ping(ctx); err != nil {
			lgr.Printf("[WARN] status, cache ping failed: %v", err)
			resp.Cache = "error"
			if code == http.StatusOK {
				resp.Status = "degraded"
			}
		}
	}
	if s.scheduler != nil {
		resp.Ingest = s.scheduler.Status()
	}

	RenderJSON(w, r, code, resp)
}

// RenderJSON sends JSON response
func RenderJSON(w http.ResponseWriter, _ *http.Request, code int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			log.Printf("[ERROR] can't encode response to JSON: %v", err)
		}
	}
}
