// Package server exposes the link search over HTTP.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"chatlinks/internal/domain"
	"chatlinks/internal/storage"
)

// MessageSource loads the messages of a named archive.
type MessageSource interface {
	LoadMessages(ctx context.Context, archive string) ([]domain.Message, error)
}

// ArchiveLister is implemented by sources able to enumerate their archives.
type ArchiveLister interface {
	ListArchives(ctx context.Context) ([]storage.ArchiveInfo, error)
}

// Options configures a Server.
type Options struct {
	Addr           string
	AllowedOrigin  string
	DefaultArchive string
}

type Server struct {
	router  *mux.Router
	handler http.Handler
	log     logrus.FieldLogger
	source  MessageSource
	opts    Options
	server  *http.Server
}

func New(source MessageSource, opts Options, logger logrus.FieldLogger) *Server {
	s := &Server{
		router: mux.NewRouter(),
		log:    logger.WithField("component", "http"),
		source: source,
		opts:   opts,
	}
	s.setupRoutes()

	// A panicking handler answers 500 instead of dropping the connection.
	s.handler = handlers.RecoveryHandler(
		handlers.RecoveryLogger(s.log),
		handlers.PrintRecoveryStack(false),
	)(s.router)

	s.server = &http.Server{
		Addr:         opts.Addr,
		Handler:      s.handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler, routes and middleware included.
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) setupRoutes() {
	s.router.Use(s.logRequests)
	// An empty origin list would let every origin in.
	if s.opts.AllowedOrigin != "" {
		s.router.Use(handlers.CORS(
			handlers.AllowedOrigins([]string{s.opts.AllowedOrigin}),
			handlers.AllowedMethods([]string{http.MethodGet, http.MethodOptions}),
			handlers.AllowedHeaders([]string{"Authorization", "Accept", "Content-Type"}),
			handlers.MaxAge(3600),
			handlers.OptionStatusCode(http.StatusNoContent),
		))
	}

	s.router.HandleFunc("/health", s.handleHealth()).Methods(http.MethodGet, http.MethodOptions)
	s.router.HandleFunc("/archives", s.handleArchives()).Methods(http.MethodGet, http.MethodOptions)

	search := s.router.PathPrefix("/search").Subrouter()
	search.HandleFunc("", s.handleSearch()).Methods(http.MethodGet, http.MethodOptions)
	search.HandleFunc("/all", s.handleSearch()).Methods(http.MethodGet, http.MethodOptions)
	search.HandleFunc("/site/{site}", s.handleSearch()).Methods(http.MethodGet, http.MethodOptions)
	search.HandleFunc("/sender/{sender}", s.handleSearch()).Methods(http.MethodGet, http.MethodOptions)
	search.HandleFunc("/site/{site}/sender/{sender}", s.handleSearch()).Methods(http.MethodGet, http.MethodOptions)
}

// Start listens on the configured address and blocks until the server stops.
// It returns nil after Shutdown, even when Shutdown ran first.
func (s *Server) Start() error {
	s.log.WithField("addr", s.opts.Addr).Info("Starting server")
	if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}
