/*
 * Copyright © 2025 Suparena Software Inc., All rights reserved.
 */

package api

import (
	"net/http"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"
	"github.com/suparena/virtualstore/importer"
	"github.com/suparena/virtualstore/metrics"
	"github.com/suparena/virtualstore/service"
)

// BasePath prefixes every data route
const BasePath = "/api/virtual-datastore"

// DefaultMaxBodySize bounds request bodies when no limit is configured
const DefaultMaxBodySize int64 = 10 << 20

// Options configures a Server. Every field is optional.
type Options struct {
	Importer    *importer.Importer
	Metrics     *metrics.Metrics
	RateLimiter *RateLimiter
	Logger      logrus.FieldLogger
	MaxBodySize int64
}

// Server exposes the service over HTTP
type Server struct {
	svc      *service.Service
	importer *importer.Importer
	metrics  *metrics.Metrics
	limiter  *RateLimiter
	logger   logrus.FieldLogger
	maxBody  int64
}

// NewServer creates a Server for svc
func NewServer(svc *service.Service, opts Options) *Server {
	s := &Server{
		svc:      svc,
		importer: opts.Importer,
		metrics:  opts.Metrics,
		limiter:  opts.RateLimiter,
		logger:   opts.Logger,
		maxBody:  opts.MaxBodySize,
	}
	if s.logger == nil {
		s.logger = logrus.StandardLogger()
	}
	if s.maxBody <= 0 {
		s.maxBody = DefaultMaxBodySize
	}
	if s.importer == nil {
		s.importer = importer.New(svc, importer.WithLogger(s.logger), importer.WithMaxBodySize(s.maxBody))
	}
	return s
}

// Router builds the route table with logging, metrics and rate limiting
// applied in that order.
func (s *Server) Router() *mux.Router {
	r := mux.NewRouter()
	r.Use(LoggingMiddleware(s.logger))
	if s.metrics != nil {
		r.Use(MetricsMiddleware(s.metrics))
		r.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}
	r.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix(BasePath).Subrouter()
	if s.limiter != nil {
		api.Use(s.limiter.Handler)
	}

	api.HandleFunc("/registry/statistics", s.handleRegistryStatistics).Methods(http.MethodGet)

	api.HandleFunc("/stores", s.handleCreateStore).Methods(http.MethodPost)
	api.HandleFunc("/stores", s.handleListStores).Methods(http.MethodGet)
	api.HandleFunc("/stores/{store}", s.handleDeleteStore).Methods(http.MethodDelete)
	api.HandleFunc("/stores/{store}/statistics", s.handleStatistics).Methods(http.MethodGet)
	api.HandleFunc("/stores/{store}/aggregate", s.handleAggregate).Methods(http.MethodPost)

	api.HandleFunc("/stores/{store}/entities", s.handleRegisterDefinition).Methods(http.MethodPost)
	api.HandleFunc("/stores/{store}/entities", s.handleListDefinitions).Methods(http.MethodGet)
	api.HandleFunc("/stores/{store}/entities/{entity}", s.handleDeleteDefinition).Methods(http.MethodDelete)
	api.HandleFunc("/stores/{store}/entities/{entity}/definition", s.handleGetDefinition).Methods(http.MethodGet)

	api.HandleFunc("/stores/{store}/entities/{entity}/data", s.handleCreateData).Methods(http.MethodPost)
	api.HandleFunc("/stores/{store}/entities/{entity}/data", s.handleListData).Methods(http.MethodGet)
	api.HandleFunc("/stores/{store}/entities/{entity}/data/{id}", s.handleGetData).Methods(http.MethodGet)
	api.HandleFunc("/stores/{store}/entities/{entity}/data/{id}", s.handleUpdateData).Methods(http.MethodPut)
	api.HandleFunc("/stores/{store}/entities/{entity}/data/{id}", s.handleDeleteData).Methods(http.MethodDelete)
	api.HandleFunc("/stores/{store}/entities/{entity}/query", s.handleQuery).Methods(http.MethodPost)

	api.HandleFunc("/stores/{store}/entities/{entity}/import/json", s.handleImportJSON).Methods(http.MethodPost)
	api.HandleFunc("/stores/{store}/entities/{entity}/import/url", s.handleImportURL).Methods(http.MethodPost)
	api.HandleFunc("/stores/{store}/entities/{entity}/import/dynamodb", s.handleImportDynamoDB).Methods(http.MethodPost)

	r.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, ErrorResponse{Error: "route not found"})
	})
	r.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, ErrorResponse{Error: "method not allowed"})
	})
	return r
}
