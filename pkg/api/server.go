package api

import (
	"fmt"
	"log"
	"net/http"

	"geo-accessor/pkg/accessor"
)

// APIServer represents the REST API server
type APIServer struct {
	accessor *accessor.Accessor
	port     int
	server   *http.Server
}

// NewAPIServer creates a new API server instance
func NewAPIServer(a *accessor.Accessor, port int) *APIServer {
	return &APIServer{
		accessor: a,
		port:     port,
	}
}

// Routes returns the request multiplexer serving every endpoint
func (s *APIServer) Routes() http.Handler {
	handler := NewAPIHandler(s.accessor)

	mux := http.NewServeMux()

	// Register routes
	mux.HandleFunc("/api/v1/geometry/describe", handler.DescribeHandler)
	mux.HandleFunc("/api/v1/accessors/{name}", handler.AccessorHandler)
	mux.HandleFunc("/api/v1/srs/{code}", handler.SpatialReferenceHandler)

	// Health check endpoint
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	return mux
}

// Start starts the REST API server
func (s *APIServer) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.Routes(),
	}

	log.Printf("Starting REST API server on port %d", s.port)
	return s.server.ListenAndServe()
}

// Stop stops the REST API server
func (s *APIServer) Stop() error {
	if s.server != nil {
		return s.server.Close()
	}
	return nil
}
