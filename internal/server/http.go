// Copyright (c) 2025 AccelByte Inc. All Rights Reserved.
// This is licensed software from AccelByte Inc, for limitations
// and restrictions contact your company contract manager.

package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/cors"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
)

// HTTPServer manages the REST API server lifecycle.
type HTTPServer struct {
	server         *http.Server
	port           int
	api            *API
	allowedOrigins []string
}

// NewHTTPServer creates a new HTTP server instance.
func NewHTTPServer(port int, api *API, allowedOrigins []string) *HTTPServer {
	return &HTTPServer{
		port:           port,
		api:            api,
		allowedOrigins: allowedOrigins,
	}
}

// Setup builds the router and wraps it with CORS and tracing.
//
// ============================================================
// DEVELOPER: HTTP middleware configuration
// ============================================================
// Request flow: otelhttp (span + propagation) → CORS → router.
// Add authentication or rate limiting by wrapping the router
// before the CORS handler.
// ============================================================
func (s *HTTPServer) Setup() error {
	if s.api == nil {
		return fmt.Errorf("http server requires an API")
	}

	s.server = &http.Server{
		Addr:              fmt.Sprintf(":%d", s.port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	return nil
}

// Handler returns the fully wrapped HTTP handler.
func (s *HTTPServer) Handler() http.Handler {
	r := mux.NewRouter()
	s.api.RegisterRoutes(r)

	c := cors.New(cors.Options{
		AllowedOrigins:   s.allowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	})

	return otelhttp.NewHandler(c.Handler(r), "learning-progress-http")
}

// Start begins serving the API on the configured port.
func (s *HTTPServer) Start(ctx context.Context) error {
	if s.server == nil {
		return fmt.Errorf("http server not set up")
	}

	go func() {
		logrus.Infof("http server listening on port %d", s.port)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logrus.Fatalf("http server failed: %v", err)
		}
	}()
	return nil
}

// Shutdown gracefully stops the HTTP server.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}

	logrus.Info("shutting down http server...")
	if err := s.server.Shutdown(ctx); err != nil {
		return err
	}
	logrus.Info("http server stopped")
	return nil
}
