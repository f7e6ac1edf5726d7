// Package server wires the gin router into a configured http.Server.
package server

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/Laisfaustt/ProjetoCamali/internal/application/container"
	"github.com/Laisfaustt/ProjetoCamali/internal/presentation/http/routes"
	"github.com/Laisfaustt/ProjetoCamali/pkg/config"
)

// Server owns the HTTP listener for the Camali API.
type Server struct {
	httpServer *http.Server
	container  *container.Container
}

// New builds the server around the container's route tree, applying the
// configured read/write/idle timeouts.
func New(port string, container *container.Container) *Server {
	router := routes.SetupRoutes(container)

	httpServer := &http.Server{
		Addr:         ":" + port,
		Handler:      router,
		ReadTimeout:  config.ServerReadTimeout,
		WriteTimeout: config.ServerWriteTimeout,
		IdleTimeout:  config.ServerIdleTimeout,
	}

	return &Server{
		httpServer: httpServer,
		container:  container,
	}
}

// Start blocks serving requests until the listener closes. A graceful
// shutdown is not reported as an error.
func (s *Server) Start() error {
	log.Printf("Starting HTTP server on %s", s.httpServer.Addr)

	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Stop drains in-flight requests until ctx expires.
func (s *Server) Stop(ctx context.Context) error {
	log.Println("Shutting down HTTP server...")
	return s.httpServer.Shutdown(ctx)
}
