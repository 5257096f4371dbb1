package server

import (
	"github.com/nfrund/portfolio/internal/handlers"
	"github.com/nfrund/portfolio/web"
)

// RegisterRoutes sets up the routes that belong to no module.
func (s *Server) RegisterRoutes() {
	s.E.GET("/health", handlers.Health)
	s.E.StaticFS("/static", web.Static())
}
