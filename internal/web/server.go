// Package web exposes the on-demand HTTP surface: a batch trigger, a health
// probe, and recent run logs.
package web

import (
	"context"

	"github.com/gin-gonic/gin"

	"github.com/madeeas/meetingprep/internal/batch"
	"github.com/madeeas/meetingprep/internal/store"
)

// RunFunc triggers one batch pass.
// Implementations: batch.Runner.Run
type RunFunc func(ctx context.Context, force bool) (batch.Stats, error)

// LogReader reads recent run-log entries.
// Implementations: store.Store
type LogReader interface {
	RecentRunLogs(limit int) ([]store.RunLogEntry, error)
}

// Server is the prepd web server.
type Server struct {
	run    RunFunc
	logs   LogReader
	router *gin.Engine
}

// NewServer creates the web server around a batch trigger and a log reader.
func NewServer(run RunFunc, logs LogReader) *Server {
	router := gin.Default()

	s := &Server{
		run:    run,
		logs:   logs,
		router: router,
	}

	router.GET("/healthz", s.handleHealth)

	api := router.Group("/api")
	{
		api.POST("/run", s.handleRun)
		api.GET("/logs", s.handleLogs)
	}

	return s
}

// Run starts the web server.
func (s *Server) Run(addr string) error {
	return s.router.Run(addr)
}
