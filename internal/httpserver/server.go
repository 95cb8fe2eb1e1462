// Package httpserver exposes a read-only observation API over the session
// aggregator, for harnesses that poll a live capture.
package httpserver

import (
	"context"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tinytelemetry/pagelog/internal/model"
)

const defaultRecordLimit = 200

// Server serves summary, report, and record snapshots for one aggregator.
type Server struct {
	addr      string
	reader    model.RecordReader
	server    *http.Server
	ctx       context.Context
	cancel    context.CancelFunc
	startTime time.Time
}

// NewServer creates the observation API server.
func NewServer(addr string, reader model.RecordReader) *Server {
	if addr == "" {
		addr = "127.0.0.1:3800"
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Server{
		addr:   addr,
		reader: reader,
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start begins serving HTTP requests.
func (s *Server) Start() error {
	gin.SetMode(gin.ReleaseMode)
	r := gin.New()
	r.Use(gin.Recovery())
	s.registerRoutes(r)

	s.server = &http.Server{
		Handler:           r,
		BaseContext:       func(_ net.Listener) context.Context { return s.ctx },
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
	}

	listener, err := net.Listen("tcp", s.addr)
	if err != nil {
		return err
	}

	s.startTime = time.Now()

	go s.server.Serve(listener)
	return nil
}

// Stop gracefully shuts down the HTTP server.
func (s *Server) Stop() error {
	s.cancel()
	if s.server == nil {
		return nil
	}
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	return s.server.Shutdown(ctx)
}

func (s *Server) registerRoutes(r *gin.Engine) {
	r.GET("/api/health", s.handleHealth)
	r.GET("/api/summary", s.handleSummary)
	r.GET("/api/report", s.handleReport)
	r.GET("/api/records", s.handleRecords)
}

func (s *Server) handleHealth(c *gin.Context) {
	summary := s.reader.Summary()
	c.JSON(http.StatusOK, gin.H{
		"status":        "ok",
		"uptime":        time.Since(s.startTime).String(),
		"message_count": summary.MessageCount,
	})
}

func (s *Server) handleSummary(c *gin.Context) {
	c.JSON(http.StatusOK, s.reader.Summary())
}

func (s *Server) handleReport(c *gin.Context) {
	title := c.Query("title")
	c.String(http.StatusOK, s.reader.Render(title))
}

func (s *Server) handleRecords(c *gin.Context) {
	limit := defaultRecordLimit
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "limit must be a positive integer"})
			return
		}
		limit = n
	}

	records := s.reader.Records()
	if len(records) > limit {
		// Most recent records are the interesting ones when truncating.
		records = records[len(records)-limit:]
	}
	c.JSON(http.StatusOK, gin.H{
		"records": records,
		"count":   len(records),
	})
}
