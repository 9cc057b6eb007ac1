package api

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	log "github.com/sirupsen/logrus"

	"weather-history/internal/collector"
	"weather-history/internal/export"
	"weather-history/internal/geo"
	"weather-history/internal/storage"
	"weather-history/internal/weather"
)

//go:generate mockgen -source=server.go -destination=mock/mock_server.go -package=mock

// Searcher runs lookups and history searches for the handlers.
type Searcher interface {
	Resolve(ctx context.Context, location string) (geo.Coordinate, error)
	Search(ctx context.Context, location string, days int) (*collector.Result, error)
	LatestResult() *collector.Result
}

// Archive reads completed searches back.
type Archive interface {
	GetSearches(limit int) ([]storage.Search, error)
	GetSearch(id uint) (*storage.Search, error)
	GetHistory(searchID uint) (*weather.HistoryTable, error)
	GetObservationsByRange(from, to time.Time) ([]storage.Observation, error)
}

type Server struct {
	router   *gin.Engine
	server   *http.Server
	searcher Searcher
	archive  Archive
	port     int
}

type ServerConfig struct {
	Port     int
	Searcher Searcher
	// Archive is optional; archive routes answer 503 without it.
	Archive Archive
}

func NewServer(cfg ServerConfig) *Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(gin.Logger())

	s := &Server{
		router:   router,
		searcher: cfg.Searcher,
		archive:  cfg.Archive,
		port:     cfg.Port,
	}

	s.setupRoutes()
	return s
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.healthHandler)

	api := s.router.Group("/api/v1")
	{
		api.GET("/coordinates", s.coordinatesHandler)
		api.GET("/history", s.historyHandler)
		api.GET("/searches", s.searchesHandler)
		api.GET("/searches/:id", s.searchHandler)
		api.GET("/searches/:id/observations", s.searchObservationsHandler)
		api.GET("/observations", s.observationsHandler)
	}
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) Start() error {
	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", s.port),
		Handler: s.router,
	}

	log.Infof("API server starting on port %d", s.port)
	return s.server.ListenAndServe()
}

func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}

// statusFor maps lookup and window errors to HTTP status codes.
func statusFor(err error) int {
	switch {
	case errors.Is(err, geo.ErrMalformedLocation), errors.Is(err, weather.ErrInvalidWindow):
		return http.StatusBadRequest
	case errors.Is(err, geo.ErrInvalidCoordinate):
		return http.StatusUnprocessableEntity
	case errors.Is(err, geo.ErrCoordinateLookupFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) healthHandler(c *gin.Context) {
	response := gin.H{
		"status":    "healthy",
		"archive":   s.archive != nil,
		"timestamp": time.Now(),
	}

	if latest := s.searcher.LatestResult(); latest != nil {
		response["last_search"] = gin.H{
			"location":       latest.Location,
			"rows":           latest.Table.Len(),
			"failed_offsets": latest.FailedOffsets,
			"searched_at":    latest.SearchedAt,
		}
	}

	c.JSON(http.StatusOK, response)
}

func (s *Server) coordinatesHandler(c *gin.Context) {
	location := c.Query("location")

	coord, err := s.searcher.Resolve(c.Request.Context(), location)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"location":  location,
		"latitude":  coord.Latitude,
		"longitude": coord.Longitude,
	})
}

func (s *Server) historyHandler(c *gin.Context) {
	location := c.Query("location")
	days, err := strconv.Atoi(c.DefaultQuery("days", "1"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'days' value"})
		return
	}

	result, err := s.searcher.Search(c.Request.Context(), location, days)
	if err != nil {
		c.JSON(statusFor(err), gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "csv" {
		s.writeCSV(c, export.FileName(result.SearchedAt), result.Table)
		return
	}

	failed := result.FailedOffsets
	if failed == nil {
		failed = []int{}
	}
	c.JSON(http.StatusOK, gin.H{
		"location":       result.Location,
		"latitude":       result.Coordinate.Latitude,
		"longitude":      result.Coordinate.Longitude,
		"days":           result.Days,
		"failed_offsets": failed,
		"columns":        weather.Columns(),
		"observations":   result.Table.Records,
	})
}

func (s *Server) writeCSV(c *gin.Context, name string, table *weather.HistoryTable) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, table); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name))
	c.Data(http.StatusOK, "text/csv; charset=utf-8", buf.Bytes())
}

func (s *Server) requireArchive(c *gin.Context) bool {
	if s.archive == nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "Archive is disabled"})
		return false
	}
	return true
}

func (s *Server) searchesHandler(c *gin.Context) {
	if !s.requireArchive(c) {
		return
	}

	limit, err := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if err != nil || limit <= 0 || limit > 1000 {
		limit = 50
	}

	searches, err := s.archive.GetSearches(limit)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, searches)
}

func searchID(c *gin.Context) (uint, bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 64)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid search id"})
		return 0, false
	}
	return uint(id), true
}

func (s *Server) searchHandler(c *gin.Context) {
	if !s.requireArchive(c) {
		return
	}
	id, ok := searchID(c)
	if !ok {
		return
	}

	search, err := s.archive.GetSearch(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Search not found"})
		return
	}
	c.JSON(http.StatusOK, search)
}

func (s *Server) searchObservationsHandler(c *gin.Context) {
	if !s.requireArchive(c) {
		return
	}
	id, ok := searchID(c)
	if !ok {
		return
	}

	search, err := s.archive.GetSearch(id)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Search not found"})
		return
	}

	table, err := s.archive.GetHistory(id)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}

	if c.Query("format") == "csv" {
		s.writeCSV(c, export.FileName(search.CreatedAt), table)
		return
	}
	c.JSON(http.StatusOK, table.Records)
}

func (s *Server) observationsHandler(c *gin.Context) {
	if !s.requireArchive(c) {
		return
	}

	from, err := time.Parse(time.RFC3339, c.Query("from"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'from' date format"})
		return
	}
	to, err := time.Parse(time.RFC3339, c.Query("to"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid 'to' date format"})
		return
	}

	observations, err := s.archive.GetObservationsByRange(from, to)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, observations)
}
