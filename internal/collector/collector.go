package collector

import (
	"context"
	"strconv"
	"strings"
	"sync"
	"time"

	log "github.com/sirupsen/logrus"

	"weather-history/internal/export"
	"weather-history/internal/geo"
	"weather-history/internal/mqtt"
	"weather-history/internal/storage"
	"weather-history/internal/weather"
)

type CoordinateResolver interface {
	Resolve(ctx context.Context, location string) (geo.Coordinate, error)
}

// Result describes one completed search.
type Result struct {
	Location      string
	Coordinate    geo.Coordinate
	Days          int
	Table         *weather.HistoryTable
	Attempts      []weather.DayResult
	FailedOffsets []int
	File          string
	SearchID      uint
	SearchedAt    time.Time
}

// FetchedDays is the number of offsets that produced a table.
func (r *Result) FetchedDays() int {
	return r.Days - len(r.FailedOffsets)
}

type Collector struct {
	resolver   CoordinateResolver
	aggregator *weather.Aggregator
	db         *storage.Database
	publisher  *mqtt.Publisher
	outputDir  string
	exportCSV  bool
	now        func() time.Time

	mu     sync.RWMutex
	latest *Result
}

type CollectorConfig struct {
	Resolver   CoordinateResolver
	Aggregator *weather.Aggregator
	Database   *storage.Database
	Publisher  *mqtt.Publisher
	OutputDir  string
	ExportCSV  bool
}

func NewCollector(cfg CollectorConfig) *Collector {
	return &Collector{
		resolver:   cfg.Resolver,
		aggregator: cfg.Aggregator,
		db:         cfg.Database,
		publisher:  cfg.Publisher,
		outputDir:  cfg.OutputDir,
		exportCSV:  cfg.ExportCSV,
		now:        time.Now,
	}
}

func (c *Collector) MaxDays() int {
	return c.aggregator.MaxDays()
}

func (c *Collector) ValidateWindow(days int) error {
	return c.aggregator.ValidateWindow(days)
}

func (c *Collector) Resolve(ctx context.Context, location string) (geo.Coordinate, error) {
	return c.resolver.Resolve(ctx, location)
}

// Search validates the window, resolves location and fetches its history.
func (c *Collector) Search(ctx context.Context, location string, days int) (*Result, error) {
	if err := c.ValidateWindow(days); err != nil {
		return nil, err
	}

	coord, err := c.Resolve(ctx, location)
	if err != nil {
		return nil, err
	}

	return c.Fetch(ctx, location, coord, days)
}

// Fetch collects the history of an already resolved location. The table is
// written to CSV when export is enabled, then archived and published when
// those sinks are configured. The file is stamped with the time the fetch
// started. Archive and publish failures are logged only.
func (c *Collector) Fetch(ctx context.Context, location string, coord geo.Coordinate, days int) (*Result, error) {
	searchedAt := c.now()

	attempts, err := c.aggregator.Attempts(ctx, coord, days)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Location:   location,
		Coordinate: coord,
		Days:       days,
		Table:      weather.Concat(attempts),
		Attempts:   attempts,
		SearchedAt: searchedAt,
	}
	for _, a := range attempts {
		if !a.OK() {
			result.FailedOffsets = append(result.FailedOffsets, a.Offset)
		}
	}

	if c.exportCSV {
		path, err := export.WriteFile(c.outputDir, result.SearchedAt, result.Table)
		if err != nil {
			return nil, err
		}
		result.File = path
	}

	c.archive(result)
	c.publish(result)

	c.mu.Lock()
	c.latest = result
	c.mu.Unlock()

	log.WithFields(log.Fields{
		"location": location,
		"rows":     result.Table.Len(),
		"failed":   len(result.FailedOffsets),
	}).Info("Search complete")

	return result, nil
}

func (c *Collector) archive(result *Result) {
	if c.db == nil {
		return
	}

	search := &storage.Search{
		Location:      result.Location,
		Latitude:      result.Coordinate.Latitude,
		Longitude:     result.Coordinate.Longitude,
		Days:          result.Days,
		FetchedDays:   result.FetchedDays(),
		FailedOffsets: joinOffsets(result.FailedOffsets),
		File:          result.File,
	}
	if err := c.db.SaveSearch(search, result.Table); err != nil {
		log.WithField("location", result.Location).WithError(err).Warn("Error archiving search")
		return
	}
	result.SearchID = search.ID
}

func (c *Collector) publish(result *Result) {
	if c.publisher == nil {
		return
	}

	summary := mqtt.SearchSummary{
		SearchID:      result.SearchID,
		Location:      result.Location,
		Latitude:      result.Coordinate.Latitude,
		Longitude:     result.Coordinate.Longitude,
		Days:          result.Days,
		FetchedDays:   result.FetchedDays(),
		FailedOffsets: result.FailedOffsets,
		Rows:          result.Table.Len(),
		File:          result.File,
		SearchedAt:    result.SearchedAt,
	}
	if err := c.publisher.PublishSearch(summary, result.Table); err != nil {
		log.WithField("location", result.Location).WithError(err).Warn("Error publishing to MQTT")
	}
}

func (c *Collector) LatestResult() *Result {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.latest
}

func (c *Collector) Stop() {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.publisher != nil {
		c.publisher.Close()
	}
	if c.db != nil {
		c.db.Close()
	}
}

func joinOffsets(offsets []int) string {
	parts := make([]string, len(offsets))
	for i, o := range offsets {
		parts[i] = strconv.Itoa(o)
	}
	return strings.Join(parts, ",")
}
