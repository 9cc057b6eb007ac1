package weather

import (
	"context"
	"errors"
	"fmt"
	"time"

	log "github.com/sirupsen/logrus"

	"weather-history/internal/geo"
)

// DefaultMaxDays is the look-back limit of a free OpenWeather account.
const DefaultMaxDays = 5

var (
	// ErrInvalidWindow is returned when the day count is outside [1, max].
	ErrInvalidWindow = errors.New("invalid day window")

	// ErrDayFetchFailed matches every *DayFetchError.
	ErrDayFetchFailed = errors.New("day fetch failed")
)

// DayFetchError reports the failure of a single day-offset.
type DayFetchError struct {
	Offset    int
	Reference time.Time
	Err       error
}

func (e *DayFetchError) Error() string {
	return fmt.Sprintf("weather data for %d day(s) back failed: %v", e.Offset, e.Err)
}

func (e *DayFetchError) Unwrap() error {
	return e.Err
}

func (e *DayFetchError) Is(target error) bool {
	return target == ErrDayFetchFailed
}

//go:generate mockgen -source=aggregator.go -destination=mock/mock_fetcher.go -package=mock

// DayFetcher retrieves the raw hourly entries around one reference instant.
type DayFetcher interface {
	FetchDay(ctx context.Context, coord geo.Coordinate, at time.Time) ([]map[string]interface{}, error)
}

// DayResult is the outcome of one day-offset: either Table or Err is set.
type DayResult struct {
	Offset    int
	Reference time.Time
	Table     *HistoryTable
	Err       error
}

func (r DayResult) OK() bool {
	return r.Err == nil
}

// Aggregator fetches one day at a time, starting with yesterday, and joins
// the days that succeeded.
type Aggregator struct {
	fetcher DayFetcher
	maxDays int
	now     func() time.Time
}

func NewAggregator(fetcher DayFetcher, maxDays int) *Aggregator {
	if maxDays <= 0 {
		maxDays = DefaultMaxDays
	}
	return &Aggregator{
		fetcher: fetcher,
		maxDays: maxDays,
		now:     time.Now,
	}
}

func (a *Aggregator) MaxDays() int {
	return a.maxDays
}

// ValidateWindow checks days is within [1, MaxDays].
func (a *Aggregator) ValidateWindow(days int) error {
	if days < 1 || days > a.maxDays {
		return fmt.Errorf("%w: %d, it should be an integer in the range 1 to %d", ErrInvalidWindow, days, a.maxDays)
	}
	return nil
}

// Attempts requests every offset from 1 to days exactly once, in order, and
// returns one result per offset. Failed days are logged and never retried.
func (a *Aggregator) Attempts(ctx context.Context, coord geo.Coordinate, days int) ([]DayResult, error) {
	if err := a.ValidateWindow(days); err != nil {
		return nil, err
	}

	now := a.now()
	results := make([]DayResult, 0, days)

	for offset := 1; offset <= days; offset++ {
		reference := time.Unix(now.AddDate(0, 0, -offset).Unix(), 0)
		result := a.fetchDay(ctx, coord, offset, reference)

		if !result.OK() {
			log.WithFields(log.Fields{
				"offset":    offset,
				"reference": reference.Format(time.RFC3339),
			}).Warn(result.Err)
		} else {
			log.WithFields(log.Fields{
				"offset": offset,
				"rows":   result.Table.Len(),
			}).Debug("Fetched day")
		}

		results = append(results, result)
	}

	return results, nil
}

func (a *Aggregator) fetchDay(ctx context.Context, coord geo.Coordinate, offset int, reference time.Time) DayResult {
	result := DayResult{Offset: offset, Reference: reference}

	hourly, err := a.fetcher.FetchDay(ctx, coord, reference)
	if err == nil {
		result.Table, err = BuildTable(hourly)
	}
	if err != nil {
		result.Table = nil
		result.Err = &DayFetchError{Offset: offset, Reference: reference, Err: err}
	}
	return result
}

// FetchHistory returns the concatenated table for the look-back window. Only
// an invalid window is an error; a window where every day failed yields an
// empty table.
func (a *Aggregator) FetchHistory(ctx context.Context, coord geo.Coordinate, days int) (*HistoryTable, error) {
	results, err := a.Attempts(ctx, coord, days)
	if err != nil {
		return nil, err
	}
	return Concat(results), nil
}

// Concat joins the tables of successful results in the order given.
func Concat(results []DayResult) *HistoryTable {
	table := NewHistoryTable()
	for _, r := range results {
		if r.OK() {
			table.Append(r.Table)
		}
	}
	return table
}
