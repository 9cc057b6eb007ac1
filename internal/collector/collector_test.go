package collector

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/golang/mock/gomock"
	"github.com/tj/assert"

	"weather-history/internal/export"
	"weather-history/internal/geo"
	"weather-history/internal/mqtt"
	"weather-history/internal/storage"
	"weather-history/internal/weather"
	mock "weather-history/internal/weather/mock"
)

var (
	london   = geo.Coordinate{Latitude: 51.5072, Longitude: -0.1275}
	searched = time.Date(2026, 10, 18, 9, 0, 0, 0, time.Local)
)

type fakeResolver struct {
	coord geo.Coordinate
	err   error
	calls int
}

func (f *fakeResolver) Resolve(ctx context.Context, location string) (geo.Coordinate, error) {
	f.calls++
	return f.coord, f.err
}

func hour(dt int64, temp float64) map[string]interface{} {
	return map[string]interface{}{"dt": float64(dt), "temp": temp}
}

func newTestCollector(t *testing.T, resolver CoordinateResolver, fetcher weather.DayFetcher, db *storage.Database) *Collector {
	t.Helper()
	publisher, err := mqtt.NewPublisher(mqtt.PublisherConfig{Enabled: false})
	assert.Nil(t, err)

	c := NewCollector(CollectorConfig{
		Resolver:   resolver,
		Aggregator: weather.NewAggregator(fetcher, 5),
		Database:   db,
		Publisher:  publisher,
		OutputDir:  t.TempDir(),
		ExportCSV:  true,
	})
	c.now = func() time.Time { return searched }
	return c
}

func TestSearch(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockDayFetcher(ctrl)

	gomock.InOrder(
		fetcher.EXPECT().FetchDay(gomock.Any(), london, gomock.Any()).
			Return([]map[string]interface{}{hour(1760000000, 280), hour(1760003600, 281)}, nil),
		fetcher.EXPECT().FetchDay(gomock.Any(), london, gomock.Any()).
			Return(nil, errors.New("openweather bad status: 401 Unauthorized")),
		fetcher.EXPECT().FetchDay(gomock.Any(), london, gomock.Any()).
			Return([]map[string]interface{}{hour(1759820000, 275)}, nil),
	)

	db, err := storage.NewDatabase(filepath.Join(t.TempDir(), "history.db"))
	assert.Nil(t, err)

	resolver := &fakeResolver{coord: london}
	c := newTestCollector(t, resolver, fetcher, db)
	defer c.Stop()

	result, err := c.Search(context.Background(), "London, UK", 3)
	assert.Nil(t, err)

	assert.Equal(t, 3, result.Table.Len())
	assert.Equal(t, []int{2}, result.FailedOffsets)
	assert.Equal(t, 2, result.FetchedDays())
	assert.Len(t, result.Attempts, 3)
	assert.Equal(t, "search in 2026-10-18_09-00-00.csv", filepath.Base(result.File))
	assert.NotEqual(t, uint(0), result.SearchID)
	assert.Equal(t, result, c.LatestResult())

	written, err := export.ReadFile(result.File)
	assert.Nil(t, err)
	assert.Equal(t, 3, written.Len())

	archived, err := db.GetSearch(result.SearchID)
	assert.Nil(t, err)
	assert.Equal(t, "2", archived.FailedOffsets)
	assert.Equal(t, 3, archived.Rows)
}

func TestSearch_InvalidWindowSkipsLookup(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockDayFetcher(ctrl)

	resolver := &fakeResolver{coord: london}
	c := newTestCollector(t, resolver, fetcher, nil)

	for _, days := range []int{0, 6} {
		_, err := c.Search(context.Background(), "London, UK", days)
		assert.True(t, errors.Is(err, weather.ErrInvalidWindow))
	}
	assert.Equal(t, 0, resolver.calls)
	assert.Nil(t, c.LatestResult())
}

func TestSearch_ResolveError(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockDayFetcher(ctrl)

	resolver := &fakeResolver{err: geo.ErrInvalidCoordinate}
	c := newTestCollector(t, resolver, fetcher, nil)

	_, err := c.Search(context.Background(), "Atlantis, XX", 2)
	assert.True(t, errors.Is(err, geo.ErrInvalidCoordinate))
}

func TestFetch_AllDaysFailStillWritesFile(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockDayFetcher(ctrl)
	fetcher.EXPECT().FetchDay(gomock.Any(), london, gomock.Any()).
		Return(nil, errors.New("timeout")).Times(2)

	c := newTestCollector(t, &fakeResolver{}, fetcher, nil)

	result, err := c.Fetch(context.Background(), "London, UK", london, 2)
	assert.Nil(t, err)
	assert.Equal(t, 0, result.Table.Len())
	assert.Equal(t, []int{1, 2}, result.FailedOffsets)
	assert.Equal(t, uint(0), result.SearchID)

	written, err := export.ReadFile(result.File)
	assert.Nil(t, err)
	assert.Equal(t, 0, written.Len())
}

func TestJoinOffsets(t *testing.T) {
	assert.Equal(t, "", joinOffsets(nil))
	assert.Equal(t, "1,3,5", joinOffsets([]int{1, 3, 5}))
}

func TestFetch_StampsFileWithStartTime(t *testing.T) {
	ctrl := gomock.NewController(t)
	fetcher := mock.NewMockDayFetcher(ctrl)

	clock := searched
	fetcher.EXPECT().FetchDay(gomock.Any(), london, gomock.Any()).
		DoAndReturn(func(ctx context.Context, coord geo.Coordinate, at time.Time) ([]map[string]interface{}, error) {
			clock = clock.Add(90 * time.Second)
			return []map[string]interface{}{hour(1760000000, 280)}, nil
		})

	c := newTestCollector(t, &fakeResolver{}, fetcher, nil)
	c.now = func() time.Time { return clock }

	result, err := c.Fetch(context.Background(), "London, UK", london, 1)
	assert.Nil(t, err)
	assert.True(t, result.SearchedAt.Equal(searched))
	assert.Equal(t, "search in 2026-10-18_09-00-00.csv", filepath.Base(result.File))
}
