package storage

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/tj/assert"

	"weather-history/internal/weather"
)

func newTestDatabase(t *testing.T) *Database {
	t.Helper()
	db, err := NewDatabase(filepath.Join(t.TempDir(), "archive", "history.db"))
	assert.Nil(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func ptr[T any](v T) *T { return &v }

func TestSaveSearchAndGetHistory(t *testing.T) {
	db := newTestDatabase(t)

	base := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC)
	table := &weather.HistoryTable{Records: []weather.ObservationRecord{
		{Time: base.Add(time.Hour), Temperature: ptr(281.0), WeatherMain: ptr("Rain")},
		{Time: base, Humidity: ptr(90.0)},
	}}

	search := &Search{
		Location:      "London, UK",
		Latitude:      51.71,
		Longitude:     -0.93,
		Days:          2,
		FetchedDays:   1,
		FailedOffsets: "2",
		File:          "search in 2026-10-18_09-00-00.csv",
	}
	assert.Nil(t, db.SaveSearch(search, table))
	assert.NotEqual(t, uint(0), search.ID)
	assert.Equal(t, 2, search.Rows)

	restored, err := db.GetHistory(search.ID)
	assert.Nil(t, err)
	assert.Equal(t, 2, restored.Len())

	// Row order is the order of the original table, not timestamp order.
	assert.True(t, restored.Records[0].Time.Equal(base.Add(time.Hour)))
	assert.Equal(t, 281.0, *restored.Records[0].Temperature)
	assert.Equal(t, "Rain", *restored.Records[0].WeatherMain)
	assert.Nil(t, restored.Records[0].Humidity)
	assert.Equal(t, 90.0, *restored.Records[1].Humidity)
	assert.Nil(t, restored.Records[1].Temperature)

	stored, err := db.GetSearch(search.ID)
	assert.Nil(t, err)
	assert.Equal(t, "London, UK", stored.Location)
	assert.Equal(t, "2", stored.FailedOffsets)

	inRange, err := db.GetObservationsByRange(base, base.Add(30*time.Minute))
	assert.Nil(t, err)
	assert.Len(t, inRange, 1)
}

func TestSaveSearch_EmptyTable(t *testing.T) {
	db := newTestDatabase(t)

	search := &Search{Location: "Oslo, NO", Days: 3, FailedOffsets: "1,2,3"}
	assert.Nil(t, db.SaveSearch(search, weather.NewHistoryTable()))

	restored, err := db.GetHistory(search.ID)
	assert.Nil(t, err)
	assert.Equal(t, 0, restored.Len())
}

func TestGetSearchesAndClean(t *testing.T) {
	db := newTestDatabase(t)

	for _, loc := range []string{"Paris, FR", "Rome, IT"} {
		assert.Nil(t, db.SaveSearch(&Search{Location: loc, Days: 1}, weather.NewHistoryTable()))
	}

	searches, err := db.GetSearches(10)
	assert.Nil(t, err)
	assert.Len(t, searches, 2)

	searches, err = db.GetSearches(1)
	assert.Nil(t, err)
	assert.Len(t, searches, 1)

	assert.Nil(t, db.CleanOldSearches(-time.Hour))
	searches, err = db.GetSearches(10)
	assert.Nil(t, err)
	assert.Len(t, searches, 0)
}

func TestGetObservationsByRange_MixedOffsets(t *testing.T) {
	db := newTestDatabase(t)

	plus2 := time.FixedZone("UTC+2", 2*60*60)
	minus5 := time.FixedZone("UTC-5", -5*60*60)

	// Stored in one zone, queried in another.
	at := time.Date(2026, 10, 17, 0, 0, 0, 0, time.UTC).In(minus5)
	table := &weather.HistoryTable{Records: []weather.ObservationRecord{
		{Time: at, Temperature: ptr(280.0)},
		{Time: at.Add(3 * time.Hour), Temperature: ptr(279.0)},
	}}
	assert.Nil(t, db.SaveSearch(&Search{Location: "London, UK", Days: 1}, table))

	tests := []struct {
		name     string
		from, to time.Time
		rows     int
	}{
		{"contains first row", time.Date(2026, 10, 17, 1, 0, 0, 0, plus2), time.Date(2026, 10, 17, 3, 0, 0, 0, plus2), 1},
		{"contains both rows", time.Date(2026, 10, 16, 18, 0, 0, 0, minus5), time.Date(2026, 10, 17, 6, 0, 0, 0, plus2), 2},
		{"before both rows", time.Date(2026, 10, 17, 0, 0, 0, 0, plus2), time.Date(2026, 10, 17, 1, 59, 0, 0, plus2), 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observations, err := db.GetObservationsByRange(tt.from, tt.to)
			assert.Nil(t, err)
			assert.Len(t, observations, tt.rows)
		})
	}

	observations, err := db.GetObservationsByRange(at.Add(-time.Minute), at.Add(time.Minute))
	assert.Nil(t, err)
	assert.Len(t, observations, 1)
	assert.True(t, observations[0].Timestamp.Equal(at))
}
