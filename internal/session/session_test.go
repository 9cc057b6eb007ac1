package session

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/tj/assert"

	"weather-history/internal/collector"
	"weather-history/internal/geo"
	"weather-history/internal/weather"
)

type fakeSearcher struct {
	resolveErr error
	fetchErr   error
	failed     []int
	fetched    []int
}

func (f *fakeSearcher) MaxDays() int { return 5 }

func (f *fakeSearcher) ValidateWindow(days int) error {
	if days < 1 || days > 5 {
		return fmt.Errorf("%w: %d", weather.ErrInvalidWindow, days)
	}
	return nil
}

func (f *fakeSearcher) Resolve(ctx context.Context, location string) (geo.Coordinate, error) {
	return geo.Coordinate{Latitude: 51.5, Longitude: -0.12}, f.resolveErr
}

func (f *fakeSearcher) Fetch(ctx context.Context, location string, coord geo.Coordinate, days int) (*collector.Result, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	f.fetched = append(f.fetched, days)
	return &collector.Result{
		Location:      location,
		Days:          days,
		FailedOffsets: f.failed,
		File:          "search in 2026-10-18_09-00-00.csv",
	}, nil
}

func run(t *testing.T, searcher *fakeSearcher, input string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	err := New(searcher, strings.NewReader(input), &out).Run(context.Background())
	return out.String(), err
}

func TestRun(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		fetched  []int
		contains []string
	}{
		{
			name:     "single search then quit",
			input:    "London, UK\n3\nq\n",
			fetched:  []int{3},
			contains: []string{"previous 5 days at most", "Data write to  search in 2026-10-18_09-00-00.csv", "Goodbye..."},
		},
		{
			name:     "continue runs another search",
			input:    "London, UK\n1\nc\nParis, FR\n5\nq\n",
			fetched:  []int{1, 5},
			contains: []string{"Once again...", "Goodbye..."},
		},
		{
			name:     "window out of range",
			input:    "London, UK\n6\nq\n",
			contains: []string{"Invalid timedelta", "Goodbye..."},
		},
		{
			name:     "window not a number then continue",
			input:    "London, UK\nfive\nc\nLondon, UK\n2\nq\n",
			fetched:  []int{2},
			contains: []string{"Invalid timedelta", "Once again..."},
		},
		{
			name:     "unknown option exits",
			input:    "London, UK\n2\nx\n",
			fetched:  []int{2},
			contains: []string{"Invalid input, exit..."},
		},
		{
			name:    "input ends",
			input:   "London, UK\n",
			fetched: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher := &fakeSearcher{}
			out, err := run(t, searcher, tt.input)
			assert.Nil(t, err)
			assert.Equal(t, tt.fetched, searcher.fetched)
			for _, s := range tt.contains {
				assert.Contains(t, out, s)
			}
		})
	}
}

func TestRun_ReportsFailedDays(t *testing.T) {
	out, err := run(t, &fakeSearcher{failed: []int{2, 4}}, "London, UK\n4\nq\n")
	assert.Nil(t, err)
	assert.Contains(t, out, "previous 2 day(s) failed.")
	assert.Contains(t, out, "previous 4 day(s) failed.")
}

func TestRun_InvalidCoordinateEndsSession(t *testing.T) {
	searcher := &fakeSearcher{resolveErr: fmt.Errorf("%w: wrong latitude", geo.ErrInvalidCoordinate)}
	_, err := run(t, searcher, "Nowhere, XX\n3\nq\n")
	assert.True(t, errors.Is(err, geo.ErrInvalidCoordinate))
	assert.Nil(t, searcher.fetched)
}

func TestRun_LookupFailureOffersRetry(t *testing.T) {
	searcher := &fakeSearcher{resolveErr: geo.ErrCoordinateLookupFailed}
	out, err := run(t, searcher, "Nowhere, XX\nq\n")
	assert.Nil(t, err)
	assert.Contains(t, out, "Could not find coordinates")
	assert.Contains(t, out, "Goodbye...")
}

func TestRun_FetchErrorIsReturned(t *testing.T) {
	searcher := &fakeSearcher{fetchErr: errors.New("create output dir: permission denied")}
	_, err := run(t, searcher, "London, UK\n2\n")
	assert.NotNil(t, err)
}
