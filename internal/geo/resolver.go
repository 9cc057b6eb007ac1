package geo

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	log "github.com/sirupsen/logrus"
)

const DefaultSearchURL = "https://www.geonames.org/search.html"

// Resolver turns "city, country" strings into coordinates by scraping a
// geonames style search page.
type Resolver struct {
	searchURL string
	parser    CoordinateParser
	client    *http.Client
}

// NewResolver creates a Resolver. A zero timeout leaves requests unbounded.
func NewResolver(searchURL string, parser CoordinateParser, timeout time.Duration) *Resolver {
	if searchURL == "" {
		searchURL = DefaultSearchURL
	}
	if parser == nil {
		parser = LegacyDMSParser{}
	}
	return &Resolver{
		searchURL: searchURL,
		parser:    parser,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

// Resolve looks up location and returns its validated coordinate.
func (r *Resolver) Resolve(ctx context.Context, location string) (Coordinate, error) {
	loc, err := ParseLocation(location)
	if err != nil {
		return Coordinate{}, err
	}

	page, err := r.search(ctx, loc)
	if err != nil {
		return Coordinate{}, fmt.Errorf("%w: %v", ErrCoordinateLookupFailed, err)
	}

	coord, err := r.parser.Parse(page)
	if err != nil {
		return Coordinate{}, err
	}

	if err := coord.Validate(); err != nil {
		return Coordinate{}, err
	}

	log.WithFields(log.Fields{
		"location":  loc.String(),
		"latitude":  coord.Latitude,
		"longitude": coord.Longitude,
	}).Debug("Resolved coordinate")

	return coord, nil
}

func (r *Resolver) search(ctx context.Context, loc Location) (string, error) {
	endpoint, err := url.Parse(r.searchURL)
	if err != nil {
		return "", fmt.Errorf("geonames url: %w", err)
	}

	query := endpoint.Query()
	query.Set("q", loc.City)
	query.Set("country", loc.Country)
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return "", fmt.Errorf("geonames request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("geonames request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return "", fmt.Errorf("geonames bad status: %s", resp.Status)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return "", fmt.Errorf("geonames read: %w", err)
	}
	return string(body), nil
}
