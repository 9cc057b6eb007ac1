package weather

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"weather-history/internal/geo"
)

const DefaultTimeMachineURL = "https://api.openweathermap.org/data/2.5/onecall/timemachine"

// OpenWeatherClient reads one day of hourly history from the OpenWeather
// One Call "timemachine" endpoint.
type OpenWeatherClient struct {
	apiKey  string
	baseURL string
	units   string
	client  *http.Client
}

// NewOpenWeatherClient creates a client. An empty units value keeps the
// provider default (Kelvin); a zero timeout leaves requests unbounded.
func NewOpenWeatherClient(apiKey, baseURL, units string, timeout time.Duration) *OpenWeatherClient {
	if baseURL == "" {
		baseURL = DefaultTimeMachineURL
	}
	return &OpenWeatherClient{
		apiKey:  apiKey,
		baseURL: baseURL,
		units:   units,
		client: &http.Client{
			Timeout: timeout,
		},
	}
}

type timeMachineResponse struct {
	Hourly *[]map[string]interface{} `json:"hourly"`
}

// FetchDay returns the raw hourly entries for the day containing at.
func (c *OpenWeatherClient) FetchDay(ctx context.Context, coord geo.Coordinate, at time.Time) ([]map[string]interface{}, error) {
	if c.apiKey == "" {
		return nil, fmt.Errorf("openweather api key is empty")
	}

	endpoint, err := url.Parse(c.baseURL)
	if err != nil {
		return nil, fmt.Errorf("openweather url: %w", err)
	}

	query := endpoint.Query()
	query.Set("lat", fmt.Sprintf("%.6f", coord.Latitude))
	query.Set("lon", fmt.Sprintf("%.6f", coord.Longitude))
	query.Set("dt", strconv.FormatInt(at.Unix(), 10))
	query.Set("appid", c.apiKey)
	if c.units != "" {
		query.Set("units", c.units)
	}
	endpoint.RawQuery = query.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint.String(), nil)
	if err != nil {
		return nil, fmt.Errorf("openweather request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("openweather request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return nil, fmt.Errorf("openweather bad status: %s", resp.Status)
	}

	var payload timeMachineResponse
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("openweather decode: %w", err)
	}

	if payload.Hourly == nil {
		return nil, fmt.Errorf("openweather hourly data missing")
	}

	return *payload.Hourly, nil
}
