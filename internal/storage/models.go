package storage

import (
	"time"

	"gorm.io/gorm"

	"weather-history/internal/weather"
)

// Search is one completed history search.
type Search struct {
	gorm.Model
	Location  string  `gorm:"index" json:"location"`
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`

	// Window
	Days          int    `json:"days"`
	FetchedDays   int    `json:"fetched_days"`
	FailedOffsets string `json:"failed_offsets"`

	Rows int    `json:"rows"`
	File string `json:"file"`

	Observations []Observation `json:"-"`
}

// Observation is one archived hourly row of a search.
type Observation struct {
	gorm.Model
	SearchID  uint      `gorm:"index" json:"search_id"`
	Position  int       `json:"position"`
	Timestamp time.Time `gorm:"index" json:"timestamp"`

	Temperature *float64 `json:"temp,omitempty"`
	FeelsLike   *float64 `json:"feels_like,omitempty"`
	Pressure    *float64 `json:"pressure,omitempty"`
	Humidity    *float64 `json:"humidity,omitempty"`
	DewPoint    *float64 `json:"dew_point,omitempty"`
	Clouds      *float64 `json:"clouds,omitempty"`
	Visibility  *float64 `json:"visibility,omitempty"`
	WindSpeed   *float64 `json:"wind_speed,omitempty"`
	WindDeg     *float64 `json:"wind_deg,omitempty"`

	WeatherMain        *string `json:"weather_main,omitempty"`
	WeatherDescription *string `json:"weather_description,omitempty"`
}

func newObservation(position int, r weather.ObservationRecord) Observation {
	return Observation{
		Position:           position,
		Timestamp:          r.Time.UTC(),
		Temperature:        r.Temperature,
		FeelsLike:          r.FeelsLike,
		Pressure:           r.Pressure,
		Humidity:           r.Humidity,
		DewPoint:           r.DewPoint,
		Clouds:             r.Clouds,
		Visibility:         r.Visibility,
		WindSpeed:          r.WindSpeed,
		WindDeg:            r.WindDeg,
		WeatherMain:        r.WeatherMain,
		WeatherDescription: r.WeatherDescription,
	}
}

func (o Observation) record() weather.ObservationRecord {
	return weather.ObservationRecord{
		Time:               o.Timestamp.Local(),
		Temperature:        o.Temperature,
		FeelsLike:          o.FeelsLike,
		Pressure:           o.Pressure,
		Humidity:           o.Humidity,
		DewPoint:           o.DewPoint,
		Clouds:             o.Clouds,
		Visibility:         o.Visibility,
		WindSpeed:          o.WindSpeed,
		WindDeg:            o.WindDeg,
		WeatherMain:        o.WeatherMain,
		WeatherDescription: o.WeatherDescription,
	}
}
