package weather

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"
)

// ObservationRecord is one hourly reading. Every attribute except Time is
// optional; nil means the provider did not report it for that hour.
type ObservationRecord struct {
	Time               time.Time `json:"time"`
	Temperature        *float64  `json:"temp,omitempty"`
	FeelsLike          *float64  `json:"feels_like,omitempty"`
	Pressure           *float64  `json:"pressure,omitempty"`
	Humidity           *float64  `json:"humidity,omitempty"`
	DewPoint           *float64  `json:"dew_point,omitempty"`
	Clouds             *float64  `json:"clouds,omitempty"`
	Visibility         *float64  `json:"visibility,omitempty"`
	WindSpeed          *float64  `json:"wind_speed,omitempty"`
	WindDeg            *float64  `json:"wind_deg,omitempty"`
	WeatherMain        *string   `json:"weather_main,omitempty"`
	WeatherDescription *string   `json:"weather_description,omitempty"`
}

type column struct {
	name    string
	numeric func(r *ObservationRecord) **float64
	text    func(r *ObservationRecord) **string
}

var columns = []column{
	{name: "temp", numeric: func(r *ObservationRecord) **float64 { return &r.Temperature }},
	{name: "feels_like", numeric: func(r *ObservationRecord) **float64 { return &r.FeelsLike }},
	{name: "pressure", numeric: func(r *ObservationRecord) **float64 { return &r.Pressure }},
	{name: "humidity", numeric: func(r *ObservationRecord) **float64 { return &r.Humidity }},
	{name: "dew_point", numeric: func(r *ObservationRecord) **float64 { return &r.DewPoint }},
	{name: "clouds", numeric: func(r *ObservationRecord) **float64 { return &r.Clouds }},
	{name: "visibility", numeric: func(r *ObservationRecord) **float64 { return &r.Visibility }},
	{name: "wind_speed", numeric: func(r *ObservationRecord) **float64 { return &r.WindSpeed }},
	{name: "wind_deg", numeric: func(r *ObservationRecord) **float64 { return &r.WindDeg }},
	{name: "weather_main", text: func(r *ObservationRecord) **string { return &r.WeatherMain }},
	{name: "weather_description", text: func(r *ObservationRecord) **string { return &r.WeatherDescription }},
}

// Columns returns the attribute columns in output order.
func Columns() []string {
	names := make([]string, len(columns))
	for i, c := range columns {
		names[i] = c.name
	}
	return names
}

func lookupColumn(name string) (column, bool) {
	for _, c := range columns {
		if c.name == name {
			return c, true
		}
	}
	return column{}, false
}

// Text renders the named attribute for tabular output. ok is false when the
// attribute is absent.
func (r ObservationRecord) Text(name string) (value string, ok bool) {
	c, found := lookupColumn(name)
	if !found {
		return "", false
	}
	if c.numeric != nil {
		v := *c.numeric(&r)
		if v == nil {
			return "", false
		}
		return strconv.FormatFloat(*v, 'f', -1, 64), true
	}
	v := *c.text(&r)
	if v == nil {
		return "", false
	}
	return *v, true
}

// SetText parses value into the named attribute. An empty value leaves it unset.
func (r *ObservationRecord) SetText(name, value string) error {
	c, found := lookupColumn(name)
	if !found {
		return fmt.Errorf("unknown column %q", name)
	}
	if value == "" {
		return nil
	}
	if c.numeric != nil {
		v, err := strconv.ParseFloat(value, 64)
		if err != nil {
			return fmt.Errorf("column %s: %w", name, err)
		}
		*c.numeric(r) = &v
		return nil
	}
	*c.text(r) = &value
	return nil
}

// ExtractRecord converts one raw hourly entry of the provider response.
// Attributes are set only for keys present in raw. The "weather" attributes
// come from the first element of the nested weather list; empty strings there
// count as absent. ok is false when
// raw has no "dt" timestamp; such entries cannot be indexed and are dropped.
func ExtractRecord(raw map[string]interface{}) (record ObservationRecord, ok bool, err error) {
	dt, present := raw["dt"]
	if !present || dt == nil {
		return ObservationRecord{}, false, nil
	}
	seconds, err := toFloat(dt)
	if err != nil {
		return ObservationRecord{}, false, fmt.Errorf("dt: %w", err)
	}
	record.Time = time.Unix(int64(seconds), 0)

	for _, c := range columns {
		if c.numeric == nil {
			continue
		}
		v, present := raw[c.name]
		if !present || v == nil {
			continue
		}
		f, err := toFloat(v)
		if err != nil {
			return ObservationRecord{}, false, fmt.Errorf("%s: %w", c.name, err)
		}
		*c.numeric(&record) = &f
	}

	if err := extractCondition(raw, &record); err != nil {
		return ObservationRecord{}, false, err
	}

	return record, true, nil
}

func extractCondition(raw map[string]interface{}, record *ObservationRecord) error {
	v, present := raw["weather"]
	if !present || v == nil {
		return nil
	}
	list, ok := v.([]interface{})
	if !ok {
		return fmt.Errorf("weather: expected a list, got %T", v)
	}
	if len(list) == 0 {
		return nil
	}
	first, ok := list[0].(map[string]interface{})
	if !ok {
		return fmt.Errorf("weather[0]: expected an object, got %T", list[0])
	}

	if main, present := first["main"]; present && main != nil {
		s, ok := main.(string)
		if !ok {
			return fmt.Errorf("weather[0].main: expected a string, got %T", main)
		}
		if s != "" {
			record.WeatherMain = &s
		}
	}
	if desc, present := first["description"]; present && desc != nil {
		s, ok := desc.(string)
		if !ok {
			return fmt.Errorf("weather[0].description: expected a string, got %T", desc)
		}
		if s != "" {
			record.WeatherDescription = &s
		}
	}
	return nil
}

func toFloat(v interface{}) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case json.Number:
		return n.Float64()
	default:
		return 0, fmt.Errorf("expected a number, got %T", v)
	}
}
