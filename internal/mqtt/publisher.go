package mqtt

import (
	"encoding/json"
	"fmt"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	log "github.com/sirupsen/logrus"

	"weather-history/internal/weather"
)

const (
	statusTopic       = "search/status"
	observationsTopic = "search/observations"
)

type Publisher struct {
	client      mqtt.Client
	topicPrefix string
	enabled     bool
}

type PublisherConfig struct {
	Broker      string
	ClientID    string
	Username    string
	Password    string
	TopicPrefix string
	Enabled     bool
}

// SearchSummary is the retained status message describing the last completed search.
type SearchSummary struct {
	SearchID      uint      `json:"search_id,omitempty"`
	Location      string    `json:"location"`
	Latitude      float64   `json:"latitude"`
	Longitude     float64   `json:"longitude"`
	Days          int       `json:"days"`
	FetchedDays   int       `json:"fetched_days"`
	FailedOffsets []int     `json:"failed_offsets"`
	Rows          int       `json:"rows"`
	File          string    `json:"file,omitempty"`
	SearchedAt    time.Time `json:"searched_at"`
}

func NewPublisher(cfg PublisherConfig) (*Publisher, error) {
	if !cfg.Enabled {
		return &Publisher{enabled: false}, nil
	}

	opts := mqtt.NewClientOptions().
		AddBroker(cfg.Broker).
		SetClientID(cfg.ClientID).
		SetAutoReconnect(true).
		SetConnectRetry(true).
		SetConnectRetryInterval(5 * time.Second).
		SetConnectionLostHandler(func(c mqtt.Client, err error) {
			log.WithError(err).Warn("MQTT connection lost")
		}).
		SetOnConnectHandler(func(c mqtt.Client) {
			log.Info("MQTT connected")
		})

	if cfg.Username != "" {
		opts.SetUsername(cfg.Username)
		opts.SetPassword(cfg.Password)
	}

	client := mqtt.NewClient(opts)
	token := client.Connect()
	if token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("failed to connect to MQTT broker: %w", token.Error())
	}

	return newPublisher(client, cfg.TopicPrefix), nil
}

func newPublisher(client mqtt.Client, topicPrefix string) *Publisher {
	return &Publisher{
		client:      client,
		topicPrefix: topicPrefix,
		enabled:     true,
	}
}

func (p *Publisher) topic(name string) string {
	if p.topicPrefix == "" {
		return name
	}
	return fmt.Sprintf("%s/%s", p.topicPrefix, name)
}

// PublishSearch sends the observations of a completed search followed by its
// retained summary. A disabled publisher does nothing.
func (p *Publisher) PublishSearch(summary SearchSummary, table *weather.HistoryTable) error {
	if p == nil || !p.enabled {
		return nil
	}

	records := []weather.ObservationRecord{}
	if table != nil {
		records = table.Records
	}
	observationsJSON, err := json.Marshal(records)
	if err != nil {
		return fmt.Errorf("failed to marshal observations: %w", err)
	}

	token := p.client.Publish(p.topic(observationsTopic), 0, false, observationsJSON)
	token.Wait()
	if token.Error() != nil {
		log.WithField("topic", p.topic(observationsTopic)).WithError(token.Error()).Warn("Failed to publish observations")
	}

	if summary.FailedOffsets == nil {
		summary.FailedOffsets = []int{}
	}
	statusJSON, err := json.Marshal(summary)
	if err != nil {
		return fmt.Errorf("failed to marshal status: %w", err)
	}

	token = p.client.Publish(p.topic(statusTopic), 0, true, statusJSON)
	token.Wait()
	if token.Error() != nil {
		return fmt.Errorf("failed to publish status: %w", token.Error())
	}

	return nil
}

// PublishHomeAssistantDiscovery announces sensors that read the retained
// search status.
func (p *Publisher) PublishHomeAssistantDiscovery() error {
	if p == nil || !p.enabled {
		return nil
	}

	sensors := []struct {
		Name     string
		ID       string
		Template string
	}{
		{"Last Search Location", "location", "{{ value_json.location }}"},
		{"Last Search Rows", "rows", "{{ value_json.rows }}"},
		{"Last Search Fetched Days", "fetched_days", "{{ value_json.fetched_days }}"},
		{"Last Search Failed Days", "failed_days", "{{ value_json.failed_offsets | count }}"},
	}

	for _, sensor := range sensors {
		discoveryTopic := fmt.Sprintf("homeassistant/sensor/weather_history/%s/config", sensor.ID)

		config := map[string]interface{}{
			"name":           fmt.Sprintf("Weather History %s", sensor.Name),
			"unique_id":      fmt.Sprintf("weather_history_%s", sensor.ID),
			"state_topic":    p.topic(statusTopic),
			"value_template": sensor.Template,
			"device": map[string]interface{}{
				"identifiers": []string{"weather_history"},
				"name":        "Weather History",
			},
		}

		payload, err := json.Marshal(config)
		if err != nil {
			return fmt.Errorf("failed to marshal discovery config: %w", err)
		}
		token := p.client.Publish(discoveryTopic, 0, true, payload)
		token.Wait()
		if token.Error() != nil {
			return fmt.Errorf("failed to publish discovery for %s: %w", sensor.ID, token.Error())
		}
	}

	return nil
}

func (p *Publisher) IsConnected() bool {
	if p == nil || !p.enabled {
		return false
	}
	return p.client.IsConnected()
}

func (p *Publisher) Close() {
	if p != nil && p.enabled && p.client != nil {
		p.client.Disconnect(1000)
	}
}
