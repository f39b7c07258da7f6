package scrape

import (
	"encoding/json"
	"time"
)

type Config struct {
	Targets              Targets       `envconfig:"SKC_SCRAPE_TARGETS"`
	MaxConcurrentRequest int           `envconfig:"SKC_SCRAPE_MAX_CONCURRENT_REQUEST" default:"64"`
	Interval             time.Duration `envconfig:"SKC_SCRAPE_INTERVAL" default:"1s"`
	Jitter               time.Duration `envconfig:"SKC_SCRAPE_JITTER" default:"100ms"`
	RequestTimeout       time.Duration `envconfig:"SKC_SCRAPE_REQUEST_TIMEOUT" default:"10s"`
}

type Targets []Target

func (ts *Targets) Decode(value string) error {
	targets := []Target{}
	if err := json.Unmarshal([]byte(value), &targets); err != nil {
		return err
	}
	*ts = targets
	return nil
}

// Target is an endpoint serving batches of unlabeled vectors. Dataset is a
// fallback for responses that do not name their dataset themselves.
type Target struct {
	URL     string `json:"url"`
	Dataset string `json:"dataset"`
}
