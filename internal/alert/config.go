package alert

import (
	"encoding/json"
	"time"

	"github.com/go-skc/skc/internal/httputil"
)

type Config struct {
	AllowAlerts          bool          `envconfig:"SKC_ALLOW_ALERTS" default:"true"`
	Targets              Targets       `envconfig:"SKC_ALERT_TARGETS"`
	Interval             time.Duration `envconfig:"SKC_ALERT_INTERVAL" default:"5s"`
	RequestTimeout       time.Duration `envconfig:"SKC_ALERT_REQUEST_TIMEOUT" default:"10s"`
	MaxConcurrentRequest int           `envconfig:"SKC_ALERT_MAX_CONCURRENT_REQUEST" default:"64"`
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

// Target receives classification alerts for one dataset. An empty Labels
// list subscribes the target to every label of the dataset.
type Target struct {
	URL        string                    `json:"url"`
	Dataset    string                    `json:"dataset"`
	Labels     []string                  `json:"labels"`
	HTTPConfig httputil.HTTPClientConfig `json:"httpConfig"`
}

func (t Target) Watches(label string) bool {
	if len(t.Labels) == 0 {
		return true
	}
	for _, l := range t.Labels {
		if l == label {
			return true
		}
	}
	return false
}
