package cache

import "time"

// Config enables the prediction cache when Addr is set.
type Config struct {
	Addr     string        `envconfig:"SKC_CACHE_ADDR"`
	Password string        `envconfig:"SKC_CACHE_PASSWORD"`
	DB       int           `envconfig:"SKC_CACHE_DB" default:"0"`
	TTL      time.Duration `envconfig:"SKC_CACHE_TTL" default:"10m"`
}

func (c Config) Enabled() bool {
	return c.Addr != ""
}
