package skc

import (
	"github.com/go-skc/skc/internal/alert"
	"github.com/go-skc/skc/internal/cache"
	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/collect"
	"github.com/go-skc/skc/internal/database"
	"github.com/go-skc/skc/internal/dispatcher"
	"github.com/go-skc/skc/internal/ingest"
	"github.com/go-skc/skc/internal/predict"
	"github.com/go-skc/skc/internal/scrape"
	"github.com/go-skc/skc/internal/setup"
)

var (
	_ setup.SvcModeConfigProvider    = (*Config)(nil)
	_ setup.DatabaseConfigProvider   = (*Config)(nil)
	_ setup.CacheConfigProvider      = (*Config)(nil)
	_ setup.NotifierConfigProvider   = (*Config)(nil)
	_ setup.ScrapeConfigProvider     = (*Config)(nil)
	_ setup.DispatcherConfigProvider = (*Config)(nil)
	_ setup.ClassifierConfigProvider = (*Config)(nil)
)

const (
	SvcModeTypeCollect = "COLLECT"
	SvcModeTypeScrape  = "SCRAPE"
)

type Config struct {
	SvcModeType string `envconfig:"SKC_SVC_MODE" default:"COLLECT"`
	SrvAddr     string `envconfig:"SKC_ADDR" default:":8787"`
	RPCAddr     string `envconfig:"SKC_RPC_ADDR" default:":8788"`
	MaxConns    int    `envconfig:"SKC_SRV_MAX_CONNS"`
	Dispatcher  dispatcher.Config
	Collect     collect.Config
	Predict     predict.Config
	Database    database.Config
	Cache       cache.Config
	Scrape      scrape.Config
	Classifier  classifier.Config
	Alert       alert.Config
	Ingest      ingest.Config
}

func (c Config) SvcMode() string {
	return c.SvcModeType
}

func (c Config) DispatcherConfig() *dispatcher.Config {
	return &c.Dispatcher
}

func (c Config) NotifyConfig() *alert.Config {
	return &c.Alert
}

func (c Config) ScrapeConfig() *scrape.Config {
	return &c.Scrape
}

func (c Config) DatabaseConfig() *database.Config {
	return &c.Database
}

func (c Config) CacheConfig() *cache.Config {
	return &c.Cache
}

func (c Config) ClassifierType() classifier.AlgType {
	return c.Classifier.Type
}

func (c Config) ClassifierConfig() *classifier.Config {
	return &c.Classifier
}
