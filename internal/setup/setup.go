package setup

import (
	"context"
	"fmt"

	"github.com/kelseyhightower/envconfig"

	"github.com/go-skc/skc/internal/alert"
	"github.com/go-skc/skc/internal/cache"
	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/classifier/knn"
	"github.com/go-skc/skc/internal/database"
	"github.com/go-skc/skc/internal/dispatcher"
	"github.com/go-skc/skc/internal/logging"
	"github.com/go-skc/skc/internal/scrape"
	"github.com/go-skc/skc/internal/srvenv"
)

const (
	SvcModeScrape  string = "SCRAPE"
	SvcModeCollect string = "COLLECT"
)

type SvcModeConfigProvider interface {
	SvcMode() string
}

type DispatcherConfigProvider interface {
	DispatcherConfig() *dispatcher.Config
}

type NotifierConfigProvider interface {
	NotifyConfig() *alert.Config
}

type ScrapeConfigProvider interface {
	ScrapeConfig() *scrape.Config
}

type ClassifierConfigProvider interface {
	ClassifierConfig() *classifier.Config
	ClassifierType() classifier.AlgType
}

type DatabaseConfigProvider interface {
	DatabaseConfig() *database.Config
}

type CacheConfigProvider interface {
	CacheConfig() *cache.Config
}

// Setup processes the environment into config and assembles the server
// environment: database, optional prediction cache and the provide functions
// for the notifier, the classifier, the dispatcher and the scrapper. Which
// parts are built depends on the provider interfaces config implements.
func Setup(ctx context.Context, config interface{}) (*srvenv.SrvEnv, error) {
	logger := logging.FromContext(ctx)
	var serverEnvOpts []srvenv.Option
	if err := envconfig.Process("", config); err != nil {
		return nil, fmt.Errorf("error loading environment variables: %w", err)
	}

	var (
		db                  *database.DB
		predictionCache     *cache.Cache
		classifierProvideFn classifier.ProvideFn
		notifierProvideFn   alert.ProvideFn
		dispatcherProvideFn dispatcher.ProvideFn
		scrapperProvideFn   scrape.ProvideFn
	)
	if dbConfigProvider, ok := config.(DatabaseConfigProvider); ok {
		logger.Info("Configuring database")
		dbFromEnv, err := database.NewFromEnv(ctx, dbConfigProvider.DatabaseConfig())
		if err != nil {
			return nil, fmt.Errorf("unable to connect to database: %v", err)
		}
		db = dbFromEnv
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDatabase(db))
	}

	if cacheConfigProvider, ok := config.(CacheConfigProvider); ok {
		if cfg := cacheConfigProvider.CacheConfig(); cfg.Enabled() {
			logger.Info("Configuring prediction cache")
			cacheFromEnv, err := cache.NewFromEnv(ctx, cfg)
			if err != nil {
				return nil, fmt.Errorf("unable to connect to cache: %v", err)
			}
			predictionCache = cacheFromEnv
			serverEnvOpts = append(serverEnvOpts, srvenv.WithCache(predictionCache))
		}
	}

	if notifyConfigProvider, ok := config.(NotifierConfigProvider); ok {
		logger.Info("Configuring notifier")
		provideFn, err := ProvideNotifierFor(notifyConfigProvider, db)
		if err != nil {
			return nil, fmt.Errorf("unable create notifier provide function: %v", err)
		}
		notifierProvideFn = provideFn
		serverEnvOpts = append(serverEnvOpts, srvenv.WithNotifier(notifierProvideFn))
	}

	if classifierConfigProvider, ok := config.(ClassifierConfigProvider); ok {
		logger.Info("Configuring classifier")
		cfg := classifierConfigProvider.ClassifierConfig()
		dispatcherConfigProvider, ok := config.(DispatcherConfigProvider)
		if !ok {
			return nil, fmt.Errorf("unable read dispatcher config")
		}
		provideFn, err := ProvideClassifierFor(cfg, dispatcherConfigProvider.DispatcherConfig())
		if err != nil {
			return nil, fmt.Errorf("unable create classifier provide function: %v", err)
		}
		classifierProvideFn = provideFn
		serverEnvOpts = append(serverEnvOpts, srvenv.WithClassifier(classifierProvideFn))
	}

	if dispatcherConfigProvider, ok := config.(DispatcherConfigProvider); ok {
		logger.Info("Configuring dispatcher")
		provideFn, err := ProvideDispatcherFor(dispatcherConfigProvider, classifierProvideFn, db, predictionCache)
		if err != nil {
			return nil, fmt.Errorf("unable create dispatcher provide function: %v", err)
		}
		dispatcherProvideFn = provideFn
		serverEnvOpts = append(serverEnvOpts, srvenv.WithDispatcher(dispatcherProvideFn))
	}

	if svcModeConfigProvider, ok := config.(SvcModeConfigProvider); ok && svcModeConfigProvider.SvcMode() == SvcModeScrape {
		if scrapeConfigProvider, ok := config.(ScrapeConfigProvider); ok {
			logger.Info("Configuring scrapper")
			provideFn, err := ProvideScrapperFor(scrapeConfigProvider)
			if err != nil {
				return nil, fmt.Errorf("unable create scrapper provide function: %v", err)
			}
			scrapperProvideFn = provideFn
			serverEnvOpts = append(serverEnvOpts, srvenv.WithScrapper(scrapperProvideFn))
		}
	}
	return srvenv.New(serverEnvOpts...), nil
}

func ProvideScrapperFor(provider ScrapeConfigProvider) (scrape.ProvideFn, error) {
	cfg := provider.ScrapeConfig()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("dont process scrapper env: %w", err)
	}
	return func(collector dispatcher.Manager, shutdownCh chan<- error) (scrape.Manager, error) {
		return scrape.New(
			collector,
			shutdownCh,
			scrape.WithInterval(cfg.Interval),
			scrape.WithIntervalJitter(cfg.Jitter),
			scrape.WithRequestTimeout(cfg.RequestTimeout),
			scrape.WithMaxConcurrentRequest(cfg.MaxConcurrentRequest),
			scrape.WithTargets(cfg.Targets),
		)
	}, nil
}

func ProvideNotifierFor(provider NotifierConfigProvider, db *database.DB) (alert.ProvideFn, error) {
	cfg := provider.NotifyConfig()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("dont process notifier env: %w", err)
	}
	return func(shutdownCh chan<- error) (alert.Manager, error) {
		return alert.New(
			db,
			shutdownCh,
			alert.WithMaxConcurrentRequest(cfg.MaxConcurrentRequest),
			alert.WithAlertInterval(cfg.Interval),
			alert.WithRequestTimeout(cfg.RequestTimeout),
			alert.WithTargets(cfg.Targets),
		)
	}, nil
}

func ProvideDispatcherFor(
	provider DispatcherConfigProvider,
	provideClassifierFn classifier.ProvideFn,
	db *database.DB,
	predictionCache *cache.Cache,
) (dispatcher.ProvideFn, error) {
	cfg := provider.DispatcherConfig()
	if err := envconfig.Process("", cfg); err != nil {
		return nil, fmt.Errorf("dont process dispatcher env: %w", err)
	}
	return func(notifier alert.Manager, shutdownCh chan<- error) (dispatcher.Manager, error) {
		opts := []dispatcher.Option{
			dispatcher.WithRebuildDBTime(cfg.RebuildDBTime),
			dispatcher.WithAllowAppendData(cfg.AllowAppendData),
			dispatcher.WithAllowAppendPredicted(cfg.AllowAppendPredicted),
			dispatcher.WithMaxItemsStored(cfg.MaxItemsStored),
			dispatcher.WithMaxStorageTime(cfg.MaxStorageTime),
			dispatcher.WithSkipItems(cfg.SkipItems),
			dispatcher.WithDBFlushSize(cfg.DbFlushSize),
			dispatcher.WithDBFlushTime(cfg.DbFlushTime),
		}
		if predictionCache != nil {
			opts = append(opts, dispatcher.WithCache(predictionCache))
		}
		return dispatcher.New(db, provideClassifierFn, notifier, shutdownCh, opts...)
	}, nil
}

func ProvideClassifierFor(cfg *classifier.Config, dispatcherCfg *dispatcher.Config) (classifier.ProvideFn, error) {
	switch cfg.ClassifierType() {
	case classifier.AlgTypeKNN:
		cfgKNN := knn.Config{}
		if err := envconfig.Process("", &cfgKNN); err != nil {
			return nil, fmt.Errorf("error loading environment variables: %w", err)
		}
		return func() (classifier.Classifier, error) {
			opts := []knn.Option{
				knn.WithAlg(cfgKNN.AlgType),
				knn.WithMaxItems(dispatcherCfg.MaxItemsStored),
				knn.WithStorageTime(dispatcherCfg.MaxStorageTime),
			}
			if cfgKNN.K == 0 {
				opts = append(opts, knn.WithAutoK())
			} else {
				opts = append(opts, knn.WithK(cfgKNN.K))
			}
			c, err := knn.New(opts...)
			if err != nil {
				return nil, fmt.Errorf("unable create knn instance: %v", err)
			}
			return c, nil
		}, nil
	default:
		return nil, fmt.Errorf("unknown classifier type: %s", cfg.ClassifierType())
	}
}
