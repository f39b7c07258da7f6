package srvenv

import (
	"context"

	"github.com/go-skc/skc/internal/alert"
	"github.com/go-skc/skc/internal/cache"
	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/database"
	"github.com/go-skc/skc/internal/dispatcher"
	"github.com/go-skc/skc/internal/scrape"
)

type Option func(*SrvEnv) *SrvEnv

func New(opts ...Option) *SrvEnv {
	env := &SrvEnv{}
	for _, f := range opts {
		env = f(env)
	}

	return env
}

// SrvEnv carries the shared parts of the service assembled by setup.
type SrvEnv struct {
	database   *database.DB
	cache      *cache.Cache
	classifier classifier.ProvideFn
	dispatcher dispatcher.ProvideFn
	notifier   alert.ProvideFn
	scrapper   scrape.ProvideFn
}

func (s *SrvEnv) ProvideScrapper() scrape.ProvideFn {
	return s.scrapper
}

func (s *SrvEnv) ProvideNotifier() alert.ProvideFn {
	return s.notifier
}

func (s *SrvEnv) ProvideDispatcher() dispatcher.ProvideFn {
	return s.dispatcher
}

func (s *SrvEnv) ProvideClassifier() classifier.ProvideFn {
	return s.classifier
}

func (s *SrvEnv) Database() *database.DB {
	return s.database
}

// Cache returns the prediction cache, nil when caching is disabled.
func (s *SrvEnv) Cache() *cache.Cache {
	return s.cache
}

func WithScrapper(fn scrape.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.scrapper = fn
		return s
	}
}

func WithNotifier(fn alert.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.notifier = fn
		return s
	}
}

func WithDispatcher(fn dispatcher.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.dispatcher = fn
		return s
	}
}

func WithClassifier(fn classifier.ProvideFn) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.classifier = fn
		return s
	}
}

func WithCache(c *cache.Cache) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.cache = c
		return s
	}
}

func WithDatabase(db *database.DB) Option {
	return func(s *SrvEnv) *SrvEnv {
		s.database = db
		return s
	}
}

func (s *SrvEnv) Close(ctx context.Context) error {
	if s == nil {
		return nil
	}

	if s.cache != nil {
		if err := s.cache.Close(); err != nil {
			return err
		}
	}

	if s.database != nil {
		return s.database.Close(ctx)
	}
	return nil
}
