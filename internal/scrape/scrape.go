package scrape

import (
	"bytes"
	"compress/gzip"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"io/ioutil"
	"net/http"
	"net/url"
	"sort"
	"sync"
	"time"

	"github.com/valyala/fastrand"

	"github.com/go-skc/skc/internal/dispatcher"
	"github.com/go-skc/skc/internal/geom"
	"github.com/go-skc/skc/internal/logging"
	"github.com/go-skc/skc/internal/sample/model"
	"github.com/go-skc/skc/pkg/rworker"
)

// response is the document a scrape target serves: the dataset the rows
// belong to and a batch of unlabeled vectors.
type response struct {
	Dataset string `json:"dataset"`
	Data    []struct {
		Vec       []float64   `json:"vector"`
		Extra     interface{} `json:"extra"`
		CreatedAt time.Time   `json:"createdAt"`
	} `json:"data"`
}

type Manager interface {
	Run(context.Context) error
	Stop()
}

type ProvideFn = func(dispatcher.Manager, chan<- error) (Manager, error)

const UserAgent = "SKC/0.1"

const (
	defaultScrapeInterval       = time.Second
	defaultRequestTimeout       = 10 * time.Second
	defaultMaxConcurrentRequest = 64
)

type Options struct {
	maxConcurrentRequest int
	requestTimeout       time.Duration
	scrapeInterval       time.Duration
	intervalJitter       time.Duration
}

type Option func(*manager)

func WithMaxConcurrentRequest(n int) Option {
	return func(o *manager) {
		o.opts.maxConcurrentRequest = n
	}
}

func WithInterval(t time.Duration) Option {
	return func(o *manager) {
		o.opts.scrapeInterval = t
	}
}

func WithIntervalJitter(t time.Duration) Option {
	return func(o *manager) {
		o.opts.intervalJitter = t
	}
}

func WithRequestTimeout(t time.Duration) Option {
	return func(o *manager) {
		o.opts.requestTimeout = t
	}
}

func WithTargets(m Targets) Option {
	return func(o *manager) {
		o.targets = m
	}
}

func New(collector dispatcher.Manager, shutdownCh chan<- error, opts ...Option) (*manager, error) {
	if collector == nil {
		return nil, fmt.Errorf("dispatcher instance is not defined")
	}
	m := &manager{
		targets:    Targets{},
		shutdownCh: shutdownCh,
		collector:  collector,
	}
	for _, opt := range opts {
		opt(m)
	}
	if m.opts.maxConcurrentRequest == 0 {
		m.opts.maxConcurrentRequest = defaultMaxConcurrentRequest
	}
	if m.opts.requestTimeout == 0 {
		m.opts.requestTimeout = defaultRequestTimeout
	}
	if m.opts.scrapeInterval == 0 {
		m.opts.scrapeInterval = defaultScrapeInterval
	}
	m.client = &http.Client{}
	return m, nil
}

type manager struct {
	opts            Options
	targets         Targets
	collector       dispatcher.Manager
	client          *http.Client
	shutdownCh      chan<- error
	cancelCollector func()
	cancel          func()
}

func (s *manager) Stop() {
	s.cancel()
}

func (s *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	s.cancel = cancel
	c, cancel := context.WithCancel(context.Background())
	s.cancelCollector = cancel
	if err := s.collector.Run(c); err != nil {
		return fmt.Errorf("dispatcher.Run: %w", err)
	}
	go func() {
		defer func() {
			s.shutdownCh <- nil
			s.cancelCollector()
		}()
		timer := time.NewTimer(s.nextInterval())
		defer timer.Stop()
		for {
			select {
			case <-timer.C:
				s.scrapping(ctx)
				timer.Reset(s.nextInterval())
			case <-ctx.Done():
				return
			}
		}
	}()
	return nil
}

// nextInterval returns the scrape interval plus a random share of the
// configured jitter.
func (s *manager) nextInterval() time.Duration {
	if s.opts.intervalJitter <= 0 {
		return s.opts.scrapeInterval
	}
	return s.opts.scrapeInterval + time.Duration(fastrand.Uint32n(uint32(s.opts.intervalJitter)))
}

func (s *manager) scrape(url string) (response, error) {
	var response response
	ctx, cancel := context.WithTimeout(context.Background(), s.opts.requestTimeout)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, "GET", url, nil)
	if err != nil {
		return response, fmt.Errorf("creating request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Add("User-Agent", UserAgent)
	req.Header.Add("Accept-Encoding", "gzip")
	resp, err := s.client.Do(req)
	if err != nil {
		return response, fmt.Errorf("sending request error: %w", err)
	}

	defer resp.Body.Close()

	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return response, fmt.Errorf("unable create gzip.NewReader: %w", err)
		}
		defer reader.Close()
	default:
		reader = resp.Body
	}

	body, err := ioutil.ReadAll(reader)
	if err != nil {
		return response, fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return response, fmt.Errorf("response was not 200 OK: %s", body)
	}

	decoder := json.NewDecoder(bytes.NewReader(body))
	if err := decoder.Decode(&response); err != nil {
		return response, fmt.Errorf("decoding response error: %w", err)
	}

	return response, nil
}

func (s *manager) scrapping(ctx context.Context) {
	wg := sync.WaitGroup{}
	logger := logging.FromContext(ctx)
	errCh := make(chan error, 1)
	defer close(errCh)
	rateCh := make(chan struct{}, s.opts.maxConcurrentRequest)
	defer close(rateCh)
	go func() {
		for err := range errCh {
			logger.Errorf("scrape manager error: %v", err)
		}
	}()
OuterLoop:
	for _, target := range s.targets {
		target := target
		urlData, err := url.Parse(target.URL)
		if err != nil {
			errCh <- fmt.Errorf("url parsing error: %w", err)
			continue OuterLoop
		}
		rworker.Job(&wg, func() error {
			resp, err := s.scrape(urlData.String())
			if err != nil {
				return fmt.Errorf("scrape error: %w", err)
			}
			dataset := resp.Dataset
			if dataset == "" {
				dataset = target.Dataset
			}
			if dataset == "" {
				return fmt.Errorf("scrape %s: response does not name a dataset", urlData)
			}
			sort.Slice(resp.Data, func(i, j int) bool {
				return resp.Data[i].CreatedAt.Before(resp.Data[j].CreatedAt)
			})
			for _, dat := range resp.Data {
				createdAt := dat.CreatedAt
				if createdAt.IsZero() {
					createdAt = time.Now()
				}
				if err := s.collector.Collect(model.NewSample(dataset, geom.New(dat.Vec), "", createdAt, dat.Extra)); err != nil {
					return fmt.Errorf("send to collect error: %w", err)
				}
			}
			return nil
		}, rateCh, errCh)
	}
	wg.Wait()
}
