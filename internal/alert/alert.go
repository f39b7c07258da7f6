package alert

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
	"sync"
	"time"

	"github.com/google/uuid"

	alertDb "github.com/go-skc/skc/internal/alert/database"
	"github.com/go-skc/skc/internal/alert/model"
	"github.com/go-skc/skc/internal/database"
	"github.com/go-skc/skc/internal/httputil"
	"github.com/go-skc/skc/internal/logging"
	sampleModel "github.com/go-skc/skc/internal/sample/model"
	"github.com/go-skc/skc/pkg/rworker"
)

type ProvideFn = func(chan<- error) (Manager, error)

const UserAgent = "SKC/0.1"

type Options struct {
	maxConcurrentRequest int
	requestTimeout       time.Duration
	alertInterval        time.Duration
	targets              Targets
}

type Option func(*manager)

func WithMaxConcurrentRequest(n int) Option {
	return func(o *manager) {
		o.opts.maxConcurrentRequest = n
	}
}

func WithAlertInterval(t time.Duration) Option {
	return func(o *manager) {
		o.opts.alertInterval = t
	}
}

func WithRequestTimeout(t time.Duration) Option {
	return func(o *manager) {
		o.opts.requestTimeout = t
	}
}

func WithTargets(m Targets) Option {
	return func(o *manager) {
		o.opts.targets = m
	}
}

type data struct {
	Vec        []float64   `json:"vector"`
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	CreatedAt  time.Time   `json:"createdAt"`
	Extra      interface{} `json:"extra"`
}

type request struct {
	Dataset string `json:"dataset"`
	Data    []data `json:"data"`
}

func New(db *database.DB, shutdownCh chan<- error, opts ...Option) (*manager, error) {
	m := &manager{
		alertDb:    alertDb.New(db),
		shutdownCh: shutdownCh,
		clients:    map[string]*http.Client{},
		alerts:     map[string][]sampleModel.Sample{},
	}
	m.opts.maxConcurrentRequest = 64
	m.opts.requestTimeout = 10 * time.Second
	m.opts.alertInterval = 5 * time.Second
	for _, f := range opts {
		f(m)
	}
	for _, target := range m.opts.targets {
		if _, ok := m.clients[target.URL]; !ok {
			client, err := httputil.NewClientFromConfig(target.HTTPConfig, true)
			if err != nil {
				return nil, fmt.Errorf("unable create client for dataset %s: %v", target.Dataset, err)
			}
			m.clients[target.URL] = client
		}
	}
	return m, nil
}

type Notifier interface {
	Notify(samples ...sampleModel.Sample)
}

type Manager interface {
	Notifier
	Run(context.Context) error
	Stop()
}

// The manager buffers classified samples per dataset and delivers them to the
// configured targets on every interval tick. Samples still buffered at
// shutdown are stored and replayed on the next start.
type manager struct {
	mtx        sync.RWMutex
	opts       Options
	alertDb    *alertDb.DB
	shutdownCh chan<- error
	clients    map[string]*http.Client
	alerts     map[string][]sampleModel.Sample
	cancel     func()
}

func (m *manager) Run(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	m.cancel = cancel
	go m.notifier(ctx)
	if err := m.initialize(ctx); err != nil {
		return fmt.Errorf("can not start alert manager: %v", err)
	}
	return nil
}

func (m *manager) Stop() {
	m.cancel()
}

// Notify buffers samples whose predicted label is watched by at least one
// target. Everything else is dropped here to keep the buffers bounded by
// the delivery loop.
func (m *manager) Notify(samples ...sampleModel.Sample) {
	m.mtx.Lock()
	for i := range samples {
		if !m.watched(samples[i]) {
			continue
		}
		ds := samples[i].Dataset
		if _, ok := m.alerts[ds]; !ok {
			m.alerts[ds] = []sampleModel.Sample{}
		}
		m.alerts[ds] = append(m.alerts[ds], samples[i])
	}
	m.mtx.Unlock()
}

func (m *manager) watched(sample sampleModel.Sample) bool {
	for _, target := range m.opts.targets {
		if target.Dataset == sample.Dataset && target.Watches(sample.Predicted) {
			return true
		}
	}
	return false
}

func (m *manager) initialize(ctx context.Context) error {
	logger := logging.FromContext(ctx)
	alerts, err := m.alertDb.FindAll(ctx, nil)
	if err != nil {
		logger.Errorf("error with fetching alerts from db, %v", err)
	}
	for i := range alerts {
		m.Notify(alerts[i].Samples...)
		if err := m.alertDb.Delete(context.Background(), alerts[i]); err != nil {
			return fmt.Errorf("unable delete alert on initialize: %v", err)
		}
	}
	return nil
}

func (m *manager) shutdown() error {
	m.mtx.Lock()
	defer m.mtx.Unlock()
	for dataset, samples := range m.alerts {
		if len(samples) == 0 {
			continue
		}
		alert := model.NewAlert(dataset, samples)
		if err := m.alertDb.Store(context.Background(), alert); err != nil {
			return fmt.Errorf("alert shutdown: unable store alert: %v", err)
		}
	}
	return nil
}

type makeRequestFn func() request

func (m *manager) notifier(ctx context.Context) {
	logger := logging.FromContext(ctx)
	errCh := make(chan error, 1)
	rateCh := make(chan struct{}, m.opts.maxConcurrentRequest)
	defer close(errCh)
	defer close(rateCh)
	go func() {
		for err := range errCh {
			logger.Errorf("alert error: %v", err)
		}
	}()
	defer func() {
		m.shutdownCh <- m.shutdown()
	}()
	wg := sync.WaitGroup{}
	ticker := time.NewTicker(m.opts.alertInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
		OuterLoop:
			for _, target := range m.opts.targets {
				target := target
				samples := m.pending(target)
				if len(samples) == 0 {
					continue OuterLoop
				}
				rworker.Job(&wg, func() error {
					alertModel := model.NewAlert(target.Dataset, samples)
					if err := m.alertDb.Store(context.Background(), alertModel); err != nil {
						return fmt.Errorf("unable store alert: %v", err)
					}
					if err := m.do(context.Background(), target, func() request {
						rows := make([]data, len(samples))
						for i := range samples {
							rows[i] = data{
								Vec:        samples[i].Vec.Points(),
								Label:      samples[i].Predicted,
								Confidence: samples[i].Confidence,
								CreatedAt:  samples[i].CreatedAt,
								Extra:      samples[i].Extra,
							}
						}
						return request{
							Dataset: target.Dataset,
							Data:    rows,
						}
					}); err != nil {
						return fmt.Errorf("alert do request error: %v", err)
					}
					if err := m.alertDb.Delete(context.Background(), alertModel); err != nil {
						return fmt.Errorf("unable delete alert: %v", err)
					}
					m.delivered(target.Dataset, samples)
					return nil
				}, rateCh, errCh)
			}
			wg.Wait()
		case <-ctx.Done():
			return
		}
	}
}

// pending returns the buffered samples of the target's dataset that match
// its watched labels.
func (m *manager) pending(target Target) []sampleModel.Sample {
	m.mtx.RLock()
	defer m.mtx.RUnlock()
	var out []sampleModel.Sample
	for _, sample := range m.alerts[target.Dataset] {
		if target.Watches(sample.Predicted) {
			out = append(out, sample)
		}
	}
	return out
}

// delivered removes the sent samples from the dataset buffer.
func (m *manager) delivered(dataset string, samples []sampleModel.Sample) {
	sent := make(map[uuid.UUID]struct{}, len(samples))
	for i := range samples {
		sent[samples[i].ID] = struct{}{}
	}
	m.mtx.Lock()
	kept := m.alerts[dataset][:0]
	for _, sample := range m.alerts[dataset] {
		if _, ok := sent[sample.ID]; !ok {
			kept = append(kept, sample)
		}
	}
	m.alerts[dataset] = kept
	m.mtx.Unlock()
}

func (m *manager) do(ctx context.Context, target Target, fn makeRequestFn) error {
	ctx, cancel := context.WithTimeout(ctx, m.opts.requestTimeout)
	defer cancel()
	body, err := json.Marshal(fn())
	if err != nil {
		return fmt.Errorf("unable encode json data: %w", err)
	}
	link, err := url.Parse(target.URL)
	if err != nil {
		return fmt.Errorf("url parsing error: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, "POST", link.String(), bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("creating request error: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Add("User-Agent", UserAgent)
	req.Header.Add("Accept-Encoding", "gzip")
	client, ok := m.clients[target.URL]
	if !ok {
		return fmt.Errorf("client for target %s not defined", target.URL)
	}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("sending request error: %w", err)
	}

	defer resp.Body.Close()

	var reader io.ReadCloser
	switch resp.Header.Get("Content-Encoding") {
	case "gzip":
		reader, err = gzip.NewReader(resp.Body)
		if err != nil {
			return fmt.Errorf("unable create gzip.NewReader: %w", err)
		}
		defer reader.Close()
	default:
		reader = resp.Body
	}

	if _, err := ioutil.ReadAll(reader); err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("response was not 200 OK: %s", resp.Status)
	}
	return nil
}
