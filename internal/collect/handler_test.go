package collect

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-skc/skc/internal/integration"
	"github.com/go-skc/skc/internal/sample/model"
)

type stubCollector struct {
	mtx     sync.Mutex
	samples []model.Sample
	done    chan struct{}
	want    int
}

func (c *stubCollector) Collect(in ...model.Sample) error {
	c.mtx.Lock()
	c.samples = append(c.samples, in...)
	if len(c.samples) >= c.want {
		select {
		case <-c.done:
		default:
			close(c.done)
		}
	}
	c.mtx.Unlock()
	return nil
}

func newTestServer(t *testing.T, collector *stubCollector) (*httptest.Server, *integration.Client) {
	t.Helper()
	h, err := NewHandler(&Config{RequestTimeout: 5 * time.Second}, collector)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/collect", h)
	srv := httptest.NewServer(mux)
	client := integration.NewClient(strings.TrimPrefix(srv.URL, "http://"))
	return srv, client
}

func TestHandlerCollect(t *testing.T) {
	collector := &stubCollector{done: make(chan struct{}), want: 2}
	srv, client := newTestServer(t, collector)
	defer srv.Close()

	resp, err := client.Collect(integration.Request{
		Dataset: "iris",
		Data: []integration.Row{
			{Vec: []float64{1, 2}, Label: "setosa", CreatedAt: time.Now().Add(-time.Minute)},
			{Vec: []float64{2, 3}, Label: "setosa", CreatedAt: time.Now()},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("collect request status got: %v, expected: %v", resp.StatusCode, http.StatusOK)
	}

	select {
	case <-collector.done:
	case <-time.After(2 * time.Second):
		t.Fatalf("collected samples were not delivered to the collector")
	}

	collector.mtx.Lock()
	defer collector.mtx.Unlock()
	if len(collector.samples) != 2 {
		t.Fatalf("the collector received %v samples, expected: %v", len(collector.samples), 2)
	}
	for _, sample := range collector.samples {
		if sample.Dataset != "iris" {
			t.Errorf("the collector received dataset %v, expected: %v", sample.Dataset, "iris")
		}
		if sample.Class != "setosa" {
			t.Errorf("the collector received label %v, expected: %v", sample.Class, "setosa")
		}
	}
	if collector.samples[1].CreatedAt.Before(collector.samples[0].CreatedAt) {
		t.Errorf("the collector received samples out of time order")
	}
}

func TestHandlerCollectValidation(t *testing.T) {
	tests := []struct {
		name           string
		request        integration.Request
		expectedStatus int
	}{
		{
			name: "missing_label",
			request: integration.Request{
				Dataset: "iris",
				Data:    []integration.Row{{Vec: []float64{1, 2}}},
			},
			expectedStatus: http.StatusBadRequest,
		},
		{
			name: "mixed_dimensions",
			request: integration.Request{
				Dataset: "iris",
				Data: []integration.Row{
					{Vec: []float64{1, 2}, Label: "setosa"},
					{Vec: []float64{1, 2, 3}, Label: "setosa"},
				},
			},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name: "invalid_dataset_name",
			request: integration.Request{
				Dataset: "",
				Data:    []integration.Row{{Vec: []float64{1, 2}, Label: "setosa"}},
			},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			collector := &stubCollector{done: make(chan struct{}), want: 1}
			srv, client := newTestServer(t, collector)
			defer srv.Close()

			resp, err := client.Collect(test.request)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != test.expectedStatus {
				t.Errorf("collect request status got: %v, expected: %v", resp.StatusCode, test.expectedStatus)
			}
		})
	}
}
