package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/integration"
)

type classifyFn func(ctx context.Context, dataset string, in classifier.DataPoint, k int) (*classifier.Prediction, error)

func (f classifyFn) Classify(
	ctx context.Context,
	dataset string,
	in classifier.DataPoint,
	k int,
) (*classifier.Prediction, error) {
	return f(ctx, dataset, in, k)
}

func newTestServer(t *testing.T, cfg *Config, fn classifyFn) (*httptest.Server, *integration.Client) {
	t.Helper()
	h, err := NewHandler(cfg, fn)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	mux := http.NewServeMux()
	mux.Handle("/classify", h)
	srv := httptest.NewServer(mux)
	client := integration.NewClient(strings.TrimPrefix(srv.URL, "http://"))
	return srv, client
}

func TestHandlerClassify(t *testing.T) {
	cfg := &Config{RequestTimeout: 5 * time.Second, MaxDataItemsLen: 10}
	srv, client := newTestServer(t, cfg, func(
		ctx context.Context,
		dataset string,
		in classifier.DataPoint,
		k int,
	) (*classifier.Prediction, error) {
		if in.Vector().Point(0) > 5 {
			return &classifier.Prediction{Label: "versicolor", Confidence: 1, Votes: k}, nil
		}
		return &classifier.Prediction{Label: "setosa", Confidence: 1, Votes: k}, nil
	})
	defer srv.Close()

	resp, err := client.Classify(integration.Request{
		Dataset: "iris",
		K:       1,
		Data: []integration.Row{
			{Vec: []float64{1.1, 2.1}},
			{Vec: []float64{8, 8}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("classify request status got: %v, expected: %v", resp.StatusCode, http.StatusOK)
	}

	var out integration.Response
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if out.Dataset != "iris" {
		t.Errorf("classify response dataset got: %v, expected: %v", out.Dataset, "iris")
	}
	if len(out.Data) != 2 {
		t.Fatalf("classify response rows got: %v, expected: %v", len(out.Data), 2)
	}
	if out.Data[0].Label != "setosa" {
		t.Errorf("classify response row 0 got: %v, expected: %v", out.Data[0].Label, "setosa")
	}
	if out.Data[1].Label != "versicolor" {
		t.Errorf("classify response row 1 got: %v, expected: %v", out.Data[1].Label, "versicolor")
	}
}

func TestHandlerClassifyErrors(t *testing.T) {
	tests := []struct {
		name           string
		err            error
		expectedStatus int
	}{
		{
			name:           "invalid_k",
			err:            fmt.Errorf("unable to predict: %w", classifier.ErrInvalidK),
			expectedStatus: http.StatusBadRequest,
		},
		{
			name:           "dimension_mismatch",
			err:            &classifier.ErrDimensionMismatch{Expected: 2, Actual: 3},
			expectedStatus: http.StatusUnprocessableEntity,
		},
		{
			name:           "empty_dataset",
			err:            fmt.Errorf("unable to predict: %w", classifier.ErrEmptyDataset),
			expectedStatus: http.StatusNotFound,
		},
		{
			name:           "internal",
			err:            errors.New("storage gone"),
			expectedStatus: http.StatusInternalServerError,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			cfg := &Config{RequestTimeout: 5 * time.Second, MaxDataItemsLen: 10}
			srv, client := newTestServer(t, cfg, func(
				ctx context.Context,
				dataset string,
				in classifier.DataPoint,
				k int,
			) (*classifier.Prediction, error) {
				return nil, test.err
			})
			defer srv.Close()

			resp, err := client.Classify(integration.Request{
				Dataset: "iris",
				Data:    []integration.Row{{Vec: []float64{1, 1}}},
			})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != test.expectedStatus {
				t.Errorf("classify request status got: %v, expected: %v", resp.StatusCode, test.expectedStatus)
			}
		})
	}
}

func TestHandlerClassifyBatchLimit(t *testing.T) {
	cfg := &Config{RequestTimeout: 5 * time.Second, MaxDataItemsLen: 1}
	srv, client := newTestServer(t, cfg, func(
		ctx context.Context,
		dataset string,
		in classifier.DataPoint,
		k int,
	) (*classifier.Prediction, error) {
		return &classifier.Prediction{Label: "setosa", Confidence: 1, Votes: 1}, nil
	})
	defer srv.Close()

	resp, err := client.Classify(integration.Request{
		Dataset: "iris",
		Data: []integration.Row{
			{Vec: []float64{1, 1}},
			{Vec: []float64{2, 2}},
		},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusBadRequest {
		t.Errorf("classify request status got: %v, expected: %v", resp.StatusCode, http.StatusBadRequest)
	}
}

func TestHandlerClassifyMethodAndContentType(t *testing.T) {
	cfg := &Config{RequestTimeout: 5 * time.Second, MaxDataItemsLen: 10}
	srv, _ := newTestServer(t, cfg, func(
		ctx context.Context,
		dataset string,
		in classifier.DataPoint,
		k int,
	) (*classifier.Prediction, error) {
		return &classifier.Prediction{Label: "setosa", Confidence: 1, Votes: 1}, nil
	})
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/classify")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("classify request status got: %v, expected: %v", resp.StatusCode, http.StatusMethodNotAllowed)
	}

	resp, err = http.Post(srv.URL+"/classify", "text/plain", strings.NewReader("{}"))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("classify request status got: %v, expected: %v", resp.StatusCode, http.StatusUnsupportedMediaType)
	}
}
