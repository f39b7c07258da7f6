package collect

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sort"
	"time"

	"github.com/go-skc/skc/internal/dispatcher"
	"github.com/go-skc/skc/internal/geom"
	"github.com/go-skc/skc/internal/httputil"
	"github.com/go-skc/skc/internal/logging"
	"github.com/go-skc/skc/internal/observability"
	"github.com/go-skc/skc/internal/sample/model"
)

const maxBodyBytes = 64 * 1024 * 1024

type request struct {
	Dataset string `json:"dataset"`
	Data    []struct {
		Vec       []float64   `json:"vector"`
		Label     string      `json:"label"`
		Extra     interface{} `json:"extra"`
		CreatedAt time.Time   `json:"createdAt"`
	} `json:"data"`
}

func NewHandler(cfg *Config, collector dispatcher.Collector) (http.Handler, error) {
	s := &handler{
		collector: collector,
		cfg:       cfg,
	}
	return s, nil
}

type handler struct {
	collector dispatcher.Collector
	cfg       *Config
}

func (h *handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	var req request
	ctx, cancel := context.WithTimeout(r.Context(), h.cfg.RequestTimeout)
	defer cancel()
	logger := logging.FromContext(ctx)

	if r.Method != "POST" {
		w.WriteHeader(http.StatusMethodNotAllowed)
		logger.Debug(fmt.Sprintf(`{"error": "method %v is not allowed"}`, r.Method))
		_, _ = fmt.Fprintf(w, `{"error": "method %v is not allowed"}`, r.Method)
		return
	}

	if t := r.Header.Get("content-type"); len(t) < 16 || t[:16] != "application/json" {
		w.WriteHeader(http.StatusUnsupportedMediaType)
		logger.Debug(fmt.Sprintf(`{"error": "%v"}`, "content-type is not application/json"))
		_, _ = fmt.Fprintf(w, `{"error": "%v"}`, "content-type is not application/json")
		return
	}

	defer r.Body.Close()

	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	d := json.NewDecoder(r.Body)
	if err := d.Decode(&req); err != nil {
		httputil.DecodeErr(ctx, w, err)
		return
	}

	if !observability.ValidDatasetName(req.Dataset) {
		httputil.RespBadRequest(ctx, w, `{"error": "invalid dataset name %s"}`, req.Dataset)
		return
	}

	for i, dat := range req.Data {
		if dat.Label == "" {
			httputil.RespBadRequest(ctx, w, `{"error": "row %d has no label"}`, i)
			return
		}
		// all vectors of a batch share one dimensionality
		if !geom.Point(dat.Vec).SizeEqual(geom.Point(req.Data[0].Vec)) {
			httputil.RespUnprocessable(
				ctx, w,
				`{"error": "row %d has %d dimensions, want %d"}`,
				i, len(dat.Vec), len(req.Data[0].Vec),
			)
			return
		}
	}

	defer func() {
		logger.Infof("collected %d samples for dataset %s", len(req.Data), req.Dataset)
	}()
	go func() {
		sort.Slice(req.Data, func(i, j int) bool {
			return req.Data[i].CreatedAt.Before(req.Data[j].CreatedAt)
		})
		collected := 0
		for _, dat := range req.Data {
			createdAt := dat.CreatedAt
			if createdAt.IsZero() {
				createdAt = time.Now()
			}
			if err := h.collector.Collect(
				model.NewSample(req.Dataset, geom.New(dat.Vec), dat.Label, createdAt, dat.Extra),
			); err != nil {
				logger.Errorf("error sending to collect service: %v", err)
				continue
			}
			collected++
		}
		observability.RecordCollected(context.Background(), req.Dataset, collected)
	}()
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, `{"status": "ok"}`)
}
