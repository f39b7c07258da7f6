package predict

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/dispatcher"
	"github.com/go-skc/skc/internal/geom"
	"github.com/go-skc/skc/internal/httputil"
	"github.com/go-skc/skc/internal/logging"
)

const maxBodyBytes = 64 * 1024 * 1024

// DataPoint is an unlabeled query vector of one classification request.
type DataPoint struct {
	Vec       classifier.Vector `json:"vec"`
	CreatedAt time.Time         `json:"createdAt"`
}

func (d DataPoint) Vector() classifier.Vector {
	return d.Vec
}

func (d DataPoint) Label() string {
	return ""
}

func (d DataPoint) Time() time.Time {
	return d.CreatedAt
}

type request struct {
	Dataset string `json:"dataset"`
	K       int    `json:"k"`
	Data    []struct {
		Vec       []float64   `json:"vector"`
		Extra     interface{} `json:"extra"`
		CreatedAt time.Time   `json:"createdAt"`
	} `json:"data"`
}

type responseRow struct {
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Vec        []float64   `json:"vector"`
	Extra      interface{} `json:"extra"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type response struct {
	Dataset string        `json:"dataset"`
	Data    []responseRow `json:"data"`
}

func NewHandler(cfg *Config, classifierSvc dispatcher.Classifier) (http.Handler, error) {
	return &handler{
		cfg:        cfg,
		classifier: classifierSvc,
	}, nil
}

type handler struct {
	classifier dispatcher.Classifier
	cfg        *Config
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

	if len(req.Data) > h.cfg.MaxDataItemsLen {
		httputil.RespBadRequest(ctx, w, `{"error": "data items is too large, max allowed len is %d"}`, h.cfg.MaxDataItemsLen)
		return
	}

	// Rows are classified concurrently but each writes its own slot, so the
	// response keeps the request order.
	respData := make([]responseRow, len(req.Data))
	errGrp := errgroup.Group{}
	for i, dat := range req.Data {
		i, dat := i, dat
		errGrp.Go(func() error {
			point := DataPoint{
				Vec:       geom.New(dat.Vec),
				CreatedAt: dat.CreatedAt,
			}
			result, err := h.classifier.Classify(ctx, req.Dataset, point, req.K)
			if err != nil {
				return err
			}
			respData[i] = responseRow{
				Label:      result.Label,
				Confidence: result.Confidence,
				Vec:        point.Vector().Points(),
				Extra:      dat.Extra,
				CreatedAt:  dat.CreatedAt,
			}
			return nil
		})
	}
	if err := errGrp.Wait(); err != nil {
		h.respError(ctx, w, req.Dataset, err)
		return
	}
	resp := response{
		Dataset: req.Dataset,
	}
	resp.Data = respData
	bytes, err := json.Marshal(resp)
	if err != nil {
		httputil.RespInternalError(ctx, w, `{"error": "failed to encode output json %v"}`, err)
		return
	}
	w.WriteHeader(http.StatusOK)
	_, _ = fmt.Fprintf(w, "%s", bytes)
}

// respError maps the classifier error kinds to HTTP statuses: a bad k is a
// client error, a wrong vector length is unprocessable, a dataset without
// training data is not found.
func (h *handler) respError(ctx context.Context, w http.ResponseWriter, dataset string, err error) {
	var dimErr *classifier.ErrDimensionMismatch
	switch {
	case errors.Is(err, classifier.ErrInvalidK):
		httputil.RespBadRequest(ctx, w, `{"error": "%v"}`, err)
	case errors.As(err, &dimErr):
		httputil.RespUnprocessable(ctx, w, `{"error": "%v"}`, err)
	case errors.Is(err, classifier.ErrEmptyDataset):
		httputil.RespNotFound(ctx, w, `{"error": "dataset %s has no training data"}`, dataset)
	default:
		httputil.RespInternalError(ctx, w, `{"error": "classify processing error, %v"}`, err)
	}
}
