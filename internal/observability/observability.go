// Package observability exports the opencensus measures of the service and
// wires them to the prometheus exporter.
package observability

import (
	"context"
	"fmt"
	"time"

	"contrib.go.opencensus.io/exporter/prometheus"
	prommodel "github.com/prometheus/common/model"
	"go.opencensus.io/stats"
	"go.opencensus.io/stats/view"
	"go.opencensus.io/tag"
)

var (
	mClassifications = stats.Int64("skc/classifications", "Completed classifications", stats.UnitDimensionless)
	mClassifyErrors  = stats.Int64("skc/classification_errors", "Failed classifications", stats.UnitDimensionless)
	mClassifyLatency = stats.Float64("skc/classification_latency", "Classification latency", stats.UnitMilliseconds)
	mCollected       = stats.Int64("skc/collected_samples", "Collected samples", stats.UnitDimensionless)
	mCacheHits       = stats.Int64("skc/cache_hits", "Prediction cache hits", stats.UnitDimensionless)

	// DatasetKey tags every measure with the dataset name.
	DatasetKey = tag.MustNewKey("dataset")
)

func defaultViews() []*view.View {
	return []*view.View{
		{
			Name:        "skc/classifications",
			Description: "Completed classifications by dataset",
			Measure:     mClassifications,
			TagKeys:     []tag.Key{DatasetKey},
			Aggregation: view.Sum(),
		},
		{
			Name:        "skc/classification_errors",
			Description: "Failed classifications by dataset",
			Measure:     mClassifyErrors,
			TagKeys:     []tag.Key{DatasetKey},
			Aggregation: view.Sum(),
		},
		{
			Name:        "skc/classification_latency",
			Description: "Classification latency by dataset",
			Measure:     mClassifyLatency,
			TagKeys:     []tag.Key{DatasetKey},
			Aggregation: view.Distribution(0.1, 0.5, 1, 2.5, 5, 10, 25, 50, 100, 250, 500, 1000),
		},
		{
			Name:        "skc/collected_samples",
			Description: "Collected samples by dataset",
			Measure:     mCollected,
			TagKeys:     []tag.Key{DatasetKey},
			Aggregation: view.Sum(),
		},
		{
			Name:        "skc/cache_hits",
			Description: "Prediction cache hits by dataset",
			Measure:     mCacheHits,
			TagKeys:     []tag.Key{DatasetKey},
			Aggregation: view.Sum(),
		},
	}
}

// NewExporter registers the service views and returns a prometheus exporter
// serving them. The exporter is an http.Handler.
func NewExporter() (*prometheus.Exporter, error) {
	if err := view.Register(defaultViews()...); err != nil {
		return nil, fmt.Errorf("unable to register views: %w", err)
	}
	exporter, err := prometheus.NewExporter(prometheus.Options{Namespace: "skc"})
	if err != nil {
		return nil, fmt.Errorf("unable to create prometheus exporter: %w", err)
	}
	view.RegisterExporter(exporter)
	return exporter, nil
}

// ValidDatasetName reports whether the name may appear as a metric label
// value.
func ValidDatasetName(name string) bool {
	return name != "" && prommodel.LabelValue(name).IsValid()
}

func RecordClassification(ctx context.Context, dataset string, elapsed time.Duration, err error) {
	mutators := []tag.Mutator{tag.Upsert(DatasetKey, dataset)}
	if err != nil {
		_ = stats.RecordWithTags(ctx, mutators, mClassifyErrors.M(1))
		return
	}
	latency := float64(elapsed) / float64(time.Millisecond)
	_ = stats.RecordWithTags(ctx, mutators, mClassifications.M(1), mClassifyLatency.M(latency))
}

func RecordCollected(ctx context.Context, dataset string, n int) {
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(DatasetKey, dataset)}, mCollected.M(int64(n)))
}

func RecordCacheHit(ctx context.Context, dataset string) {
	_ = stats.RecordWithTags(ctx, []tag.Mutator{tag.Upsert(DatasetKey, dataset)}, mCacheHits.M(1))
}
