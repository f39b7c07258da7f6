package ingest

import (
	"context"
	"fmt"

	"github.com/go-skc/skc/internal/database"
	"github.com/go-skc/skc/internal/logging"
	sampleDb "github.com/go-skc/skc/internal/sample/database"
	"github.com/go-skc/skc/internal/sample/model"
)

// Seed loads every manifest dataset into the sample storage as processed
// training data and reports how many samples were written. Datasets that
// already hold samples are left untouched, so a restart does not duplicate
// the seed.
func Seed(ctx context.Context, db *database.DB, manifestPath string) (int, error) {
	logger := logging.FromContext(ctx)
	manifest, err := LoadManifest(manifestPath)
	if err != nil {
		return 0, err
	}
	sampleDB := sampleDb.New(db)
	total := 0
	for _, dataset := range manifest.Datasets {
		n, err := sampleDB.CountByDataset(dataset.Name)
		if err != nil {
			return total, fmt.Errorf("unable count dataset %s: %w", dataset.Name, err)
		}
		if n > 0 {
			logger.Debugf("dataset %s already holds %d samples, seed skipped", dataset.Name, n)
			continue
		}
		samples, err := LoadCSVFile(dataset.Name, dataset.Path, dataset.Options()...)
		if err != nil {
			return total, err
		}
		for i := range samples {
			samples[i].Status = model.StatusProcessed
		}
		if err := sampleDB.AppendMany(ctx, samples); err != nil {
			return total, fmt.Errorf("unable append seed samples of %s: %w", dataset.Name, err)
		}
		logger.Infof("seeded dataset %s with %d samples", dataset.Name, len(samples))
		total += len(samples)
	}
	return total, nil
}
