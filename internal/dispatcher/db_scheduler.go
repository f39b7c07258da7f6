package dispatcher

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/go-skc/skc/internal/logging"
	"github.com/go-skc/skc/internal/sample/model"
)

// Scheduler options
type dbSchedulerConfig struct {
	maxItemsStored int
	maxStorageTime time.Duration
	rebuildDBTime  time.Duration
}

func newDBScheduler(config dbSchedulerConfig) *dbScheduler {
	return &dbScheduler{opts: config}
}

// The scheduler is responsible for deleting old data from the DB.
// It can maintain the required amount of data in the DB or delete old data
// depending on the configuration.
type dbScheduler struct {
	opts dbSchedulerConfig
}

// processOutdatedSamples retrieves the samples of the specified dataset that
// are older than the configured storage time and performs bulk deletion.
func (s *dbScheduler) processOutdatedSamples(
	dataset string,
	fetchFn fetchSamplesByDatasetFn,
	deleteFn deleteSamplesFn,
) error {
	samples, err := fetchFn(dataset, func(sample model.Sample) bool {
		// only processed samples with a creation date older than specified in the settings
		return sample.Status == model.StatusProcessed && time.Since(sample.CreatedAt) > s.opts.maxStorageTime
	})

	if err != nil {
		return fmt.Errorf("unable find samples by dataset %s: %v", dataset, err)
	}

	if err := deleteFn(context.Background(), samples); err != nil {
		return fmt.Errorf("unable delete outdated samples of dataset %s: %v", dataset, err)
	}
	return nil
}

// processOverSizeSamples retrieves all samples of the specified dataset,
// sorts by date added, and deletes the oldest ones.
func (s *dbScheduler) processOverSizeSamples(
	dataset string,
	fetchFn fetchSamplesByDatasetFn,
	deleteFn deleteSamplesFn,
) error {
	samples, err := fetchFn(dataset, func(sample model.Sample) bool {
		return sample.Status == model.StatusProcessed // only the processed values
	})

	if err != nil {
		return fmt.Errorf("unable find samples by dataset %s: %v", dataset, err)
	}

	if len(samples) <= s.opts.maxItemsStored {
		return nil
	}

	// Sorting the samples. This can be a costly operation for large values.
	sort.Slice(samples, func(i, j int) bool {
		return samples[i].CreatedAt.UnixNano() < samples[j].CreatedAt.UnixNano()
	})

	// Deleting a slice from the first n sorted samples
	if err := deleteFn(context.Background(), samples[:len(samples)-s.opts.maxItemsStored]); err != nil {
		return fmt.Errorf("unable delete resizable samples of dataset %s: %v", dataset, err)
	}
	return nil
}

// rebuildOutdated gets all dataset names and checks each dataset for
// outdated samples
func (s *dbScheduler) rebuildOutdated(
	keysFn fetchKeysFn,
	fetchFn fetchSamplesByDatasetFn,
	deleteFn deleteSamplesFn,
) error {
	keys, err := keysFn()
	if err != nil {
		return fmt.Errorf("unable to fetch dataset keys: %v", err)
	}
	for i := range keys {
		if err := s.processOutdatedSamples(keys[i], fetchFn, deleteFn); err != nil {
			return fmt.Errorf("unable process samples: %v", err)
		}
	}
	return nil
}

// rebuildSize gets all dataset names and checks the number of stored samples
// of each dataset
func (s *dbScheduler) rebuildSize(
	keysFn fetchKeysFn,
	countFn countByDatasetFn,
	fetchFn fetchSamplesByDatasetFn,
	deleteFn deleteSamplesFn,
) error {
	keys, err := keysFn()
	if err != nil {
		return fmt.Errorf("unable fetch keys: %v", err)
	}
	for i := range keys {
		// getting the number of samples for the dataset
		length, err := countFn(keys[i])
		if err != nil {
			return fmt.Errorf("unable count by dataset %s: %v", keys[i], err)
		}
		// If the number of elements in the dataset is greater than the one
		// specified in the configuration, then run the processOverSizeSamples
		if length > s.opts.maxItemsStored {
			if err := s.processOverSizeSamples(keys[i], fetchFn, deleteFn); err != nil {
				return fmt.Errorf("unable process samples: %v", err)
			}
		}
	}

	return nil
}

// Scheduler for running data cleanup functions in the DB
func (s *dbScheduler) schedule(
	ctx context.Context,
	keysFn fetchKeysFn,
	countFn countByDatasetFn,
	fetchFn fetchSamplesByDatasetFn,
	deleteFn deleteSamplesFn,
) {
	logger := logging.FromContext(ctx)
	ticker := time.NewTicker(s.opts.rebuildDBTime)
	defer ticker.Stop()
	for {
		select {
		case <-ticker.C:
			if s.opts.maxItemsStored > 0 {
				if err := s.rebuildSize(keysFn, countFn, fetchFn, deleteFn); err != nil {
					logger.Errorf("unable db rebuild size: %v", err)
				}
			}
			if s.opts.maxStorageTime > 0 {
				if err := s.rebuildOutdated(keysFn, fetchFn, deleteFn); err != nil {
					logger.Errorf("unable db rebuild outdated: %v", err)
				}
			}
		case <-ctx.Done():
			return
		}
	}
}
