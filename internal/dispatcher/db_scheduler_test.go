package dispatcher

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/go-skc/skc/internal/geom"
	sampleDb "github.com/go-skc/skc/internal/sample/database"
	"github.com/go-skc/skc/internal/sample/model"
)

func processedSample(dataset string, createdAt time.Time) model.Sample {
	sample := model.NewSample(dataset, geom.Point{1, 1, 1, 1}, "test", createdAt, nil)
	sample.Status = model.StatusProcessed
	return sample
}

func TestProcessOverSizeSamples(t *testing.T) {
	tests := []struct {
		name           string
		maxItemsStored int
		expectedErr    error
		expectedLen    int
		batch          []model.Sample
	}{
		{
			name:           "positive_process_over_size_samples",
			maxItemsStored: 3,
			batch: []model.Sample{
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
			},
			expectedLen: 3,
			expectedErr: nil,
		},
		{
			name:           "negative_process_over_size_samples",
			maxItemsStored: 3,
			batch: []model.Sample{
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
			},
			expectedLen: 3,
			expectedErr: errors.New("test error"),
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			scheduler := &dbScheduler{opts: dbSchedulerConfig{maxItemsStored: test.maxItemsStored}}
			err := scheduler.processOverSizeSamples(
				"test-samples",
				func(s string, fn sampleDb.FilterFn) ([]model.Sample, error) {
					return test.batch, test.expectedErr
				},
				func(ctx context.Context, samples []model.Sample) error {
					test.batch = test.batch[0:test.maxItemsStored]
					return test.expectedErr
				},
			)
			if test.expectedErr != nil && err == nil {
				t.Errorf(
					"calling the processOverSizeSamples method, err got: %v, expected: %v",
					err,
					test.expectedErr,
				)
			}
			if err == nil && len(test.batch) != test.expectedLen {
				t.Errorf(
					"calling the processOverSizeSamples method, the length of data got: %v, expected: %v",
					len(test.batch),
					test.expectedLen,
				)
			}
		})
	}
}

func TestProcessOverSizeSamplesUnderLimit(t *testing.T) {
	scheduler := &dbScheduler{opts: dbSchedulerConfig{maxItemsStored: 10}}
	deleted := false
	err := scheduler.processOverSizeSamples(
		"test-samples",
		func(s string, fn sampleDb.FilterFn) ([]model.Sample, error) {
			return []model.Sample{
				processedSample("test-data", time.Now()),
				processedSample("test-data", time.Now()),
			}, nil
		},
		func(ctx context.Context, samples []model.Sample) error {
			deleted = true
			return nil
		},
	)
	if err != nil {
		t.Errorf("calling the processOverSizeSamples method, err got: %v, expected: %v", err, nil)
	}
	if deleted {
		t.Errorf("calling the processOverSizeSamples method under the limit must not delete samples")
	}
}

func TestProcessOutdatedSamples(t *testing.T) {
	tests := []struct {
		name           string
		maxStorageTime time.Duration
		expectedErr    error
		expectedLen    int
		batch          []model.Sample
	}{
		{
			name:           "positive_process_outdated_samples",
			maxStorageTime: time.Hour,
			batch: []model.Sample{
				processedSample("test-data", time.Now().Add(-2*time.Hour)),
				processedSample("test-data", time.Now().Add(-3*time.Hour)),
			},
			expectedLen: 2,
			expectedErr: nil,
		},
		{
			name:           "negative_process_outdated_samples",
			maxStorageTime: time.Hour,
			batch: []model.Sample{
				processedSample("test-data", time.Now().Add(-2*time.Hour)),
			},
			expectedLen: 1,
			expectedErr: errors.New("test error"),
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			scheduler := &dbScheduler{opts: dbSchedulerConfig{maxStorageTime: test.maxStorageTime}}
			deletedLen := 0
			err := scheduler.processOutdatedSamples(
				"test-samples",
				func(s string, fn sampleDb.FilterFn) ([]model.Sample, error) {
					var outdated []model.Sample
					for _, sample := range test.batch {
						if fn(sample) {
							outdated = append(outdated, sample)
						}
					}
					return outdated, test.expectedErr
				},
				func(ctx context.Context, samples []model.Sample) error {
					deletedLen = len(samples)
					return nil
				},
			)
			if test.expectedErr != nil && err == nil {
				t.Errorf(
					"calling the processOutdatedSamples method, err got: %v, expected: %v",
					err,
					test.expectedErr,
				)
			}
			if err == nil && deletedLen != test.expectedLen {
				t.Errorf(
					"calling the processOutdatedSamples method, the length of data got: %v, expected: %v",
					deletedLen,
					test.expectedLen,
				)
			}
		})
	}
}
