package dispatcher

import (
	"context"
	"testing"

	"github.com/go-skc/skc/internal/alert"
	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/classifier/mocks"
	"github.com/go-skc/skc/internal/database"
)

func TestManager_Classify(t *testing.T) {
	tests := []struct {
		name        string
		shutdownCh  chan error
		expectedErr error
		expected    string
		db          *database.DB
		prediction  *classifier.Prediction
	}{
		{
			name:       "positive_classify",
			db:         &database.DB{},
			shutdownCh: make(chan error, 1),
			prediction: &classifier.Prediction{Label: "setosa", Confidence: 1, Votes: 1},
			expected:   "setosa",
		},
		{
			name:       "positive_classify",
			db:         &database.DB{},
			shutdownCh: make(chan error, 1),
			prediction: &classifier.Prediction{Label: "versicolor", Confidence: 0.6, Votes: 3},
			expected:   "versicolor",
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			alrt, _ := alert.New(test.db, test.shutdownCh)

			clf := &mocks.Classifier{}
			dataPoint := &mocks.DataPoint{}
			vec := &mocks.Vector{}
			vec.On("Points").Return([]float64{1, 1})
			vec.On("Dimensions").Return(2)
			dataPoint.On("Vector").Return(vec)
			clf.On("Predict", vec).Return(test.prediction, nil)
			m, _ := New(test.db, func() (classifier.Classifier, error) {
				return clf, nil
			}, alrt, test.shutdownCh)

			prediction, err := m.Classify(context.Background(), "test-dataset", dataPoint, 0)
			if err != test.expectedErr {
				t.Errorf("compute Classify, got: %v, expected: %v", err, test.expectedErr)
			}
			if prediction != nil && prediction.Label != test.expected {
				t.Errorf("compute Classify, got: %v, expected: %v", prediction.Label, test.expected)
			}
		})
	}
}

func TestManager_ClassifyWithK(t *testing.T) {
	shutdownCh := make(chan error, 1)
	db := &database.DB{}
	alrt, _ := alert.New(db, shutdownCh)

	clf := &mocks.Classifier{}
	dataPoint := &mocks.DataPoint{}
	vec := &mocks.Vector{}
	vec.On("Points").Return([]float64{1, 1})
	vec.On("Dimensions").Return(2)
	dataPoint.On("Vector").Return(vec)
	clf.On("PredictK", vec, 3).Return(&classifier.Prediction{Label: "setosa", Confidence: 1, Votes: 3}, nil)
	m, err := New(db, func() (classifier.Classifier, error) {
		return clf, nil
	}, alrt, shutdownCh)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	prediction, err := m.Classify(context.Background(), "test-dataset", dataPoint, 3)
	if err != nil {
		t.Fatalf("compute Classify, got: %v, expected: %v", err, nil)
	}
	if prediction.Label != "setosa" {
		t.Errorf("compute Classify, got: %v, expected: %v", prediction.Label, "setosa")
	}
	clf.AssertCalled(t, "PredictK", vec, 3)
}

func TestManager_NewValidation(t *testing.T) {
	shutdownCh := make(chan error, 1)
	db := &database.DB{}
	alrt, _ := alert.New(db, shutdownCh)

	if _, err := New(db, nil, alrt, shutdownCh); err == nil {
		t.Errorf("creating a manager without a classifier factory must fail")
	}
	if _, err := New(db, func() (classifier.Classifier, error) {
		return &mocks.Classifier{}, nil
	}, nil, shutdownCh); err == nil {
		t.Errorf("creating a manager without a notifier must fail")
	}
}
