package knn

import (
	"fmt"
	"time"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/classifier/knn/brute"
)

const MinK = 1

type AlgType string

const (
	AlgTypeBrute AlgType = "BRUTE"
)

// Config holds the knn tuning. K zero switches to the AutoK heuristic.
type Config struct {
	K       int     `envconfig:"SKC_KNN_K" default:"0"`
	AlgType AlgType `envconfig:"SKC_KNN_ALG_TYPE" default:"BRUTE"`
}

func NNFor(a AlgType, maxItems int, maxTime time.Duration, distFn classifier.PointsDistanceFn) (classifier.NNAlg, error) {
	switch a {
	case AlgTypeBrute:
		return brute.NewBruteAlg(distFn, brute.WithMaxItems(maxItems), brute.WithStorageTime(maxTime)), nil
	default:
		return nil, fmt.Errorf("unable to create alg with alg type %s", a)
	}
}
