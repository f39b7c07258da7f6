package knn

import (
	"fmt"
	"math"
	"time"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/geom"
)

var _ classifier.Classifier = (*knn)(nil)

type Option func(*knn)

func WithK(k int) Option {
	return func(c *knn) {
		c.kNum = k
	}
}

// WithAutoK picks k from the dataset size on every prediction.
func WithAutoK() Option {
	return func(c *knn) {
		c.opts.autoK = true
	}
}

func WithMaxItems(n int) Option {
	return func(c *knn) {
		c.opts.maxItemsStored = n
	}
}

func WithStorageTime(t time.Duration) Option {
	return func(c *knn) {
		c.opts.maxStorageTime = t
	}
}

func WithDistance(f func(vec, vec1 []float64) (float64, error)) Option {
	return func(c *knn) {
		c.distFunc = f
	}
}

func WithAlg(alg AlgType) Option {
	return func(c *knn) {
		c.opts.algType = alg
	}
}

var defaultOptions = Options{algType: AlgTypeBrute}

type Options struct {
	algType        AlgType
	autoK          bool
	maxItemsStored int
	maxStorageTime time.Duration
}

func New(opts ...Option) (*knn, error) {
	c := &knn{
		kNum:     MinK,
		opts:     defaultOptions,
		distFunc: geom.EuclideanDistance,
	}
	for _, f := range opts {
		f(c)
	}
	if !c.opts.autoK && c.kNum < MinK {
		return nil, fmt.Errorf("unable creating knn instance: %w", classifier.ErrInvalidK)
	}
	alg, err := NNFor(c.opts.algType, c.opts.maxItemsStored, c.opts.maxStorageTime, c.distFunc)
	if err != nil {
		return nil, fmt.Errorf("unable creating knn instance, %v", err)
	}
	c.alg = alg
	return c, nil
}

type knn struct {
	opts     Options
	kNum     int
	alg      classifier.NNAlg
	distFunc classifier.PointsDistanceFn
}

func (c *knn) Len() int {
	return c.alg.Len()
}

func (c *knn) Dims() int {
	return c.alg.Dims()
}

func (c *knn) Reset() {
	c.alg.Reset()
}

func (c *knn) Build(data ...classifier.DataPoint) {
	c.alg.Build(data...)
}

func (c *knn) Append(data ...classifier.DataPoint) {
	c.alg.Append(data...)
}

func (c *knn) K() int {
	if c.opts.autoK {
		return AutoK(c.alg.Len())
	}
	return c.kNum
}

func (c *knn) DistanceFunc() func(vec, vec1 []float64) (float64, error) {
	return c.distFunc
}

// Predict classifies vec with the configured k, or with AutoK of the current
// dataset size when auto selection is on.
func (c *knn) Predict(vec classifier.Vector) (*classifier.Prediction, error) {
	return c.PredictK(vec, c.K())
}

// PredictK classifies vec against the k nearest stored points. k larger than
// the dataset means every stored point takes part in the vote.
func (c *knn) PredictK(vec classifier.Vector, k int) (*classifier.Prediction, error) {
	if k < MinK {
		return nil, classifier.ErrInvalidK
	}
	n := c.alg.Len()
	if n == 0 {
		return nil, classifier.ErrEmptyDataset
	}
	if dims := c.alg.Dims(); dims > 0 && vec.Dimensions() != dims {
		return nil, &classifier.ErrDimensionMismatch{Expected: dims, Actual: vec.Dimensions()}
	}
	if k > n {
		k = n
	}
	neighbors, err := c.alg.Neighbors(vec, k)
	if err != nil {
		return nil, fmt.Errorf("unable to predict %v: %w", vec, err)
	}
	return vote(neighbors), nil
}

// AutoK is the square root heuristic for picking k from the dataset size,
// rounded up and never below MinK.
func AutoK(n int) int {
	if n <= 0 {
		return MinK
	}
	k := int(math.Ceil(math.Sqrt(float64(n))))
	if k < MinK {
		k = MinK
	}
	return k
}

// vote counts the labels of the selected neighbors. The most frequent label
// wins, a tied count goes to the label whose first neighbor ranks nearest in
// the ascending distance order.
func vote(neighbors []classifier.Neighbor) *classifier.Prediction {
	counts := make(map[string]int, len(neighbors))
	firstAt := make(map[string]int, len(neighbors))
	for i, neighbor := range neighbors {
		if _, ok := firstAt[neighbor.Label]; !ok {
			firstAt[neighbor.Label] = i
		}
		counts[neighbor.Label]++
	}
	var winner string
	best := -1
	for i, neighbor := range neighbors {
		if firstAt[neighbor.Label] != i {
			continue
		}
		if counts[neighbor.Label] > best {
			best = counts[neighbor.Label]
			winner = neighbor.Label
		}
	}
	return &classifier.Prediction{
		Label:      winner,
		Votes:      best,
		Confidence: float64(best) / float64(len(neighbors)),
	}
}
