package classifier

import (
	"time"
)

type ProvideFn func() (Classifier, error)

type PointsDistanceFn func(vec, vec1 []float64) (float64, error)

type Vector interface {
	Point(idx int) float64
	Dimensions() int
	Points() []float64
}

// DataPoint is a single stored sample. Label is empty for unlabeled points.
type DataPoint interface {
	Vector() Vector
	Label() string
	Time() time.Time
}

// Classifier assigns a label to a vector from the labeled points it stores.
type Classifier interface {
	Reset()
	Len() int
	Dims() int
	Build(data ...DataPoint)
	Append(data ...DataPoint)
	Predict(vec Vector) (*Prediction, error)
	PredictK(vec Vector, k int) (*Prediction, error)
}

// NNAlg selects the nearest stored points for a vector.
type NNAlg interface {
	Reset()
	Len() int
	Dims() int
	Build(data ...DataPoint)
	Append(data ...DataPoint)
	Neighbors(vec Vector, k int) ([]Neighbor, error)
}

// Neighbor is a stored point selected during a prediction. Seq is the
// storage order of the point, Distance its distance to the query vector.
type Neighbor struct {
	Label    string
	Distance float64
	Seq      uint64
}

// Prediction is the vote outcome. Confidence is the fraction of selected
// neighbors that carry the winning label.
type Prediction struct {
	Label      string
	Confidence float64
	Votes      int
}
