package brute

import (
	"errors"
	"testing"
	"time"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/geom"
)

type testPoint struct {
	vec   geom.Point
	label string
	t     time.Time
}

func (p testPoint) Vector() classifier.Vector { return p.vec }
func (p testPoint) Label() string             { return p.label }
func (p testPoint) Time() time.Time           { return p.t }

func buildPoints(rows [][]float64, labels []string) []classifier.DataPoint {
	base := time.Date(2020, 8, 1, 0, 0, 0, 0, time.UTC)
	data := make([]classifier.DataPoint, len(rows))
	for i := range rows {
		data[i] = testPoint{vec: geom.New(rows[i]), label: labels[i], t: base}
	}
	return data
}

func TestBrute_NeighborsOrdered(t *testing.T) {
	b := NewBruteAlg(geom.EuclideanDistance)
	b.Build(buildPoints([][]float64{{3, 0}, {1, 0}, {2, 0}}, []string{"C", "A", "B"})...)
	neighbors, err := b.Neighbors(geom.New([]float64{0, 0}), 3)
	if err != nil {
		t.Fatalf("the error should not be returned, got %v", err)
	}
	expectedLabels := []string{"A", "B", "C"}
	expectedDistances := []float64{1, 2, 3}
	if len(neighbors) != 3 {
		t.Fatalf("neighbors count, got: %d, expected: %d", len(neighbors), 3)
	}
	for i := range neighbors {
		if neighbors[i].Label != expectedLabels[i] {
			t.Errorf("neighbor %d label, got: %s, expected: %s", i, neighbors[i].Label, expectedLabels[i])
		}
		if neighbors[i].Distance != expectedDistances[i] {
			t.Errorf("neighbor %d distance, got: %f, expected: %f", i, neighbors[i].Distance, expectedDistances[i])
		}
	}
}

func TestBrute_NeighborsClamped(t *testing.T) {
	b := NewBruteAlg(geom.EuclideanDistance)
	b.Build(buildPoints([][]float64{{1, 0}, {2, 0}, {3, 0}}, []string{"A", "B", "C"})...)
	neighbors, err := b.Neighbors(geom.New([]float64{0, 0}), 10)
	if err != nil {
		t.Fatalf("the error should not be returned, got %v", err)
	}
	if len(neighbors) != 3 {
		t.Errorf("all stored points must be returned, got: %d, expected: %d", len(neighbors), 3)
	}
}

func TestBrute_NeighborsTieKeepsStorageOrder(t *testing.T) {
	b := NewBruteAlg(geom.EuclideanDistance)
	b.Build(buildPoints(
		[][]float64{{1, 0}, {-1, 0}, {0, 1}, {0, -1}},
		[]string{"a", "b", "c", "d"},
	)...)
	neighbors, err := b.Neighbors(geom.New([]float64{0, 0}), 2)
	if err != nil {
		t.Fatalf("the error should not be returned, got %v", err)
	}
	if len(neighbors) != 2 {
		t.Fatalf("neighbors count, got: %d, expected: %d", len(neighbors), 2)
	}
	if neighbors[0].Seq != 0 || neighbors[1].Seq != 1 {
		t.Errorf("equal distances must keep storage order, got: %d %d", neighbors[0].Seq, neighbors[1].Seq)
	}
}

func TestBrute_NeighborsPrefixStable(t *testing.T) {
	b := NewBruteAlg(geom.EuclideanDistance)
	b.Build(buildPoints(
		[][]float64{{1, 0}, {2, 0}, {3, 0}, {4, 0}, {5, 0}},
		[]string{"a", "b", "c", "d", "e"},
	)...)
	full, err := b.Neighbors(geom.New([]float64{0, 0}), 5)
	if err != nil {
		t.Fatalf("the error should not be returned, got %v", err)
	}
	for k := 1; k < 5; k++ {
		part, err := b.Neighbors(geom.New([]float64{0, 0}), k)
		if err != nil {
			t.Fatalf("the error should not be returned, got %v", err)
		}
		if len(part) != k {
			t.Fatalf("neighbors count for k=%d, got: %d", k, len(part))
		}
		for i := range part {
			if part[i].Seq != full[i].Seq {
				t.Errorf("k=%d neighbors must be a prefix of k=5, got seq %d at %d, expected %d",
					k, part[i].Seq, i, full[i].Seq)
			}
		}
	}
}

func TestBrute_NeighborsInvalidK(t *testing.T) {
	b := NewBruteAlg(geom.EuclideanDistance)
	b.Build(buildPoints([][]float64{{1, 0}}, []string{"a"})...)
	if _, err := b.Neighbors(geom.New([]float64{0, 0}), 0); !errors.Is(err, classifier.ErrInvalidK) {
		t.Errorf("zero k must be rejected, got: %v", err)
	}
}

func TestBrute_NeighborsDimGuard(t *testing.T) {
	b := NewBruteAlg(geom.EuclideanDistance)
	b.Build(buildPoints([][]float64{{1, 0}}, []string{"a"})...)
	if _, err := b.Neighbors(geom.New([]float64{0, 0, 0}), 1); !errors.Is(err, geom.ErrDimNotEqual) {
		t.Errorf("mismatched vector length must surface the distance guard, got: %v", err)
	}
}

func TestBrute_DimsLenReset(t *testing.T) {
	b := NewBruteAlg(geom.EuclideanDistance)
	if b.Dims() != 0 || b.Len() != 0 {
		t.Fatalf("empty alg must report zero dims and len, got: %d %d", b.Dims(), b.Len())
	}
	b.Build(buildPoints([][]float64{{1, 0, 2}, {2, 1, 1}}, []string{"a", "b"})...)
	if b.Dims() != 3 {
		t.Errorf("dims, got: %d, expected: %d", b.Dims(), 3)
	}
	if b.Len() != 2 {
		t.Errorf("len, got: %d, expected: %d", b.Len(), 2)
	}
	b.Reset()
	if b.Dims() != 0 || b.Len() != 0 {
		t.Errorf("reset must clear dims and len, got: %d %d", b.Dims(), b.Len())
	}
}
