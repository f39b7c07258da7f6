package geom

import "testing"

func TestPoint_Dimensions(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		expected int
	}{
		{
			name:     "positive",
			p:        New([]float64{1, 2, 3, 4, 5}),
			expected: 5,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			cmp := test.p.Dimensions()
			if cmp != test.expected {
				t.Errorf("the comparison is incorrect got: %v, expected: %v", cmp, test.expected)
			}
		})
	}
}

func TestPoint_Points(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		slice    []float64
		expected bool
	}{
		{name: "positive", p: New([]float64{1, 2, 3}), slice: []float64{1, 2, 3}, expected: true},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			slice := test.p.Points()
			for i := range slice {
				if slice[i] != test.slice[i] {
					t.Errorf(
						"conversion to []float64 got: slice[%d] != test.slice[%d], "+
							"expected: slice[%d] == test.slice[%d]", i, i, i, i)
				}
			}
		})
	}
}

func TestPoint_Equal(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		p1       Point
		expected bool
	}{
		{
			name:     "positive",
			p:        Point{10, 10},
			p1:       Point{10, 10},
			expected: true,
		},
		{
			name:     "negative",
			p:        Point{10, 10},
			p1:       Point{11, 10},
			expected: false,
		},
		{
			name:     "negative",
			p:        Point{10, 10},
			p1:       Point{10},
			expected: false,
		},
	}
	for _, test := range tests {
		if test.p.Equal(test.p1) != test.expected {
			t.Errorf("the comparison of points, got: %v, expected: %v", test.p.Equal(test.p1), test.expected)
		}
	}
}

func TestPoint_SizeEqual(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		p1       Point
		expected bool
	}{
		{
			name:     "positive",
			p:        Point{10, 10},
			p1:       Point{10, 10},
			expected: true,
		},
		{
			name:     "negative",
			p:        Point{10, 10},
			p1:       Point{11},
			expected: false,
		},
	}
	for _, test := range tests {
		if test.p.SizeEqual(test.p1) != test.expected {
			t.Errorf("comparison of the size of the points, got: %v, expected: %v", test.p.SizeEqual(test.p1), test.expected)
		}
	}
}

func TestPoint_Point(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		p        Point
		expected float64
		idx      int
	}{
		{name: "positive", p: New([]float64{1, 2, 3}), idx: 0, expected: 1},
		{name: "positive", p: New([]float64{1, 2, 3}), idx: 1, expected: 2},
		{name: "positive", p: New([]float64{1, 2, 3}), idx: 2, expected: 3},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			got := test.p.Point(test.idx)
			if test.expected != got {
				t.Errorf("dimension specified incorrectly, got: %f, expected: %f", got, test.expected)
			}
		})
	}
}

func TestPoint_Copy(t *testing.T) {
	t.Parallel()
	p := New([]float64{1, 2, 3})
	p1 := p.Copy()
	p1[0] = 42
	if p[0] != 1 {
		t.Errorf("the copy must not share memory with the original, got: %f", p[0])
	}
	if !p1.Equal(Point{42, 2, 3}) {
		t.Errorf("the copy contains wrong values, got: %v", p1)
	}
}
