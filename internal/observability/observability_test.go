package observability

import "testing"

func TestValidDatasetName(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name     string
		dataset  string
		expected bool
	}{
		{name: "plain", dataset: "iris", expected: true},
		{name: "dashed", dataset: "iris-train", expected: true},
		{name: "empty", dataset: "", expected: false},
		{name: "broken utf8", dataset: string([]byte{0xff, 0xfe}), expected: false},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			if got := ValidDatasetName(test.dataset); got != test.expected {
				t.Errorf("dataset name %q, got: %v, expected: %v", test.dataset, got, test.expected)
			}
		})
	}
}
