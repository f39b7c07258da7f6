package ingest

import (
	"encoding/csv"
	"errors"
	"io/ioutil"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestLoadCSV(t *testing.T) {
	t.Parallel()
	samples, err := LoadCSV("iris", strings.NewReader("5.1,3.5,setosa\n6.2,2.9,versicolor\n"))
	if err != nil {
		t.Fatalf("calling the LoadCSV method, got an unexpected error: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("calling the LoadCSV method, the length of samples got: %v, expected: %v", len(samples), 2)
	}
	if samples[0].Dataset != "iris" {
		t.Errorf("the dataset of the loaded sample got: %v, expected: %v", samples[0].Dataset, "iris")
	}
	if samples[0].Class != "setosa" {
		t.Errorf("the class of the loaded sample got: %v, expected: %v", samples[0].Class, "setosa")
	}
	if samples[0].Vec.Dimensions() != 2 || samples[0].Vec.Point(0) != 5.1 || samples[0].Vec.Point(1) != 3.5 {
		t.Errorf("the vector of the loaded sample got: %v, expected: %v", samples[0].Vec.Points(), []float64{5.1, 3.5})
	}
	if !samples[1].Labeled() {
		t.Error("the loaded sample must be labeled")
	}
}

func TestLoadCSVHeader(t *testing.T) {
	t.Parallel()
	samples, err := LoadCSV("iris", strings.NewReader("sepal,petal,species\n5.1,3.5,setosa\n"), WithHeader())
	if err != nil {
		t.Fatalf("calling the LoadCSV method, got an unexpected error: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("calling the LoadCSV method with a header, the length of samples got: %v, expected: %v", len(samples), 1)
	}
	if samples[0].Class != "setosa" {
		t.Errorf("the class of the loaded sample got: %v, expected: %v", samples[0].Class, "setosa")
	}
}

func TestLoadCSVDelimiter(t *testing.T) {
	t.Parallel()
	samples, err := LoadCSV("iris", strings.NewReader("5.1;3.5;setosa\n"), WithComma(';'))
	if err != nil {
		t.Fatalf("calling the LoadCSV method, got an unexpected error: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("calling the LoadCSV method with a delimiter, the length of samples got: %v, expected: %v", len(samples), 1)
	}
}

func TestLoadCSVMalformed(t *testing.T) {
	t.Parallel()
	tests := []struct {
		name      string
		in        string
		wantRow   int
		wantField int
	}{
		{
			name:      "negative_non_numeric_feature",
			in:        "5.1,3.5,setosa\nfoo,2.9,versicolor\n",
			wantRow:   2,
			wantField: 1,
		},
		{
			name:      "negative_empty_label",
			in:        "5.1,3.5,setosa\n6.2,2.9,\n",
			wantRow:   2,
			wantField: 3,
		},
		{
			name:    "negative_single_field",
			in:      "setosa\n",
			wantRow: 1,
		},
	}
	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			t.Parallel()
			_, err := LoadCSV("iris", strings.NewReader(test.in))
			if err == nil {
				t.Fatal("calling the LoadCSV method with malformed input, expected an error")
			}
			var malformed *ErrMalformedRecord
			if !errors.As(err, &malformed) {
				t.Fatalf("calling the LoadCSV method with malformed input, the error type got: %T, expected: %T", err, malformed)
			}
			if malformed.Row != test.wantRow {
				t.Errorf("the row of the malformed record got: %v, expected: %v", malformed.Row, test.wantRow)
			}
			if test.wantField > 0 && malformed.Field != test.wantField {
				t.Errorf("the field of the malformed record got: %v, expected: %v", malformed.Field, test.wantField)
			}
		})
	}
}

func TestLoadCSVRaggedRow(t *testing.T) {
	t.Parallel()
	_, err := LoadCSV("iris", strings.NewReader("5.1,3.5,setosa\n6.2,versicolor\n"))
	if err == nil {
		t.Fatal("calling the LoadCSV method with a ragged row, expected an error")
	}
	var malformed *ErrMalformedRecord
	if !errors.As(err, &malformed) {
		t.Fatalf("calling the LoadCSV method with a ragged row, the error type got: %T, expected: %T", err, malformed)
	}
	if !errors.Is(err, csv.ErrFieldCount) {
		t.Errorf("the ragged row error must wrap csv.ErrFieldCount, got: %v", err)
	}
}

func TestLoadManifest(t *testing.T) {
	t.Parallel()
	dir, err := ioutil.TempDir("", "ingest")
	if err != nil {
		t.Fatalf("unable create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	csvPath := filepath.Join(dir, "iris.csv")
	if err := ioutil.WriteFile(csvPath, []byte("sepal;petal;species\n5.1;3.5;setosa\n"), 0600); err != nil {
		t.Fatalf("unable write dataset file: %v", err)
	}
	manifestPath := filepath.Join(dir, "datasets.toml")
	manifest := "[[dataset]]\nname = \"iris\"\npath = \"iris.csv\"\nheader = true\ndelimiter = \";\"\n"
	if err := ioutil.WriteFile(manifestPath, []byte(manifest), 0600); err != nil {
		t.Fatalf("unable write manifest file: %v", err)
	}

	m, err := LoadManifest(manifestPath)
	if err != nil {
		t.Fatalf("calling the LoadManifest method, got an unexpected error: %v", err)
	}
	if len(m.Datasets) != 1 {
		t.Fatalf("calling the LoadManifest method, the length of datasets got: %v, expected: %v", len(m.Datasets), 1)
	}
	if m.Datasets[0].Path != csvPath {
		t.Errorf("the resolved dataset path got: %v, expected: %v", m.Datasets[0].Path, csvPath)
	}

	samples, err := LoadCSVFile(m.Datasets[0].Name, m.Datasets[0].Path, m.Datasets[0].Options()...)
	if err != nil {
		t.Fatalf("calling the LoadCSVFile method, got an unexpected error: %v", err)
	}
	if len(samples) != 1 {
		t.Fatalf("calling the LoadCSVFile method, the length of samples got: %v, expected: %v", len(samples), 1)
	}
	if samples[0].Class != "setosa" {
		t.Errorf("the class of the loaded sample got: %v, expected: %v", samples[0].Class, "setosa")
	}
}

func TestLoadManifestValidation(t *testing.T) {
	t.Parallel()
	dir, err := ioutil.TempDir("", "ingest")
	if err != nil {
		t.Fatalf("unable create temp dir: %v", err)
	}
	defer os.RemoveAll(dir)

	manifestPath := filepath.Join(dir, "datasets.toml")
	if err := ioutil.WriteFile(manifestPath, []byte("[[dataset]]\npath = \"iris.csv\"\n"), 0600); err != nil {
		t.Fatalf("unable write manifest file: %v", err)
	}
	if _, err := LoadManifest(manifestPath); err == nil {
		t.Error("calling the LoadManifest method without a dataset name, expected an error")
	}
}
