package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-skc/skc/internal/geom"
	"github.com/go-skc/skc/internal/sample/model"
)

// ErrMalformedRecord reports a CSV record that cannot become a sample: a
// ragged row, a non numeric feature or a missing label. Row and Field are
// one based, a zero Field means the whole record. Unwrap exposes the parse
// error underneath, csv.ErrFieldCount included.
type ErrMalformedRecord struct {
	Dataset string
	Row     int
	Field   int
	Err     error
}

func (e *ErrMalformedRecord) Error() string {
	if e.Field > 0 {
		return fmt.Sprintf("malformed record in dataset %s, row %d, field %d: %v", e.Dataset, e.Row, e.Field, e.Err)
	}
	return fmt.Sprintf("malformed record in dataset %s, row %d: %v", e.Dataset, e.Row, e.Err)
}

func (e *ErrMalformedRecord) Unwrap() error {
	return e.Err
}

type LoadOptions struct {
	header bool
	comma  rune
}

type LoadOption func(*LoadOptions)

// WithHeader skips the first record of the file.
func WithHeader() LoadOption {
	return func(o *LoadOptions) {
		o.header = true
	}
}

func WithComma(r rune) LoadOption {
	return func(o *LoadOptions) {
		o.comma = r
	}
}

// LoadCSV reads training samples for one dataset. Every record is at least
// one float feature field followed by exactly one trailing label field. The
// first failing record aborts the load with ErrMalformedRecord.
func LoadCSV(dataset string, r io.Reader, opts ...LoadOption) ([]model.Sample, error) {
	o := LoadOptions{comma: ','}
	for _, f := range opts {
		f(&o)
	}
	reader := csv.NewReader(r)
	reader.Comma = o.comma

	var samples []model.Sample
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			var parseErr *csv.ParseError
			if errors.As(err, &parseErr) {
				return nil, &ErrMalformedRecord{Dataset: dataset, Row: parseErr.Line, Field: parseErr.Column, Err: parseErr.Err}
			}
			return nil, &ErrMalformedRecord{Dataset: dataset, Row: row + 1, Err: err}
		}
		row++
		if o.header && row == 1 {
			continue
		}
		if len(record) < 2 {
			return nil, &ErrMalformedRecord{
				Dataset: dataset,
				Row:     row,
				Err:     fmt.Errorf("expected at least one feature and a label, got %d fields", len(record)),
			}
		}
		vec := make([]float64, len(record)-1)
		for i := 0; i < len(record)-1; i++ {
			v, err := strconv.ParseFloat(strings.TrimSpace(record[i]), 64)
			if err != nil {
				return nil, &ErrMalformedRecord{Dataset: dataset, Row: row, Field: i + 1, Err: err}
			}
			vec[i] = v
		}
		label := strings.TrimSpace(record[len(record)-1])
		if label == "" {
			return nil, &ErrMalformedRecord{
				Dataset: dataset,
				Row:     row,
				Field:   len(record),
				Err:     fmt.Errorf("empty label"),
			}
		}
		samples = append(samples, model.NewSample(dataset, geom.New(vec), label, time.Now(), nil))
	}
	return samples, nil
}

// LoadCSVFile is LoadCSV over a file path.
func LoadCSVFile(dataset, path string, opts ...LoadOption) ([]model.Sample, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("unable open dataset file %s: %w", path, err)
	}
	defer f.Close()
	samples, err := LoadCSV(dataset, f, opts...)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", path, err)
	}
	return samples, nil
}
