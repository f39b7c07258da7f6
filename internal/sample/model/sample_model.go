package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/geom"
)

type Status uint8

const (
	StatusNew Status = iota
	StatusProcessed
)

func NewSample(dataset string, vec geom.Point, class string, createdAt time.Time, extra interface{}) Sample {
	return Sample{
		ID:        uuid.New(),
		Dataset:   dataset,
		Class:     class,
		Status:    StatusNew,
		Vec:       vec,
		CreatedAt: createdAt,
		Extra:     extra,
	}
}

var _ classifier.DataPoint = (*Sample)(nil)

// Sample is a stored vector of a dataset. A sample with a class is training
// data, one without is a query waiting for classification.
type Sample struct {
	ID         uuid.UUID   `json:"id"`
	Dataset    string      `json:"dataset"`
	Vec        geom.Point  `json:"vec"`
	Class      string      `json:"label"`
	Predicted  string      `json:"predicted,omitempty"`
	Confidence float64     `json:"confidence,omitempty"`
	Status     Status      `json:"status"`
	CreatedAt  time.Time   `json:"createdAt"`
	Extra      interface{} `json:"extra"`
}

func (m Sample) IsProcessed() bool {
	return m.Status == StatusProcessed
}

func (m Sample) IsNew() bool {
	return m.Status == StatusNew
}

func (m Sample) Labeled() bool {
	return m.Class != ""
}

func (m Sample) Vector() classifier.Vector {
	return m.Vec
}

func (m Sample) Label() string {
	return m.Class
}

func (m Sample) Time() time.Time {
	return m.CreatedAt
}
