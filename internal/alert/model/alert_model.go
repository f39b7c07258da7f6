package model

import (
	"time"

	"github.com/google/uuid"

	"github.com/go-skc/skc/internal/sample/model"
)

func NewAlert(dataset string, samples []model.Sample) Alert {
	return Alert{
		ID:        uuid.New(),
		Dataset:   dataset,
		Samples:   samples,
		CreatedAt: time.Now(),
	}
}

// Alert is a batch of classified samples waiting for delivery to a target.
type Alert struct {
	ID        uuid.UUID      `json:"id"`
	Dataset   string         `json:"dataset"`
	Samples   []model.Sample `json:"samples"`
	CreatedAt time.Time      `json:"createdAt"`
}
