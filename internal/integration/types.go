package integration

import "time"

type Row struct {
	Vec       []float64   `json:"vector"`
	Label     string      `json:"label,omitempty"`
	Extra     interface{} `json:"extra,omitempty"`
	CreatedAt time.Time   `json:"createdAt,omitempty"`
}

type Request struct {
	Dataset string `json:"dataset"`
	K       int    `json:"k,omitempty"`
	Data    []Row  `json:"data"`
}

type ResponseRow struct {
	Label      string      `json:"label"`
	Confidence float64     `json:"confidence"`
	Vec        []float64   `json:"vector"`
	Extra      interface{} `json:"extra"`
	CreatedAt  time.Time   `json:"createdAt"`
}

type Response struct {
	Dataset string        `json:"dataset"`
	Data    []ResponseRow `json:"data"`
}
