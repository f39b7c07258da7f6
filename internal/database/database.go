package database

import (
	"context"
	"fmt"
	"time"

	bolt "go.etcd.io/bbolt"

	"github.com/go-skc/skc/internal/logging"
)

// DB wraps the bolt handle shared by the sample and alert stores.
type DB struct {
	DB *bolt.DB
}

func NewFromEnv(ctx context.Context, config *Config) (*DB, error) {
	logger := logging.FromContext(ctx)
	logger.Infof("opening database %s", config.FileName)

	// Open blocks on the file lock unless given a timeout.
	db, err := bolt.Open(config.FileName, 0600, &bolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open database %s: %w", config.FileName, err)
	}

	return &DB{DB: db}, nil
}

func (db *DB) Close(ctx context.Context) error {
	logging.FromContext(ctx).Infof("closing database")

	if err := db.DB.Close(); err != nil {
		return fmt.Errorf("close database: %w", err)
	}

	return nil
}
