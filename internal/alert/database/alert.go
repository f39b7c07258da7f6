package database

import (
	"context"
	"encoding/json"
	"fmt"

	bolt "go.etcd.io/bbolt"

	"github.com/go-skc/skc/internal/alert/model"
	"github.com/go-skc/skc/internal/database"
)

const (
	alertKeys = "alert:keys:"
	prefix    = "alert:"
)

type FilterFn func(alert model.Alert) bool

func New(db *database.DB) *DB {
	return &DB{sDB: db}
}

// DB keeps alerts that were not delivered before shutdown.
type DB struct {
	sDB *database.DB
}

func (db *DB) Keys() ([]string, error) {
	var bucketKeys []string
	err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		b := tx.Bucket([]byte(alertKeys))
		if b == nil {
			return nil
		}
		c := b.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			bucketKeys = append(bucketKeys, string(k))
		}
		return nil
	})
	return bucketKeys, err
}

func (db *DB) Store(_ context.Context, alert model.Alert) error {
	var b *bolt.Bucket
	bytes, err := json.Marshal(alert)
	if err != nil {
		return err
	}
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b = tx.Bucket([]byte(prefix + alert.Dataset))
		if b == nil {
			b, err = tx.CreateBucket([]byte(prefix + alert.Dataset))
			if err != nil {
				return fmt.Errorf("create bucket: %w", err)
			}
		}
		if err := b.Put([]byte(alert.ID.String()), bytes); err != nil {
			return fmt.Errorf("put to bucket error: %w", err)
		}
		b = tx.Bucket([]byte(alertKeys))
		if b == nil {
			b, err = tx.CreateBucket([]byte(alertKeys))
			if err != nil {
				return fmt.Errorf("unable create alert keys bucket: %w", err)
			}
		}
		if err := b.Put([]byte(prefix+alert.Dataset), []byte{0x0}); err != nil {
			return fmt.Errorf("unable put to alert keys bucket: %w", err)
		}
		return nil
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}
	return nil
}

func (db *DB) Delete(_ context.Context, alert model.Alert) error {
	var b *bolt.Bucket
	if err := db.sDB.DB.Update(func(tx *bolt.Tx) error {
		b = tx.Bucket([]byte(prefix + alert.Dataset))
		if b == nil {
			return nil
		}

		return b.Delete([]byte(alert.ID.String()))
	}); err != nil {
		return fmt.Errorf("update transaction error: %v", err)
	}
	return nil
}

func (db *DB) FindAll(_ context.Context, filter FilterFn) ([]model.Alert, error) {
	var alerts []model.Alert
	if err := db.sDB.DB.View(func(tx *bolt.Tx) error {
		keysBucket := tx.Bucket([]byte(alertKeys))
		if keysBucket == nil {
			return nil
		}

		var keys []string
		c := keysBucket.Cursor()
		for k, _ := c.First(); k != nil; k, _ = c.Next() {
			keys = append(keys, string(k))
		}

		for _, key := range keys {
			b := tx.Bucket([]byte(key))
			if b == nil {
				continue
			}
			c := b.Cursor()
			for k, v := c.First(); k != nil; k, v = c.Next() {
				var a model.Alert
				if err := json.Unmarshal(v, &a); err != nil {
					return fmt.Errorf("alert unmarshal error, %q", err)
				}
				if filter == nil || filter(a) {
					alerts = append(alerts, a)
				}
			}
		}
		return nil
	}); err != nil {
		return nil, fmt.Errorf("view transaction error: %v", err)
	}

	return alerts, nil
}
