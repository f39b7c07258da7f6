package util

import (
	"bytes"
	"crypto/sha256"
	"fmt"
	"sync"

	xdr "github.com/davecgh/go-xdr/xdr2"
)

var bufPool = sync.Pool{
	New: func() interface{} { return &bytes.Buffer{} },
}

// HashVector returns a digest usable as a cache key part. XDR encoding gives
// every float a single canonical byte form, so equal vectors always hash the
// same way.
func HashVector(vec []float64) ([32]byte, error) {
	buffer := bufPool.Get().(*bytes.Buffer)
	defer func() {
		buffer.Reset()
		bufPool.Put(buffer)
	}()
	if _, err := xdr.Marshal(buffer, vec); err != nil {
		return [32]byte{}, fmt.Errorf("unable to encode vector: %w", err)
	}
	return sha256.Sum256(buffer.Bytes()), nil
}
