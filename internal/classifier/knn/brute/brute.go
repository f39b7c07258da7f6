package brute

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-skc/skc/internal/classifier"
	"github.com/go-skc/skc/internal/classifier/knn/avlnode"
	"github.com/go-skc/skc/pkg/container/avltree"
	"github.com/go-skc/skc/pkg/pqueue"
)

func WithMaxItems(n int) Option {
	return func(l *brute) {
		l.opts.maxItemsStored = n
	}
}

func WithStorageTime(t time.Duration) Option {
	return func(l *brute) {
		l.opts.maxStorageTime = t
	}
}

type Option func(*brute)

type Options struct {
	maxItemsStored int
	maxStorageTime time.Duration
}

const (
	rebuildOutdatedTime = 60 * time.Second
	rebuildSizeTime     = 5 * time.Second
)

func NewBruteAlg(distFn classifier.PointsDistanceFn, opts ...Option) *brute {
	b := &brute{distFunc: distFn, data: avltree.New(), createdAt: time.Now()}
	for _, opt := range opts {
		opt(b)
	}
	ctx, cancel := context.WithCancel(context.Background())
	b.cancel = cancel
	go b.schedule(ctx)
	return b
}

type brute struct {
	opts      Options
	mtx       sync.RWMutex
	data      *avltree.Tree
	dims      int
	seq       uint64
	createdAt time.Time
	distFunc  classifier.PointsDistanceFn
	cancel    func()
}

func (b *brute) Reset() {
	b.mtx.Lock()
	b.data = avltree.New()
	b.dims = 0
	b.seq = 0
	b.mtx.Unlock()
}

func (b *brute) Len() int {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return b.data.Len()
}

// Dims is the vector length of the stored points, zero while empty.
func (b *brute) Dims() int {
	b.mtx.RLock()
	defer b.mtx.RUnlock()
	return b.dims
}

func (b *brute) Build(data ...classifier.DataPoint) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.data == nil {
		b.data = avltree.New()
	}
	b.add(data...)
}

func (b *brute) Append(data ...classifier.DataPoint) {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	b.add(data...)
}

// Neighbors scans every stored point and returns the k nearest ordered by
// distance, then by storage order for exactly equal distances. Fewer than k
// stored points return them all.
func (b *brute) Neighbors(vec classifier.Vector, k int) ([]classifier.Neighbor, error) {
	if k < 1 {
		return nil, classifier.ErrInvalidK
	}
	b.mtx.RLock()
	list := b.data.Items()
	b.mtx.RUnlock()
	pq := pqueue.New(pqueue.WithCap(uint(k)))
	for _, item := range list {
		node := item.(avlnode.SeqNode)
		distance, err := b.distFunc(vec.Points(), node.V.Vector().Points())
		if err != nil {
			return nil, fmt.Errorf(
				"unable to compute distance between %v and %v: %w",
				vec.Points(), node.V.Vector().Points(),
				err,
			)
		}
		pq.Push(classifier.Neighbor{Label: node.V.Label(), Distance: distance, Seq: node.Seq}, distance)
	}
	neighbors := make([]classifier.Neighbor, pq.Len())
	for i, pData := range pq.PopAll() {
		neighbors[i] = pData.(classifier.Neighbor)
	}
	return neighbors, nil
}

// add requires b.mtx held.
func (b *brute) add(data ...classifier.DataPoint) {
	for _, dat := range data {
		if b.dims == 0 {
			b.dims = dat.Vector().Dimensions()
		}
		b.data.Add(avlnode.SeqNode{
			K:   dat.Time(),
			Seq: b.seq,
			V:   dat,
		})
		b.seq++
	}
}

func (b *brute) schedule(ctx context.Context) {
	outdatedTicker := time.NewTicker(rebuildOutdatedTime)
	sizeTicker := time.NewTicker(rebuildSizeTime)
	defer outdatedTicker.Stop()
	defer sizeTicker.Stop()
	for {
		select {
		case <-outdatedTicker.C:
			if b.opts.maxStorageTime > 0 {
				b.rebuildOutdated()
			}
		case <-sizeTicker.C:
			if b.opts.maxItemsStored > 0 {
				b.rebuildSize()
			}
		case <-ctx.Done():
			return
		}
	}
}

func (b *brute) rebuildOutdated() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if time.Since(b.createdAt) > b.opts.maxStorageTime {
		list := b.data.Filter(func(current avltree.Item) bool {
			return time.Since(current.(avlnode.SeqNode).K) > b.opts.maxStorageTime
		})

		for i := range list {
			b.data.Remove(list[i])
		}
		b.createdAt = time.Now()
	}
}

func (b *brute) rebuildSize() {
	b.mtx.Lock()
	defer b.mtx.Unlock()
	if b.data.Len() > b.opts.maxItemsStored {
		list := b.data.Items()
		sub := b.data.Len() - b.opts.maxItemsStored

		for i := range list[:sub] {
			b.data.Remove(list[i].(avlnode.SeqNode))
		}
	}
}
