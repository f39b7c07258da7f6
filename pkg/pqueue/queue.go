// Package pqueue is a small priority queue over float64 priorities. It backs
// the nearest neighbor scan, where the cap is tiny next to the number of
// pushes, so items stay sorted and everything past the cap is cut on the way
// in.
package pqueue

import "sort"

func WithOrderAsc() Option {
	return func(q *Queue) {
		q.order = orderAsc
	}
}

func WithOrderDesc() Option {
	return func(q *Queue) {
		q.order = orderDesc
	}
}

func WithCap(size uint) Option {
	return func(q *Queue) {
		q.cap = int(size)
	}
}

type Option func(*Queue)

type order uint8

const (
	orderAsc order = iota
	orderDesc
)

type item struct {
	value interface{}
	prior float64
}

func New(opts ...Option) *Queue {
	p := &Queue{order: orderAsc, cap: -1}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Queue keeps items ordered by priority. Items with equal priority keep their
// push order, so repeated fills produce identical sequences. A capped queue
// holds at most cap items and drops the worst ones.
type Queue struct {
	order order
	cap   int
	items []item
}

// Push inserts val behind every item that sorts before or equal to priority.
func (q *Queue) Push(val interface{}, priority float64) {
	idx := sort.Search(len(q.items), func(i int) bool {
		if q.order == orderAsc {
			return q.items[i].prior > priority
		}
		return q.items[i].prior < priority
	})
	q.items = append(q.items, item{})
	copy(q.items[idx+1:], q.items[idx:])
	q.items[idx] = item{value: val, prior: priority}
	if q.cap >= 0 && len(q.items) > q.cap {
		q.items = q.items[:q.cap]
	}
}

func (q *Queue) PopAll() []interface{} {
	pulled := make([]interface{}, len(q.items))
	for i := range q.items {
		pulled[i] = q.items[i].value
	}
	q.items = q.items[:0]
	return pulled
}

func (q *Queue) Head() interface{} {
	if len(q.items) == 0 {
		return nil
	}
	x := q.items[0]
	q.items = q.items[1:]
	return x.value
}

func (q *Queue) Tail() interface{} {
	l := len(q.items) - 1
	if l < 0 {
		return nil
	}
	x := q.items[l]
	q.items = q.items[:l]
	return x.value
}

func (q *Queue) Len() int {
	return len(q.items)
}

func (q *Queue) Seek(idx int) (interface{}, float64) {
	it := q.items[idx]
	return it.value, it.prior
}
