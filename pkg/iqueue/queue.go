// Package iqueue is an unbounded FIFO between one producer and a pool of
// consumers. Send never waits on a slow consumer: Loop parks values in a
// backlog until a receiver is ready for them.
package iqueue

import (
	"container/list"
	"sync"
)

func New() *Queue {
	return &Queue{
		backlog: list.New(),
		in:      make(chan interface{}, 1),
		out:     make(chan interface{}, 1),
	}
}

type Queue struct {
	mtx     sync.Mutex
	backlog *list.List
	in      chan interface{}
	out     chan interface{}
}

func (q *Queue) Send(v interface{}) {
	q.in <- v
}

func (q *Queue) Receive() <-chan interface{} {
	return q.out
}

func (q *Queue) Len() int {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return q.backlog.Len()
}

// PopFront takes the oldest parked value, bypassing Receive. Consumers that
// stopped receiving drain the backlog through it.
func (q *Queue) PopFront() (interface{}, bool) {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	front := q.backlog.Front()
	if front == nil {
		return nil, false
	}
	q.backlog.Remove(front)
	return front.Value, true
}

// Loop moves values from Send to Receive, parking them while no consumer is
// ready. It runs until the process ends.
func (q *Queue) Loop() {
	for {
		front := q.front()
		if front == nil {
			q.park(<-q.in)
			continue
		}
		select {
		case q.out <- front.Value:
			q.unpark(front)
		case v := <-q.in:
			q.park(v)
		}
	}
}

func (q *Queue) front() *list.Element {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	return q.backlog.Front()
}

func (q *Queue) park(v interface{}) {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	q.backlog.PushBack(v)
}

func (q *Queue) unpark(e *list.Element) {
	q.mtx.Lock()
	defer q.mtx.Unlock()
	q.backlog.Remove(e)
}
