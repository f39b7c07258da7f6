package iqueue

import (
	"testing"
	"time"
)

func TestQueue_PopFront(t *testing.T) {
	t.Parallel()
	q := New()
	q.park("a")
	q.park("b")
	if q.Len() != 2 {
		t.Fatalf("queue length, got: %d, expected: %d", q.Len(), 2)
	}
	for _, expected := range []string{"a", "b"} {
		v, ok := q.PopFront()
		if !ok {
			t.Fatalf("calling the PopFront method, got no value, expected: %v", expected)
		}
		if v.(string) != expected {
			t.Errorf("calling the PopFront method, got: %v, expected: %v", v, expected)
		}
	}
	if _, ok := q.PopFront(); ok {
		t.Error("calling the PopFront method on the empty queue, expected no value")
	}
	if q.Len() != 0 {
		t.Errorf("queue length, got: %d, expected: %d", q.Len(), 0)
	}
}

func TestQueue_LoopKeepsOrder(t *testing.T) {
	t.Parallel()
	q := New()
	go q.Loop()

	expected := []string{"a", "b", "c", "d"}
	go func() {
		for _, v := range expected {
			q.Send(v)
		}
	}()

	for i := range expected {
		select {
		case v := <-q.Receive():
			if v.(string) != expected[i] {
				t.Errorf("receiving from the queue at %d, got: %v, expected: %v", i, v, expected[i])
			}
		case <-time.After(2 * time.Second):
			t.Fatalf("receiving from the queue at %d timed out", i)
		}
	}
}
