// Package rworker spawns rate limited fire and forget jobs. The rate channel
// caps how many run at once and the wait group tracks completion.
package rworker

import "sync"

// Job runs fn on its own goroutine once a slot in rate frees up. A full errCh
// drops the error rather than stall the worker.
func Job(wg *sync.WaitGroup, fn func() error, rate chan struct{}, errCh chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		rate <- struct{}{}
		defer func() { <-rate }()
		if err := fn(); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
}
