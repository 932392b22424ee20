// Package rworker runs functions on goroutines while capping how many run
// at the same time.
package rworker

import "sync"

// Job runs fn on a new goroutine once rate has a free slot; cap(rate) is
// the concurrency limit. An error is sent to errCh only when errCh has
// room, so a buffer of one keeps the first error and drops the rest.
func Job(wg *sync.WaitGroup, fn func() error, rate chan struct{}, errCh chan<- error) {
	wg.Add(1)
	go func() {
		defer wg.Done()
		rate <- struct{}{}
		defer func() {
			<-rate
		}()
		if err := fn(); err != nil {
			select {
			case errCh <- err:
			default:
			}
		}
	}()
}

// All runs every fn with at most limit running at once, waits for all of
// them and returns the first error.
func All(limit int, fns ...func() error) error {
	if limit < 1 {
		limit = 1
	}
	var wg sync.WaitGroup
	rate := make(chan struct{}, limit)
	errCh := make(chan error, 1)
	for _, fn := range fns {
		Job(&wg, fn, rate, errCh)
	}
	wg.Wait()

	select {
	case err := <-errCh:
		return err
	default:
		return nil
	}
}
