package relay

import (
	"context"
	"sync"
)

type Job struct {
	Class   string
	Payload []byte
}

// RunWorkers starts the given number of goroutines that transmit jobs until
// jobs is closed or ctx ends. results is closed once every worker has returned.
func (self *Relay) RunWorkers(ctx context.Context, workers int, jobs <-chan *Job, results chan<- *Result) {
	if workers < 1 {
		workers = 1
	}
	var wg sync.WaitGroup
	for it := 0; it < workers; it++ {
		wg.Add(1)
		go func(num int) {
			defer wg.Done()
			self.dispatchWorker(ctx, num, jobs, results)
		}(it)
	}
	go func() {
		wg.Wait()
		close(results)
	}()
}

func (self *Relay) dispatchWorker(ctx context.Context, num int, jobs <-chan *Job, results chan<- *Result) {
	logger := self.logger.WithField("workerID", num)
	logger.Trace("Added worker")
	for {
		select {
		case <-ctx.Done():
			return
		case job, ok := <-jobs:
			if !ok {
				return
			}
			result, err := self.Transmit(ctx, job.Class, job.Payload)
			if err != nil {
				result = &Result{Class: job.Class, Outcome: DecodeFailed, FlippedBit: -1, Err: err}
			}
			select {
			case results <- result:
			case <-ctx.Done():
				return
			}
		}
	}
}
