package renderer

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

var (
	// ErrNoWorkers is returned when a pool is created without workers
	ErrNoWorkers = errors.New("worker pool needs at least one worker")
	// ErrPoolStopped is returned when a task is submitted after Stop
	ErrPoolStopped = errors.New("worker pool stopped")
)

// Job is a unit of work executed by a worker. The sampler belongs to the
// executing worker and must not escape the job.
type Job func(sampler core.Sampler)

// poolMessage is either a job or a terminate signal for one worker
type poolMessage struct {
	job       Job
	terminate bool
}

// WorkerPool runs jobs on a fixed number of goroutines.
// Jobs are taken from a single mutex-guarded FIFO queue.
type WorkerPool struct {
	mu      sync.Mutex
	cond    *sync.Cond
	queue   []poolMessage
	started bool
	stopped bool

	workers    []*Worker
	numWorkers int
	wg         sync.WaitGroup
	active     atomic.Int32

	errOnce sync.Once
	err     error
	failed  chan struct{}
}

// Worker executes jobs with its own sampler
type Worker struct {
	ID      int
	sampler *core.RandomSampler
	pool    *WorkerPool
}

// NewWorkerPool creates a worker pool with the specified number of workers.
// Worker i samples with a generator seeded seed+i.
func NewWorkerPool(numWorkers int, seed int64) (*WorkerPool, error) {
	if numWorkers <= 0 {
		return nil, fmt.Errorf("%w: got %d", ErrNoWorkers, numWorkers)
	}

	wp := &WorkerPool{
		numWorkers: numWorkers,
		failed:     make(chan struct{}),
	}
	wp.cond = sync.NewCond(&wp.mu)

	for i := 0; i < numWorkers; i++ {
		wp.workers = append(wp.workers, &Worker{
			ID:      i,
			sampler: core.NewSeededSampler(seed + int64(i)),
			pool:    wp,
		})
	}

	return wp, nil
}

// Start begins all workers. Calling Start more than once has no effect.
func (wp *WorkerPool) Start() {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.started || wp.stopped {
		return
	}
	wp.startLocked()
}

func (wp *WorkerPool) startLocked() {
	wp.started = true
	for _, worker := range wp.workers {
		wp.wg.Add(1)
		wp.active.Add(1)
		go worker.run()
	}
}

// SubmitTask queues a job. It never blocks on busy workers.
func (wp *WorkerPool) SubmitTask(job Job) error {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	if wp.stopped {
		return ErrPoolStopped
	}
	wp.queue = append(wp.queue, poolMessage{job: job})
	wp.cond.Signal()
	return nil
}

// Stop sends a terminate signal to every worker and waits for all of them to
// exit. Signals are queued behind pending jobs, so every job submitted
// before Stop still runs. Jobs queued on a pool that was never started are
// run by starting the workers first.
func (wp *WorkerPool) Stop() {
	wp.mu.Lock()
	if !wp.stopped {
		wp.stopped = true
		if !wp.started && len(wp.queue) > 0 {
			wp.startLocked()
		}
		if wp.started {
			for range wp.workers {
				wp.queue = append(wp.queue, poolMessage{terminate: true})
			}
			wp.cond.Broadcast()
		}
	}
	wp.mu.Unlock()

	wp.wg.Wait()
}

// GetNumWorkers returns the number of workers in the pool
func (wp *WorkerPool) GetNumWorkers() int {
	return wp.numWorkers
}

// ActiveWorkers returns the number of worker goroutines still running
func (wp *WorkerPool) ActiveWorkers() int {
	return int(wp.active.Load())
}

// Err returns the first job failure, or nil
func (wp *WorkerPool) Err() error {
	select {
	case <-wp.failed:
		return wp.err
	default:
		return nil
	}
}

// Failed is closed once a job has failed
func (wp *WorkerPool) Failed() <-chan struct{} {
	return wp.failed
}

func (wp *WorkerPool) fail(err error) {
	wp.errOnce.Do(func() {
		wp.err = err
		close(wp.failed)
	})
	core.Logger().Warn("job failed", "error", err)
}

// next blocks until a message is available
func (wp *WorkerPool) next() poolMessage {
	wp.mu.Lock()
	defer wp.mu.Unlock()
	for len(wp.queue) == 0 {
		wp.cond.Wait()
	}
	msg := wp.queue[0]
	wp.queue[0] = poolMessage{}
	wp.queue = wp.queue[1:]
	return msg
}

// run is the main worker loop
func (w *Worker) run() {
	defer w.pool.wg.Done()
	defer w.pool.active.Add(-1)

	for {
		msg := w.pool.next()
		if msg.terminate {
			core.Logger().Debug("worker exiting", "worker", w.ID)
			return
		}
		w.execute(msg.job)
	}
}

// execute runs a job, converting a panic into a pool failure
func (w *Worker) execute(job Job) {
	defer func() {
		if r := recover(); r != nil {
			w.pool.fail(fmt.Errorf("worker %d: job panicked: %v", w.ID, r))
		}
	}()
	job(w.sampler)
}
