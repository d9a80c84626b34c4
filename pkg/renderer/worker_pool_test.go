package renderer

import (
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/df07/go-diffuse-raytracer/pkg/core"
)

func TestNewWorkerPool_NoWorkers(t *testing.T) {
	for _, n := range []int{0, -1} {
		pool, err := NewWorkerPool(n, 42)
		if !errors.Is(err, ErrNoWorkers) {
			t.Errorf("NewWorkerPool(%d): expected ErrNoWorkers, got %v", n, err)
		}
		if pool != nil {
			t.Errorf("NewWorkerPool(%d): expected nil pool", n)
		}
	}
}

func TestWorkerPool_AllJobsReported(t *testing.T) {
	const numJobs = 500
	const numWorkers = 4

	pool, err := NewWorkerPool(numWorkers, 1)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}
	if pool.GetNumWorkers() != numWorkers {
		t.Errorf("Expected %d workers, got %d", numWorkers, pool.GetNumWorkers())
	}

	results := make(chan int, numJobs)
	pool.Start()
	for i := 0; i < numJobs; i++ {
		if err := pool.SubmitTask(func(core.Sampler) { results <- i }); err != nil {
			t.Fatalf("SubmitTask failed: %v", err)
		}
	}
	pool.Stop()
	close(results)

	seen := make(map[int]bool)
	for id := range results {
		if seen[id] {
			t.Errorf("Job %d reported twice", id)
		}
		seen[id] = true
	}
	if len(seen) != numJobs {
		t.Errorf("Expected %d results, got %d", numJobs, len(seen))
	}
}

func TestWorkerPool_StopRunsQueuedJobs(t *testing.T) {
	pool, err := NewWorkerPool(2, 1)
	if err != nil {
		t.Fatalf("Failed to create pool: %v", err)
	}

	// Hold the workers so jobs pile up before Stop is called
	release := make(chan struct{})
	var mu sync.Mutex
	completed := 0

	pool.Start()
	for i := 0; i < 20; i++ {
		pool.SubmitTask(func(core.Sampler) {
			<-release
			mu.Lock()
			completed++
			mu.Unlock()
		})
	}

	stopped := make(chan struct{})
	go func() {
		pool.Stop()
		close(stopped)
	}()

	select {
	case <-stopped:
		t.Fatal("Stop returned while jobs were still blocked")
	case <-time.After(20 * time.Millisecond):
	}

	close(release)
	<-stopped

	if completed != 20 {
		t.Errorf("Expected all 20 queued jobs to run, got %d", completed)
	}
	if active := pool.ActiveWorkers(); active != 0 {
		t.Errorf("Expected no active workers after Stop, got %d", active)
	}
}

func TestWorkerPool_SubmitAfterStop(t *testing.T) {
	pool, _ := NewWorkerPool(1, 1)
	pool.Start()
	pool.Stop()

	err := pool.SubmitTask(func(core.Sampler) {})
	if !errors.Is(err, ErrPoolStopped) {
		t.Errorf("Expected ErrPoolStopped, got %v", err)
	}

	// A second Stop must not block or panic
	pool.Stop()
}

func TestWorkerPool_StopWithoutStart(t *testing.T) {
	pool, _ := NewWorkerPool(3, 1)
	pool.Stop()
	if pool.ActiveWorkers() != 0 {
		t.Errorf("Expected no active workers, got %d", pool.ActiveWorkers())
	}
}

func TestWorkerPool_StopRunsJobsQueuedBeforeStart(t *testing.T) {
	pool, _ := NewWorkerPool(2, 1)

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 5; i++ {
		if err := pool.SubmitTask(func(core.Sampler) {
			mu.Lock()
			ran++
			mu.Unlock()
		}); err != nil {
			t.Fatalf("SubmitTask failed: %v", err)
		}
	}
	pool.Stop()

	if ran != 5 {
		t.Errorf("Expected all 5 jobs queued before Start to run, got %d", ran)
	}
	if active := pool.ActiveWorkers(); active != 0 {
		t.Errorf("Expected no active workers after Stop, got %d", active)
	}
}

func TestWorkerPool_PanicSetsErr(t *testing.T) {
	pool, _ := NewWorkerPool(2, 1)
	pool.Start()

	if pool.Err() != nil {
		t.Fatalf("Expected no error before any job ran, got %v", pool.Err())
	}

	pool.SubmitTask(func(core.Sampler) { panic("boom") })

	select {
	case <-pool.Failed():
	case <-time.After(5 * time.Second):
		t.Fatal("Pool did not report the panicking job")
	}

	// Workers survive a panicking job
	done := make(chan struct{})
	pool.SubmitTask(func(core.Sampler) { close(done) })
	<-done
	pool.Stop()

	err := pool.Err()
	if err == nil || !strings.Contains(err.Error(), "boom") {
		t.Errorf("Expected error mentioning the panic value, got %v", err)
	}
}

func TestWorkerPool_WorkerSamplersSeeded(t *testing.T) {
	// A single worker seeded 7 must draw the same sequence as a fresh sampler seeded 7
	pool, _ := NewWorkerPool(1, 7)
	values := make(chan float64, 3)

	pool.Start()
	pool.SubmitTask(func(sampler core.Sampler) {
		for i := 0; i < 3; i++ {
			values <- sampler.Get1D()
		}
	})
	pool.Stop()
	close(values)

	expected := core.NewSeededSampler(7)
	for v := range values {
		if want := expected.Get1D(); v != want {
			t.Errorf("Expected %f, got %f", want, v)
		}
	}
}
