package worker

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"
)

var (
	// ErrQueueFull is returned by SubmitJob when the buffered queue has no room.
	ErrQueueFull = errors.New("job queue is full")
	// ErrStopped is returned by SubmitJob after Stop.
	ErrStopped = errors.New("dispatcher is stopped")
)

// Job is a unit of background work.
type Job interface {
	Execute(ctx context.Context) error
	ID() string
}

// Worker runs in its own goroutine and receives jobs on a dedicated channel
// that it registers with the pool whenever it is idle.
type Worker struct {
	ID         int
	WorkerPool chan chan Job
	JobChannel chan Job

	quit   <-chan struct{}
	wg     *sync.WaitGroup
	logger *logrus.Logger
}

func NewWorker(id int, workerPool chan chan Job, quit <-chan struct{}, wg *sync.WaitGroup, logger *logrus.Logger) Worker {
	return Worker{
		ID:         id,
		WorkerPool: workerPool,
		JobChannel: make(chan Job),
		quit:       quit,
		wg:         wg,
		logger:     logger,
	}
}

// Start makes the worker listen for jobs until quit is closed. A job that is
// already running is allowed to finish.
func (w Worker) Start(ctx context.Context) {
	w.wg.Add(1)
	go func() {
		defer w.wg.Done()
		for {
			w.WorkerPool <- w.JobChannel

			select {
			case job := <-w.JobChannel:
				w.run(ctx, job)
			case <-w.quit:
				w.logger.Debugf("Worker %d: stopping", w.ID)
				return
			}
		}
	}()
}

func (w Worker) run(ctx context.Context, job Job) {
	log := w.logger.WithFields(logrus.Fields{"worker": w.ID, "job_id": job.ID()})
	log.Info("Started job")
	defer func() {
		if r := recover(); r != nil {
			log.Errorf("Job panicked: %v", r)
		}
	}()
	if err := job.Execute(ctx); err != nil {
		log.Errorf("Job failed: %v", err)
		return
	}
	log.Info("Finished job")
}

// Dispatcher manages a pool of workers fed from a buffered job queue.
type Dispatcher struct {
	MaxWorkers int
	WorkerPool chan chan Job
	JobQueue   chan Job
	Workers    []Worker

	logger   *logrus.Logger
	wg       sync.WaitGroup
	quit     chan struct{}
	stopOnce sync.Once
	stopped  atomic.Bool
}

func NewDispatcher(maxWorkers, jobQueueSize int, logger *logrus.Logger) *Dispatcher {
	if maxWorkers < 1 {
		maxWorkers = 1
	}
	return &Dispatcher{
		MaxWorkers: maxWorkers,
		WorkerPool: make(chan chan Job, maxWorkers),
		JobQueue:   make(chan Job, jobQueueSize),
		Workers:    make([]Worker, 0, maxWorkers),
		logger:     logger,
		quit:       make(chan struct{}),
	}
}

// Run starts the workers and the dispatch loop. ctx is handed to every job.
func (d *Dispatcher) Run(ctx context.Context) {
	d.logger.Infof("Dispatcher starting with %d workers", d.MaxWorkers)
	for i := 1; i <= d.MaxWorkers; i++ {
		w := NewWorker(i, d.WorkerPool, d.quit, &d.wg, d.logger)
		d.Workers = append(d.Workers, w)
		w.Start(ctx)
	}

	d.wg.Add(1)
	go d.dispatch()
}

func (d *Dispatcher) dispatch() {
	defer d.wg.Done()
	for {
		select {
		case job := <-d.JobQueue:
			select {
			case jobChannel := <-d.WorkerPool:
				select {
				case jobChannel <- job:
				case <-d.quit:
					d.logger.Warnf("Dispatcher: dropping job %s on shutdown", job.ID())
					return
				}
			case <-d.quit:
				d.logger.Warnf("Dispatcher: dropping job %s on shutdown", job.ID())
				return
			}
		case <-d.quit:
			return
		}
	}
}

// SubmitJob enqueues job without blocking.
func (d *Dispatcher) SubmitJob(job Job) error {
	if d.stopped.Load() {
		return ErrStopped
	}
	select {
	case d.JobQueue <- job:
		d.logger.Infof("Dispatcher: job %s queued", job.ID())
		return nil
	default:
		d.logger.Warnf("Dispatcher: queue full, rejecting job %s", job.ID())
		return ErrQueueFull
	}
}

// Pending reports how many jobs are waiting for a worker.
func (d *Dispatcher) Pending() int { return len(d.JobQueue) }

// Stop stops accepting jobs, lets running jobs finish and waits for every
// worker to exit. Jobs still queued are discarded.
func (d *Dispatcher) Stop() {
	d.stopOnce.Do(func() {
		d.stopped.Store(true)
		d.logger.Info("Dispatcher: initiating shutdown")
		close(d.quit)
		d.wg.Wait()
		if n := len(d.JobQueue); n > 0 {
			d.logger.Warnf("Dispatcher: discarded %d queued jobs", n)
		}
		d.logger.Info("Dispatcher: shutdown complete")
	})
}
