package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"

	"github.com/rs/zerolog"

	"github.com/taskserver/task-api/internal/pkg/metrics"
	"github.com/taskserver/task-api/internal/core/domain"
	"github.com/taskserver/task-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
)

// Dispatcher routes task activity to a fixed set of workers using consistent
// hashing on the task id, guaranteeing per-task ordering of the audit trail.
type Dispatcher struct {
	workers []chan domain.TaskActivity
	service ports.ActivityService
	log     zerolog.Logger

	mu      sync.RWMutex
	stopped bool
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, service ports.ActivityService, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.TaskActivity, numWorkers),
		service: service,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.TaskActivity, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. ctx is passed to every Process call;
// workers exit once Stop has closed their channel and it is drained.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Record hands an entry to the worker responsible for its task without
// blocking the caller. When that worker's buffer is full, or the dispatcher
// is stopped, the entry is dropped and counted.
func (d *Dispatcher) Record(a domain.TaskActivity) {
	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.stopped {
		d.drop(a, "shutdown")
		return
	}

	idx := d.shardIndex(a.TaskID)
	select {
	case d.workers[idx] <- a:
		metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(a, "queue_full")
	}
}

func (d *Dispatcher) drop(a domain.TaskActivity, reason string) {
	metrics.ActivityDroppedTotal.WithLabelValues(reason).Inc()
	d.log.Warn().
		Str("task_id", a.TaskID).
		Str("action", string(a.Action)).
		Str("reason", reason).
		Msg("activity dropped")
}

// Stop closes the worker channels and waits for pending entries to be
// written.
func (d *Dispatcher) Stop() {
	d.mu.Lock()
	if d.stopped {
		d.mu.Unlock()
		return
	}
	d.stopped = true
	for _, ch := range d.workers {
		close(ch)
	}
	d.mu.Unlock()

	d.wg.Wait()
}

// shardIndex maps a task id deterministically to a worker index.
func (d *Dispatcher) shardIndex(taskID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(taskID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.TaskActivity) {
	defer d.wg.Done()
	depth := metrics.ActivityQueueDepth.WithLabelValues(strconv.Itoa(id))

	for a := range ch {
		if err := d.service.Process(ctx, a); err != nil {
			metrics.ActivityErrorsTotal.Inc()
			d.log.Error().Err(err).
				Str("task_id", a.TaskID).
				Str("action", string(a.Action)).
				Int("worker_id", id).
				Msg("activity processing failed")
		}
		depth.Set(float64(len(ch)))
	}
}
