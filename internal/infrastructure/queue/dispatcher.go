package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/schoolhub/school-api/internal/core/domain"
	"github.com/schoolhub/school-api/internal/core/ports"
	"github.com/schoolhub/school-api/internal/pkg/metrics"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher fans authentication events out to a fixed set of workers that
// persist them. Events for the same identifier always land on the same
// worker, so they are written in the order they were recorded.
type Dispatcher struct {
	workers []chan domain.AuthEvent
	repo    ports.AuditRepository
	log     zerolog.Logger
	wg      sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuthEvent, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuthEvent, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled,
// after writing out whatever is still buffered; Wait blocks until they have.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Record enqueues event without blocking. When the worker's channel is full
// the event is dropped and counted.
func (d *Dispatcher) Record(event domain.AuthEvent) {
	idx := d.shardIndex(shardKey(event))
	select {
	case d.workers[idx] <- event:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		metrics.AuditEventsDroppedTotal.Inc()
		d.log.Warn().Str("kind", string(event.Kind)).Int("worker_id", idx).Msg("audit queue full, event dropped")
	}
}

func shardKey(event domain.AuthEvent) string {
	if event.Identifier != "" {
		return event.Identifier
	}
	return strconv.FormatInt(event.AccountID, 10)
}

// shardIndex maps a key deterministically to a worker index.
func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.AuthEvent) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for {
		select {
		case <-ctx.Done():
			d.drain(id, ch)
			metrics.AuditQueueDepth.WithLabelValues(label).Set(0)
			return
		case event := <-ch:
			metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))
			d.write(context.WithoutCancel(ctx), id, event)
		}
	}
}

// drain writes the events left in ch once the worker has been stopped. All
// of them share a single writeTimeout budget; what is left after it expires
// is counted as dropped.
func (d *Dispatcher) drain(id int, ch <-chan domain.AuthEvent) {
	drainCtx, cancel := context.WithTimeout(context.Background(), writeTimeout)
	defer cancel()

	for {
		if drainCtx.Err() != nil {
			if n := len(ch); n > 0 {
				metrics.AuditEventsDroppedTotal.Add(float64(n))
				d.log.Warn().Int("worker_id", id).Int("events", n).Msg("audit drain timed out, events dropped")
			}
			return
		}
		select {
		case event := <-ch:
			d.write(drainCtx, id, event)
		default:
			return
		}
	}
}

func (d *Dispatcher) write(ctx context.Context, id int, event domain.AuthEvent) {
	writeCtx, cancel := context.WithTimeout(ctx, writeTimeout)
	defer cancel()

	if err := d.repo.Insert(writeCtx, event); err != nil {
		metrics.AuditWriteErrorsTotal.Inc()
		d.log.Error().Err(err).
			Str("kind", string(event.Kind)).
			Int("worker_id", id).
			Msg("audit write failed")
	}
}
