package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/autostock/dealership-api/internal/api/metrics"
	"github.com/autostock/dealership-api/internal/core/domain"
	"github.com/autostock/dealership-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	writeTimeout   = 5 * time.Second
)

// Dispatcher persists audit entries off the request path. Entries are routed
// to a fixed set of workers by hashing the entity id, which keeps the entries
// of one entity in order.
type Dispatcher struct {
	workers []chan domain.AuditEntry
	repo    ports.AuditRepository
	log     zerolog.Logger

	mu     sync.RWMutex
	closed bool
	wg     sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, repo ports.AuditRepository, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers: make([]chan domain.AuditEntry, numWorkers),
		repo:    repo,
		log:     log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.AuditEntry, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers exit once Close has been
// called and their channel is drained.
func (d *Dispatcher) Start() {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(i, ch)
	}
}

// Record enqueues an entry without blocking. When the worker channel is full
// or the dispatcher is closed the entry is dropped and counted.
func (d *Dispatcher) Record(entry domain.AuditEntry) {
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	d.mu.RLock()
	defer d.mu.RUnlock()

	if d.closed {
		d.drop(entry, "dispatcher closed")
		return
	}

	idx := d.shardIndex(entry.EntityID)
	select {
	case d.workers[idx] <- entry:
		metrics.AuditQueueDepth.WithLabelValues(strconv.Itoa(idx)).Set(float64(len(d.workers[idx])))
	default:
		d.drop(entry, "worker channel full")
	}
}

// Close stops accepting entries and waits for queued ones to be written or
// for ctx to expire.
func (d *Dispatcher) Close(ctx context.Context) error {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		for _, ch := range d.workers {
			close(ch)
		}
	}
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// shardIndex maps an entity id deterministically to a worker index.
func (d *Dispatcher) shardIndex(entityID string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(entityID))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) drop(entry domain.AuditEntry, reason string) {
	metrics.AuditEntriesDroppedTotal.Inc()
	d.log.Warn().
		Str("action", entry.Action).
		Str("entity_id", entry.EntityID).
		Str("reason", reason).
		Msg("audit entry dropped")
}

func (d *Dispatcher) runWorker(id int, ch <-chan domain.AuditEntry) {
	defer d.wg.Done()
	label := strconv.Itoa(id)

	for entry := range ch {
		metrics.AuditQueueDepth.WithLabelValues(label).Set(float64(len(ch)))

		ctx, cancel := context.WithTimeout(context.Background(), writeTimeout)
		err := d.repo.Insert(ctx, &entry)
		cancel()

		if err != nil {
			metrics.AuditWriteErrorsTotal.Inc()
			d.log.Error().Err(err).
				Str("action", entry.Action).
				Str("entity_id", entry.EntityID).
				Int("worker_id", id).
				Msg("audit write failed")
		}
	}
}
