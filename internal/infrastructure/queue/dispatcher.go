package queue

import (
	"context"
	"hash/fnv"
	"strconv"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/solx/solx-api/internal/api/metrics"
	"github.com/solx/solx-api/internal/core/domain"
	"github.com/solx/solx-api/internal/core/ports"
)

const (
	defaultWorkers = 4
	channelBuffer  = 256
	deliverTimeout = 10 * time.Second
)

// Dispatcher fans notifications out to a fixed set of workers. Jobs are
// sharded by an FNV hash of their Key, so jobs sharing a key are delivered
// in the order they were enqueued.
type Dispatcher struct {
	workers  []chan domain.Notification
	notifier ports.Notifier
	log      zerolog.Logger
	wg       sync.WaitGroup
}

// NewDispatcher creates a Dispatcher with numWorkers sharded workers.
// If numWorkers <= 0, defaultWorkers is used.
func NewDispatcher(numWorkers int, notifier ports.Notifier, log zerolog.Logger) *Dispatcher {
	if numWorkers <= 0 {
		numWorkers = defaultWorkers
	}
	d := &Dispatcher{
		workers:  make([]chan domain.Notification, numWorkers),
		notifier: notifier,
		log:      log,
	}
	for i := range d.workers {
		d.workers[i] = make(chan domain.Notification, channelBuffer)
	}
	return d
}

// Start launches all worker goroutines. Workers stop when ctx is cancelled.
func (d *Dispatcher) Start(ctx context.Context) {
	for i, ch := range d.workers {
		d.wg.Add(1)
		go d.runWorker(ctx, i, ch)
	}
}

// Wait blocks until every worker has returned.
func (d *Dispatcher) Wait() {
	d.wg.Wait()
}

// Enqueue hands n to the worker owning its key. It never blocks: when that
// worker's buffer is full the job is dropped, logged and counted.
func (d *Dispatcher) Enqueue(n domain.Notification) {
	idx := d.shardIndex(n.Key)
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(idx))

	depth.Inc()
	select {
	case d.workers[idx] <- n:
	default:
		depth.Dec()
		metrics.NotificationsTotal.WithLabelValues(n.Kind, "dropped").Inc()
		d.log.Warn().
			Str("kind", n.Kind).
			Str("key", n.Key).
			Int("worker_id", idx).
			Msg("notification queue full, dropping job")
	}
}

func (d *Dispatcher) shardIndex(key string) int {
	h := fnv.New32a()
	_, _ = h.Write([]byte(key))
	return int(h.Sum32() % uint32(len(d.workers)))
}

func (d *Dispatcher) runWorker(ctx context.Context, id int, ch <-chan domain.Notification) {
	defer d.wg.Done()
	depth := metrics.NotificationQueueDepth.WithLabelValues(strconv.Itoa(id))

	for {
		select {
		case <-ctx.Done():
			return
		case n := <-ch:
			depth.Dec()
			d.deliver(ctx, id, n)
		}
	}
}

func (d *Dispatcher) deliver(ctx context.Context, worker int, n domain.Notification) {
	ctx, cancel := context.WithTimeout(ctx, deliverTimeout)
	defer cancel()

	start := time.Now()
	err := d.notifier.Deliver(ctx, n)
	metrics.NotificationDeliveryDuration.Observe(time.Since(start).Seconds())

	if err != nil {
		metrics.NotificationsTotal.WithLabelValues(n.Kind, "failed").Inc()
		d.log.Error().Err(err).
			Str("kind", n.Kind).
			Str("key", n.Key).
			Int("worker_id", worker).
			Msg("notification delivery failed")
		return
	}
	metrics.NotificationsTotal.WithLabelValues(n.Kind, "delivered").Inc()
}
