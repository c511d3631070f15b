package alert

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

// defaultQueueSize bounds the dispatcher queue. Alerts beyond this backlog are
// dropped rather than blocking the request path.
const defaultQueueSize = 256

// Dispatcher wraps a Notifier with an asynchronous, bounded queue so callers
// never block on alert delivery. Delivery failures are logged and swallowed:
// an undeliverable alert must not fail the payment or audit operation.
type Dispatcher struct {
	sink    Notifier
	logger  *slog.Logger
	timeout time.Duration

	queue chan Alert
	wg    sync.WaitGroup

	closeOnce sync.Once
}

// NewDispatcher creates a Dispatcher delivering to sink with the given
// per-alert timeout and starts its delivery worker. Call Close during shutdown
// to drain the queue.
func NewDispatcher(sink Notifier, timeout time.Duration, logger *slog.Logger) *Dispatcher {
	d := &Dispatcher{
		sink:    sink,
		logger:  logger,
		timeout: timeout,
		queue:   make(chan Alert, defaultQueueSize),
	}

	d.wg.Add(1)
	go d.run()

	return d
}

// Notify enqueues the alert for delivery. Never blocks: if the queue is full
// the alert is dropped with a log entry. Always returns nil.
func (d *Dispatcher) Notify(_ context.Context, a Alert) error {
	select {
	case d.queue <- a:
	default:
		d.logger.Warn("alert queue full, dropping alert",
			slog.String("type", a.Type),
			slog.String("severity", string(a.Severity)),
		)
	}
	return nil
}

// Close stops accepting alerts, drains the queue, and waits for the worker.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() {
		close(d.queue)
	})
	d.wg.Wait()
}

// run is the delivery worker. Each alert gets an independent timeout so one
// slow sink call cannot back up the queue indefinitely.
func (d *Dispatcher) run() {
	defer d.wg.Done()

	for a := range d.queue {
		ctx, cancel := context.WithTimeout(context.Background(), d.timeout)
		if err := d.sink.Notify(ctx, a); err != nil {
			d.logger.Warn("alert delivery failed",
				slog.String("type", a.Type),
				slog.String("severity", string(a.Severity)),
				slog.String("error", err.Error()),
			)
		}
		cancel()
	}
}
