package notify

import (
	"context"
	"sync"
	"time"

	"github.com/stwalsh4118/ciftlik/internal/logger"
)

// deliveryTimeout bounds a single delivery, including those made while draining.
const deliveryTimeout = 10 * time.Second

// Dispatcher delivers notifications on a background goroutine so request
// handlers never wait on delivery. When the queue is full new notifications
// are dropped and logged.
type Dispatcher struct {
	next   Notifier
	queue  chan Notification
	log    *logger.Logger
	wg     sync.WaitGroup
	ctx    context.Context // stop signal only, never passed to next
	cancel context.CancelFunc
}

// NewDispatcher creates a Dispatcher in front of next with room for buffer
// pending notifications. Call Start before sending.
func NewDispatcher(next Notifier, buffer int, log *logger.Logger) *Dispatcher {
	ctx, cancel := context.WithCancel(context.Background())
	return &Dispatcher{
		next:   next,
		queue:  make(chan Notification, buffer),
		log:    log.WithComponent("notify"),
		ctx:    ctx,
		cancel: cancel,
	}
}

// Start launches the delivery goroutine.
func (d *Dispatcher) Start() {
	d.wg.Go(func() {
		for {
			select {
			case <-d.ctx.Done():
				d.log.Info("Draining notifications before shutdown", logger.Fields{"remaining": len(d.queue)})
				for len(d.queue) > 0 {
					d.deliver(<-d.queue)
				}
				return
			case msg := <-d.queue:
				d.deliver(msg)
			}
		}
	})
}

func (d *Dispatcher) deliver(msg Notification) {
	ctx, cancel := context.WithTimeout(context.Background(), deliveryTimeout)
	defer cancel()

	if err := d.next.Send(ctx, msg); err != nil {
		d.log.Error("Failed to deliver notification", err, logger.Fields{
			"user_id": msg.UserID,
			"type":    msg.Type,
		})
	}
}

// Send queues msg and returns immediately. It never fails; notifications
// that cannot be queued are logged and dropped.
func (d *Dispatcher) Send(_ context.Context, msg Notification) error {
	select {
	case <-d.ctx.Done():
		d.log.Warn("Dispatcher stopped, dropping notification", logger.Fields{"type": msg.Type})
		return nil
	default:
	}

	select {
	case d.queue <- msg:
	default:
		d.log.Warn("Notification queue full, dropping notification", logger.Fields{
			"user_id": msg.UserID,
			"type":    msg.Type,
		})
	}
	return nil
}

// Shutdown stops accepting work and waits until queued notifications are delivered.
func (d *Dispatcher) Shutdown() {
	d.cancel()
	d.wg.Wait()
}
