// Package events fans engine transitions out to observers: the log and,
// when a broker URL is configured, a RabbitMQ topic exchange.
package events

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/julianstephens/eatthefrog/internal/focus"
	"github.com/julianstephens/eatthefrog/internal/logger"
)

// Publisher sends a payload under a routing key.
type Publisher interface {
	Publish(ctx context.Context, routingKey string, payload []byte) error
	Close() error
}

// LogSink logs every event at info level.
type LogSink struct{}

func (LogSink) Publish(e focus.Event) {
	logger.Info("session event",
		"type", e.Type,
		"session", e.SessionID,
		"task", e.TaskName,
		"status", e.Status,
		"remaining", e.Remaining,
		"streak", e.Streak,
	)
}

// Multi forwards each event to every sink in order.
type Multi []focus.EventSink

func (m Multi) Publish(e focus.Event) {
	for _, s := range m {
		if s != nil {
			s.Publish(e)
		}
	}
}

// Close closes every sink that holds resources.
func (m Multi) Close() error {
	var errs []error
	for _, s := range m {
		if c, ok := s.(io.Closer); ok {
			errs = append(errs, c.Close())
		}
	}
	return errors.Join(errs...)
}

// BrokerSink hands events to a Publisher from a background goroutine so the
// engine never waits on the network. Events that arrive while the queue is
// full are dropped and logged.
type BrokerSink struct {
	pub     Publisher
	timeout time.Duration

	queue chan focus.Event
	wg    sync.WaitGroup
	once  sync.Once
}

const defaultQueueSize = 64

// NewBrokerSink starts the delivery goroutine. Call Close to drain it.
func NewBrokerSink(pub Publisher) *BrokerSink {
	b := &BrokerSink{
		pub:     pub,
		timeout: 5 * time.Second,
		queue:   make(chan focus.Event, defaultQueueSize),
	}
	b.wg.Add(1)
	go b.run()
	return b
}

func (b *BrokerSink) Publish(e focus.Event) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	select {
	case b.queue <- e:
	default:
		logger.Warn("event queue full, dropping event", "type", e.Type, "id", e.ID)
	}
}

// Close delivers queued events and closes the publisher.
func (b *BrokerSink) Close() error {
	var err error
	b.once.Do(func() {
		close(b.queue)
		b.wg.Wait()
		err = b.pub.Close()
	})
	return err
}

func (b *BrokerSink) run() {
	defer b.wg.Done()
	for e := range b.queue {
		payload, err := json.Marshal(e)
		if err != nil {
			logger.Error("encoding event failed", "type", e.Type, "error", err)
			continue
		}
		ctx, cancel := context.WithTimeout(context.Background(), b.timeout)
		if err := b.pub.Publish(ctx, RoutingKey(e.Type), payload); err != nil {
			logger.Warn("publishing event failed", "type", e.Type, "id", e.ID, "error", err)
		}
		cancel()
	}
}

// RoutingKey maps an event type to its topic routing key, e.g.
// "frog.task.started".
func RoutingKey(t focus.EventType) string {
	return "frog." + string(t)
}
