package event

import (
	"context"
	"sync"
	"time"

	"github.com/osse101/PotSettle_Go/internal/logger"
)

type retryEntry struct {
	event       Event
	attempts    int
	lastErr     error
	nextAttempt time.Time
}

// ResilientPublisher publishes through a Bus and retries failed publishes in
// the background with exponential backoff. Events that exhaust their retries,
// or that arrive while the queue is full, go to the dead-letter file.
type ResilientPublisher struct {
	bus        Bus
	retryQueue chan retryEntry
	maxRetries int
	retryDelay time.Duration
	deadLetter *DeadLetterWriter
	shutdown   chan struct{}
	closeOnce  sync.Once
	wg         sync.WaitGroup
}

// NewResilientPublisher starts the retry worker
func NewResilientPublisher(bus Bus, maxRetries int, retryDelay time.Duration, deadLetterPath string) (*ResilientPublisher, error) {
	dl, err := NewDeadLetterWriter(deadLetterPath)
	if err != nil {
		return nil, err
	}

	p := &ResilientPublisher{
		bus:        bus,
		retryQueue: make(chan retryEntry, RetryQueueBufferSize),
		maxRetries: maxRetries,
		retryDelay: retryDelay,
		deadLetter: dl,
		shutdown:   make(chan struct{}),
	}

	p.wg.Add(1)
	go p.retryWorker()
	return p, nil
}

// PublishWithRetry publishes the event now and queues a retry on failure.
// It never blocks the caller on the retry path.
func (p *ResilientPublisher) PublishWithRetry(ctx context.Context, evt Event) {
	if evt.Version == "" {
		evt.Version = EventSchemaVersion
	}

	err := p.bus.Publish(ctx, evt)
	if err == nil {
		return
	}

	select {
	case <-p.shutdown:
		logger.FromContext(ctx).Warn(LogMsgEventDroppedShutdown, "event_type", evt.Type, "error", err)
		return
	default:
	}

	entry := retryEntry{
		event:       evt,
		attempts:    1,
		lastErr:     err,
		nextAttempt: time.Now().Add(CalculateRetryDelay(p.retryDelay, 1)),
	}

	select {
	case p.retryQueue <- entry:
		logger.FromContext(ctx).Warn(LogMsgEventPublishFailed, "event_type", evt.Type, "error", err)
	default:
		logger.FromContext(ctx).Error(LogMsgRetryQueueFull, "event_type", evt.Type)
		p.writeDeadLetter(entry)
	}
}

// Publish satisfies Bus. Failures are retried in the background.
func (p *ResilientPublisher) Publish(ctx context.Context, evt Event) error {
	p.PublishWithRetry(ctx, evt)
	return nil
}

// Subscribe delegates to the inner bus
func (p *ResilientPublisher) Subscribe(eventType Type, handler Handler) {
	p.bus.Subscribe(eventType, handler)
}

func (p *ResilientPublisher) retryWorker() {
	defer p.wg.Done()

	for {
		select {
		case <-p.shutdown:
			p.drain()
			return
		case entry := <-p.retryQueue:
			if wait := time.Until(entry.nextAttempt); wait > 0 {
				timer := time.NewTimer(wait)
				select {
				case <-timer.C:
				case <-p.shutdown:
					timer.Stop()
					p.finalAttempt(entry)
					p.drain()
					return
				}
			}
			p.attempt(entry)
		}
	}
}

func (p *ResilientPublisher) attempt(entry retryEntry) {
	err := p.bus.Publish(context.Background(), entry.event)
	if err == nil {
		logger.Info(LogMsgEventRetrySucceeded, "event_type", entry.event.Type, "attempt", entry.attempts)
		return
	}

	entry.lastErr = err
	if entry.attempts >= p.maxRetries {
		logger.Error(LogMsgEventRetryExhausted, "event_type", entry.event.Type, "attempts", entry.attempts+1)
		entry.attempts++
		p.writeDeadLetter(entry)
		return
	}

	entry.attempts++
	entry.nextAttempt = time.Now().Add(CalculateRetryDelay(p.retryDelay, entry.attempts))
	logger.Warn(LogMsgEventRetryFailed, "event_type", entry.event.Type, "attempt", entry.attempts, "error", err)

	select {
	case p.retryQueue <- entry:
	default:
		logger.Error(LogMsgRetryQueueFull, "event_type", entry.event.Type)
		p.writeDeadLetter(entry)
	}
}

// finalAttempt tries once more without waiting and dead-letters on failure
func (p *ResilientPublisher) finalAttempt(entry retryEntry) {
	if err := p.bus.Publish(context.Background(), entry.event); err != nil {
		entry.lastErr = err
		entry.attempts++
		p.writeDeadLetter(entry)
	}
}

func (p *ResilientPublisher) drain() {
	drained := 0
	for {
		select {
		case entry := <-p.retryQueue:
			p.finalAttempt(entry)
			drained++
		default:
			if drained > 0 {
				logger.Info(LogMsgQueueDrainedShutdown, "count", drained)
			}
			return
		}
	}
}

func (p *ResilientPublisher) writeDeadLetter(entry retryEntry) {
	if err := p.deadLetter.Write(entry.event, entry.attempts, entry.lastErr); err != nil {
		logger.Error(LogMsgDeadLetterWriteFailed, "event_type", entry.event.Type, "error", err)
	}
}

// Shutdown stops the worker after it drains the queue. It returns ctx.Err()
// if the drain does not finish in time.
func (p *ResilientPublisher) Shutdown(ctx context.Context) error {
	p.closeOnce.Do(func() { close(p.shutdown) })

	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		return p.deadLetter.Close()
	case <-ctx.Done():
		logger.Warn(LogMsgShutdownTimeout)
		return ctx.Err()
	}
}
