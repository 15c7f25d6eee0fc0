package queue

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/iliyamo/filmorate/internal/metrics"
)

// ErrQueueFull is returned by Publish when the outbound buffer is full.
var ErrQueueFull = errors.New("activity queue buffer full")

// ErrPublisherClosed is returned by Publish after Close.
var ErrPublisherClosed = errors.New("activity publisher closed")

// sender delivers one encoded event to the broker.
type sender interface {
	send(ctx context.Context, queue string, body []byte) error
}

// Publisher buffers activity events and delivers them to a durable
// RabbitMQ queue from a single background goroutine, so request handlers
// never wait on the broker.  Delivery failures are logged and counted.
type Publisher struct {
	queue   string
	log     *zap.Logger
	sender  sender
	events  chan ActivityEvent
	timeout time.Duration

	mu     sync.RWMutex
	closed bool
	done   chan struct{}
}

// NewPublisher returns a Publisher for the broker at url.  Call Start to
// begin delivery and Close to flush on shutdown.
func NewPublisher(url, queue string, log *zap.Logger) *Publisher {
	return newPublisher(&amqpSender{url: url}, queue, log)
}

func newPublisher(s sender, queue string, log *zap.Logger) *Publisher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Publisher{
		queue:   queue,
		log:     log.Named("activity-publisher"),
		sender:  s,
		events:  make(chan ActivityEvent, 256),
		timeout: 5 * time.Second,
		done:    make(chan struct{}),
	}
}

// Start runs the delivery loop until Close is called.
func (p *Publisher) Start() {
	go func() {
		defer close(p.done)
		for ev := range p.events {
			p.deliver(ev)
		}
	}()
}

// Publish enqueues ev without blocking.
func (p *Publisher) Publish(_ context.Context, ev ActivityEvent) error {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if p.closed {
		return ErrPublisherClosed
	}
	select {
	case p.events <- ev:
		return nil
	default:
		metrics.EventsPublished.WithLabelValues(string(ev.Type), "dropped").Inc()
		return ErrQueueFull
	}
}

// Close stops accepting events and waits up to ctx for the buffer to
// drain.
func (p *Publisher) Close(ctx context.Context) error {
	p.mu.Lock()
	if !p.closed {
		p.closed = true
		close(p.events)
	}
	p.mu.Unlock()
	select {
	case <-p.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func (p *Publisher) deliver(ev ActivityEvent) {
	body, err := json.Marshal(ev)
	if err != nil {
		p.log.Error("marshal event failed", zap.Error(err))
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.timeout)
	defer cancel()
	if err := p.sender.send(ctx, p.queue, body); err != nil {
		metrics.EventsPublished.WithLabelValues(string(ev.Type), "failed").Inc()
		p.log.Warn("publish failed", zap.String("type", string(ev.Type)), zap.Error(err))
		return
	}
	metrics.EventsPublished.WithLabelValues(string(ev.Type), "sent").Inc()
}

// amqpSender opens a connection and channel per message.
type amqpSender struct {
	url string
}

func (s *amqpSender) send(ctx context.Context, queue string, body []byte) error {
	conn, err := amqp.Dial(s.url)
	if err != nil {
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		return err
	}
	defer func() { _ = ch.Close() }()

	// Durable so messages survive broker restarts.
	if _, err := ch.QueueDeclare(
		queue, // name
		true,  // durable
		false, // autoDelete
		false, // exclusive
		false, // noWait
		nil,   // args
	); err != nil {
		return err
	}

	return ch.PublishWithContext(ctx,
		"",    // default exchange
		queue, // routing key = queue name
		false, // mandatory
		false, // immediate
		amqp.Publishing{
			ContentType:  "application/json",
			DeliveryMode: amqp.Persistent,
			Timestamp:    time.Now().UTC(),
			Body:         body,
		},
	)
}
