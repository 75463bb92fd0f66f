package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

const (
	defaultDialTimeout = 2 * time.Second
	defaultBuffer      = 256
)

var (
	// ErrPublisherBusy is returned when the outgoing buffer is full.
	ErrPublisherBusy = errors.New("publisher buffer full")
	// ErrPublisherClosed is returned after Close.
	ErrPublisherClosed = errors.New("publisher closed")
)

type outgoing struct {
	key  string
	body []byte
	at   time.Time
}

// Publisher sends events to the restaurant topic exchange.  Publish only
// buffers the event; a background goroutine owns the broker connection,
// dials lazily with a bounded timeout and drops the connection after a
// failure so the next event reconnects.  A nil *Publisher is valid and
// discards every event.
type Publisher struct {
	url         string
	dialTimeout time.Duration

	events chan outgoing
	done   chan struct{}
	once   sync.Once
	wg     sync.WaitGroup

	// owned by run
	conn *amqp.Connection
	ch   *amqp.Channel
}

// NewPublisher returns a publisher for the broker at url, or nil when url
// is empty.
func NewPublisher(url string) *Publisher {
	if url == "" {
		return nil
	}
	return newPublisher(url, defaultDialTimeout, defaultBuffer)
}

func newPublisher(url string, dialTimeout time.Duration, buffer int) *Publisher {
	p := &Publisher{
		url:         url,
		dialTimeout: dialTimeout,
		events:      make(chan outgoing, buffer),
		done:        make(chan struct{}),
	}
	p.wg.Add(1)
	go p.run()
	return p
}

// Publish encodes event as JSON and queues it for delivery.  It never
// touches the network, so it returns immediately.
func (p *Publisher) Publish(ctx context.Context, routingKey string, event any) error {
	if p == nil {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	body, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("marshal event: %w", err)
	}
	select {
	case <-p.done:
		return ErrPublisherClosed
	default:
	}
	select {
	case p.events <- outgoing{key: routingKey, body: body, at: time.Now().UTC()}:
		return nil
	default:
		return ErrPublisherBusy
	}
}

// Close stops accepting events, tries to flush what is buffered and
// releases the broker connection.
func (p *Publisher) Close() {
	if p == nil {
		return
	}
	p.once.Do(func() { close(p.done) })
	p.wg.Wait()
}

func (p *Publisher) run() {
	defer p.wg.Done()
	defer p.reset()
	for {
		select {
		case m := <-p.events:
			_ = p.send(m)
		case <-p.done:
			p.flush()
			return
		}
	}
}

// flush delivers what is still buffered, giving up at the first failure.
func (p *Publisher) flush() {
	for {
		select {
		case m := <-p.events:
			if err := p.send(m); err != nil {
				if n := len(p.events); n > 0 {
					logrus.WithField("dropped", n).Warn("publisher closed with undelivered events")
				}
				return
			}
		default:
			return
		}
	}
}

func (p *Publisher) send(m outgoing) error {
	log := logrus.WithField("routing_key", m.key)
	ch, err := p.channel()
	if err != nil {
		log.WithError(err).Warn("event dropped")
		return err
	}
	ctx, cancel := context.WithTimeout(context.Background(), p.dialTimeout)
	defer cancel()
	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent, // store on disk
		Timestamp:    m.at,
		Body:         m.body,
	}
	if err := ch.PublishWithContext(ctx, ExchangeName, m.key, false, false, pub); err != nil {
		p.reset()
		log.WithError(err).Warn("event dropped")
		return fmt.Errorf("publish %s: %w", m.key, err)
	}
	return nil
}

// channel returns the open channel, dialing and declaring the exchange
// when needed.
func (p *Publisher) channel() (*amqp.Channel, error) {
	if p.ch != nil && !p.ch.IsClosed() {
		return p.ch, nil
	}
	p.reset()
	conn, err := amqp.DialConfig(p.url, amqp.Config{
		Dial:      amqp.DefaultDial(p.dialTimeout),
		Heartbeat: 10 * time.Second,
		Locale:    "en_US",
	})
	if err != nil {
		return nil, fmt.Errorf("dial broker: %w", err)
	}
	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("open channel: %w", err)
	}
	if err := declareExchange(ch); err != nil {
		_ = ch.Close()
		_ = conn.Close()
		return nil, err
	}
	p.conn, p.ch = conn, ch
	logrus.WithField("exchange", ExchangeName).Debug("publisher connected")
	return ch, nil
}

func (p *Publisher) reset() {
	if p.ch != nil {
		_ = p.ch.Close()
		p.ch = nil
	}
	if p.conn != nil {
		_ = p.conn.Close()
		p.conn = nil
	}
}

func declareExchange(ch *amqp.Channel) error {
	if err := ch.ExchangeDeclare(ExchangeName, "topic", true, false, false, false, nil); err != nil {
		return fmt.Errorf("declare exchange: %w", err)
	}
	return nil
}
