package queue

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/sirupsen/logrus"
)

// ErrMalformedEvent marks payloads that can never be processed.
var ErrMalformedEvent = errors.New("malformed event")

// Consumer turns notification events into emails.
type Consumer struct {
	URL    string
	Mailer Mailer
	// MarkNotified is called after a waitlist confirmation was sent.  It
	// may be nil.
	MarkNotified func(ctx context.Context, entryID uint64) error
}

// Run consumes until ctx is cancelled, reconnecting with exponential
// backoff whenever the broker goes away.
func (c *Consumer) Run(ctx context.Context) error {
	log := logrus.WithField("queue", NotificationQueue)
	backoff := time.Second
	for {
		conn, err := amqp.Dial(c.URL)
		if err != nil {
			log.WithError(err).Warnf("dial broker failed; retrying in %s", backoff)
			if !sleep(ctx, backoff) {
				return ctx.Err()
			}
			if backoff < 30*time.Second {
				backoff *= 2
			}
			continue
		}
		backoff = time.Second // reset after successful connect

		err = c.consumeLoop(ctx, conn)
		_ = conn.Close()
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.WithError(err).Warn("consume loop ended; reconnecting")
		if !sleep(ctx, 2*time.Second) {
			return ctx.Err()
		}
	}
}

func sleep(ctx context.Context, d time.Duration) bool {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-t.C:
		return true
	}
}

func (c *Consumer) consumeLoop(ctx context.Context, conn *amqp.Connection) error {
	ch, err := conn.Channel()
	if err != nil {
		return fmt.Errorf("channel open: %w", err)
	}
	defer func() { _ = ch.Close() }()

	if err := ch.Qos(50, 0, false); err != nil {
		logrus.WithError(err).Warn("set QoS failed")
	}
	if err := declareExchange(ch); err != nil {
		return err
	}
	if _, err := ch.QueueDeclare(NotificationQueue, true, false, false, false, nil); err != nil {
		return fmt.Errorf("queue declare: %w", err)
	}
	for _, key := range []string{"reservation.*", "waitlist.*"} {
		if err := ch.QueueBind(NotificationQueue, key, ExchangeName, false, nil); err != nil {
			return fmt.Errorf("queue bind %s: %w", key, err)
		}
	}
	msgs, err := ch.Consume(NotificationQueue, "", false, false, false, false, nil)
	if err != nil {
		return fmt.Errorf("queue consume: %w", err)
	}

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case d, ok := <-msgs:
			if !ok {
				return errors.New("deliveries channel closed")
			}
			c.deliver(ctx, d)
		}
	}
}

func (c *Consumer) deliver(ctx context.Context, d amqp.Delivery) {
	log := logrus.WithField("routing_key", d.RoutingKey)
	err := c.Handle(ctx, d.RoutingKey, d.Body)
	switch {
	case err == nil:
		_ = d.Ack(false)
	case errors.Is(err, ErrMalformedEvent):
		log.WithError(err).Error("dropping malformed event")
		_ = d.Nack(false, false)
	default:
		// one retry through the broker, then give up
		log.WithError(err).Warn("notification failed")
		_ = d.Nack(false, !d.Redelivered)
	}
}

// Handle processes a single event body.
func (c *Consumer) Handle(ctx context.Context, routingKey string, body []byte) error {
	switch routingKey {
	case RoutingReservationCreated:
		var ev ReservationCreatedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if ev.CustomerEmail == "" {
			return nil
		}
		return c.Mailer.Send(ctx, ReservationMessage(ev))
	case RoutingWaitlistJoined:
		var ev WaitlistJoinedEvent
		if err := json.Unmarshal(body, &ev); err != nil {
			return fmt.Errorf("%w: %v", ErrMalformedEvent, err)
		}
		if ev.CustomerEmail == "" {
			return nil
		}
		if err := c.Mailer.Send(ctx, WaitlistMessage(ev)); err != nil {
			return err
		}
		if c.MarkNotified != nil {
			if err := c.MarkNotified(ctx, ev.EntryID); err != nil {
				logrus.WithError(err).WithField("entry_id", ev.EntryID).Warn("mark notified failed")
			}
		}
		return nil
	default:
		logrus.WithField("routing_key", routingKey).Debug("ignoring event")
		return nil
	}
}

// ReservationMessage builds the confirmation email for a reservation.
func ReservationMessage(ev ReservationCreatedEvent) Message {
	m := Message{To: ev.CustomerEmail}
	if ev.Status == "waitlist" {
		m.Subject = "We received your reservation request"
		m.Body = fmt.Sprintf("Hi %s,\n\nAll tables for a party of %d on %s at %s are currently taken. "+
			"Your request is on our waitlist and we will contact you as soon as a table frees up.\n",
			ev.CustomerName, ev.PartySize, ev.Date, ev.Time)
		return m
	}
	m.Subject = "Your reservation is confirmed"
	table := ""
	if ev.TableNumber != nil {
		table = fmt.Sprintf(" at table %d", *ev.TableNumber)
	}
	m.Body = fmt.Sprintf("Hi %s,\n\nYour reservation for %d on %s at %s is confirmed%s.\n",
		ev.CustomerName, ev.PartySize, ev.Date, ev.Time, table)
	return m
}

// WaitlistMessage builds the waitlist confirmation email.
func WaitlistMessage(ev WaitlistJoinedEvent) Message {
	return Message{
		To:      ev.CustomerEmail,
		Subject: "You are on the waitlist",
		Body: fmt.Sprintf("Hi %s,\n\nYou are number %d on the waitlist for %s at %s (party of %d). "+
			"Estimated wait: %d minutes.\n",
			ev.CustomerName, ev.Position, ev.Date, ev.Time, ev.PartySize, ev.EstimatedWaitTime),
	}
}
