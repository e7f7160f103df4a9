// Package service holds integrations the HTTP layer calls out to.  The
// reservation event publisher lives here; errors are logged and returned so
// callers can ignore failures without interrupting the request flow.
package service

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/iliyamo/flight-booking-admin/internal/config"
	q "github.com/iliyamo/flight-booking-admin/internal/queue"
)

const defaultDialTimeout = 5 * time.Second

// ReservationPublisher publishes reservation events to RabbitMQ.  A
// connection is opened per publish; reservation traffic is low and this
// keeps the services free of long-lived broker state.
type ReservationPublisher struct {
	cfg config.QueueConfig
	log *slog.Logger
}

func NewReservationPublisher(cfg config.QueueConfig, log *slog.Logger) *ReservationPublisher {
	return &ReservationPublisher{cfg: cfg, log: log}
}

// PublishReservation sends event to the configured durable queue as a
// persistent JSON message.  It never panics.
func (p *ReservationPublisher) PublishReservation(ctx context.Context, event q.ReservationEvent) error {
	if !p.cfg.Enabled {
		return nil
	}
	timeout, err := dialTimeout(ctx)
	if err != nil {
		return err
	}
	conn, err := amqp.DialConfig(p.cfg.URL, amqp.Config{Dial: amqp.DefaultDial(timeout)})
	if err != nil {
		p.log.Warn("rabbitmq: dial failed", "err", err)
		return err
	}
	defer func() { _ = conn.Close() }()

	ch, err := conn.Channel()
	if err != nil {
		p.log.Warn("rabbitmq: channel open failed", "err", err)
		return err
	}
	defer func() { _ = ch.Close() }()

	if _, err := ch.QueueDeclare(p.cfg.Queue, true, false, false, false, nil); err != nil {
		p.log.Warn("rabbitmq: queue declare failed", "queue", p.cfg.Queue, "err", err)
		return err
	}

	body, err := json.Marshal(event)
	if err != nil {
		p.log.Warn("rabbitmq: marshal event failed", "err", err)
		return err
	}

	pub := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    time.Now().UTC(),
		Type:         event.Type,
		Body:         body,
	}
	if err := ch.PublishWithContext(ctx, "", p.cfg.Queue, false, false, pub); err != nil {
		p.log.Warn("rabbitmq: publish failed", "err", err)
		return err
	}
	return nil
}

// dialTimeout bounds the broker dial by ctx's deadline, falling back to
// defaultDialTimeout when ctx has none.
func dialTimeout(ctx context.Context) (time.Duration, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	deadline, ok := ctx.Deadline()
	if !ok {
		return defaultDialTimeout, nil
	}
	left := time.Until(deadline)
	if left <= 0 {
		return 0, context.DeadlineExceeded
	}
	return min(left, defaultDialTimeout), nil
}

// NopPublisher drops every event.  Used when QUEUE_ENABLED=false and in
// tests.
type NopPublisher struct{}

func (NopPublisher) PublishReservation(context.Context, q.ReservationEvent) error { return nil }
