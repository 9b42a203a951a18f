// Package amqppub publishes validator catalog snapshots to an AMQP exchange.
// Snapshots are routed with the key "validators.<lang>".
package amqppub

import (
	"context"
	"encoding/json"
	"fmt"

	amqp "github.com/rabbitmq/amqp091-go"

	"github.com/BigKAA/redpen-go/validator"
)

// DefaultExchange is declared and used when no exchange is configured.
const DefaultExchange = "redpen"

// Channel is the subset of *amqp.Channel used by Publisher.
type Channel interface {
	PublishWithContext(ctx context.Context, exchange, key string, mandatory, immediate bool, msg amqp.Publishing) error
	Close() error
}

// Publisher sends snapshots over an AMQP channel.
type Publisher struct {
	conn     *amqp.Connection
	ch       Channel
	exchange string
}

// Dial connects to url, opens a channel and declares a durable topic exchange.
// amqp091-go does not take a context for dialing, so ctx only bounds the wait.
func Dial(ctx context.Context, url, exchange string) (*Publisher, error) {
	if exchange == "" {
		exchange = DefaultExchange
	}

	type dialResult struct {
		conn *amqp.Connection
		err  error
	}
	res := make(chan dialResult, 1)
	go func() {
		conn, err := amqp.Dial(url)
		res <- dialResult{conn: conn, err: err}
	}()

	var conn *amqp.Connection
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("amqppub: dial: %w", ctx.Err())
	case r := <-res:
		if r.err != nil {
			return nil, fmt.Errorf("amqppub: dial: %w", r.err)
		}
		conn = r.conn
	}

	ch, err := conn.Channel()
	if err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqppub: open channel: %w", err)
	}
	if err := ch.ExchangeDeclare(exchange, amqp.ExchangeTopic, true, false, false, false, nil); err != nil {
		_ = conn.Close()
		return nil, fmt.Errorf("amqppub: declare exchange %s: %w", exchange, err)
	}

	p := NewWithChannel(ch, exchange)
	p.conn = conn
	return p, nil
}

// NewWithChannel creates a Publisher on top of an existing channel.
func NewWithChannel(ch Channel, exchange string) *Publisher {
	if exchange == "" {
		exchange = DefaultExchange
	}
	return &Publisher{ch: ch, exchange: exchange}
}

// RoutingKey returns the key a snapshot for lang is published with.
func RoutingKey(lang string) string {
	return "validators." + lang
}

// Publish sends snap as a persistent JSON message.
func (p *Publisher) Publish(ctx context.Context, snap validator.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("amqppub: encode snapshot: %w", err)
	}

	msg := amqp.Publishing{
		ContentType:  "application/json",
		DeliveryMode: amqp.Persistent,
		Timestamp:    snap.GeneratedAt,
		Type:         "validator.catalog",
		Body:         body,
	}
	if err := p.ch.PublishWithContext(ctx, p.exchange, RoutingKey(snap.Lang), false, false, msg); err != nil {
		return fmt.Errorf("amqppub: publish snapshot %s: %w", snap.Lang, err)
	}
	return nil
}

// Name identifies the publisher in logs.
func (p *Publisher) Name() string {
	return "amqp"
}

// Close closes the channel and, if Dial opened it, the connection.
func (p *Publisher) Close() error {
	err := p.ch.Close()
	if p.conn != nil {
		if cerr := p.conn.Close(); err == nil {
			err = cerr
		}
	}
	return err
}
