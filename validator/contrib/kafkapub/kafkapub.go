// Package kafkapub publishes validator catalog snapshots to a Kafka topic.
// Each snapshot becomes one message keyed by its language, so consumers of a
// compacted topic always see the latest catalog per language.
package kafkapub

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/segmentio/kafka-go"

	"github.com/BigKAA/redpen-go/validator"
)

// DefaultTopic is used when no topic is configured.
const DefaultTopic = "redpen.validators"

// MessageWriter is the subset of *kafka.Writer used by Publisher.
type MessageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafka.Message) error
	Close() error
}

// Publisher writes snapshots through a MessageWriter.
type Publisher struct {
	w MessageWriter
}

// New creates a Publisher backed by a kafka.Writer for brokers and topic.
func New(brokers []string, topic string) (*Publisher, error) {
	if len(brokers) == 0 {
		return nil, errors.New("kafkapub: no brokers configured")
	}
	if topic == "" {
		topic = DefaultTopic
	}
	return NewWithWriter(&kafka.Writer{
		Addr:                   kafka.TCP(brokers...),
		Topic:                  topic,
		Balancer:               &kafka.Hash{},
		RequiredAcks:           kafka.RequireAll,
		AllowAutoTopicCreation: true,
	}), nil
}

// NewWithWriter creates a Publisher on top of an existing writer.
func NewWithWriter(w MessageWriter) *Publisher {
	return &Publisher{w: w}
}

// Publish sends snap as a single JSON message.
func (p *Publisher) Publish(ctx context.Context, snap validator.Snapshot) error {
	body, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("kafkapub: encode snapshot: %w", err)
	}

	msg := kafka.Message{
		Key:   []byte(snap.Lang),
		Value: body,
		Time:  snap.GeneratedAt,
		Headers: []kafka.Header{
			{Key: "content-type", Value: []byte("application/json")},
		},
	}
	if err := p.w.WriteMessages(ctx, msg); err != nil {
		return fmt.Errorf("kafkapub: write snapshot %s: %w", snap.Lang, err)
	}
	return nil
}

// Name identifies the publisher in logs.
func (p *Publisher) Name() string {
	return "kafka"
}

// Close flushes and closes the writer.
func (p *Publisher) Close() error {
	return p.w.Close()
}
