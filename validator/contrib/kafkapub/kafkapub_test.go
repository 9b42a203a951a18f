package kafkapub

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/segmentio/kafka-go"

	"github.com/BigKAA/redpen-go/validator"
)

type fakeWriter struct {
	msgs   []kafka.Message
	err    error
	closed bool
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	if w.err != nil {
		return w.err
	}
	w.msgs = append(w.msgs, msgs...)
	return nil
}

func (w *fakeWriter) Close() error {
	w.closed = true
	return nil
}

func testSnapshot() validator.Snapshot {
	return validator.Snapshot{
		Lang:        "ja",
		GeneratedAt: time.Date(2026, 1, 2, 3, 4, 5, 0, time.UTC),
		Validators: []validator.ValidatorConfiguration{
			{Name: "CommaNumber", Properties: map[string]string{"max_num": "3"}},
		},
	}
}

func TestPublisher_Publish(t *testing.T) {
	w := &fakeWriter{}
	p := NewWithWriter(w)

	if err := p.Publish(context.Background(), testSnapshot()); err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if len(w.msgs) != 1 {
		t.Fatalf("expected 1 message, got %d", len(w.msgs))
	}

	msg := w.msgs[0]
	if string(msg.Key) != "ja" {
		t.Errorf("Key = %q, expected ja", msg.Key)
	}
	if !msg.Time.Equal(testSnapshot().GeneratedAt) {
		t.Errorf("Time = %v, expected %v", msg.Time, testSnapshot().GeneratedAt)
	}

	var got validator.Snapshot
	if err := json.Unmarshal(msg.Value, &got); err != nil {
		t.Fatalf("message is not a snapshot: %v", err)
	}
	if got.Lang != "ja" || len(got.Validators) != 1 || got.Validators[0].Properties["max_num"] != "3" {
		t.Errorf("unexpected payload: %+v", got)
	}
}

func TestPublisher_WriteError(t *testing.T) {
	p := NewWithWriter(&fakeWriter{err: errors.New("leader not available")})

	err := p.Publish(context.Background(), testSnapshot())
	if err == nil {
		t.Fatal("expected error")
	}
}

func TestPublisher_Close(t *testing.T) {
	w := &fakeWriter{}
	if err := NewWithWriter(w).Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if !w.closed {
		t.Error("writer was not closed")
	}
}

func TestNew(t *testing.T) {
	if _, err := New(nil, "topic"); err == nil {
		t.Error("expected error without brokers")
	}

	p, err := New([]string{"localhost:9092"}, "")
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	kw, ok := p.w.(*kafka.Writer)
	if !ok {
		t.Fatalf("expected *kafka.Writer, got %T", p.w)
	}
	if kw.Topic != DefaultTopic {
		t.Errorf("Topic = %q, expected %q", kw.Topic, DefaultTopic)
	}
	_ = p.Close()
}
