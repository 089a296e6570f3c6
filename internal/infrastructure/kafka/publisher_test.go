package publisher

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/LavaJover/freelink-contract-service/internal/domain"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

type fakeWriter struct {
	failures int
	calls    int
	written  []kafka.Message
}

func (w *fakeWriter) WriteMessages(_ context.Context, msgs ...kafka.Message) error {
	w.calls++
	if w.calls <= w.failures {
		return errors.New("broker unavailable")
	}
	w.written = append(w.written, msgs...)
	return nil
}

func (w *fakeWriter) Close() error { return nil }

func newTestPublisher(w *fakeWriter) *DefaultKafkaPublisher {
	return &DefaultKafkaPublisher{writer: w, maxRetries: 3, backoff: time.Millisecond, log: zap.NewNop()}
}

func TestPublishRetriesThenSucceeds(t *testing.T) {
	w := &fakeWriter{failures: 2}
	p := newTestPublisher(w)

	if err := p.Publish(context.Background(), "contract-events", domain.Message{Key: []byte("k"), Value: []byte("v")}); err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if w.calls != 3 || len(w.written) != 1 {
		t.Fatalf("unexpected writer usage: calls=%d written=%d", w.calls, len(w.written))
	}
	if w.written[0].Topic != "contract-events" {
		t.Fatalf("unexpected topic: %s", w.written[0].Topic)
	}
}

func TestPublishGivesUp(t *testing.T) {
	w := &fakeWriter{failures: 10}
	p := newTestPublisher(w)

	if err := p.Publish(context.Background(), "t", domain.Message{Value: []byte("v")}); err == nil {
		t.Fatal("expected error after retries")
	}
	if w.calls != 3 {
		t.Fatalf("unexpected attempts: %d", w.calls)
	}
}

type recordingPort struct {
	topic string
	msgs  []domain.Message
}

func (r *recordingPort) Publish(_ context.Context, topic string, msgs ...domain.Message) error {
	r.topic = topic
	r.msgs = append(r.msgs, msgs...)
	return nil
}

func TestEventPublisherKeysByContract(t *testing.T) {
	port := &recordingPort{}
	p := NewEventPublisher(port, "contract-events", "dispute-events")

	err := p.PublishDisputeEvent(context.Background(), domain.DisputeEvent{
		Event:      "dispute.opened",
		DisputeID:  "d1",
		ContractID: "c1",
		Status:     "open",
	})
	if err != nil {
		t.Fatalf("publish failed: %v", err)
	}
	if port.topic != "dispute-events" || string(port.msgs[0].Key) != "c1" {
		t.Fatalf("unexpected publish: topic=%s key=%s", port.topic, port.msgs[0].Key)
	}

	var decoded domain.DisputeEvent
	if err := json.Unmarshal(port.msgs[0].Value, &decoded); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if decoded.DisputeID != "d1" || decoded.Event != "dispute.opened" {
		t.Fatalf("unexpected payload: %+v", decoded)
	}
}
