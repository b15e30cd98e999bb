package observer

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
)

type recordingObserver struct {
	name   string
	events []ExtractionEvent
}

func (r *recordingObserver) OnEvent(_ context.Context, e ExtractionEvent) {
	r.events = append(r.events, e)
}

func (r *recordingObserver) GetObserverName() string { return r.name }

type panickingObserver struct{}

func (panickingObserver) OnEvent(context.Context, ExtractionEvent) { panic("observer bug") }
func (panickingObserver) GetObserverName() string                  { return "panicking" }

func TestEventPublisher_NotifiesInOrder(t *testing.T) {
	pub := NewEventPublisher()
	first := &recordingObserver{name: "first"}
	second := &recordingObserver{name: "second"}
	pub.Subscribe(first)
	pub.Subscribe(panickingObserver{})
	pub.Subscribe(second)

	pub.NotifyObservers(context.Background(), ExtractionEvent{EventType: ExtractionStarted, Source: "file"})

	for _, obs := range []*recordingObserver{first, second} {
		if len(obs.events) != 1 {
			t.Fatalf("%s: expected 1 event, got %d", obs.name, len(obs.events))
		}
		if obs.events[0].Timestamp.IsZero() {
			t.Errorf("%s: expected timestamp to be filled in", obs.name)
		}
	}
}

func TestEventPublisher_Unsubscribe(t *testing.T) {
	pub := NewEventPublisher()
	obs := &recordingObserver{name: "only"}
	pub.Subscribe(obs)
	pub.Unsubscribe(obs)

	pub.NotifyObservers(context.Background(), ExtractionEvent{EventType: ExtractionStarted})

	if len(obs.events) != 0 {
		t.Errorf("Expected no events after unsubscribe, got %d", len(obs.events))
	}
}

func TestMetricsObserver_Snapshot(t *testing.T) {
	m := NewMetricsObserver()
	ctx := context.Background()
	price := 4.9

	m.OnEvent(ctx, ExtractionEvent{EventType: ExtractionStarted, Source: "file"})
	m.OnEvent(ctx, ExtractionEvent{EventType: ExtractionCompleted, Success: true, Price: &price, ProcessingTime: 30 * time.Millisecond})
	m.OnEvent(ctx, ExtractionEvent{EventType: ExtractionStarted, Source: "image_data"})
	m.OnEvent(ctx, ExtractionEvent{EventType: ExtractionCompleted, ProcessingTime: 10 * time.Millisecond})
	m.OnEvent(ctx, ExtractionEvent{EventType: ExtractionStarted, Source: "image_data"})
	m.OnEvent(ctx, ExtractionEvent{EventType: ExtractionFailed, ErrorMessage: "boom"})

	snap := m.Snapshot()
	checks := map[string]int64{
		"extractions_started": 3,
		"prices_found":        1,
		"no_numeric_value":    1,
		"extractions_failed":  1,
		"avg_processing_ms":   20,
	}
	for k, want := range checks {
		if got := snap[k]; got != want {
			t.Errorf("%s = %v, want %d", k, got, want)
		}
	}

	bySource := snap["by_source"].(map[string]int64)
	if bySource["image_data"] != 2 || bySource["file"] != 1 {
		t.Errorf("by_source = %v", bySource)
	}
}

func TestLoggingObserver_OnEvent(t *testing.T) {
	var buf bytes.Buffer
	log := logrus.New()
	log.SetOutput(&buf)
	log.SetFormatter(&logrus.JSONFormatter{})
	log.SetLevel(logrus.DebugLevel)

	obs := NewLoggingObserver(log)
	price := 12.5
	obs.OnEvent(context.Background(), ExtractionEvent{
		EventType: ExtractionCompleted,
		RequestID: "req-1",
		Success:   true,
		Price:     &price,
		Metadata:  map[string]interface{}{"bbox": true},
	})

	out := buf.String()
	for _, want := range []string{`"request_id":"req-1"`, `"price":12.5`, `"bbox":true`, "Price extraction completed"} {
		if !strings.Contains(out, want) {
			t.Errorf("Expected log output to contain %s, got %s", want, out)
		}
	}
}
