package observer

import (
	"context"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// ExtractionEvent describes one step in the life of a price extraction request.
type ExtractionEvent struct {
	EventType      EventType              `json:"event_type"`
	Timestamp      time.Time              `json:"timestamp"`
	RequestID      string                 `json:"request_id,omitempty"`
	Source         string                 `json:"source,omitempty"`
	ProcessingTime time.Duration          `json:"processing_time"`
	Success        bool                   `json:"success"`
	Price          *float64               `json:"price,omitempty"`
	ErrorMessage   string                 `json:"error_message,omitempty"`
	Metadata       map[string]interface{} `json:"metadata,omitempty"`
}

// EventType represents the type of extraction event
type EventType string

const (
	// ExtractionStarted is emitted once the image source is known.
	ExtractionStarted EventType = "extraction_started"
	// ExtractionCompleted is emitted when the extractor produced a result,
	// whether or not a number was found.
	ExtractionCompleted EventType = "extraction_completed"
	// ExtractionFailed is emitted when the request could not be processed or
	// the image could not be recognized at all.
	ExtractionFailed EventType = "extraction_failed"
)

// Observer defines the interface for event observers
type Observer interface {
	OnEvent(ctx context.Context, event ExtractionEvent)
	GetObserverName() string
}

// Subject defines the interface for event publishers
type Subject interface {
	Subscribe(observer Observer)
	Unsubscribe(observer Observer)
	NotifyObservers(ctx context.Context, event ExtractionEvent)
}

// LoggingObserver logs extraction events
type LoggingObserver struct {
	logger *logrus.Logger
}

// NewLoggingObserver creates a new logging observer
func NewLoggingObserver(logger *logrus.Logger) *LoggingObserver {
	return &LoggingObserver{
		logger: logger,
	}
}

// OnEvent handles extraction events by logging them
func (o *LoggingObserver) OnEvent(ctx context.Context, event ExtractionEvent) {
	fields := logrus.Fields{
		"event_type": event.EventType,
		"source":     event.Source,
		"success":    event.Success,
	}
	if event.RequestID != "" {
		fields["request_id"] = event.RequestID
	}
	if event.ProcessingTime > 0 {
		fields["processing_ms"] = event.ProcessingTime.Milliseconds()
	}
	if event.Price != nil {
		fields["price"] = *event.Price
	}
	if event.ErrorMessage != "" {
		fields["error"] = event.ErrorMessage
	}
	for k, v := range event.Metadata {
		fields[k] = v
	}

	entry := o.logger.WithFields(fields)
	switch event.EventType {
	case ExtractionStarted:
		entry.Debug("Price extraction started")
	case ExtractionCompleted:
		entry.Info("Price extraction completed")
	case ExtractionFailed:
		entry.Warn("Price extraction failed")
	default:
		entry.Info("Extraction event occurred")
	}
}

// GetObserverName returns the observer name
func (o *LoggingObserver) GetObserverName() string {
	return "logging_observer"
}

// MetricsObserver counts extraction outcomes for the lifetime of the process.
type MetricsObserver struct {
	mu                  sync.RWMutex
	started             int64
	pricesFound         int64
	noNumber            int64
	failed              int64
	bySource            map[string]int64
	totalProcessingTime time.Duration
}

// NewMetricsObserver creates a new metrics observer
func NewMetricsObserver() *MetricsObserver {
	return &MetricsObserver{bySource: make(map[string]int64)}
}

// OnEvent handles extraction events by collecting metrics
func (o *MetricsObserver) OnEvent(ctx context.Context, event ExtractionEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()

	switch event.EventType {
	case ExtractionStarted:
		o.started++
		if event.Source != "" {
			o.bySource[event.Source]++
		}
	case ExtractionCompleted:
		if event.Success {
			o.pricesFound++
		} else {
			o.noNumber++
		}
		o.totalProcessingTime += event.ProcessingTime
	case ExtractionFailed:
		o.failed++
	}
}

// GetObserverName returns the observer name
func (o *MetricsObserver) GetObserverName() string {
	return "metrics_observer"
}

// Snapshot returns the current counters as log-friendly fields.
func (o *MetricsObserver) Snapshot() map[string]interface{} {
	o.mu.RLock()
	defer o.mu.RUnlock()

	completed := o.pricesFound + o.noNumber
	avg := time.Duration(0)
	if completed > 0 {
		avg = o.totalProcessingTime / time.Duration(completed)
	}

	bySource := make(map[string]int64, len(o.bySource))
	for k, v := range o.bySource {
		bySource[k] = v
	}

	return map[string]interface{}{
		"extractions_started": o.started,
		"prices_found":        o.pricesFound,
		"no_numeric_value":    o.noNumber,
		"extractions_failed":  o.failed,
		"by_source":           bySource,
		"avg_processing_ms":   avg.Milliseconds(),
	}
}

// EventPublisher implements the Subject interface
type EventPublisher struct {
	mu        sync.RWMutex
	observers []Observer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher() *EventPublisher {
	return &EventPublisher{
		observers: make([]Observer, 0),
	}
}

// Subscribe adds an observer
func (p *EventPublisher) Subscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.observers = append(p.observers, observer)
}

// Unsubscribe removes an observer
func (p *EventPublisher) Unsubscribe(observer Observer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	for i, obs := range p.observers {
		if obs.GetObserverName() == observer.GetObserverName() {
			p.observers = append(p.observers[:i], p.observers[i+1:]...)
			break
		}
	}
}

// NotifyObservers delivers event to every observer in subscription order on
// the caller's goroutine. A panicking observer is logged and skipped.
func (p *EventPublisher) NotifyObservers(ctx context.Context, event ExtractionEvent) {
	p.mu.RLock()
	observers := make([]Observer, len(p.observers))
	copy(observers, p.observers)
	p.mu.RUnlock()

	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}

	for _, obs := range observers {
		notify(ctx, obs, event)
	}
}

func notify(ctx context.Context, obs Observer, event ExtractionEvent) {
	defer func() {
		if r := recover(); r != nil {
			logrus.WithField("observer", obs.GetObserverName()).
				WithField("panic", r).
				Error("Observer panicked while handling event")
		}
	}()
	obs.OnEvent(ctx, event)
}
