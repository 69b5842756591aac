package template

import (
	"context"
	"errors"
	"time"
)

// EventType names a template lifecycle transition.
type EventType string

const (
	EventCreate EventType = "create"
	EventUpdate EventType = "update"
	EventRemove EventType = "remove"
)

// Event is one lifecycle notification. Events are keyed per template
// id on the bus so subscribers observe transitions for a given
// template in order.
type Event struct {
	Event      EventType `json:"event"`
	TemplateID int64     `json:"template_id"`
	Tenant     string    `json:"tenant"`
	Timestamp  time.Time `json:"timestamp"`
}

// Notifier publishes lifecycle events after a committed write. A
// Notify failure is a degraded-success condition: it must never undo
// the committed write.
type Notifier interface {
	Notify(ctx context.Context, e Event) error
}

// NoopNotifier discards all events. Used when no bus is configured.
type NoopNotifier struct{}

func (NoopNotifier) Notify(context.Context, Event) error { return nil }

// MultiNotifier fans an event out to several sinks. Every sink is
// attempted; failures are joined.
type MultiNotifier []Notifier

func (m MultiNotifier) Notify(ctx context.Context, e Event) error {
	var errs []error
	for _, n := range m {
		if err := n.Notify(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// Publisher is the message-bus surface the BusNotifier needs.
type Publisher interface {
	PublishJSON(ctx context.Context, topic string, v any) error
}

// TopicFunc maps an event's tenant and template id to a bus topic,
// giving per-template ordering on the bus.
type TopicFunc func(tenant string, templateID int64) string

// BusNotifier publishes events to a message bus.
type BusNotifier struct {
	publisher Publisher
	topic     TopicFunc
}

// NewBusNotifier creates a Notifier backed by the given publisher.
func NewBusNotifier(p Publisher, topic TopicFunc) *BusNotifier {
	return &BusNotifier{publisher: p, topic: topic}
}

func (n *BusNotifier) Notify(ctx context.Context, e Event) error {
	return n.publisher.PublishJSON(ctx, n.topic(e.Tenant, e.TemplateID), e)
}
