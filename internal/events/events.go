// Package events publishes carmap pipeline events to NATS as JSON envelopes.
// The OpenTelemetry trace context is carried in the message headers.
package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/nats-io/nats.go"
	"go.opentelemetry.io/otel"

	"github.com/agentstation/carmap/pkg/classify"
	"github.com/agentstation/carmap/pkg/constants"
	"github.com/agentstation/carmap/pkg/errors"
	"github.com/agentstation/carmap/pkg/logging"
	"github.com/agentstation/carmap/pkg/vehicles"
)

// Type names an event. It is also the subject suffix.
type Type string

// Event types.
const (
	MakeAdded        Type = "makes.added"
	MakeUnclassified Type = "makes.unclassified"
	StyleOrphaned    Type = "styles.orphaned"
	RunCompleted     Type = "runs.completed"
)

// Envelope wraps every published event.
type Envelope struct {
	RunID      string    `json:"run_id"`
	Type       Type      `json:"type"`
	OccurredAt time.Time `json:"occurred_at"`
	Data       any       `json:"data"`
}

// Messenger publishes NATS messages. *nats.Conn implements it.
type Messenger interface {
	PublishMsg(msg *nats.Msg) error
}

// Publisher sends events to <prefix>.<type>.
type Publisher struct {
	msgr   Messenger
	prefix string
	now    func() time.Time
	close  func() error
}

// NewPublisher creates a publisher over msgr.
func NewPublisher(msgr Messenger, prefix string) *Publisher {
	if prefix == "" {
		prefix = constants.DefaultSubjectPrefix
	}
	return &Publisher{msgr: msgr, prefix: prefix, now: time.Now}
}

// Connect dials NATS and returns a publisher that drains the connection on Close.
func Connect(url, prefix string) (*Publisher, error) {
	nc, err := nats.Connect(url, nats.Name("carmap"))
	if err != nil {
		return nil, errors.WrapResource("connect", "nats", url, err)
	}
	p := NewPublisher(nc, prefix)
	p.close = nc.Drain
	return p, nil
}

// Subject returns the subject an event type is published to.
func (p *Publisher) Subject(t Type) string {
	return p.prefix + "." + string(t)
}

// Publish sends one event. The run id comes from ctx.
func (p *Publisher) Publish(ctx context.Context, t Type, data any) error {
	env := Envelope{
		RunID:      logging.RunID(ctx),
		Type:       t,
		OccurredAt: p.now().UTC(),
		Data:       data,
	}
	payload, err := json.Marshal(env)
	if err != nil {
		return errors.WrapParse("json", string(t), err)
	}
	msg := &nats.Msg{Subject: p.Subject(t), Data: payload}
	otel.GetTextMapPropagator().Inject(ctx, (*headerCarrier)(msg))
	if err := p.msgr.PublishMsg(msg); err != nil {
		return errors.WrapResource("publish", "event", msg.Subject, err)
	}
	return nil
}

// publish logs instead of returning: a lost event never fails a run.
func (p *Publisher) publish(ctx context.Context, t Type, data any) {
	if err := p.Publish(ctx, t, data); err != nil {
		logging.FromContext(ctx).Warn().Err(err).Str("event", string(t)).Msg("Failed to publish event")
	}
}

// OnMakeAdded publishes a makes.added event.
func (p *Publisher) OnMakeAdded(ctx context.Context, m *vehicles.Make) {
	p.publish(ctx, MakeAdded, map[string]any{"make_id": m.ID, "make_name": m.Name, "make_slug": m.Slug})
}

// OnUnclassifiedMake publishes a makes.unclassified event.
func (p *Publisher) OnUnclassifiedMake(ctx context.Context, e classify.ReviewEntry) {
	p.publish(ctx, MakeUnclassified, e)
}

// OnOrphan publishes a styles.orphaned event.
func (p *Publisher) OnOrphan(ctx context.Context, o vehicles.OrphanEntry) {
	p.publish(ctx, StyleOrphaned, o)
}

// OnRunCompleted publishes a runs.completed event with a run summary.
func (p *Publisher) OnRunCompleted(ctx context.Context, summary any) {
	p.publish(ctx, RunCompleted, summary)
}

// Close drains the connection when the publisher owns it.
func (p *Publisher) Close() error {
	if p.close == nil {
		return nil
	}
	return p.close()
}

// headerCarrier adapts nats.Msg headers for the OTel TextMapCarrier.
type headerCarrier nats.Msg

func (c *headerCarrier) Get(key string) string {
	if c.Header == nil {
		return ""
	}
	return c.Header.Get(key)
}

func (c *headerCarrier) Set(key, val string) {
	if c.Header == nil {
		c.Header = make(nats.Header)
	}
	c.Header.Set(key, val)
}

func (c *headerCarrier) Keys() []string {
	if c.Header == nil {
		return nil
	}
	keys := make([]string, 0, len(c.Header))
	for k := range c.Header {
		keys = append(keys, k)
	}
	return keys
}
