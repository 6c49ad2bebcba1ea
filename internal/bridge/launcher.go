package bridge

import (
	"context"
	"encoding/json"
	"log/slog"
	"sync"

	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/google/uuid"

	"github.com/addrbook/contact-bridge-service/infra/pubsub"
	"github.com/addrbook/contact-bridge-service/infra/pubsub/factory"
)

// Launcher dispatches a round-trip to the external UI collaborator and
// hands back the pending completion.
type Launcher interface {
	Launch(ctx context.Context, req Request) (*Pending, error)
}

// Detached is the no-collaborator fallback: every launch completes
// immediately with the malformed signal, so callers observe a clean
// could-not-open failure instead of hanging.
type Detached struct{}

var _ Launcher = Detached{}

func (Detached) Launch(_ context.Context, _ Request) (*Pending, error) {
	pnd := NewPending()
	pnd.Resolve(Completion{})
	return pnd, nil
}

// Broker launch/result topics.
const (
	TopicLaunch = "contacts.form.launch"
	TopicResult = "contacts.form.result"
)

type launchEvent struct {
	Kind       string `json:"kind"`
	Identifier string `json:"identifier,omitempty"`
}

type resultEvent struct {
	Locator   string `json:"locator,omitempty"`
	Cancelled bool   `json:"cancelled,omitempty"`
}

// Broker launches round-trips over the message broker: each launch
// publishes a correlated request and parks the pending completion until
// a result message with the same correlation id arrives. Requests with
// no matching result stay pending until the hosting context tears the
// caller down.
type Broker struct {
	broker pubsub.Provider
	logger *slog.Logger

	mu      sync.Mutex
	pending map[string]*Pending
}

var _ Launcher = (*Broker)(nil)

func NewBroker(broker pubsub.Provider, logger *slog.Logger) *Broker {
	return &Broker{
		broker:  broker,
		logger:  logger,
		pending: make(map[string]*Pending),
	}
}

func (b *Broker) Launch(ctx context.Context, req Request) (*Pending, error) {

	body, err := json.Marshal(launchEvent{
		Kind:       req.Kind.String(),
		Identifier: req.Identifier,
	})
	if err != nil {
		return nil, err
	}

	id := uuid.NewString()
	pnd := NewPending()

	b.mu.Lock()
	b.pending[id] = pnd
	b.mu.Unlock()

	msg := message.NewMessage(id, body)
	msg.SetContext(ctx)

	if err := b.broker.Publisher().Publish(TopicLaunch, msg); err != nil {
		b.mu.Lock()
		delete(b.pending, id)
		b.mu.Unlock()
		return nil, err
	}

	return pnd, nil
}

// Subscribe wires the result-topic handler into the broker's router.
func (b *Broker) Subscribe() error {

	sub, err := b.broker.GetFactory().BuildSubscriber(
		"", // name ; autogen
		&factory.SubscriberConfig{
			RoutingKey: TopicResult,
		},
	)
	if err != nil {
		return err
	}

	_ = b.broker.GetRouter().AddHandler(
		"contacts.form",
		// subscriber
		TopicResult, sub,
		// publisher
		"", nil,
		// handler
		b.onResult,
	)

	return nil
}

func (b *Broker) onResult(msg *message.Message) (_ []*message.Message, _ error) {

	b.mu.Lock()
	pnd, ok := b.pending[msg.UUID]
	delete(b.pending, msg.UUID)
	b.mu.Unlock()

	if !ok {
		// unknown or already-resolved correlation; drop
		b.logger.Debug("form result without pending launch",
			"correlation", msg.UUID,
		)
		return nil, nil
	}

	var signal resultEvent
	if err := json.Unmarshal(msg.Payload, &signal); err != nil {
		// malformed payload resolves as the malformed signal
		b.logger.Warn("malformed form result",
			"correlation", msg.UUID, "error", err,
		)
		pnd.Resolve(Completion{})
		return nil, nil
	}

	pnd.Resolve(Completion{
		Locator:   signal.Locator,
		Cancelled: signal.Cancelled,
	})

	// ACK ; no publish
	return nil, nil
}
