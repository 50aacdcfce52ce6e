package events

import (
	"context"
	"encoding/json"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/message"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/google/uuid"
)

// Envelope is one realtime event as it travels the in-process bus and, from
// there, the websocket.
type Envelope struct {
	SessionId  uuid.UUID   `json:"session_id"`
	Name       string      `json:"event"`
	Payload    interface{} `json:"payload"`
	OccurredAt time.Time   `json:"occurred_at"`
}

// Bus is the in-process journey event bus. Each session gets its own topic so
// a websocket relay only sees its session's stream, already ordered.
type Bus struct {
	pubSub *gochannel.GoChannel
	logger watermill.LoggerAdapter
}

func NewBus() *Bus {
	logger := watermill.NewStdLogger(false, false)
	return &Bus{
		// Publish must not return until the subscriber has acked, otherwise
		// each message races to the subscriber on its own goroutine and the
		// per-step ordering guarantee breaks. The relay in Subscribe acks
		// immediately and buffers, so emitters never wait on a slow socket.
		pubSub: gochannel.NewGoChannel(gochannel.Config{
			OutputChannelBuffer:            64,
			BlockPublishUntilSubscriberAck: true,
		}, logger),
		logger: logger,
	}
}

func sessionTopic(sessionId uuid.UUID) string {
	return "journey.events." + sessionId.String()
}

// Emit publishes one event on the session's topic. Publish failures are
// logged and swallowed; the realtime channel is best-effort by contract.
func (b *Bus) Emit(sessionId uuid.UUID, name string, payload any) {
	envelope := Envelope{
		SessionId:  sessionId,
		Name:       name,
		Payload:    payload,
		OccurredAt: time.Now(),
	}
	data, err := json.Marshal(envelope)
	if err != nil {
		b.logger.Error("failed to marshal event envelope", err, watermill.LogFields{"event": name})
		return
	}

	msg := message.NewMessage(watermill.NewUUID(), data)
	if err := b.pubSub.Publish(sessionTopic(sessionId), msg); err != nil {
		b.logger.Error("failed to publish event", err, watermill.LogFields{"event": name})
	}
}

// Subscribe returns the ordered event stream for one session. The channel
// closes when ctx is done.
func (b *Bus) Subscribe(ctx context.Context, sessionId uuid.UUID) (<-chan Envelope, error) {
	messages, err := b.pubSub.Subscribe(ctx, sessionTopic(sessionId))
	if err != nil {
		return nil, err
	}

	out := make(chan Envelope, 64)
	go func() {
		defer close(out)
		for msg := range messages {
			var envelope Envelope
			if err := json.Unmarshal(msg.Payload, &envelope); err != nil {
				b.logger.Error("failed to unmarshal event envelope", err, nil)
				msg.Ack()
				continue
			}
			msg.Ack()
			select {
			case out <- envelope:
			case <-ctx.Done():
				return
			}
		}
	}()
	return out, nil
}

// Close shuts the bus down; all subscriber channels close.
func (b *Bus) Close() error {
	return b.pubSub.Close()
}
