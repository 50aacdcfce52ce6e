package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"venturebot-be/internal/constant"
	"venturebot-be/internal/pkg/logger"
	"venturebot-be/pkg/events"
	"venturebot-be/pkg/journey"
	"venturebot-be/pkg/nats"
)

// eventFanout delivers journey events to the in-process bus that feeds the
// websocket, and mirrors the audit-worthy subset to NATS when configured.
type eventFanout struct {
	bus   *events.Bus
	audit *nats.Publisher // optional
	log   logger.ILogger
}

var _ journey.EventSink = &eventFanout{}

func NewEventFanout(bus *events.Bus, audit *nats.Publisher, log logger.ILogger) journey.EventSink {
	return &eventFanout{bus: bus, audit: audit, log: log}
}

func (f *eventFanout) Emit(sessionId uuid.UUID, name string, payload any) {
	f.bus.Emit(sessionId, name, payload)

	if f.audit == nil {
		return
	}
	switch name {
	case constant.EventStageUpdate, constant.EventError, constant.EventSessionReady:
	default:
		return
	}

	data, ok := payload.(map[string]any)
	if !ok {
		data = map[string]any{"payload": payload}
	}
	data["session_id"] = sessionId.String()

	event := events.BaseEvent{Type: name, Data: data, OccurredAt: time.Now()}
	go func() {
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := f.audit.Publish(ctx, event); err != nil {
			f.log.Warn("event-fanout", "audit publish failed", map[string]any{"event": name, "error": err.Error()})
		}
	}()
}
