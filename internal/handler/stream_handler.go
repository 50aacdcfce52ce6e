package handler

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gofiber/fiber/v2"
	fiberws "github.com/gofiber/websocket/v2"
	"github.com/google/uuid"

	"venturebot-be/internal/constant"
	"venturebot-be/internal/dto"
	"venturebot-be/internal/pkg/logger"
	"venturebot-be/internal/pkg/serverutils"
	"venturebot-be/internal/service"
	ws "venturebot-be/internal/websocket"
	"venturebot-be/pkg/events"
	"venturebot-be/pkg/journey"
)

// StreamHandler owns the realtime endpoint: it authenticates the upgrade,
// relays the session's event stream from the bus to the socket, and accepts
// chat input over the same connection.
type StreamHandler struct {
	hub     *ws.Hub
	bus     *events.Bus
	service service.IJourneyService
	log     logger.ILogger
}

func NewStreamHandler(hub *ws.Hub, bus *events.Bus, svc service.IJourneyService, log logger.ILogger) *StreamHandler {
	return &StreamHandler{hub: hub, bus: bus, service: svc, log: log}
}

func (h *StreamHandler) RegisterRoutes(r fiber.Router) {
	r.Use("/ws", func(ctx *fiber.Ctx) error {
		if fiberws.IsWebSocketUpgrade(ctx) {
			return ctx.Next()
		}
		return fiber.ErrUpgradeRequired
	})
	r.Get("/ws", fiberws.New(h.handle))
}

func (h *StreamHandler) handle(conn *fiberws.Conn) {
	defer conn.Close()

	userIdStr, ok := serverutils.ParseToken(conn.Query("token"))
	if !ok {
		conn.WriteJSON(fiber.Map{"event": constant.EventError, "payload": fiber.Map{"code": "unauthorized", "message": "Invalid token"}})
		return
	}
	userId, err := uuid.Parse(userIdStr)
	if err != nil {
		return
	}
	sessionId, err := uuid.Parse(conn.Query("session_id"))
	if err != nil {
		conn.WriteJSON(fiber.Map{"event": constant.EventError, "payload": fiber.Map{"code": "bad_request", "message": "Invalid session id"}})
		return
	}

	connCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	snapshot, err := h.service.GetSnapshot(connCtx, userId, sessionId)
	if err != nil {
		conn.WriteJSON(fiber.Map{"event": constant.EventError, "payload": fiber.Map{"code": "unknown_session", "message": "Session not found, please create a new one"}})
		return
	}

	stream, err := h.bus.Subscribe(connCtx, sessionId)
	if err != nil {
		h.log.Error("stream-handler", "bus subscribe failed", map[string]any{"error": err.Error()})
		return
	}
	go h.relay(stream, sessionId)

	// Catch the client up before the pumps take over the connection.
	conn.WriteJSON(events.Envelope{
		SessionId:  sessionId,
		Name:       constant.EventSessionReady,
		Payload:    fiber.Map{"stage": snapshot.Session.Stage},
		OccurredAt: time.Now(),
	})

	onMessage := func(data []byte) {
		var msg dto.WsChatMessage
		if err := json.Unmarshal(data, &msg); err != nil || msg.Message == "" {
			return
		}
		go func() {
			_, err := h.service.Chat(connCtx, userId, &dto.ChatRequest{SessionId: sessionId, Message: msg.Message})
			switch {
			case err == nil:
			case err == journey.ErrSessionBusy:
				h.bus.Emit(sessionId, constant.EventError, map[string]any{
					"code":    "session_busy",
					"message": "Hold on, I'm still working on your previous message.",
				})
			case connCtx.Err() != nil:
				// Socket went away mid-step; the orchestrator already discarded it.
			default:
				h.log.Error("stream-handler", "chat over socket failed", map[string]any{"error": err.Error()})
				h.bus.Emit(sessionId, constant.EventError, map[string]any{
					"code":    "internal",
					"message": "Something went wrong on my side. Please try again.",
				})
			}
		}()
	}

	ws.ServeWs(h.hub, conn, sessionId, onMessage)
}

func (h *StreamHandler) relay(stream <-chan events.Envelope, sessionId uuid.UUID) {
	for envelope := range stream {
		data, err := json.Marshal(envelope)
		if err != nil {
			continue
		}
		h.hub.Send(sessionId, data)
	}
}
