package stream

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/casedesk/caseline/internal/events"
	"github.com/casedesk/caseline/internal/observability"
	"github.com/casedesk/caseline/internal/presence"
)

type Handler struct {
	registry *Registry
	bus      *events.Bus
	presence presence.Store
	cadence  time.Duration
}

func NewHandler(registry *Registry, bus *events.Bus, pres presence.Store, cadence time.Duration) *Handler {
	if cadence <= 0 {
		cadence = 30 * time.Second
	}
	return &Handler{
		registry: registry,
		bus:      bus,
		presence: pres,
		cadence:  cadence,
	}
}

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool { return true },
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	userID := r.URL.Query().Get("user_id")
	deviceID := r.URL.Query().Get("device_id")

	if userID == "" {
		http.Error(w, "missing user_id", http.StatusBadRequest)
		return
	}
	if deviceID == "" {
		deviceID = uuid.NewString()
	}

	log := observability.GetLogger(r.Context())
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Error("upgrade error", zap.Error(err))
		return
	}

	session := NewSession(uuid.NewString(), userID, deviceID, conn)
	h.registry.Add(session)

	// Connecting counts as a heartbeat; the ticker keeps the user online
	// for the life of the connection.
	if err := h.presence.Heartbeat(r.Context(), userID, time.Now().UTC()); err != nil {
		log.Error("stream: presence heartbeat failed", zap.Error(err))
	}
	StartHeartbeat(h.presence, userID, h.cadence, session.Done())

	sub, cancel := h.bus.Subscribe(userID)
	go h.forward(session, sub)

	session.Start()
	log.Info("stream: connected",
		zap.String("user_id", userID),
		zap.String("device_id", deviceID),
	)
	observability.WebSocketConnectionsTotal.WithLabelValues("caseline").Inc()

	go func() {
		defer func() {
			cancel()
			h.registry.Remove(session)
			session.Close()
		}()
		h.readLoop(session)
	}()
}

// forward pushes bus events onto the session until the subscription closes.
// Delivery is best-effort: a full send queue drops the event with a log
// line, never a retry.
func (h *Handler) forward(s *Session, sub <-chan events.Event) {
	for ev := range sub {
		payload, err := json.Marshal(ev)
		if err != nil {
			continue
		}
		if !s.TrySend(payload) {
			observability.GetLogger(context.Background()).Warn("stream: send queue full, dropping event",
				zap.String("user_id", s.UserID),
				zap.String("type", string(ev.Type)),
			)
		}
	}
}

func (h *Handler) readLoop(s *Session) {
	s.conn.SetReadDeadline(time.Now().Add(pongWait))
	s.conn.SetPongHandler(func(string) error {
		s.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := s.conn.ReadMessage(); err != nil {
			return
		}
	}
}
