package http

import (
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/olahol/melody"

	"timesheet/internal/core"
	"timesheet/internal/events"
	"timesheet/internal/log"
)

const weekKey = "week"

// wsHub forwards change feed events to the websocket sessions watching the
// affected week. Events without a week (catalog changes) go to everyone.
type wsHub struct {
	m      *melody.Melody
	logger *log.Logger
	cancel func()
	done   chan struct{}
	once   sync.Once
}

func newWSHub(broker *events.Broker, logger *log.Logger) *wsHub {
	m := melody.New()
	m.Config.MaxMessageSize = 4096
	m.Config.PingPeriod = 30 * time.Second
	m.Config.PongWait = 60 * time.Second

	h := &wsHub{
		m:      m,
		logger: logger.WithComponent(log.ComponentWebSocket),
		done:   make(chan struct{}),
	}

	m.HandleConnect(func(s *melody.Session) {
		week, _ := s.Get(weekKey)
		h.logger.Debug("Client connected", log.FieldWeekID, week)
	})
	m.HandleDisconnect(func(s *melody.Session) {
		week, _ := s.Get(weekKey)
		h.logger.Debug("Client disconnected", log.FieldWeekID, week)
	})
	m.HandleError(func(s *melody.Session, err error) {
		h.logger.Warn("WebSocket error", log.FieldError, err)
	})

	ch, cancel := broker.Subscribe(256)
	h.cancel = cancel
	go h.run(ch)
	return h
}

func (h *wsHub) run(ch <-chan events.Event) {
	defer close(h.done)
	for e := range ch {
		payload, err := json.Marshal(e)
		if err != nil {
			h.logger.Error("Failed to encode event", log.FieldError, err)
			continue
		}
		if e.WeekID == "" {
			err = h.m.Broadcast(payload)
		} else {
			err = h.m.BroadcastFilter(payload, func(s *melody.Session) bool {
				week, ok := s.Get(weekKey)
				return ok && week == e.WeekID
			})
		}
		if err != nil && !errors.Is(err, melody.ErrClosed) {
			h.logger.Warn("Broadcast failed",
				log.FieldEventType, string(e.Type),
				log.FieldWeekID, e.WeekID,
				log.FieldError, err)
		}
	}
}

// Sessions returns the number of open websocket sessions.
func (h *wsHub) Sessions() int {
	return h.m.Len()
}

// Close stops forwarding and disconnects every session.
func (h *wsHub) Close() {
	h.once.Do(func() {
		h.cancel()
		<-h.done
		_ = h.m.Close()
	})
}

// handleWS upgrades to a websocket bound to the week given by ?week=.
func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	week, err := core.ParseWeek(r.URL.Query().Get("week"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := s.hub.m.HandleRequestWithKeys(w, r, map[string]any{weekKey: week.ID()}); err != nil {
		s.logger.WarnContext(r.Context(), "WebSocket upgrade failed", log.FieldError, err)
	}
}
