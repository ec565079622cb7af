package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/voxhire/voxhire/internal/callengine"
	"github.com/voxhire/voxhire/internal/services"
	"github.com/voxhire/voxhire/internal/utils"
)

// EventsHandler carries one session's live call-event stream over a
// websocket. Inbound frames are call-engine events; outbound frames are the
// session's status updates fanned out through redis.
type EventsHandler struct {
	orch     services.Orchestrator
	profiles services.ProfileService
	redis    *redis.Client
	upgrader websocket.Upgrader
}

func NewEventsHandler(orch services.Orchestrator, profiles services.ProfileService, rdb *redis.Client) *EventsHandler {
	return &EventsHandler{
		orch:     orch,
		profiles: profiles,
		redis:    rdb,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool { return true }, // TODO: restrict origin in prod
		},
	}
}

type wsConn struct {
	c  *websocket.Conn
	mu sync.Mutex
}

func (w *wsConn) writeText(b []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.c.SetWriteDeadline(time.Now().Add(10 * time.Second))
	return w.c.WriteMessage(websocket.TextMessage, b)
}

func (h *EventsHandler) SessionEvents(c *gin.Context) {
	userID, ok := requireUserID(c)
	if !ok {
		return
	}

	sessionID := c.Param("session_id")
	if sessionID == "" {
		writeError(c, utils.E(utils.CodeInvalidArgument, "EventsHandler.SessionEvents", "missing session_id", nil))
		return
	}

	// authorize session ownership before upgrading
	sess, err := h.orch.Get(c.Request.Context(), sessionID)
	if err != nil {
		writeError(c, err)
		return
	}
	profile, err := h.profiles.GetMe(c.Request.Context(), userID)
	if err != nil || profile.ID != sess.CandidateID {
		writeError(c, utils.E(utils.CodeForbidden, "EventsHandler.SessionEvents", "forbidden", nil))
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		// upgrade already wrote response in most cases
		return
	}
	defer conn.Close()

	wc := &wsConn{c: conn}
	ctx, cancel := context.WithCancel(c.Request.Context())
	defer cancel()

	pubsub := h.redis.Subscribe(ctx, services.StatusChannel(sessionID))
	defer pubsub.Close()

	// reader: engine events -> orchestrator
	readDone := make(chan struct{})
	go func() {
		defer close(readDone)
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		conn.SetPongHandler(func(string) error {
			_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
			return nil
		})

		for {
			_, data, rerr := conn.ReadMessage()
			if rerr != nil {
				return
			}

			var ev callengine.Event
			if err := json.Unmarshal(data, &ev); err != nil {
				_ = wc.writeText([]byte(`{"type":"error","code":"INVALID_ARGUMENT","message":"invalid json"}`))
				continue
			}

			if err := h.orch.Ingest(ctx, sessionID, ev); err != nil {
				code := utils.CodeInternal
				var ae *utils.AppError
				if errors.As(err, &ae) {
					code = ae.Code
				}
				_ = wc.writeText([]byte(`{"type":"error","code":"` + string(code) + `","message":"event rejected"}`))
				continue
			}

			if ev.Type == callengine.EventCallEnded {
				// finalize already ran synchronously inside Ingest
				return
			}
		}
	}()

	// writer: redis status stream -> socket
	pumpStatus(ctx, readDone, pubsub.Channel(), wc.writeText)
}

// pumpStatus forwards status messages to write until the subscription
// closes, the reader goroutine finishes, or the context ends — whichever
// comes first, so a dropped client never parks the handler waiting for the
// next publish.
func pumpStatus(ctx context.Context, readDone <-chan struct{}, ch <-chan *redis.Message, write func([]byte) error) {
	for {
		select {
		case <-readDone:
			return
		case <-ctx.Done():
			return
		case m, ok := <-ch:
			if !ok {
				return
			}
			if err := write([]byte(m.Payload)); err != nil {
				return
			}
		}
	}
}
