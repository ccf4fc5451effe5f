package ginserver

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"slices"
	"sync"
	"time"

	gin "github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"rentcal/internal/app/dto"
	"rentcal/internal/app/policies"
	"rentcal/internal/domain/availability"
)

var errSlowSubscriber = errors.New("stream: subscriber buffer full")

const (
	streamBuffer     = 32
	streamWriteWait  = 5 * time.Second
	streamPongWait   = 60 * time.Second
	streamPingPeriod = streamPongWait * 9 / 10
)

// StreamHandler forwards a property's snapshots to a websocket client. A
// client that falls behind by more than the buffer is disconnected.
type StreamHandler struct {
	Source         policies.SnapshotSource
	AllowedOrigins []string
	Logger         *slog.Logger
}

func (h StreamHandler) upgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			origin := r.Header.Get("Origin")
			if origin == "" || len(h.AllowedOrigins) == 0 || slices.Contains(h.AllowedOrigins, "*") {
				return true
			}
			return slices.Contains(h.AllowedOrigins, origin)
		},
	}
}

func (h StreamHandler) Stream(c *gin.Context) {
	propertyID := c.Param("id")
	updates := make(chan dto.Snapshot, streamBuffer)
	slow := make(chan struct{})
	var slowOnce sync.Once

	// subscribe before the upgrade so no commit after the handshake is missed
	unsubscribe := h.Source.Subscribe(propertyID, func(ctx context.Context, snap availability.Snapshot) error {
		select {
		case updates <- dto.MapSnapshot(snap):
			return nil
		default:
			slowOnce.Do(func() { close(slow) })
			return errSlowSubscriber
		}
	})
	defer unsubscribe()

	up := h.upgrader()
	conn, err := up.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log().Debug("websocket upgrade failed", "property_id", propertyID, "error", err)
		return
	}
	defer conn.Close()

	done := make(chan struct{})
	go func() {
		defer close(done)
		conn.SetReadLimit(512)
		_ = conn.SetReadDeadline(time.Now().Add(streamPongWait))
		conn.SetPongHandler(func(string) error {
			return conn.SetReadDeadline(time.Now().Add(streamPongWait))
		})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	ticker := time.NewTicker(streamPingPeriod)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case <-slow:
			h.log().Warn("stream subscriber too slow, closing", "property_id", propertyID)
			msg := websocket.FormatCloseMessage(websocket.ClosePolicyViolation, "too slow")
			_ = conn.WriteControl(websocket.CloseMessage, msg, time.Now().Add(streamWriteWait))
			return
		case snap := <-updates:
			_ = conn.SetWriteDeadline(time.Now().Add(streamWriteWait))
			if err := conn.WriteJSON(snap); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(streamWriteWait)); err != nil {
				return
			}
		}
	}
}

func (h StreamHandler) log() *slog.Logger {
	if h.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return h.Logger
}

var _ StreamHTTP = StreamHandler{}
