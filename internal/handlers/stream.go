// handlers/stream.go
package handlers

import (
	"context"
	"net/url"
	"time"

	"github.com/coder/websocket"
	"github.com/coder/websocket/wsjson"
	"github.com/gin-gonic/gin"
	"house-inventory/internal/services"
	"house-inventory/pkg/logger"
	"house-inventory/pkg/metrics"
)

const (
	pingInterval = 30 * time.Second
	writeTimeout = 10 * time.Second
)

// StreamHandler pushes house state snapshots over a WebSocket.
type StreamHandler struct {
	houses         services.HouseFacade
	originPatterns []string
}

// NewStreamHandler accepts upgrades from the given origins (full URLs or
// host patterns).
func NewStreamHandler(houses services.HouseFacade, allowedOrigins []string) *StreamHandler {
	return &StreamHandler{houses: houses, originPatterns: originPatterns(allowedOrigins)}
}

// Houses sends the current state on connect and every later state. Client
// messages are ignored.
func (h *StreamHandler) Houses(c *gin.Context) {
	conn, err := websocket.Accept(c.Writer, c.Request, &websocket.AcceptOptions{
		OriginPatterns: h.originPatterns,
	})
	if err != nil {
		logger.GlobalLogger.Warnf("websocket accept failed: remote=%s, error=%v", c.ClientIP(), err)
		return
	}
	defer conn.CloseNow()

	metrics.WebsocketClients.Inc()
	defer metrics.WebsocketClients.Dec()

	ctx := conn.CloseRead(c.Request.Context())
	snapshots := h.houses.Subscribe(ctx)

	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case state, ok := <-snapshots:
			if !ok {
				conn.Close(websocket.StatusNormalClosure, "")
				return
			}
			wctx, cancel := context.WithTimeout(ctx, writeTimeout)
			err := wsjson.Write(wctx, conn, state)
			cancel()
			if err != nil {
				logger.GlobalLogger.Debugf("websocket write failed: remote=%s, error=%v", c.ClientIP(), err)
				return
			}
		case <-ticker.C:
			if err := conn.Ping(ctx); err != nil {
				return
			}
		case <-ctx.Done():
			return
		}
	}
}

// originPatterns reduces configured origins to the host patterns the
// WebSocket origin check matches against.
func originPatterns(origins []string) []string {
	patterns := make([]string, 0, len(origins))
	for _, o := range origins {
		if u, err := url.Parse(o); err == nil && u.Host != "" {
			patterns = append(patterns, u.Host)
			continue
		}
		patterns = append(patterns, o)
	}
	return patterns
}
