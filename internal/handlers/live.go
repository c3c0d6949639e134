package handlers

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"compass-go/internal/analysis"
	"compass-go/internal/config"
	"compass-go/internal/models"
)

// LiveHandler serves the in-session feedback stream: the capture layer
// sends SignalFrames over a websocket and gets per-frame InstantMetrics
// back. Each connection owns its own analyzer, so frame history is never
// shared across sessions.
type LiveHandler struct {
	log            *zap.Logger
	allowedOrigins map[string]bool
	upgrader       websocket.Upgrader
}

// NewLiveHandler creates the handler. Browser upgrades are accepted from
// the same origin as the request plus the configured allowlist; requests
// without an Origin header (non-browser capture clients) pass through.
func NewLiveHandler(log *zap.Logger, allowedOrigins []string) *LiveHandler {
	h := &LiveHandler{
		log:            log,
		allowedOrigins: make(map[string]bool, len(allowedOrigins)),
	}
	for _, origin := range allowedOrigins {
		h.allowedOrigins[strings.ToLower(strings.TrimSuffix(origin, "/"))] = true
	}
	h.upgrader = websocket.Upgrader{
		ReadBufferSize:  16384,
		WriteBufferSize: 16384,
		CheckOrigin:     h.originAllowed,
	}
	return h
}

func (h *LiveHandler) originAllowed(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	if h.allowedOrigins[strings.ToLower(strings.TrimSuffix(origin, "/"))] {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// Stream upgrades the connection and runs the analyze loop until the client
// disconnects.
func (h *LiveHandler) Stream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error("Websocket upgrade failed", zap.Error(err))
		return
	}
	defer conn.Close()

	analyzer := analysis.NewFrameAnalyzer(config.Conf.Analysis)
	h.log.Debug("Live analysis stream opened", zap.String("client_ip", c.ClientIP()))

	for {
		var frame models.SignalFrame
		if err := conn.ReadJSON(&frame); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				h.log.Warn("Live stream closed unexpectedly", zap.Error(err))
			}
			return
		}

		metrics := analyzer.Analyze(frame)
		if err := conn.WriteJSON(metrics); err != nil {
			h.log.Warn("Failed to write live metrics", zap.Error(err))
			return
		}
	}
}
