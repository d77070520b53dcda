package handlers

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"

	"github.com/vizorhq/vizor-core/internal/config"
	"github.com/vizorhq/vizor-core/internal/models"
	"github.com/vizorhq/vizor-core/internal/services"
	"github.com/vizorhq/vizor-core/pkg/logger"
)

// WebSocketHandler serves the interactive preview stream: the client sends a
// payload plus overrides, the server answers with the rendered output. Each
// message is an independent render, so a UI can re-render live while the
// user tweaks style controls.
type WebSocketHandler struct {
	upgrader          websocket.Upgrader
	service           *services.RenderService
	logger            logger.Logger
	maxMessageSize    int64
	heartbeatInterval time.Duration
}

// previewRequest is one inbound preview frame.
type previewRequest struct {
	Type      string               `json:"type"` // "render"
	RequestID string               `json:"request_id,omitempty"`
	Render    models.RenderRequest `json:"render"`
}

func NewWebSocketHandler(service *services.RenderService, cfg config.WebSocketConfig, log logger.Logger) *WebSocketHandler {
	maxSize := int64(cfg.MaxMessageSize)
	if maxSize <= 0 {
		maxSize = 1 << 20
	}
	return &WebSocketHandler{
		upgrader: websocket.Upgrader{
			ReadBufferSize:  cfg.ReadBufferSize,
			WriteBufferSize: cfg.WriteBufferSize,
			// TODO: tighten in prod (check Origin/Host)
			CheckOrigin: func(r *http.Request) bool { return true },
		},
		service:           service,
		logger:            log,
		maxMessageSize:    maxSize,
		heartbeatInterval: 30 * time.Second,
	}
}

// HandlePreviewStream - WebSocket endpoint for interactive chart previews
func (h *WebSocketHandler) HandlePreviewStream(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket upgrade failed", "error", err)
		return
	}
	defer conn.Close()

	clientID := generateClientID()
	conn.SetReadLimit(h.maxMessageSize)

	h.logger.Info("Preview client connected", "clientId", clientID)
	defer h.logger.Info("Preview client disconnected", "clientId", clientID)

	// Reads happen on their own goroutine; every write goes through the
	// select loop below. Gorilla connections tolerate only one concurrent
	// writer, so the heartbeat and the render replies must share it.
	done := make(chan struct{})
	defer close(done)
	inbound := make(chan previewRequest)
	readErr := make(chan error, 1)
	go func() {
		for {
			var req previewRequest
			if err := conn.ReadJSON(&req); err != nil {
				readErr <- err
				return
			}
			select {
			case inbound <- req:
			case <-done:
				return
			}
		}
	}()

	// basic heartbeat so idle proxies don't drop us
	heartbeat := time.NewTicker(h.heartbeatInterval)
	defer heartbeat.Stop()

	for {
		select {
		case <-heartbeat.C:
			conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
			if err := conn.WriteJSON(map[string]any{
				"type": "heartbeat",
				"data": map[string]any{"ts": time.Now().UnixMilli()},
			}); err != nil {
				return
			}

		case err := <-readErr:
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("Preview read failed", "clientId", clientID, "error", err)
			}
			return

		case req := <-inbound:
			if req.Type != "" && req.Type != "render" {
				h.writePreviewError(conn, req.RequestID, "unsupported message type")
				continue
			}
			if err := req.Render.Validate(); err != nil {
				h.writePreviewError(conn, req.RequestID, err.Error())
				continue
			}

			resp, err := h.service.Render(c.Request.Context(), &req.Render, false)
			if err != nil {
				h.logger.Error("Preview render failed", "clientId", clientID, "error", err)
				h.writePreviewError(conn, req.RequestID, "render failed")
				continue
			}

			conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
			if err := conn.WriteJSON(map[string]any{
				"type":       "render_result",
				"request_id": req.RequestID,
				"data":       resp,
				"timestamp":  time.Now().Format(time.RFC3339),
			}); err != nil {
				h.logger.Error("Preview write failed", "clientId", clientID, "error", err)
				return
			}
		}
	}
}

func (h *WebSocketHandler) writePreviewError(conn *websocket.Conn, requestID, msg string) {
	conn.SetWriteDeadline(time.Now().Add(5 * time.Second))
	_ = conn.WriteJSON(map[string]any{
		"type":       "error",
		"request_id": requestID,
		"error":      msg,
	})
}

// generateClientID returns a random 8-byte hex id.
func generateClientID() string {
	var b [8]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}
