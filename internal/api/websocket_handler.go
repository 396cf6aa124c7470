package api

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/wfunc/slot-machine/internal/config"
	"github.com/wfunc/slot-machine/internal/errors"
	ws "github.com/wfunc/slot-machine/internal/websocket"
)

// WebSocketHandler WebSocket处理器
type WebSocketHandler struct {
	hub      *ws.Hub
	upgrader websocket.Upgrader
	opts     ws.ClientOptions
	logger   *zap.Logger
}

// NewWebSocketHandler 创建WebSocket处理器
func NewWebSocketHandler(hub *ws.Hub, cfg config.WebSocketConfig, logger *zap.Logger) *WebSocketHandler {
	return &WebSocketHandler{
		hub: hub,
		upgrader: websocket.Upgrader{
			ReadBufferSize:    cfg.ReadBufferSize,
			WriteBufferSize:   cfg.WriteBufferSize,
			EnableCompression: cfg.EnableCompression,
			CheckOrigin: func(r *http.Request) bool {
				// 展示端只读，不限制来源
				return true
			},
		},
		opts: ws.ClientOptions{
			WriteWait:      cfg.WriteTimeout,
			PongWait:       cfg.PongTimeout,
			PingPeriod:     cfg.PingInterval,
			MaxMessageSize: cfg.MaxMessageSize,
		},
		logger: logger,
	}
}

// Serve 升级为WebSocket连接并注册到Hub
func (h *WebSocketHandler) Serve(c *gin.Context) {
	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error("WebSocket升级失败",
			zap.String("ip", c.ClientIP()),
			zap.Error(err))
		// upgrader已写入HTTP错误响应，这里只记录到请求日志
		_ = c.Error(errors.Wrap(err, errors.ErrWebSocketConnect))
		return
	}

	client := ws.NewClient(h.hub, conn, h.opts)
	h.hub.Register(client)

	go client.WritePump()
	go client.ReadPump()

	h.logger.Info("WebSocket连接建立",
		zap.String("client_id", client.ID),
		zap.String("ip", c.ClientIP()))
}
