package websocket

import (
	"encoding/json"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	apperrors "github.com/wfunc/slot-machine/internal/errors"
)

// 错误定义
var (
	ErrClientNotFound = errors.New("客户端未找到")
	ErrSendBufferFull = errors.New("发送缓冲区已满")
)

// ClientOptions 连接参数
type ClientOptions struct {
	WriteWait      time.Duration // 写超时
	PongWait       time.Duration // 读取pong超时
	PingPeriod     time.Duration // ping发送周期，必须小于PongWait
	MaxMessageSize int64         // 最大消息大小
}

// DefaultClientOptions 默认连接参数
func DefaultClientOptions() ClientOptions {
	return ClientOptions{
		WriteWait:      10 * time.Second,
		PongWait:       60 * time.Second,
		PingPeriod:     54 * time.Second,
		MaxMessageSize: 8 * 1024,
	}
}

func (o ClientOptions) normalize() ClientOptions {
	d := DefaultClientOptions()
	if o.WriteWait <= 0 {
		o.WriteWait = d.WriteWait
	}
	if o.PongWait <= 0 {
		o.PongWait = d.PongWait
	}
	if o.PingPeriod <= 0 || o.PingPeriod >= o.PongWait {
		o.PingPeriod = (o.PongWait * 9) / 10
	}
	if o.MaxMessageSize <= 0 {
		o.MaxMessageSize = d.MaxMessageSize
	}
	return o
}

// Client 展示端连接，只接收机器事件
type Client struct {
	ID   string          // 客户端ID
	Hub  *Hub            // Hub引用
	Conn *websocket.Conn // WebSocket连接
	Send chan []byte     // 发送通道

	opts ClientOptions
}

// NewClient 创建新客户端
func NewClient(hub *Hub, conn *websocket.Conn, opts ClientOptions) *Client {
	return &Client{
		ID:   uuid.New().String(),
		Hub:  hub,
		Conn: conn,
		Send: make(chan []byte, 256),
		opts: opts.normalize(),
	}
}

// ReadPump 读取消息
func (c *Client) ReadPump() {
	defer func() {
		c.Hub.Unregister(c)
		c.Conn.Close()
	}()

	c.Conn.SetReadLimit(c.opts.MaxMessageSize)
	c.Conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
	c.Conn.SetPongHandler(func(string) error {
		c.Conn.SetReadDeadline(time.Now().Add(c.opts.PongWait))
		return nil
	})

	for {
		_, message, err := c.Conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				c.Hub.logger.Error("WebSocket读取错误",
					zap.String("client_id", c.ID),
					zap.Error(err))
			}
			break
		}

		c.handleMessage(message)
	}
}

// WritePump 写入消息
func (c *Client) WritePump() {
	ticker := time.NewTicker(c.opts.PingPeriod)
	defer func() {
		ticker.Stop()
		c.Conn.Close()
	}()

	for {
		select {
		case message, ok := <-c.Send:
			c.Conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if !ok {
				// Hub关闭了通道
				c.Conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}

			if err := c.Conn.WriteMessage(websocket.TextMessage, message); err != nil {
				return
			}

		case <-ticker.C:
			c.Conn.SetWriteDeadline(time.Now().Add(c.opts.WriteWait))
			if err := c.Conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// handleMessage 处理接收到的消息
func (c *Client) handleMessage(data []byte) {
	var msg Message
	if err := json.Unmarshal(data, &msg); err != nil {
		c.Hub.logger.Warn("解析WebSocket消息失败",
			zap.String("client_id", c.ID),
			zap.Error(err))
		c.sendError(apperrors.Wrap(err, apperrors.ErrMessageFormat))
		return
	}

	switch msg.Type {
	case MessageTypePing:
		c.Hub.SendToClient(c.ID, &Message{Type: MessageTypePong, Timestamp: time.Now().Unix()})

	case MessageTypePong:
		c.Hub.logger.Debug("收到pong", zap.String("client_id", c.ID))

	case MessageTypeGetState:
		c.Hub.sendState(c.ID)

	default:
		c.sendError(apperrors.Newf(apperrors.ErrNotImplemented, "不支持的消息类型: %s", msg.Type))
	}
}

// sendError 发送错误消息
func (c *Client) sendError(appErr *apperrors.AppError) {
	errorMsg, err := NewMessage(MessageTypeError, appErr)
	if err != nil {
		return
	}
	c.Hub.SendToClient(c.ID, errorMsg)
}
