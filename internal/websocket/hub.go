package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Hub WebSocket连接管理中心，向所有展示端广播机器事件
type Hub struct {
	clients   map[string]*Client
	clientsMu sync.RWMutex

	broadcast  chan *Message
	register   chan *Client
	unregister chan *Client
	done       chan struct{}

	// 新连接和get_state请求时返回的当前状态
	stateProvider func() interface{}

	logger *zap.Logger
}

// Message WebSocket消息
type Message struct {
	Type      string          `json:"type"`           // 消息类型
	Data      json.RawMessage `json:"data,omitempty"` // 消息数据
	Timestamp int64           `json:"timestamp"`      // 时间戳
}

// 消息类型
const (
	// 系统消息
	MessageTypeConnected = "connected"
	MessageTypePing      = "ping"
	MessageTypePong      = "pong"
	MessageTypeError     = "error"

	// 状态查询
	MessageTypeGetState = "get_state"
	MessageTypeState    = "state"

	// 机器事件
	MessageTypeSpinResult    = "spin_result"
	MessageTypeBalanceUpdate = "balance_update"
	MessageTypeGameOver      = "game_over"
)

// NewHub 创建Hub
func NewHub(logger *zap.Logger) *Hub {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Hub{
		clients:    make(map[string]*Client),
		broadcast:  make(chan *Message, 256),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		logger:     logger,
	}
}

// SetStateProvider 设置状态提供者
func (h *Hub) SetStateProvider(fn func() interface{}) {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	h.stateProvider = fn
}

// Run 运行Hub，ctx取消后关闭所有客户端
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)

	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.broadcastMessage(message)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// registerClient 注册客户端
func (h *Hub) registerClient(client *Client) {
	h.clientsMu.Lock()
	h.clients[client.ID] = client
	h.clientsMu.Unlock()

	h.logger.Info("WebSocket客户端连接", zap.String("client_id", client.ID))

	h.SendToClient(client.ID, &Message{
		Type:      MessageTypeConnected,
		Timestamp: time.Now().Unix(),
		Data:      json.RawMessage(`{"client_id":"` + client.ID + `"}`),
	})
	h.sendState(client.ID)
}

// unregisterClient 注销客户端
func (h *Hub) unregisterClient(client *Client) {
	h.clientsMu.Lock()
	if _, ok := h.clients[client.ID]; ok {
		delete(h.clients, client.ID)
		close(client.Send)
	}
	h.clientsMu.Unlock()

	h.logger.Info("WebSocket客户端断开", zap.String("client_id", client.ID))
}

func (h *Hub) closeAll() {
	h.clientsMu.Lock()
	defer h.clientsMu.Unlock()
	for id, client := range h.clients {
		delete(h.clients, id)
		close(client.Send)
	}
}

// broadcastMessage 广播消息
func (h *Hub) broadcastMessage(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error("序列化消息失败", zap.Error(err))
		return
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	for _, client := range h.clients {
		select {
		case client.Send <- data:
		default:
			h.logger.Warn("客户端发送缓冲区满，丢弃消息",
				zap.String("client_id", client.ID),
				zap.String("type", message.Type))
		}
	}
}

// sendState 向客户端发送当前状态
func (h *Hub) sendState(clientID string) {
	h.clientsMu.RLock()
	provider := h.stateProvider
	h.clientsMu.RUnlock()
	if provider == nil {
		return
	}

	msg, err := NewMessage(MessageTypeState, provider())
	if err != nil {
		h.logger.Error("序列化状态失败", zap.Error(err))
		return
	}
	h.SendToClient(clientID, msg)
}

// SendToClient 发送消息给指定客户端
func (h *Hub) SendToClient(clientID string, message *Message) error {
	data, err := json.Marshal(message)
	if err != nil {
		return err
	}

	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()

	client, ok := h.clients[clientID]
	if !ok {
		return ErrClientNotFound
	}

	select {
	case client.Send <- data:
		return nil
	default:
		return ErrSendBufferFull
	}
}

// GetOnlineCount 获取在线连接数
func (h *Hub) GetOnlineCount() int {
	h.clientsMu.RLock()
	defer h.clientsMu.RUnlock()
	return len(h.clients)
}

// NewMessage 构造消息
func NewMessage(msgType string, data interface{}) (*Message, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, err
	}
	return &Message{Type: msgType, Data: raw, Timestamp: time.Now().Unix()}, nil
}

// Broadcast 广播消息，Hub停止后直接丢弃
func (h *Hub) Broadcast(message *Message) {
	select {
	case h.broadcast <- message:
	case <-h.done:
	}
}

// BroadcastEvent 序列化并广播事件
func (h *Hub) BroadcastEvent(msgType string, data interface{}) error {
	msg, err := NewMessage(msgType, data)
	if err != nil {
		return err
	}
	h.Broadcast(msg)
	return nil
}

// Register 注册客户端
func (h *Hub) Register(client *Client) {
	select {
	case h.register <- client:
	case <-h.done:
	}
}

// Unregister 注销客户端
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}
