// Package spectate 通过 websocket 向旁观者广播模拟快照
package spectate

import (
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// writeWait 单条消息的写超时
const writeWait = 2 * time.Second

// HubConfig 广播中心参数
type HubConfig struct {
	Logger *log.Logger
}

// Hub 旁观者广播中心
//
// 模拟线程调用 Broadcast 推送最新快照，HTTP 线程通过 ServeHTTP 接入新的旁观者。
// 新连接先收到最近一次广播的快照。写入失败的连接会被移除。
type Hub struct {
	logger   *log.Logger
	upgrader websocket.Upgrader

	mu      sync.Mutex
	clients map[*client]struct{}
	latest  []byte
	sent    uint64
}

type client struct {
	conn *websocket.Conn
	mu   sync.Mutex
}

func (c *client) write(data []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, data)
}

// NewHub 创建广播中心
func NewHub(cfg HubConfig) *Hub {
	logger := cfg.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Hub{
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
		},
		clients: make(map[*client]struct{}),
	}
}

// ServeHTTP 升级为 websocket 并保持连接直到对端关闭
// 旁观者发送的消息全部丢弃
func (h *Hub) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		h.logger.Printf("[Spectate] upgrade failed for %s: %v", r.RemoteAddr, err)
		return
	}

	c := &client{conn: conn}
	h.mu.Lock()
	h.clients[c] = struct{}{}
	latest := h.latest
	h.mu.Unlock()
	h.logger.Printf("[Spectate] spectator joined: %s", r.RemoteAddr)

	if latest != nil {
		if err := c.write(latest); err != nil {
			h.remove(c)
			return
		}
	}

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			h.remove(c)
			h.logger.Printf("[Spectate] spectator left: %s", r.RemoteAddr)
			return
		}
	}
}

// Broadcast 把 v 编码为 JSON 并发送给全部旁观者
//
// 参数:
//   - v: 任意可 JSON 编码的快照
//
// 返回:
//   - int: 成功送达的连接数
//   - error: 编码失败时返回错误，单个连接写入失败不算错误
func (h *Hub) Broadcast(v any) (int, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return 0, fmt.Errorf("failed to marshal snapshot: %w", err)
	}

	h.mu.Lock()
	h.latest = data
	h.sent++
	targets := make([]*client, 0, len(h.clients))
	for c := range h.clients {
		targets = append(targets, c)
	}
	h.mu.Unlock()

	delivered := 0
	for _, c := range targets {
		if err := c.write(data); err != nil {
			h.logger.Printf("[Spectate] dropping spectator: %v", err)
			h.remove(c)
			continue
		}
		delivered++
	}
	return delivered, nil
}

// Clients 当前连接数
func (h *Hub) Clients() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.clients)
}

// Broadcasts 累计广播次数
func (h *Hub) Broadcasts() uint64 {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.sent
}

// Close 关闭全部连接
func (h *Hub) Close() {
	h.mu.Lock()
	clients := h.clients
	h.clients = make(map[*client]struct{})
	h.mu.Unlock()

	for c := range clients {
		c.mu.Lock()
		c.conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseGoingAway, "simulation stopped"),
			time.Now().Add(writeWait))
		c.mu.Unlock()
		c.conn.Close()
	}
}

func (h *Hub) remove(c *client) {
	h.mu.Lock()
	_, ok := h.clients[c]
	delete(h.clients, c)
	h.mu.Unlock()
	if ok {
		c.conn.Close()
	}
}
