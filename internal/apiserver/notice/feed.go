package notice

import (
	"encoding/json"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
)

// 通知变更消息类型
const (
	EventCreated = "notice_created"
	EventUpdated = "notice_updated"
	EventDeleted = "notice_deleted"
)

const (
	writeWait  = 10 * time.Second
	pongWait   = 60 * time.Second
	pingPeriod = 30 * time.Second
	sendBuffer = 16
)

var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		return true // 与 REST 接口一致，允许跨域
	},
}

// FeedMessage WebSocket 推送消息
type FeedMessage struct {
	Type      string      `json:"type"`
	ID        interface{} `json:"id"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp time.Time   `json:"timestamp"`
}

type feedClient struct {
	conn *websocket.Conn
	send chan []byte
}

// Feed 通知变更推送
//
// 客户端只接收消息；发送给客户端的内容被忽略。
// 每个连接一个写协程，慢客户端缓冲写满时直接断开。
type Feed struct {
	mu       sync.RWMutex
	clients  map[*feedClient]struct{}
	onChange func(active int)
}

// NewFeed 创建通知推送
func NewFeed() *Feed {
	return &Feed{clients: make(map[*feedClient]struct{})}
}

// OnConnectionChange 注册连接数变化回调（指标）
func (f *Feed) OnConnectionChange(fn func(active int)) {
	f.onChange = fn
}

// Count 当前连接数
func (f *Feed) Count() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return len(f.clients)
}

// HandleWebSocket 处理 WebSocket 连接
//
// 路由: GET /ws/notices
func (f *Feed) HandleWebSocket(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[NoticeFeed] Upgrade error: %v", err)
		return
	}

	c := &feedClient{conn: conn, send: make(chan []byte, sendBuffer)}
	f.mu.Lock()
	f.clients[c] = struct{}{}
	active := len(f.clients)
	f.mu.Unlock()
	f.changed(active)

	log.Printf("[NoticeFeed] Client connected, total: %d", active)

	go f.writePump(c)
	go f.readPump(c)
}

func (f *Feed) changed(active int) {
	if f.onChange != nil {
		f.onChange(active)
	}
}

func (f *Feed) remove(c *feedClient) {
	f.mu.Lock()
	_, ok := f.clients[c]
	if ok {
		delete(f.clients, c)
		close(c.send)
	}
	active := len(f.clients)
	f.mu.Unlock()

	if ok {
		f.changed(active)
		log.Printf("[NoticeFeed] Client disconnected, remaining: %d", active)
	}
}

func (f *Feed) readPump(c *feedClient) {
	defer func() {
		f.remove(c)
		c.conn.Close()
	}()

	c.conn.SetReadLimit(512)
	c.conn.SetReadDeadline(time.Now().Add(pongWait))
	c.conn.SetPongHandler(func(string) error {
		c.conn.SetReadDeadline(time.Now().Add(pongWait))
		return nil
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				log.Printf("[NoticeFeed] Read error: %v", err)
			}
			return
		}
	}
}

func (f *Feed) writePump(c *feedClient) {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.conn.Close()
	}()

	for {
		select {
		case data, ok := <-c.send:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				c.conn.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				log.Printf("[NoticeFeed] Write error: %v", err)
				return
			}
		case <-ticker.C:
			c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// Broadcast 向所有连接推送一条消息
func (f *Feed) Broadcast(eventType string, id, data interface{}) {
	if f == nil {
		return
	}
	msg, err := json.Marshal(FeedMessage{Type: eventType, ID: id, Data: data, Timestamp: time.Now()})
	if err != nil {
		log.Printf("[NoticeFeed] Marshal error: %v", err)
		return
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	for c := range f.clients {
		select {
		case c.send <- msg:
		default:
			// 缓冲已满，断开后由 readPump 清理
			c.conn.Close()
		}
	}
}

// Close 断开所有连接（服务关闭时调用）
func (f *Feed) Close() {
	f.mu.Lock()
	clients := f.clients
	f.clients = make(map[*feedClient]struct{})
	for c := range clients {
		close(c.send)
	}
	f.mu.Unlock()
	f.changed(0)
}
