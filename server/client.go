package server

import (
	"encoding/json"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Client 单个 WebSocket 连接的包装：读协程解信封投递给 Hub，
// 写协程消费缓冲队列写出。Hub 只通过 outbound 接口触达它
type Client struct {
	id      string
	ws      *websocket.Conn
	send    chan []byte
	cfg     Config
	metrics *Metrics
	log     *zap.SugaredLogger

	closeOnce sync.Once
}

func newClient(id string, ws *websocket.Conn, cfg Config, metrics *Metrics, log *zap.SugaredLogger) *Client {
	return &Client{
		id:      id,
		ws:      ws,
		send:    make(chan []byte, cfg.SendBuffer),
		cfg:     cfg,
		metrics: metrics,
		log:     log,
	}
}

// Enqueue 将出站帧压入队列。不阻塞：队列满则丢弃该帧，
// 保证慢客户端不会反压 Hub 的单协程主循环
func (c *Client) Enqueue(b []byte) {
	select {
	case c.send <- b:
	default:
		c.metrics.IncSendFullDiscarded()
	}
}

// Close 结束写协程。只会被 Hub 的 detach 调用，且幂等
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.send)
	})
}

// writePump 独立协程：消费 send 队列写出，并按周期发 ping 保活
func (c *Client) writePump() {
	ticker := time.NewTicker(c.cfg.PingInterval)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage, []byte{})
				return
			}
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 独立协程：读入站帧、解信封、投递给 Hub。
// 退出时（正常关闭或网络异常）统一走 Detach，离场清理只此一条路
func (c *Client) readPump(h *Hub) {
	defer func() {
		h.Detach(c.id)
		_ = c.ws.Close()
	}()
	c.ws.SetReadLimit(c.cfg.ReadLimit)
	_ = c.ws.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(c.cfg.ReadTimeout))
	})

	for {
		_, payload, err := c.ws.ReadMessage()
		if err != nil {
			return
		}
		var env Envelope
		if err := json.Unmarshal(payload, &env); err != nil || env.Event == "" {
			c.metrics.IncMalformedDropped()
			continue
		}
		h.Dispatch(c.id, env.Event, env.Data)
	}
}
