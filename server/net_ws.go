package server

import (
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

// Gateway WebSocket 接入层：升级连接、分配连接 ID、挂到 Hub 上
type Gateway struct {
	cfg      Config
	hub      *Hub
	metrics  *Metrics
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func NewGateway(cfg Config, hub *Hub, metrics *Metrics, log *zap.SugaredLogger) *Gateway {
	return &Gateway{
		cfg:     cfg,
		hub:     hub,
		metrics: metrics,
		log:     log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				// 客户端经由任意来源（本地开发代理、打包后的静态站点）接入
				return true
			},
		},
	}
}

// ServeHTTP 处理 GET /ws：升级后为连接分配 UUID，启动读写协程。
// 连接 ID 即名录的键，重连会拿到新 ID（与新连接无异）
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warnf("upgrade error: %v", err)
		return
	}

	id := uuid.NewString()
	client := newClient(id, ws, g.cfg, g.metrics, g.log)
	g.hub.Attach(id, client)

	go client.writePump()
	go client.readPump(g.hub)
}
