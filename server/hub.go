package server

import (
	"encoding/json"
	"sync"

	"go.uber.org/zap"
)

// outbound 连接的发送端抽象。生产环境是 *Client（写协程 + 缓冲队列），
// 测试里可以换成内存桩，Hub 不关心底层是什么 socket
type outbound interface {
	Enqueue(b []byte)
	Close()
}

type cmdKind int

const (
	cmdAttach cmdKind = iota // 新连接接入（注册发送端，此时还没有玩家记录）
	cmdEvent                 // 入站具名事件
	cmdDetach                // 连接断开（优雅或异常断开走同一条路）
)

type command struct {
	kind  cmdKind
	id    string
	out   outbound // 仅 cmdAttach 携带
	event string
	data  json.RawMessage
}

// Hub 广播路由器：把每个入站事件翻译成名录操作加出站扇出。
// 所有命令经由单协程串行处理，名录操作彼此天然原子，无跨事件交错
type Hub struct {
	cfg     Config
	dir     *Directory
	metrics *Metrics
	log     *zap.SugaredLogger

	commands chan command
	quit     chan struct{}
	quitOnce sync.Once
	clients  map[string]outbound // 当前在线连接的发送端
}

// NewHub 创建 Hub；名录与指标由调用方注入，便于测试与多实例并存
func NewHub(cfg Config, dir *Directory, metrics *Metrics, log *zap.SugaredLogger) *Hub {
	return &Hub{
		cfg:      cfg,
		dir:      dir,
		metrics:  metrics,
		log:      log,
		commands: make(chan command, cfg.CommandBuffer),
		quit:     make(chan struct{}),
		clients:  make(map[string]outbound),
	}
}

// Run 单协程主循环，Close 后返回
func (h *Hub) Run() {
	for {
		select {
		case cmd := <-h.commands:
			h.handle(cmd)
		case <-h.quit:
			return
		}
	}
}

// Close 停止主循环。幂等；停机后投递的命令被静默丢弃
func (h *Hub) Close() {
	h.quitOnce.Do(func() { close(h.quit) })
}

// Attach 注册新连接的发送端。阻塞式写入：接入必须生效
func (h *Hub) Attach(id string, out outbound) {
	select {
	case h.commands <- command{kind: cmdAttach, id: id, out: out}:
	case <-h.quit:
	}
}

// Detach 通知连接已断开。阻塞式写入：断开清理必须生效，
// 且排在该连接 in-flight 事件之后，保证离场广播恰好一次
func (h *Hub) Detach(id string) {
	select {
	case h.commands <- command{kind: cmdDetach, id: id}:
	case <-h.quit:
	}
}

// Dispatch 投递入站事件。不阻塞：通道拥塞时丢弃，避免慢消费拖垮读协程
func (h *Hub) Dispatch(id, event string, data json.RawMessage) {
	select {
	case h.commands <- command{kind: cmdEvent, id: id, event: event, data: data}:
	default:
		h.metrics.IncCommandsDiscarded()
	}
}

func (h *Hub) handle(cmd command) {
	switch cmd.kind {
	case cmdAttach:
		h.attach(cmd.id, cmd.out)
	case cmdDetach:
		h.detach(cmd.id)
	case cmdEvent:
		h.handleEvent(cmd.id, cmd.event, cmd.data)
	}
}

func (h *Hub) handleEvent(id, event string, data json.RawMessage) {
	switch event {
	case EventJoin:
		h.handleJoin(id, data)
	case EventPlayerMovement:
		h.handleMovement(id, data)
	case EventCharacterChange:
		h.handleCharacterChange(id, data)
	case EventChatMessage:
		h.handleChat(id, data)
	default:
		h.metrics.IncUnknownEvent()
		h.log.Debugf("unknown event %q from %s", event, shortID(id))
	}
}

func (h *Hub) attach(id string, out outbound) {
	h.clients[id] = out
	h.metrics.IncConnected()
	h.log.Infof("player connected: %s", shortID(id))
}

// detach 移除连接：发送端下线、名录删除、全员离场广播。
// 幂等——重复断开（或断开竞态）只会生效一次
func (h *Hub) detach(id string) {
	out, ok := h.clients[id]
	if !ok {
		return
	}
	delete(h.clients, id)
	out.Close()

	if rec, found := h.dir.Get(id); found {
		h.log.Infof("player disconnected: %s (%s)", rec.Nickname, shortID(id))
	} else {
		h.log.Infof("player disconnected: %s", shortID(id))
	}
	h.dir.Remove(id)
	h.metrics.IncDisconnected()
	h.broadcast("", EventPlayerDisconnected, id)
	h.log.Infof("total players: %d", h.dir.Size())
}

// handleJoin 建档并回发全量名单，再向其他人通报新玩家。
// 同一连接重复 join 会把记录整体重置为加入时默认值
func (h *Hub) handleJoin(id string, data json.RawMessage) {
	var p JoinPayload
	if len(data) > 0 {
		if err := json.Unmarshal(data, &p); err != nil {
			h.metrics.IncMalformedDropped()
			h.log.Debugf("malformed join payload from %s: %v", shortID(id), err)
			return
		}
	}
	rec := h.dir.Upsert(newPlayerRecord(id, p.Nickname, h.cfg))

	h.sendTo(id, EventCurrentPlayers, h.dir.Snapshot())
	h.broadcast(id, EventNewPlayer, rec)
	h.metrics.IncJoins()
	h.log.Infof("player joined: %s (%s)", rec.Nickname, shortID(id))
	h.log.Infof("total players: %d", h.dir.Size())
}

// handleMovement 更新坐标并向其他人转发。发送者无记录时静默丢弃
// （join 之前的移动、或断开竞态下的迟到事件，协议约定 best-effort）
func (h *Hub) handleMovement(id string, data json.RawMessage) {
	var p MovementPayload
	if err := json.Unmarshal(data, &p); err != nil {
		h.metrics.IncMalformedDropped()
		h.log.Debugf("malformed movement payload from %s: %v", shortID(id), err)
		return
	}
	rec, ok := h.dir.Update(id, func(r *PlayerRecord) {
		r.X, r.Y = p.X, p.Y
		if p.Scene != "" {
			r.Scene = p.Scene
		}
	})
	if !ok {
		h.metrics.IncUnknownSender()
		return
	}
	h.broadcast(id, EventPlayerMoved, MovedBroadcast{
		ID:        id,
		X:         p.X,
		Y:         p.Y,
		Animation: p.Animation,
		Scene:     rec.Scene,
	})
	h.metrics.IncMovesRelayed()
}

// handleCharacterChange 入站载荷是裸整数（精灵集序号）
func (h *Hub) handleCharacterChange(id string, data json.RawMessage) {
	var idx int
	if err := json.Unmarshal(data, &idx); err != nil {
		h.metrics.IncMalformedDropped()
		h.log.Debugf("malformed characterChange payload from %s: %v", shortID(id), err)
		return
	}
	_, ok := h.dir.Update(id, func(r *PlayerRecord) {
		r.CharacterIndex = idx
	})
	if !ok {
		h.metrics.IncUnknownSender()
		return
	}
	h.broadcast(id, EventPlayerCharacterChanged, CharacterChangedBroadcast{
		ID:             id,
		CharacterIndex: idx,
	})
	h.metrics.IncCharacterChanges()
}

// handleChat 只读名录（取昵称与场景），向包括发言者在内的全员广播。
// scene 仅作元数据随帧携带，服务端不按场景过滤收件人
func (h *Hub) handleChat(id string, data json.RawMessage) {
	var p ChatPayload
	if err := json.Unmarshal(data, &p); err != nil || p.Message == "" {
		h.metrics.IncMalformedDropped()
		h.log.Debugf("malformed chat payload from %s", shortID(id))
		return
	}
	rec, ok := h.dir.Get(id)
	if !ok {
		h.metrics.IncUnknownSender()
		return
	}
	scene := p.Scene
	if scene == "" {
		scene = rec.Scene
	}
	h.broadcast("", EventChatMessage, ChatBroadcast{
		ID:       id,
		Nickname: rec.Nickname,
		Message:  p.Message,
		Scene:    scene,
	})
	h.metrics.IncChatsRelayed()
	h.log.Infof("[%s] %s: %s", scene, rec.Nickname, p.Message)
}

// sendTo 单发给指定连接
func (h *Hub) sendTo(id, event string, data any) {
	out, ok := h.clients[id]
	if !ok {
		return
	}
	b, err := encodeEvent(event, data)
	if err != nil {
		h.log.Errorf("encode %s: %v", event, err)
		return
	}
	out.Enqueue(b)
}

// broadcast 扇出给全部连接；except 非空时跳过该连接（all-but-sender 语义）
func (h *Hub) broadcast(except, event string, data any) {
	b, err := encodeEvent(event, data)
	if err != nil {
		h.log.Errorf("encode %s: %v", event, err)
		return
	}
	for id, out := range h.clients {
		if id == except {
			continue
		}
		out.Enqueue(b)
	}
}

// shortID 日志里只展示连接 ID 前缀，保持单行紧凑
func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
