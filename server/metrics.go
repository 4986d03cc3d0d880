package server

import "sync/atomic"

// Metrics 中继运行期指标（用于 /metrics 监控与压测观察）
type Metrics struct {
	Connected         int64 // 累计接入的连接数
	Disconnected      int64 // 累计断开的连接数
	Joins             int64 // join 成功次数（含重复 join 重置）
	MovesRelayed      int64 // 转发的移动事件数
	CharacterChanges  int64 // 转发的换装事件数
	ChatsRelayed      int64 // 转发的聊天广播数
	UnknownSender     int64 // 因发送者无记录被丢弃的事件数
	MalformedDropped  int64 // 因载荷不合法被丢弃的事件数
	UnknownEvent      int64 // 未识别的事件名
	CommandsDiscarded int64 // 因命令通道满被丢弃的入站事件数
	SendFullDiscarded int64 // 因发送队列满被丢弃的出站帧数
}

func (m *Metrics) IncConnected() { atomic.AddInt64(&m.Connected, 1) }

func (m *Metrics) IncDisconnected() { atomic.AddInt64(&m.Disconnected, 1) }

func (m *Metrics) IncJoins() { atomic.AddInt64(&m.Joins, 1) }

func (m *Metrics) IncMovesRelayed() { atomic.AddInt64(&m.MovesRelayed, 1) }

func (m *Metrics) IncCharacterChanges() { atomic.AddInt64(&m.CharacterChanges, 1) }

func (m *Metrics) IncChatsRelayed() { atomic.AddInt64(&m.ChatsRelayed, 1) }

func (m *Metrics) IncUnknownSender() { atomic.AddInt64(&m.UnknownSender, 1) }

func (m *Metrics) IncMalformedDropped() { atomic.AddInt64(&m.MalformedDropped, 1) }

func (m *Metrics) IncUnknownEvent() { atomic.AddInt64(&m.UnknownEvent, 1) }

func (m *Metrics) IncCommandsDiscarded() { atomic.AddInt64(&m.CommandsDiscarded, 1) }

func (m *Metrics) IncSendFullDiscarded() { atomic.AddInt64(&m.SendFullDiscarded, 1) }

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *Metrics) Snapshot() map[string]any {
	return map[string]any{
		"connected":           atomic.LoadInt64(&m.Connected),
		"disconnected":        atomic.LoadInt64(&m.Disconnected),
		"joins":               atomic.LoadInt64(&m.Joins),
		"moves_relayed":       atomic.LoadInt64(&m.MovesRelayed),
		"character_changes":   atomic.LoadInt64(&m.CharacterChanges),
		"chats_relayed":       atomic.LoadInt64(&m.ChatsRelayed),
		"unknown_sender":      atomic.LoadInt64(&m.UnknownSender),
		"malformed_dropped":   atomic.LoadInt64(&m.MalformedDropped),
		"unknown_event":       atomic.LoadInt64(&m.UnknownEvent),
		"commands_discarded":  atomic.LoadInt64(&m.CommandsDiscarded),
		"send_full_discarded": atomic.LoadInt64(&m.SendFullDiscarded),
	}
}
