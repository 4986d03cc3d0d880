package server

import (
	"encoding/json"
	"fmt"
)

// 具名事件常量。入站与出站的 chatMessage 同名：入站是客户端发言，出站是全员广播
const (
	EventJoin            = "join"
	EventPlayerMovement  = "playerMovement"
	EventCharacterChange = "characterChange"
	EventChatMessage     = "chatMessage"

	EventCurrentPlayers         = "currentPlayers"
	EventNewPlayer              = "newPlayer"
	EventPlayerMoved            = "playerMoved"
	EventPlayerCharacterChanged = "playerCharacterChanged"
	EventPlayerDisconnected     = "playerDisconnected"
)

// Envelope WebSocket 文本帧的统一信封：{"event":"join","data":{...}}
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// JoinPayload join 的入站载荷；昵称为空时由服务端补默认值
type JoinPayload struct {
	Nickname string `json:"nickname"`
}

// MovementPayload playerMovement 的入站载荷。scene 为空表示沿用上一次上报的场景
type MovementPayload struct {
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Animation string  `json:"animation,omitempty"`
	Scene     string  `json:"scene,omitempty"`
}

// ChatPayload chatMessage 的入站载荷。兼容两种线上格式：
// 旧版客户端直接发字符串，新版发 {"message":..,"scene":..}
type ChatPayload struct {
	Message string `json:"message"`
	Scene   string `json:"scene,omitempty"`
}

// UnmarshalJSON 先按裸字符串解析（旧格式），失败再按结构体解析
func (p *ChatPayload) UnmarshalJSON(b []byte) error {
	var s string
	if err := json.Unmarshal(b, &s); err == nil {
		p.Message = s
		p.Scene = ""
		return nil
	}
	type plain ChatPayload
	var v plain
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*p = ChatPayload(v)
	return nil
}

// MovedBroadcast playerMoved 的出站载荷（发给移动者之外的所有连接）
type MovedBroadcast struct {
	ID        string  `json:"id"`
	X         float64 `json:"x"`
	Y         float64 `json:"y"`
	Animation string  `json:"animation,omitempty"`
	Scene     string  `json:"scene"`
}

// CharacterChangedBroadcast playerCharacterChanged 的出站载荷
type CharacterChangedBroadcast struct {
	ID             string `json:"id"`
	CharacterIndex int    `json:"characterIndex"`
}

// ChatBroadcast chatMessage 的出站载荷，发给包括发言者在内的全部连接。
// scene 只是展示元数据，不在服务端做可见性过滤
type ChatBroadcast struct {
	ID       string `json:"id"`
	Nickname string `json:"nickname"`
	Message  string `json:"message"`
	Scene    string `json:"scene"`
}

// encodeEvent 将出站事件编码为信封帧
func encodeEvent(event string, data any) ([]byte, error) {
	raw, err := json.Marshal(data)
	if err != nil {
		return nil, fmt.Errorf("encode %s payload: %w", event, err)
	}
	return json.Marshal(Envelope{Event: event, Data: raw})
}
