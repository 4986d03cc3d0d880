package server

// 出生点：客户端大地图上的默认落点（第 8 列、第 58 行的瓦片中心，32px 瓦片）
const (
	DefaultSpawnX = 8*32 + 16
	DefaultSpawnY = 58*32 + 16
)

// PlayerRecord 一个在线连接的玩家状态。服务端只做中继：
// 坐标与场景均为客户端自报，服务端不做权威校验
type PlayerRecord struct {
	ID             string  `json:"id"`
	X              float64 `json:"x"`
	Y              float64 `json:"y"`
	CharacterIndex int     `json:"characterIndex"`
	Nickname       string  `json:"nickname"`
	Scene          string  `json:"scene"`
}

// newPlayerRecord 按加入时的默认值构造记录（重复 join 会整体重置为这些默认值）
func newPlayerRecord(id, nickname string, cfg Config) PlayerRecord {
	if nickname == "" {
		nickname = cfg.DefaultNickname
	}
	return PlayerRecord{
		ID:             id,
		X:              cfg.SpawnX,
		Y:              cfg.SpawnY,
		CharacterIndex: 0,
		Nickname:       nickname,
		Scene:          cfg.DefaultScene,
	}
}
