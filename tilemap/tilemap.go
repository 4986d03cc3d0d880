// Package tilemap 实现地图编辑器使用的地图文件格式：
// {width, height, tileSize, mapData, collisionTiles}。
// mapData 是 0/1 二维数组，1 为碰撞瓦片（collisionTiles 固定为 [1]）
package tilemap

import (
	"encoding/json"
	"fmt"
	"os"
)

// 瓦片取值：0 可通行，1 碰撞
const (
	TileFloor     = 0
	TileCollision = 1
)

// Map 地图文件的内存表示，字段与 JSON 契约一一对应
type Map struct {
	Width          int     `json:"width"`
	Height         int     `json:"height"`
	TileSize       int     `json:"tileSize"`
	MapData        [][]int `json:"mapData"`
	CollisionTiles []int   `json:"collisionTiles"`
}

// New 创建全可通行的空地图
func New(width, height, tileSize int) *Map {
	data := make([][]int, height)
	for y := range data {
		data[y] = make([]int, width)
	}
	return &Map{
		Width:          width,
		Height:         height,
		TileSize:       tileSize,
		MapData:        data,
		CollisionTiles: []int{TileCollision},
	}
}

// Generate 创建带边框围墙的地图：最外 border 圈为碰撞瓦片，内部可通行
func Generate(width, height, tileSize, border int) *Map {
	m := New(width, height, tileSize)
	for y := 0; y < height; y++ {
		for x := 0; x < width; x++ {
			if x < border || y < border || x >= width-border || y >= height-border {
				m.MapData[y][x] = TileCollision
			}
		}
	}
	return m
}

// Load 从 JSON 文件读入并校验
func Load(path string) (*Map, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading map %s: %w", path, err)
	}
	var m Map
	if err := json.Unmarshal(b, &m); err != nil {
		return nil, fmt.Errorf("parsing map %s: %w", path, err)
	}
	if err := m.Validate(); err != nil {
		return nil, fmt.Errorf("map %s: %w", path, err)
	}
	return &m, nil
}

// Save 以带缩进的 JSON 写出（与编辑器导出格式一致）
func (m *Map) Save(path string) error {
	b, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding map: %w", err)
	}
	if err := os.WriteFile(path, b, 0o644); err != nil {
		return fmt.Errorf("writing map %s: %w", path, err)
	}
	return nil
}

// Validate 校验尺寸与 mapData 一致、瓦片值合法、碰撞表非空
func (m *Map) Validate() error {
	if m.Width <= 0 || m.Height <= 0 {
		return fmt.Errorf("invalid dimensions %dx%d", m.Width, m.Height)
	}
	if m.TileSize <= 0 {
		return fmt.Errorf("invalid tile size %d", m.TileSize)
	}
	if len(m.MapData) != m.Height {
		return fmt.Errorf("mapData has %d rows, want %d", len(m.MapData), m.Height)
	}
	for y, row := range m.MapData {
		if len(row) != m.Width {
			return fmt.Errorf("row %d has %d tiles, want %d", y, len(row), m.Width)
		}
		for x, v := range row {
			if v != TileFloor && v != TileCollision {
				return fmt.Errorf("tile (%d,%d) has invalid value %d", x, y, v)
			}
		}
	}
	if len(m.CollisionTiles) == 0 {
		return fmt.Errorf("collisionTiles must not be empty")
	}
	return nil
}

// Expand 扩展到更大尺寸：原图内容居中摆放，外围填可通行瓦片。
// 目标尺寸小于原图时报错
func (m *Map) Expand(width, height int) (*Map, error) {
	if width < m.Width || height < m.Height {
		return nil, fmt.Errorf("target %dx%d smaller than source %dx%d", width, height, m.Width, m.Height)
	}
	out := New(width, height, m.TileSize)
	out.CollisionTiles = append([]int(nil), m.CollisionTiles...)

	offX := (width - m.Width) / 2
	offY := (height - m.Height) / 2
	for y := 0; y < m.Height; y++ {
		copy(out.MapData[y+offY][offX:offX+m.Width], m.MapData[y])
	}
	return out, nil
}

// Collidable 判断瓦片坐标是否碰撞；越界视为碰撞
func (m *Map) Collidable(x, y int) bool {
	if x < 0 || y < 0 || x >= m.Width || y >= m.Height {
		return true
	}
	v := m.MapData[y][x]
	for _, c := range m.CollisionTiles {
		if v == c {
			return true
		}
	}
	return false
}
