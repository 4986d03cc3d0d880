package server

import "sync"

// Directory 在线玩家名录：连接 ID → PlayerRecord 的内存映射。
// 它是唯一的共享可变状态，由 Hub 独占读写；这里仍然加锁，
// 保证 HTTP 侧（/admin、/metrics）的只读访问安全
type Directory struct {
	mu      sync.RWMutex
	records map[string]*PlayerRecord
	order   []string // 插入顺序，仅用于 Snapshot 的展示确定性
}

// NewDirectory 创建空名录。名录由调用方显式持有并注入，不做包级单例
func NewDirectory() *Directory {
	return &Directory{records: make(map[string]*PlayerRecord)}
}

// Upsert 插入或整体覆盖一条记录（重复 join 不报错，直接重置），返回落库后的副本
func (d *Directory) Upsert(rec PlayerRecord) PlayerRecord {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.records[rec.ID]; !ok {
		d.order = append(d.order, rec.ID)
	}
	cp := rec
	d.records[rec.ID] = &cp
	return rec
}

// Update 对已有记录做部分字段合并；记录不存在时静默忽略（返回 false），
// 调用方应把"没有记录"当作"丢弃该事件"处理
func (d *Directory) Update(id string, mutate func(*PlayerRecord)) (PlayerRecord, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	rec, ok := d.records[id]
	if !ok {
		return PlayerRecord{}, false
	}
	mutate(rec)
	return *rec, true
}

// Get 按 ID 查询，返回副本；不存在时第二返回值为 false
func (d *Directory) Get(id string) (PlayerRecord, bool) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	rec, ok := d.records[id]
	if !ok {
		return PlayerRecord{}, false
	}
	return *rec, true
}

// Remove 删除记录；幂等，重复删除无副作用。返回本次是否真正删到了东西
func (d *Directory) Remove(id string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.records[id]; !ok {
		return false
	}
	delete(d.records, id)
	for i, v := range d.order {
		if v == id {
			d.order = append(d.order[:i], d.order[i+1:]...)
			break
		}
	}
	return true
}

// Snapshot 返回全部记录的副本切片，按插入顺序排列。
// 顺序只保证单次响应内的展示确定性，调用方不应依赖它做正确性判断
func (d *Directory) Snapshot() []PlayerRecord {
	d.mu.RLock()
	defer d.mu.RUnlock()
	out := make([]PlayerRecord, 0, len(d.records))
	for _, id := range d.order {
		if rec, ok := d.records[id]; ok {
			out = append(out, *rec)
		}
	}
	return out
}

// Size 当前在线记录数，仅用于监控与日志展示
func (d *Directory) Size() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.records)
}
