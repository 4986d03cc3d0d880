package server

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testRecord(id, nickname string) PlayerRecord {
	return newPlayerRecord(id, nickname, DefaultConfig())
}

func TestUpsertInsertsWithDefaults(t *testing.T) {
	d := NewDirectory()
	rec := d.Upsert(testRecord("c1", ""))

	assert.Equal(t, "anonymous", rec.Nickname)
	assert.Equal(t, float64(DefaultSpawnX), rec.X)
	assert.Equal(t, float64(DefaultSpawnY), rec.Y)
	assert.Equal(t, 0, rec.CharacterIndex)
	assert.Equal(t, "main", rec.Scene)
	assert.Equal(t, 1, d.Size())
}

func TestUpsertOverwritesExisting(t *testing.T) {
	d := NewDirectory()
	d.Upsert(testRecord("c1", "Alice"))
	// 模拟移动后再次 join：记录应整体重置，而不是合并
	_, ok := d.Update("c1", func(r *PlayerRecord) { r.X, r.Y = 100, 200 })
	require.True(t, ok)

	rec := d.Upsert(testRecord("c1", "Bob"))
	assert.Equal(t, 1, d.Size())
	assert.Equal(t, "Bob", rec.Nickname)
	assert.Equal(t, float64(DefaultSpawnX), rec.X)
}

func TestUpdateMissingIsSilentNoop(t *testing.T) {
	d := NewDirectory()
	_, ok := d.Update("ghost", func(r *PlayerRecord) { r.X = 1 })
	assert.False(t, ok)
	assert.Equal(t, 0, d.Size())
}

func TestUpdateMergesFields(t *testing.T) {
	d := NewDirectory()
	d.Upsert(testRecord("c1", "Alice"))

	rec, ok := d.Update("c1", func(r *PlayerRecord) { r.CharacterIndex = 3 })
	require.True(t, ok)
	assert.Equal(t, 3, rec.CharacterIndex)
	// 其余字段不受影响
	assert.Equal(t, "Alice", rec.Nickname)
	assert.Equal(t, float64(DefaultSpawnX), rec.X)
}

func TestGetAbsent(t *testing.T) {
	d := NewDirectory()
	_, ok := d.Get("nope")
	assert.False(t, ok)
}

func TestRemoveIsIdempotent(t *testing.T) {
	d := NewDirectory()
	d.Upsert(testRecord("c1", "Alice"))

	assert.True(t, d.Remove("c1"))
	assert.False(t, d.Remove("c1"))
	assert.Equal(t, 0, d.Size())
}

func TestSnapshotInsertionOrder(t *testing.T) {
	d := NewDirectory()
	d.Upsert(testRecord("a", "A"))
	d.Upsert(testRecord("b", "B"))
	d.Upsert(testRecord("c", "C"))
	d.Remove("b")

	snap := d.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, "a", snap[0].ID)
	assert.Equal(t, "c", snap[1].ID)

	// 删除后重新加入的连接排到末尾
	d.Upsert(testRecord("b", "B"))
	snap = d.Snapshot()
	require.Len(t, snap, 3)
	assert.Equal(t, "b", snap[2].ID)
}

func TestSnapshotReturnsCopies(t *testing.T) {
	d := NewDirectory()
	d.Upsert(testRecord("c1", "Alice"))

	snap := d.Snapshot()
	snap[0].Nickname = "mutated"

	rec, ok := d.Get("c1")
	require.True(t, ok)
	assert.Equal(t, "Alice", rec.Nickname)
}
