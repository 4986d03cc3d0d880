package server

import (
	"encoding/json"
	"net/http"
)

// HandleAdminPlayers 当前在线名单的调试视图
// GET /admin/players  返回 {count, players}
func HandleAdminPlayers(dir *Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodGet {
			http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
			return
		}
		payload := map[string]any{
			"count":   dir.Size(),
			"players": dir.Snapshot(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
}

// HandleMetrics 输出运行指标
// GET /metrics  返回 {players, metrics}
func HandleMetrics(m *Metrics, dir *Directory) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		payload := map[string]any{
			"players": dir.Size(),
			"metrics": m.Snapshot(),
		}
		w.Header().Set("Content-Type", "application/json")
		_ = json.NewEncoder(w).Encode(payload)
	}
}
