package server

import (
	"net/http"
	"os"
	"path/filepath"
	"strings"
)

// SPAHandler 托管客户端打包产物，并做单页应用回退：
// 命中磁盘文件则直接伺服；未命中且不在 /assets/ 下的路径一律回 index.html
// （前端路由刷新不 404）；/assets/ 下未命中保持 404，便于发现缺资源
func SPAHandler(distDir string) http.Handler {
	fs := http.FileServer(http.Dir(distDir))
	index := filepath.Join(distDir, "index.html")

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, "/assets/") {
			fs.ServeHTTP(w, r)
			return
		}
		p := filepath.Join(distDir, filepath.Clean("/"+r.URL.Path))
		if info, err := os.Stat(p); err == nil && !info.IsDir() {
			fs.ServeHTTP(w, r)
			return
		}
		http.ServeFile(w, r, index)
	})
}
