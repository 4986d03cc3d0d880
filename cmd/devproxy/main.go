package main

import (
	"flag"
	"net/http"
	"net/http/httputil"
	"net/url"

	"go.uber.org/zap"
)

// 开发期注入的宽松 CSP：允许本地调试时的 inline/eval 与 ws 连接
const permissiveCSP = "default-src * 'unsafe-inline' 'unsafe-eval' data: blob: ws: wss:; " +
	"script-src * 'unsafe-inline' 'unsafe-eval'; style-src * 'unsafe-inline';"

// 开发代理：把请求转发到前端 dev server，剥离上游 CSP 响应头并注入宽松策略。
// 仅用于本地开发，生产环境不部署
func main() {
	var (
		addr   string
		target string
	)
	flag.StringVar(&addr, "addr", ":5178", "proxy listen address")
	flag.StringVar(&target, "target", "http://localhost:5176", "upstream dev server URL")
	flag.Parse()

	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	log := logger.Sugar()
	defer func() { _ = log.Sync() }()

	upstream, err := url.Parse(target)
	if err != nil {
		log.Fatalf("invalid target %q: %v", target, err)
	}

	// ReverseProxy 自带 Upgrade 透传，WebSocket 热更新连接无需单独处理
	proxy := httputil.NewSingleHostReverseProxy(upstream)
	proxy.ModifyResponse = func(resp *http.Response) error {
		resp.Header.Del("Content-Security-Policy")
		resp.Header.Del("Content-Security-Policy-Report-Only")
		resp.Header.Set("Content-Security-Policy", permissiveCSP)
		return nil
	}

	log.Infof("dev proxy listening on %s, forwarding to %s", addr, target)
	if err := http.ListenAndServe(addr, proxy); err != nil {
		log.Fatalf("listen: %v", err)
	}
}
