package webapp

import (
	"io/fs"
	"net/http"
	"strings"

	"crypto-faucet/internal/app"

	"github.com/sirupsen/logrus"
)

// Server 是水龙头 Web UI/API 的运行时对象。
type Server struct {
	svc *app.Services
	log *logrus.Logger
	ui  fs.FS
}

// Handler 返回带请求 ID 与访问日志的完整路由。
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	s.registerRoutes(mux)
	return s.withRequestLog(mux)
}

func (s *Server) registerRoutes(mux *http.ServeMux) {
	// API
	mux.HandleFunc("/api/health", s.handleHealth)
	mux.HandleFunc("/api/meta", s.handleMeta)
	mux.HandleFunc("/api/tokens", s.handleTokens)
	mux.HandleFunc("/api/balance", s.handleBalance)
	mux.HandleFunc("/api/faucet", s.handleFaucet)
	mux.HandleFunc("/api/faucet/status", s.handleFaucetStatus)
	mux.HandleFunc("/api/receipts/", s.handleReceiptRoutes)

	// 与旧前端保持兼容的短路径
	mux.HandleFunc("/balance", s.handleBalance)
	mux.HandleFunc("/faucet", s.handleFaucet)

	// UI（单页应用 + 静态资源）
	//
	// 规则：
	// - 先尝试按路径返回静态文件
	// - 文件不存在且无扩展名时回落到 index.html
	// - 缺失的静态资源（有扩展名）返回 404
	uiFileServer := http.FileServer(http.FS(s.ui))
	mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		s.handleUI(w, r, uiFileServer)
	})
}

func (s *Server) handleUI(w http.ResponseWriter, r *http.Request, uiFileServer http.Handler) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	if strings.HasPrefix(r.URL.Path, "/api/") {
		writeJSON(w, http.StatusNotFound, map[string]any{"success": false, "error": "not found"})
		return
	}

	// 不要改写到 /index.html：FileServer 会把它 301 到 "./"。
	if r.URL.Path == "/" || r.URL.Path == "" {
		uiFileServer.ServeHTTP(w, r)
		return
	}

	reqPath := strings.TrimPrefix(r.URL.Path, "/")
	if reqPath != "" {
		if info, err := fs.Stat(s.ui, reqPath); err == nil && !info.IsDir() {
			uiFileServer.ServeHTTP(w, r)
			return
		}
	}

	if strings.Contains(reqPath, ".") {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	r2 := r.Clone(r.Context())
	r2.URL.Path = "/"
	uiFileServer.ServeHTTP(w, r2)
}
