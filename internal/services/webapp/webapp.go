package webapp

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"net/http"
	"time"

	"crypto-faucet/internal/app"

	"github.com/sirupsen/logrus"
)

// 注意：
// - go:embed 的路径必须相对当前包目录，且不能包含 ".."
// - ui_dist/ 是前端页面（水龙头表单 + 余额查询），随二进制一起分发。
//
//go:embed ui_dist
var uiFS embed.FS

// Options 定义 Web UI + API 服务启动参数。
type Options struct {
	Config app.Config
	Logger *logrus.Logger
}

// Run 启动水龙头 HTTP 服务，ctx 取消后优雅退出。
func Run(ctx context.Context, opts Options) error {
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}
	if opts.Config.ListenAddr == "" {
		opts.Config.ListenAddr = app.DefaultConfig().ListenAddr
	}

	services, err := app.Wire(ctx, opts.Config, log)
	if err != nil {
		return fmt.Errorf("wire services: %w", err)
	}
	defer services.Close()

	s, err := New(services, log)
	if err != nil {
		return err
	}

	httpServer := &http.Server{
		Addr:              opts.Config.ListenAddr,
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
	}

	go func() {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = httpServer.Shutdown(shutdownCtx)
	}()

	log.WithFields(logrus.Fields{
		"addr":    "http://" + opts.Config.ListenAddr,
		"version": app.Version,
	}).Info("faucet listening")
	err = httpServer.ListenAndServe()
	if err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// New 用已组装的服务创建 Server。
func New(services *app.Services, log *logrus.Logger) (*Server, error) {
	sub, err := fs.Sub(uiFS, "ui_dist")
	if err != nil {
		return nil, fmt.Errorf("sub ui fs: %w", err)
	}
	return &Server{
		svc: services,
		log: log,
		ui:  sub,
	}, nil
}
