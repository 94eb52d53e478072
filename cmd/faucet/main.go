package main

import (
	"context"
	"flag"
	"fmt"
	"net"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"runtime"
	"syscall"
	"time"

	"crypto-faucet/internal/app"
	"crypto-faucet/internal/services/webapp"
)

func main() {
	if err := run(context.Background(), os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run 启动水龙头 HTTP 服务。配置优先级：命令行 flag > 进程环境变量 > .env 文件 > 默认值。
func run(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("faucet", flag.ContinueOnError)
	envFile := fs.String("env", "", "optional .env file (default: ./.env when present)")
	listen := fs.String("listen", "", "listen address (overrides LISTEN_ADDR)")
	rpcURL := fs.String("rpc", "", "chain JSON-RPC endpoint (overrides RPC_URL)")
	tokenList := fs.String("tokens", "", "token list yaml (overrides TOKEN_LIST)")
	confirmTimeout := fs.Duration("confirm-timeout", 0, "max wait for one confirmation (overrides CONFIRM_TIMEOUT)")
	logLevel := fs.String("log-level", "", "log level (overrides LOG_LEVEL)")
	logFormat := fs.String("log-format", "", "text|json (overrides LOG_FORMAT)")
	open := fs.Bool("open", false, "open the faucet page in a browser once the server is up")
	if err := fs.Parse(args); err != nil {
		return err
	}

	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := app.LoadConfig(envFiles...)
	if err != nil {
		return err
	}
	fs.Visit(func(f *flag.Flag) {
		switch f.Name {
		case "listen":
			cfg.ListenAddr = *listen
		case "rpc":
			cfg.RPCURL = *rpcURL
		case "tokens":
			cfg.TokenList = *tokenList
		case "confirm-timeout":
			cfg.ConfirmTimeout = *confirmTimeout
		case "log-level":
			cfg.LogLevel = *logLevel
		case "log-format":
			cfg.LogFormat = *logFormat
		}
	})
	if err := cfg.Validate(); err != nil {
		return err
	}
	log, err := app.NewLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}
	if missing := cfg.Missing(); len(missing) > 0 {
		log.WithField("missing", missing).Warn("starting with incomplete chain configuration")
	}

	// Ctrl+C 优雅退出：给 http.Server.Shutdown 一个机会释放端口。
	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	serverErrCh := make(chan error, 1)
	go func() {
		serverErrCh <- webapp.Run(sigCtx, webapp.Options{Config: cfg, Logger: log})
	}()

	if *open {
		uiURL := "http://" + normalizeListenForBrowser(cfg.ListenAddr)
		if err := waitForHTTP(sigCtx, uiURL+"/api/health", 12*time.Second); err == nil {
			if err := openBrowser(uiURL); err != nil {
				log.WithError(err).Warn("open browser")
			}
		}
	}

	return <-serverErrCh
}

func normalizeListenForBrowser(listen string) string {
	// 127.0.0.1:8787 / 0.0.0.0:8787 / :8787 / [::]:8787
	host, port, err := net.SplitHostPort(listen)
	if err != nil {
		return listen
	}
	switch host {
	case "", "0.0.0.0", "::":
		host = "127.0.0.1"
	}
	return net.JoinHostPort(host, port)
}

func waitForHTTP(ctx context.Context, url string, timeout time.Duration) error {
	deadline := time.Now().Add(timeout)
	for time.Now().Before(deadline) {
		req, _ := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
		resp, err := http.DefaultClient.Do(req)
		if err == nil {
			_ = resp.Body.Close()
			if resp.StatusCode >= 200 && resp.StatusCode < 300 {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(250 * time.Millisecond):
		}
	}
	return fmt.Errorf("timeout waiting for %s", url)
}

func openBrowser(url string) error {
	var cmd *exec.Cmd
	switch runtime.GOOS {
	case "darwin":
		cmd = exec.Command("open", url)
	case "windows":
		cmd = exec.Command("cmd", "/c", "start", "", url)
	default:
		cmd = exec.Command("xdg-open", url)
	}
	return cmd.Start()
}
