package app

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// 环境变量名。
const (
	EnvRPCURL         = "RPC_URL"
	EnvPrivateKey     = "FAUCET_PRIVATE_KEY"
	EnvListenAddr     = "LISTEN_ADDR"
	EnvTokenList      = "TOKEN_LIST"
	EnvConfirmTimeout = "CONFIRM_TIMEOUT"
	EnvLogLevel       = "LOG_LEVEL"
	EnvLogFormat      = "LOG_FORMAT"
)

// Config 是进程级配置，启动时读取一次，运行期间只读。
//
// RPCURL / PrivateKey 缺失不会阻止启动：依赖它们的接口在请求时返回 configuration 错误。
type Config struct {
	RPCURL         string
	PrivateKey     string
	ListenAddr     string
	TokenList      string
	ConfirmTimeout time.Duration
	LogLevel       string
	LogFormat      string
}

// DefaultConfig 返回本地开发环境的默认配置。
func DefaultConfig() Config {
	return Config{
		ListenAddr:     "127.0.0.1:8787",
		ConfirmTimeout: 3 * time.Minute,
		LogLevel:       "info",
		LogFormat:      "text",
	}
}

// LoadConfig 先加载 .env 文件（可选，不覆盖已有环境变量），再从环境变量读取配置。
// envFiles 为空时尝试当前目录的 .env；显式指定但不存在的文件会报错。
func LoadConfig(envFiles ...string) (Config, error) {
	if len(envFiles) == 0 {
		if _, err := os.Stat(".env"); err == nil {
			envFiles = []string{".env"}
		}
	}
	if len(envFiles) > 0 {
		if err := godotenv.Load(envFiles...); err != nil {
			return Config{}, fmt.Errorf("load env file: %w", err)
		}
	}
	return FromEnv(os.LookupEnv)
}

// FromEnv 从 lookup 读取配置；空值使用默认值。
func FromEnv(lookup func(string) (string, bool)) (Config, error) {
	cfg := DefaultConfig()
	get := func(key string) string {
		v, _ := lookup(key)
		return strings.TrimSpace(v)
	}

	cfg.RPCURL = get(EnvRPCURL)
	cfg.PrivateKey = get(EnvPrivateKey)
	cfg.TokenList = get(EnvTokenList)
	if v := get(EnvListenAddr); v != "" {
		cfg.ListenAddr = v
	}
	if v := get(EnvLogLevel); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := get(EnvLogFormat); v != "" {
		cfg.LogFormat = strings.ToLower(v)
	}
	if v := get(EnvConfirmTimeout); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("%s: %w", EnvConfirmTimeout, err)
		}
		if d <= 0 {
			return Config{}, fmt.Errorf("%s must be positive", EnvConfirmTimeout)
		}
		cfg.ConfirmTimeout = d
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate 检查与链无关的配置项（日志格式、监听地址）。
func (c Config) Validate() error {
	if strings.TrimSpace(c.ListenAddr) == "" {
		return errors.New("listen address is required")
	}
	switch c.LogFormat {
	case "text", "json":
	default:
		return fmt.Errorf("%s must be text or json, got %q", EnvLogFormat, c.LogFormat)
	}
	return nil
}

// Missing 返回缺失的链配置项名称（用于启动日志与 /api/health）。
func (c Config) Missing() []string {
	var out []string
	if c.RPCURL == "" {
		out = append(out, EnvRPCURL)
	}
	if c.PrivateKey == "" {
		out = append(out, EnvPrivateKey)
	}
	return out
}
