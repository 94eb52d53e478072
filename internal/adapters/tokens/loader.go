package tokens

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/platform/hash"
	"crypto-faucet/internal/platform/units"

	"gopkg.in/yaml.v3"
)

//go:embed default_tokens.yaml
var defaultTokens []byte

// EmbeddedSource 是未指定文件时 Source 字段的取值。
const EmbeddedSource = "embedded"

// Loader 负责读取并校验代币清单。File 为空时使用内置清单。
type Loader struct {
	File string
}

// LoadedTokens 是加载后的清单及其文件哈希，便于确认当前生效的版本。
type LoadedTokens struct {
	List   model.TokenList
	SHA256 string
	Source string
}

func NewLoader(file string) *Loader {
	return &Loader{File: strings.TrimSpace(file)}
}

// Load 读取清单文件（或内置清单），解析 YAML 并执行结构校验。
func (l *Loader) Load(ctx context.Context) (*LoadedTokens, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw := defaultTokens
	source := EmbeddedSource
	if l.File != "" {
		b, err := os.ReadFile(l.File)
		if err != nil {
			return nil, fmt.Errorf("read token list: %w", err)
		}
		raw = b
		source = l.File
	}

	var list model.TokenList
	if err := yaml.Unmarshal(raw, &list); err != nil {
		return nil, fmt.Errorf("parse token list: %w", err)
	}
	if err := validateTokenList(list); err != nil {
		return nil, err
	}

	return &LoadedTokens{
		List:   list,
		SHA256: hash.Bytes(raw),
		Source: source,
	}, nil
}

// validateTokenList 检查清单完整性：版本、地址格式、地址唯一、decimals 范围。
func validateTokenList(list model.TokenList) error {
	if strings.TrimSpace(list.Version) == "" {
		return errors.New("token list: version is required")
	}
	if len(list.Tokens) == 0 {
		return errors.New("token list: tokens is empty")
	}

	seen := make(map[string]struct{}, len(list.Tokens))
	for i, tk := range list.Tokens {
		if strings.TrimSpace(tk.Symbol) == "" {
			return fmt.Errorf("token list: symbol is required (index %d)", i)
		}
		if strings.TrimSpace(tk.Name) == "" {
			return fmt.Errorf("token list: name is required: %s", tk.Symbol)
		}
		if !model.IsAddress(tk.Address) {
			return fmt.Errorf("token list: invalid address for %s: %s", tk.Symbol, tk.Address)
		}
		key := strings.ToLower(strings.TrimPrefix(tk.Address, "0x"))
		if _, ok := seen[key]; ok {
			return fmt.Errorf("token list: duplicate address: %s", tk.Address)
		}
		seen[key] = struct{}{}

		if tk.Decimals < 0 || tk.Decimals > units.MaxDecimals {
			return fmt.Errorf("token list: decimals out of range for %s: %d", tk.Symbol, tk.Decimals)
		}
	}
	return nil
}
