package model

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// IsAddress 判断字符串是否为合法的 EVM 地址：
// - 40 位 hex，可带 0x 前缀
// - 全小写/全大写直接接受；大小写混合时必须满足 EIP-55 校验和
func IsAddress(s string) bool {
	if !common.IsHexAddress(s) {
		return false
	}
	h := s
	if len(h) >= 2 && h[0] == '0' && (h[1] == 'x' || h[1] == 'X') {
		h = h[2:]
	}
	if strings.ToLower(h) == h || strings.ToUpper(h) == h {
		return true
	}
	return common.HexToAddress(h).Hex()[2:] == h
}

// ParseAddress 校验并解析地址；失败时返回 invalid_input，field 用于定位出错字段。
func ParseAddress(field, s string) (common.Address, error) {
	if strings.TrimSpace(s) == "" {
		return common.Address{}, InvalidInput(field, field+" is required")
	}
	if !IsAddress(s) {
		return common.Address{}, InvalidInput(field, "invalid "+field)
	}
	return common.HexToAddress(s), nil
}
