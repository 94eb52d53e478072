package model

import (
	"strings"

	"github.com/ethereum/go-ethereum/common"
)

// AssetKind 区分原生币与 ERC20 合约资产，取值与 HTTP 接口的 tokenType 一致。
type AssetKind string

const (
	// AssetNative 链原生币（ETH/MATIC 等，支付 gas 的那种）。
	AssetNative AssetKind = "native"
	// AssetERC20 通过合约发行的同质化代币。
	AssetERC20 AssetKind = "erc20"
)

// NativeDecimals 原生币固定 18 位小数（1 ether = 1e18 wei）。
const NativeDecimals uint8 = 18

// NativeTokenRef 是原生币在响应 token 字段里的占位值。
const NativeTokenRef = "NATIVE"

// ParseAssetKind 只接受 "native" / "erc20" 两个字面量（大小写敏感）。
func ParseAssetKind(s string) (AssetKind, bool) {
	switch AssetKind(s) {
	case AssetNative, AssetERC20:
		return AssetKind(s), true
	default:
		return "", false
	}
}

// Asset 是 Native | Token{contract} 的标签联合。
type Asset struct {
	Kind     AssetKind
	Contract common.Address // 仅 Kind=erc20 时有意义
}

// NativeAsset 返回原生币资产。
func NativeAsset() Asset {
	return Asset{Kind: AssetNative}
}

// TokenAsset 返回指定合约的 ERC20 资产。
func TokenAsset(contract common.Address) Asset {
	return Asset{Kind: AssetERC20, Contract: contract}
}

func (a Asset) IsNative() bool {
	return a.Kind != AssetERC20
}

// TokenRef 返回对外展示用的 token 标识：原生币为 "NATIVE"，代币为校验和格式的合约地址。
func (a Asset) TokenRef() string {
	if a.IsNative() {
		return NativeTokenRef
	}
	return a.Contract.Hex()
}

// String 便于日志输出。
func (a Asset) String() string {
	if a.IsNative() {
		return string(AssetNative)
	}
	return string(AssetERC20) + ":" + strings.ToLower(a.Contract.Hex())
}
