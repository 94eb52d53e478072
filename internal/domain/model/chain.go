package model

import "math/big"

// UnknownNativeSymbol 是未登记 chainId 的兜底展示名。
const UnknownNativeSymbol = "Native Token"

// nativeSymbols 是 chainId -> 原生币符号的静态表，进程内只读。
var nativeSymbols = map[uint64]string{
	1:        "ETH",   // Ethereum mainnet
	11155111: "ETH",   // Sepolia
	137:      "MATIC", // Polygon
	31337:    "ETH",   // Hardhat / Foundry
	80002:    "MATIC", // Amoy
	8453:     "ETH",   // Base
	84532:    "ETH",   // Base Sepolia
}

// NativeSymbol 按 chainId 查原生币符号。
func NativeSymbol(chainID *big.Int) string {
	if chainID == nil || !chainID.IsUint64() {
		return UnknownNativeSymbol
	}
	if s, ok := nativeSymbols[chainID.Uint64()]; ok {
		return s
	}
	return UnknownNativeSymbol
}
