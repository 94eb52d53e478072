package model

import (
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// TransferRequest 是一次发放请求，按请求构造、用完即弃。
// Amount 保留调用方原始的十进制字符串（人类单位），换算在服务内完成。
type TransferRequest struct {
	Asset     Asset
	Amount    string
	Recipient common.Address
}

// TransferReceipt 在链上确认（至少 1 个区块）之后才会产生。
type TransferReceipt struct {
	TransactionHash common.Hash
	BlockNumber     uint64
	From            common.Address
	To              common.Address
	Amount          string   // 人类单位，原样回显请求值或由 BaseUnits 格式化
	BaseUnits       *big.Int // 链上整数值
	Asset           Asset
	Symbol          string
	Status          uint64 // 1=成功 0=回滚（仅回查时可能出现 0）
}

// BalanceResult 是查询时刻的余额快照，不缓存、不保证新鲜度。
type BalanceResult struct {
	Address   common.Address
	Asset     Asset
	Raw       string // 链上原始整数（十进制字符串，精确值）
	Formatted string // 按 Decimals 格式化后的可读值
	Decimals  uint8
	Symbol    string
	Name      string
}
