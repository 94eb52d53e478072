package evm

import (
	"errors"
	"fmt"
	"strings"

	"github.com/ethereum/go-ethereum/rpc"
)

var (
	// ErrContractCall 表示目标地址不是一个可用的 ERC20 合约：
	// 无代码、返回空数据、返回值无法按 ABI 解码、或节点报告执行回滚。
	// 与网络/节点不可达这类基础设施错误区分开。
	ErrContractCall = errors.New("contract call failed")

	// ErrTxNotFound 表示按哈希找不到已上链的交易（不存在或仍在 pending）。
	ErrTxNotFound = errors.New("transaction not found")
)

// classifyCallError 把 eth_call 的错误分成“合约问题”和“基础设施问题”两类。
// 只有节点明确报告回滚或非法指令时才归为合约问题，其余原样返回。
// 注意 geth 的 "execution aborted (timeout = 5s)" 属于节点超时，不是合约问题。
func classifyCallError(method string, err error) error {
	var dataErr rpc.DataError
	if errors.As(err, &dataErr) && dataErr.ErrorData() != nil {
		return fmt.Errorf("%w: %s: %v", ErrContractCall, method, err)
	}
	var rpcErr rpc.Error
	if errors.As(err, &rpcErr) {
		msg := strings.ToLower(rpcErr.Error())
		if rpcErr.ErrorCode() == 3 ||
			strings.Contains(msg, "revert") ||
			strings.Contains(msg, "invalid opcode") {
			return fmt.Errorf("%w: %s: %v", ErrContractCall, method, err)
		}
	}
	return fmt.Errorf("%s: %w", method, err)
}
