package chainbalance

import (
	"context"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// Provider 是余额查询依赖的链上只读能力，由 internal/adapters/evm.Client 实现。
//
// 约定：
// - 余额一律返回精确整数（wei / token base units）
// - 合约层面的失败（非合约地址、未实现接口、回滚）包装 evm.ErrContractCall，
//   其余错误视为网络/节点问题
type Provider interface {
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
	TokenBalance(ctx context.Context, token, holder common.Address) (*big.Int, error)
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)
	TokenSymbol(ctx context.Context, token common.Address) (string, error)
	TokenName(ctx context.Context, token common.Address) (string, error)
}
