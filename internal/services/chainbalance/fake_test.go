package chainbalance

import (
	"context"
	"math/big"
	"sync/atomic"

	"github.com/ethereum/go-ethereum/common"
)

// fakeProvider 是测试替身：固定返回值，并统计被调用次数。
type fakeProvider struct {
	calls atomic.Int32

	native   *big.Int
	chainID  *big.Int
	balance  *big.Int
	decimals uint8
	symbol   string
	name     string

	err      error // 所有调用都返回该错误
	tokenErr error // 仅 token 调用返回该错误
}

func (f *fakeProvider) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.native, nil
}

func (f *fakeProvider) ChainID(ctx context.Context) (*big.Int, error) {
	f.calls.Add(1)
	if f.err != nil {
		return nil, f.err
	}
	return f.chainID, nil
}

func (f *fakeProvider) TokenBalance(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	f.calls.Add(1)
	if err := f.tokenFailure(); err != nil {
		return nil, err
	}
	return f.balance, nil
}

func (f *fakeProvider) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	f.calls.Add(1)
	if err := f.tokenFailure(); err != nil {
		return 0, err
	}
	return f.decimals, nil
}

func (f *fakeProvider) TokenSymbol(ctx context.Context, token common.Address) (string, error) {
	f.calls.Add(1)
	if err := f.tokenFailure(); err != nil {
		return "", err
	}
	return f.symbol, nil
}

func (f *fakeProvider) TokenName(ctx context.Context, token common.Address) (string, error) {
	f.calls.Add(1)
	if err := f.tokenFailure(); err != nil {
		return "", err
	}
	return f.name, nil
}

func (f *fakeProvider) tokenFailure() error {
	if f.err != nil {
		return f.err
	}
	return f.tokenErr
}
