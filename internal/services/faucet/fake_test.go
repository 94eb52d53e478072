package faucet

import (
	"context"
	"errors"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

var (
	operatorAddr  = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	recipientAddr = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	tokenAddr     = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

type fakeChain struct {
	native   *big.Int
	token    *big.Int
	decimals uint8
	symbol   string
	chainID  int64
	err      error
}

func (f *fakeChain) NativeBalance(context.Context, common.Address) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return new(big.Int).Set(f.native), nil
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return big.NewInt(f.chainID), nil
}

func (f *fakeChain) TokenBalance(context.Context, common.Address, common.Address) (*big.Int, error) {
	if f.err != nil {
		return nil, f.err
	}
	return new(big.Int).Set(f.token), nil
}

func (f *fakeChain) TokenDecimals(context.Context, common.Address) (uint8, error) {
	if f.err != nil {
		return 0, f.err
	}
	return f.decimals, nil
}

func (f *fakeChain) TokenSymbol(context.Context, common.Address) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	return f.symbol, nil
}

type sent struct {
	token  common.Address
	to     common.Address
	amount *big.Int
	native bool
}

// fakeOperator 记录每一次广播；每笔交易的 nonce 递增，因此哈希互不相同。
type fakeOperator struct {
	mu      sync.Mutex
	sent    []sent
	sendErr error
	waitErr error
	status  uint64
	// block 为 true 时 WaitMined 一直阻塞到 ctx 结束。
	block bool
}

func newFakeOperator() *fakeOperator {
	return &fakeOperator{status: types.ReceiptStatusSuccessful}
}

func (f *fakeOperator) Address() common.Address { return operatorAddr }

func (f *fakeOperator) record(s sent) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sent = append(f.sent, s)
	to := s.to
	if !s.native {
		to = s.token
	}
	return types.NewTx(&types.LegacyTx{
		Nonce:    uint64(len(f.sent)),
		To:       &to,
		Value:    s.amount,
		Gas:      21000,
		GasPrice: big.NewInt(1),
	}), nil
}

func (f *fakeOperator) SendNative(_ context.Context, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return f.record(sent{to: to, amount: amount, native: true})
}

func (f *fakeOperator) SendToken(_ context.Context, token, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return f.record(sent{token: token, to: to, amount: amount})
}

func (f *fakeOperator) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	if f.waitErr != nil {
		return nil, f.waitErr
	}
	return &types.Receipt{
		Status:      f.status,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(42),
	}, nil
}

func (f *fakeOperator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.sent)
}

var errBoom = errors.New("boom")

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}
