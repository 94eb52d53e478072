package webapp

import (
	"context"
	"io"
	"math/big"
	"sync"
	"testing"

	"crypto-faucet/internal/adapters/tokens"
	"crypto-faucet/internal/app"
	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/services/chainbalance"
	"crypto-faucet/internal/services/faucet"
	"crypto-faucet/internal/services/receipt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/sirupsen/logrus"
)

const (
	operatorHex  = "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266"
	recipientHex = "0x70997970C51812dc3A010C7d01b50e0d17dc79C8"
	tokenHex     = "0x5FbDB2315678afecb367f032d93F642f64180aa3"
	txHex        = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"
)

// fakeNode 同时充当 chainbalance/faucet/receipt 的链端依赖。
type fakeNode struct {
	native    *big.Int
	token     *big.Int
	readErr   error
	tokenErr  error
	lookupErr error
}

func (f *fakeNode) NativeBalance(context.Context, common.Address) (*big.Int, error) {
	return f.native, f.readErr
}
func (f *fakeNode) ChainID(context.Context) (*big.Int, error) { return big.NewInt(31337), f.readErr }
func (f *fakeNode) TokenBalance(context.Context, common.Address, common.Address) (*big.Int, error) {
	return f.token, f.tokenErr
}
func (f *fakeNode) TokenDecimals(context.Context, common.Address) (uint8, error) {
	return 18, f.tokenErr
}
func (f *fakeNode) TokenSymbol(context.Context, common.Address) (string, error) {
	return "FTT", f.tokenErr
}
func (f *fakeNode) TokenName(context.Context, common.Address) (string, error) {
	return "Faucet Test Token", f.tokenErr
}
func (f *fakeNode) TransferByHash(_ context.Context, h common.Hash) (*model.TransferReceipt, error) {
	if f.lookupErr != nil {
		return nil, f.lookupErr
	}
	return &model.TransferReceipt{
		TransactionHash: h,
		BlockNumber:     12,
		From:            common.HexToAddress(operatorHex),
		To:              common.HexToAddress(recipientHex),
		BaseUnits:       big.NewInt(2_000_000_000_000_000_000),
		Asset:           model.NativeAsset(),
		Status:          1,
	}, nil
}

type fakeOperator struct {
	mu      sync.Mutex
	sends   int
	sendErr error
}

func (f *fakeOperator) Address() common.Address { return common.HexToAddress(operatorHex) }

func (f *fakeOperator) send(to common.Address, amount *big.Int) (*types.Transaction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.sendErr != nil {
		return nil, f.sendErr
	}
	f.sends++
	return types.NewTx(&types.LegacyTx{Nonce: uint64(f.sends), To: &to, Value: amount, Gas: 21000, GasPrice: big.NewInt(1)}), nil
}

func (f *fakeOperator) SendNative(_ context.Context, to common.Address, amount *big.Int) (*types.Transaction, error) {
	return f.send(to, amount)
}

func (f *fakeOperator) SendToken(_ context.Context, token, _ common.Address, amount *big.Int) (*types.Transaction, error) {
	return f.send(token, amount)
}

func (f *fakeOperator) WaitMined(_ context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return &types.Receipt{Status: types.ReceiptStatusSuccessful, TxHash: tx.Hash(), BlockNumber: big.NewInt(100)}, nil
}

func (f *fakeOperator) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.sends
}

func ether(n int64) *big.Int {
	return new(big.Int).Mul(big.NewInt(n), big.NewInt(1_000_000_000_000_000_000))
}

func testLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func loadTokens(t *testing.T) *tokens.LoadedTokens {
	t.Helper()
	list, err := tokens.NewLoader("").Load(context.Background())
	if err != nil {
		t.Fatalf("load tokens: %v", err)
	}
	return list
}

// newTestServer 组装 Server。node/op 为 nil 表示对应配置缺失。
func newTestServer(t *testing.T, node *fakeNode, op *fakeOperator) *Server {
	t.Helper()
	var (
		provider chainbalance.Provider
		chain    faucet.Chain
		lookup   receipt.Chain
		operator faucet.Operator
		info     app.ChainInfo
	)
	if node != nil {
		provider, chain, lookup, info = node, node, node, node
	}
	if op != nil {
		operator = op
	}
	svc := &app.Services{
		Balance:  chainbalance.NewService(provider),
		Faucet:   faucet.NewService(chain, operator, faucet.Options{}),
		Receipts: receipt.NewService(lookup),
		Tokens:   loadTokens(t),
		Chain:    info,
	}
	s, err := New(svc, testLogger())
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	return s
}

