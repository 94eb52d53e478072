package evm

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"crypto-faucet/internal/domain/model"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
	"golang.org/x/sync/singleflight"
)

// Backend 是本包依赖的最小链访问能力。
// *ethclient.Client 与 go-ethereum 的 simulated 后端都满足该接口。
type Backend interface {
	bind.ContractBackend
	bind.DeployBackend
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
}

// Dial 连接 JSON-RPC 节点。HTTP(S) 地址不会在这里真正发起连接，首个请求时才会暴露网络错误。
func Dial(ctx context.Context, rpcURL string) (*ethclient.Client, error) {
	rpcURL = strings.TrimSpace(rpcURL)
	if rpcURL == "" {
		return nil, fmt.Errorf("rpc_url is required")
	}
	c, err := ethclient.DialContext(ctx, rpcURL)
	if err != nil {
		return nil, fmt.Errorf("dial rpc: %w", err)
	}
	return c, nil
}

// Client 是只读的链上查询：原生币余额、chainId、ERC20 元数据与余额、交易回查。
type Client struct {
	backend Backend
	sf      singleflight.Group
}

func NewClient(backend Backend) *Client {
	return &Client{backend: backend}
}

// NativeBalance 查询 latest 区块的原生币余额（wei）。
func (c *Client) NativeBalance(ctx context.Context, account common.Address) (*big.Int, error) {
	n, err := c.backend.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("eth_getBalance: %w", err)
	}
	return n, nil
}

// chainIDTimeout 是合并后 eth_chainId 调用的上限，不跟随任何单个调用方的 ctx。
const chainIDTimeout = 30 * time.Second

// ChainID 返回所连网络的 chainId；并发请求合并为一次 RPC。
// 共享的那次调用与发起者的取消解耦，每个调用方只在自己的 ctx 结束时提前返回。
func (c *Client) ChainID(ctx context.Context) (*big.Int, error) {
	ch := c.sf.DoChan("eth_chainId", func() (any, error) {
		callCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), chainIDTimeout)
		defer cancel()
		return c.backend.ChainID(callCtx)
	})
	select {
	case <-ctx.Done():
		return nil, fmt.Errorf("eth_chainId: %w", ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, fmt.Errorf("eth_chainId: %w", res.Err)
		}
		return new(big.Int).Set(res.Val.(*big.Int)), nil
	}
}

func (c *Client) TokenBalance(ctx context.Context, token, holder common.Address) (*big.Int, error) {
	out, err := c.call(ctx, token, "balanceOf", holder)
	if err != nil {
		return nil, err
	}
	n, ok := out[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("%w: balanceOf: unexpected type %T", ErrContractCall, out[0])
	}
	return n, nil
}

func (c *Client) TokenDecimals(ctx context.Context, token common.Address) (uint8, error) {
	out, err := c.call(ctx, token, "decimals")
	if err != nil {
		return 0, err
	}
	d, ok := out[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("%w: decimals: unexpected type %T", ErrContractCall, out[0])
	}
	return d, nil
}

func (c *Client) TokenSymbol(ctx context.Context, token common.Address) (string, error) {
	return c.callString(ctx, token, "symbol")
}

func (c *Client) TokenName(ctx context.Context, token common.Address) (string, error) {
	return c.callString(ctx, token, "name")
}

func (c *Client) callString(ctx context.Context, token common.Address, method string) (string, error) {
	out, err := c.call(ctx, token, method)
	if err != nil {
		return "", err
	}
	s, ok := out[0].(string)
	if !ok {
		return "", fmt.Errorf("%w: %s: unexpected type %T", ErrContractCall, method, out[0])
	}
	return s, nil
}

// call 对 token 合约执行 eth_call 并按 ERC20 ABI 解码返回值。
func (c *Client) call(ctx context.Context, token common.Address, method string, args ...any) ([]any, error) {
	data, err := erc20ABI.Pack(method, args...)
	if err != nil {
		return nil, fmt.Errorf("pack %s: %w", method, err)
	}
	raw, err := c.backend.CallContract(ctx, ethereum.CallMsg{To: &token, Data: data}, nil)
	if err != nil {
		return nil, classifyCallError(method, err)
	}
	// 非合约地址的 eth_call 返回 0x
	if len(raw) == 0 {
		return nil, fmt.Errorf("%w: %s: empty result from %s", ErrContractCall, method, token.Hex())
	}
	out, err := erc20ABI.Unpack(method, raw)
	if err != nil {
		return nil, fmt.Errorf("%w: decode %s: %v", ErrContractCall, method, err)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("%w: %s: no return values", ErrContractCall, method)
	}
	return out, nil
}

// TransferByHash 回查一笔已上链的交易，识别原生币转账与 ERC20 transfer(address,uint256)。
// 返回的 Amount/Symbol 为空，由调用方按资产补全。
func (c *Client) TransferByHash(ctx context.Context, hash common.Hash) (*model.TransferReceipt, error) {
	tx, pending, err := c.backend.TransactionByHash(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, ErrTxNotFound
		}
		return nil, fmt.Errorf("eth_getTransactionByHash: %w", err)
	}
	if pending {
		return nil, ErrTxNotFound
	}
	receipt, err := c.backend.TransactionReceipt(ctx, hash)
	if err != nil {
		if errors.Is(err, ethereum.NotFound) {
			return nil, ErrTxNotFound
		}
		return nil, fmt.Errorf("eth_getTransactionReceipt: %w", err)
	}

	chainID := tx.ChainId()
	if chainID == nil || chainID.Sign() == 0 {
		if chainID, err = c.ChainID(ctx); err != nil {
			return nil, err
		}
	}
	from, err := types.Sender(types.LatestSignerForChainID(chainID), tx)
	if err != nil {
		return nil, fmt.Errorf("recover sender: %w", err)
	}

	out := &model.TransferReceipt{
		TransactionHash: hash,
		From:            from,
		Status:          receipt.Status,
		Asset:           model.NativeAsset(),
		BaseUnits:       new(big.Int).Set(tx.Value()),
	}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}
	if tx.To() == nil {
		return out, nil
	}
	out.To = *tx.To()

	if to, amount, ok := decodeTransfer(tx.Data()); ok {
		out.Asset = model.TokenAsset(*tx.To())
		out.To = to
		out.BaseUnits = amount
	}
	return out, nil
}

// decodeTransfer 解析 transfer(address,uint256) 的 calldata。
func decodeTransfer(data []byte) (common.Address, *big.Int, bool) {
	method := erc20ABI.Methods["transfer"]
	if len(data) < 4 || !bytes.Equal(data[:4], method.ID) {
		return common.Address{}, nil, false
	}
	args, err := method.Inputs.Unpack(data[4:])
	if err != nil || len(args) != 2 {
		return common.Address{}, nil, false
	}
	to, ok1 := args[0].(common.Address)
	amount, ok2 := args[1].(*big.Int)
	if !ok1 || !ok2 {
		return common.Address{}, nil, false
	}
	return to, amount, true
}
