package evm

import (
	"context"
	"crypto/ecdsa"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/accounts/abi/bind"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/crypto"
)

// ErrInvalidKey 表示 FAUCET_PRIVATE_KEY 无法解析为 secp256k1 私钥。
var ErrInvalidKey = errors.New("invalid operator private key")

// Wallet 是水龙头的运营账户：持有私钥，负责签名并广播转账。
// nonce、gas 估算与签名全部交给 go-ethereum 的 bind 包完成。
type Wallet struct {
	backend Backend
	key     *ecdsa.PrivateKey
	from    common.Address
}

// NewWallet 用十六进制私钥（可带 0x）构造运营账户。
func NewWallet(backend Backend, hexKey string) (*Wallet, error) {
	key, err := ParsePrivateKey(hexKey)
	if err != nil {
		return nil, err
	}
	return &Wallet{
		backend: backend,
		key:     key,
		from:    crypto.PubkeyToAddress(key.PublicKey),
	}, nil
}

// ParsePrivateKey 解析十六进制私钥。错误信息里不回显私钥内容。
func ParsePrivateKey(hexKey string) (*ecdsa.PrivateKey, error) {
	h := strings.TrimSpace(hexKey)
	h = strings.TrimPrefix(strings.TrimPrefix(h, "0x"), "0X")
	if h == "" {
		return nil, fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	key, err := crypto.HexToECDSA(h)
	if err != nil {
		return nil, ErrInvalidKey
	}
	return key, nil
}

// Address 返回运营账户地址。
func (w *Wallet) Address() common.Address {
	return w.from
}

func (w *Wallet) transactOpts(ctx context.Context) (*bind.TransactOpts, error) {
	chainID, err := w.backend.ChainID(ctx)
	if err != nil {
		return nil, fmt.Errorf("eth_chainId: %w", err)
	}
	opts, err := bind.NewKeyedTransactorWithChainID(w.key, chainID)
	if err != nil {
		return nil, err
	}
	opts.Context = ctx
	return opts, nil
}

// SendNative 向 to 转出 amount wei 的原生币，只广播一次，不等待上链。
func (w *Wallet) SendNative(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error) {
	opts, err := w.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	// bind 对无代码地址拒绝估算 gas，这里先自行估算，接收方是合约时也能覆盖 receive() 的开销。
	gas, err := w.backend.EstimateGas(ctx, ethereum.CallMsg{
		From:  w.from,
		To:    &to,
		Value: amount,
	})
	if err != nil {
		return nil, fmt.Errorf("estimate gas: %w", err)
	}
	opts.Value = amount
	opts.GasLimit = gas

	bc := bind.NewBoundContract(to, abi.ABI{}, w.backend, w.backend, w.backend)
	return bc.Transfer(opts)
}

// SendToken 调用 token 合约的 transfer(to, amount)，只广播一次，不等待上链。
func (w *Wallet) SendToken(ctx context.Context, token, to common.Address, amount *big.Int) (*types.Transaction, error) {
	opts, err := w.transactOpts(ctx)
	if err != nil {
		return nil, err
	}
	bc := bind.NewBoundContract(token, erc20ABI, w.backend, w.backend, w.backend)
	return bc.Transact(opts, "transfer", to, amount)
}

// WaitMined 阻塞直到交易被打包（1 个确认）或 ctx 结束。
func (w *Wallet) WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error) {
	return bind.WaitMined(ctx, w.backend, tx)
}
