package receipt

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"crypto-faucet/internal/adapters/evm"
	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/platform/units"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Chain 是回执查询需要的链上能力（evm.Client 实现）。
type Chain interface {
	TransferByHash(ctx context.Context, hash common.Hash) (*model.TransferReceipt, error)
	ChainID(ctx context.Context) (*big.Int, error)
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)
	TokenSymbol(ctx context.Context, token common.Address) (string, error)
}

// Service 按交易哈希回查一笔已上链的发放，补全人类单位金额与符号。
type Service struct {
	chain Chain
}

func NewService(chain Chain) *Service {
	return &Service{chain: chain}
}

// ParseHash 校验 0x 前缀的 32 字节交易哈希。
func ParseHash(s string) (common.Hash, error) {
	s = strings.TrimSpace(s)
	b, err := hexutil.Decode(s)
	if err != nil || len(b) != common.HashLength {
		return common.Hash{}, model.InvalidInput("hash", "invalid transaction hash")
	}
	return common.BytesToHash(b), nil
}

// Lookup 查询交易回执。交易不存在或仍在 pending 时返回 not_found。
func (s *Service) Lookup(ctx context.Context, rawHash string) (*model.TransferReceipt, error) {
	h, err := ParseHash(rawHash)
	if err != nil {
		return nil, err
	}
	if s.chain == nil {
		return nil, model.NewError(model.KindConfiguration, "rpc_url is not configured", nil)
	}

	rec, err := s.chain.TransferByHash(ctx, h)
	if err != nil {
		if errors.Is(err, evm.ErrTxNotFound) {
			return nil, model.NewError(model.KindNotFound, "transaction not found: "+h.Hex(), nil)
		}
		return nil, model.NewError(model.KindProvider, "receipt lookup failed", err)
	}

	if rec.Asset.IsNative() {
		chainID, err := s.chain.ChainID(ctx)
		if err != nil {
			return nil, model.NewError(model.KindProvider, "receipt lookup failed", err)
		}
		rec.Symbol = model.NativeSymbol(chainID)
		rec.Amount = units.FormatUnits(rec.BaseUnits, model.NativeDecimals)
		return rec, nil
	}

	token := rec.Asset.Contract
	decimals, err := s.chain.TokenDecimals(ctx, token)
	if err != nil {
		return nil, contractError(err)
	}
	symbol, err := s.chain.TokenSymbol(ctx, token)
	if err != nil {
		return nil, contractError(err)
	}
	rec.Symbol = symbol
	rec.Amount = units.FormatUnits(rec.BaseUnits, decimals)
	return rec, nil
}

func contractError(err error) error {
	if errors.Is(err, evm.ErrContractCall) {
		return model.NewError(model.KindContractRead, "erc20 contract query failed", err)
	}
	return model.NewError(model.KindProvider, "receipt lookup failed", err)
}
