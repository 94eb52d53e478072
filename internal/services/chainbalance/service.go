package chainbalance

import (
	"context"
	"errors"
	"math/big"
	"strings"

	"crypto-faucet/internal/adapters/evm"
	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/platform/units"
	"crypto-faucet/internal/platform/validation"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"golang.org/x/sync/errgroup"
)

// Query 是余额查询的原始入参（HTTP query 或 CLI flag）。
type Query struct {
	Address      string `json:"address" validate:"required,evm_addr"`
	TokenType    string `json:"tokenType" validate:"oneof=native erc20"`
	TokenAddress string `json:"tokenAddress"`
}

var queryRules = []validation.Rule{
	{Field: "address", Tag: "required", Message: `query parameter "address" is required`},
	{Field: "address", Tag: validation.TagAddress, Message: "invalid address"},
	{Field: "tokenType", Tag: "oneof", Message: `tokenType must be "native" or "erc20"`},
	{Field: "tokenAddress", Tag: "required_if", Message: `"tokenAddress" is required to query an erc20 balance`},
	{Field: "tokenAddress", Tag: validation.TagAddress, Message: "invalid tokenAddress"},
}

// tokenAddress 只在 erc20 时参与校验。
func queryLevel(sl validator.StructLevel) {
	q := sl.Current().Interface().(Query)
	if q.TokenType != string(model.AssetERC20) {
		return
	}
	switch {
	case q.TokenAddress == "":
		sl.ReportError(q.TokenAddress, "tokenAddress", "TokenAddress", "required_if", "")
	case !model.IsAddress(q.TokenAddress):
		sl.ReportError(q.TokenAddress, "tokenAddress", "TokenAddress", validation.TagAddress, "")
	}
}

func init() {
	validation.RegisterStruct(queryLevel, Query{})
}

// Service 实现余额查询：原生币走 eth_getBalance + chainId 符号表，ERC20 走四个合约只读调用。
// 只读、无副作用、不缓存。
type Service struct {
	provider Provider
}

// NewService 创建查询服务。provider 为 nil 表示未配置 RPC_URL，查询时返回 configuration 错误。
func NewService(provider Provider) *Service {
	return &Service{provider: provider}
}

// Parse 校验原始入参并转换为地址与资产。任何 RPC 之前完成。
func Parse(q Query) (common.Address, model.Asset, error) {
	if strings.TrimSpace(q.TokenType) == "" {
		q.TokenType = string(model.AssetNative)
	}
	if err := validation.Check(q, queryRules); err != nil {
		return common.Address{}, model.Asset{}, err
	}
	addr := common.HexToAddress(q.Address)
	if q.TokenType == string(model.AssetERC20) {
		return addr, model.TokenAsset(common.HexToAddress(q.TokenAddress)), nil
	}
	return addr, model.NativeAsset(), nil
}

// QueryRaw 先校验入参再查询。
func (s *Service) QueryRaw(ctx context.Context, q Query) (*model.BalanceResult, error) {
	addr, asset, err := Parse(q)
	if err != nil {
		return nil, err
	}
	return s.Query(ctx, addr, asset)
}

// Query 查询 address 在 asset 上的当前持有量。
func (s *Service) Query(ctx context.Context, address common.Address, asset model.Asset) (*model.BalanceResult, error) {
	if s.provider == nil {
		return nil, model.NewError(model.KindConfiguration, "rpc_url is not configured", nil)
	}
	if asset.IsNative() {
		return s.queryNative(ctx, address)
	}
	return s.queryToken(ctx, address, asset)
}

func (s *Service) queryNative(ctx context.Context, address common.Address) (*model.BalanceResult, error) {
	var (
		wei     *big.Int
		chainID *big.Int
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		wei, err = s.provider.NativeBalance(gctx, address)
		return err
	})
	g.Go(func() (err error) {
		chainID, err = s.provider.ChainID(gctx)
		return err
	})
	if err := g.Wait(); err != nil {
		return nil, model.NewError(model.KindProvider, "balance query failed", err)
	}

	symbol := model.NativeSymbol(chainID)
	return &model.BalanceResult{
		Address:   address,
		Asset:     model.NativeAsset(),
		Raw:       wei.String(),
		Formatted: units.FormatUnits(wei, model.NativeDecimals),
		Decimals:  model.NativeDecimals,
		Symbol:    symbol,
		Name:      symbol,
	}, nil
}

// queryToken 并发执行 balanceOf/decimals/symbol/name。
// 合约层失败归为 contract_read（客户端给错了地址），其余归为 provider。
func (s *Service) queryToken(ctx context.Context, address common.Address, asset model.Asset) (*model.BalanceResult, error) {
	token := asset.Contract
	var (
		raw      *big.Int
		decimals uint8
		symbol   string
		name     string
	)
	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() (err error) {
		raw, err = s.provider.TokenBalance(gctx, token, address)
		return err
	})
	g.Go(func() (err error) {
		decimals, err = s.provider.TokenDecimals(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		symbol, err = s.provider.TokenSymbol(gctx, token)
		return err
	})
	g.Go(func() (err error) {
		name, err = s.provider.TokenName(gctx, token)
		return err
	})
	if err := g.Wait(); err != nil {
		if errors.Is(err, evm.ErrContractCall) {
			return nil, model.NewError(model.KindContractRead, "erc20 contract query failed", err)
		}
		return nil, model.NewError(model.KindProvider, "balance query failed", err)
	}

	return &model.BalanceResult{
		Address:   address,
		Asset:     asset,
		Raw:       raw.String(),
		Formatted: units.FormatUnits(raw, decimals),
		Decimals:  decimals,
		Symbol:    symbol,
		Name:      name,
	}, nil
}
