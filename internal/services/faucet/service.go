package faucet

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"strings"
	"time"

	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/platform/units"
	"crypto-faucet/internal/platform/validation"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/go-playground/validator/v10"
)

// DefaultConfirmTimeout 是等待交易上链的默认上限。
const DefaultConfirmTimeout = 3 * time.Minute

// Chain 是发放流程需要的链上只读能力（evm.Client 实现）。
type Chain interface {
	NativeBalance(ctx context.Context, account common.Address) (*big.Int, error)
	ChainID(ctx context.Context) (*big.Int, error)
	TokenBalance(ctx context.Context, token, holder common.Address) (*big.Int, error)
	TokenDecimals(ctx context.Context, token common.Address) (uint8, error)
	TokenSymbol(ctx context.Context, token common.Address) (string, error)
}

// Operator 是持有私钥的运营账户（evm.Wallet 实现）。
// Send* 只广播一次；WaitMined 阻塞到 1 个确认。
type Operator interface {
	Address() common.Address
	SendNative(ctx context.Context, to common.Address, amount *big.Int) (*types.Transaction, error)
	SendToken(ctx context.Context, token, to common.Address, amount *big.Int) (*types.Transaction, error)
	WaitMined(ctx context.Context, tx *types.Transaction) (*types.Receipt, error)
}

// Request 是发放请求的原始入参（HTTP JSON body 或 CLI flag）。
type Request struct {
	TokenType        string `json:"tokenType" validate:"required,oneof=native erc20"`
	Amount           string `json:"amount" validate:"required,positive_amount"`
	RecipientAddress string `json:"recipientAddress" validate:"required,evm_addr"`
	TokenAddress     string `json:"tokenAddress,omitempty"`
}

const missingFieldsMsg = "missing required fields: amount, recipientAddress, tokenType"

var requestRules = []validation.Rule{
	{Field: "amount", Tag: "required", Message: missingFieldsMsg},
	{Field: "recipientAddress", Tag: "required", Message: missingFieldsMsg},
	{Field: "tokenType", Tag: "required", Message: missingFieldsMsg},
	{Field: "tokenType", Tag: "oneof", Message: `tokenType must be "native" or "erc20"`},
	{Field: "tokenAddress", Tag: "required_if", Message: "tokenAddress is required for erc20 tokens"},
	{Field: "tokenAddress", Tag: validation.TagAddress, Message: "invalid tokenAddress"},
	{Field: "recipientAddress", Tag: validation.TagAddress, Message: "invalid recipientAddress"},
	{Field: "amount", Tag: validation.TagPositiveAmount, Message: "amount must be a positive number"},
}

func requestLevel(sl validator.StructLevel) {
	req := sl.Current().Interface().(Request)
	if req.TokenType != string(model.AssetERC20) {
		return
	}
	switch {
	case req.TokenAddress == "":
		sl.ReportError(req.TokenAddress, "tokenAddress", "TokenAddress", "required_if", "")
	case !model.IsAddress(req.TokenAddress):
		sl.ReportError(req.TokenAddress, "tokenAddress", "TokenAddress", validation.TagAddress, "")
	}
}

func init() {
	validation.RegisterStruct(requestLevel, Request{})
}

// ParseRequest 校验原始入参并构造 TransferRequest。任何 RPC 之前完成。
func ParseRequest(req Request) (model.TransferRequest, error) {
	if err := validation.Check(req, requestRules); err != nil {
		return model.TransferRequest{}, err
	}
	out := model.TransferRequest{
		Asset:     model.NativeAsset(),
		Amount:    strings.TrimSpace(req.Amount),
		Recipient: common.HexToAddress(req.RecipientAddress),
	}
	if req.TokenType == string(model.AssetERC20) {
		out.Asset = model.TokenAsset(common.HexToAddress(req.TokenAddress))
	}
	return out, nil
}

// Options 是发放服务的可调参数。
type Options struct {
	ConfirmTimeout time.Duration
}

// Service 从运营账户向接收方发放原生币或 ERC20。
//
// 并发语义：不同请求之间不做串行化。余额预检只是尽力而为的快速失败，
// 并发请求可能同时通过预检，最终是否透支由链上 nonce/余额规则裁决。
type Service struct {
	chain          Chain
	operator       Operator
	confirmTimeout time.Duration
}

// NewService 创建发放服务。chain 为 nil 表示缺 RPC_URL，operator 为 nil 表示缺私钥。
func NewService(chain Chain, operator Operator, opts Options) *Service {
	if opts.ConfirmTimeout <= 0 {
		opts.ConfirmTimeout = DefaultConfirmTimeout
	}
	return &Service{chain: chain, operator: operator, confirmTimeout: opts.ConfirmTimeout}
}

// OperatorAddress 返回运营账户地址；未配置私钥时 ok=false。
func (s *Service) OperatorAddress() (common.Address, bool) {
	if s.operator == nil {
		return common.Address{}, false
	}
	return s.operator.Address(), true
}

// DisburseRaw 先校验入参再发放。
func (s *Service) DisburseRaw(ctx context.Context, req Request) (*model.TransferReceipt, error) {
	tr, err := ParseRequest(req)
	if err != nil {
		return nil, err
	}
	return s.Disburse(ctx, tr)
}

// Disburse 执行一次发放：预检余额 -> 签名广播（仅一次，不重试） -> 等待 1 个确认。
// 同样的入参调用两次就是两笔独立的链上转账。
func (s *Service) Disburse(ctx context.Context, req model.TransferRequest) (*model.TransferReceipt, error) {
	if _, err := units.ParseAmount(req.Amount); err != nil {
		return nil, model.InvalidInput("amount", "amount must be a positive number")
	}
	if s.chain == nil || s.operator == nil {
		return nil, model.NewError(model.KindConfiguration, "faucet_private_key or rpc_url is not configured", nil)
	}
	if req.Asset.IsNative() {
		return s.disburseNative(ctx, req)
	}
	return s.disburseToken(ctx, req)
}

func (s *Service) disburseNative(ctx context.Context, req model.TransferRequest) (*model.TransferReceipt, error) {
	amount, err := units.ParseUnits(req.Amount, model.NativeDecimals)
	if err != nil {
		return nil, amountError(err)
	}

	from := s.operator.Address()
	balance, err := s.chain.NativeBalance(ctx, from)
	if err != nil {
		return nil, model.NewError(model.KindTransaction, "read faucet balance", err)
	}
	if balance.Cmp(amount) < 0 {
		return nil, model.NewError(model.KindInsufficientFaucetFunds, "faucet does not have enough native currency", nil)
	}

	chainID, err := s.chain.ChainID(ctx)
	if err != nil {
		return nil, model.NewError(model.KindTransaction, "resolve network", err)
	}
	symbol := model.NativeSymbol(chainID)

	tx, err := s.operator.SendNative(ctx, req.Recipient, amount)
	if err != nil {
		return nil, submissionError(err)
	}
	return s.confirm(ctx, tx, req, amount, symbol)
}

func (s *Service) disburseToken(ctx context.Context, req model.TransferRequest) (*model.TransferReceipt, error) {
	token := req.Asset.Contract

	decimals, err := s.chain.TokenDecimals(ctx, token)
	if err != nil {
		return nil, model.NewError(model.KindTransaction, "read token decimals", err)
	}
	amount, err := units.ParseUnits(req.Amount, decimals)
	if err != nil {
		return nil, amountError(err)
	}

	from := s.operator.Address()
	balance, err := s.chain.TokenBalance(ctx, token, from)
	if err != nil {
		return nil, model.NewError(model.KindTransaction, "read faucet token balance", err)
	}
	if balance.Cmp(amount) < 0 {
		return nil, model.NewError(model.KindInsufficientFaucetFunds, "faucet does not have enough tokens", nil)
	}

	symbol, err := s.chain.TokenSymbol(ctx, token)
	if err != nil {
		return nil, model.NewError(model.KindTransaction, "read token symbol", err)
	}

	tx, err := s.operator.SendToken(ctx, token, req.Recipient, amount)
	if err != nil {
		return nil, submissionError(err)
	}
	return s.confirm(ctx, tx, req, amount, symbol)
}

// confirm 等待交易上链。交易已广播后不再受请求取消影响，只受 confirmTimeout 约束。
func (s *Service) confirm(ctx context.Context, tx *types.Transaction, req model.TransferRequest, amount *big.Int, symbol string) (*model.TransferReceipt, error) {
	waitCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.confirmTimeout)
	defer cancel()

	receipt, err := s.operator.WaitMined(waitCtx, tx)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return nil, model.NewError(model.KindTransaction,
				fmt.Sprintf("transaction %s not mined within %s", tx.Hash().Hex(), s.confirmTimeout), err)
		}
		return nil, submissionError(err)
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return nil, model.NewError(model.KindTransaction,
			fmt.Sprintf("transaction %s reverted", tx.Hash().Hex()), nil)
	}

	out := &model.TransferReceipt{
		TransactionHash: receipt.TxHash,
		From:            s.operator.Address(),
		To:              req.Recipient,
		Amount:          req.Amount,
		BaseUnits:       amount,
		Asset:           req.Asset,
		Symbol:          symbol,
		Status:          receipt.Status,
	}
	if receipt.BlockNumber != nil {
		out.BlockNumber = receipt.BlockNumber.Uint64()
	}
	return out, nil
}

// submissionError 区分“运营账户付不起 gas”与其它广播/确认失败。
func submissionError(err error) error {
	if strings.Contains(strings.ToLower(err.Error()), "insufficient funds") {
		return model.NewError(model.KindOperatorUnderfunded, "faucet wallet cannot cover the transaction", err)
	}
	return model.NewError(model.KindTransaction, "", err)
}

func amountError(err error) error {
	if errors.Is(err, units.ErrTooManyDigits) {
		return model.InvalidInput("amount", "amount has more decimal places than the token supports")
	}
	if errors.Is(err, units.ErrTooLarge) {
		return model.InvalidInput("amount", "amount is too large")
	}
	return model.InvalidInput("amount", "amount must be a positive number")
}
