package app

import (
	"context"
	"math/big"

	"crypto-faucet/internal/adapters/evm"
	"crypto-faucet/internal/adapters/tokens"
	"crypto-faucet/internal/services/chainbalance"
	"crypto-faucet/internal/services/faucet"
	"crypto-faucet/internal/services/privacy"
	"crypto-faucet/internal/services/receipt"

	"github.com/sirupsen/logrus"
)

// ChainInfo 是 meta 接口展示网络信息需要的能力。
type ChainInfo interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Services 是进程内共享的服务集合（只读，可并发使用）。
// 缺少 RPC_URL / 私钥时对应服务仍然存在，只是在请求时返回 configuration 错误。
type Services struct {
	Balance  *chainbalance.Service
	Faucet   *faucet.Service
	Receipts *receipt.Service
	Tokens   *tokens.LoadedTokens
	Chain    ChainInfo // nil 表示未配置 RPC

	// RPCEndpoint 是脱敏后的 RPC 地址（只含 scheme 与 host）。
	RPCEndpoint string

	close func()
}

// Close 释放 RPC 连接。
func (s *Services) Close() {
	if s != nil && s.close != nil {
		s.close()
	}
}

// Wire 根据配置组装服务。只有代币清单加载失败会返回错误。
func Wire(ctx context.Context, cfg Config, log logrus.FieldLogger) (*Services, error) {
	list, err := tokens.NewLoader(cfg.TokenList).Load(ctx)
	if err != nil {
		return nil, err
	}
	log.WithFields(logrus.Fields{
		"source":  list.Source,
		"version": list.List.Version,
		"tokens":  len(list.List.Tokens),
		"sha256":  list.SHA256,
	}).Info("token list loaded")

	// 注意：接口变量只在 client/wallet 非 nil 时赋值，避免“带类型的 nil”绕过服务里的 nil 检查。
	var (
		provider chainbalance.Provider
		chain    faucet.Chain
		lookup   receipt.Chain
		operator faucet.Operator
		info     ChainInfo
		closeFn  func()
	)

	if cfg.RPCURL == "" {
		log.Warnf("%s is not set; balance, faucet and receipt endpoints will report a configuration error", EnvRPCURL)
	} else {
		ec, err := evm.Dial(ctx, cfg.RPCURL)
		if err != nil {
			log.WithError(err).Errorf("%s is unusable; treating it as missing", EnvRPCURL)
		} else {
			client := evm.NewClient(ec)
			provider, chain, lookup, info = client, client, client, client
			closeFn = ec.Close
			log.WithField("rpc", privacy.MaskURL(cfg.RPCURL)).Info("chain provider configured")

			if cfg.PrivateKey != "" {
				w, err := evm.NewWallet(ec, cfg.PrivateKey)
				if err != nil {
					log.WithError(err).Errorf("%s is invalid; treating it as missing", EnvPrivateKey)
				} else {
					operator = w
					log.WithField("operator", w.Address().Hex()).Info("faucet operator account loaded")
				}
			}
		}
	}
	if cfg.PrivateKey == "" {
		log.Warnf("%s is not set; faucet endpoint will report a configuration error", EnvPrivateKey)
	} else if cfg.RPCURL == "" {
		if _, err := evm.ParsePrivateKey(cfg.PrivateKey); err != nil {
			log.WithError(err).Errorf("%s is invalid", EnvPrivateKey)
		}
	}

	endpoint := ""
	if info != nil {
		endpoint = privacy.MaskURL(cfg.RPCURL)
	}
	return &Services{
		Balance:  chainbalance.NewService(provider),
		Faucet:   faucet.NewService(chain, operator, faucet.Options{ConfirmTimeout: cfg.ConfirmTimeout}),
		Receipts: receipt.NewService(lookup),
		Tokens:   list,
		Chain:    info,
		close:    closeFn,

		RPCEndpoint: endpoint,
	}, nil
}
