package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"crypto-faucet/internal/adapters/tokens"
	"crypto-faucet/internal/app"
	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/services/chainbalance"
	"crypto-faucet/internal/services/faucet"
	"crypto-faucet/internal/services/receipt"
	"crypto-faucet/internal/services/webapp"
)

// CLI 入口。所有子命令错误都统一输出到 stderr 并返回非 0 状态码。
func main() {
	if err := run(context.Background(), os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// run 是一级命令路由：balance / send / receipt / tokens / serve。
func run(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 {
		printUsage(out)
		return nil
	}

	switch args[0] {
	case "balance":
		return runBalance(ctx, args[1:], out)
	case "send":
		return runSend(ctx, args[1:], out)
	case "receipt":
		return runReceipt(ctx, args[1:], out)
	case "tokens":
		return runTokens(ctx, args[1:], out)
	case "serve":
		return runServe(ctx, args[1:])
	default:
		printUsage(out)
		return fmt.Errorf("unknown command: %s", args[0])
	}
}

// chainFlags 是所有访问链的子命令共用的参数。
type chainFlags struct {
	envFile *string
	rpcURL  *string
	verbose *bool
}

func addChainFlags(fs *flag.FlagSet) chainFlags {
	return chainFlags{
		envFile: fs.String("env", "", "optional .env file (default: ./.env when present)"),
		rpcURL:  fs.String("rpc", "", "chain JSON-RPC endpoint (overrides RPC_URL)"),
		verbose: fs.Bool("v", false, "log to stderr"),
	}
}

// services 加载配置并组装服务。CLI 默认只输出 warn 以上日志，避免污染 JSON 输出。
func (c chainFlags) services(ctx context.Context) (*app.Services, error) {
	var envFiles []string
	if *c.envFile != "" {
		envFiles = append(envFiles, *c.envFile)
	}
	cfg, err := app.LoadConfig(envFiles...)
	if err != nil {
		return nil, err
	}
	if *c.rpcURL != "" {
		cfg.RPCURL = *c.rpcURL
	}
	if !*c.verbose {
		cfg.LogLevel = "error"
	}
	log, err := app.NewLogger(cfg, os.Stderr)
	if err != nil {
		return nil, err
	}
	return app.Wire(ctx, cfg, log)
}

func runBalance(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("balance", flag.ContinueOnError)
	cf := addChainFlags(fs)
	address := fs.String("address", "", "account address (required)")
	token := fs.String("token", "", "erc20 contract address (empty = native currency)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	q := chainbalance.Query{Address: *address, TokenType: string(model.AssetNative)}
	if *token != "" {
		q.TokenType = string(model.AssetERC20)
		q.TokenAddress = *token
	}
	// 先校验参数，再连链。
	if _, _, err := chainbalance.Parse(q); err != nil {
		return err
	}

	svc, err := cf.services(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	res, err := svc.Balance.QueryRaw(ctx, q)
	if err != nil {
		return err
	}
	return printJSON(out, map[string]any{
		"address":   res.Address.Hex(),
		"tokenType": res.Asset.Kind,
		"token":     res.Asset.TokenRef(),
		"raw":       res.Raw,
		"formatted": res.Formatted,
		"decimals":  res.Decimals,
		"symbol":    res.Symbol,
		"name":      res.Name,
	})
}

func runSend(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("send", flag.ContinueOnError)
	cf := addChainFlags(fs)
	to := fs.String("to", "", "recipient address (required)")
	amount := fs.String("amount", "", "amount in human units, e.g. 0.5 (required)")
	token := fs.String("token", "", "erc20 contract address (empty = native currency)")
	if err := fs.Parse(args); err != nil {
		return err
	}

	req := faucet.Request{TokenType: string(model.AssetNative), Amount: *amount, RecipientAddress: *to}
	if *token != "" {
		req.TokenType = string(model.AssetERC20)
		req.TokenAddress = *token
	}
	if _, err := faucet.ParseRequest(req); err != nil {
		return err
	}

	svc, err := cf.services(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	// 广播之后 Ctrl+C 不会中断确认等待（由 CONFIRM_TIMEOUT 约束）。
	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	rec, err := svc.Faucet.DisburseRaw(sigCtx, req)
	if err != nil {
		return err
	}
	return printJSON(out, receiptJSON(rec))
}

func runReceipt(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("receipt", flag.ContinueOnError)
	cf := addChainFlags(fs)
	hash := fs.String("hash", "", "transaction hash (required)")
	pdfPath := fs.String("pdf", "", "also write a pdf receipt to this path")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if _, err := receipt.ParseHash(*hash); err != nil {
		return err
	}

	svc, err := cf.services(ctx)
	if err != nil {
		return err
	}
	defer svc.Close()

	rec, err := svc.Receipts.Lookup(ctx, *hash)
	if err != nil {
		return err
	}
	body := receiptJSON(rec)
	if *pdfPath != "" {
		network := ""
		if svc.Chain != nil {
			if id, err := svc.Chain.ChainID(ctx); err == nil {
				network = fmt.Sprintf("chain %s (%s)", id, model.NativeSymbol(id))
			}
		}
		doc, err := receipt.RenderPDF(rec, receipt.PDFOptions{Network: network, Version: app.Version})
		if err != nil {
			return err
		}
		if err := os.WriteFile(*pdfPath, doc.Content, 0o644); err != nil {
			return fmt.Errorf("write pdf: %w", err)
		}
		body["pdf"] = *pdfPath
		body["pdfSha256"] = doc.SHA256
	}
	return printJSON(out, body)
}

// runTokens 是二级命令路由，目前支持 tokens validate。
func runTokens(ctx context.Context, args []string, out io.Writer) error {
	if len(args) == 0 || args[0] != "validate" {
		fmt.Fprintln(out, "Usage:")
		fmt.Fprintln(out, "  faucet-cli tokens validate [--file tokens.yaml]")
		if len(args) == 0 {
			return nil
		}
		return fmt.Errorf("unknown tokens command: %s", args[0])
	}

	fs := flag.NewFlagSet("tokens validate", flag.ContinueOnError)
	file := fs.String("file", "", "token list yaml (empty = embedded list)")
	if err := fs.Parse(args[1:]); err != nil {
		return err
	}
	loaded, err := tokens.NewLoader(*file).Load(ctx)
	if err != nil {
		return err
	}
	fmt.Fprintln(out, "token list validation passed")
	fmt.Fprintf(out, "source=%s version=%s network=%s total=%d sha256=%s\n",
		loaded.Source,
		loaded.List.Version,
		loaded.List.Network,
		len(loaded.List.Tokens),
		loaded.SHA256,
	)
	for _, t := range loaded.List.Tokens {
		fmt.Fprintf(out, "  %-8s %s decimals=%d %s\n", t.Symbol, t.Address, t.Decimals, t.Name)
	}
	return nil
}

// runServe 与 cmd/faucet 等价，但不提供自动打开浏览器。
func runServe(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("serve", flag.ContinueOnError)
	envFile := fs.String("env", "", "optional .env file")
	listen := fs.String("listen", "", "listen address (overrides LISTEN_ADDR)")
	if err := fs.Parse(args); err != nil {
		return err
	}
	var envFiles []string
	if *envFile != "" {
		envFiles = append(envFiles, *envFile)
	}
	cfg, err := app.LoadConfig(envFiles...)
	if err != nil {
		return err
	}
	if *listen != "" {
		cfg.ListenAddr = *listen
	}
	log, err := app.NewLogger(cfg, os.Stderr)
	if err != nil {
		return err
	}

	sigCtx, cancel := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer cancel()

	return webapp.Run(sigCtx, webapp.Options{Config: cfg, Logger: log})
}

func receiptJSON(rec *model.TransferReceipt) map[string]any {
	return map[string]any{
		"transactionHash": rec.TransactionHash.Hex(),
		"blockNumber":     rec.BlockNumber,
		"status":          rec.Status,
		"from":            rec.From.Hex(),
		"to":              rec.To.Hex(),
		"amount":          rec.Amount,
		"symbol":          rec.Symbol,
		"tokenType":       rec.Asset.Kind,
		"token":           rec.Asset.TokenRef(),
		"fingerprint":     receipt.Fingerprint(rec),
	}
}

func printUsage(out io.Writer) {
	fmt.Fprintln(out, "Usage:")
	fmt.Fprintln(out, "  faucet-cli balance --address ADDR [--token TOKEN_ADDR] [--rpc URL] [--env .env]")
	fmt.Fprintln(out, "  faucet-cli send --to ADDR --amount 0.5 [--token TOKEN_ADDR] [--rpc URL] [--env .env]")
	fmt.Fprintln(out, "  faucet-cli receipt --hash TX_HASH [--pdf receipt.pdf] [--rpc URL] [--env .env]")
	fmt.Fprintln(out, "  faucet-cli tokens validate [--file tokens.yaml]")
	fmt.Fprintln(out, "  faucet-cli serve [--listen 127.0.0.1:8787] [--env .env]")
}

func printJSON(out io.Writer, v any) error {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return err
	}
	fmt.Fprintln(out, string(raw))
	return nil
}

