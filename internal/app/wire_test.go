package app

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/services/faucet"
)

const hardhatKey0 = "0xac0974bec39a17e36ba4a6b4d238ff944bacb478cbed5efcae784d7bf4f2ff80"

func TestWire_Unconfigured(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	log, err := NewLogger(cfg, &buf)
	if err != nil {
		t.Fatalf("NewLogger: %v", err)
	}

	svc, err := Wire(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	defer svc.Close()

	if svc.Chain != nil {
		t.Fatalf("chain must be nil without RPC_URL")
	}
	if len(svc.Tokens.List.Tokens) == 0 {
		t.Fatalf("embedded token list not loaded")
	}
	_, err = svc.Faucet.DisburseRaw(context.Background(), faucet.Request{
		TokenType: "native", Amount: "1", RecipientAddress: "0x70997970C51812dc3A010C7d01b50e0d17dc79C8",
	})
	if model.KindOf(err) != model.KindConfiguration {
		t.Fatalf("expected configuration error, got %v", err)
	}
	if !strings.Contains(buf.String(), EnvRPCURL) {
		t.Fatalf("missing RPC_URL must be logged: %s", buf.String())
	}
}

func TestWire_WithRPCAndKey(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.RPCURL = "http://127.0.0.1:1"
	cfg.PrivateKey = hardhatKey0
	log, _ := NewLogger(cfg, &buf)

	svc, err := Wire(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	defer svc.Close()

	addr, ok := svc.Faucet.OperatorAddress()
	if !ok || addr.Hex() != "0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266" {
		t.Fatalf("unexpected operator: %s %v", addr.Hex(), ok)
	}
	if svc.Chain == nil || svc.RPCEndpoint != "http://127.0.0.1:1" {
		t.Fatalf("chain must be set when RPC_URL is configured (%q)", svc.RPCEndpoint)
	}
	if strings.Contains(buf.String(), strings.TrimPrefix(hardhatKey0, "0x")) {
		t.Fatalf("private key leaked into logs")
	}
}

func TestWire_InvalidKeyTreatedAsMissing(t *testing.T) {
	var buf bytes.Buffer
	cfg := DefaultConfig()
	cfg.RPCURL = "http://127.0.0.1:1"
	cfg.PrivateKey = "0xnothex"
	log, _ := NewLogger(cfg, &buf)

	svc, err := Wire(context.Background(), cfg, log)
	if err != nil {
		t.Fatalf("Wire: %v", err)
	}
	defer svc.Close()
	if _, ok := svc.Faucet.OperatorAddress(); ok {
		t.Fatalf("invalid key must be treated as missing")
	}
	if !strings.Contains(buf.String(), "is invalid") {
		t.Fatalf("invalid key must be logged: %s", buf.String())
	}
}

func TestWire_BadTokenList(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TokenList = "/nonexistent/tokens.yaml"
	log, _ := NewLogger(cfg, &bytes.Buffer{})
	if _, err := Wire(context.Background(), cfg, log); err == nil {
		t.Fatalf("expected error for missing token list")
	}
}
