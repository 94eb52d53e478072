package receipt

import (
	"bytes"
	"context"
	"errors"
	"math/big"
	"testing"
	"time"

	"crypto-faucet/internal/adapters/evm"
	"crypto-faucet/internal/domain/model"

	"github.com/ethereum/go-ethereum/common"
)

const txHex = "0x88df016429689c079f3b2f6ad39fa052532c56795b733da78a91ebe6a713944b"

type fakeChain struct {
	rec      *model.TransferReceipt
	err      error
	tokenErr error
}

func (f *fakeChain) TransferByHash(_ context.Context, h common.Hash) (*model.TransferReceipt, error) {
	if f.err != nil {
		return nil, f.err
	}
	cp := *f.rec
	cp.TransactionHash = h
	return &cp, nil
}

func (f *fakeChain) ChainID(context.Context) (*big.Int, error) { return big.NewInt(137), nil }

func (f *fakeChain) TokenDecimals(context.Context, common.Address) (uint8, error) {
	return 6, f.tokenErr
}

func (f *fakeChain) TokenSymbol(context.Context, common.Address) (string, error) {
	return "tUSDC", f.tokenErr
}

var (
	from = common.HexToAddress("0xf39Fd6e51aad88F6F4ce6aB8827279cffFb92266")
	to   = common.HexToAddress("0x70997970C51812dc3A010C7d01b50e0d17dc79C8")
	tok  = common.HexToAddress("0x5FbDB2315678afecb367f032d93F642f64180aa3")
)

func TestParseHash(t *testing.T) {
	if _, err := ParseHash(txHex); err != nil {
		t.Fatalf("ParseHash: %v", err)
	}
	for _, bad := range []string{"", "0x", "88df01", "0x1234", txHex + "00"} {
		if _, err := ParseHash(bad); model.KindOf(err) != model.KindInvalidInput {
			t.Fatalf("ParseHash(%q): expected invalid_input, got %v", bad, err)
		}
	}
}

func TestLookup_Native(t *testing.T) {
	chain := &fakeChain{rec: &model.TransferReceipt{
		From: from, To: to, Asset: model.NativeAsset(),
		BaseUnits: big.NewInt(1_500_000_000_000_000_000), BlockNumber: 7, Status: 1,
	}}
	rec, err := NewService(chain).Lookup(context.Background(), txHex)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec.Amount != "1.5" || rec.Symbol != "MATIC" {
		t.Fatalf("unexpected amount/symbol: %s %s", rec.Amount, rec.Symbol)
	}
	if rec.TransactionHash.Hex() != txHex {
		t.Fatalf("unexpected hash: %s", rec.TransactionHash.Hex())
	}
}

func TestLookup_Token(t *testing.T) {
	chain := &fakeChain{rec: &model.TransferReceipt{
		From: from, To: to, Asset: model.TokenAsset(tok),
		BaseUnits: big.NewInt(10_000_000), BlockNumber: 9, Status: 1,
	}}
	rec, err := NewService(chain).Lookup(context.Background(), txHex)
	if err != nil {
		t.Fatalf("Lookup: %v", err)
	}
	if rec.Amount != "10" || rec.Symbol != "tUSDC" {
		t.Fatalf("unexpected amount/symbol: %s %s", rec.Amount, rec.Symbol)
	}

	chain.tokenErr = evm.ErrContractCall
	if _, err := NewService(chain).Lookup(context.Background(), txHex); model.KindOf(err) != model.KindContractRead {
		t.Fatalf("expected contract_read, got %v", err)
	}
}

func TestLookup_Errors(t *testing.T) {
	ctx := context.Background()
	if _, err := NewService(nil).Lookup(ctx, txHex); model.KindOf(err) != model.KindConfiguration {
		t.Fatalf("expected configuration, got %v", err)
	}
	if _, err := NewService(nil).Lookup(ctx, "nope"); model.KindOf(err) != model.KindInvalidInput {
		t.Fatalf("input must be validated before configuration, got %v", err)
	}
	if _, err := NewService(&fakeChain{err: evm.ErrTxNotFound}).Lookup(ctx, txHex); model.KindOf(err) != model.KindNotFound {
		t.Fatalf("expected not_found, got %v", err)
	}
	boom := errors.New("dial tcp: connection refused")
	_, err := NewService(&fakeChain{err: boom}).Lookup(ctx, txHex)
	if model.KindOf(err) != model.KindProvider || !errors.Is(err, boom) {
		t.Fatalf("expected provider error wrapping cause, got %v", err)
	}
}

func TestRenderPDF(t *testing.T) {
	rec := &model.TransferReceipt{
		TransactionHash: common.HexToHash(txHex),
		BlockNumber:     9,
		From:            from,
		To:              to,
		Amount:          "10",
		BaseUnits:       big.NewInt(10_000_000),
		Asset:           model.TokenAsset(tok),
		Symbol:          "tUSDC",
		Status:          1,
	}
	doc, err := RenderPDF(rec, PDFOptions{Network: "hardhat (31337)", GeneratedAt: time.Unix(1700000000, 0), Version: "test"})
	if err != nil {
		t.Fatalf("RenderPDF: %v", err)
	}
	if !bytes.HasPrefix(doc.Content, []byte("%PDF-")) {
		t.Fatalf("output is not a pdf")
	}
	if len(doc.SHA256) != 64 || doc.Fingerprint != Fingerprint(rec) {
		t.Fatalf("unexpected digests: %s / %s", doc.SHA256, doc.Fingerprint)
	}

	other := *rec
	other.BlockNumber = 10
	if Fingerprint(&other) == doc.Fingerprint {
		t.Fatalf("fingerprint must change with the block number")
	}

	if _, err := RenderPDF(nil, PDFOptions{}); err == nil {
		t.Fatalf("expected error for nil receipt")
	}
}
