package receipt

import (
	"bytes"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"strings"
	"time"

	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/platform/hash"

	"github.com/phpdave11/gofpdf"
)

// 发放回执 PDF
//
// - 只渲染链上可复算的字段（哈希、区块、地址、金额），不落盘，直接写给调用方。
// - Fingerprint 是这些字段的 SHA-256，可用于人工对账。
// - 不支持 UTF-8 字体时非 ASCII 字符会被替换为 '?'（代币 symbol 偶尔会有）。

// PDFOptions 是回执 PDF 的附加信息。
type PDFOptions struct {
	Network     string
	GeneratedAt time.Time
	Version     string
}

// PDF 是生成的回执文档。
type PDF struct {
	Content     []byte
	SHA256      string
	Fingerprint string
	Warnings    []string
}

// Fingerprint 返回回执关键字段的指纹。
func Fingerprint(rec *model.TransferReceipt) string {
	return hash.Text(
		rec.TransactionHash.Hex(),
		strconv.FormatUint(rec.BlockNumber, 10),
		rec.From.Hex(),
		rec.To.Hex(),
		rec.Asset.TokenRef(),
		baseUnits(rec),
		strconv.FormatUint(rec.Status, 10),
	)
}

// RenderPDF 生成单笔发放的回执 PDF。
func RenderPDF(rec *model.TransferReceipt, opts PDFOptions) (*PDF, error) {
	if rec == nil {
		return nil, fmt.Errorf("receipt is required")
	}
	if opts.GeneratedAt.IsZero() {
		opts.GeneratedAt = time.Now()
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(14, 14, 14)
	pdf.SetAutoPageBreak(true, 14)
	pdf.SetTitle("Crypto Faucet - Disbursement Receipt", false)

	fontFamily, utf8OK := initPDFUnicodeFont(pdf)
	fp := Fingerprint(rec)

	pdf.AddPage()

	pdf.SetFont(fontFamily, "B", 16)
	pdf.CellFormat(0, 9, "Crypto Faucet - Disbursement Receipt", "", 1, "L", false, 0, "")

	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(60, 60, 60)
	pdf.CellFormat(0, 6, "Generated at: "+opts.GeneratedAt.UTC().Format("2006-01-02 15:04:05 MST"), "", 1, "L", false, 0, "")
	if opts.Version != "" {
		pdf.CellFormat(0, 6, "Service version: "+safeText(opts.Version, utf8OK), "", 1, "L", false, 0, "")
	}
	pdf.Ln(2)

	sectionTitle(pdf, fontFamily, "1. Transaction")
	kv(pdf, fontFamily, utf8OK, "Hash", rec.TransactionHash.Hex())
	kv(pdf, fontFamily, utf8OK, "Block", strconv.FormatUint(rec.BlockNumber, 10))
	kv(pdf, fontFamily, utf8OK, "Status", statusText(rec.Status))
	kv(pdf, fontFamily, utf8OK, "Network", opts.Network)
	pdf.Ln(2)

	sectionTitle(pdf, fontFamily, "2. Transfer")
	kv(pdf, fontFamily, utf8OK, "From", rec.From.Hex())
	kv(pdf, fontFamily, utf8OK, "To", rec.To.Hex())
	kv(pdf, fontFamily, utf8OK, "Asset", string(rec.Asset.Kind))
	kv(pdf, fontFamily, utf8OK, "Token", rec.Asset.TokenRef())
	kv(pdf, fontFamily, utf8OK, "Amount", strings.TrimSpace(rec.Amount+" "+rec.Symbol))
	kv(pdf, fontFamily, utf8OK, "Base Units", baseUnits(rec))
	pdf.Ln(2)

	sectionTitle(pdf, fontFamily, "3. Fingerprint")
	pdf.SetFont(fontFamily, "", 9)
	pdf.SetTextColor(40, 40, 40)
	pdf.MultiCell(0, 4.5, "sha256(hash, block, from, to, token, base units, status):", "", "L", false)
	pdf.MultiCell(0, 4.5, fp, "", "L", false)

	var warnings []string
	if !utf8OK {
		warnings = append(warnings, "pdf utf8 font not available; non-ascii text may be replaced with '?'")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("write pdf: %w", err)
	}
	return &PDF{
		Content:     buf.Bytes(),
		SHA256:      hash.Bytes(buf.Bytes()),
		Fingerprint: fp,
		Warnings:    warnings,
	}, nil
}

func baseUnits(rec *model.TransferReceipt) string {
	if rec.BaseUnits == nil {
		return "0"
	}
	return rec.BaseUnits.String()
}

func statusText(status uint64) string {
	if status == 1 {
		return "success (1)"
	}
	return fmt.Sprintf("failed (%d)", status)
}

func sectionTitle(pdf *gofpdf.Fpdf, fontFamily string, title string) {
	pdf.SetFont(fontFamily, "B", 12)
	pdf.SetTextColor(0, 0, 0)
	pdf.CellFormat(0, 7, title, "", 1, "L", false, 0, "")
	pdf.SetDrawColor(200, 200, 200)
	pdf.Line(pdf.GetX(), pdf.GetY(), 196, pdf.GetY())
	pdf.Ln(2)
}

func kv(pdf *gofpdf.Fpdf, fontFamily string, utf8OK bool, key string, value string) {
	if strings.TrimSpace(value) == "" {
		value = "-"
	}
	pdf.SetFont(fontFamily, "B", 10)
	pdf.SetTextColor(30, 30, 30)
	pdf.CellFormat(28, 5.2, key+":", "", 0, "L", false, 0, "")
	pdf.SetFont(fontFamily, "", 10)
	pdf.SetTextColor(20, 20, 20)
	pdf.MultiCell(0, 5.2, safeText(value, utf8OK), "", "L", false)
}

// safeText 在没有 UTF-8 字体时把非 ASCII 字符替换为 '?'，保证 PDF 一定能生成。
func safeText(s string, utf8OK bool) string {
	s = strings.NewReplacer("\r", " ", "\n", " ", "\t", " ").Replace(s)
	s = strings.TrimSpace(s)
	if utf8OK {
		return s
	}
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= 32 && r <= 126 {
			b.WriteRune(r)
		} else {
			b.WriteRune('?')
		}
	}
	return b.String()
}

// initPDFUnicodeFont 尝试加载 UTF-8 字体：FAUCET_PDF_FONT 优先，其次探测常见系统字体；
// 都失败则回退 Helvetica。
func initPDFUnicodeFont(pdf *gofpdf.Fpdf) (family string, utf8OK bool) {
	const familyName = "unicode"
	var candidates []string
	if v := strings.TrimSpace(os.Getenv("FAUCET_PDF_FONT")); v != "" {
		candidates = append(candidates, v)
	}
	switch runtime.GOOS {
	case "darwin":
		candidates = append(candidates,
			"/System/Library/Fonts/Supplemental/Arial Unicode.ttf",
			"/Library/Fonts/Arial Unicode.ttf",
		)
	case "windows":
		candidates = append(candidates,
			`C:\Windows\Fonts\arialuni.ttf`,
			`C:\Windows\Fonts\arial.ttf`,
		)
	default:
		candidates = append(candidates,
			"/usr/share/fonts/truetype/dejavu/DejaVuSans.ttf",
			"/usr/share/fonts/TTF/DejaVuSans.ttf",
		)
	}

	for _, p := range candidates {
		if _, err := os.Stat(p); err != nil {
			continue
		}
		pdf.AddUTF8Font(familyName, "", p)
		if pdf.Err() {
			pdf.ClearError()
			continue
		}
		pdf.AddUTF8Font(familyName, "B", p)
		if pdf.Err() {
			pdf.ClearError()
		}
		return familyName, true
	}
	return "Helvetica", false
}
