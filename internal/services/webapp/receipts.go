package webapp

import (
	"net/http"
	"strings"

	"crypto-faucet/internal/app"
	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/services/receipt"
)

// handleReceiptRoutes:
//
//	GET /api/receipts/{hash}
//	GET /api/receipts/{hash}/pdf
func (s *Server) handleReceiptRoutes(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	rest := strings.Trim(strings.TrimPrefix(r.URL.Path, "/api/receipts/"), "/")
	if rest == "" {
		writeErrorText(w, http.StatusNotFound, "not found")
		return
	}
	parts := strings.Split(rest, "/")
	hash := parts[0]
	action := ""
	if len(parts) > 1 {
		action = parts[1]
	}
	if len(parts) > 2 {
		writeErrorText(w, http.StatusNotFound, "not found")
		return
	}

	switch action {
	case "":
		s.handleReceipt(w, r, hash)
	case "pdf":
		s.handleReceiptPDF(w, r, hash)
	default:
		writeErrorText(w, http.StatusNotFound, "not found")
	}
}

func (s *Server) handleReceipt(w http.ResponseWriter, r *http.Request, hash string) {
	rec, err := s.svc.Receipts.Lookup(r.Context(), hash)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"transactionHash": rec.TransactionHash.Hex(),
		"blockNumber":     rec.BlockNumber,
		"status":          rec.Status,
		"from":            rec.From.Hex(),
		"to":              rec.To.Hex(),
		"amount":          rec.Amount,
		"baseUnits":       rec.BaseUnits.String(),
		"symbol":          rec.Symbol,
		"tokenType":       string(rec.Asset.Kind),
		"token":           rec.Asset.TokenRef(),
		"fingerprint":     receipt.Fingerprint(rec),
	})
}

func (s *Server) handleReceiptPDF(w http.ResponseWriter, r *http.Request, hash string) {
	rec, err := s.svc.Receipts.Lookup(r.Context(), hash)
	if err != nil {
		s.fail(w, r, err)
		return
	}
	doc, err := receipt.RenderPDF(rec, receipt.PDFOptions{
		Network: s.network(r.Context()),
		Version: app.Version,
	})
	if err != nil {
		s.fail(w, r, model.NewError(model.KindProvider, "render receipt", err))
		return
	}
	for _, warn := range doc.Warnings {
		s.logger(r).Warn(warn)
	}
	w.Header().Set("X-Content-SHA256", doc.SHA256)
	w.Header().Set("X-Receipt-Fingerprint", doc.Fingerprint)
	serveAttachment(w, r, "receipt_"+rec.TransactionHash.Hex()+".pdf", "application/pdf", doc.Content)
}
