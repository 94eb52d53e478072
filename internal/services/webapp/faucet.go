package webapp

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"crypto-faucet/internal/services/faucet"

	"github.com/sirupsen/logrus"
)

const maxBodyBytes = 1 << 20

// amountField 同时接受 "10" 与 10 两种写法。
type amountField string

func (a *amountField) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*a = amountField(s)
		return nil
	}
	if bytes.Equal(b, []byte("null")) {
		*a = ""
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return errors.New("amount must be a string or a number")
	}
	*a = amountField(n.String())
	return nil
}

type faucetBody struct {
	TokenType        string      `json:"tokenType"`
	Amount           amountField `json:"amount"`
	RecipientAddress string      `json:"recipientAddress"`
	TokenAddress     string      `json:"tokenAddress"`
}

// POST /api/faucet
func (s *Server) handleFaucet(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	var body faucetBody
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Errorf("invalid json: %w", err))
		return
	}
	req := faucet.Request{
		TokenType:        strings.TrimSpace(body.TokenType),
		Amount:           strings.TrimSpace(string(body.Amount)),
		RecipientAddress: strings.TrimSpace(body.RecipientAddress),
		TokenAddress:     strings.TrimSpace(body.TokenAddress),
	}

	rec, err := s.svc.Faucet.DisburseRaw(r.Context(), req)
	if err != nil {
		s.fail(w, r, err)
		return
	}

	token := rec.Asset.TokenRef()
	if !rec.Asset.IsNative() {
		token = req.TokenAddress
	}
	s.logger(r).WithFields(logrus.Fields{
		"tx":     rec.TransactionHash.Hex(),
		"block":  rec.BlockNumber,
		"to":     rec.To.Hex(),
		"asset":  rec.Asset.String(),
		"amount": rec.Amount,
	}).Info("disbursement confirmed")

	writeJSON(w, http.StatusOK, map[string]any{
		"success":         true,
		"message":         fmt.Sprintf("%s %s sent successfully", rec.Amount, rec.Symbol),
		"transactionHash": rec.TransactionHash.Hex(),
		"blockNumber":     rec.BlockNumber,
		"from":            rec.From.Hex(),
		"to":              rec.To.Hex(),
		"amount":          rec.Amount,
		"tokenType":       string(rec.Asset.Kind),
		"token":           token,
	})
}
