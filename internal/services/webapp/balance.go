package webapp

import (
	"net/http"
	"strings"

	"crypto-faucet/internal/domain/model"
	"crypto-faucet/internal/services/chainbalance"
)

// GET /api/balance?address=&tokenType=native|erc20&tokenAddress=
func (s *Server) handleBalance(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query()
	res, err := s.svc.Balance.QueryRaw(r.Context(), chainbalance.Query{
		Address:      strings.TrimSpace(q.Get("address")),
		TokenType:    strings.TrimSpace(q.Get("tokenType")),
		TokenAddress: strings.TrimSpace(q.Get("tokenAddress")),
	})
	if err != nil {
		s.fail(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, balanceBody(res))
}

// GET /api/faucet/status：运营账户地址与原生币余额。
func (s *Server) handleFaucetStatus(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	addr, ok := s.svc.Faucet.OperatorAddress()
	if !ok {
		s.fail(w, r, model.NewError(model.KindConfiguration, "faucet_private_key is not configured", nil))
		return
	}
	res, err := s.svc.Balance.Query(r.Context(), addr, model.NativeAsset())
	if err != nil {
		s.fail(w, r, err)
		return
	}
	body := balanceBody(res)
	body["operator"] = addr.Hex()
	writeJSON(w, http.StatusOK, body)
}

func balanceBody(res *model.BalanceResult) map[string]any {
	var tokenAddress any
	if !res.Asset.IsNative() {
		tokenAddress = res.Asset.Contract.Hex()
	}
	return map[string]any{
		"success":      true,
		"address":      res.Address.Hex(),
		"tokenType":    string(res.Asset.Kind),
		"tokenAddress": tokenAddress,
		"balance": map[string]any{
			"raw":       res.Raw,
			"formatted": res.Formatted,
			"decimals":  res.Decimals,
		},
		"token": map[string]any{
			"symbol": res.Symbol,
			"name":   res.Name,
		},
	}
}
