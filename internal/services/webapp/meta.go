package webapp

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"crypto-faucet/internal/app"
	"crypto-faucet/internal/domain/model"
)

func (s *Server) handleMeta(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}

	chain := map[string]any{"configured": s.svc.Chain != nil}
	if s.svc.Chain != nil {
		chain["rpc"] = s.svc.RPCEndpoint
		ctx, cancel := context.WithTimeout(r.Context(), 5*time.Second)
		defer cancel()
		if id, err := s.svc.Chain.ChainID(ctx); err != nil {
			chain["error"] = err.Error()
		} else {
			chain["chain_id"] = id.String()
			chain["symbol"] = model.NativeSymbol(id)
		}
	}

	operator := map[string]any{"configured": false}
	if addr, ok := s.svc.Faucet.OperatorAddress(); ok {
		operator["configured"] = true
		operator["address"] = addr.Hex()
	}

	list := s.svc.Tokens
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": time.Now().Unix(),
		"app": map[string]any{
			"version":    app.Version,
			"commit":     app.Commit,
			"build_time": app.BuildTime,
		},
		"chain":  chain,
		"faucet": operator,
		"tokens": map[string]any{
			"source":  list.Source,
			"version": list.List.Version,
			"total":   len(list.List.Tokens),
			"sha256":  list.SHA256,
		},
	})
}

// network 返回 "chain 31337 (ETH)" 形式的网络描述；未配置或查询失败时为空。
func (s *Server) network(ctx context.Context) string {
	if s.svc.Chain == nil {
		return ""
	}
	id, err := s.svc.Chain.ChainID(ctx)
	if err != nil {
		return ""
	}
	return fmt.Sprintf("chain %s (%s)", id, model.NativeSymbol(id))
}
