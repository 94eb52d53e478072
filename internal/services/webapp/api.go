package webapp

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"crypto-faucet/internal/domain/model"
)

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":      true,
		"service": "faucet",
		"time":    time.Now().Unix(),
	})
}

func (s *Server) handleTokens(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	list := s.svc.Tokens
	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"version": list.List.Version,
		"network": list.List.Network,
		"sha256":  list.SHA256,
		"tokens":  list.List.Tokens,
	})
}

// errorResponse 把分类错误映射为 HTTP 状态码与对外文案。
//
//	invalid_input / contract_read / insufficient_faucet_funds -> 400
//	not_found -> 404
//	configuration / operator_underfunded / provider / transaction -> 500
func errorResponse(err error) (int, string) {
	var e *model.Error
	errors.As(err, &e)

	switch model.KindOf(err) {
	case model.KindInvalidInput:
		return http.StatusBadRequest, e.Message
	case model.KindContractRead:
		return http.StatusBadRequest, "failed to query the token contract; check that the address is an ERC20 contract on this network"
	case model.KindInsufficientFaucetFunds:
		return http.StatusBadRequest, e.Message
	case model.KindNotFound:
		return http.StatusNotFound, e.Message
	case model.KindConfiguration:
		return http.StatusInternalServerError, "server configuration error"
	case model.KindOperatorUnderfunded:
		return http.StatusInternalServerError, "the faucet wallet does not have enough funds to pay for gas"
	default:
		return http.StatusInternalServerError, err.Error()
	}
}

// fail 写出错误响应。5xx 记 error 日志（含底层错误），4xx 只记 info。
func (s *Server) fail(w http.ResponseWriter, r *http.Request, err error) {
	status, msg := errorResponse(err)
	entry := s.logger(r).WithField("kind", model.KindOf(err))
	if status >= http.StatusInternalServerError {
		entry.WithError(err).Error("request failed")
	} else {
		entry.WithError(err).Info("request rejected")
	}
	writeErrorText(w, status, msg)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeErrorText(w, status, err.Error())
}

func writeErrorText(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]any{
		"success": false,
		"error":   msg,
	})
}
