package model

import (
	"errors"
	"fmt"
)

// ErrorKind 是对外错误分类，webapp 按它决定 HTTP 状态码与提示文案。
type ErrorKind string

const (
	KindInvalidInput            ErrorKind = "invalid_input"
	KindConfiguration           ErrorKind = "configuration"
	KindContractRead            ErrorKind = "contract_read"
	KindProvider                ErrorKind = "provider"
	KindInsufficientFaucetFunds ErrorKind = "insufficient_faucet_funds"
	KindOperatorUnderfunded     ErrorKind = "operator_underfunded"
	KindTransaction             ErrorKind = "transaction"
	KindNotFound                ErrorKind = "not_found"
)

// Error 携带分类、出错字段（仅 invalid_input）与底层错误。
type Error struct {
	Kind    ErrorKind
	Field   string
	Message string
	Err     error
}

func (e *Error) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	case e.Message != "":
		return e.Message
	case e.Err != nil:
		return e.Err.Error()
	default:
		return string(e.Kind)
	}
}

func (e *Error) Unwrap() error { return e.Err }

// NewError 构造一个分类错误。
func NewError(kind ErrorKind, message string, err error) *Error {
	return &Error{Kind: kind, Message: message, Err: err}
}

// InvalidInput 构造字段级输入错误。
func InvalidInput(field, message string) *Error {
	return &Error{Kind: KindInvalidInput, Field: field, Message: message}
}

// KindOf 返回错误分类；未分类的错误一律视为 provider 错误（上游不透明失败）。
func KindOf(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindProvider
}

// Cause 返回分类错误包装的底层错误；没有底层错误时返回 err 本身。
func Cause(err error) error {
	var e *Error
	if errors.As(err, &e) && e.Err != nil {
		return e.Err
	}
	return err
}
