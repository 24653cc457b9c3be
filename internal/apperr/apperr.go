// Package apperr 定义请求边界可恢复的业务错误分类
package apperr

import (
	"errors"
	"fmt"
)

// Kind 错误分类
type Kind int

const (
	KindInternal Kind = iota
	KindNotFound
	KindUnauthorized
	KindForbidden
	KindInvalidOperation
)

func (k Kind) String() string {
	switch k {
	case KindNotFound:
		return "not_found"
	case KindUnauthorized:
		return "unauthorized"
	case KindForbidden:
		return "forbidden"
	case KindInvalidOperation:
		return "invalid_operation"
	default:
		return "internal"
	}
}

// AppError 携带分类、提示信息及字段级校验信息
type AppError struct {
	Kind    Kind
	Message string
	Fields  map[string]string
	Err     error
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Kind, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Kind, e.Message)
}

func (e *AppError) Unwrap() error { return e.Err }

// Is 同类错误视为相等，使 errors.Is(err, ErrNotFound) 成立
func (e *AppError) Is(target error) bool {
	t, ok := target.(*AppError)
	if !ok {
		return false
	}
	return t.Kind == e.Kind && (t.Message == "" || t.Message == e.Message)
}

// 哨兵错误，仅用于 errors.Is 比较
var (
	ErrNotFound         = &AppError{Kind: KindNotFound}
	ErrUnauthorized     = &AppError{Kind: KindUnauthorized}
	ErrForbidden        = &AppError{Kind: KindForbidden}
	ErrInvalidOperation = &AppError{Kind: KindInvalidOperation}
)

func NotFound(format string, args ...any) *AppError {
	return &AppError{Kind: KindNotFound, Message: fmt.Sprintf(format, args...)}
}

func Unauthorized(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg}
}

func Forbidden(msg string) *AppError {
	return &AppError{Kind: KindForbidden, Message: msg}
}

func Invalid(msg string, fields map[string]string) *AppError {
	return &AppError{Kind: KindInvalidOperation, Message: msg, Fields: fields}
}

// Wrap 包装底层错误
func Wrap(kind Kind, msg string, err error) *AppError {
	return &AppError{Kind: kind, Message: msg, Err: err}
}

// KindOf 返回错误分类，非 AppError 一律视为 KindInternal
func KindOf(err error) Kind {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr.Kind
	}
	return KindInternal
}
