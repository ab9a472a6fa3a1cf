// Package apperr 统一业务错误：类型 + HTTP 状态映射。
// handler 层据此决定 JSON 状态码或页面 flash。
package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

type Kind int

const (
	KindInternal Kind = iota
	KindValidation
	KindUnauthenticated
	KindForbidden
	KindNotFound
	KindDuplicateISBN
	KindRateLimited
	KindUpstream
	KindUpstreamParse
)

type Error struct {
	Kind    Kind
	Message string
	Err     error // 底层原因，仅进日志，不出响应
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error { return e.Err }

// StatusCode 对应 HTTP 状态码
func (e *Error) StatusCode() int {
	switch e.Kind {
	case KindValidation, KindDuplicateISBN:
		return http.StatusBadRequest
	case KindUnauthenticated:
		return http.StatusUnauthorized
	case KindForbidden:
		return http.StatusForbidden
	case KindNotFound:
		return http.StatusNotFound
	case KindRateLimited:
		return http.StatusTooManyRequests
	default:
		return http.StatusInternalServerError
	}
}

// Public 返回可对外展示的消息；500 类只给通用文案
func (e *Error) Public() string {
	switch e.Kind {
	case KindInternal:
		return "internal server error"
	default:
		return e.Message
	}
}

func Validation(msg string) *Error      { return &Error{Kind: KindValidation, Message: msg} }
func Unauthenticated(msg string) *Error { return &Error{Kind: KindUnauthenticated, Message: msg} }
func Forbidden(msg string) *Error       { return &Error{Kind: KindForbidden, Message: msg} }
func NotFound(msg string) *Error        { return &Error{Kind: KindNotFound, Message: msg} }
func DuplicateISBN(msg string) *Error   { return &Error{Kind: KindDuplicateISBN, Message: msg} }
func RateLimited(msg string) *Error     { return &Error{Kind: KindRateLimited, Message: msg} }

func Upstream(msg string, err error) *Error {
	return &Error{Kind: KindUpstream, Message: msg, Err: err}
}

func UpstreamParse(msg string, err error) *Error {
	return &Error{Kind: KindUpstreamParse, Message: msg, Err: err}
}

func Internal(msg string, err error) *Error {
	return &Error{Kind: KindInternal, Message: msg, Err: err}
}

// As 取出 *Error；非业务错误一律按 Internal 处理
func As(err error) *Error {
	var ae *Error
	if errors.As(err, &ae) {
		return ae
	}
	return &Error{Kind: KindInternal, Message: "internal server error", Err: err}
}

// IsKind 判断错误归属
func IsKind(err error, kind Kind) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Kind == kind
}
