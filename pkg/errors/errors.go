// Package errors 提供统一的错误定义
package errors

import (
	"fmt"
	"net/http"
)

// ErrorCode 错误码类型
type ErrorCode string

// 预定义错误码
const (
	// 通用错误 (1xxx)
	CodeSuccess            ErrorCode = "0"
	CodeUnknown            ErrorCode = "1000"
	CodeInvalidParam       ErrorCode = "1001"
	CodeNotFound           ErrorCode = "1004"
	CodeConflict           ErrorCode = "1005"
	CodeTooManyRequests    ErrorCode = "1006"
	CodeInternalError      ErrorCode = "1007"
	CodeServiceUnavailable ErrorCode = "1008"

	// 元数据解析错误 (2xxx)
	CodeDOINotFound      ErrorCode = "2001"
	CodeExtractionFailed ErrorCode = "2002"

	// 生成流水线错误 (3xxx)
	CodeCredentialMissing ErrorCode = "3001"
	CodeNoImageData       ErrorCode = "3002"
	CodeGenerationFailed  ErrorCode = "3003"

	// 布局与导出错误 (4xxx)
	CodeExportFailed   ErrorCode = "4001"
	CodeExportBusy     ErrorCode = "4002"
	CodeInvalidMode    ErrorCode = "4003"
	CodeSessionNotIdle ErrorCode = "4004"

	// 外部服务错误 (5xxx)
	CodeBackendError ErrorCode = "5001"
	CodeCacheError   ErrorCode = "5002"
)

// AppError 应用错误
type AppError struct {
	Code       ErrorCode `json:"code"`
	Message    string    `json:"message"`
	Detail     string    `json:"detail,omitempty"`
	HTTPStatus int       `json:"-"`
	Err        error     `json:"-"`
}

// Error 实现 error 接口
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap 返回底层错误
func (e *AppError) Unwrap() error {
	return e.Err
}

// WithDetail 添加详细信息
func (e *AppError) WithDetail(detail string) *AppError {
	e.Detail = detail
	return e
}

// WithError 添加底层错误
func (e *AppError) WithError(err error) *AppError {
	e.Err = err
	return e
}

// New 创建新的应用错误
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

// Wrap 包装错误
func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Err:        err,
	}
}

// codeToHTTPStatus 错误码转 HTTP 状态码
func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case CodeSuccess:
		return http.StatusOK
	case CodeInvalidParam:
		return http.StatusBadRequest
	case CodeNotFound, CodeDOINotFound:
		return http.StatusNotFound
	case CodeConflict, CodeExportBusy, CodeInvalidMode, CodeSessionNotIdle:
		return http.StatusConflict
	case CodeTooManyRequests:
		return http.StatusTooManyRequests
	case CodeExtractionFailed:
		return http.StatusUnprocessableEntity
	case CodeNoImageData, CodeGenerationFailed, CodeBackendError:
		return http.StatusBadGateway
	case CodeCredentialMissing, CodeServiceUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// 预定义错误
var (
	ErrInvalidParam       = New(CodeInvalidParam, "invalid parameter")
	ErrNotFound           = New(CodeNotFound, "resource not found")
	ErrConflict           = New(CodeConflict, "resource conflict")
	ErrTooManyRequests    = New(CodeTooManyRequests, "too many requests")
	ErrInternalError      = New(CodeInternalError, "internal server error")
	ErrServiceUnavailable = New(CodeServiceUnavailable, "service unavailable")

	ErrDOINotFound      = New(CodeDOINotFound, "DOI lookup failed")
	ErrExtractionFailed = New(CodeExtractionFailed, "PDF metadata extraction failed")

	ErrCredentialMissing = New(CodeCredentialMissing, "no API credential configured")
	ErrNoImageData       = New(CodeNoImageData, "backend returned no image data")
	ErrGenerationFailed  = New(CodeGenerationFailed, "cover generation failed")

	ErrExportFailed = New(CodeExportFailed, "cover export failed")
	ErrExportBusy   = New(CodeExportBusy, "export already in progress")
)

// IsAppError 检查是否为 AppError
func IsAppError(err error) bool {
	_, ok := err.(*AppError)
	return ok
}

// AsAppError 将错误转换为 AppError
func AsAppError(err error) *AppError {
	if appErr, ok := err.(*AppError); ok {
		return appErr
	}
	return Wrap(err, CodeUnknown, "unknown error")
}

// IsCode 检查错误是否携带指定错误码
func IsCode(err error, code ErrorCode) bool {
	appErr, ok := err.(*AppError)
	return ok && appErr.Code == code
}
