package services

import "errors"

// ErrCode classifies business errors so handlers can map them to HTTP
// status codes without string matching.
type ErrCode string

const (
	ErrCodeValidation          ErrCode = "VALIDATION"
	ErrCodeNotFound            ErrCode = "NOT_FOUND"
	ErrCodeAlreadyActiveRental ErrCode = "ALREADY_ACTIVE_RENTAL"
	ErrCodeInsufficientBalance ErrCode = "INSUFFICIENT_BALANCE"
	ErrCodeInvalidStatus       ErrCode = "INVALID_STATUS"
	ErrCodeAlreadyClaimed      ErrCode = "ALREADY_CLAIMED"
)

type codedError struct {
	code ErrCode
	msg  string
}

func (e codedError) Error() string { return e.msg }
func (e codedError) Code() ErrCode { return e.code }

// NewError creates a coded business error
func NewError(code ErrCode, msg string) error {
	return codedError{code: code, msg: msg}
}

// Code extracts the error code, or "" for uncoded errors
func Code(err error) ErrCode {
	var ce interface{ Code() ErrCode }
	if errors.As(err, &ce) {
		return ce.Code()
	}
	return ""
}
