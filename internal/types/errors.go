package types

import (
	"github.com/pkg/errors"
)

const (
	CodeNotFound                  = "NOT_FOUND"
	CodeStoreUnavailable          = "STORE_UNAVAILABLE"
	CodeClipboardAccessDenied     = "CLIPBOARD_ACCESS_DENIED"
	CodePasteInjectionUnavailable = "PASTE_INJECTION_UNAVAILABLE"
	CodeInvalidArgument           = "INVALID_ARGUMENT"
	CodeIndexInconsistent         = "INDEX_INCONSISTENT"
	CodeInternal                  = "INTERNAL_ERROR"
)

var (
	ErrNotFound                  = NewErr(CodeNotFound, "clipboard item not found")
	ErrStoreUnavailable          = NewErr(CodeStoreUnavailable, "history store unavailable")
	ErrClipboardAccessDenied     = NewErr(CodeClipboardAccessDenied, "clipboard access denied")
	ErrPasteInjectionUnavailable = NewErr(CodePasteInjectionUnavailable, "paste injection unavailable")
	ErrInvalidArgument           = NewErr(CodeInvalidArgument, "invalid argument")
	ErrIndexInconsistent         = NewErr(CodeIndexInconsistent, "store and fingerprint index disagree")
)

// Err is an error carrying a stable code that survives the IPC boundary
type Err struct {
	Code string `json:"code"`
	Msg  string `json:"message"`
}

func (e *Err) Error() string { return e.Msg }

// Is matches any *Err with the same code
func (e *Err) Is(target error) bool {
	t, ok := target.(*Err)
	return ok && t.Code == e.Code
}

func NewErr(code, msg string) *Err {
	return &Err{Code: code, Msg: msg}
}

// Code resolves the taxonomy code of err, unwrapping pkg/errors and fmt wrapping.
func Code(err error) string {
	if err == nil {
		return ""
	}
	var e *Err
	if errors.As(err, &e) {
		return e.Code
	}
	if e, ok := errors.Cause(err).(*Err); ok {
		return e.Code
	}
	return CodeInternal
}

// Wrapf annotates a taxonomy error with detail while keeping its code
func Wrapf(base *Err, format string, args ...interface{}) error {
	return errors.Wrapf(base, format, args...)
}
