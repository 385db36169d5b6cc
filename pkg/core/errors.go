package core

import "errors"

// Common errors.
var (
	ErrReadOnly    = errors.New("storage is in read-only mode")
	ErrRejected    = errors.New("input rejected: required field is empty")
	ErrUnknownTab  = errors.New("unknown tab")
	ErrUnknownKind = errors.New("unknown panel kind")
)
