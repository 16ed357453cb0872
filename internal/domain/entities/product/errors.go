package product

import "errors"

var (
	ErrInvalidLayout   = errors.New("invalid layout")
	ErrInvalidFormat   = errors.New("invalid export format")
	ErrInvalidCommand  = errors.New("invalid command")
	ErrUnknownOp       = errors.New("unknown command op")
	ErrUnknownField    = errors.New("unknown record field")
	ErrIndexOutOfRange = errors.New("index out of range")
)
