package domain

import "errors"

var (
	ErrNotFound         = errors.New("not found")
	ErrUnknownCurrency  = errors.New("unknown currency")
	ErrInvalidAmount    = errors.New("invalid amount")
	ErrRateUnavailable  = errors.New("rate unavailable")
	ErrRateFormat       = errors.New("rate not parseable")
	ErrStoreUnavailable = errors.New("store unavailable")
)
