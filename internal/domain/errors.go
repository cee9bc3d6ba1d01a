package domain

import "errors"

var (
	ErrInvalidInput       = errors.New("invalid input")
	ErrNotFound           = errors.New("not found")
	ErrConflict           = errors.New("conflict")
	ErrOrderTotalMismatch = errors.New("order total does not match item prices")
	ErrCardRequired       = errors.New("card details required for online payment")
	ErrPaymentDeclined    = errors.New("payment declined")
)
