// internal/repository/errors.go
package repository

import "errors"

var (
	ErrProductNotFound     = errors.New("product not found")
	ErrOrderNotFound       = errors.New("order not found")
	ErrInsufficientStock   = errors.New("insufficient stock")
	ErrNotOrderSeller      = errors.New("order does not belong to this seller")
	ErrOrderNotCancellable = errors.New("order is not in a cancellable state")
)
