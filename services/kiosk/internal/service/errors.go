package service

import "errors"

var (
	ErrUnauthorized   = errors.New("unauthorized")
	ErrEmptyCart      = errors.New("cart is empty")
	ErrNotFound       = errors.New("not found")
	ErrCheckoutFailed = errors.New("checkout failed")
	ErrValidation     = errors.New("validation")
)
