package accounts

import "errors"

var (
	// ErrNotFound indicates the account does not exist.
	ErrNotFound = errors.New("account not found")
	// ErrInsufficientCredits indicates the balance cannot cover the debit.
	ErrInsufficientCredits = errors.New("insufficient credits")
)
