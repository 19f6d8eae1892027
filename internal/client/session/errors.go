package session

import "errors"

var (
	// ErrInsufficientFunds means the wallet balance cannot cover the
	// requested spend. No state changed.
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrRequestInFlight means an identical mutating request is still
	// waiting on the server. The new request was ignored.
	ErrRequestInFlight = errors.New("request already in flight")

	// ErrNotAuthenticated means the operation needs a token and there is
	// none.
	ErrNotAuthenticated = errors.New("not authenticated")

	// ErrEmptyAddress means ConfirmOrder was called without an address.
	ErrEmptyAddress = errors.New("address is required")
)
