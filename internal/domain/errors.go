package domain

import "errors"

var (
	// ErrTicketNotFound is returned when no ticket carries the requested number.
	ErrTicketNotFound = errors.New("ticket not found")
	// ErrTicketNumberExhausted is returned when no unused ticket number could be generated.
	ErrTicketNumberExhausted = errors.New("ticket number space exhausted")
)
