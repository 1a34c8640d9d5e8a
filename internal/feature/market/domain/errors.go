// Package domain defines domain-level errors for the market feature.
package domain

import "errors"

// Errors returned by market data sources. Callers use errors.Is to tell a
// failed fetch apart from data that is simply absent.
var (
	// ErrSymbolNotFound indicates the upstream API does not know the symbol.
	ErrSymbolNotFound = errors.New("symbol not found")

	// ErrRateLimited indicates the upstream API refused the call because of its
	// request quota or a missing/invalid API key.
	ErrRateLimited = errors.New("market data rate limited")

	// ErrUpstream indicates a transport, HTTP status, or decoding failure.
	ErrUpstream = errors.New("market data upstream failure")
)
