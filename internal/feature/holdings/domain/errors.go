// Package domain はholdingsフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrEmptySymbol is returned when the symbol is blank.
	ErrEmptySymbol = errors.New("symbol is required")
	// ErrInvalidSymbol is returned when the symbol is too long or contains unsupported characters.
	ErrInvalidSymbol = errors.New("symbol must be at most 20 letters, digits, '.' or '-'")
	// ErrInvalidUnits is returned when units is not a positive integer.
	ErrInvalidUnits = errors.New("units must be a positive whole number")
	// ErrInvalidPurchasePrice is returned when the purchase price is not positive.
	ErrInvalidPurchasePrice = errors.New("purchase price must be greater than zero")
	// ErrEmptySession is returned when no session id is supplied.
	ErrEmptySession = errors.New("session id is required")
)

// IsValidation reports whether err is one of the input validation errors.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptySymbol) ||
		errors.Is(err, ErrInvalidSymbol) ||
		errors.Is(err, ErrInvalidUnits) ||
		errors.Is(err, ErrInvalidPurchasePrice)
}
