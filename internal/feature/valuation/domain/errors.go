// Package domain はvaluationフィーチャーのドメインエラーを定義します。
package domain

import "errors"

var (
	// ErrHoldingNotFound is returned when the requested symbol is not in the portfolio.
	ErrHoldingNotFound = errors.New("symbol is not in the portfolio")
	// ErrInvalidSymbol is returned when the requested symbol cannot be parsed.
	ErrInvalidSymbol = errors.New("invalid symbol")
)
