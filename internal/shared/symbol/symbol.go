// Package symbol はティッカーシンボルの正規化と検証を提供します。
package symbol

import (
	"errors"
	"regexp"
	"strings"
)

// MaxLength はシンボルの最大文字数です。
const MaxLength = 20

var (
	// ErrEmpty is returned when the symbol is blank after trimming.
	ErrEmpty = errors.New("symbol is required")
	// ErrInvalid is returned when the symbol is too long or contains unsupported characters.
	ErrInvalid = errors.New("symbol must be at most 20 letters, digits, '.' or '-'")
)

// validSymbol は正規化後のシンボルに許可される文字パターンです（例: "AAPL", "BRK.B", "7203.T"）。
var validSymbol = regexp.MustCompile(`^[A-Z0-9.\-]+$`)

// Normalize は前後の空白を除去し、大文字に変換します。
func Normalize(s string) string {
	return strings.ToUpper(strings.TrimSpace(s))
}

// Parse はシンボルを正規化して検証します。
func Parse(s string) (string, error) {
	n := Normalize(s)
	if n == "" {
		return "", ErrEmpty
	}
	if len(n) > MaxLength || !validSymbol.MatchString(n) {
		return "", ErrInvalid
	}
	return n, nil
}
