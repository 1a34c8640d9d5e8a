// Package dto はsessionフィーチャーのレスポンス型を定義します。
package dto

// SessionResponse はセッション開始のレスポンスです。
type SessionResponse struct {
	SessionID string `json:"session_id"`
	Token     string `json:"token"`
	// ExpiresIn はトークンの残り有効秒数です。
	ExpiresIn int64 `json:"expires_in"`
}
