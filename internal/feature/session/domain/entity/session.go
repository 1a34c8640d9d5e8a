// Package entity はsessionフィーチャーのドメインエンティティを定義します。
package entity

import "time"

// Session は匿名ポートフォリオセッションです。
// Token は Authorization: Bearer に載せる署名済みトークンです。
type Session struct {
	ID        string
	Token     string
	ExpiresAt time.Time
}
