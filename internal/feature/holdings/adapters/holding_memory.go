package adapters

import (
	"context"
	"sync"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"

	"portfolio_tracker/internal/feature/holdings/domain/entity"
	"portfolio_tracker/internal/feature/holdings/usecase"
)

// HoldingMemory はプロセス内メモリにポートフォリオを保持する実装です。
// セッションのポートフォリオは最後の追加からttl経過で破棄されます（Redis実装と同じ期限モデル）。
// プロセス終了で内容は失われます。
type HoldingMemory struct {
	// mu は Get→Add の読み書きを原子的にします。
	mu       sync.Mutex
	sessions *expirable.LRU[string, []entity.Holding]
}

var _ usecase.HoldingRepository = (*HoldingMemory)(nil)

// NewHoldingMemory はHoldingMemoryの新しいインスタンスを生成します。
// ttl が0以下の場合は期限切れによる破棄を行いません。
func NewHoldingMemory(ttl time.Duration) *HoldingMemory {
	return &HoldingMemory{sessions: expirable.NewLRU[string, []entity.Holding](0, nil, ttl)}
}

// Append は保有銘柄を末尾に追加し、セッションの有効期限を延長します。
func (r *HoldingMemory) Append(_ context.Context, sessionID string, h entity.Holding) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	current, _ := r.sessions.Get(sessionID)
	next := make([]entity.Holding, len(current), len(current)+1)
	copy(next, current)
	r.sessions.Add(sessionID, append(next, h))
	return nil
}

// List は保有銘柄のコピーを返します。期限切れのセッションは空です。
func (r *HoldingMemory) List(_ context.Context, sessionID string) ([]entity.Holding, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	src, _ := r.sessions.Get(sessionID)
	out := make([]entity.Holding, len(src))
	copy(out, src)
	return out, nil
}

// Clear はセッションのポートフォリオを破棄します。
func (r *HoldingMemory) Clear(_ context.Context, sessionID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions.Remove(sessionID)
	return nil
}

// Len は保持しているセッション数を返します。
func (r *HoldingMemory) Len() int {
	return r.sessions.Len()
}
