// Package adapters はholdingsフィーチャーのリポジトリ実装を提供します。
package adapters

import (
	"context"
	"time"

	"gorm.io/gorm"

	"portfolio_tracker/internal/feature/holdings/domain/entity"
	"portfolio_tracker/internal/feature/holdings/usecase"
)

// HoldingGorm はHoldingRepositoryインターフェースのGORM実装です（SQLite / Postgres）。
// セッションの最後の追加（MAX(added_at)）からttl経過した行は期限切れとして扱います。
type HoldingGorm struct {
	db  *gorm.DB
	ttl time.Duration
	now func() time.Time
}

// Compile-time check to ensure HoldingGorm implements HoldingRepository.
var _ usecase.HoldingRepository = (*HoldingGorm)(nil)

// NewHoldingGorm は指定されたDB接続でHoldingGormリポジトリの新しいインスタンスを生成します。
// ttl が0以下の場合は期限切れによる削除を行いません。
func NewHoldingGorm(db *gorm.DB, ttl time.Duration) *HoldingGorm {
	return &HoldingGorm{db: db, ttl: ttl, now: time.Now}
}

// Append は保有銘柄を1行挿入します。
func (r *HoldingGorm) Append(ctx context.Context, sessionID string, h entity.Holding) error {
	return r.db.WithContext(ctx).Create(HoldingModelFromEntity(sessionID, h)).Error
}

// List はid順（追加順）にセッションの保有銘柄を返します。
// 期限切れのセッションは行を削除して空を返します。
func (r *HoldingGorm) List(ctx context.Context, sessionID string) ([]entity.Holding, error) {
	var models []HoldingModel
	if err := r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Order("id ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	if r.expired(models) {
		if err := r.Clear(ctx, sessionID); err != nil {
			return nil, err
		}
		return []entity.Holding{}, nil
	}

	out := make([]entity.Holding, 0, len(models))
	for i := range models {
		h, err := models[i].ToEntity()
		if err != nil {
			return nil, err
		}
		out = append(out, h)
	}
	return out, nil
}

// Clear はセッションの全行を削除します。
func (r *HoldingGorm) Clear(ctx context.Context, sessionID string) error {
	return r.db.WithContext(ctx).
		Where("session_id = ?", sessionID).
		Delete(&HoldingModel{}).Error
}

// DeleteExpired は最後の追加からttl経過したセッションの行をすべて削除します。
func (r *HoldingGorm) DeleteExpired(ctx context.Context) (int64, error) {
	if r.ttl <= 0 {
		return 0, nil
	}
	stale := r.db.Model(&HoldingModel{}).
		Select("session_id").
		Group("session_id").
		Having("MAX(added_at) < ?", r.cutoff())
	result := r.db.WithContext(ctx).
		Where("session_id IN (?)", stale).
		Delete(&HoldingModel{})
	return result.RowsAffected, result.Error
}

func (r *HoldingGorm) cutoff() time.Time {
	return r.now().UTC().Add(-r.ttl)
}

// expired はセッションの最新の追加がcutoffより前かを判定します。
func (r *HoldingGorm) expired(models []HoldingModel) bool {
	if r.ttl <= 0 || len(models) == 0 {
		return false
	}
	cutoff := r.cutoff()
	for i := range models {
		if !models[i].AddedAt.Before(cutoff) {
			return false
		}
	}
	return true
}
