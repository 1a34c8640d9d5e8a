// Package usecase はセッション開始のロジックを実装します。
package usecase

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"portfolio_tracker/internal/feature/session/domain/entity"
)

// TokenIssuer はセッションIDに対する署名済みトークンを発行します。
type TokenIssuer interface {
	GenerateToken(sessionID string) (string, time.Time, error)
}

// SessionUsecase は新しい空のポートフォリオセッションを開始します。
type SessionUsecase struct {
	issuer TokenIssuer
	newID  func() string
}

// NewSessionUsecase はSessionUsecaseの新しいインスタンスを生成します。
func NewSessionUsecase(issuer TokenIssuer) *SessionUsecase {
	return &SessionUsecase{issuer: issuer, newID: uuid.NewString}
}

// Start はランダムなセッションIDを採番し、トークンを発行します。
// 新しいセッションのポートフォリオは空です。
func (u *SessionUsecase) Start(ctx context.Context) (entity.Session, error) {
	if err := ctx.Err(); err != nil {
		return entity.Session{}, err
	}
	id := u.newID()
	token, expiresAt, err := u.issuer.GenerateToken(id)
	if err != nil {
		return entity.Session{}, fmt.Errorf("issue session token: %w", err)
	}
	return entity.Session{ID: id, Token: token, ExpiresAt: expiresAt}, nil
}
