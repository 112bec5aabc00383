package service

import (
	"braingain_backend/internal/model"
	"context"
	"time"

	"go.uber.org/zap"
)

type AttemptStore interface {
	Create(ctx context.Context, attempt *model.Attempt) error
	FindLatestFailed(ctx context.Context, materialID string) (*model.Attempt, error)
	ExistsPassed(ctx context.Context, materialID string) (bool, error)
}

// CooldownStatus 冷却状态，Degraded 表示存储读取失败后按允许处理
type CooldownStatus struct {
	Allowed          bool       `json:"allowed"`
	RemainingSeconds int        `json:"remainingSeconds"`
	LastAttempt      *time.Time `json:"lastAttempt,omitempty"`
	Degraded         bool       `json:"-"`
}

type CooldownService struct {
	Attempts AttemptStore
	Window   int // 秒
	now      func() time.Time
}

func NewCooldownService(attempts AttemptStore) *CooldownService {
	return &CooldownService{
		Attempts: attempts,
		Window:   model.CooldownSeconds,
		now:      time.Now,
	}
}

// CheckCooldown 只看最近一次失败记录，通过的记录不触发冷却
func (s *CooldownService) CheckCooldown(ctx context.Context, materialID string) CooldownStatus {
	latest, err := s.Attempts.FindLatestFailed(ctx, materialID)
	if err != nil {
		degradedRead("check_cooldown", err, zap.String("materialId", materialID))
		return CooldownStatus{Allowed: true, Degraded: true}
	}
	if latest == nil {
		return CooldownStatus{Allowed: true}
	}

	// 取整秒，时钟回拨时按 0 处理
	elapsed := int(s.now().Sub(latest.CreatedAt) / time.Second)
	if elapsed < 0 {
		elapsed = 0
	}

	lastAttempt := latest.CreatedAt
	if elapsed >= s.Window {
		return CooldownStatus{Allowed: true, LastAttempt: &lastAttempt}
	}

	return CooldownStatus{
		Allowed:          false,
		RemainingSeconds: s.Window - elapsed,
		LastAttempt:      &lastAttempt,
	}
}

// CheckPassed 读取失败时视为未通过
func (s *CooldownService) CheckPassed(ctx context.Context, materialID string) bool {
	passed, err := s.Attempts.ExistsPassed(ctx, materialID)
	if err != nil {
		degradedRead("check_passed", err, zap.String("materialId", materialID))
		return false
	}
	return passed
}
