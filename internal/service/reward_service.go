package service

import (
	"braingain_backend/internal/model"
	"braingain_backend/pkg/logger"
	"braingain_backend/pkg/monitoring"
	"context"

	"go.uber.org/zap"
)

type RewardStore interface {
	FindByMaterial(ctx context.Context, materialID string) (*model.Reward, error)
	CreateIfAbsent(ctx context.Context, reward *model.Reward) (bool, error)
	SumMinutes(ctx context.Context) (int, error)
}

// RewardService 奖励账本，每个材料最多一条奖励记录
type RewardService struct {
	Rewards RewardStore
}

func NewRewardService(rewards RewardStore) *RewardService {
	return &RewardService{Rewards: rewards}
}

// TotalRewards 累计奖励分钟数，读取失败返回 0
func (s *RewardService) TotalRewards(ctx context.Context) int {
	total, err := s.Rewards.SumMinutes(ctx)
	if err != nil {
		degradedRead("total_rewards", err)
		return 0
	}
	return total
}

// Grant 为通过的材料发放奖励，返回本次实际发放的分钟数
// 已发放过返回 0；写入失败返回错误，由调用方决定是否忽略
func (s *RewardService) Grant(ctx context.Context, material *model.Material) (int, error) {
	existing, err := s.Rewards.FindByMaterial(ctx, material.ID)
	if err != nil {
		degradedRead("find_reward", err, zap.String("materialId", material.ID))
	} else if existing != nil {
		return 0, nil
	}

	minutes := RewardFor(material)
	created, err := s.Rewards.CreateIfAbsent(ctx, &model.Reward{
		MaterialID: material.ID,
		Minutes:    minutes,
		Claimed:    false,
	})
	if err != nil {
		return 0, err
	}
	if !created {
		return 0, nil
	}

	monitoring.RewardsGranted.Inc()
	monitoring.RewardMinutesGranted.Add(float64(minutes))
	logger.Log.Info("reward granted", zap.String("materialId", material.ID), zap.Int("minutes", minutes))
	return minutes, nil
}

// RefreshLedgerGauge 定时任务调用，同步账本总量到监控指标
func (s *RewardService) RefreshLedgerGauge(ctx context.Context) {
	total, err := s.Rewards.SumMinutes(ctx)
	if err != nil {
		logger.Log.Warn("refresh reward ledger gauge failed", zap.Error(err))
		return
	}
	monitoring.RewardLedgerMinutes.Set(float64(total))
}
