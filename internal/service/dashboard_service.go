package service

import (
	"braingain_backend/internal/model"
	"context"
	"time"

	"github.com/jinzhu/copier"
)

const (
	MaterialStatusCompleted = "completed"
	MaterialStatusAvailable = "available"
)

// MaterialView 学员端材料视图，不含正文
type MaterialView struct {
	ID               string             `json:"id"`
	Title            string             `json:"title"`
	Type             model.MaterialType `json:"type"`
	SourceURL        *string            `json:"sourceUrl"`
	StartOffset      int                `json:"startOffset"`
	EndOffset        *int               `json:"endOffset"`
	RewardMinutes    *int               `json:"rewardMinutes"`
	CreatedAt        time.Time          `json:"createdAt"`
	EstimatedMinutes int                `json:"estimatedMinutes"`
	PotentialReward  int                `json:"potentialReward"`
	Status           string             `json:"status"`
}

type MaterialDetail struct {
	MaterialView
	ContentText string         `json:"contentText"`
	Cooldown    CooldownStatus `json:"cooldown"`
}

type Dashboard struct {
	Materials          []MaterialView `json:"materials"`
	TotalRewardMinutes int            `json:"totalRewardMinutes"`
}

type DashboardService struct {
	Materials *MaterialService
	Cooldown  *CooldownService
	Rewards   *RewardService
}

func NewDashboardService(materials *MaterialService, cooldown *CooldownService, rewards *RewardService) *DashboardService {
	return &DashboardService{
		Materials: materials,
		Cooldown:  cooldown,
		Rewards:   rewards,
	}
}

func (s *DashboardService) toView(ctx context.Context, material *model.Material) (MaterialView, error) {
	var view MaterialView
	if err := copier.Copy(&view, material); err != nil {
		return view, err
	}

	view.EstimatedMinutes = EstimateDuration(material.ContentText, material.Type)
	view.PotentialReward = RewardFor(material)
	view.Status = MaterialStatusAvailable
	if s.Cooldown.CheckPassed(ctx, material.ID) {
		view.Status = MaterialStatusCompleted
	}
	return view, nil
}

func (s *DashboardService) GetDashboard(ctx context.Context) (*Dashboard, error) {
	materials, err := s.Materials.List(ctx)
	if err != nil {
		return nil, err
	}

	views := make([]MaterialView, 0, len(materials))
	for i := range materials {
		view, err := s.toView(ctx, &materials[i])
		if err != nil {
			return nil, err
		}
		views = append(views, view)
	}

	return &Dashboard{
		Materials:          views,
		TotalRewardMinutes: s.Rewards.TotalRewards(ctx),
	}, nil
}

// GetMaterialDetail 学习页：材料正文、预计时长与当前冷却状态
func (s *DashboardService) GetMaterialDetail(ctx context.Context, id string) (*MaterialDetail, error) {
	material, err := s.Materials.Get(ctx, id)
	if err != nil {
		return nil, err
	}

	view, err := s.toView(ctx, material)
	if err != nil {
		return nil, err
	}

	return &MaterialDetail{
		MaterialView: view,
		ContentText:  material.ContentText,
		Cooldown:     s.Cooldown.CheckCooldown(ctx, id),
	}, nil
}
