package controller

import (
	"braingain_backend/internal/service"
	"braingain_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type DashboardController struct {
	DashboardService *service.DashboardService
	RewardService    *service.RewardService
}

func NewDashboardController(dashboardService *service.DashboardService, rewardService *service.RewardService) *DashboardController {
	return &DashboardController{
		DashboardService: dashboardService,
		RewardService:    rewardService,
	}
}

// @Summary 获取仪表盘数据
// @Description 材料列表（含完成状态、预计时长、可得奖励）与累计奖励分钟数
// @Tags 仪表盘
// @Produce json
// @Success 200 {object} util.Response{data=service.Dashboard}
// @Router /api/dashboard [get]
func (c *DashboardController) GetDashboard(ctx *gin.Context) {
	dashboard, err := c.DashboardService.GetDashboard(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, dashboard)
}

// @Summary 获取材料详情
// @Description 学习页使用，包含正文与当前冷却状态
// @Tags 仪表盘
// @Produce json
// @Param id path string true "材料ID"
// @Success 200 {object} util.Response{data=service.MaterialDetail}
// @Failure 404 {object} util.Response
// @Router /api/materials/{id} [get]
func (c *DashboardController) GetMaterial(ctx *gin.Context) {
	detail, err := c.DashboardService.GetMaterialDetail(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, detail)
}

// @Summary 累计奖励
// @Tags 仪表盘
// @Produce json
// @Success 200 {object} util.Response
// @Router /api/rewards/total [get]
func (c *DashboardController) GetTotalRewards(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"totalMinutes": c.RewardService.TotalRewards(ctx.Request.Context()),
	})
}
