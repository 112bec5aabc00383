package controller

import (
	"braingain_backend/internal/model"
	"braingain_backend/internal/service"
	"braingain_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type QuizController struct {
	QuizService     *service.QuizService
	CooldownService *service.CooldownService
}

func NewQuizController(quizService *service.QuizService, cooldownService *service.CooldownService) *QuizController {
	return &QuizController{
		QuizService:     quizService,
		CooldownService: cooldownService,
	}
}

type SubmitQuizRequest struct {
	Answers []int       `json:"answers" binding:"required"`
	Quiz    *model.Quiz `json:"quiz" binding:"required"`
}

// @Summary 开始测验
// @Description 检查冷却后为材料生成 10 道题目，题目不落库
// @Tags 测验
// @Produce json
// @Param id path string true "材料ID"
// @Success 200 {object} util.Response{data=service.StartQuizResult}
// @Failure 404 {object} util.Response "材料不存在"
// @Failure 429 {object} util.Response "冷却中，data.remainingSeconds 为剩余秒数"
// @Failure 502 {object} util.Response "题目生成失败"
// @Router /api/materials/{id}/quiz [post]
func (c *QuizController) StartQuiz(ctx *gin.Context) {
	result, err := c.QuizService.StartQuiz(ctx.Request.Context(), ctx.Param("id"))
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 提交测验
// @Description 按位置比对答案（-1 表示未作答），9 分及以上通过并发放奖励
// @Tags 测验
// @Accept json
// @Produce json
// @Param id path string true "材料ID"
// @Param request body SubmitQuizRequest true "答案与作答的题目"
// @Success 200 {object} util.Response{data=service.QuizResult}
// @Failure 400 {object} util.Response "答案数量不匹配，或提交的题目不是合法测验（10 题、每题 4 个选项）"
// @Failure 404 {object} util.Response "材料不存在"
// @Router /api/materials/{id}/quiz/submit [post]
func (c *QuizController) SubmitQuiz(ctx *gin.Context) {
	var req SubmitQuizRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	result, err := c.QuizService.SubmitQuiz(ctx.Request.Context(), ctx.Param("id"), req.Answers, req.Quiz)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, result)
}

// @Summary 查询冷却状态
// @Tags 测验
// @Produce json
// @Param id path string true "材料ID"
// @Success 200 {object} util.Response{data=service.CooldownStatus}
// @Router /api/materials/{id}/cooldown [get]
func (c *QuizController) GetCooldown(ctx *gin.Context) {
	util.Success(ctx, c.CooldownService.CheckCooldown(ctx.Request.Context(), ctx.Param("id")))
}

// @Summary 查询材料是否已通过
// @Tags 测验
// @Produce json
// @Param id path string true "材料ID"
// @Success 200 {object} util.Response
// @Router /api/materials/{id}/status [get]
func (c *QuizController) GetStatus(ctx *gin.Context) {
	util.Success(ctx, gin.H{
		"passed": c.CooldownService.CheckPassed(ctx.Request.Context(), ctx.Param("id")),
	})
}
