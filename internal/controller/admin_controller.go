package controller

import (
	"braingain_backend/internal/middleware"
	"braingain_backend/internal/service"
	"braingain_backend/internal/util"
	"braingain_backend/pkg/logger"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

type AdminController struct {
	Auth            *middleware.AdminAuth
	MaterialService *service.MaterialService
	LogService      *service.LogService
}

func NewAdminController(auth *middleware.AdminAuth, materialService *service.MaterialService, logService *service.LogService) *AdminController {
	return &AdminController{
		Auth:            auth,
		MaterialService: materialService,
		LogService:      logService,
	}
}

type AdminLoginRequest struct {
	Secret string `json:"secret" binding:"required"`
}

// @Summary 管理员登录
// @Description 使用共享密钥换取 JWT，后续请求可使用 Bearer 令牌
// @Tags 管理后台
// @Accept json
// @Produce json
// @Param request body AdminLoginRequest true "共享密钥"
// @Success 200 {object} util.Response
// @Failure 401 {object} util.Response
// @Failure 403 {object} util.Response "未配置管理员密钥"
// @Router /api/admin/login [post]
func (c *AdminController) Login(ctx *gin.Context) {
	var req AdminLoginRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	token, expiresAt, err := c.Auth.IssueToken(req.Secret)
	if err != nil {
		respondError(ctx, err)
		return
	}

	util.Success(ctx, gin.H{
		"token":     token,
		"expiresAt": expiresAt,
	})
}

// @Summary 材料列表
// @Tags 管理后台
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} util.Response{data=[]model.Material}
// @Router /api/admin/materials [get]
func (c *AdminController) ListMaterials(ctx *gin.Context) {
	materials, err := c.MaterialService.List(ctx.Request.Context())
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Success(ctx, materials)
}

// @Summary 添加视频材料
// @Description YouTube 链接 + 手动粘贴的字幕文本（至少 100 字符），起止时间单位为分钟
// @Tags 管理后台
// @Accept json
// @Produce json
// @Security ApiKeyAuth
// @Param request body service.AddVideoInput true "视频材料"
// @Success 201 {object} util.Response{data=model.Material}
// @Failure 400 {object} util.Response
// @Router /api/admin/materials/video [post]
func (c *AdminController) AddVideo(ctx *gin.Context) {
	var req service.AddVideoInput
	if err := ctx.ShouldBindJSON(&req); err != nil {
		util.BadRequest(ctx, err.Error())
		return
	}

	material, err := c.MaterialService.AddVideo(ctx.Request.Context(), req)
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, material)
}

// @Summary 上传 PDF 材料
// @Description PDF 不超过 10MB，未提供 text 时自动提取文本
// @Tags 管理后台
// @Accept multipart/form-data
// @Produce json
// @Security ApiKeyAuth
// @Param file formData file true "PDF 文件"
// @Param title formData string false "标题，默认取文件名"
// @Param text formData string false "手动提供的正文"
// @Param rewardMinutes formData int false "固定奖励分钟数"
// @Success 201 {object} util.Response{data=model.Material}
// @Failure 400 {object} util.Response
// @Failure 413 {object} util.Response
// @Router /api/admin/materials/document [post]
func (c *AdminController) AddDocument(ctx *gin.Context) {
	fileHeader, err := ctx.FormFile("file")
	if err != nil {
		util.BadRequest(ctx, "file is required")
		return
	}

	var rewardMinutes *int
	if raw := ctx.PostForm("rewardMinutes"); raw != "" {
		value, err := strconv.Atoi(raw)
		if err != nil {
			util.BadRequest(ctx, "rewardMinutes must be an integer")
			return
		}
		rewardMinutes = &value
	}

	file, err := fileHeader.Open()
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	defer file.Close()

	material, err := c.MaterialService.AddDocument(ctx.Request.Context(), service.AddDocumentInput{
		Title:         ctx.PostForm("title"),
		FileName:      fileHeader.Filename,
		ContentType:   fileHeader.Header.Get("Content-Type"),
		Size:          fileHeader.Size,
		File:          file,
		Text:          ctx.PostForm("text"),
		RewardMinutes: rewardMinutes,
	})
	if err != nil {
		respondError(ctx, err)
		return
	}
	util.Created(ctx, material)
}

// @Summary 删除材料
// @Tags 管理后台
// @Produce json
// @Security ApiKeyAuth
// @Param id path string true "材料ID"
// @Success 200 {object} util.Response
// @Failure 404 {object} util.Response
// @Router /api/admin/materials/{id} [delete]
func (c *AdminController) DeleteMaterial(ctx *gin.Context) {
	if err := c.MaterialService.Delete(ctx.Request.Context(), ctx.Param("id")); err != nil {
		respondError(ctx, err)
		return
	}
	logger.Log.Info("admin action", zap.String("action", "delete_material"), zap.String("id", ctx.Param("id")), zap.String("by", adminActor(ctx)))
	util.Success(ctx, gin.H{"deleted": true})
}

// @Summary 查看应用日志
// @Description 返回日志文件最后 N 行（默认 100，最多 1000），clear=true 时清空日志
// @Tags 管理后台
// @Produce json
// @Security ApiKeyAuth
// @Param lines query int false "行数"
// @Param clear query bool false "清空日志"
// @Success 200 {object} util.Response
// @Router /api/admin/logs [get]
func (c *AdminController) GetLogs(ctx *gin.Context) {
	if ctx.Query("clear") == "true" {
		if err := c.LogService.Clear(); err != nil {
			util.LogInternalError(ctx, err)
			return
		}
		logger.Log.Info("admin action", zap.String("action", "clear_logs"), zap.String("by", adminActor(ctx)))
		util.Success(ctx, gin.H{"cleared": true})
		return
	}

	lines, err := strconv.Atoi(ctx.DefaultQuery("lines", strconv.Itoa(service.DefaultLogLines)))
	if err != nil {
		util.Error(ctx, http.StatusBadRequest, "lines must be an integer")
		return
	}

	logs, err := c.LogService.Tail(lines)
	if err != nil {
		util.LogInternalError(ctx, err)
		return
	}
	util.Success(ctx, gin.H{
		"lines": logs,
		"count": len(logs),
	})
}

// adminActor 审计日志中的操作来源
func adminActor(ctx *gin.Context) string {
	if claims := util.GetClaimsFromContext(ctx); claims != nil {
		return "token:" + claims.Subject
	}
	return "secret"
}
