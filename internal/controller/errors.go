package controller

import (
	"braingain_backend/internal/model"
	"braingain_backend/internal/service"
	"braingain_backend/internal/util"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
)

// respondError 将服务层错误映射为 HTTP 状态码
func respondError(ctx *gin.Context, err error) {
	var cooldown *service.CooldownError
	switch {
	case errors.As(err, &cooldown):
		util.ErrorWithData(ctx, http.StatusTooManyRequests, util.ErrCooldownActive.Error(), gin.H{
			"remainingSeconds": cooldown.RemainingSeconds,
			"lastAttempt":      cooldown.LastAttempt,
		})
	case errors.Is(err, util.ErrMaterialNotFound):
		util.NotFound(ctx, err.Error())
	case errors.Is(err, util.ErrGeneratorUnavailable):
		util.Error(ctx, http.StatusServiceUnavailable, util.ErrGeneratorUnavailable.Error())
	case errors.Is(err, util.ErrQuizGenerationFailed):
		util.Error(ctx, http.StatusBadGateway, util.ErrQuizGenerationFailed.Error())
	case errors.Is(err, util.ErrFileTooLarge):
		util.Error(ctx, http.StatusRequestEntityTooLarge, err.Error())
	case errors.Is(err, util.ErrAnswerCountMismatch),
		errors.Is(err, model.ErrInvalidQuiz),
		errors.Is(err, util.ErrInvalidVideoURL),
		errors.Is(err, util.ErrInvalidOffsets),
		errors.Is(err, util.ErrTranscriptRequired),
		errors.Is(err, util.ErrTextTooShort),
		errors.Is(err, util.ErrInvalidPDF),
		errors.Is(err, util.ErrEmptyContent):
		util.BadRequest(ctx, err.Error())
	case errors.Is(err, util.ErrAdminDisabled):
		util.Error(ctx, http.StatusForbidden, err.Error())
	case errors.Is(err, util.ErrInvalidAdminSecret):
		util.Error(ctx, http.StatusUnauthorized, err.Error())
	default:
		util.LogInternalError(ctx, err)
	}
}
