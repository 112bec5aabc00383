package service

import (
	"braingain_backend/pkg/logger"
	"braingain_backend/pkg/monitoring"

	"go.uber.org/zap"
)

// 读路径的降级处理：存储失败时记录日志与指标，由调用方返回安全默认值
//
//	check_cooldown -> 允许作答
//	check_passed   -> 视为未通过
//	total_rewards  -> 0
//	find_reward    -> 视为不存在，交给唯一索引兜底
//
// 写入答题记录的失败不会降级，直接返回给调用方
func degradedRead(operation string, err error, fields ...zap.Field) {
	monitoring.DegradedReads.WithLabelValues(operation).Inc()
	logger.Log.Warn("storage read failed, using fallback",
		append([]zap.Field{zap.String("operation", operation), zap.Error(err)}, fields...)...)
}
