package service

import (
	"braingain_backend/internal/model"
	"math"
	"strings"
)

// 阅读/收听速度（词/分钟）
const (
	VideoWordsPerMinute    = 150
	DocumentWordsPerMinute = 200
)

// EstimateDuration 估算学习时长（分钟），向上取整，最少 1 分钟，空文本为 0
func EstimateDuration(text string, materialType model.MaterialType) int {
	words := len(strings.Fields(text))
	if words == 0 {
		return 0
	}

	wpm := DocumentWordsPerMinute
	if materialType == model.MaterialVideo {
		wpm = VideoWordsPerMinute
	}

	minutes := (words + wpm - 1) / wpm
	if minutes < 1 {
		minutes = 1
	}
	return minutes
}

// CalculateReward 奖励 = 时长 × (2.0 - 0.0125 × 时长)
// 9-11 分钟区间向下取整（10 分钟必须得到 18），其余四舍五入，最少 1 分钟
func CalculateReward(durationMinutes int) int {
	d := float64(durationMinutes)
	coefficient := 2.0 - 0.0125*d
	if coefficient < 0 {
		coefficient = 0
	}

	reward := d * coefficient
	if durationMinutes >= 9 && durationMinutes <= 11 {
		reward = math.Floor(reward)
	} else {
		reward = math.Round(reward)
	}

	if reward < 1 {
		return 1
	}
	return int(reward)
}

// RewardFor 优先使用材料的固定奖励，否则按内容估算
func RewardFor(material *model.Material) int {
	if fixed, ok := material.FixedReward(); ok {
		return fixed
	}
	return CalculateReward(EstimateDuration(material.ContentText, material.Type))
}
