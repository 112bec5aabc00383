package service

import (
	"braingain_backend/internal/util"
	"braingain_backend/pkg/logger"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"go.uber.org/zap"
)

const (
	MinManualTextChars = 100
	MaxMaterialChars   = 500000
)

var (
	videoIDPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?:youtube\.com/watch\?v=|youtu\.be/|youtube\.com/embed/)([^&\n?#]+)`),
		regexp.MustCompile(`youtube\.com/watch\?.*v=([^&\n?#]+)`),
	}
	controlChars = regexp.MustCompile(`[\x00-\x08\x0B\x0C\x0E-\x1F\x7F]`)
)

// ExtractVideoID 从 YouTube 链接中提取视频 ID，无法识别时返回空串
func ExtractVideoID(url string) string {
	for _, pattern := range videoIDPatterns {
		if m := pattern.FindStringSubmatch(url); len(m) > 1 && m[1] != "" {
			return m[1]
		}
	}
	return ""
}

// NormalizeText 合并连续空白，去除控制字符，超长截断
func NormalizeText(text string) string {
	cleaned := strings.Join(strings.Fields(text), " ")
	cleaned = controlChars.ReplaceAllString(cleaned, "")

	if n := utf8.RuneCountInString(cleaned); n > MaxMaterialChars {
		logger.Log.Warn("material text truncated", zap.Int("chars", n), zap.Int("max", MaxMaterialChars))
		cleaned = string([]rune(cleaned)[:MaxMaterialChars])
	}
	return cleaned
}

// ProcessManualText 校验管理员粘贴的文本（至少 100 字符）并归一化
func ProcessManualText(text string) (string, error) {
	trimmed := strings.TrimSpace(text)
	if n := utf8.RuneCountInString(trimmed); n < MinManualTextChars {
		return "", fmt.Errorf("%w: got %d", util.ErrTextTooShort, n)
	}
	return NormalizeText(trimmed), nil
}
