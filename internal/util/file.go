package util

import (
	"errors"
	"io"
	"net/http"
	"regexp"
	"strings"
)

// ValidateMimeType 深度校验文件 MIME 类型
// allowedTypes: 允许的 MIME 前缀或完整类型，如 "application/pdf"
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := reader.Read(buffer)
	if err != nil && err != io.EOF {
		return "", err
	}

	// 检测 MIME 类型
	mimeType := http.DetectContentType(buffer[:n])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(mimeType, allowed) || mimeType == allowed {
			return mimeType, nil
		}
	}

	return mimeType, errors.New("invalid file type: " + mimeType)
}

var unsafeNameChars = regexp.MustCompile(`[^a-zA-Z0-9]`)

// SanitizeFileName 非字母数字字符替换为下划线，用于对象存储 key
func SanitizeFileName(name string) string {
	return unsafeNameChars.ReplaceAllString(name, "_")
}
