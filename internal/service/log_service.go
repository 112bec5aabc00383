package service

import (
	"bufio"
	"os"
)

const (
	DefaultLogLines = 100
	MaxLogLines     = 1000
)

// LogService 管理后台查看与清空应用日志文件
type LogService struct {
	path     func() string
	truncate func() error
}

func NewLogService(path func() string, truncate func() error) *LogService {
	return &LogService{path: path, truncate: truncate}
}

// ClampLines 非正数取默认值，超过上限按上限
func ClampLines(lines int) int {
	if lines <= 0 {
		return DefaultLogLines
	}
	if lines > MaxLogLines {
		return MaxLogLines
	}
	return lines
}

// Tail 返回最后 n 行，文件不存在时返回空
func (s *LogService) Tail(n int) ([]string, error) {
	n = ClampLines(n)

	f, err := os.Open(s.path())
	if os.IsNotExist(err) {
		return []string{}, nil
	}
	if err != nil {
		return nil, err
	}
	defer f.Close()

	ring := make([]string, 0, n)
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(ring) == n {
			ring = append(ring[1:], scanner.Text())
			continue
		}
		ring = append(ring, scanner.Text())
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return ring, nil
}

func (s *LogService) Clear() error {
	return s.truncate()
}
