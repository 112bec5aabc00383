package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
)

const DefaultVideoTitle = "YouTube Video"

type oembedResponse struct {
	Title      string `json:"title"`
	AuthorName string `json:"author_name"`
}

// VideoMetadataService 通过 oEmbed 接口获取视频标题，无需 API Key
type VideoMetadataService struct {
	client   *resty.Client
	endpoint string
}

func NewVideoMetadataService(endpoint string, timeout time.Duration) *VideoMetadataService {
	return &VideoMetadataService{
		client:   resty.New().SetTimeout(timeout).SetHeader("Accept", "application/json"),
		endpoint: endpoint,
	}
}

func (s *VideoMetadataService) FetchTitle(ctx context.Context, videoURL string) (string, error) {
	resp, err := s.client.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"url":    videoURL,
			"format": "json",
		}).
		Get(s.endpoint)
	if err != nil {
		return "", fmt.Errorf("oembed request failed: %w", err)
	}
	if resp.IsError() {
		return "", fmt.Errorf("oembed returned status %d", resp.StatusCode())
	}

	var data oembedResponse
	if err := json.Unmarshal(resp.Body(), &data); err != nil {
		return "", fmt.Errorf("decode oembed response: %w", err)
	}

	title := strings.TrimSpace(data.Title)
	if title == "" {
		return "", errors.New("oembed response has no title")
	}
	return title, nil
}
