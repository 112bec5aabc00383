package service

import (
	"braingain_backend/internal/model"
	"braingain_backend/internal/util"
	"braingain_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// 列表缓存按版本号分键，写操作递增版本，旧版本的回填不会再被读到
const (
	materialsCacheKey        = "materials:list"
	materialsCacheVersionKey = "materials:list:version"
)

// ObjectStorage PDF 原文件存储
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) (string, error)
	Delete(ctx context.Context, key string) error
}

type TitleFetcher interface {
	FetchTitle(ctx context.Context, videoURL string) (string, error)
}

type TextExtractor interface {
	ExtractText(r io.ReaderAt, size int64) (string, error)
}

// UploadFile multipart.File 满足该接口
type UploadFile interface {
	io.Reader
	io.ReaderAt
	io.Seeker
}

type AddVideoInput struct {
	URL           string `json:"url" binding:"required"`
	StartMinutes  int    `json:"startMinutes" binding:"min=0"`
	EndMinutes    *int   `json:"endMinutes"`
	Transcript    string `json:"transcript"`
	RewardMinutes *int   `json:"rewardMinutes"`
}

type AddDocumentInput struct {
	Title         string
	FileName      string
	ContentType   string
	Size          int64
	File          UploadFile
	Text          string
	RewardMinutes *int
}

type MaterialService struct {
	Materials MaterialStore
	Storage   ObjectStorage
	Titles    TitleFetcher
	Extractor TextExtractor
	Redis     *redis.Client
	CacheTTL  time.Duration
	now       func() time.Time
}

func NewMaterialService(
	materials MaterialStore,
	storage ObjectStorage,
	titles TitleFetcher,
	extractor TextExtractor,
	rdb *redis.Client,
	cacheTTL time.Duration,
) *MaterialService {
	return &MaterialService{
		Materials: materials,
		Storage:   storage,
		Titles:    titles,
		Extractor: extractor,
		Redis:     rdb,
		CacheTTL:  cacheTTL,
		now:       time.Now,
	}
}

func positiveReward(reward *int) *int {
	if reward == nil || *reward <= 0 {
		return nil
	}
	return reward
}

func (s *MaterialService) AddVideo(ctx context.Context, input AddVideoInput) (*model.Material, error) {
	if ExtractVideoID(input.URL) == "" {
		return nil, util.ErrInvalidVideoURL
	}
	if input.StartMinutes < 0 || (input.EndMinutes != nil && *input.EndMinutes <= input.StartMinutes) {
		return nil, util.ErrInvalidOffsets
	}
	if strings.TrimSpace(input.Transcript) == "" {
		return nil, util.ErrTranscriptRequired
	}

	content, err := ProcessManualText(input.Transcript)
	if err != nil {
		return nil, err
	}

	title := DefaultVideoTitle
	if s.Titles != nil {
		if fetched, err := s.Titles.FetchTitle(ctx, input.URL); err != nil {
			logger.Log.Debug("fetch video title failed", zap.String("url", input.URL), zap.Error(err))
		} else {
			title = fetched
		}
	}

	url := input.URL
	material := &model.Material{
		Title:         title,
		Type:          model.MaterialVideo,
		ContentText:   content,
		SourceURL:     &url,
		StartOffset:   input.StartMinutes * 60,
		RewardMinutes: positiveReward(input.RewardMinutes),
	}
	if input.EndMinutes != nil {
		end := *input.EndMinutes * 60
		material.EndOffset = &end
	}

	if err := s.Materials.Create(ctx, material); err != nil {
		return nil, fmt.Errorf("save video material: %w", err)
	}

	s.invalidateCache(ctx)
	logger.Log.Info("video material added", zap.String("id", material.ID), zap.String("title", title))
	return material, nil
}

func (s *MaterialService) AddDocument(ctx context.Context, input AddDocumentInput) (*model.Material, error) {
	if input.Size > util.MaxPDFSize {
		return nil, util.ErrFileTooLarge
	}
	if input.Size == 0 || input.File == nil {
		return nil, util.ErrInvalidPDF
	}
	// 部分客户端以 octet-stream 上传，最终以文件头嗅探为准
	if input.ContentType != "" && !strings.HasPrefix(input.ContentType, util.MimePDF) && !strings.HasPrefix(input.ContentType, util.MimeOctetStream) {
		return nil, util.ErrInvalidPDF
	}
	if _, err := util.ValidateMimeType(input.File, []string{util.MimePDF}); err != nil {
		return nil, util.ErrInvalidPDF
	}

	var content string
	if strings.TrimSpace(input.Text) != "" {
		processed, err := ProcessManualText(input.Text)
		if err != nil {
			return nil, err
		}
		content = processed
	} else {
		extracted, err := s.Extractor.ExtractText(input.File, input.Size)
		if err != nil {
			logger.Log.Warn("pdf text extraction failed", zap.String("file", input.FileName), zap.Error(err))
			return nil, util.ErrInvalidPDF
		}
		content = NormalizeText(extracted)
	}
	if content == "" {
		return nil, util.ErrEmptyContent
	}

	title := strings.TrimSpace(input.Title)
	if title == "" {
		title = strings.TrimSuffix(input.FileName, ".pdf")
	}

	if _, err := input.File.Seek(0, io.SeekStart); err != nil {
		return nil, err
	}
	key := fmt.Sprintf("%s%d-%s.pdf", util.PDFStoragePrefix, s.now().UnixMilli(), util.SanitizeFileName(title))
	url, err := s.Storage.Upload(ctx, key, input.File, input.Size, util.MimePDF)
	if err != nil {
		return nil, fmt.Errorf("upload pdf: %w", err)
	}

	material := &model.Material{
		Title:         title,
		Type:          model.MaterialDocument,
		ContentText:   content,
		SourceURL:     &url,
		StorageKey:    key,
		RewardMinutes: positiveReward(input.RewardMinutes),
	}
	if err := s.Materials.Create(ctx, material); err != nil {
		if delErr := s.Storage.Delete(ctx, key); delErr != nil {
			logger.Log.Error("remove orphaned pdf failed", zap.String("key", key), zap.Error(delErr))
		}
		return nil, fmt.Errorf("save document material: %w", err)
	}

	s.invalidateCache(ctx)
	logger.Log.Info("document material added", zap.String("id", material.ID), zap.String("title", title))
	return material, nil
}

// Delete 物理删除材料及其 PDF 文件，文件删除失败只记录日志
func (s *MaterialService) Delete(ctx context.Context, id string) error {
	material, err := s.Materials.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return util.ErrMaterialNotFound
	}
	if err != nil {
		return err
	}

	deleted, err := s.Materials.Delete(ctx, id)
	if err != nil {
		return err
	}
	if !deleted {
		return util.ErrMaterialNotFound
	}

	if material.StorageKey != "" && s.Storage != nil {
		if err := s.Storage.Delete(ctx, material.StorageKey); err != nil {
			logger.Log.Warn("remove pdf object failed", zap.String("key", material.StorageKey), zap.Error(err))
		}
	}

	s.invalidateCache(ctx)
	logger.Log.Info("material deleted", zap.String("id", id))
	return nil
}

func (s *MaterialService) Get(ctx context.Context, id string) (*model.Material, error) {
	material, err := s.Materials.FindByID(ctx, id)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrMaterialNotFound
	}
	return material, err
}

// List 按创建时间倒序，优先读 Redis 缓存，缓存异常时直接查库
func (s *MaterialService) List(ctx context.Context) ([]model.Material, error) {
	var cacheKey string
	if s.Redis != nil {
		key, err := s.listCacheKey(ctx)
		if err != nil {
			logger.Log.Warn("read materials cache version failed", zap.Error(err))
		} else {
			cacheKey = key
		}
	}

	if cacheKey != "" {
		cached, err := s.Redis.Get(ctx, cacheKey).Bytes()
		switch {
		case err == nil:
			var materials []model.Material
			if jsonErr := json.Unmarshal(cached, &materials); jsonErr == nil {
				return materials, nil
			}
		case !errors.Is(err, redis.Nil):
			logger.Log.Warn("read materials cache failed", zap.Error(err))
		}
	}

	materials, err := s.Materials.List(ctx)
	if err != nil {
		return nil, err
	}

	if cacheKey != "" {
		if data, err := json.Marshal(materials); err == nil {
			if err := s.Redis.Set(ctx, cacheKey, data, s.CacheTTL).Err(); err != nil {
				logger.Log.Warn("write materials cache failed", zap.Error(err))
			}
		}
	}
	return materials, nil
}

// listCacheKey 读取前确定版本，查库期间发生的写操作会让本次回填落到旧键上
func (s *MaterialService) listCacheKey(ctx context.Context) (string, error) {
	version, err := s.Redis.Get(ctx, materialsCacheVersionKey).Int64()
	if errors.Is(err, redis.Nil) {
		version, err = 0, nil
	}
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:v%d", materialsCacheKey, version), nil
}

func (s *MaterialService) invalidateCache(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Incr(ctx, materialsCacheVersionKey).Err(); err != nil {
		logger.Log.Warn("invalidate materials cache failed", zap.Error(err))
	}
}
