package service

import (
	"braingain_backend/internal/model"
	"braingain_backend/internal/util"
	"braingain_backend/pkg/logger"
	"braingain_backend/pkg/monitoring"
	"braingain_backend/pkg/tracing"
	"context"
	"errors"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type MaterialStore interface {
	Create(ctx context.Context, material *model.Material) error
	FindByID(ctx context.Context, id string) (*model.Material, error)
	List(ctx context.Context) ([]model.Material, error)
	Delete(ctx context.Context, id string) (bool, error)
}

// QuizGenerator 根据材料文本生成 10 道四选一题目
type QuizGenerator interface {
	GenerateQuiz(ctx context.Context, sourceText string) (*model.Quiz, error)
}

// CooldownError 冷却期内开始测验，errors.Is 可匹配 util.ErrCooldownActive
type CooldownError struct {
	RemainingSeconds int
	LastAttempt      *time.Time
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("%s (%d seconds remaining)", util.ErrCooldownActive.Error(), e.RemainingSeconds)
}

func (e *CooldownError) Unwrap() error {
	return util.ErrCooldownActive
}

// GenerationError 题目生成失败，errors.Is 可匹配 util.ErrQuizGenerationFailed，
// 同时保留底层原因（如 util.ErrGeneratorUnavailable）
type GenerationError struct {
	Err error
}

func (e *GenerationError) Error() string {
	return util.ErrQuizGenerationFailed.Error() + ": " + e.Err.Error()
}

func (e *GenerationError) Is(target error) bool {
	return target == util.ErrQuizGenerationFailed
}

func (e *GenerationError) Unwrap() error {
	return e.Err
}

type StartQuizResult struct {
	MaterialID               string      `json:"materialId"`
	Quiz                     *model.Quiz `json:"quiz"`
	QuestionTimeLimitSeconds int         `json:"questionTimeLimitSeconds"`
	PassingScore             int         `json:"passingScore"`
}

type QuizResult struct {
	Score         int  `json:"score"`
	Total         int  `json:"total"`
	Passed        bool `json:"passed"`
	RewardMinutes int  `json:"rewardMinutes"`
}

// QuizService 测验会话：开始时检查冷却并生成题目，提交时评分、记录并发放奖励
type QuizService struct {
	Materials         MaterialStore
	Attempts          AttemptStore
	Cooldown          *CooldownService
	Rewards           *RewardService
	Generator         QuizGenerator
	GenerationTimeout time.Duration
}

func NewQuizService(
	materials MaterialStore,
	attempts AttemptStore,
	cooldown *CooldownService,
	rewards *RewardService,
	generator QuizGenerator,
	generationTimeout time.Duration,
) *QuizService {
	return &QuizService{
		Materials:         materials,
		Attempts:          attempts,
		Cooldown:          cooldown,
		Rewards:           rewards,
		Generator:         generator,
		GenerationTimeout: generationTimeout,
	}
}

func (s *QuizService) findMaterial(ctx context.Context, materialID string) (*model.Material, error) {
	material, err := s.Materials.FindByID(ctx, materialID)
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, util.ErrMaterialNotFound
	}
	if err != nil {
		return nil, err
	}
	return material, nil
}

// StartQuiz 顺序：冷却检查 -> 查找材料 -> 生成并校验题目，任一步失败都不产生答题记录
func (s *QuizService) StartQuiz(ctx context.Context, materialID string) (result *StartQuizResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "quiz.start", attribute.String("material.id", materialID))
	defer func() { tracing.EndSpan(span, err) }()

	status := s.Cooldown.CheckCooldown(ctx, materialID)
	if !status.Allowed {
		monitoring.CooldownBlocks.Inc()
		return nil, &CooldownError{RemainingSeconds: status.RemainingSeconds, LastAttempt: status.LastAttempt}
	}

	material, err := s.findMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if s.Generator == nil {
		monitoring.QuizGenerationFailures.WithLabelValues("unavailable").Inc()
		return nil, &GenerationError{Err: util.ErrGeneratorUnavailable}
	}

	genCtx := ctx
	if s.GenerationTimeout > 0 {
		var cancel context.CancelFunc
		genCtx, cancel = context.WithTimeout(ctx, s.GenerationTimeout)
		defer cancel()
	}

	quiz, err := s.Generator.GenerateQuiz(genCtx, material.ContentText)
	if err == nil {
		err = quiz.Validate()
	}
	if err != nil {
		monitoring.QuizGenerationFailures.WithLabelValues(generationFailureReason(err)).Inc()
		logger.Log.Warn("quiz generation failed", zap.String("materialId", materialID), zap.Error(err))
		return nil, &GenerationError{Err: err}
	}

	return &StartQuizResult{
		MaterialID:               material.ID,
		Quiz:                     quiz,
		QuestionTimeLimitSeconds: model.QuestionTimeLimitSeconds,
		PassingScore:             model.PassingScore,
	}, nil
}

// SubmitQuiz 顺序：查找材料 -> 校验答案数量 -> 评分 -> 写入答题记录 -> 通过则发放奖励
// 答题记录写入失败直接返回；奖励写入失败只记录日志，本次奖励为 0
func (s *QuizService) SubmitQuiz(ctx context.Context, materialID string, answers []int, quiz *model.Quiz) (result *QuizResult, err error) {
	ctx, span := tracing.StartSpan(ctx, "quiz.submit", attribute.String("material.id", materialID))
	defer func() { tracing.EndSpan(span, err) }()

	material, err := s.findMaterial(ctx, materialID)
	if err != nil {
		return nil, err
	}

	if quiz == nil || len(answers) != len(quiz.Questions) {
		return nil, util.ErrAnswerCountMismatch
	}
	if err := quiz.Validate(); err != nil {
		return nil, err
	}

	score := quiz.Score(answers)
	passed := score >= model.PassingScore

	if err := s.Attempts.Create(ctx, &model.Attempt{
		MaterialID: material.ID,
		Score:      score,
		Passed:     passed,
	}); err != nil {
		return nil, fmt.Errorf("record attempt: %w", err)
	}

	if passed {
		monitoring.QuizAttempts.WithLabelValues("passed").Inc()
	} else {
		monitoring.QuizAttempts.WithLabelValues("failed").Inc()
	}
	span.SetAttributes(attribute.Int("quiz.score", score), attribute.Bool("quiz.passed", passed))

	result = &QuizResult{
		Score:  score,
		Total:  len(quiz.Questions),
		Passed: passed,
	}

	if passed {
		minutes, grantErr := s.Rewards.Grant(ctx, material)
		if grantErr != nil {
			logger.Log.Error("grant reward failed", zap.String("materialId", material.ID), zap.Error(grantErr))
		} else {
			result.RewardMinutes = minutes
		}
	}

	return result, nil
}

func generationFailureReason(err error) string {
	var rateLimit *RateLimitError
	var unavailable *ProviderUnavailableError
	switch {
	case errors.Is(err, util.ErrGeneratorUnavailable):
		return "unavailable"
	case errors.Is(err, util.ErrSourceTextTooLong):
		return "too_long"
	case errors.Is(err, util.ErrEmptyContent):
		return "empty_content"
	case errors.Is(err, context.DeadlineExceeded):
		return "timeout"
	case errors.As(err, &rateLimit):
		return "rate_limit"
	case errors.As(err, &unavailable):
		return "provider"
	default:
		return "invalid_output"
	}
}
