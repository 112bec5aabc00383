package service

import (
	"braingain_backend/internal/model"
	"braingain_backend/internal/testutil"
	"braingain_backend/internal/util"
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubGenerator struct {
	quiz  *model.Quiz
	err   error
	calls int
	text  string
}

func (g *stubGenerator) GenerateQuiz(ctx context.Context, sourceText string) (*model.Quiz, error) {
	g.calls++
	g.text = sourceText
	return g.quiz, g.err
}

func newQuizService(f *fixture, generator QuizGenerator) *QuizService {
	return NewQuizService(f.materials, f.attempts, f.cooldown, f.ledger, generator, time.Second)
}

func countAttempts(t *testing.T, f *fixture) int64 {
	t.Helper()
	var count int64
	require.NoError(t, f.db.Model(&model.Attempt{}).Count(&count).Error)
	return count
}

func TestStartQuizReturnsGeneratedQuiz(t *testing.T) {
	f := newFixture(t)
	material := f.addMaterial(t, model.MaterialVideo, 300, nil)
	generator := &stubGenerator{quiz: sampleQuiz()}

	result, err := newQuizService(f, generator).StartQuiz(context.Background(), material.ID)
	require.NoError(t, err)
	assert.Len(t, result.Quiz.Questions, model.QuestionsPerQuiz)
	assert.Equal(t, model.QuestionTimeLimitSeconds, result.QuestionTimeLimitSeconds)
	assert.Equal(t, material.ContentText, generator.text)
}

func TestStartQuizBlockedByCooldown(t *testing.T) {
	f := newFixture(t)
	material := f.addMaterial(t, model.MaterialVideo, 300, nil)
	f.addAttempt(t, material.ID, 4, f.now.Add(-4*time.Minute))
	generator := &stubGenerator{quiz: sampleQuiz()}

	_, err := newQuizService(f, generator).StartQuiz(context.Background(), material.ID)
	require.Error(t, err)
	assert.True(t, errors.Is(err, util.ErrCooldownActive))

	var cooldownErr *CooldownError
	require.True(t, errors.As(err, &cooldownErr))
	assert.Equal(t, 360, cooldownErr.RemainingSeconds)
	assert.Zero(t, generator.calls)
}

func TestStartQuizChecksCooldownBeforeMaterial(t *testing.T) {
	f := newFixture(t)
	f.addAttempt(t, "missing", 1, f.now)

	_, err := newQuizService(f, &stubGenerator{}).StartQuiz(context.Background(), "missing")
	assert.True(t, errors.Is(err, util.ErrCooldownActive))
}

func TestStartQuizMaterialNotFound(t *testing.T) {
	f := newFixture(t)
	generator := &stubGenerator{quiz: sampleQuiz()}

	_, err := newQuizService(f, generator).StartQuiz(context.Background(), "missing")
	assert.True(t, errors.Is(err, util.ErrMaterialNotFound))
	assert.Zero(t, generator.calls)
}

func TestStartQuizRejectsInvalidGeneratedQuiz(t *testing.T) {
	f := newFixture(t)
	material := f.addMaterial(t, model.MaterialVideo, 300, nil)

	short := sampleQuiz()
	short.Questions = short.Questions[:9]

	_, err := newQuizService(f, &stubGenerator{quiz: short}).StartQuiz(context.Background(), material.ID)
	assert.True(t, errors.Is(err, util.ErrQuizGenerationFailed))
	assert.True(t, errors.Is(err, model.ErrInvalidQuiz))

	_, err = newQuizService(f, &stubGenerator{err: errors.New("boom")}).StartQuiz(context.Background(), material.ID)
	assert.True(t, errors.Is(err, util.ErrQuizGenerationFailed))

	assert.Zero(t, countAttempts(t, f))
}

func TestStartQuizWithoutGenerator(t *testing.T) {
	f := newFixture(t)
	material := f.addMaterial(t, model.MaterialVideo, 300, nil)

	_, err := newQuizService(f, nil).StartQuiz(context.Background(), material.ID)
	assert.True(t, errors.Is(err, util.ErrQuizGenerationFailed))
	assert.True(t, errors.Is(err, util.ErrGeneratorUnavailable))
}

func TestSubmitQuizPassingGrantsRewardOnce(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.addMaterial(t, model.MaterialVideo, 2000, nil)
	svc := newQuizService(f, nil)
	quiz := sampleQuiz()

	result, err := svc.SubmitQuiz(ctx, material.ID, answersWithScore(quiz, 9), quiz)
	require.NoError(t, err)
	assert.Equal(t, 9, result.Score)
	assert.Equal(t, 10, result.Total)
	assert.True(t, result.Passed)
	assert.Equal(t, 26, result.RewardMinutes)

	result, err = svc.SubmitQuiz(ctx, material.ID, answersWithScore(quiz, 10), quiz)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Zero(t, result.RewardMinutes)

	assert.Equal(t, 26, f.ledger.TotalRewards(ctx))
	assert.Equal(t, int64(2), countAttempts(t, f))
}

func TestSubmitQuizFailingStartsCooldown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.addMaterial(t, model.MaterialVideo, 2000, nil)
	svc := newQuizService(f, &stubGenerator{quiz: sampleQuiz()})
	quiz := sampleQuiz()

	result, err := svc.SubmitQuiz(ctx, material.ID, answersWithScore(quiz, 8), quiz)
	require.NoError(t, err)
	assert.Equal(t, 8, result.Score)
	assert.False(t, result.Passed)
	assert.Zero(t, result.RewardMinutes)
	assert.Zero(t, f.ledger.TotalRewards(ctx))

	// 提交记录使用真实时间
	f.now = time.Now()
	_, err = svc.StartQuiz(ctx, material.ID)
	assert.True(t, errors.Is(err, util.ErrCooldownActive))
}

func TestSubmitQuizUnansweredCountsAsWrong(t *testing.T) {
	f := newFixture(t)
	material := f.addMaterial(t, model.MaterialDocument, 400, nil)
	quiz := sampleQuiz()

	answers := answersWithScore(quiz, 10)
	answers[3] = model.UnansweredIndex
	answers[7] = 9

	result, err := newQuizService(f, nil).SubmitQuiz(context.Background(), material.ID, answers, quiz)
	require.NoError(t, err)
	assert.Equal(t, 8, result.Score)
	assert.False(t, result.Passed)
}

func TestSubmitQuizUsesFixedReward(t *testing.T) {
	f := newFixture(t)
	fixed := 5
	material := f.addMaterial(t, model.MaterialVideo, 2000, &fixed)
	quiz := sampleQuiz()

	result, err := newQuizService(f, nil).SubmitQuiz(context.Background(), material.ID, answersWithScore(quiz, 10), quiz)
	require.NoError(t, err)
	assert.Equal(t, 5, result.RewardMinutes)
}

func TestSubmitQuizValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	material := f.addMaterial(t, model.MaterialVideo, 100, nil)
	svc := newQuizService(f, nil)
	quiz := sampleQuiz()

	_, err := svc.SubmitQuiz(ctx, "missing", answersWithScore(quiz, 10), quiz)
	assert.True(t, errors.Is(err, util.ErrMaterialNotFound))

	_, err = svc.SubmitQuiz(ctx, material.ID, []int{0, 1, 2}, quiz)
	assert.True(t, errors.Is(err, util.ErrAnswerCountMismatch))

	broken := sampleQuiz()
	broken.Questions[0].Answers = []string{"A", "B"}
	_, err = svc.SubmitQuiz(ctx, material.ID, answersWithScore(broken, 10), broken)
	assert.True(t, errors.Is(err, model.ErrInvalidQuiz))

	assert.Zero(t, countAttempts(t, f))
}

func TestSubmitQuizPropagatesAttemptWriteError(t *testing.T) {
	f := newFixture(t)
	material := f.addMaterial(t, model.MaterialVideo, 100, nil)
	testutil.BreakTable(t, f.db, &model.Attempt{})
	quiz := sampleQuiz()

	_, err := newQuizService(f, nil).SubmitQuiz(context.Background(), material.ID, answersWithScore(quiz, 10), quiz)
	assert.Error(t, err)
}

func TestSubmitQuizSwallowsRewardWriteError(t *testing.T) {
	f := newFixture(t)
	material := f.addMaterial(t, model.MaterialVideo, 100, nil)
	testutil.BreakTable(t, f.db, &model.Reward{})
	quiz := sampleQuiz()

	result, err := newQuizService(f, nil).SubmitQuiz(context.Background(), material.ID, answersWithScore(quiz, 10), quiz)
	require.NoError(t, err)
	assert.True(t, result.Passed)
	assert.Zero(t, result.RewardMinutes)
	assert.Equal(t, int64(1), countAttempts(t, f))
}
