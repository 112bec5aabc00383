package service

import (
	"braingain_backend/internal/model"
	"braingain_backend/internal/repository"
	"braingain_backend/internal/testutil"
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// fixture 基于 sqlite 的真实仓储
type fixture struct {
	db        *gorm.DB
	materials *repository.MaterialRepository
	attempts  *repository.AttemptRepository
	rewards   *repository.RewardRepository
	cooldown  *CooldownService
	ledger    *RewardService
	now       time.Time
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db := testutil.NewTestDB(t)
	f := &fixture{
		db:        db,
		materials: repository.NewMaterialRepository(db),
		attempts:  repository.NewAttemptRepository(db),
		rewards:   repository.NewRewardRepository(db),
		now:       time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC),
	}
	f.cooldown = NewCooldownService(f.attempts)
	f.cooldown.now = func() time.Time { return f.now }
	f.ledger = NewRewardService(f.rewards)
	return f
}

func (f *fixture) addMaterial(t *testing.T, typ model.MaterialType, wordCount int, reward *int) *model.Material {
	t.Helper()
	material := &model.Material{
		Title:         fmt.Sprintf("material %d", wordCount),
		Type:          typ,
		ContentText:   words(wordCount),
		RewardMinutes: reward,
	}
	require.NoError(t, f.materials.Create(context.Background(), material))
	return material
}

func (f *fixture) addAttempt(t *testing.T, materialID string, score int, at time.Time) {
	t.Helper()
	require.NoError(t, f.attempts.Create(context.Background(), &model.Attempt{
		MaterialID: materialID,
		Score:      score,
		Passed:     score >= model.PassingScore,
		CreatedAt:  at,
	}))
}

func sampleQuiz() *model.Quiz {
	quiz := &model.Quiz{}
	for i := 0; i < model.QuestionsPerQuiz; i++ {
		quiz.Questions = append(quiz.Questions, model.Question{
			Question:      fmt.Sprintf("Question %d?", i+1),
			Answers:       []string{"A", "B", "C", "D"},
			CorrectAnswer: i % model.AnswersPerQuestion,
			Explanation:   "because",
		})
	}
	return quiz
}

// answersWithScore 前 correct 题答对，其余答错
func answersWithScore(quiz *model.Quiz, correct int) []int {
	answers := make([]int, len(quiz.Questions))
	for i, q := range quiz.Questions {
		if i < correct {
			answers[i] = q.CorrectAnswer
		} else {
			answers[i] = (q.CorrectAnswer + 1) % model.AnswersPerQuestion
		}
	}
	return answers
}
