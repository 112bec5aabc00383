package service

import (
	"braingain_backend/internal/model"
	"braingain_backend/internal/util"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type scriptedChat struct {
	replies  []string
	err      error
	requests []ChatRequest
}

func (c *scriptedChat) CompleteJSON(ctx context.Context, req ChatRequest) (string, error) {
	c.requests = append(c.requests, req)
	if c.err != nil {
		return "", c.err
	}
	if len(c.replies) == 0 {
		return "", errors.New("no scripted reply")
	}
	reply := c.replies[0]
	c.replies = c.replies[1:]
	return reply, nil
}

func quizJSON(t *testing.T, count int) string {
	t.Helper()
	var questions []map[string]any
	for i := 0; i < count; i++ {
		questions = append(questions, map[string]any{
			"question":      fmt.Sprintf("Question %d?", i+1),
			"answers":       []string{"one", "two", "three", "four"},
			"correctAnswer": i % 4,
			"explanation":   "reason",
		})
	}
	data, err := json.Marshal(map[string]any{"questions": questions})
	require.NoError(t, err)
	return string(data)
}

func TestParseQuizJSONNormalizesKeysAndValues(t *testing.T) {
	var items []string
	for i := 0; i < model.QuestionsPerQuiz; i++ {
		items = append(items, fmt.Sprintf(`{
			"_pytanie_": "**Pytanie %d?**",
			"<b>odpowiedzi</b>": [". Ma kaszel", "..Druga", "Trzecia", 4],
			"poprawna_odpowiedz": 3,
			"uzasadnienia": 42
		}`, i+1))
	}
	raw := "```json\n{\"pytania\": [" + strings.Join(items, ",") + "]}\n```"

	quiz, err := ParseQuizJSON(raw)
	require.NoError(t, err)
	require.NoError(t, quiz.Validate())

	first := quiz.Questions[0]
	assert.Equal(t, "Pytanie 1?", first.Question)
	assert.Equal(t, []string{"Ma kaszel", "Druga", "Trzecia", "4"}, first.Answers)
	assert.Equal(t, 3, first.CorrectAnswer)
	assert.Equal(t, "42", first.Explanation)
}

func TestParseQuizJSONRejectsInvalidStructure(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"not json", "definitely not json"},
		{"no questions", `{"items": []}`},
		{"nine questions", quizJSON(t, 9)},
		{"empty answer", strings.Replace(quizJSON(t, 10), `"four"`, `""`, 1)},
		{"index out of range", strings.Replace(quizJSON(t, 10), `"correctAnswer":0`, `"correctAnswer":4`, 1)},
		{"fractional index", strings.Replace(quizJSON(t, 10), `"correctAnswer":0`, `"correctAnswer":1.5`, 1)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseQuizJSON(tt.raw)
			var invalid *InvalidOutputError
			assert.True(t, errors.As(err, &invalid), "got %v", err)
		})
	}
}

func TestGenerateQuizWithLanguageDetection(t *testing.T) {
	chat := &scriptedChat{replies: []string{
		`{"isLanguageLearning": true, "targetLanguage": "Spanish", "details": "vocabulary lesson"}`,
		quizJSON(t, 10),
	}}
	generator := NewLLMQuizGenerator(chat, true)
	generator.seed = func() string { return "seed1234" }

	quiz, err := generator.GenerateQuiz(context.Background(), "hola means hello, adiós means goodbye")
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 10)

	require.Len(t, chat.requests, 2)
	assert.InDelta(t, 0.3, chat.requests[0].Temperature, 1e-6)
	assert.InDelta(t, 0.5, chat.requests[1].Temperature, 1e-6)
	assert.InDelta(t, 0.3, chat.requests[1].FrequencyPenalty, 1e-6)
	assert.InDelta(t, 0.5, chat.requests[1].PresencePenalty, 1e-6)
	assert.Contains(t, chat.requests[1].Prompt, "seed1234")
	assert.Contains(t, chat.requests[1].Prompt, "Spanish")
	assert.Contains(t, chat.requests[1].Prompt, "hola means hello")
}

func TestGenerateQuizDetectionFailureFallsBackToGeneralMaterial(t *testing.T) {
	chat := &scriptedChat{replies: []string{"not json", quizJSON(t, 10)}}
	generator := NewLLMQuizGenerator(chat, true)

	quiz, err := generator.GenerateQuiz(context.Background(), "photosynthesis converts light into chemical energy")
	require.NoError(t, err)
	assert.Len(t, quiz.Questions, 10)
	assert.NotContains(t, chat.requests[1].Prompt, "foreign language (")
}

func TestGenerateQuizPreconditions(t *testing.T) {
	ctx := context.Background()

	_, err := NewLLMQuizGenerator(nil, false).GenerateQuiz(ctx, "text")
	assert.True(t, errors.Is(err, util.ErrGeneratorUnavailable))

	chat := &scriptedChat{}
	generator := NewLLMQuizGenerator(chat, false)

	_, err = generator.GenerateQuiz(ctx, "   ")
	assert.True(t, errors.Is(err, util.ErrEmptyContent))

	_, err = generator.GenerateQuiz(ctx, strings.Repeat("a", MaxSourceChars+1))
	assert.True(t, errors.Is(err, util.ErrSourceTextTooLong))
	assert.Empty(t, chat.requests)
}

func TestGenerateQuizPropagatesClientError(t *testing.T) {
	chat := &scriptedChat{err: &RateLimitError{Err: errors.New("429")}}
	_, err := NewLLMQuizGenerator(chat, false).GenerateQuiz(context.Background(), "some text")

	var rateLimit *RateLimitError
	assert.True(t, errors.As(err, &rateLimit))
	assert.Equal(t, "rate_limit", generationFailureReason(err))
}
