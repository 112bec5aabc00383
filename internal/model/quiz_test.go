package model

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func validQuiz() *Quiz {
	q := &Quiz{}
	for i := 0; i < QuestionsPerQuiz; i++ {
		q.Questions = append(q.Questions, Question{
			Question:      fmt.Sprintf("Question %d?", i+1),
			Answers:       []string{"A", "B", "C", "D"},
			CorrectAnswer: i % AnswersPerQuestion,
		})
	}
	return q
}

func TestQuizValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(q *Quiz)
		ok     bool
	}{
		{"valid", func(q *Quiz) {}, true},
		{"too few questions", func(q *Quiz) { q.Questions = q.Questions[:9] }, false},
		{"too many questions", func(q *Quiz) { q.Questions = append(q.Questions, q.Questions[0]) }, false},
		{"three answers", func(q *Quiz) { q.Questions[3].Answers = []string{"A", "B", "C"} }, false},
		{"empty answer", func(q *Quiz) { q.Questions[2].Answers[1] = "  " }, false},
		{"empty question", func(q *Quiz) { q.Questions[5].Question = "" }, false},
		{"index too high", func(q *Quiz) { q.Questions[0].CorrectAnswer = 4 }, false},
		{"negative index", func(q *Quiz) { q.Questions[0].CorrectAnswer = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			q := validQuiz()
			tt.mutate(q)
			err := q.Validate()
			if tt.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrInvalidQuiz))
		})
	}
}

func TestQuizScoreTreatsUnansweredAsWrong(t *testing.T) {
	q := validQuiz()
	answers := make([]int, QuestionsPerQuiz)
	for i, question := range q.Questions {
		answers[i] = question.CorrectAnswer
	}
	assert.Equal(t, 10, q.Score(answers))

	answers[0] = UnansweredIndex
	answers[7] = UnansweredIndex
	assert.Equal(t, 8, q.Score(answers))
}
