package model

import (
	"errors"
	"fmt"
	"strings"
)

// 对外约定的测验常量
const (
	QuestionsPerQuiz         = 10
	AnswersPerQuestion       = 4
	PassingScore             = 9
	CooldownSeconds          = 600
	QuestionTimeLimitSeconds = 30 // 仅客户端计时
	UnansweredIndex          = -1
)

var ErrInvalidQuiz = errors.New("invalid quiz")

// Question 单选题，CorrectAnswer 为 Answers 的下标
type Question struct {
	Question      string   `json:"question"`
	Answers       []string `json:"answers"`
	CorrectAnswer int      `json:"correctAnswer"`
	Explanation   string   `json:"explanation,omitempty"`
}

// Quiz 不落库，由客户端持有并在提交时原样返回
// swagger:model Quiz
type Quiz struct {
	Questions []Question `json:"questions"`
}

// Validate 校验题目结构：10 道题，每题 4 个非空选项，正确答案下标 0-3
func (q *Quiz) Validate() error {
	if q == nil {
		return fmt.Errorf("%w: quiz is nil", ErrInvalidQuiz)
	}
	if len(q.Questions) != QuestionsPerQuiz {
		return fmt.Errorf("%w: expected %d questions, got %d", ErrInvalidQuiz, QuestionsPerQuiz, len(q.Questions))
	}
	for i, question := range q.Questions {
		if strings.TrimSpace(question.Question) == "" {
			return fmt.Errorf("%w: question #%d has empty text", ErrInvalidQuiz, i+1)
		}
		if len(question.Answers) != AnswersPerQuestion {
			return fmt.Errorf("%w: question #%d has %d answers instead of %d", ErrInvalidQuiz, i+1, len(question.Answers), AnswersPerQuestion)
		}
		for j, answer := range question.Answers {
			if strings.TrimSpace(answer) == "" {
				return fmt.Errorf("%w: question #%d answer #%d is empty", ErrInvalidQuiz, i+1, j+1)
			}
		}
		if question.CorrectAnswer < 0 || question.CorrectAnswer >= AnswersPerQuestion {
			return fmt.Errorf("%w: question #%d correct answer index %d out of range", ErrInvalidQuiz, i+1, question.CorrectAnswer)
		}
	}
	return nil
}

// Score 按位置比对答案，-1（未作答/超时）永远不匹配
func (q *Quiz) Score(answers []int) int {
	correct := 0
	for i, question := range q.Questions {
		if i < len(answers) && answers[i] == question.CorrectAnswer {
			correct++
		}
	}
	return correct
}
