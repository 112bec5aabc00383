package service

import (
	"braingain_backend/internal/model"
	"braingain_backend/internal/util"
	"braingain_backend/pkg/logger"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/santhosh-tekuri/jsonschema/v6"
	"go.uber.org/zap"
)

// 上下文窗口 128k token，预留 10k 给提示词和输出，按 4 字符/token 估算
const (
	maxContextTokens = 128000
	reservedTokens   = 10000
	charsPerToken    = 4
	MaxSourceChars   = (maxContextTokens - reservedTokens) * charsPerToken

	languageSampleChars = 2000

	quizTemperature      = 0.5
	quizFrequencyPenalty = 0.3
	quizPresencePenalty  = 0.5
	detectTemperature    = 0.3
)

const quizSystemPrompt = "You are an expert at writing educational quizzes. " +
	"Always return ONLY clean, valid JSON without any extra markup. " +
	"Never use markdown, underscores, asterisks or HTML tags in JSON keys. " +
	`Keys must be exactly "question", "answers", "correctAnswer", "explanation". ` +
	"Answers must not start with dots. Output: strict JSON only."

const languageSystemPrompt = "You analyse educational materials and decide whether a text is about learning a foreign language. " +
	"Respond ONLY with JSON."

var quizSchema = map[string]any{
	"type":     "object",
	"required": []any{"questions"},
	"properties": map[string]any{
		"questions": map[string]any{
			"type":     "array",
			"minItems": model.QuestionsPerQuiz,
			"maxItems": model.QuestionsPerQuiz,
			"items": map[string]any{
				"type":     "object",
				"required": []any{"question", "answers", "correctAnswer"},
				"properties": map[string]any{
					"question": map[string]any{"type": "string", "minLength": 1},
					"answers": map[string]any{
						"type":     "array",
						"minItems": model.AnswersPerQuestion,
						"maxItems": model.AnswersPerQuestion,
						"items":    map[string]any{"type": "string", "minLength": 1},
					},
					"correctAnswer": map[string]any{
						"type":    "integer",
						"minimum": 0,
						"maximum": model.AnswersPerQuestion - 1,
					},
					"explanation": map[string]any{"type": "string"},
				},
			},
		},
	},
}

var (
	compiledQuizSchema *jsonschema.Schema
	compileSchemaOnce  sync.Once
	compileSchemaErr   error
)

func getQuizSchema() (*jsonschema.Schema, error) {
	compileSchemaOnce.Do(func() {
		// 编译器需要 json.Unmarshal 得到的值
		raw, err := json.Marshal(quizSchema)
		if err != nil {
			compileSchemaErr = err
			return
		}
		var def any
		if err := json.Unmarshal(raw, &def); err != nil {
			compileSchemaErr = err
			return
		}

		c := jsonschema.NewCompiler()
		const url = "schema://quiz.json"
		if err := c.AddResource(url, def); err != nil {
			compileSchemaErr = err
			return
		}
		compiledQuizSchema, compileSchemaErr = c.Compile(url)
	})
	return compiledQuizSchema, compileSchemaErr
}

// InvalidOutputError 模型输出无法解析或不符合题目结构
type InvalidOutputError struct {
	Content string
	Err     error
}

func (e *InvalidOutputError) Error() string {
	return fmt.Sprintf("invalid quiz output: %v", e.Err)
}

func (e *InvalidOutputError) Unwrap() error { return e.Err }

type languageAnalysis struct {
	IsLanguageLearning bool   `json:"isLanguageLearning"`
	TargetLanguage     string `json:"targetLanguage"`
	Details            string `json:"details"`
}

// LLMQuizGenerator 基于大模型的题目生成器
type LLMQuizGenerator struct {
	Client         ChatClient
	DetectLanguage bool
	seed           func() string
}

func NewLLMQuizGenerator(client ChatClient, detectLanguage bool) *LLMQuizGenerator {
	return &LLMQuizGenerator{
		Client:         client,
		DetectLanguage: detectLanguage,
		seed: func() string {
			return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
		},
	}
}

func (g *LLMQuizGenerator) GenerateQuiz(ctx context.Context, sourceText string) (*model.Quiz, error) {
	if g.Client == nil {
		return nil, util.ErrGeneratorUnavailable
	}
	if strings.TrimSpace(sourceText) == "" {
		return nil, util.ErrEmptyContent
	}
	if n := utf8.RuneCountInString(sourceText); n > MaxSourceChars {
		return nil, fmt.Errorf("%w: %d characters, maximum %d", util.ErrSourceTextTooLong, n, MaxSourceChars)
	}

	var analysis languageAnalysis
	if g.DetectLanguage {
		analysis = g.detectLanguage(ctx, sourceText)
	}

	raw, err := g.Client.CompleteJSON(ctx, ChatRequest{
		System:           quizSystemPrompt,
		Prompt:           buildQuizPrompt(sourceText, g.seed(), analysis),
		Temperature:      quizTemperature,
		FrequencyPenalty: quizFrequencyPenalty,
		PresencePenalty:  quizPresencePenalty,
	})
	if err != nil {
		return nil, err
	}

	return ParseQuizJSON(raw)
}

// detectLanguage 判断是否为外语学习材料，任何失败都按普通材料处理
func (g *LLMQuizGenerator) detectLanguage(ctx context.Context, text string) languageAnalysis {
	sample := text
	if utf8.RuneCountInString(sample) > languageSampleChars {
		sample = string([]rune(sample)[:languageSampleChars])
	}

	raw, err := g.Client.CompleteJSON(ctx, ChatRequest{
		System:      languageSystemPrompt,
		Prompt:      buildLanguagePrompt(sample),
		Temperature: detectTemperature,
	})
	if err != nil {
		logger.Log.Warn("language material detection failed", zap.Error(err))
		return languageAnalysis{}
	}

	var analysis languageAnalysis
	if err := json.Unmarshal([]byte(stripCodeFence(raw)), &analysis); err != nil {
		logger.Log.Warn("language material detection returned invalid JSON", zap.Error(err))
		return languageAnalysis{}
	}

	logger.Log.Info("material type detected",
		zap.Bool("isLanguageLearning", analysis.IsLanguageLearning),
		zap.String("targetLanguage", analysis.TargetLanguage),
		zap.String("details", analysis.Details),
	)
	return analysis
}

func buildLanguagePrompt(sample string) string {
	return `Analyse the text fragment below and decide:
1. Is this material about learning a foreign language (grammar, vocabulary, conversation lessons)?
2. If so, which language is being learned?

It IS language learning material if it teaches vocabulary, grammar or pronunciation of a foreign language,
contains translations of words or phrases, explains tenses or declensions, or practises conversational phrases.
It is NOT language learning material if it is a general documentary, lecture or presentation,
a film about history, science or technology, or literature and art that does not analyse the language.

Return JSON:
{
  "isLanguageLearning": true or false,
  "targetLanguage": "language name" or null,
  "confidence": "low" | "medium" | "high",
  "details": "one or two sentences of reasoning"
}

Text:
"""
` + sample + `
"""`
}

func buildQuizPrompt(text, seed string, analysis languageAnalysis) string {
	var sb strings.Builder
	sb.WriteString("Prepare an educational quiz based on the text below. Write the quiz in the language of the text.")

	if analysis.IsLanguageLearning && analysis.TargetLanguage != "" {
		fmt.Fprintf(&sb, `

IMPORTANT: this material is about learning a foreign language (%[1]s).
Questions MUST be about:
- the meaning of words and phrases in %[1]s
- translations between %[1]s and the learner's language
- vocabulary used in context
- grammatical constructions from the material
Do NOT ask about the general mood of the material, how it was made, or history and culture unrelated to the language.`,
			analysis.TargetLanguage)
	}

	fmt.Fprintf(&sb, `

REQUIREMENTS:
1. Generate EXACTLY %d multiple choice questions
2. Each question has %d answers, exactly one correct
3. Add a 2-3 sentence explanation to each question
4. Questions must check UNDERSTANDING of the material

RANDOM SEED: %s - use it to pick varied topics from the text.

JSON STRUCTURE (EXACTLY):
{
  "questions": [
    {
      "question": "Question text without decoration?",
      "answers": ["First answer", "Second answer", "Third answer", "Fourth answer"],
      "correctAnswer": 0,
      "explanation": "Why this answer is correct"
    }
  ]
}

CRITICAL RULES:
- Return ONLY plain JSON, no markdown code blocks
- Keys without underscores, asterisks or HTML tags
- Answers must not start with dots
- Texts without markdown decoration

SOURCE TEXT:
"""
%s
"""`, model.QuestionsPerQuiz, model.AnswersPerQuestion, seed, text)

	return sb.String()
}

var (
	codeFencePrefix = regexp.MustCompile("^```(?:json)?\\s*")
	codeFenceSuffix = regexp.MustCompile("\\s*```$")
	htmlTag         = regexp.MustCompile(`<[^>]*>`)
	markdownEdges   = regexp.MustCompile(`^[_*]+|[_*]+$`)
	leadingDots     = regexp.MustCompile(`^\s*\.+\s*`)
	nonLetters      = regexp.MustCompile(`[^a-z]`)
)

func stripCodeFence(raw string) string {
	text := strings.TrimSpace(raw)
	text = codeFencePrefix.ReplaceAllString(text, "")
	text = codeFenceSuffix.ReplaceAllString(text, "")

	first := strings.Index(text, "{")
	last := strings.LastIndex(text, "}")
	if first != -1 && last > first {
		text = text[first : last+1]
	}
	return text
}

// normalizeKey 去掉 HTML 标签和 markdown 装饰后只保留小写字母，用于匹配同义键
func normalizeKey(key string) string {
	key = htmlTag.ReplaceAllString(key, "")
	key = markdownEdges.ReplaceAllString(strings.TrimSpace(key), "")
	return nonLetters.ReplaceAllString(strings.ToLower(key), "")
}

func cleanText(value string) string {
	return strings.TrimSpace(markdownEdges.ReplaceAllString(strings.TrimSpace(value), ""))
}

var questionKeys = map[string]string{
	"question":          "question",
	"pytanie":           "question",
	"answers":           "answers",
	"odpowiedzi":        "answers",
	"correctanswer":     "correctAnswer",
	"poprawnaodpowiedz": "correctAnswer",
	"explanation":       "explanation",
	"justification":     "explanation",
	"uzasadnienie":      "explanation",
	"uzasadnienia":      "explanation",
}

// ParseQuizJSON 解析模型输出：去掉代码块标记，归一化键名与文本，再按 JSON Schema 校验
func ParseQuizJSON(raw string) (*model.Quiz, error) {
	text := stripCodeFence(raw)

	var parsed any
	if err := json.Unmarshal([]byte(text), &parsed); err != nil {
		return nil, &InvalidOutputError{Content: raw, Err: fmt.Errorf("invalid JSON: %w", err)}
	}

	root, ok := parsed.(map[string]any)
	if !ok {
		return nil, &InvalidOutputError{Content: raw, Err: errors.New("top-level value is not an object")}
	}

	var items []any
	for key, value := range root {
		switch normalizeKey(key) {
		case "questions", "pytania":
			items, _ = value.([]any)
		}
	}
	if items == nil {
		return nil, &InvalidOutputError{Content: raw, Err: errors.New("no questions array")}
	}

	questions := make([]any, 0, len(items))
	for i, item := range items {
		fields, ok := item.(map[string]any)
		if !ok {
			return nil, &InvalidOutputError{Content: raw, Err: fmt.Errorf("question #%d is not an object", i+1)}
		}
		questions = append(questions, normalizeQuestion(fields))
	}

	doc := map[string]any{"questions": questions}

	schema, err := getQuizSchema()
	if err != nil {
		return nil, fmt.Errorf("compile quiz schema: %w", err)
	}
	if err := schema.Validate(doc); err != nil {
		return nil, &InvalidOutputError{Content: raw, Err: fmt.Errorf("schema validation failed: %w", err)}
	}

	normalized, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	var quiz model.Quiz
	if err := json.Unmarshal(normalized, &quiz); err != nil {
		return nil, &InvalidOutputError{Content: raw, Err: err}
	}
	return &quiz, nil
}

func normalizeQuestion(fields map[string]any) map[string]any {
	question := make(map[string]any, 4)
	for key, value := range fields {
		canonical, ok := questionKeys[normalizeKey(key)]
		if !ok {
			continue
		}

		switch canonical {
		case "answers":
			answers, ok := value.([]any)
			if !ok {
				question[canonical] = value
				continue
			}
			cleaned := make([]any, len(answers))
			for i, answer := range answers {
				s, ok := answer.(string)
				if !ok {
					s = fmt.Sprint(answer)
				}
				cleaned[i] = strings.TrimSpace(leadingDots.ReplaceAllString(s, ""))
			}
			question[canonical] = cleaned
		case "question":
			if s, ok := value.(string); ok {
				value = cleanText(s)
			}
			question[canonical] = value
		case "explanation":
			if value == nil {
				continue
			}
			s, ok := value.(string)
			if !ok {
				s = fmt.Sprint(value)
			}
			question[canonical] = cleanText(s)
		default:
			question[canonical] = value
		}
	}
	return question
}
