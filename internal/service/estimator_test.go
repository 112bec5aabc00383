package service

import (
	"braingain_backend/internal/model"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func words(n int) string {
	return strings.TrimSpace(strings.Repeat("word ", n))
}

func TestEstimateDuration(t *testing.T) {
	tests := []struct {
		name     string
		text     string
		typ      model.MaterialType
		expected int
	}{
		{"empty", "", model.MaterialVideo, 0},
		{"whitespace only", " \n\t ", model.MaterialDocument, 0},
		{"single word", "hello", model.MaterialVideo, 1},
		{"150 video words", words(150), model.MaterialVideo, 1},
		{"151 video words", words(151), model.MaterialVideo, 2},
		{"200 document words", words(200), model.MaterialDocument, 1},
		{"201 document words", words(201), model.MaterialDocument, 2},
		{"2000 video words", words(2000), model.MaterialVideo, 14},
		{"mixed whitespace runs", "a  b\n\n c\t\td", model.MaterialVideo, 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, EstimateDuration(tt.text, tt.typ))
		})
	}
}

func TestCalculateReward(t *testing.T) {
	tests := []struct {
		duration int
		expected int
	}{
		{0, 1},
		{1, 2},
		{5, 10},
		{8, 15},
		{9, 16},
		{10, 18},
		{11, 20},
		{12, 22},
		{14, 26},
		{20, 35},
		{160, 1},
		{500, 1},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.expected, CalculateReward(tt.duration), "duration %d", tt.duration)
	}
}

func TestRewardForPrefersFixedReward(t *testing.T) {
	fixed := 45
	material := &model.Material{Type: model.MaterialVideo, ContentText: words(2000)}
	assert.Equal(t, 26, RewardFor(material))

	material.RewardMinutes = &fixed
	assert.Equal(t, 45, RewardFor(material))

	zero := 0
	material.RewardMinutes = &zero
	assert.Equal(t, 26, RewardFor(material))
}
