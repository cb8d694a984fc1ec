package insights

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClassify(t *testing.T) {
	tests := []struct {
		ratio float64
		want  SpenderType
	}{
		{0, Saver},
		{0.29, Saver},
		{0.3, Balanced},
		{0.59, Balanced},
		{0.6, HighSpender},
		{0.89, HighSpender},
		{0.9, CriticalSpender},
		{1.5, CriticalSpender},
	}
	for _, tt := range tests {
		got, msg := Classify(tt.ratio)
		assert.Equal(t, tt.want, got, "ratio %v", tt.ratio)
		assert.NotEmpty(t, msg)
	}
}

func TestSuggestWithoutIncomeIsCritical(t *testing.T) {
	s := Suggest(0, 0)
	assert.Equal(t, 1.0, s.Ratio)
	assert.Equal(t, CriticalSpender, s.UserType)
	assert.Equal(t, "Your spending exceeds income! Prioritize essentials and budget tightly.", s.Suggestion)
}

func TestSuggest(t *testing.T) {
	s := Suggest(2000, 800)
	assert.Equal(t, 0.4, s.Ratio)
	assert.Equal(t, Balanced, s.UserType)
	assert.Equal(t, 1200.0, s.Balance)
	assert.Equal(t, Suggest(2000, 800), s)
}
