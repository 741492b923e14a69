package quiz

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

func attempt(file string, score, total int) domain.Attempt {
	return domain.Attempt{Score: score, TotalQuestions: total, Document: domain.DocumentRef{FileName: file}}
}

func TestSummarizeEmpty(t *testing.T) {
	_, ok := Summarize(nil)
	assert.False(t, ok)
}

func TestSummarize(t *testing.T) {
	attempts := []domain.Attempt{
		attempt("physics.pdf", 4, 5),
		attempt("chemistry.pdf", 1, 5),
		attempt("physics.pdf", 5, 5),
		attempt("", 3, 5),
		attempt("biology.pdf", 3, 5),
		attempt("chemistry.pdf", 1, 5),
	}

	stats, ok := Summarize(attempts)
	require.True(t, ok)

	assert.Equal(t, 6, stats.TotalAttempts)
	assert.Equal(t, 30, stats.TotalQuestions)
	assert.Equal(t, 57, stats.AverageScore) // 17/30

	assert.Equal(t, []TopicStat{{Topic: "physics.pdf", Percentage: 90, Attempts: 2}}, stats.Strengths)
	assert.Equal(t, []TopicStat{{Topic: "chemistry.pdf", Percentage: 20, Attempts: 2}}, stats.Weaknesses)

	require.Len(t, stats.Recent, 5)
	assert.Equal(t, attempts[:5], stats.Recent)
}

func TestSummarizeMiddleBandIsNeither(t *testing.T) {
	stats, ok := Summarize([]domain.Attempt{attempt("", 3, 5)})
	require.True(t, ok)

	assert.Empty(t, stats.Strengths)
	assert.Empty(t, stats.Weaknesses)
	assert.Equal(t, 60, stats.AverageScore)
}
