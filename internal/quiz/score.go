package quiz

import "github.com/Abishek0612/student-revision-app-client/internal/domain"

type Score struct {
	Correct int `json:"correct"`
	Total   int `json:"total"`
}

// Percent is the rounded share of correct answers.
func (s Score) Percent() int {
	return percent(s.Correct, s.Total)
}

// Grade counts answers that equal the canonical answer exactly. Short answers
// are compared the same way as multiple choice.
// TODO: short-answer grading needs a tolerant comparison once the service
// defines one; exact match rejects correct free-text answers.
func Grade(questions []domain.Question, answers map[int]string) Score {
	score := Score{Total: len(questions)}
	for i, q := range questions {
		if a, ok := answers[i]; ok && a == q.Answer {
			score.Correct++
		}
	}
	return score
}
