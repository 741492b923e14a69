package quiz

import (
	"math"

	"github.com/Abishek0612/student-revision-app-client/internal/domain"
)

const (
	strengthThreshold = 70
	weaknessThreshold = 50
	recentAttempts    = 5
	unknownTopic      = "Unknown"
)

type TopicStat struct {
	Topic      string `json:"topic"`
	Percentage int    `json:"percentage"`
	Attempts   int    `json:"attempts"`
}

// Stats summarises the attempt history.
type Stats struct {
	TotalAttempts  int              `json:"totalAttempts"`
	TotalQuestions int              `json:"totalQuestions"`
	AverageScore   int              `json:"averageScore"`
	Strengths      []TopicStat      `json:"strengths"`
	Weaknesses     []TopicStat      `json:"weaknesses"`
	Recent         []domain.Attempt `json:"recent"`
}

// Summarize computes progress statistics. Attempts are expected most recent
// first. It returns false when there is no history.
func Summarize(attempts []domain.Attempt) (Stats, bool) {
	if len(attempts) == 0 {
		return Stats{}, false
	}

	type tally struct{ correct, total, attempts int }
	var (
		order  []string
		topics = make(map[string]*tally)
		score  int
		stats  = Stats{TotalAttempts: len(attempts)}
	)
	for _, a := range attempts {
		stats.TotalQuestions += a.TotalQuestions
		score += a.Score

		topic := a.Document.FileName
		if topic == "" {
			topic = unknownTopic
		}
		t, ok := topics[topic]
		if !ok {
			t = &tally{}
			topics[topic] = t
			order = append(order, topic)
		}
		t.correct += a.Score
		t.total += a.TotalQuestions
		t.attempts++
	}
	stats.AverageScore = percent(score, stats.TotalQuestions)

	for _, topic := range order {
		t := topics[topic]
		if t.total == 0 {
			continue
		}
		ts := TopicStat{Topic: topic, Percentage: percent(t.correct, t.total), Attempts: t.attempts}
		switch {
		case ts.Percentage >= strengthThreshold:
			stats.Strengths = append(stats.Strengths, ts)
		case ts.Percentage < weaknessThreshold:
			stats.Weaknesses = append(stats.Weaknesses, ts)
		}
	}

	n := min(len(attempts), recentAttempts)
	stats.Recent = append([]domain.Attempt(nil), attempts[:n]...)
	return stats, true
}

func percent(part, whole int) int {
	if whole == 0 {
		return 0
	}
	return int(math.Round(float64(part) / float64(whole) * 100))
}
