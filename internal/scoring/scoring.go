// Package scoring derives results from a finished quiz.
package scoring

import (
	"math"

	"github.com/vytor/quizflash/internal/models"
)

// ReviewStatus classifies one question on the results screen.
type ReviewStatus string

const (
	StatusCorrect   ReviewStatus = "correct"
	StatusIncorrect ReviewStatus = "incorrect"
	StatusSkipped   ReviewStatus = "skipped"
)

// Band is the coarse grade used to colour the score.
type Band string

const (
	BandExcellent Band = "excellent"
	BandFair      Band = "fair"
	BandPoor      Band = "poor"
)

type ReviewItem struct {
	Index       int          `json:"index"`
	Prompt      string       `json:"question"`
	Options     []string     `json:"options"`
	Selected    string       `json:"selected,omitempty"`
	Correct     string       `json:"correct"`
	Explanation string       `json:"explanation"`
	Status      ReviewStatus `json:"status"`
}

// Score computes the result for questions and answers. Answers are compared to
// the correct option with exact string equality. Unanswered questions count
// against the score but are left out of accuracy.
func Score(questions []models.Question, answers map[int]string) models.Result {
	r := models.Result{TotalQuestions: len(questions)}
	for i, q := range questions {
		a, ok := answers[i]
		if !ok {
			continue
		}
		r.AnsweredCount++
		if a == q.CorrectOption {
			r.CorrectCount++
		}
	}
	r.Score = percent(r.CorrectCount, r.TotalQuestions)
	r.Accuracy = percent(r.CorrectCount, r.AnsweredCount)
	r.Completion = percent(r.AnsweredCount, r.TotalQuestions)
	return r
}

// ScoreOutcome is Score applied to a results payload.
func ScoreOutcome(o models.Outcome) models.Result {
	return Score(o.Questions, o.Answers)
}

// Review lists every question with the user's selection and its status.
func Review(questions []models.Question, answers map[int]string) []ReviewItem {
	items := make([]ReviewItem, 0, len(questions))
	for i, q := range questions {
		item := ReviewItem{
			Index:       i,
			Prompt:      q.Prompt,
			Options:     q.Options,
			Correct:     q.CorrectOption,
			Explanation: q.Explanation,
			Status:      StatusSkipped,
		}
		if a, ok := answers[i]; ok {
			item.Selected = a
			item.Status = StatusIncorrect
			if a == q.CorrectOption {
				item.Status = StatusCorrect
			}
		}
		items = append(items, item)
	}
	return items
}

func BandFor(score int) Band {
	switch {
	case score >= 80:
		return BandExcellent
	case score >= 60:
		return BandFair
	default:
		return BandPoor
	}
}

// Message is the headline shown above the score.
func Message(score int) string {
	switch {
	case score >= 90:
		return "Outstanding!"
	case score >= 80:
		return "Great job!"
	case score >= 70:
		return "Well done!"
	case score >= 60:
		return "Good effort!"
	default:
		return "Keep practicing!"
	}
}

func percent(n, d int) int {
	if d == 0 {
		return 0
	}
	return int(math.Round(float64(n) / float64(d) * 100))
}
