package models

import "time"

// Question is one generated multiple-choice item. It is never mutated after it
// arrives from the quiz source.
type Question struct {
	Prompt        string   `json:"question"`
	Options       []string `json:"options"`
	CorrectOption string   `json:"answer"`
	Explanation   string   `json:"explanation"`
}

// HasOption reports whether option is one of q's choices (exact match).
func (q Question) HasOption(option string) bool {
	for _, o := range q.Options {
		if o == option {
			return true
		}
	}
	return false
}

type QuizData struct {
	Topic     string     `json:"topic"`
	Questions []Question `json:"questions"`
}

// Result is derived from a finished session; see scoring.Score.
type Result struct {
	CorrectCount   int `json:"correctCount"`
	TotalQuestions int `json:"totalQuestions"`
	AnsweredCount  int `json:"answeredCount"`
	Score          int `json:"score"`
	Accuracy       int `json:"accuracy"`
	Completion     int `json:"completion"`
}

// Outcome is everything the results screen needs from a finished session.
type Outcome struct {
	Topic             string         `json:"topic"`
	Questions         []Question     `json:"questions"`
	Answers           map[int]string `json:"answers"`
	Settings          Settings       `json:"settings"`
	TotalQuestions    int            `json:"totalQuestions"`
	AnsweredQuestions int            `json:"answeredQuestions"`
	FinishedAt        time.Time      `json:"finishedAt"`
}

// QuizRequest is what a session asks the quiz source for.
type QuizRequest struct {
	Topic             string
	Context           string
	NumberOfQuestions int
	Difficulty        Difficulty
}
