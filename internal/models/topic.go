package models

import "time"

type TopicSuggestion struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	TimesStarted int       `json:"times_started"`
	CreatedAt    time.Time `json:"created_at"`
}

type TopicFilter struct {
	Query string
	Limit int
}
