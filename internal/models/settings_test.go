package models_test

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vytor/quizflash/internal/models"
)

func TestSettingsJSON(t *testing.T) {
	s := models.Settings{
		NumberOfQuestions: 15,
		Difficulty:        models.DifficultyHard,
		Timer:             models.Total{Limit: 600},
	}

	b, err := json.Marshal(s)
	require.NoError(t, err)
	assert.JSONEq(t, `{"numberOfQuestions":15,"difficulty":"hard","timerEnabled":true,"timerMode":"total","timeLimitSeconds":600}`, string(b))

	var back models.Settings
	require.NoError(t, json.Unmarshal(b, &back))
	assert.Equal(t, s, back)
}

func TestSettingsJSONUntimed(t *testing.T) {
	var s models.Settings
	require.NoError(t, json.Unmarshal([]byte(`{"numberOfQuestions":5,"difficulty":"easy","timerEnabled":false}`), &s))

	assert.False(t, s.TimerEnabled())
	assert.Equal(t, "Disabled", s.TimerLabel())
}

func TestSettingsJSONRejectsUnknownMode(t *testing.T) {
	var s models.Settings
	err := json.Unmarshal([]byte(`{"timerEnabled":true,"timerMode":"lap"}`), &s)
	assert.Error(t, err)
}

func TestQuestionHasOption(t *testing.T) {
	q := models.Question{Options: []string{"Paris", "Rome"}}

	assert.True(t, q.HasOption("Paris"))
	assert.False(t, q.HasOption("paris"), "match is exact")
}
