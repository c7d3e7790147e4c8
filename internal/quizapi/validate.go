package quizapi

import (
	"fmt"
	"strings"

	"github.com/vytor/quizflash/internal/models"
)

const OptionsPerQuestion = 4

// ValidateQuestion checks the shape of a generated question: a prompt, exactly
// four options and a correct option that is one of them.
func ValidateQuestion(q models.Question) error {
	if strings.TrimSpace(q.Prompt) == "" {
		return fmt.Errorf("empty prompt")
	}
	if len(q.Options) != OptionsPerQuestion {
		return fmt.Errorf("want %d options, got %d", OptionsPerQuestion, len(q.Options))
	}
	if !q.HasOption(q.CorrectOption) {
		return fmt.Errorf("answer %q is not one of the options", q.CorrectOption)
	}
	return nil
}

// TopicFromText turns OCR output into a topic line: the first non-empty line,
// cut to maxRunes.
func TopicFromText(text string, maxRunes int) string {
	for _, line := range strings.Split(text, "\n") {
		line = strings.Join(strings.Fields(line), " ")
		if line == "" {
			continue
		}
		if r := []rune(line); len(r) > maxRunes {
			line = strings.TrimSpace(string(r[:maxRunes]))
		}
		return line
	}
	return ""
}
