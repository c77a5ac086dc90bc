package guidedpath

import (
	"fmt"
	"regexp"
	"strings"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
)

// Phrases implying employer surveillance, HR reporting or performance inference.
var blockedPhrases = []string{
	"your job description",
	"HR told us",
	"your manager reported",
	"we've been monitoring",
	"your employer requires",
	"performance review shows",
	"disciplinary record",
	"we noticed from your data",
	"based on your browsing",
	"your supervisor mentioned",
	"according to company surveillance",
	"keystroke log",
}

var diagnosticPatterns = []*regexp.Regexp{
	regexp.MustCompile(`(?i)you (?:have|are suffering from|are diagnosed with) (?:depression|anxiety disorder|PTSD|bipolar|schizophrenia|OCD|ADHD)`),
	regexp.MustCompile(`(?i)your diagnosis (?:is|of)`),
	regexp.MustCompile(`(?i)you (?:need|require) (?:medication|psychiatric)`),
	regexp.MustCompile(`(?i)clinical diagnosis`),
}

// CheckComposedContent scans every step's narrative text and reports all
// violations. violations is never nil.
func CheckComposedContent(steps []types.StepDefinition) (bool, []string) {
	violations := []string{}
	for i, step := range steps {
		texts := append([]string{step.Message}, step.Options...)
		violations = append(violations, scanText(i, texts)...)
	}
	return len(violations) == 0, violations
}

func scanText(index int, texts []string) []string {
	var out []string
	lowered := make([]string, len(texts))
	for i, t := range texts {
		lowered[i] = strings.ToLower(t)
	}
	for _, phrase := range blockedPhrases {
		needle := strings.ToLower(phrase)
		for _, t := range lowered {
			if strings.Contains(t, needle) {
				out = append(out, fmt.Sprintf("Step %d: blocked phrase '%s'", index, phrase))
				break
			}
		}
	}
	for _, pattern := range diagnosticPatterns {
		for _, t := range texts {
			if pattern.MatchString(t) {
				out = append(out, fmt.Sprintf("Step %d: diagnostic language detected", index))
				break
			}
		}
	}
	return out
}
