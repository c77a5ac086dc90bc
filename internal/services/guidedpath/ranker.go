package guidedpath

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
)

const maxSuggestions = 3

// Theme → preferred categories.
var routingRules = map[string][]string{
	"anxiety":    {"anxiety_relief", "breathing_reset", "grounding_exercise"},
	"stress":     {"burnout_check", "stress_decompress", "boundary_setting"},
	"sleep":      {"sleep_hygiene", "wind_down_routine"},
	"conflict":   {"conflict_navigator", "communication_reset"},
	"financial":  {"financial_stress_check", "financial_planning_start"},
	"motivation": {"motivation_boost", "values_reconnect"},
	"workload":   {"burnout_check", "boundary_setting", "time_audit"},
}

var calmingCategories = map[string]bool{
	"breathing_reset":    true,
	"grounding_exercise": true,
	"stress_decompress":  true,
}

var stressBands = map[string]bool{"low": true, "moderate": true, "high": true, "crisis": true}

func IsStressBand(s string) bool { return stressBands[s] }

// KnownThemes lists the themes with explicit routing, sorted.
func KnownThemes() []string {
	out := make([]string, 0, len(routingRules))
	for k := range routingRules {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

type SuggestQuery struct {
	Theme         *string `json:"theme,omitempty" form:"theme"`
	StressBand    *string `json:"stress_band,omitempty" form:"stress_band"`
	AvailableTime *int    `json:"available_time,omitempty" form:"available_time"`
}

type Suggestion struct {
	ID              uuid.UUID `json:"id"`
	Name            string    `json:"name"`
	Category        string    `json:"category"`
	Description     string    `json:"description,omitempty"`
	DurationMinutes int       `json:"duration_minutes"`
	Icon            string    `json:"icon,omitempty"`
	MatchReason     string    `json:"match_reason"`
	Score           int       `json:"score"`
}

func normalizeCategory(c string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(c)), " ", "_")
}

func inCategories(cat string, list []string) bool {
	for _, c := range list {
		if c == cat {
			return true
		}
	}
	return false
}

// RankModules scores candidates with the additive rule table and returns the
// top three. Ties keep candidate order.
func RankModules(candidates []*types.GuidedModule, q SuggestQuery) []Suggestion {
	theme := ""
	if q.Theme != nil {
		theme = strings.TrimSpace(*q.Theme)
	}
	themeKey := strings.ToLower(theme)
	highStress := q.StressBand != nil && (*q.StressBand == "high" || *q.StressBand == "crisis")
	budget := 0
	if q.AvailableTime != nil && *q.AvailableTime > 0 {
		budget = *q.AvailableTime
	}

	scored := make([]Suggestion, 0, len(candidates))
	for _, m := range candidates {
		if m == nil {
			continue
		}
		score := 1
		reason := ""
		note := func(r string) {
			if reason == "" {
				reason = r
			}
		}
		cat := normalizeCategory(m.Category)

		if themeKey != "" {
			if inCategories(cat, routingRules[themeKey]) {
				score += 10
				note(fmt.Sprintf("Matches theme: %s", theme))
			} else if strings.Contains(strings.ToLower(m.Name), themeKey) {
				score += 5
				note(fmt.Sprintf("Name matches theme: %s", theme))
			}
		}

		if budget > 0 && m.DurationMinutes > 0 {
			if m.DurationMinutes <= budget {
				score += 3
				note("Fits your available time")
			} else {
				score -= 5
			}
		}

		if highStress {
			if calmingCategories[cat] {
				score += 5
				note("Calming exercise for high stress")
			}
			if m.DurationMinutes > 0 && m.DurationMinutes <= 5 {
				score += 2
				note("Quick exercise")
			}
		}

		if reason == "" {
			reason = "Available module"
		}
		scored = append(scored, Suggestion{
			ID:              m.ID,
			Name:            m.Name,
			Category:        m.Category,
			Description:     m.Description,
			DurationMinutes: m.DurationMinutes,
			Icon:            m.Icon,
			MatchReason:     reason,
			Score:           score,
		})
	}

	sort.SliceStable(scored, func(i, j int) bool { return scored[i].Score > scored[j].Score })
	if len(scored) > maxSuggestions {
		scored = scored[:maxSuggestions]
	}
	return scored
}
