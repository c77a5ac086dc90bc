package guidedpath

import (
	"fmt"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
	"github.com/rafiki-work/rafiki-backend/internal/platform/redis"
)

const (
	DefaultTopicMemoryCap = 50
	MaxThemeRunes         = 100
)

type ThemeCount struct {
	Theme string `json:"theme"`
	Count int    `json:"count"`
}

// TopicMemory remembers each user's recent themes in a bounded ring buffer.
type TopicMemory interface {
	Record(dbc dbctx.Context, userID, orgID uuid.UUID, theme string) error
	Recent(dbc dbctx.Context, userID uuid.UUID) ([]ThemeCount, error)
}

type topicMemory struct {
	log   *logger.Logger
	cache redis.TopicMemory
	repo  repos.UserTopicMemoryRepo
	cap   int
}

// NewTopicMemory prefers the Redis ring buffer when cache is non-nil and
// otherwise persists the buffer as a row.
func NewTopicMemory(baseLog *logger.Logger, cache redis.TopicMemory, repo repos.UserTopicMemoryRepo, capacity int) TopicMemory {
	if capacity <= 0 {
		capacity = DefaultTopicMemoryCap
	}
	return &topicMemory{
		log:   baseLog.With("service", "TopicMemory"),
		cache: cache,
		repo:  repo,
		cap:   capacity,
	}
}

func (m *topicMemory) Record(dbc dbctx.Context, userID, orgID uuid.UUID, theme string) error {
	theme = clampTheme(theme)
	if theme == "" {
		return nil
	}
	if m.cache != nil {
		return m.cache.Push(dbc.Ctx, userID, theme)
	}
	if err := m.repo.Push(dbc, userID, orgID, theme, m.cap); err != nil {
		return fmt.Errorf("record theme: %w", err)
	}
	return nil
}

func (m *topicMemory) Recent(dbc dbctx.Context, userID uuid.UUID) ([]ThemeCount, error) {
	var topics []string
	if m.cache != nil {
		var err error
		topics, err = m.cache.Recent(dbc.Ctx, userID)
		if err != nil {
			return nil, err
		}
	} else {
		row, err := m.repo.Get(dbc, userID)
		if err != nil {
			return nil, fmt.Errorf("load themes: %w", err)
		}
		if row != nil {
			topics = row.Topics
		}
	}
	return countThemes(topics), nil
}

func clampTheme(theme string) string {
	theme = strings.ToLower(strings.TrimSpace(theme))
	if r := []rune(theme); len(r) > MaxThemeRunes {
		theme = strings.TrimSpace(string(r[:MaxThemeRunes]))
	}
	return theme
}

// countThemes orders by frequency, then by most recent appearance.
func countThemes(newestFirst []string) []ThemeCount {
	counts := map[string]int{}
	firstSeen := map[string]int{}
	for i, t := range newestFirst {
		if _, ok := firstSeen[t]; !ok {
			firstSeen[t] = i
		}
		counts[t]++
	}
	out := make([]ThemeCount, 0, len(counts))
	for t, c := range counts {
		out = append(out, ThemeCount{Theme: t, Count: c})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return firstSeen[out[i].Theme] < firstSeen[out[j].Theme]
	})
	return out
}
