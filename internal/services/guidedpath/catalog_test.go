package guidedpath

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos/testutil"
	"github.com/rafiki-work/rafiki-backend/internal/platform/apierr"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
)

func TestCatalogVisibility(t *testing.T) {
	env := newTestEnv(t, nil)
	other := uuid.New()
	global := env.seedModule(t, nil, "Breathing Reset", testutil.SimpleSteps(2))
	own := env.seedModule(t, &env.orgID, "Our Module", testutil.SimpleSteps(2))
	foreign := env.seedModule(t, &other, "Their Module", testutil.SimpleSteps(2))

	list, err := env.catalog.List(env.member(), true)
	require.NoError(t, err)
	ids := []uuid.UUID{}
	for _, m := range list {
		ids = append(ids, m.ID)
	}
	assert.ElementsMatch(t, []uuid.UUID{global.ID, own.ID}, ids)

	detail, err := env.catalog.Get(env.member(), own.ID)
	require.NoError(t, err)
	assert.Len(t, detail.Steps, 2)
	assert.False(t, detail.IsGlobal)

	_, err = env.catalog.Get(env.member(), foreign.ID)
	assert.ErrorIs(t, err, ErrModuleNotFound)

	_, err = env.catalog.List(dbctx.Background(), true)
	assert.True(t, apierr.Is(err, apierr.CodeUnauthorized))
}

func TestSuggestRanksAndRemembersThemes(t *testing.T) {
	env := newTestEnv(t, nil)
	box := testutil.SeedModule(t, env.member().Ctx, env.db, nil, "Box Breathing", "breathing_reset", testutil.SimpleSteps(2))
	testutil.SeedModule(t, env.member().Ctx, env.db, nil, "Burnout Check", "burnout_check", testutil.SimpleSteps(2))
	testutil.SeedModule(t, env.member().Ctx, env.db, nil, "Desk Stretch", "movement", testutil.SimpleSteps(2))

	res, err := env.catalog.Suggest(env.member(), SuggestQuery{Theme: ptr("breathing"), StressBand: ptr("high")})
	require.NoError(t, err)
	require.NotEmpty(t, res.Suggestions)
	assert.LessOrEqual(t, len(res.Suggestions), 3)
	assert.Equal(t, box.ID, res.Suggestions[0].ID)
	assert.Equal(t, "breathing", *res.Theme)

	_, err = env.catalog.Suggest(env.member(), SuggestQuery{Theme: ptr("Sleep")})
	require.NoError(t, err)
	_, err = env.catalog.Suggest(env.member(), SuggestQuery{Theme: ptr("breathing")})
	require.NoError(t, err)
	_, err = env.catalog.Suggest(env.member(), SuggestQuery{})
	require.NoError(t, err)

	themes, err := env.catalog.RecentThemes(env.member())
	require.NoError(t, err)
	assert.Equal(t, []ThemeCount{{Theme: "breathing", Count: 2}, {Theme: "sleep", Count: 1}}, themes)

	// Another user's memory is separate.
	stranger := env.as(uuid.New(), env.orgID, "employee")
	themes, err = env.catalog.RecentThemes(stranger)
	require.NoError(t, err)
	assert.Empty(t, themes)
}

func TestSuggestRejectsUnknownStressBand(t *testing.T) {
	env := newTestEnv(t, nil)
	_, err := env.catalog.Suggest(env.member(), SuggestQuery{StressBand: ptr("panic")})
	assert.ErrorIs(t, err, ErrInvalidStressBand)
	assert.True(t, apierr.Is(err, apierr.CodeValidation))
}

func TestSuggestRejectsNonPositiveAvailableTime(t *testing.T) {
	env := newTestEnv(t, nil)
	for _, v := range []int{0, -3} {
		_, err := env.catalog.Suggest(env.member(), SuggestQuery{AvailableTime: ptr(v)})
		assert.ErrorIs(t, err, ErrInvalidAvailableTime)
		assert.True(t, apierr.Is(err, apierr.CodeValidation))
	}
	_, err := env.catalog.Suggest(env.member(), SuggestQuery{AvailableTime: ptr(5)})
	assert.NoError(t, err)
}

func TestSuggestClampsRememberedTheme(t *testing.T) {
	env := newTestEnv(t, nil)
	long := strings.Repeat("É", MaxThemeRunes+40)
	_, err := env.catalog.Suggest(env.member(), SuggestQuery{Theme: ptr(long)})
	require.NoError(t, err)

	themes, err := env.catalog.RecentThemes(env.member())
	require.NoError(t, err)
	require.Len(t, themes, 1)
	assert.Equal(t, MaxThemeRunes, utf8.RuneCountInString(themes[0].Theme))
	assert.Equal(t, strings.Repeat("é", MaxThemeRunes), themes[0].Theme)
}

func TestSuggestEmptyCatalog(t *testing.T) {
	env := newTestEnv(t, nil)
	res, err := env.catalog.Suggest(env.member(), SuggestQuery{Theme: ptr("sleep")})
	require.NoError(t, err)
	assert.NotNil(t, res.Suggestions)
	assert.Empty(t, res.Suggestions)
}

func TestCountThemesOrdering(t *testing.T) {
	got := countThemes([]string{"sleep", "money", "grief", "money", "sleep"})
	assert.Equal(t, []ThemeCount{
		{Theme: "sleep", Count: 2},
		{Theme: "money", Count: 2},
		{Theme: "grief", Count: 1},
	}, got)
	assert.Empty(t, countThemes(nil))
}
