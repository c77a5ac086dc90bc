package guidedpath

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
)

func TestContextPackDefaults(t *testing.T) {
	env := newTestEnv(t, nil)
	pack, err := env.packs.Build(dbctx.Context{Ctx: context.Background()}, env.orgID, ptr("nurse"), SessionVars{})
	require.NoError(t, err)

	assert.Nil(t, pack.Org.Purpose)
	assert.Equal(t, []string{}, pack.Org.BenefitsTags)
	assert.Nil(t, pack.Role.Family)
	assert.Equal(t, []string{}, pack.Role.StressorProfile)
	assert.Equal(t, "en", pack.Session.Language)
	assert.Nil(t, pack.Session.StressBand)
	assert.Nil(t, pack.Session.AvailableTime)
}

func TestContextPackFromProfiles(t *testing.T) {
	env := newTestEnv(t, nil)
	dbc := dbctx.Context{Ctx: context.Background()}
	_, err := env.orgs.Create(dbc, &types.OrgProfile{
		OrgID:           env.orgID,
		OrgPurpose:      ptr("Care for every patient"),
		Industry:        ptr("healthcare"),
		WorkEnvironment: ptr("on-site"),
		BenefitsTags:    []string{"eap", "gym"},
	})
	require.NoError(t, err)
	_, err = env.roles.Create(dbc, &types.RoleProfile{
		OrgID:           env.orgID,
		RoleKey:         "nurse",
		RoleFamily:      ptr("clinical"),
		SeniorityBand:   ptr("individual_contributor"),
		WorkPattern:     ptr("night_shift"),
		StressorProfile: []string{"high_emotional_labor"},
	})
	require.NoError(t, err)

	vars := SessionVars{Language: ptr("sw"), StressBand: ptr("high"), ThemeCategory: ptr("sleep"), AvailableTime: ptr(5)}
	pack, err := env.packs.Build(dbc, env.orgID, ptr("nurse"), vars)
	require.NoError(t, err)

	assert.Equal(t, "healthcare", *pack.Org.Industry)
	assert.Equal(t, []string{"eap", "gym"}, pack.Org.BenefitsTags)
	assert.Equal(t, "night_shift", *pack.Role.WorkPattern)
	assert.Equal(t, []string{"high_emotional_labor"}, pack.Role.StressorProfile)
	assert.Equal(t, "sw", pack.Session.Language)
	assert.Equal(t, 5, *pack.Session.AvailableTime)

	// No role key: role block stays empty even though a profile exists.
	pack, err = env.packs.Build(dbc, env.orgID, nil, SessionVars{})
	require.NoError(t, err)
	assert.Nil(t, pack.Role.WorkPattern)
	assert.Equal(t, "healthcare", *pack.Org.Industry)
}
