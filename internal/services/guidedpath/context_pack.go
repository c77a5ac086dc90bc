package guidedpath

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos"
	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/logger"
)

const defaultLanguage = "en"

type SessionVars struct {
	Language      *string
	StressBand    *string
	ThemeCategory *string
	AvailableTime *int
}

type ContextPackBuilder interface {
	// Build never fails for missing profiles; absent blocks degrade to nulls.
	Build(dbc dbctx.Context, orgID uuid.UUID, roleKey *string, vars SessionVars) (types.ContextPack, error)
}

type contextPackBuilder struct {
	log   *logger.Logger
	orgs  repos.OrgProfileRepo
	roles repos.RoleProfileRepo
}

func NewContextPackBuilder(baseLog *logger.Logger, orgs repos.OrgProfileRepo, roles repos.RoleProfileRepo) ContextPackBuilder {
	return &contextPackBuilder{
		log:   baseLog.With("service", "ContextPackBuilder"),
		orgs:  orgs,
		roles: roles,
	}
}

func (b *contextPackBuilder) Build(dbc dbctx.Context, orgID uuid.UUID, roleKey *string, vars SessionVars) (types.ContextPack, error) {
	var (
		org  *types.OrgProfile
		role *types.RoleProfile
	)
	key := ""
	if roleKey != nil {
		key = strings.TrimSpace(*roleKey)
	}

	fetchOrg := func(c dbctx.Context) error {
		var err error
		org, err = b.orgs.GetByOrgID(c, orgID)
		if err != nil {
			return fmt.Errorf("load org profile: %w", err)
		}
		return nil
	}
	fetchRole := func(c dbctx.Context) error {
		if key == "" {
			return nil
		}
		var err error
		role, err = b.roles.GetByKey(c, orgID, key)
		if err != nil {
			return fmt.Errorf("load role profile: %w", err)
		}
		return nil
	}

	// A transaction is a single connection; only fan out without one.
	if dbc.Tx != nil {
		if err := fetchOrg(dbc); err != nil {
			return types.ContextPack{}, err
		}
		if err := fetchRole(dbc); err != nil {
			return types.ContextPack{}, err
		}
	} else {
		ctx := dbc.Ctx
		if ctx == nil {
			ctx = context.Background()
		}
		g, gctx := errgroup.WithContext(ctx)
		inner := dbctx.Context{Ctx: gctx}
		g.Go(func() error { return fetchOrg(inner) })
		g.Go(func() error { return fetchRole(inner) })
		if err := g.Wait(); err != nil {
			return types.ContextPack{}, err
		}
	}

	pack := types.ContextPack{
		Org:  types.OrgBlock{BenefitsTags: []string{}},
		Role: types.RoleBlock{StressorProfile: []string{}},
		Session: types.SessionBlock{
			Language:      defaultLanguage,
			StressBand:    vars.StressBand,
			ThemeCategory: vars.ThemeCategory,
			AvailableTime: vars.AvailableTime,
		},
	}
	if vars.Language != nil && strings.TrimSpace(*vars.Language) != "" {
		pack.Session.Language = strings.TrimSpace(*vars.Language)
	}
	if org != nil {
		pack.Org.Purpose = org.OrgPurpose
		pack.Org.Industry = org.Industry
		pack.Org.WorkEnvironment = org.WorkEnvironment
		if len(org.BenefitsTags) > 0 {
			pack.Org.BenefitsTags = append([]string(nil), org.BenefitsTags...)
		}
	}
	if role != nil {
		pack.Role.Family = role.RoleFamily
		pack.Role.SeniorityBand = role.SeniorityBand
		pack.Role.WorkPattern = role.WorkPattern
		if len(role.StressorProfile) > 0 {
			pack.Role.StressorProfile = append([]string(nil), role.StressorProfile...)
		}
	} else if key != "" {
		b.log.Debug("role profile not found; using defaults", "org_id", orgID, "role_key", key)
	}
	return pack, nil
}
