package guidedpath

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos"
	"github.com/rafiki-work/rafiki-backend/internal/data/repos/testutil"
	"github.com/rafiki-work/rafiki-backend/internal/platform/ctxutil"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
	"github.com/rafiki-work/rafiki-backend/internal/platform/openai"
)

// fakeGenerator is a scripted text-generation backend.
type fakeGenerator struct {
	reply    string
	err      error
	block    bool
	calls    int
	lastUser string
}

func (f *fakeGenerator) GenerateText(ctx context.Context, system string, user string) (string, error) {
	f.calls++
	f.lastUser = user
	if f.block {
		<-ctx.Done()
		return "", ctx.Err()
	}
	return f.reply, f.err
}

var errBackendDown = errors.New("backend down")

type testEnv struct {
	db       *gorm.DB
	modules  repos.GuidedModuleRepo
	sessions repos.GuidedPathSessionRepo
	orgs     repos.OrgProfileRepo
	roles    repos.RoleProfileRepo
	topics   repos.UserTopicMemoryRepo
	packs    ContextPackBuilder
	engine   SessionEngine
	catalog  CatalogService
	admin    ModuleAdminService
	config   OrgConfigService

	userID uuid.UUID
	orgID  uuid.UUID
}

func newTestEnv(t *testing.T, gen openai.Client) *testEnv {
	t.Helper()
	db := testutil.DB(t)
	log := testutil.Logger(t)

	env := &testEnv{
		db:       db,
		modules:  repos.NewGuidedModuleRepo(db, log),
		sessions: repos.NewGuidedPathSessionRepo(db, log),
		orgs:     repos.NewOrgProfileRepo(db, log),
		roles:    repos.NewRoleProfileRepo(db, log),
		topics:   repos.NewUserTopicMemoryRepo(db, log),
		userID:   uuid.New(),
		orgID:    uuid.New(),
	}
	env.packs = NewContextPackBuilder(log, env.orgs, env.roles)
	composer := NewComposer(log, gen, 2*time.Second)
	env.engine = NewSessionEngine(log, env.modules, env.sessions, env.packs, composer)
	env.catalog = NewCatalogService(log, env.modules, NewTopicMemory(log, nil, env.topics, 5))
	env.admin = NewModuleAdminService(db, log, env.modules)
	env.config = NewOrgConfigService(log, env.orgs, env.roles)
	return env
}

func (e *testEnv) member() dbctx.Context {
	return e.as(e.userID, e.orgID, "employee")
}

func (e *testEnv) adminCtx() dbctx.Context {
	return e.as(e.userID, e.orgID, "hr_admin")
}

func (e *testEnv) as(userID, orgID uuid.UUID, role string) dbctx.Context {
	ctx := ctxutil.WithIdentity(context.Background(), &ctxutil.Identity{UserID: userID, OrgID: orgID, Role: role})
	return dbctx.Context{Ctx: ctx}
}

func ptr[T any](v T) *T { return &v }
