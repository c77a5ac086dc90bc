package wellbeing

import (
	"context"
	"testing"

	"github.com/google/uuid"

	"github.com/rafiki-work/rafiki-backend/internal/data/repos/testutil"
	types "github.com/rafiki-work/rafiki-backend/internal/domain"
	"github.com/rafiki-work/rafiki-backend/internal/platform/dbctx"
)

func TestGuidedPathSessionRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	ctx := context.Background()
	dbc := dbctx.Context{Ctx: ctx, Tx: tx}
	repo := NewGuidedPathSessionRepo(db, testutil.Logger(t))

	user := uuid.New()
	org := uuid.New()
	mod := testutil.SeedModule(t, ctx, tx, nil, "Burnout Check", "burnout_check", testutil.SimpleSteps(3))
	sess := testutil.SeedSession(t, ctx, tx, user, org, mod)

	if got, err := repo.GetByID(dbc, sess.ID); err != nil || got == nil || len(got.ComposedSteps) != 3 {
		t.Fatalf("GetByID: got=%v err=%v", got, err)
	}
	if got, err := repo.GetOwned(dbc, sess.ID, user, org); err != nil || got == nil {
		t.Fatalf("GetOwned: got=%v err=%v", got, err)
	}
	if got, err := repo.GetOwned(dbc, sess.ID, uuid.New(), org); err != nil || got != nil {
		t.Fatalf("GetOwned other user: got=%v err=%v", got, err)
	}
	if got, err := repo.GetOwned(dbc, sess.ID, user, uuid.New()); err != nil || got != nil {
		t.Fatalf("GetOwned other org: got=%v err=%v", got, err)
	}

	answer := "tired"
	ok, err := repo.UpdateIfAt(dbc, sess.ID, 0, map[string]interface{}{
		"current_step": 1,
		"responses":    append(sess.Responses, types.SessionResponse{StepIndex: 0, Response: &answer}),
	})
	if err != nil || !ok {
		t.Fatalf("UpdateIfAt: ok=%v err=%v", ok, err)
	}
	ok, err = repo.UpdateIfAt(dbc, sess.ID, 0, map[string]interface{}{"current_step": 1})
	if err != nil || ok {
		t.Fatalf("stale UpdateIfAt: ok=%v err=%v", ok, err)
	}

	got, err := repo.GetByID(dbc, sess.ID)
	if err != nil || got.CurrentStep != 1 || len(got.Responses) != 1 || *got.Responses[0].Response != "tired" {
		t.Fatalf("after UpdateIfAt: got=%+v err=%v", got, err)
	}

	if err := repo.UpdateFields(dbc, sess.ID, map[string]interface{}{"status": types.SessionAbandoned}); err != nil {
		t.Fatalf("UpdateFields: %v", err)
	}
	ok, err = repo.UpdateIfAt(dbc, sess.ID, 1, map[string]interface{}{"current_step": 2})
	if err != nil || ok {
		t.Fatalf("UpdateIfAt on abandoned: ok=%v err=%v", ok, err)
	}
}
