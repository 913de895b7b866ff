package assets_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	repos "github.com/kidverse/jigcraft-backend/internal/data/repos/assets"
	"github.com/kidverse/jigcraft-backend/internal/data/repos/testutil"
	types "github.com/kidverse/jigcraft-backend/internal/domain/assets"
)

func newModuleRepo(t *testing.T) repos.ModuleRepo {
	t.Helper()
	return repos.NewModuleRepo(testutil.DB(t), testutil.Logger(t))
}

func assertOrder(t *testing.T, ctx context.Context, tx *gorm.DB, repo repos.ModuleRepo, dataID uuid.UUID, want []uuid.UUID) {
	t.Helper()
	got, err := repo.ListBySnapshot(ctx, tx, dataID)
	if err != nil {
		t.Fatalf("list modules: %v", err)
	}
	if len(got) != len(want) {
		t.Fatalf("expected %d modules, got %d", len(want), len(got))
	}
	for i, m := range got {
		if m.Index != i {
			t.Fatalf("expected dense indices, got index %d at position %d", m.Index, i)
		}
		if m.ID != want[i] {
			t.Fatalf("position %d: expected module %s, got %s", i, want[i], m.ID)
		}
	}
}

func TestModuleRepoInsertAppends(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newModuleRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)

	first, err := repo.Insert(ctx, tx, snap.ID, types.KindCover, datatypes.JSON([]byte(`{}`)), false)
	if err != nil {
		t.Fatalf("insert first: %v", err)
	}
	if first.Index != 0 {
		t.Fatalf("expected first module at index 0, got %d", first.Index)
	}
	if first.StableID == uuid.Nil {
		t.Fatalf("expected a stable id to be assigned")
	}

	second, err := repo.Insert(ctx, tx, snap.ID, types.KindFlashcards, datatypes.JSON([]byte(`{}`)), false)
	if err != nil {
		t.Fatalf("insert second: %v", err)
	}
	if second.Index != 1 {
		t.Fatalf("expected second module at index 1, got %d", second.Index)
	}

	assertOrder(t, ctx, tx, repo, snap.ID, []uuid.UUID{first.ID, second.ID})
}

func TestModuleRepoDeleteClosesGap(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newModuleRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	a := testutil.SeedModule(t, ctx, tx, snap.ID, 0, types.KindCover)
	b := testutil.SeedModule(t, ctx, tx, snap.ID, 1, types.KindFlashcards)
	c := testutil.SeedModule(t, ctx, tx, snap.ID, 2, types.KindMemory)

	freed, err := repo.Delete(ctx, tx, snap.ID, b.ID)
	if err != nil {
		t.Fatalf("delete: %v", err)
	}
	if freed == nil || *freed != 1 {
		t.Fatalf("expected freed index 1, got %v", freed)
	}

	assertOrder(t, ctx, tx, repo, snap.ID, []uuid.UUID{a.ID, c.ID})
}

func TestModuleRepoDeleteMissingIsNoop(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newModuleRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	a := testutil.SeedModule(t, ctx, tx, snap.ID, 0, types.KindCover)

	freed, err := repo.Delete(ctx, tx, snap.ID, uuid.New())
	if err != nil {
		t.Fatalf("delete missing: %v", err)
	}
	if freed != nil {
		t.Fatalf("expected nil freed index for a missing module, got %v", freed)
	}
	assertOrder(t, ctx, tx, repo, snap.ID, []uuid.UUID{a.ID})
}

func TestModuleRepoMoveTowardFront(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newModuleRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	a := testutil.SeedModule(t, ctx, tx, snap.ID, 0, types.KindCover)
	b := testutil.SeedModule(t, ctx, tx, snap.ID, 1, types.KindFlashcards)
	c := testutil.SeedModule(t, ctx, tx, snap.ID, 2, types.KindMemory)
	d := testutil.SeedModule(t, ctx, tx, snap.ID, 3, types.KindPoster)

	found, err := repo.Move(ctx, tx, snap.ID, d.ID, 0)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !found {
		t.Fatalf("expected moved module to be found")
	}
	assertOrder(t, ctx, tx, repo, snap.ID, []uuid.UUID{d.ID, a.ID, b.ID, c.ID})
}

func TestModuleRepoMoveTowardBack(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newModuleRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	a := testutil.SeedModule(t, ctx, tx, snap.ID, 0, types.KindCover)
	b := testutil.SeedModule(t, ctx, tx, snap.ID, 1, types.KindFlashcards)
	c := testutil.SeedModule(t, ctx, tx, snap.ID, 2, types.KindMemory)

	found, err := repo.Move(ctx, tx, snap.ID, a.ID, 2)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !found {
		t.Fatalf("expected moved module to be found")
	}
	assertOrder(t, ctx, tx, repo, snap.ID, []uuid.UUID{b.ID, c.ID, a.ID})
}

func TestModuleRepoMoveClampsOutOfRangeIndex(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newModuleRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	a := testutil.SeedModule(t, ctx, tx, snap.ID, 0, types.KindCover)
	b := testutil.SeedModule(t, ctx, tx, snap.ID, 1, types.KindFlashcards)
	c := testutil.SeedModule(t, ctx, tx, snap.ID, 2, types.KindMemory)

	found, err := repo.Move(ctx, tx, snap.ID, a.ID, 9999)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !found {
		t.Fatalf("expected moved module to be found")
	}
	assertOrder(t, ctx, tx, repo, snap.ID, []uuid.UUID{b.ID, c.ID, a.ID})

	found, err = repo.Move(ctx, tx, snap.ID, a.ID, -5)
	if err != nil {
		t.Fatalf("move negative: %v", err)
	}
	if !found {
		t.Fatalf("expected moved module to be found")
	}
	assertOrder(t, ctx, tx, repo, snap.ID, []uuid.UUID{a.ID, b.ID, c.ID})
}

func TestModuleRepoMoveSameIndexIsNoop(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newModuleRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	a := testutil.SeedModule(t, ctx, tx, snap.ID, 0, types.KindCover)
	b := testutil.SeedModule(t, ctx, tx, snap.ID, 1, types.KindFlashcards)

	found, err := repo.Move(ctx, tx, snap.ID, b.ID, 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !found {
		t.Fatalf("expected module to be found")
	}
	assertOrder(t, ctx, tx, repo, snap.ID, []uuid.UUID{a.ID, b.ID})
}

func TestModuleRepoMoveScopedToSnapshot(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newModuleRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	other := testutil.SeedSnapshot(t, ctx, tx, types.Live)
	a := testutil.SeedModule(t, ctx, tx, snap.ID, 0, types.KindCover)
	b := testutil.SeedModule(t, ctx, tx, snap.ID, 1, types.KindFlashcards)
	x := testutil.SeedModule(t, ctx, tx, other.ID, 0, types.KindCover)
	y := testutil.SeedModule(t, ctx, tx, other.ID, 1, types.KindMemory)

	found, err := repo.Move(ctx, tx, snap.ID, a.ID, 1)
	if err != nil {
		t.Fatalf("move: %v", err)
	}
	if !found {
		t.Fatalf("expected module to be found")
	}
	assertOrder(t, ctx, tx, repo, snap.ID, []uuid.UUID{b.ID, a.ID})
	// the sibling snapshot's ordering is untouched
	assertOrder(t, ctx, tx, repo, other.ID, []uuid.UUID{x.ID, y.ID})
}

func TestModuleRepoUpdateFieldsReportsExistence(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newModuleRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	m := testutil.SeedModule(t, ctx, tx, snap.ID, 0, types.KindCover)

	found, err := repo.UpdateFields(ctx, tx, snap.ID, m.ID, map[string]interface{}{"is_complete": true})
	if err != nil {
		t.Fatalf("update: %v", err)
	}
	if !found {
		t.Fatalf("expected update to report the module exists")
	}

	got, err := repo.GetBySnapshot(ctx, tx, snap.ID, m.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got == nil || !got.IsComplete {
		t.Fatalf("expected is_complete to be persisted")
	}

	found, err = repo.UpdateFields(ctx, tx, snap.ID, uuid.New(), map[string]interface{}{"is_complete": true})
	if err != nil {
		t.Fatalf("update missing: %v", err)
	}
	if found {
		t.Fatalf("expected update of a missing module to report false")
	}
}

func TestModuleRepoGetForAssetRespectsPointer(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newModuleRepo(t)

	asset := testutil.SeedAsset(t, ctx, tx, uuid.New())
	draftModule := testutil.SeedModule(t, ctx, tx, asset.DraftID, 0, types.KindCover)
	liveModule := testutil.SeedModule(t, ctx, tx, asset.LiveID, 0, types.KindCover)

	got, err := repo.GetForAsset(ctx, tx, draftModule.ID, types.Draft)
	if err != nil {
		t.Fatalf("get draft module: %v", err)
	}
	if got == nil || got.ID != draftModule.ID {
		t.Fatalf("expected to resolve the draft module")
	}

	got, err = repo.GetForAsset(ctx, tx, draftModule.ID, types.Live)
	if err != nil {
		t.Fatalf("get draft module as live: %v", err)
	}
	if got != nil {
		t.Fatalf("expected a draft module to be invisible through the live pointer")
	}

	got, err = repo.GetForAsset(ctx, tx, liveModule.ID, types.Live)
	if err != nil {
		t.Fatalf("get live module: %v", err)
	}
	if got == nil || got.ID != liveModule.ID {
		t.Fatalf("expected to resolve the live module")
	}
}
