package assets_test

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"gorm.io/datatypes"

	repos "github.com/kidverse/jigcraft-backend/internal/data/repos/assets"
	"github.com/kidverse/jigcraft-backend/internal/data/repos/testutil"
	types "github.com/kidverse/jigcraft-backend/internal/domain/assets"
)

func newDataRepo(t *testing.T) repos.AssetDataRepo {
	t.Helper()
	return repos.NewAssetDataRepo(testutil.DB(t), testutil.Logger(t))
}

func TestAssetDataCloneCopiesEverything(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newDataRepo(t)
	moduleRepo := newModuleRepo(t)

	source := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	m0 := testutil.SeedModule(t, ctx, tx, source.ID, 0, types.KindCover)
	m1 := testutil.SeedModule(t, ctx, tx, source.ID, 1, types.KindFlashcards)

	categoryID := uuid.New()
	if err := repo.RecycleMetadata(ctx, tx, source.ID, types.MetadataCategory, []uuid.UUID{categoryID}); err != nil {
		t.Fatalf("attach category: %v", err)
	}
	ageRangeID := uuid.New()
	if err := repo.RecycleMetadata(ctx, tx, source.ID, types.MetadataAgeRange, []uuid.UUID{ageRangeID}); err != nil {
		t.Fatalf("attach age range: %v", err)
	}
	if _, err := repo.CreateResource(ctx, tx, &types.AssetDataResource{
		AssetDataID:     source.ID,
		ResourceTypeID:  uuid.New(),
		DisplayName:     "worksheet",
		ResourceContent: datatypes.JSON([]byte(`{"link":"https://example.com"}`)),
	}); err != nil {
		t.Fatalf("attach resource: %v", err)
	}

	cloneID, err := repo.Clone(ctx, tx, source.ID, types.Live, repos.IdentityMapper{})
	if err != nil {
		t.Fatalf("clone: %v", err)
	}
	if cloneID == source.ID {
		t.Fatalf("expected the clone to get a fresh id")
	}

	clone, err := repo.GetByID(ctx, tx, cloneID)
	if err != nil {
		t.Fatalf("load clone: %v", err)
	}
	if clone == nil {
		t.Fatalf("expected clone row to exist")
	}
	if clone.DraftOrLive != types.Live {
		t.Fatalf("expected clone to be live, got %v", clone.DraftOrLive)
	}
	if clone.DisplayName != source.DisplayName {
		t.Fatalf("expected display name %q, got %q", source.DisplayName, clone.DisplayName)
	}

	modules, err := moduleRepo.ListBySnapshot(ctx, tx, cloneID)
	if err != nil {
		t.Fatalf("list cloned modules: %v", err)
	}
	if len(modules) != 2 {
		t.Fatalf("expected 2 cloned modules, got %d", len(modules))
	}
	// identity mapping keeps stable ids, fresh row ids, same order
	if modules[0].StableID != m0.StableID || modules[1].StableID != m1.StableID {
		t.Fatalf("expected stable ids to carry over under identity mapping")
	}
	if modules[0].ID == m0.ID || modules[1].ID == m1.ID {
		t.Fatalf("expected cloned modules to get fresh row ids")
	}

	categories, err := repo.GetMetadata(ctx, tx, cloneID, types.MetadataCategory)
	if err != nil {
		t.Fatalf("load cloned categories: %v", err)
	}
	if len(categories) != 1 || categories[0] != categoryID {
		t.Fatalf("expected category %s on the clone, got %v", categoryID, categories)
	}
	ageRanges, err := repo.GetMetadata(ctx, tx, cloneID, types.MetadataAgeRange)
	if err != nil {
		t.Fatalf("load cloned age ranges: %v", err)
	}
	if len(ageRanges) != 1 || ageRanges[0] != ageRangeID {
		t.Fatalf("expected age range %s on the clone, got %v", ageRangeID, ageRanges)
	}
	resources, err := repo.GetResources(ctx, tx, cloneID)
	if err != nil {
		t.Fatalf("load cloned resources: %v", err)
	}
	if len(resources) != 1 || resources[0].DisplayName != "worksheet" {
		t.Fatalf("expected the resource to be copied, got %v", resources)
	}
}

func TestAssetDataCloneWithRecordingAndLookup(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newDataRepo(t)
	moduleRepo := newModuleRepo(t)

	draft := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	live := testutil.SeedSnapshot(t, ctx, tx, types.Live)
	d0 := testutil.SeedModule(t, ctx, tx, draft.ID, 0, types.KindCover)
	// live module shares the draft module's stable id, as after a publish
	l0 := testutil.SeedModule(t, ctx, tx, live.ID, 0, types.KindCover)
	if err := tx.WithContext(ctx).Model(l0).Update("stable_id", d0.StableID).Error; err != nil {
		t.Fatalf("align stable ids: %v", err)
	}

	recorder := repos.NewRecordingMapper()
	newDraftID, err := repo.Clone(ctx, tx, draft.ID, types.Draft, recorder)
	if err != nil {
		t.Fatalf("clone draft: %v", err)
	}
	newLiveID, err := repo.Clone(ctx, tx, live.ID, types.Live, repos.LookupMapper{Mapping: recorder.Mapping})
	if err != nil {
		t.Fatalf("clone live: %v", err)
	}

	newDraftModules, err := moduleRepo.ListBySnapshot(ctx, tx, newDraftID)
	if err != nil {
		t.Fatalf("list new draft modules: %v", err)
	}
	newLiveModules, err := moduleRepo.ListBySnapshot(ctx, tx, newLiveID)
	if err != nil {
		t.Fatalf("list new live modules: %v", err)
	}
	if len(newDraftModules) != 1 || len(newLiveModules) != 1 {
		t.Fatalf("expected one module per cloned snapshot")
	}
	if newDraftModules[0].StableID == d0.StableID {
		t.Fatalf("expected the forked draft module to get a new stable id")
	}
	if newLiveModules[0].StableID != newDraftModules[0].StableID {
		t.Fatalf("expected forked draft and live modules to share the remapped stable id")
	}
}

func TestRecycleMetadataReplacesSet(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newDataRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	first := uuid.New()
	second := uuid.New()

	if err := repo.RecycleMetadata(ctx, tx, snap.ID, types.MetadataCategory, []uuid.UUID{first}); err != nil {
		t.Fatalf("first recycle: %v", err)
	}
	if err := repo.RecycleMetadata(ctx, tx, snap.ID, types.MetadataCategory, []uuid.UUID{second}); err != nil {
		t.Fatalf("second recycle: %v", err)
	}

	got, err := repo.GetMetadata(ctx, tx, snap.ID, types.MetadataCategory)
	if err != nil {
		t.Fatalf("get metadata: %v", err)
	}
	if len(got) != 1 || got[0] != second {
		t.Fatalf("expected only %s after replace, got %v", second, got)
	}

	if err := repo.RecycleMetadata(ctx, tx, snap.ID, types.MetadataCategory, nil); err != nil {
		t.Fatalf("clearing recycle: %v", err)
	}
	got, err = repo.GetMetadata(ctx, tx, snap.ID, types.MetadataCategory)
	if err != nil {
		t.Fatalf("get metadata after clear: %v", err)
	}
	if len(got) != 0 {
		t.Fatalf("expected empty set after clearing, got %v", got)
	}
}

func TestFullDeleteRemovesScopedRows(t *testing.T) {
	gdb := testutil.DB(t)
	tx := testutil.Tx(t, gdb)
	ctx := context.Background()
	repo := newDataRepo(t)
	moduleRepo := newModuleRepo(t)

	snap := testutil.SeedSnapshot(t, ctx, tx, types.Draft)
	testutil.SeedModule(t, ctx, tx, snap.ID, 0, types.KindCover)
	if err := repo.RecycleMetadata(ctx, tx, snap.ID, types.MetadataAffiliation, []uuid.UUID{uuid.New()}); err != nil {
		t.Fatalf("attach affiliation: %v", err)
	}

	if err := repo.FullDeleteByID(ctx, tx, snap.ID); err != nil {
		t.Fatalf("full delete: %v", err)
	}

	got, err := repo.GetByID(ctx, tx, snap.ID)
	if err != nil {
		t.Fatalf("get deleted snapshot: %v", err)
	}
	if got != nil {
		t.Fatalf("expected snapshot row to be gone")
	}
	n, err := moduleRepo.Count(ctx, tx, snap.ID)
	if err != nil {
		t.Fatalf("count modules: %v", err)
	}
	if n != 0 {
		t.Fatalf("expected no modules left, got %d", n)
	}
}
