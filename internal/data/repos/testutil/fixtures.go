package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/kidverse/jigcraft-backend/internal/domain/assets"
)

func SeedSnapshot(tb testing.TB, ctx context.Context, tx *gorm.DB, draftOrLive types.DraftOrLive) *types.AssetData {
	tb.Helper()
	d := &types.AssetData{
		ID:                    uuid.New(),
		DraftOrLive:           draftOrLive,
		DisplayName:           "snapshot",
		Language:              "en",
		TranslatedName:        datatypes.JSON([]byte(`{}`)),
		TranslatedDescription: datatypes.JSON([]byte(`{}`)),
		AudioFeedbackPositive: datatypes.JSON([]byte(`[]`)),
		AudioFeedbackNegative: datatypes.JSON([]byte(`[]`)),
		PrivacyLevel:          types.PrivacyUnlisted,
	}
	if err := tx.WithContext(ctx).Create(d).Error; err != nil {
		tb.Fatalf("seed snapshot: %v", err)
	}
	return d
}

func SeedAsset(tb testing.TB, ctx context.Context, tx *gorm.DB, authorID uuid.UUID) *types.Asset {
	tb.Helper()
	draft := SeedSnapshot(tb, ctx, tx, types.Draft)
	live := SeedSnapshot(tb, ctx, tx, types.Live)
	a := &types.Asset{
		ID:        uuid.New(),
		CreatorID: authorID,
		AuthorID:  authorID,
		DraftID:   draft.ID,
		LiveID:    live.ID,
		Parents:   datatypes.JSON([]byte(`[]`)),
	}
	if err := tx.WithContext(ctx).Create(a).Error; err != nil {
		tb.Fatalf("seed asset: %v", err)
	}
	return a
}

func SeedModule(tb testing.TB, ctx context.Context, tx *gorm.DB, dataID uuid.UUID, index int, kind types.ModuleKind) *types.AssetDataModule {
	tb.Helper()
	now := time.Now().UTC()
	m := &types.AssetDataModule{
		ID:          uuid.New(),
		AssetDataID: dataID,
		StableID:    uuid.New(),
		Kind:        kind,
		Index:       index,
		Contents:    datatypes.JSON([]byte(`{}`)),
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := tx.WithContext(ctx).Create(m).Error; err != nil {
		tb.Fatalf("seed module: %v", err)
	}
	return m
}

func SeedAuthorCounts(tb testing.TB, ctx context.Context, tx *gorm.DB, userID uuid.UUID) {
	tb.Helper()
	if err := tx.WithContext(ctx).Create(&types.UserAssetData{UserID: userID}).Error; err != nil {
		tb.Fatalf("seed author counts: %v", err)
	}
}

func PtrUUID(v uuid.UUID) *uuid.UUID { return &v }

func PtrTime(v time.Time) *time.Time { return &v }
