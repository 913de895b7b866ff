package assets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	types "github.com/kidverse/jigcraft-backend/internal/domain/assets"
	"github.com/kidverse/jigcraft-backend/internal/platform/logger"
)

// ModuleRepo keeps module index values dense and zero-based within one
// snapshot across insert, move and delete.
type ModuleRepo interface {
	// Insert appends the module at index = current count of the snapshot.
	Insert(ctx context.Context, tx *gorm.DB, dataID uuid.UUID, kind types.ModuleKind, contents datatypes.JSON, isComplete bool) (*types.AssetDataModule, error)

	// GetForAsset resolves a module through the owning asset's draft or
	// live pointer, so a live module id yields nothing when queried as
	// draft. Returns nil (not an error) when absent.
	GetForAsset(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, draftOrLive types.DraftOrLive) (*types.AssetDataModule, error)

	GetBySnapshot(ctx context.Context, tx *gorm.DB, dataID, moduleID uuid.UUID) (*types.AssetDataModule, error)
	ListBySnapshot(ctx context.Context, tx *gorm.DB, dataID uuid.UUID) ([]*types.AssetDataModule, error)
	Count(ctx context.Context, tx *gorm.DB, dataID uuid.UUID) (int64, error)

	// UpdateFields partially updates the module row; reports whether the
	// module existed in the snapshot.
	UpdateFields(ctx context.Context, tx *gorm.DB, dataID, moduleID uuid.UUID, updates map[string]interface{}) (bool, error)

	// Move reindexes the module to newIndex, clamped to [0, count-1].
	// Displaced neighbors get updated_at refreshed; the moved module's own
	// timestamp is left to the accompanying content update.
	Move(ctx context.Context, tx *gorm.DB, dataID, moduleID uuid.UUID, newIndex int) (bool, error)

	// Delete removes the module and closes the index gap. Returns the
	// freed index, or nil when the module did not exist.
	Delete(ctx context.Context, tx *gorm.DB, dataID, moduleID uuid.UUID) (*int, error)
}

type moduleRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewModuleRepo(db *gorm.DB, baseLog *logger.Logger) ModuleRepo {
	return &moduleRepo{db: db, log: baseLog.With("repo", "ModuleRepo")}
}

func (r *moduleRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db
	}
	return tx
}

func (r *moduleRepo) Insert(ctx context.Context, tx *gorm.DB, dataID uuid.UUID, kind types.ModuleKind, contents datatypes.JSON, isComplete bool) (*types.AssetDataModule, error) {
	t := r.resolve(tx)

	count, err := r.Count(ctx, t, dataID)
	if err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	row := &types.AssetDataModule{
		ID:          uuid.New(),
		AssetDataID: dataID,
		StableID:    uuid.New(),
		Kind:        kind,
		Index:       int(count),
		Contents:    contents,
		IsComplete:  isComplete,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, mapError(err)
	}
	return row, nil
}

func (r *moduleRepo) GetForAsset(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, draftOrLive types.DraftOrLive) (*types.AssetDataModule, error) {
	t := r.resolve(tx)

	join := "INNER JOIN asset ON asset.draft_id = asset_data_module.asset_data_id"
	if draftOrLive == types.Live {
		join = "INNER JOIN asset ON asset.live_id = asset_data_module.asset_data_id"
	}

	var out types.AssetDataModule
	err := t.WithContext(ctx).
		Joins(join).
		Where("asset_data_module.id = ?", moduleID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *moduleRepo) GetBySnapshot(ctx context.Context, tx *gorm.DB, dataID, moduleID uuid.UUID) (*types.AssetDataModule, error) {
	t := r.resolve(tx)
	var out types.AssetDataModule
	err := t.WithContext(ctx).
		Where("asset_data_id = ? AND id = ?", dataID, moduleID).
		Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *moduleRepo) ListBySnapshot(ctx context.Context, tx *gorm.DB, dataID uuid.UUID) ([]*types.AssetDataModule, error) {
	t := r.resolve(tx)
	var out []*types.AssetDataModule
	if err := t.WithContext(ctx).
		Where("asset_data_id = ?", dataID).
		Order(`"index" ASC`).
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *moduleRepo) Count(ctx context.Context, tx *gorm.DB, dataID uuid.UUID) (int64, error) {
	t := r.resolve(tx)
	var n int64
	if err := t.WithContext(ctx).
		Model(&types.AssetDataModule{}).
		Where("asset_data_id = ?", dataID).
		Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (r *moduleRepo) UpdateFields(ctx context.Context, tx *gorm.DB, dataID, moduleID uuid.UUID, updates map[string]interface{}) (bool, error) {
	t := r.resolve(tx)
	if len(updates) == 0 {
		existing, err := r.GetBySnapshot(ctx, t, dataID, moduleID)
		if err != nil {
			return false, err
		}
		return existing != nil, nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	res := t.WithContext(ctx).
		Model(&types.AssetDataModule{}).
		Where("asset_data_id = ? AND id = ?", dataID, moduleID).
		Updates(updates)
	if res.Error != nil {
		return false, mapError(res.Error)
	}
	return res.RowsAffected > 0, nil
}

func (r *moduleRepo) Move(ctx context.Context, tx *gorm.DB, dataID, moduleID uuid.UUID, newIndex int) (bool, error) {
	t := r.resolve(tx)

	current, err := r.GetBySnapshot(ctx, t, dataID, moduleID)
	if err != nil {
		return false, err
	}
	if current == nil {
		return false, nil
	}

	count, err := r.Count(ctx, t, dataID)
	if err != nil {
		return false, err
	}
	if newIndex < 0 {
		newIndex = 0
	}
	if max := int(count) - 1; newIndex > max {
		newIndex = max
	}

	switch {
	case newIndex < current.Index:
		// shift [newIndex, current-1] up by one
		if err := t.WithContext(ctx).Exec(`
			UPDATE asset_data_module
			SET "index" = "index" + 1, updated_at = now()
			WHERE asset_data_id = ? AND "index" >= ? AND "index" < ?`,
			dataID, newIndex, current.Index).Error; err != nil {
			return false, mapError(err)
		}
	case newIndex > current.Index:
		// shift [current+1, newIndex] down by one
		if err := t.WithContext(ctx).Exec(`
			UPDATE asset_data_module
			SET "index" = "index" - 1, updated_at = now()
			WHERE asset_data_id = ? AND "index" > ? AND "index" <= ?`,
			dataID, current.Index, newIndex).Error; err != nil {
			return false, mapError(err)
		}
	default:
		return true, nil
	}

	if err := t.WithContext(ctx).Exec(`
		UPDATE asset_data_module
		SET "index" = ?
		WHERE asset_data_id = ? AND id = ?`,
		newIndex, dataID, moduleID).Error; err != nil {
		return false, mapError(err)
	}
	return true, nil
}

func (r *moduleRepo) Delete(ctx context.Context, tx *gorm.DB, dataID, moduleID uuid.UUID) (*int, error) {
	t := r.resolve(tx)

	existing, err := r.GetBySnapshot(ctx, t, dataID, moduleID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, nil
	}

	if err := t.WithContext(ctx).
		Where("asset_data_id = ? AND id = ?", dataID, moduleID).
		Delete(&types.AssetDataModule{}).Error; err != nil {
		return nil, mapError(err)
	}

	if err := t.WithContext(ctx).Exec(`
		UPDATE asset_data_module
		SET "index" = "index" - 1
		WHERE asset_data_id = ? AND "index" > ?`,
		dataID, existing.Index).Error; err != nil {
		return nil, mapError(err)
	}

	freed := existing.Index
	return &freed, nil
}
