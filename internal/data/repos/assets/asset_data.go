package assets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	types "github.com/kidverse/jigcraft-backend/internal/domain/assets"
	errs "github.com/kidverse/jigcraft-backend/internal/pkg/errors"
	"github.com/kidverse/jigcraft-backend/internal/platform/logger"
)

type AssetDataRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.AssetData) (*types.AssetData, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssetData, error)
	UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error

	// FullDeleteByID removes a snapshot row together with every module and
	// metadata join row scoped to it.
	FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	// RecycleMetadata replaces one metadata-kind join set for a snapshot
	// with exactly ids. Idempotent for an unchanged set.
	RecycleMetadata(ctx context.Context, tx *gorm.DB, dataID uuid.UUID, kind types.MetadataKind, ids []uuid.UUID) error
	GetMetadata(ctx context.Context, tx *gorm.DB, dataID uuid.UUID, kind types.MetadataKind) ([]uuid.UUID, error)

	CreateResource(ctx context.Context, tx *gorm.DB, row *types.AssetDataResource) (*types.AssetDataResource, error)
	GetResources(ctx context.Context, tx *gorm.DB, dataID uuid.UUID) ([]*types.AssetDataResource, error)

	// Clone deep-copies a snapshot: attributes, ordered modules (stable ids
	// fed through mapper in index order) and metadata joins. It never
	// touches the owning asset's pointers.
	Clone(ctx context.Context, tx *gorm.DB, sourceID uuid.UUID, target types.DraftOrLive, mapper StableIDMapper) (uuid.UUID, error)
}

type assetDataRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetDataRepo(db *gorm.DB, baseLog *logger.Logger) AssetDataRepo {
	return &assetDataRepo{db: db, log: baseLog.With("repo", "AssetDataRepo")}
}

func (r *assetDataRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db
	}
	return tx
}

func (r *assetDataRepo) Create(ctx context.Context, tx *gorm.DB, row *types.AssetData) (*types.AssetData, error) {
	t := r.resolve(tx)
	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, mapError(err)
	}
	return row, nil
}

func (r *assetDataRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.AssetData, error) {
	t := r.resolve(tx)
	var out types.AssetData
	err := t.WithContext(ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assetDataRepo) UpdateFields(ctx context.Context, tx *gorm.DB, id uuid.UUID, updates map[string]interface{}) error {
	t := r.resolve(tx)
	if id == uuid.Nil || len(updates) == 0 {
		return nil
	}
	if _, ok := updates["updated_at"]; !ok {
		updates["updated_at"] = time.Now().UTC()
	}
	return mapError(t.WithContext(ctx).
		Model(&types.AssetData{}).
		Where("id = ?", id).
		Updates(updates).Error)
}

func (r *assetDataRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := r.resolve(tx)
	if id == uuid.Nil {
		return nil
	}
	for _, model := range []interface{}{
		&types.AssetDataModule{},
		&types.AssetDataCategory{},
		&types.AssetDataAgeRange{},
		&types.AssetDataAffiliation{},
		&types.AssetDataResource{},
	} {
		if err := t.WithContext(ctx).Where("asset_data_id = ?", id).Delete(model).Error; err != nil {
			return mapError(err)
		}
	}
	return mapError(t.WithContext(ctx).Where("id = ?", id).Delete(&types.AssetData{}).Error)
}

func (r *assetDataRepo) RecycleMetadata(ctx context.Context, tx *gorm.DB, dataID uuid.UUID, kind types.MetadataKind, ids []uuid.UUID) error {
	t := r.resolve(tx)

	var model interface{}
	build := func(id uuid.UUID) interface{} { return nil }
	switch kind {
	case types.MetadataCategory:
		model = &types.AssetDataCategory{}
		build = func(id uuid.UUID) interface{} {
			return &types.AssetDataCategory{AssetDataID: dataID, CategoryID: id}
		}
	case types.MetadataAgeRange:
		model = &types.AssetDataAgeRange{}
		build = func(id uuid.UUID) interface{} {
			return &types.AssetDataAgeRange{AssetDataID: dataID, AgeRangeID: id}
		}
	case types.MetadataAffiliation:
		model = &types.AssetDataAffiliation{}
		build = func(id uuid.UUID) interface{} {
			return &types.AssetDataAffiliation{AssetDataID: dataID, AffiliationID: id}
		}
	default:
		return errs.ErrValidation
	}

	if err := t.WithContext(ctx).Where("asset_data_id = ?", dataID).Delete(model).Error; err != nil {
		return mapError(err)
	}
	for _, id := range ids {
		if err := t.WithContext(ctx).Create(build(id)).Error; err != nil {
			return mapError(err)
		}
	}
	return nil
}

func (r *assetDataRepo) GetMetadata(ctx context.Context, tx *gorm.DB, dataID uuid.UUID, kind types.MetadataKind) ([]uuid.UUID, error) {
	t := r.resolve(tx)
	var out []uuid.UUID
	var err error
	switch kind {
	case types.MetadataCategory:
		err = t.WithContext(ctx).Model(&types.AssetDataCategory{}).
			Where("asset_data_id = ?", dataID).Pluck("category_id", &out).Error
	case types.MetadataAgeRange:
		err = t.WithContext(ctx).Model(&types.AssetDataAgeRange{}).
			Where("asset_data_id = ?", dataID).Pluck("age_range_id", &out).Error
	case types.MetadataAffiliation:
		err = t.WithContext(ctx).Model(&types.AssetDataAffiliation{}).
			Where("asset_data_id = ?", dataID).Pluck("affiliation_id", &out).Error
	default:
		return nil, errs.ErrValidation
	}
	if err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetDataRepo) CreateResource(ctx context.Context, tx *gorm.DB, row *types.AssetDataResource) (*types.AssetDataResource, error) {
	t := r.resolve(tx)
	if row == nil {
		return nil, nil
	}
	if row.ID == uuid.Nil {
		row.ID = uuid.New()
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, mapError(err)
	}
	return row, nil
}

func (r *assetDataRepo) GetResources(ctx context.Context, tx *gorm.DB, dataID uuid.UUID) ([]*types.AssetDataResource, error) {
	t := r.resolve(tx)
	var out []*types.AssetDataResource
	if err := t.WithContext(ctx).
		Where("asset_data_id = ?", dataID).
		Order("created_at ASC").
		Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetDataRepo) Clone(ctx context.Context, tx *gorm.DB, sourceID uuid.UUID, target types.DraftOrLive, mapper StableIDMapper) (uuid.UUID, error) {
	t := r.resolve(tx)

	var source types.AssetData
	err := t.WithContext(ctx).Where("id = ?", sourceID).Take(&source).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, errs.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, err
	}

	copyRow := source
	copyRow.ID = uuid.New()
	copyRow.DraftOrLive = target
	if err := t.WithContext(ctx).Create(&copyRow).Error; err != nil {
		return uuid.Nil, mapError(err)
	}

	var modules []*types.AssetDataModule
	if err := t.WithContext(ctx).
		Where("asset_data_id = ?", sourceID).
		Order(`"index" ASC`).
		Find(&modules).Error; err != nil {
		return uuid.Nil, err
	}
	for _, m := range modules {
		cloned := *m
		cloned.ID = uuid.New()
		cloned.AssetDataID = copyRow.ID
		cloned.StableID = mapper.Map(m.StableID)
		if err := t.WithContext(ctx).Create(&cloned).Error; err != nil {
			return uuid.Nil, mapError(err)
		}
	}

	if err := t.WithContext(ctx).Exec(`
		INSERT INTO asset_data_category (asset_data_id, category_id)
		SELECT ?, category_id FROM asset_data_category WHERE asset_data_id = ?`,
		copyRow.ID, sourceID).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	if err := t.WithContext(ctx).Exec(`
		INSERT INTO asset_data_age_range (asset_data_id, age_range_id)
		SELECT ?, age_range_id FROM asset_data_age_range WHERE asset_data_id = ?`,
		copyRow.ID, sourceID).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	if err := t.WithContext(ctx).Exec(`
		INSERT INTO asset_data_affiliation (asset_data_id, affiliation_id)
		SELECT ?, affiliation_id FROM asset_data_affiliation WHERE asset_data_id = ?`,
		copyRow.ID, sourceID).Error; err != nil {
		return uuid.Nil, mapError(err)
	}
	if err := t.WithContext(ctx).Exec(`
		INSERT INTO asset_data_resource (id, asset_data_id, resource_type_id, display_name, resource_content, created_at)
		SELECT uuid_generate_v4(), ?, resource_type_id, display_name, resource_content, created_at
		FROM asset_data_resource WHERE asset_data_id = ?`,
		copyRow.ID, sourceID).Error; err != nil {
		return uuid.Nil, mapError(err)
	}

	return copyRow.ID, nil
}
