package assets

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	types "github.com/kidverse/jigcraft-backend/internal/domain/assets"
	errs "github.com/kidverse/jigcraft-backend/internal/pkg/errors"
	"github.com/kidverse/jigcraft-backend/internal/platform/logger"
)

type AssetRepo interface {
	Create(ctx context.Context, tx *gorm.DB, row *types.Asset) (*types.Asset, error)
	GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Asset, error)
	List(ctx context.Context, tx *gorm.DB, authorID *uuid.UUID, page, pageLimit int) ([]*types.Asset, error)

	// GetDraftAndLiveIDs resolves the asset's snapshot pointers, optionally
	// locking the asset row so a publish cannot race itself.
	GetDraftAndLiveIDs(ctx context.Context, tx *gorm.DB, assetID uuid.UUID, forUpdate bool) (draftID, liveID uuid.UUID, err error)

	// SwapLive points the asset at a new live snapshot and stamps
	// published_at on first publish only.
	SwapLive(ctx context.Context, tx *gorm.DB, assetID, newLiveID uuid.UUID) error

	FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error

	EnsureAuthorCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error
	BumpAuthorCountsOnFirstPublish(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) error
	DropAuthorCountsOnDelete(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) error

	CreatePlayCount(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) error
	IncrementPlayCount(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) error
	GetPlayCount(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) (int64, error)

	AddLike(ctx context.Context, tx *gorm.DB, assetID, userID uuid.UUID) error
	RemoveLike(ctx context.Context, tx *gorm.DB, assetID, userID uuid.UUID) error
	IsLiked(ctx context.Context, tx *gorm.DB, assetID, userID uuid.UUID) (bool, error)
}

type assetRepo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewAssetRepo(db *gorm.DB, baseLog *logger.Logger) AssetRepo {
	return &assetRepo{db: db, log: baseLog.With("repo", "AssetRepo")}
}

func (r *assetRepo) resolve(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return r.db
	}
	return tx
}

func (r *assetRepo) Create(ctx context.Context, tx *gorm.DB, row *types.Asset) (*types.Asset, error) {
	t := r.resolve(tx)
	if row == nil {
		return nil, nil
	}
	if err := t.WithContext(ctx).Create(row).Error; err != nil {
		return nil, mapError(err)
	}
	return row, nil
}

func (r *assetRepo) GetByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) (*types.Asset, error) {
	t := r.resolve(tx)
	if id == uuid.Nil {
		return nil, nil
	}
	var out types.Asset
	err := t.WithContext(ctx).Where("id = ?", id).Take(&out).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &out, nil
}

func (r *assetRepo) List(ctx context.Context, tx *gorm.DB, authorID *uuid.UUID, page, pageLimit int) ([]*types.Asset, error) {
	t := r.resolve(tx)
	if pageLimit <= 0 {
		pageLimit = 20
	}
	if page < 0 {
		page = 0
	}
	q := t.WithContext(ctx).Order("created_at DESC, id")
	if authorID != nil && *authorID != uuid.Nil {
		q = q.Where("author_id = ?", *authorID)
	}
	var out []*types.Asset
	if err := q.Offset(page * pageLimit).Limit(pageLimit).Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (r *assetRepo) GetDraftAndLiveIDs(ctx context.Context, tx *gorm.DB, assetID uuid.UUID, forUpdate bool) (uuid.UUID, uuid.UUID, error) {
	t := r.resolve(tx)
	var row struct {
		DraftID uuid.UUID
		LiveID  uuid.UUID
	}
	q := t.WithContext(ctx).Model(&types.Asset{}).Select("draft_id", "live_id").Where("id = ?", assetID)
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	err := q.Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return uuid.Nil, uuid.Nil, errs.ErrNotFound
	}
	if err != nil {
		return uuid.Nil, uuid.Nil, mapError(err)
	}
	return row.DraftID, row.LiveID, nil
}

func (r *assetRepo) SwapLive(ctx context.Context, tx *gorm.DB, assetID, newLiveID uuid.UUID) error {
	t := r.resolve(tx)
	return mapError(t.WithContext(ctx).
		Model(&types.Asset{}).
		Where("id = ?", assetID).
		Updates(map[string]interface{}{
			"live_id":      newLiveID,
			"published_at": gorm.Expr("coalesce(published_at, now())"),
			"updated_at":   time.Now().UTC(),
		}).Error)
}

func (r *assetRepo) FullDeleteByID(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	t := r.resolve(tx)
	if id == uuid.Nil {
		return nil
	}
	if err := t.WithContext(ctx).Where("asset_id = ?", id).Delete(&types.AssetPlayCount{}).Error; err != nil {
		return mapError(err)
	}
	if err := t.WithContext(ctx).Where("asset_id = ?", id).Delete(&types.AssetLike{}).Error; err != nil {
		return mapError(err)
	}
	return mapError(t.WithContext(ctx).Where("id = ?", id).Delete(&types.Asset{}).Error)
}

func (r *assetRepo) EnsureAuthorCounts(ctx context.Context, tx *gorm.DB, userID uuid.UUID) error {
	t := r.resolve(tx)
	row := &types.UserAssetData{UserID: userID}
	return mapError(t.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(row).Error)
}

func (r *assetRepo) BumpAuthorCountsOnFirstPublish(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) error {
	t := r.resolve(tx)
	return mapError(t.WithContext(ctx).Exec(`
		UPDATE user_asset_data
		SET asset_count = asset_count + 1,
		    total_asset_count = total_asset_count + 1
		FROM asset
		WHERE user_asset_data.user_id = asset.author_id
		  AND asset.published_at IS NULL
		  AND asset.id = ?`, assetID).Error)
}

func (r *assetRepo) DropAuthorCountsOnDelete(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) error {
	t := r.resolve(tx)
	return mapError(t.WithContext(ctx).Exec(`
		UPDATE user_asset_data
		SET asset_count = asset_count - 1,
		    total_asset_count = total_asset_count - 1
		FROM asset
		WHERE user_asset_data.user_id = asset.author_id
		  AND asset.published_at IS NOT NULL
		  AND asset.id = ?`, assetID).Error)
}

func (r *assetRepo) CreatePlayCount(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) error {
	t := r.resolve(tx)
	return mapError(t.WithContext(ctx).Create(&types.AssetPlayCount{AssetID: assetID}).Error)
}

func (r *assetRepo) IncrementPlayCount(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) error {
	t := r.resolve(tx)
	res := t.WithContext(ctx).
		Model(&types.AssetPlayCount{}).
		Where("asset_id = ?", assetID).
		Update("play_count", gorm.Expr("play_count + 1"))
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return errs.ErrNotFound
	}
	return nil
}

func (r *assetRepo) GetPlayCount(ctx context.Context, tx *gorm.DB, assetID uuid.UUID) (int64, error) {
	t := r.resolve(tx)
	var row types.AssetPlayCount
	err := t.WithContext(ctx).Where("asset_id = ?", assetID).Take(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return 0, errs.ErrNotFound
	}
	if err != nil {
		return 0, err
	}
	return row.PlayCount, nil
}

func (r *assetRepo) AddLike(ctx context.Context, tx *gorm.DB, assetID, userID uuid.UUID) error {
	t := r.resolve(tx)
	res := t.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&types.AssetLike{AssetID: assetID, UserID: userID})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return mapError(t.WithContext(ctx).
		Model(&types.Asset{}).
		Where("id = ?", assetID).
		Update("liked_count", gorm.Expr("liked_count + 1")).Error)
}

func (r *assetRepo) RemoveLike(ctx context.Context, tx *gorm.DB, assetID, userID uuid.UUID) error {
	t := r.resolve(tx)
	res := t.WithContext(ctx).
		Where("asset_id = ? AND user_id = ?", assetID, userID).
		Delete(&types.AssetLike{})
	if res.Error != nil {
		return mapError(res.Error)
	}
	if res.RowsAffected == 0 {
		return nil
	}
	return mapError(t.WithContext(ctx).
		Model(&types.Asset{}).
		Where("id = ?", assetID).
		Update("liked_count", gorm.Expr("liked_count - 1")).Error)
}

func (r *assetRepo) IsLiked(ctx context.Context, tx *gorm.DB, assetID, userID uuid.UUID) (bool, error) {
	t := r.resolve(tx)
	var n int64
	err := t.WithContext(ctx).
		Model(&types.AssetLike{}).
		Where("asset_id = ? AND user_id = ?", assetID, userID).
		Count(&n).Error
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
