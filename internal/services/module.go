package services

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	assetrepos "github.com/kidverse/jigcraft-backend/internal/data/repos/assets"
	"github.com/kidverse/jigcraft-backend/internal/domain/assets"
	errs "github.com/kidverse/jigcraft-backend/internal/pkg/errors"
	"github.com/kidverse/jigcraft-backend/internal/platform/logger"
)

type CreateModuleParams struct {
	Body assets.ModuleBody `json:"body"`
}

// UpdateModuleParams carries a partial module edit. Nil fields stay
// unchanged; Index moves the module after content fields are applied.
type UpdateModuleParams struct {
	Body       *assets.ModuleBody `json:"body,omitempty"`
	IsComplete *bool              `json:"is_complete,omitempty"`
	Index      *int               `json:"index,omitempty"`
}

type ModuleService interface {
	// Create validates the body and appends the module to the end of the
	// asset's draft snapshot.
	Create(ctx context.Context, tx *gorm.DB, assetID uuid.UUID, params CreateModuleParams) (*assets.AssetDataModule, error)

	Get(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, draftOrLive assets.DraftOrLive) (*assets.AssetDataModule, error)

	// Update edits the module in the asset's draft snapshot; reports
	// whether the module existed.
	Update(ctx context.Context, tx *gorm.DB, assetID, moduleID uuid.UUID, params UpdateModuleParams) (bool, error)

	// Delete removes the module from the draft snapshot. Deleting a module
	// that is not there is a no-op.
	Delete(ctx context.Context, tx *gorm.DB, assetID, moduleID uuid.UUID) error
}

type moduleService struct {
	db         *gorm.DB
	log        *logger.Logger
	assetRepo  assetrepos.AssetRepo
	moduleRepo assetrepos.ModuleRepo
}

func NewModuleService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assetRepo assetrepos.AssetRepo,
	moduleRepo assetrepos.ModuleRepo,
) ModuleService {
	return &moduleService{
		db:         db,
		log:        baseLog.With("service", "ModuleService"),
		assetRepo:  assetRepo,
		moduleRepo: moduleRepo,
	}
}

func (s *moduleService) resolve(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return s.db
	}
	return tx
}

func (s *moduleService) Create(ctx context.Context, tx *gorm.DB, assetID uuid.UUID, params CreateModuleParams) (*assets.AssetDataModule, error) {
	if err := params.Body.Validate(); err != nil {
		return nil, err
	}
	contents := params.Body.ContentsJSON()

	transaction := s.resolve(tx)

	var created *assets.AssetDataModule
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		draftID, _, err := s.assetRepo.GetDraftAndLiveIDs(ctx, txx, assetID, true)
		if err != nil {
			return err
		}
		created, err = s.moduleRepo.Insert(ctx, txx, draftID, params.Body.Kind, contents, false)
		if err != nil {
			return fmt.Errorf("insert module: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Create failed", "error", err, "asset_id", assetID)
		return nil, err
	}
	return created, nil
}

func (s *moduleService) Get(ctx context.Context, tx *gorm.DB, moduleID uuid.UUID, draftOrLive assets.DraftOrLive) (*assets.AssetDataModule, error) {
	out, err := s.moduleRepo.GetForAsset(ctx, s.resolve(tx), moduleID, draftOrLive)
	if err != nil {
		return nil, err
	}
	if out == nil {
		return nil, errs.ErrNotFound
	}
	return out, nil
}

func (s *moduleService) Update(ctx context.Context, tx *gorm.DB, assetID, moduleID uuid.UUID, params UpdateModuleParams) (bool, error) {
	updates := map[string]interface{}{}
	if params.Body != nil {
		if err := params.Body.Validate(); err != nil {
			return false, err
		}
		updates["kind"] = params.Body.Kind
		updates["contents"] = params.Body.ContentsJSON()
	}
	if params.IsComplete != nil {
		updates["is_complete"] = *params.IsComplete
	}

	transaction := s.resolve(tx)

	var found bool
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		draftID, _, err := s.assetRepo.GetDraftAndLiveIDs(ctx, txx, assetID, true)
		if err != nil {
			return err
		}
		found, err = s.moduleRepo.UpdateFields(ctx, txx, draftID, moduleID, updates)
		if err != nil {
			return fmt.Errorf("update module: %w", err)
		}
		if !found || params.Index == nil {
			return nil
		}
		found, err = s.moduleRepo.Move(ctx, txx, draftID, moduleID, *params.Index)
		if err != nil {
			return fmt.Errorf("move module: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("Update failed", "error", err, "asset_id", assetID, "module_id", moduleID)
		return false, err
	}
	return found, nil
}

func (s *moduleService) Delete(ctx context.Context, tx *gorm.DB, assetID, moduleID uuid.UUID) error {
	transaction := s.resolve(tx)

	return transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		draftID, _, err := s.assetRepo.GetDraftAndLiveIDs(ctx, txx, assetID, true)
		if err != nil {
			return err
		}
		if _, err := s.moduleRepo.Delete(ctx, txx, draftID, moduleID); err != nil {
			return fmt.Errorf("delete module: %w", err)
		}
		return nil
	})
}
