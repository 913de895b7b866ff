package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/kidverse/jigcraft-backend/internal/clients/translate"
	assetrepos "github.com/kidverse/jigcraft-backend/internal/data/repos/assets"
	"github.com/kidverse/jigcraft-backend/internal/domain/assets"
	errs "github.com/kidverse/jigcraft-backend/internal/pkg/errors"
	"github.com/kidverse/jigcraft-backend/internal/platform/logger"
)

type CreateAssetParams struct {
	DisplayName    string                `json:"display_name"`
	Language       string                `json:"language"`
	Description    string                `json:"description"`
	Categories     []uuid.UUID           `json:"categories"`
	AgeRanges      []uuid.UUID           `json:"age_ranges"`
	Affiliations   []uuid.UUID           `json:"affiliations"`
	PlayerSettings assets.PlayerSettings `json:"default_player_settings"`
}

// AudioBackgroundUpdate distinguishes "set to value", "clear" (nil Value)
// and "leave unchanged" (field absent on UpdateDraftParams).
type AudioBackgroundUpdate struct {
	Value *int16 `json:"value"`
}

type UpdateDraftParams struct {
	DisplayName           *string                `json:"display_name,omitempty"`
	Language              *string                `json:"language,omitempty"`
	Description           *string                `json:"description,omitempty"`
	Categories            *[]uuid.UUID           `json:"categories,omitempty"`
	AgeRanges             *[]uuid.UUID           `json:"age_ranges,omitempty"`
	Affiliations          *[]uuid.UUID           `json:"affiliations,omitempty"`
	PlayerSettings        *assets.PlayerSettings `json:"default_player_settings,omitempty"`
	Theme                 *int16                 `json:"theme,omitempty"`
	AudioBackground       *AudioBackgroundUpdate `json:"audio_background,omitempty"`
	AudioFeedbackPositive *[]int16               `json:"audio_feedback_positive,omitempty"`
	AudioFeedbackNegative *[]int16               `json:"audio_feedback_negative,omitempty"`
	PrivacyLevel          *int16                 `json:"privacy_level,omitempty"`
	OtherKeywords         *string                `json:"other_keywords,omitempty"`
}

type AddResourceParams struct {
	ResourceTypeID  uuid.UUID       `json:"resource_type_id"`
	DisplayName     string          `json:"display_name"`
	ResourceContent json.RawMessage `json:"resource_content"`
}

// AssetView is one asset joined with the requested snapshot.
type AssetView struct {
	Asset        *assets.Asset               `json:"asset"`
	Data         *assets.AssetData           `json:"data"`
	Modules      []*assets.AssetDataModule   `json:"modules"`
	Categories   []uuid.UUID                 `json:"categories"`
	AgeRanges    []uuid.UUID                 `json:"age_ranges"`
	Affiliations []uuid.UUID                 `json:"affiliations"`
	Resources    []*assets.AssetDataResource `json:"additional_resources"`
	Plays        int64                       `json:"plays"`
}

type AssetService interface {
	Create(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID, params CreateAssetParams) (*assets.Asset, error)
	Get(ctx context.Context, tx *gorm.DB, id uuid.UUID, draftOrLive assets.DraftOrLive) (*AssetView, error)
	List(ctx context.Context, tx *gorm.DB, authorID *uuid.UUID, page, pageLimit int) ([]*assets.Asset, error)
	UpdateDraft(ctx context.Context, tx *gorm.DB, id uuid.UUID, params UpdateDraftParams) error
	AddDraftResource(ctx context.Context, tx *gorm.DB, id uuid.UUID, params AddResourceParams) (*assets.AssetDataResource, error)
	PublishDraftToLive(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	CloneAsset(ctx context.Context, tx *gorm.DB, sourceID, newAuthorID uuid.UUID) (uuid.UUID, error)
	Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Play(ctx context.Context, tx *gorm.DB, id uuid.UUID) error
	Like(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) error
	Unlike(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) error
}

type assetService struct {
	db         *gorm.DB
	log        *logger.Logger
	assetRepo  assetrepos.AssetRepo
	dataRepo   assetrepos.AssetDataRepo
	moduleRepo assetrepos.ModuleRepo
	translator translate.Client
}

func NewAssetService(
	db *gorm.DB,
	baseLog *logger.Logger,
	assetRepo assetrepos.AssetRepo,
	dataRepo assetrepos.AssetDataRepo,
	moduleRepo assetrepos.ModuleRepo,
	translator translate.Client,
) AssetService {
	return &assetService{
		db:         db,
		log:        baseLog.With("service", "AssetService"),
		assetRepo:  assetRepo,
		dataRepo:   dataRepo,
		moduleRepo: moduleRepo,
		translator: translator,
	}
}

func (s *assetService) resolve(tx *gorm.DB) *gorm.DB {
	if tx == nil {
		return s.db
	}
	return tx
}

func marshalJSON(v interface{}) datatypes.JSON {
	b, err := json.Marshal(v)
	if err != nil {
		return datatypes.JSON([]byte(`null`))
	}
	return datatypes.JSON(b)
}

func (s *assetService) newSnapshot(params CreateAssetParams, draftOrLive assets.DraftOrLive) *assets.AssetData {
	return &assets.AssetData{
		ID:                    uuid.New(),
		DraftOrLive:           draftOrLive,
		DisplayName:           params.DisplayName,
		Language:              params.Language,
		Description:           params.Description,
		TranslatedName:        datatypes.JSON([]byte(`{}`)),
		TranslatedDescription: datatypes.JSON([]byte(`{}`)),
		PrivacyLevel:          assets.PrivacyUnlisted,
		AudioFeedbackPositive: datatypes.JSON([]byte(`[]`)),
		AudioFeedbackNegative: datatypes.JSON([]byte(`[]`)),
		Direction:             params.PlayerSettings.Direction,
		Scoring:               params.PlayerSettings.Scoring,
		DragAssist:            params.PlayerSettings.DragAssist,
	}
}

func (s *assetService) recycleAll(ctx context.Context, tx *gorm.DB, dataID uuid.UUID, params CreateAssetParams) error {
	if err := s.dataRepo.RecycleMetadata(ctx, tx, dataID, assets.MetadataCategory, params.Categories); err != nil {
		return err
	}
	if err := s.dataRepo.RecycleMetadata(ctx, tx, dataID, assets.MetadataAgeRange, params.AgeRanges); err != nil {
		return err
	}
	return s.dataRepo.RecycleMetadata(ctx, tx, dataID, assets.MetadataAffiliation, params.Affiliations)
}

// Create makes the asset and both of its snapshots in one unit of work. The
// draft and live rows start as identical copies of the submitted attributes.
func (s *assetService) Create(ctx context.Context, tx *gorm.DB, creatorID uuid.UUID, params CreateAssetParams) (*assets.Asset, error) {
	transaction := s.resolve(tx)

	var created *assets.Asset
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		draft, err := s.dataRepo.Create(ctx, txx, s.newSnapshot(params, assets.Draft))
		if err != nil {
			return fmt.Errorf("create draft snapshot: %w", err)
		}
		if err := s.recycleAll(ctx, txx, draft.ID, params); err != nil {
			return fmt.Errorf("attach draft metadata: %w", err)
		}

		live, err := s.dataRepo.Create(ctx, txx, s.newSnapshot(params, assets.Live))
		if err != nil {
			return fmt.Errorf("create live snapshot: %w", err)
		}
		if err := s.recycleAll(ctx, txx, live.ID, params); err != nil {
			return fmt.Errorf("attach live metadata: %w", err)
		}

		asset := &assets.Asset{
			ID:        uuid.New(),
			CreatorID: creatorID,
			AuthorID:  creatorID,
			DraftID:   draft.ID,
			LiveID:    live.ID,
			Parents:   datatypes.JSON([]byte(`[]`)),
		}
		if _, err := s.assetRepo.Create(ctx, txx, asset); err != nil {
			return fmt.Errorf("create asset: %w", err)
		}
		if err := s.assetRepo.EnsureAuthorCounts(ctx, txx, creatorID); err != nil {
			return fmt.Errorf("ensure author counts: %w", err)
		}
		if err := s.assetRepo.CreatePlayCount(ctx, txx, asset.ID); err != nil {
			return fmt.Errorf("create play count: %w", err)
		}
		created = asset
		return nil
	})
	if err != nil {
		s.log.Error("Create failed", "error", err, "creator_id", creatorID)
		return nil, err
	}
	return created, nil
}

func (s *assetService) Get(ctx context.Context, tx *gorm.DB, id uuid.UUID, draftOrLive assets.DraftOrLive) (*AssetView, error) {
	t := s.resolve(tx)

	asset, err := s.assetRepo.GetByID(ctx, t, id)
	if err != nil {
		return nil, fmt.Errorf("load asset: %w", err)
	}
	if asset == nil {
		return nil, errs.ErrNotFound
	}

	dataID := asset.DraftID
	if draftOrLive == assets.Live {
		dataID = asset.LiveID
	}

	data, err := s.dataRepo.GetByID(ctx, t, dataID)
	if err != nil {
		return nil, fmt.Errorf("load snapshot: %w", err)
	}
	if data == nil {
		return nil, errs.ErrNotFound
	}

	modules, err := s.moduleRepo.ListBySnapshot(ctx, t, dataID)
	if err != nil {
		return nil, fmt.Errorf("load modules: %w", err)
	}
	categories, err := s.dataRepo.GetMetadata(ctx, t, dataID, assets.MetadataCategory)
	if err != nil {
		return nil, err
	}
	ageRanges, err := s.dataRepo.GetMetadata(ctx, t, dataID, assets.MetadataAgeRange)
	if err != nil {
		return nil, err
	}
	affiliations, err := s.dataRepo.GetMetadata(ctx, t, dataID, assets.MetadataAffiliation)
	if err != nil {
		return nil, err
	}
	resources, err := s.dataRepo.GetResources(ctx, t, dataID)
	if err != nil {
		return nil, err
	}
	plays, err := s.assetRepo.GetPlayCount(ctx, t, id)
	if err != nil && !errors.Is(err, errs.ErrNotFound) {
		return nil, err
	}

	return &AssetView{
		Asset:        asset,
		Data:         data,
		Modules:      modules,
		Categories:   categories,
		AgeRanges:    ageRanges,
		Affiliations: affiliations,
		Resources:    resources,
		Plays:        plays,
	}, nil
}

func (s *assetService) List(ctx context.Context, tx *gorm.DB, authorID *uuid.UUID, page, pageLimit int) ([]*assets.Asset, error) {
	return s.assetRepo.List(ctx, s.resolve(tx), authorID, page, pageLimit)
}

// UpdateDraft partially updates the draft snapshot. Translation of keyword
// text happens before the unit of work opens and its failure never blocks
// the attribute update.
func (s *assetService) UpdateDraft(ctx context.Context, tx *gorm.DB, id uuid.UUID, params UpdateDraftParams) error {
	transaction := s.resolve(tx)

	var translatedKeywords *string
	if params.OtherKeywords != nil && *params.OtherKeywords != "" {
		if out, err := s.translator.Translate(ctx, *params.OtherKeywords, "he", "en"); err != nil {
			s.log.Warn("keyword translation unavailable", "error", err, "asset_id", id)
		} else {
			translatedKeywords = &out
		}
	}

	return transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		draftID, _, err := s.assetRepo.GetDraftAndLiveIDs(ctx, txx, id, true)
		if err != nil {
			return err
		}

		updates := map[string]interface{}{}
		if params.DisplayName != nil {
			updates["display_name"] = *params.DisplayName
			updates["translated_name"] = datatypes.JSON([]byte(`{}`))
		}
		if params.Description != nil {
			updates["description"] = *params.Description
			updates["translated_description"] = datatypes.JSON([]byte(`{}`))
		}
		if params.Language != nil {
			updates["language"] = *params.Language
		}
		if params.Theme != nil {
			updates["theme"] = *params.Theme
		}
		if params.PrivacyLevel != nil {
			updates["privacy_level"] = *params.PrivacyLevel
		}
		if params.PlayerSettings != nil {
			updates["direction"] = params.PlayerSettings.Direction
			updates["scoring"] = params.PlayerSettings.Scoring
			updates["drag_assist"] = params.PlayerSettings.DragAssist
		}
		if params.AudioBackground != nil {
			updates["audio_background"] = params.AudioBackground.Value
		}
		if params.AudioFeedbackPositive != nil {
			updates["audio_feedback_positive"] = marshalJSON(*params.AudioFeedbackPositive)
		}
		if params.AudioFeedbackNegative != nil {
			updates["audio_feedback_negative"] = marshalJSON(*params.AudioFeedbackNegative)
		}
		if params.OtherKeywords != nil {
			updates["other_keywords"] = *params.OtherKeywords
			if translatedKeywords != nil {
				updates["translated_keywords"] = *translatedKeywords
			}
		}

		if err := s.dataRepo.UpdateFields(ctx, txx, draftID, updates); err != nil {
			return fmt.Errorf("update draft: %w", err)
		}

		if params.Categories != nil {
			if err := s.dataRepo.RecycleMetadata(ctx, txx, draftID, assets.MetadataCategory, *params.Categories); err != nil {
				return err
			}
		}
		if params.AgeRanges != nil {
			if err := s.dataRepo.RecycleMetadata(ctx, txx, draftID, assets.MetadataAgeRange, *params.AgeRanges); err != nil {
				return err
			}
		}
		if params.Affiliations != nil {
			if err := s.dataRepo.RecycleMetadata(ctx, txx, draftID, assets.MetadataAffiliation, *params.Affiliations); err != nil {
				return err
			}
		}
		return nil
	})
}

// AddDraftResource attaches an additional learning resource (worksheet
// link, lesson plan) to the draft snapshot. Resources ride along on publish
// and fork like any other snapshot-scoped row.
func (s *assetService) AddDraftResource(ctx context.Context, tx *gorm.DB, id uuid.UUID, params AddResourceParams) (*assets.AssetDataResource, error) {
	transaction := s.resolve(tx)

	var created *assets.AssetDataResource
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		draftID, _, err := s.assetRepo.GetDraftAndLiveIDs(ctx, txx, id, true)
		if err != nil {
			return err
		}
		content := datatypes.JSON([]byte(`{}`))
		if len(params.ResourceContent) > 0 {
			content = datatypes.JSON(params.ResourceContent)
		}
		created, err = s.dataRepo.CreateResource(ctx, txx, &assets.AssetDataResource{
			AssetDataID:     draftID,
			ResourceTypeID:  params.ResourceTypeID,
			DisplayName:     params.DisplayName,
			ResourceContent: content,
		})
		if err != nil {
			return fmt.Errorf("create resource: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("AddDraftResource failed", "error", err, "asset_id", id)
		return nil, err
	}
	return created, nil
}

// PublishDraftToLive clones the draft into a fresh live snapshot, swaps the
// live pointer and drops the retired snapshot, all in one unit of work. The
// asset row is locked first so concurrent publishes serialize.
func (s *assetService) PublishDraftToLive(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := s.resolve(tx)

	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		draftID, oldLiveID, err := s.assetRepo.GetDraftAndLiveIDs(ctx, txx, id, true)
		if err != nil {
			return err
		}

		// Incomplete modules do not block publishing; curation republishes
		// assets that predate the completeness flag.
		newLiveID, err := s.dataRepo.Clone(ctx, txx, draftID, assets.Live, assetrepos.IdentityMapper{})
		if err != nil {
			return fmt.Errorf("clone draft: %w", err)
		}

		if err := s.assetRepo.BumpAuthorCountsOnFirstPublish(ctx, txx, id); err != nil {
			return fmt.Errorf("bump author counts: %w", err)
		}
		if err := s.assetRepo.SwapLive(ctx, txx, id, newLiveID); err != nil {
			return fmt.Errorf("swap live pointer: %w", err)
		}
		if err := s.dataRepo.FullDeleteByID(ctx, txx, oldLiveID); err != nil {
			return fmt.Errorf("drop retired live snapshot: %w", err)
		}
		return nil
	})
	if err != nil {
		s.log.Error("PublishDraftToLive failed", "error", err, "asset_id", id)
		return err
	}
	return nil
}

// CloneAsset forks a new lineage: both snapshots are deep-copied, draft
// modules receive brand-new stable ids, and live modules reuse the draft's
// new ids so the two snapshots stay aligned position-for-position.
func (s *assetService) CloneAsset(ctx context.Context, tx *gorm.DB, sourceID, newAuthorID uuid.UUID) (uuid.UUID, error) {
	transaction := s.resolve(tx)

	var newID uuid.UUID
	err := transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		source, err := s.assetRepo.GetByID(ctx, txx, sourceID)
		if err != nil {
			return fmt.Errorf("load source asset: %w", err)
		}
		if source == nil {
			return errs.ErrNotFound
		}

		recorder := assetrepos.NewRecordingMapper()
		newDraftID, err := s.dataRepo.Clone(ctx, txx, source.DraftID, assets.Draft, recorder)
		if err != nil {
			return fmt.Errorf("clone draft snapshot: %w", err)
		}
		newLiveID, err := s.dataRepo.Clone(ctx, txx, source.LiveID, assets.Live, assetrepos.LookupMapper{Mapping: recorder.Mapping})
		if err != nil {
			return fmt.Errorf("clone live snapshot: %w", err)
		}

		parents, err := source.ParentIDs()
		if err != nil {
			return err
		}
		parents = append(parents, source.ID)

		cloned := &assets.Asset{
			ID:        uuid.New(),
			CreatorID: source.CreatorID,
			AuthorID:  newAuthorID,
			DraftID:   newDraftID,
			LiveID:    newLiveID,
			Parents:   marshalJSON(parents),
		}
		if _, err := s.assetRepo.Create(ctx, txx, cloned); err != nil {
			return fmt.Errorf("create forked asset: %w", err)
		}
		if err := s.assetRepo.EnsureAuthorCounts(ctx, txx, newAuthorID); err != nil {
			return err
		}
		if err := s.assetRepo.CreatePlayCount(ctx, txx, cloned.ID); err != nil {
			return fmt.Errorf("init play count: %w", err)
		}
		newID = cloned.ID
		return nil
	})
	if err != nil {
		s.log.Error("CloneAsset failed", "error", err, "source_id", sourceID)
		return uuid.Nil, err
	}
	return newID, nil
}

func (s *assetService) Delete(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	transaction := s.resolve(tx)

	return transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		draftID, liveID, err := s.assetRepo.GetDraftAndLiveIDs(ctx, txx, id, true)
		if err != nil {
			return err
		}
		if err := s.assetRepo.DropAuthorCountsOnDelete(ctx, txx, id); err != nil {
			return err
		}
		if err := s.dataRepo.FullDeleteByID(ctx, txx, draftID); err != nil {
			return err
		}
		if err := s.dataRepo.FullDeleteByID(ctx, txx, liveID); err != nil {
			return err
		}
		return s.assetRepo.FullDeleteByID(ctx, txx, id)
	})
}

func (s *assetService) Play(ctx context.Context, tx *gorm.DB, id uuid.UUID) error {
	return s.assetRepo.IncrementPlayCount(ctx, s.resolve(tx), id)
}

func (s *assetService) Like(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) error {
	transaction := s.resolve(tx)
	return transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		asset, err := s.assetRepo.GetByID(ctx, txx, id)
		if err != nil {
			return err
		}
		if asset == nil {
			return errs.ErrNotFound
		}
		return s.assetRepo.AddLike(ctx, txx, id, userID)
	})
}

func (s *assetService) Unlike(ctx context.Context, tx *gorm.DB, userID, id uuid.UUID) error {
	transaction := s.resolve(tx)
	return transaction.WithContext(ctx).Transaction(func(txx *gorm.DB) error {
		asset, err := s.assetRepo.GetByID(ctx, txx, id)
		if err != nil {
			return err
		}
		if asset == nil {
			return errs.ErrNotFound
		}
		return s.assetRepo.RemoveLike(ctx, txx, id, userID)
	})
}
