package assets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// MetadataKind names the recyclable metadata join sets owned by a snapshot.
type MetadataKind string

const (
	MetadataCategory    MetadataKind = "category"
	MetadataAgeRange    MetadataKind = "age_range"
	MetadataAffiliation MetadataKind = "affiliation"
)

type AssetDataCategory struct {
	AssetDataID uuid.UUID `gorm:"type:uuid;primaryKey" json:"asset_data_id"`
	CategoryID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"category_id"`
}

func (AssetDataCategory) TableName() string { return "asset_data_category" }

type AssetDataAgeRange struct {
	AssetDataID uuid.UUID `gorm:"type:uuid;primaryKey" json:"asset_data_id"`
	AgeRangeID  uuid.UUID `gorm:"type:uuid;primaryKey" json:"age_range_id"`
}

func (AssetDataAgeRange) TableName() string { return "asset_data_age_range" }

type AssetDataAffiliation struct {
	AssetDataID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"asset_data_id"`
	AffiliationID uuid.UUID `gorm:"type:uuid;primaryKey" json:"affiliation_id"`
}

func (AssetDataAffiliation) TableName() string { return "asset_data_affiliation" }

// AssetDataResource is an additional learning resource attached to a
// snapshot (worksheet links, lesson plans, and the like).
type AssetDataResource struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	AssetDataID    uuid.UUID `gorm:"type:uuid;not null;index" json:"asset_data_id"`
	ResourceTypeID uuid.UUID `gorm:"type:uuid;not null" json:"resource_type_id"`

	DisplayName     string         `gorm:"type:text;not null;default:''" json:"display_name"`
	ResourceContent datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"resource_content"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (AssetDataResource) TableName() string { return "asset_data_resource" }
