package assets

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// AssetDataModule is one authored content unit inside a snapshot. Its row id
// is local to the snapshot; StableID survives draft->live promotion and is
// remapped exactly once per fork lineage. Index values are dense and
// zero-based within one snapshot.
type AssetDataModule struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	AssetDataID uuid.UUID `gorm:"type:uuid;not null;index:idx_asset_data_module_order,priority:1" json:"asset_data_id"`
	StableID    uuid.UUID `gorm:"type:uuid;not null;index" json:"stable_id"`

	Kind  ModuleKind `gorm:"type:text;not null" json:"kind"`
	Index int        `gorm:"column:index;not null;index:idx_asset_data_module_order,priority:2" json:"index"`

	// Contents is opaque to the ordering and clone code; only the module
	// boundary validates it against Kind.
	Contents datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"contents"`

	IsComplete bool `gorm:"not null;default:false" json:"is_complete"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (AssetDataModule) TableName() string { return "asset_data_module" }

// IsUpdated reports whether the module was edited after creation.
func (m *AssetDataModule) IsUpdated() bool {
	return m.CreatedAt.Before(m.UpdatedAt)
}
