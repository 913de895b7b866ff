package assets

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// DraftOrLive selects which data snapshot of an asset an operation targets.
type DraftOrLive int16

const (
	Draft DraftOrLive = 0
	Live  DraftOrLive = 1
)

func ParseDraftOrLive(s string) (DraftOrLive, error) {
	switch s {
	case "draft":
		return Draft, nil
	case "live":
		return Live, nil
	default:
		return 0, fmt.Errorf("unknown draft_or_live value %q", s)
	}
}

func (d DraftOrLive) String() string {
	if d == Live {
		return "live"
	}
	return "draft"
}

// Asset is a top-level content item (JIG, playlist, course). It always owns
// exactly one draft and one live AssetData row; the two pointers never alias.
type Asset struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	CreatorID uuid.UUID `gorm:"type:uuid;not null;index" json:"creator_id"`
	AuthorID  uuid.UUID `gorm:"type:uuid;not null;index" json:"author_id"`

	DraftID uuid.UUID `gorm:"type:uuid;not null" json:"draft_id"`
	LiveID  uuid.UUID `gorm:"type:uuid;not null" json:"live_id"`

	// Parents is the fork lineage, oldest ancestor first.
	Parents datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"parents"`

	PublishedAt *time.Time `gorm:"index" json:"published_at,omitempty"`
	LikedCount  int64      `gorm:"not null;default:0" json:"liked_count"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (Asset) TableName() string { return "asset" }

// ParentIDs decodes the lineage column.
func (a *Asset) ParentIDs() ([]uuid.UUID, error) {
	var out []uuid.UUID
	if len(a.Parents) == 0 {
		return out, nil
	}
	if err := unmarshalJSON(a.Parents, &out); err != nil {
		return nil, fmt.Errorf("decode asset parents: %w", err)
	}
	return out, nil
}

// AssetPlayCount tracks plays separately from the asset row so that play
// bumps do not contend with authoring writes.
type AssetPlayCount struct {
	AssetID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"asset_id"`
	PlayCount int64     `gorm:"not null;default:0" json:"play_count"`
}

func (AssetPlayCount) TableName() string { return "asset_play_count" }

// AssetLike records one user's like of one asset.
type AssetLike struct {
	AssetID   uuid.UUID `gorm:"type:uuid;primaryKey" json:"asset_id"`
	UserID    uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
}

func (AssetLike) TableName() string { return "asset_like" }

// UserAssetData aggregates per-author publish counters.
type UserAssetData struct {
	UserID          uuid.UUID `gorm:"type:uuid;primaryKey" json:"user_id"`
	AssetCount      int64     `gorm:"not null;default:0" json:"asset_count"`
	TotalAssetCount int64     `gorm:"not null;default:0" json:"total_asset_count"`
}

func (UserAssetData) TableName() string { return "user_asset_data" }
