package assets

import (
	"encoding/json"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Privacy levels for a snapshot, mirroring the product's three-tier model.
const (
	PrivacyPublic   int16 = 0
	PrivacyUnlisted int16 = 1
	PrivacyPrivate  int16 = 2
)

// Text direction for player settings.
const (
	DirectionLTR int16 = 0
	DirectionRTL int16 = 1
)

// AssetData is one data snapshot of an asset (draft or live). It owns the
// ordered module list and the metadata join rows keyed by its id. The draft
// row is mutated in place for the asset's lifetime; live rows are replaced
// wholesale on publish.
type AssetData struct {
	ID uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`

	DraftOrLive DraftOrLive `gorm:"column:draft_or_live;not null;index" json:"draft_or_live"`

	DisplayName string `gorm:"type:text;not null;default:''" json:"display_name"`
	Language    string `gorm:"type:text;not null;default:''" json:"language"`
	Description string `gorm:"type:text;not null;default:''" json:"description"`

	// Caches filled by the translation collaborator; cleared whenever the
	// source text changes and left unchanged when translation fails.
	TranslatedName        datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"translated_name"`
	TranslatedDescription datatypes.JSON `gorm:"type:jsonb;not null;default:'{}'" json:"translated_description"`

	PrivacyLevel int16 `gorm:"not null;default:1" json:"privacy_level"`
	Theme        int16 `gorm:"not null;default:0" json:"theme"`

	AudioBackground       *int16         `json:"audio_background,omitempty"`
	AudioFeedbackPositive datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"audio_feedback_positive"`
	AudioFeedbackNegative datatypes.JSON `gorm:"type:jsonb;not null;default:'[]'" json:"audio_feedback_negative"`

	Direction  int16 `gorm:"not null;default:0" json:"direction"`
	Scoring    bool  `gorm:"not null;default:false" json:"scoring"`
	DragAssist bool  `gorm:"not null;default:false" json:"drag_assist"`

	OtherKeywords      string `gorm:"type:text;not null;default:''" json:"other_keywords"`
	TranslatedKeywords string `gorm:"type:text;not null;default:''" json:"translated_keywords"`

	LastSyncedAt *time.Time `json:"last_synced_at,omitempty"`

	CreatedAt time.Time `gorm:"not null;default:now()" json:"created_at"`
	UpdatedAt time.Time `gorm:"not null;default:now()" json:"updated_at"`
}

func (AssetData) TableName() string { return "asset_data" }

// PlayerSettings is the bundle of playback options stored flat on the
// snapshot row.
type PlayerSettings struct {
	Direction  int16 `json:"direction"`
	Scoring    bool  `json:"scoring"`
	DragAssist bool  `json:"drag_assist"`
}

func unmarshalJSON(raw datatypes.JSON, out any) error {
	return json.Unmarshal([]byte(raw), out)
}
