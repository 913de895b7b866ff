package assets

import (
	"bytes"
	"encoding/json"
	"fmt"

	"gorm.io/datatypes"

	errs "github.com/kidverse/jigcraft-backend/internal/pkg/errors"
)

// ModuleKind is the closed set of activity types a module can hold.
type ModuleKind string

const (
	KindCover         ModuleKind = "cover"
	KindResourceCover ModuleKind = "resource-cover"
	KindFlashcards    ModuleKind = "flashcards"
	KindMatching      ModuleKind = "matching"
	KindMemory        ModuleKind = "memory"
	KindCardQuiz      ModuleKind = "card-quiz"
	KindDragDrop      ModuleKind = "drag-drop"
	KindPoster        ModuleKind = "poster"
	KindTappingBoard  ModuleKind = "tapping-board"
	KindTracing       ModuleKind = "tracing"
	KindVideo         ModuleKind = "video"
	KindAnswerThis    ModuleKind = "answer-this"
	KindLegacy        ModuleKind = "legacy"
)

func (k ModuleKind) Valid() bool {
	switch k {
	case KindCover, KindResourceCover, KindFlashcards, KindMatching, KindMemory,
		KindCardQuiz, KindDragDrop, KindPoster, KindTappingBoard, KindTracing,
		KindVideo, KindAnswerThis, KindLegacy:
		return true
	}
	return false
}

// ModuleBody is the tagged payload submitted when creating or editing a
// module. Validate checks the payload against the declared kind; past this
// boundary the contents travel as an opaque jsonb blob.
type ModuleBody struct {
	Kind     ModuleKind      `json:"kind"`
	Contents json.RawMessage `json:"contents"`
}

type Instructions struct {
	Text  *string `json:"text,omitempty"`
	Audio *string `json:"audio,omitempty"`
}

type CardContent struct {
	Text  *string `json:"text,omitempty"`
	Image *string `json:"image,omitempty"`
	Audio *string `json:"audio,omitempty"`
}

type CardPair struct {
	Left  CardContent `json:"left"`
	Right CardContent `json:"right"`
}

// CardsContent backs the card-based kinds: flashcards, matching, memory,
// card-quiz and drag-drop.
type CardsContent struct {
	Theme        int16        `json:"theme"`
	Instructions Instructions `json:"instructions"`
	Pairs        []CardPair   `json:"pairs"`
	Mode         *string      `json:"mode,omitempty"`
}

type Sticker struct {
	Text      *string   `json:"text,omitempty"`
	Image     *string   `json:"image,omitempty"`
	Audio     *string   `json:"audio,omitempty"`
	Transform []float64 `json:"transform,omitempty"`
}

// DesignContent backs the free-placement kinds: cover, resource-cover,
// poster, tapping-board and tracing.
type DesignContent struct {
	Theme        int16        `json:"theme"`
	Instructions Instructions `json:"instructions"`
	Stickers     []Sticker    `json:"stickers"`
}

type VideoHost struct {
	Youtube *struct {
		ID string `json:"id"`
	} `json:"youtube,omitempty"`
	Direct *struct {
		URL string `json:"url"`
	} `json:"direct,omitempty"`
}

type VideoContent struct {
	Theme        int16        `json:"theme"`
	Host         VideoHost    `json:"host"`
	Instructions Instructions `json:"instructions"`
	Autoplay     bool         `json:"autoplay"`
	Captions     bool         `json:"captions"`
	Muted        bool         `json:"muted"`
}

type Question struct {
	Title    *string `json:"title,omitempty"`
	Question *string `json:"question,omitempty"`
	TraceIdx []int   `json:"trace_idx,omitempty"`
}

type QuestionsContent struct {
	Theme        int16        `json:"theme"`
	Instructions Instructions `json:"instructions"`
	Questions    []Question   `json:"questions"`
}

type LegacyContent struct {
	GameID     string `json:"game_id"`
	SlideIndex int    `json:"slide_index"`
}

// Validate checks that the body's contents decode as the shape its kind
// declares. The returned error wraps errs.ErrValidation and names the
// offending field.
func (b ModuleBody) Validate() error {
	if !b.Kind.Valid() {
		return fmt.Errorf("%w: unknown module kind %q", errs.ErrValidation, b.Kind)
	}
	raw := b.Contents
	if len(bytes.TrimSpace(raw)) == 0 {
		raw = json.RawMessage(`{}`)
	}

	var target any
	switch b.Kind {
	case KindFlashcards, KindMatching, KindMemory, KindCardQuiz, KindDragDrop:
		target = &CardsContent{}
	case KindCover, KindResourceCover, KindPoster, KindTappingBoard, KindTracing:
		target = &DesignContent{}
	case KindVideo:
		target = &VideoContent{}
	case KindAnswerThis:
		target = &QuestionsContent{}
	case KindLegacy:
		target = &LegacyContent{}
	}

	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return fmt.Errorf("%w: contents do not match kind %q: %v", errs.ErrValidation, b.Kind, err)
	}

	if b.Kind == KindVideo {
		vc := target.(*VideoContent)
		if vc.Host.Youtube == nil && vc.Host.Direct == nil {
			return fmt.Errorf("%w: video contents require a host", errs.ErrValidation)
		}
	}
	return nil
}

// ContentsJSON normalizes the raw payload for storage.
func (b ModuleBody) ContentsJSON() datatypes.JSON {
	if len(bytes.TrimSpace(b.Contents)) == 0 {
		return datatypes.JSON([]byte(`{}`))
	}
	return datatypes.JSON(b.Contents)
}
