package assets

import (
	"encoding/json"
	"errors"
	"testing"

	errs "github.com/kidverse/jigcraft-backend/internal/pkg/errors"
)

func TestModuleBodyValidateAcceptsMatchingContents(t *testing.T) {
	body := ModuleBody{
		Kind:     KindFlashcards,
		Contents: json.RawMessage(`{"theme":1,"instructions":{"text":"match the pairs"},"pairs":[{"left":{"text":"a"},"right":{"text":"b"}}]}`),
	}
	if err := body.Validate(); err != nil {
		t.Fatalf("expected valid flashcards body, got %v", err)
	}
}

func TestModuleBodyValidateRejectsUnknownKind(t *testing.T) {
	body := ModuleBody{Kind: ModuleKind("quiz-show")}
	err := body.Validate()
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for unknown kind, got %v", err)
	}
}

func TestModuleBodyValidateRejectsMismatchedContents(t *testing.T) {
	body := ModuleBody{
		Kind:     KindLegacy,
		Contents: json.RawMessage(`{"stickers":[]}`),
	}
	err := body.Validate()
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for mismatched contents, got %v", err)
	}
}

func TestModuleBodyValidateRequiresVideoHost(t *testing.T) {
	body := ModuleBody{
		Kind:     KindVideo,
		Contents: json.RawMessage(`{"theme":0,"host":{},"instructions":{},"autoplay":false,"captions":false,"muted":false}`),
	}
	err := body.Validate()
	if !errors.Is(err, errs.ErrValidation) {
		t.Fatalf("expected validation error for hostless video, got %v", err)
	}

	body.Contents = json.RawMessage(`{"theme":0,"host":{"youtube":{"id":"dQw4w9WgXcQ"}},"instructions":{},"autoplay":true,"captions":false,"muted":false}`)
	if err := body.Validate(); err != nil {
		t.Fatalf("expected valid video body, got %v", err)
	}
}

func TestModuleBodyValidateEmptyContentsDefaultsToEmptyObject(t *testing.T) {
	body := ModuleBody{Kind: KindCover}
	if err := body.Validate(); err != nil {
		t.Fatalf("expected empty contents to validate for cover, got %v", err)
	}
	if got := string(body.ContentsJSON()); got != `{}` {
		t.Fatalf("expected normalized contents to be {}, got %s", got)
	}
}
