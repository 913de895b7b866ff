package assets_test

import (
	"testing"

	"github.com/google/uuid"

	repos "github.com/kidverse/jigcraft-backend/internal/data/repos/assets"
)

func TestIdentityMapper(t *testing.T) {
	id := uuid.New()
	if got := (repos.IdentityMapper{}).Map(id); got != id {
		t.Fatalf("expected identity mapping, got %s", got)
	}
}

func TestRecordingMapperIsStablePerInput(t *testing.T) {
	m := repos.NewRecordingMapper()
	a := uuid.New()
	b := uuid.New()

	mappedA := m.Map(a)
	mappedB := m.Map(b)

	if mappedA == a || mappedB == b {
		t.Fatalf("expected fresh ids for every input")
	}
	if mappedA == mappedB {
		t.Fatalf("expected distinct inputs to map to distinct ids")
	}
	if again := m.Map(a); again != mappedA {
		t.Fatalf("expected repeated input to map to the recorded id")
	}
}

func TestLookupMapperFallsBackToFreshID(t *testing.T) {
	recorder := repos.NewRecordingMapper()
	known := uuid.New()
	mapped := recorder.Map(known)

	lookup := repos.LookupMapper{Mapping: recorder.Mapping}
	if got := lookup.Map(known); got != mapped {
		t.Fatalf("expected lookup to reuse the recorded mapping")
	}

	unknown := uuid.New()
	got := lookup.Map(unknown)
	if got == unknown || got == uuid.Nil {
		t.Fatalf("expected a fresh id for an unknown input, got %s", got)
	}
}
