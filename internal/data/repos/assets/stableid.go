package assets

import "github.com/google/uuid"

// StableIDMapper decides the stable id a cloned module receives. The clone
// path calls Map once per source module, in index order, so a mapper that
// records its output can be replayed against a second snapshot to keep
// draft/live stable ids aligned.
type StableIDMapper interface {
	Map(old uuid.UUID) uuid.UUID
}

// IdentityMapper keeps stable ids verbatim. Used on publish, where the live
// copy must keep referring to the same logical modules as the draft.
type IdentityMapper struct{}

func (IdentityMapper) Map(old uuid.UUID) uuid.UUID { return old }

// RecordingMapper assigns a fresh stable id per call and records the old->new
// pairing. Used on the draft pass of a fork to start a new module lineage.
type RecordingMapper struct {
	Mapping map[uuid.UUID]uuid.UUID
}

func NewRecordingMapper() *RecordingMapper {
	return &RecordingMapper{Mapping: make(map[uuid.UUID]uuid.UUID)}
}

func (m *RecordingMapper) Map(old uuid.UUID) uuid.UUID {
	if id, ok := m.Mapping[old]; ok {
		return id
	}
	id := uuid.New()
	m.Mapping[old] = id
	return id
}

// LookupMapper replays a RecordingMapper's table on the live pass of a fork.
// A live module whose stable id never appeared in the draft (the two
// snapshots diverged) gets a fresh id instead of failing the clone.
type LookupMapper struct {
	Mapping map[uuid.UUID]uuid.UUID
}

func (m LookupMapper) Map(old uuid.UUID) uuid.UUID {
	if id, ok := m.Mapping[old]; ok {
		return id
	}
	return uuid.New()
}
