package script

import "github.com/phanxgames/viewstage/geom"

// SemanticEntry is a compile-time record of one addressable element
// (spec.md §3).
type SemanticEntry struct {
	ID           string
	UID          uint32
	Type         string
	Module       string // primitive tag name, e.g. "rect"
	ParentID     string // "" if none
	LocalBounds  geom.AABB
	ScreenBounds geom.AABB
	Clickable    bool
	Focusable    bool
	Label        string
	Role         string
	Value        string
	Hidden       bool
	ZIndex       int
}

// SemanticSnapshot is the per-graph queryable index produced alongside
// compilation (spec.md §3).
type SemanticSnapshot struct {
	Elements     map[string]SemanticEntry
	ByType       map[string][]string
	ByRole       map[string][]string
	ByPrimitive  map[string][]string
	TimestampMS  int64
}

// NewSemanticSnapshot builds an empty snapshot ready for incremental fill.
func NewSemanticSnapshot() *SemanticSnapshot {
	return &SemanticSnapshot{
		Elements:    make(map[string]SemanticEntry),
		ByType:      make(map[string][]string),
		ByRole:      make(map[string][]string),
		ByPrimitive: make(map[string][]string),
	}
}

// Add registers one entry and indexes it by type/role/primitive module.
func (s *SemanticSnapshot) Add(e SemanticEntry) {
	s.Elements[e.ID] = e
	if e.Type != "" {
		s.ByType[e.Type] = append(s.ByType[e.Type], e.ID)
	}
	if e.Role != "" {
		s.ByRole[e.Role] = append(s.ByRole[e.Role], e.ID)
	}
	if e.Module != "" {
		s.ByPrimitive[e.Module] = append(s.ByPrimitive[e.Module], e.ID)
	}
}
