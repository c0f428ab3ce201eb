package script

// RegistryEntry is the unit stored per graph id in the viewport's
// ScriptTable (spec.md §3: "ScriptRegistryEntry"). It is replaced wholesale
// on every change, never mutated in place, so a concurrent reader always
// observes a complete value (spec.md §5).
type RegistryEntry struct {
	GraphID          string
	Script           *Script
	InputList        InputList
	SemanticSnapshot *SemanticSnapshot
	Owner            string // owning scene id
}
