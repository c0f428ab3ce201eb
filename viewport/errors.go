package viewport

import "fmt"

// InvalidGraphError is returned from PutGraph when compilation rejects the
// graph (spec.md §7): malformed primitive data, a missing child uid, or a
// cycle. The offending PutGraph is rejected and state is left unchanged.
type InvalidGraphError struct {
	Reason string
}

func (e *InvalidGraphError) Error() string { return "invalid graph: " + e.Reason }

// NotFoundError reports that an element id, graph id, or scene id is
// unknown to the coordinator (spec.md §7).
type NotFoundError struct {
	Kind string // "graph", "scene", "element", "driver"
	ID   string
}

func (e *NotFoundError) Error() string { return fmt.Sprintf("%s %q not found", e.Kind, e.ID) }

// SemanticDisabledError is returned by semantic queries against a ViewPort
// started with semantic indexing off (spec.md §7).
type SemanticDisabledError struct{}

func (e *SemanticDisabledError) Error() string { return "semantic indexing is disabled" }

// NoDriverError is returned by an automation click when no driver is
// attached to receive the synthetic input (spec.md §7).
type NoDriverError struct{}

func (e *NoDriverError) Error() string { return "no driver attached" }

// InvalidStateError covers operations logged rather than propagated as
// exceptions per spec.md §7: capture release by a non-holder, double
// detachment. Exported so callers that do want to inspect it via
// errors.As still can; no coordinator operation currently returns or logs
// one.
type InvalidStateError struct {
	Reason string
}

func (e *InvalidStateError) Error() string { return "invalid state: " + e.Reason }
