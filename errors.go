package collex

import (
	"fmt"
	"sort"
	"strings"

	"github.com/starkandwayne/goutils/ansi"
)

// DuplicateKeyError is returned when an item is added to a Node under a key
// that already exists in that Node.
type DuplicateKeyError struct {
	NodeID string
	Key    interface{}
}

func (e *DuplicateKeyError) Error() string {
	return ansi.Sprintf("@r{duplicate key} %v in node @c{%s}", e.Key, e.NodeID)
}

// CycleDetectedError is returned when AddChild or MoveTo would make a node
// its own ancestor.
type CycleDetectedError struct {
	ParentID string
	ChildID  string
}

func (e *CycleDetectedError) Error() string {
	return ansi.Sprintf("@r{cycle detected}: @c{%s} is already an ancestor of @c{%s}", e.ChildID, e.ParentID)
}

// NotFoundError is returned by lookups that require the id/key to exist.
type NotFoundError struct {
	What string
	ID   interface{}
}

func (e *NotFoundError) Error() string {
	return ansi.Sprintf("@y{not found}: %s %v", e.What, e.ID)
}

// AttachedElsewhereError signals an internal invariant violation: a node
// was expected to be unattached (or attached to a specific parent) but
// was found attached elsewhere. Should be impossible through the public API.
type AttachedElsewhereError struct {
	ChildID string
}

func (e *AttachedElsewhereError) Error() string {
	return ansi.Sprintf("@r{internal invariant violated}: node @c{%s} is attached elsewhere", e.ChildID)
}

// InvalidTokenError is returned when PaginationState.Complete is called with
// a token shape that doesn't match the edge's prior token kind. collex
// treats this as reject-with-error rather than warn-only.
type InvalidTokenError struct {
	EdgeID string
	Reason string
}

func (e *InvalidTokenError) Error() string {
	return ansi.Sprintf("@r{invalid page token} for edge @c{%s}: %s", e.EdgeID, e.Reason)
}

// PaginationStateMismatchError is returned by PaginationState.Complete when
// called on an edge that isn't currently loading. The call is a no-op: the
// edge's status, token, and error are left untouched and no notification
// fires.
type PaginationStateMismatchError struct {
	EdgeID   string
	Expected EdgeStatus
	Actual   EdgeStatus
}

func (e *PaginationStateMismatchError) Error() string {
	return ansi.Sprintf("@y{pagination state mismatch} on edge @c{%s}: expected %s, got %s", e.EdgeID, e.Expected, e.Actual)
}

// MultiError aggregates faults raised by multiple listeners during a single
// ChangeEmitter.Notify call, so that one faulting listener never hides
// faults raised by others.
type MultiError struct {
	Errors []error
}

func (e *MultiError) Error() string {
	lines := make([]string, 0, len(e.Errors))
	for _, err := range e.Errors {
		lines = append(lines, fmt.Sprintf(" - %s", err))
	}
	sort.Strings(lines)
	return ansi.Sprintf("@r{%d} listener error(s):\n%s", len(e.Errors), strings.Join(lines, "\n"))
}

// Append adds err to the aggregate, flattening nested MultiErrors and
// ignoring nil.
func (e *MultiError) Append(err error) {
	if err == nil {
		return
	}
	if me, ok := err.(*MultiError); ok {
		e.Errors = append(e.Errors, me.Errors...)
		return
	}
	e.Errors = append(e.Errors, err)
}

// AsError returns nil if no errors were appended, the sole error if exactly
// one was appended, or the MultiError itself otherwise.
func (e *MultiError) AsError() error {
	switch len(e.Errors) {
	case 0:
		return nil
	case 1:
		return e.Errors[0]
	default:
		return e
	}
}
