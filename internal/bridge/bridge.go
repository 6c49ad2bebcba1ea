// Package bridge turns an external form/picker round-trip's completion
// signal into a terminal outcome: a selected identifier, a cancellation
// marker, or a hard-failure marker.
package bridge

import (
	"context"
	"strings"
	"sync"
)

type RequestKind int32

const (
	// KindCreate opens a blank contact form.
	KindCreate RequestKind = iota + 1
	// KindEdit opens the form pre-filled for an existing contact.
	KindEdit
	// KindPick opens the pick-from-list screen.
	KindPick
)

func (k RequestKind) String() string {
	switch k {
	case KindCreate:
		return "create"
	case KindEdit:
		return "edit"
	case KindPick:
		return "pick"
	}
	return "unknown"
}

// Request is one pick/edit/create round-trip dispatched to the external
// UI collaborator. Identifier is set for KindEdit only.
type Request struct {
	Kind       RequestKind
	Identifier string
}

// Completion is the collaborator's terminal signal. A zero Completion
// (no locator, not cancelled) is the malformed case.
type Completion struct {
	// Locator addresses the affected contact, last path segment is the
	// storage identifier.
	Locator string
	// Cancelled reports the user backed out.
	Cancelled bool
}

type State int32

const (
	StateAwaiting State = iota
	StateCompleted
	StateCancelled
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateAwaiting:
		return "awaiting"
	case StateCompleted:
		return "completed"
	case StateCancelled:
		return "cancelled"
	case StateFailed:
		return "failed"
	}
	return "unknown"
}

// Outcome maps a completion signal to its terminal state and, when
// completed, the selected contact identifier. Cancellation wins over
// whatever else the signal carries; an absent or malformed locator is a
// failure, never a crash.
func Outcome(cmpl Completion) (State, string) {
	if cmpl.Cancelled {
		return StateCancelled, ""
	}
	id := IdentifierFromLocator(cmpl.Locator)
	if id == "" {
		return StateFailed, ""
	}
	return StateCompleted, id
}

// IdentifierFromLocator extracts the trailing path segment of a contact
// locator URI. Blank input, or a locator ending in a separator, yields
// the empty string.
func IdentifierFromLocator(locator string) string {
	if i := strings.LastIndexByte(locator, '/'); i >= 0 {
		return locator[i+1:]
	}
	return locator
}

// Pending is the one-shot handle of an in-flight round-trip. Resolve is
// idempotent: the first signal wins, later ones are dropped.
type Pending struct {
	once sync.Once
	done chan Completion
}

func NewPending() *Pending {
	return &Pending{
		done: make(chan Completion, 1),
	}
}

func (p *Pending) Resolve(cmpl Completion) {
	p.once.Do(func() {
		p.done <- cmpl
	})
}

// Done exposes the completion channel; it yields at most one value.
func (p *Pending) Done() <-chan Completion {
	return p.done
}

func (p *Pending) Wait(ctx context.Context) (Completion, error) {
	select {
	case cmpl := <-p.done:
		return cmpl, nil
	case <-ctx.Done():
		return Completion{}, ctx.Err()
	}
}
