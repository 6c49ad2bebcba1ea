// Package store declares the storage collaborator contract: row
// queries over the flat projection, phone-index lookups, atomic
// mutation batches and photo streams. Implementations live in
// sub-packages (postgres).
package store

import (
	"context"

	"github.com/addrbook/contact-bridge-service/internal/model"
)

// RowSource yields flat projection rows one at a time.
// Consumers release it with Close regardless of outcome.
type RowSource interface {
	Next() bool
	Scan(row *model.FlatRow) error
	Err() error
	Close()
}

type DataStore interface {
	// QueryRows runs the given selection over the full flat-row
	// projection, ordered by physical row id.
	QueryRows(QueryRowsRequest) (RowSource, error)
	// LookupPhone resolves a phone string against the phone-lookup
	// index to candidate contact identifiers. A blank number yields
	// an empty set without touching the store.
	LookupPhone(LookupPhoneRequest) ([]string, error)
	// ApplyBatch executes a compiled operation list as one
	// all-or-nothing transaction.
	ApplyBatch(ApplyBatchRequest) error
	// OpenPhoto returns the avatar bytes for a contact, or nil when
	// the contact has no photo row.
	OpenPhoto(OpenPhotoRequest) ([]byte, error)
}

type QueryRowsRequest struct {
	// Context
	context.Context
	// Row filter ('?' placeholders + ordered args)
	Selection Selection
}

type LookupPhoneRequest struct {
	// Context
	context.Context
	// Phone number, any formatting
	Number string
}

type ApplyBatchRequest struct {
	// Context
	context.Context
	// Ordered operation list; earlier container inserts may be
	// back-referenced by later operations.
	Ops []Operation
}

type OpenPhotoRequest struct {
	// Context
	context.Context
	// Contact identifier
	ContactId string
	// Prefer the full-size photo over the thumbnail
	HighRes bool
}

// Selection is a filter expression with its ordered argument list,
// using '?' placeholders (rebound by the implementation's dialect).
type Selection struct {
	Filter string
	Args   []any
}

// Zero reports an absent selection.
func (sel Selection) Zero() bool {
	return sel.Filter == ""
}
