// Package query compiles the read-mode filter expressions consumed by
// the storage collaborator. Expressions are built with squirrel and
// rendered with '?' placeholders; the store rebinds them to its own
// dialect.
package query

import (
	sq "github.com/Masterminds/squirrel"

	"github.com/addrbook/contact-bridge-service/internal/model"
	"github.com/addrbook/contact-bridge-service/internal/store"
)

// Rows builds the selection of the free-text / by-identifier / default
// read modes over the full projection:
//
//   - both blank: every data-row kind, or rows with account provenance
//   - text set: display-name-primary prefix match (replaces default)
//   - identifier set: ANDed onto whichever filter is active
func Rows(text, identifier string) store.Selection {

	var expr sq.Sqlizer = sq.Or{
		sq.Eq{store.ColKind: model.DataKinds()},
		sq.NotEq{store.ColAccountType: nil},
	}

	if text != "" {
		expr = sq.Like{store.ColDisplayNamePrimary: text + "%"}
	}
	if identifier != "" {
		expr = sq.And{expr, sq.Eq{store.ColContactId: identifier}}
	}

	return compile(expr)
}

// ByIdentifier is the picker/editor completion read path.
func ByIdentifier(identifier string) store.Selection {
	return compile(sq.Eq{store.ColContactId: identifier})
}

// ByCandidates is stage 2 of the phone lookup: full projection rows of
// the candidate identifier set. An empty set compiles to no selection;
// callers must not issue a query for it.
func ByCandidates(ids []string) store.Selection {
	if len(ids) == 0 {
		return store.Selection{}
	}
	return compile(sq.Eq{store.ColContactId: ids})
}

// ByEmail matches rows whose email address contains the given text.
// Case sensitivity is a storage-collaborator property.
func ByEmail(email string) store.Selection {
	if email == "" {
		return store.Selection{}
	}
	return compile(sq.Like{store.ColEmailAddress: "%" + email + "%"})
}

func compile(expr sq.Sqlizer) store.Selection {
	filter, args, err := expr.ToSql()
	if err != nil {
		// squirrel only fails on empty Eq-sets, which the
		// constructors above never produce
		return store.Selection{}
	}
	return store.Selection{Filter: filter, Args: args}
}
