// Package labels maps typed phone/email/address categories, plus an
// optional custom label, into human-readable display labels.
package labels

import (
	"github.com/addrbook/contact-bridge-service/internal/model"
)

// Kind selects the per-kind category table.
type Kind int

const (
	Phone Kind = iota + 1
	Email
	Address
)

func (kind Kind) String() string {
	switch kind {
	case Phone:
		return "phone"
	case Email:
		return "email"
	case Address:
		return "address"
	}
	return "unknown"
}

// canonical (non-localized) labels per (kind, category code)
var (
	phoneLabels = map[model.CategoryCode]string{
		model.PhoneHome:    "home",
		model.PhoneMobile:  "mobile",
		model.PhoneWork:    "work",
		model.PhoneFaxWork: "fax work",
		model.PhoneFaxHome: "fax home",
		model.PhonePager:   "pager",
		model.PhoneOther:   "other",
		model.PhoneMain:    "main",
	}
	emailLabels = map[model.CategoryCode]string{
		model.EmailHome:   "home",
		model.EmailWork:   "work",
		model.EmailOther:  "other",
		model.EmailMobile: "mobile",
	}
	addressLabels = map[model.CategoryCode]string{
		model.AddressHome:  "home",
		model.AddressWork:  "work",
		model.AddressOther: "other",
	}
)

const labelOther = "other"

// Resolver resolves display labels, optionally localizing them against
// a host-provided resource table. Resolution never fails: unknown
// category codes fall back to the generic "other" label.
type Resolver struct {
	// localized label resource table, keyed "<kind>.<canonical>",
	// e.g. "phone.fax work"
	resources map[string]string
}

type Option func(rsv *Resolver)

// WithResources installs the host environment's localized label table.
func WithResources(table map[string]string) Option {
	return func(rsv *Resolver) {
		rsv.resources = table
	}
}

func NewResolver(opts ...Option) *Resolver {
	rsv := &Resolver{}
	for _, setup := range opts {
		setup(rsv)
	}
	return rsv
}

// Resolve returns the display label for one labeled occurrence.
// The custom sentinel returns customLabel verbatim (blank when blank);
// no side effects.
func (rsv *Resolver) Resolve(kind Kind, code model.CategoryCode, customLabel string, localize bool) string {

	if code == model.CategoryCustom {
		return customLabel
	}

	var table map[model.CategoryCode]string
	switch kind {
	case Phone:
		table = phoneLabels
	case Email:
		table = emailLabels
	case Address:
		table = addressLabels
	}

	label, ok := table[code]
	if !ok {
		label = labelOther
	}

	if localize {
		if vs, ok := rsv.resources[kind.String()+"."+label]; ok {
			return vs
		}
		// no localized entry; canonical fallback
	}

	return label
}
