package store

// Wire column names of the flat-row projection. Selections and
// operation value maps are keyed by these.
const (
	ColContainerId        = "id"
	ColContactId          = "contact_id"
	ColDisplayNamePrimary = "display_name_primary"
	ColKind               = "kind"
	ColAccountType        = "account_type"
	ColAccountName        = "account_name"

	ColGivenName  = "given_name"
	ColMiddleName = "middle_name"
	ColFamilyName = "family_name"
	ColPrefix     = "prefix"
	ColSuffix     = "suffix"

	ColNote = "note"

	ColPhoneNumber = "phone_number"
	ColPhoneType   = "phone_type"
	ColPhoneLabel  = "phone_label"

	ColEmailAddress = "email_address"
	ColEmailType    = "email_type"
	ColEmailLabel   = "email_label"

	ColCompany  = "company"
	ColJobTitle = "job_title"
	ColOrgType  = "org_type"

	ColAddressType  = "address_type"
	ColAddressLabel = "address_label"
	ColStreet       = "street"
	ColPOBox        = "pobox"
	ColNeighborhood = "neighborhood"
	ColCity         = "city"
	ColRegion       = "region"
	ColPostcode     = "postcode"
	ColCountry      = "country"

	ColEventType = "event_type"
	ColEventDate = "event_start_date"

	ColIsSuperPrimary = "is_super_primary"
	ColPhoto          = "photo"
)

type OpType int

const (
	OpInsert OpType = iota + 1
	OpUpdate
	OpDelete
)

// Target addresses either the raw-contact container relation or the
// flat data-row relation.
type Target int

const (
	TargetContainer Target = iota + 1
	TargetData
)

// NoBackRef marks an operation that does not depend on an earlier
// container insert.
const NoBackRef = -1

// Operation is one atomic sub-operation of a mutation batch.
type Operation struct {
	Type   OpType
	Target Target
	// Column values to write (Insert/Update).
	Values map[string]any
	// BackRef, when >= 0, is the batch index of a container insert
	// whose assigned identifier fills this row's contact_id column.
	BackRef int
	// Selection restricts Update/Delete targets.
	Selection Selection
	// YieldAllowed marks a safe interleave point for backends that
	// support cooperative batching; the atomicity guarantee holds
	// either way.
	YieldAllowed bool
}
