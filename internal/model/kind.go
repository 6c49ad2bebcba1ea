package model

// Kind discriminates flat data rows by the attribute they carry.
// The set is closed: rows of any other kind are ignored by the
// aggregator and never produced by the mutation compiler.
type Kind int32

const (
	KindUnknown Kind = iota
	KindName
	KindNote
	KindPhone
	KindEmail
	KindOrganization
	KindAddress
	KindEvent
	KindPhoto
)

var kindNames = map[Kind]string{
	KindName:         "name",
	KindNote:         "note",
	KindPhone:        "phone",
	KindEmail:        "email",
	KindOrganization: "organization",
	KindAddress:      "address",
	KindEvent:        "event",
	KindPhoto:        "photo",
}

func (kind Kind) String() string {
	if vs, ok := kindNames[kind]; ok {
		return vs
	}
	return "unknown"
}

func ParseKind(vs string) Kind {
	for kind, name := range kindNames {
		if name == vs {
			return kind
		}
	}
	return KindUnknown
}

// DataKinds lists every row kind the full projection selects.
func DataKinds() []string {
	return []string{
		KindName.String(),
		KindNote.String(),
		KindPhone.String(),
		KindEmail.String(),
		KindOrganization.String(),
		KindAddress.String(),
		KindEvent.String(),
	}
}

// CategoryCode classifies a phone, email or postal address occurrence.
// Code semantics are per-kind; zero is the shared "custom" sentinel.
type CategoryCode int32

const CategoryCustom CategoryCode = 0

// Phone categories
const (
	PhoneHome CategoryCode = iota + 1
	PhoneMobile
	PhoneWork
	PhoneFaxWork
	PhoneFaxHome
	PhonePager
	PhoneOther
)

const PhoneMain CategoryCode = 12

// Email categories
const (
	EmailHome CategoryCode = iota + 1
	EmailWork
	EmailOther
	EmailMobile
)

// Postal address categories
const (
	AddressHome CategoryCode = iota + 1
	AddressWork
	AddressOther
)

// EventType sub-classifies event-kind rows.
type EventType int32

const (
	EventCustom EventType = iota
	EventAnniversary
	EventOther
	EventBirthday
)
