package model

// FlatRow is one denormalized record of the backing store: a single
// attribute-occurrence plus its owning contact identifier and kind
// discriminator. A logical contact spans many rows; the container
// scalars (display name, account provenance) repeat on every row.
type FlatRow struct {
	ContactId   string
	DisplayName string
	Kind        Kind

	// origin account provenance (read-only)
	AccountType string
	AccountName string

	// name-kind
	GivenName  string
	MiddleName string
	FamilyName string
	Prefix     string
	Suffix     string

	// note-kind
	Note string

	// phone-kind
	PhoneNumber string
	PhoneType   CategoryCode
	PhoneLabel  string

	// email-kind
	EmailAddress string
	EmailType    CategoryCode
	EmailLabel   string

	// organization-kind
	Company  string
	JobTitle string

	// address-kind
	AddressType  CategoryCode
	AddressLabel string
	Street       string
	POBox        string
	Neighborhood string
	City         string
	Region       string
	Postcode     string
	Country      string

	// event-kind
	EventType EventType
	EventDate string
}
