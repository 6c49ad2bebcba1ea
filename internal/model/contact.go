package model

// Contact profile
type Contact struct {
	// Storage-assigned identifier; blank until the contact is persisted.
	// A Contact with a blank identifier can only be created, never
	// updated or deleted.
	Identifier string
	// Display name in displayable form including all name parts,
	// derived by the backing store; read-only from our side.
	DisplayName string

	// ------------------------------------ //
	//         Structured name parts        //
	// ------------------------------------ //

	Prefix     string
	GivenName  string
	MiddleName string
	FamilyName string
	Suffix     string

	// Organization
	Company  string
	JobTitle string

	// Free-form note text.
	Note string
	// Free-form birthday date string, as stored.
	Birthday string
	// Raw avatar image bytes; empty when the contact has no photo.
	Avatar []byte

	// Origin account provenance (read-only)
	AccountType string
	AccountName string

	// Ordered collections; duplicates allowed, insertion order is the
	// row-encounter order of the read path.
	Phones          []Item
	Emails          []Item
	PostalAddresses []PostalAddress
}

// New returns a Contact shell for the given storage identifier.
func New(identifier string) *Contact {
	return &Contact{Identifier: identifier}
}

// Persisted reports whether the contact carries a storage identifier.
func (c *Contact) Persisted() bool {
	return c != nil && c.Identifier != ""
}

// Item is one labeled phone or email occurrence.
// When Type is the custom sentinel the Label text is authoritative;
// otherwise the label is derived from Type and Label is only carried
// for round-tripping.
type Item struct {
	Label string
	Value string
	Type  CategoryCode
}

// PostalAddress is one labeled structured postal address occurrence,
// with the same custom-label rule as Item.
type PostalAddress struct {
	Label        string
	Type         CategoryCode
	Street       string
	POBox        string
	Neighborhood string
	City         string
	Region       string
	Postcode     string
	Country      string
}
