package model

import (
	"encoding/json"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
)

func sample() *Contact {
	return &Contact{
		Identifier:  "42",
		DisplayName: "Ada Lovelace",
		Prefix:      "Ms",
		GivenName:   "Ada",
		MiddleName:  "King",
		FamilyName:  "Lovelace",
		Suffix:      "PhD",
		Company:     "Analytical Engines",
		JobTitle:    "Programmer",
		Note:        "first",
		Birthday:    "1815-12-10",
		Avatar:      []byte{0x89, 0x50, 0x4e, 0x47},
		AccountType: "local",
		AccountName: "device",
		Phones: []Item{
			{Label: "mobile", Value: "+1 555 0100", Type: PhoneMobile},
			{Label: "Mom", Value: "+1 555 0101", Type: CategoryCustom},
		},
		Emails: []Item{
			{Label: "work", Value: "ada@engines.example", Type: EmailWork},
		},
		PostalAddresses: []PostalAddress{{
			Label:    "home",
			Type:     AddressHome,
			Street:   "12 St James Square",
			City:     "London",
			Postcode: "SW1Y 4JH",
			Country:  "UK",
		}},
	}
}

func TestTransportRoundTrip(t *testing.T) {

	want := sample()
	got := ContactFromMap(want.TransportMap())

	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("ContactFromMap(TransportMap()) mismatch (-want +got):\n%s", diff)
	}
}

// the transport map survives a JSON hop: numbers come back float64,
// avatar bytes come back base64, lists come back []any
func TestTransportRoundTripJSON(t *testing.T) {

	want := sample()

	raw, err := json.Marshal(want.TransportMap())
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var wire map[string]any
	if err := json.Unmarshal(raw, &wire); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}

	got := ContactFromMap(wire)
	if diff := cmp.Diff(want, got, cmpopts.EquateEmpty()); diff != "" {
		t.Errorf("round-trip over JSON mismatch (-want +got):\n%s", diff)
	}
}

func TestContactFromMapNil(t *testing.T) {
	got := ContactFromMap(nil)
	if got == nil {
		t.Fatal("ContactFromMap(nil) = nil, want blank contact")
	}
	if got.Persisted() {
		t.Errorf("blank contact reports persisted")
	}
}

func TestTransportMapAvatarNeverNil(t *testing.T) {
	c := New("")
	avatar, ok := c.TransportMap()["avatar"].([]byte)
	if !ok || avatar == nil {
		t.Errorf("avatar = %#v, want non-nil empty []byte", c.TransportMap()["avatar"])
	}
}
