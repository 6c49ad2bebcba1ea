package aggregate_test

import (
	"testing"

	"github.com/addrbook/contact-bridge-service/internal/aggregate"
	"github.com/addrbook/contact-bridge-service/internal/labels"
	"github.com/addrbook/contact-bridge-service/internal/model"
)

// rowSource replays a fixed row slice.
type rowSource struct {
	rows   []model.FlatRow
	next   int
	err    error
	closed bool
}

func (src *rowSource) Next() bool {
	return src.next < len(src.rows)
}

func (src *rowSource) Scan(row *model.FlatRow) error {
	*row = src.rows[src.next]
	src.next++
	return nil
}

func (src *rowSource) Err() error { return src.err }
func (src *rowSource) Close()     { src.closed = true }

func nameRow(id, given, family string) model.FlatRow {
	return model.FlatRow{
		ContactId:  id,
		Kind:       model.KindName,
		GivenName:  given,
		FamilyName: family,
	}
}

func phoneRow(id, number string, code model.CategoryCode) model.FlatRow {
	return model.FlatRow{
		ContactId:   id,
		Kind:        model.KindPhone,
		PhoneNumber: number,
		PhoneType:   code,
	}
}

func TestContactsFirstSeenOrder(t *testing.T) {

	src := &rowSource{rows: []model.FlatRow{
		phoneRow("7", "+100", model.PhoneHome),
		nameRow("3", "Ada", "Lovelace"),
		phoneRow("7", "+200", model.PhoneWork),
		nameRow("9", "Alan", "Turing"),
	}}

	got, err := aggregate.Contacts(src, labels.NewResolver(), false)
	if err != nil {
		t.Fatalf("Contacts() error = %v", err)
	}
	if !src.closed {
		t.Error("row source not released")
	}

	want := []string{"7", "3", "9"}
	if len(got) != len(want) {
		t.Fatalf("len = %d, want %d", len(got), len(want))
	}
	for i, id := range want {
		if got[i].Identifier != id {
			t.Errorf("contacts[%d] = %s, want %s", i, got[i].Identifier, id)
		}
	}
	if n := len(got[0].Phones); n != 2 {
		t.Errorf("contact 7 phones = %d, want 2", n)
	}
}

func TestContactsBlankPhoneDropped(t *testing.T) {

	src := &rowSource{rows: []model.FlatRow{
		phoneRow("1", "", model.PhoneHome),
		{ContactId: "1", Kind: model.KindEmail}, // blank address
	}}

	got, err := aggregate.Contacts(src, labels.NewResolver(), false)
	if err != nil {
		t.Fatalf("Contacts() error = %v", err)
	}
	if len(got) != 1 {
		t.Fatalf("len = %d, want 1", len(got))
	}
	if n := len(got[0].Phones); n != 0 {
		t.Errorf("phones = %d, want 0", n)
	}
	if n := len(got[0].Emails); n != 0 {
		t.Errorf("emails = %d, want 0", n)
	}
}

// two name rows for one identifier: the last one wins in full, no
// matter how many other-kind rows interleave
func TestContactsNameOverwrite(t *testing.T) {

	src := &rowSource{rows: []model.FlatRow{
		nameRow("1", "Old", "Name"),
		phoneRow("1", "+100", model.PhoneHome),
		phoneRow("1", "+200", model.PhoneWork),
		nameRow("1", "New", "Name"),
	}}

	got, err := aggregate.Contacts(src, labels.NewResolver(), false)
	if err != nil {
		t.Fatalf("Contacts() error = %v", err)
	}
	if got[0].GivenName != "New" {
		t.Errorf("given = %q, want New", got[0].GivenName)
	}
	if n := len(got[0].Phones); n != 2 {
		t.Errorf("phones = %d, want 2", n)
	}
}

func TestContactsBirthdayEventOnly(t *testing.T) {

	src := &rowSource{rows: []model.FlatRow{
		{ContactId: "1", Kind: model.KindEvent, EventType: model.EventAnniversary, EventDate: "2001-01-01"},
		{ContactId: "1", Kind: model.KindEvent, EventType: model.EventBirthday, EventDate: "1990-05-05"},
	}}

	got, err := aggregate.Contacts(src, labels.NewResolver(), false)
	if err != nil {
		t.Fatalf("Contacts() error = %v", err)
	}
	if got[0].Birthday != "1990-05-05" {
		t.Errorf("birthday = %q, want 1990-05-05", got[0].Birthday)
	}
}

func TestContactsNilSource(t *testing.T) {
	got, err := aggregate.Contacts(nil, labels.NewResolver(), false)
	if err != nil {
		t.Fatalf("Contacts(nil) error = %v", err)
	}
	if got == nil || len(got) != 0 {
		t.Errorf("Contacts(nil) = %#v, want empty collection", got)
	}
}

func TestContactsCustomPhoneLabel(t *testing.T) {

	src := &rowSource{rows: []model.FlatRow{
		{
			ContactId:   "1",
			Kind:        model.KindPhone,
			PhoneNumber: "+100",
			PhoneType:   model.CategoryCustom,
			PhoneLabel:  "Mom",
		},
	}}

	got, err := aggregate.Contacts(src, labels.NewResolver(), false)
	if err != nil {
		t.Fatalf("Contacts() error = %v", err)
	}
	if label := got[0].Phones[0].Label; label != "Mom" {
		t.Errorf("label = %q, want Mom", label)
	}
}
