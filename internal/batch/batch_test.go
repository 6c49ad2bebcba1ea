package batch_test

import (
	"strings"
	"testing"

	"github.com/addrbook/contact-bridge-service/internal/batch"
	"github.com/addrbook/contact-bridge-service/internal/model"
	"github.com/addrbook/contact-bridge-service/internal/store"
)

func contact() *model.Contact {
	return &model.Contact{
		GivenName:  "Ada",
		FamilyName: "Lovelace",
		Note:       "first",
		Company:    "Analytical Engines",
		Phones: []model.Item{
			{Value: "+100", Type: model.PhoneMobile},
			{Value: "+200", Type: model.CategoryCustom, Label: "Mom"},
		},
		Emails: []model.Item{
			{Value: "ada@engines.example", Type: model.EmailWork},
		},
	}
}

func TestCreateBatchShape(t *testing.T) {

	ops := batch.Create(contact())

	// 6 fixed steps (container, name, note, org, photo, birthday)
	// plus one per phone/email/address
	if want := 6 + 2 + 1; len(ops) != want {
		t.Fatalf("len(ops) = %d, want %d", len(ops), want)
	}

	first := ops[0]
	if first.Type != store.OpInsert || first.Target != store.TargetContainer {
		t.Errorf("step 1 = %+v, want container insert", first)
	}
	if first.BackRef != store.NoBackRef {
		t.Errorf("step 1 back-ref = %d, want none", first.BackRef)
	}
	if v, ok := first.Values[store.ColAccountType]; !ok || v != nil {
		t.Errorf("container account_type = %v, want explicit nil", v)
	}

	for i, op := range ops[1:] {
		if op.Target != store.TargetData || op.Type != store.OpInsert {
			t.Errorf("step %d = %+v, want data insert", i+2, op)
		}
		if op.BackRef != 0 {
			t.Errorf("step %d back-ref = %d, want 0", i+2, op.BackRef)
		}
	}

	// birthday last, written even when blank
	last := ops[len(ops)-1]
	if last.Values[store.ColKind] != model.KindEvent.String() {
		t.Errorf("last step kind = %v, want event", last.Values[store.ColKind])
	}
	if date, ok := last.Values[store.ColEventDate]; !ok || date != "" {
		t.Errorf("event date = %v, want blank written", date)
	}
}

func TestCreatePhotoSuperPrimaryYield(t *testing.T) {

	ops := batch.Create(contact())
	photo := ops[4]

	if photo.Values[store.ColKind] != model.KindPhoto.String() {
		t.Fatalf("step 5 kind = %v, want photo", photo.Values[store.ColKind])
	}
	if photo.Values[store.ColIsSuperPrimary] != true {
		t.Error("photo not marked super-primary")
	}
	if !photo.YieldAllowed {
		t.Error("photo step not marked as yield point")
	}
	for i, op := range ops {
		if i != 4 && op.YieldAllowed {
			t.Errorf("step %d marked as yield point", i+1)
		}
	}
}

func TestCreatePhoneCustomLabel(t *testing.T) {

	ops := batch.Create(contact())

	// phones follow the 5 fixed leading steps, in declaration order
	plain, custom := ops[5], ops[6]

	if plain.Values[store.ColPhoneType] != int32(model.PhoneMobile) {
		t.Errorf("plain phone type = %v", plain.Values[store.ColPhoneType])
	}
	if _, ok := plain.Values[store.ColPhoneLabel]; ok {
		t.Error("plain phone carries a label")
	}

	if custom.Values[store.ColPhoneType] != int32(model.CategoryCustom) {
		t.Errorf("custom phone type = %v, want custom sentinel", custom.Values[store.ColPhoneType])
	}
	if custom.Values[store.ColPhoneLabel] != "Mom" {
		t.Errorf("custom phone label = %v, want Mom", custom.Values[store.ColPhoneLabel])
	}
}

func TestUpdateBatch(t *testing.T) {

	c := contact()
	c.Identifier = "42"

	ops, err := batch.Update(c)
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	// 6 deletes + name update + org/note/photo + 2 phones + 1 email
	if want := 6 + 1 + 3 + 2 + 1; len(ops) != want {
		t.Fatalf("len(ops) = %d, want %d", len(ops), want)
	}

	// deletes never touch name rows
	for i, op := range ops[:6] {
		if op.Type != store.OpDelete {
			t.Fatalf("step %d = %+v, want delete", i+1, op)
		}
		for _, arg := range op.Selection.Args {
			if arg == model.KindName.String() {
				t.Error("update deletes the name row")
			}
		}
	}

	name := ops[6]
	if name.Type != store.OpUpdate {
		t.Fatalf("step 7 = %+v, want name update in place", name)
	}
	if !strings.Contains(name.Selection.Filter, store.ColKind) {
		t.Errorf("name selection = %q, want kind-qualified", name.Selection.Filter)
	}

	// org insert carries the explicit work category; create's does not
	org := ops[7]
	if org.Values[store.ColOrgType] != int32(1) {
		t.Errorf("org type = %v, want work category", org.Values[store.ColOrgType])
	}
	if _, ok := batch.Create(c)[3].Values[store.ColOrgType]; ok {
		t.Error("create's org insert carries a category")
	}

	// inserts tag the identifier directly, no back-reference
	for i, op := range ops[7:] {
		if op.BackRef != store.NoBackRef {
			t.Errorf("step %d back-ref = %d, want none", i+8, op.BackRef)
		}
		if op.Values[store.ColContactId] != "42" {
			t.Errorf("step %d contact_id = %v, want 42", i+8, op.Values[store.ColContactId])
		}
	}

	// no birthday replacement on update
	for _, op := range ops {
		if op.Type == store.OpInsert && op.Values[store.ColKind] == model.KindEvent.String() {
			t.Error("update inserts a birthday event row")
		}
	}
}

func TestUpdateRequiresIdentifier(t *testing.T) {
	if _, err := batch.Update(contact()); err != batch.ErrNotPersisted {
		t.Errorf("Update() error = %v, want ErrNotPersisted", err)
	}
}

func TestDeleteBatch(t *testing.T) {

	if _, err := batch.Delete(contact()); err != batch.ErrNotPersisted {
		t.Errorf("Delete() error = %v, want ErrNotPersisted", err)
	}

	c := contact()
	c.Identifier = "42"

	ops, err := batch.Delete(c)
	if err != nil {
		t.Fatalf("Delete() error = %v", err)
	}
	if len(ops) != 1 {
		t.Fatalf("len(ops) = %d, want 1", len(ops))
	}
	op := ops[0]
	if op.Type != store.OpDelete || op.Target != store.TargetContainer {
		t.Errorf("op = %+v, want container delete", op)
	}
	if len(op.Selection.Args) != 1 || op.Selection.Args[0] != "42" {
		t.Errorf("selection args = %v, want [42]", op.Selection.Args)
	}
}
