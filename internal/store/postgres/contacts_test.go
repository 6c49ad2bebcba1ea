package postgres

import (
	"strings"
	"testing"

	"github.com/addrbook/contact-bridge-service/internal/batch"
	"github.com/addrbook/contact-bridge-service/internal/model"
	"github.com/addrbook/contact-bridge-service/internal/store"
)

func TestNativeArg(t *testing.T) {
	tests := []struct {
		name string
		give any
		want any
	}{
		{name: "digit string", give: "42", want: int64(42)},
		{name: "blank string", give: "", want: ""},
		{name: "like pattern", give: "Ada%", want: "Ada%"},
		{name: "kind value", give: "phone", want: "phone"},
		{name: "mixed", give: "42a", want: "42a"},
		{name: "already typed", give: int64(7), want: int64(7)},
		{name: "non string", give: true, want: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := nativeArg(tt.give); got != tt.want {
				t.Errorf("nativeArg(%v) = %#v, want %#v", tt.give, got, tt.want)
			}
		})
	}
}

func TestNativeValuesKeyColumnsOnly(t *testing.T) {

	values := nativeValues(map[string]any{
		store.ColContactId:   "42",
		store.ColPhoneNumber: "5550100", // attribute; stays text
	})

	if got := values[store.ColContactId]; got != int64(42) {
		t.Errorf("contact_id = %#v, want int64", got)
	}
	if got := values[store.ColPhoneNumber]; got != "5550100" {
		t.Errorf("phone_number = %#v, want untouched string", got)
	}
}

func TestNormalizePhone(t *testing.T) {
	tests := []struct {
		give string
		want string
	}{
		{give: "+1 (555) 010-0", want: "15550100"},
		{give: "555.01.00", want: "5550100"},
		{give: "no digits", want: ""},
		{give: "", want: ""},
	}
	for _, tt := range tests {
		if got := normalizePhone(tt.give); got != tt.want {
			t.Errorf("normalizePhone(%q) = %q, want %q", tt.give, got, tt.want)
		}
	}
}

func TestDataValuesResolvesBackReference(t *testing.T) {

	assigned := map[int]int64{0: 7}

	// every data step of a create batch references the container
	// assigned by step one
	ops := batch.Create(&model.Contact{GivenName: "Ada", FamilyName: "Lovelace"})
	for i, op := range ops[1:] {
		values, cid, err := dataValues(op, assigned)
		if err != nil {
			t.Fatalf("step %d: dataValues() error = %v", i+1, err)
		}
		if cid != 7 {
			t.Errorf("step %d: container id = %d, want 7", i+1, cid)
		}
		if got := values[store.ColContactId]; got != int64(7) {
			t.Errorf("step %d: contact_id = %#v, want int64(7)", i+1, got)
		}
	}
}

func TestDataValuesDanglingBackReference(t *testing.T) {

	op := store.Operation{
		Type:    store.OpInsert,
		Target:  store.TargetData,
		BackRef: 3,
		Values: map[string]any{
			store.ColKind: model.KindNote.String(),
		},
	}

	if _, _, err := dataValues(op, map[int]int64{0: 7}); err == nil {
		t.Error("dangling back-reference accepted")
	}
}

func TestDataValuesDirectIdentifier(t *testing.T) {

	op := store.Operation{
		Type:    store.OpInsert,
		Target:  store.TargetData,
		BackRef: store.NoBackRef,
		Values: map[string]any{
			store.ColContactId: "42",
			store.ColKind:      model.KindNote.String(),
		},
	}

	values, cid, err := dataValues(op, nil)
	if err != nil {
		t.Fatalf("dataValues() error = %v", err)
	}
	if cid != 42 {
		t.Errorf("container id = %d, want 42", cid)
	}
	if got := values[store.ColContactId]; got != int64(42) {
		t.Errorf("contact_id = %#v, want int64(42)", got)
	}
}

func TestDisplayNameDerivation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
		want   string
		named  bool
	}{
		{
			name: "full name",
			values: map[string]any{
				store.ColPrefix:     "Dr.",
				store.ColGivenName:  "Ada",
				store.ColMiddleName: "",
				store.ColFamilyName: "Lovelace",
				store.ColSuffix:     "",
			},
			want:  "Dr. Ada Lovelace",
			named: true,
		},
		{
			name: "single part",
			values: map[string]any{
				store.ColGivenName: "Ada",
			},
			want:  "Ada",
			named: true,
		},
		{
			name: "all blank",
			values: map[string]any{
				store.ColGivenName:  "",
				store.ColFamilyName: "",
			},
			want:  "",
			named: true,
		},
		{
			name: "not a name write",
			values: map[string]any{
				store.ColKind: model.KindNote.String(),
				store.ColNote: "hello",
			},
			named: false,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, named := displayNameOf(tt.values)
			if named != tt.named {
				t.Fatalf("named = %v, want %v", named, tt.named)
			}
			if got != tt.want {
				t.Errorf("display name = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestMutationBatchesCarryDerivableName(t *testing.T) {

	// the free-text read mode filters on display_name_primary; both
	// mutation paths must keep it derivable from their name writes

	create := batch.Create(&model.Contact{
		Prefix:     "Dr.",
		GivenName:  "Ada",
		FamilyName: "Lovelace",
	})
	name, ok := displayNameOf(create[1].Values)
	if !ok || name != "Dr. Ada Lovelace" {
		t.Errorf("create name step: (%q, %v), want derived name", name, ok)
	}

	update, err := batch.Update(&model.Contact{
		Identifier: "42",
		GivenName:  "Grace",
		FamilyName: "Hopper",
	})
	if err != nil {
		t.Fatalf("batch.Update() error = %v", err)
	}
	found := false
	for _, op := range update {
		if op.Type != store.OpUpdate {
			continue
		}
		if n, ok := displayNameOf(op.Values); ok && n == "Grace Hopper" {
			found = true
		}
	}
	if !found {
		t.Error("update batch has no derivable name write")
	}
}

func TestProjectionMatchesScanOrder(t *testing.T) {
	// the row scanner binds 30 columns positionally
	if len(projection) != 30 {
		t.Fatalf("projection has %d columns, want 30", len(projection))
	}
	if projection[0] != dep_data+".contact_id" {
		t.Errorf("projection[0] = %s", projection[0])
	}
	for _, col := range projection {
		if !strings.HasPrefix(col, dep_data+".") && !strings.HasPrefix(col, dep_container+".") {
			t.Errorf("unqualified projection column %s", col)
		}
	}
}
