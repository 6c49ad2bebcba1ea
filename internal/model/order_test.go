package model

import (
	"testing"

	"golang.org/x/text/language"
)

func TestOrderByName(t *testing.T) {
	tests := []struct {
		name string
		give []*Contact
		want []string // identifiers, expected order
	}{
		{
			name: "by family name",
			give: []*Contact{
				{Identifier: "1", FamilyName: "Zeta", GivenName: "A"},
				{Identifier: "2", FamilyName: "Alpha", GivenName: "B"},
			},
			want: []string{"2", "1"},
		},
		{
			name: "family ties break on given name",
			give: []*Contact{
				{Identifier: "1", FamilyName: "Smith", GivenName: "Zoe"},
				{Identifier: "2", FamilyName: "Smith", GivenName: "Amy"},
			},
			want: []string{"2", "1"},
		},
		{
			name: "blank family sorts first",
			give: []*Contact{
				{Identifier: "1", FamilyName: "Alpha"},
				{Identifier: "2"},
			},
			want: []string{"2", "1"},
		},
		{
			name: "case insensitive",
			give: []*Contact{
				{Identifier: "1", FamilyName: "beta"},
				{Identifier: "2", FamilyName: "Alpha"},
			},
			want: []string{"2", "1"},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			OrderByName(tt.give, language.English)
			for i, want := range tt.want {
				if got := tt.give[i].Identifier; got != want {
					t.Errorf("contacts[%d] = %s, want %s", i, got, want)
				}
			}
		})
	}
}

func TestParseKind(t *testing.T) {
	for kind := KindName; kind <= KindPhoto; kind++ {
		if got := ParseKind(kind.String()); got != kind {
			t.Errorf("ParseKind(%q) = %v, want %v", kind.String(), got, kind)
		}
	}
	if got := ParseKind("vnd.something.else"); got != KindUnknown {
		t.Errorf("ParseKind(unknown) = %v, want KindUnknown", got)
	}
}
