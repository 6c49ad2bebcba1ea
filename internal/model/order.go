package model

import (
	"slices"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

// OrderByName sorts contacts by a case/locale-aware comparison of
// (family name, given name). Blank parts sort before content; ties
// keep the original encounter order (stable).
func OrderByName(contacts []*Contact, locale language.Tag) {

	if locale == (language.Tag{}) {
		locale = language.Und
	}
	cl := collate.New(locale, collate.IgnoreCase)

	slices.SortStableFunc(contacts, func(a, b *Contact) int {
		if n := compareName(cl, a.FamilyName, b.FamilyName); n != 0 {
			return n
		}
		return compareName(cl, a.GivenName, b.GivenName)
	})
}

func compareName(cl *collate.Collator, a, b string) int {
	// blank sorts first
	if a == "" || b == "" {
		switch {
		case a == b:
			return 0
		case a == "":
			return -1
		}
		return +1
	}
	return cl.CompareString(a, b)
}
