package model

import "encoding/base64"

// Flat key-value transport representation of a Contact. Scalar keys
// plus three ordered list-of-map keys (phones, emails,
// postalAddresses). The same shape travels both directions of the
// method channel.

func (c *Contact) TransportMap() map[string]any {

	avatar := c.Avatar
	if avatar == nil {
		avatar = []byte{}
	}

	phones := make([]map[string]any, 0, len(c.Phones))
	for _, e := range c.Phones {
		phones = append(phones, itemMap(e))
	}
	emails := make([]map[string]any, 0, len(c.Emails))
	for _, e := range c.Emails {
		emails = append(emails, itemMap(e))
	}
	addresses := make([]map[string]any, 0, len(c.PostalAddresses))
	for _, e := range c.PostalAddresses {
		addresses = append(addresses, map[string]any{
			"label":        e.Label,
			"type":         int32(e.Type),
			"street":       e.Street,
			"pobox":        e.POBox,
			"neighborhood": e.Neighborhood,
			"city":         e.City,
			"region":       e.Region,
			"postcode":     e.Postcode,
			"country":      e.Country,
		})
	}

	return map[string]any{
		"identifier":      c.Identifier,
		"displayName":     c.DisplayName,
		"prefix":          c.Prefix,
		"givenName":       c.GivenName,
		"middleName":      c.MiddleName,
		"familyName":      c.FamilyName,
		"suffix":          c.Suffix,
		"company":         c.Company,
		"jobTitle":        c.JobTitle,
		"note":            c.Note,
		"birthday":        c.Birthday,
		"avatar":          avatar,
		"accountType":     c.AccountType,
		"accountName":     c.AccountName,
		"phones":          phones,
		"emails":          emails,
		"postalAddresses": addresses,
	}
}

func itemMap(e Item) map[string]any {
	return map[string]any{
		"label": e.Label,
		"value": e.Value,
		"type":  int32(e.Type),
	}
}

// ContactFromMap rebuilds a Contact from its transport representation.
// Tolerates the value re-typing a JSON hop introduces (float64 numbers,
// []any lists, base64 byte strings). A nil map yields a blank Contact.
func ContactFromMap(src map[string]any) *Contact {

	c := &Contact{
		Identifier:  mapString(src, "identifier"),
		DisplayName: mapString(src, "displayName"),
		Prefix:      mapString(src, "prefix"),
		GivenName:   mapString(src, "givenName"),
		MiddleName:  mapString(src, "middleName"),
		FamilyName:  mapString(src, "familyName"),
		Suffix:      mapString(src, "suffix"),
		Company:     mapString(src, "company"),
		JobTitle:    mapString(src, "jobTitle"),
		Note:        mapString(src, "note"),
		Birthday:    mapString(src, "birthday"),
		Avatar:      mapBytes(src, "avatar"),
		AccountType: mapString(src, "accountType"),
		AccountName: mapString(src, "accountName"),
	}

	for _, e := range mapList(src, "phones") {
		c.Phones = append(c.Phones, itemFromMap(e))
	}
	for _, e := range mapList(src, "emails") {
		c.Emails = append(c.Emails, itemFromMap(e))
	}
	for _, e := range mapList(src, "postalAddresses") {
		c.PostalAddresses = append(c.PostalAddresses, PostalAddress{
			Label:        mapString(e, "label"),
			Type:         CategoryCode(mapInt32(e, "type")),
			Street:       mapString(e, "street"),
			POBox:        mapString(e, "pobox"),
			Neighborhood: mapString(e, "neighborhood"),
			City:         mapString(e, "city"),
			Region:       mapString(e, "region"),
			Postcode:     mapString(e, "postcode"),
			Country:      mapString(e, "country"),
		})
	}

	return c
}

func itemFromMap(src map[string]any) Item {
	return Item{
		Label: mapString(src, "label"),
		Value: mapString(src, "value"),
		Type:  CategoryCode(mapInt32(src, "type")),
	}
}

func mapString(src map[string]any, key string) string {
	vs, _ := src[key].(string)
	return vs
}

func mapInt32(src map[string]any, key string) int32 {
	switch v := src[key].(type) {
	case int32:
		return v
	case int:
		return int32(v)
	case int64:
		return int32(v)
	case float64: // JSON number
		return int32(v)
	}
	return 0
}

func mapBytes(src map[string]any, key string) []byte {
	switch v := src[key].(type) {
	case []byte:
		return v
	case string: // JSON base64 form
		if v == "" {
			return []byte{}
		}
		raw, err := base64.StdEncoding.DecodeString(v)
		if err != nil {
			return []byte{}
		}
		return raw
	}
	return nil
}

func mapList(src map[string]any, key string) (list []map[string]any) {
	switch v := src[key].(type) {
	case []map[string]any:
		return v
	case []any: // JSON list
		for _, e := range v {
			if m, ok := e.(map[string]any); ok {
				list = append(list, m)
			}
		}
	}
	return // list
}
