// Package aggregate folds the flat heterogeneous row stream of the
// backing store into logical Contact entities.
package aggregate

import (
	"github.com/addrbook/contact-bridge-service/internal/labels"
	"github.com/addrbook/contact-bridge-service/internal/model"
	"github.com/addrbook/contact-bridge-service/internal/store"
)

// Contacts consumes src and reconstructs one Contact per distinct
// contact identifier, in first-seen order (insertion-ordered map
// discipline). The source is released on return regardless of outcome.
// A nil source yields an empty collection.
//
// Scalar fields are owned by exactly one row kind each and rows may
// interleave arbitrarily: a row of one kind never clears fields owned
// by another. Phone and email rows append; blank values are dropped so
// no empty placeholder items are produced.
func Contacts(src store.RowSource, rsv *labels.Resolver, localize bool) ([]*model.Contact, error) {

	if src == nil {
		return []*model.Contact{}, nil
	}
	defer src.Close()

	var (
		row   model.FlatRow
		index = make(map[string]*model.Contact)
		order []*model.Contact
	)

	for src.Next() {

		row = model.FlatRow{}
		if err := src.Scan(&row); err != nil {
			return order, err
		}

		c, ok := index[row.ContactId]
		if !ok {
			c = model.New(row.ContactId)
			index[row.ContactId] = c
			order = append(order, c)
		}

		// container scalars repeat on every row; always refresh
		c.DisplayName = row.DisplayName
		c.AccountType = row.AccountType
		c.AccountName = row.AccountName

		switch row.Kind {
		case model.KindName:
			c.Prefix = row.Prefix
			c.GivenName = row.GivenName
			c.MiddleName = row.MiddleName
			c.FamilyName = row.FamilyName
			c.Suffix = row.Suffix

		case model.KindNote:
			c.Note = row.Note

		case model.KindPhone:
			if row.PhoneNumber == "" {
				break // drop blank occurrence
			}
			c.Phones = append(c.Phones, model.Item{
				Label: rsv.Resolve(labels.Phone, row.PhoneType, row.PhoneLabel, localize),
				Value: row.PhoneNumber,
				Type:  row.PhoneType,
			})

		case model.KindEmail:
			if row.EmailAddress == "" {
				break // drop blank occurrence
			}
			c.Emails = append(c.Emails, model.Item{
				Label: rsv.Resolve(labels.Email, row.EmailType, row.EmailLabel, localize),
				Value: row.EmailAddress,
				Type:  row.EmailType,
			})

		case model.KindOrganization:
			c.Company = row.Company
			c.JobTitle = row.JobTitle

		case model.KindAddress:
			c.PostalAddresses = append(c.PostalAddresses, model.PostalAddress{
				Label:        rsv.Resolve(labels.Address, row.AddressType, row.AddressLabel, localize),
				Type:         row.AddressType,
				Street:       row.Street,
				POBox:        row.POBox,
				Neighborhood: row.Neighborhood,
				City:         row.City,
				Region:       row.Region,
				Postcode:     row.Postcode,
				Country:      row.Country,
			})

		case model.KindEvent:
			if row.EventType == model.EventBirthday {
				c.Birthday = row.EventDate
			}

		default:
			// unknown kind; ignore
		}
	}

	if err := src.Err(); err != nil {
		return order, err
	}

	if order == nil {
		order = []*model.Contact{}
	}
	return order, nil
}
