// Package batch compiles a Contact entity into the ordered atomic
// operation list the storage collaborator executes: the inverse of
// aggregation. Ordering and back-reference rules are load-bearing --
// every data row of a create batch references the container assigned
// by step one.
package batch

import (
	"github.com/addrbook/contact-bridge-service/internal/errors"
	"github.com/addrbook/contact-bridge-service/internal/model"
	"github.com/addrbook/contact-bridge-service/internal/store"
)

// organization category written by the update path; the create path
// deliberately carries none (original behavior, kept as-is)
const orgWork model.CategoryCode = 1

// ErrNotPersisted rejects update/delete of a contact without a storage
// identifier.
var ErrNotPersisted = errors.BadRequest(
	errors.Message("contact: blank identifier; not persisted"),
)

// Create compiles the all-new contact batch. Step one inserts the
// raw-contact container with no account binding; every following step
// back-references it. The trailing birthday event is written even when
// blank.
func Create(c *model.Contact) []store.Operation {

	ops := make([]store.Operation, 0, 6+len(c.Phones)+len(c.Emails)+len(c.PostalAddresses))

	// (1) container
	ops = append(ops, store.Operation{
		Type:    store.OpInsert,
		Target:  store.TargetContainer,
		BackRef: store.NoBackRef,
		Values: map[string]any{
			store.ColAccountType: nil,
			store.ColAccountName: nil,
		},
	})

	// (2) structured name
	ops = append(ops, insertData(map[string]any{
		store.ColKind:       model.KindName.String(),
		store.ColGivenName:  c.GivenName,
		store.ColMiddleName: c.MiddleName,
		store.ColFamilyName: c.FamilyName,
		store.ColPrefix:     c.Prefix,
		store.ColSuffix:     c.Suffix,
	}))

	// (3) note
	ops = append(ops, insertData(map[string]any{
		store.ColKind: model.KindNote.String(),
		store.ColNote: c.Note,
	}))

	// (4) organization
	ops = append(ops, insertData(map[string]any{
		store.ColKind:     model.KindOrganization.String(),
		store.ColCompany:  c.Company,
		store.ColJobTitle: c.JobTitle,
	}))

	// (5) photo, super-primary; safe interleave point
	photo := insertData(map[string]any{
		store.ColKind:           model.KindPhoto.String(),
		store.ColIsSuperPrimary: true,
		store.ColPhoto:          c.Avatar,
	})
	photo.YieldAllowed = true
	ops = append(ops, photo)

	// (6) phones
	for _, phone := range c.Phones {
		ops = append(ops, insertData(phoneValues(phone)))
	}

	// (7) emails
	for _, email := range c.Emails {
		ops = append(ops, insertData(emailValues(email)))
	}

	// (8) postal addresses
	for _, address := range c.PostalAddresses {
		ops = append(ops, insertData(addressValues(address)))
	}

	// (9) birthday event; unconditional
	ops = append(ops, insertData(map[string]any{
		store.ColKind:      model.KindEvent.String(),
		store.ColEventType: int32(model.EventBirthday),
		store.ColEventDate: c.Birthday,
	}))

	return ops
}

// Update compiles the replace-non-name-fields batch: delete the old
// organization/phone/email/note/address/photo rows, update the name
// row in place, then insert fresh data rows tagged with the contact's
// identifier directly (the container already exists).
//
// Name rows are deliberately not deleted: the structured-name row
// anchors the aggregate display-name linkage in the backing store.
// Birthday rows are not replaced either; repeated updates accumulate
// them (original behavior, flagged, not fixed).
func Update(c *model.Contact) ([]store.Operation, error) {

	if !c.Persisted() {
		return nil, ErrNotPersisted
	}

	var ops []store.Operation

	// (1)-(6) drop replaceable row kinds
	for _, kind := range []model.Kind{
		model.KindOrganization,
		model.KindPhone,
		model.KindEmail,
		model.KindNote,
		model.KindAddress,
		model.KindPhoto,
	} {
		ops = append(ops, store.Operation{
			Type:      store.OpDelete,
			Target:    store.TargetData,
			BackRef:   store.NoBackRef,
			Selection: byIdAndKind(c.Identifier, kind),
		})
	}

	// (7) update name row in place
	ops = append(ops, store.Operation{
		Type:      store.OpUpdate,
		Target:    store.TargetData,
		BackRef:   store.NoBackRef,
		Selection: byIdAndKind(c.Identifier, model.KindName),
		Values: map[string]any{
			store.ColGivenName:  c.GivenName,
			store.ColMiddleName: c.MiddleName,
			store.ColFamilyName: c.FamilyName,
			store.ColPrefix:     c.Prefix,
			store.ColSuffix:     c.Suffix,
		},
	})

	// (8) organization; explicit work category here only
	ops = append(ops, insertDataFor(c.Identifier, map[string]any{
		store.ColKind:     model.KindOrganization.String(),
		store.ColOrgType:  int32(orgWork),
		store.ColCompany:  c.Company,
		store.ColJobTitle: c.JobTitle,
	}))

	// (9) note
	ops = append(ops, insertDataFor(c.Identifier, map[string]any{
		store.ColKind: model.KindNote.String(),
		store.ColNote: c.Note,
	}))

	// (10) photo, super-primary
	ops = append(ops, insertDataFor(c.Identifier, map[string]any{
		store.ColKind:           model.KindPhoto.String(),
		store.ColIsSuperPrimary: true,
		store.ColPhoto:          c.Avatar,
	}))

	// (11)-(13) phones, emails, addresses; same per-kind rules as create
	for _, phone := range c.Phones {
		ops = append(ops, insertDataFor(c.Identifier, phoneValues(phone)))
	}
	for _, email := range c.Emails {
		ops = append(ops, insertDataFor(c.Identifier, emailValues(email)))
	}
	for _, address := range c.PostalAddresses {
		ops = append(ops, insertDataFor(c.Identifier, addressValues(address)))
	}

	return ops, nil
}

// Delete compiles the single container delete; dependent data rows
// cascade in the backing store.
func Delete(c *model.Contact) ([]store.Operation, error) {

	if !c.Persisted() {
		return nil, ErrNotPersisted
	}

	return []store.Operation{{
		Type:    store.OpDelete,
		Target:  store.TargetContainer,
		BackRef: store.NoBackRef,
		Selection: store.Selection{
			Filter: store.ColContainerId + " = ?",
			Args:   []any{c.Identifier},
		},
	}}, nil
}

// insertData is a data-row insert back-referencing the container
// created by batch step one.
func insertData(values map[string]any) store.Operation {
	return store.Operation{
		Type:    store.OpInsert,
		Target:  store.TargetData,
		BackRef: 0,
		Values:  values,
	}
}

// insertDataFor tags the row with an existing contact identifier
// directly; no back-reference.
func insertDataFor(identifier string, values map[string]any) store.Operation {
	values[store.ColContactId] = identifier
	return store.Operation{
		Type:    store.OpInsert,
		Target:  store.TargetData,
		BackRef: store.NoBackRef,
		Values:  values,
	}
}

func byIdAndKind(identifier string, kind model.Kind) store.Selection {
	return store.Selection{
		Filter: store.ColContactId + " = ? AND " + store.ColKind + " = ?",
		Args:   []any{identifier, kind.String()},
	}
}

func phoneValues(phone model.Item) map[string]any {
	values := map[string]any{
		store.ColKind:        model.KindPhone.String(),
		store.ColPhoneNumber: phone.Value,
	}
	if phone.Type == model.CategoryCustom {
		// custom category carries its free-text label
		values[store.ColPhoneType] = int32(model.CategoryCustom)
		values[store.ColPhoneLabel] = phone.Label
	} else {
		values[store.ColPhoneType] = int32(phone.Type)
	}
	return values
}

func emailValues(email model.Item) map[string]any {
	// no custom-label branch for emails
	return map[string]any{
		store.ColKind:         model.KindEmail.String(),
		store.ColEmailAddress: email.Value,
		store.ColEmailType:    int32(email.Type),
	}
}

func addressValues(address model.PostalAddress) map[string]any {
	return map[string]any{
		store.ColKind:         model.KindAddress.String(),
		store.ColAddressType:  int32(address.Type),
		store.ColAddressLabel: address.Label,
		store.ColStreet:       address.Street,
		store.ColPOBox:        address.POBox,
		store.ColNeighborhood: address.Neighborhood,
		store.ColCity:         address.City,
		store.ColRegion:       address.Region,
		store.ColPostcode:     address.Postcode,
		store.ColCountry:      address.Country,
	}
}
