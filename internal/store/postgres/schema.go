package postgres

import (
	sq "github.com/Masterminds/squirrel"
)

const (
	tbl_container = "contact.raw_contact"
	tbl_data      = "contact.data"

	dep_container = "c" // contact.raw_contact
	dep_data      = "d" // contact.data
)

var pgsql = sq.StatementBuilder.PlaceholderFormat(sq.Dollar)

// full flat-row projection, in scan order
var projection = []string{
	dep_data + ".contact_id",
	dep_container + ".display_name_primary",
	dep_data + ".kind",
	dep_container + ".account_type",
	dep_container + ".account_name",
	dep_data + ".given_name",
	dep_data + ".middle_name",
	dep_data + ".family_name",
	dep_data + ".prefix",
	dep_data + ".suffix",
	dep_data + ".note",
	dep_data + ".phone_number",
	dep_data + ".phone_type",
	dep_data + ".phone_label",
	dep_data + ".email_address",
	dep_data + ".email_type",
	dep_data + ".email_label",
	dep_data + ".company",
	dep_data + ".job_title",
	dep_data + ".address_type",
	dep_data + ".address_label",
	dep_data + ".street",
	dep_data + ".pobox",
	dep_data + ".neighborhood",
	dep_data + ".city",
	dep_data + ".region",
	dep_data + ".postcode",
	dep_data + ".country",
	dep_data + ".event_type",
	dep_data + ".event_start_date",
}

// DDL applied by EnsureSchema. Data rows cascade with their container.
const schemaDDL = `
CREATE SCHEMA IF NOT EXISTS contact;

CREATE TABLE IF NOT EXISTS contact.raw_contact
(
	id                   bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY
,	account_type         text
,	account_name         text
,	display_name_primary text -- derived from the structured-name row on every name write
);

CREATE TABLE IF NOT EXISTS contact.data
(
	id               bigint GENERATED ALWAYS AS IDENTITY PRIMARY KEY
,	contact_id       bigint NOT NULL REFERENCES contact.raw_contact (id) ON DELETE CASCADE
,	kind             text NOT NULL
,	is_super_primary bool NOT NULL DEFAULT false
,	given_name       text
,	middle_name      text
,	family_name      text
,	prefix           text
,	suffix           text
,	note             text
,	phone_number     text
,	phone_type       int
,	phone_label      text
,	email_address    text
,	email_type       int
,	email_label      text
,	company          text
,	job_title        text
,	org_type         int
,	address_type     int
,	address_label    text
,	street           text
,	pobox            text
,	neighborhood     text
,	city             text
,	region           text
,	postcode         text
,	country          text
,	event_type       int
,	event_start_date text
,	photo            bytea
);

CREATE INDEX IF NOT EXISTS data_contact_id ON contact.data (contact_id);
CREATE INDEX IF NOT EXISTS data_phone_lookup ON contact.data
	(regexp_replace(coalesce(phone_number, ''), '\D', '', 'g'))
	WHERE kind = 'phone';
`
