package postgres

import (
	"context"
	"strconv"
	"strings"

	sq "github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype/zeronull"
	"github.com/pkg/errors"

	"github.com/addrbook/contact-bridge-service/infra/db/pg"
	"github.com/addrbook/contact-bridge-service/internal/model"
	"github.com/addrbook/contact-bridge-service/internal/store"
)

var _ store.DataStore = (*ContactStore)(nil)

type ContactStore struct {
	db *pg.DB
}

func NewContactStore(db *pg.DB) *ContactStore {
	return &ContactStore{
		db: db,
	}
}

// EnsureSchema applies the address-book DDL; idempotent.
func (c *ContactStore) EnsureSchema(ctx context.Context) error {
	_, err := c.db.Client().Exec(ctx, schemaDDL)
	return errors.Wrap(err, "contact: ensure schema")
}

func (c *ContactStore) QueryRows(req store.QueryRowsRequest) (store.RowSource, error) {

	sel := req.Selection
	if sel.Zero() {
		// no selection compiled; nothing to query
		return nil, nil
	}

	query := pgsql.
		Select(projection...).
		From(tbl_container + " " + dep_container).
		JoinClause(
			"JOIN " + tbl_data + " " + dep_data +
				" ON " + dep_data + ".contact_id = " + dep_container + ".id",
		).
		Where(sq.Expr(sel.Filter, nativeArgs(sel.Args)...)).
		OrderBy(dep_data + ".id")

	text, args, err := query.ToSql()
	if err != nil {
		return nil, errors.Wrap(err, "contact: build query")
	}

	rows, err := c.db.Client().Query(req.Context, text, args...)
	if err != nil {
		return nil, errors.Wrap(err, "contact: query rows")
	}

	return &rowSource{rows: rows}, nil
}

// rowSource adapts pgx.Rows to the flat-row contract.
type rowSource struct {
	rows pgx.Rows
}

func (src *rowSource) Next() bool {
	return src.rows.Next()
}

func (src *rowSource) Scan(row *model.FlatRow) error {

	var (
		id   int64
		kind zeronull.Text
	)

	err := src.rows.Scan(
		// contact_id
		&id,
		// display_name_primary
		(*zeronull.Text)(&row.DisplayName),
		// kind
		&kind,
		// account_type, account_name
		(*zeronull.Text)(&row.AccountType),
		(*zeronull.Text)(&row.AccountName),
		// structured name
		(*zeronull.Text)(&row.GivenName),
		(*zeronull.Text)(&row.MiddleName),
		(*zeronull.Text)(&row.FamilyName),
		(*zeronull.Text)(&row.Prefix),
		(*zeronull.Text)(&row.Suffix),
		// note
		(*zeronull.Text)(&row.Note),
		// phone
		(*zeronull.Text)(&row.PhoneNumber),
		(*zeronull.Int4)((*int32)(&row.PhoneType)),
		(*zeronull.Text)(&row.PhoneLabel),
		// email
		(*zeronull.Text)(&row.EmailAddress),
		(*zeronull.Int4)((*int32)(&row.EmailType)),
		(*zeronull.Text)(&row.EmailLabel),
		// organization
		(*zeronull.Text)(&row.Company),
		(*zeronull.Text)(&row.JobTitle),
		// postal address
		(*zeronull.Int4)((*int32)(&row.AddressType)),
		(*zeronull.Text)(&row.AddressLabel),
		(*zeronull.Text)(&row.Street),
		(*zeronull.Text)(&row.POBox),
		(*zeronull.Text)(&row.Neighborhood),
		(*zeronull.Text)(&row.City),
		(*zeronull.Text)(&row.Region),
		(*zeronull.Text)(&row.Postcode),
		(*zeronull.Text)(&row.Country),
		// event
		(*zeronull.Int4)((*int32)(&row.EventType)),
		(*zeronull.Text)(&row.EventDate),
	)

	if err != nil {
		return err
	}

	row.ContactId = strconv.FormatInt(id, 10)
	row.Kind = model.ParseKind(string(kind))
	return nil
}

func (src *rowSource) Err() error {
	return src.rows.Err()
}

func (src *rowSource) Close() {
	src.rows.Close()
}

func (c *ContactStore) LookupPhone(req store.LookupPhoneRequest) ([]string, error) {

	digits := normalizePhone(req.Number)
	if digits == "" {
		return nil, nil // no query issued
	}

	query, args := `
	SELECT DISTINCT
		d.contact_id
	FROM contact.data d
	WHERE d.kind = 'phone'
	AND regexp_replace(coalesce(d.phone_number, ''), '\D', '', 'g') LIKE @number
	`, pgx.NamedArgs{
		"number": "%" + digits,
	}

	rows, err := c.db.Client().Query(
		req.Context, query, args,
	)

	if err != nil {
		return nil, errors.Wrap(err, "contact: phone lookup")
	}

	defer rows.Close()

	var ids []string
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, strconv.FormatInt(id, 10))
	}

	return ids, rows.Err()
}

// normalizePhone strips everything but digits; matches the expression
// index of the phone-lookup path.
func normalizePhone(number string) string {
	var digits strings.Builder
	for _, c := range number {
		if '0' <= c && c <= '9' {
			digits.WriteRune(c)
		}
	}
	return digits.String()
}

func (c *ContactStore) ApplyBatch(req store.ApplyBatchRequest) error {

	ctx := req.Context

	tx, err := c.db.Client().Begin(ctx)
	if err != nil {
		return errors.Wrap(err, "contact: begin batch")
	}
	defer tx.Rollback(ctx)

	// container identifiers assigned so far, by batch index
	assigned := make(map[int]int64, 1)

	for i, op := range req.Ops {
		switch {
		case op.Type == store.OpInsert && op.Target == store.TargetContainer:
			{
				id, err := insertContainer(ctx, tx, op)
				if err != nil {
					return err
				}
				assigned[i] = id
			}
		case op.Type == store.OpInsert:
			{
				cid, err := insertData(ctx, tx, op, assigned)
				if err != nil {
					return err
				}
				if name, ok := displayNameOf(op.Values); ok {
					if err := setDisplayName(ctx, tx, cid, name); err != nil {
						return err
					}
				}
			}
		case op.Type == store.OpUpdate:
			{
				if err := updateData(ctx, tx, op); err != nil {
					return err
				}
			}
		case op.Type == store.OpDelete && op.Target == store.TargetContainer:
			{
				if err := execWhere(ctx, tx,
					pgsql.Delete(tbl_container), op.Selection,
				); err != nil {
					return err
				}
			}
		case op.Type == store.OpDelete:
			{
				if err := execWhere(ctx, tx,
					pgsql.Delete(tbl_data), op.Selection,
				); err != nil {
					return err
				}
			}
		default:
			return errors.Errorf("contact: batch op #%d: unknown type", i)
		}
	}

	return errors.Wrap(tx.Commit(ctx), "contact: commit batch")
}

func insertContainer(ctx context.Context, tx pgx.Tx, op store.Operation) (id int64, err error) {

	text, args, err := pgsql.
		Insert(tbl_container).
		SetMap(nativeValues(op.Values)).
		Suffix("RETURNING id").
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "contact: build container insert")
	}

	err = tx.QueryRow(ctx, text, args...).Scan(&id)
	return id, errors.Wrap(err, "contact: insert container")
}

func insertData(ctx context.Context, tx pgx.Tx, op store.Operation, assigned map[int]int64) (int64, error) {

	values, cid, err := dataValues(op, assigned)
	if err != nil {
		return 0, err
	}

	text, args, err := pgsql.
		Insert(tbl_data).
		SetMap(values).
		ToSql()
	if err != nil {
		return 0, errors.Wrap(err, "contact: build data insert")
	}

	_, err = tx.Exec(ctx, text, args...)
	return cid, errors.Wrap(err, "contact: insert data row")
}

// dataValues re-types the row's values and resolves its container
// linkage: a back-reference substitutes the identifier assigned by an
// earlier container insert of the same batch; a direct identifier is
// re-typed for the key column.
func dataValues(op store.Operation, assigned map[int]int64) (map[string]any, int64, error) {

	values := nativeValues(op.Values)

	if op.BackRef != store.NoBackRef {
		id, ok := assigned[op.BackRef]
		if !ok {
			return nil, 0, errors.Errorf(
				"contact: back-reference #%d: no container assigned", op.BackRef,
			)
		}
		values[store.ColContactId] = id
		return values, id, nil
	}

	cid, _ := values[store.ColContactId].(int64)
	return values, cid, nil
}

// updateData applies an in-place data-row update. A write touching the
// structured-name columns re-derives the owning containers' display
// names; the backing store has no provider-side derivation.
func updateData(ctx context.Context, tx pgx.Tx, op store.Operation) error {

	name, named := displayNameOf(op.Values)

	stmt := pgsql.
		Update(tbl_data).
		SetMap(op.Values).
		Where(sq.Expr(op.Selection.Filter, nativeArgs(op.Selection.Args)...))

	if !named {
		text, args, err := stmt.ToSql()
		if err != nil {
			return errors.Wrap(err, "contact: build data update")
		}
		_, err = tx.Exec(ctx, text, args...)
		return errors.Wrap(err, "contact: update data rows")
	}

	text, args, err := stmt.Suffix("RETURNING " + store.ColContactId).ToSql()
	if err != nil {
		return errors.Wrap(err, "contact: build data update")
	}

	rows, err := tx.Query(ctx, text, args...)
	if err != nil {
		return errors.Wrap(err, "contact: update data rows")
	}

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			rows.Close()
			return err
		}
		ids = append(ids, id)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return err
	}

	for _, id := range ids {
		if err := setDisplayName(ctx, tx, id, name); err != nil {
			return err
		}
	}
	return nil
}

// nameColumns drive the derived container display name, in composition
// order.
var nameColumns = []string{
	store.ColPrefix,
	store.ColGivenName,
	store.ColMiddleName,
	store.ColFamilyName,
	store.ColSuffix,
}

// displayNameOf reports whether the operation writes structured-name
// columns and composes the display name from them: the non-blank parts
// joined by single spaces.
func displayNameOf(values map[string]any) (string, bool) {

	named := false
	parts := make([]string, 0, len(nameColumns))
	for _, col := range nameColumns {
		v, ok := values[col]
		if !ok {
			continue
		}
		named = true
		if s, _ := v.(string); s != "" {
			parts = append(parts, s)
		}
	}

	return strings.Join(parts, " "), named
}

// setDisplayName refreshes the container's derived display name; blank
// composes to NULL.
func setDisplayName(ctx context.Context, tx pgx.Tx, id int64, name string) error {

	if id == 0 {
		return nil // no container linkage resolved
	}

	var value any = name
	if name == "" {
		value = nil
	}

	_, err := tx.Exec(ctx, `
	UPDATE contact.raw_contact
	SET display_name_primary = @name
	WHERE id = @id
	`, pgx.NamedArgs{
		"name": value,
		"id":   id,
	})

	return errors.Wrap(err, "contact: derive display name")
}

func execWhere(ctx context.Context, tx pgx.Tx, stmt any, sel store.Selection) error {

	where := sq.Expr(sel.Filter, nativeArgs(sel.Args)...)

	var (
		text string
		args []any
		err  error
	)
	switch stmt := stmt.(type) {
	case sq.UpdateBuilder:
		text, args, err = stmt.Where(where).ToSql()
	case sq.DeleteBuilder:
		text, args, err = stmt.Where(where).ToSql()
	default:
		return errors.Errorf("contact: unsupported statement %T", stmt)
	}
	if err != nil {
		return errors.Wrap(err, "contact: build statement")
	}

	_, err = tx.Exec(ctx, text, args...)
	return errors.Wrap(err, "contact: exec statement")
}

func (c *ContactStore) OpenPhoto(req store.OpenPhotoRequest) ([]byte, error) {

	id, err := strconv.ParseInt(req.ContactId, 10, 64)
	if err != nil {
		return nil, nil // malformed identifier; absent
	}

	// the backend keeps a single stored size; the super-primary row
	// wins regardless of the requested resolution
	query, args := `
	SELECT d.photo
	FROM contact.data d
	WHERE d.contact_id = @id
	AND d.kind = 'photo'
	AND d.photo IS NOT NULL
	ORDER BY d.is_super_primary DESC, d.id DESC
	LIMIT 1
	`, pgx.NamedArgs{
		"id": id,
	}

	var photo []byte
	err = c.db.Client().QueryRow(
		req.Context, query, args,
	).Scan(&photo)

	if err == pgx.ErrNoRows {
		return nil, nil // absent
	}
	if err != nil {
		return nil, errors.Wrap(err, "contact: open photo")
	}

	return photo, nil
}

// nativeArgs re-types transport-string identifiers for the int8 key
// columns: any all-digit string argument becomes an int64.
func nativeArgs(args []any) []any {
	out := make([]any, len(args))
	for i, arg := range args {
		out[i] = nativeArg(arg)
	}
	return out
}

func nativeValues(values map[string]any) map[string]any {
	out := make(map[string]any, len(values))
	for col, value := range values {
		if col == store.ColContactId || col == store.ColContainerId {
			value = nativeArg(value)
		}
		out[col] = value
	}
	return out
}

func nativeArg(arg any) any {
	vs, ok := arg.(string)
	if !ok || vs == "" {
		return arg
	}
	for i := 0; i < len(vs); i++ {
		if vs[i] < '0' || vs[i] > '9' {
			return arg
		}
	}
	id, err := strconv.ParseInt(vs, 10, 64)
	if err != nil {
		return arg
	}
	return id
}
