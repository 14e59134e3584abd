package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/oksasatya/go-ddd-diary/internal/domain/entity"
	"github.com/oksasatya/go-ddd-diary/internal/domain/repository"
)

// table describes how one owned resource maps onto its SQL table.
// columns are the content columns; id, owner_id, created_at and updated_at
// are always present and come first.
type table[T entity.Owned] struct {
	name    string
	columns []string
	orderBy string
	dayCol  string
	newRow  func() T
	// fields returns pointers into v in the same order as columns.
	fields func(v T) []any
	// values returns the values to write for columns.
	values func(v T) []any
}

// OwnedTable is a generic owner-scoped repository over a single table.
type OwnedTable[T entity.Owned] struct {
	db DB
	t  table[T]
}

func (r *OwnedTable[T]) selectCols() string {
	return "id, owner_id, created_at, updated_at, " + strings.Join(r.t.columns, ", ")
}

func (r *OwnedTable[T]) scan(row pgx.Row) (T, error) {
	v := r.t.newRow()
	o := v.Own()
	dest := append([]any{&o.ID, &o.OwnerID, &o.CreatedAt, &o.UpdatedAt}, r.t.fields(v)...)
	if err := row.Scan(dest...); err != nil {
		var zero T
		return zero, translate(err)
	}
	return v, nil
}

func (r *OwnedTable[T]) collect(rows pgx.Rows, err error) ([]T, error) {
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	out := make([]T, 0)
	for rows.Next() {
		v, err := r.scan(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
	return out, rows.Err()
}

func placeholders(from, n int) string {
	ph := make([]string, n)
	for i := range ph {
		ph[i] = fmt.Sprintf("$%d", from+i)
	}
	return strings.Join(ph, ", ")
}

func (r *OwnedTable[T]) Create(ctx context.Context, v T) error {
	o := v.Own()
	args := append([]any{o.ID, o.OwnerID, o.CreatedAt, o.UpdatedAt}, r.t.values(v)...)
	q := fmt.Sprintf(`INSERT INTO %s (%s) VALUES (%s)`, r.t.name, r.selectCols(), placeholders(1, len(args)))
	_, err := r.db.Exec(ctx, q, args...)
	return translate(err)
}

func (r *OwnedTable[T]) FindByID(ctx context.Context, id string) (T, error) {
	if !validID(id) {
		var zero T
		return zero, repository.ErrNotFound
	}
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE id = $1`, r.selectCols(), r.t.name)
	return r.scan(r.db.QueryRow(ctx, q, id))
}

func (r *OwnedTable[T]) FindByOwner(ctx context.Context, ownerID string) ([]T, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE owner_id = $1 ORDER BY %s`, r.selectCols(), r.t.name, r.t.orderBy)
	return r.collect(r.db.Query(ctx, q, ownerID))
}

func (r *OwnedTable[T]) FindByOwnerBetween(ctx context.Context, ownerID string, from, to time.Time) ([]T, error) {
	q := fmt.Sprintf(`SELECT %s FROM %s WHERE owner_id = $1 AND %s >= $2 AND %s < $3 ORDER BY %s`,
		r.selectCols(), r.t.name, r.t.dayCol, r.t.dayCol, r.t.orderBy)
	return r.collect(r.db.Query(ctx, q, ownerID, from, to))
}

// Update rewrites the content columns. The WHERE clause pins owner_id, so a
// row owned by someone else is reported as not found.
func (r *OwnedTable[T]) Update(ctx context.Context, v T) error {
	o := v.Own()
	o.UpdatedAt = time.Now().UTC()
	sets := make([]string, 0, len(r.t.columns)+1)
	for i, c := range r.t.columns {
		sets = append(sets, fmt.Sprintf("%s = $%d", c, i+3))
	}
	sets = append(sets, fmt.Sprintf("updated_at = $%d", len(r.t.columns)+3))
	args := append([]any{o.ID, o.OwnerID}, r.t.values(v)...)
	args = append(args, o.UpdatedAt)
	q := fmt.Sprintf(`UPDATE %s SET %s WHERE id = $1 AND owner_id = $2`, r.t.name, strings.Join(sets, ", "))
	res, err := r.db.Exec(ctx, q, args...)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OwnedTable[T]) Delete(ctx context.Context, ownerID, id string) error {
	if !validID(id) {
		return repository.ErrNotFound
	}
	res, err := r.db.Exec(ctx, fmt.Sprintf(`DELETE FROM %s WHERE id = $1 AND owner_id = $2`, r.t.name), id, ownerID)
	if err != nil {
		return translate(err)
	}
	if res.RowsAffected() == 0 {
		return repository.ErrNotFound
	}
	return nil
}

func (r *OwnedTable[T]) exists(ctx context.Context, where string, args ...any) (bool, error) {
	var ok bool
	q := fmt.Sprintf(`SELECT EXISTS (SELECT 1 FROM %s WHERE %s)`, r.t.name, where)
	if err := r.db.QueryRow(ctx, q, args...).Scan(&ok); err != nil {
		return false, err
	}
	return ok, nil
}
