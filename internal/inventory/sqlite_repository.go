package inventory

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

// SQLiteRepository stores records in a local SQLite file. The *sql.DB pool hands each
// call its own connection, so concurrent requests never share connection state.
type SQLiteRepository struct {
	db *sql.DB
}

func NewSQLiteRepository(db *sql.DB) *SQLiteRepository {
	return &SQLiteRepository{db: db}
}

func (r *SQLiteRepository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT name, quantity FROM inventory ORDER BY name`)
	if err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	defer rows.Close()

	items := make([]Item, 0)
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.Name, &it.Quantity); err != nil {
			return nil, fmt.Errorf("scan inventory row: %w", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list inventory: %w", err)
	}
	return items, nil
}

func (r *SQLiteRepository) Add(ctx context.Context, name string, quantity int) error {
	_, err := r.db.ExecContext(ctx, `INSERT INTO inventory(name, quantity) VALUES(?, ?)`, name, quantity)
	if err != nil {
		return fmt.Errorf("add %q: %w", name, mapSQLiteError(err))
	}
	return nil
}

func (r *SQLiteRepository) Remove(ctx context.Context, name string) error {
	if _, err := r.db.ExecContext(ctx, `DELETE FROM inventory WHERE name = ?`, name); err != nil {
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return nil
}

func (r *SQLiteRepository) UpdateQuantity(ctx context.Context, name string, quantity int) error {
	res, err := r.db.ExecContext(ctx, `UPDATE inventory SET quantity = ? WHERE name = ?`, quantity, name)
	if err != nil {
		return fmt.Errorf("update %q: %w", name, mapSQLiteError(err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update %q: rows affected: %w", name, err)
	}
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func mapSQLiteError(err error) error {
	var sqlErr *sqlite.Error
	if errors.As(err, &sqlErr) {
		switch sqlErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return ErrConflict
		case sqlite3.SQLITE_CONSTRAINT_CHECK, sqlite3.SQLITE_CONSTRAINT_NOTNULL:
			return ErrInvalidInput
		}
	}
	return err
}
