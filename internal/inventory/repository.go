package inventory

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

const (
	pgUniqueViolation = "23505"
	pgCheckViolation  = "23514"
)

// DBPool matches the methods from *pgxpool.Pool that we use.
// This allows us to mock the database in tests.
type DBPool interface {
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	Exec(ctx context.Context, sql string, arguments ...any) (pgconn.CommandTag, error)
}

// Repository is the storage contract for inventory records. Implementations must enforce
// name uniqueness and non-negative quantities with storage constraints, and every mutation
// is committed before the call returns.
type Repository interface {
	List(ctx context.Context) ([]Item, error)
	Add(ctx context.Context, name string, quantity int) error
	Remove(ctx context.Context, name string) error
	UpdateQuantity(ctx context.Context, name string, quantity int) error
}

type PostgresRepository struct {
	pool DBPool
}

func NewPostgresRepository(pool DBPool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

func (r *PostgresRepository) List(ctx context.Context) ([]Item, error) {
	rows, err := r.pool.Query(ctx, `SELECT name, quantity FROM inventory ORDER BY name`)
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

func (r *PostgresRepository) Add(ctx context.Context, name string, quantity int) error {
	_, err := r.pool.Exec(ctx, `INSERT INTO inventory(name, quantity) VALUES($1, $2)`, name, quantity)
	if err != nil {
		return fmt.Errorf("add %q: %w", name, mapPgError(err))
	}
	return nil
}

// Remove deletes the record if present. Removing an absent name is not an error.
func (r *PostgresRepository) Remove(ctx context.Context, name string) error {
	if _, err := r.pool.Exec(ctx, `DELETE FROM inventory WHERE name=$1`, name); err != nil {
		return fmt.Errorf("remove %q: %w", name, err)
	}
	return nil
}

func (r *PostgresRepository) UpdateQuantity(ctx context.Context, name string, quantity int) error {
	tag, err := r.pool.Exec(ctx, `UPDATE inventory SET quantity=$1 WHERE name=$2`, quantity, name)
	if err != nil {
		return fmt.Errorf("update %q: %w", name, mapPgError(err))
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func mapPgError(err error) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return ErrConflict
		case pgCheckViolation:
			return ErrInvalidInput
		}
	}
	return err
}
