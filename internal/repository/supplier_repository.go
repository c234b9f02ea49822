package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/supplier-service/internal/domain"
)

// SupplierRepository defines persistence access for suppliers.
type SupplierRepository interface {
	Create(ctx context.Context, supplier *domain.Supplier) error
	Update(ctx context.Context, supplier *domain.Supplier) error
	GetByID(ctx context.Context, id string) (*domain.Supplier, error)
	List(ctx context.Context) ([]*domain.Supplier, error)
	Delete(ctx context.Context, id string) error
}

type supplierRepository struct {
	pool *pgxpool.Pool
}

// NewSupplierRepository returns a Postgres-backed implementation.
func NewSupplierRepository(pool *pgxpool.Pool) SupplierRepository {
	return &supplierRepository{pool: pool}
}

func (r *supplierRepository) Create(ctx context.Context, supplier *domain.Supplier) error {
	const query = `
        INSERT INTO suppliers (name, phone, address, description)
        VALUES ($1, $2, $3, $4)
        RETURNING id, created_at, updated_at`

	return r.pool.QueryRow(ctx, query,
		supplier.Name,
		supplier.Phone,
		supplier.Address,
		supplier.Description,
	).Scan(&supplier.ID, &supplier.CreatedAt, &supplier.UpdatedAt)
}

func (r *supplierRepository) Update(ctx context.Context, supplier *domain.Supplier) error {
	const query = `
        UPDATE suppliers SET name=$1, phone=$2, address=$3, description=$4, updated_at=NOW()
        WHERE id=$5`

	cmd, err := r.pool.Exec(ctx, query,
		supplier.Name,
		supplier.Phone,
		supplier.Address,
		supplier.Description,
		supplier.ID,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}

func (r *supplierRepository) GetByID(ctx context.Context, id string) (*domain.Supplier, error) {
	const query = `
        SELECT id, name, phone, address, description, created_at, updated_at
        FROM suppliers WHERE id=$1`

	var supplier domain.Supplier
	if err := r.pool.QueryRow(ctx, query, id).Scan(
		&supplier.ID,
		&supplier.Name,
		&supplier.Phone,
		&supplier.Address,
		&supplier.Description,
		&supplier.CreatedAt,
		&supplier.UpdatedAt,
	); err != nil {
		return nil, err
	}
	return &supplier, nil
}

func (r *supplierRepository) List(ctx context.Context) ([]*domain.Supplier, error) {
	const query = `
        SELECT id, name, phone, address, description, created_at, updated_at
        FROM suppliers ORDER BY created_at DESC`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var suppliers []*domain.Supplier
	for rows.Next() {
		var supplier domain.Supplier
		if err := rows.Scan(
			&supplier.ID,
			&supplier.Name,
			&supplier.Phone,
			&supplier.Address,
			&supplier.Description,
			&supplier.CreatedAt,
			&supplier.UpdatedAt,
		); err != nil {
			return nil, err
		}
		suppliers = append(suppliers, &supplier)
	}
	return suppliers, rows.Err()
}

func (r *supplierRepository) Delete(ctx context.Context, id string) error {
	cmd, err := r.pool.Exec(ctx, `DELETE FROM suppliers WHERE id=$1`, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return pgx.ErrNoRows
	}
	return nil
}
