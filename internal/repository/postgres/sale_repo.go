package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/garagebuddy/garagebuddy/internal/errs"
	"github.com/garagebuddy/garagebuddy/internal/model"
)

// SaleRepo implements SaleRepository using PostgreSQL. The member map is a
// JSONB column of email -> role rank; ranks round-trip as plain integers for
// compatibility with existing data.
type SaleRepo struct{ db *DB }

// NewSaleRepo constructs a sale repository.
func NewSaleRepo(db *DB) *SaleRepo { return &SaleRepo{db: db} }

// Create inserts a new sale row and fills in the generated id.
func (r *SaleRepo) Create(ctx context.Context, s *model.Sale) error {
	members, err := json.Marshal(s.Members)
	if err != nil {
		return err
	}
	const q = `
INSERT INTO sales (name, start_date, end_date, closed, members)
VALUES ($1, $2, $3, $4, $5)
RETURNING id`
	return r.db.Pool.QueryRow(ctx, q, s.Name, s.StartDate, s.EndDate, s.Closed, members).Scan(&s.ID)
}

// GetByID selects a sale by id.
func (r *SaleRepo) GetByID(ctx context.Context, id int) (*model.Sale, error) {
	const q = `
SELECT id, name, start_date, end_date, closed, members
FROM sales WHERE id=$1`
	row := r.db.Pool.QueryRow(ctx, q, id)
	s, err := scanSale(row)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errs.ErrNotFound
		}
		return nil, err
	}
	return s, nil
}

// Update persists name, dates, closed flag and member map.
func (r *SaleRepo) Update(ctx context.Context, s *model.Sale) error {
	members, err := json.Marshal(s.Members)
	if err != nil {
		return err
	}
	const q = `
UPDATE sales
SET name=$2, start_date=$3, end_date=$4, closed=$5, members=$6
WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, s.ID, s.Name, s.StartDate, s.EndDate, s.Closed, members)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// Delete removes the sale row. Remaining items or transactions surface as a
// foreign key violation since the cascade is caller-orchestrated.
func (r *SaleRepo) Delete(ctx context.Context, id int) error {
	const q = `DELETE FROM sales WHERE id=$1`
	tag, err := r.db.Pool.Exec(ctx, q, id)
	if err != nil {
		if isForeignKeyViolation(err) {
			return fmt.Errorf("sale %d still referenced: %w", id, err)
		}
		return err
	}
	if tag.RowsAffected() == 0 {
		return errs.ErrNotFound
	}
	return nil
}

// List returns all sales ordered by start date.
func (r *SaleRepo) List(ctx context.Context) ([]model.Sale, error) {
	const q = `
SELECT id, name, start_date, end_date, closed, members
FROM sales ORDER BY start_date, id`
	rows, err := r.db.Pool.Query(ctx, q)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var sales []model.Sale
	for rows.Next() {
		s, err := scanSale(rows)
		if err != nil {
			return nil, err
		}
		sales = append(sales, *s)
	}
	return sales, rows.Err()
}

func scanSale(row pgx.Row) (*model.Sale, error) {
	var s model.Sale
	var members []byte
	if err := row.Scan(&s.ID, &s.Name, &s.StartDate, &s.EndDate, &s.Closed, &members); err != nil {
		return nil, err
	}
	s.Members = map[string]int{}
	if len(members) > 0 {
		if err := json.Unmarshal(members, &s.Members); err != nil {
			return nil, fmt.Errorf("decode sale members: %w", err)
		}
	}
	return &s, nil
}
