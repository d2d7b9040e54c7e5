package repository

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vancr/backend/internal/model"
)

// PgProductRepository is the PostgreSQL implementation of ProductRepository.
type PgProductRepository struct {
	pool *pgxpool.Pool
}

// NewPgProductRepository creates a PgProductRepository backed by the given pool.
func NewPgProductRepository(pool *pgxpool.Pool) *PgProductRepository {
	return &PgProductRepository{pool: pool}
}

// Ensure PgProductRepository implements ProductRepository at compile time.
var _ ProductRepository = (*PgProductRepository)(nil)

const productSelectCols = `id, price, image_url, categories, age_groups, seasons, occasions, created_at, updated_at`

func scanProduct(scan func(...any) error) (*model.Product, error) {
	var p model.Product
	if err := scan(&p.ID, &p.Price, &p.ImageURL, &p.Categories, &p.AgeGroups, &p.Seasons, &p.Occasions, &p.CreatedAt, &p.UpdatedAt); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return &p, nil
}

// Create inserts a products row and populates p.CreatedAt from RETURNING.
func (r *PgProductRepository) Create(ctx context.Context, p *model.Product) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO products (id, price, image_url, categories, age_groups, seasons, occasions)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)
		 RETURNING created_at`,
		p.ID, p.Price, p.ImageURL, p.Categories, p.AgeGroups, p.Seasons, p.Occasions,
	).Scan(&p.CreatedAt)
}

// List returns products matching the filter, newest first. Each non-empty
// filter field must appear in the corresponding tag array.
func (r *PgProductRepository) List(ctx context.Context, filter model.ProductFilter) ([]*model.Product, error) {
	var conditions []string
	var args []any

	addTag := func(column, value string) {
		if value == "" {
			return
		}
		args = append(args, value)
		conditions = append(conditions, "$"+strconv.Itoa(len(args))+" = ANY("+column+")")
	}
	addTag("categories", filter.Category)
	addTag("age_groups", filter.AgeGroup)
	addTag("seasons", filter.Season)
	addTag("occasions", filter.Occasion)

	query := `SELECT ` + productSelectCols + ` FROM products`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY created_at DESC"

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var products []*model.Product
	for rows.Next() {
		p, err := scanProduct(rows.Scan)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// FindByID returns a single product or ErrNotFound.
func (r *PgProductRepository) FindByID(ctx context.Context, id string) (*model.Product, error) {
	row := r.pool.QueryRow(ctx,
		`SELECT `+productSelectCols+` FROM products WHERE id = $1`, id)
	return scanProduct(row.Scan)
}

// Update applies the non-nil fields of upd and returns the updated product.
func (r *PgProductRepository) Update(ctx context.Context, id string, upd model.ProductUpdate) (*model.Product, error) {
	var sets []string
	var args []any

	set := func(column string, value any) {
		args = append(args, value)
		sets = append(sets, column+" = $"+strconv.Itoa(len(args)))
	}
	if upd.Price != nil {
		set("price", *upd.Price)
	}
	if upd.Categories != nil {
		set("categories", *upd.Categories)
	}
	if upd.AgeGroups != nil {
		set("age_groups", *upd.AgeGroups)
	}
	if upd.Seasons != nil {
		set("seasons", *upd.Seasons)
	}
	if upd.Occasions != nil {
		set("occasions", *upd.Occasions)
	}
	if len(sets) == 0 {
		return r.FindByID(ctx, id)
	}
	sets = append(sets, "updated_at = now()")

	args = append(args, id)
	query := `UPDATE products SET ` + strings.Join(sets, ", ") +
		` WHERE id = $` + strconv.Itoa(len(args)) +
		` RETURNING ` + productSelectCols

	row := r.pool.QueryRow(ctx, query, args...)
	return scanProduct(row.Scan)
}

// Delete removes a product; ErrNotFound if no row matched.
func (r *PgProductRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}
