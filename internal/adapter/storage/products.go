package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/port"
)

var _ port.CatalogLoader = (*ProductsRepository)(nil)

var ErrEmptyCatalog = errors.New("catalog is empty")

// A ProductsRepository reads the catalog seeded by the migrations.
type ProductsRepository struct {
	sqldb sqldb
}

func NewProductsRepository(sqldb sqldb) ProductsRepository {
	return ProductsRepository{sqldb}
}

func (r ProductsRepository) LoadProducts(
	ctx context.Context,
) (ps []domain.Product, loadErr error) {
	const op = "ProductsRepository.LoadProducts"
	log := slog.With("op", op)

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	query := `
		SELECT
			id, name, price, image, category, material,
			difficulty, technique, description, features, in_stock
		FROM products
		ORDER BY id ASC;`

	rows, err := r.sqldb.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("%s: failed to query: %w", op, err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", "err", err)
		}
	}()

	for rows.Next() {
		p, err := r.scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", op, err)
		}
		ps = append(ps, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	if len(ps) == 0 {
		return nil, fmt.Errorf("%s: %w", op, ErrEmptyCatalog)
	}

	log.Info("catalog loaded", "nProducts", len(ps))
	return ps, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func (r ProductsRepository) scanProduct(row scanner) (domain.Product, error) {
	var (
		v          domain.Product
		difficulty string
		featuresS  string
	)
	err := row.Scan(
		&v.ID, &v.Name, &v.Price, &v.Image, &v.Category, &v.Material,
		&difficulty, &v.Technique, &v.Description, &featuresS, &v.InStock,
	)
	if err != nil {
		return domain.Product{}, err
	}

	v.Difficulty = domain.Difficulty(difficulty)
	if !v.Difficulty.Valid() {
		return domain.Product{}, fmt.Errorf(
			"product %d: unknown difficulty %q", v.ID, difficulty,
		)
	}

	err = json.Unmarshal([]byte(featuresS), &v.Features)
	if err != nil {
		return domain.Product{}, fmt.Errorf("product %d: %w", v.ID, err)
	}
	return v, nil
}
