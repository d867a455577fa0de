package postgres

import (
	"context"
	"database/sql"
	"strings"

	"rescue-office/internal/domain/catalog"
)

type CatalogRepo struct {
	db *sql.DB
}

func NewCatalogRepo(db *sql.DB) *CatalogRepo {
	return &CatalogRepo{db: db}
}

func (r *CatalogRepo) CreateDividerType(ctx context.Context, d catalog.DividerType) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO show_divider_types (id, label, max_count, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, d.ID, d.Label, d.MaxCount, d.CreatedAt, d.UpdatedAt)
	if isUniqueViolation(err, "show_divider_types_label_key") {
		return catalog.ErrAlreadyExist
	}
	return err
}

// UpdateDividerType valida dentro de la transacción que el nuevo max_count
// no quede por debajo del uso ya reservado por los stands.
func (r *CatalogRepo) UpdateDividerType(ctx context.Context, d catalog.DividerType) error {
	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		var used int
		if err := tx.QueryRowContext(ctx, `
			SELECT COALESCE(SUM(divider_count), 0)
			FROM exhibitor_stands
			WHERE divider_id = $1
		`, d.ID).Scan(&used); err != nil {
			return err
		}
		if d.MaxCount < used {
			return catalog.ErrMaxCountBelowUsage
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE show_divider_types
			SET label = $2, max_count = $3, updated_at = $4
			WHERE id = $1
		`, d.ID, d.Label, d.MaxCount, d.UpdatedAt)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return catalog.ErrNotFound
		}
		return nil
	})
	if isUniqueViolation(err, "show_divider_types_label_key") {
		return catalog.ErrAlreadyExist
	}
	return err
}

func (r *CatalogRepo) GetDividerType(ctx context.Context, id string) (catalog.DividerTypeUsage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.DividerTypeUsage{}, catalog.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, dividerTypeSelect+` WHERE dt.id = $1 GROUP BY dt.id`, id)
	u, err := scanDividerTypeUsage(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return catalog.DividerTypeUsage{}, catalog.ErrNotFound
		}
		return catalog.DividerTypeUsage{}, err
	}
	return u, nil
}

func (r *CatalogRepo) ListDividerTypes(ctx context.Context) ([]catalog.DividerTypeUsage, error) {
	rows, err := r.db.QueryContext(ctx, dividerTypeSelect+` GROUP BY dt.id ORDER BY dt.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.DividerTypeUsage, 0)
	for rows.Next() {
		u, err := scanDividerTypeUsage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

func (r *CatalogRepo) CreateStandSize(ctx context.Context, s catalog.StandSize) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO show_stand_sizes (id, label, max_count, price_cents, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, s.ID, s.Label, s.MaxCount, s.PriceCents, s.CreatedAt, s.UpdatedAt)
	if isUniqueViolation(err, "show_stand_sizes_label_key") {
		return catalog.ErrAlreadyExist
	}
	return err
}

// UpdateStandSize aplica el mismo guard que UpdateDividerType: el uso de
// un tamaño es la cantidad de stands de expositores que lo reservan.
func (r *CatalogRepo) UpdateStandSize(ctx context.Context, s catalog.StandSize) error {
	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		var used int
		if err := tx.QueryRowContext(ctx, `
			SELECT COUNT(*)
			FROM exhibitor_stands
			WHERE stand_size_id = $1
		`, s.ID).Scan(&used); err != nil {
			return err
		}
		if s.MaxCount < used {
			return catalog.ErrMaxCountBelowUsage
		}

		res, err := tx.ExecContext(ctx, `
			UPDATE show_stand_sizes
			SET label = $2, max_count = $3, price_cents = $4, updated_at = $5
			WHERE id = $1
		`, s.ID, s.Label, s.MaxCount, s.PriceCents, s.UpdatedAt)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return catalog.ErrNotFound
		}
		return nil
	})
	if isUniqueViolation(err, "show_stand_sizes_label_key") {
		return catalog.ErrAlreadyExist
	}
	return err
}

func (r *CatalogRepo) GetStandSize(ctx context.Context, id string) (catalog.StandSizeUsage, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return catalog.StandSizeUsage{}, catalog.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, standSizeSelect+` WHERE ss.id = $1 GROUP BY ss.id`, id)
	u, err := scanStandSizeUsage(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return catalog.StandSizeUsage{}, catalog.ErrNotFound
		}
		return catalog.StandSizeUsage{}, err
	}
	return u, nil
}

func (r *CatalogRepo) ListStandSizes(ctx context.Context) ([]catalog.StandSizeUsage, error) {
	rows, err := r.db.QueryContext(ctx, standSizeSelect+` GROUP BY ss.id ORDER BY ss.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]catalog.StandSizeUsage, 0)
	for rows.Next() {
		u, err := scanStandSizeUsage(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, u)
	}
	return out, rows.Err()
}

// el uso se agrega en la misma query, nunca se persiste
const dividerTypeSelect = `
	SELECT
		dt.id, dt.label, dt.max_count, dt.created_at, dt.updated_at,
		COALESCE(SUM(es.divider_count), 0) AS used_count
	FROM show_divider_types dt
	LEFT JOIN exhibitor_stands es ON es.divider_id = dt.id
`

const standSizeSelect = `
	SELECT
		ss.id, ss.label, ss.max_count, ss.price_cents, ss.created_at, ss.updated_at,
		COUNT(es.id) AS used_count
	FROM show_stand_sizes ss
	LEFT JOIN exhibitor_stands es ON es.stand_size_id = ss.id
`

func scanDividerTypeUsage(row rowScanner) (catalog.DividerTypeUsage, error) {
	var u catalog.DividerTypeUsage
	if err := row.Scan(
		&u.ID,
		&u.Label,
		&u.MaxCount,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.UsedCount,
	); err != nil {
		return catalog.DividerTypeUsage{}, err
	}
	return u, nil
}

func scanStandSizeUsage(row rowScanner) (catalog.StandSizeUsage, error) {
	var u catalog.StandSizeUsage
	if err := row.Scan(
		&u.ID,
		&u.Label,
		&u.MaxCount,
		&u.PriceCents,
		&u.CreatedAt,
		&u.UpdatedAt,
		&u.UsedCount,
	); err != nil {
		return catalog.StandSizeUsage{}, err
	}
	return u, nil
}
