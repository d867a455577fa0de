package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"

	"rescue-office/internal/domain/fosterfamilies"
)

type FosterFamiliesRepo struct {
	db *sql.DB
}

func NewFosterFamiliesRepo(db *sql.DB) *FosterFamiliesRepo {
	return &FosterFamiliesRepo{db: db}
}

func (r *FosterFamiliesRepo) Create(ctx context.Context, f fosterfamilies.FosterFamily) error {
	present, toHost, err := marshalSpecies(f)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO foster_families (
			id,
			display_name, email, phone,
			address, city, zip_code,
			availability, availability_expires_at,
			species_already_present, species_to_host,
			comments,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14)
	`,
		f.ID,
		f.DisplayName,
		f.Email,
		f.Phone,
		f.Address,
		f.City,
		f.ZipCode,
		f.Availability,
		toNullTime(f.AvailabilityExpiresAt),
		present,
		toHost,
		f.Comments,
		f.CreatedAt,
		f.UpdatedAt,
	)
	if isUniqueViolation(err, "foster_families_email_key") {
		return fosterfamilies.ErrEmailAlreadyUsed
	}
	return err
}

func (r *FosterFamiliesRepo) Update(ctx context.Context, f fosterfamilies.FosterFamily) error {
	present, toHost, err := marshalSpecies(f)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE foster_families
		SET
			display_name = $2,
			email = $3,
			phone = $4,
			address = $5,
			city = $6,
			zip_code = $7,
			availability = $8,
			availability_expires_at = $9,
			species_already_present = $10,
			species_to_host = $11,
			comments = $12,
			updated_at = $13
		WHERE id = $1
	`,
		f.ID,
		f.DisplayName,
		f.Email,
		f.Phone,
		f.Address,
		f.City,
		f.ZipCode,
		f.Availability,
		toNullTime(f.AvailabilityExpiresAt),
		present,
		toHost,
		f.Comments,
		f.UpdatedAt,
	)
	if isUniqueViolation(err, "foster_families_email_key") {
		return fosterfamilies.ErrEmailAlreadyUsed
	}
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fosterfamilies.ErrNotFound
	}
	return nil
}

func (r *FosterFamiliesRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM foster_families WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return fosterfamilies.ErrNotFound
	}
	return nil
}

func (r *FosterFamiliesRepo) GetByID(ctx context.Context, id string) (fosterfamilies.FosterFamily, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return fosterfamilies.FosterFamily{}, fosterfamilies.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, fosterFamilySelect+` WHERE id = $1`, id)

	f, err := scanFosterFamily(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return fosterfamilies.FosterFamily{}, fosterfamilies.ErrNotFound
		}
		return fosterfamilies.FosterFamily{}, err
	}
	return f, nil
}

func (r *FosterFamiliesRepo) List(ctx context.Context) ([]fosterfamilies.FosterFamily, error) {
	rows, err := r.db.QueryContext(ctx, fosterFamilySelect+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]fosterfamilies.FosterFamily, 0)
	for rows.Next() {
		f, err := scanFosterFamily(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, f)
	}
	return out, rows.Err()
}

const fosterFamilySelect = `
	SELECT
		id,
		display_name, email, phone,
		address, city, zip_code,
		availability, availability_expires_at,
		species_already_present, species_to_host,
		comments,
		created_at, updated_at
	FROM foster_families
`

func scanFosterFamily(row rowScanner) (fosterfamilies.FosterFamily, error) {
	var f fosterfamilies.FosterFamily
	var present, toHost []byte
	var expires sql.NullTime
	if err := row.Scan(
		&f.ID,
		&f.DisplayName,
		&f.Email,
		&f.Phone,
		&f.Address,
		&f.City,
		&f.ZipCode,
		&f.Availability,
		&expires,
		&present,
		&toHost,
		&f.Comments,
		&f.CreatedAt,
		&f.UpdatedAt,
	); err != nil {
		return fosterfamilies.FosterFamily{}, err
	}

	if err := json.Unmarshal(present, &f.SpeciesAlreadyPresent); err != nil {
		return fosterfamilies.FosterFamily{}, err
	}
	if err := json.Unmarshal(toHost, &f.SpeciesToHost); err != nil {
		return fosterfamilies.FosterFamily{}, err
	}
	if expires.Valid {
		t := expires.Time
		f.AvailabilityExpiresAt = &t
	}

	return f, nil
}

func marshalSpecies(f fosterfamilies.FosterFamily) ([]byte, []byte, error) {
	present, err := json.Marshal(f.SpeciesAlreadyPresent)
	if err != nil {
		return nil, nil, err
	}
	toHost, err := json.Marshal(f.SpeciesToHost)
	if err != nil {
		return nil, nil, err
	}
	return present, toHost, nil
}
