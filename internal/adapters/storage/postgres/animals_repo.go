package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"rescue-office/internal/domain/animals"
)

type AnimalsRepo struct {
	db *sql.DB
}

func NewAnimalsRepo(db *sql.DB) *AnimalsRepo {
	return &AnimalsRepo{db: db}
}

func (r *AnimalsRepo) GetDraft(ctx context.Context, ownerUserID string) (animals.Draft, error) {
	ownerUserID = strings.TrimSpace(ownerUserID)
	if ownerUserID == "" {
		return animals.Draft{}, animals.ErrDraftNotFound
	}

	row := r.db.QueryRowContext(ctx, `
		SELECT
			owner_user_id,
			name, species, breed, color, description,
			avatar, pictures,
			status, pick_up_date, pick_up_location,
			created_at, updated_at
		FROM animal_drafts
		WHERE owner_user_id = $1
	`, ownerUserID)

	var d animals.Draft
	var pics []byte
	var pud sql.NullTime
	if err := row.Scan(
		&d.OwnerUserID,
		&d.Name,
		&d.Species,
		&d.Breed,
		&d.Color,
		&d.Description,
		&d.Avatar,
		&pics,
		&d.Status,
		&pud,
		&d.PickUpLocation,
		&d.CreatedAt,
		&d.UpdatedAt,
	); err != nil {
		if err == sql.ErrNoRows {
			return animals.Draft{}, animals.ErrDraftNotFound
		}
		return animals.Draft{}, err
	}

	if err := json.Unmarshal(pics, &d.Pictures); err != nil {
		return animals.Draft{}, err
	}
	if pud.Valid {
		t := pud.Time
		d.PickUpDate = &t
	}

	return d, nil
}

// SaveDraft hace upsert: hay como mucho un draft por usuario.
func (r *AnimalsRepo) SaveDraft(ctx context.Context, d animals.Draft) error {
	pics, err := json.Marshal(d.Pictures)
	if err != nil {
		return err
	}

	_, err = r.db.ExecContext(ctx, `
		INSERT INTO animal_drafts (
			owner_user_id,
			name, species, breed, color, description,
			avatar, pictures,
			status, pick_up_date, pick_up_location,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		ON CONFLICT (owner_user_id) DO UPDATE SET
			name = EXCLUDED.name,
			species = EXCLUDED.species,
			breed = EXCLUDED.breed,
			color = EXCLUDED.color,
			description = EXCLUDED.description,
			avatar = EXCLUDED.avatar,
			pictures = EXCLUDED.pictures,
			status = EXCLUDED.status,
			pick_up_date = EXCLUDED.pick_up_date,
			pick_up_location = EXCLUDED.pick_up_location,
			updated_at = EXCLUDED.updated_at
	`,
		d.OwnerUserID,
		d.Name,
		d.Species,
		d.Breed,
		d.Color,
		d.Description,
		d.Avatar,
		pics,
		d.Status,
		toNullTime(d.PickUpDate),
		d.PickUpLocation,
		d.CreatedAt,
		d.UpdatedAt,
	)
	return err
}

// PromoteDraft inserta el animal y borra el draft en la misma transacción.
func (r *AnimalsRepo) PromoteDraft(ctx context.Context, a animals.Animal, ownerUserID string) error {
	pics, err := json.Marshal(a.Pictures)
	if err != nil {
		return err
	}

	return runInTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO animals (
				id,
				name, species, breed, color, description,
				avatar, pictures,
				status, pick_up_date, pick_up_location,
				created_at, updated_at
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13)
		`,
			a.ID,
			a.Name,
			a.Species,
			a.Breed,
			a.Color,
			a.Description,
			a.Avatar,
			pics,
			a.Status,
			a.PickUpDate,
			a.PickUpLocation,
			a.CreatedAt,
			a.UpdatedAt,
		); err != nil {
			return err
		}

		res, err := tx.ExecContext(ctx, `
			DELETE FROM animal_drafts WHERE owner_user_id = $1
		`, ownerUserID)
		if err != nil {
			return err
		}
		n, _ := res.RowsAffected()
		if n == 0 {
			return animals.ErrDraftNotFound
		}
		return nil
	})
}

func (r *AnimalsRepo) GetByID(ctx context.Context, id string) (animals.Animal, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return animals.Animal{}, animals.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, animalSelect+` WHERE id = $1`, id)

	a, err := scanAnimal(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return animals.Animal{}, animals.ErrNotFound
		}
		return animals.Animal{}, err
	}
	return a, nil
}

func (r *AnimalsRepo) Update(ctx context.Context, a animals.Animal) error {
	pics, err := json.Marshal(a.Pictures)
	if err != nil {
		return err
	}

	res, err := r.db.ExecContext(ctx, `
		UPDATE animals
		SET
			name = $2,
			species = $3,
			breed = $4,
			color = $5,
			description = $6,
			avatar = $7,
			pictures = $8,
			status = $9,
			pick_up_date = $10,
			pick_up_location = $11,
			updated_at = $12
		WHERE id = $1
	`,
		a.ID,
		a.Name,
		a.Species,
		a.Breed,
		a.Color,
		a.Description,
		a.Avatar,
		pics,
		a.Status,
		a.PickUpDate,
		a.PickUpLocation,
		a.UpdatedAt,
	)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) Delete(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM animals WHERE id = $1`, id)
	if err != nil {
		return err
	}
	n, _ := res.RowsAffected()
	if n == 0 {
		return animals.ErrNotFound
	}
	return nil
}

func (r *AnimalsRepo) ListByStatus(ctx context.Context, status animals.Status) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, animalSelect+`
		WHERE status = $1
		ORDER BY created_at ASC
	`, status)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAnimals(rows)
}

func (r *AnimalsRepo) List(ctx context.Context) ([]animals.Animal, error) {
	rows, err := r.db.QueryContext(ctx, animalSelect+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return collectAnimals(rows)
}

const animalSelect = `
	SELECT
		id,
		name, species, breed, color, description,
		avatar, pictures,
		status, pick_up_date, pick_up_location,
		created_at, updated_at
	FROM animals
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanAnimal(row rowScanner) (animals.Animal, error) {
	var a animals.Animal
	var pics []byte
	if err := row.Scan(
		&a.ID,
		&a.Name,
		&a.Species,
		&a.Breed,
		&a.Color,
		&a.Description,
		&a.Avatar,
		&pics,
		&a.Status,
		&a.PickUpDate,
		&a.PickUpLocation,
		&a.CreatedAt,
		&a.UpdatedAt,
	); err != nil {
		return animals.Animal{}, err
	}
	if err := json.Unmarshal(pics, &a.Pictures); err != nil {
		return animals.Animal{}, err
	}
	return a, nil
}

func collectAnimals(rows *sql.Rows) ([]animals.Animal, error) {
	out := make([]animals.Animal, 0)
	for rows.Next() {
		a, err := scanAnimal(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	return out, rows.Err()
}

func toNullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{Valid: false}
	}
	return sql.NullTime{Time: *t, Valid: true}
}
