package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"strings"
	"time"

	"rescue-office/internal/domain/exhibitors"
)

type ExhibitorsRepo struct {
	db *sql.DB
}

func NewExhibitorsRepo(db *sql.DB) *ExhibitorsRepo {
	return &ExhibitorsRepo{db: db}
}

func (r *ExhibitorsRepo) CreateApplication(ctx context.Context, app exhibitors.Application) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO show_exhibitor_applications (
			id,
			contact_first_name, contact_last_name, contact_email,
			structure_name, structure_url,
			desired_stand_size_id, desired_divider_id, divider_count, table_count,
			status, refusal_message, exhibitor_id,
			created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15)
	`,
		app.ID,
		app.ContactFirstName,
		app.ContactLastName,
		app.ContactEmail,
		app.StructureName,
		app.StructureURL,
		app.DesiredStandSizeID,
		app.DesiredDividerID,
		app.DividerCount,
		app.TableCount,
		app.Status,
		app.RefusalMessage,
		app.ExhibitorID,
		app.CreatedAt,
		app.UpdatedAt,
	)
	switch {
	case isUniqueViolation(err, "show_exhibitor_applications_contact_email_key"):
		return exhibitors.ErrEmailAlreadyUsed
	case isUniqueViolation(err, "show_exhibitor_applications_structure_url_key"):
		return exhibitors.ErrURLAlreadyUsed
	}
	return err
}

func (r *ExhibitorsRepo) GetApplication(ctx context.Context, id string) (exhibitors.Application, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return exhibitors.Application{}, exhibitors.ErrNotFound
	}

	row := r.db.QueryRowContext(ctx, applicationSelect+` WHERE id = $1`, id)
	app, err := scanApplication(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return exhibitors.Application{}, exhibitors.ErrNotFound
		}
		return exhibitors.Application{}, err
	}
	return app, nil
}

func (r *ExhibitorsRepo) ListApplications(ctx context.Context) ([]exhibitors.Application, error) {
	rows, err := r.db.QueryContext(ctx, applicationSelect+` ORDER BY created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]exhibitors.Application, 0)
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, app)
	}
	return out, rows.Err()
}

// UpdateApplicationStatus corre en una única transacción: bloquea la fila,
// escribe el nuevo status y, si corresponde validar y exhibitor_id sigue
// null, crea el agregado candidate y setea el FK. Si el FK ya estaba
// seteado, el candidate se descarta sin tocar nada.
func (r *ExhibitorsRepo) UpdateApplicationStatus(ctx context.Context, id string, status exhibitors.ApplicationStatus, refusalMessage *string, updatedAt time.Time, candidate exhibitors.Exhibitor) (exhibitors.Application, bool, error) {
	var (
		app      exhibitors.Application
		promoted bool
	)

	err := runInTx(ctx, r.db, func(tx *sql.Tx) error {
		row := tx.QueryRowContext(ctx, applicationSelect+` WHERE id = $1 FOR UPDATE`, id)
		current, err := scanApplication(row)
		if err != nil {
			if err == sql.ErrNoRows {
				return exhibitors.ErrNotFound
			}
			return err
		}

		current.Status = status
		current.RefusalMessage = refusalMessage
		current.UpdatedAt = updatedAt

		if status == exhibitors.StatusValidated && current.ExhibitorID == nil {
			// el candidate hereda los datos de la candidatura recién leída
			candidate.ApplicationID = current.ID
			candidate.Name = current.StructureName
			candidate.Stand.StandSizeID = current.DesiredStandSizeID
			candidate.Stand.DividerID = current.DesiredDividerID
			candidate.Stand.DividerCount = current.DividerCount
			candidate.Stand.TableCount = current.TableCount
			candidate.CreatedAt = updatedAt
			candidate.UpdatedAt = updatedAt

			if err := insertExhibitor(ctx, tx, candidate); err != nil {
				return err
			}
			current.ExhibitorID = &candidate.ID
			promoted = true
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE show_exhibitor_applications
			SET status = $2, refusal_message = $3, exhibitor_id = $4, updated_at = $5
			WHERE id = $1
		`,
			current.ID,
			current.Status,
			current.RefusalMessage,
			current.ExhibitorID,
			current.UpdatedAt,
		); err != nil {
			return err
		}

		app = current
		return nil
	})
	if err != nil {
		return exhibitors.Application{}, false, err
	}
	return app, promoted, nil
}

func (r *ExhibitorsRepo) GetExhibitor(ctx context.Context, id string) (exhibitors.Exhibitor, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return exhibitors.Exhibitor{}, exhibitors.ErrExhibitorNotFound
	}

	row := r.db.QueryRowContext(ctx, exhibitorSelect+` WHERE e.id = $1`, id)
	e, err := scanExhibitor(row)
	if err != nil {
		if err == sql.ErrNoRows {
			return exhibitors.Exhibitor{}, exhibitors.ErrExhibitorNotFound
		}
		return exhibitors.Exhibitor{}, err
	}
	return e, nil
}

func (r *ExhibitorsRepo) ListExhibitors(ctx context.Context) ([]exhibitors.Exhibitor, error) {
	rows, err := r.db.QueryContext(ctx, exhibitorSelect+` ORDER BY e.created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]exhibitors.Exhibitor, 0)
	for rows.Next() {
		e, err := scanExhibitor(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

func insertExhibitor(ctx context.Context, tx *sql.Tx, e exhibitors.Exhibitor) error {
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO exhibitors (id, application_id, name, created_at, updated_at)
		VALUES ($1,$2,$3,$4,$5)
	`, e.ID, e.ApplicationID, e.Name, e.CreatedAt, e.UpdatedAt); err != nil {
		return err
	}

	links, err := json.Marshal(e.Profile.Links)
	if err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `
		INSERT INTO exhibitor_profiles (id, exhibitor_id, description, logo_path, links)
		VALUES ($1,$2,$3,$4,$5)
	`, e.Profile.ID, e.ID, e.Profile.Description, e.Profile.LogoPath, links); err != nil {
		return err
	}

	if _, err := tx.ExecContext(ctx, `
		INSERT INTO exhibitor_stands (id, exhibitor_id, stand_size_id, divider_id, divider_count, table_count)
		VALUES ($1,$2,$3,$4,$5,$6)
	`, e.Stand.ID, e.ID, e.Stand.StandSizeID, e.Stand.DividerID, e.Stand.DividerCount, e.Stand.TableCount); err != nil {
		return err
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO exhibitor_documents (id, exhibitor_id, folder_id)
		VALUES ($1,$2,$3)
	`, e.Documents.ID, e.ID, e.Documents.FolderID)
	return err
}

const applicationSelect = `
	SELECT
		id,
		contact_first_name, contact_last_name, contact_email,
		structure_name, structure_url,
		desired_stand_size_id, desired_divider_id, divider_count, table_count,
		status, refusal_message, exhibitor_id,
		created_at, updated_at
	FROM show_exhibitor_applications
`

func scanApplication(row rowScanner) (exhibitors.Application, error) {
	var app exhibitors.Application
	var refusal, exhibitorID sql.NullString
	if err := row.Scan(
		&app.ID,
		&app.ContactFirstName,
		&app.ContactLastName,
		&app.ContactEmail,
		&app.StructureName,
		&app.StructureURL,
		&app.DesiredStandSizeID,
		&app.DesiredDividerID,
		&app.DividerCount,
		&app.TableCount,
		&app.Status,
		&refusal,
		&exhibitorID,
		&app.CreatedAt,
		&app.UpdatedAt,
	); err != nil {
		return exhibitors.Application{}, err
	}

	if refusal.Valid {
		s := refusal.String
		app.RefusalMessage = &s
	}
	if exhibitorID.Valid {
		s := exhibitorID.String
		app.ExhibitorID = &s
	}
	return app, nil
}

const exhibitorSelect = `
	SELECT
		e.id, e.application_id, e.name, e.created_at, e.updated_at,
		p.id, p.description, p.logo_path, p.links,
		s.id, s.stand_size_id, s.divider_id, s.divider_count, s.table_count,
		d.id, d.folder_id
	FROM exhibitors e
	JOIN exhibitor_profiles p ON p.exhibitor_id = e.id
	JOIN exhibitor_stands s ON s.exhibitor_id = e.id
	JOIN exhibitor_documents d ON d.exhibitor_id = e.id
`

func scanExhibitor(row rowScanner) (exhibitors.Exhibitor, error) {
	var e exhibitors.Exhibitor
	var links []byte
	if err := row.Scan(
		&e.ID,
		&e.ApplicationID,
		&e.Name,
		&e.CreatedAt,
		&e.UpdatedAt,
		&e.Profile.ID,
		&e.Profile.Description,
		&e.Profile.LogoPath,
		&links,
		&e.Stand.ID,
		&e.Stand.StandSizeID,
		&e.Stand.DividerID,
		&e.Stand.DividerCount,
		&e.Stand.TableCount,
		&e.Documents.ID,
		&e.Documents.FolderID,
	); err != nil {
		return exhibitors.Exhibitor{}, err
	}
	if err := json.Unmarshal(links, &e.Profile.Links); err != nil {
		return exhibitors.Exhibitor{}, err
	}
	return e, nil
}
