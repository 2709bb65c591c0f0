package repository

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/Freeeeeet/homecare_bot/internal/model"
	"github.com/Freeeeeet/homecare_bot/internal/repository/base"
)

type PatientRepository struct {
	*base.Repository
}

func NewPatientRepository(pool *pgxpool.Pool) *PatientRepository {
	return &PatientRepository{Repository: base.NewRepository(pool)}
}

const patientColumns = `id, owner_id, full_name, birth_year, address, phone, notes, created_at`

func scanPatient(row interface{ Scan(dest ...any) error }) (*model.Patient, error) {
	var p model.Patient
	err := row.Scan(&p.ID, &p.OwnerID, &p.FullName, &p.BirthYear, &p.Address, &p.Phone, &p.Notes, &p.CreatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// Create сохраняет профиль пациента
func (r *PatientRepository) Create(ctx context.Context, p *model.Patient) error {
	query := `
		INSERT INTO patients (owner_id, full_name, birth_year, address, phone, notes)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at
	`

	err := r.QueryRow(ctx, query, p.OwnerID, p.FullName, p.BirthYear, p.Address, p.Phone, p.Notes).
		Scan(&p.ID, &p.CreatedAt)
	if err != nil {
		return fmt.Errorf("create patient: %w", err)
	}

	return nil
}

// GetByID получает пациента по ID
func (r *PatientRepository) GetByID(ctx context.Context, id int64) (*model.Patient, error) {
	p, err := scanPatient(r.QueryRow(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = $1`, id))
	if err != nil {
		if base.IsNotFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get patient by id: %w", err)
	}
	return p, nil
}

// GetByIDs получает пациентов пачкой
func (r *PatientRepository) GetByIDs(ctx context.Context, ids []int64) (map[int64]*model.Patient, error) {
	result := make(map[int64]*model.Patient, len(ids))
	if len(ids) == 0 {
		return result, nil
	}

	rows, err := r.Query(ctx, `SELECT `+patientColumns+` FROM patients WHERE id = ANY($1)`, ids)
	if err != nil {
		return nil, fmt.Errorf("get patients by ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		result[p.ID] = p
	}

	return result, rows.Err()
}

// ListByOwner возвращает профили пациентов пользователя
func (r *PatientRepository) ListByOwner(ctx context.Context, ownerID int64) ([]*model.Patient, error) {
	query := `SELECT ` + patientColumns + ` FROM patients WHERE owner_id = $1 ORDER BY created_at`

	rows, err := r.Query(ctx, query, ownerID)
	if err != nil {
		return nil, fmt.Errorf("list patients: %w", err)
	}
	defer rows.Close()

	var patients []*model.Patient
	for rows.Next() {
		p, err := scanPatient(rows)
		if err != nil {
			return nil, fmt.Errorf("scan patient: %w", err)
		}
		patients = append(patients, p)
	}

	return patients, rows.Err()
}
