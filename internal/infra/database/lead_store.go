package database

import (
	"context"
	"database/sql"
	"errors"

	"github.com/gfduarte/funil-crm/internal/entity"
)

// LeadStore é a persistência de leads em Postgres, pra instalações que
// preferem banco relacional no lugar do backend na nuvem. Implementa a
// mesma interface de camada dos demais tiers.
type LeadStore struct {
	DB *sql.DB
}

func NewLeadStore(db *sql.DB) *LeadStore {
	return &LeadStore{DB: db}
}

func (s *LeadStore) Name() string {
	return "postgres"
}

const leadColumns = `id, company_name, contact_person, phone, niche, stage, notes, created_at, updated_at`

func scanLead(scanner interface{ Scan(...any) error }) (*entity.Lead, error) {
	var lead entity.Lead
	var notes sql.NullString
	err := scanner.Scan(
		&lead.ID,
		&lead.CompanyName,
		&lead.ContactPerson,
		&lead.Phone,
		&lead.Niche,
		&lead.Stage,
		&notes,
		&lead.CreatedAt,
		&lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	lead.Notes = notes.String
	return &lead, nil
}

func (s *LeadStore) List(ctx context.Context) ([]entity.Lead, error) {
	rows, err := s.DB.QueryContext(ctx,
		`SELECT `+leadColumns+` FROM leads ORDER BY updated_at DESC, created_at ASC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	leads := []entity.Lead{}
	for rows.Next() {
		lead, err := scanLead(rows)
		if err != nil {
			return nil, err
		}
		leads = append(leads, *lead)
	}
	return leads, rows.Err()
}

func (s *LeadStore) Get(ctx context.Context, id string) (*entity.Lead, error) {
	row := s.DB.QueryRowContext(ctx,
		`SELECT `+leadColumns+` FROM leads WHERE id = $1`, id)

	lead, err := scanLead(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, entity.ErrNotFound
	}
	return lead, err
}

func (s *LeadStore) Insert(ctx context.Context, lead entity.Lead) (*entity.Lead, error) {
	query := `
		INSERT INTO leads (id, company_name, contact_person, phone, niche, stage, notes, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`

	_, err := s.DB.ExecContext(ctx, query,
		lead.ID,
		lead.CompanyName,
		lead.ContactPerson,
		lead.Phone,
		string(lead.Niche),
		string(lead.Stage),
		lead.Notes,
		lead.CreatedAt,
		lead.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &lead, nil
}

func (s *LeadStore) Update(ctx context.Context, lead entity.Lead) error {
	query := `
		UPDATE leads
		SET company_name = $2, contact_person = $3, phone = $4,
			niche = $5, stage = $6, notes = $7, updated_at = $8
		WHERE id = $1
	`

	result, err := s.DB.ExecContext(ctx, query,
		lead.ID,
		lead.CompanyName,
		lead.ContactPerson,
		lead.Phone,
		string(lead.Niche),
		string(lead.Stage),
		lead.Notes,
		lead.UpdatedAt,
	)
	if err != nil {
		return err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return entity.ErrNotFound
	}
	return nil
}

func (s *LeadStore) Delete(ctx context.Context, id string) (bool, error) {
	result, err := s.DB.ExecContext(ctx, `DELETE FROM leads WHERE id = $1`, id)
	if err != nil {
		return false, err
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return false, err
	}
	return affected > 0, nil
}
