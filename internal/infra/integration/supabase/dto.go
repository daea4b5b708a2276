package supabase

import (
	"time"

	"github.com/gfduarte/funil-crm/internal/entity"
)

type leadRow struct {
	ID            string    `json:"id"`
	CompanyName   string    `json:"company_name"`
	ContactPerson string    `json:"contact_person"`
	Phone         string    `json:"phone"`
	Niche         string    `json:"niche"`
	Stage         string    `json:"stage"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

type messageRow struct {
	Niche string `json:"niche"`
	Text  string `json:"text"`
}

func (r leadRow) toEntity() entity.Lead {
	return entity.Lead{
		ID:            r.ID,
		CompanyName:   r.CompanyName,
		ContactPerson: r.ContactPerson,
		Phone:         r.Phone,
		Niche:         entity.Niche(r.Niche),
		Stage:         entity.Stage(r.Stage),
		Notes:         r.Notes,
		CreatedAt:     r.CreatedAt,
		UpdatedAt:     r.UpdatedAt,
	}
}

func fromEntity(l entity.Lead) leadRow {
	return leadRow{
		ID:            l.ID,
		CompanyName:   l.CompanyName,
		ContactPerson: l.ContactPerson,
		Phone:         l.Phone,
		Niche:         string(l.Niche),
		Stage:         string(l.Stage),
		Notes:         l.Notes,
		CreatedAt:     l.CreatedAt,
		UpdatedAt:     l.UpdatedAt,
	}
}
