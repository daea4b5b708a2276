package entity

import (
	"context"
	"time"
)

// Lead é um contato comercial acompanhado no funil de vendas.
type Lead struct {
	ID            string    `json:"id"`
	CompanyName   string    `json:"companyName"`
	ContactPerson string    `json:"contactPerson"`
	Phone         string    `json:"phone"`
	Niche         Niche     `json:"niche"`
	Stage         Stage     `json:"stage"`
	Notes         string    `json:"notes"`
	CreatedAt     time.Time `json:"createdAt"`
	UpdatedAt     time.Time `json:"updatedAt"`
}

// LeadUpdate carrega os campos editáveis de um Lead. Ponteiro nil = não alterar.
// ID e CreatedAt nunca são tocados por uma atualização.
type LeadUpdate struct {
	CompanyName   *string `json:"companyName,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Niche         *Niche  `json:"niche,omitempty"`
	Stage         *Stage  `json:"stage,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

// CreateLeadInput são os campos vindos do formulário de captação.
// A etapa inicial é sempre a primeira do funil, nunca vem do chamador.
type CreateLeadInput struct {
	CompanyName   string
	ContactPerson string
	Phone         string
	Niche         Niche
	Notes         string
}

// Stats agrega a visão do funil: total de leads e contagem por etapa.
// ByStage sempre contém as 5 etapas, mesmo zeradas.
type Stats struct {
	Total   int           `json:"total"`
	ByStage map[Stage]int `json:"byStage"`
}

type LeadRepositoryInterface interface {
	ListAll(ctx context.Context) ([]Lead, error)
	Create(ctx context.Context, input CreateLeadInput) (*Lead, error)
	MoveStage(ctx context.Context, id string, stage Stage) (*Lead, error)
	Update(ctx context.Context, id string, update LeadUpdate) (*Lead, error)
	Remove(ctx context.Context, id string) (bool, error)
	GetStats(ctx context.Context) (*Stats, error)
}
