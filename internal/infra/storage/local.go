package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/gfduarte/funil-crm/internal/entity"
)

const (
	leadsFile    = "leads.json"
	messagesFile = "messages.json"
)

// LocalStore é a camada final de fallback: um blob JSON por tipo de
// entidade, lido e gravado por inteiro. Blob ausente ou corrompido é
// tratado como vazio; só falha de escrita sobe como erro.
type LocalStore struct {
	dir string
}

func NewLocalStore(dir string) *LocalStore {
	return &LocalStore{dir: dir}
}

func (s *LocalStore) Name() string {
	return "local"
}

func (s *LocalStore) readLeads() []entity.Lead {
	data, err := os.ReadFile(filepath.Join(s.dir, leadsFile))
	if err != nil {
		return []entity.Lead{}
	}
	var leads []entity.Lead
	if err := json.Unmarshal(data, &leads); err != nil {
		return []entity.Lead{}
	}
	return leads
}

func (s *LocalStore) writeLeads(leads []entity.Lead) error {
	data, err := json.Marshal(leads)
	if err != nil {
		return fmt.Errorf("erro ao serializar leads: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("erro ao criar diretório de dados: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, leadsFile), data, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar leads: %w", err)
	}
	return nil
}

func (s *LocalStore) List(ctx context.Context) ([]entity.Lead, error) {
	return s.readLeads(), nil
}

func (s *LocalStore) Get(ctx context.Context, id string) (*entity.Lead, error) {
	for _, lead := range s.readLeads() {
		if lead.ID == id {
			l := lead
			return &l, nil
		}
	}
	return nil, entity.ErrNotFound
}

func (s *LocalStore) Insert(ctx context.Context, lead entity.Lead) (*entity.Lead, error) {
	leads := s.readLeads()
	leads = append(leads, lead)
	if err := s.writeLeads(leads); err != nil {
		return nil, err
	}
	return &lead, nil
}

func (s *LocalStore) Update(ctx context.Context, lead entity.Lead) error {
	leads := s.readLeads()
	for i := range leads {
		if leads[i].ID == lead.ID {
			leads[i] = lead
			return s.writeLeads(leads)
		}
	}
	return entity.ErrNotFound
}

func (s *LocalStore) Delete(ctx context.Context, id string) (bool, error) {
	leads := s.readLeads()
	filtered := leads[:0:0]
	for _, lead := range leads {
		if lead.ID != id {
			filtered = append(filtered, lead)
		}
	}
	if len(filtered) == len(leads) {
		return false, nil
	}
	if err := s.writeLeads(filtered); err != nil {
		return false, err
	}
	return true, nil
}

func (s *LocalStore) Fetch(ctx context.Context) (entity.MessageMap, error) {
	data, err := os.ReadFile(filepath.Join(s.dir, messagesFile))
	if err != nil {
		return entity.MessageMap{}, nil
	}
	var m entity.MessageMap
	if err := json.Unmarshal(data, &m); err != nil {
		return entity.MessageMap{}, nil
	}
	if m == nil {
		m = entity.MessageMap{}
	}
	return m, nil
}

func (s *LocalStore) Upsert(ctx context.Context, niche entity.Niche, text string) error {
	m, _ := s.Fetch(ctx)
	m[niche] = text

	data, err := json.Marshal(m)
	if err != nil {
		return fmt.Errorf("erro ao serializar mensagens: %w", err)
	}
	if err := os.MkdirAll(s.dir, 0o755); err != nil {
		return fmt.Errorf("erro ao criar diretório de dados: %w", err)
	}
	if err := os.WriteFile(filepath.Join(s.dir, messagesFile), data, 0o644); err != nil {
		return fmt.Errorf("erro ao gravar mensagens: %w", err)
	}
	return nil
}
