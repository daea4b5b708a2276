package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/gfduarte/funil-crm/internal/entity"
	"github.com/gfduarte/funil-crm/internal/infra/http/middleware"
	"github.com/gfduarte/funil-crm/internal/infra/storage"
)

// LeadRepository executa cada operação contra uma lista ordenada de
// backends: o primeiro que responde resolve a operação inteira. Falha de
// backend (rede, status não-2xx, escrita local) gera warning e cai pro
// próximo; ErrNotFound vem do estado do backend resolvido e NÃO dispara
// fallback. Só quando todas as camadas falham o erro sobe como
// ErrAllTiersFailed.
type LeadRepository struct {
	backends []storage.LeadBackend
	log      *logrus.Entry
	now      func() time.Time
}

func NewLeadRepository(backends ...storage.LeadBackend) *LeadRepository {
	return &LeadRepository{
		backends: backends,
		log:      logrus.WithField("repo", "leads"),
		now:      time.Now,
	}
}

// resolve tenta op em cada camada na ordem de prioridade.
func (r *LeadRepository) resolve(ctx context.Context, op string, fn func(storage.LeadBackend) error) error {
	var lastErr error
	for _, backend := range r.backends {
		err := fn(backend)
		if err == nil {
			return nil
		}
		if errors.Is(err, entity.ErrNotFound) {
			return err
		}
		r.log.WithError(err).WithFields(logrus.Fields{
			"tier": backend.Name(),
			"op":   op,
		}).Warn("camada de persistência falhou, tentando a próxima")
		middleware.RecordTierFallback("leads", backend.Name())
		lastErr = err
	}
	middleware.RecordAllTiersFailed("leads")
	if lastErr != nil {
		return fmt.Errorf("%w: %v", entity.ErrAllTiersFailed, lastErr)
	}
	return entity.ErrAllTiersFailed
}

// ListAll devolve todos os leads do backend resolvido, do mais
// recentemente mexido pro mais antigo. Empate de timestamp preserva a
// ordem de armazenamento.
func (r *LeadRepository) ListAll(ctx context.Context) ([]entity.Lead, error) {
	var leads []entity.Lead
	err := r.resolve(ctx, "list", func(b storage.LeadBackend) error {
		var err error
		leads, err = b.List(ctx)
		return err
	})
	if err != nil {
		return nil, err
	}

	sort.SliceStable(leads, func(i, j int) bool {
		return leads[i].UpdatedAt.After(leads[j].UpdatedAt)
	})
	return leads, nil
}

func (r *LeadRepository) Create(ctx context.Context, input entity.CreateLeadInput) (*entity.Lead, error) {
	if !entity.IsValidNiche(input.Niche) {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidNiche, input.Niche)
	}

	now := r.now().UTC()
	lead := entity.Lead{
		ID:            newLeadID(now),
		CompanyName:   input.CompanyName,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Niche:         input.Niche,
		Stage:         entity.FirstStage(),
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	var created *entity.Lead
	err := r.resolve(ctx, "create", func(b storage.LeadBackend) error {
		var err error
		created, err = b.Insert(ctx, lead)
		return err
	})
	if err != nil {
		return nil, err
	}
	return created, nil
}

func (r *LeadRepository) MoveStage(ctx context.Context, id string, stage entity.Stage) (*entity.Lead, error) {
	if !entity.IsValidStage(stage) {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidStage, stage)
	}

	var moved *entity.Lead
	err := r.resolve(ctx, "move_stage", func(b storage.LeadBackend) error {
		lead, err := b.Get(ctx, id)
		if err != nil {
			return err
		}
		lead.Stage = stage
		lead.UpdatedAt = r.now().UTC()
		if err := b.Update(ctx, *lead); err != nil {
			return err
		}
		moved = lead
		return nil
	})
	if err != nil {
		return nil, err
	}
	return moved, nil
}

// Update mescla só os campos presentes; ID e CreatedAt nunca mudam.
func (r *LeadRepository) Update(ctx context.Context, id string, update entity.LeadUpdate) (*entity.Lead, error) {
	if update.Niche != nil && !entity.IsValidNiche(*update.Niche) {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidNiche, *update.Niche)
	}
	if update.Stage != nil && !entity.IsValidStage(*update.Stage) {
		return nil, fmt.Errorf("%w: %q", entity.ErrInvalidStage, *update.Stage)
	}

	var updated *entity.Lead
	err := r.resolve(ctx, "update", func(b storage.LeadBackend) error {
		lead, err := b.Get(ctx, id)
		if err != nil {
			return err
		}
		applyUpdate(lead, update)
		lead.UpdatedAt = r.now().UTC()
		if err := b.Update(ctx, *lead); err != nil {
			return err
		}
		updated = lead
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

func (r *LeadRepository) Remove(ctx context.Context, id string) (bool, error) {
	var removed bool
	err := r.resolve(ctx, "remove", func(b storage.LeadBackend) error {
		var err error
		removed, err = b.Delete(ctx, id)
		return err
	})
	if err != nil {
		return false, err
	}
	return removed, nil
}

// GetStats recomputa a partir de ListAll a cada chamada; não existe
// contador separado que possa divergir da lista.
func (r *LeadRepository) GetStats(ctx context.Context) (*entity.Stats, error) {
	leads, err := r.ListAll(ctx)
	if err != nil {
		return nil, err
	}

	byStage := make(map[entity.Stage]int, len(entity.Stages))
	for _, stage := range entity.Stages {
		byStage[stage] = 0
	}
	for _, lead := range leads {
		byStage[lead.Stage]++
	}

	return &entity.Stats{Total: len(leads), ByStage: byStage}, nil
}

func applyUpdate(lead *entity.Lead, update entity.LeadUpdate) {
	if update.CompanyName != nil {
		lead.CompanyName = *update.CompanyName
	}
	if update.ContactPerson != nil {
		lead.ContactPerson = *update.ContactPerson
	}
	if update.Phone != nil {
		lead.Phone = *update.Phone
	}
	if update.Niche != nil {
		lead.Niche = *update.Niche
	}
	if update.Stage != nil {
		lead.Stage = *update.Stage
	}
	if update.Notes != nil {
		lead.Notes = *update.Notes
	}
}

// newLeadID compõe timestamp em base36 + fragmento aleatório: único no
// processo e com prefixo monotônico pro desempate estável da ordenação.
func newLeadID(now time.Time) string {
	return strconv.FormatInt(now.UnixMilli(), 36) + uuid.NewString()[:8]
}
