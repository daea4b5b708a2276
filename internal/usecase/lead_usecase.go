package usecase

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/gfduarte/funil-crm/internal/entity"
	"github.com/gfduarte/funil-crm/internal/infra/cache"
	"github.com/gfduarte/funil-crm/internal/infra/http/middleware"
	"github.com/gfduarte/funil-crm/internal/infra/queue"
)

const (
	LeadsCacheKey = "crm:leads"
	StatsCacheKey = "crm:leads:stats"
)

// LeadUseCase é a camada de view-model sobre o repositório de leads:
// serve leituras do cache até expirar ou ser invalidado, e garante que
// TODA mutação bem-sucedida (inclusive por fallback) invalida a lista e
// as estatísticas antes de retornar. É o contrato "escreveu, próxima
// leitura vem fresca"; uma invalidação esquecida aqui é bug.
type LeadUseCase struct {
	Repo     entity.LeadRepositoryInterface
	Cache    cache.Cache
	TTL      time.Duration
	Producer EventProducer
	Alerter  AlertService

	log *logrus.Entry
}

func NewLeadUseCase(repo entity.LeadRepositoryInterface, c cache.Cache, ttl time.Duration, producer EventProducer, alerter AlertService) *LeadUseCase {
	return &LeadUseCase{
		Repo:     repo,
		Cache:    c,
		TTL:      ttl,
		Producer: producer,
		Alerter:  alerter,
		log:      logrus.WithField("usecase", "leads"),
	}
}

func (uc *LeadUseCase) ListAll(ctx context.Context) ([]entity.Lead, error) {
	if data, ok := uc.Cache.Get(ctx, LeadsCacheKey); ok {
		var leads []entity.Lead
		if err := json.Unmarshal(data, &leads); err == nil {
			return leads, nil
		}
		uc.Cache.Invalidate(ctx, LeadsCacheKey)
	}

	leads, err := uc.Repo.ListAll(ctx)
	if err != nil {
		return nil, uc.reportFailure(ctx, "list", err)
	}

	if data, err := json.Marshal(leads); err == nil {
		uc.Cache.Set(ctx, LeadsCacheKey, data, uc.TTL)
	}
	return leads, nil
}

func (uc *LeadUseCase) GetStats(ctx context.Context) (*entity.Stats, error) {
	if data, ok := uc.Cache.Get(ctx, StatsCacheKey); ok {
		var stats entity.Stats
		if err := json.Unmarshal(data, &stats); err == nil {
			return &stats, nil
		}
		uc.Cache.Invalidate(ctx, StatsCacheKey)
	}

	stats, err := uc.Repo.GetStats(ctx)
	if err != nil {
		return nil, uc.reportFailure(ctx, "stats", err)
	}

	if data, err := json.Marshal(stats); err == nil {
		uc.Cache.Set(ctx, StatsCacheKey, data, uc.TTL)
	}
	return stats, nil
}

func (uc *LeadUseCase) Create(ctx context.Context, input entity.CreateLeadInput) (*entity.Lead, error) {
	lead, err := uc.Repo.Create(ctx, input)
	if err != nil {
		return nil, uc.reportFailure(ctx, "create", err)
	}

	uc.invalidate(ctx)
	uc.publish(ctx, "created", lead)
	return lead, nil
}

func (uc *LeadUseCase) MoveStage(ctx context.Context, id string, stage entity.Stage) (*entity.Lead, error) {
	lead, err := uc.Repo.MoveStage(ctx, id, stage)
	if err != nil {
		return nil, uc.reportFailure(ctx, "move_stage", err)
	}

	uc.invalidate(ctx)
	uc.publish(ctx, "stage_moved", lead)
	return lead, nil
}

func (uc *LeadUseCase) Update(ctx context.Context, id string, update entity.LeadUpdate) (*entity.Lead, error) {
	lead, err := uc.Repo.Update(ctx, id, update)
	if err != nil {
		return nil, uc.reportFailure(ctx, "update", err)
	}

	uc.invalidate(ctx)
	uc.publish(ctx, "updated", lead)
	return lead, nil
}

func (uc *LeadUseCase) Remove(ctx context.Context, id string) (bool, error) {
	removed, err := uc.Repo.Remove(ctx, id)
	if err != nil {
		return false, uc.reportFailure(ctx, "remove", err)
	}

	// Mesmo remove de id inexistente invalida: a operação resolveu
	uc.invalidate(ctx)
	if removed {
		uc.publish(ctx, "removed", &entity.Lead{ID: id})
	}
	return removed, nil
}

func (uc *LeadUseCase) invalidate(ctx context.Context) {
	uc.Cache.Invalidate(ctx, LeadsCacheKey, StatsCacheKey)
	middleware.RecordCacheInvalidation()
}

func (uc *LeadUseCase) publish(ctx context.Context, eventType string, lead *entity.Lead) {
	if uc.Producer == nil {
		return
	}
	event := queue.LeadEvent{
		Type:       eventType,
		LeadID:     lead.ID,
		Stage:      lead.Stage,
		OccurredAt: time.Now().UTC(),
	}
	if err := uc.Producer.PublishLeadEvent(ctx, event); err != nil {
		uc.log.WithError(err).Warn("falha ao publicar evento de lead")
	}
}

// reportFailure dispara o alerta de operação quando todas as camadas
// falharam; qualquer outro erro só repassa.
func (uc *LeadUseCase) reportFailure(ctx context.Context, op string, err error) error {
	if errors.Is(err, entity.ErrAllTiersFailed) && uc.Alerter != nil {
		if alertErr := uc.Alerter.SendTierFailureAlert(op, err); alertErr != nil {
			uc.log.WithError(alertErr).Warn("falha ao enviar alerta de indisponibilidade")
		}
	}
	return err
}
