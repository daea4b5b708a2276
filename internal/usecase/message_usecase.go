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
)

const MessagesCacheKey = "crm:messages"

// MessageUseCase serve o mapa de mensagens cacheado e invalida a cada
// Save, pro mesmo contrato de frescor da lista de leads.
type MessageUseCase struct {
	Repo    entity.MessageRepositoryInterface
	Cache   cache.Cache
	TTL     time.Duration
	Alerter AlertService

	log *logrus.Entry
}

func NewMessageUseCase(repo entity.MessageRepositoryInterface, c cache.Cache, ttl time.Duration, alerter AlertService) *MessageUseCase {
	return &MessageUseCase{
		Repo:    repo,
		Cache:   c,
		TTL:     ttl,
		Alerter: alerter,
		log:     logrus.WithField("usecase", "messages"),
	}
}

func (uc *MessageUseCase) GetAll(ctx context.Context) (entity.MessageMap, error) {
	if data, ok := uc.Cache.Get(ctx, MessagesCacheKey); ok {
		var m entity.MessageMap
		if err := json.Unmarshal(data, &m); err == nil {
			return m, nil
		}
		uc.Cache.Invalidate(ctx, MessagesCacheKey)
	}

	m, err := uc.Repo.GetAll(ctx)
	if err != nil {
		return nil, uc.reportFailure("get_all", err)
	}

	if data, err := json.Marshal(m); err == nil {
		uc.Cache.Set(ctx, MessagesCacheKey, data, uc.TTL)
	}
	return m, nil
}

func (uc *MessageUseCase) Save(ctx context.Context, niche entity.Niche, text string) error {
	if err := uc.Repo.Save(ctx, niche, text); err != nil {
		return uc.reportFailure("save", err)
	}

	uc.Cache.Invalidate(ctx, MessagesCacheKey)
	middleware.RecordCacheInvalidation()
	return nil
}

// Resolve devolve a mensagem do nicho ou "", nunca "ausente".
func (uc *MessageUseCase) Resolve(m entity.MessageMap, niche entity.Niche) string {
	return entity.ResolveMessage(m, niche)
}

func (uc *MessageUseCase) reportFailure(op string, err error) error {
	if errors.Is(err, entity.ErrAllTiersFailed) && uc.Alerter != nil {
		if alertErr := uc.Alerter.SendTierFailureAlert(op, err); alertErr != nil {
			uc.log.WithError(alertErr).Warn("falha ao enviar alerta de indisponibilidade")
		}
	}
	return err
}
