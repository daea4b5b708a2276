package entity

import "context"

// MessageMap é o mapa nicho -> mensagem padrão de abordagem.
// Nichos sem mensagem salva simplesmente não aparecem no mapa.
type MessageMap map[Niche]string

// ResolveMessage devolve a mensagem do nicho, ou string vazia quando
// não há template salvo. Nunca devolve "ausente" pro chamador tratar.
func ResolveMessage(m MessageMap, niche Niche) string {
	if m == nil {
		return ""
	}
	return m[niche]
}

type MessageRepositoryInterface interface {
	GetAll(ctx context.Context) (MessageMap, error)
	Save(ctx context.Context, niche Niche, text string) error
}
