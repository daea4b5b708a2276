package entity

import "errors"

var (
	// ErrNotFound: a operação apontou pra um id/nicho que não existe
	// no backend resolvido. Vira resposta 404, não aborta o fluxo.
	ErrNotFound = errors.New("registro não encontrado")

	// ErrInvalidStage / ErrInvalidNiche: valor fora da enumeração fixa.
	// Rejeitado antes de qualquer tentativa de persistência.
	ErrInvalidStage = errors.New("etapa inválida")
	ErrInvalidNiche = errors.New("nicho inválido")

	// ErrAllTiersFailed: todas as camadas de persistência falharam.
	// É a única falha de backend que chega até a UI.
	ErrAllTiersFailed = errors.New("todas as camadas de persistência falharam")

	// ErrInvalidPhone: telefone não passa na validação mínima pra
	// montar o link de WhatsApp.
	ErrInvalidPhone = errors.New("telefone inválido")
)
