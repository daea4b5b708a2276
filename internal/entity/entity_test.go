package entity

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStageEnum(t *testing.T) {
	assert.Len(t, Stages, 5)
	assert.Equal(t, StageProspeccao, FirstStage())
	assert.Equal(t, StageFechamento, Stages[len(Stages)-1])

	for _, stage := range Stages {
		assert.True(t, IsValidStage(stage))
		assert.NotEmpty(t, StageLabels[stage])
	}
	assert.False(t, IsValidStage("perdido"))
	assert.False(t, IsValidStage(""))
}

func TestStageTransitionsSemRestricao(t *testing.T) {
	// qualquer etapa válida pode ir pra qualquer outra, não só adjacente
	for _, from := range Stages {
		for _, to := range Stages {
			assert.True(t, IsValidStageTransition(from, to))
		}
	}
	assert.False(t, IsValidStageTransition(StageProspeccao, "perdido"))
	assert.False(t, IsValidStageTransition("inventada", StageContato))
}

func TestNextPreviousStage(t *testing.T) {
	assert.Equal(t, StageContato, NextStage(StageProspeccao))
	assert.Equal(t, StageFechamento, NextStage(StageNegociacao))
	assert.Equal(t, StageFechamento, NextStage(StageFechamento))

	assert.Equal(t, StageProspeccao, PreviousStage(StageContato))
	assert.Equal(t, StageProspeccao, PreviousStage(StageProspeccao))
}

func TestNicheEnum(t *testing.T) {
	assert.Len(t, Niches, 9)
	for _, niche := range Niches {
		assert.True(t, IsValidNiche(niche))
	}
	assert.False(t, IsValidNiche("Farmácia"))
	assert.False(t, IsValidNiche(""))
}

func TestResolveMessage(t *testing.T) {
	assert.Equal(t, "", ResolveMessage(MessageMap{}, NichePizzaria))
	assert.Equal(t, "Hi", ResolveMessage(MessageMap{NichePizzaria: "Hi"}, NichePizzaria))
	assert.Equal(t, "", ResolveMessage(nil, NicheJapa))
	assert.Equal(t, "", ResolveMessage(MessageMap{NichePizzaria: "Hi"}, NicheJapa))
}
