package entity

// Stage é uma etapa do funil. A ordem do slice Stages define o avanço.
type Stage string

const (
	StageProspeccao Stage = "prospeccao"
	StageContato    Stage = "contato"
	StageProposta   Stage = "proposta"
	StageNegociacao Stage = "negociacao"
	StageFechamento Stage = "fechamento"
)

// Stages na ordem do funil. Fechamento é terminal (negócio ganho);
// não existe etapa de "perdido".
var Stages = []Stage{
	StageProspeccao,
	StageContato,
	StageProposta,
	StageNegociacao,
	StageFechamento,
}

var StageLabels = map[Stage]string{
	StageProspeccao: "Prospecção",
	StageContato:    "Contato Inicial",
	StageProposta:   "Proposta Enviada",
	StageNegociacao: "Negociação",
	StageFechamento: "Fechamento",
}

// FirstStage é a etapa de todo lead recém-criado.
func FirstStage() Stage {
	return Stages[0]
}

func IsValidStage(s Stage) bool {
	for _, stage := range Stages {
		if stage == s {
			return true
		}
	}
	return false
}

// IsValidStageTransition aceita qualquer salto entre etapas válidas.
// A UI mostra atalhos adjacentes, mas o repositório não restringe.
func IsValidStageTransition(from, to Stage) bool {
	return IsValidStage(from) && IsValidStage(to)
}

// NextStage devolve a etapa seguinte, ou a própria se já for a última.
func NextStage(s Stage) Stage {
	for i, stage := range Stages {
		if stage == s && i < len(Stages)-1 {
			return Stages[i+1]
		}
	}
	return s
}

// PreviousStage devolve a etapa anterior, ou a própria se já for a primeira.
func PreviousStage(s Stage) Stage {
	for i, stage := range Stages {
		if stage == s && i > 0 {
			return Stages[i-1]
		}
	}
	return s
}
