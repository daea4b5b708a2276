package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/gfduarte/funil-crm/internal/entity"
)

type ErrorResponse struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, ErrorResponse{Success: false, Message: message})
}

// writeDomainError mapeia os erros de domínio pros status HTTP. Só
// AllTiersFailed vira falha visível de backend (503, transitória); o
// resto é resposta definida, não aborta nada.
func writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, entity.ErrNotFound):
		writeError(w, http.StatusNotFound, "registro não encontrado")
	case errors.Is(err, entity.ErrInvalidNiche), errors.Is(err, entity.ErrInvalidStage):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, entity.ErrInvalidPhone):
		writeError(w, http.StatusUnprocessableEntity, "telefone inválido para link de WhatsApp")
	case errors.Is(err, entity.ErrAllTiersFailed):
		writeError(w, http.StatusServiceUnavailable, "nenhuma camada de persistência disponível, tente novamente")
	default:
		writeError(w, http.StatusInternalServerError, "erro interno")
	}
}
