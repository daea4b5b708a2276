package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/gfduarte/funil-crm/internal/entity"
	"github.com/gfduarte/funil-crm/internal/usecase"
)

type MessageHandler struct {
	Messages *usecase.MessageUseCase
}

func NewMessageHandler(messages *usecase.MessageUseCase) *MessageHandler {
	return &MessageHandler{Messages: messages}
}

type SaveMessageRequest struct {
	Niche string `json:"niche" validate:"required,niche"`
	Text  string `json:"text"`
}

type SaveMessageResponse struct {
	Success bool `json:"success"`
}

func (h *MessageHandler) HandleGetAll(w http.ResponseWriter, r *http.Request) {
	m, err := h.Messages.GetAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, m)
}

func (h *MessageHandler) HandleSave(w http.ResponseWriter, r *http.Request) {
	var req SaveMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	if err := h.Messages.Save(r.Context(), entity.Niche(req.Niche), req.Text); err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, SaveMessageResponse{Success: true})
}
