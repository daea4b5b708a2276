package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/gfduarte/funil-crm/internal/entity"
	"github.com/gfduarte/funil-crm/internal/usecase"
	"github.com/gfduarte/funil-crm/internal/whatsapp"
)

type LeadHandler struct {
	Leads    *usecase.LeadUseCase
	Messages *usecase.MessageUseCase
}

func NewLeadHandler(leads *usecase.LeadUseCase, messages *usecase.MessageUseCase) *LeadHandler {
	return &LeadHandler{Leads: leads, Messages: messages}
}

type CreateLeadRequest struct {
	CompanyName   string `json:"companyName" validate:"required,max=200"`
	ContactPerson string `json:"contactPerson" validate:"required,max=200"`
	Phone         string `json:"phone" validate:"required"`
	Niche         string `json:"niche" validate:"required,niche"`
	Notes         string `json:"notes"`
}

type UpdateLeadRequest struct {
	CompanyName   *string `json:"companyName,omitempty"`
	ContactPerson *string `json:"contactPerson,omitempty"`
	Phone         *string `json:"phone,omitempty"`
	Niche         *string `json:"niche,omitempty"`
	Stage         *string `json:"stage,omitempty"`
	Notes         *string `json:"notes,omitempty"`
}

type MoveStageRequest struct {
	Stage string `json:"stage" validate:"required,stage"`
}

type RemoveLeadResponse struct {
	Removed bool `json:"removed"`
}

type WhatsAppLinkRequest struct {
	Message string `json:"message"`
}

type WhatsAppLinkResponse struct {
	URL string `json:"url"`
}

func (h *LeadHandler) HandleList(w http.ResponseWriter, r *http.Request) {
	leads, err := h.Leads.ListAll(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, leads)
}

func (h *LeadHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusBadRequest, validationMessage(err))
		return
	}

	lead, err := h.Leads.Create(r.Context(), entity.CreateLeadInput{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Niche:         entity.Niche(req.Niche),
		Notes:         req.Notes,
	})
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, lead)
}

func (h *LeadHandler) HandleUpdate(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req UpdateLeadRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	update := entity.LeadUpdate{
		CompanyName:   req.CompanyName,
		ContactPerson: req.ContactPerson,
		Phone:         req.Phone,
		Notes:         req.Notes,
	}
	if req.Niche != nil {
		niche := entity.Niche(*req.Niche)
		update.Niche = &niche
	}
	if req.Stage != nil {
		stage := entity.Stage(*req.Stage)
		update.Stage = &stage
	}

	lead, err := h.Leads.Update(r.Context(), id, update)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

func (h *LeadHandler) HandleMoveStage(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req MoveStageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	lead, err := h.Leads.MoveStage(r.Context(), id, entity.Stage(req.Stage))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, lead)
}

// HandleAdvanceStage e HandleRevertStage são os atalhos de etapa
// adjacente; na primeira/última etapa viram no-op com o lead atual.
func (h *LeadHandler) HandleAdvanceStage(w http.ResponseWriter, r *http.Request) {
	h.moveAdjacent(w, r, entity.NextStage)
}

func (h *LeadHandler) HandleRevertStage(w http.ResponseWriter, r *http.Request) {
	h.moveAdjacent(w, r, entity.PreviousStage)
}

func (h *LeadHandler) moveAdjacent(w http.ResponseWriter, r *http.Request, step func(entity.Stage) entity.Stage) {
	id := chi.URLParam(r, "id")

	lead, err := h.findLead(r, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	moved, err := h.Leads.MoveStage(r.Context(), id, step(lead.Stage))
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, moved)
}

func (h *LeadHandler) HandleRemove(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	removed, err := h.Leads.Remove(r.Context(), id)
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, RemoveLeadResponse{Removed: removed})
}

func (h *LeadHandler) HandleStats(w http.ResponseWriter, r *http.Request) {
	stats, err := h.Leads.GetStats(r.Context())
	if err != nil {
		writeDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, stats)
}

// HandleWhatsAppLink monta o deep link de abordagem do lead. Telefone
// inválido bloqueia aqui, antes de produzir link quebrado; sem mensagem
// no corpo, usa o template do nicho do lead.
func (h *LeadHandler) HandleWhatsAppLink(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	var req WhatsAppLinkRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}

	lead, err := h.findLead(r, id)
	if err != nil {
		writeDomainError(w, err)
		return
	}

	if !whatsapp.IsPhoneValid(lead.Phone) {
		writeDomainError(w, entity.ErrInvalidPhone)
		return
	}

	message := req.Message
	if message == "" {
		m, err := h.Messages.GetAll(r.Context())
		if err != nil {
			writeDomainError(w, err)
			return
		}
		message = h.Messages.Resolve(m, lead.Niche)
	}

	url := whatsapp.BuildLink(lead.Phone, message, lead.CompanyName)
	writeJSON(w, http.StatusOK, WhatsAppLinkResponse{URL: url})
}

// findLead localiza o lead pela lista cacheada, o mesmo snapshot que a
// UI está vendo.
func (h *LeadHandler) findLead(r *http.Request, id string) (*entity.Lead, error) {
	leads, err := h.Leads.ListAll(r.Context())
	if err != nil {
		return nil, err
	}
	for i := range leads {
		if leads[i].ID == id {
			return &leads[i], nil
		}
	}
	return nil, entity.ErrNotFound
}
