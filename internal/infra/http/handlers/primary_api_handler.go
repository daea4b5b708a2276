package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/sirupsen/logrus"

	"github.com/gfduarte/funil-crm/internal/entity"
	"github.com/gfduarte/funil-crm/internal/infra/database"
)

// PrimaryAPIHandler serve o contrato da API primária de mensagens
// direto do Postgres: GET devolve a lista de {niche, text}, PATCH faz
// upsert e responde só ok/não-ok. Montado quando há banco configurado,
// pra camada primária dos clientes apontar pra esta instância.
type PrimaryAPIHandler struct {
	Store *database.MessageStore
}

func NewPrimaryAPIHandler(store *database.MessageStore) *PrimaryAPIHandler {
	return &PrimaryAPIHandler{Store: store}
}

type primaryMessageRow struct {
	Niche string `json:"niche"`
	Text  string `json:"text"`
}

func (h *PrimaryAPIHandler) HandleGet(w http.ResponseWriter, r *http.Request) {
	m, err := h.Store.GetAll(r.Context())
	if err != nil {
		logrus.WithError(err).Error("erro ao consultar mensagens no banco")
		writeError(w, http.StatusInternalServerError, "erro no banco")
		return
	}

	rows := make([]primaryMessageRow, 0, len(m))
	for niche, text := range m {
		rows = append(rows, primaryMessageRow{Niche: string(niche), Text: text})
	}
	writeJSON(w, http.StatusOK, rows)
}

func (h *PrimaryAPIHandler) HandlePatch(w http.ResponseWriter, r *http.Request) {
	var req SaveMessageRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "JSON inválido")
		return
	}
	if err := validate.Struct(req); err != nil {
		writeError(w, http.StatusUnprocessableEntity, validationMessage(err))
		return
	}

	if err := h.Store.Upsert(r.Context(), entity.Niche(req.Niche), req.Text); err != nil {
		logrus.WithError(err).Error("erro ao gravar mensagem no banco")
		writeError(w, http.StatusInternalServerError, "erro no banco")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}
