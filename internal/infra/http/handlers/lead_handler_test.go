package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfduarte/funil-crm/internal/entity"
	"github.com/gfduarte/funil-crm/internal/infra/cache"
	"github.com/gfduarte/funil-crm/internal/usecase"
)

// fakeLeadRepo implementa o repositório em memória, sem camadas.
type fakeLeadRepo struct {
	leads map[string]entity.Lead
	seq   int
	fail  error
}

func newFakeLeadRepo() *fakeLeadRepo {
	return &fakeLeadRepo{leads: map[string]entity.Lead{}}
}

func (f *fakeLeadRepo) ListAll(ctx context.Context) ([]entity.Lead, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	out := []entity.Lead{}
	for _, l := range f.leads {
		out = append(out, l)
	}
	return out, nil
}

func (f *fakeLeadRepo) Create(ctx context.Context, input entity.CreateLeadInput) (*entity.Lead, error) {
	if f.fail != nil {
		return nil, f.fail
	}
	if !entity.IsValidNiche(input.Niche) {
		return nil, entity.ErrInvalidNiche
	}
	f.seq++
	now := time.Now()
	lead := entity.Lead{
		ID:            "lead-" + strconv.Itoa(f.seq),
		CompanyName:   input.CompanyName,
		ContactPerson: input.ContactPerson,
		Phone:         input.Phone,
		Niche:         input.Niche,
		Stage:         entity.FirstStage(),
		Notes:         input.Notes,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
	f.leads[lead.ID] = lead
	return &lead, nil
}

func (f *fakeLeadRepo) MoveStage(ctx context.Context, id string, stage entity.Stage) (*entity.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	lead.Stage = stage
	f.leads[id] = lead
	return &lead, nil
}

func (f *fakeLeadRepo) Update(ctx context.Context, id string, update entity.LeadUpdate) (*entity.Lead, error) {
	lead, ok := f.leads[id]
	if !ok {
		return nil, entity.ErrNotFound
	}
	if update.CompanyName != nil {
		lead.CompanyName = *update.CompanyName
	}
	if update.Notes != nil {
		lead.Notes = *update.Notes
	}
	f.leads[id] = lead
	return &lead, nil
}

func (f *fakeLeadRepo) Remove(ctx context.Context, id string) (bool, error) {
	if f.fail != nil {
		return false, f.fail
	}
	_, ok := f.leads[id]
	delete(f.leads, id)
	return ok, nil
}

func (f *fakeLeadRepo) GetStats(ctx context.Context) (*entity.Stats, error) {
	stats := &entity.Stats{ByStage: map[entity.Stage]int{}}
	for _, stage := range entity.Stages {
		stats.ByStage[stage] = 0
	}
	for _, l := range f.leads {
		stats.Total++
		stats.ByStage[l.Stage]++
	}
	return stats, nil
}

type fakeMessageRepo struct {
	m entity.MessageMap
}

func (f *fakeMessageRepo) GetAll(ctx context.Context) (entity.MessageMap, error) {
	return f.m, nil
}

func (f *fakeMessageRepo) Save(ctx context.Context, niche entity.Niche, text string) error {
	f.m[niche] = text
	return nil
}

func newTestRouter(repo *fakeLeadRepo, msgs entity.MessageMap) *chi.Mux {
	leads := usecase.NewLeadUseCase(repo, cache.NewMemoryCache(), time.Minute, nil, nil)
	messages := usecase.NewMessageUseCase(&fakeMessageRepo{m: msgs}, cache.NewMemoryCache(), time.Minute, nil)
	h := NewLeadHandler(leads, messages)

	r := chi.NewRouter()
	r.Get("/api/leads", h.HandleList)
	r.Post("/api/leads", h.HandleCreate)
	r.Put("/api/leads/{id}", h.HandleUpdate)
	r.Put("/api/leads/{id}/stage", h.HandleMoveStage)
	r.Post("/api/leads/{id}/stage/advance", h.HandleAdvanceStage)
	r.Post("/api/leads/{id}/stage/revert", h.HandleRevertStage)
	r.Delete("/api/leads/{id}", h.HandleRemove)
	r.Post("/api/leads/{id}/whatsapp-link", h.HandleWhatsAppLink)
	r.Get("/api/stats", h.HandleStats)
	return r
}

func doJSON(t *testing.T, router http.Handler, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func TestCreateLeadComecaNaProspeccao(t *testing.T) {
	router := newTestRouter(newFakeLeadRepo(), entity.MessageMap{})

	rec := doJSON(t, router, http.MethodPost, "/api/leads", CreateLeadRequest{
		CompanyName:   "Pizza do Zé",
		ContactPerson: "Zé",
		Phone:         "(11) 99999-0000",
		Niche:         "Pizzaria",
	})
	require.Equal(t, http.StatusCreated, rec.Code)

	var lead entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &lead))
	assert.NotEmpty(t, lead.ID)
	assert.Equal(t, entity.StageProspeccao, lead.Stage)
}

func TestCreateLeadValidacao(t *testing.T) {
	router := newTestRouter(newFakeLeadRepo(), entity.MessageMap{})

	// campo obrigatório faltando
	rec := doJSON(t, router, http.MethodPost, "/api/leads", CreateLeadRequest{
		CompanyName: "Sem contato",
		Phone:       "11999990000",
		Niche:       "Pizzaria",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	// nicho fora do conjunto fixo
	rec = doJSON(t, router, http.MethodPost, "/api/leads", CreateLeadRequest{
		CompanyName:   "Nicho errado",
		ContactPerson: "Ana",
		Phone:         "11999990000",
		Niche:         "Padaria",
	})
	assert.Equal(t, http.StatusBadRequest, rec.Code)

	var body ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Success)
}

func TestMoveStageEtapaInvalida(t *testing.T) {
	repo := newFakeLeadRepo()
	lead, _ := repo.Create(context.Background(), entity.CreateLeadInput{
		CompanyName: "X", ContactPerson: "Y", Phone: "11999990000", Niche: entity.NicheJapa,
	})
	router := newTestRouter(repo, entity.MessageMap{})

	rec := doJSON(t, router, http.MethodPut, "/api/leads/"+lead.ID+"/stage", MoveStageRequest{Stage: "ganhou"})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestAdvanceERevertStage(t *testing.T) {
	repo := newFakeLeadRepo()
	lead, _ := repo.Create(context.Background(), entity.CreateLeadInput{
		CompanyName: "X", ContactPerson: "Y", Phone: "11999990000", Niche: entity.NicheJapa,
	})
	router := newTestRouter(repo, entity.MessageMap{})

	rec := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID+"/stage/advance", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var moved entity.Lead
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &moved))
	assert.Equal(t, entity.StageContato, moved.Stage)

	rec = doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID+"/stage/revert", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &moved))
	assert.Equal(t, entity.StageProspeccao, moved.Stage)

	// na primeira etapa, reverter é no-op
	rec = doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID+"/stage/revert", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &moved))
	assert.Equal(t, entity.StageProspeccao, moved.Stage)
}

func TestUpdateLeadInexistente(t *testing.T) {
	router := newTestRouter(newFakeLeadRepo(), entity.MessageMap{})

	notes := "sem dono"
	rec := doJSON(t, router, http.MethodPut, "/api/leads/fantasma", UpdateLeadRequest{Notes: &notes})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestRemoveLeadInexistenteRetorna200(t *testing.T) {
	router := newTestRouter(newFakeLeadRepo(), entity.MessageMap{})

	rec := doJSON(t, router, http.MethodDelete, "/api/leads/fantasma", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var body RemoveLeadResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.False(t, body.Removed)
}

func TestStatsSempreComTodasEtapas(t *testing.T) {
	router := newTestRouter(newFakeLeadRepo(), entity.MessageMap{})

	rec := doJSON(t, router, http.MethodGet, "/api/stats", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	var stats entity.Stats
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &stats))
	assert.Equal(t, 0, stats.Total)
	assert.Len(t, stats.ByStage, len(entity.Stages))
}

func TestListQuandoTodasCamadasFalham(t *testing.T) {
	repo := newFakeLeadRepo()
	repo.fail = entity.ErrAllTiersFailed
	router := newTestRouter(repo, entity.MessageMap{})

	rec := doJSON(t, router, http.MethodGet, "/api/leads", nil)
	assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
}

func TestWhatsAppLinkTelefoneInvalido(t *testing.T) {
	repo := newFakeLeadRepo()
	lead, _ := repo.Create(context.Background(), entity.CreateLeadInput{
		CompanyName: "Curto", ContactPerson: "C", Phone: "123", Niche: entity.NichePizzaria,
	})
	router := newTestRouter(repo, entity.MessageMap{})

	rec := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID+"/whatsapp-link", WhatsAppLinkRequest{})
	assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
}

func TestWhatsAppLinkUsaTemplateDoNicho(t *testing.T) {
	repo := newFakeLeadRepo()
	lead, _ := repo.Create(context.Background(), entity.CreateLeadInput{
		CompanyName: "Pizza do Zé", ContactPerson: "Zé", Phone: "(11) 99999-0000", Niche: entity.NichePizzaria,
	})
	router := newTestRouter(repo, entity.MessageMap{
		entity.NichePizzaria: "tudo bem?",
	})

	rec := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID+"/whatsapp-link", WhatsAppLinkRequest{})
	require.Equal(t, http.StatusOK, rec.Code)

	var body WhatsAppLinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://wa.me/5511999990000?text=Ol%C3%A1%2C%20Pizza%20do%20Z%C3%A9%20tudo%20bem%3F", body.URL)
}

func TestWhatsAppLinkMensagemDoCorpoTemPrioridade(t *testing.T) {
	repo := newFakeLeadRepo()
	lead, _ := repo.Create(context.Background(), entity.CreateLeadInput{
		CompanyName: "Japa da Vila", ContactPerson: "Mari", Phone: "11999990000", Niche: entity.NicheJapa,
	})
	router := newTestRouter(repo, entity.MessageMap{
		entity.NicheJapa: "template do nicho",
	})

	rec := doJSON(t, router, http.MethodPost, "/api/leads/"+lead.ID+"/whatsapp-link", WhatsAppLinkRequest{Message: "oi"})
	require.Equal(t, http.StatusOK, rec.Code)

	var body WhatsAppLinkResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "https://wa.me/5511999990000?text=Ol%C3%A1%2C%20Japa%20da%20Vila%20oi", body.URL)
}

func TestWhatsAppLinkLeadInexistente(t *testing.T) {
	router := newTestRouter(newFakeLeadRepo(), entity.MessageMap{})

	rec := doJSON(t, router, http.MethodPost, "/api/leads/fantasma/whatsapp-link", WhatsAppLinkRequest{})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}
