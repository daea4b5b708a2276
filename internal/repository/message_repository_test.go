package repository

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/gfduarte/funil-crm/internal/entity"
	"github.com/gfduarte/funil-crm/internal/infra/integration/crmapi"
	"github.com/gfduarte/funil-crm/internal/infra/storage"
)

type fakeMessageBackend struct {
	name string
	m    entity.MessageMap
}

func (f *fakeMessageBackend) Name() string { return f.name }

func (f *fakeMessageBackend) Fetch(ctx context.Context) (entity.MessageMap, error) {
	out := entity.MessageMap{}
	for k, v := range f.m {
		out[k] = v
	}
	return out, nil
}

func (f *fakeMessageBackend) Upsert(ctx context.Context, niche entity.Niche, text string) error {
	if f.m == nil {
		f.m = entity.MessageMap{}
	}
	f.m[niche] = text
	return nil
}

type brokenMessageBackend struct{}

func (brokenMessageBackend) Name() string { return "broken" }
func (brokenMessageBackend) Fetch(context.Context) (entity.MessageMap, error) {
	return nil, errors.New("camada indisponível")
}
func (brokenMessageBackend) Upsert(context.Context, entity.Niche, string) error {
	return errors.New("camada indisponível")
}

func TestGetAllDaPrimeiraCamada(t *testing.T) {
	repo := NewMessageRepository(
		&fakeMessageBackend{name: "api", m: entity.MessageMap{entity.NichePizzaria: "da api"}},
		&fakeMessageBackend{name: "local", m: entity.MessageMap{entity.NichePizzaria: "do local"}},
	)

	m, err := repo.GetAll(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "da api", m[entity.NichePizzaria])
}

func TestSaveRejeitaNichoInvalido(t *testing.T) {
	backend := &fakeMessageBackend{name: "mem"}
	repo := NewMessageRepository(backend)

	err := repo.Save(context.Background(), "Farmácia", "oi")
	assert.ErrorIs(t, err, entity.ErrInvalidNiche)
	assert.Empty(t, backend.m)
}

func TestSaveUpsert(t *testing.T) {
	ctx := context.Background()
	backend := &fakeMessageBackend{name: "mem"}
	repo := NewMessageRepository(backend)

	require.NoError(t, repo.Save(ctx, entity.NicheJapa, "primeira"))
	require.NoError(t, repo.Save(ctx, entity.NicheJapa, "segunda"))

	m, err := repo.GetAll(ctx)
	require.NoError(t, err)
	// no máximo um template por nicho
	assert.Len(t, m, 1)
	assert.Equal(t, "segunda", m[entity.NicheJapa])
}

func TestSaveTodasCamadasFalham(t *testing.T) {
	repo := NewMessageRepository(brokenMessageBackend{}, brokenMessageBackend{})
	err := repo.Save(context.Background(), entity.NicheJapa, "oi")
	assert.ErrorIs(t, err, entity.ErrAllTiersFailed)
}

// Cenário: a API primária devolve 500, o save precisa cair pro
// armazenamento local e a leitura seguinte (API ainda fora) precisa
// devolver o que foi salvo.
func TestAPIPrimariaForaCaiProLocal(t *testing.T) {
	ctx := context.Background()

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer server.Close()

	api := crmapi.NewClient(server.URL)
	local := storage.NewLocalStore(t.TempDir())
	repo := NewMessageRepository(api, local)

	require.NoError(t, repo.Save(ctx, entity.NicheJapa, "Olá!"))

	m, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, entity.MessageMap{entity.NicheJapa: "Olá!"}, m)
}

func TestAPIPrimariaSaudavelResolveSozinha(t *testing.T) {
	ctx := context.Background()

	var gotPatch bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.Method {
		case http.MethodGet:
			w.Header().Set("Content-Type", "application/json")
			w.Write([]byte(`[{"niche":"Pizzaria","text":"Promoção de pizza"}]`))
		case http.MethodPatch:
			gotPatch = true
			w.WriteHeader(http.StatusOK)
		}
	}))
	defer server.Close()

	api := crmapi.NewClient(server.URL)
	local := storage.NewLocalStore(t.TempDir())
	repo := NewMessageRepository(api, local)

	m, err := repo.GetAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Promoção de pizza", m[entity.NichePizzaria])

	require.NoError(t, repo.Save(ctx, entity.NichePizzaria, "nova"))
	assert.True(t, gotPatch)

	// nada vazou pro local: a camada primária resolveu tudo
	localMap, err := local.Fetch(ctx)
	require.NoError(t, err)
	assert.Empty(t, localMap)
}
