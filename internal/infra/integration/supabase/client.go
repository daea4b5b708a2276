package supabase

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/gfduarte/funil-crm/internal/entity"
)

// Client acessa as coleções leads e messages no backend REST na nuvem
// (estilo PostgREST): listagem com select=*, insert com retorno da
// representação, update/delete filtrados por predicado de igualdade.
// Toda chamada leva apikey + bearer.
type Client struct {
	baseURL string
	apiKey  string
	http    *http.Client
}

func NewClient(baseURL, apiKey string) *Client {
	return &Client{
		baseURL: baseURL,
		apiKey:  apiKey,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithHTTP permite injetar o http.Client (testes).
func NewClientWithHTTP(baseURL, apiKey string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, apiKey: apiKey, http: httpClient}
}

func (c *Client) Name() string {
	return "supabase"
}

func (c *Client) setHeaders(req *http.Request) {
	req.Header.Set("apikey", c.apiKey)
	req.Header.Set("Authorization", fmt.Sprintf("Bearer %s", c.apiKey))
	req.Header.Set("Content-Type", "application/json")
}

func (c *Client) do(ctx context.Context, method, path string, payload any, prefer string) ([]byte, error) {
	var body io.Reader
	if payload != nil {
		jsonBody, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("erro ao serializar payload: %w", err)
		}
		body = bytes.NewReader(jsonBody)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, body)
	if err != nil {
		return nil, err
	}
	c.setHeaders(req)
	if prefer != "" {
		req.Header.Set("Prefer", prefer)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro request supabase: %w", err)
	}
	defer resp.Body.Close()

	respBody, _ := io.ReadAll(resp.Body)

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("supabase retornou status %d: %s", resp.StatusCode, string(respBody))
	}
	return respBody, nil
}

func (c *Client) List(ctx context.Context) ([]entity.Lead, error) {
	body, err := c.do(ctx, http.MethodGet, "/rest/v1/leads?select=*", nil, "")
	if err != nil {
		return nil, err
	}

	var rows []leadRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("erro decode leads supabase: %w", err)
	}

	leads := make([]entity.Lead, 0, len(rows))
	for _, row := range rows {
		leads = append(leads, row.toEntity())
	}
	return leads, nil
}

func (c *Client) Get(ctx context.Context, id string) (*entity.Lead, error) {
	path := fmt.Sprintf("/rest/v1/leads?id=eq.%s&select=*", url.QueryEscape(id))
	body, err := c.do(ctx, http.MethodGet, path, nil, "")
	if err != nil {
		return nil, err
	}

	var rows []leadRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("erro decode lead supabase: %w", err)
	}
	if len(rows) == 0 {
		return nil, entity.ErrNotFound
	}
	lead := rows[0].toEntity()
	return &lead, nil
}

func (c *Client) Insert(ctx context.Context, lead entity.Lead) (*entity.Lead, error) {
	body, err := c.do(ctx, http.MethodPost, "/rest/v1/leads", fromEntity(lead), "return=representation")
	if err != nil {
		return nil, err
	}

	var rows []leadRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("erro decode insert supabase: %w", err)
	}
	if len(rows) == 0 {
		// backend aceitou mas não devolveu representação
		return &lead, nil
	}
	created := rows[0].toEntity()
	return &created, nil
}

func (c *Client) Update(ctx context.Context, lead entity.Lead) error {
	path := fmt.Sprintf("/rest/v1/leads?id=eq.%s", url.QueryEscape(lead.ID))
	body, err := c.do(ctx, http.MethodPatch, path, fromEntity(lead), "return=representation")
	if err != nil {
		return err
	}

	var rows []leadRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("erro decode update supabase: %w", err)
	}
	if len(rows) == 0 {
		return entity.ErrNotFound
	}
	return nil
}

// Delete idempotente: 2xx é sucesso autoritativo mesmo quando não
// havia linha pro id. O bool "não removeu nada" é sinal da camada
// local, não desta.
func (c *Client) Delete(ctx context.Context, id string) (bool, error) {
	path := fmt.Sprintf("/rest/v1/leads?id=eq.%s", url.QueryEscape(id))
	if _, err := c.do(ctx, http.MethodDelete, path, nil, ""); err != nil {
		return false, err
	}
	return true, nil
}

func (c *Client) Fetch(ctx context.Context) (entity.MessageMap, error) {
	body, err := c.do(ctx, http.MethodGet, "/rest/v1/messages?select=*", nil, "")
	if err != nil {
		return nil, err
	}

	var rows []messageRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return nil, fmt.Errorf("erro decode mensagens supabase: %w", err)
	}

	m := entity.MessageMap{}
	for _, row := range rows {
		m[entity.Niche(row.Niche)] = row.Text
	}
	return m, nil
}

func (c *Client) Upsert(ctx context.Context, niche entity.Niche, text string) error {
	// Tenta atualizar a linha existente; mapa vazio na resposta = não
	// havia template pro nicho, então insere.
	path := fmt.Sprintf("/rest/v1/messages?niche=eq.%s", url.QueryEscape(string(niche)))
	payload := messageRow{Niche: string(niche), Text: text}

	body, err := c.do(ctx, http.MethodPatch, path, payload, "return=representation")
	if err != nil {
		return err
	}

	var rows []messageRow
	if err := json.Unmarshal(body, &rows); err != nil {
		return fmt.Errorf("erro decode upsert supabase: %w", err)
	}
	if len(rows) > 0 {
		return nil
	}

	_, err = c.do(ctx, http.MethodPost, "/rest/v1/messages", payload, "")
	return err
}
