package crmapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/gfduarte/funil-crm/internal/entity"
)

// Client fala com a API primária de mensagens: GET lista registros
// {niche, text}, PATCH faz upsert de um registro. É a primeira camada
// tentada pelo repositório de mensagens.
type Client struct {
	baseURL string
	http    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		baseURL: baseURL,
		http:    &http.Client{Timeout: 10 * time.Second},
	}
}

// NewClientWithHTTP permite injetar o http.Client (testes).
func NewClientWithHTTP(baseURL string, httpClient *http.Client) *Client {
	return &Client{baseURL: baseURL, http: httpClient}
}

func (c *Client) Name() string {
	return "api"
}

func (c *Client) Fetch(ctx context.Context) (entity.MessageMap, error) {
	url := fmt.Sprintf("%s/api/messages", c.baseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, err
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("erro request api de mensagens: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("api de mensagens retornou status %d", resp.StatusCode)
	}

	var rows []messageRow
	if err := json.NewDecoder(resp.Body).Decode(&rows); err != nil {
		return nil, fmt.Errorf("erro decode api de mensagens: %w", err)
	}

	m := entity.MessageMap{}
	for _, row := range rows {
		m[entity.Niche(row.Niche)] = row.Text
	}
	return m, nil
}

func (c *Client) Upsert(ctx context.Context, niche entity.Niche, text string) error {
	url := fmt.Sprintf("%s/api/messages", c.baseURL)

	body, err := json.Marshal(messageRow{Niche: string(niche), Text: text})
	if err != nil {
		return fmt.Errorf("erro ao serializar mensagem: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPatch, url, bytes.NewReader(body))
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		return fmt.Errorf("erro request api de mensagens: %w", err)
	}
	defer resp.Body.Close()

	// Contrato é só ok/não-ok, sem corpo garantido
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("api de mensagens retornou status %d", resp.StatusCode)
	}
	return nil
}

type messageRow struct {
	Niche string `json:"niche"`
	Text  string `json:"text"`
}
