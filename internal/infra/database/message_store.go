package database

import (
	"context"
	"database/sql"

	"github.com/gfduarte/funil-crm/internal/entity"
)

// MessageStore guarda os templates de mensagem no Postgres. É o que
// atende a rota /api/messages quando o servidor faz o papel de API
// primária de mensagens.
type MessageStore struct {
	DB *sql.DB
}

func NewMessageStore(db *sql.DB) *MessageStore {
	return &MessageStore{DB: db}
}

func (s *MessageStore) GetAll(ctx context.Context) (entity.MessageMap, error) {
	rows, err := s.DB.QueryContext(ctx, `SELECT niche, text FROM messages`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	m := entity.MessageMap{}
	for rows.Next() {
		var niche string
		var text sql.NullString
		if err := rows.Scan(&niche, &text); err != nil {
			return nil, err
		}
		m[entity.Niche(niche)] = text.String
	}
	return m, rows.Err()
}

func (s *MessageStore) Upsert(ctx context.Context, niche entity.Niche, text string) error {
	query := `
		INSERT INTO messages (niche, text, created_at, updated_at)
		VALUES ($1, $2, NOW(), NOW())
		ON CONFLICT (niche)
		DO UPDATE SET
			text = EXCLUDED.text,
			updated_at = NOW()
	`

	_, err := s.DB.ExecContext(ctx, query, string(niche), text)
	return err
}
