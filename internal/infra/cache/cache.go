package cache

import (
	"context"
	"time"
)

// Cache é a capacidade de cache injetada na camada de view-model. As
// chaves guardam JSON já serializado; Invalidate marca a leitura como
// velha pra próxima consulta recomputar do backend autoritativo.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Invalidate(ctx context.Context, keys ...string)
}
