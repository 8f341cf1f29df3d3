package pix

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/imperio-store/loja-api/internal/redisx"
)

// StatusCache evita bater no gateway a cada consulta de status; o poller
// escreve aqui a cada transição.
type StatusCache interface {
	Get(ctx context.Context, idPagamento string) (Status, error)
	Set(ctx context.Context, idPagamento string, st Status) error
}

type RedisStatusCache struct {
	Redis *redis.Client
}

// Get devolve Status vazio em cache miss, sem erro.
func (c *RedisStatusCache) Get(ctx context.Context, idPagamento string) (Status, error) {
	raw, err := c.Redis.Get(ctx, fmt.Sprintf(redisx.KeyPixStatus, idPagamento)).Result()
	if errors.Is(err, redis.Nil) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	return Status(raw), nil
}

func (c *RedisStatusCache) Set(ctx context.Context, idPagamento string, st Status) error {
	return c.Redis.Set(ctx, fmt.Sprintf(redisx.KeyPixStatus, idPagamento), string(st), redisx.TTLPixStatus).Err()
}
