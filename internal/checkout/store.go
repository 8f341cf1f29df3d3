package checkout

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/imperio-store/loja-api/internal/redisx"
)

var ErrSessaoNaoEncontrada = errors.New("sessão de checkout não encontrada")

// RedisStore persiste a sessão de checkout no Redis com TTL: abandono de
// fluxo expira sozinho, sem varredura.
type RedisStore struct {
	Redis *redis.Client
}

func (s *RedisStore) Criar(ctx context.Context, sessaoCarrinhoID string) (Sessao, error) {
	sessao := Sessao{
		ID:       uuid.NewString(),
		SessaoID: sessaoCarrinhoID,
		Etapa:    EtapaDados,
		CriadaEm: time.Now().UTC(),
	}
	if err := s.Save(ctx, sessao); err != nil {
		return Sessao{}, err
	}
	return sessao, nil
}

func (s *RedisStore) Get(ctx context.Context, id string) (Sessao, error) {
	raw, err := s.Redis.Get(ctx, fmt.Sprintf(redisx.KeyCheckoutSessao, id)).Bytes()
	if errors.Is(err, redis.Nil) {
		return Sessao{}, ErrSessaoNaoEncontrada
	}
	if err != nil {
		return Sessao{}, err
	}
	var sessao Sessao
	if err := json.Unmarshal(raw, &sessao); err != nil {
		return Sessao{}, err
	}
	return sessao, nil
}

func (s *RedisStore) Save(ctx context.Context, sessao Sessao) error {
	raw, err := json.Marshal(sessao)
	if err != nil {
		return err
	}
	return s.Redis.Set(ctx, fmt.Sprintf(redisx.KeyCheckoutSessao, sessao.ID), raw, redisx.TTLCheckoutSessao).Err()
}

func (s *RedisStore) Delete(ctx context.Context, id string) error {
	return s.Redis.Del(ctx, fmt.Sprintf(redisx.KeyCheckoutSessao, id)).Err()
}
