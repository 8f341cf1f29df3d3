package cupons

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/imperio-store/loja-api/internal/redisx"
)

// Diretorio expõe o pool de cupons ativos da vitrine. A listagem bate no
// Postgres e fica em cache curto no Redis; quem aplica cupom trabalha sempre
// sobre o pool já carregado, sem ida extra por tentativa.
type Diretorio struct {
	Repo  *Repo
	Redis *redis.Client
}

func (d *Diretorio) ListarAtivos(ctx context.Context) ([]Cupom, error) {
	if s, err := d.Redis.Get(ctx, redisx.KeyCuponsAtivos).Result(); err == nil && s != "" {
		var pool []Cupom
		if err := json.Unmarshal([]byte(s), &pool); err == nil {
			return pool, nil
		}
	}

	todos, err := d.Repo.Listar(ctx)
	if err != nil {
		return nil, err
	}
	pool := Vigentes(todos, time.Now())

	if b, err := json.Marshal(pool); err == nil {
		_ = d.Redis.Set(ctx, redisx.KeyCuponsAtivos, b, redisx.TTLCuponsAtivos).Err()
	}
	return pool, nil
}

// FreteGratisAtivo devolve o cupom de frete grátis vigente; ErrNaoEncontrado
// quando não existe nenhum.
func (d *Diretorio) FreteGratisAtivo(ctx context.Context) (*Cupom, error) {
	return d.Repo.FreteGratisVigente(ctx, time.Now())
}

// FreteGratis24h garante um cupom de frete grátis válido por 24h: reaproveita
// o vigente ou cria um novo com código gerado. Regra de demonstração da loja
// para CEPs elegíveis.
func (d *Diretorio) FreteGratis24h(ctx context.Context) (*Cupom, error) {
	if c, err := d.Repo.FreteGratisVigente(ctx, time.Now()); err == nil {
		return c, nil
	}

	validade := time.Now().Add(24 * time.Hour)
	c := Cupom{
		Codigo:      gerarCodigoFreteGratis(),
		Label:       "Frete grátis por 24h",
		FreteGratis: true,
		Validade:    &validade,
		StatusID:    StatusAtivo,
	}
	if err := d.Repo.Criar(ctx, c); err != nil {
		return nil, err
	}
	_ = d.Redis.Del(ctx, redisx.KeyCuponsAtivos).Err()
	return &c, nil
}

func gerarCodigoFreteGratis() string {
	sufixo := strings.ReplaceAll(uuid.NewString(), "-", "")[:6]
	return "FRETEGRATIS-" + strings.ToUpper(sufixo)
}

// AplicadoStore guarda o cupom aplicado de cada sessão (no máximo um).
type AplicadoStore struct {
	Redis *redis.Client
}

func (s *AplicadoStore) Get(ctx context.Context, sessaoID string) (*Cupom, error) {
	key := fmt.Sprintf(redisx.KeyCupomAplicado, sessaoID)
	v, err := s.Redis.Get(ctx, key).Result()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var c Cupom
	if err := json.Unmarshal([]byte(v), &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (s *AplicadoStore) Set(ctx context.Context, sessaoID string, c Cupom) error {
	b, err := json.Marshal(c)
	if err != nil {
		return err
	}
	key := fmt.Sprintf(redisx.KeyCupomAplicado, sessaoID)
	return s.Redis.Set(ctx, key, b, redisx.TTLCupomAplicado).Err()
}

func (s *AplicadoStore) Clear(ctx context.Context, sessaoID string) error {
	key := fmt.Sprintf(redisx.KeyCupomAplicado, sessaoID)
	return s.Redis.Del(ctx, key).Err()
}
