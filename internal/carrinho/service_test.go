package carrinho

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imperio-store/loja-api/internal/cupons"
)

type mockRepo struct {
	mu      sync.Mutex
	itens   []Item
	updates int
	err     error
}

func (m *mockRepo) Listar(context.Context, string) ([]Item, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return nil, m.err
	}
	out := make([]Item, len(m.itens))
	copy(out, m.itens)
	return out, nil
}

func (m *mockRepo) Adicionar(_ context.Context, _ string, produtoID int64, quantidade int) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.itens = append(m.itens, Item{ID: int64(len(m.itens) + 1), ProdutoID: produtoID, Quantidade: quantidade, Versao: 1})
	return nil
}

func (m *mockRepo) AtualizarQuantidade(_ context.Context, _ string, itemID int64, quantidade int, versao int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.updates++
	for i := range m.itens {
		if m.itens[i].ID == itemID {
			if m.itens[i].Versao != versao {
				return ErrConflito
			}
			m.itens[i].Quantidade = quantidade
			m.itens[i].Versao++
			return nil
		}
	}
	return ErrItemNaoEncontrado
}

func (m *mockRepo) Remover(_ context.Context, _ string, itemID int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i, it := range m.itens {
		if it.ID == itemID {
			m.itens = append(m.itens[:i], m.itens[i+1:]...)
			return nil
		}
	}
	return ErrItemNaoEncontrado
}

func (m *mockRepo) Limpar(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.itens = nil
	return nil
}

type mockPool struct {
	cupons []cupons.Cupom
	err    error
}

func (m *mockPool) ListarAtivos(context.Context) ([]cupons.Cupom, error) {
	return m.cupons, m.err
}

type mockAplicado struct {
	mu    sync.Mutex
	cupom *cupons.Cupom
}

func (m *mockAplicado) Get(context.Context, string) (*cupons.Cupom, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.cupom, nil
}

func (m *mockAplicado) Set(_ context.Context, _ string, c cupons.Cupom) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cupom = &c
	return nil
}

func (m *mockAplicado) Clear(context.Context, string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.cupom = nil
	return nil
}

func novoService(repo *mockRepo, pool *mockPool, aplicado *mockAplicado) *Service {
	return &Service{
		Repo:              repo,
		Cupons:            pool,
		Aplicado:          aplicado,
		FreteFixoCentavos: freteFixo,
	}
}

func TestIncrementarNoTetoNaoEscreve(t *testing.T) {
	repo := &mockRepo{itens: []Item{{ID: 1, Nome: "Batom", PrecoCentavos: 2500, Quantidade: QuantidadeMaxima, Versao: 1}}}
	svc := novoService(repo, &mockPool{}, &mockAplicado{})

	visao, err := svc.Incrementar(context.Background(), "s1", 1)

	require.NoError(t, err)
	assert.Equal(t, QuantidadeMaxima, visao.Itens[0].Quantidade)
	assert.Zero(t, repo.updates, "no teto não deve emitir escrita")
}

func TestDecrementarNoPisoNaoEscreve(t *testing.T) {
	repo := &mockRepo{itens: []Item{{ID: 1, Quantidade: QuantidadeMinima, Versao: 1}}}
	svc := novoService(repo, &mockPool{}, &mockAplicado{})

	visao, err := svc.Decrementar(context.Background(), "s1", 1)

	require.NoError(t, err)
	assert.Equal(t, QuantidadeMinima, visao.Itens[0].Quantidade)
	assert.Zero(t, repo.updates)
}

func TestIncrementarReleDoBanco(t *testing.T) {
	repo := &mockRepo{itens: []Item{{ID: 1, Quantidade: 2, Versao: 1}}}
	svc := novoService(repo, &mockPool{}, &mockAplicado{})

	visao, err := svc.Incrementar(context.Background(), "s1", 1)

	require.NoError(t, err)
	assert.Equal(t, 3, visao.Itens[0].Quantidade)
	assert.Equal(t, 1, repo.updates)
	assert.Equal(t, int64(2), visao.Itens[0].Versao, "escrita incrementa a versão")
}

func TestIncrementarItemInexistente(t *testing.T) {
	svc := novoService(&mockRepo{}, &mockPool{}, &mockAplicado{})
	_, err := svc.Incrementar(context.Background(), "s1", 99)
	assert.ErrorIs(t, err, ErrItemNaoEncontrado)
}

func TestRemoverDevolveNome(t *testing.T) {
	repo := &mockRepo{itens: []Item{{ID: 7, Nome: "Perfume Flor", PrecoCentavos: 9900, Quantidade: 1, Versao: 1}}}
	svc := novoService(repo, &mockPool{}, &mockAplicado{})

	nome, visao, err := svc.Remover(context.Background(), "s1", 7)

	require.NoError(t, err)
	assert.Equal(t, "Perfume Flor", nome)
	assert.Empty(t, visao.Itens)
}

func TestLimparDescartaCupom(t *testing.T) {
	repo := &mockRepo{itens: []Item{{ID: 1, PrecoCentavos: 10000, Quantidade: 1, Versao: 1}}}
	aplicado := &mockAplicado{cupom: &cupons.Cupom{Codigo: "DEZ10", DescontoPercentual: 10}}
	svc := novoService(repo, &mockPool{}, aplicado)

	visao, err := svc.Limpar(context.Background(), "s1")

	require.NoError(t, err)
	assert.Empty(t, visao.Itens)
	assert.Nil(t, visao.Cupom)
	assert.Nil(t, aplicado.cupom)
}

func TestAplicarCupomEmBranco(t *testing.T) {
	svc := novoService(&mockRepo{}, &mockPool{}, &mockAplicado{})
	_, err := svc.AplicarCupom(context.Background(), "s1", "   ")
	assert.ErrorIs(t, err, ErrCupomVazio)
}

func TestAplicarCupomInexistente(t *testing.T) {
	repo := &mockRepo{itens: []Item{{ID: 1, PrecoCentavos: 10000, Quantidade: 1, Versao: 1}}}
	pool := &mockPool{cupons: []cupons.Cupom{{Codigo: "DEZ10", DescontoPercentual: 10, StatusID: cupons.StatusAtivo}}}
	svc := novoService(repo, pool, &mockAplicado{})

	_, err := svc.AplicarCupom(context.Background(), "s1", "NAOEXISTE")

	assert.ErrorIs(t, err, cupons.ErrNaoEncontrado)
}

func TestAplicarCupomAbaixoDoMinimo(t *testing.T) {
	repo := &mockRepo{itens: []Item{{ID: 1, PrecoCentavos: 4000, Quantidade: 1, Versao: 1}}}
	pool := &mockPool{cupons: []cupons.Cupom{{
		Codigo: "DEZ10", DescontoPercentual: 10, PedidoMinimoCentavos: 5000, StatusID: cupons.StatusAtivo,
	}}}
	aplicado := &mockAplicado{}
	svc := novoService(repo, pool, aplicado)

	_, err := svc.AplicarCupom(context.Background(), "s1", "dez10")

	var minErr *cupons.PedidoMinimoError
	require.ErrorAs(t, err, &minErr)
	assert.Equal(t, int64(5000), minErr.MinimoCentavos)
	assert.Nil(t, aplicado.cupom, "cupom não deve ficar aplicado")
}

func TestAplicarCupomComSucesso(t *testing.T) {
	repo := &mockRepo{itens: []Item{{ID: 1, PrecoCentavos: 10000, Quantidade: 1, Versao: 1}}}
	pool := &mockPool{cupons: []cupons.Cupom{{
		Codigo: "DEZ10", DescontoPercentual: 10, PedidoMinimoCentavos: 5000, StatusID: cupons.StatusAtivo,
	}}}
	aplicado := &mockAplicado{}
	svc := novoService(repo, pool, aplicado)

	cupom, err := svc.AplicarCupom(context.Background(), "s1", " dez10 ")

	require.NoError(t, err)
	assert.Equal(t, "DEZ10", cupom.Codigo)
	require.NotNil(t, aplicado.cupom)

	visao, err := svc.Ver(context.Background(), "s1")
	require.NoError(t, err)
	assert.Equal(t, int64(1000), visao.Resumo.DescontoCentavos)
	assert.Equal(t, int64(10990), visao.Resumo.TotalCentavos)
}

func TestAplicarSegundoCupomRejeitado(t *testing.T) {
	repo := &mockRepo{itens: []Item{{ID: 1, PrecoCentavos: 10000, Quantidade: 1, Versao: 1}}}
	aplicado := &mockAplicado{cupom: &cupons.Cupom{Codigo: "DEZ10"}}
	svc := novoService(repo, &mockPool{}, aplicado)

	_, err := svc.AplicarCupom(context.Background(), "s1", "OUTRO")

	assert.ErrorIs(t, err, ErrCupomJaAplicado)
}

func TestAplicarCupomCarrinhoVazio(t *testing.T) {
	svc := novoService(&mockRepo{}, &mockPool{}, &mockAplicado{})
	_, err := svc.AplicarCupom(context.Background(), "s1", "DEZ10")
	assert.ErrorIs(t, err, ErrCarrinhoVazio)
}

func TestEscritaConcorrenteNaoSobrescreve(t *testing.T) {
	repo := &mockRepo{itens: []Item{{ID: 1, Quantidade: 2, Versao: 5}}}
	svc := novoService(repo, &mockPool{}, &mockAplicado{})

	// outra operação avançou a versão entre a leitura e a escrita
	visao, err := svc.Ver(context.Background(), "s1")
	require.NoError(t, err)
	require.NoError(t, repo.AtualizarQuantidade(context.Background(), "s1", 1, 4, visao.Itens[0].Versao))

	err = repo.AtualizarQuantidade(context.Background(), "s1", 1, 3, visao.Itens[0].Versao)
	assert.ErrorIs(t, err, ErrConflito)
}

func TestVerPropagaErroDoRepo(t *testing.T) {
	boom := errors.New("banco fora")
	svc := novoService(&mockRepo{err: boom}, &mockPool{}, &mockAplicado{})
	_, err := svc.Ver(context.Background(), "s1")
	assert.ErrorIs(t, err, boom)
}
