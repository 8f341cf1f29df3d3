package checkout

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/imperio-store/loja-api/internal/carrinho"
	"github.com/imperio-store/loja-api/internal/pedidos"
	"github.com/imperio-store/loja-api/internal/pix"
)

type memStore struct {
	mu      sync.Mutex
	sessoes map[string]Sessao
}

func newMemStore() *memStore { return &memStore{sessoes: map[string]Sessao{}} }

func (m *memStore) Criar(_ context.Context, carrinhoID string) (Sessao, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := Sessao{ID: "chk-1", SessaoID: carrinhoID, Etapa: EtapaDados, CriadaEm: time.Now()}
	m.sessoes[s.ID] = s
	return s, nil
}

func (m *memStore) Get(_ context.Context, id string) (Sessao, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessoes[id]
	if !ok {
		return Sessao{}, ErrSessaoNaoEncontrada
	}
	return s, nil
}

func (m *memStore) Save(_ context.Context, s Sessao) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessoes[s.ID] = s
	return nil
}

func (m *memStore) Delete(_ context.Context, id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessoes, id)
	return nil
}

type fakeCarrinho struct {
	mu     sync.Mutex
	visao  carrinho.Visao
	limpou int
}

func (f *fakeCarrinho) Ver(context.Context, string) (carrinho.Visao, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.visao, nil
}

func (f *fakeCarrinho) Limpar(context.Context, string) (carrinho.Visao, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.limpou++
	return carrinho.Visao{}, nil
}

type fakePedidos struct {
	mu       sync.Mutex
	criados  []pedidos.Pedido
	statuses map[string]pedidos.Status
	pixSt    map[string]string
}

func newFakePedidos() *fakePedidos {
	return &fakePedidos{statuses: map[string]pedidos.Status{}, pixSt: map[string]string{}}
}

func (f *fakePedidos) Criar(_ context.Context, p pedidos.Pedido) (pedidos.Pedido, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	p.ID = "ped-1"
	f.criados = append(f.criados, p)
	f.statuses[p.ID] = p.Status
	return p, nil
}

func (f *fakePedidos) AtualizarStatus(_ context.Context, id string, novo pedidos.Status) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.statuses[id] = novo
	return nil
}

func (f *fakePedidos) CriarPagamentoPix(_ context.Context, p pedidos.PagamentoPix) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pixSt[p.IDPagamento] = p.Status
	return nil
}

func (f *fakePedidos) AtualizarPagamentoPix(_ context.Context, id, status string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.pixSt[id] = status
	return nil
}

func (f *fakePedidos) status(id string) pedidos.Status {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.statuses[id]
}

type fakeGateway struct {
	mu     sync.Mutex
	status pix.Status
}

func (f *fakeGateway) CriarCobranca(context.Context, pix.CobrancaReq) (pix.Cobranca, error) {
	return pix.Cobranca{QRCodeBase64: "aW1n", CopiaECola: "000201br.gov.bcb.pix", IDPagamento: "pg-1"}, nil
}

func (f *fakeGateway) Status(context.Context, string) (pix.Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.status, nil
}

type memCache struct {
	mu sync.Mutex
	m  map[string]pix.Status
}

func newMemCache() *memCache { return &memCache{m: map[string]pix.Status{}} }

func (c *memCache) Get(_ context.Context, id string) (pix.Status, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.m[id], nil
}

func (c *memCache) Set(_ context.Context, id string, st pix.Status) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.m[id] = st
	return nil
}

type fakePublisher struct {
	mu     sync.Mutex
	values [][]byte
}

func (f *fakePublisher) Publish(_, value []byte, _ ...kafkago.Header) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.values = append(f.values, value)
}

func (f *fakePublisher) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.values)
}

func visaoComItens() carrinho.Visao {
	itens := []carrinho.Item{{ID: 1, ProdutoID: 7, Nome: "Camiseta", PrecoCentavos: 5990, Quantidade: 2, Versao: 1}}
	return carrinho.Visao{
		Itens:  itens,
		Resumo: carrinho.CalcularTotais(itens, nil, 1990),
	}
}

func novoService(gw pix.Gateway) (*Service, *memStore, *fakeCarrinho, *fakePedidos, *fakePublisher) {
	store := newMemStore()
	cart := &fakeCarrinho{visao: visaoComItens()}
	reps := newFakePedidos()
	pub := &fakePublisher{}
	svc := &Service{
		Sessoes:            store,
		Carrinho:           cart,
		Pedidos:            reps,
		Gateway:            gw,
		Poller:             &pix.Poller{Gateway: gw, Intervalo: time.Millisecond, Log: zerolog.Nop()},
		Status:             newMemCache(),
		PedidoCriado:       pub,
		PagamentoAprovado:  pub,
		PagamentoCancelado: pub,
		ServiceName:        "loja-api-test",
		Log:                zerolog.Nop(),
	}
	return svc, store, cart, reps, pub
}

func sessaoNoPagamento(t *testing.T, svc *Service, store *memStore) Sessao {
	t.Helper()
	ctx := context.Background()
	s, err := svc.Iniciar(ctx, "sess-1")
	require.NoError(t, err)
	s, err = svc.InformarCliente(ctx, s.ID, clienteValido())
	require.NoError(t, err)
	s, err = svc.InformarEndereco(ctx, s.ID, enderecoValido())
	require.NoError(t, err)
	require.Equal(t, EtapaPagamento, s.Etapa)
	return s
}

func TestIniciarComCarrinhoVazio(t *testing.T) {
	svc, _, cart, _, _ := novoService(&fakeGateway{})
	cart.visao = carrinho.Visao{}

	_, err := svc.Iniciar(context.Background(), "sess-1")
	assert.ErrorIs(t, err, carrinho.ErrCarrinhoVazio)
}

func TestFinalizarForaDaEtapaDePagamento(t *testing.T) {
	svc, _, _, _, _ := novoService(&fakeGateway{})
	s, err := svc.Iniciar(context.Background(), "sess-1")
	require.NoError(t, err)

	_, err = svc.Finalizar(context.Background(), s.ID, Pix{})
	var v ValidacaoError
	assert.ErrorAs(t, err, &v)
}

func TestFinalizarCartao(t *testing.T) {
	svc, store, cart, reps, pub := novoService(&fakeGateway{})
	s := sessaoNoPagamento(t, svc, store)

	res, err := svc.Finalizar(context.Background(), s.ID, Cartao{
		Numero: "4111 1111 1111 1111", Nome: "MARIA SILVA", Validade: "12/27", CVV: "123",
	})

	require.NoError(t, err)
	assert.Equal(t, pedidos.StatusPago, res.Pedido.Status)
	assert.Equal(t, "**** **** **** 1111", res.Pedido.CartaoFinal)
	assert.Equal(t, int64(2*5990+1990), res.Pedido.TotalCentavos)
	assert.Equal(t, 1, cart.limpou, "carrinho esvaziado após o pedido")
	assert.Equal(t, 1, pub.count(), "evento de pedido criado publicado")
	assert.Len(t, reps.criados, 1)

	_, err = store.Get(context.Background(), s.ID)
	assert.ErrorIs(t, err, ErrSessaoNaoEncontrada, "sessão encerrada na confirmação")
}

func TestFinalizarCartaoInvalidoNaoCriaPedido(t *testing.T) {
	svc, store, _, reps, _ := novoService(&fakeGateway{})
	s := sessaoNoPagamento(t, svc, store)

	_, err := svc.Finalizar(context.Background(), s.ID, Cartao{Numero: "4111"})

	assert.EqualError(t, err, "Número do cartão inválido")
	assert.Empty(t, reps.criados)
}

func TestFinalizarPixAprovado(t *testing.T) {
	gw := &fakeGateway{status: pix.StatusPendente}
	svc, store, cart, reps, _ := novoService(gw)
	s := sessaoNoPagamento(t, svc, store)

	res, err := svc.Finalizar(context.Background(), s.ID, Pix{})
	require.NoError(t, err)
	require.NotNil(t, res.Pix)
	assert.Equal(t, "pg-1", res.Pix.IDPagamento)
	assert.Equal(t, pedidos.StatusAguardandoPagamento, reps.status("ped-1"))

	gw.mu.Lock()
	gw.status = pix.StatusAprovado
	gw.mu.Unlock()

	require.Eventually(t, func() bool {
		return reps.status("ped-1") == pedidos.StatusPago
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		_, err := store.Get(context.Background(), s.ID)
		return err != nil
	}, time.Second, 5*time.Millisecond, "sessão encerrada após aprovação")
	assert.Equal(t, 1, cart.limpou)
}

// Cancelamento da cobrança limpa o estado Pix mas mantém o checkout aberto
// na etapa de pagamento, pronto para outra tentativa.
func TestFinalizarPixCancelado(t *testing.T) {
	gw := &fakeGateway{status: pix.StatusCancelado}
	svc, store, cart, reps, _ := novoService(gw)
	s := sessaoNoPagamento(t, svc, store)

	_, err := svc.Finalizar(context.Background(), s.ID, Pix{})
	require.NoError(t, err)

	require.Eventually(t, func() bool {
		return reps.status("ped-1") == pedidos.StatusCancelado
	}, time.Second, 5*time.Millisecond)

	require.Eventually(t, func() bool {
		sessao, err := store.Get(context.Background(), s.ID)
		return err == nil && sessao.Pix == nil && sessao.PedidoID == ""
	}, time.Second, 5*time.Millisecond, "dados pix limpos, sessão ainda aberta")

	sessao, err := store.Get(context.Background(), s.ID)
	require.NoError(t, err)
	assert.Equal(t, EtapaPagamento, sessao.Etapa)
	assert.Zero(t, cart.limpou, "carrinho preservado no cancelamento")
}

func TestFinalizarPixDuplicado(t *testing.T) {
	gw := &fakeGateway{status: pix.StatusPendente}
	svc, store, _, _, _ := novoService(gw)
	s := sessaoNoPagamento(t, svc, store)

	_, err := svc.Finalizar(context.Background(), s.ID, Pix{})
	require.NoError(t, err)

	_, err = svc.Finalizar(context.Background(), s.ID, Pix{})
	var v ValidacaoError
	assert.ErrorAs(t, err, &v, "segunda cobrança bloqueada enquanto a primeira está pendente")
}

func TestStatusPixUsaCacheDepoisDoGateway(t *testing.T) {
	gw := &fakeGateway{status: pix.StatusPendente}
	svc, _, _, _, _ := novoService(gw)

	st, err := svc.StatusPix(context.Background(), "pg-9")
	require.NoError(t, err)
	assert.Equal(t, pix.StatusPendente, st)

	// gateway muda, mas o cache responde primeiro
	gw.mu.Lock()
	gw.status = pix.StatusAprovado
	gw.mu.Unlock()

	st, err = svc.StatusPix(context.Background(), "pg-9")
	require.NoError(t, err)
	assert.Equal(t, pix.StatusPendente, st)
}
