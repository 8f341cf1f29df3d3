package notificacoes

import (
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	kafkax "github.com/imperio-store/loja-api/internal/kafka"
	"github.com/imperio-store/loja-api/internal/pedidos"
)

func envelope(tipo string, payload any) pedidos.Envelope {
	return pedidos.Envelope{
		EventID:   "ev-1",
		EventType: tipo,
		Payload:   kafkax.MustMarshal(payload),
	}
}

func TestMontarPedidoCriadoCartao(t *testing.T) {
	n := &Notificador{Log: zerolog.Nop()}
	env := envelope(pedidos.EventPedidoCriado, pedidos.PedidoCriadoPayload{
		PedidoID: "ped-1", MetodoPagamento: pedidos.MetodoCartao, TotalCentavos: 13980,
	})

	notif, ok, err := n.montar(env)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "ped-1", notif.PedidoID)
	assert.Equal(t, "Pedido ped-1 confirmado no valor de R$ 139,80", notif.Mensagem)
}

func TestMontarPedidoCriadoPix(t *testing.T) {
	n := &Notificador{Log: zerolog.Nop()}
	env := envelope(pedidos.EventPedidoCriado, pedidos.PedidoCriadoPayload{
		PedidoID: "ped-2", MetodoPagamento: pedidos.MetodoPix, TotalCentavos: 9905,
	})

	notif, ok, err := n.montar(env)

	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, notif.Mensagem, "aguardando pagamento Pix de R$ 99,05")
}

func TestMontarPagamentos(t *testing.T) {
	n := &Notificador{Log: zerolog.Nop()}

	notif, ok, err := n.montar(envelope(pedidos.EventPagamentoAprovado,
		pedidos.PagamentoAprovadoPayload{PedidoID: "ped-3", PagamentoID: "pg-1"}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Pagamento do pedido ped-3 aprovado", notif.Mensagem)

	notif, ok, err = n.montar(envelope(pedidos.EventPagamentoCancelado,
		pedidos.PagamentoCanceladoPayload{PedidoID: "ped-3", PagamentoID: "pg-1"}))
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "Pagamento do pedido ped-3 cancelado", notif.Mensagem)
}

func TestMontarEventoDesconhecido(t *testing.T) {
	n := &Notificador{Log: zerolog.Nop()}
	_, ok, err := n.montar(envelope("OutraCoisa", map[string]string{}))
	require.NoError(t, err)
	assert.False(t, ok)
}
