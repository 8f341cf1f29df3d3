// Package notificacoes consome os eventos de pedido e pagamento e registra a
// notificação que o cliente recebe (confirmação de pedido, pagamento aprovado
// ou cancelado).
package notificacoes

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	kafkax "github.com/imperio-store/loja-api/internal/kafka"
	"github.com/imperio-store/loja-api/internal/pedidos"
	"github.com/imperio-store/loja-api/internal/redisx"
)

type Notificacao struct {
	EventoID string `json:"evento_id"`
	Tipo     string `json:"tipo"`
	PedidoID string `json:"pedido_id"`
	Mensagem string `json:"mensagem"`
}

type Gravador interface {
	Gravar(ctx context.Context, n Notificacao) error
}

type Notificador struct {
	Repo        Gravador
	Redis       *redis.Client
	ServiceName string
	Log         zerolog.Logger
}

// Handle é o handler do consumer; retornar nil commita o offset.
func (n *Notificador) Handle(ctx context.Context, m kafkago.Message) error {
	var env pedidos.Envelope
	if err := json.Unmarshal(m.Value, &env); err != nil {
		// mensagem irrecuperável: loga e commita para não travar a partição
		n.Log.Error().Err(err).Str("topic", m.Topic).Msg("envelope inválido")
		return nil
	}

	dkey := fmt.Sprintf(redisx.KeyDedup, n.ServiceName, env.EventID)
	if exists, _ := redisx.Exists(ctx, n.Redis, dkey); exists {
		return nil
	}

	notif, ok, err := n.montar(env)
	if err != nil {
		n.Log.Error().Err(err).Str("event", env.EventType).Msg("payload inválido")
		return nil
	}
	if !ok {
		return nil
	}

	if err := n.Repo.Gravar(ctx, notif); err != nil {
		return err
	}
	_ = n.Redis.Set(ctx, dkey, "1", redisx.TTLDedup).Err()

	n.Log.Info().
		Str("tipo", notif.Tipo).
		Str("pedido", notif.PedidoID).
		Msg(notif.Mensagem)
	return nil
}

func (n *Notificador) montar(env pedidos.Envelope) (Notificacao, bool, error) {
	notif := Notificacao{EventoID: env.EventID, Tipo: env.EventType}

	switch env.EventType {
	case pedidos.EventPedidoCriado:
		p, err := kafkax.UnwrapPayload[pedidos.PedidoCriadoPayload](env.Payload)
		if err != nil {
			return Notificacao{}, false, err
		}
		notif.PedidoID = p.PedidoID
		if p.MetodoPagamento == pedidos.MetodoPix {
			notif.Mensagem = fmt.Sprintf("Pedido %s criado, aguardando pagamento Pix de %s", p.PedidoID, reais(p.TotalCentavos))
		} else {
			notif.Mensagem = fmt.Sprintf("Pedido %s confirmado no valor de %s", p.PedidoID, reais(p.TotalCentavos))
		}

	case pedidos.EventPagamentoAprovado:
		p, err := kafkax.UnwrapPayload[pedidos.PagamentoAprovadoPayload](env.Payload)
		if err != nil {
			return Notificacao{}, false, err
		}
		notif.PedidoID = p.PedidoID
		notif.Mensagem = fmt.Sprintf("Pagamento do pedido %s aprovado", p.PedidoID)

	case pedidos.EventPagamentoCancelado:
		p, err := kafkax.UnwrapPayload[pedidos.PagamentoCanceladoPayload](env.Payload)
		if err != nil {
			return Notificacao{}, false, err
		}
		notif.PedidoID = p.PedidoID
		notif.Mensagem = fmt.Sprintf("Pagamento do pedido %s cancelado", p.PedidoID)

	default:
		return Notificacao{}, false, nil
	}
	return notif, true, nil
}

func reais(centavos int64) string {
	return fmt.Sprintf("R$ %d,%02d", centavos/100, centavos%100)
}
