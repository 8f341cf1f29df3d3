package pix

import (
	"context"
	"time"

	"github.com/rs/zerolog"
)

// Poller consulta o gateway em intervalo fixo até a cobrança liquidar.
// Erros de consulta são ignorados e a próxima batida tenta de novo; não há
// retry nem backoff além do próprio intervalo.
type Poller struct {
	Gateway   Gateway
	Intervalo time.Duration
	Log       zerolog.Logger
}

// Acompanhar bloqueia até o pagamento ser aprovado ou cancelado, chamando o
// hook correspondente uma única vez, ou até o contexto ser cancelado (fechar
// o checkout derruba o contexto e encerra o polling).
func (p *Poller) Acompanhar(ctx context.Context, idPagamento string, aprovado, cancelado func(ctx context.Context)) {
	intervalo := p.Intervalo
	if intervalo <= 0 {
		intervalo = 10 * time.Second
	}
	tick := time.NewTicker(intervalo)
	defer tick.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-tick.C:
			st, err := p.Gateway.Status(ctx, idPagamento)
			if err != nil {
				p.Log.Debug().Err(err).Str("pagamento", idPagamento).Msg("poll pix falhou")
				continue
			}
			switch st {
			case StatusAprovado:
				aprovado(ctx)
				return
			case StatusCancelado:
				cancelado(ctx)
				return
			}
		}
	}
}
