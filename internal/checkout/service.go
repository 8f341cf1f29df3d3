package checkout

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	kafkago "github.com/segmentio/kafka-go"

	"github.com/imperio-store/loja-api/internal/carrinho"
	"github.com/imperio-store/loja-api/internal/kafka"
	"github.com/imperio-store/loja-api/internal/mascaras"
	"github.com/imperio-store/loja-api/internal/pedidos"
	"github.com/imperio-store/loja-api/internal/pix"
)

type Store interface {
	Criar(ctx context.Context, sessaoCarrinhoID string) (Sessao, error)
	Get(ctx context.Context, id string) (Sessao, error)
	Save(ctx context.Context, sessao Sessao) error
	Delete(ctx context.Context, id string) error
}

type Carrinhos interface {
	Ver(ctx context.Context, sessaoID string) (carrinho.Visao, error)
	Limpar(ctx context.Context, sessaoID string) (carrinho.Visao, error)
}

type Pedidos interface {
	Criar(ctx context.Context, p pedidos.Pedido) (pedidos.Pedido, error)
	AtualizarStatus(ctx context.Context, pedidoID string, novo pedidos.Status) error
	CriarPagamentoPix(ctx context.Context, p pedidos.PagamentoPix) error
	AtualizarPagamentoPix(ctx context.Context, idPagamento, status string) error
}

type Publisher interface {
	Publish(key, value []byte, headers ...kafkago.Header)
}

// Service conduz o fluxo de checkout do início à confirmação do pedido.
// Cartão liquida na hora; Pix cria a cobrança e deixa um poller acompanhando
// a liquidação em segundo plano.
type Service struct {
	Sessoes  Store
	Carrinho Carrinhos
	Pedidos  Pedidos

	Gateway pix.Gateway
	Poller  *pix.Poller
	Status  pix.StatusCache

	PedidoCriado       Publisher
	PagamentoAprovado  Publisher
	PagamentoCancelado Publisher

	// PollCtx limita a vida dos pollers Pix à vida do processo, não à da
	// requisição que criou a cobrança.
	PollCtx context.Context

	ServiceName string
	Log         zerolog.Logger
}

type Resultado struct {
	Pedido   pedidos.Pedido `json:"pedido"`
	Pix      *DadosPix      `json:"pix,omitempty"`
	Mensagem string         `json:"mensagem"`
}

// Iniciar abre uma sessão de checkout para o carrinho; carrinho vazio não
// entra no fluxo.
func (s *Service) Iniciar(ctx context.Context, sessaoCarrinhoID string) (Sessao, error) {
	visao, err := s.Carrinho.Ver(ctx, sessaoCarrinhoID)
	if err != nil {
		return Sessao{}, err
	}
	if len(visao.Itens) == 0 {
		return Sessao{}, carrinho.ErrCarrinhoVazio
	}
	return s.Sessoes.Criar(ctx, sessaoCarrinhoID)
}

func (s *Service) Ver(ctx context.Context, id string) (Sessao, error) {
	return s.Sessoes.Get(ctx, id)
}

func (s *Service) InformarCliente(ctx context.Context, id string, c Cliente) (Sessao, error) {
	sessao, err := s.Sessoes.Get(ctx, id)
	if err != nil {
		return Sessao{}, err
	}
	if err := sessao.AvancarCliente(c); err != nil {
		return Sessao{}, err
	}
	if err := s.Sessoes.Save(ctx, sessao); err != nil {
		return Sessao{}, err
	}
	return sessao, nil
}

func (s *Service) InformarEndereco(ctx context.Context, id string, e Endereco) (Sessao, error) {
	sessao, err := s.Sessoes.Get(ctx, id)
	if err != nil {
		return Sessao{}, err
	}
	if err := sessao.AvancarEndereco(e); err != nil {
		return Sessao{}, err
	}
	if err := s.Sessoes.Save(ctx, sessao); err != nil {
		return Sessao{}, err
	}
	return sessao, nil
}

func (s *Service) Voltar(ctx context.Context, id string) (Sessao, error) {
	sessao, err := s.Sessoes.Get(ctx, id)
	if err != nil {
		return Sessao{}, err
	}
	sessao.Voltar()
	if err := s.Sessoes.Save(ctx, sessao); err != nil {
		return Sessao{}, err
	}
	return sessao, nil
}

// Fechar descarta a sessão. Um poller Pix pendente segue rodando até a
// cobrança liquidar ou o processo encerrar; ao liquidar, a sessão já não
// existe e só o pedido é atualizado.
func (s *Service) Fechar(ctx context.Context, id string) error {
	return s.Sessoes.Delete(ctx, id)
}

func (s *Service) Finalizar(ctx context.Context, id string, pagamento Pagamento) (Resultado, error) {
	sessao, err := s.Sessoes.Get(ctx, id)
	if err != nil {
		return Resultado{}, err
	}
	if sessao.Etapa != EtapaPagamento {
		return Resultado{}, ValidacaoError("complete as etapas anteriores")
	}
	if sessao.Pix != nil {
		return Resultado{}, ValidacaoError("já existe uma cobrança Pix aguardando pagamento")
	}

	visao, err := s.Carrinho.Ver(ctx, sessao.SessaoID)
	if err != nil {
		return Resultado{}, err
	}
	if len(visao.Itens) == 0 {
		return Resultado{}, carrinho.ErrCarrinhoVazio
	}

	pedido := s.montarPedido(sessao, visao)

	switch pg := pagamento.(type) {
	case Cartao:
		if err := pg.Validar(); err != nil {
			return Resultado{}, err
		}
		pedido.MetodoPagamento = pedidos.MetodoCartao
		pedido.CartaoFinal = mascaras.CartaoOculto(pg.Numero)
		pedido.Status = pedidos.StatusPago

		criado, err := s.Pedidos.Criar(ctx, pedido)
		if err != nil {
			return Resultado{}, err
		}
		s.publicarPedidoCriado(criado)

		if _, err := s.Carrinho.Limpar(ctx, sessao.SessaoID); err != nil {
			s.Log.Error().Err(err).Str("sessao", sessao.SessaoID).Msg("limpar carrinho pós-pedido")
		}
		if err := s.Sessoes.Delete(ctx, sessao.ID); err != nil {
			s.Log.Error().Err(err).Str("checkout", sessao.ID).Msg("encerrar sessão de checkout")
		}
		return Resultado{Pedido: criado, Mensagem: "Pagamento realizado com sucesso!"}, nil

	case Pix:
		cobranca, err := s.Gateway.CriarCobranca(ctx, pix.CobrancaReq{
			ValorCentavos: visao.Resumo.TotalCentavos,
			Nome:          sessao.Cliente.NomeCompleto,
			Email:         sessao.Cliente.Email,
		})
		if err != nil {
			return Resultado{}, err
		}

		pedido.MetodoPagamento = pedidos.MetodoPix
		pedido.Status = pedidos.StatusAguardandoPagamento
		criado, err := s.Pedidos.Criar(ctx, pedido)
		if err != nil {
			return Resultado{}, err
		}
		if err := s.Pedidos.CriarPagamentoPix(ctx, pedidos.PagamentoPix{
			IDPagamento: cobranca.IDPagamento,
			PedidoID:    criado.ID,
			SessaoID:    sessao.SessaoID,
			Status:      string(pix.StatusPendente),
			QRCode:      cobranca.CopiaECola,
		}); err != nil {
			return Resultado{}, err
		}
		if err := s.Status.Set(ctx, cobranca.IDPagamento, pix.StatusPendente); err != nil {
			s.Log.Error().Err(err).Msg("cachear status pix")
		}
		s.publicarPedidoCriado(criado)

		sessao.PedidoID = criado.ID
		sessao.Pix = &DadosPix{
			QRCodeBase64: cobranca.QRCodeBase64,
			CopiaECola:   cobranca.CopiaECola,
			IDPagamento:  cobranca.IDPagamento,
		}
		if err := s.Sessoes.Save(ctx, sessao); err != nil {
			return Resultado{}, err
		}

		go s.acompanharPix(sessao.ID, criado.ID, cobranca.IDPagamento)

		return Resultado{
			Pedido:   criado,
			Pix:      sessao.Pix,
			Mensagem: "Escaneie o QR Code ou use o copia e cola para pagar",
		}, nil

	default:
		return Resultado{}, ValidacaoError("meio de pagamento desconhecido")
	}
}

// StatusPix responde do cache e só consulta o gateway em miss.
func (s *Service) StatusPix(ctx context.Context, idPagamento string) (pix.Status, error) {
	st, err := s.Status.Get(ctx, idPagamento)
	if err != nil {
		return "", err
	}
	if st != "" {
		return st, nil
	}
	st, err = s.Gateway.Status(ctx, idPagamento)
	if err != nil {
		return "", err
	}
	if err := s.Status.Set(ctx, idPagamento, st); err != nil {
		s.Log.Error().Err(err).Msg("cachear status pix")
	}
	return st, nil
}

func (s *Service) acompanharPix(checkoutID, pedidoID, idPagamento string) {
	base := s.PollCtx
	if base == nil {
		base = context.Background()
	}
	s.Poller.Acompanhar(base, idPagamento,
		func(ctx context.Context) { s.pixAprovado(ctx, checkoutID, pedidoID, idPagamento) },
		func(ctx context.Context) { s.pixCancelado(ctx, checkoutID, pedidoID, idPagamento) },
	)
}

func (s *Service) pixAprovado(ctx context.Context, checkoutID, pedidoID, idPagamento string) {
	log := s.Log.With().Str("pedido", pedidoID).Str("pagamento", idPagamento).Logger()

	if err := s.Pedidos.AtualizarStatus(ctx, pedidoID, pedidos.StatusPago); err != nil {
		log.Error().Err(err).Msg("marcar pedido pago")
	}
	if err := s.Pedidos.AtualizarPagamentoPix(ctx, idPagamento, string(pix.StatusAprovado)); err != nil {
		log.Error().Err(err).Msg("atualizar pagamento pix")
	}
	if err := s.Status.Set(ctx, idPagamento, pix.StatusAprovado); err != nil {
		log.Error().Err(err).Msg("cachear status pix")
	}

	s.publicar(s.PagamentoAprovado, pedidos.EventPagamentoAprovado, pedidoID, pedidos.PagamentoAprovadoPayload{
		PedidoID:    pedidoID,
		PagamentoID: idPagamento,
	})

	sessao, err := s.Sessoes.Get(ctx, checkoutID)
	if err == nil {
		if _, err := s.Carrinho.Limpar(ctx, sessao.SessaoID); err != nil {
			log.Error().Err(err).Msg("limpar carrinho pós-pix")
		}
	}
	if err := s.Sessoes.Delete(ctx, checkoutID); err != nil {
		log.Error().Err(err).Msg("encerrar sessão de checkout")
	}
	log.Info().Msg("pagamento pix aprovado")
}

// pixCancelado desfaz só o estado da cobrança: a sessão continua aberta na
// etapa de pagamento para o cliente tentar outro meio.
func (s *Service) pixCancelado(ctx context.Context, checkoutID, pedidoID, idPagamento string) {
	log := s.Log.With().Str("pedido", pedidoID).Str("pagamento", idPagamento).Logger()

	if err := s.Pedidos.AtualizarStatus(ctx, pedidoID, pedidos.StatusCancelado); err != nil {
		log.Error().Err(err).Msg("cancelar pedido")
	}
	if err := s.Pedidos.AtualizarPagamentoPix(ctx, idPagamento, string(pix.StatusCancelado)); err != nil {
		log.Error().Err(err).Msg("atualizar pagamento pix")
	}
	if err := s.Status.Set(ctx, idPagamento, pix.StatusCancelado); err != nil {
		log.Error().Err(err).Msg("cachear status pix")
	}

	s.publicar(s.PagamentoCancelado, pedidos.EventPagamentoCancelado, pedidoID, pedidos.PagamentoCanceladoPayload{
		PedidoID:    pedidoID,
		PagamentoID: idPagamento,
		Motivo:      "cobrança cancelada no gateway",
	})

	sessao, err := s.Sessoes.Get(ctx, checkoutID)
	if err != nil {
		log.Error().Err(err).Msg("recarregar sessão de checkout")
		return
	}
	sessao.Pix = nil
	sessao.PedidoID = ""
	if err := s.Sessoes.Save(ctx, sessao); err != nil {
		log.Error().Err(err).Msg("salvar sessão de checkout")
	}
	log.Info().Msg("pagamento pix cancelado")
}

func (s *Service) montarPedido(sessao Sessao, visao carrinho.Visao) pedidos.Pedido {
	p := pedidos.Pedido{
		SessaoID:      sessao.SessaoID,
		NomeCompleto:  sessao.Cliente.NomeCompleto,
		CPF:           mascaras.Digits(sessao.Cliente.CPF),
		Telefone:      mascaras.Digits(sessao.Cliente.Telefone),
		Email:         sessao.Cliente.Email,
		CEP:           mascaras.Digits(sessao.Endereco.CEP),
		Logradouro:    sessao.Endereco.Logradouro,
		Numero:        sessao.Endereco.Numero,
		Complemento:   sessao.Endereco.Complemento,
		Bairro:        sessao.Endereco.Bairro,
		Cidade:        sessao.Endereco.Cidade,
		UF:            sessao.Endereco.UF,
		TotalCentavos: visao.Resumo.TotalCentavos,
	}
	if visao.Cupom != nil {
		p.CupomCodigo = visao.Cupom.Codigo
	}
	for _, it := range visao.Itens {
		p.Itens = append(p.Itens, pedidos.ItemPedido{
			ProdutoID:     it.ProdutoID,
			Nome:          it.Nome,
			PrecoCentavos: it.PrecoCentavos,
			Quantidade:    it.Quantidade,
		})
	}
	return p
}

func (s *Service) publicarPedidoCriado(p pedidos.Pedido) {
	s.publicar(s.PedidoCriado, pedidos.EventPedidoCriado, p.ID, pedidos.PedidoCriadoPayload{
		PedidoID:        p.ID,
		SessaoID:        p.SessaoID,
		Email:           p.Email,
		MetodoPagamento: p.MetodoPagamento,
		Itens:           p.Itens,
		TotalCentavos:   p.TotalCentavos,
	})
}

func (s *Service) publicar(pub Publisher, tipo, pedidoID string, payload any) {
	if pub == nil {
		return
	}
	env := pedidos.Envelope{
		EventID:       uuid.NewString(),
		EventType:     tipo,
		EventVersion:  1,
		OccurredAt:    time.Now().UTC(),
		Producer:      s.ServiceName,
		CorrelationID: pedidoID,
		Payload:       kafka.MustMarshal(payload),
	}
	pub.Publish(pedidos.PartitionKey(pedidoID), kafka.MustMarshal(env))
}
