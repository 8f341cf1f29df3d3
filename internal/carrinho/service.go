package carrinho

import (
	"context"
	"strings"
	"time"

	"github.com/imperio-store/loja-api/internal/cupons"
)

type Repo interface {
	Listar(ctx context.Context, sessaoID string) ([]Item, error)
	Adicionar(ctx context.Context, sessaoID string, produtoID int64, quantidade int) error
	AtualizarQuantidade(ctx context.Context, sessaoID string, itemID int64, quantidade int, versao int64) error
	Remover(ctx context.Context, sessaoID string, itemID int64) error
	Limpar(ctx context.Context, sessaoID string) error
}

type Pool interface {
	ListarAtivos(ctx context.Context) ([]cupons.Cupom, error)
}

type Aplicado interface {
	Get(ctx context.Context, sessaoID string) (*cupons.Cupom, error)
	Set(ctx context.Context, sessaoID string, c cupons.Cupom) error
	Clear(ctx context.Context, sessaoID string) error
}

// Service orquestra o carrinho de uma sessão. Toda mutação escreve e depois
// relê a lista inteira: o banco é a única fonte de verdade, sem merge
// otimista do lado de cá.
type Service struct {
	Repo     Repo
	Cupons   Pool
	Aplicado Aplicado

	FreteFixoCentavos int64
	AplicarDelay      time.Duration
}

// Visao é o carrinho como a vitrine o exibe: itens, cupom e valores.
type Visao struct {
	Itens  []Item        `json:"itens"`
	Cupom  *cupons.Cupom `json:"cupom,omitempty"`
	Resumo Resumo        `json:"resumo"`
}

func (s *Service) Ver(ctx context.Context, sessaoID string) (Visao, error) {
	itens, err := s.Repo.Listar(ctx, sessaoID)
	if err != nil {
		return Visao{}, err
	}
	cupom, err := s.Aplicado.Get(ctx, sessaoID)
	if err != nil {
		return Visao{}, err
	}
	return Visao{
		Itens:  itens,
		Cupom:  cupom,
		Resumo: CalcularTotais(itens, cupom, s.FreteFixoCentavos),
	}, nil
}

func (s *Service) Adicionar(ctx context.Context, sessaoID string, produtoID int64, quantidade int) (Visao, error) {
	if err := s.Repo.Adicionar(ctx, sessaoID, produtoID, quantidade); err != nil {
		return Visao{}, err
	}
	return s.Ver(ctx, sessaoID)
}

// Incrementar soma 1 à quantidade do item. No teto de 10 a operação é um
// no-op: nenhuma escrita é emitida.
func (s *Service) Incrementar(ctx context.Context, sessaoID string, itemID int64) (Visao, error) {
	return s.ajustarQuantidade(ctx, sessaoID, itemID, +1)
}

// Decrementar subtrai 1; no piso de 1 unidade é um no-op.
func (s *Service) Decrementar(ctx context.Context, sessaoID string, itemID int64) (Visao, error) {
	return s.ajustarQuantidade(ctx, sessaoID, itemID, -1)
}

func (s *Service) ajustarQuantidade(ctx context.Context, sessaoID string, itemID int64, delta int) (Visao, error) {
	visao, err := s.Ver(ctx, sessaoID)
	if err != nil {
		return Visao{}, err
	}
	item := acharItem(visao.Itens, itemID)
	if item == nil {
		return Visao{}, ErrItemNaoEncontrado
	}
	nova := item.Quantidade + delta
	if nova < QuantidadeMinima || nova > QuantidadeMaxima {
		return visao, nil
	}
	if err := s.Repo.AtualizarQuantidade(ctx, sessaoID, itemID, nova, item.Versao); err != nil {
		return Visao{}, err
	}
	return s.Ver(ctx, sessaoID)
}

// Remover exclui o item e devolve o nome para a notificação de remoção.
// A confirmação do usuário acontece antes de chamar aqui.
func (s *Service) Remover(ctx context.Context, sessaoID string, itemID int64) (string, Visao, error) {
	visao, err := s.Ver(ctx, sessaoID)
	if err != nil {
		return "", Visao{}, err
	}
	item := acharItem(visao.Itens, itemID)
	if item == nil {
		return "", Visao{}, ErrItemNaoEncontrado
	}
	if err := s.Repo.Remover(ctx, sessaoID, itemID); err != nil {
		return "", Visao{}, err
	}
	visao, err = s.Ver(ctx, sessaoID)
	return item.Nome, visao, err
}

// Limpar esvazia o carrinho e descarta o cupom aplicado.
func (s *Service) Limpar(ctx context.Context, sessaoID string) (Visao, error) {
	if err := s.Repo.Limpar(ctx, sessaoID); err != nil {
		return Visao{}, err
	}
	if err := s.Aplicado.Clear(ctx, sessaoID); err != nil {
		return Visao{}, err
	}
	return s.Ver(ctx, sessaoID)
}

// AplicarCupom procura o código no pool carregado e aplica quando elegível.
// O delay configurável reproduz o tempo de processamento que a loja sempre
// exibiu ao aplicar cupom; não é latência de rede real.
func (s *Service) AplicarCupom(ctx context.Context, sessaoID, codigo string) (*cupons.Cupom, error) {
	if strings.TrimSpace(codigo) == "" {
		return nil, ErrCupomVazio
	}
	if atual, err := s.Aplicado.Get(ctx, sessaoID); err != nil {
		return nil, err
	} else if atual != nil {
		return nil, ErrCupomJaAplicado
	}

	itens, err := s.Repo.Listar(ctx, sessaoID)
	if err != nil {
		return nil, err
	}
	if len(itens) == 0 {
		return nil, ErrCarrinhoVazio
	}

	if s.AplicarDelay > 0 {
		select {
		case <-time.After(s.AplicarDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	pool, err := s.Cupons.ListarAtivos(ctx)
	if err != nil {
		return nil, err
	}
	cupom := cupons.FindByCode(codigo, pool)
	if cupom == nil {
		return nil, cupons.ErrNaoEncontrado
	}
	if err := cupom.Elegivel(Subtotal(itens), time.Now()); err != nil {
		return nil, err
	}
	if err := s.Aplicado.Set(ctx, sessaoID, *cupom); err != nil {
		return nil, err
	}
	return cupom, nil
}

func (s *Service) RemoverCupom(ctx context.Context, sessaoID string) error {
	return s.Aplicado.Clear(ctx, sessaoID)
}

func acharItem(itens []Item, id int64) *Item {
	for i := range itens {
		if itens[i].ID == id {
			return &itens[i]
		}
	}
	return nil
}
