// Package carrinho implementa o agregado do carrinho: itens persistidos no
// Postgres, cupom aplicado por sessão e totais derivados a cada leitura.
package carrinho

import (
	"errors"

	"github.com/imperio-store/loja-api/internal/cupons"
)

const (
	QuantidadeMinima = 1
	QuantidadeMaxima = 10
)

var (
	ErrItemNaoEncontrado = errors.New("item não encontrado no carrinho")
	ErrCarrinhoVazio     = errors.New("carrinho vazio")
	ErrCupomVazio        = errors.New("informe o código do cupom")
	ErrCupomJaAplicado   = errors.New("já existe um cupom aplicado")

	// ErrConflito sinaliza que outra escrita venceu: a versão observada não é
	// mais a atual e o chamador deve reler o carrinho.
	ErrConflito = errors.New("carrinho alterado por outra operação")
)

type Item struct {
	ID            int64  `json:"id"`
	ProdutoID     int64  `json:"produto_id"`
	Nome          string `json:"nome"`
	PrecoCentavos int64  `json:"preco_centavos"`
	Quantidade    int    `json:"quantidade"`
	Versao        int64  `json:"versao"`
}

// Resumo são os valores derivados do carrinho; nada aqui é armazenado,
// recalcula-se em toda leitura.
type Resumo struct {
	SubtotalCentavos int64 `json:"subtotal_centavos"`
	DescontoCentavos int64 `json:"desconto_centavos"`
	FreteCentavos    int64 `json:"frete_centavos"`
	TotalCentavos    int64 `json:"total_centavos"`
}

func Subtotal(itens []Item) int64 {
	var total int64
	for _, it := range itens {
		total += it.PrecoCentavos * int64(it.Quantidade)
	}
	return total
}

// CalcularTotais deriva subtotal, desconto, frete e total.
// Desconto é percentual sobre o subtotal, truncado no centavo; frete é a taxa
// fixa da loja, zerada por cupom de frete grátis.
func CalcularTotais(itens []Item, cupom *cupons.Cupom, freteFixoCentavos int64) Resumo {
	r := Resumo{SubtotalCentavos: Subtotal(itens)}
	if cupom != nil && cupom.DescontoPercentual > 0 {
		r.DescontoCentavos = r.SubtotalCentavos * int64(cupom.DescontoPercentual) / 100
	}
	r.FreteCentavos = freteFixoCentavos
	if cupom != nil && cupom.FreteGratis {
		r.FreteCentavos = 0
	}
	r.TotalCentavos = r.SubtotalCentavos - r.DescontoCentavos + r.FreteCentavos
	return r
}
