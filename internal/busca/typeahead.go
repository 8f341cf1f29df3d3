// Package busca implementa a busca de produtos da vitrine: consulta por
// prefixo livre e o controlador de typeahead com navegação por teclado.
package busca

import (
	"context"
	"strings"
)

type Produto struct {
	ID            int64  `json:"id"`
	Nome          string `json:"nome"`
	PrecoCentavos int64  `json:"preco_centavos"`
}

type Buscador interface {
	Buscar(ctx context.Context, termo string) ([]Produto, error)
}

// Typeahead mantém o estado do dropdown de busca: resultados, item em
// destaque e a supressão de reabertura após uma seleção. Cada tecla digitada
// dispara uma consulta imediata, sem debounce.
type Typeahead struct {
	Buscador Buscador

	termo      string
	resultados []Produto
	aberto     bool
	destaque   int

	// suprimir impede o dropdown de reabrir logo após uma seleção; só a
	// limpeza do termo rearma a busca.
	suprimir bool
}

func NewTypeahead(b Buscador) *Typeahead {
	return &Typeahead{Buscador: b, destaque: -1}
}

func (t *Typeahead) Termo() string         { return t.termo }
func (t *Typeahead) Resultados() []Produto { return t.resultados }
func (t *Typeahead) Aberto() bool          { return t.aberto }

// Destaque devolve o índice do item em destaque, ou -1 quando nenhum.
func (t *Typeahead) Destaque() int { return t.destaque }

// Digitar atualiza o termo e consulta imediatamente. Termo vazio fecha o
// dropdown e rearma a supressão.
func (t *Typeahead) Digitar(ctx context.Context, termo string) error {
	t.termo = termo
	if strings.TrimSpace(termo) == "" {
		t.resultados = nil
		t.fechar()
		t.suprimir = false
		return nil
	}
	if t.suprimir {
		return nil
	}
	res, err := t.Buscador.Buscar(ctx, termo)
	if err != nil {
		return err
	}
	t.resultados = res
	t.aberto = len(res) > 0
	t.destaque = -1
	return nil
}

// Focar reabre o dropdown se há termo e resultados; depois de uma seleção o
// foco sozinho não reabre.
func (t *Typeahead) Focar() {
	if t.suprimir || strings.TrimSpace(t.termo) == "" {
		return
	}
	t.aberto = len(t.resultados) > 0
}

// ProximoDestaque move o destaque para baixo, voltando ao primeiro após o
// último.
func (t *Typeahead) ProximoDestaque() {
	if !t.aberto || len(t.resultados) == 0 {
		return
	}
	if t.destaque < len(t.resultados)-1 {
		t.destaque++
	} else {
		t.destaque = 0
	}
}

// DestaqueAnterior move o destaque para cima, saltando do primeiro para o
// último.
func (t *Typeahead) DestaqueAnterior() {
	if !t.aberto || len(t.resultados) == 0 {
		return
	}
	if t.destaque > 0 {
		t.destaque--
	} else {
		t.destaque = len(t.resultados) - 1
	}
}

// Selecionar confirma o item em destaque (ou o primeiro, se nenhum está
// destacado), fecha o dropdown e suprime reaberturas até o termo ser limpo.
func (t *Typeahead) Selecionar() (Produto, bool) {
	if !t.aberto || len(t.resultados) == 0 {
		return Produto{}, false
	}
	i := t.destaque
	if i < 0 {
		i = 0
	}
	p := t.resultados[i]
	t.termo = p.Nome
	t.fechar()
	t.suprimir = true
	return p, true
}

// Fechar fecha o dropdown sem selecionar (Escape).
func (t *Typeahead) Fechar() { t.fechar() }

// Limpar zera o termo e rearma a busca.
func (t *Typeahead) Limpar() {
	t.termo = ""
	t.resultados = nil
	t.fechar()
	t.suprimir = false
}

func (t *Typeahead) fechar() {
	t.aberto = false
	t.destaque = -1
}
