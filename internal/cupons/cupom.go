package cupons

import (
	"errors"
	"fmt"
	"strings"
	"time"
)

const (
	StatusAtivo   = 3
	StatusInativo = 4
)

var ErrNaoEncontrado = errors.New("cupom inválido ou expirado")

// PedidoMinimoError indica que o subtotal ainda não alcança o mínimo do cupom.
type PedidoMinimoError struct {
	MinimoCentavos int64
}

func (e *PedidoMinimoError) Error() string {
	return fmt.Sprintf("pedido mínimo de R$ %d,%02d para usar este cupom",
		e.MinimoCentavos/100, e.MinimoCentavos%100)
}

type Cupom struct {
	Codigo               string     `json:"codigo"`
	Label                string     `json:"label,omitempty"`
	DescontoPercentual   int        `json:"desconto,omitempty"`
	FreteGratis          bool       `json:"frete_gratis,omitempty"`
	PedidoMinimoCentavos int64      `json:"pedido_minimo_centavos"`
	Validade             *time.Time `json:"validade,omitempty"`
	StatusID             int        `json:"status_id"`
}

// Vigente diz se o cupom está ativo e dentro da validade. O pedido mínimo é
// checado à parte, na aplicação, porque depende do subtotal do carrinho.
func (c Cupom) Vigente(agora time.Time) bool {
	if c.StatusID != StatusAtivo {
		return false
	}
	return c.Validade == nil || !c.Validade.Before(agora)
}

// Elegivel aplica a regra completa: vigência + pedido mínimo.
func (c Cupom) Elegivel(subtotalCentavos int64, agora time.Time) error {
	if !c.Vigente(agora) {
		return ErrNaoEncontrado
	}
	if subtotalCentavos < c.PedidoMinimoCentavos {
		return &PedidoMinimoError{MinimoCentavos: c.PedidoMinimoCentavos}
	}
	return nil
}

// FindByCode procura no pool carregado, sem distinguir maiúsculas.
func FindByCode(codigo string, pool []Cupom) *Cupom {
	codigo = strings.ToUpper(strings.TrimSpace(codigo))
	for i := range pool {
		if strings.ToUpper(pool[i].Codigo) == codigo {
			return &pool[i]
		}
	}
	return nil
}

// Vigentes filtra o pool para os cupons aplicáveis agora, como a vitrine faz
// ao carregar (status ativo e validade não vencida).
func Vigentes(pool []Cupom, agora time.Time) []Cupom {
	out := make([]Cupom, 0, len(pool))
	for _, c := range pool {
		if c.Vigente(agora) {
			out = append(out, c)
		}
	}
	return out
}
