package cupons

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func em(t *testing.T, s string) time.Time {
	t.Helper()
	ts, err := time.Parse(time.RFC3339, s)
	require.NoError(t, err)
	return ts
}

func TestVigente(t *testing.T) {
	agora := em(t, "2026-09-01T12:00:00Z")
	amanha := agora.Add(24 * time.Hour)
	ontem := agora.Add(-24 * time.Hour)

	assert.True(t, Cupom{Codigo: "DEZ", StatusID: StatusAtivo}.Vigente(agora), "sem validade")
	assert.True(t, Cupom{Codigo: "DEZ", StatusID: StatusAtivo, Validade: &amanha}.Vigente(agora))
	assert.False(t, Cupom{Codigo: "DEZ", StatusID: StatusAtivo, Validade: &ontem}.Vigente(agora), "vencido")
	assert.False(t, Cupom{Codigo: "DEZ", StatusID: StatusInativo}.Vigente(agora), "inativo")
}

func TestElegivelPedidoMinimo(t *testing.T) {
	agora := time.Now()
	c := Cupom{Codigo: "DEZ", StatusID: StatusAtivo, DescontoPercentual: 10, PedidoMinimoCentavos: 5000}

	err := c.Elegivel(4999, agora)
	var minErr *PedidoMinimoError
	require.ErrorAs(t, err, &minErr)
	assert.Equal(t, int64(5000), minErr.MinimoCentavos)
	assert.Contains(t, minErr.Error(), "R$ 50,00")

	assert.NoError(t, c.Elegivel(5000, agora))
}

func TestElegivelVencidoVieraComoNaoEncontrado(t *testing.T) {
	ontem := time.Now().Add(-time.Hour)
	c := Cupom{Codigo: "DEZ", StatusID: StatusAtivo, Validade: &ontem}
	assert.True(t, errors.Is(c.Elegivel(0, time.Now()), ErrNaoEncontrado))
}

func TestFindByCode(t *testing.T) {
	pool := []Cupom{{Codigo: "FRETEGRATIS"}, {Codigo: "Dez10"}}

	assert.Nil(t, FindByCode("NADA", pool))
	require.NotNil(t, FindByCode("fretegratis", pool))
	assert.Equal(t, "Dez10", FindByCode("  dez10 ", pool).Codigo)
}

func TestVigentesFiltra(t *testing.T) {
	agora := time.Now()
	ontem := agora.Add(-time.Hour)
	pool := []Cupom{
		{Codigo: "A", StatusID: StatusAtivo},
		{Codigo: "B", StatusID: StatusInativo},
		{Codigo: "C", StatusID: StatusAtivo, Validade: &ontem},
	}
	ativos := Vigentes(pool, agora)
	require.Len(t, ativos, 1)
	assert.Equal(t, "A", ativos[0].Codigo)
}
