package mascaras

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCPF(t *testing.T) {
	cases := map[string]string{
		"":               "",
		"123":            "123",
		"1234":           "123.4",
		"12345678901":    "123.456.789-01",
		"123456789012xx": "123.456.789-01", // excedente descartado
		"111.222.333-44": "111.222.333-44",
	}
	for in, want := range cases {
		assert.Equal(t, want, CPF(in), "entrada %q", in)
	}
}

func TestTelefone(t *testing.T) {
	cases := map[string]string{
		"":            "",
		"12":          "12",
		"119":         "(11) 9",
		"1198765":     "(11) 9876-5",
		"1198765432":  "(11) 9876-5432",
		"11987654321": "(11) 98765-4321",
	}
	for in, want := range cases {
		assert.Equal(t, want, Telefone(in), "entrada %q", in)
	}
}

func TestCEP(t *testing.T) {
	assert.Equal(t, "01310", CEP("01310"))
	assert.Equal(t, "01310-930", CEP("01310930"))
	assert.Equal(t, "01310-930", CEP("01310-930123"))
}

func TestCartao(t *testing.T) {
	assert.Equal(t, "4111", Cartao("4111"))
	assert.Equal(t, "4111 1111", Cartao("41111111"))
	assert.Equal(t, "4111 1111 1111 1111", Cartao("4111111111111111999"))
}

func TestValidade(t *testing.T) {
	assert.Equal(t, "12", Validade("12"))
	assert.Equal(t, "12/2", Validade("122"))
	assert.Equal(t, "12/26", Validade("12/26"))
	assert.Equal(t, "12/26", Validade("12269"))
}

func TestCartaoOculto(t *testing.T) {
	assert.Equal(t, "**** **** **** 1111", CartaoOculto("4111 1111 1111 1111"))
	assert.Equal(t, "123", CartaoOculto("123"))
}

// Toda máscara é idempotente: aplicar sobre a própria saída não muda nada.
func TestIdempotencia(t *testing.T) {
	entradas := []string{"", "1", "12", "123", "12345", "12345678", "12345678901", "1234567890123456", "abc123def456"}
	mascaras := map[string]func(string) string{
		"cpf":      CPF,
		"telefone": Telefone,
		"cep":      CEP,
		"cartao":   Cartao,
		"validade": Validade,
	}
	for nome, fn := range mascaras {
		for _, in := range entradas {
			uma := fn(in)
			assert.Equal(t, uma, fn(uma), "%s não idempotente para %q", nome, in)
		}
	}
}
