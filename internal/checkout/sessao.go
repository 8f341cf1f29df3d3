// Package checkout guarda a sessão de finalização de compra: um fluxo linear
// de três etapas (dados → endereço → pagamento) com validação por etapa.
package checkout

import (
	"strings"
	"time"
	"unicode"

	"github.com/imperio-store/loja-api/internal/mascaras"
)

type Etapa string

const (
	EtapaDados     Etapa = "dados"
	EtapaEndereco  Etapa = "endereco"
	EtapaPagamento Etapa = "pagamento"
)

// ValidacaoError é um erro de preenchimento: bloqueia a transição e vira
// mensagem para o cliente, nunca um 500.
type ValidacaoError string

func (e ValidacaoError) Error() string { return string(e) }

type Cliente struct {
	NomeCompleto string `json:"nome_completo"`
	CPF          string `json:"cpf"`
	Telefone     string `json:"telefone"`
	Email        string `json:"email"`
}

type Endereco struct {
	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	UF          string `json:"uf"`
}

// DadosPix são os artefatos da cobrança gerada, exibidos enquanto o
// pagamento não liquida.
type DadosPix struct {
	QRCodeBase64 string `json:"qr_code_base64"`
	CopiaECola   string `json:"qr_code"`
	IDPagamento  string `json:"id_pagamento"`
}

// Sessao é efêmera: nasce quando o checkout abre e morre no fechamento ou na
// confirmação do pedido. Nada dela sobrevive fora do pedido criado.
type Sessao struct {
	ID       string `json:"id"`
	SessaoID string `json:"sessao_id"` // sessão do carrinho dona do fluxo

	Etapa    Etapa    `json:"etapa"`
	Cliente  Cliente  `json:"cliente"`
	Endereco Endereco `json:"endereco"`

	PedidoID string    `json:"pedido_id,omitempty"`
	Pix      *DadosPix `json:"pix,omitempty"`

	CriadaEm time.Time `json:"criada_em"`
}

// AvancarCliente valida os dados pessoais e passa para a etapa de endereço.
func (s *Sessao) AvancarCliente(c Cliente) error {
	if s.Etapa != EtapaDados {
		return ValidacaoError("etapa inválida para dados pessoais")
	}
	if strings.TrimSpace(c.NomeCompleto) == "" {
		return ValidacaoError("Preencha o nome completo")
	}
	if len(mascaras.Digits(c.CPF)) != 11 {
		return ValidacaoError("CPF inválido")
	}
	if len(mascaras.Digits(c.Telefone)) < 10 {
		return ValidacaoError("Telefone inválido")
	}
	// regra única de email para todo o fluxo: não-vazio com arroba
	email := strings.TrimSpace(c.Email)
	if email == "" || !strings.Contains(email, "@") {
		return ValidacaoError("Email inválido")
	}
	s.Cliente = c
	s.Etapa = EtapaEndereco
	return nil
}

// AvancarEndereco valida o endereço de entrega e passa para o pagamento.
func (s *Sessao) AvancarEndereco(e Endereco) error {
	if s.Etapa != EtapaEndereco {
		return ValidacaoError("etapa inválida para endereço")
	}
	if len(mascaras.Digits(e.CEP)) != 8 {
		return ValidacaoError("CEP inválido")
	}
	if strings.TrimSpace(e.Logradouro) == "" {
		return ValidacaoError("Preencha o endereço")
	}
	if strings.TrimSpace(e.Numero) == "" {
		return ValidacaoError("Preencha o número")
	}
	if strings.TrimSpace(e.Bairro) == "" {
		return ValidacaoError("Preencha o bairro")
	}
	if strings.TrimSpace(e.Cidade) == "" {
		return ValidacaoError("Preencha a cidade")
	}
	e.UF = strings.ToUpper(strings.TrimSpace(e.UF))
	if !ufValida(e.UF) {
		return ValidacaoError("Estado inválido")
	}
	s.Endereco = e
	s.Etapa = EtapaPagamento
	return nil
}

// Voltar recua uma etapa; voltar da primeira é um no-op. Nunca valida.
func (s *Sessao) Voltar() {
	switch s.Etapa {
	case EtapaPagamento:
		s.Etapa = EtapaEndereco
	case EtapaEndereco:
		s.Etapa = EtapaDados
	}
}

func ufValida(uf string) bool {
	if len(uf) != 2 {
		return false
	}
	for _, r := range uf {
		if !unicode.IsLetter(r) {
			return false
		}
	}
	return true
}

// Pagamento é a união fechada dos meios de pagamento; o switch exaustivo na
// finalização cobre todos os casos em tempo de compilação.
type Pagamento interface{ metodo() string }

type Cartao struct {
	Numero   string `json:"numero"`
	Nome     string `json:"nome"`
	Validade string `json:"validade"`
	CVV      string `json:"cvv"`
}

type Pix struct{}

func (Cartao) metodo() string { return "cartao" }
func (Pix) metodo() string    { return "pix" }

func (c Cartao) Validar() error {
	if len(mascaras.Digits(c.Numero)) < 13 {
		return ValidacaoError("Número do cartão inválido")
	}
	if strings.TrimSpace(c.Nome) == "" {
		return ValidacaoError("Nome no cartão é obrigatório")
	}
	if len(c.Validade) != 5 {
		return ValidacaoError("Validade inválida")
	}
	if len(c.CVV) < 3 {
		return ValidacaoError("CVV inválido")
	}
	return nil
}
