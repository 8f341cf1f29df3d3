package pedidos

import "time"

const (
	MetodoCartao = "cartao"
	MetodoPix    = "pix"
)

type Pedido struct {
	ID       string `json:"id"`
	SessaoID string `json:"-"`

	NomeCompleto string `json:"nome_completo"`
	CPF          string `json:"cpf"`
	Telefone     string `json:"telefone"`
	Email        string `json:"email"`

	CEP         string `json:"cep"`
	Logradouro  string `json:"logradouro"`
	Numero      string `json:"numero"`
	Complemento string `json:"complemento,omitempty"`
	Bairro      string `json:"bairro"`
	Cidade      string `json:"cidade"`
	UF          string `json:"uf"`

	MetodoPagamento string `json:"metodo_pagamento"`
	// CartaoFinal guarda só a forma mascarada do número; o número cru nunca
	// é persistido.
	CartaoFinal string `json:"cartao_final,omitempty"`
	CupomCodigo string `json:"cupom_codigo,omitempty"`

	TotalCentavos int64        `json:"total_centavos"`
	Status        Status       `json:"status"`
	Itens         []ItemPedido `json:"itens,omitempty"`
	CriadoEm      time.Time    `json:"criado_em"`
}

type ItemPedido struct {
	ProdutoID     int64  `json:"produto_id"`
	Nome          string `json:"nome"`
	PrecoCentavos int64  `json:"preco_centavos"`
	Quantidade    int    `json:"quantidade"`
}
