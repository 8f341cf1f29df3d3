package pedidos

import (
	"encoding/json"
	"time"
)

const (
	EventPedidoCriado       = "PedidoCriado"
	EventPagamentoAprovado  = "PagamentoAprovado"
	EventPagamentoCancelado = "PagamentoCancelado"
)

type Envelope struct {
	EventID       string          `json:"event_id"`
	EventType     string          `json:"event_type"`
	EventVersion  int             `json:"event_version"`
	OccurredAt    time.Time       `json:"occurred_at"`
	Producer      string          `json:"producer"`
	TraceID       string          `json:"trace_id,omitempty"`
	CorrelationID string          `json:"correlation_id,omitempty"` // em geral o id do pedido
	Payload       json.RawMessage `json:"payload"`
}

type PedidoCriadoPayload struct {
	PedidoID        string       `json:"pedido_id"`
	SessaoID        string       `json:"sessao_id"`
	Email           string       `json:"email"`
	MetodoPagamento string       `json:"metodo_pagamento"`
	Itens           []ItemPedido `json:"itens,omitempty"`
	TotalCentavos   int64        `json:"total_centavos"`
}

type PagamentoAprovadoPayload struct {
	PedidoID      string `json:"pedido_id"`
	PagamentoID   string `json:"pagamento_id"`
	TotalCentavos int64  `json:"total_centavos"`
}

type PagamentoCanceladoPayload struct {
	PedidoID    string `json:"pedido_id"`
	PagamentoID string `json:"pagamento_id"`
	Motivo      string `json:"motivo,omitempty"`
}
