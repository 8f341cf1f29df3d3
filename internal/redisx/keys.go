package redisx

import "time"

const (
	// Cupom aplicado por sessão: carrinho:cupom:{sessao_id} -> Cupom em JSON
	KeyCupomAplicado = "carrinho:cupom:%s"

	// Pool de cupons ativos (cache da listagem): cupons:ativos
	KeyCuponsAtivos = "cupons:ativos"

	// Sessão de checkout: checkout:sessao:{id} -> Sessao em JSON
	KeyCheckoutSessao = "checkout:sessao:%s"

	// Status de cobrança Pix: pix:status:{id_pagamento} -> pending|approved|cancelled
	KeyPixStatus = "pix:status:%s"

	// Dedup de eventos consumidos: dedup:{service}:{event_id}
	KeyDedup = "dedup:%s:%s"
)

var (
	TTLCupomAplicado  = 24 * time.Hour
	TTLCuponsAtivos   = 1 * time.Minute
	TTLCheckoutSessao = 1 * time.Hour
	TTLPixStatus      = 24 * time.Hour
	TTLDedup          = 48 * time.Hour
)
