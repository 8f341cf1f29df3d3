package pedidos

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
)

// PagamentoPix amarra a cobrança do gateway ao pedido que ela liquida.
type PagamentoPix struct {
	IDPagamento string    `json:"id_pagamento"`
	PedidoID    string    `json:"pedido_id"`
	SessaoID    string    `json:"-"`
	Status      string    `json:"status"`
	QRCode      string    `json:"qr_code,omitempty"`
	CriadoEm    time.Time `json:"criado_em"`
}

func (r *Repo) CriarPagamentoPix(ctx context.Context, p PagamentoPix) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO pagamentos_pix(id_pagamento, pedido_id, sessao_id, status, qr_code)
		VALUES ($1,$2,$3,$4,$5)`,
		p.IDPagamento, p.PedidoID, p.SessaoID, p.Status, p.QRCode)
	return err
}

func (r *Repo) AtualizarPagamentoPix(ctx context.Context, idPagamento, status string) error {
	tag, err := r.DB.Exec(ctx, `
		UPDATE pagamentos_pix SET status=$1, atualizado_em=now() WHERE id_pagamento=$2`,
		status, idPagamento)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return ErrNaoEncontrado
	}
	return nil
}

func (r *Repo) BuscarPagamentoPix(ctx context.Context, idPagamento string) (PagamentoPix, error) {
	var p PagamentoPix
	err := r.DB.QueryRow(ctx, `
		SELECT id_pagamento, pedido_id, sessao_id, status, qr_code, criado_em
		FROM pagamentos_pix WHERE id_pagamento=$1`, idPagamento).Scan(
		&p.IDPagamento, &p.PedidoID, &p.SessaoID, &p.Status, &p.QRCode, &p.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return PagamentoPix{}, ErrNaoEncontrado
	}
	return p, err
}
