package notificacoes

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepo struct{ DB *pgxpool.Pool }

// Gravar é idempotente por evento_id: redelivery do mesmo evento não duplica.
func (r *PgRepo) Gravar(ctx context.Context, n Notificacao) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO notificacoes(evento_id, tipo, pedido_id, mensagem)
		VALUES ($1,$2,$3,$4)
		ON CONFLICT (evento_id) DO NOTHING`,
		n.EventoID, n.Tipo, n.PedidoID, n.Mensagem)
	return err
}
