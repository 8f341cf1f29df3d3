package cupons

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type Repo struct{ DB *pgxpool.Pool }

func (r *Repo) Listar(ctx context.Context) ([]Cupom, error) {
	rows, err := r.DB.Query(ctx, `SELECT codigo, label, desconto_percentual, frete_gratis,
	                                     pedido_minimo_centavos, validade, status_id
	                              FROM cupons ORDER BY codigo`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Cupom
	for rows.Next() {
		var c Cupom
		if err := rows.Scan(&c.Codigo, &c.Label, &c.DescontoPercentual, &c.FreteGratis,
			&c.PedidoMinimoCentavos, &c.Validade, &c.StatusID); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

func (r *Repo) Criar(ctx context.Context, c Cupom) error {
	_, err := r.DB.Exec(ctx, `
		INSERT INTO cupons(codigo, label, desconto_percentual, frete_gratis,
		                   pedido_minimo_centavos, validade, status_id)
		VALUES ($1,$2,$3,$4,$5,$6,$7)`,
		c.Codigo, c.Label, c.DescontoPercentual, c.FreteGratis,
		c.PedidoMinimoCentavos, c.Validade, c.StatusID)
	return err
}

// FreteGratisVigente devolve o cupom de frete grátis de 24h ainda válido, se
// houver um. pgx.ErrNoRows vira ErrNaoEncontrado para o chamador decidir criar.
func (r *Repo) FreteGratisVigente(ctx context.Context, agora time.Time) (*Cupom, error) {
	row := r.DB.QueryRow(ctx, `SELECT codigo, label, desconto_percentual, frete_gratis,
	                                  pedido_minimo_centavos, validade, status_id
	                           FROM cupons
	                           WHERE frete_gratis AND status_id = $1 AND validade >= $2
	                                 AND codigo LIKE 'FRETEGRATIS-%'
	                           ORDER BY validade DESC LIMIT 1`, StatusAtivo, agora)
	var c Cupom
	err := row.Scan(&c.Codigo, &c.Label, &c.DescontoPercentual, &c.FreteGratis,
		&c.PedidoMinimoCentavos, &c.Validade, &c.StatusID)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNaoEncontrado
	}
	if err != nil {
		return nil, err
	}
	return &c, nil
}
