package busca

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

const limiteResultados = 10

type PgBuscador struct{ DB *pgxpool.Pool }

// Buscar faz match de substring sem distinguir maiúsculas, limitado aos dez
// primeiros produtos por nome.
func (b *PgBuscador) Buscar(ctx context.Context, termo string) ([]Produto, error) {
	rows, err := b.DB.Query(ctx, `
		SELECT id, nome, preco_centavos
		FROM produtos
		WHERE nome ILIKE '%' || $1 || '%'
		ORDER BY nome
		LIMIT $2`, termo, limiteResultados)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var produtos []Produto
	for rows.Next() {
		var p Produto
		if err := rows.Scan(&p.ID, &p.Nome, &p.PrecoCentavos); err != nil {
			return nil, err
		}
		produtos = append(produtos, p)
	}
	return produtos, rows.Err()
}
