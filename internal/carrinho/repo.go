package carrinho

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

type PgRepo struct{ DB *pgxpool.Pool }

func (r *PgRepo) Listar(ctx context.Context, sessaoID string) ([]Item, error) {
	rows, err := r.DB.Query(ctx, `
		SELECT ci.id, ci.produto_id, p.nome, p.preco_centavos, ci.quantidade, ci.versao
		FROM carrinho_itens ci
		JOIN produtos p ON p.id = ci.produto_id
		WHERE ci.sessao_id = $1
		ORDER BY ci.id`, sessaoID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []Item
	for rows.Next() {
		var it Item
		if err := rows.Scan(&it.ID, &it.ProdutoID, &it.Nome, &it.PrecoCentavos, &it.Quantidade, &it.Versao); err != nil {
			return nil, err
		}
		out = append(out, it)
	}
	return out, rows.Err()
}

// Adicionar insere o produto ou soma a quantidade no item existente, sem
// passar do teto de 10 unidades.
func (r *PgRepo) Adicionar(ctx context.Context, sessaoID string, produtoID int64, quantidade int) error {
	if quantidade < QuantidadeMinima {
		quantidade = QuantidadeMinima
	}
	ct, err := r.DB.Exec(ctx, `
		INSERT INTO carrinho_itens(sessao_id, produto_id, quantidade)
		VALUES ($1, $2, LEAST($3, 10))
		ON CONFLICT (sessao_id, produto_id) DO UPDATE
		SET quantidade = LEAST(carrinho_itens.quantidade + EXCLUDED.quantidade, 10),
		    versao     = carrinho_itens.versao + 1`,
		sessaoID, produtoID, quantidade)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrItemNaoEncontrado
	}
	return nil
}

// AtualizarQuantidade é compare-and-set na versão do item: se a versão
// observada não for mais a atual, nenhuma linha é afetada e a escrita velha
// não sobrescreve a nova.
func (r *PgRepo) AtualizarQuantidade(ctx context.Context, sessaoID string, itemID int64, quantidade int, versao int64) error {
	ct, err := r.DB.Exec(ctx, `
		UPDATE carrinho_itens
		SET quantidade = $1, versao = versao + 1
		WHERE id = $2 AND sessao_id = $3 AND versao = $4`,
		quantidade, itemID, sessaoID, versao)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		// distingue item sumido de escrita concorrente
		var existe bool
		err := r.DB.QueryRow(ctx, `SELECT true FROM carrinho_itens WHERE id=$1 AND sessao_id=$2`,
			itemID, sessaoID).Scan(&existe)
		if errors.Is(err, pgx.ErrNoRows) {
			return ErrItemNaoEncontrado
		}
		if err != nil {
			return err
		}
		return ErrConflito
	}
	return nil
}

func (r *PgRepo) Remover(ctx context.Context, sessaoID string, itemID int64) error {
	ct, err := r.DB.Exec(ctx, `DELETE FROM carrinho_itens WHERE id=$1 AND sessao_id=$2`, itemID, sessaoID)
	if err != nil {
		return err
	}
	if ct.RowsAffected() == 0 {
		return ErrItemNaoEncontrado
	}
	return nil
}

func (r *PgRepo) Limpar(ctx context.Context, sessaoID string) error {
	_, err := r.DB.Exec(ctx, `DELETE FROM carrinho_itens WHERE sessao_id=$1`, sessaoID)
	return err
}
