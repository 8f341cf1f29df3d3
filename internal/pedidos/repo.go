package pedidos

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

var (
	ErrNaoEncontrado     = errors.New("pedido não encontrado")
	ErrTransicaoInvalida = errors.New("transição de status inválida")
)

type Repo struct{ DB *pgxpool.Pool }

// Criar insere o pedido e os itens numa transação e devolve o id gerado.
func (r *Repo) Criar(ctx context.Context, p Pedido) (Pedido, error) {
	tx, err := r.DB.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return Pedido{}, err
	}
	defer func() { _ = tx.Rollback(ctx) }()

	p.ID = uuid.NewString()
	p.CriadoEm = time.Now().UTC()

	_, err = tx.Exec(ctx, `
		INSERT INTO pedidos(id, sessao_id, nome_completo, cpf, telefone, email,
		                    cep, logradouro, numero, complemento, bairro, cidade, uf,
		                    metodo_pagamento, cartao_final, cupom_codigo, total_centavos, status, criado_em)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18,$19)`,
		p.ID, p.SessaoID, p.NomeCompleto, p.CPF, p.Telefone, p.Email,
		p.CEP, p.Logradouro, p.Numero, p.Complemento, p.Bairro, p.Cidade, p.UF,
		p.MetodoPagamento, p.CartaoFinal, p.CupomCodigo, p.TotalCentavos, p.Status, p.CriadoEm)
	if err != nil {
		return Pedido{}, err
	}

	for _, it := range p.Itens {
		_, err = tx.Exec(ctx, `
			INSERT INTO pedido_itens(pedido_id, produto_id, nome, preco_centavos, quantidade)
			VALUES ($1,$2,$3,$4,$5)`,
			p.ID, it.ProdutoID, it.Nome, it.PrecoCentavos, it.Quantidade)
		if err != nil {
			return Pedido{}, err
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return Pedido{}, err
	}
	return p, nil
}

// AtualizarStatus respeita a máquina de estados: só escreve quando a
// transição do status atual para o novo é permitida.
func (r *Repo) AtualizarStatus(ctx context.Context, pedidoID string, novo Status) error {
	var atual Status
	err := r.DB.QueryRow(ctx, `SELECT status FROM pedidos WHERE id=$1`, pedidoID).Scan(&atual)
	if errors.Is(err, pgx.ErrNoRows) {
		return ErrNaoEncontrado
	}
	if err != nil {
		return err
	}
	if !CanTransition(atual, novo) {
		return fmt.Errorf("%w: %s -> %s", ErrTransicaoInvalida, atual, novo)
	}
	_, err = r.DB.Exec(ctx, `UPDATE pedidos SET status=$1, atualizado_em=now() WHERE id=$2 AND status=$3`,
		novo, pedidoID, atual)
	return err
}

func (r *Repo) Buscar(ctx context.Context, pedidoID string) (Pedido, error) {
	var p Pedido
	err := r.DB.QueryRow(ctx, `
		SELECT id, sessao_id, nome_completo, cpf, telefone, email,
		       cep, logradouro, numero, complemento, bairro, cidade, uf,
		       metodo_pagamento, cartao_final, cupom_codigo, total_centavos, status, criado_em
		FROM pedidos WHERE id=$1`, pedidoID).Scan(
		&p.ID, &p.SessaoID, &p.NomeCompleto, &p.CPF, &p.Telefone, &p.Email,
		&p.CEP, &p.Logradouro, &p.Numero, &p.Complemento, &p.Bairro, &p.Cidade, &p.UF,
		&p.MetodoPagamento, &p.CartaoFinal, &p.CupomCodigo, &p.TotalCentavos, &p.Status, &p.CriadoEm)
	if errors.Is(err, pgx.ErrNoRows) {
		return Pedido{}, ErrNaoEncontrado
	}
	if err != nil {
		return Pedido{}, err
	}

	rows, err := r.DB.Query(ctx, `SELECT produto_id, nome, preco_centavos, quantidade
	                              FROM pedido_itens WHERE pedido_id=$1 ORDER BY id`, pedidoID)
	if err != nil {
		return Pedido{}, err
	}
	defer rows.Close()
	for rows.Next() {
		var it ItemPedido
		if err := rows.Scan(&it.ProdutoID, &it.Nome, &it.PrecoCentavos, &it.Quantidade); err != nil {
			return Pedido{}, err
		}
		p.Itens = append(p.Itens, it)
	}
	return p, rows.Err()
}
