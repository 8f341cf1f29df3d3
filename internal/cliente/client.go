// Package cliente é o cliente HTTP fino da API da loja, usado pela vitrine de
// terminal. Os tipos de resposta são os mesmos do servidor.
package cliente

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"

	"github.com/imperio-store/loja-api/internal/busca"
	"github.com/imperio-store/loja-api/internal/carrinho"
	"github.com/imperio-store/loja-api/internal/cep"
	"github.com/imperio-store/loja-api/internal/checkout"
	"github.com/imperio-store/loja-api/internal/cupons"
	"github.com/imperio-store/loja-api/internal/pedidos"
)

const headerSessao = "X-Sessao-ID"

// ErroAPI é a resposta de erro do servidor, repassada como mensagem.
type ErroAPI struct {
	Status   int
	Mensagem string
}

func (e *ErroAPI) Error() string { return e.Mensagem }

type Client struct {
	BaseURL string
	Sessao  string
	HTTP    *http.Client
}

func New(baseURL, sessao string) *Client {
	return &Client{
		BaseURL: baseURL,
		Sessao:  sessao,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (c *Client) do(ctx context.Context, metodo, caminho string, corpo, out any) error {
	var body io.Reader
	if corpo != nil {
		b, err := json.Marshal(corpo)
		if err != nil {
			return err
		}
		body = bytes.NewReader(b)
	}
	req, err := http.NewRequestWithContext(ctx, metodo, c.BaseURL+caminho, body)
	if err != nil {
		return err
	}
	req.Header.Set(headerSessao, c.Sessao)
	if corpo != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= 400 {
		var apiErr struct {
			Erro string `json:"erro"`
		}
		if err := json.NewDecoder(resp.Body).Decode(&apiErr); err != nil || apiErr.Erro == "" {
			return &ErroAPI{Status: resp.StatusCode, Mensagem: fmt.Sprintf("erro %d", resp.StatusCode)}
		}
		return &ErroAPI{Status: resp.StatusCode, Mensagem: apiErr.Erro}
	}
	if out == nil || resp.StatusCode == http.StatusNoContent {
		return nil
	}
	return json.NewDecoder(resp.Body).Decode(out)
}

// --- carrinho ---

func (c *Client) VerCarrinho(ctx context.Context) (carrinho.Visao, error) {
	var v carrinho.Visao
	err := c.do(ctx, http.MethodGet, "/carrinho/listar", nil, &v)
	return v, err
}

func (c *Client) Adicionar(ctx context.Context, produtoID int64, quantidade int) (carrinho.Visao, error) {
	var v carrinho.Visao
	err := c.do(ctx, http.MethodPost, "/carrinho/adicionar",
		map[string]any{"produto_id": produtoID, "quantidade": quantidade}, &v)
	return v, err
}

func (c *Client) Incrementar(ctx context.Context, itemID int64) (carrinho.Visao, error) {
	return c.atualizar(ctx, itemID, "incrementar")
}

func (c *Client) Decrementar(ctx context.Context, itemID int64) (carrinho.Visao, error) {
	return c.atualizar(ctx, itemID, "decrementar")
}

func (c *Client) atualizar(ctx context.Context, itemID int64, acao string) (carrinho.Visao, error) {
	var v carrinho.Visao
	err := c.do(ctx, http.MethodPost, fmt.Sprintf("/carrinho/atualizar/%d", itemID),
		map[string]string{"acao": acao}, &v)
	return v, err
}

type removidoResp struct {
	Removido string         `json:"removido"`
	Carrinho carrinho.Visao `json:"carrinho"`
}

func (c *Client) Remover(ctx context.Context, itemID int64) (string, carrinho.Visao, error) {
	var r removidoResp
	err := c.do(ctx, http.MethodDelete, fmt.Sprintf("/carrinho/remover/%d", itemID), nil, &r)
	return r.Removido, r.Carrinho, err
}

func (c *Client) Limpar(ctx context.Context) (carrinho.Visao, error) {
	var v carrinho.Visao
	err := c.do(ctx, http.MethodPost, "/carrinho/limpar", nil, &v)
	return v, err
}

func (c *Client) AplicarCupom(ctx context.Context, codigo string) (carrinho.Visao, error) {
	var v carrinho.Visao
	err := c.do(ctx, http.MethodPost, "/carrinho/cupom", map[string]string{"codigo": codigo}, &v)
	return v, err
}

func (c *Client) RemoverCupom(ctx context.Context) (carrinho.Visao, error) {
	var v carrinho.Visao
	err := c.do(ctx, http.MethodDelete, "/carrinho/cupom", nil, &v)
	return v, err
}

// --- cupons / busca / cep ---

func (c *Client) ListarCupons(ctx context.Context) ([]cupons.Cupom, error) {
	var pool []cupons.Cupom
	err := c.do(ctx, http.MethodGet, "/cupons/listar", nil, &pool)
	return pool, err
}

func (c *Client) Buscar(ctx context.Context, termo string) ([]busca.Produto, error) {
	var produtos []busca.Produto
	err := c.do(ctx, http.MethodGet, "/produtos/buscar?q="+url.QueryEscape(termo), nil, &produtos)
	return produtos, err
}

func (c *Client) ConsultarCEP(ctx context.Context, codigo string) (cep.Endereco, error) {
	var e cep.Endereco
	err := c.do(ctx, http.MethodGet, "/cep/"+url.PathEscape(codigo), nil, &e)
	return e, err
}

// --- checkout ---

func (c *Client) IniciarCheckout(ctx context.Context) (checkout.Sessao, error) {
	var s checkout.Sessao
	err := c.do(ctx, http.MethodPost, "/checkout/iniciar", nil, &s)
	return s, err
}

func (c *Client) VerCheckout(ctx context.Context, id string) (checkout.Sessao, error) {
	var s checkout.Sessao
	err := c.do(ctx, http.MethodGet, "/checkout/"+id, nil, &s)
	return s, err
}

func (c *Client) InformarCliente(ctx context.Context, id string, dados checkout.Cliente) (checkout.Sessao, error) {
	var s checkout.Sessao
	err := c.do(ctx, http.MethodPost, "/checkout/"+id+"/cliente", dados, &s)
	return s, err
}

func (c *Client) InformarEndereco(ctx context.Context, id string, e checkout.Endereco) (checkout.Sessao, error) {
	var s checkout.Sessao
	err := c.do(ctx, http.MethodPost, "/checkout/"+id+"/endereco", e, &s)
	return s, err
}

func (c *Client) Voltar(ctx context.Context, id string) (checkout.Sessao, error) {
	var s checkout.Sessao
	err := c.do(ctx, http.MethodPost, "/checkout/"+id+"/voltar", nil, &s)
	return s, err
}

func (c *Client) FecharCheckout(ctx context.Context, id string) error {
	return c.do(ctx, http.MethodDelete, "/checkout/"+id, nil, nil)
}

func (c *Client) FinalizarCartao(ctx context.Context, id string, cartao checkout.Cartao) (checkout.Resultado, error) {
	var res checkout.Resultado
	err := c.do(ctx, http.MethodPost, "/checkout/"+id+"/finalizar",
		map[string]any{"metodo": pedidos.MetodoCartao, "cartao": cartao}, &res)
	return res, err
}

func (c *Client) FinalizarPix(ctx context.Context, id string) (checkout.Resultado, error) {
	var res checkout.Resultado
	err := c.do(ctx, http.MethodPost, "/checkout/"+id+"/finalizar",
		map[string]any{"metodo": pedidos.MetodoPix}, &res)
	return res, err
}

func (c *Client) StatusPix(ctx context.Context, idPagamento string) (string, error) {
	var resp struct {
		Status string `json:"status"`
	}
	err := c.do(ctx, http.MethodGet, "/pix/status/"+url.PathEscape(idPagamento), nil, &resp)
	return resp.Status, err
}
