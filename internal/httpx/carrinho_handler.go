package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/imperio-store/loja-api/internal/carrinho"
)

type CarrinhoHandler struct {
	Carrinho *carrinho.Service
}

func (h *CarrinhoHandler) Register(r *chi.Mux) {
	r.Get("/carrinho/listar", h.listar)
	r.Post("/carrinho/adicionar", h.adicionar)
	r.Post("/carrinho/atualizar/{id}", h.atualizar)
	r.Delete("/carrinho/remover/{id}", h.remover)
	r.Post("/carrinho/limpar", h.limpar)
	r.Post("/carrinho/cupom", h.aplicarCupom)
	r.Delete("/carrinho/cupom", h.removerCupom)
}

type adicionarReq struct {
	ProdutoID  int64 `json:"produto_id"`
	Quantidade int   `json:"quantidade"`
}

type atualizarReq struct {
	// Acao é "incrementar" ou "decrementar"; a vitrine só mexe de um em um.
	Acao string `json:"acao"`
}

type cupomReq struct {
	Codigo string `json:"codigo"`
}

type removidoResp struct {
	Removido string         `json:"removido"`
	Carrinho carrinho.Visao `json:"carrinho"`
}

func (h *CarrinhoHandler) listar(w http.ResponseWriter, r *http.Request) {
	sessao, ok := sessaoID(w, r)
	if !ok {
		return
	}
	visao, err := h.Carrinho.Ver(r.Context(), sessao)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visao)
}

func (h *CarrinhoHandler) adicionar(w http.ResponseWriter, r *http.Request) {
	sessao, ok := sessaoID(w, r)
	if !ok {
		return
	}
	var req adicionarReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErro(w, http.StatusBadRequest, "json inválido")
		return
	}
	if req.ProdutoID == 0 {
		writeErro(w, http.StatusBadRequest, "produto_id obrigatório")
		return
	}
	if req.Quantidade == 0 {
		req.Quantidade = 1
	}
	visao, err := h.Carrinho.Adicionar(r.Context(), sessao, req.ProdutoID, req.Quantidade)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visao)
}

func (h *CarrinhoHandler) atualizar(w http.ResponseWriter, r *http.Request) {
	sessao, ok := sessaoID(w, r)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErro(w, http.StatusBadRequest, "id inválido")
		return
	}
	var req atualizarReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErro(w, http.StatusBadRequest, "json inválido")
		return
	}

	var visao carrinho.Visao
	switch req.Acao {
	case "incrementar":
		visao, err = h.Carrinho.Incrementar(r.Context(), sessao, itemID)
	case "decrementar":
		visao, err = h.Carrinho.Decrementar(r.Context(), sessao, itemID)
	default:
		writeErro(w, http.StatusBadRequest, "acao deve ser incrementar ou decrementar")
		return
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visao)
}

func (h *CarrinhoHandler) remover(w http.ResponseWriter, r *http.Request) {
	sessao, ok := sessaoID(w, r)
	if !ok {
		return
	}
	itemID, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeErro(w, http.StatusBadRequest, "id inválido")
		return
	}
	nome, visao, err := h.Carrinho.Remover(r.Context(), sessao, itemID)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, removidoResp{Removido: nome, Carrinho: visao})
}

func (h *CarrinhoHandler) limpar(w http.ResponseWriter, r *http.Request) {
	sessao, ok := sessaoID(w, r)
	if !ok {
		return
	}
	visao, err := h.Carrinho.Limpar(r.Context(), sessao)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visao)
}

func (h *CarrinhoHandler) aplicarCupom(w http.ResponseWriter, r *http.Request) {
	sessao, ok := sessaoID(w, r)
	if !ok {
		return
	}
	var req cupomReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErro(w, http.StatusBadRequest, "json inválido")
		return
	}
	if _, err := h.Carrinho.AplicarCupom(r.Context(), sessao, req.Codigo); err != nil {
		writeErr(w, err)
		return
	}
	visao, err := h.Carrinho.Ver(r.Context(), sessao)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visao)
}

func (h *CarrinhoHandler) removerCupom(w http.ResponseWriter, r *http.Request) {
	sessao, ok := sessaoID(w, r)
	if !ok {
		return
	}
	if err := h.Carrinho.RemoverCupom(r.Context(), sessao); err != nil {
		writeErr(w, err)
		return
	}
	visao, err := h.Carrinho.Ver(r.Context(), sessao)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, visao)
}
