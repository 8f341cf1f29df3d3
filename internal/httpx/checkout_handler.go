package httpx

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/imperio-store/loja-api/internal/checkout"
	"github.com/imperio-store/loja-api/internal/pedidos"
)

type CheckoutHandler struct {
	Checkout *checkout.Service
	Pedidos  *pedidos.Repo
}

func (h *CheckoutHandler) Register(r *chi.Mux) {
	r.Post("/checkout/iniciar", h.iniciar)
	r.Get("/checkout/{id}", h.ver)
	r.Post("/checkout/{id}/cliente", h.cliente)
	r.Post("/checkout/{id}/endereco", h.endereco)
	r.Post("/checkout/{id}/voltar", h.voltar)
	r.Delete("/checkout/{id}", h.fechar)
	r.Post("/checkout/{id}/finalizar", h.finalizar)

	// atalhos de pagamento usados pela vitrine; delegam no mesmo fluxo de
	// finalização da sessão
	r.Post("/pedido/criar", h.pedidoCriar)
	r.Get("/pedido/{id}", h.pedidoBuscar)
	r.Post("/pix/criar", h.pixCriar)
	r.Get("/pix/status/{id}", h.pixStatus)
}

type finalizarReq struct {
	Metodo string           `json:"metodo"`
	Cartao *checkout.Cartao `json:"cartao,omitempty"`
}

type pagamentoReq struct {
	CheckoutID string           `json:"checkout_id"`
	Cartao     *checkout.Cartao `json:"cartao,omitempty"`
}

func (h *CheckoutHandler) iniciar(w http.ResponseWriter, r *http.Request) {
	sessao, ok := sessaoID(w, r)
	if !ok {
		return
	}
	s, err := h.Checkout.Iniciar(r.Context(), sessao)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, s)
}

func (h *CheckoutHandler) ver(w http.ResponseWriter, r *http.Request) {
	s, err := h.Checkout.Ver(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CheckoutHandler) cliente(w http.ResponseWriter, r *http.Request) {
	var c checkout.Cliente
	if err := json.NewDecoder(r.Body).Decode(&c); err != nil {
		writeErro(w, http.StatusBadRequest, "json inválido")
		return
	}
	s, err := h.Checkout.InformarCliente(r.Context(), chi.URLParam(r, "id"), c)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CheckoutHandler) endereco(w http.ResponseWriter, r *http.Request) {
	var e checkout.Endereco
	if err := json.NewDecoder(r.Body).Decode(&e); err != nil {
		writeErro(w, http.StatusBadRequest, "json inválido")
		return
	}
	s, err := h.Checkout.InformarEndereco(r.Context(), chi.URLParam(r, "id"), e)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CheckoutHandler) voltar(w http.ResponseWriter, r *http.Request) {
	s, err := h.Checkout.Voltar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, s)
}

func (h *CheckoutHandler) fechar(w http.ResponseWriter, r *http.Request) {
	if err := h.Checkout.Fechar(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeErr(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *CheckoutHandler) finalizar(w http.ResponseWriter, r *http.Request) {
	var req finalizarReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErro(w, http.StatusBadRequest, "json inválido")
		return
	}
	h.finalizarCom(w, r, chi.URLParam(r, "id"), req.Metodo, req.Cartao)
}

func (h *CheckoutHandler) pedidoCriar(w http.ResponseWriter, r *http.Request) {
	var req pagamentoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErro(w, http.StatusBadRequest, "json inválido")
		return
	}
	h.finalizarCom(w, r, req.CheckoutID, pedidos.MetodoCartao, req.Cartao)
}

func (h *CheckoutHandler) pixCriar(w http.ResponseWriter, r *http.Request) {
	var req pagamentoReq
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeErro(w, http.StatusBadRequest, "json inválido")
		return
	}
	h.finalizarCom(w, r, req.CheckoutID, pedidos.MetodoPix, nil)
}

func (h *CheckoutHandler) finalizarCom(w http.ResponseWriter, r *http.Request, checkoutID, metodo string, cartao *checkout.Cartao) {
	var pagamento checkout.Pagamento
	switch metodo {
	case pedidos.MetodoCartao:
		if cartao == nil {
			writeErro(w, http.StatusBadRequest, "dados do cartão obrigatórios")
			return
		}
		pagamento = *cartao
	case pedidos.MetodoPix:
		pagamento = checkout.Pix{}
	default:
		writeErro(w, http.StatusBadRequest, "metodo deve ser cartao ou pix")
		return
	}

	res, err := h.Checkout.Finalizar(r.Context(), checkoutID, pagamento)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, res)
}

func (h *CheckoutHandler) pedidoBuscar(w http.ResponseWriter, r *http.Request) {
	p, err := h.Pedidos.Buscar(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (h *CheckoutHandler) pixStatus(w http.ResponseWriter, r *http.Request) {
	st, err := h.Checkout.StatusPix(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": string(st)})
}
