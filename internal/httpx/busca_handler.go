package httpx

import (
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/imperio-store/loja-api/internal/busca"
	"github.com/imperio-store/loja-api/internal/cep"
)

type BuscaHandler struct {
	Buscador busca.Buscador
}

func (h *BuscaHandler) Register(r *chi.Mux) {
	r.Get("/produtos/buscar", h.buscar)
}

func (h *BuscaHandler) buscar(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	if q == "" {
		writeJSON(w, http.StatusOK, []busca.Produto{})
		return
	}
	produtos, err := h.Buscador.Buscar(r.Context(), q)
	if err != nil {
		writeErr(w, err)
		return
	}
	if produtos == nil {
		produtos = []busca.Produto{}
	}
	writeJSON(w, http.StatusOK, produtos)
}

type CEPHandler struct {
	CEP *cep.Client
}

func (h *CEPHandler) Register(r *chi.Mux) {
	r.Get("/cep/{codigo}", h.consultar)
}

func (h *CEPHandler) consultar(w http.ResponseWriter, r *http.Request) {
	end, err := h.CEP.Consultar(r.Context(), chi.URLParam(r, "codigo"))
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, end)
}
