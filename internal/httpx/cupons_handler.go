package httpx

import (
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/imperio-store/loja-api/internal/cupons"
)

type CuponsHandler struct {
	Diretorio *cupons.Diretorio

	// PrefixosFreteGratis são os primeiros dígitos de CEP elegíveis para o
	// cupom de frete grátis de 24h. Regra de configuração, não de domínio.
	PrefixosFreteGratis []string
}

func (h *CuponsHandler) Register(r *chi.Mux) {
	r.Get("/cupons/listar", h.listar)
	r.Get("/cupons/frete-gratis-24h/ativo", h.freteGratisAtivo)
	r.Post("/cupons/frete-gratis-24h", h.freteGratisProvisionar)
}

func (h *CuponsHandler) listar(w http.ResponseWriter, r *http.Request) {
	pool, err := h.Diretorio.ListarAtivos(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, pool)
}

func (h *CuponsHandler) freteGratisAtivo(w http.ResponseWriter, r *http.Request) {
	c, err := h.Diretorio.FreteGratisAtivo(r.Context())
	if errors.Is(err, cupons.ErrNaoEncontrado) {
		writeErro(w, http.StatusNotFound, "nenhum cupom de frete grátis vigente")
		return
	}
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

func (h *CuponsHandler) freteGratisProvisionar(w http.ResponseWriter, r *http.Request) {
	cep := r.URL.Query().Get("cep")
	if !h.cepElegivel(cep) {
		writeErro(w, http.StatusUnprocessableEntity, "CEP não elegível para frete grátis")
		return
	}
	c, err := h.Diretorio.FreteGratis24h(r.Context())
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CuponsHandler) cepElegivel(cep string) bool {
	cep = strings.TrimSpace(cep)
	for _, p := range h.PrefixosFreteGratis {
		if strings.HasPrefix(cep, p) {
			return true
		}
	}
	return false
}
