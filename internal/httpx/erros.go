package httpx

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/imperio-store/loja-api/internal/carrinho"
	"github.com/imperio-store/loja-api/internal/cep"
	"github.com/imperio-store/loja-api/internal/checkout"
	"github.com/imperio-store/loja-api/internal/cupons"
	"github.com/imperio-store/loja-api/internal/pedidos"
)

// HeaderSessao identifica a sessão anônima da vitrine em toda a API.
const HeaderSessao = "X-Sessao-ID"

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func writeErro(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"erro": msg})
}

// writeErr traduz os erros de domínio para status HTTP; o que não é
// reconhecido vira 500 genérico sem vazar detalhe interno.
func writeErr(w http.ResponseWriter, err error) {
	var validacao checkout.ValidacaoError
	var minimo *cupons.PedidoMinimoError

	switch {
	case errors.As(err, &validacao):
		writeErro(w, http.StatusBadRequest, validacao.Error())
	case errors.As(err, &minimo):
		writeErro(w, http.StatusUnprocessableEntity, minimo.Error())
	case errors.Is(err, cupons.ErrNaoEncontrado):
		writeErro(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, carrinho.ErrCupomVazio),
		errors.Is(err, carrinho.ErrCarrinhoVazio),
		errors.Is(err, cep.ErrCEPInvalido):
		writeErro(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, carrinho.ErrCupomJaAplicado),
		errors.Is(err, carrinho.ErrConflito):
		writeErro(w, http.StatusConflict, err.Error())
	case errors.Is(err, carrinho.ErrItemNaoEncontrado),
		errors.Is(err, checkout.ErrSessaoNaoEncontrada),
		errors.Is(err, pedidos.ErrNaoEncontrado),
		errors.Is(err, cep.ErrNaoEncontrado):
		writeErro(w, http.StatusNotFound, err.Error())
	default:
		writeErro(w, http.StatusInternalServerError, "erro interno")
	}
}

// sessaoID lê a sessão do header; toda rota de carrinho/checkout exige uma.
func sessaoID(w http.ResponseWriter, r *http.Request) (string, bool) {
	id := r.Header.Get(HeaderSessao)
	if id == "" {
		writeErro(w, http.StatusBadRequest, "header "+HeaderSessao+" ausente")
		return "", false
	}
	return id, true
}
