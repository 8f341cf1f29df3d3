// Package cep consulta o serviço externo de CEP (compatível com a API do
// ViaCEP) para preencher o endereço de entrega.
package cep

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/imperio-store/loja-api/internal/mascaras"
)

var (
	ErrCEPInvalido   = errors.New("CEP inválido, deve conter 8 números")
	ErrNaoEncontrado = errors.New("CEP não encontrado")
)

type Endereco struct {
	CEP        string `json:"cep"`
	Logradouro string `json:"logradouro"`
	Bairro     string `json:"bairro"`
	Localidade string `json:"localidade"`
	UF         string `json:"uf"`
}

type Client struct {
	BaseURL string
	HTTP    *http.Client
}

func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 5 * time.Second},
	}
}

// Consultar busca o endereço do CEP. O serviço responde 200 com {"erro":true}
// quando o CEP não existe; isso vira ErrNaoEncontrado.
func (c *Client) Consultar(ctx context.Context, cep string) (Endereco, error) {
	limpo := mascaras.Digits(cep)
	if len(limpo) != 8 {
		return Endereco{}, ErrCEPInvalido
	}

	url := fmt.Sprintf("%s/ws/%s/json/", c.BaseURL, limpo)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Endereco{}, err
	}
	resp, err := c.HTTP.Do(req)
	if err != nil {
		return Endereco{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return Endereco{}, fmt.Errorf("consulta de CEP: status %d", resp.StatusCode)
	}

	var body struct {
		Endereco
		Erro bool `json:"erro"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return Endereco{}, err
	}
	if body.Erro {
		return Endereco{}, ErrNaoEncontrado
	}
	return body.Endereco, nil
}
