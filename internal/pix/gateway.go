// Package pix fala com o gateway externo de cobranças Pix e acompanha a
// liquidação assíncrona por polling.
package pix

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"
)

type Status string

const (
	StatusPendente  Status = "pending"
	StatusAprovado  Status = "approved"
	StatusCancelado Status = "cancelled"
)

type CobrancaReq struct {
	ValorCentavos int64  `json:"valor_centavos"`
	Nome          string `json:"nome"`
	Email         string `json:"email"`
}

type Cobranca struct {
	QRCodeBase64 string `json:"qr_code_base64"`
	CopiaECola   string `json:"qr_code"`
	IDPagamento  string `json:"id_pagamento"`
}

type Gateway interface {
	CriarCobranca(ctx context.Context, req CobrancaReq) (Cobranca, error)
	Status(ctx context.Context, idPagamento string) (Status, error)
}

type HTTPGateway struct {
	BaseURL string
	HTTP    *http.Client
}

func NewHTTPGateway(baseURL string) *HTTPGateway {
	return &HTTPGateway{
		BaseURL: baseURL,
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

func (g *HTTPGateway) CriarCobranca(ctx context.Context, reqBody CobrancaReq) (Cobranca, error) {
	b, err := json.Marshal(reqBody)
	if err != nil {
		return Cobranca{}, err
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, g.BaseURL+"/cobrancas", bytes.NewReader(b))
	if err != nil {
		return Cobranca{}, err
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := g.HTTP.Do(req)
	if err != nil {
		return Cobranca{}, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusCreated {
		return Cobranca{}, fmt.Errorf("criar cobrança pix: status %d", resp.StatusCode)
	}
	var c Cobranca
	if err := json.NewDecoder(resp.Body).Decode(&c); err != nil {
		return Cobranca{}, err
	}
	return c, nil
}

func (g *HTTPGateway) Status(ctx context.Context, idPagamento string) (Status, error) {
	url := fmt.Sprintf("%s/cobrancas/%s", g.BaseURL, idPagamento)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return "", err
	}
	resp, err := g.HTTP.Do(req)
	if err != nil {
		return "", err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", fmt.Errorf("status pix: status %d", resp.StatusCode)
	}
	var body struct {
		Status Status `json:"status"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", err
	}
	return body.Status, nil
}
