package pix

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type fakeGateway struct {
	mu       sync.Mutex
	statuses []Status
	criarErr error
}

func (f *fakeGateway) CriarCobranca(context.Context, CobrancaReq) (Cobranca, error) {
	if f.criarErr != nil {
		return Cobranca{}, f.criarErr
	}
	return Cobranca{QRCodeBase64: "aW1n", CopiaECola: "000201...", IDPagamento: "pg-1"}, nil
}

func (f *fakeGateway) Status(context.Context, string) (Status, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.statuses) == 0 {
		return StatusPendente, nil
	}
	st := f.statuses[0]
	if len(f.statuses) > 1 {
		f.statuses = f.statuses[1:]
	}
	return st, nil
}

func TestAcompanharAprovado(t *testing.T) {
	gw := &fakeGateway{statuses: []Status{StatusPendente, StatusAprovado}}
	p := &Poller{Gateway: gw, Intervalo: time.Millisecond, Log: zerolog.Nop()}

	var aprovado, cancelado int
	p.Acompanhar(context.Background(), "pg-1",
		func(context.Context) { aprovado++ },
		func(context.Context) { cancelado++ })

	assert.Equal(t, 1, aprovado)
	assert.Zero(t, cancelado)
}

func TestAcompanharCancelado(t *testing.T) {
	gw := &fakeGateway{statuses: []Status{StatusCancelado}}
	p := &Poller{Gateway: gw, Intervalo: time.Millisecond, Log: zerolog.Nop()}

	var aprovado, cancelado int
	p.Acompanhar(context.Background(), "pg-1",
		func(context.Context) { aprovado++ },
		func(context.Context) { cancelado++ })

	assert.Zero(t, aprovado)
	assert.Equal(t, 1, cancelado)
}

func TestAcompanharParaComContextoCancelado(t *testing.T) {
	gw := &fakeGateway{} // sempre pendente
	p := &Poller{Gateway: gw, Intervalo: time.Millisecond, Log: zerolog.Nop()}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		p.Acompanhar(ctx, "pg-1", func(context.Context) {}, func(context.Context) {})
		close(done)
	}()

	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("poller não parou com o contexto cancelado")
	}
}
