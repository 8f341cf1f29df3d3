package pedidos

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCanTransition(t *testing.T) {
	assert.True(t, CanTransition(StatusCriado, StatusPago))
	assert.True(t, CanTransition(StatusAguardandoPagamento, StatusPago))
	assert.True(t, CanTransition(StatusAguardandoPagamento, StatusCancelado))

	// estados terminais não saem do lugar
	assert.False(t, CanTransition(StatusPago, StatusCancelado))
	assert.False(t, CanTransition(StatusCancelado, StatusPago))
	assert.False(t, CanTransition(StatusPago, StatusAguardandoPagamento))
}
