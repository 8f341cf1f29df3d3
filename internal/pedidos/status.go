package pedidos

type Status string

const (
	StatusCriado              Status = "CRIADO"
	StatusAguardandoPagamento Status = "AGUARDANDO_PAGAMENTO"
	StatusPago                Status = "PAGO"
	StatusCancelado           Status = "CANCELADO"
)

var validNext = map[Status]map[Status]bool{
	StatusCriado:              {StatusAguardandoPagamento: true, StatusPago: true, StatusCancelado: true},
	StatusAguardandoPagamento: {StatusPago: true, StatusCancelado: true},
	StatusPago:                {},
	StatusCancelado:           {},
}

func CanTransition(from, to Status) bool {
	return validNext[from][to]
}
