package pedidos

const (
	TopicPedidoCriado       = "pedido.criado"
	TopicPagamentoAprovado  = "pagamento.aprovado"
	TopicPagamentoCancelado = "pagamento.cancelado"
)

// Partition key = id do pedido, para manter a ordem dos eventos de um pedido.
func PartitionKey(pedidoID string) []byte { return []byte(pedidoID) }
