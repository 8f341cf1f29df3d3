// Package mascaras reimplementa as máscaras de entrada da loja como funções
// puras: toda máscara descarta o que não é dígito antes de formatar, então
// aplicar a máscara sobre a própria saída devolve a mesma string.
package mascaras

import "strings"

// Digits descarta tudo que não for dígito decimal.
func Digits(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for _, r := range s {
		if r >= '0' && r <= '9' {
			b.WriteRune(r)
		}
	}
	return b.String()
}

func corta(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

// CPF formata "###.###.###-##", aceitando entrada parcial.
func CPF(s string) string {
	d := corta(Digits(s), 11)
	var b strings.Builder
	for i := 0; i < len(d); i++ {
		switch i {
		case 3, 6:
			b.WriteByte('.')
		case 9:
			b.WriteByte('-')
		}
		b.WriteByte(d[i])
	}
	return b.String()
}

// Telefone formata "(##) ####-####" até 10 dígitos e "(##) #####-####" com 11.
func Telefone(s string) string {
	d := corta(Digits(s), 11)
	if len(d) < 3 {
		return d
	}
	corte := 6 // hífen antes do 7º dígito no formato fixo
	if len(d) > 10 {
		corte = 7
	}
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(d[:2])
	b.WriteString(") ")
	if len(d) <= corte {
		b.WriteString(d[2:])
		return b.String()
	}
	b.WriteString(d[2:corte])
	b.WriteByte('-')
	b.WriteString(d[corte:])
	return b.String()
}

// CEP formata "#####-###".
func CEP(s string) string {
	d := corta(Digits(s), 8)
	if len(d) <= 5 {
		return d
	}
	return d[:5] + "-" + d[5:]
}

// Cartao agrupa o número em blocos de quatro: "#### #### #### ####".
func Cartao(s string) string {
	d := corta(Digits(s), 16)
	var b strings.Builder
	for i := 0; i < len(d); i += 4 {
		if i > 0 {
			b.WriteByte(' ')
		}
		fim := i + 4
		if fim > len(d) {
			fim = len(d)
		}
		b.WriteString(d[i:fim])
	}
	return b.String()
}

// Validade formata "MM/AA".
func Validade(s string) string {
	d := corta(Digits(s), 4)
	if len(d) <= 2 {
		return d
	}
	return d[:2] + "/" + d[2:]
}

// CartaoOculto esconde tudo menos os quatro últimos dígitos, para exibição
// e armazenamento do pedido.
func CartaoOculto(s string) string {
	d := Digits(s)
	if len(d) <= 4 {
		return d
	}
	return "**** **** **** " + d[len(d)-4:]
}
