// Vitrine de terminal da Império Store: busca com navegação por teclado,
// carrinho, cupons e o fluxo de checkout completo contra a API da loja.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"

	"github.com/imperio-store/loja-api/internal/busca"
	"github.com/imperio-store/loja-api/internal/carrinho"
	"github.com/imperio-store/loja-api/internal/checkout"
	"github.com/imperio-store/loja-api/internal/cliente"
	"github.com/imperio-store/loja-api/internal/mascaras"
)

type tela int

const (
	telaBusca tela = iota
	telaCarrinho
	telaCheckout
	telaPix
)

type campo struct {
	label   string
	valor   string
	mascara func(string) string
}

type model struct {
	cli *cliente.Client

	tela    tela
	status  string
	ocupado bool

	// busca
	typeahead *busca.Typeahead

	// carrinho
	visao      carrinho.Visao
	cursor     int
	confirmar  bool // aguardando y/n para remover o item sob o cursor
	lendoCupom bool
	cupom      string

	// checkout
	sessao    checkout.Sessao
	campos    []campo
	campoIdx  int
	pagamento string // "", "cartao" ou "pix" enquanto coleta dados

	// pix
	pixResultado checkout.Resultado
	pixStatus    string
}

// mensagens dos comandos assíncronos
type (
	visaoMsg    struct{ v carrinho.Visao }
	removidoMsg struct {
		nome string
		v    carrinho.Visao
	}
	buscaFeitaMsg struct{ produtos []busca.Produto }
	sessaoMsg     struct{ s checkout.Sessao }
	resultadoMsg  struct{ r checkout.Resultado }
	pixStatusMsg  struct{ status string }
	pixTickMsg    struct{}
	cepMsg struct {
		logradouro, bairro, cidade, uf string

		naoEncontrado bool
	}
	erroMsg struct{ err error }
)

// clienteBuscador adapta o client HTTP à interface do typeahead.
type clienteBuscador struct{ cli *cliente.Client }

func (b *clienteBuscador) Buscar(ctx context.Context, termo string) ([]busca.Produto, error) {
	return b.cli.Buscar(ctx, termo)
}

func initialModel(cli *cliente.Client) model {
	return model{
		cli:       cli,
		typeahead: busca.NewTypeahead(&clienteBuscador{cli: cli}),
		status:    "Digite para buscar produtos. Tab alterna telas, Ctrl+C sai.",
	}
}

func (m model) Init() tea.Cmd { return m.verCarrinhoCmd() }

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.tecla(msg)
	case visaoMsg:
		m.ocupado = false
		m.visao = msg.v
		if m.cursor >= len(m.visao.Itens) {
			m.cursor = len(m.visao.Itens) - 1
		}
		if m.cursor < 0 {
			m.cursor = 0
		}
		return m, nil
	case removidoMsg:
		m.ocupado = false
		m.visao = msg.v
		m.status = fmt.Sprintf("%q removido do carrinho", msg.nome)
		return m, nil
	case buscaFeitaMsg:
		return m, nil
	case sessaoMsg:
		m.ocupado = false
		m.sessao = msg.s
		m.tela = telaCheckout
		m.prepararCampos()
		return m, nil
	case resultadoMsg:
		m.ocupado = false
		if msg.r.Pix != nil {
			m.pixResultado = msg.r
			m.pixStatus = "pending"
			m.tela = telaPix
			m.status = msg.r.Mensagem
			return m, pixTick()
		}
		m.tela = telaBusca
		m.sessao = checkout.Sessao{}
		m.status = fmt.Sprintf("%s Pedido %s.", msg.r.Mensagem, msg.r.Pedido.ID)
		return m, m.verCarrinhoCmd()
	case pixTickMsg:
		if m.tela != telaPix || m.pixStatus != "pending" {
			return m, nil
		}
		return m, m.pixStatusCmd()
	case pixStatusMsg:
		m.pixStatus = msg.status
		switch msg.status {
		case "approved":
			m.status = "Pagamento Pix aprovado! Pedido confirmado."
			m.sessao = checkout.Sessao{}
			return m, m.verCarrinhoCmd()
		case "cancelled":
			m.status = "Cobrança Pix cancelada. Escolha outro meio de pagamento."
			m.tela = telaCheckout
			m.pagamento = ""
			return m, m.verCheckoutCmd()
		default:
			return m, pixTick()
		}
	case cepMsg:
		if msg.naoEncontrado {
			// CEP desconhecido limpa o que a consulta teria preenchido
			m.limparCampos("Endereço", "Bairro", "Cidade", "Estado")
			m.status = "CEP não encontrado"
			return m, nil
		}
		// pré-preenche o endereço a partir do CEP digitado
		m.preencher("Endereço", msg.logradouro)
		m.preencher("Bairro", msg.bairro)
		m.preencher("Cidade", msg.cidade)
		m.preencher("Estado", msg.uf)
		return m, nil
	case erroMsg:
		m.ocupado = false
		m.status = msg.err.Error()
		return m, nil
	}
	return m, nil
}

func (m model) tecla(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}
	if m.ocupado {
		return m, nil
	}
	if msg.String() == "tab" && m.tela != telaPix {
		m.tela = (m.tela + 1) % 3 // pix só por fluxo de pagamento
		m.confirmar, m.lendoCupom = false, false
		return m, nil
	}

	switch m.tela {
	case telaBusca:
		return m.teclaBusca(msg)
	case telaCarrinho:
		return m.teclaCarrinho(msg)
	case telaCheckout:
		return m.teclaCheckout(msg)
	case telaPix:
		if msg.String() == "esc" {
			// abandona a tela; o servidor segue acompanhando a cobrança
			m.tela = telaBusca
			return m, nil
		}
	}
	return m, nil
}

func (m model) teclaBusca(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "down":
		m.typeahead.ProximoDestaque()
		return m, nil
	case "up":
		m.typeahead.DestaqueAnterior()
		return m, nil
	case "esc":
		m.typeahead.Fechar()
		return m, nil
	case "enter":
		p, ok := m.typeahead.Selecionar()
		if !ok {
			return m, nil
		}
		m.ocupado = true
		m.status = fmt.Sprintf("Adicionando %q...", p.Nome)
		return m, m.adicionarCmd(p.ID)
	case "backspace":
		termo := m.typeahead.Termo()
		if termo == "" {
			return m, nil
		}
		return m, m.digitarCmd(apagar(termo))
	default:
		if len(msg.Runes) == 1 {
			return m, m.digitarCmd(m.typeahead.Termo() + string(msg.Runes))
		}
	}
	return m, nil
}

func (m model) teclaCarrinho(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.lendoCupom {
		switch msg.String() {
		case "enter":
			m.lendoCupom = false
			m.ocupado = true
			m.status = "Aplicando cupom..."
			return m, m.aplicarCupomCmd(m.cupom)
		case "esc":
			m.lendoCupom = false
			m.cupom = ""
			return m, nil
		case "backspace":
			m.cupom = apagar(m.cupom)
		default:
			if len(msg.Runes) == 1 {
				m.cupom += string(msg.Runes)
			}
		}
		return m, nil
	}

	if m.confirmar {
		switch msg.String() {
		case "y", "s":
			m.confirmar = false
			m.ocupado = true
			return m, m.removerCmd(m.visao.Itens[m.cursor].ID)
		default:
			m.confirmar = false
			m.status = "Remoção cancelada"
		}
		return m, nil
	}

	switch msg.String() {
	case "j", "down":
		if m.cursor < len(m.visao.Itens)-1 {
			m.cursor++
		}
	case "k", "up":
		if m.cursor > 0 {
			m.cursor--
		}
	case "+":
		if item := m.itemSobCursor(); item != nil {
			m.ocupado = true
			return m, m.incrementarCmd(item.ID)
		}
	case "-":
		if item := m.itemSobCursor(); item != nil {
			m.ocupado = true
			return m, m.decrementarCmd(item.ID)
		}
	case "x":
		if item := m.itemSobCursor(); item != nil {
			m.confirmar = true
			m.status = fmt.Sprintf("Remover %q? (s/n)", item.Nome)
		}
	case "u":
		m.lendoCupom = true
		m.cupom = ""
	case "U":
		m.ocupado = true
		return m, m.removerCupomCmd()
	case "L":
		m.ocupado = true
		return m, m.limparCmd()
	case "f":
		if len(m.visao.Itens) == 0 {
			m.status = "Carrinho vazio"
			return m, nil
		}
		m.ocupado = true
		m.status = "Abrindo checkout..."
		return m, m.iniciarCheckoutCmd()
	}
	return m, nil
}

func (m model) teclaCheckout(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.sessao.ID == "" {
		m.status = "Abra o checkout pelo carrinho (tecla f)"
		return m, nil
	}

	// etapa de pagamento sem formulário ativo: escolher o meio
	if m.sessao.Etapa == checkout.EtapaPagamento && m.pagamento == "" {
		switch msg.String() {
		case "1":
			m.pagamento = "cartao"
			m.prepararCampos()
		case "2":
			m.ocupado = true
			m.status = "Gerando cobrança Pix..."
			return m, m.finalizarPixCmd()
		case "ctrl+b":
			m.ocupado = true
			return m, m.voltarCmd()
		}
		return m, nil
	}

	switch msg.String() {
	case "ctrl+b":
		if m.pagamento != "" {
			m.pagamento = ""
			return m, nil
		}
		m.ocupado = true
		return m, m.voltarCmd()
	case "enter":
		if m.campoIdx < len(m.campos)-1 {
			m.campoIdx++
			// CEP completo dispara a consulta de endereço
			if m.sessao.Etapa == checkout.EtapaEndereco && m.campos[0].label == "CEP" &&
				len(mascaras.Digits(m.campos[0].valor)) == 8 && m.campoIdx == 1 {
				return m, m.cepCmd(m.campos[0].valor)
			}
			return m, nil
		}
		m.ocupado = true
		m.status = "Enviando..."
		return m, m.submeterEtapaCmd()
	case "backspace":
		c := &m.campos[m.campoIdx]
		if c.valor != "" {
			c.valor = apagar(c.valor)
			if c.mascara != nil {
				c.valor = c.mascara(c.valor)
			}
		}
	default:
		if len(msg.Runes) == 1 {
			c := &m.campos[m.campoIdx]
			c.valor += string(msg.Runes)
			if c.mascara != nil {
				c.valor = c.mascara(c.valor)
			}
		}
	}
	return m, nil
}

func (m *model) itemSobCursor() *carrinho.Item {
	if m.cursor < 0 || m.cursor >= len(m.visao.Itens) {
		return nil
	}
	return &m.visao.Itens[m.cursor]
}

func (m *model) prepararCampos() {
	m.campoIdx = 0
	switch {
	case m.sessao.Etapa == checkout.EtapaDados:
		m.campos = []campo{
			{label: "Nome completo"},
			{label: "CPF", mascara: mascaras.CPF},
			{label: "Telefone", mascara: mascaras.Telefone},
			{label: "Email"},
		}
	case m.sessao.Etapa == checkout.EtapaEndereco:
		m.campos = []campo{
			{label: "CEP", mascara: mascaras.CEP},
			{label: "Endereço"},
			{label: "Número"},
			{label: "Complemento"},
			{label: "Bairro"},
			{label: "Cidade"},
			{label: "Estado"},
		}
	case m.pagamento == "cartao":
		m.campos = []campo{
			{label: "Número do cartão", mascara: mascaras.Cartao},
			{label: "Nome no cartão"},
			{label: "Validade", mascara: mascaras.Validade},
			{label: "CVV"},
		}
	default:
		m.campos = nil
	}
}

func (m *model) limparCampos(labels ...string) {
	for _, label := range labels {
		for i := range m.campos {
			if m.campos[i].label == label {
				m.campos[i].valor = ""
			}
		}
	}
}

func (m *model) preencher(label, valor string) {
	for i := range m.campos {
		if m.campos[i].label == label && m.campos[i].valor == "" {
			m.campos[i].valor = valor
		}
	}
}

func (m *model) valorDe(label string) string {
	for _, c := range m.campos {
		if c.label == label {
			return c.valor
		}
	}
	return ""
}

// --- comandos ---

func (m model) digitarCmd(termo string) tea.Cmd {
	ta := m.typeahead
	return func() tea.Msg {
		if err := ta.Digitar(context.Background(), termo); err != nil {
			return erroMsg{err}
		}
		return buscaFeitaMsg{produtos: ta.Resultados()}
	}
}

func (m model) verCarrinhoCmd() tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		v, err := cli.VerCarrinho(context.Background())
		if err != nil {
			return erroMsg{err}
		}
		return visaoMsg{v}
	}
}

func (m model) adicionarCmd(produtoID int64) tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		v, err := cli.Adicionar(context.Background(), produtoID, 1)
		if err != nil {
			return erroMsg{err}
		}
		return visaoMsg{v}
	}
}

func (m model) incrementarCmd(itemID int64) tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		v, err := cli.Incrementar(context.Background(), itemID)
		if err != nil {
			return erroMsg{err}
		}
		return visaoMsg{v}
	}
}

func (m model) decrementarCmd(itemID int64) tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		v, err := cli.Decrementar(context.Background(), itemID)
		if err != nil {
			return erroMsg{err}
		}
		return visaoMsg{v}
	}
}

func (m model) removerCmd(itemID int64) tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		nome, v, err := cli.Remover(context.Background(), itemID)
		if err != nil {
			return erroMsg{err}
		}
		return removidoMsg{nome: nome, v: v}
	}
}

func (m model) limparCmd() tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		v, err := cli.Limpar(context.Background())
		if err != nil {
			return erroMsg{err}
		}
		return visaoMsg{v}
	}
}

func (m model) aplicarCupomCmd(codigo string) tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		v, err := cli.AplicarCupom(context.Background(), codigo)
		if err != nil {
			return erroMsg{err}
		}
		return visaoMsg{v}
	}
}

func (m model) removerCupomCmd() tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		v, err := cli.RemoverCupom(context.Background())
		if err != nil {
			return erroMsg{err}
		}
		return visaoMsg{v}
	}
}

func (m model) iniciarCheckoutCmd() tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		s, err := cli.IniciarCheckout(context.Background())
		if err != nil {
			return erroMsg{err}
		}
		return sessaoMsg{s}
	}
}

func (m model) verCheckoutCmd() tea.Cmd {
	cli, id := m.cli, m.sessao.ID
	return func() tea.Msg {
		s, err := cli.VerCheckout(context.Background(), id)
		if err != nil {
			return erroMsg{err}
		}
		return sessaoMsg{s}
	}
}

func (m model) voltarCmd() tea.Cmd {
	cli, id := m.cli, m.sessao.ID
	return func() tea.Msg {
		s, err := cli.Voltar(context.Background(), id)
		if err != nil {
			return erroMsg{err}
		}
		return sessaoMsg{s}
	}
}

func (m model) cepCmd(codigo string) tea.Cmd {
	cli := m.cli
	return func() tea.Msg {
		e, err := cli.ConsultarCEP(context.Background(), codigo)
		if err != nil {
			var apiErr *cliente.ErroAPI
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusNotFound {
				return cepMsg{naoEncontrado: true}
			}
			return erroMsg{err}
		}
		return cepMsg{logradouro: e.Logradouro, bairro: e.Bairro, cidade: e.Localidade, uf: e.UF}
	}
}

func (m model) submeterEtapaCmd() tea.Cmd {
	cli, sessao := m.cli, m.sessao
	switch {
	case sessao.Etapa == checkout.EtapaDados:
		dados := checkout.Cliente{
			NomeCompleto: m.valorDe("Nome completo"),
			CPF:          m.valorDe("CPF"),
			Telefone:     m.valorDe("Telefone"),
			Email:        m.valorDe("Email"),
		}
		return func() tea.Msg {
			s, err := cli.InformarCliente(context.Background(), sessao.ID, dados)
			if err != nil {
				return erroMsg{err}
			}
			return sessaoMsg{s}
		}
	case sessao.Etapa == checkout.EtapaEndereco:
		end := checkout.Endereco{
			CEP:         m.valorDe("CEP"),
			Logradouro:  m.valorDe("Endereço"),
			Numero:      m.valorDe("Número"),
			Complemento: m.valorDe("Complemento"),
			Bairro:      m.valorDe("Bairro"),
			Cidade:      m.valorDe("Cidade"),
			UF:          m.valorDe("Estado"),
		}
		return func() tea.Msg {
			s, err := cli.InformarEndereco(context.Background(), sessao.ID, end)
			if err != nil {
				return erroMsg{err}
			}
			return sessaoMsg{s}
		}
	default: // pagamento com cartão
		cartao := checkout.Cartao{
			Numero:   m.valorDe("Número do cartão"),
			Nome:     m.valorDe("Nome no cartão"),
			Validade: m.valorDe("Validade"),
			CVV:      m.valorDe("CVV"),
		}
		return func() tea.Msg {
			r, err := cli.FinalizarCartao(context.Background(), sessao.ID, cartao)
			if err != nil {
				return erroMsg{err}
			}
			return resultadoMsg{r}
		}
	}
}

func (m model) finalizarPixCmd() tea.Cmd {
	cli, id := m.cli, m.sessao.ID
	return func() tea.Msg {
		r, err := cli.FinalizarPix(context.Background(), id)
		if err != nil {
			return erroMsg{err}
		}
		return resultadoMsg{r}
	}
}

func (m model) pixStatusCmd() tea.Cmd {
	cli, id := m.cli, m.pixResultado.Pix.IDPagamento
	return func() tea.Msg {
		st, err := cli.StatusPix(context.Background(), id)
		if err != nil {
			return erroMsg{err}
		}
		return pixStatusMsg{status: st}
	}
}

func pixTick() tea.Cmd {
	return tea.Tick(2*time.Second, func(time.Time) tea.Msg { return pixTickMsg{} })
}

// --- render ---

func (m model) View() string {
	b := &strings.Builder{}
	fmt.Fprintln(b, "Império Store")
	fmt.Fprintln(b, "")

	switch m.tela {
	case telaBusca:
		m.viewBusca(b)
	case telaCarrinho:
		m.viewCarrinho(b)
	case telaCheckout:
		m.viewCheckout(b)
	case telaPix:
		m.viewPix(b)
	}

	fmt.Fprintf(b, "\n%s\n", m.status)
	return b.String()
}

func (m model) viewBusca(b *strings.Builder) {
	fmt.Fprintf(b, "Buscar: %s_\n", m.typeahead.Termo())
	if !m.typeahead.Aberto() {
		fmt.Fprintln(b, "\n(↑/↓ navega, Enter adiciona ao carrinho, Esc fecha)")
		return
	}
	fmt.Fprintln(b, "")
	for i, p := range m.typeahead.Resultados() {
		marker := " "
		if i == m.typeahead.Destaque() {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %s — %s\n", marker, p.Nome, reais(p.PrecoCentavos))
	}
}

func (m model) viewCarrinho(b *strings.Builder) {
	fmt.Fprintln(b, "Carrinho")
	if len(m.visao.Itens) == 0 {
		fmt.Fprintln(b, "  (vazio)")
	}
	for i, it := range m.visao.Itens {
		marker := " "
		if i == m.cursor {
			marker = ">"
		}
		fmt.Fprintf(b, " %s %dx %s — %s\n", marker, it.Quantidade, it.Nome, reais(it.PrecoCentavos*int64(it.Quantidade)))
	}
	fmt.Fprintln(b, "")
	r := m.visao.Resumo
	fmt.Fprintf(b, "  Subtotal: %s\n", reais(r.SubtotalCentavos))
	if m.visao.Cupom != nil {
		fmt.Fprintf(b, "  Cupom %s: -%s\n", m.visao.Cupom.Codigo, reais(r.DescontoCentavos))
	}
	fmt.Fprintf(b, "  Frete:    %s\n", reais(r.FreteCentavos))
	fmt.Fprintf(b, "  Total:    %s\n", reais(r.TotalCentavos))
	if m.lendoCupom {
		fmt.Fprintf(b, "\nCupom: %s_\n", m.cupom)
		return
	}
	fmt.Fprintln(b, "\n(j/k move, +/- quantidade, x remove, u cupom, U tira cupom, L limpa, f finalizar)")
}

func (m model) viewCheckout(b *strings.Builder) {
	fmt.Fprintf(b, "Checkout — etapa: %s\n\n", m.sessao.Etapa)

	if m.sessao.Etapa == checkout.EtapaPagamento && m.pagamento == "" {
		fmt.Fprintln(b, "  [1] Cartão de crédito")
		fmt.Fprintln(b, "  [2] Pix")
		fmt.Fprintln(b, "\n(Ctrl+B volta para o endereço)")
		return
	}
	for i, c := range m.campos {
		marker := " "
		cursor := ""
		if i == m.campoIdx {
			marker = ">"
			cursor = "_"
		}
		valor := c.valor
		if c.label == "CVV" {
			valor = strings.Repeat("*", len(valor))
		}
		fmt.Fprintf(b, " %s %s: %s%s\n", marker, c.label, valor, cursor)
	}
	fmt.Fprintln(b, "\n(Enter próximo campo / envia, Ctrl+B volta)")
}

func (m model) viewPix(b *strings.Builder) {
	fmt.Fprintln(b, "Pagamento Pix")
	fmt.Fprintln(b, "")
	if m.pixResultado.Pix != nil {
		fmt.Fprintf(b, "  Copia e cola: %s\n", m.pixResultado.Pix.CopiaECola)
	}
	fmt.Fprintf(b, "  Status: %s\n", m.pixStatus)
	fmt.Fprintln(b, "\n(aguardando liquidação; Esc volta à busca)")
}

func reais(centavos int64) string {
	return fmt.Sprintf("R$ %d,%02d", centavos/100, centavos%100)
}

// apagar remove o último caractere respeitando runas multibyte.
func apagar(s string) string {
	r := []rune(s)
	if len(r) == 0 {
		return s
	}
	return string(r[:len(r)-1])
}

func main() {
	baseURL := flag.String("api", envOr("LOJA_API_URL", "http://localhost:8080"), "endereço da API da loja")
	sessao := flag.String("sessao", envOr("LOJA_SESSAO", ""), "id de sessão (gera um novo se vazio)")
	flag.Parse()

	if *sessao == "" {
		*sessao = uuid.NewString()
	}

	cli := cliente.New(*baseURL, *sessao)
	if _, err := tea.NewProgram(initialModel(cli)).Run(); err != nil {
		fmt.Fprintf(os.Stderr, "erro: %v\n", err)
		os.Exit(1)
	}
}

func envOr(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}
