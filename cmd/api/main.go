package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/imperio-store/loja-api/internal/busca"
	"github.com/imperio-store/loja-api/internal/carrinho"
	"github.com/imperio-store/loja-api/internal/cep"
	"github.com/imperio-store/loja-api/internal/checkout"
	"github.com/imperio-store/loja-api/internal/config"
	"github.com/imperio-store/loja-api/internal/cupons"
	"github.com/imperio-store/loja-api/internal/httpx"
	kafkax "github.com/imperio-store/loja-api/internal/kafka"
	"github.com/imperio-store/loja-api/internal/pedidos"
	"github.com/imperio-store/loja-api/internal/pix"
	"github.com/imperio-store/loja-api/internal/postgres"
	"github.com/imperio-store/loja-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", cfg.ServiceName).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	if err := postgres.Migrate(cfg.PostgresDSN); err != nil {
		log.Fatal().Err(err).Msg("migrate")
	}

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producers, um por tópico
	pCriado := kafkax.NewProducer(cfg.KafkaBrokers, pedidos.TopicPedidoCriado, 1024)
	pCriado.Start(ctx)
	pAprovado := kafkax.NewProducer(cfg.KafkaBrokers, pedidos.TopicPagamentoAprovado, 1024)
	pAprovado.Start(ctx)
	pCancelado := kafkax.NewProducer(cfg.KafkaBrokers, pedidos.TopicPagamentoCancelado, 1024)
	pCancelado.Start(ctx)

	// repositórios e serviços
	diretorio := &cupons.Diretorio{Repo: &cupons.Repo{DB: db}, Redis: rdb}
	carrinhoSvc := &carrinho.Service{
		Repo:              &carrinho.PgRepo{DB: db},
		Cupons:            diretorio,
		Aplicado:          &cupons.AplicadoStore{Redis: rdb},
		FreteFixoCentavos: cfg.FreteFixoCentavos,
		AplicarDelay:      cfg.CupomAplicarDelay,
	}
	pedidosRepo := &pedidos.Repo{DB: db}
	gateway := pix.NewHTTPGateway(cfg.PixGatewayBaseURL)
	checkoutSvc := &checkout.Service{
		Sessoes:            &checkout.RedisStore{Redis: rdb},
		Carrinho:           carrinhoSvc,
		Pedidos:            pedidosRepo,
		Gateway:            gateway,
		Poller:             &pix.Poller{Gateway: gateway, Intervalo: cfg.PixPollIntervalo, Log: log},
		Status:             &pix.RedisStatusCache{Redis: rdb},
		PedidoCriado:       pCriado,
		PagamentoAprovado:  pAprovado,
		PagamentoCancelado: pCancelado,
		PollCtx:            ctx,
		ServiceName:        cfg.ServiceName,
		Log:                log,
	}

	// HTTP
	router := httpx.NewRouter()
	(&httpx.CarrinhoHandler{Carrinho: carrinhoSvc}).Register(router)
	(&httpx.CuponsHandler{Diretorio: diretorio, PrefixosFreteGratis: cfg.FreteGratisPrefixos}).Register(router)
	(&httpx.CheckoutHandler{Checkout: checkoutSvc, Pedidos: pedidosRepo}).Register(router)
	(&httpx.BuscaHandler{Buscador: &busca.PgBuscador{DB: db}}).Register(router)
	(&httpx.CEPHandler{CEP: cep.NewClient(cfg.ViaCEPBaseURL)}).Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Info().Str("addr", cfg.HTTPAddr).Msg("HTTP listening")
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatal().Err(err).Msg("listen")
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Info().Msg("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)

	pCriado.Close()
	pAprovado.Close()
	pCancelado.Close()
	cancel() // derruba pollers pix e loops dos producers
	pCriado.WaitClosed()
	pAprovado.WaitClosed()
	pCancelado.WaitClosed()
}
