package main

import (
	"context"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"

	"github.com/imperio-store/loja-api/internal/config"
	kafkax "github.com/imperio-store/loja-api/internal/kafka"
	"github.com/imperio-store/loja-api/internal/notificacoes"
	"github.com/imperio-store/loja-api/internal/pedidos"
	"github.com/imperio-store/loja-api/internal/postgres"
	"github.com/imperio-store/loja-api/internal/redisx"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	nome := cfg.ServiceName + "-notificacoes"
	log := zerolog.New(os.Stdout).With().Timestamp().Str("service", nome).Logger()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect")
	}
	defer db.Close()

	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	svc := &notificacoes.Notificador{
		Repo:        &notificacoes.PgRepo{DB: db},
		Redis:       rdb,
		ServiceName: nome,
		Log:         log,
	}

	group := getenv("NOTIFICACOES_GROUP", "loja-notificacoes")
	workers := mustAtoi(os.Getenv("NOTIFICACOES_WORKERS"), 4)
	topics := []string{
		pedidos.TopicPedidoCriado,
		pedidos.TopicPagamentoAprovado,
		pedidos.TopicPagamentoCancelado,
	}
	cons := kafkax.NewConsumer(cfg.KafkaBrokers, group, topics, workers, log)

	go func() {
		log.Info().Str("group", group).Strs("topics", topics).Int("workers", workers).Msg("consumer started")
		if err := cons.Start(ctx, svc.Handle); err != nil {
			log.Error().Err(err).Msg("consumer exit")
			cancel()
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	select {
	case <-sig:
	case <-ctx.Done():
	}
	log.Info().Msg("shutting down consumer...")
	cancel()
	time.Sleep(500 * time.Millisecond)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func mustAtoi(s string, def int) int {
	if s == "" {
		return def
	}
	i, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return i
}
