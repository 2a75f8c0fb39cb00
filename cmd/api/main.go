package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/averlon/wholesale-orders/internal/config"
	"github.com/averlon/wholesale-orders/internal/httpx"
	kafkax "github.com/averlon/wholesale-orders/internal/kafka"
	"github.com/averlon/wholesale-orders/internal/postgres"
	"github.com/averlon/wholesale-orders/internal/redisx"
	"github.com/averlon/wholesale-orders/internal/wholesale"
)

func main() {
	_ = godotenv.Load()

	cfg := config.Load()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// DB
	db, err := postgres.Connect(ctx, cfg.PostgresDSN)
	if err != nil {
		log.Fatalf("db connect: %v", err)
	}
	defer db.Close()

	// Redis
	rdb := redisx.New(cfg.RedisAddr)
	defer rdb.Close()

	// Kafka producer
	prod := kafkax.NewProducer(cfg.KafkaBrokers, wholesale.TopicOrderCreated, 1024)
	prod.Start(ctx)

	// Repo, orchestrator, handlers
	repo := &wholesale.Repo{DB: db}
	svc := wholesale.NewService(repo, &redisx.Cache{RDB: rdb}, prod, cfg.ServiceName)

	router := httpx.NewRouter()
	wh := &httpx.WholesaleHandler{Svc: svc, Repo: repo, Redis: rdb}
	wh.Register(router)

	srv := &http.Server{Addr: cfg.HTTPAddr, Handler: router}

	go func() {
		log.Printf("HTTP listening at %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("listen: %v", err)
		}
	}()

	// graceful shutdown
	sig := make(chan os.Signal, 1)
	signal.Notify(sig, syscall.SIGINT, syscall.SIGTERM)
	<-sig
	log.Println("shutting down...")

	ctx2, cancel2 := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel2()
	_ = srv.Shutdown(ctx2)
	prod.Close() // flush & close writer
	prod.WaitClosed()
}
