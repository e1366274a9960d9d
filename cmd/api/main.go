package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	awsconfig "github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/dynamodb"

	"github.com/example/stockkeeper/internal/api"
	"github.com/example/stockkeeper/internal/changefeed"
	"github.com/example/stockkeeper/internal/command"
	"github.com/example/stockkeeper/internal/config"
	"github.com/example/stockkeeper/internal/domain/catalog"
	"github.com/example/stockkeeper/internal/infrastructure/kafka"
	"github.com/example/stockkeeper/internal/infrastructure/remote"
	"github.com/example/stockkeeper/internal/infrastructure/store"
	"github.com/example/stockkeeper/internal/query"
	"github.com/example/stockkeeper/internal/reconcile"
)

func main() {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	cfg := config.Load()

	log.Println("[API] ========================================")
	log.Println("[API] Stock Keeper - Catalog Service")
	log.Println("[API] ========================================")
	log.Printf("[API] Remote: %s%s", cfg.RemoteBaseURL, remote.ProductsPath)
	log.Printf("[API] Store: %s (key %q)", cfg.StoreDriver, cfg.CatalogKey)

	blobs, closeStore, err := openBlobStore(ctx, cfg)
	if err != nil {
		log.Fatalf("[API] Failed to open %s store: %v", cfg.StoreDriver, err)
	}
	defer closeStore()

	// Change feed is optional; without brokers events are dropped
	var publisher changefeed.Publisher
	if len(cfg.KafkaBrokers) > 0 {
		producer := kafka.NewProducer(cfg.KafkaBrokers, cfg.ChangeTopic)
		defer producer.Close()
		publisher = producer
		log.Printf("[API] Kafka: %v", cfg.KafkaBrokers)
		log.Printf("[API] Topic: %s", cfg.ChangeTopic)
	} else {
		log.Println("[API] Kafka: disabled (KAFKA_BROKERS not set)")
	}

	catalogStore := store.NewCatalogStore(blobs, cfg.CatalogKey)
	feed := changefeed.New(publisher)
	source := remote.NewHTTPSource(cfg.RemoteBaseURL, &http.Client{Timeout: cfg.RemoteTimeout})

	reconciler := reconcile.NewReconciler(catalogStore, source, feed)
	cmdHandler := command.NewHandler(catalogStore, feed, catalog.NewIDGenerator(), catalog.ID(cfg.WarehousemanID))
	queryHandler := query.NewHandler(reconciler)

	// Establish the baseline before serving
	if c, err := reconciler.Reconcile(ctx); err != nil {
		log.Printf("[API] Initial reconcile: %v", err)
	} else {
		log.Printf("[API] Initial reconcile: %d products", len(c))
	}

	handlers := api.NewHandlers(cmdHandler, queryHandler)
	server := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: api.NewRouter(handlers),
	}

	go func() {
		log.Printf("[API] Server started on %s", cfg.HTTPAddr)
		if err := server.ListenAndServe(); err != http.ErrServerClosed {
			log.Fatalf("[API] Server error: %v", err)
		}
	}()

	// Wait for shutdown signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh

	log.Println("[API] Shutting down...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer shutdownCancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Printf("[API] Shutdown error: %v", err)
	}
}

// openBlobStore selects the storage backend named by STORE_DRIVER
func openBlobStore(ctx context.Context, cfg config.Config) (store.BlobStore, func(), error) {
	noop := func() {}

	switch cfg.StoreDriver {
	case config.DriverMemory:
		return store.NewMemoryBlobStore(), noop, nil

	case config.DriverFile:
		s, err := store.NewFileBlobStore(cfg.StoreDir)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[API] Data dir: %s", cfg.StoreDir)
		return s, noop, nil

	case config.DriverPostgres:
		db, err := store.ConnectPostgres(cfg.DatabaseURL)
		if err != nil {
			return nil, nil, err
		}
		s := store.NewPostgresBlobStore(db)
		if err := s.EnsureSchema(ctx); err != nil {
			db.Close()
			return nil, nil, err
		}
		log.Println("[API] Connected to PostgreSQL")
		return s, func() { db.Close() }, nil

	case config.DriverDynamo:
		awsCfg, err := awsconfig.LoadDefaultConfig(ctx)
		if err != nil {
			return nil, nil, err
		}
		log.Printf("[API] DynamoDB table: %s", cfg.DynamoTable)
		return store.NewDynamoBlobStore(dynamodb.NewFromConfig(awsCfg), cfg.DynamoTable), noop, nil

	default:
		return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
	}
}
