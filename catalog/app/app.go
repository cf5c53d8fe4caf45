package app

import (
	"context"
	"net"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/IBM/sarama"
	"go.uber.org/zap"

	"github.com/bookgrove/catalog-service/catalog/config"
	"github.com/bookgrove/catalog-service/catalog/internal/events"
	"github.com/bookgrove/catalog-service/catalog/internal/handler"
	"github.com/bookgrove/catalog-service/catalog/internal/repository"
	"github.com/bookgrove/catalog-service/catalog/internal/server"
	"github.com/bookgrove/catalog-service/catalog/internal/service"
	"github.com/bookgrove/catalog-service/catalog/migrations"
	"github.com/bookgrove/catalog-service/catalog/internal/blobstore"
	"github.com/bookgrove/catalog-service/pkg/kafka"
	"github.com/bookgrove/catalog-service/pkg/logger"
	"github.com/bookgrove/catalog-service/pkg/postgres"
)

func Run(cfg *config.Config) {
	log := logger.NewLogger(cfg.Log, "catalog")
	ctx := context.Background()

	db, err := postgres.NewPostgresDB(ctx, &cfg.Database, migrations.MigrationFiles)
	if err != nil {
		log.Fatal("db init", zap.Error(err))
	}

	blobs, err := blobstore.New(ctx, cfg.Minio)
	if err != nil {
		log.Fatal("blobstore init", zap.Error(err))
	}

	var producer sarama.SyncProducer
	if cfg.Kafka.Enabled {
		producer, err = kafka.NewProducer(cfg.Kafka)
		if err != nil {
			log.Fatal("kafka.NewProducer", zap.Error(err))
		}
	}
	publisher := events.NewPublisher(producer, log)

	authorSvc := service.NewAuthorService(repository.NewAuthorRepository(db, log), blobs, log)
	categorySvc := service.NewCategoryService(repository.NewCategoryRepository(db, log), log)
	bookSvc := service.NewBookService(repository.NewBookRepository(db, log), blobs, authorSvc, categorySvc, publisher, log)

	h := handler.New(bookSvc, authorSvc, categorySvc, log)
	srv := server.NewServer(cfg.Server, h.NewRouter())
	log.Info("http server start ON: ",
		zap.String("addr",
			net.JoinHostPort(cfg.Server.Host, cfg.Server.Port)))
	go func() {
		if err := srv.Run(); err != nil {
			log.Error("server run", zap.Error(err))
		}
	}()

	sig := make(chan os.Signal, 1)
	signal.Notify(sig, os.Interrupt, syscall.SIGTERM, syscall.SIGINT)
	termSig := <-sig

	log.Debug("Graceful shutdown", zap.Any("signal", termSig))

	closeCtx, cancel := context.WithTimeout(context.Background(), time.Second*5)
	defer cancel()

	if err = srv.Stop(closeCtx); err != nil {
		log.DPanic("srv.Stop", zap.Error(err))
	}
	if producer != nil {
		if err := producer.Close(); err != nil {
			log.Error("producer.Close", zap.Error(err))
		}
	}
	db.Close()
	log.Info("Graceful shutdown finished")
}
