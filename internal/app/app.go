package app

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"

	"github.com/groupone/webshop/internal/config"
	healthcheck "github.com/groupone/webshop/internal/health"
	"github.com/groupone/webshop/internal/metrics"
	"github.com/groupone/webshop/internal/server"
	"github.com/groupone/webshop/internal/service/shop"
	"github.com/groupone/webshop/internal/version"
)

const shutdownTimeout = 5 * time.Second

// Run собирает приложение из конфигурации и блокируется до отмены
// контекста или фатальной ошибки HTTP-сервера.
func Run(ctx context.Context, cfg *config.Config) error {
	logger := log.WithField("component", "app")

	deps, err := NewDependencies(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if err := deps.Close(); err != nil {
			logger.WithError(err).Warn("failed to close storage")
		}
	}()

	shopMetrics := metrics.NewShopMetrics()
	service := shop.NewService(deps.Products, deps.Customers, deps.Orders, deps.Placer, shop.Options{
		Outbox:  deps.Outbox,
		Metrics: shopMetrics,
		Logger:  logger.WithField("layer", "service"),
	})

	httpServer := &http.Server{
		Addr: cfg.HTTP.Addr,
		Handler: server.NewServer(service, server.Options{
			Reset:  deps.Reset,
			Logger: logger.WithField("layer", "http"),
		}).Handler(),
	}

	// Kafka и outbox worker опциональны: без брокеров события копятся
	// в outbox и могут быть опубликованы после включения Kafka.
	kafkaProducer, _ := initKafkaProducer(cfg.Kafka.BrokerList(), logger)
	workerDone := make(chan struct{})
	if kafkaProducer != nil {
		worker := createOutboxWorker(deps, kafkaProducer, cfg.Outbox, logger)
		go func() {
			defer close(workerDone)
			worker.Run(ctx)
		}()
	} else {
		close(workerDone)
	}

	healthHandler := healthcheck.NewHandler(version.String())
	if deps.Store != nil {
		healthHandler.RegisterChecker("postgres", healthcheck.NewPingChecker("postgres", 2*time.Second, deps.Store.Ping))
	}
	healthHandler.RegisterChecker("outbox", healthcheck.NewSimpleChecker("outbox", func() error {
		_, err := deps.Outbox.Stats()
		return err
	}))

	metricsSrv := startMetricsServer(ctx, cfg.Metrics.Addr, logger, healthHandler)

	errCh := make(chan error, 1)
	go func() {
		logger.Infof("HTTP сервер слушает %s", cfg.HTTP.Addr)
		errCh <- httpServer.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		logger.Info("получен сигнал остановки, останавливаем HTTP сервер")
		shutdownHTTP(httpServer, logger)
		shutdownHTTP(metricsSrv, logger)
		<-workerDone
		closeKafka(kafkaProducer, logger)
		return ctx.Err()
	case err := <-errCh:
		shutdownHTTP(metricsSrv, logger)
		<-workerDone
		closeKafka(kafkaProducer, logger)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// startMetricsServer запускает HTTP-обработчики /metrics и health checks.
func startMetricsServer(ctx context.Context, addr string, logger *log.Entry, healthHandler *healthcheck.Handler) *http.Server {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.Handle("/healthz", healthHandler)
	mux.HandleFunc("/livez", healthcheck.LivenessHandler)
	mux.HandleFunc("/readyz", healthHandler.ReadinessHandler)

	srv := &http.Server{Addr: addr, Handler: mux}
	go func() {
		logger.Infof("метрики доступны по адресу %s/metrics", addr)
		logger.Infof("health checks: %s/healthz, %s/livez, %s/readyz", addr, addr, addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.WithError(err).Warn("metrics server failed")
		}
	}()

	go func() {
		<-ctx.Done()
		shutdownHTTP(srv, logger)
	}()

	return srv
}

// shutdownHTTP аккуратно останавливает HTTP-сервер.
func shutdownHTTP(srv *http.Server, logger *log.Entry) {
	if srv == nil {
		return
	}
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.WithError(err).Warn("http shutdown with error")
	}
}
