package internal

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"price-estimator-service/internal/adapters/cianfetcher"
	token_adapter "price-estimator-service/internal/adapters/jwt"
	"price-estimator-service/internal/adapters/locations"
	logger_adapter "price-estimator-service/internal/adapters/logger"
	"price-estimator-service/internal/adapters/modelclient"
	postgres_adapter "price-estimator-service/internal/adapters/postgres"
	rabbitmq_adapter "price-estimator-service/internal/adapters/rabbitmq"
	"price-estimator-service/internal/adapters/rest"
	"price-estimator-service/internal/configs"
	"price-estimator-service/internal/constants"
	"price-estimator-service/internal/core/port"
	"price-estimator-service/internal/core/usecase"
	fluentlogger "price-estimator-service/pkg/fluent_logger"
	"price-estimator-service/pkg/postgres"
	"price-estimator-service/pkg/rabbitmq/rabbitmq_common"
	"price-estimator-service/pkg/rabbitmq/rabbitmq_consumer"
	"price-estimator-service/pkg/rabbitmq/rabbitmq_producer"
	"sync"
	"syscall"
	"time"

	"github.com/fluent/fluent-logger-golang/fluent"
	"github.com/jackc/pgx/v5/pgxpool"
)

const shutdownTimeout = 15 * time.Second

// App – структура приложения
type App struct {
	config        *configs.AppConfig
	dbPool        *pgxpool.Pool
	connManager   *rabbitmq_common.ConnectionManager
	eventProducer *rabbitmq_producer.Publisher
	fluentClient  *fluent.Fluent
	logger        port.LoggerPort

	restServer         *rest.Server
	valuationsListener port.EventListenerPort
}

// NewBaseLogger собирает stdout-логгер и, если включен, Fluent Bit.
// Клиент Fluent Bit возвращается, чтобы его можно было закрыть при остановке.
func NewBaseLogger(appConfig *configs.AppConfig) (port.LoggerPort, *fluent.Fluent, error) {
	var activeLoggers []port.LoggerPort

	stdoutLogger := logger_adapter.NewSlogAdapter(logger_adapter.SlogConfig{
		Level:    logger_adapter.ParseLevel(appConfig.StdoutLogger.Level),
		IsJSON:   appConfig.StdoutLogger.IsJSON,
		UseColor: !appConfig.StdoutLogger.IsJSON,
	})
	activeLoggers = append(activeLoggers, stdoutLogger)

	var fluentClient *fluent.Fluent
	if appConfig.FluentBit.Enabled {
		var err error
		fluentClient, err = fluentlogger.NewClient(fluentlogger.Config{
			Host:      appConfig.FluentBit.Host,
			Port:      appConfig.FluentBit.Port,
			TagPrefix: appConfig.AppName,
		})
		if err != nil {
			stdoutLogger.Error("Failed to create fluentbit client", err, nil)
			return nil, nil, fmt.Errorf("failed to create fluentbit client: %w", err)
		}

		fluentAdapter, err := logger_adapter.NewFluentLoggerAdapter(fluentClient, logger_adapter.ParseLevel(appConfig.FluentBit.Level))
		if err != nil {
			fluentClient.Close()
			return nil, nil, fmt.Errorf("failed to create fluentbit adapter: %w", err)
		}
		activeLoggers = append(activeLoggers, fluentAdapter)
	}

	multiLogger, err := logger_adapter.NewMultiloggerAdapter(activeLoggers...)
	if err != nil {
		if fluentClient != nil {
			fluentClient.Close()
		}
		return nil, nil, fmt.Errorf("failed to create multi-logger: %w", err)
	}

	baseLogger := multiLogger.WithFields(port.Fields{"service_name": appConfig.AppName})
	return baseLogger, fluentClient, nil
}

// NewApp - composition root: здесь создаются и связываются все зависимости.
func NewApp() (*App, error) {
	appConfig, err := configs.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("error loading application configuration: %w", err)
	}

	// --- 1. ЛОГГЕРЫ ---
	baseLogger, fluentClient, err := NewBaseLogger(appConfig)
	if err != nil {
		return nil, err
	}
	appLogger := baseLogger.WithFields(port.Fields{"component": "app"})
	appLogger.Info("Logger system initialized", port.Fields{"fluent_enabled": appConfig.FluentBit.Enabled})

	application := &App{
		config:       appConfig,
		fluentClient: fluentClient,
		logger:       appLogger,
	}
	// при ошибке ниже закрываем все, что успели открыть
	fail := func(msg string, err error) (*App, error) {
		appLogger.Error(msg, err, nil)
		application.closeResources()
		return nil, fmt.Errorf("%s: %w", msg, err)
	}

	// --- 2. ИНФРАСТРУКТУРА ---
	directory, err := locations.Load(appConfig.Locations.RegionsPath, appConfig.Locations.LocationIDsPath)
	if err != nil {
		return fail("failed to load location directory", err)
	}
	appLogger.Info("Location directory loaded", port.Fields{"regions": len(directory.Regions())})

	application.dbPool, err = postgres.NewClient(context.Background(), postgres.Config{DatabaseURL: appConfig.Postgres.URL})
	if err != nil {
		return fail("failed to connect to PostgreSQL", err)
	}
	if err := postgres_adapter.EnsureSchema(context.Background(), application.dbPool); err != nil {
		return fail("failed to prepare database schema", err)
	}
	appLogger.Info("Successfully connected to PostgreSQL pool!", nil)

	connManagerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_conn_manager"})
	application.connManager, err = rabbitmq_common.NewConnectionManager(
		rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		rabbitmq_adapter.NewPkgLoggerBridge(connManagerLogger),
	)
	if err != nil {
		return fail("failed to create connection manager", err)
	}
	appLogger.Info("RabbitMQ Connection Manager initialized.", nil)

	producerLogger := baseLogger.WithFields(port.Fields{"component": "rabbitmq_producer"})
	application.eventProducer, err = rabbitmq_producer.NewPublisher(rabbitmq_producer.PublisherConfig{
		Config:          rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		ExchangeName:    constants.ValuationsExchange,
		ExchangeType:    "direct",
		Durable:         true,
		DeclareExchange: true,
		Logger:          rabbitmq_adapter.NewPkgLoggerBridge(producerLogger),
	}, application.connManager)
	if err != nil {
		return fail("failed to create event producer", err)
	}

	// --- 3. ИСХОДЯЩИЕ АДАПТЕРЫ ---
	fetcher, err := cianfetcher.NewCianFetcherAdapter(cianfetcher.Config{
		BaseURL:         appConfig.Cian.BaseURL,
		RequestTimeout:  appConfig.Cian.RequestTimeout,
		RandomDelay:     appConfig.Cian.RandomDelay,
		StudioRoomParam: appConfig.Cian.StudioRoomParam,
		MaxRoomParam:    appConfig.Cian.MaxRoomParam,
	})
	if err != nil {
		return fail("failed to initialize cian fetcher", err)
	}
	extractor, err := cianfetcher.NewCianListingExtractor(appConfig.Cian.BaseURL)
	if err != nil {
		return fail("failed to initialize cian extractor", err)
	}

	model := modelclient.NewClient(appConfig.ModelService.URL, appConfig.ModelService.RequestTimeout)

	valuationRepo, err := postgres_adapter.NewValuationRepository(application.dbPool)
	if err != nil {
		return fail("failed to initialize valuation repository", err)
	}
	clientRepo, err := postgres_adapter.NewClientRepository(application.dbPool)
	if err != nil {
		return fail("failed to initialize client repository", err)
	}
	tokenService, err := token_adapter.NewTokenService(appConfig.Auth.JWTSigningKey)
	if err != nil {
		return fail("failed to initialize token service", err)
	}
	valuationQueue, err := rabbitmq_adapter.NewValuationQueueAdapter(application.eventProducer, constants.RoutingKeyValuationTasks)
	if err != nil {
		return fail("failed to initialize valuation queue", err)
	}
	appLogger.Info("All outgoing adapters initialized.", nil)

	// --- 4. USE CASES ---
	collectUC := usecase.NewCollectComparablesUseCase(fetcher, extractor, directory)
	estimateUC := usecase.NewEstimatePriceUseCase(directory, model, collectUC)
	recordedEstimateUC := usecase.NewRecordedEstimateUseCase(estimateUC, valuationRepo)
	submitUC := usecase.NewSubmitValuationUseCase(directory, valuationRepo, valuationQueue)
	processUC := usecase.NewProcessValuationUseCase(valuationRepo, estimateUC)
	getUC := usecase.NewGetValuationUseCase(valuationRepo)
	locationsUC := usecase.NewLocationsUseCase(directory)
	healthUC := usecase.NewHealthUseCase(model, directory)
	issueTokenUC := usecase.NewIssueTokenUseCase(clientRepo, tokenService, appConfig.Auth.TokenTTL)
	validateTokenUC := usecase.NewValidateTokenUseCase(tokenService)
	appLogger.Info("All use cases initialized.", nil)

	// --- 5. ВХОДЯЩИЕ АДАПТЕРЫ ---
	valuationsConsumerCfg := rabbitmq_consumer.ConsumerConfig{
		Config:        rabbitmq_common.Config{URL: appConfig.RabbitMQ.URL},
		QueueName:     constants.QueueValuationTasks,
		DurableQueue:  true,
		ExchangeName:  constants.ValuationsExchange,
		ExchangeType:  "direct",
		RoutingKey:    constants.RoutingKeyValuationTasks,
		PrefetchCount: appConfig.Valuations.Workers,
		ConsumerTag:   "valuation-processor-adapter",

		EnableRetryMechanism: true,
		RetryExchange:        constants.ValuationRetryExchange,
		RetryQueue:           constants.ValuationRetryQueue,
		RetryTTL:             constants.ValuationRetryTTL,
		FinalDLXExchange:     constants.FinalDLXExchange,
		FinalDLQ:             constants.FinalDLQ,
		FinalDLQRoutingKey:   constants.FinalDLQRoutingKey,
		MaxRetries:           constants.ValuationMaxRetries,
	}
	valuationsListener, err := rabbitmq_adapter.NewValuationConsumerAdapter(
		valuationsConsumerCfg, appConfig.Valuations.Workers, processUC, baseLogger, application.connManager,
	)
	if err != nil {
		return fail("failed to initialize valuations listener", err)
	}
	application.valuationsListener = valuationsListener
	appLogger.Info("Valuations Events Listener initialized.", nil)

	router := rest.NewRouter(
		rest.NewEstimateHandler(recordedEstimateUC, healthUC),
		rest.NewValuationHandler(submitUC, getUC),
		rest.NewLocationsHandler(locationsUC),
		rest.NewAuthHandler(issueTokenUC, appConfig.Auth.TokenTTL),
		rest.NewAuthMiddleware(validateTokenUC),
		appConfig.Rest.AllowedOrigins,
		baseLogger,
	)
	application.restServer = rest.NewServer(appConfig.Rest.Port, router, baseLogger.WithFields(port.Fields{"component": "rest_server"}))

	return application, nil
}

// Run запускает слушателя очереди и HTTP-сервер и ждет сигнала остановки.
func (a *App) Run() error {
	appCtx, cancelApp := context.WithCancel(context.Background())
	defer cancelApp()

	var wg sync.WaitGroup
	componentErrors := make(chan error, 2)

	wg.Add(1)
	go func() {
		defer wg.Done()
		listenerLogger := a.logger.WithFields(port.Fields{"listener_name": "Valuations Events Listener"})
		listenerLogger.Info("Starting listener...", nil)

		if err := a.valuationsListener.Start(appCtx); err != nil {
			listenerLogger.Error("Listener stopped with an unexpected error", err, nil)
			componentErrors <- fmt.Errorf("valuations listener error: %w", err)
			return
		}
		listenerLogger.Info("Listener stopped gracefully due to context cancellation.", nil)
	}()

	go func() {
		if err := a.restServer.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			componentErrors <- fmt.Errorf("rest server error: %w", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	a.logger.Info("Application running. Waiting for signals or component error...", nil)
	var runErr error
	select {
	case receivedSignal := <-quit:
		a.logger.Warn("Received signal, shutting down", port.Fields{"signal": receivedSignal.String()})
	case runErr = <-componentErrors:
		a.logger.Error("A critical component failed, shutting down", runErr, nil)
	}

	a.logger.Info("Shutdown sequence initiated...", nil)

	shutdownCtx, cancelShutdown := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancelShutdown()
	if err := a.restServer.Stop(shutdownCtx); err != nil {
		a.logger.Error("Error stopping REST server", err, nil)
	}

	cancelApp()
	a.logger.Info("Waiting for background processes to finish...", nil)
	wg.Wait()

	a.closeResources()
	return runErr
}

func (a *App) closeResources() {
	if a.valuationsListener != nil {
		if err := a.valuationsListener.Close(); err != nil {
			a.logger.Error("Error closing valuations listener", err, nil)
		}
	}
	if a.eventProducer != nil {
		if err := a.eventProducer.Close(); err != nil {
			a.logger.Error("Error closing event producer", err, nil)
		}
	}
	if a.connManager != nil {
		if err := a.connManager.Close(); err != nil {
			a.logger.Error("Error closing RabbitMQ connection manager", err, nil)
		}
	}
	if a.dbPool != nil {
		a.dbPool.Close()
		a.logger.Info("PostgreSQL pool closed.", nil)
	}

	a.logger.Info("Application shut down.", nil)

	if a.fluentClient != nil {
		if err := a.fluentClient.Close(); err != nil {
			log.Printf("App: Error closing fluent client: %v\n", err)
		}
	}
}
