package app

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/Aymix/whitecart/config"
	"github.com/Aymix/whitecart/internal/controller"
	"github.com/Aymix/whitecart/internal/infrastructure/mail"
	"github.com/Aymix/whitecart/internal/infrastructure/message-queue/kafka"
	paymentgateway "github.com/Aymix/whitecart/internal/infrastructure/payment-gateway"
	"github.com/Aymix/whitecart/internal/infrastructure/storage"
	"github.com/Aymix/whitecart/internal/infrastructure/tracing"
	localmiddleware "github.com/Aymix/whitecart/internal/middleware"
	"github.com/Aymix/whitecart/internal/repository"
	"github.com/Aymix/whitecart/internal/service"
	"github.com/Aymix/whitecart/pkg/response"
	"github.com/Aymix/whitecart/pkg/validator"
	"github.com/elastic/go-elasticsearch/v8"
	"github.com/go-co-op/gocron/v2"
	"github.com/labstack/echo-contrib/echoprometheus"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"go.mongodb.org/mongo-driver/mongo"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
)

const (
	productCacheTTL = 5 * time.Minute

	authRateLimit       = 5
	authRateLimitWindow = time.Minute
)

type App struct {
	DB     *mongo.Database
	Redis  *redis.Client
	Search *elasticsearch.Client
	Config *config.Config
	Server *echo.Echo

	traceProvider  *sdktrace.TracerProvider
	scheduler      gocron.Scheduler
	closeKafka     func() error
	closePublisher func()
	stopConsumer   context.CancelFunc
	consumerClosed chan struct{}
}

func setupLogger(level string) {
	log.Logger = zerolog.New(os.Stdout).With().Timestamp().Logger()

	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		lvl = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(lvl)
}

// Setup builds the HTTP server and starts the background workers. It does not listen.
func (app *App) Setup() (err error) {
	setupLogger(app.Config.LogLevel)

	if app.Config.TracingConfig.CollectorHost != "" {
		app.traceProvider, err = tracing.InitTracing(app.Config.TracingConfig.CollectorHost)
		if err != nil {
			log.Error().Err(err).Msg("Failed to initialize tracing")
		}
	}

	e := echo.New()
	e.HideBanner = true
	e.Validator = validator.CreateValidator()

	e.Use(middleware.Recover())
	e.Use(tracing.Middleware(otel.Tracer(tracing.ServiceName)))

	// Used empty string so that metrics are not prefixed with the service name
	e.Use(echoprometheus.NewMiddleware(""))
	e.Use(localmiddleware.Logger)
	e.Use(middleware.CORSWithConfig(middleware.CORSConfig{
		AllowOrigins:     []string{app.Config.ClientOrigin},
		AllowCredentials: true,
	}))
	e.Use(middleware.BodyLimit(fmt.Sprintf("%dK", app.Config.UploadConfig.MaxSize/1024+1024)))

	fileStorage, err := storage.CreateLocalStorage(app.Config.UploadConfig.Dir, app.Config.UploadConfig.MaxSize)
	if err != nil {
		return fmt.Errorf("preparing upload directory: %w", err)
	}
	e.Static(strings.TrimSuffix(storage.PublicPrefix, "/"), fileStorage.Dir())

	productRepo := repository.CreateMongoDBProductRepository(app.DB)
	orderRepo := repository.CreateMongoDBOrderRepository(app.DB)
	userRepo := repository.CreateMongoDBUserRepository(app.DB)
	productCache := repository.CreateRedisProductCacheRepository(app.Redis, productCacheTTL)
	productSearch := repository.CreateElasticSearchProductRepository(app.Search)

	var mailer service.Mailer
	if app.Config.SMTPConfig.Server != "" {
		mailer = mail.CreateSMTPMailer(app.Config.SMTPConfig)
	}

	publisher := app.setupEvents(productRepo, userRepo, productSearch, mailer)

	productSvc := service.CreateProductService(productRepo, userRepo, productCache, productSearch, fileStorage, publisher)
	orderSvc := service.CreateOrderService(orderRepo, productRepo, productCache, publisher, app.Config)
	paymentSvc := service.CreatePaymentService(orderRepo, userRepo, paymentgateway.CreateMidtransGateway(app.Config), publisher)
	userSvc := service.CreateUserService(userRepo, app.Config)

	isLoggedIn := localmiddleware.IsLoggedIn(app.Config.JWTConfig.Secret)
	authLimit := localmiddleware.RateLimit(app.Redis, "auth", authRateLimit, authRateLimitWindow)

	g := e.Group("/api")

	g.GET("/ping", func(c echo.Context) error {
		return response.WriteSuccessResponse(c, "Hello, World!", nil)
	})

	controller.CreateAuthController(g, userSvc, app.Config, isLoggedIn, authLimit)
	controller.CreateSellerController(g, userSvc, app.Config, isLoggedIn, authLimit)
	controller.CreateProductController(g, productSvc, isLoggedIn)
	controller.CreateOrderController(g, orderSvc, isLoggedIn)
	controller.CreatePaymentController(g, paymentSvc, isLoggedIn)

	if err = app.setupScheduler(paymentSvc); err != nil {
		return err
	}

	app.Server = e

	return nil
}

// setupEvents publishes to Kafka when a broker is configured and otherwise
// hands events to the consumer in-process.
func (app *App) setupEvents(productRepo repository.ProductRepository, userRepo repository.UserRepository, search repository.ProductSearchRepository, mailer service.Mailer) service.EventPublisher {
	if app.Config.KafkaConfig.BrokerAddress == "" {
		log.Info().Str("component", "setupEvents").Msg("broker address not set, handling events in-process")
		publisher := service.CreateInProcessPublisher(service.CreateEventConsumer(nil, productRepo, userRepo, search, mailer))
		app.closePublisher = publisher.Close
		return publisher
	}

	writer := kafka.CreateKafkaWriter(app.Config)
	reader := kafka.CreateKafkaReader(app.Config)
	app.closeKafka = func() error {
		return errors.Join(writer.Close(), reader.Close())
	}

	consumer := service.CreateEventConsumer(reader, productRepo, userRepo, search, mailer)
	ctx, cancel := context.WithCancel(context.Background())
	app.stopConsumer = cancel
	app.consumerClosed = make(chan struct{})

	go func() {
		defer close(app.consumerClosed)
		consumer.ConsumeEvent(ctx)
	}()

	return kafka.CreateProducer(writer)
}

func (app *App) setupScheduler(paymentSvc service.PaymentService) (err error) {
	if app.Config.MidtransConfig.ServerKey == "" {
		log.Info().Str("component", "setupScheduler").Msg("payment provider not configured, reconciliation disabled")
		return nil
	}

	app.scheduler, err = gocron.NewScheduler()
	if err != nil {
		return err
	}

	_, err = app.scheduler.NewJob(
		gocron.DurationJob(app.Config.MidtransConfig.ReconcileInterval),
		gocron.NewTask(paymentSvc.ReconcilePendingPayments),
		gocron.WithSingletonMode(gocron.LimitModeReschedule),
	)
	if err != nil {
		return err
	}

	app.scheduler.Start()

	return nil
}

func (app *App) startMetricsServer() {
	metrics := echo.New()
	metrics.HideBanner = true
	metrics.GET("/metrics", echoprometheus.NewHandler())
	if err := metrics.Start(fmt.Sprintf(":%s", app.Config.MetricsPort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start metrics server")
	}
}

func (app *App) Start() {
	if err := app.Setup(); err != nil {
		log.Fatal().Err(err).Msg("Failed to set up server")
	}

	go app.startMetricsServer()

	if err := app.Server.Start(fmt.Sprintf(":%s", app.Config.ServicePort)); err != nil && !errors.Is(err, http.ErrServerClosed) {
		log.Fatal().Err(err).Msg("Failed to start server")
	}
}

func (app *App) StopServer() error {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	var errs []error

	if app.Server != nil {
		errs = append(errs, app.Server.Shutdown(ctx))
	}

	if app.scheduler != nil {
		errs = append(errs, app.scheduler.Shutdown())
	}

	if app.closePublisher != nil {
		app.closePublisher()
	}

	if app.stopConsumer != nil {
		app.stopConsumer()
		<-app.consumerClosed
	}

	if app.closeKafka != nil {
		errs = append(errs, app.closeKafka())
	}

	if app.traceProvider != nil {
		errs = append(errs, app.traceProvider.Shutdown(ctx))
	}

	return errors.Join(errs...)
}
