package app

import (
	"context"
	"crypto/tls"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"sync"

	"github.com/niksmo/craft-store/config"
	"github.com/niksmo/craft-store/internal/adapter"
	"github.com/niksmo/craft-store/internal/adapter/catalog"
	"github.com/niksmo/craft-store/internal/adapter/httphandler"
	"github.com/niksmo/craft-store/internal/adapter/kafka"
	"github.com/niksmo/craft-store/internal/adapter/placement"
	"github.com/niksmo/craft-store/internal/adapter/storage"
	"github.com/niksmo/craft-store/internal/core/domain"
	"github.com/niksmo/craft-store/internal/core/port"
	"github.com/niksmo/craft-store/internal/core/service"
	"github.com/niksmo/craft-store/pkg/schema"
	"github.com/twmb/franz-go/pkg/sr"
)

// orderEvents is nil when no brokers are configured.
type orderEvents struct {
	serde    schema.Serde
	producer kafka.OrdersProducer
	ledger   *kafka.OrderLedgerProcessor
	view     *kafka.OrderView
}

type App struct {
	ctx        context.Context
	cfg        config.Config
	tlsConfig  *tls.Config
	sqldb      *storage.SQLDB
	catalog    domain.Catalog
	events     *orderEvents
	storefront *service.Storefront
	httpServer httphandler.HTTPServer
}

func New(ctx context.Context, cfg config.Config) *App {
	app := &App{ctx: ctx, cfg: cfg}

	app.initLogger()
	app.initCatalog()
	app.initOrderEvents()
	app.initCoreService()
	app.initInboundAdapters()

	return app
}

func (app *App) initLogger() {
	opts := &slog.HandlerOptions{Level: app.cfg.LogLevel}
	logger := slog.New(slog.NewJSONHandler(os.Stderr, opts))
	slog.SetDefault(logger)
}

func (app *App) initCatalog() {
	const op = "App.initCatalog"

	var loader port.CatalogLoader = catalog.NewStaticLoader()
	if dsn := app.cfg.SQLDB; dsn != "" {
		db, err := storage.NewSQLDB(app.ctx, dsn)
		if err != nil {
			app.fallDown(op, err)
		}
		app.sqldb = &db
		loader = storage.NewProductsRepository(db)
	}

	products, err := loader.LoadProducts(app.ctx)
	if err != nil {
		app.fallDown(op, err)
	}
	app.catalog = domain.NewCatalog(products)

	slog.Info("catalog is loaded", "op", op, "products", app.catalog.Len())
}

func (app *App) initOrderEvents() {
	if !app.cfg.Broker.Enabled() {
		slog.Info("order events are disabled")
		return
	}

	app.initTLS()
	app.events = &orderEvents{}
	app.initSerde()
	app.initOutboundAdapters()
}

func (app *App) initTLS() {
	const op = "App.initTLS"

	t := app.cfg.Broker.TLS
	if !t.Enabled() {
		return
	}
	tlsConfig, err := adapter.MakeTLSConfig(t.CA, t.Cert, t.Key)
	if err != nil {
		app.fallDown(op, err)
	}
	app.tlsConfig = tlsConfig
	kafka.ApplyGokaTLS(tlsConfig)
}

func (app *App) initSerde() {
	const op = "App.initSerde"
	urls := app.cfg.Broker.SchemaRegistryURLs

	srClient, err := sr.NewClient(sr.URLs(urls...))
	if err != nil {
		app.fallDown(op, err)
	}

	schemaCreater := schema.NewSchemaCreater(srClient)

	orderSS := app.cfg.Broker.Topics.Orders + "-value"
	orderSerde, err := schema.NewSerdeOrderPlacedV1(
		app.ctx,
		schema.SubjectOpt(orderSS),
		schema.SchemaIdentifierOpt(schemaCreater),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	app.events.serde = orderSerde
}

func (app *App) initOutboundAdapters() {
	const op = "App.initOutboundAdapters"

	ctx := app.ctx
	seedBrokers := app.cfg.Broker.SeedBrokers
	ordersTopic := app.cfg.Broker.Topics.Orders
	ledgerGroup := app.cfg.Broker.Groups.OrderLedger

	ordersProducer, err := kafka.NewOrdersProducer(
		kafka.ProducerClientOpt(ctx, seedBrokers, ordersTopic, app.tlsConfig),
		kafka.ProducerEncoderOpt(app.events.serde),
	)
	if err != nil {
		app.fallDown(op, err)
	}

	ledger, err := kafka.NewOrderLedgerProc(
		seedBrokers, ordersTopic, ledgerGroup, app.events.serde,
	)
	if err != nil {
		app.fallDown(op, err)
	}

	view, err := kafka.NewOrderView(seedBrokers, ledgerGroup, app.events.serde)
	if err != nil {
		app.fallDown(op, err)
	}

	app.events.producer = ordersProducer
	app.events.ledger = ledger
	app.events.view = view
}

func (app *App) initCoreService() {
	var publisher port.OrderPublisher
	if app.events != nil {
		publisher = app.events.producer
	}

	checkoutCfg := app.cfg.Checkout
	app.storefront = service.New(
		app.catalog,
		placement.NewSimulatedPlacer(checkoutCfg.PlacementDelay),
		publisher,
		service.Config{
			RedirectRoute: checkoutCfg.RedirectRoute,
			RedirectAfter: checkoutCfg.RedirectAfter,
		},
	)
}

func (app *App) initInboundAdapters() {
	addr := app.cfg.HTTPServerAddr
	mux := http.NewServeMux()
	httphandler.RegisterCatalog(mux, app.storefront, app.storefront)
	httphandler.RegisterCart(mux, app.storefront)
	httphandler.RegisterCheckout(mux, app.ctx, app.storefront)
	if app.events != nil {
		httphandler.RegisterOrders(mux, app.events.view)
	}

	handler := httphandler.LogRequests(httphandler.AllowJSON(mux))
	app.httpServer = httphandler.NewHTTPServer(addr, handler)
}

func (app *App) Run(stopFn context.CancelFunc) {
	if app.events != nil {
		var wg sync.WaitGroup
		wg.Add(1)
		go app.events.ledger.Run(app.ctx, stopFn, &wg)
		wg.Wait()

		go app.events.view.Run(app.ctx, stopFn)
	}

	go app.httpServer.Run(stopFn)

	slog.Info("application is running", "addr", app.cfg.HTTPServerAddr)
}

func (app *App) Close(ctx context.Context) {
	slog.Info("application is closing...")

	app.httpServer.Close(ctx)
	if err := app.storefront.Wait(ctx); err != nil {
		slog.Error("placements are not finished", "err", err)
	}
	if app.events != nil {
		app.events.ledger.Close()
		app.events.producer.Close()
	}
	if app.sqldb != nil {
		app.sqldb.Close()
	}

	slog.Info("application is closed")
}

func (app *App) fallDown(op string, err error) {
	panic(fmt.Errorf("%s: %w", op, err))
}
