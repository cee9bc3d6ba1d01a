package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sportshop/storefront/internal/adapters/cache"
	eventadapter "github.com/sportshop/storefront/internal/adapters/events"
	httpadapter "github.com/sportshop/storefront/internal/adapters/http"
	"github.com/sportshop/storefront/internal/adapters/memory"
	"github.com/sportshop/storefront/internal/adapters/postback"
	"github.com/sportshop/storefront/internal/adapters/postgres"
	"github.com/sportshop/storefront/internal/application"
	"github.com/sportshop/storefront/internal/domain"
	"github.com/sportshop/storefront/internal/ports"
)

type Runtime struct {
	cfg        Config
	logger     *slog.Logger
	httpServer *http.Server
	dispatcher *postback.Dispatcher
	closers    []func() error
}

func NewRuntime(ctx context.Context, configPath string) (*Runtime, error) {
	cfg, err := LoadConfig(configPath)
	if err != nil {
		return nil, err
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})).With("service", cfg.ServiceID)
	slog.SetDefault(logger)

	rt := &Runtime{cfg: cfg, logger: logger}

	var (
		products      ports.ProductRepository
		transactions  ports.TransactionRepository
		registrations ports.EventRegistrationRepository
	)
	if cfg.DatabaseURL != "" {
		db, err := postgres.Connect(ctx, cfg.DatabaseURL, cfg.MaxDBConns)
		if err != nil {
			return nil, err
		}
		if err := postgres.RunMigrations(ctx, db); err != nil {
			return nil, err
		}
		repos := postgres.NewRepositories(db)
		products, transactions, registrations = repos.Products, repos.Transactions, repos.Registrations
		logger.InfoContext(ctx, "storage ready", "backend", "postgres")
	} else {
		repos := memory.NewRepositories()
		products, transactions, registrations = repos.Products, repos.Transactions, repos.Registrations
		logger.InfoContext(ctx, "storage ready", "backend", "memory")
	}

	if cfg.RedisURL != "" {
		client, err := cache.Connect(ctx, cfg.RedisURL)
		if err != nil {
			return nil, err
		}
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("ping redis: %w", err)
		}
		products = cache.NewProductCache(products, client, cfg.CacheTTL)
		rt.closers = append(rt.closers, client.Close)
		logger.InfoContext(ctx, "catalog cache enabled")
	}

	var analytics ports.AnalyticsPublisher
	if len(cfg.KafkaBrokers) > 0 {
		pub, err := eventadapter.NewKafkaPublisher(cfg.KafkaBrokers, cfg.AnalyticsTopic)
		if err != nil {
			return nil, err
		}
		analytics = pub
		rt.closers = append(rt.closers, pub.Close)
		logger.InfoContext(ctx, "analytics publisher ready", "backend", "kafka", "topic", cfg.AnalyticsTopic)
	} else {
		analytics = eventadapter.NewMemoryPublisher()
	}

	if err := products.Seed(ctx, defaultCatalog()); err != nil {
		return nil, fmt.Errorf("seed catalog: %w", err)
	}

	rt.dispatcher = postback.NewDispatcher(logger, cfg.PostbackTimeout)

	svc := application.NewService(application.Dependencies{
		Config: application.Config{
			ServiceName:           cfg.ServiceID,
			PostbackURL:           cfg.PostbackURL,
			CampaignCode:          cfg.CampaignCode,
			PostbackKey:           cfg.PostbackKey,
			NetworkChannel:        cfg.NetworkChannel,
			CookieAffiliateUID:    cfg.CookieAffiliateUID,
			CookiePublisherID:     cfg.CookiePublisherID,
			CookieLastSource:      cfg.CookieLastSource,
			CookieLifetime:        cfg.CookieLifetime,
			DefaultSaleActionCode: cfg.DefaultSaleActionCode,
			DefaultLeadActionCode: cfg.DefaultLeadActionCode,
			DefaultTariffCode:     cfg.DefaultTariffCode,
			DefaultCurrency:       cfg.DefaultCurrency,
			SourceMatchMode:       cfg.SourceMatchMode,
			TestCard: domain.CardDetails{
				Number:     cfg.TestCardNumber,
				ExpiryDate: cfg.TestCardExpiry,
				CVV:        cfg.TestCardCVV,
				OwnerName:  cfg.TestCardOwner,
			},
		},
		Products:      products,
		Transactions:  transactions,
		Registrations: registrations,
		Analytics:     analytics,
		Postbacks:     rt.dispatcher,
	})

	handler := httpadapter.NewHandler(svc, logger)
	rt.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.HTTPPort),
		Handler:           httpadapter.NewRouter(handler),
		ReadHeaderTimeout: 5 * time.Second,
	}
	return rt, nil
}

func (r *Runtime) Run(ctx context.Context) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		r.logger.Info("http server listening", "addr", r.httpServer.Addr)
		if err := r.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		r.logger.ErrorContext(ctx, "runtime failure", "error", err)
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	_ = r.httpServer.Shutdown(shutdownCtx)

	// Let in-flight postbacks drain, bounded by the shutdown window.
	done := make(chan struct{})
	go func() {
		r.dispatcher.Wait()
		close(done)
	}()
	select {
	case <-done:
	case <-shutdownCtx.Done():
		r.logger.Warn("shutdown reached deadline with postbacks still in flight")
	}

	for _, closeFn := range r.closers {
		_ = closeFn()
	}
	return nil
}
