package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/Govind-619/ShopSphere/config"
	"github.com/Govind-619/ShopSphere/controllers"
	"github.com/Govind-619/ShopSphere/events"
	"github.com/Govind-619/ShopSphere/lock"
	"github.com/Govind-619/ShopSphere/metrics"
	"github.com/Govind-619/ShopSphere/notify"
	"github.com/Govind-619/ShopSphere/payment"
	"github.com/Govind-619/ShopSphere/repository"
	"github.com/Govind-619/ShopSphere/routes"
	"github.com/Govind-619/ShopSphere/services"
	"github.com/Govind-619/ShopSphere/utils"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/errgroup"
)

func main() {
	// Load environment variables
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal("Error loading config:", err)
	}

	// Initialize logger
	logFile, err := utils.InitLogger(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		log.Fatal("Failed to initialize logger:", err)
	}

	os.Exit(finish(logFile, run(cfg)))
}

// finish logs how the server ended and closes the log file before main exits
// with the returned code.
func finish(logFile io.Closer, runErr error) int {
	code := 0
	if runErr != nil {
		utils.LogError("Server exited with error: %v", runErr)
		code = 1
	} else {
		utils.LogInfo("Server stopped")
	}
	if err := logFile.Close(); err != nil {
		log.Printf("Failed to close log file: %v", err)
	}
	return code
}

func run(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// Initialize database
	db, err := config.InitDB(cfg)
	if err != nil {
		return err
	}
	products := repository.NewGormProductRepository(db)
	stockStore := repository.NewGormStockStore(db)
	coupons := repository.NewGormCouponLedger(db)
	orders := repository.NewGormOrderRepository(db)
	deliveryCharges := repository.NewGormDeliveryChargeRepository(db)

	defaultDelivery := cfg.DefaultDeliveryCharge
	if cfg.DeliveryChargesFile != "" {
		seed, err := config.LoadDeliveryCharges(cfg.DeliveryChargesFile)
		if err != nil {
			return err
		}
		if seed.Default != nil {
			defaultDelivery = *seed.Default
		}
		for i := range seed.Charges {
			if err := deliveryCharges.Upsert(ctx, &seed.Charges[i]); err != nil {
				return err
			}
		}
		utils.LogInfo("Seeded %d delivery charges from %s", len(seed.Charges), cfg.DeliveryChargesFile)
	}

	locker, redisClient, err := newLocker(ctx, cfg)
	if err != nil {
		return err
	}
	if redisClient != nil {
		defer redisClient.Close()
	}

	publisher := newPublisher(cfg)
	defer func() {
		if err := publisher.Close(); err != nil {
			utils.LogError("Failed to close event publisher: %v", err)
		}
	}()

	gateway, err := newGateway(cfg)
	if err != nil {
		return err
	}

	m := metrics.New(prometheus.DefaultRegisterer)
	resolver := services.NewDeliveryResolver(deliveryCharges, defaultDelivery)
	calc := services.NewCalculator(products, coupons, resolver,
		services.WithGSTRate(cfg.GSTRate),
		services.WithStrictVariantSelection(cfg.StrictVariantSelection),
		services.WithCalculatorMetrics(m),
	)
	keeper := services.NewStockKeeper(stockStore, coupons, locker)
	orderService := services.NewOrderService(services.OrderDeps{
		Calculator: calc,
		Orders:     orders,
		Stock:      keeper,
		Gateway:    gateway,
		Publisher:  publisher,
		Notifier:   newNotifier(cfg),
		Metrics:    m,
		CODMax:     cfg.CODMaxAmount,
	})
	reaper := services.NewReaper(orderService, cfg.ReaperInterval, cfg.AbandonThreshold)

	ctl := controllers.NewController(controllers.Services{
		Orders:    orderService,
		Coupons:   services.NewCouponService(coupons),
		Inventory: services.NewInventoryService(products, keeper),
		Delivery:  resolver,
	})

	if cfg.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := routes.SetupRouter(routes.Deps{
		Controller: ctl,
		JWTSecret:  cfg.JWTSecret,
		Gatherer:   prometheus.DefaultGatherer,
	})
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		utils.LogInfo("Server starting on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		return reaper.Start(gctx)
	})
	g.Go(func() error {
		<-gctx.Done()
		utils.LogInfo("Shutting down server")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func newLocker(ctx context.Context, cfg *config.Config) (lock.Locker, *redis.Client, error) {
	switch cfg.StockLockMode {
	case config.LockModeRedis:
		client := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if err := client.Ping(ctx).Err(); err != nil {
			client.Close()
			return nil, nil, err
		}
		utils.LogInfo("Stock writes serialized through redis at %s", cfg.RedisAddr)
		return lock.NewRedis(client, cfg.StockLockTTL), client, nil
	case config.LockModeLocal:
		utils.LogInfo("Stock writes serialized in process")
		return lock.NewLocal(), nil, nil
	default:
		utils.LogWarn("Stock writes are not serialized (STOCK_LOCK_MODE=none)")
		return lock.Noop{}, nil, nil
	}
}

func newPublisher(cfg *config.Config) events.Publisher {
	if len(cfg.KafkaBrokers) == 0 {
		utils.LogInfo("KAFKA_BROKERS not set, order events are not published")
		return events.Nop{}
	}
	utils.LogInfo("Publishing order events to %s on %v", cfg.KafkaOrderTopic, cfg.KafkaBrokers)
	return events.NewKafkaPublisher(cfg.KafkaBrokers, cfg.KafkaOrderTopic)
}

func newNotifier(cfg *config.Config) notify.Notifier {
	if cfg.SMTPHost == "" {
		utils.LogInfo("SMTP_HOST not set, order mails are disabled")
		return notify.Nop{}
	}
	return notify.NewMailNotifier(notify.MailConfig{
		Host:     cfg.SMTPHost,
		Port:     cfg.SMTPPort,
		Username: cfg.SMTPUser,
		Password: cfg.SMTPPassword,
		From:     cfg.MailFrom,
	})
}

func newGateway(cfg *config.Config) (payment.Gateway, error) {
	if cfg.RazorpayKey != "" && cfg.RazorpaySecret != "" {
		return payment.NewRazorpayGateway(cfg.RazorpayKey, cfg.RazorpaySecret), nil
	}
	if cfg.Env == "production" {
		return nil, errors.New("RAZORPAY_KEY and RAZORPAY_SECRET are required in production")
	}
	utils.LogWarn("Razorpay keys not set, using the in-memory gateway")
	return payment.NewFake(cfg.RazorpaySecret), nil
}
