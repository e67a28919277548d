package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"golang.org/x/time/rate"
	"gorm.io/gorm"

	"github.com/QuangMinh07/BE-NOM-sub000/configs"
	"github.com/QuangMinh07/BE-NOM-sub000/controllers"
	"github.com/QuangMinh07/BE-NOM-sub000/middlewares"
	"github.com/QuangMinh07/BE-NOM-sub000/mq"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/logger"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/mailer"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/payos"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/pushnoti"
	"github.com/QuangMinh07/BE-NOM-sub000/pkg/storage"
	"github.com/QuangMinh07/BE-NOM-sub000/repository"
	"github.com/QuangMinh07/BE-NOM-sub000/routes"
	"github.com/QuangMinh07/BE-NOM-sub000/services"
	"github.com/QuangMinh07/BE-NOM-sub000/ws"
)

const outboundTimeout = 15 * time.Second

func main() {
	cfg, err := configs.LoadConfig()
	if err != nil {
		logger.Error("load config failed", "err", err)
		os.Exit(1)
	}
	if err := logger.Init(cfg.Log); err != nil {
		logger.Error("init logger failed", "err", err)
		os.Exit(1)
	}
	if cfg.JWTSecret == "changeme" {
		logger.Warn("JWT_SECRET is the default value; set it outside development")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// DB
	db, err := configs.ConnectDB(cfg)
	if err != nil {
		logger.Error("connect database failed", "err", err)
		os.Exit(1)
	}
	if err := configs.Migrate(db); err != nil {
		logger.Error("migrate failed", "err", err)
		os.Exit(1)
	}
	if err := configs.SeedAdmin(db, cfg.AdminEmail, cfg.AdminPassword); err != nil {
		logger.Error("seed admin failed", "err", err)
		os.Exit(1)
	}

	app := build(ctx, cfg, db)
	defer app.close()

	gin.SetMode(cfg.GinMode)
	r := gin.New()
	r.Use(gin.Recovery(), middlewares.RequestLogger())
	routes.RegisterRoutes(r, app.deps)

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}
	go func() {
		logger.Info("server running", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("server failed", "err", err)
			stop()
		}
	}()

	<-ctx.Done()
	logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "err", err)
	}
}

type application struct {
	deps    routes.Deps
	closers []func()
}

func (a *application) close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
}

// build wires repositories, services and controllers. Optional backends
// (SMTP, PayOS, MinIO, Redis, RabbitMQ) are skipped when unconfigured.
func build(ctx context.Context, cfg *configs.Config, db *gorm.DB) *application {
	app := &application{}

	userRepo := repository.NewUserRepository(db)
	storeRepo := repository.NewStoreRepository(db)
	foodRepo := repository.NewFoodRepository(db)
	cartRepo := repository.NewCartRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	cancelRepo := repository.NewCancellationRepository(db)
	timeoutRepo := repository.NewOrderTimeoutRepository(db)
	chatRepo := repository.NewChatRepository(db)

	var mail services.Mailer = mailer.LogMailer{}
	if cfg.SMTP.Host != "" {
		mail = mailer.NewSMTP(mailer.Config{
			Host:     cfg.SMTP.Host,
			Port:     cfg.SMTP.Port,
			Username: cfg.SMTP.Username,
			Password: cfg.SMTP.Password,
			From:     cfg.SMTP.From,
			Timeout:  outboundTimeout,
		})
	} else {
		logger.Warn("SMTP_HOST not set, emails are only logged")
	}

	var gateway services.PaymentGateway
	payClient := payos.New(payos.Config{
		ClientID:    cfg.PayOS.ClientID,
		APIKey:      cfg.PayOS.APIKey,
		ChecksumKey: cfg.PayOS.ChecksumKey,
		BaseURL:     cfg.PayOS.BaseURL,
		Timeout:     outboundTimeout,
	})
	if payClient.Configured() {
		gateway = payClient
	} else {
		logger.Warn("PayOS credentials not set, only cash payments work")
	}

	var objects services.ObjectStorage
	if cfg.MinIO.Endpoint != "" {
		store, err := storage.NewMinio(ctx, storage.Config{
			Endpoint:  cfg.MinIO.Endpoint,
			AccessKey: cfg.MinIO.AccessKey,
			SecretKey: cfg.MinIO.SecretKey,
			Bucket:    cfg.MinIO.Bucket,
			UseSSL:    cfg.MinIO.UseSSL,
		})
		if err != nil {
			logger.Error("minio unavailable, uploads disabled", "err", err)
		} else {
			objects = store
		}
	}

	// Order status notifications go through RabbitMQ when configured.
	push := services.NewPushStatusNotifier(userRepo, pushnoti.New(cfg.ExpoPushURL, outboundTimeout))
	var notifier services.StatusNotifier = push
	if cfg.RabbitMQURL != "" {
		client, err := mq.Dial(cfg.RabbitMQURL)
		if err != nil {
			logger.Error("rabbitmq unavailable, sending pushes directly", "err", err)
		} else {
			notifier = client
			app.closers = append(app.closers, client.Close)
			go func() {
				if err := client.Consume(ctx, push); err != nil {
					logger.Error("order events consumer stopped", "err", err)
				}
			}()
		}
	}

	// Chat fan-out, relayed over Redis when configured.
	hub := ws.NewChatHub()
	go hub.Run(ctx)
	var publisher services.RoomPublisher = hub
	if cfg.RedisAddr != "" {
		rdb, err := ws.Connect(ctx, cfg.RedisAddr, cfg.RedisPassword)
		if err != nil {
			logger.Error("redis unavailable, chat stays local", "err", err)
		} else {
			relay := ws.NewRedisRelay(rdb, hub)
			publisher = relay
			app.closers = append(app.closers, func() { _ = rdb.Close() })
			go func() {
				if err := relay.Run(ctx); err != nil {
					logger.Error("chat relay stopped", "err", err)
				}
			}()
		}
	}

	authSvc := services.NewAuthService(userRepo, mail, cfg.JWTSecret, cfg.JWTTTL)
	userSvc := services.NewUserService(userRepo)
	adminSvc := services.NewAdminService(userRepo, orderRepo, mail)
	storeSvc := services.NewStoreService(db, storeRepo, userRepo)
	storeSvc.Location = cfg.StoreLocation
	foodSvc := services.NewFoodService(db, foodRepo, storeRepo)
	cartSvc := services.NewCartService(db, cartRepo, foodRepo, paymentRepo)
	chatSvc := services.NewChatService(chatRepo, orderRepo, storeRepo, publisher)
	uploadSvc := services.NewUploadService(objects, userRepo)

	paymentSvc := &services.PaymentService{
		DB:          db,
		CartRepo:    cartRepo,
		PaymentRepo: paymentRepo,
		UserRepo:    userRepo,
		StoreRepo:   storeRepo,
		OrderRepo:   orderRepo,
		Gateway:     gateway,
		Codes:       services.NewOrderCodeGenerator(nil),
		ReturnURL:   cfg.PayOS.ReturnURL,
		CancelURL:   cfg.PayOS.CancelURL,
	}
	orderSvc := &services.OrderService{
		DB:          db,
		Repo:        orderRepo,
		CartRepo:    cartRepo,
		PaymentRepo: paymentRepo,
		UserRepo:    userRepo,
		StoreRepo:   storeRepo,
		ChatRepo:    chatRepo,
		TimeoutRepo: timeoutRepo,
		Notifier:    notifier,
		CancelAfter: cfg.OrderAutoCancelAfter,
	}
	cancelSvc := &services.CancellationService{
		DB:          db,
		Repo:        cancelRepo,
		OrderRepo:   orderRepo,
		UserRepo:    userRepo,
		StoreRepo:   storeRepo,
		PaymentRepo: paymentRepo,
		TimeoutRepo: timeoutRepo,
		Mailer:      mail,
	}
	checkoutSvc := &services.CheckoutService{
		DB:            db,
		Payments:      paymentSvc,
		Orders:        orderSvc,
		Cancellations: cancelSvc,
	}

	worker := &services.OrderTimeoutWorker{
		Timeouts:  timeoutRepo,
		Orders:    orderRepo,
		Cancel:    cancelSvc,
		Interval:  cfg.OrderTimeoutPoll,
		BatchSize: 50,
	}
	go worker.Run(ctx)

	limiter := middlewares.NewIPRateLimiter(rate.Limit(cfg.RateLimitRPS), cfg.RateLimitBurst)
	go func() {
		t := time.NewTicker(time.Minute)
		defer t.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-t.C:
				limiter.Sweep(10 * time.Minute)
			}
		}
	}()

	app.deps = routes.Deps{
		JWTSecret:    cfg.JWTSecret,
		CORSOrigins:  cfg.CORSOrigins,
		Users:        userRepo,
		Limiter:      limiter,
		Auth:         controllers.NewAuthController(authSvc),
		User:         controllers.NewUserController(userSvc),
		Admin:        controllers.NewAdminController(adminSvc, orderSvc, cancelSvc),
		Store:        controllers.NewStoreController(storeSvc, foodSvc, orderSvc),
		Food:         controllers.NewFoodController(foodSvc),
		Cart:         controllers.NewCartController(cartSvc),
		Payment:      controllers.NewPaymentController(paymentSvc),
		Checkout:     controllers.NewCheckoutController(checkoutSvc),
		Order:        controllers.NewOrderController(orderSvc),
		Cancellation: controllers.NewCancellationController(cancelSvc),
		Chat:         controllers.NewChatController(chatSvc),
		Shipper:      controllers.NewShipperController(orderSvc),
		Upload:       controllers.NewUploadController(uploadSvc),
		Hub:          hub,
		RoomAccess:   chatSvc,
	}
	return app
}
