package main

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"contactmanager/auth"
	"contactmanager/contact"
	"contactmanager/dynamodb"
	"contactmanager/httpserver"
	"contactmanager/memory"
	"contactmanager/mongodb"
	"contactmanager/pkg/config"
	"contactmanager/pkg/jwt"
	"contactmanager/pkg/logger"
	"contactmanager/pkg/password"
	"contactmanager/pkg/sentry"
	"contactmanager/postgres"
	"contactmanager/rabbitmq"

	sentrygo "github.com/getsentry/sentry-go"
	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// stores groups the repositories of one backing store.
type stores struct {
	contacts contact.Repository
	users    auth.UserRepository
	attempts auth.LoginAttemptRepository
	close    func()
}

// @title Contact Manager API
// @version 1.0
// @description Personal contact management with per-user ownership.
// @BasePath /
// @securityDefinitions.apikey ApiKeyAuth
// @in header
// @name x-auth-token
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		zap.S().Fatalw("cannot load config", "error", err)
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level, File: cfg.Log.File})
	if err != nil {
		zap.S().Fatalw("cannot build logger", "error", err)
	}
	defer func() { _ = log.Sync() }()

	err = sentrygo.Init(sentrygo.ClientOptions{
		Dsn:              cfg.SentryDSN,
		Environment:      cfg.AppEnv,
		AttachStacktrace: true,
	})
	if err != nil {
		log.Fatalw("cannot init sentry", "error", err)
	}
	defer sentrygo.Flush(sentry.FlushTime)

	if err := run(cfg, log); err != nil {
		sentry.Fatal(err)
		log.Fatalw("server stopped with error", "error", err)
	}
}

func run(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	st, err := newStores(ctx, cfg)
	if err != nil {
		return err
	}
	defer st.close()

	publisher, closePublisher, err := newPublisher(cfg, log)
	if err != nil {
		return err
	}
	defer closePublisher()

	if cfg.Auth.JWTSecret == "" {
		return errors.New("AUTH_JWT_SECRET is required")
	}
	authService := auth.NewUsecase(
		st.users,
		st.attempts,
		password.NewBcryptHasher(bcrypt.DefaultCost),
		jwt.NewJWTProvider(cfg.Auth.JWTSecret, cfg.TokenTTL()),
	)
	contactService := contact.NewUsecase(st.contacts,
		contact.WithPublisher(publisher),
		contact.WithLogger(log),
	)

	server, err := httpserver.New(
		httpserver.WithConfig(cfg),
		httpserver.WithLogger(log),
		httpserver.WithAuthService(authService),
		httpserver.WithContactService(contactService),
	)
	if err != nil {
		return err
	}

	errCh := make(chan error, 1)
	go func() {
		log.Infow("server started", "addr", server.Addr, "store", cfg.StoreDriver)
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}

func newStores(ctx context.Context, cfg *config.Config) (stores, error) {
	switch cfg.StoreDriver {
	case config.StoreMongoDB:
		db, err := mongodb.NewDatabase(ctx, mongodb.Options{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
		if err != nil {
			return stores{}, err
		}
		return stores{
			contacts: mongodb.NewContactRepository(db),
			users:    mongodb.NewUserRepository(db),
			attempts: mongodb.NewLoginAttemptRepository(db),
			close:    func() { _ = db.Client().Disconnect(context.Background()) },
		}, nil

	case config.StoreDynamoDB:
		client, err := dynamodb.NewClient(ctx, dynamodb.Options{
			Region:       cfg.DynamoDB.Region,
			Endpoint:     cfg.DynamoDB.Endpoint,
			AccessKey:    cfg.DynamoDB.AccessKey,
			SecretKey:    cfg.DynamoDB.SecretKey,
			SessionToken: cfg.DynamoDB.SessionToken,
		})
		if err != nil {
			return stores{}, err
		}
		return stores{
			contacts: dynamodb.NewContactRepository(client, cfg.DynamoDB.ContactsTable),
			users:    dynamodb.NewUserRepository(client, cfg.DynamoDB.UsersTable),
			attempts: dynamodb.NewLoginAttemptRepository(client, cfg.DynamoDB.LoginAttemptsTable),
			close:    func() {},
		}, nil

	case config.StoreMemory:
		return stores{
			contacts: memory.NewContactRepository(),
			users:    memory.NewUserRepository(),
			attempts: memory.NewLoginAttemptRepository(),
			close:    func() {},
		}, nil
	}

	db, err := postgres.NewConnection(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	})
	if err != nil {
		return stores{}, err
	}
	return stores{
		contacts: postgres.NewContactRepository(db),
		users:    postgres.NewUserRepository(db),
		attempts: postgres.NewLoginAttemptRepository(db),
		close: func() {
			if sqlDB, err := db.DB(); err == nil {
				_ = sqlDB.Close()
			}
		},
	}, nil
}

// newPublisher returns the RabbitMQ publisher when RABBITMQ_URL is set and a
// no-op publisher otherwise.
func newPublisher(cfg *config.Config, log *zap.SugaredLogger) (contact.EventPublisher, func(), error) {
	if cfg.RabbitMQ.URL == "" {
		return contact.NopPublisher{}, func() {}, nil
	}

	client, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQ.URL, Exchange: cfg.RabbitMQ.Exchange})
	if err != nil {
		return nil, nil, err
	}
	log.Infow("publishing contact events", "exchange", cfg.RabbitMQ.Exchange)

	return client, func() {
		if err := client.Close(); err != nil {
			log.Warnw("close rabbitmq", "error", err)
		}
	}, nil
}
