package main

import (
	"context"
	"database/sql"
	"fmt"
	"io"
	stdLog "log"
	"os"
	"os/signal"
	"syscall"

	"github.com/kuvalkin/accounts/internal/service/account"
	accountStorage "github.com/kuvalkin/accounts/internal/storage/account"
	"github.com/kuvalkin/accounts/internal/support/config"
	"github.com/kuvalkin/accounts/internal/support/database"
	"github.com/kuvalkin/accounts/internal/support/event"
	"github.com/kuvalkin/accounts/internal/support/log"
	"github.com/kuvalkin/accounts/internal/support/password"
	"github.com/kuvalkin/accounts/internal/support/redis"
)

func main() {
	conf, args, err := config.Resolve(os.Args[1:])
	if err != nil {
		stdLog.Fatal(fmt.Errorf("failed to resolve config: %w", err))
	}

	err = log.InitLogger(conf.Debug)
	if err != nil {
		stdLog.Fatal(fmt.Errorf("failed to initialize logger: %w", err))
	}

	os.Exit(run(conf, args))
}

func run(conf *config.Config, args []string) int {
	defer func() {
		// stderr sync fails on some platforms, nothing to do about it
		_ = log.Logger().Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repo, closeRepo, err := initRepository(ctx, conf)
	if err != nil {
		log.Logger().Errorw("failed to initialize record store", "backend", conf.StoreBackend, "error", err)

		return 1
	}
	defer func() {
		log.Logger().Debug("closing record store")

		if err := closeRepo.Close(); err != nil {
			log.Logger().Errorw("failed to close record store", "error", err)
		}
	}()

	hasher, err := password.NewBcryptHasher(conf.HashWorkers, conf.HashTimeout)
	if err != nil {
		log.Logger().Errorw("failed to initialize password hasher", "error", err)

		return 1
	}
	defer hasher.Close()

	service, err := account.NewService(repo, hasher, &account.Options{
		HashCost:          conf.HashCost,
		MinPasswordLength: conf.MinPasswordLength,
	})
	if err != nil {
		log.Logger().Errorw("failed to initialize account service", "error", err)

		return 1
	}

	err = event.Subscribe(event.AccountRegistered, func(username string) {
		log.Logger().Named("events").Infow("account registered", "username", username)
	})
	if err != nil {
		log.Logger().Errorw("failed to subscribe to account events", "error", err)

		return 1
	}
	defer event.Release()

	cli := &commands{
		service: service,
		stdin:   os.Stdin,
		stdout:  os.Stdout,
		stderr:  os.Stderr,
	}

	return cli.run(ctx, args)
}

func initRepository(ctx context.Context, conf *config.Config) (account.Repository, io.Closer, error) {
	switch conf.StoreBackend {
	case config.BackendRedis:
		client, err := redis.NewClient(ctx, conf.RedisAddress, conf.RedisPassword, conf.RedisDB, conf.StoreTimeout)
		if err != nil {
			return nil, nil, fmt.Errorf("init redis failed: %w", err)
		}

		return accountStorage.NewRedisRepository(client, conf.EnvName, conf.StoreTimeout), client, nil
	case config.BackendPostgres:
		db, err := initDB(ctx, conf)
		if err != nil {
			return nil, nil, err
		}

		return accountStorage.NewDatabaseRepository(db, conf.EnvName, conf.StoreTimeout), db, nil
	case config.BackendMemory:
		return accountStorage.NewInMemoryRepository(), closerFunc(func() error { return nil }), nil
	default:
		return nil, nil, fmt.Errorf("unknown store backend: %q", conf.StoreBackend)
	}
}

func initDB(ctx context.Context, conf *config.Config) (*sql.DB, error) {
	log.Logger().Debug("connecting to DB")

	localCtx, cancel := context.WithTimeout(ctx, conf.StoreTimeout)
	defer cancel()

	db, err := database.InitDB(localCtx, conf.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("init db failed: %w", err)
	}

	localCtx, cancel = context.WithTimeout(ctx, conf.StoreTimeout)
	defer cancel()

	err = database.Migrate(localCtx, db, conf.EnvName)
	if err != nil {
		_ = db.Close()

		return nil, fmt.Errorf("migrate failed: %w", err)
	}

	return db, nil
}

type closerFunc func() error

func (f closerFunc) Close() error {
	return f()
}
