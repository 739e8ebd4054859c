package main

import (
	"context"
	"database/sql"
	"flag"
	"strconv"
	"time"

	"contactmanager/mongodb"
	"contactmanager/pkg/config"
	"contactmanager/pkg/logger"
	"contactmanager/postgres"

	_ "github.com/lib/pq"
	migrate "github.com/rubenv/sql-migrate"
	"go.uber.org/zap"
)

func main() {
	dir := flag.String("dir", "migrations", "directory holding the SQL migrations")
	down := flag.Bool("down", false, "roll back the most recent migration")
	flag.Parse()

	cfg, err := config.LoadConfig()
	if err != nil {
		zap.S().Fatalw("cannot load config", "error", err)
	}

	log, err := logger.New(logger.Options{Level: cfg.Log.Level})
	if err != nil {
		zap.S().Fatalw("cannot build logger", "error", err)
	}
	defer func() { _ = log.Sync() }()

	switch cfg.StoreDriver {
	case config.StorePostgres:
		err = migratePostgres(cfg, *dir, *down, log)
	case config.StoreMongoDB:
		err = migrateMongo(cfg, log)
	default:
		log.Infow("nothing to migrate", "store", cfg.StoreDriver)
	}
	if err != nil {
		log.Fatalw("migration failed", "store", cfg.StoreDriver, "error", err)
	}
}

func migratePostgres(cfg *config.Config, dir string, down bool, log *zap.SugaredLogger) error {
	db, err := sql.Open("postgres", postgres.DSN(postgres.Options{
		DBName:   cfg.DB.Name,
		DBUser:   cfg.DB.User,
		Password: cfg.DB.Pass,
		Host:     cfg.DB.Host,
		Port:     strconv.Itoa(cfg.DB.Port),
		SSLMode:  cfg.DB.EnableSSL,
	}))
	if err != nil {
		return err
	}
	defer db.Close()

	migrations := &migrate.FileMigrationSource{
		Dir: dir,
	}

	direction, limit := migrate.Up, 0
	if down {
		direction, limit = migrate.Down, 1
	}

	total, err := migrate.ExecMax(db, "postgres", migrations, direction, limit)
	if err != nil {
		return err
	}

	log.Infow("applied migrations", "total", total, "down", down)
	return nil
}

func migrateMongo(cfg *config.Config, log *zap.SugaredLogger) error {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := mongodb.NewDatabase(ctx, mongodb.Options{URI: cfg.Mongo.URI, Database: cfg.Mongo.Database})
	if err != nil {
		return err
	}
	defer func() { _ = db.Client().Disconnect(context.Background()) }()

	if err := mongodb.EnsureIndexes(ctx, db); err != nil {
		return err
	}
	log.Infow("ensured indexes", "database", cfg.Mongo.Database)
	return nil
}
