package config

import (
	"context"
	"time"

	"github.com/pkg/errors"
	"go.mongodb.org/mongo-driver/v2/mongo"
	"go.mongodb.org/mongo-driver/v2/mongo/options"
	"go.uber.org/zap"
	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"pos-api/store"
	"pos-api/store/gormstore"
	"pos-api/store/memory"
	"pos-api/store/mongostore"
)

// ConnectDatabase opens a gorm handle for the relational drivers.
func ConnectDatabase(cfg StoreConfig, production bool) (*gorm.DB, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	default:
		return nil, errors.Errorf("driver %q is not relational", cfg.Driver)
	}

	level := logger.Info
	if production {
		level = logger.Warn
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		Logger:         logger.Default.LogMode(level),
		TranslateError: true,
	})
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", cfg.Driver)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, errors.Wrap(err, "get sql.DB")
	}
	sqlDB.SetMaxOpenConns(50)
	sqlDB.SetMaxIdleConns(10)
	sqlDB.SetConnMaxLifetime(30 * time.Minute)
	return db, nil
}

// ConnectMongo dials the document store and checks it answers.
func ConnectMongo(ctx context.Context, cfg StoreConfig) (*mongo.Client, error) {
	client, err := mongo.Connect(options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, errors.Wrap(err, "connect mongo")
	}
	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := client.Ping(pingCtx, nil); err != nil {
		_ = client.Disconnect(context.Background())
		return nil, errors.Wrap(err, "ping mongo")
	}
	return client, nil
}

// OpenStore returns the backend selected by STORE_DRIVER.
func OpenStore(ctx context.Context, cfg *Config) (store.Store, error) {
	switch cfg.Store.Driver {
	case "memory":
		zap.S().Warn("using in-memory store, data is lost on restart")
		return memory.New(), nil
	case "mysql", "postgres":
		db, err := ConnectDatabase(cfg.Store, cfg.IsProduction())
		if err != nil {
			return nil, err
		}
		zap.S().Infof("database connection successful, type: %s", cfg.Store.Driver)
		return gormstore.New(db), nil
	case "mongo":
		client, err := ConnectMongo(ctx, cfg.Store)
		if err != nil {
			return nil, err
		}
		zap.S().Infof("mongo connection successful, database: %s", cfg.Store.MongoDatabase)
		return mongostore.New(client, cfg.Store.MongoDatabase), nil
	default:
		return nil, errors.Errorf("unknown STORE_DRIVER %q", cfg.Store.Driver)
	}
}
